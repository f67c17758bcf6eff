package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/ghala/internal/config"
	"github.com/linemk/ghala/internal/lib/metrics"
	"github.com/linemk/ghala/internal/service"
	"github.com/linemk/ghala/internal/storage"
	"github.com/linemk/ghala/internal/storage/kv"
	"golang.org/x/crypto/bcrypt"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB // nil для драйвера memory
	Storage   *storage.Storage
	Metrics   *metrics.Metrics
	Simulator *service.PaymentSimulator
	Router    http.Handler
}

// NewApp создаёт новый экземпляр App: открывает хранилище выбранного драйвера,
// заполняет демо-данными и собирает сервисы.
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	var (
		store kv.Store
		db    *sql.DB
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		var err error
		db, err = openDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		store = kv.NewPostgres(db)
	default:
		store = kv.NewMemory()
	}

	app, err := NewWithStore(ctx, log, cfg, store)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}
	app.DB = db
	return app, nil
}

// NewWithStore собирает приложение поверх готового key-value хранилища.
func NewWithStore(ctx context.Context, log *slog.Logger, cfg *config.Config, store kv.Store) (*App, error) {
	st := storage.New(store, time.Now)
	if !cfg.Storage.SkipSeed {
		if err := st.InitializeSampleData(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed sample data: %w", err)
		}
		log.Info("sample data initialized")
	}

	verifier, err := service.NewSharedPasswordVerifier(cfg.Auth.DemoPassword, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential verifier: %w", err)
	}

	m := metrics.New()
	authService := service.NewAuthService(log, st, st, verifier, cfg.JWT.Secret, time.Duration(cfg.JWT.TokenTTL)*time.Minute)
	orderService := service.NewOrderService(log, st, st, m)
	merchantService := service.NewMerchantService(log, st)
	statsService := service.NewStatsService(log, orderService, st)
	simulator := service.NewPaymentSimulator(log, st, service.RandomOutcome(cfg.Simulator.SuccessRate), cfg.Simulator.Delay, m)

	router := NewRouter(log, cfg.JWT.Secret, m, Services{
		Auth:      authService,
		Orders:    orderService,
		Merchants: merchantService,
		Stats:     statsService,
		Simulator: simulator,
	})

	return &App{
		Config:    cfg,
		Logger:    log,
		Storage:   st,
		Metrics:   m,
		Simulator: simulator,
		Router:    router,
	}, nil
}

// Close дожидается запланированных подтверждений оплаты и закрывает БД.
func (a *App) Close(ctx context.Context) error {
	waitErr := a.Simulator.Wait(ctx)
	if waitErr != nil {
		a.Logger.Warn("pending payment confirmations dropped", slog.Any("error", waitErr))
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return waitErr
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	// реализуем подключение к БД через DSN
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
