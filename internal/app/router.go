package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/ghala/internal/app/handlers"
	"github.com/linemk/ghala/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ghala/internal/lib/logger/handlers/urllog"
	"github.com/linemk/ghala/internal/lib/metrics"
	"github.com/linemk/ghala/internal/service"
)

// Services — зависимости HTTP слоя
type Services struct {
	Auth      service.AuthServiceInterface
	Orders    service.OrderService
	Merchants service.MerchantService
	Stats     service.StatsService
	Simulator service.Simulator
}

// NewRouter регистрирует все эндпоинты API
func NewRouter(log *slog.Logger, jwtSecret string, m *metrics.Metrics, svc Services) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(m.Middleware)

	router.Handle("/metrics", m.Handler())

	// эндпоинт для входа
	router.Post("/api/auth/login", handlers.LoginHandler(log, svc.Auth))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret))

		r.Post("/api/auth/logout", handlers.LogoutHandler(log, svc.Auth))
		r.Get("/api/me", handlers.MeHandler(log, svc.Auth))

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", handlers.ListOrdersHandler(log, svc.Orders, svc.Simulator))
			r.Post("/", handlers.CreateOrderHandler(log, svc.Orders))
			r.Get("/{id}", handlers.GetOrderHandler(log, svc.Orders, svc.Simulator))
			// подтверждение оплаты приходит через настроенную задержку
			r.Post("/{id}/simulate", handlers.SimulatePaymentHandler(log, svc.Simulator))
			r.Post("/{id}/retry", handlers.RetryOrderHandler(log, svc.Orders))
		})

		r.Route("/api/merchants", func(r chi.Router) {
			r.Get("/", handlers.ListMerchantsHandler(log, svc.Merchants))
			r.Get("/{id}", handlers.GetMerchantHandler(log, svc.Merchants))
			r.Put("/{id}/payment-config", handlers.UpdatePaymentConfigHandler(log, svc.Merchants))
		})

		r.Get("/api/stats", handlers.StatsHandler(log, svc.Stats))
	})

	return router
}
