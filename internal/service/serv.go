package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/ghala/internal/domain/models"
	security "github.com/linemk/ghala/internal/jwt-new"
	"github.com/linemk/ghala/internal/storage"
)

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	sessions  storage.SessionStorage
	verifier  CredentialVerifier
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(
	log *slog.Logger,
	userRepo storage.UserStorage,
	sessions storage.SessionStorage,
	verifier CredentialVerifier,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		sessions:  sessions,
		verifier:  verifier,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

var _ AuthServiceInterface = (*AuthService)(nil)

// Login ищет пользователя по email и проверяет секрет через CredentialVerifier.
// При успехе сохраняет маркер сессии и выдаёт JWT. При неудаче сессия не сохраняется.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := a.verifier.Verify(ctx, user, password); err != nil {
		logger.Warn("invalid password")
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	if err := a.sessions.SetCurrentUser(ctx, user); err != nil {
		logger.Error("failed to store session", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to store session: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.String("userID", user.ID))
	return token, user, nil
}

func (a *AuthService) Logout(ctx context.Context) error {
	const op = "service.AuthService.Logout"

	if err := a.sessions.ClearCurrentUser(ctx); err != nil {
		a.log.Error("failed to clear session", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	a.log.Info("user logged out", slog.String("op", op))
	return nil
}

func (a *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	const op = "service.AuthService.CurrentUser"

	user, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
