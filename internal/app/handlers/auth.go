package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/service"
	"github.com/linemk/ghala/internal/storage"
)

// LoginRequest представляет структуру запроса для входа с тегами валидации
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse содержит JWT-токен и вошедшего пользователя
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginHandler обрабатывает POST /api/auth/login
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		token, user, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, logger, err, "failed to log in")
			return
		}

		writeJSON(w, logger, http.StatusOK, LoginResponse{Token: token, User: user})
	}
}

// LogoutHandler обрабатывает POST /api/auth/logout
func LogoutHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LogoutHandler"
		logger := log.With(slog.String("op", op))

		if err := authService.Logout(r.Context()); err != nil {
			writeError(w, logger, err, "failed to log out")
			return
		}
		writeJSON(w, logger, http.StatusOK, MessageResponse{Message: "logged out"})
	}
}

// MeHandler обрабатывает GET /api/me: возвращает пользователя из маркера сессии.
// Маркер один на хранилище, поэтому он должен принадлежать владельцу токена.
func MeHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MeHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		user, err := authService.CurrentUser(r.Context())
		if err != nil {
			writeError(w, logger, err, "failed to get current user")
			return
		}
		if user.ID != p.UserID {
			logger.Warn("session belongs to another user",
				slog.String("userID", p.UserID),
				slog.String("sessionUserID", user.ID),
			)
			http.Error(w, storage.ErrNoSession.Error(), http.StatusUnauthorized)
			return
		}
		writeJSON(w, logger, http.StatusOK, user)
	}
}
