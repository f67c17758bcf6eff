package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ghala/internal/service"
	"github.com/linemk/ghala/internal/storage"
)

var validate = validator.New()

// MessageResponse — ответ без данных
type MessageResponse struct {
	Message string `json:"message"`
}

// errorStatuses сопоставляет доменные ошибки с HTTP статусами.
// Текст ответа совпадает с текстом sentinel-ошибки.
var errorStatuses = []struct {
	target error
	status int
}{
	{storage.ErrOrderNotFound, http.StatusNotFound},
	{storage.ErrMerchantNotFound, http.StatusNotFound},
	{storage.ErrUserNotFound, http.StatusNotFound},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{storage.ErrNoSession, http.StatusUnauthorized},
	{models.ErrInvalidTransition, http.StatusConflict},
	{service.ErrOrderNotPending, http.StatusConflict},
	{service.ErrAlreadyProcessing, http.StatusConflict},
	{service.ErrInvalidOrder, http.StatusBadRequest},
	{service.ErrInvalidPaymentInput, http.StatusBadRequest},
	{models.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{models.ErrInvalidStatus, http.StatusBadRequest},
}

// writeError отвечает статусом по типу ошибки. Неизвестные ошибки отдаются
// как 500 с сообщением fallback, детали остаются только в логе.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			logger.Warn("request rejected", slog.Int("status", e.status), slog.Any("error", err))
			http.Error(w, e.target.Error(), e.status)
			return
		}
	}
	logger.Error(fallback, slog.Any("error", err))
	http.Error(w, fallback, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// decodeAndValidate читает JSON тело и проверяет его тегами validate.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Error("invalid request: decoding error", slog.Any("error", err))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		logger.Error("invalid request: validation error", slog.Any("error", err))
		http.Error(w, "validation error", http.StatusBadRequest)
		return false
	}
	return true
}

func principalFrom(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (models.Principal, bool) {
	p, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		logger.Error("principal not found in context")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return p, ok
}
