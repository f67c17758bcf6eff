package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/service"
)

// PaymentConfigRequest — тело PUT /api/merchants/{id}/payment-config.
// Нужен подконфиг выбранного способа, остальные игнорируются.
type PaymentConfigRequest struct {
	Method string               `json:"method" validate:"required,oneof=mobile card bank"`
	Mobile *models.MobileConfig `json:"mobile,omitempty"`
	Card   *models.CardConfig   `json:"card,omitempty"`
	Bank   *models.BankConfig   `json:"bank,omitempty"`
}

// ListMerchantsHandler обрабатывает GET /api/merchants (только администратор)
func ListMerchantsHandler(log *slog.Logger, merchantService service.MerchantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListMerchantsHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		merchants, err := merchantService.ListMerchants(r.Context(), p)
		if err != nil {
			writeError(w, logger, err, "failed to list merchants")
			return
		}
		writeJSON(w, logger, http.StatusOK, merchants)
	}
}

// GetMerchantHandler обрабатывает GET /api/merchants/{id}
func GetMerchantHandler(log *slog.Logger, merchantService service.MerchantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetMerchantHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		merchant, err := merchantService.GetMerchant(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, logger, err, "failed to get merchant")
			return
		}
		writeJSON(w, logger, http.StatusOK, merchant)
	}
}

// UpdatePaymentConfigHandler обрабатывает PUT /api/merchants/{id}/payment-config
func UpdatePaymentConfigHandler(log *slog.Logger, merchantService service.MerchantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePaymentConfigHandler"
		id := chi.URLParam(r, "id")
		logger := log.With(slog.String("op", op), slog.String("merchantID", id))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		var req PaymentConfigRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		merchant, err := merchantService.UpdatePaymentConfig(r.Context(), p, id, service.PaymentConfigInput{
			Method: models.PaymentMethod(req.Method),
			Mobile: req.Mobile,
			Card:   req.Card,
			Bank:   req.Bank,
		})
		if err != nil {
			writeError(w, logger, err, "failed to update payment configuration")
			return
		}
		writeJSON(w, logger, http.StatusOK, merchant)
	}
}
