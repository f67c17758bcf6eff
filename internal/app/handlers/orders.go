package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/service"
)

// CreateOrderRequest — тело POST /api/orders. merchantId обязателен только для администратора.
type CreateOrderRequest struct {
	MerchantID    string  `json:"merchantId"`
	CustomerName  string  `json:"customerName" validate:"required"`
	CustomerPhone string  `json:"customerPhone" validate:"required"`
	Product       string  `json:"product" validate:"required"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
	TotalAmount   float64 `json:"totalAmount" validate:"gte=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"omitempty,oneof=mobile card bank"`
}

// OrderResponse — заказ вместе с признаком незавершённой симуляции оплаты
type OrderResponse struct {
	models.Order
	Processing bool `json:"processing"`
}

// SimulateResponse — ответ на запуск симуляции
type SimulateResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func toOrderResponse(o models.Order, sim service.Simulator) OrderResponse {
	return OrderResponse{Order: o, Processing: sim.IsProcessing(o.ID)}
}

// ListOrdersHandler обрабатывает GET /api/orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService, sim service.Simulator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		orders, err := orderService.ListOrders(r.Context(), p)
		if err != nil {
			writeError(w, logger, err, "failed to list orders")
			return
		}

		resp := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, toOrderResponse(o, sim))
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// CreateOrderHandler обрабатывает POST /api/orders
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		var req CreateOrderRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		order, err := orderService.CreateOrder(r.Context(), p, service.CreateOrderInput{
			MerchantID:    req.MerchantID,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Product:       req.Product,
			Quantity:      req.Quantity,
			TotalAmount:   req.TotalAmount,
			PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			writeError(w, logger, err, "failed to create order")
			return
		}
		writeJSON(w, logger, http.StatusCreated, order)
	}
}

// GetOrderHandler обрабатывает GET /api/orders/{id}
func GetOrderHandler(log *slog.Logger, orderService service.OrderService, sim service.Simulator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		order, err := orderService.GetOrder(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, logger, err, "failed to get order")
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponse(*order, sim))
	}
}

// SimulatePaymentHandler обрабатывает POST /api/orders/{id}/simulate.
// Подтверждение приходит позже, поэтому ответ 202.
func SimulatePaymentHandler(log *slog.Logger, sim service.Simulator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SimulatePaymentHandler"
		id := chi.URLParam(r, "id")
		logger := log.With(slog.String("op", op), slog.String("orderID", id))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		if err := sim.Simulate(r.Context(), p, id); err != nil {
			writeError(w, logger, err, "failed to simulate payment")
			return
		}
		writeJSON(w, logger, http.StatusAccepted, SimulateResponse{OrderID: id, Status: "processing"})
	}
}

// RetryOrderHandler обрабатывает POST /api/orders/{id}/retry
func RetryOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RetryOrderHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		order, err := orderService.RetryOrder(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, logger, err, "failed to retry order")
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}
