package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/lib/metrics"
	"github.com/linemk/ghala/internal/storage"
)

// CreateOrderInput — данные формы создания заказа
type CreateOrderInput struct {
	MerchantID    string
	CustomerName  string
	CustomerPhone string
	Product       string
	Quantity      int
	TotalAmount   float64
	PaymentMethod models.PaymentMethod // если пусто, берётся предпочтительный способ мерчанта
}

type OrderService interface {
	CreateOrder(ctx context.Context, p models.Principal, in CreateOrderInput) (*models.Order, error)
	ListOrders(ctx context.Context, p models.Principal) ([]models.Order, error)
	GetOrder(ctx context.Context, p models.Principal, id string) (*models.Order, error)
	RetryOrder(ctx context.Context, p models.Principal, id string) (*models.Order, error)
}

type orderService struct {
	log          *slog.Logger
	orderRepo    storage.OrderStorage
	merchantRepo storage.MerchantStorage
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, merchantRepo storage.MerchantStorage, m *metrics.Metrics) OrderService {
	return &orderService{
		log:          log,
		orderRepo:    orderRepo,
		merchantRepo: merchantRepo,
		metrics:      m,
		now:          time.Now,
	}
}

// newOrderID формирует id вида order-<unix ms>-<8 hex>
func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("order-%d-%s", now.UnixMilli(), suffix)
}

// CreateOrder создаёт заказ в статусе pending.
// Мерчант может создавать заказы только для себя, администратор для любого существующего мерчанта.
func (s *orderService) CreateOrder(ctx context.Context, p models.Principal, in CreateOrderInput) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.String("userID", p.UserID))

	merchantID := in.MerchantID
	if !p.IsAdmin() {
		if merchantID == "" {
			merchantID = p.MerchantID
		}
		if !p.CanAccessMerchant(merchantID) {
			logger.Warn("merchant tried to create order for another merchant", slog.String("merchantID", merchantID))
			return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
	}

	if merchantID == "" || in.CustomerName == "" || in.CustomerPhone == "" || in.Product == "" {
		return nil, fmt.Errorf("%s: %w: missing required fields", op, ErrInvalidOrder)
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%s: %w: quantity must be positive", op, ErrInvalidOrder)
	}
	if in.TotalAmount < 0 {
		return nil, fmt.Errorf("%s: %w: total amount must not be negative", op, ErrInvalidOrder)
	}

	merchant, err := s.merchantRepo.GetMerchantByID(ctx, merchantID)
	if err != nil {
		logger.Error("failed to get merchant", slog.String("merchantID", merchantID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get merchant: %w", op, err)
	}

	method := in.PaymentMethod
	if method == "" {
		method = merchant.PreferredPaymentMethod
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, models.ErrInvalidPaymentMethod, method)
	}

	now := s.now()
	order := &models.Order{
		ID:            newOrderID(now),
		MerchantID:    merchant.ID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Product:       in.Product,
		Quantity:      in.Quantity,
		TotalAmount:   in.TotalAmount,
		Status:        models.StatusPending,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		logger.Error("failed to save order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save order: %w", op, err)
	}
	s.metrics.OrderCreated(string(method))

	logger.Info("order created", slog.String("orderID", order.ID), slog.String("merchantID", order.MerchantID))
	return order, nil
}

// ListOrders: администратор видит все заказы, мерчант только свои.
func (s *orderService) ListOrders(ctx context.Context, p models.Principal) ([]models.Order, error) {
	const op = "service.OrderService.ListOrders"

	var (
		orders []models.Order
		err    error
	)
	if p.IsAdmin() {
		orders, err = s.orderRepo.ListOrders(ctx)
	} else {
		if p.MerchantID == "" {
			return []models.Order{}, nil
		}
		orders, err = s.orderRepo.ListOrdersByMerchant(ctx, p.MerchantID)
	}
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, p models.Principal, id string) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			s.log.Error("failed to get order", slog.String("op", op), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !p.CanAccessMerchant(order.MerchantID) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	return order, nil
}

// RetryOrder возвращает неуспешный заказ в pending, чтобы оплату можно было подтвердить снова.
func (s *orderService) RetryOrder(ctx context.Context, p models.Principal, id string) (*models.Order, error) {
	const op = "service.OrderService.RetryOrder"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id))

	if _, err := s.GetOrder(ctx, p, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orderRepo.ResetOrder(ctx, id)
	if err != nil {
		logger.Warn("failed to reset order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order reset to pending")
	return order, nil
}
