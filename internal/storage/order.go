package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/linemk/ghala/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByMerchant(ctx context.Context, merchantID string) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// SaveOrder вставляет заказ или заменяет его целиком.
	SaveOrder(ctx context.Context, order *models.Order) error
	// UpdateOrderStatus единственный меняет заказ частично.
	// Для неизвестного id ничего не делает и возвращает nil, nil.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	// ResetOrder возвращает заказ из failed в pending.
	ResetOrder(ctx context.Context, id string) (*models.Order, error)
}

var _ OrderStorage = (*Storage)(nil)

func orderID(o *models.Order) string { return o.ID }

func (s *Storage) ListOrders(ctx context.Context) ([]models.Order, error) {
	return loadCollection[models.Order](ctx, s.kv, KeyOrders)
}

func (s *Storage) ListOrdersByMerchant(ctx context.Context, merchantID string) ([]models.Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.MerchantID == merchantID {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (s *Storage) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	order, ok := findRecord(orders, func(o *models.Order) bool { return o.ID == id })
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *Storage) SaveOrder(ctx context.Context, order *models.Order) error {
	if !order.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, order.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertRecords(ctx, s.kv, KeyOrders, orderID, *order)
}

func (s *Storage) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	return s.mutateOrder(ctx, id, func(o *models.Order) error {
		if !o.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, o.Status, status)
		}
		now := s.now()
		o.Status = status
		o.UpdatedAt = now
		if status == models.StatusPaid {
			o.PaymentConfirmedAt = &now
		}
		return nil
	})
}

func (s *Storage) ResetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.mutateOrder(ctx, id, func(o *models.Order) error {
		if o.Status != models.StatusFailed {
			return fmt.Errorf("%w: only failed orders can be reset, got %s", models.ErrInvalidTransition, o.Status)
		}
		o.Status = models.StatusPending
		o.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// mutateOrder применяет fn к заказу и сохраняет коллекцию. Если заказа нет, возвращает nil, nil.
func (s *Storage) mutateOrder(ctx context.Context, id string, fn func(o *models.Order) error) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := loadCollection[models.Order](ctx, s.kv, KeyOrders)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if err := fn(&orders[i]); err != nil {
			return nil, err
		}
		if err := saveCollection(ctx, s.kv, KeyOrders, orders); err != nil {
			return nil, err
		}
		updated := orders[i]
		return &updated, nil
	}
	return nil, nil
}
