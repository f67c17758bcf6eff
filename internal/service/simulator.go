package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/lib/metrics"
	"github.com/linemk/ghala/internal/storage"
)

// OutcomeProvider решает, чем закончится симуляция оплаты: paid или failed.
type OutcomeProvider interface {
	Outcome() models.OrderStatus
}

// OutcomeFunc позволяет использовать функцию как OutcomeProvider.
type OutcomeFunc func() models.OrderStatus

func (f OutcomeFunc) Outcome() models.OrderStatus { return f() }

// RandomOutcome возвращает paid с вероятностью successRate, иначе failed.
func RandomOutcome(successRate float64) OutcomeProvider {
	return OutcomeFunc(func() models.OrderStatus {
		if rand.Float64() < successRate {
			return models.StatusPaid
		}
		return models.StatusFailed
	})
}

type Simulator interface {
	Simulate(ctx context.Context, p models.Principal, orderID string) error
	IsProcessing(orderID string) bool
}

// PaymentSimulator имитирует колбэк платёжного шлюза: через фиксированную задержку
// переводит заказ из pending в paid или failed. Запущенную симуляцию отменить нельзя.
type PaymentSimulator struct {
	log     *slog.Logger
	orders  storage.OrderStorage
	outcome OutcomeProvider
	delay   time.Duration
	metrics *metrics.Metrics

	mu         sync.Mutex
	processing map[string]struct{} // не сохраняется в хранилище
	pending    int
	idle       chan struct{} // закрывается, когда pending падает до нуля
}

var _ Simulator = (*PaymentSimulator)(nil)

func NewPaymentSimulator(log *slog.Logger, orders storage.OrderStorage, outcome OutcomeProvider, delay time.Duration, m *metrics.Metrics) *PaymentSimulator {
	return &PaymentSimulator{
		log:        log,
		orders:     orders,
		outcome:    outcome,
		delay:      delay,
		metrics:    m,
		processing: make(map[string]struct{}),
	}
}

// Simulate планирует подтверждение оплаты. Доступно только для заказа в статусе pending.
func (s *PaymentSimulator) Simulate(ctx context.Context, p models.Principal, orderID string) error {
	const op = "service.PaymentSimulator.Simulate"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", orderID))

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			logger.Error("failed to get order", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if !p.CanAccessMerchant(order.MerchantID) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if order.Status != models.StatusPending {
		return fmt.Errorf("%s: %w: status is %s", op, ErrOrderNotPending, order.Status)
	}

	s.mu.Lock()
	if _, busy := s.processing[orderID]; busy {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrAlreadyProcessing)
	}
	s.processing[orderID] = struct{}{}
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.mu.Unlock()

	s.metrics.SimulationStarted()
	logger.Info("payment confirmation scheduled", slog.Duration("delay", s.delay))

	// запрос закончится раньше, чем сработает таймер
	bg := context.WithoutCancel(ctx)
	time.AfterFunc(s.delay, func() {
		defer s.release(orderID)
		s.confirm(bg, orderID)
	})
	return nil
}

func (s *PaymentSimulator) confirm(ctx context.Context, orderID string) {
	const op = "service.PaymentSimulator.confirm"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", orderID))

	status := s.outcome.Outcome()
	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		logger.Error("failed to update order status", slog.String("status", string(status)), slog.Any("error", err))
		s.metrics.SimulationFinished("error")
		return
	}
	if updated == nil {
		logger.Warn("order disappeared before confirmation")
		s.metrics.SimulationFinished("missing")
		return
	}

	s.metrics.SimulationFinished(string(status))
	if status == models.StatusPaid {
		logger.Info("payment confirmed")
	} else {
		logger.Warn("payment failed")
	}
}

func (s *PaymentSimulator) release(orderID string) {
	s.mu.Lock()
	delete(s.processing, orderID)
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
	s.mu.Unlock()
}

// IsProcessing сообщает, ждёт ли заказ результата симуляции.
func (s *PaymentSimulator) IsProcessing(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.processing[orderID]
	return ok
}

// Wait блокируется, пока не завершатся все запланированные подтверждения, или до отмены ctx.
func (s *PaymentSimulator) Wait(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == 0 {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
