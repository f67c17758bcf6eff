package service_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/lib/metrics"
	"github.com/linemk/ghala/internal/service"
	"github.com/linemk/ghala/internal/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func fixedOutcome(status models.OrderStatus) service.OutcomeProvider {
	return service.OutcomeFunc(func() models.OrderStatus { return status })
}

func waitSimulator(t *testing.T, sim *service.PaymentSimulator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, sim.Wait(ctx))
}

func TestPaymentSimulator_ForcedFailure(t *testing.T) {
	s := seededStorage(t)
	m := metrics.New()
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusFailed), 50*time.Millisecond, m)
	ctx := context.Background()

	before, err := s.GetOrderByID(ctx, "order-1")
	assert.NoError(t, err)

	assert.NoError(t, sim.Simulate(ctx, merchantPrincipal, "order-1"))
	assert.True(t, sim.IsProcessing("order-1"), "order should be processing until the delay elapses")

	waitSimulator(t, sim)
	assert.False(t, sim.IsProcessing("order-1"))

	after, err := s.GetOrderByID(ctx, "order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusFailed, after.Status)
	assert.Nil(t, after.PaymentConfirmedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updatedAt should change")

	count, err := testutil.GatherAndCount(m.Registry(), "payment_simulations_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPaymentSimulator_ForcedSuccess(t *testing.T) {
	s := seededStorage(t)
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusPaid), time.Millisecond, nil)
	ctx := context.Background()

	assert.NoError(t, sim.Simulate(ctx, adminPrincipal, "order-1"))
	waitSimulator(t, sim)

	after, err := s.GetOrderByID(ctx, "order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, after.Status)
	if assert.NotNil(t, after.PaymentConfirmedAt) {
		assert.False(t, after.PaymentConfirmedAt.Before(after.CreatedAt))
	}
}

func TestPaymentSimulator_SurvivesCanceledRequestContext(t *testing.T) {
	s := seededStorage(t)
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusPaid), 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, sim.Simulate(ctx, adminPrincipal, "order-1"))
	cancel()
	waitSimulator(t, sim)

	after, err := s.GetOrderByID(context.Background(), "order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, after.Status)
}

func TestPaymentSimulator_Rejections(t *testing.T) {
	s := seededStorage(t)
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusPaid), 50*time.Millisecond, nil)
	ctx := context.Background()

	err := sim.Simulate(ctx, adminPrincipal, "order-2")
	assert.True(t, errors.Is(err, service.ErrOrderNotPending), "paid order cannot be simulated")

	err = sim.Simulate(ctx, adminPrincipal, "order-404")
	assert.True(t, errors.Is(err, storage.ErrOrderNotFound))

	err = sim.Simulate(ctx, strangerPrincipal, "order-1")
	assert.True(t, errors.Is(err, service.ErrForbidden))

	assert.NoError(t, sim.Simulate(ctx, adminPrincipal, "order-1"))
	err = sim.Simulate(ctx, adminPrincipal, "order-1")
	assert.True(t, errors.Is(err, service.ErrAlreadyProcessing))

	waitSimulator(t, sim)
}

func TestPaymentSimulator_WaitHonorsContext(t *testing.T) {
	s := seededStorage(t)
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusPaid), time.Second, nil)

	assert.NoError(t, sim.Simulate(context.Background(), adminPrincipal, "order-1"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sim.Wait(ctx), context.DeadlineExceeded)
}

func TestPaymentSimulator_ExpiredWaitLeavesNoGoroutines(t *testing.T) {
	s := seededStorage(t)
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusPaid), 200*time.Millisecond, nil)

	assert.NoError(t, sim.Simulate(context.Background(), adminPrincipal, "order-1"))

	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sim.Wait(ctx), context.Canceled)
	}
	assert.Less(t, runtime.NumGoroutine()-before, 5, "expired waits must not keep goroutines blocked")

	// после отменённых ожиданий обычный Wait всё ещё дожидается подтверждения
	waitSimulator(t, sim)
	assert.False(t, sim.IsProcessing("order-1"))
}

func TestPaymentSimulator_WaitWhenIdle(t *testing.T) {
	s := seededStorage(t)
	sim := service.NewPaymentSimulator(discardLogger(), s, fixedOutcome(models.StatusPaid), time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, sim.Wait(ctx), "nothing scheduled, so Wait returns at once")

	// два цикла подряд: канал ожидания создаётся заново
	assert.NoError(t, sim.Simulate(context.Background(), adminPrincipal, "order-1"))
	waitSimulator(t, sim)
	_, err := s.ResetOrder(context.Background(), "order-1")
	assert.Error(t, err, "paid order cannot be reset")

	order := &models.Order{ID: "order-3", MerchantID: "merchant-1", Status: models.StatusPending, PaymentMethod: models.PaymentMobile, Quantity: 1}
	assert.NoError(t, s.SaveOrder(context.Background(), order))
	assert.NoError(t, sim.Simulate(context.Background(), adminPrincipal, "order-3"))
	waitSimulator(t, sim)

	after, err := s.GetOrderByID(context.Background(), "order-3")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, after.Status)
}

func TestRandomOutcome(t *testing.T) {
	always := service.RandomOutcome(1)
	never := service.RandomOutcome(0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, models.StatusPaid, always.Outcome())
		assert.Equal(t, models.StatusFailed, never.Outcome())
	}
}
