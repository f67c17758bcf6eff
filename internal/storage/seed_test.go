package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/storage"
	"github.com/linemk/ghala/internal/storage/kv"
	"github.com/stretchr/testify/assert"
)

func TestInitializeSampleData_Seeds(t *testing.T) {
	clock := newFakeClock()
	s := storage.New(kv.NewMemory(), clock.Now)
	ctx := context.Background()

	assert.NoError(t, s.InitializeSampleData(ctx))

	users, err := s.ListUsers(ctx)
	assert.NoError(t, err)
	if assert.Len(t, users, 2) {
		assert.Equal(t, "admin-1", users[0].ID)
		assert.Equal(t, models.RoleAdmin, users[0].Role)
		assert.Equal(t, "merchant-1", users[1].ID)
		assert.Equal(t, "merchant-1", users[1].MerchantID)
	}

	merchants, err := s.ListMerchants(ctx)
	assert.NoError(t, err)
	if assert.Len(t, merchants, 1) {
		m := merchants[0]
		assert.Equal(t, "merchant-1", m.ID)
		assert.Equal(t, models.PaymentMobile, m.PreferredPaymentMethod)
		if assert.NotNil(t, m.PaymentConfig.Mobile) {
			assert.Equal(t, "M-Pesa", m.PaymentConfig.Mobile.Provider)
		}
		assert.Equal(t, 0.03, m.CommissionRate)
	}

	orders, err := s.ListOrders(ctx)
	assert.NoError(t, err)
	if assert.Len(t, orders, 2) {
		assert.Equal(t, "order-1", orders[0].ID)
		assert.Equal(t, models.StatusPending, orders[0].Status)
		assert.Nil(t, orders[0].PaymentConfirmedAt)
		assert.True(t, orders[0].CreatedAt.Equal(clock.Now().Add(-time.Hour)))

		assert.Equal(t, "order-2", orders[1].ID)
		assert.Equal(t, models.StatusPaid, orders[1].Status)
		if assert.NotNil(t, orders[1].PaymentConfirmedAt) {
			assert.True(t, orders[1].PaymentConfirmedAt.Before(clock.Now()))
		}
	}
}

func TestInitializeSampleData_Idempotent(t *testing.T) {
	clock := newFakeClock()
	s := storage.New(kv.NewMemory(), clock.Now)
	ctx := context.Background()

	assert.NoError(t, s.InitializeSampleData(ctx))
	users1, _ := s.ListUsers(ctx)
	merchants1, _ := s.ListMerchants(ctx)
	orders1, _ := s.ListOrders(ctx)

	clock.Advance(time.Hour)
	assert.NoError(t, s.InitializeSampleData(ctx))
	users2, _ := s.ListUsers(ctx)
	merchants2, _ := s.ListMerchants(ctx)
	orders2, _ := s.ListOrders(ctx)

	assert.Equal(t, users1, users2)
	assert.Equal(t, merchants1, merchants2)
	assert.Equal(t, orders1, orders2)
}

func TestInitializeSampleData_SkipsWhenUsersExist(t *testing.T) {
	s := storage.New(kv.NewMemory(), nil)
	ctx := context.Background()

	assert.NoError(t, s.SaveUser(ctx, &models.User{ID: "u-1", Email: "u@example.com", Role: models.RoleAdmin}))
	assert.NoError(t, s.InitializeSampleData(ctx))

	orders, err := s.ListOrders(ctx)
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestInitializeSampleData_RetryAfterPartialFailure(t *testing.T) {
	store := &failingStore{Memory: kv.NewMemory(), failKey: storage.KeyMerchants}
	s := storage.New(store, newFakeClock().Now)
	ctx := context.Background()

	assert.Error(t, s.InitializeSampleData(ctx))

	users, err := s.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Empty(t, users, "users must not be stored when seeding failed")

	store.failKey = ""
	assert.NoError(t, s.InitializeSampleData(ctx))

	users, err = s.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	merchants, err := s.ListMerchants(ctx)
	assert.NoError(t, err)
	assert.Len(t, merchants, 1)
	orders, err := s.ListOrders(ctx)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestInitializeSampleData_RetryAfterOrdersFailure(t *testing.T) {
	store := &failingStore{Memory: kv.NewMemory(), failKey: storage.KeyOrders}
	s := storage.New(store, newFakeClock().Now)
	ctx := context.Background()

	assert.Error(t, s.InitializeSampleData(ctx))

	store.failKey = ""
	assert.NoError(t, s.InitializeSampleData(ctx))

	merchants, err := s.ListMerchants(ctx)
	assert.NoError(t, err)
	assert.Len(t, merchants, 1, "merchant written by the failed call is replaced, not duplicated")
	orders, err := s.ListOrders(ctx)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
}
