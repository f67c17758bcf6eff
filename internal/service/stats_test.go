package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatsService_GetStats(t *testing.T) {
	s := seededStorage(t)
	orders := service.NewOrderService(discardLogger(), s, s, nil)
	svc := service.NewStatsService(discardLogger(), orders, s)
	ctx := context.Background()

	stats, err := svc.GetStats(ctx, merchantPrincipal)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.PaidOrders)
	assert.Equal(t, 0, stats.FailedOrders)
	assert.True(t, decimal.NewFromInt(1500).Equal(stats.Revenue), "revenue is %s", stats.Revenue)
	assert.True(t, decimal.NewFromInt(45).Equal(stats.Commission), "commission is %s", stats.Commission)

	_, err = s.UpdateOrderStatus(ctx, "order-1", models.StatusFailed)
	assert.NoError(t, err)

	stats, err = svc.GetStats(ctx, adminPrincipal)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.PendingOrders)
	assert.Equal(t, 1, stats.FailedOrders)
	assert.True(t, decimal.NewFromInt(1500).Equal(stats.Revenue))
}

func TestStatsService_EmptyForStranger(t *testing.T) {
	s := seededStorage(t)
	orders := service.NewOrderService(discardLogger(), s, s, nil)
	svc := service.NewStatsService(discardLogger(), orders, s)

	stats, err := svc.GetStats(context.Background(), strangerPrincipal)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TotalOrders)
	assert.True(t, stats.Revenue.IsZero())
}

func TestStatsResponse_MoneyAsJSONNumbers(t *testing.T) {
	s := seededStorage(t)
	orders := service.NewOrderService(discardLogger(), s, s, nil)
	svc := service.NewStatsService(discardLogger(), orders, s)

	stats, err := svc.GetStats(context.Background(), adminPrincipal)
	assert.NoError(t, err)

	b, err := json.Marshal(stats)
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"revenue":1500`)
	assert.Contains(t, string(b), `"commission":45`)

	var decoded service.StatsResponse
	assert.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, stats.Revenue.Equal(decoded.Revenue))
}
