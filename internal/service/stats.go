package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/storage"
	"github.com/shopspring/decimal"
)

// суммы в ответах отдаются числами, а не строками
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// StatsService считает показатели дашборда по видимым пользователю заказам.
type StatsService interface {
	GetStats(ctx context.Context, p models.Principal) (*StatsResponse, error)
}

type StatsResponse struct {
	TotalOrders   int             `json:"totalOrders"`
	PendingOrders int             `json:"pendingOrders"`
	PaidOrders    int             `json:"paidOrders"`
	FailedOrders  int             `json:"failedOrders"`
	Revenue       decimal.Decimal `json:"revenue"`    // сумма оплаченных заказов
	Commission    decimal.Decimal `json:"commission"` // revenue с учётом ставки каждого мерчанта
}

type statsService struct {
	log          *slog.Logger
	orders       OrderService
	merchantRepo storage.MerchantStorage
}

func NewStatsService(log *slog.Logger, orders OrderService, merchantRepo storage.MerchantStorage) StatsService {
	return &statsService{
		log:          log,
		orders:       orders,
		merchantRepo: merchantRepo,
	}
}

func (s *statsService) GetStats(ctx context.Context, p models.Principal) (*StatsResponse, error) {
	const op = "service.StatsService.GetStats"
	s.log.Info("getting stats", slog.String("op", op), slog.String("userID", p.UserID))

	orders, err := s.orders.ListOrders(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	merchants, err := s.merchantRepo.ListMerchants(ctx)
	if err != nil {
		s.log.Error("failed to list merchants", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rates := make(map[string]decimal.Decimal, len(merchants))
	for _, m := range merchants {
		rates[m.ID] = decimal.NewFromFloat(m.CommissionRate)
	}

	resp := &StatsResponse{
		TotalOrders: len(orders),
		Revenue:     decimal.Zero,
		Commission:  decimal.Zero,
	}
	for _, o := range orders {
		switch o.Status {
		case models.StatusPending:
			resp.PendingOrders++
		case models.StatusPaid:
			resp.PaidOrders++
			amount := decimal.NewFromFloat(o.TotalAmount)
			resp.Revenue = resp.Revenue.Add(amount)
			// мерчант без записи комиссию не даёт
			if rate, ok := rates[o.MerchantID]; ok {
				resp.Commission = resp.Commission.Add(amount.Mul(rate))
			}
		case models.StatusFailed:
			resp.FailedOrders++
		}
	}
	resp.Commission = resp.Commission.Round(2)

	return resp, nil
}
