package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/storage"
)

// PaymentConfigInput — новая настройка приёма платежей. Заполняется только
// подконфиг выбранного способа.
type PaymentConfigInput struct {
	Method models.PaymentMethod
	Mobile *models.MobileConfig
	Card   *models.CardConfig
	Bank   *models.BankConfig
}

type MerchantService interface {
	ListMerchants(ctx context.Context, p models.Principal) ([]models.Merchant, error)
	GetMerchant(ctx context.Context, p models.Principal, id string) (*models.Merchant, error)
	UpdatePaymentConfig(ctx context.Context, p models.Principal, merchantID string, in PaymentConfigInput) (*models.Merchant, error)
}

type merchantService struct {
	log          *slog.Logger
	merchantRepo storage.MerchantStorage
}

func NewMerchantService(log *slog.Logger, merchantRepo storage.MerchantStorage) MerchantService {
	return &merchantService{
		log:          log,
		merchantRepo: merchantRepo,
	}
}

func (s *merchantService) ListMerchants(ctx context.Context, p models.Principal) ([]models.Merchant, error) {
	const op = "service.MerchantService.ListMerchants"

	if !p.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	merchants, err := s.merchantRepo.ListMerchants(ctx)
	if err != nil {
		s.log.Error("failed to list merchants", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return merchants, nil
}

func (s *merchantService) GetMerchant(ctx context.Context, p models.Principal, id string) (*models.Merchant, error) {
	const op = "service.MerchantService.GetMerchant"

	if !p.CanAccessMerchant(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	merchant, err := s.merchantRepo.GetMerchantByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return merchant, nil
}

// UpdatePaymentConfig делает метод предпочтительным и сохраняет его подконфиг.
// Подконфиги других способов остаются как были.
func (s *merchantService) UpdatePaymentConfig(ctx context.Context, p models.Principal, merchantID string, in PaymentConfigInput) (*models.Merchant, error) {
	const op = "service.MerchantService.UpdatePaymentConfig"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("merchantID", merchantID),
		slog.String("method", string(in.Method)),
	)

	merchant, err := s.GetMerchant(ctx, p, merchantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch in.Method {
	case models.PaymentMobile:
		if in.Mobile == nil {
			return nil, fmt.Errorf("%s: %w: mobile config is required", op, ErrInvalidPaymentInput)
		}
		merchant.PaymentConfig.Mobile = in.Mobile
	case models.PaymentCard:
		if in.Card == nil {
			return nil, fmt.Errorf("%s: %w: card config is required", op, ErrInvalidPaymentInput)
		}
		merchant.PaymentConfig.Card = in.Card
	case models.PaymentBank:
		if in.Bank == nil {
			return nil, fmt.Errorf("%s: %w: bank config is required", op, ErrInvalidPaymentInput)
		}
		merchant.PaymentConfig.Bank = in.Bank
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, models.ErrInvalidPaymentMethod, in.Method)
	}
	merchant.PreferredPaymentMethod = in.Method

	if err := s.merchantRepo.SaveMerchant(ctx, merchant); err != nil {
		logger.Error("failed to save merchant", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save merchant: %w", op, err)
	}

	logger.Info("payment configuration updated")
	return merchant, nil
}
