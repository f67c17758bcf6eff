package storage

import (
	"context"
	"errors"

	"github.com/linemk/ghala/internal/domain/models"
)

var ErrMerchantNotFound = errors.New("merchant not found")

// MerchantStorage описывает методы для работы с мерчантами.
type MerchantStorage interface {
	ListMerchants(ctx context.Context) ([]models.Merchant, error)
	GetMerchantByID(ctx context.Context, id string) (*models.Merchant, error)
	// SaveMerchant заменяет запись мерчанта целиком.
	SaveMerchant(ctx context.Context, merchant *models.Merchant) error
}

var _ MerchantStorage = (*Storage)(nil)

func merchantID(m *models.Merchant) string { return m.ID }

func (s *Storage) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	return loadCollection[models.Merchant](ctx, s.kv, KeyMerchants)
}

func (s *Storage) GetMerchantByID(ctx context.Context, id string) (*models.Merchant, error) {
	merchants, err := s.ListMerchants(ctx)
	if err != nil {
		return nil, err
	}
	merchant, ok := findRecord(merchants, func(m *models.Merchant) bool { return m.ID == id })
	if !ok {
		return nil, ErrMerchantNotFound
	}
	return merchant, nil
}

func (s *Storage) SaveMerchant(ctx context.Context, merchant *models.Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertRecords(ctx, s.kv, KeyMerchants, merchantID, *merchant)
}
