package storage

import (
	"context"
	"time"

	"github.com/linemk/ghala/internal/domain/models"
)

// InitializeSampleData заполняет хранилище демо-данными, только если коллекция users пуста.
// Повторный вызов ничего не меняет. Upsert по id делает повтор после частичной ошибки безопасным.
func (s *Storage) InitializeSampleData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := loadCollection[models.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	now := s.now()

	admin := models.User{
		ID:    "admin-1",
		Email: "admin@ghala.com",
		Name:  "Ghala Admin",
		Role:  models.RoleAdmin,
	}
	merchantUser := models.User{
		ID:         "merchant-1",
		Email:      "merchant@example.com",
		Name:       "Sample Merchant",
		Role:       models.RoleMerchant,
		MerchantID: "merchant-1",
	}

	merchant := models.Merchant{
		ID:                     "merchant-1",
		Name:                   "Sample Store",
		Email:                  "merchant@example.com",
		PreferredPaymentMethod: models.PaymentMobile,
		PaymentConfig: models.PaymentConfig{
			Mobile: &models.MobileConfig{
				Provider:      "M-Pesa",
				AccountNumber: "+254700123456",
				AccountName:   "Sample Store",
			},
		},
		CommissionRate: 0.03,
		CreatedAt:      now,
	}
	if err := upsertRecords(ctx, s.kv, KeyMerchants, merchantID, merchant); err != nil {
		return err
	}

	pendingAt := now.Add(-time.Hour)
	paidCreatedAt := now.Add(-2 * time.Hour)
	paidAt := now.Add(-7000 * time.Second)

	orders := []models.Order{
		{
			ID:            "order-1",
			MerchantID:    "merchant-1",
			CustomerName:  "John Doe",
			CustomerPhone: "+254700987654",
			Product:       "Wireless Headphones",
			Quantity:      1,
			TotalAmount:   5000,
			Status:        models.StatusPending,
			PaymentMethod: models.PaymentMobile,
			CreatedAt:     pendingAt,
			UpdatedAt:     pendingAt,
		},
		{
			ID:                 "order-2",
			MerchantID:         "merchant-1",
			CustomerName:       "Jane Smith",
			CustomerPhone:      "+254700111222",
			Product:            "Smartphone Case",
			Quantity:           2,
			TotalAmount:        1500,
			Status:             models.StatusPaid,
			PaymentMethod:      models.PaymentMobile,
			CreatedAt:          paidCreatedAt,
			UpdatedAt:          paidAt,
			PaymentConfirmedAt: &paidAt,
		},
	}
	if err := upsertRecords(ctx, s.kv, KeyOrders, orderID, orders...); err != nil {
		return err
	}

	// users пишутся последними: по ним проверяется, было ли заполнение.
	// Если запись выше упала, следующий вызов заполнит всё заново.
	return upsertRecords(ctx, s.kv, KeyUsers, userID, admin, merchantUser)
}
