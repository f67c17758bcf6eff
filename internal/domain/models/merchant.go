package models

import (
	"errors"
	"time"
)

// PaymentMethod — канал приема платежей мерчанта
type PaymentMethod string

const (
	PaymentMobile PaymentMethod = "mobile"
	PaymentCard   PaymentMethod = "card"
	PaymentBank   PaymentMethod = "bank"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// Valid проверяет, что способ оплаты входит в закрытый список
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMobile, PaymentCard, PaymentBank:
		return true
	}
	return false
}

type MobileConfig struct {
	Provider      string `json:"provider"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type CardConfig struct {
	Processor  string `json:"processor"`
	MerchantID string `json:"merchantId"`
	APIKey     string `json:"apiKey"`
}

type BankConfig struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	RoutingNumber string `json:"routingNumber"`
}

// PaymentConfig хранит не более одной настройки на каждый способ оплаты.
// Настройки других способов не удаляются при смене предпочтительного.
type PaymentConfig struct {
	Mobile *MobileConfig `json:"mobile,omitempty"`
	Card   *CardConfig   `json:"card,omitempty"`
	Bank   *BankConfig   `json:"bank,omitempty"`
}

// Merchant представляет продавца со своими реквизитами приема платежей
type Merchant struct {
	ID                     string        `json:"id"`
	Name                   string        `json:"name"`
	Email                  string        `json:"email"`
	PreferredPaymentMethod PaymentMethod `json:"preferredPaymentMethod"`
	PaymentConfig          PaymentConfig `json:"paymentConfig"`
	CommissionRate         float64       `json:"commissionRate"` // доля, например 0.03
	CreatedAt              time.Time     `json:"createdAt"`
}
