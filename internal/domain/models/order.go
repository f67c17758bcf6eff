package models

import (
	"errors"
	"time"
)

// OrderStatus — состояние заказа в жизненном цикле оплаты
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusPaid    OrderStatus = "paid"
	StatusFailed  OrderStatus = "failed"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Valid проверяет, что статус входит в закрытый список
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	}
	return false
}

// Terminal сообщает, что из статуса нельзя выйти обычным обновлением.
// failed покидается только через явный сброс заказа.
func (s OrderStatus) Terminal() bool {
	return s == StatusPaid || s == StatusFailed
}

// CanTransitionTo проверяет переход статуса при подтверждении оплаты
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == StatusPending && (next == StatusPaid || next == StatusFailed)
}

// Order представляет заказ покупателя, проходящий цикл оплаты
type Order struct {
	ID                 string        `json:"id"`
	MerchantID         string        `json:"merchantId"`
	CustomerName       string        `json:"customerName"`
	CustomerPhone      string        `json:"customerPhone"`
	Product            string        `json:"product"`
	Quantity           int           `json:"quantity"`
	TotalAmount        float64       `json:"totalAmount"`
	Status             OrderStatus   `json:"status"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	PaymentConfirmedAt *time.Time    `json:"paymentConfirmedAt,omitempty"` // только при переходе в paid
}
