package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrInvalidPaymentInput = errors.New("invalid payment configuration")
	ErrOrderNotPending     = errors.New("order is not pending")
	ErrAlreadyProcessing   = errors.New("payment confirmation already in progress")
)
