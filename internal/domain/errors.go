package domain

import "errors"

var (
	ErrMissingPhone  = errors.New("phone/msisdn is required")
	ErrMissingAmount = errors.New("amount is required")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidMSISDN = errors.New("invalid mobile number format, use 07XXXXXXXX or +256XXXXXXXXX")
	ErrNotFound      = errors.New("transaction not found")
)
