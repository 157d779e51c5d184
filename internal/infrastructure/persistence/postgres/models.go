package postgres

import (
	"time"
)

// TransactionModel mirrors the transactions table. Provider columns keep
// the processor's last reported view; relworx_payload is the raw body
// kept as an audit trail.
type TransactionModel struct {
	ID               string
	Reference        string
	DeviceID         *string
	Phone            string
	FormattedPhone   string
	Amount           int64
	Currency         string
	Description      string
	Status           string
	RelworxStatus    *string
	RelworxMessage   *string
	RelworxReference *string
	RelworxPayload   []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ConfirmedAt      *time.Time
	FailedAt         *time.Time
}
