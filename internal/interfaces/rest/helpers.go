package rest

import (
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

// Transaction is the API view of a stored payment attempt. The relworx_*
// fields expose the provider mirror for display/debugging only.
type Transaction struct {
	ID               string     `json:"id"`
	Reference        string     `json:"reference"`
	DeviceID         *string    `json:"device_id,omitempty"`
	Phone            string     `json:"phone"`
	FormattedPhone   string     `json:"formatted_phone"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	RelworxStatus    *string    `json:"relworx_status,omitempty"`
	RelworxMessage   *string    `json:"relworx_message,omitempty"`
	RelworxReference *string    `json:"relworx_reference,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	FailedAt         *time.Time `json:"failed_at,omitempty"`
}

func ToAPITransaction(t *domain.Transaction) Transaction {
	return Transaction{
		ID:               t.ID,
		Reference:        t.Reference,
		DeviceID:         t.DeviceID,
		Phone:            t.Phone,
		FormattedPhone:   t.FormattedPhone,
		Amount:           t.Amount,
		Currency:         t.Currency,
		Description:      t.Description,
		Status:           string(t.Status),
		RelworxStatus:    t.Provider.Status,
		RelworxMessage:   t.Provider.Message,
		RelworxReference: t.Provider.Reference,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		ConfirmedAt:      t.ConfirmedAt,
		FailedAt:         t.FailedAt,
	}
}

func ToAPITransactions(txs []*domain.Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, ToAPITransaction(t))
	}
	return out
}
