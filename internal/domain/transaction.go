package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

const (
	DefaultCurrency    = "UGX"
	DefaultDescription = "WiFi Internet Package"

	referencePrefix = "WIFI_"
)

// ProviderResult is the structured mirror of the payment provider's last
// response for a transaction. It decouples the stored schema and API
// responses from the provider's own field names; Payload keeps the raw
// body as an audit trail only.
type ProviderResult struct {
	Status    *string
	Message   *string
	Reference *string
	Payload   []byte
}

// Transaction records one payment attempt. Rows are created on initiation,
// mutated in place on every status observation and never deleted.
type Transaction struct {
	ID             string
	Reference      string
	DeviceID       *string
	Phone          string
	FormattedPhone string
	Amount         int64
	Currency       string
	Description    string
	Status         Status

	Provider ProviderResult

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
	FailedAt    *time.Time
}

// NewReference builds a gateway payment reference. The millisecond
// timestamp alone collides under concurrent initiations, so four random
// digits are appended; the result still matches the WIFI_\d+ shape the
// frontend keys on.
func NewReference(now time.Time) string {
	return fmt.Sprintf("%s%d%04d", referencePrefix, now.UnixMilli(), rand.IntN(10000))
}

// NewTransaction creates a pending transaction for an initiated payment.
func NewTransaction(id, reference, phone, formattedPhone string, amount int64, currency, description string, deviceID *string, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if description == "" {
		description = DefaultDescription
	}

	return &Transaction{
		ID:             id,
		Reference:      reference,
		DeviceID:       deviceID,
		Phone:          phone,
		FormattedPhone: formattedPhone,
		Amount:         amount,
		Currency:       currency,
		Description:    description,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// StatusFromProvider maps the provider's reported status onto the
// transaction lifecycle. Anything unrecognized stays pending.
func StatusFromProvider(providerStatus string) Status {
	switch providerStatus {
	case "success", "confirmed", "completed":
		return StatusConfirmed
	case "failed", "cancelled":
		return StatusFailed
	default:
		return StatusPending
	}
}

// ApplyProviderResult overwrites the transaction's status and provider
// mirror from a fresh provider observation, stamping the terminal
// timestamp the first time a terminal status is seen.
func (t *Transaction) ApplyProviderResult(result ProviderResult, now time.Time) {
	t.Provider = result

	status := StatusPending
	if result.Status != nil {
		status = StatusFromProvider(*result.Status)
	}
	t.Status = status
	t.UpdatedAt = now

	switch status {
	case StatusConfirmed:
		if t.ConfirmedAt == nil {
			t.ConfirmedAt = &now
		}
	case StatusFailed:
		if t.FailedAt == nil {
			t.FailedAt = &now
		}
	}
}

// MarkFailed records a failure observed outside a normal provider
// response, e.g. when the status query itself errors.
func (t *Transaction) MarkFailed(message string, now time.Time) {
	t.Status = StatusFailed
	t.Provider.Message = &message
	t.UpdatedAt = now
	if t.FailedAt == nil {
		t.FailedAt = &now
	}
}

// IsTerminal reports whether the transaction has settled.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusConfirmed || t.Status == StatusFailed
}

// SettledByProvider reports whether the terminal state came from the
// provider itself rather than MarkFailed. A MarkFailed row carries no
// provider-reported terminal status and must be re-queried, since the
// underlying charge may still have gone through.
func (t *Transaction) SettledByProvider() bool {
	if !t.IsTerminal() || t.Provider.Status == nil {
		return false
	}
	return StatusFromProvider(*t.Provider.Status) == t.Status
}
