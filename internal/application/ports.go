package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

// PaymentRequest is the outbound "initiate mobile-money charge" call.
type PaymentRequest struct {
	Reference   string
	MSISDN      string
	Currency    string
	Amount      int64
	Description string
}

// ProviderResponse is the named envelope around whatever the provider
// returned. Raw carries the full decoded body for mirroring into storage
// and responses; the typed fields are the only ones business logic reads.
type ProviderResponse struct {
	Success           bool
	Status            string
	Message           string
	InternalReference string
	Raw               map[string]any
}

// Result flattens the response into the mirror stored on the transaction
// row. Marshalling the raw map back out keeps the audit payload even when
// the provider adds fields we don't model.
func (r *ProviderResponse) Result() domain.ProviderResult {
	result := domain.ProviderResult{}
	if r == nil {
		return result
	}

	if r.Status != "" {
		status := r.Status
		result.Status = &status
	}
	if r.Message != "" {
		message := r.Message
		result.Message = &message
	}
	if r.InternalReference != "" {
		reference := r.InternalReference
		result.Reference = &reference
	}
	if r.Raw != nil {
		if payload, err := json.Marshal(r.Raw); err == nil {
			result.Payload = payload
		}
	}

	return result
}

// PaymentProvider is the outbound contract to the mobile-money processor.
// Neither call retries or classifies failures; errors surface as-is.
type PaymentProvider interface {
	RequestPayment(ctx context.Context, req PaymentRequest) (*ProviderResponse, error)
	CheckRequestStatus(ctx context.Context, reference string) (*ProviderResponse, error)
}

// TransactionRepository is the persistence contract for payment attempts.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	FindByDeviceID(ctx context.Context, deviceID string, limit int) ([]*domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error)
}
