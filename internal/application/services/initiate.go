package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

type InitiateCommand struct {
	Phone       string
	MSISDN      string
	Amount      int64
	Currency    string
	Description string
	DeviceID    string
}

type InitiateResult struct {
	Reference string
	// TransactionID is empty when the best-effort persist failed; the
	// payment itself still went through.
	TransactionID string
	Provider      *application.ProviderResponse
}

type InitiateService struct {
	repo     application.TransactionRepository
	provider application.PaymentProvider
	logger   *slog.Logger
}

func NewInitiateService(
	repo application.TransactionRepository,
	provider application.PaymentProvider,
	logger *slog.Logger,
) *InitiateService {
	return &InitiateService{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

// Initiate validates and normalizes the request, dispatches the charge to
// the provider and records the attempt. Persistence is best-effort: once
// the provider accepted the charge, a store failure must not turn the
// response into an error.
func (s *InitiateService) Initiate(ctx context.Context, cmd InitiateCommand) (*InitiateResult, error) {
	phone := cmd.Phone
	if phone == "" {
		phone = cmd.MSISDN
	}
	if phone == "" {
		return nil, application.NewInvalidInputError(domain.ErrMissingPhone)
	}
	if cmd.Amount == 0 {
		return nil, application.NewInvalidInputError(domain.ErrMissingAmount)
	}
	if cmd.Amount < 0 {
		return nil, application.NewInvalidInputError(domain.ErrInvalidAmount)
	}

	formattedPhone, err := domain.NormalizeMSISDN(phone)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	currency := cmd.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	description := cmd.Description
	if description == "" {
		description = domain.DefaultDescription
	}

	now := time.Now()
	reference := domain.NewReference(now)

	s.logger.Info("initiating payment",
		"reference", reference,
		"msisdn", formattedPhone,
		"amount", cmd.Amount,
		"currency", currency,
		"device_id", cmd.DeviceID,
	)

	resp, err := s.provider.RequestPayment(ctx, application.PaymentRequest{
		Reference:   reference,
		MSISDN:      formattedPhone,
		Currency:    currency,
		Amount:      cmd.Amount,
		Description: description,
	})
	if err != nil {
		s.logger.Error("payment request failed", "reference", reference, "error", err)
		return nil, application.NewProviderError(err)
	}

	result := &InitiateResult{
		Reference: reference,
		Provider:  resp,
	}

	var deviceID *string
	if cmd.DeviceID != "" {
		deviceID = &cmd.DeviceID
	}

	tx, err := domain.NewTransaction(
		uuid.New().String(),
		reference,
		phone,
		formattedPhone,
		cmd.Amount,
		currency,
		description,
		deviceID,
		now,
	)
	if err != nil {
		s.logger.Error("failed to build transaction record", "reference", reference, "error", err)
		return result, nil
	}
	tx.ApplyProviderResult(resp.Result(), now)

	if err := s.repo.Create(ctx, tx); err != nil {
		// The provider already accepted the charge; losing the row is a
		// reconciliation problem, not a request failure.
		s.logger.Error("failed to persist transaction", "reference", reference, "error", err)
		return result, nil
	}

	result.TransactionID = tx.ID
	return result, nil
}
