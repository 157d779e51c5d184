package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

type StatusResult struct {
	Status   domain.Status
	Provider *application.ProviderResponse
	// FromStore marks a result served from a settled stored record
	// without a provider round-trip.
	FromStore bool
}

type StatusService struct {
	repo     application.TransactionRepository
	provider application.PaymentProvider
	logger   *slog.Logger
}

func NewStatusService(
	repo application.TransactionRepository,
	provider application.PaymentProvider,
	logger *slog.Logger,
) *StatusService {
	return &StatusService{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

// Check reconciles the stored transaction with the provider's view.
// Settled transactions are served from the store unless live is set;
// everything else goes to the provider, and the fresh observation is
// written back best-effort.
func (s *StatusService) Check(ctx context.Context, reference string, live bool) (*StatusResult, error) {
	if !live {
		if cached := s.fromStore(ctx, reference); cached != nil {
			return cached, nil
		}
	}

	resp, err := s.provider.CheckRequestStatus(ctx, reference)
	if err != nil {
		s.logger.Error("status check failed", "reference", reference, "error", err)
		s.markFailed(ctx, reference, err)
		return nil, application.NewProviderError(err)
	}

	now := time.Now()
	tx, findErr := s.repo.FindByReference(ctx, reference)
	switch {
	case findErr == nil:
		tx.ApplyProviderResult(resp.Result(), now)
		if updateErr := s.repo.Update(ctx, tx); updateErr != nil {
			s.logger.Error("failed to update transaction status", "reference", reference, "error", updateErr)
		}
	case errors.Is(findErr, domain.ErrNotFound):
		s.logger.Warn("status checked for unknown reference", "reference", reference)
	default:
		s.logger.Error("failed to load transaction for status update", "reference", reference, "error", findErr)
	}

	return &StatusResult{
		Status:   domain.StatusFromProvider(resp.Status),
		Provider: resp,
	}, nil
}

// fromStore returns a result for a provider-settled stored record, or
// nil when the provider must be asked. Rows marked failed after a query
// error are not served from here: the charge may have succeeded, so each
// poll keeps asking the provider until it reports a terminal status.
func (s *StatusService) fromStore(ctx context.Context, reference string) *StatusResult {
	tx, err := s.repo.FindByReference(ctx, reference)
	if err != nil || !tx.SettledByProvider() {
		return nil
	}

	resp := &application.ProviderResponse{Status: string(tx.Status)}
	if tx.Provider.Status != nil {
		resp.Status = *tx.Provider.Status
	}
	if tx.Provider.Message != nil {
		resp.Message = *tx.Provider.Message
	}
	if tx.Provider.Reference != nil {
		resp.InternalReference = *tx.Provider.Reference
	}
	if len(tx.Provider.Payload) > 0 {
		raw := map[string]any{}
		if err := json.Unmarshal(tx.Provider.Payload, &raw); err == nil {
			resp.Raw = raw
		}
	}

	return &StatusResult{
		Status:    tx.Status,
		Provider:  resp,
		FromStore: true,
	}
}

// markFailed best-effort marks the stored transaction failed after a
// provider query error.
func (s *StatusService) markFailed(ctx context.Context, reference string, cause error) {
	tx, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return
	}
	if tx.IsTerminal() {
		return
	}

	tx.MarkFailed(cause.Error(), time.Now())
	if err := s.repo.Update(ctx, tx); err != nil {
		s.logger.Error("failed to mark transaction failed", "reference", reference, "error", err)
	}
}
