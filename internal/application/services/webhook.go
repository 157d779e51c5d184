package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

type WebhookCommand struct {
	Reference     string
	Status        string
	TransactionID string
}

type WebhookService struct {
	repo   application.TransactionRepository
	logger *slog.Logger
}

func NewWebhookService(repo application.TransactionRepository, logger *slog.Logger) *WebhookService {
	return &WebhookService{repo: repo, logger: logger}
}

// Process applies a provider-pushed status update to the stored record.
// Signature verification happens before this is called.
func (s *WebhookService) Process(ctx context.Context, cmd WebhookCommand) (*domain.Transaction, error) {
	if cmd.Reference == "" {
		return nil, application.NewInvalidInputError(errors.New("reference is required"))
	}
	if cmd.Status == "" {
		return nil, application.NewInvalidInputError(errors.New("status is required"))
	}

	tx, err := s.repo.FindByReference(ctx, cmd.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, application.NewNotFoundError("transaction not found")
		}
		return nil, application.NewInternalError(err)
	}

	result := domain.ProviderResult{
		Status:  &cmd.Status,
		Payload: tx.Provider.Payload,
	}
	if cmd.TransactionID != "" {
		result.Reference = &cmd.TransactionID
	} else {
		result.Reference = tx.Provider.Reference
	}
	if tx.Provider.Message != nil {
		result.Message = tx.Provider.Message
	}

	tx.ApplyProviderResult(result, time.Now())

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("webhook processed",
		"reference", cmd.Reference,
		"provider_status", cmd.Status,
		"status", tx.Status,
	)

	return tx, nil
}
