package services

import (
	"context"
	"errors"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

const (
	defaultDeviceLimit = 10
	maxDeviceLimit     = 100
)

type QueryService struct {
	repo application.TransactionRepository
}

func NewQueryService(repo application.TransactionRepository) *QueryService {
	return &QueryService{repo: repo}
}

// GetByReference retrieves a stored transaction.
func (s *QueryService) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	tx, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, application.NewNotFoundError("transaction not found")
		}
		return nil, application.NewInternalError(err)
	}
	return tx, nil
}

// GetByDevice retrieves a device's transactions, newest first.
func (s *QueryService) GetByDevice(ctx context.Context, deviceID string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultDeviceLimit
	}
	if limit > maxDeviceLimit {
		limit = maxDeviceLimit
	}

	txs, err := s.repo.FindByDeviceID(ctx, deviceID, limit)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return txs, nil
}
