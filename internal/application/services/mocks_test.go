package services

import (
	"context"
	"sync"
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

type mockRepository struct {
	mu           sync.Mutex
	transactions map[string]*domain.Transaction

	createErr error
	findErr   error
	updateErr error

	createdCount int
	updatedCount int
}

func newMockRepository() *mockRepository {
	return &mockRepository{transactions: make(map[string]*domain.Transaction)}
}

func (m *mockRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *tx
	m.transactions[tx.Reference] = &cp
	m.createdCount++
	return nil
}

func (m *mockRepository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	tx, ok := m.transactions[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *mockRepository) FindByDeviceID(ctx context.Context, deviceID string, limit int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var results []*domain.Transaction
	for _, tx := range m.transactions {
		if tx.DeviceID != nil && *tx.DeviceID == deviceID {
			cp := *tx
			results = append(results, &cp)
		}
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (m *mockRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.transactions[tx.Reference]; !ok {
		return domain.ErrNotFound
	}
	cp := *tx
	m.transactions[tx.Reference] = &cp
	m.updatedCount++
	return nil
}

func (m *mockRepository) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	cutoff := time.Now().Add(-olderThan)
	var results []*domain.Transaction
	for _, tx := range m.transactions {
		if tx.Status == domain.StatusPending && tx.UpdatedAt.Before(cutoff) {
			cp := *tx
			results = append(results, &cp)
		}
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (m *mockRepository) get(reference string) *domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transactions[reference]
}

func (m *mockRepository) put(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.Reference] = tx
}

type mockProvider struct {
	requestPaymentFn     func(ctx context.Context, req application.PaymentRequest) (*application.ProviderResponse, error)
	checkRequestStatusFn func(ctx context.Context, reference string) (*application.ProviderResponse, error)

	requestCalls int
	statusCalls  int
}

func (m *mockProvider) RequestPayment(ctx context.Context, req application.PaymentRequest) (*application.ProviderResponse, error) {
	m.requestCalls++
	return m.requestPaymentFn(ctx, req)
}

func (m *mockProvider) CheckRequestStatus(ctx context.Context, reference string) (*application.ProviderResponse, error) {
	m.statusCalls++
	return m.checkRequestStatusFn(ctx, reference)
}
