package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

func seedPending(t *testing.T, repo *mockRepository, reference string) *domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(
		"11111111-1111-1111-1111-111111111111",
		reference,
		"0752225375",
		"+256752225375",
		1000,
		"UGX",
		"WiFi Internet Package",
		nil,
		time.Now().Add(-time.Minute),
	)
	require.NoError(t, err)
	repo.put(tx)
	return tx
}

func TestCheck_ConfirmedUpdatesStore(t *testing.T) {
	repo := newMockRepository()
	seedPending(t, repo, "WIFI_100")

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			assert.Equal(t, "WIFI_100", reference)
			return &application.ProviderResponse{
				Success: true,
				Status:  "success",
				Message: "Transaction completed",
				Raw:     map[string]any{"status": "success"},
			}, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_100", false)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, result.Status)
	assert.False(t, result.FromStore)

	stored := repo.get("WIFI_100")
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)
	require.NotNil(t, stored.Provider.Status)
	assert.Equal(t, "success", *stored.Provider.Status)
}

func TestCheck_TerminalServedFromStore(t *testing.T) {
	repo := newMockRepository()
	tx := seedPending(t, repo, "WIFI_101")
	status := "success"
	tx.ApplyProviderResult(domain.ProviderResult{Status: &status, Payload: []byte(`{"status":"success"}`)}, time.Now())
	repo.put(tx)

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			t.Fatal("provider must not be called for a settled transaction")
			return nil, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_101", false)
	require.NoError(t, err)

	assert.True(t, result.FromStore)
	assert.Equal(t, domain.StatusConfirmed, result.Status)
	assert.Equal(t, "success", result.Provider.Status)
	assert.Equal(t, "success", result.Provider.Raw["status"])
	assert.Equal(t, 0, provider.statusCalls)
}

func TestCheck_LiveBypassesStore(t *testing.T) {
	repo := newMockRepository()
	tx := seedPending(t, repo, "WIFI_102")
	status := "success"
	tx.ApplyProviderResult(domain.ProviderResult{Status: &status}, time.Now())
	repo.put(tx)

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			return &application.ProviderResponse{Success: true, Status: "success"}, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_102", true)
	require.NoError(t, err)

	assert.False(t, result.FromStore)
	assert.Equal(t, 1, provider.statusCalls)
	assert.Equal(t, domain.StatusConfirmed, result.Status)
}

func TestCheck_PendingAlwaysHitsProvider(t *testing.T) {
	repo := newMockRepository()
	seedPending(t, repo, "WIFI_103")

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			return &application.ProviderResponse{Success: true, Status: "pending"}, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_103", false)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.statusCalls)
	assert.Equal(t, domain.StatusPending, result.Status)
}

func TestCheck_UnknownReferenceStillQueriesProvider(t *testing.T) {
	repo := newMockRepository()
	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			return &application.ProviderResponse{Success: true, Status: "pending"}, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_404", false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, result.Status)
}

func TestCheck_ProviderFailureMarksFailed(t *testing.T) {
	repo := newMockRepository()
	seedPending(t, repo, "WIFI_105")

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			return nil, errors.New("gateway timeout")
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	_, err := svc.Check(context.Background(), "WIFI_105", false)
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeProvider, svcErr.Code)

	stored := repo.get("WIFI_105")
	assert.Equal(t, domain.StatusFailed, stored.Status)
	assert.NotNil(t, stored.FailedAt)
}

func TestCheck_RecoversAfterProviderOutage(t *testing.T) {
	repo := newMockRepository()
	seedPending(t, repo, "WIFI_107")

	outage := true
	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			if outage {
				return nil, errors.New("gateway timeout")
			}
			return &application.ProviderResponse{Success: true, Status: "success"}, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	_, err := svc.Check(context.Background(), "WIFI_107", false)
	require.Error(t, err)
	assert.Equal(t, domain.StatusFailed, repo.get("WIFI_107").Status)

	// The provider comes back and reports the charge went through. The
	// locally marked failure must not be served as settled.
	outage = false

	result, err := svc.Check(context.Background(), "WIFI_107", false)
	require.NoError(t, err)
	assert.False(t, result.FromStore)
	assert.Equal(t, domain.StatusConfirmed, result.Status)
	assert.Equal(t, 2, provider.statusCalls)

	stored := repo.get("WIFI_107")
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)
}

func TestCheck_ProviderReportedFailureIsCached(t *testing.T) {
	repo := newMockRepository()
	tx := seedPending(t, repo, "WIFI_108")
	status := "failed"
	tx.ApplyProviderResult(domain.ProviderResult{Status: &status}, time.Now())
	repo.put(tx)

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			t.Fatal("provider must not be called for a provider-reported failure")
			return nil, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_108", false)
	require.NoError(t, err)
	assert.True(t, result.FromStore)
	assert.Equal(t, domain.StatusFailed, result.Status)
}

func TestCheck_UpdateFailureIsSwallowed(t *testing.T) {
	repo := newMockRepository()
	seedPending(t, repo, "WIFI_106")
	repo.updateErr = errors.New("store unavailable")

	provider := &mockProvider{
		checkRequestStatusFn: func(ctx context.Context, reference string) (*application.ProviderResponse, error) {
			return &application.ProviderResponse{Success: true, Status: "success"}, nil
		},
	}

	svc := NewStatusService(repo, provider, testLogger())

	result, err := svc.Check(context.Background(), "WIFI_106", false)
	require.NoError(t, err, "store update failure must not fail the status check")
	assert.Equal(t, domain.StatusConfirmed, result.Status)
}
