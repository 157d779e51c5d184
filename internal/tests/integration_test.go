package tests

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/application/services"
	"github.com/ugconnect/wifi-voucher-gateway/internal/application/services/testhelpers"
	"github.com/ugconnect/wifi-voucher-gateway/internal/config"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
	"github.com/ugconnect/wifi-voucher-gateway/internal/infrastructure/persistence/postgres"
	"github.com/ugconnect/wifi-voucher-gateway/internal/infrastructure/relworx"
	"github.com/ugconnect/wifi-voucher-gateway/internal/worker"
)

// fakeRelworx stands in for the payment processor. Responses are keyed by
// endpoint; status answers can be swapped mid-test to drive transitions.
type fakeRelworx struct {
	server       *httptest.Server
	statusAnswer string
}

func newFakeRelworx(t *testing.T) *fakeRelworx {
	t.Helper()

	f := &fakeRelworx{statusAnswer: "pending"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mobile-money/request-payment", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":            true,
			"message":            "Payment request sent",
			"internal_reference": "REL-INTEGRATION-1",
		})
	})
	mux.HandleFunc("GET /mobile-money/check-request-status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"status":  f.statusAnswer,
		})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRelworx) client() application.PaymentProvider {
	return relworx.NewClient(config.RelworxConfig{
		APIKey:      "test-key",
		AccountNo:   "RELWORX-TEST",
		BaseURL:     f.server.URL,
		ConnTimeout: 5 * time.Second,
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPaymentFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	td := testhelpers.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := postgres.NewTransactionRepository(td.DB)
	logger := testLogger()
	processor := newFakeRelworx(t)
	provider := processor.client()

	initiateService := services.NewInitiateService(repo, provider, logger)
	statusService := services.NewStatusService(repo, provider, logger)
	queryService := services.NewQueryService(repo)
	webhookService := services.NewWebhookService(repo, logger)

	ctx := context.Background()

	t.Run("initiate persists a pending transaction", func(t *testing.T) {
		td.CleanTables(t)

		result, err := initiateService.Initiate(ctx, services.InitiateCommand{
			Phone:    "0752225375",
			Amount:   1000,
			DeviceID: "device-integration",
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Reference)
		require.NotEmpty(t, result.TransactionID)

		stored, err := repo.FindByReference(ctx, result.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status)
		assert.Equal(t, "+256752225375", stored.FormattedPhone)
		assert.Equal(t, int64(1000), stored.Amount)
		require.NotNil(t, stored.Provider.Reference)
		assert.Equal(t, "REL-INTEGRATION-1", *stored.Provider.Reference)
	})

	t.Run("status check settles via the processor and persists", func(t *testing.T) {
		td.CleanTables(t)

		result, err := initiateService.Initiate(ctx, services.InitiateCommand{
			Phone:  "0752225375",
			Amount: 1000,
		})
		require.NoError(t, err)

		processor.statusAnswer = "success"

		check, err := statusService.Check(ctx, result.Reference, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, check.Status)

		stored, err := repo.FindByReference(ctx, result.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
		assert.NotNil(t, stored.ConfirmedAt)

		// Settled state is now served from the store.
		processor.statusAnswer = "failed"
		again, err := statusService.Check(ctx, result.Reference, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, again.Status)
		assert.True(t, again.FromStore)
	})

	t.Run("webhook confirms a pending transaction", func(t *testing.T) {
		td.CleanTables(t)
		processor.statusAnswer = "pending"

		result, err := initiateService.Initiate(ctx, services.InitiateCommand{
			Phone:  "0752225375",
			Amount: 6000,
		})
		require.NoError(t, err)

		tx, err := webhookService.Process(ctx, services.WebhookCommand{
			Reference: result.Reference,
			Status:    "success",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, tx.Status)

		stored, err := repo.FindByReference(ctx, result.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
	})

	t.Run("device history is returned newest first", func(t *testing.T) {
		td.CleanTables(t)
		processor.statusAnswer = "pending"

		var last string
		for i := 0; i < 3; i++ {
			result, err := initiateService.Initiate(ctx, services.InitiateCommand{
				Phone:    "0752225375",
				Amount:   500,
				DeviceID: "device-history",
			})
			require.NoError(t, err)
			last = result.Reference
			time.Sleep(5 * time.Millisecond)
		}

		txs, err := queryService.GetByDevice(ctx, "device-history", 10)
		require.NoError(t, err)
		require.Len(t, txs, 3)
		assert.Equal(t, last, txs[0].Reference)
	})

	t.Run("reconciler settles stale pending transactions", func(t *testing.T) {
		td.CleanTables(t)
		processor.statusAnswer = "pending"

		result, err := initiateService.Initiate(ctx, services.InitiateCommand{
			Phone:  "0752225375",
			Amount: 1000,
		})
		require.NoError(t, err)

		// Age the row past the staleness cutoff.
		_, err = td.DB.Pool.Exec(ctx,
			"UPDATE transactions SET updated_at = now() - interval '1 hour' WHERE reference = $1",
			result.Reference,
		)
		require.NoError(t, err)

		processor.statusAnswer = "success"

		reconciler := worker.NewReconciler(repo, provider, time.Minute, 10, 30*time.Minute, testLogger())
		reconciler.RunOnce(ctx)

		stored, err := repo.FindByReference(ctx, result.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
	})

	t.Run("duplicate reference is rejected by the store", func(t *testing.T) {
		td.CleanTables(t)

		now := time.Now()
		reference := domain.NewReference(now)
		tx, err := domain.NewTransaction(uuid.NewString(), reference, "0752225375", "+256752225375", 1000, "", "", nil, now)
		require.NoError(t, err)

		require.NoError(t, repo.Create(ctx, tx))

		dup, err := domain.NewTransaction(uuid.NewString(), reference, "0752225375", "+256752225375", 1000, "", "", nil, now)
		require.NoError(t, err)
		err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, postgres.IsUniqueViolation(err))
	})
}
