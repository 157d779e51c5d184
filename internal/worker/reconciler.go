package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
)

// Reconciler periodically re-checks stale pending transactions against
// the provider. It is the compensating mechanism for the gateway's
// best-effort persistence: rows that missed a status update (or whose
// clients stopped polling) get settled here.
type Reconciler struct {
	repo       application.TransactionRepository
	provider   application.PaymentProvider
	interval   time.Duration
	batchSize  int
	staleAfter time.Duration
	logger     *slog.Logger
}

func NewReconciler(
	repo application.TransactionRepository,
	provider application.PaymentProvider,
	interval time.Duration,
	batchSize int,
	staleAfter time.Duration,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		repo:       repo,
		provider:   provider,
		interval:   interval,
		batchSize:  batchSize,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("starting background reconciler",
		"interval", r.interval,
		"batch_size", r.batchSize,
		"stale_after", r.staleAfter,
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping background reconciler")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// RunOnce executes a single reconciliation cycle.
func (r *Reconciler) RunOnce(ctx context.Context) {
	r.run(ctx)
}

func (r *Reconciler) run(ctx context.Context) {
	stale, err := r.repo.FindStalePending(ctx, r.staleAfter, r.batchSize)
	if err != nil {
		r.logger.Error("failed to fetch stale pending transactions", "error", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	r.logger.Info("reconciling stale pending transactions", "count", len(stale))

	for _, tx := range stale {
		resp, err := r.provider.CheckRequestStatus(ctx, tx.Reference)
		if err != nil {
			// Left pending; the next cycle picks it up again.
			r.logger.Error("reconciliation status check failed", "reference", tx.Reference, "error", err)
			continue
		}

		previous := tx.Status
		tx.ApplyProviderResult(resp.Result(), time.Now())

		if err := r.repo.Update(ctx, tx); err != nil {
			r.logger.Error("failed to update reconciled transaction", "reference", tx.Reference, "error", err)
			continue
		}

		if tx.Status != previous {
			r.logger.Info("transaction reconciled",
				"reference", tx.Reference,
				"previous_status", previous,
				"status", tx.Status,
			)
		}
	}
}
