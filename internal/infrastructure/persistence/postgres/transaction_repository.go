package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

const transactionColumns = `
	id, reference, device_id, phone, formatted_phone, amount, currency, description, status,
	relworx_status, relworx_message, relworx_reference, relworx_payload,
	created_at, updated_at, confirmed_at, failed_at`

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db.Pool}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, reference, device_id, phone, formatted_phone, amount, currency, description, status,
			relworx_status, relworx_message, relworx_reference, relworx_payload,
			created_at, updated_at, confirmed_at, failed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	m := toDBModel(tx)
	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.Reference,
		m.DeviceID,
		m.Phone,
		m.FormattedPhone,
		m.Amount,
		m.Currency,
		m.Description,
		m.Status,
		m.RelworxStatus,
		m.RelworxMessage,
		m.RelworxReference,
		m.RelworxPayload,
		m.CreatedAt,
		m.UpdatedAt,
		m.ConfirmedAt,
		m.FailedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByReference retrieves the transaction for a gateway payment reference.
func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM transactions WHERE reference = $1
	`

	row := r.db.QueryRow(ctx, query, reference)
	return scanTransaction(row)
}

// FindByDeviceID retrieves the most recent transactions for a device.
func (r *TransactionRepository) FindByDeviceID(ctx context.Context, deviceID string, limit int) ([]*domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM transactions WHERE device_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions by device_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, collectTransaction)
	if err != nil {
		return nil, fmt.Errorf("scan transactions by device_id: %w", err)
	}
	return results, nil
}

// FindStalePending finds pending transactions older than the cutoff, the
// reconciler's work queue.
func (r *TransactionRepository) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM transactions
		WHERE status = 'pending'
		  AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	cutoff := time.Now().Add(-olderThan)
	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale pending transactions: %w", err)
	}

	results, err := pgx.CollectRows(rows, collectTransaction)
	if err != nil {
		return nil, fmt.Errorf("scan stale pending transactions: %w", err)
	}
	return results, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $1,
			relworx_status = $2, relworx_message = $3, relworx_reference = $4, relworx_payload = $5,
			updated_at = $6, confirmed_at = $7, failed_at = $8
		WHERE reference = $9
	`

	m := toDBModel(tx)
	results, err := r.db.Exec(ctx, query,
		m.Status,
		m.RelworxStatus,
		m.RelworxMessage,
		m.RelworxReference,
		m.RelworxPayload,
		m.UpdatedAt,
		m.ConfirmedAt,
		m.FailedAt,
		m.Reference,
	)

	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if results.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func collectTransaction(row pgx.CollectableRow) (*domain.Transaction, error) {
	var m TransactionModel
	err := row.Scan(
		&m.ID, &m.Reference, &m.DeviceID, &m.Phone, &m.FormattedPhone,
		&m.Amount, &m.Currency, &m.Description, &m.Status,
		&m.RelworxStatus, &m.RelworxMessage, &m.RelworxReference, &m.RelworxPayload,
		&m.CreatedAt, &m.UpdatedAt, &m.ConfirmedAt, &m.FailedAt,
	)
	return toDomainModel(m), err
}

// scanTransaction converts a database row into a domain Transaction.
// Returns domain.ErrNotFound if the row doesn't exist.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m TransactionModel
	err := row.Scan(
		&m.ID, &m.Reference, &m.DeviceID, &m.Phone, &m.FormattedPhone,
		&m.Amount, &m.Currency, &m.Description, &m.Status,
		&m.RelworxStatus, &m.RelworxMessage, &m.RelworxReference, &m.RelworxPayload,
		&m.CreatedAt, &m.UpdatedAt, &m.ConfirmedAt, &m.FailedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return toDomainModel(m), nil
}
