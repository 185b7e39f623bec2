package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voltgrid/internal/models"
)

// ErrTransactionNotFound represents missing transaction rows.
var ErrTransactionNotFound = errors.New("transaction not found")

const txColumns = `id, station, connector, account, start_time, end_time,
	meter_kwh, cost_cop, duration_minutes, applied_rate, status, payment_type,
	payment_date, created_at`

// TransactionRepository persists billed transactions.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository returns repository instance.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a single transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.EVTransaction) error {
	const query = `
		INSERT INTO ev_transactions
			(id, station, connector, account, start_time, end_time, meter_kwh,
			 cost_cop, duration_minutes, applied_rate, status, payment_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		tx.ID,
		tx.Station,
		tx.Connector,
		tx.Account,
		nullableTime(tx.StartTime),
		nullableTime(tx.EndTime),
		tx.MeterKWh,
		tx.CostCOP,
		tx.DurationMinutes,
		tx.AppliedRate,
		tx.Status,
		tx.PaymentType,
	).Scan(&tx.CreatedAt)
}

// CreateBatch inserts accepted import rows inside one database transaction
// so a failed import leaves no partial history.
func (r *TransactionRepository) CreateBatch(ctx context.Context, txs []models.EVTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	const query = `
		INSERT INTO ev_transactions
			(id, station, connector, account, start_time, end_time, meter_kwh,
			 cost_cop, duration_minutes, applied_rate, status, payment_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`
	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx,
			tx.ID,
			tx.Station,
			tx.Connector,
			tx.Account,
			nullableTime(tx.StartTime),
			nullableTime(tx.EndTime),
			tx.MeterKWh,
			tx.CostCOP,
			tx.DurationMinutes,
			tx.AppliedRate,
			tx.Status,
			tx.PaymentType,
		); err != nil {
			return err
		}
	}

	return dbTx.Commit()
}

// List returns the newest transactions first.
func (r *TransactionRepository) List(ctx context.Context, limit int) ([]models.EVTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT ` + txColumns + `
		FROM ev_transactions
		ORDER BY created_at DESC, id
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.EVTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ExistingIDs returns the set of known transaction ids, the dedup key for
// CSV imports.
func (r *TransactionRepository) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM ev_transactions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// MarkPaid sets payment fields on a transaction. Cost, meter value and
// applied rate are immutable after creation.
func (r *TransactionRepository) MarkPaid(ctx context.Context, id, paymentType string, paidAt time.Time) error {
	const query = `
		UPDATE ev_transactions
		SET status = $2, payment_type = $3, payment_date = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, models.StatusPaid, paymentType, paidAt)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrTransactionNotFound)
}

// Delete removes a transaction permanently.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ev_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrTransactionNotFound)
}

func scanTransaction(rows *sql.Rows) (models.EVTransaction, error) {
	var (
		tx          models.EVTransaction
		start, end  sql.NullTime
		paymentDate sql.NullTime
	)
	if err := rows.Scan(
		&tx.ID,
		&tx.Station,
		&tx.Connector,
		&tx.Account,
		&start,
		&end,
		&tx.MeterKWh,
		&tx.CostCOP,
		&tx.DurationMinutes,
		&tx.AppliedRate,
		&tx.Status,
		&tx.PaymentType,
		&paymentDate,
		&tx.CreatedAt,
	); err != nil {
		return models.EVTransaction{}, err
	}
	if start.Valid {
		tx.StartTime = start.Time
	}
	if end.Valid {
		tx.EndTime = end.Time
	}
	if paymentDate.Valid {
		t := paymentDate.Time
		tx.PaymentDate = &t
	}
	return tx, nil
}

// Unparsable import timestamps are stored as NULL rather than the Go zero time.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
