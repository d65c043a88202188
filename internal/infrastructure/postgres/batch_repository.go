package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implements the BatchRepository port on PostgreSQL (usable with
// pool or tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository builds the batch persistence adapter. Pass pool or tx.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, batch_number, stock_level, expiry_date, has_expiry, status, created_at, updated_at`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.ProductID, &b.BatchNumber, &b.StockLevel, &b.ExpiryDate,
		&b.HasExpiry, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts one batch.
func (r *BatchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	query := `
		INSERT INTO batches (product_id, batch_number, stock_level, expiry_date, has_expiry, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		batch.ProductID, batch.BatchNumber, batch.StockLevel, batch.ExpiryDate, batch.HasExpiry, batch.Status,
	).Scan(&batch.ID, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("batch number %s: %w", batch.BatchNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID loads one batch.
func (r *BatchRepo) GetByID(ctx context.Context, id int64) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetForUpdate loads the batch under SELECT ... FOR UPDATE so concurrent
// stock mutations serialize on the row.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock batch: %w", err)
	}
	return b, nil
}

// UpdateStock persists level and derived status in one statement.
func (r *BatchRepo) UpdateStock(ctx context.Context, id int64, level decimal.Decimal, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET stock_level = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, level, status)
	if err != nil {
		return fmt.Errorf("update batch stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update rewrites the batch row.
func (r *BatchRepo) Update(ctx context.Context, batch *entity.Batch) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE batches
		SET batch_number = $2, stock_level = $3, expiry_date = $4, has_expiry = $5, status = $6, updated_at = now()
		WHERE id = $1`,
		batch.ID, batch.BatchNumber, batch.StockLevel, batch.ExpiryDate, batch.HasExpiry, batch.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("batch number %s: %w", batch.BatchNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct loads every batch of one product.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, `SELECT `+batchColumns+` FROM batches WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var batches []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Delete removes the given batches.
func (r *BatchRepo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete batches: %w", err)
	}
	return nil
}
