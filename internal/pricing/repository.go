package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"procurehub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetOverride(ctx context.Context, customerID, productID string) (*Override, error)
	ListOverridesForCustomer(ctx context.Context, customerID string) ([]*Override, error)
	ListOverridesForProduct(ctx context.Context, productID string) ([]*Override, error)
	UpsertOverride(ctx context.Context, o *Override) error
	DeleteOverride(ctx context.Context, customerID, productID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// wrapUnavailable turns an expired store deadline into the retryable sentinel.
func wrapUnavailable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (r *repository) GetOverride(ctx context.Context, customerID, productID string) (*Override, error) {
	query := `
		SELECT id, customer_id, product_id, unit_price, created_by, created_at, updated_at
		FROM customer_price_overrides
		WHERE customer_id = $1 AND product_id = $2
	`

	var o Override
	err := r.db.QueryRowContext(ctx, query, customerID, productID).Scan(
		&o.ID,
		&o.CustomerID,
		&o.ProductID,
		&o.UnitPrice,
		&o.CreatedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	return &o, nil
}

func (r *repository) ListOverridesForCustomer(ctx context.Context, customerID string) ([]*Override, error) {
	return r.listOverrides(ctx, "customer_id", customerID)
}

func (r *repository) ListOverridesForProduct(ctx context.Context, productID string) ([]*Override, error) {
	return r.listOverrides(ctx, "product_id", productID)
}

func (r *repository) listOverrides(ctx context.Context, column, value string) ([]*Override, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "listOverrides"),
		zap.String(column, value),
	)

	query := `
		SELECT id, customer_id, product_id, unit_price, created_by, created_at, updated_at
		FROM customer_price_overrides
		WHERE ` + column + ` = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		log.Error("failed to query overrides", zap.Error(err))
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	var overrides []*Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.ProductID,
			&o.UnitPrice,
			&o.CreatedBy,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan override row", zap.Error(err))
			return nil, err
		}
		overrides = append(overrides, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overrides, nil
}

// UpsertOverride inserts or replaces the single override for the pair. The
// unique constraint on (customer_id, product_id) makes concurrent upserts
// converge on one row instead of last-write-wins duplicates.
func (r *repository) UpsertOverride(ctx context.Context, o *Override) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customer_price_overrides (
			id, customer_id, product_id, unit_price, created_by
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET unit_price = EXCLUDED.unit_price, updated_at = NOW()
	`,
		o.ID,
		o.CustomerID,
		o.ProductID,
		o.UnitPrice,
		o.CreatedBy,
	)
	return wrapUnavailable(err)
}

func (r *repository) DeleteOverride(ctx context.Context, customerID, productID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM customer_price_overrides
		WHERE customer_id = $1 AND product_id = $2
	`, customerID, productID)
	if err != nil {
		return wrapUnavailable(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}
