package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"procurehub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, activeOnly bool, limit, offset int32) ([]*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	ReserveStock(ctx context.Context, tx *sql.Tx, productID string, qty int) (bool, error)
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

func (r *repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	query := `
		SELECT id, name, category, make, model, base_price, stock,
			gst_rate, low_stock_threshold, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Make,
		&p.Model,
		&p.BasePrice,
		&p.Stock,
		&p.GSTRate,
		&p.LowStockThreshold,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	return &p, nil
}

func (r *repository) ListProducts(ctx context.Context, activeOnly bool, limit, offset int32) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	query := `
		SELECT id, name, category, make, model, base_price, stock,
			gst_rate, low_stock_threshold, active, created_at, updated_at
		FROM products
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if activeOnly {
		query += " AND active = TRUE"
	}

	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Make,
			&p.Model,
			&p.BasePrice,
			&p.Stock,
			&p.GSTRate,
			&p.LowStockThreshold,
			&p.Active,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, category, make, model, base_price, stock,
			gst_rate, low_stock_threshold, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.Name,
		p.Category,
		p.Make,
		p.Model,
		p.BasePrice,
		p.Stock,
		p.GSTRate,
		p.LowStockThreshold,
		p.Active,
	)
	return wrapUnavailable(err)
}

func (r *repository) UpdateProduct(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, category = $2, make = $3, model = $4, base_price = $5,
			stock = $6, gst_rate = $7, low_stock_threshold = $8, active = $9,
			updated_at = NOW()
		WHERE id = $10
	`,
		p.Name,
		p.Category,
		p.Make,
		p.Model,
		p.BasePrice,
		p.Stock,
		p.GSTRate,
		p.LowStockThreshold,
		p.Active,
		p.ID,
	)
	if err != nil {
		return wrapUnavailable(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReserveStock decrements stock inside the caller's transaction. The
// conditional update is what makes concurrent order creation safe: the check
// and the decrement are one statement, so two creations can never both pass a
// stale stock read.
func (r *repository) ReserveStock(ctx context.Context, tx *sql.Tx, productID string, qty int) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, productID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
