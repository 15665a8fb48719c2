package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"procurehub-be/internal/logger"
	"procurehub-be/internal/product"

	"go.uber.org/zap"
)

type Filter struct {
	Status     *Status
	CustomerID *string
	UserID     *string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, filter Filter, limit, offset int32) ([]*Order, error)
	ApplyTransition(ctx context.Context, o *Order, entry TrailEntry) error
	ListDispatchedLines(ctx context.Context, customerID string) ([]Line, error)
}

type repository struct {
	db       *sql.DB
	products product.Repository
}

func NewRepository(db *sql.DB, products product.Repository) Repository {
	return &repository{db: db, products: products}
}

// wrapUnavailable turns store timeouts into the retryable taxonomy error so
// callers never mistake a timed-out write for success.
func wrapUnavailable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func packedToJSON(packed map[int]bool) ([]byte, error) {
	m := make(map[string]bool, len(packed))
	for i, v := range packed {
		m[strconv.Itoa(i)] = v
	}
	return json.Marshal(m)
}

func packedFromJSON(raw []byte) (map[int]bool, error) {
	var m map[string]bool
	if len(raw) == 0 {
		return map[int]bool{}, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	packed := make(map[int]bool, len(m))
	for k, v := range m {
		i, err := strconv.Atoi(k)
		if err != nil {
			return nil, err
		}
		packed[i] = v
	}
	return packed, nil
}

// CreateOrderTx persists the order, its lines and its creation trail entries,
// and reserves stock, all in one transaction. The conditional stock decrement
// is the serialization point: a concurrent creation that would over-commit
// inventory rolls back here.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
		zap.Int("line_count", len(o.Lines)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return wrapUnavailable(err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	packed, err := packedToJSON(o.Packed)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, user_id, department_id, status,
			total_tax, total_payable, packed, version, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID,
		o.CustomerID,
		o.UserID,
		o.DepartmentID,
		o.Status,
		o.TotalTax,
		o.TotalPayable,
		packed,
		o.Version,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return wrapUnavailable(err)
	}

	for i, line := range o.Lines {
		ok, err := r.products.ReserveStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			log.Error("failed to reserve stock",
				zap.Int("line_index", i),
				zap.String("product_id", line.ProductID),
				zap.Error(err),
			)
			return wrapUnavailable(err)
		}
		if !ok {
			log.Warn("insufficient stock at reservation",
				zap.Int("line_index", i),
				zap.String("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
			)
			return ErrInsufficientStock
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (
				order_id, line_index, product_id, product_name, quantity,
				unit_price, base_unit_price, gst_rate, line_total, is_override
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			o.ID,
			i,
			line.ProductID,
			line.ProductName,
			line.Quantity,
			line.UnitPrice,
			line.BaseUnitPrice,
			line.GSTRate,
			line.LineTotal,
			line.IsOverride,
		)
		if err != nil {
			log.Error("failed to insert order line",
				zap.Int("line_index", i),
				zap.Error(err),
			)
			return wrapUnavailable(err)
		}
	}

	for _, entry := range o.Trail {
		if err := insertTrailEntry(ctx, tx, o.ID.String(), entry); err != nil {
			log.Error("failed to insert trail entry", zap.Error(err))
			return wrapUnavailable(err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return wrapUnavailable(err)
	}

	committed = true
	log.Info("order transaction committed")

	return nil
}

func insertTrailEntry(ctx context.Context, tx *sql.Tx, orderID string, entry TrailEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_comments (
			id, order_id, actor_id, actor_role, action, message, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		entry.ID,
		orderID,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		entry.Message,
		entry.CreatedAt,
	)
	return err
}

func (r *repository) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	var packed []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, user_id, department_id, status,
			total_tax, total_payable, packed,
			dispatch_approved_by, dispatched_by, dispatched_at,
			version, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID,
		&o.CustomerID,
		&o.UserID,
		&o.DepartmentID,
		&o.Status,
		&o.TotalTax,
		&o.TotalPayable,
		&packed,
		&o.DispatchApprovedBy,
		&o.DispatchedBy,
		&o.DispatchedAt,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	if o.Packed, err = packedFromJSON(packed); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, unit_price,
			base_unit_price, gst_rate, line_total, is_override
		FROM order_lines
		WHERE order_id = $1
		ORDER BY line_index ASC
	`, id)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ProductID,
			&l.ProductName,
			&l.Quantity,
			&l.UnitPrice,
			&l.BaseUnitPrice,
			&l.GSTRate,
			&l.LineTotal,
			&l.IsOverride,
		); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trail, err := r.loadTrail(ctx, id)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	o.Trail = trail

	return &o, nil
}

func (r *repository) loadTrail(ctx context.Context, orderID string) ([]TrailEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_role, action, message, created_at
		FROM order_comments
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trail []TrailEntry
	for rows.Next() {
		var e TrailEntry
		if err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.ActorRole,
			&e.Action,
			&e.Message,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		trail = append(trail, e)
	}
	return trail, rows.Err()
}

func (r *repository) ListOrders(ctx context.Context, filter Filter, limit, offset int32) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
		zap.Int32("limit", limit),
		zap.Int32("offset", offset),
	)

	query := `
		SELECT id, customer_id, user_id, department_id, status,
			total_tax, total_payable, version, created_at, updated_at
		FROM orders
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.DateFrom)
		argIndex++
	}

	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.DateTo)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.UserID,
			&o.DepartmentID,
			&o.Status,
			&o.TotalTax,
			&o.TotalPayable,
			&o.Version,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("list orders success", zap.Int("count", len(orders)))

	return orders, nil
}

// ApplyTransition persists a status change plus its trail entry under an
// optimistic version check. A concurrent approver who got there first leaves
// zero rows to update; the loser receives ErrConflict instead of silently
// overwriting.
func (r *repository) ApplyTransition(ctx context.Context, o *Order, entry TrailEntry) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ApplyTransition"),
		zap.String("order_id", o.ID.String()),
		zap.String("action", entry.Action),
		zap.Int("version", o.Version),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapUnavailable(err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	packed, err := packedToJSON(o.Packed)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, packed = $2,
			dispatch_approved_by = $3, dispatched_by = $4, dispatched_at = $5,
			version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7
	`,
		o.Status,
		packed,
		o.DispatchApprovedBy,
		o.DispatchedBy,
		o.DispatchedAt,
		o.ID,
		o.Version,
	)
	if err != nil {
		log.Error("failed to update order", zap.Error(err))
		return wrapUnavailable(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Warn("stale order version, transition lost the race")
		return ErrConflict
	}

	if err := insertTrailEntry(ctx, tx, o.ID.String(), entry); err != nil {
		log.Error("failed to insert trail entry", zap.Error(err))
		return wrapUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return wrapUnavailable(err)
	}

	committed = true
	o.Version++
	o.Trail = append(o.Trail, entry)

	log.Info("transition applied", zap.String("status", string(o.Status)))

	return nil
}

// ListDispatchedLines returns every line of the customer's dispatched orders,
// feeding the realized-savings report.
func (r *repository) ListDispatchedLines(ctx context.Context, customerID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.product_id, l.product_name, l.quantity, l.unit_price,
			l.base_unit_price, l.gst_rate, l.line_total, l.is_override
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		WHERE o.customer_id = $1 AND o.status = $2
	`, customerID, StatusDispatched)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ProductID,
			&l.ProductName,
			&l.Quantity,
			&l.UnitPrice,
			&l.BaseUnitPrice,
			&l.GSTRate,
			&l.LineTotal,
			&l.IsOverride,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
