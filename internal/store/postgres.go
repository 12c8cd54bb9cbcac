package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of *pgxpool.Pool used by Postgres.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres stores order requests in the order_requests table.
type Postgres struct {
	db DBTX
}

// NewPostgres wraps a pool (or transaction).
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// RecordOrder inserts req, assigning its ID and creation time.
func (p *Postgres) RecordOrder(ctx context.Context, req OrderRequest) (OrderRequest, error) {
	req = prepare(req, time.Now().UTC())
	_, err := p.db.Exec(ctx,
		`INSERT INTO order_requests (id, item_id, item_name, unit_price, quantity, notes, total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.ItemID, req.ItemName, decimalToNumeric(req.UnitPrice), req.Quantity, req.Notes,
		decimalToNumeric(req.Total), req.CreatedAt,
	)
	if err != nil {
		return OrderRequest{}, fmt.Errorf("insert order request: %w", err)
	}
	return req, nil
}

// GetOrder returns the order request with the given ID, or ErrNotFound.
func (p *Postgres) GetOrder(ctx context.Context, id uuid.UUID) (OrderRequest, error) {
	var (
		req              OrderRequest
		unitPrice, total pgtype.Numeric
	)
	err := p.db.QueryRow(ctx,
		`SELECT id, item_id, item_name, unit_price, quantity, notes, total, created_at
		 FROM order_requests WHERE id = $1`, id,
	).Scan(&req.ID, &req.ItemID, &req.ItemName, &unitPrice, &req.Quantity, &req.Notes, &total, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderRequest{}, ErrNotFound
		}
		return OrderRequest{}, fmt.Errorf("get order request: %w", err)
	}
	req.UnitPrice = numericToDecimal(unitPrice)
	req.Total = numericToDecimal(total)
	return req, nil
}

// OrderCounts sums ordered quantities per menu item ID.
func (p *Postgres) OrderCounts(ctx context.Context) (map[string]int, error) {
	rows, err := p.db.Query(ctx,
		`SELECT item_id, SUM(quantity)::bigint FROM order_requests GROUP BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("query order counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			itemID string
			qty    int64
		)
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts[itemID] = int(qty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order counts: %w", err)
	}
	return counts, nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
