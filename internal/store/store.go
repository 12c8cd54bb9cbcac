// Package store records order requests placed through the storefront.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an order request does not exist.
var ErrNotFound = errors.New("order request not found")

// OrderRequest is one submitted order for a single menu item.
type OrderRequest struct {
	ID        uuid.UUID
	ItemID    string
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int
	Notes     string
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Store persists order requests and aggregates ordered quantities per item.
type Store interface {
	RecordOrder(ctx context.Context, req OrderRequest) (OrderRequest, error)
	GetOrder(ctx context.Context, id uuid.UUID) (OrderRequest, error)
	OrderCounts(ctx context.Context) (map[string]int, error)
}

// prepare fills the ID and timestamp of a new request.
func prepare(req OrderRequest, now time.Time) OrderRequest {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	return req
}
