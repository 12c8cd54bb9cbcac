package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps order requests in process memory. Counts survive page
// reloads but not restarts.
type Memory struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]OrderRequest
	counts map[string]int
	now    func() time.Time
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		orders: make(map[uuid.UUID]OrderRequest),
		counts: make(map[string]int),
		now:    time.Now,
	}
}

// RecordOrder stores req and adds its quantity to the item's count.
func (m *Memory) RecordOrder(_ context.Context, req OrderRequest) (OrderRequest, error) {
	req = prepare(req, m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[req.ID] = req
	m.counts[req.ItemID] += req.Quantity
	return req, nil
}

// GetOrder returns the order request with the given ID, or ErrNotFound.
func (m *Memory) GetOrder(_ context.Context, id uuid.UUID) (OrderRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.orders[id]
	if !ok {
		return OrderRequest{}, ErrNotFound
	}
	return req, nil
}

// OrderCounts returns a copy of the per-item ordered quantities.
func (m *Memory) OrderCounts(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}
