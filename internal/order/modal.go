// Package order implements the order dialog: quantity and notes entry,
// client-visible totals, focus handling and submission.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/cafesang/storefront/internal/dialog"
	"github.com/cafesang/storefront/internal/enum"
	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/store"
	"github.com/shopspring/decimal"
)

// MaxNotesLength is the longest accepted note, in characters.
const MaxNotesLength = 500

// Errors returned by the order dialog.
var (
	ErrBusy           = errors.New("order dialog is already open")
	ErrNotOpen        = errors.New("order dialog is not open")
	ErrSubmitting     = errors.New("order is being submitted")
	ErrInvalidQty     = errors.New("quantity must be >= 1")
	ErrNotesTooLong   = fmt.Errorf("notes must be at most %d characters", MaxNotesLength)
	ErrMissingItem    = errors.New("menu item is required")
	ErrNegativePrice  = errors.New("menu item price must be >= 0")
	ErrRecorderFailed = errors.New("order could not be recorded")
)

// Focusable element IDs of the order dialog, in tab order.
var Focusables = []string{
	"order-close",
	"order-qty-dec",
	"order-qty-inc",
	"order-notes",
	"order-cancel",
	"order-submit",
}

// Recorder persists a submitted order request.
type Recorder interface {
	RecordOrder(ctx context.Context, req store.OrderRequest) (store.OrderRequest, error)
}

// State is a snapshot of the dialog for rendering.
type State struct {
	Status   string          `json:"state"`
	Item     *menu.MenuItem  `json:"item,omitempty"`
	Quantity int             `json:"quantity"`
	Notes    string          `json:"notes"`
	Total    decimal.Decimal `json:"total"`
	Focus    string          `json:"focus"`
	Error    string          `json:"error,omitempty"`
}

// Modal is the order dialog state machine:
//
//	closed → open → submitting → closed
//	                           ↘ open (recording failed)
//
// A Modal is safe for concurrent use.
type Modal struct {
	recorder Recorder

	mu       sync.Mutex
	status   string
	item     menu.MenuItem
	quantity int
	notes    string
	lastErr  string
	trap     *dialog.FocusTrap
}

// NewModal creates a closed dialog that records submissions with r.
func NewModal(r Recorder) *Modal {
	return &Modal{
		recorder: r,
		status:   enum.DialogClosed,
		quantity: 1,
		trap:     dialog.NewFocusTrap(Focusables...),
	}
}

// Open shows the dialog for item. trigger is the element that opened it;
// focus returns there when the dialog closes.
func (m *Modal) Open(item menu.MenuItem, trigger string) error {
	if item.ID == "" {
		return ErrMissingItem
	}
	if item.Price.IsNegative() {
		return ErrNegativePrice
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != enum.DialogClosed {
		return ErrBusy
	}
	m.item = item
	m.reset()
	m.status = enum.DialogOpen
	m.trap.Activate(trigger)
	return nil
}

// Close dismisses the dialog without ordering and returns the element that
// receives focus. Closing a closed dialog is a no-op.
func (m *Modal) Close() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.status {
	case enum.DialogClosed:
		return m.trap.Focused(), nil
	case enum.DialogSubmitting:
		return "", ErrSubmitting
	}
	return m.closeLocked(), nil
}

// HandleKey routes a key press through the focus trap. Escape closes.
func (m *Modal) HandleKey(k dialog.Key) (dialog.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != enum.DialogOpen {
		return dialog.ActionNone, nil
	}
	action := m.trap.HandleKey(k)
	if action == dialog.ActionClose {
		m.closeLocked()
	}
	return action, nil
}

// Focus records a pointer focus change.
func (m *Modal) Focus(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == enum.DialogOpen {
		m.trap.Focus(id)
	}
}

// SetQuantity sets the quantity; values below 1 are rejected.
func (m *Modal) SetQuantity(n int) error {
	if n < 1 {
		return ErrInvalidQty
	}
	return m.edit(func() { m.quantity = n })
}

// Increment adds one to the quantity. There is no upper bound.
func (m *Modal) Increment() error {
	return m.edit(func() { m.quantity++ })
}

// Decrement removes one from the quantity, stopping at 1.
func (m *Modal) Decrement() error {
	return m.edit(func() {
		if m.quantity > 1 {
			m.quantity--
		}
	})
}

// SetNotes replaces the order notes.
func (m *Modal) SetNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return m.edit(func() { m.notes = notes })
}

// Total returns unit price × quantity for the open item.
func (m *Modal) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalLocked()
}

// Submit records the order request and closes the dialog. If recording
// fails the dialog returns to open and keeps the entered values.
func (m *Modal) Submit(ctx context.Context) (store.OrderRequest, error) {
	m.mu.Lock()
	switch m.status {
	case enum.DialogClosed:
		m.mu.Unlock()
		return store.OrderRequest{}, ErrNotOpen
	case enum.DialogSubmitting:
		m.mu.Unlock()
		return store.OrderRequest{}, ErrSubmitting
	}
	req, err := newRequest(m.item, m.quantity, m.notes)
	if err != nil {
		m.mu.Unlock()
		return store.OrderRequest{}, err
	}
	m.status = enum.DialogSubmitting
	m.lastErr = ""
	m.mu.Unlock()

	recorded, err := m.recorder.RecordOrder(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status = enum.DialogOpen
		m.lastErr = ErrRecorderFailed.Error()
		return store.OrderRequest{}, fmt.Errorf("%w: %w", ErrRecorderFailed, err)
	}
	m.closeLocked()
	return recorded, nil
}

// State returns a snapshot of the dialog.
func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := State{
		Status:   m.status,
		Quantity: m.quantity,
		Notes:    m.notes,
		Focus:    m.trap.Focused(),
		Error:    m.lastErr,
	}
	if m.status != enum.DialogClosed {
		item := m.item
		s.Item = &item
		s.Total = m.totalLocked()
	}
	return s
}

func (m *Modal) edit(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.status {
	case enum.DialogClosed:
		return ErrNotOpen
	case enum.DialogSubmitting:
		return ErrSubmitting
	}
	fn()
	return nil
}

func (m *Modal) totalLocked() decimal.Decimal {
	return Total(m.item.Price, m.quantity)
}

func (m *Modal) reset() {
	m.quantity = 1
	m.notes = ""
	m.lastErr = ""
}

func (m *Modal) closeLocked() string {
	m.status = enum.DialogClosed
	m.reset()
	m.item = menu.MenuItem{}
	return m.trap.Deactivate()
}
