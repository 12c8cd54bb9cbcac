package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/store"
	"github.com/shopspring/decimal"
)

// Form is a validated order form submission.
type Form struct {
	Quantity int
	Notes    string
}

// ParseForm validates raw form values. The returned map is keyed by field
// name and is empty when the form is valid.
func ParseForm(quantity, notes string) (Form, map[string]string) {
	errs := make(map[string]string)
	f := Form{Notes: strings.TrimSpace(notes)}

	q := strings.TrimSpace(quantity)
	if q == "" {
		f.Quantity = 1
	} else if n, err := strconv.Atoi(q); err != nil || n < 1 {
		errs["quantity"] = ErrInvalidQty.Error()
	} else {
		f.Quantity = n
	}

	if utf8.RuneCountInString(f.Notes) > MaxNotesLength {
		errs["notes"] = ErrNotesTooLong.Error()
	}
	return f, errs
}

// Total returns price × quantity.
func Total(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Place records an order request for item without going through a dialog.
func Place(ctx context.Context, r Recorder, item menu.MenuItem, f Form) (store.OrderRequest, error) {
	req, err := newRequest(item, f.Quantity, f.Notes)
	if err != nil {
		return store.OrderRequest{}, err
	}
	recorded, err := r.RecordOrder(ctx, req)
	if err != nil {
		return store.OrderRequest{}, fmt.Errorf("%w: %w", ErrRecorderFailed, err)
	}
	return recorded, nil
}

func newRequest(item menu.MenuItem, quantity int, notes string) (store.OrderRequest, error) {
	if item.ID == "" {
		return store.OrderRequest{}, ErrMissingItem
	}
	if item.Price.IsNegative() {
		return store.OrderRequest{}, ErrNegativePrice
	}
	if quantity < 1 {
		return store.OrderRequest{}, ErrInvalidQty
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return store.OrderRequest{}, ErrNotesTooLong
	}
	return store.OrderRequest{
		ItemID:    item.ID,
		ItemName:  item.Name,
		UnitPrice: item.Price,
		Quantity:  quantity,
		Notes:     notes,
		Total:     Total(item.Price, quantity),
	}, nil
}
