package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseForm(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		notes    string
		wantQty  int
		wantErrs []string
	}{
		{"defaults to one", "", "", 1, nil},
		{"valid", "3", "ít đá", 3, nil},
		{"trims", " 2 ", "  thêm sữa ", 2, nil},
		{"zero", "0", "", 0, []string{"quantity"}},
		{"negative", "-4", "", 0, []string{"quantity"}},
		{"not a number", "two", "", 0, []string{"quantity"}},
		{"fractional", "1.5", "", 0, []string{"quantity"}},
		{"long notes", "1", strings.Repeat("a", MaxNotesLength+1), 1, []string{"notes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, errs := ParseForm(tt.quantity, tt.notes)
			if len(errs) != len(tt.wantErrs) {
				t.Fatalf("errors: got %v, want fields %v", errs, tt.wantErrs)
			}
			for _, field := range tt.wantErrs {
				if _, ok := errs[field]; !ok {
					t.Errorf("missing error for %q", field)
				}
			}
			if len(tt.wantErrs) == 0 && f.Quantity != tt.wantQty {
				t.Errorf("Quantity: got %d, want %d", f.Quantity, tt.wantQty)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	price := decimal.RequireFromString("32500.50")
	if got := Total(price, 4); !got.Equal(decimal.RequireFromString("130002")) {
		t.Errorf("Total: got %s", got)
	}
}

func TestPlace(t *testing.T) {
	rec := &mockRecorder{}
	req, err := Place(context.Background(), rec, latte(), Form{Quantity: 2, Notes: "mang đi"})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if !req.Total.Equal(decimal.NewFromInt(90000)) {
		t.Errorf("Total: got %s", req.Total)
	}
	if len(rec.recorded) != 1 {
		t.Errorf("expected 1 record, got %d", len(rec.recorded))
	}
}

func TestPlace_Invalid(t *testing.T) {
	rec := &mockRecorder{}
	if _, err := Place(context.Background(), rec, latte(), Form{Quantity: 0}); !errors.Is(err, ErrInvalidQty) {
		t.Errorf("expected ErrInvalidQty, got %v", err)
	}
	rec.err = errors.New("db down")
	if _, err := Place(context.Background(), rec, latte(), Form{Quantity: 1}); !errors.Is(err, ErrRecorderFailed) {
		t.Errorf("expected ErrRecorderFailed, got %v", err)
	}
}
