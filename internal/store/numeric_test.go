package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "25000", "45000.5", "12.345"} {
		d := decimal.RequireFromString(s)
		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d.Round(2)) {
			t.Errorf("%s: got %s, want %s", s, got, d.Round(2))
		}
	}
}

func TestNumericToDecimal_Invalid(t *testing.T) {
	if got := numericToDecimal(pgtype.Numeric{}); !got.IsZero() {
		t.Errorf("invalid numeric: got %s, want 0", got)
	}
}
