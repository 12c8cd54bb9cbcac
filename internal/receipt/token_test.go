package receipt

import (
	"errors"
	"testing"
	"time"

	"github.com/cafesang/storefront/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret-key"

func sampleOrder() store.OrderRequest {
	return store.OrderRequest{
		ID:        uuid.New(),
		ItemID:    "2",
		ItemName:  "Cà phê sữa đá",
		UnitPrice: decimal.NewFromInt(30000),
		Quantity:  3,
		Notes:     "ít ngọt",
		Total:     decimal.NewFromInt(90000),
		CreatedAt: time.Now(),
	}
}

func TestIssueAndParse(t *testing.T) {
	order := sampleOrder()
	token, err := Issue(testSecret, order)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := Parse(testSecret, token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.OrderID != order.ID {
		t.Errorf("OrderID: got %v, want %v", claims.OrderID, order.ID)
	}
	if claims.Quantity != 3 || claims.Total != "90000.00" || claims.UnitPrice != "30000.00" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Notes != "ít ngọt" {
		t.Errorf("Notes: got %q", claims.Notes)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, _ := Issue(testSecret, sampleOrder())
	if _, err := Parse("wrong-secret", token); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	order := sampleOrder()
	order.CreatedAt = time.Now().Add(-48 * time.Hour)
	token, _ := Issue(testSecret, order)
	if _, err := Parse(testSecret, token); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for expired receipt, got %v", err)
	}
}

func TestParse_WrongSigningMethod(t *testing.T) {
	claims := Claims{OrderID: uuid.New()}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(testSecret, s); err == nil {
		t.Error("expected error for unsigned token")
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := Parse(testSecret, "not-a-token"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
