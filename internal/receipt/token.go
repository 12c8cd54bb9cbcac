// Package receipt issues signed order receipts for the confirmation page.
package receipt

import (
	"errors"
	"fmt"
	"time"

	"github.com/cafesang/storefront/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ttl = 24 * time.Hour

// ErrInvalid is returned for tampered, expired or malformed receipts.
var ErrInvalid = errors.New("invalid receipt")

// Claims are the order details carried by a receipt.
type Claims struct {
	OrderID   uuid.UUID `json:"order_id"`
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Total     string    `json:"total"`
	Notes     string    `json:"notes,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a receipt for a recorded order request.
func Issue(secret string, req store.OrderRequest) (string, error) {
	issuedAt := req.CreatedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	claims := Claims{
		OrderID:   req.ID,
		ItemID:    req.ItemID,
		ItemName:  req.ItemName,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice.StringFixed(2),
		Total:     req.Total.StringFixed(2),
		Notes:     req.Notes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates a receipt and returns its claims.
func Parse(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
