package handler_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cafesang/storefront/internal/handler"
	"github.com/cafesang/storefront/internal/receipt"
	"github.com/cafesang/storefront/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func setupOrderRouter(m *mockMenu, rec *mockRecorder, n *mockNotifier) *chi.Mux {
	var notifier handler.OrderNotifier
	if n != nil {
		notifier = n
	}
	h := handler.NewOrderHandler(m, rec, notifier, testSecret)
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

type orderResp struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes"`
	Total     decimal.Decimal `json:"total"`
	Receipt   string          `json:"receipt"`
}

func TestCreateOrder_OK(t *testing.T) {
	rec := &mockRecorder{}
	n := &mockNotifier{}
	router := setupOrderRouter(newMockMenu(), rec, n)

	rr := doRequest(t, router, "POST", "/api/orders", map[string]interface{}{
		"item_id":  "10",
		"quantity": 3,
		"notes":    "  ít ngọt  ",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp orderResp
	decodeJSON(t, rr, &resp)
	if resp.ItemName != "Bạc xỉu" || resp.Quantity != 3 {
		t.Errorf("unexpected order: %+v", resp)
	}
	if !resp.Total.Equal(decimal.NewFromInt(87000)) {
		t.Errorf("total = %s, want 87000", resp.Total)
	}
	if resp.Notes != "ít ngọt" {
		t.Errorf("notes = %q, want trimmed", resp.Notes)
	}
	if len(rec.recorded) != 1 {
		t.Fatalf("expected 1 recorded order, got %d", len(rec.recorded))
	}
	if len(n.placed) != 1 || n.placed[0].ItemID != "10" {
		t.Errorf("notifier not called: %+v", n.placed)
	}

	claims, err := receipt.Parse(testSecret, resp.Receipt)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if claims.OrderID.String() != resp.ID {
		t.Errorf("receipt order %s, want %s", claims.OrderID, resp.ID)
	}
}

func TestCreateOrder_DefaultQuantity(t *testing.T) {
	rec := &mockRecorder{}
	router := setupOrderRouter(newMockMenu(), rec, nil)

	rr := doRequest(t, router, "POST", "/api/orders", map[string]interface{}{"item_id": "20"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if rec.recorded[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", rec.recorded[0].Quantity)
	}
}

func TestCreateOrder_LargeQuantity(t *testing.T) {
	mem := store.NewMemory()
	h := handler.NewOrderHandler(newMockMenu(), mem, nil, testSecret)
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)

	rr := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"item_id": "20", "quantity": 3000000000})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var resp orderResp
	decodeJSON(t, rr, &resp)
	want := decimal.NewFromInt(35000).Mul(decimal.NewFromInt(3000000000))
	if resp.Quantity != 3000000000 || !resp.Total.Equal(want) {
		t.Errorf("got quantity %d total %s, want total %s", resp.Quantity, resp.Total, want)
	}

	counts, err := mem.OrderCounts(context.Background())
	if err != nil {
		t.Fatalf("OrderCounts: %v", err)
	}
	if counts["20"] != 3000000000 {
		t.Errorf("count = %d", counts["20"])
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"missing item", map[string]interface{}{"quantity": 1}, http.StatusBadRequest},
		{"zero quantity", map[string]interface{}{"item_id": "10", "quantity": 0}, http.StatusBadRequest},
		{"negative quantity", map[string]interface{}{"item_id": "10", "quantity": -2}, http.StatusBadRequest},
		{"notes too long", map[string]interface{}{"item_id": "10", "notes": strings.Repeat("a", 501)}, http.StatusBadRequest},
		{"unknown item", map[string]interface{}{"item_id": "999"}, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &mockRecorder{}
			rr := doRequest(t, setupOrderRouter(newMockMenu(), rec, nil), "POST", "/api/orders", tc.body)
			if rr.Code != tc.want {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, tc.want, rr.Body.String())
			}
			if len(rec.recorded) != 0 {
				t.Error("invalid order must not be recorded")
			}
		})
	}
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	router := setupOrderRouter(newMockMenu(), &mockRecorder{}, nil)
	rr := doRequest(t, router, "POST", "/api/orders", "not an object")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateOrder_MenuUnavailable(t *testing.T) {
	m := newMockMenu()
	m.itemsErr = upstreamDown()
	rr := doRequest(t, setupOrderRouter(m, &mockRecorder{}, nil), "POST", "/api/orders", map[string]interface{}{"item_id": "10"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}

func TestCreateOrder_StoreFailure(t *testing.T) {
	n := &mockNotifier{}
	rec := &mockRecorder{err: errors.New("connection refused")}
	rr := doRequest(t, setupOrderRouter(newMockMenu(), rec, n), "POST", "/api/orders", map[string]interface{}{"item_id": "10"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if len(n.placed) != 0 {
		t.Error("failed order must not be broadcast")
	}
}
