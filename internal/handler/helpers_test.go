package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/menuapi"
	"github.com/cafesang/storefront/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const testSecret = "test-receipt-secret"

// --- Mock menu ---

type mockMenu struct {
	categories    []menu.Category
	categoriesErr error
	items         []menu.MenuItem
	itemsErr      error
	lastSelection string
	mu            sync.Mutex
}

func newMockMenu() *mockMenu {
	return &mockMenu{
		categories: []menu.Category{{ID: 1, Name: "Cà phê"}, {ID: 2, Name: "Trà"}},
		items: []menu.MenuItem{
			{ID: "10", Name: "Bạc xỉu", Price: decimal.NewFromInt(29000), Category: "Cà phê", Orders: 4},
			{ID: "11", Name: "Cà phê sữa đá", Price: decimal.NewFromInt(25000), Category: "Cà phê"},
			{ID: "20", Name: "Trà đào", Price: decimal.NewFromInt(35000), Category: "Trà"},
		},
	}
}

func (m *mockMenu) Categories(_ context.Context) ([]menu.Category, error) {
	return m.categories, m.categoriesErr
}

func (m *mockMenu) Items(_ context.Context, sel menu.Selection) ([]menu.MenuItem, error) {
	m.mu.Lock()
	m.lastSelection = sel.String()
	m.mu.Unlock()
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	if sel.IsAll() {
		return m.items, nil
	}
	var name string
	for _, c := range m.categories {
		if c.ID == *sel.CategoryID() {
			name = c.Name
		}
	}
	var result []menu.MenuItem
	for _, item := range m.items {
		if item.Category == name {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockMenu) Item(_ context.Context, id string) (menu.MenuItem, error) {
	if m.itemsErr != nil {
		return menu.MenuItem{}, m.itemsErr
	}
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return menu.MenuItem{}, menu.ErrItemNotFound
}

func upstreamDown() error {
	return &menuapi.Error{StatusCode: http.StatusServiceUnavailable, Message: "Menu service is down"}
}

// --- Mock recorder / notifier ---

type mockRecorder struct {
	err      error
	recorded []store.OrderRequest
}

func (m *mockRecorder) RecordOrder(_ context.Context, req store.OrderRequest) (store.OrderRequest, error) {
	if m.err != nil {
		return store.OrderRequest{}, m.err
	}
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	m.recorded = append(m.recorded, req)
	return req, nil
}

type mockNotifier struct {
	placed []store.OrderRequest
}

func (m *mockNotifier) OrderPlaced(req store.OrderRequest) {
	m.placed = append(m.placed, req)
}

// --- Request helpers ---

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func doForm(t *testing.T, router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rr.Body.String())
	}
}
