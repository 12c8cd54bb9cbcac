package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/menuapi"
	"github.com/cafesang/storefront/internal/order"
	"github.com/cafesang/storefront/internal/receipt"
	"github.com/cafesang/storefront/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderNotifier is told about every recorded order request.
// Satisfied by *ws.Hub.
type OrderNotifier interface {
	OrderPlaced(req store.OrderRequest)
}

// OrderHandler accepts order requests over the JSON API.
type OrderHandler struct {
	menu     MenuReader
	orders   order.Recorder
	notifier OrderNotifier
	secret   string
}

// NewOrderHandler creates a new OrderHandler. notifier may be nil.
func NewOrderHandler(m MenuReader, orders order.Recorder, notifier OrderNotifier, receiptSecret string) *OrderHandler {
	return &OrderHandler{menu: m, orders: orders, notifier: notifier, secret: receiptSecret}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted under /api.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
}

// --- Request / Response types ---

type createOrderRequest struct {
	ItemID   string `json:"item_id"`
	Quantity *int   `json:"quantity"`
	Notes    string `json:"notes"`
}

type orderResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Receipt   string          `json:"receipt,omitempty"`
}

func toOrderResponse(req store.OrderRequest) orderResponse {
	return orderResponse{
		ID:        req.ID,
		ItemID:    req.ItemID,
		ItemName:  req.ItemName,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
		Total:     req.Total,
		CreatedAt: req.CreatedAt,
	}
}

// --- Handlers ---

// Create records an order request for one menu item. Quantity defaults
// to 1 when omitted.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	item, err := h.menu.Item(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		slog.ErrorContext(r.Context(), "look up menu item", "item_id", req.ItemID, "error", err)
		writeError(w, menuStatus(err), menuapi.Message(err, "Failed to load products"))
		return
	}

	placed, err := order.Place(r.Context(), h.orders, item, order.Form{Quantity: qty, Notes: req.Notes})
	if err != nil {
		if errors.Is(err, order.ErrRecorderFailed) {
			slog.ErrorContext(r.Context(), "record order", "item_id", item.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.InfoContext(r.Context(), "order request recorded", "order_id", placed.ID, "item_id", placed.ItemID, "quantity", placed.Quantity)
	if h.notifier != nil {
		h.notifier.OrderPlaced(placed)
	}

	resp := toOrderResponse(placed)
	if h.secret != "" {
		if token, err := receipt.Issue(h.secret, placed); err != nil {
			slog.ErrorContext(r.Context(), "issue receipt", "order_id", placed.ID, "error", err)
		} else {
			resp.Receipt = token
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}
