package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/menuapi"
	"github.com/go-chi/chi/v5"
)

// MenuReader defines the menu methods needed by the handlers.
// Satisfied by *menu.Service; narrow interface for testability.
type MenuReader interface {
	Categories(ctx context.Context) ([]menu.Category, error)
	Items(ctx context.Context, sel menu.Selection) ([]menu.MenuItem, error)
	Item(ctx context.Context, id string) (menu.MenuItem, error)
}

// MenuHandler serves the menu as JSON.
type MenuHandler struct {
	menu MenuReader
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(m MenuReader) *MenuHandler {
	return &MenuHandler{menu: m}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted under /api.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.Categories)
	r.Get("/menu", h.Menu)
}

// Categories returns every menu category.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.menu.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list categories", "error", err)
		writeError(w, menuStatus(err), menuapi.Message(err, "Failed to load categories"))
		return
	}
	if categories == nil {
		categories = []menu.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Menu returns the active items for ?category= (an ID or "all").
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	sel, err := menu.ParseSelection(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	items, err := h.menu.Items(r.Context(), sel)
	if err != nil {
		slog.ErrorContext(r.Context(), "list menu", "selection", sel.String(), "error", err)
		writeError(w, menuStatus(err), menuapi.Message(err, "Failed to load products"))
		return
	}
	if items == nil {
		items = []menu.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
