package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cafesang/storefront/internal/dialog"
	"github.com/cafesang/storefront/internal/enum"
	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/menuapi"
	"github.com/cafesang/storefront/internal/order"
	"github.com/cafesang/storefront/internal/receipt"
	"github.com/cafesang/storefront/internal/store"
	"github.com/shopspring/decimal"
)

// MenuService is the part of menu.Service a session reads from.
type MenuService interface {
	Categories(ctx context.Context) ([]menu.Category, error)
	Items(ctx context.Context, sel menu.Selection) ([]menu.MenuItem, error)
}

// Notifier is told about every recorded order request.
type Notifier interface {
	OrderPlaced(req store.OrderRequest)
}

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Menu          MenuService
	Orders        order.Recorder
	Notifier      Notifier
	ReceiptSecret string
}

// ── Payloads ──

type selectPayload struct {
	Category string `json:"category"`
}

type openPayload struct {
	ItemID  string `json:"item_id"`
	Trigger string `json:"trigger"`
}

type focusPayload struct {
	ID string `json:"id"`
}

type quantityPayload struct {
	Quantity *int `json:"quantity"`
	Step     int  `json:"step"`
}

type notesPayload struct {
	Notes string `json:"notes"`
}

// MenuPayload is sent when a selection starts loading and when its items
// arrive. Generation identifies the fetch; only the latest is ever delivered.
type MenuPayload struct {
	Selection  string          `json:"selection"`
	Generation uint64          `json:"generation"`
	Loading    bool            `json:"loading,omitempty"`
	Items      []menu.MenuItem `json:"items"`
}

// MenuErrorPayload reports a failed load. Retryable is always true: the
// visitor may send a retry message for the same selection.
type MenuErrorPayload struct {
	Scope     string `json:"scope"`
	Selection string `json:"selection,omitempty"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// DialogPayload is the order dialog state plus the action the last key
// press caused.
type DialogPayload struct {
	order.State
	Action string `json:"action,omitempty"`
}

// PlacedPayload confirms a recorded order request.
type PlacedPayload struct {
	OrderID  string          `json:"order_id"`
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Receipt  string          `json:"receipt,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

const (
	msgCategoriesFailed = "Failed to load categories"
	msgProductsFailed   = "Failed to load products"
)

var errUnknownMessage = errors.New("unknown message type")

// Session is the server side of one visitor's menu page: the category
// selection, the items on screen and the order dialog.
type Session struct {
	deps   Deps
	emit   func(Event)
	loader *menu.Loader
	modal  *order.Modal

	mu               sync.Mutex
	items            map[string]menu.MenuItem
	categoriesFailed bool
}

// NewSession creates a session that sends its events through emit. emit is
// called from more than one goroutine.
func NewSession(deps Deps, emit func(Event)) *Session {
	s := &Session{
		deps:  deps,
		emit:  emit,
		modal: order.NewModal(deps.Orders),
		items: make(map[string]menu.MenuItem),
	}
	s.loader = menu.NewLoader(deps.Menu, s.applyMenu)
	s.loader.OnStart(func(sel menu.Selection, gen uint64) {
		s.emit(newEvent(enum.EventMenu, MenuPayload{Selection: sel.String(), Generation: gen, Loading: true}))
	})
	return s
}

// Start sends the categories and begins loading the full menu.
func (s *Session) Start(ctx context.Context) {
	s.loadCategories(ctx)
	s.selectCategory(ctx, menu.All)
}

// Close cancels any in-flight menu fetch.
func (s *Session) Close() {
	s.loader.Stop()
}

// Handle processes one client message. Failures are reported to the client
// as error events.
func (s *Session) Handle(ctx context.Context, ev Event) {
	if err := s.handle(ctx, ev); err != nil {
		slog.Debug("session message rejected", "type", ev.Type, "error", err)
		s.emit(newEvent(enum.EventError, errorPayload{Message: err.Error()}))
	}
}

func (s *Session) handle(ctx context.Context, ev Event) error {
	switch ev.Type {
	case enum.MsgSelectCategory:
		var p selectPayload
		if err := decode(ev, &p); err != nil {
			return err
		}
		sel, err := menu.ParseSelection(p.Category)
		if err != nil {
			return err
		}
		s.selectCategory(ctx, sel)
		return nil

	case enum.MsgRetry:
		s.mu.Lock()
		reloadCategories := s.categoriesFailed
		s.mu.Unlock()
		if reloadCategories {
			s.loadCategories(ctx)
		}
		s.loader.Retry(ctx)
		return nil

	case enum.MsgOpenOrder:
		var p openPayload
		if err := decode(ev, &p); err != nil {
			return err
		}
		s.mu.Lock()
		item, ok := s.items[p.ItemID]
		s.mu.Unlock()
		if !ok {
			return menu.ErrItemNotFound
		}
		if err := s.modal.Open(item, p.Trigger); err != nil {
			return err
		}
		s.emitDialog(dialog.ActionMoveFocus)
		return nil

	case enum.MsgKey:
		var k dialog.Key
		if err := decode(ev, &k); err != nil {
			return err
		}
		action, err := s.modal.HandleKey(k)
		if err != nil {
			return err
		}
		if action != dialog.ActionNone {
			s.emitDialog(action)
		}
		return nil

	case enum.MsgFocus:
		var p focusPayload
		if err := decode(ev, &p); err != nil {
			return err
		}
		s.modal.Focus(p.ID)
		return nil

	case enum.MsgSetQuantity:
		var p quantityPayload
		if err := decode(ev, &p); err != nil {
			return err
		}
		var err error
		switch {
		case p.Quantity != nil:
			err = s.modal.SetQuantity(*p.Quantity)
		case p.Step > 0:
			err = s.modal.Increment()
		case p.Step < 0:
			err = s.modal.Decrement()
		}
		if err != nil {
			return err
		}
		s.emitDialog(dialog.ActionNone)
		return nil

	case enum.MsgSetNotes:
		var p notesPayload
		if err := decode(ev, &p); err != nil {
			return err
		}
		if err := s.modal.SetNotes(p.Notes); err != nil {
			return err
		}
		s.emitDialog(dialog.ActionNone)
		return nil

	case enum.MsgSubmitOrder:
		return s.submit(ctx)

	case enum.MsgCloseOrder:
		if _, err := s.modal.Close(); err != nil {
			return err
		}
		s.emitDialog(dialog.ActionClose)
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownMessage, ev.Type)
}

func (s *Session) submit(ctx context.Context) error {
	req, err := s.modal.Submit(ctx)
	if err != nil {
		// A failed recording leaves the dialog open with its error set.
		s.emitDialog(dialog.ActionNone)
		return err
	}

	slog.Info("order request recorded", "order_id", req.ID, "item_id", req.ItemID, "quantity", req.Quantity)
	if s.deps.Notifier != nil {
		s.deps.Notifier.OrderPlaced(req)
	}

	payload := PlacedPayload{
		OrderID:  req.ID.String(),
		ItemID:   req.ItemID,
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		Total:    req.Total,
	}
	if s.deps.ReceiptSecret != "" {
		token, err := receipt.Issue(s.deps.ReceiptSecret, req)
		if err != nil {
			slog.Error("issue receipt", "order_id", req.ID, "error", err)
		} else {
			payload.Receipt = token
		}
	}
	s.emit(newEvent(enum.EventOrderPlaced, payload))
	s.emitDialog(dialog.ActionClose)
	return nil
}

func (s *Session) loadCategories(ctx context.Context) {
	categories, err := s.deps.Menu.Categories(ctx)
	s.mu.Lock()
	s.categoriesFailed = err != nil
	s.mu.Unlock()
	if err != nil {
		slog.Warn("load categories", "error", err)
		s.emit(newEvent(enum.EventMenuError, MenuErrorPayload{
			Scope:     "categories",
			Message:   menuapi.Message(err, msgCategoriesFailed),
			Retryable: true,
		}))
		return
	}
	s.emit(newEvent(enum.EventCategories, categories))
}

func (s *Session) selectCategory(ctx context.Context, sel menu.Selection) {
	s.loader.Select(ctx, sel)
}

// applyMenu runs under the Loader's lock and only for the latest selection.
func (s *Session) applyMenu(res menu.Result) {
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			return
		}
		slog.Warn("load menu", "selection", res.Selection.String(), "error", res.Err)
		s.emit(newEvent(enum.EventMenuError, MenuErrorPayload{
			Scope:     "menu",
			Selection: res.Selection.String(),
			Message:   menuapi.Message(res.Err, msgProductsFailed),
			Retryable: true,
		}))
		return
	}

	items := make(map[string]menu.MenuItem, len(res.Items))
	for _, item := range res.Items {
		items[item.ID] = item
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	list := res.Items
	if list == nil {
		list = []menu.MenuItem{}
	}
	s.emit(newEvent(enum.EventMenu, MenuPayload{
		Selection:  res.Selection.String(),
		Generation: res.Generation,
		Items:      list,
	}))
}

func (s *Session) emitDialog(action dialog.Action) {
	s.emit(newEvent(enum.EventDialog, DialogPayload{State: s.modal.State(), Action: actionName(action)}))
}

func actionName(a dialog.Action) string {
	switch a {
	case dialog.ActionMoveFocus:
		return "focus"
	case dialog.ActionClose:
		return "close"
	}
	return ""
}

func decode(ev Event, v any) error {
	if len(ev.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", ev.Type)
	}
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", ev.Type, err)
	}
	return nil
}
