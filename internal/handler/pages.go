package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cafesang/storefront/internal/contact"
	"github.com/cafesang/storefront/internal/content"
	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/menuapi"
	"github.com/cafesang/storefront/internal/order"
	"github.com/cafesang/storefront/internal/receipt"
	"github.com/cafesang/storefront/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Renderer renders a named page. Satisfied by *web.Templates.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// PageHandler serves the server-rendered storefront.
type PageHandler struct {
	menu     MenuReader
	orders   order.Recorder
	notifier OrderNotifier
	pages    Renderer
	site     content.Site
	secret   string
}

// NewPageHandler creates a new PageHandler. notifier may be nil.
func NewPageHandler(m MenuReader, orders order.Recorder, notifier OrderNotifier, pages Renderer, site content.Site, receiptSecret string) *PageHandler {
	return &PageHandler{
		menu:     m,
		orders:   orders,
		notifier: notifier,
		pages:    pages,
		site:     site,
		secret:   receiptSecret,
	}
}

// RegisterRoutes registers page endpoints on the given Chi router.
func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/order/confirmation", h.Confirmation)
	r.Get("/order/{id}", h.OrderForm)
	r.Post("/order/{id}", h.PlaceOrder)
	r.Post("/contact", h.Contact)
	r.Get("/reviews/{id}/photos", h.Photos)
}

func (h *PageHandler) layout(r *http.Request, title string) web.Layout {
	return web.Layout{
		Title:    title,
		SiteName: h.site.Name,
		Theme:    themeFromRequest(r),
		Path:     r.URL.RequestURI(),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.Render(w, page, data); err != nil {
		slog.ErrorContext(r.Context(), "render page", "page", page, "error", err)
	}
}

func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, status int, msg, retryURL string) {
	h.render(w, r, status, web.PageError, web.ErrorView{
		Layout:   h.layout(r, http.StatusText(status)),
		Status:   status,
		Message:  msg,
		RetryURL: retryURL,
	})
}

// --- Index ---

// Index renders every section and the menu for ?category=.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sel, err := menu.ParseSelection(r.URL.Query().Get("category"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Danh mục không hợp lệ", "/?category=all#menu")
		return
	}
	view := h.indexView(r, sel)
	view.ContactSent = r.URL.Query().Get("contact") == "sent"
	h.render(w, r, http.StatusOK, web.PageIndex, view)
}

// indexView loads categories and items concurrently. Failures are reported
// in the view so the rest of the page still renders.
func (h *PageHandler) indexView(r *http.Request, sel menu.Selection) web.IndexView {
	view := web.IndexView{
		Layout:   h.layout(r, ""),
		Site:     h.site,
		Selected: sel.String(),
	}

	var g errgroup.Group
	g.Go(func() error {
		categories, err := h.menu.Categories(r.Context())
		if err != nil {
			slog.WarnContext(r.Context(), "load categories", "error", err)
			view.CategoriesError = menuapi.Message(err, "Failed to load categories")
			return nil
		}
		view.Categories = categories
		return nil
	})
	g.Go(func() error {
		items, err := h.menu.Items(r.Context(), sel)
		if err != nil {
			slog.WarnContext(r.Context(), "load menu", "selection", sel.String(), "error", err)
			view.MenuError = menuapi.Message(err, "Failed to load products")
			return nil
		}
		view.Items = items
		return nil
	})
	_ = g.Wait()
	return view
}

// --- Contact ---

// Contact validates the contact form. A valid message is logged and
// acknowledged; nothing is forwarded.
func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	form := contact.Form{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}.Normalize()

	if errs := form.Validate(); len(errs) > 0 {
		view := h.indexView(r, menu.All)
		view.Layout.Path = "/"
		view.Contact = form
		view.ContactErrors = errs
		h.render(w, r, http.StatusUnprocessableEntity, web.PageIndex, view)
		return
	}

	slog.InfoContext(r.Context(), "contact message received", "name", form.Name, "email", form.Email, "length", len(form.Message))
	http.Redirect(w, r, "/?contact=sent#contact", http.StatusSeeOther)
}

// --- Order ---

// lookupItem resolves {id} or writes the error page.
func (h *PageHandler) lookupItem(w http.ResponseWriter, r *http.Request) (menu.MenuItem, bool) {
	id := chi.URLParam(r, "id")
	item, err := h.menu.Item(r.Context(), id)
	if err == nil {
		return item, true
	}
	if errors.Is(err, menu.ErrItemNotFound) {
		h.renderError(w, r, http.StatusNotFound, "Không tìm thấy món", "")
		return menu.MenuItem{}, false
	}
	slog.ErrorContext(r.Context(), "look up menu item", "item_id", id, "error", err)
	h.renderError(w, r, menuStatus(err), menuapi.Message(err, "Failed to load products"), "/order/"+url.PathEscape(id))
	return menu.MenuItem{}, false
}

func (h *PageHandler) orderView(r *http.Request, item menu.MenuItem, qty int, notes string, errs map[string]string) web.OrderView {
	if qty < 1 {
		qty = 1
	}
	return web.OrderView{
		Layout:   h.layout(r, item.Name),
		Item:     item,
		Quantity: qty,
		Notes:    notes,
		Total:    order.Total(item.Price, qty),
		Errors:   errs,
		MaxNotes: order.MaxNotesLength,
	}
}

// OrderForm renders the order form for one item, starting at quantity 1.
func (h *PageHandler) OrderForm(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lookupItem(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, web.PageOrder, h.orderView(r, item, 1, "", nil))
}

// PlaceOrder validates and records the order, then redirects to the
// confirmation page carrying a signed receipt.
func (h *PageHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	item, ok := h.lookupItem(w, r)
	if !ok {
		return
	}

	rawQty := r.PostFormValue("quantity")
	notes := r.PostFormValue("notes")
	form, errs := order.ParseForm(rawQty, notes)
	if len(errs) > 0 {
		qty, _ := strconv.Atoi(rawQty)
		h.render(w, r, http.StatusUnprocessableEntity, web.PageOrder, h.orderView(r, item, qty, notes, errs))
		return
	}

	placed, err := order.Place(r.Context(), h.orders, item, form)
	if err != nil {
		slog.ErrorContext(r.Context(), "record order", "item_id", item.ID, "error", err)
		errs := map[string]string{"order": "Không thể đặt món, vui lòng thử lại"}
		h.render(w, r, http.StatusInternalServerError, web.PageOrder, h.orderView(r, item, form.Quantity, form.Notes, errs))
		return
	}
	slog.InfoContext(r.Context(), "order request recorded", "order_id", placed.ID, "item_id", placed.ItemID, "quantity", placed.Quantity)
	if h.notifier != nil {
		h.notifier.OrderPlaced(placed)
	}

	token, err := receipt.Issue(h.secret, placed)
	if err != nil {
		slog.ErrorContext(r.Context(), "issue receipt", "order_id", placed.ID, "error", err)
		http.Redirect(w, r, "/#item-"+url.PathEscape(item.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/order/confirmation?receipt="+url.QueryEscape(token), http.StatusSeeOther)
}

// Confirmation renders a placed order from ?receipt=.
func (h *PageHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	claims, err := receipt.Parse(h.secret, r.URL.Query().Get("receipt"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Biên nhận không hợp lệ hoặc đã hết hạn", "")
		return
	}
	unitPrice, _ := decimal.NewFromString(claims.UnitPrice)
	total, _ := decimal.NewFromString(claims.Total)

	h.render(w, r, http.StatusOK, web.PageConfirmation, web.ConfirmationView{
		Layout:    h.layout(r, "Đặt món thành công"),
		OrderID:   claims.OrderID.String(),
		ItemID:    claims.ItemID,
		ItemName:  claims.ItemName,
		Quantity:  claims.Quantity,
		UnitPrice: unitPrice,
		Total:     total,
		Notes:     claims.Notes,
	})
}

// --- Reviews ---

// Photos renders the lightbox for a review's images at ?i=.
func (h *PageHandler) Photos(w http.ResponseWriter, r *http.Request) {
	review, ok := h.site.Review(chi.URLParam(r, "id"))
	if !ok || len(review.Images) == 0 {
		h.renderError(w, r, http.StatusNotFound, "Không tìm thấy ảnh", "")
		return
	}
	idx, _ := strconv.Atoi(r.URL.Query().Get("i"))

	h.render(w, r, http.StatusOK, web.PagePhotos, web.PhotosView{
		Layout:   h.layout(r, review.UserName),
		Review:   review,
		Lightbox: content.NewLightbox(review.Images, idx),
	})
}
