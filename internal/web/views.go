package web

import (
	"github.com/cafesang/storefront/internal/contact"
	"github.com/cafesang/storefront/internal/content"
	"github.com/cafesang/storefront/internal/menu"
	"github.com/shopspring/decimal"
)

// Layout is embedded in every page view.
type Layout struct {
	Title    string
	SiteName string
	Theme    string
	// Path is where the theme toggle returns to.
	Path string
}

// IndexView is the landing page: static sections plus the menu for one
// category selection.
type IndexView struct {
	Layout
	Site            content.Site
	Categories      []menu.Category
	CategoriesError string
	Selected        string
	Items           []menu.MenuItem
	MenuError       string
	Contact         contact.Form
	ContactErrors   map[string]string
	ContactSent     bool
}

// RetryURL reloads the menu for the current selection only.
func (v IndexView) RetryURL() string {
	return "/?category=" + v.Selected + "#menu"
}

// OrderView is the order form for a single item.
type OrderView struct {
	Layout
	Item     menu.MenuItem
	Quantity int
	Notes    string
	Total    decimal.Decimal
	Errors   map[string]string
	MaxNotes int
}

// ConfirmationView shows a placed order from its signed receipt.
type ConfirmationView struct {
	Layout
	OrderID   string
	ItemID    string
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Notes     string
}

// PhotosView is the lightbox over a review's photos.
type PhotosView struct {
	Layout
	Review   content.Review
	Lightbox *content.Lightbox
}

// ErrorView is shown when a page cannot be built. RetryURL is empty when
// retrying would not help.
type ErrorView struct {
	Layout
	Status   int
	Message  string
	RetryURL string
}
