package enum

// ── Menu API values ──

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// SelectionAll is the query value that selects every category.
const SelectionAll = "all"

// ── Order dialog state machine ──

const (
	DialogClosed     = "closed"
	DialogOpen       = "open"
	DialogSubmitting = "submitting"
)

// ── Theme cookie values ──

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ── Live session messages (client → server) ──

const (
	MsgSelectCategory = "select_category"
	MsgRetry          = "retry"
	MsgOpenOrder      = "open_order"
	MsgKey            = "key"
	MsgFocus          = "focus"
	MsgSetQuantity    = "set_quantity"
	MsgSetNotes       = "set_notes"
	MsgSubmitOrder    = "submit_order"
	MsgCloseOrder     = "close_order"
)

// ── Live session events (server → client) ──

const (
	EventCategories  = "categories"
	EventMenu        = "menu"
	EventMenuError   = "menu_error"
	EventDialog      = "dialog"
	EventOrderPlaced = "order_placed"
	EventOrderCount  = "order_count"
	EventError       = "error"
)
