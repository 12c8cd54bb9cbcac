// Package dialog models keyboard focus for modal dialogs.
package dialog

import "slices"

// Key is a keyboard event relevant to a modal dialog.
type Key struct {
	Name  string `json:"key"`
	Shift bool   `json:"shift"`
}

const (
	KeyTab    = "Tab"
	KeyEscape = "Escape"
)

// Action tells the owner of the trap what a key press requires.
type Action int

const (
	ActionNone Action = iota
	ActionMoveFocus
	ActionClose
)

// FocusTrap keeps focus cycling among a dialog's focusable elements while
// the dialog is active and remembers which element opened it.
type FocusTrap struct {
	elements []string
	trigger  string
	focused  string
	active   bool
}

// NewFocusTrap creates a trap over the focusable element IDs in tab order.
func NewFocusTrap(elements ...string) *FocusTrap {
	return &FocusTrap{elements: slices.Clone(elements)}
}

// Activate records trigger and moves focus to the first focusable element.
func (t *FocusTrap) Activate(trigger string) {
	t.active = true
	t.trigger = trigger
	t.focused = ""
	if len(t.elements) > 0 {
		t.focused = t.elements[0]
	}
}

// Deactivate releases the trap and returns the element focus goes back to.
func (t *FocusTrap) Deactivate() string {
	trigger := t.trigger
	t.active = false
	t.trigger = ""
	t.focused = trigger
	return trigger
}

// Focused returns the currently focused element ID.
func (t *FocusTrap) Focused() string { return t.focused }

// Focus records a focus change made outside the keyboard, e.g. a click.
func (t *FocusTrap) Focus(id string) {
	t.focused = id
}

// HandleKey applies a key press.
//
// Tab from the last element wraps to the first; Shift+Tab from the first
// element, or from anywhere outside the dialog, wraps to the last. Escape
// asks the owner to close the dialog.
func (t *FocusTrap) HandleKey(k Key) Action {
	if !t.active {
		return ActionNone
	}
	switch k.Name {
	case KeyEscape:
		return ActionClose
	case KeyTab:
	default:
		return ActionNone
	}
	if len(t.elements) == 0 {
		return ActionNone
	}

	first, last := t.elements[0], t.elements[len(t.elements)-1]
	idx := slices.Index(t.elements, t.focused)
	switch {
	case k.Shift && (idx <= 0):
		t.focused = last
	case k.Shift:
		t.focused = t.elements[idx-1]
	case idx == -1 || idx == len(t.elements)-1:
		t.focused = first
	default:
		t.focused = t.elements[idx+1]
	}
	return ActionMoveFocus
}
