package dialog

import "testing"

func newOrderTrap() *FocusTrap {
	return NewFocusTrap("close", "qty-dec", "qty-inc", "notes", "submit")
}

func TestActivate_FocusesFirst(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")

	if trap.Focused() != "close" {
		t.Errorf("Focused: got %q, want close", trap.Focused())
	}
}

func TestHandleKey_TabCycles(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")

	want := []string{"qty-dec", "qty-inc", "notes", "submit", "close", "qty-dec"}
	for i, w := range want {
		if a := trap.HandleKey(Key{Name: KeyTab}); a != ActionMoveFocus {
			t.Fatalf("step %d: action %v", i, a)
		}
		if trap.Focused() != w {
			t.Fatalf("step %d: focused %q, want %q", i, trap.Focused(), w)
		}
	}
}

func TestHandleKey_ShiftTabWrapsFromFirst(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")

	trap.HandleKey(Key{Name: KeyTab, Shift: true})
	if trap.Focused() != "submit" {
		t.Errorf("Focused: got %q, want submit", trap.Focused())
	}
	trap.HandleKey(Key{Name: KeyTab, Shift: true})
	if trap.Focused() != "notes" {
		t.Errorf("Focused: got %q, want notes", trap.Focused())
	}
}

func TestHandleKey_FocusOutsideDialog(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")
	trap.Focus("page-header")

	trap.HandleKey(Key{Name: KeyTab, Shift: true})
	if trap.Focused() != "submit" {
		t.Errorf("Shift+Tab from outside: got %q, want submit", trap.Focused())
	}

	trap.Focus("page-header")
	trap.HandleKey(Key{Name: KeyTab})
	if trap.Focused() != "close" {
		t.Errorf("Tab from outside: got %q, want close", trap.Focused())
	}
}

func TestHandleKey_Escape(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")

	if a := trap.HandleKey(Key{Name: KeyEscape}); a != ActionClose {
		t.Errorf("Escape: got %v, want ActionClose", a)
	}
}

func TestHandleKey_Inactive(t *testing.T) {
	trap := newOrderTrap()
	if a := trap.HandleKey(Key{Name: KeyTab}); a != ActionNone {
		t.Errorf("inactive trap: got %v", a)
	}
}

func TestHandleKey_OtherKeysIgnored(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")
	if a := trap.HandleKey(Key{Name: "Enter"}); a != ActionNone {
		t.Errorf("Enter: got %v", a)
	}
	if trap.Focused() != "close" {
		t.Errorf("focus moved on Enter: %q", trap.Focused())
	}
}

func TestHandleKey_NoFocusables(t *testing.T) {
	trap := NewFocusTrap()
	trap.Activate("btn")
	if a := trap.HandleKey(Key{Name: KeyTab}); a != ActionNone {
		t.Errorf("empty trap: got %v", a)
	}
	if a := trap.HandleKey(Key{Name: KeyEscape}); a != ActionClose {
		t.Errorf("Escape on empty trap: got %v", a)
	}
}

func TestDeactivate_RestoresTrigger(t *testing.T) {
	trap := newOrderTrap()
	trap.Activate("menu-item-3")
	trap.HandleKey(Key{Name: KeyTab})

	if got := trap.Deactivate(); got != "menu-item-3" {
		t.Errorf("Deactivate: got %q", got)
	}
	if trap.Focused() != "menu-item-3" {
		t.Errorf("Focused after close: got %q", trap.Focused())
	}
	if a := trap.HandleKey(Key{Name: KeyTab}); a != ActionNone || trap.Focused() != "menu-item-3" {
		t.Errorf("Tab after close: action %v, focus %q; want no change", a, trap.Focused())
	}
}
