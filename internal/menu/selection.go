package menu

import (
	"errors"
	"strconv"
	"strings"

	"github.com/cafesang/storefront/internal/enum"
)

// ErrInvalidSelection is returned when a category selection cannot be parsed.
var ErrInvalidSelection = errors.New("invalid category selection")

// Selection is either every category or a single category ID.
type Selection struct {
	categoryID int
	all        bool
}

// All selects every category.
var All = Selection{all: true}

// ForCategory selects a single category.
func ForCategory(id int) Selection {
	return Selection{categoryID: id}
}

// ParseSelection parses a query value: empty or "all" selects everything,
// otherwise a positive category ID is expected.
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, enum.SelectionAll) {
		return All, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return Selection{}, ErrInvalidSelection
	}
	return ForCategory(id), nil
}

// IsAll reports whether the selection covers every category.
func (s Selection) IsAll() bool { return s.all }

// CategoryID returns the selected category, or nil for All.
func (s Selection) CategoryID() *int {
	if s.all {
		return nil
	}
	id := s.categoryID
	return &id
}

// String returns the query form of the selection.
func (s Selection) String() string {
	if s.all {
		return enum.SelectionAll
	}
	return strconv.Itoa(s.categoryID)
}
