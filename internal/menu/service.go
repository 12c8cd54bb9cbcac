package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// ErrItemNotFound is returned by Item when no active product has the ID.
var ErrItemNotFound = errors.New("menu item not found")

// Source fetches raw menu data. Satisfied by *menuapi.Client.
type Source interface {
	Categories(ctx context.Context) ([]Category, error)
	Products(ctx context.Context, categoryID *int) ([]Product, error)
	BuildImageURL(image string) string
}

// OrderCounter reports how many units of each menu item have been ordered.
type OrderCounter interface {
	OrderCounts(ctx context.Context) (map[string]int, error)
}

// Service builds display menus from a Source.
type Service struct {
	source Source
	orders OrderCounter
}

// NewService creates a Service. orders may be nil, in which case every
// item reports zero orders.
func NewService(source Source, orders OrderCounter) *Service {
	return &Service{source: source, orders: orders}
}

// Categories returns the menu categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.source.Categories(ctx)
}

// Items returns the active items for the selection.
//
// Products whose embedded category is missing get their category name from
// the category list, so every item of category C reports C's name.
func (s *Service) Items(ctx context.Context, sel Selection) ([]MenuItem, error) {
	products, err := s.source.Products(ctx, sel.CategoryID())
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	products = FilterActive(products)

	var names map[int]string
	for _, p := range products {
		if p.Category.Name == "" {
			names, err = s.categoryNames(ctx)
			if err != nil {
				return nil, err
			}
			break
		}
	}

	counts := s.orderCounts(ctx)

	items := make([]MenuItem, 0, len(products))
	for _, p := range products {
		if p.Category.Name == "" {
			p.Category = Category{ID: p.CategoryID, Name: names[p.CategoryID]}
		}
		item := ToMenuItem(p, s.source.BuildImageURL)
		item.Orders = counts[item.ID]
		items = append(items, item)
	}
	return items, nil
}

// Item returns a single active menu item by ID.
func (s *Service) Item(ctx context.Context, id string) (MenuItem, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return MenuItem{}, ErrItemNotFound
	}
	items, err := s.Items(ctx, All)
	if err != nil {
		return MenuItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return MenuItem{}, ErrItemNotFound
}

func (s *Service) categoryNames(ctx context.Context) (map[int]string, error) {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// orderCounts never fails the menu: a broken counter store only costs the
// order badges.
func (s *Service) orderCounts(ctx context.Context) map[string]int {
	if s.orders == nil {
		return nil
	}
	counts, err := s.orders.OrderCounts(ctx)
	if err != nil {
		slog.WarnContext(ctx, "order counts unavailable", "err", err)
		return nil
	}
	return counts
}
