package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/catalog"
)

// CatalogReader is the menu surface checkout needs.
type CatalogReader interface {
	GetItem(ctx context.Context, code string) (*catalog.MenuItem, error)
	ListOptionGroups(ctx context.Context, itemCode string) ([]catalog.OptionGroup, error)
}

type Service struct {
	repo    Repository
	catalog CatalogReader
}

func NewService(repo Repository, catalogReader CatalogReader) *Service {
	return &Service{repo: repo, catalog: catalogReader}
}

// Checkout prices the cart against the current menu and stores the order.
// Prices always come from the catalog, never from the client payload.
func (s *Service) Checkout(ctx context.Context, tableNo string, cart []CartLine) (*Order, error) {
	if len(cart) == 0 {
		return nil, errors.New("cart is empty")
	}

	o := &Order{
		ID:        uuid.New().String(),
		TableNo:   tableNo,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	for _, cl := range cart {
		if cl.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity for %s", cl.ItemCode)
		}

		item, err := s.catalog.GetItem(ctx, cl.ItemCode)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", cl.ItemCode, err)
		}
		if !item.Available {
			return nil, fmt.Errorf("item %s is not available", cl.ItemCode)
		}

		unit := item.Price
		if len(cl.OptionIDs) > 0 {
			delta, err := s.optionDelta(ctx, cl.ItemCode, cl.OptionIDs)
			if err != nil {
				return nil, err
			}
			unit += delta
		}

		o.Lines = append(o.Lines, Line{
			ItemCode:  item.Code,
			ItemName:  item.Name,
			Quantity:  cl.Quantity,
			UnitPrice: unit,
			Note:      cl.Note,
		})
		o.Total += unit * float64(cl.Quantity)
	}

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// optionDelta resolves selected option ids against the item's groups.
func (s *Service) optionDelta(ctx context.Context, itemCode string, optionIDs []int) (float64, error) {
	groups, err := s.catalog.ListOptionGroups(ctx, itemCode)
	if err != nil {
		return 0, err
	}

	prices := make(map[int]float64)
	for _, g := range groups {
		for _, opt := range g.Options {
			prices[opt.ID] = opt.PriceDelta
		}
	}

	var delta float64
	for _, id := range optionIDs {
		price, ok := prices[id]
		if !ok {
			return 0, fmt.Errorf("option %d does not belong to item %s", id, itemCode)
		}
		delta += price
	}
	return delta, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status OrderStatus) ([]Order, error) {
	return s.repo.List(ctx, status)
}

var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusDone},
}

func (s *Service) UpdateStatus(ctx context.Context, id string, next OrderStatus) error {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	for _, allowed := range validTransitions[o.Status] {
		if next == allowed {
			return s.repo.UpdateStatus(ctx, id, next)
		}
	}
	return fmt.Errorf("cannot move order from %s to %s", o.Status, next)
}
