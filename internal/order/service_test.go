package order

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/catalog"
)

type memoryRepo struct {
	orders map[string]*Order
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[string]*Order)}
}

func (r *memoryRepo) Save(_ context.Context, o *Order) error {
	stored := *o
	r.orders[o.ID] = &stored
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memoryRepo) List(_ context.Context, status OrderStatus) ([]Order, error) {
	var out []Order
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, status OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type stubCatalog struct {
	items  map[string]*catalog.MenuItem
	groups map[string][]catalog.OptionGroup
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		items: map[string]*catalog.MenuItem{
			"P011": {ID: 1, Code: "P011", Name: "Ten Zaru Udon", Price: 320, Available: true},
			"P013": {ID: 2, Code: "P013", Name: "Miso Soup", Price: 60, Available: true},
			"P099": {ID: 3, Code: "P099", Name: "Seasonal Special", Price: 500, Available: false},
		},
		groups: map[string][]catalog.OptionGroup{
			"P011": {
				{
					ID:   1,
					Name: "Size",
					Options: []catalog.Option{
						{ID: 10, Name: "Regular", PriceDelta: 0},
						{ID: 11, Name: "Large", PriceDelta: 80},
					},
				},
			},
		},
	}
}

func (c *stubCatalog) GetItem(_ context.Context, code string) (*catalog.MenuItem, error) {
	item, ok := c.items[code]
	if !ok {
		return nil, fmt.Errorf("item %s not found", code)
	}
	return item, nil
}

func (c *stubCatalog) ListOptionGroups(_ context.Context, itemCode string) ([]catalog.OptionGroup, error) {
	return c.groups[itemCode], nil
}

func TestCheckoutPricesFromCatalog(t *testing.T) {
	svc := NewService(newMemoryRepo(), newStubCatalog())

	o, err := svc.Checkout(context.Background(), "T5", []CartLine{
		{ItemCode: "P011", Quantity: 2},
		{ItemCode: "P013", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if o.Status != StatusPending {
		t.Fatalf("new order status = %s", o.Status)
	}
	if o.Total != 2*320+60 {
		t.Fatalf("total = %f", o.Total)
	}
	if o.Lines[0].UnitPrice != 320 || o.Lines[0].ItemName != "Ten Zaru Udon" {
		t.Fatalf("line = %+v", o.Lines[0])
	}
}

func TestCheckoutAppliesOptionDeltas(t *testing.T) {
	svc := NewService(newMemoryRepo(), newStubCatalog())

	o, err := svc.Checkout(context.Background(), "T5", []CartLine{
		{ItemCode: "P011", Quantity: 1, OptionIDs: []int{11}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.Total != 400 {
		t.Fatalf("total with large option = %f", o.Total)
	}
}

func TestCheckoutRejectsForeignOption(t *testing.T) {
	svc := NewService(newMemoryRepo(), newStubCatalog())

	_, err := svc.Checkout(context.Background(), "T5", []CartLine{
		{ItemCode: "P013", Quantity: 1, OptionIDs: []int{11}},
	})
	if err == nil || !strings.Contains(err.Error(), "does not belong") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckoutRejectsUnavailableItem(t *testing.T) {
	svc := NewService(newMemoryRepo(), newStubCatalog())

	_, err := svc.Checkout(context.Background(), "T5", []CartLine{
		{ItemCode: "P099", Quantity: 1},
	})
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckoutRejectsEmptyCartAndBadQuantity(t *testing.T) {
	svc := NewService(newMemoryRepo(), newStubCatalog())

	if _, err := svc.Checkout(context.Background(), "T5", nil); err == nil {
		t.Fatalf("expected error for empty cart")
	}
	if _, err := svc.Checkout(context.Background(), "T5", []CartLine{{ItemCode: "P011", Quantity: 0}}); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newStubCatalog())

	o, err := svc.Checkout(context.Background(), "T1", []CartLine{{ItemCode: "P013", Quantity: 1}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	for _, next := range []OrderStatus{StatusPaid, StatusPreparing, StatusDone} {
		if err := svc.UpdateStatus(context.Background(), o.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// DONE is terminal.
	if err := svc.UpdateStatus(context.Background(), o.ID, StatusCancelled); err == nil {
		t.Fatalf("expected error cancelling a finished order")
	}
}

func TestUpdateStatusRejectsSkippedStates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newStubCatalog())

	o, err := svc.Checkout(context.Background(), "T1", []CartLine{{ItemCode: "P013", Quantity: 1}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), o.ID, StatusDone); err == nil {
		t.Fatalf("expected error skipping straight to DONE")
	}
	if err := svc.UpdateStatus(context.Background(), o.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel pending order: %v", err)
	}
}
