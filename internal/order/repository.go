package order

import "context"

// Repository defines the data-access contract. Service depends ONLY on
// this interface.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, status OrderStatus) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}
