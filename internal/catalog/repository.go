package catalog

import "context"

// Repository defines the data-access contract. Service depends ONLY on
// this interface.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	SaveCategory(ctx context.Context, cat *Category) error
	DeleteCategory(ctx context.Context, id int) error

	ListItems(ctx context.Context) ([]MenuItem, error)
	FindItemByCode(ctx context.Context, code string) (*MenuItem, error)
	SaveItem(ctx context.Context, item *MenuItem) error
	DeleteItem(ctx context.Context, code string) error
	UpdateItemImages(ctx context.Context, code string, squareKey, wideKey string) error

	ListOptionGroups(ctx context.Context, itemCode string) ([]OptionGroup, error)
	SaveOptionGroup(ctx context.Context, group *OptionGroup) error
	DeleteOptionGroup(ctx context.Context, id int) error
}
