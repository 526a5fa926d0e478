package catalog

// Category groups menu items on the customer-facing menu.
type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// MenuItem is one orderable dish. Code is the stable identifier printed on
// the kitchen ticket and prefixed onto photo filenames (e.g. "P011").
type MenuItem struct {
	ID          int     `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  *int    `json:"category_id,omitempty"`
	Available   bool    `json:"available"`

	// Object keys of the generated derivatives, one per aspect tag.
	ImageSquareKey *string `json:"image_square_key,omitempty"`
	ImageWideKey   *string `json:"image_wide_key,omitempty"`
}

// OptionGroup is a set of choices attached to an item (size, toppings).
type OptionGroup struct {
	ID        int      `json:"id"`
	ItemCode  string   `json:"item_code"`
	Name      string   `json:"name"`
	MinSelect int      `json:"min_select"`
	MaxSelect int      `json:"max_select"`
	Options   []Option `json:"options,omitempty"`
}

// Option is one choice inside a group, priced as a delta on the item.
type Option struct {
	ID         int     `json:"id"`
	GroupID    int     `json:"group_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}
