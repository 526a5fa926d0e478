package order

import "time"

// OrderStatus is the kitchen-side lifecycle of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusPreparing OrderStatus = "PREPARING"
	StatusDone      OrderStatus = "DONE"
	StatusCancelled OrderStatus = "CANCELLED"
)

// CartLine is one line of the checkout payload sent by the UI.
type CartLine struct {
	ItemCode  string `json:"item_code" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	OptionIDs []int  `json:"option_ids"`
	Note      string `json:"note"`
}

// Line is one priced line of a stored order.
type Line struct {
	ID        int     `json:"id"`
	ItemCode  string  `json:"item_code"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Note      string  `json:"note,omitempty"`
}

// Order is a checked-out cart.
type Order struct {
	ID        string      `json:"id"`
	TableNo   string      `json:"table_no,omitempty"`
	Status    OrderStatus `json:"status"`
	Lines     []Line      `json:"lines"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}
