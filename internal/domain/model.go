package domain

import "time"

// Monetary values are int64 minor currency units throughout.

type Table struct {
	TableNo   string `json:"table_no"`
	IsActive  bool   `json:"is_active"`
	SessionID int64  `json:"session_id"`
}

type Order struct {
	ID        int64       `json:"id"`
	TableNo   string      `json:"table_no"`
	SessionID int64       `json:"session_id"`
	Total     int64       `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	Qty      int     `json:"qty"`
	Subtotal int64   `json:"subtotal"`
	Size     string  `json:"size,omitempty"`
	Spice    string  `json:"spice,omitempty"`
	Juice    string  `json:"juice,omitempty"`
	Addons   []Addon `json:"addons"`
}

// Addon is one paid extra on a line item. The list is validated on write and
// stored as a JSON column, order preserved.
type Addon struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Receipt is the immutable snapshot of one closed session.
type Receipt struct {
	TableNo    string        `json:"table_no"`
	SessionID  int64         `json:"session_id"`
	TotalPrice int64         `json:"total_price"`
	TotalItems int           `json:"total_items"`
	Items      []ReceiptItem `json:"items"`
	CreatedAt  time.Time     `json:"created_at"`
}

type ReceiptItem struct {
	Name     string  `json:"name"`
	Qty      int     `json:"qty"`
	Subtotal int64   `json:"subtotal"`
	Size     string  `json:"size,omitempty"`
	Spice    string  `json:"spice,omitempty"`
	Juice    string  `json:"juice,omitempty"`
	Addons   []Addon `json:"addons"`
}

// Kitchen workflow statuses. Distinct from the table's open/closed state.
const (
	StatusReceived  = "received"
	StatusPreparing = "preparing"
	StatusServed    = "served"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusServed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
