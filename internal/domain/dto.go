package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Juice accepts both wire shapes the clients send: a bare name string or an
// object {"name": ..., "price": ...}. Only the name survives into storage;
// the price participates in subtotal computation at creation time.
type Juice struct {
	Name  string `json:"name"`
	Price int64  `json:"price,omitempty"`
}

func (j *Juice) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &j.Name)
	}
	type plain Juice
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*j = Juice(p)
	return nil
}

type CreateOrderItem struct {
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	Qty       int     `json:"qty"`
	Subtotal  *int64  `json:"subtotal,omitempty"`
	Size      string  `json:"size,omitempty"`
	SizeExtra int64   `json:"size_extra,omitempty"`
	Spice     string  `json:"spice,omitempty"`
	Juice     *Juice  `json:"juice,omitempty"`
	Addons    []Addon `json:"addons,omitempty"`
}

type CreateOrderRequest struct {
	TableNo string            `json:"table_no"`
	Items   []CreateOrderItem `json:"items"`
	Total   *int64            `json:"total,omitempty"`
}

// Validate rejects malformed payloads before any storage access.
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.TableNo) == "" {
		return fmt.Errorf("%w: table_no is required", ErrInvalidInput)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	for i, it := range r.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: item %d has no name", ErrInvalidInput, i)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: item %q has negative price", ErrInvalidInput, it.Name)
		}
		if it.Qty < 1 {
			return fmt.Errorf("%w: item %q has qty %d", ErrInvalidInput, it.Name, it.Qty)
		}
		if it.Subtotal != nil && *it.Subtotal < 0 {
			return fmt.Errorf("%w: item %q has negative subtotal", ErrInvalidInput, it.Name)
		}
		for _, a := range it.Addons {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("%w: item %q has unnamed addon", ErrInvalidInput, it.Name)
			}
			if a.Price < 0 {
				return fmt.Errorf("%w: addon %q has negative price", ErrInvalidInput, a.Name)
			}
		}
	}
	return nil
}

// LineSubtotal resolves the stored subtotal for one input line: a
// caller-supplied subtotal is trusted, otherwise it is the unit price plus
// all modifier extras, times qty.
func (it *CreateOrderItem) LineSubtotal() int64 {
	if it.Subtotal != nil {
		return *it.Subtotal
	}
	unit := it.Price + it.SizeExtra
	if it.Juice != nil {
		unit += it.Juice.Price
	}
	for _, a := range it.Addons {
		unit += a.Price
	}
	return unit * int64(it.Qty)
}

type CreateOrderResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

type TableItems struct {
	Items      []OrderItem `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice int64       `json:"total_price"`
}

type QtyUpdate struct {
	Subtotal   int64 `json:"subtotal"`
	OrderTotal int64 `json:"order_total"`
}

type ItemDeletion struct {
	OrderDeleted bool   `json:"order_deleted"`
	OrderTotal   *int64 `json:"order_total,omitempty"`
}
