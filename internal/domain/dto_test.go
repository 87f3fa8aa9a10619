package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJuiceUnmarshalBothShapes(t *testing.T) {
	var j Juice
	require.NoError(t, json.Unmarshal([]byte(`"Orange"`), &j))
	assert.Equal(t, "Orange", j.Name)
	assert.Zero(t, j.Price)

	var j2 Juice
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mango","price":150}`), &j2))
	assert.Equal(t, "Mango", j2.Name)
	assert.Equal(t, int64(150), j2.Price)
}

func TestCreateOrderRequestValidate(t *testing.T) {
	valid := CreateOrderRequest{
		TableNo: "12",
		Items:   []CreateOrderItem{{Name: "Ramen", Price: 800, Qty: 2}},
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		mut  func(*CreateOrderRequest)
	}{
		{"missing table", func(r *CreateOrderRequest) { r.TableNo = "  " }},
		{"empty cart", func(r *CreateOrderRequest) { r.Items = nil }},
		{"unnamed item", func(r *CreateOrderRequest) { r.Items[0].Name = "" }},
		{"negative price", func(r *CreateOrderRequest) { r.Items[0].Price = -1 }},
		{"zero qty", func(r *CreateOrderRequest) { r.Items[0].Qty = 0 }},
		{"negative subtotal", func(r *CreateOrderRequest) {
			bad := int64(-5)
			r.Items[0].Subtotal = &bad
		}},
		{"unnamed addon", func(r *CreateOrderRequest) {
			r.Items[0].Addons = []Addon{{Name: "", Price: 50}}
		}},
		{"negative addon price", func(r *CreateOrderRequest) {
			r.Items[0].Addons = []Addon{{Name: "Cheese", Price: -50}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := CreateOrderRequest{
				TableNo: "12",
				Items:   []CreateOrderItem{{Name: "Ramen", Price: 800, Qty: 2}},
			}
			tc.mut(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLineSubtotal(t *testing.T) {
	// caller-supplied subtotal wins
	declared := int64(999)
	it := CreateOrderItem{Name: "Ramen", Price: 800, Qty: 2, Subtotal: &declared}
	assert.Equal(t, int64(999), it.LineSubtotal())

	// computed from base price and modifier pricing
	it = CreateOrderItem{
		Name:      "Ramen",
		Price:     800,
		Qty:       2,
		SizeExtra: 100,
		Juice:     &Juice{Name: "Lime", Price: 50},
		Addons:    []Addon{{Name: "Egg", Price: 120}, {Name: "Nori", Price: 30}},
	}
	// (800 + 100 + 50 + 120 + 30) * 2
	assert.Equal(t, int64(2200), it.LineSubtotal())

	// no modifiers at all
	it = CreateOrderItem{Name: "Tea", Price: 300, Qty: 3}
	assert.Equal(t, int64(900), it.LineSubtotal())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusReceived, StatusPreparing, StatusServed, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("paid"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("RECEIVED"))
}
