package domain

// RescaleSubtotal rescales a line subtotal to a new quantity using the unit
// price implied by the current subtotal, not the original modifier pricing
// (which is not retained after creation). Integer form keeps cent precision:
// equal to (old/oldQty)*newQty whenever the old subtotal divides evenly.
func RescaleSubtotal(oldSubtotal int64, oldQty, newQty int) int64 {
	if oldQty <= 0 {
		return oldSubtotal
	}
	return oldSubtotal * int64(newQty) / int64(oldQty)
}

// SumSubtotals is the order total as the ledger defines it.
func SumSubtotals(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal
	}
	return total
}

// CountQty sums line quantities, the receipt's total_items.
func CountQty(items []OrderItem) int {
	var n int
	for _, it := range items {
		n += it.Qty
	}
	return n
}
