package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tableside/internal/domain"
)

type OrdersRepositoryInterface interface {
	CreateOrderTx(ctx context.Context, tableNo string, total int64, items []domain.OrderItem) (orderID, sessionID int64, err error)
	GetOrder(ctx context.Context, orderID int64) (domain.Order, []domain.OrderItem, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListHistory(ctx context.Context, tableNo string, sessionID int64) ([]domain.Order, error)
	TableItems(ctx context.Context, tableNo string) (domain.TableItems, error)
	UpdateItemQtyTx(ctx context.Context, itemID int64, qty int) (domain.QtyUpdate, error)
	DeleteItemTx(ctx context.Context, itemID int64) (domain.ItemDeletion, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	UpdateOrderTotal(ctx context.Context, orderID, total int64) error
}

type OrdersRepository struct {
	db *sql.DB
}

func NewOrdersRepository(db *sql.DB) OrdersRepositoryInterface {
	return &OrdersRepository{db: db}
}

// CreateOrderTx stamps a new order with the table's current session and
// inserts all its line items in one transaction. The table row stays locked
// from the session lookup to the commit, so a concurrent session close cannot
// slide in between and leave the order attributed to a dead session. A table
// that was never provisioned falls back to session 1 without a lock.
func (r *OrdersRepository) CreateOrderTx(ctx context.Context, tableNo string, total int64, items []domain.OrderItem) (int64, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, wrapDB(err)
	}
	defer func() { _ = tx.Rollback() }()

	sessionID := int64(1)
	err = tx.QueryRowContext(ctx,
		`SELECT session_id FROM tables WHERE table_no=$1 FOR UPDATE`,
		tableNo,
	).Scan(&sessionID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, wrapDB(err)
	}

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (table_no, session_id, total, status, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id
	`, tableNo, sessionID, total, domain.StatusReceived).Scan(&orderID)
	if err != nil {
		return 0, 0, wrapDB(err)
	}

	for _, it := range items {
		addons, err := json.Marshal(it.Addons)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: marshal addons for %q: %v", domain.ErrInternal, it.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, name, price, qty, subtotal, size, spice, juice, addons)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), NULLIF($7,''), NULLIF($8,''), $9)
		`, orderID, it.Name, it.Price, it.Qty, it.Subtotal, it.Size, it.Spice, it.Juice, addons)
		if err != nil {
			return 0, 0, fmt.Errorf("insert item %q: %w", it.Name, wrapDB(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, wrapDB(err)
	}
	return orderID, sessionID, nil
}

// GetOrder returns the order row and its items as stored. Reconciling a stale
// total against the item sum is the ledger service's call, not the read's.
func (r *OrdersRepository) GetOrder(ctx context.Context, orderID int64) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, table_no, session_id, total, status, created_at
		FROM orders WHERE id=$1
	`, orderID).Scan(&o.ID, &o.TableNo, &o.SessionID, &o.Total, &o.Status, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	if err != nil {
		return domain.Order{}, nil, wrapDB(err)
	}

	items, err := r.itemsForOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrdersRepository) UpdateOrderTotal(ctx context.Context, orderID, total int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET total=$1 WHERE id=$2`, total, orderID)
	if err != nil {
		return wrapDB(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDB(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return nil
}

func (r *OrdersRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, table_no, session_id, total, status, created_at
		FROM orders ORDER BY created_at DESC, id DESC
	`)
}

func (r *OrdersRepository) ListHistory(ctx context.Context, tableNo string, sessionID int64) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, table_no, session_id, total, status, created_at
		FROM orders WHERE table_no=$1 AND session_id=$2
		ORDER BY created_at DESC, id DESC
	`, tableNo, sessionID)
}

// TableItems is the staff check popup: every line of every order in the
// table's live session, with running totals. An unknown table yields an empty
// check rather than an error.
func (r *OrdersRepository) TableItems(ctx context.Context, tableNo string) (domain.TableItems, error) {
	out := domain.TableItems{Items: []domain.OrderItem{}}

	var sessionID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT session_id FROM tables WHERE table_no=$1`, tableNo).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return domain.TableItems{}, wrapDB(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.order_id, i.name, i.price, i.qty, i.subtotal,
		       COALESCE(i.size,''), COALESCE(i.spice,''), COALESCE(i.juice,''), i.addons
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.table_no=$1 AND o.session_id=$2
		ORDER BY i.id
	`, tableNo, sessionID)
	if err != nil {
		return domain.TableItems{}, wrapDB(err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return domain.TableItems{}, err
		}
		out.Items = append(out.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.TableItems{}, wrapDB(err)
	}
	out.TotalItems = domain.CountQty(out.Items)
	out.TotalPrice = domain.SumSubtotals(out.Items)
	return out, nil
}

// UpdateItemQtyTx rescales a line to a new quantity using the unit price
// implied by its current subtotal, then recomputes the parent order's total.
// Item update and total recompute commit together or not at all.
func (r *OrdersRepository) UpdateItemQtyTx(ctx context.Context, itemID int64, qty int) (domain.QtyUpdate, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.QtyUpdate{}, wrapDB(err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderID int64
	var oldQty int
	var oldSubtotal int64
	err = tx.QueryRowContext(ctx,
		`SELECT order_id, qty, subtotal FROM order_items WHERE id=$1 FOR UPDATE`,
		itemID,
	).Scan(&orderID, &oldQty, &oldSubtotal)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QtyUpdate{}, fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
	}
	if err != nil {
		return domain.QtyUpdate{}, wrapDB(err)
	}

	newSubtotal := domain.RescaleSubtotal(oldSubtotal, oldQty, qty)
	if _, err := tx.ExecContext(ctx,
		`UPDATE order_items SET qty=$1, subtotal=$2 WHERE id=$3`,
		qty, newSubtotal, itemID); err != nil {
		return domain.QtyUpdate{}, wrapDB(err)
	}

	var orderTotal int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(subtotal),0) FROM order_items WHERE order_id=$1`,
		orderID).Scan(&orderTotal); err != nil {
		return domain.QtyUpdate{}, wrapDB(err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total=$1 WHERE id=$2`, orderTotal, orderID); err != nil {
		return domain.QtyUpdate{}, wrapDB(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.QtyUpdate{}, wrapDB(err)
	}
	return domain.QtyUpdate{Subtotal: newSubtotal, OrderTotal: orderTotal}, nil
}

// DeleteItemTx removes a line; deleting the last line removes the whole
// order. No reader can observe an order with zero items or a stale total.
func (r *OrdersRepository) DeleteItemTx(ctx context.Context, itemID int64) (domain.ItemDeletion, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ItemDeletion{}, wrapDB(err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderID int64
	err = tx.QueryRowContext(ctx,
		`SELECT order_id FROM order_items WHERE id=$1 FOR UPDATE`, itemID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ItemDeletion{}, fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
	}
	if err != nil {
		return domain.ItemDeletion{}, wrapDB(err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE id=$1`, itemID); err != nil {
		return domain.ItemDeletion{}, wrapDB(err)
	}

	var total int64
	var remaining int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(subtotal),0), COUNT(*) FROM order_items WHERE order_id=$1`,
		orderID).Scan(&total, &remaining); err != nil {
		return domain.ItemDeletion{}, wrapDB(err)
	}

	var del domain.ItemDeletion
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM orders WHERE id=$1`, orderID); err != nil {
			return domain.ItemDeletion{}, wrapDB(err)
		}
		del.OrderDeleted = true
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE orders SET total=$1 WHERE id=$2`, total, orderID); err != nil {
			return domain.ItemDeletion{}, wrapDB(err)
		}
		del.OrderTotal = &total
	}

	if err := tx.Commit(); err != nil {
		return domain.ItemDeletion{}, wrapDB(err)
	}
	return del, nil
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1 WHERE id=$2`, status, orderID)
	if err != nil {
		return wrapDB(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDB(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return nil
}

func (r *OrdersRepository) queryOrders(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.TableNo, &o.SessionID, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, wrapDB(err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDB(err)
	}

	for i := range orders {
		items, err := r.itemsForOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *OrdersRepository) itemsForOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, name, price, qty, subtotal,
		       COALESCE(size,''), COALESCE(spice,''), COALESCE(juice,''), addons
		FROM order_items WHERE order_id=$1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, wrapDB(rows.Err())
}

func scanItem(rows *sql.Rows) (domain.OrderItem, error) {
	var it domain.OrderItem
	var addons []byte
	if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.Price, &it.Qty,
		&it.Subtotal, &it.Size, &it.Spice, &it.Juice, &addons); err != nil {
		return domain.OrderItem{}, wrapDB(err)
	}
	it.Addons = []domain.Addon{}
	if len(addons) > 0 {
		if err := json.Unmarshal(addons, &it.Addons); err != nil {
			it.Addons = []domain.Addon{}
		}
	}
	return it, nil
}
