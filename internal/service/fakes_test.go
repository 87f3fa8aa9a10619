package service

import (
	"context"
	"sync"

	"tableside/internal/domain"
)

// In-memory stand-ins for the repository interfaces.

type fakeTablesRepo struct {
	tables map[string]domain.Table
	err    error
}

func newFakeTables(tables ...domain.Table) *fakeTablesRepo {
	m := make(map[string]domain.Table, len(tables))
	for _, t := range tables {
		m[t.TableNo] = t
	}
	return &fakeTablesRepo{tables: m}
}

func (f *fakeTablesRepo) GetStatus(_ context.Context, tableNo string) (domain.Table, error) {
	if f.err != nil {
		return domain.Table{}, f.err
	}
	t, ok := f.tables[tableNo]
	if !ok {
		return domain.Table{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeTablesRepo) List(context.Context) ([]domain.Table, error) {
	out := make([]domain.Table, 0, len(f.tables))
	for _, t := range f.tables {
		out = append(out, t)
	}
	return out, f.err
}

func (f *fakeTablesRepo) Open(_ context.Context, tableNo string) error {
	t, ok := f.tables[tableNo]
	if !ok {
		return domain.ErrNotFound
	}
	t.IsActive = true
	f.tables[tableNo] = t
	return nil
}

func (f *fakeTablesRepo) Close(_ context.Context, tableNo string) error {
	t, ok := f.tables[tableNo]
	if !ok {
		return domain.ErrNotFound
	}
	t.IsActive = false
	t.SessionID++
	f.tables[tableNo] = t
	return nil
}

func (f *fakeTablesRepo) Seed(_ context.Context, n int) error { return f.err }

type fakeOrdersRepo struct {
	createdTableNo string
	createdTotal   int64
	createdItems   []domain.OrderItem
	nextOrderID    int64
	sessionID      int64

	order      domain.Order
	items      []domain.OrderItem
	history    []domain.Order
	historyReq struct {
		tableNo   string
		sessionID int64
	}
	tableItems domain.TableItems
	qtyUpdate  domain.QtyUpdate
	qtyReq     struct {
		itemID int64
		qty    int
	}
	deletion domain.ItemDeletion
	status   string
	healed   *int64
	err      error
}

func (f *fakeOrdersRepo) CreateOrderTx(_ context.Context, tableNo string, total int64, items []domain.OrderItem) (int64, int64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.createdTableNo = tableNo
	f.createdTotal = total
	f.createdItems = items
	return f.nextOrderID, f.sessionID, nil
}

func (f *fakeOrdersRepo) GetOrder(context.Context, int64) (domain.Order, []domain.OrderItem, error) {
	return f.order, f.items, f.err
}

func (f *fakeOrdersRepo) ListOrders(context.Context) ([]domain.Order, error) {
	return f.history, f.err
}

func (f *fakeOrdersRepo) ListHistory(_ context.Context, tableNo string, sessionID int64) ([]domain.Order, error) {
	f.historyReq.tableNo = tableNo
	f.historyReq.sessionID = sessionID
	return f.history, f.err
}

func (f *fakeOrdersRepo) TableItems(context.Context, string) (domain.TableItems, error) {
	return f.tableItems, f.err
}

func (f *fakeOrdersRepo) UpdateItemQtyTx(_ context.Context, itemID int64, qty int) (domain.QtyUpdate, error) {
	f.qtyReq.itemID = itemID
	f.qtyReq.qty = qty
	return f.qtyUpdate, f.err
}

func (f *fakeOrdersRepo) DeleteItemTx(context.Context, int64) (domain.ItemDeletion, error) {
	return f.deletion, f.err
}

func (f *fakeOrdersRepo) UpdateStatus(_ context.Context, _ int64, status string) error {
	f.status = status
	return f.err
}

func (f *fakeOrdersRepo) UpdateOrderTotal(_ context.Context, _ int64, total int64) error {
	if f.err != nil {
		return f.err
	}
	f.healed = &total
	f.order.Total = total
	return nil
}

type fakeReceiptsRepo struct {
	receipt domain.Receipt
	err     error
	calls   int
}

func (f *fakeReceiptsRepo) CloseSessionTx(context.Context, string) (domain.Receipt, error) {
	f.calls++
	return f.receipt, f.err
}

type fakePublisher struct {
	mu        sync.Mutex
	exchanges []string
	keys      []string
	bodies    [][]byte
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.exchanges = append(f.exchanges, exchange)
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, body)
	return nil
}
