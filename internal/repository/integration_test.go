package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// These tests need a live Postgres; point TABLESIDE_TEST_DSN at one
// (e.g. "host=localhost user=postgres password=postgres dbname=tableside_test
// sslmode=disable") to run them.

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TABLESIDE_TEST_DSN")
	if dsn == "" {
		t.Skip("TABLESIDE_TEST_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(context.Background()))
	require.NoError(t, EnsureSchema(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedTable(t *testing.T, db *sql.DB, tableNo string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO tables (table_no, is_active, session_id) VALUES ($1, TRUE, 1)
		ON CONFLICT (table_no) DO UPDATE SET is_active = TRUE, session_id = 1
	`, tableNo)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = db.ExecContext(ctx, `DELETE FROM orders WHERE table_no=$1`, tableNo)
		_, _ = db.ExecContext(ctx, `DELETE FROM receipts WHERE table_no=$1`, tableNo)
		_, _ = db.ExecContext(ctx, `DELETE FROM tables WHERE table_no=$1`, tableNo)
	})
}

func line(name string, price int64, qty int) domain.OrderItem {
	return domain.OrderItem{
		Name: name, Price: price, Qty: qty,
		Subtotal: price * int64(qty),
		Addons:   []domain.Addon{},
	}
}

func TestCreateOrderTxIsAtomic(t *testing.T) {
	db := testDB(t)
	repo := NewOrdersRepository(db)
	ctx := context.Background()
	seedTable(t, db, "it-atomic")

	// second line violates the qty check, the whole order must vanish
	_, _, err := repo.CreateOrderTx(ctx, "it-atomic", 1600, []domain.OrderItem{
		line("Ramen", 800, 2),
		{Name: "Gyoza", Price: 400, Qty: 0, Addons: []domain.Addon{}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE table_no=$1`, "it-atomic").Scan(&n))
	assert.Zero(t, n, "failed item insert must not leave an order row behind")
}

func TestDeleteLastItemRemovesOrder(t *testing.T) {
	db := testDB(t)
	repo := NewOrdersRepository(db)
	ctx := context.Background()
	seedTable(t, db, "it-last-item")

	orderID, _, err := repo.CreateOrderTx(ctx, "it-last-item", 800,
		[]domain.OrderItem{line("Ramen", 800, 1)})
	require.NoError(t, err)

	_, items, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	del, err := repo.DeleteItemTx(ctx, items[0].ID)
	require.NoError(t, err)
	assert.True(t, del.OrderDeleted)
	assert.Nil(t, del.OrderTotal)

	_, _, err = repo.GetOrder(ctx, orderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItemQtyTxRecomputesOrderTotal(t *testing.T) {
	db := testDB(t)
	repo := NewOrdersRepository(db)
	ctx := context.Background()
	seedTable(t, db, "it-qty")

	orderID, _, err := repo.CreateOrderTx(ctx, "it-qty", 2050, []domain.OrderItem{
		line("Ramen", 800, 2),
		line("Gyoza", 450, 1),
	})
	require.NoError(t, err)

	_, items, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	upd, err := repo.UpdateItemQtyTx(ctx, items[0].ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2400), upd.Subtotal)
	assert.Equal(t, int64(2850), upd.OrderTotal)

	o, _, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2850), o.Total)
}

func TestUpdateOrderTotalPersists(t *testing.T) {
	db := testDB(t)
	repo := NewOrdersRepository(db)
	ctx := context.Background()
	seedTable(t, db, "it-heal")

	orderID, _, err := repo.CreateOrderTx(ctx, "it-heal", 0,
		[]domain.OrderItem{line("Ramen", 800, 2)})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateOrderTotal(ctx, orderID, 1600))

	o, _, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), o.Total)

	assert.ErrorIs(t, repo.UpdateOrderTotal(ctx, -1, 1), domain.ErrNotFound)
}

func TestCloseSessionRoundTrip(t *testing.T) {
	db := testDB(t)
	orders := NewOrdersRepository(db)
	tables := NewTablesRepository(db)
	receipts := NewReceiptsRepository(db)
	ctx := context.Background()
	seedTable(t, db, "it-close")

	_, _, err := orders.CreateOrderTx(ctx, "it-close", 1600,
		[]domain.OrderItem{line("Ramen", 800, 2)})
	require.NoError(t, err)
	_, _, err = orders.CreateOrderTx(ctx, "it-close", 450,
		[]domain.OrderItem{line("Gyoza", 450, 1)})
	require.NoError(t, err)

	rcpt, err := receipts.CloseSessionTx(ctx, "it-close")
	require.NoError(t, err)

	// receipt equals what the session ordered
	assert.Equal(t, int64(1), rcpt.SessionID)
	assert.Equal(t, int64(2050), rcpt.TotalPrice)
	assert.Equal(t, 3, rcpt.TotalItems)
	require.Len(t, rcpt.Items, 2)

	// the table rolled forward
	tbl, err := tables.GetStatus(ctx, "it-close")
	require.NoError(t, err)
	assert.False(t, tbl.IsActive)
	assert.Equal(t, int64(2), tbl.SessionID)

	// the closed session stays queryable, the new one starts empty
	hist, err := orders.ListHistory(ctx, "it-close", 1)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	for _, o := range hist {
		assert.Equal(t, domain.StatusCompleted, o.Status)
	}
	check, err := orders.TableItems(ctx, "it-close")
	require.NoError(t, err)
	assert.Empty(t, check.Items)
	assert.Zero(t, check.TotalPrice)
}
