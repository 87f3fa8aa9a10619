package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tableside/internal/domain"
)

type ReceiptsRepositoryInterface interface {
	CloseSessionTx(ctx context.Context, tableNo string) (domain.Receipt, error)
}

type ReceiptsRepository struct {
	db *sql.DB
}

func NewReceiptsRepository(db *sql.DB) ReceiptsRepositoryInterface {
	return &ReceiptsRepository{db: db}
}

// CloseSessionTx materializes the receipt for the table's current session and
// rolls the table forward, all in one transaction. The table row is locked
// from the session read to the commit, so a createOrder running concurrently
// either lands in this session before the snapshot or waits and lands in the
// next one. A session with no orders still produces an (empty) receipt and
// still bumps the session.
func (r *ReceiptsRepository) CloseSessionTx(ctx context.Context, tableNo string) (domain.Receipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Receipt{}, wrapDB(err)
	}
	defer func() { _ = tx.Rollback() }()

	var sessionID int64
	err = tx.QueryRowContext(ctx,
		`SELECT session_id FROM tables WHERE table_no=$1 FOR UPDATE`,
		tableNo,
	).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Receipt{}, fmt.Errorf("%w: table %s", domain.ErrNotFound, tableNo)
	}
	if err != nil {
		return domain.Receipt{}, wrapDB(err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT i.name, i.qty, i.subtotal,
		       COALESCE(i.size,''), COALESCE(i.spice,''), COALESCE(i.juice,''), i.addons
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.table_no=$1 AND o.session_id=$2
		ORDER BY i.order_id, i.id
	`, tableNo, sessionID)
	if err != nil {
		return domain.Receipt{}, wrapDB(err)
	}

	rcpt := domain.Receipt{
		TableNo:   tableNo,
		SessionID: sessionID,
		Items:     []domain.ReceiptItem{},
	}
	for rows.Next() {
		var it domain.ReceiptItem
		var addons []byte
		if err := rows.Scan(&it.Name, &it.Qty, &it.Subtotal,
			&it.Size, &it.Spice, &it.Juice, &addons); err != nil {
			rows.Close()
			return domain.Receipt{}, wrapDB(err)
		}
		it.Addons = []domain.Addon{}
		if len(addons) > 0 {
			if err := json.Unmarshal(addons, &it.Addons); err != nil {
				it.Addons = []domain.Addon{}
			}
		}
		rcpt.Items = append(rcpt.Items, it)
		rcpt.TotalItems += it.Qty
		rcpt.TotalPrice += it.Subtotal
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.Receipt{}, wrapDB(err)
	}
	rows.Close()

	snapshot, err := json.Marshal(rcpt.Items)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: marshal receipt items: %v", domain.ErrInternal, err)
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO receipts (table_no, session_id, total_price, total_items, items, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`, tableNo, sessionID, rcpt.TotalPrice, rcpt.TotalItems, snapshot).Scan(&rcpt.CreatedAt)
	if err != nil {
		return domain.Receipt{}, wrapDB(err)
	}

	// Consumed orders stay queryable as history for the closed session.
	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status=$1 WHERE table_no=$2 AND session_id=$3
	`, domain.StatusCompleted, tableNo, sessionID); err != nil {
		return domain.Receipt{}, wrapDB(err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tables SET is_active = FALSE, session_id = session_id + 1 WHERE table_no=$1
	`, tableNo); err != nil {
		return domain.Receipt{}, wrapDB(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Receipt{}, wrapDB(err)
	}
	return rcpt, nil
}
