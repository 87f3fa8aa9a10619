package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"tableside/internal/domain"
)

type TablesRepositoryInterface interface {
	GetStatus(ctx context.Context, tableNo string) (domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	Open(ctx context.Context, tableNo string) error
	Close(ctx context.Context, tableNo string) error
	Seed(ctx context.Context, n int) error
}

type TablesRepository struct {
	db *sql.DB
}

func NewTablesRepository(db *sql.DB) TablesRepositoryInterface {
	return &TablesRepository{db: db}
}

func (r *TablesRepository) GetStatus(ctx context.Context, tableNo string) (domain.Table, error) {
	t := domain.Table{TableNo: tableNo}
	err := r.db.QueryRowContext(ctx,
		`SELECT is_active, session_id FROM tables WHERE table_no=$1`,
		tableNo,
	).Scan(&t.IsActive, &t.SessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, fmt.Errorf("%w: table %s", domain.ErrNotFound, tableNo)
	}
	if err != nil {
		return domain.Table{}, wrapDB(err)
	}
	return t, nil
}

func (r *TablesRepository) List(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT table_no, is_active, session_id FROM tables ORDER BY table_no`)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	out := make([]domain.Table, 0)
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.TableNo, &t.IsActive, &t.SessionID); err != nil {
			return nil, wrapDB(err)
		}
		out = append(out, t)
	}
	return out, wrapDB(rows.Err())
}

// Open flips the table green. The current session continues; repeated opens
// are no-ops.
func (r *TablesRepository) Open(ctx context.Context, tableNo string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tables SET is_active = TRUE WHERE table_no=$1`, tableNo)
	if err != nil {
		return wrapDB(err)
	}
	return requireRow(res, tableNo)
}

// Close flips the table red and rolls it to a fresh session in one statement,
// so no order can ever observe the flag down but the old session id still
// current.
func (r *TablesRepository) Close(ctx context.Context, tableNo string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tables SET is_active = FALSE, session_id = session_id + 1 WHERE table_no=$1`,
		tableNo)
	if err != nil {
		return wrapDB(err)
	}
	return requireRow(res, tableNo)
}

// Seed provisions table rows 1..n, keeping whatever already exists.
func (r *TablesRepository) Seed(ctx context.Context, n int) error {
	for i := 1; i <= n; i++ {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO tables (table_no, is_active, session_id)
			 VALUES ($1, FALSE, 1)
			 ON CONFLICT (table_no) DO NOTHING`,
			strconv.Itoa(i))
		if err != nil {
			return wrapDB(err)
		}
	}
	return nil
}

func requireRow(res sql.Result, tableNo string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDB(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: table %s", domain.ErrNotFound, tableNo)
	}
	return nil
}
