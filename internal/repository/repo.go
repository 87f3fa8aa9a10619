package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"tableside/internal/domain"
)

type Repository struct {
	Tables   TablesRepositoryInterface
	Orders   OrdersRepositoryInterface
	Receipts ReceiptsRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		Tables:   NewTablesRepository(db),
		Orders:   NewOrdersRepository(db),
		Receipts: NewReceiptsRepository(db),
	}
}

// wrapDB classifies a storage error into the domain taxonomy. Server-reported
// errors are Internal unless they are integrity violations (bad input);
// anything that never reached the server is Transient and safe to retry.
func wrapDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") { // integrity constraint violation
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Message)
		}
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrInternal, err)
}
