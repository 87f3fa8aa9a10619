package service

import (
	"context"
	"fmt"

	"tableside/internal/domain"
	"tableside/internal/repository"
)

// Table states on the wire: 0 = closed (red), 1 = open (green).
const (
	StateClosed = 0
	StateOpen   = 1
)

type TableRegistryServiceInterface interface {
	GetStatus(ctx context.Context, tableNo string) (domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	SetState(ctx context.Context, tableNo string, state int) error
}

type TableRegistryService struct {
	tables repository.TablesRepositoryInterface
}

func NewTableRegistryService(tables repository.TablesRepositoryInterface) TableRegistryServiceInterface {
	return &TableRegistryService{tables: tables}
}

func (s *TableRegistryService) GetStatus(ctx context.Context, tableNo string) (domain.Table, error) {
	return s.tables.GetStatus(ctx, tableNo)
}

func (s *TableRegistryService) List(ctx context.Context) ([]domain.Table, error) {
	return s.tables.List(ctx)
}

// SetState opens or closes a table. Closing rolls the session forward, so a
// party seated later never sees the previous party's orders; opening keeps
// the current session. Callers must not report one physical close twice.
func (s *TableRegistryService) SetState(ctx context.Context, tableNo string, state int) error {
	switch state {
	case StateOpen:
		return s.tables.Open(ctx, tableNo)
	case StateClosed:
		return s.tables.Close(ctx, tableNo)
	default:
		return fmt.Errorf("%w: state must be 0 or 1", domain.ErrInvalidInput)
	}
}
