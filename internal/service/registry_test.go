package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"
)

func TestSetStateTransitions(t *testing.T) {
	tables := newFakeTables(domain.Table{TableNo: "12", IsActive: true, SessionID: 1})
	svc := NewTableRegistryService(tables)
	ctx := context.Background()

	// close: flag down, session rolls forward
	require.NoError(t, svc.SetState(ctx, "12", StateClosed))
	got, err := svc.GetStatus(ctx, "12")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, int64(2), got.SessionID)

	// open: flag up, session unchanged
	require.NoError(t, svc.SetState(ctx, "12", StateOpen))
	got, err = svc.GetStatus(ctx, "12")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, int64(2), got.SessionID)

	// repeated open is a no-op
	require.NoError(t, svc.SetState(ctx, "12", StateOpen))
	got, _ = svc.GetStatus(ctx, "12")
	assert.Equal(t, int64(2), got.SessionID)
}

func TestSetStateRejectsOtherValues(t *testing.T) {
	svc := NewTableRegistryService(newFakeTables())
	for _, state := range []int{-1, 2, 42} {
		err := svc.SetState(context.Background(), "12", state)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestGetStatusUnknownTable(t *testing.T) {
	svc := NewTableRegistryService(newFakeTables())
	_, err := svc.GetStatus(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
