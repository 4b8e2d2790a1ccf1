package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victorwamb/IA-PF/internal/entities"
)

func TestMemoryUsageGroupsByDay(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryUsage()
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Record(ctx, entities.SourceRemote))
	require.NoError(t, m.Record(ctx, entities.SourcePredefined))
	require.NoError(t, m.Record(ctx, entities.SourcePredefined))

	clock = clock.Add(24 * time.Hour)
	require.NoError(t, m.Record(ctx, entities.SourceDefault))

	history, err := m.History(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, 2, history[0].Date.Day(), "newest first")
	assert.Equal(t, 1, history[0].Default)
	assert.Equal(t, 1, history[1].Remote)
	assert.Equal(t, 2, history[1].Predefined)
	assert.Equal(t, 3, history[1].Total())
}

func TestMemoryUsageHistoryWindow(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryUsage()
	m.now = func() time.Time { return clock }
	require.NoError(t, m.Record(ctx, entities.SourceRemote))

	clock = clock.AddDate(0, 0, 10)
	require.NoError(t, m.Record(ctx, entities.SourceRemote))

	history, err := m.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 11, history[0].Date.Day())
}
