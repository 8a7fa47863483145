package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ahmed221b/Mapty/internal/domain"
	"github.com/Ahmed221b/Mapty/internal/persistence"
)

var _ persistence.Store = (*Store)(nil)

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mapty.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, persistence.DefaultKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, persistence.DefaultKey, "[]"))
	require.NoError(t, store.Set(ctx, persistence.DefaultKey, `["second"]`))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, ok, err := reopened.Get(ctx, persistence.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["second"]`, value)
}

func TestAdapterOverSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "mapty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	adapter := persistence.NewAdapter(store)
	workouts := []domain.Workout{
		domain.NewCycling(domain.Coords{Lat: 45.07, Lng: 7.68}, 42, 120, 800),
		domain.NewRunning(domain.Coords{Lat: 45.08, Lng: 7.69}, 10, 48.5, 176),
	}
	require.NoError(t, adapter.Save(ctx, workouts))
	require.Equal(t, workouts, adapter.Load(ctx))
}
