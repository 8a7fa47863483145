package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ahmed221b/Mapty/internal/persistence"
)

var _ persistence.Store = (*Store)(nil)

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, ok, err := s.Get(ctx, "workouts")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "workouts", "[]"))
	require.NoError(t, s.Set(ctx, "workouts", `[{"id":"1"}]`))

	value, ok, err := s.Get(ctx, "workouts")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"1"}]`, value)
}
