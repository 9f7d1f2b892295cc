package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventra/judge-scout/internal/scout"
)

func TestUpsertReplacesByName(t *testing.T) {
	t.Parallel()

	store := NewJudgeStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, scout.Judge{Name: "Jane Doe", RelevanceScore: 80}))
	require.NoError(t, store.Upsert(ctx, scout.Judge{Name: "Jane Doe", RelevanceScore: 95}))
	require.Equal(t, 1, store.Len())

	judges, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, judges, 1)
	require.Equal(t, 95, judges[0].RelevanceScore)
}

func TestListOrdersByRelevanceThenName(t *testing.T) {
	t.Parallel()

	store := NewJudgeStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, scout.Judge{Name: "Carol", RelevanceScore: 85}))
	require.NoError(t, store.Upsert(ctx, scout.Judge{Name: "Bob", RelevanceScore: 95}))
	require.NoError(t, store.Upsert(ctx, scout.Judge{Name: "Dave", RelevanceScore: 85}))
	require.NoError(t, store.Upsert(ctx, scout.Judge{Name: "Alice", RelevanceScore: 85}))

	judges, err := store.List(ctx)
	require.NoError(t, err)

	names := make([]string, len(judges))
	for i, j := range judges {
		names[i] = j.Name
	}
	require.Equal(t, []string{"Bob", "Alice", "Carol", "Dave"}, names)
}

func TestListOnEmptyStore(t *testing.T) {
	t.Parallel()

	judges, err := NewJudgeStore().List(context.Background())
	require.NoError(t, err)
	require.Empty(t, judges)
}
