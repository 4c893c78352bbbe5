package watch_test

import (
	"testing"

	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	idx := watch.Index([]watch.Watch{
		{EntityID: 1, Watching: true},
		{EntityID: 2, Watching: false},
		{EntityID: 1, Watching: false},
	})
	require.Equal(t, map[int64]bool{1: false, 2: false}, idx)
}

func TestEntityType_Valid(t *testing.T) {
	require.True(t, watch.EntityListener.Valid())
	require.True(t, watch.EntityRegistryScript.Valid())
	require.True(t, watch.EntityRestScript.Valid())
	require.False(t, watch.EntityType("FIELD").Valid())
}
