package refdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache_LoadCopiesLabels(t *testing.T) {
	c := New()
	labels := Labels{1: "Issue Created"}
	c.Load(SlotEventTypes, labels)
	labels[1] = "changed"

	label, ok := c.Get(SlotEventTypes, 1)
	require.True(t, ok)
	require.Equal(t, "Issue Created", label)
}

func TestCache_Display(t *testing.T) {
	c := New()
	c.Load(SlotProjects, Labels{10000: "DEMO - Demonstration"})

	require.Equal(t, "DEMO - Demonstration", c.Display(SlotProjects, 10000))
	require.Equal(t, "#10001", c.Display(SlotProjects, 10001))
	require.Equal(t, "#3", c.Display(SlotDirectories, 3))
}

func TestCache_MergeSkipsNilSlots(t *testing.T) {
	c := New()
	c.Load(SlotDirectories, Labels{3: "Checks"})

	c.Merge(Bundle{Projects: Labels{10000: "DEMO - Demonstration"}})

	require.True(t, c.Loaded(SlotProjects))
	require.False(t, c.Loaded(SlotEventTypes))
	label, ok := c.Get(SlotDirectories, 3)
	require.True(t, ok)
	require.Equal(t, "Checks", label)
}

func TestCache_SnapshotIsIndependent(t *testing.T) {
	c := New()
	c.Merge(Bundle{
		Projects:   Labels{10000: "DEMO - Demonstration"},
		EventTypes: Labels{},
	})

	snap := c.Snapshot()
	snap.Projects[10000] = "changed"

	require.Equal(t, "DEMO - Demonstration", c.Display(SlotProjects, 10000))
	require.NotNil(t, snap.EventTypes)
	require.Nil(t, snap.Directories)
}
