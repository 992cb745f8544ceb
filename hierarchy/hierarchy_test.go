package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHierarchyScenario6 mirrors §8 scenario 6 literally.
func TestHierarchyScenario6(t *testing.T) {
	h := New()
	require.True(t, h.AddChild("a", "b"))
	require.True(t, h.AddChild("b", "c"))
	require.True(t, h.AddChild("c", "d"))

	assert.Equal(t, []string{"c", "b", "a"}, h.GetAncestors("d"))

	order, err := h.TopologicalSort()
	require.NoError(t, err)
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
	assert.Less(t, pos["c"], pos["d"])

	assert.False(t, h.AddChild("d", "a"))
	// the rejected edge must leave the structure unchanged
	assert.Equal(t, []string{"c", "b", "a"}, h.GetAncestors("d"))
	parent, ok := h.GetParent("a")
	assert.False(t, ok)
	assert.Empty(t, parent)
}

func TestAddChildRejectsSelfLoop(t *testing.T) {
	h := New()
	require.NoError(t, h.AddNode("a"))
	assert.False(t, h.AddChild("a", "a"))
}

func TestAddChildUnlinksExistingParent(t *testing.T) {
	h := New()
	require.True(t, h.AddChild("a", "x"))
	require.True(t, h.AddChild("b", "x"))

	parent, ok := h.GetParent("x")
	require.True(t, ok)
	assert.Equal(t, "b", parent)
	assert.Empty(t, h.GetChildren("a"))
	assert.Equal(t, []string{"x"}, h.GetChildren("b"))
}

func TestGetDescendantsBFSAndChainToRoot(t *testing.T) {
	h := New()
	h.AddChild("root", "mid1")
	h.AddChild("root", "mid2")
	h.AddChild("mid1", "leaf1")

	descendants := h.GetDescendants("root")
	assert.ElementsMatch(t, []string{"mid1", "mid2", "leaf1"}, descendants)
	assert.NotContains(t, descendants, "root")

	assert.Equal(t, []string{"root", "mid1", "leaf1"}, h.GetChainToRoot("leaf1"))
	assert.True(t, h.IsRoot("root"))
	assert.False(t, h.IsRoot("mid1"))
	assert.True(t, h.IsLeaf("leaf1"))
	assert.False(t, h.IsLeaf("mid1"))
	assert.Equal(t, 2, h.GetDepth("leaf1"))
}

func TestDeleteSubtreeRemovesRootAndDescendants(t *testing.T) {
	h := New()
	h.AddChild("root", "a")
	h.AddChild("a", "b")

	removed, err := h.DeleteSubtree("a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, removed)
	assert.Empty(t, h.GetChildren("root"))
	_, err = h.DeleteSubtree("does-not-exist")
	assert.ErrorIs(t, err, ErrGateNotFound)
}

func TestDeleteNodeKeepChildrenReparentsToGrandparent(t *testing.T) {
	h := New()
	h.AddChild("root", "mid")
	h.AddChild("mid", "leaf")

	reparented, err := h.DeleteNodeKeepChildren("mid", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf"}, reparented)

	parent, ok := h.GetParent("leaf")
	require.True(t, ok)
	assert.Equal(t, "root", parent)
	assert.False(t, h.known["mid"])
}

func TestCloneSubtreeRenamesIds(t *testing.T) {
	h := New()
	h.AddChild("root", "a")
	h.AddChild("a", "b")

	clone, err := h.CloneSubtree("a", func(old string) string { return old + "_clone" })
	require.NoError(t, err)

	assert.True(t, clone.IsRoot("a_clone"))
	assert.Equal(t, []string{"b_clone"}, clone.GetChildren("a_clone"))
	// the original hierarchy is untouched
	assert.Equal(t, []string{"b"}, h.GetChildren("a"))
}

func TestIterDFSPreOrder(t *testing.T) {
	h := New()
	h.AddChild("root", "a")
	h.AddChild("root", "b")
	h.AddChild("a", "c")

	order := h.IterDFS("root")
	assert.Equal(t, []string{"root", "a", "c", "b"}, order)
}
