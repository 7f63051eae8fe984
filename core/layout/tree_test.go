package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/core/layout"
)

// sample builds: section s1 > [column c1 > [t1, t2, t3], column c2 > [b1]]
func sample(t *testing.T) (*layout.Node, *layout.Factory) {
	t.Helper()
	f := layout.NewFactory(layout.WithIDGenerator(layout.SequenceIDGenerator("n")))
	root := f.Section(nil,
		f.Column(nil,
			f.Text(layout.Overrides{"content": "one"}),
			f.Text(layout.Overrides{"content": "two"}),
			f.Text(layout.Overrides{"content": "three"}),
		),
		f.Column(nil, f.Button(nil)),
	)
	// Children are created before their parents: t=n1..n3, c1=n4, b=n5, c2=n6, s=n7.
	require.Equal(t, "n7", root.ID)
	return root, f
}

func childIDs(n *layout.Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestFind(t *testing.T) {
	t.Parallel()
	root, _ := sample(t)

	t.Run("finds the root", func(t *testing.T) {
		t.Parallel()
		n, ok := layout.Find(root, "n7")
		require.True(t, ok)
		assert.Same(t, root, n)
	})

	t.Run("finds a nested leaf", func(t *testing.T) {
		t.Parallel()
		n, ok := layout.Find(root, "n2")
		require.True(t, ok)
		assert.Equal(t, "two", n.Prop("content"))
	})

	t.Run("reports missing ids", func(t *testing.T) {
		t.Parallel()
		n, ok := layout.Find(root, "missing")
		assert.False(t, ok)
		assert.Nil(t, n)
	})

	t.Run("nil tree", func(t *testing.T) {
		t.Parallel()
		_, ok := layout.Find(nil, "n1")
		assert.False(t, ok)
	})
}

func TestFindParent(t *testing.T) {
	t.Parallel()
	root, _ := sample(t)

	parent, index, ok := layout.FindParent(root, "n3")
	require.True(t, ok)
	assert.Equal(t, "n4", parent.ID)
	assert.Equal(t, 2, index)

	parent, index, ok = layout.FindParent(root, "n6")
	require.True(t, ok)
	assert.Same(t, root, parent)
	assert.Equal(t, 1, index)

	_, _, ok = layout.FindParent(root, "n7")
	assert.False(t, ok, "root has no parent")

	_, _, ok = layout.FindParent(root, "missing")
	assert.False(t, ok)
}

func TestPatchProps(t *testing.T) {
	t.Parallel()

	t.Run("merges patch into the target props", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		original, _ := layout.Find(root, "n2")
		patch := map[string]any{"color": "#ff0000", "content": "patched", "data-x": 1}

		next := layout.PatchProps(root, "n2", patch)

		want := original.Props.Map()
		for k, v := range patch {
			want[k] = v
		}
		got, ok := layout.Find(next, "n2")
		require.True(t, ok)
		assert.Equal(t, want, got.Props.Map())
		assert.Equal(t, "two", original.Prop("content"), "input tree must not change")
	})

	t.Run("shares untouched subtrees", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.PatchProps(root, "n2", map[string]any{"content": "x"})

		assert.NotSame(t, root, next)
		assert.NotSame(t, root.Children[0], next.Children[0])
		assert.Same(t, root.Children[1], next.Children[1])
		assert.Same(t, root.Children[0].Children[0], next.Children[0].Children[0])
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.PatchProps(root, "missing", map[string]any{"content": "x"})
		assert.Same(t, root, next)
		assert.True(t, layout.Equal(root, next))
	})

	t.Run("coerces known keys to strings", func(t *testing.T) {
		t.Parallel()
		f := layout.NewFactory()
		img := f.Image(nil)
		next := layout.PatchProps(img, img.ID, map[string]any{"width": 320})
		assert.Equal(t, "320", next.Props.(layout.ImageProps).Width)
	})
}

func TestInsert(t *testing.T) {
	t.Parallel()

	t.Run("appends without index", func(t *testing.T) {
		t.Parallel()
		root, f := sample(t)
		node := f.Spacer(nil)
		next := layout.Insert(root, "n4", node)
		parent, _ := layout.Find(next, "n4")
		assert.Equal(t, []string{"n1", "n2", "n3", node.ID}, childIDs(parent))
	})

	t.Run("inserts at index", func(t *testing.T) {
		t.Parallel()
		root, f := sample(t)
		node := f.Spacer(nil)
		next := layout.InsertAt(root, "n4", node, 1)
		parent, _ := layout.Find(next, "n4")
		assert.Equal(t, []string{"n1", node.ID, "n2", "n3"}, childIDs(parent))
	})

	t.Run("clamps indexes", func(t *testing.T) {
		t.Parallel()
		root, f := sample(t)
		low := f.Spacer(nil)
		high := f.Spacer(nil)
		next := layout.InsertAt(root, "n4", low, -10)
		next = layout.InsertAt(next, "n4", high, 99)
		parent, _ := layout.Find(next, "n4")
		assert.Equal(t, []string{low.ID, "n1", "n2", "n3", high.ID}, childIDs(parent))
	})

	t.Run("ignores leaf and missing parents", func(t *testing.T) {
		t.Parallel()
		root, f := sample(t)
		assert.Same(t, root, layout.Insert(root, "n1", f.Spacer(nil)))
		assert.Same(t, root, layout.Insert(root, "missing", f.Spacer(nil)))
		assert.Same(t, root, layout.Insert(root, "n4", nil))
	})

	t.Run("insert then remove restores the tree", func(t *testing.T) {
		t.Parallel()
		root, f := sample(t)
		for _, parentID := range []string{"n4", "n6", "n7"} {
			for index := -1; index <= 4; index++ {
				node := f.Text(nil)
				next := layout.InsertAt(root, parentID, node, index)
				require.NotSame(t, root, next)
				restored := layout.Remove(next, node.ID)
				assert.True(t, layout.Equal(root, restored), "parent %s index %d", parentID, index)
			}
		}
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	t.Run("removes a nested node", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.Remove(root, "n2")
		_, ok := layout.Find(next, "n2")
		assert.False(t, ok)
		assert.Equal(t, 6, layout.Count(next))
		assert.Equal(t, 7, layout.Count(root), "input tree must not change")
	})

	t.Run("removes a whole subtree", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.Remove(root, "n4")
		assert.Equal(t, []string{"n7", "n6", "n5"}, layout.IDs(next))
	})

	t.Run("root cannot remove itself", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		assert.Same(t, root, layout.Remove(root, "n7"))
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		assert.Same(t, root, layout.Remove(root, "missing"))
	})
}

func TestReorderSibling(t *testing.T) {
	t.Parallel()

	t.Run("moves up and down", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		up := layout.ReorderSibling(root, "n2", -1)
		parent, _ := layout.Find(up, "n4")
		assert.Equal(t, []string{"n2", "n1", "n3"}, childIDs(parent))

		down := layout.ReorderSibling(root, "n2", 1)
		parent, _ = layout.Find(down, "n4")
		assert.Equal(t, []string{"n1", "n3", "n2"}, childIDs(parent))
	})

	t.Run("down then up restores order", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.ReorderSibling(layout.ReorderSibling(root, "n2", 1), "n2", -1)
		assert.True(t, layout.Equal(root, next))
	})

	t.Run("clamped target at bound is a no-op", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		assert.Same(t, root, layout.ReorderSibling(root, "n1", -1))
		assert.Same(t, root, layout.ReorderSibling(root, "n3", 5))
		assert.Same(t, root, layout.ReorderSibling(root, "n5", 1), "only child")
	})

	t.Run("large deltas are clamped", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.ReorderSibling(root, "n1", 10)
		parent, _ := layout.Find(next, "n4")
		assert.Equal(t, []string{"n2", "n3", "n1"}, childIDs(parent))
	})

	t.Run("root and missing ids are no-ops", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		assert.Same(t, root, layout.ReorderSibling(root, "n7", 1))
		assert.Same(t, root, layout.ReorderSibling(root, "missing", 1))
	})
}

func TestRelocate(t *testing.T) {
	t.Parallel()

	t.Run("moves to another container", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.RelocateAt(root, "n2", "n6", 0)

		from, _ := layout.Find(next, "n4")
		to, _ := layout.Find(next, "n6")
		assert.Equal(t, []string{"n1", "n3"}, childIDs(from))
		assert.Equal(t, []string{"n2", "n5"}, childIDs(to))
		moved, _ := layout.Find(next, "n2")
		original, _ := layout.Find(root, "n2")
		assert.Same(t, original, moved, "moved subtree is reused")
	})

	t.Run("appends without index", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.Relocate(root, "n1", "n7")
		assert.Equal(t, []string{"n4", "n6", "n1"}, childIDs(next))
	})

	t.Run("index is applied after detaching", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		next := layout.RelocateAt(root, "n1", "n4", 2)
		parent, _ := layout.Find(next, "n4")
		assert.Equal(t, []string{"n2", "n3", "n1"}, childIDs(parent))
	})

	t.Run("refuses invalid moves", func(t *testing.T) {
		t.Parallel()
		root, _ := sample(t)
		assert.Same(t, root, layout.Relocate(root, "missing", "n6"))
		assert.Same(t, root, layout.Relocate(root, "n7", "n6"), "root")
		assert.Same(t, root, layout.Relocate(root, "n4", "n4"), "into itself")
		assert.Same(t, root, layout.Relocate(root, "n4", "n1"), "into own subtree")
		assert.Same(t, root, layout.Relocate(root, "n1", "n5"), "into a leaf")
		assert.Same(t, root, layout.Relocate(root, "n1", "missing"), "missing parent")
	})
}

func TestWalk(t *testing.T) {
	t.Parallel()
	root, _ := sample(t)

	var visited []string
	depths := map[string]int{}
	layout.Walk(root, func(n *layout.Node, depth int) bool {
		visited = append(visited, n.ID)
		depths[n.ID] = depth
		return n.ID != "n2"
	})
	assert.Equal(t, []string{"n7", "n4", "n1", "n2"}, visited)
	assert.Equal(t, 2, depths["n1"])
}
