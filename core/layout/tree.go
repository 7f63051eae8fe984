package layout

import (
	"math"
	"reflect"
	"slices"
)

// Find returns the first node with the given id in depth-first pre-order.
func Find(root *Node, id string) (*Node, bool) {
	if root == nil {
		return nil, false
	}
	if root.ID == id {
		return root, true
	}
	for _, c := range root.Children {
		if n, ok := Find(c, id); ok {
			return n, true
		}
	}
	return nil, false
}

// FindParent returns the immediate parent of the node with the given id and the
// node's position in the parent's children. The root has no parent.
func FindParent(root *Node, id string) (parent *Node, index int, ok bool) {
	path, found := locate(root, id)
	if !found || len(path) == 0 {
		return nil, -1, false
	}
	parent = root
	for _, i := range path[:len(path)-1] {
		parent = parent.Children[i]
	}
	return parent, path[len(path)-1], true
}

// PatchProps shallow-merges patch into the props of the node with the given id.
// The input tree is returned unchanged when the id is absent.
func PatchProps(root *Node, id string, patch map[string]any) *Node {
	path, ok := locate(root, id)
	if !ok {
		return root
	}
	return rewrite(root, path, func(n *Node) *Node {
		c := *n
		c.Props = n.props().With(patch)
		return &c
	})
}

// Insert appends node to the children of the container with id parentID.
func Insert(root *Node, parentID string, node *Node) *Node {
	return InsertAt(root, parentID, node, math.MaxInt)
}

// InsertAt inserts node into the children of the container with id parentID at
// index, clamped to [0, len(children)]. Non-container or missing parents are a no-op.
func InsertAt(root *Node, parentID string, node *Node, index int) *Node {
	if node == nil {
		return root
	}
	path, ok := locate(root, parentID)
	if !ok {
		return root
	}
	return rewrite(root, path, func(parent *Node) *Node {
		if !parent.IsContainer() {
			return parent
		}
		i := clamp(index, 0, len(parent.Children))
		return parent.withChildren(slices.Insert(slices.Clone(parent.Children), i, node))
	})
}

// Remove detaches the node with the given id from its parent.
// The root cannot remove itself; a missing id is a no-op.
func Remove(root *Node, id string) *Node {
	path, ok := locate(root, id)
	if !ok || len(path) == 0 {
		return root
	}
	i := path[len(path)-1]
	return rewrite(root, path[:len(path)-1], func(parent *Node) *Node {
		return parent.withChildren(slices.Delete(slices.Clone(parent.Children), i, i+1))
	})
}

// ReorderSibling moves the node with the given id by delta positions among its
// siblings. The target index is clamped; reaching the current position is a no-op.
func ReorderSibling(root *Node, id string, delta int) *Node {
	path, ok := locate(root, id)
	if !ok || len(path) == 0 {
		return root
	}
	from := path[len(path)-1]
	return rewrite(root, path[:len(path)-1], func(parent *Node) *Node {
		to := clamp(from+delta, 0, len(parent.Children)-1)
		if to == from {
			return parent
		}
		children := slices.Clone(parent.Children)
		moved := children[from]
		children = slices.Delete(children, from, from+1)
		children = slices.Insert(children, to, moved)
		return parent.withChildren(children)
	})
}

// Relocate moves the node with the given id to the end of newParentID's children.
func Relocate(root *Node, id, newParentID string) *Node {
	return RelocateAt(root, id, newParentID, math.MaxInt)
}

// RelocateAt moves the node with the given id under newParentID at index.
// The index is clamped against the new parent's children after the node has been
// detached. Moving the root, moving a node into its own subtree, or targeting a
// parent that is missing or not a container leaves the tree unchanged.
func RelocateAt(root *Node, id, newParentID string, index int) *Node {
	if root == nil || root.ID == id {
		return root
	}
	node, ok := Find(root, id)
	if !ok {
		return root
	}
	if _, inside := Find(node, newParentID); inside {
		return root
	}
	if parent, ok := Find(root, newParentID); !ok || !parent.IsContainer() {
		return root
	}
	return InsertAt(Remove(root, id), newParentID, node, index)
}

// Walk visits every node in depth-first pre-order until fn returns false.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// IDs returns every id in the tree in pre-order.
func IDs(root *Node) []string {
	var ids []string
	Walk(root, func(n *Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Equal reports whether two trees have the same ids, types, props and child order.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.ID != b.ID || a.Type != b.Type || len(a.Children) != len(b.Children) {
		return false
	}
	if !reflect.DeepEqual(a.props().Map(), b.props().Map()) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// locate returns the child-index path from root to the first node with the given id.
// An empty path designates the root itself.
func locate(root *Node, id string) ([]int, bool) {
	if root == nil {
		return nil, false
	}
	if root.ID == id {
		return []int{}, true
	}
	for i, c := range root.Children {
		if rest, ok := locate(c, id); ok {
			return append([]int{i}, rest...), true
		}
	}
	return nil, false
}

// rewrite replaces the node at path with fn's result, copying only the ancestors.
// When fn returns its argument the original root is returned.
func rewrite(n *Node, path []int, fn func(*Node) *Node) *Node {
	if len(path) == 0 {
		return fn(n)
	}
	i := path[0]
	child := rewrite(n.Children[i], path[1:], fn)
	if child == n.Children[i] {
		return n
	}
	children := slices.Clone(n.Children)
	children[i] = child
	return n.withChildren(children)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
