package action

import (
	"slices"

	"github.com/dmitrymomot/mailcraft/core/layout"
)

// Outcome is the result of applying a batch of actions.
type Outcome struct {
	Root *layout.Node
	// Focus is the id named by the last select action. It is not checked
	// against Root, the node may be gone by the time the caller looks.
	Focus string
	// Focused reports whether any select action was applied.
	Focused bool
}

type applyConfig struct {
	ids layout.IDGenerator
}

// ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

// WithApplyIDGenerator sets the source of ids given to inserted nodes whose id
// is already taken in the tree.
func WithApplyIDGenerator(g layout.IDGenerator) ApplyOption {
	return func(c *applyConfig) {
		if g != nil {
			c.ids = g
		}
	}
}

// Apply folds actions over root from left to right. Actions that can't be applied
// leave the tree as it is for that step; Apply never fails.
//
// An inserted subtree never brings a duplicate id: any of its nodes whose id is
// already present in the tree is renamed before the insert.
func Apply(root *layout.Node, actions []Action, opts ...ApplyOption) Outcome {
	cfg := applyConfig{ids: layout.DefaultIDGenerator}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := Outcome{Root: root}
	for _, a := range actions {
		switch a := a.(type) {
		case Insert:
			node := freshIDs(out.Root, a.Node, cfg.ids)
			if a.Index != nil {
				out.Root = layout.InsertAt(out.Root, a.ParentID, node, *a.Index)
			} else {
				out.Root = layout.Insert(out.Root, a.ParentID, node)
			}
		case Update:
			out.Root = layout.PatchProps(out.Root, a.ID, a.Props)
		case Remove:
			out.Root = layout.Remove(out.Root, a.ID)
		case Replace:
			if a.Root != nil {
				out.Root = a.Root
			}
		case Select:
			out.Focus = a.ID
			out.Focused = true
		}
	}
	return out
}

// freshIDs returns node with every id already used in root, or earlier in node
// itself, replaced. node is returned unchanged when nothing collides.
func freshIDs(root, node *layout.Node, g layout.IDGenerator) *layout.Node {
	if node == nil {
		return nil
	}
	taken := make(map[string]struct{})
	for _, id := range layout.IDs(root) {
		taken[id] = struct{}{}
	}
	return renameTaken(node, taken, g)
}

func renameTaken(n *layout.Node, taken map[string]struct{}, g layout.IDGenerator) *layout.Node {
	out := n
	if _, dup := taken[n.ID]; dup || n.ID == "" {
		cp := *n
		cp.ID = g.NewID()
		for {
			if _, dup := taken[cp.ID]; !dup {
				break
			}
			cp.ID = g.NewID()
		}
		out = &cp
	}
	taken[out.ID] = struct{}{}

	var children []*layout.Node
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		renamed := renameTaken(c, taken, g)
		if renamed == c {
			continue
		}
		if children == nil {
			children = slices.Clone(n.Children)
		}
		children[i] = renamed
	}
	if children != nil {
		if out == n {
			cp := *n
			out = &cp
		}
		out.Children = children
	}
	return out
}
