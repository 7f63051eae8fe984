package layout

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// BlockType identifies the kind of a node.
type BlockType string

// Block types. Section and Column are containers, the rest are leaves.
const (
	Section BlockType = "section"
	Column  BlockType = "column"
	Text    BlockType = "text"
	Image   BlockType = "image"
	Button  BlockType = "button"
	Spacer  BlockType = "spacer"
)

// BlockTypes lists every known block type in palette order.
var BlockTypes = []BlockType{Section, Column, Text, Image, Button, Spacer}

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	switch t {
	case Section, Column, Text, Image, Button, Spacer:
		return true
	}
	return false
}

// IsContainer reports whether nodes of type t hold children.
func (t BlockType) IsContainer() bool {
	return t == Section || t == Column
}

func (t BlockType) String() string { return string(t) }

// Node is a single element of an email layout tree.
//
// Trees are persistent: once built, a node and everything reachable from it must
// not be modified. Operations in this package return new nodes along the changed
// path and share every untouched subtree with their input.
type Node struct {
	ID       string
	Type     BlockType
	Props    Props
	Children []*Node // nil for leaves, non-nil (possibly empty) for containers
}

// IsContainer reports whether the node holds children.
func (n *Node) IsContainer() bool {
	return n != nil && n.Type.IsContainer()
}

// Prop returns the string form of a prop value, or "" when the key is absent.
func (n *Node) Prop(key string) string {
	if n == nil || n.Props == nil {
		return ""
	}
	v, ok := n.Props.Get(key)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// props never returns nil, so callers can merge into it directly.
func (n *Node) props() Props {
	if n.Props != nil {
		return n.Props
	}
	return NewProps(n.Type, nil)
}

func (n *Node) withChildren(children []*Node) *Node {
	c := *n
	c.Children = children
	return &c
}

type nodeJSON struct {
	ID       string         `json:"id"`
	Type     BlockType      `json:"type"`
	Props    map[string]any `json:"props"`
	Children *[]*Node       `json:"children,omitempty"`
}

// MarshalJSON encodes the node as {"id","type","props","children"}.
// Leaves omit children; empty containers emit an empty array.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		ID:    n.ID,
		Type:  n.Type,
		Props: n.props().Map(),
	}
	if n.Children != nil {
		out.Children = &n.Children
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
// Props are routed into the typed record of the decoded block type.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in struct {
		ID       any            `json:"id"`
		Type     BlockType      `json:"type"`
		Props    map[string]any `json:"props"`
		Children []*Node        `json:"children"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("layout: decode node: %w", err)
	}
	*n = Node{
		ID:       cast.ToString(in.ID),
		Type:     in.Type,
		Props:    NewProps(in.Type, in.Props),
		Children: in.Children,
	}
	if n.Children == nil && n.Type.IsContainer() {
		n.Children = []*Node{}
	}
	return nil
}
