package action

import (
	"encoding/json"

	"github.com/dmitrymomot/mailcraft/core/layout"
)

// Kind is the tag of an action.
type Kind string

// Action kinds.
const (
	KindInsert  Kind = "insert"
	KindUpdate  Kind = "update"
	KindRemove  Kind = "remove"
	KindSelect  Kind = "select"
	KindReplace Kind = "replace"
)

// Action is one edit command. The set of implementations is closed:
// Insert, Update, Remove, Select and Replace.
type Action interface {
	Kind() Kind
	isAction()
}

// Insert adds Node under ParentID, appending when Index is nil.
type Insert struct {
	ParentID string
	Index    *int
	Node     *layout.Node
}

// Update shallow-merges Props into the node with ID.
type Update struct {
	ID    string
	Props map[string]any
}

// Remove detaches the node with ID.
type Remove struct {
	ID string
}

// Select is a focus hint with no effect on the tree. An empty ID clears focus.
type Select struct {
	ID string
}

// Replace discards the current tree in favor of Root.
type Replace struct {
	Root *layout.Node
}

func (Insert) Kind() Kind  { return KindInsert }
func (Update) Kind() Kind  { return KindUpdate }
func (Remove) Kind() Kind  { return KindRemove }
func (Select) Kind() Kind  { return KindSelect }
func (Replace) Kind() Kind { return KindReplace }

func (Insert) isAction()  {}
func (Update) isAction()  {}
func (Remove) isAction()  {}
func (Select) isAction()  {}
func (Replace) isAction() {}

func (a Insert) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Kind         `json:"type"`
		ParentID string       `json:"parentId"`
		Index    *int         `json:"index,omitempty"`
		Node     *layout.Node `json:"node"`
	}{KindInsert, a.ParentID, a.Index, a.Node})
}

func (a Update) MarshalJSON() ([]byte, error) {
	props := a.Props
	if props == nil {
		props = map[string]any{}
	}
	return json.Marshal(struct {
		Type  Kind           `json:"type"`
		ID    string         `json:"id"`
		Props map[string]any `json:"props"`
	}{KindUpdate, a.ID, props})
}

func (a Remove) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind   `json:"type"`
		ID   string `json:"id"`
	}{KindRemove, a.ID})
}

func (a Select) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind   `json:"type"`
		ID   string `json:"id,omitempty"`
	}{KindSelect, a.ID})
}

func (a Replace) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind         `json:"type"`
		Root *layout.Node `json:"root"`
	}{KindReplace, a.Root})
}

// Batch is the collaborator envelope: actions plus an optional human summary of
// the changes and an optional conversational reply.
type Batch struct {
	Actions []Action
	Summary string
	Reply   string
}

// Empty reports whether the batch carries no actions.
func (b Batch) Empty() bool {
	return len(b.Actions) == 0
}

// MarshalJSON encodes the batch as {"actions":[...],"summary":"...","reply":"..."}.
func (b Batch) MarshalJSON() ([]byte, error) {
	actions := b.Actions
	if actions == nil {
		actions = []Action{}
	}
	return json.Marshal(struct {
		Actions []Action `json:"actions"`
		Summary string   `json:"summary,omitempty"`
		Reply   string   `json:"reply,omitempty"`
	}{actions, b.Summary, b.Reply})
}

// Only returns the actions whose kind is one of kinds, in their original order.
func Only(actions []Action, kinds ...Kind) []Action {
	var out []Action
	for _, a := range actions {
		if a == nil {
			continue
		}
		for _, k := range kinds {
			if a.Kind() == k {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
