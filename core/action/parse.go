package action

import (
	"encoding/json"
	"log/slog"
	"maps"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"

	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
)

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\r?\\n(.*?)```")

// Sanitizer turns untrusted collaborator text into a well-typed Batch.
// A Sanitizer is safe for concurrent use when its id generator is.
type Sanitizer struct {
	ids    layout.IDGenerator
	policy *bluemonday.Policy
	log    *slog.Logger
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithIDGenerator sets the source of ids assigned to nodes that arrive without one.
func WithIDGenerator(g layout.IDGenerator) Option {
	return func(s *Sanitizer) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithContentPolicy sanitizes the content of incoming text nodes and text patches with p.
func WithContentPolicy(p *bluemonday.Policy) Option {
	return func(s *Sanitizer) {
		s.policy = p
	}
}

// WithLogger sets the logger used to report discarded input.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sanitizer) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSanitizer creates a Sanitizer.
func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		ids: layout.DefaultIDGenerator,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse sanitizes raw with a default Sanitizer.
func Parse(raw string) Batch {
	return NewSanitizer().Parse(raw)
}

// Parse decodes raw into a Batch. It never fails; unreadable input yields an empty batch.
//
// The text may be wrapped in a code fence, be a bare action array, or be
// surrounded by prose. The payload may be an envelope {"actions":[...]}, an array
// of actions, or a single action object. Actions without a recognized type,
// inserts and replaces without a node, and updates and removes without a string
// id are dropped. Nodes missing an id, or repeating one already seen in the
// payload, get a fresh id at any depth.
func (s *Sanitizer) Parse(raw string) Batch {
	v, ok := decodePayload(raw)
	if !ok {
		s.log.Debug("collaborator reply is not JSON", logger.Component("action"), logger.Count("bytes", len(raw)))
		return Batch{}
	}

	var (
		b     Batch
		items []any
	)
	switch p := v.(type) {
	case []any:
		items = p
	case map[string]any:
		if list, ok := p["actions"].([]any); ok {
			items = list
		} else if _, ok := p["type"].(string); ok {
			items = []any{p}
		}
		b.Summary, _ = p["summary"].(string)
		b.Reply, _ = p["reply"].(string)
	}

	seen := map[string]struct{}{}
	for _, item := range items {
		a, ok := s.action(item, seen)
		if !ok {
			continue
		}
		b.Actions = append(b.Actions, a)
	}
	if dropped := len(items) - len(b.Actions); dropped > 0 {
		s.log.Debug("discarded malformed actions",
			logger.Component("action"),
			logger.Count("dropped", dropped),
			logger.Count("kept", len(b.Actions)),
		)
	}
	return b
}

// decodePayload applies the layered fallbacks: fence stripping, array wrapping,
// strict parse, then the outermost bracketed substrings.
func decodePayload(raw string) (any, bool) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	strict := text
	if strings.HasPrefix(text, "[") {
		strict = `{"actions":` + text + `}`
	}
	if v, ok := decodeJSON(strict); ok {
		return v, true
	}

	openObj := strings.IndexByte(text, '{')
	if openArr := strings.IndexByte(text, '['); openArr >= 0 && (openObj < 0 || openArr < openObj) {
		if end := strings.LastIndexByte(text, ']'); end > openArr {
			if v, ok := decodeJSON(`{"actions":` + text[openArr:end+1] + `}`); ok {
				return v, true
			}
		}
	}
	if openObj >= 0 {
		if end := strings.LastIndexByte(text, '}'); end > openObj {
			if v, ok := decodeJSON(text[openObj : end+1]); ok {
				return v, true
			}
		}
	}
	return nil, false
}

func decodeJSON(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

func (s *Sanitizer) action(item any, seen map[string]struct{}) (Action, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}
	kind, _ := m["type"].(string)

	switch Kind(kind) {
	case KindInsert:
		node, ok := m["node"].(map[string]any)
		if !ok {
			return nil, false
		}
		a := Insert{
			ParentID: cast.ToString(m["parentId"]),
			Node:     s.node(node, seen),
		}
		if raw, present := m["index"]; present && raw != nil {
			if i, err := cast.ToIntE(raw); err == nil {
				a.Index = &i
			}
		}
		return a, true

	case KindReplace:
		root, ok := m["root"].(map[string]any)
		if !ok {
			return nil, false
		}
		return Replace{Root: s.node(root, seen)}, true

	case KindUpdate:
		id, _ := m["id"].(string)
		if id == "" {
			return nil, false
		}
		props, _ := m["props"].(map[string]any)
		if props == nil {
			props = map[string]any{}
		}
		return Update{ID: id, Props: s.clean(props)}, true

	case KindRemove:
		id, _ := m["id"].(string)
		if id == "" {
			return nil, false
		}
		return Remove{ID: id}, true

	case KindSelect:
		id, _ := m["id"].(string)
		return Select{ID: id}, true
	}

	s.log.Debug("unknown action type", logger.Component("action"), logger.ActionType(kind))
	return nil, false
}

// node converts a decoded node object into a layout node, assigning ids recursively.
func (s *Sanitizer) node(m map[string]any, seen map[string]struct{}) *layout.Node {
	id := ""
	if raw, ok := m["id"]; ok && raw != nil {
		id = cast.ToString(raw)
	}
	if _, dup := seen[id]; id == "" || dup {
		id = s.ids.NewID()
	}
	seen[id] = struct{}{}

	t := layout.BlockType(cast.ToString(m["type"]))
	props, _ := m["props"].(map[string]any)
	if t == layout.Text {
		props = s.clean(props)
	}

	n := &layout.Node{ID: id, Type: t, Props: layout.NewProps(t, props)}
	if list, ok := m["children"].([]any); ok {
		n.Children = make([]*layout.Node, 0, len(list))
		for _, c := range list {
			if cm, ok := c.(map[string]any); ok {
				n.Children = append(n.Children, s.node(cm, seen))
			}
		}
	} else if t.IsContainer() {
		n.Children = []*layout.Node{}
	}
	return n
}

// clean applies the content policy to a string "content" prop.
func (s *Sanitizer) clean(props map[string]any) map[string]any {
	if s.policy == nil {
		return props
	}
	content, ok := props["content"].(string)
	if !ok {
		return props
	}
	out := maps.Clone(props)
	out["content"] = s.policy.Sanitize(content)
	return out
}
