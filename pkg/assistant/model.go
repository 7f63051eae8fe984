package assistant

import (
	"context"

	"github.com/dmitrymomot/mailcraft/core/action"
	"github.com/dmitrymomot/mailcraft/core/layout"
)

// Prompt is a single-turn completion request.
type Prompt struct {
	System      string
	User        string
	JSON        bool // ask for a JSON object response
	Temperature float64
}

// Model is the transport to a text-generation service.
type Model interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, p Prompt) (string, error)

// Complete calls f.
func (f ModelFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// Collaborator turns a natural-language instruction about a tree into edit actions.
type Collaborator interface {
	Send(ctx context.Context, root *layout.Node, instruction string) (action.Batch, error)
}
