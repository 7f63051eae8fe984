package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/mailcraft/core/action"
	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
)

var (
	creationPattern       = regexp.MustCompile(`\b(create|generate|make|build)\b`)
	conversationalPattern = regexp.MustCompile(`\b(hi|hello|hey|who are you|what can you do|help)\b`)
)

// Assistant implements Collaborator on top of a Model.
type Assistant struct {
	model       Model
	sanitizer   *action.Sanitizer
	log         *slog.Logger
	system      string
	temperature float64
}

var _ Collaborator = (*Assistant)(nil)

// Option configures an Assistant.
type Option func(*Assistant)

// WithSanitizer sets the sanitizer applied to model replies.
func WithSanitizer(s *action.Sanitizer) Option {
	return func(a *Assistant) {
		if s != nil {
			a.sanitizer = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.log = l
		}
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Assistant) {
		if prompt != "" {
			a.system = prompt
		}
	}
}

// WithTemperature sets the sampling temperature of structured requests.
func WithTemperature(t float64) Option {
	return func(a *Assistant) {
		a.temperature = t
	}
}

// New creates an Assistant backed by model.
func New(model Model, opts ...Option) *Assistant {
	a := &Assistant{
		model:  model,
		log:    slog.Default(),
		system: SystemPrompt,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sanitizer == nil {
		a.sanitizer = action.NewSanitizer(action.WithLogger(a.log))
	}
	return a
}

// Send asks the model for edits to root.
//
// When the reply holds no usable action and the instruction asks to create
// something, the model is asked once more for a complete template and only
// replace actions of that second reply are kept. When there is still nothing to
// apply and the instruction looks like small talk, a free-text answer is requested
// and returned in Batch.Reply; a failure of that request is logged and ignored.
//
// Transport failures are returned wrapped in ErrModelUnavailable. Malformed
// replies never fail; they produce an empty batch.
func (a *Assistant) Send(ctx context.Context, root *layout.Node, instruction string) (action.Batch, error) {
	start := time.Now()
	tree, err := json.Marshal(root)
	if err != nil {
		return action.Batch{}, fmt.Errorf("assistant: encode tree: %w", err)
	}

	raw, err := a.complete(ctx, Prompt{
		System:      a.system,
		User:        fmt.Sprintf(userTemplate, tree, instruction),
		JSON:        true,
		Temperature: a.temperature,
	})
	if err != nil {
		return action.Batch{}, err
	}
	batch := a.sanitizer.Parse(raw)

	// Casers keep state, so each call gets its own.
	folded := cases.Fold().String(instruction)
	if batch.Empty() && creationPattern.MatchString(folded) {
		a.log.DebugContext(ctx, "no actions for a creation request, retrying",
			logger.Component("assistant"),
			logger.RetryCount(1),
		)
		raw, err = a.complete(ctx, Prompt{
			System:      a.system,
			User:        creationPrompt,
			JSON:        true,
			Temperature: a.temperature,
		})
		if err != nil {
			return action.Batch{}, err
		}
		retry := a.sanitizer.Parse(raw)
		batch.Actions = action.Only(retry.Actions, action.KindReplace)
		if retry.Summary != "" {
			batch.Summary = retry.Summary
		}
	}

	if batch.Empty() && batch.Reply == "" && conversationalPattern.MatchString(folded) {
		reply, err := a.model.Complete(ctx, Prompt{
			System:      replySystemPrompt,
			User:        instruction,
			Temperature: replyTemperature,
		})
		if err != nil {
			a.log.WarnContext(ctx, "conversational reply failed",
				logger.Component("assistant"),
				logger.Error(err),
			)
		} else {
			batch.Reply = strings.TrimSpace(reply)
		}
	}

	if batch.Summary == "" {
		batch.Summary = action.Summarize(batch.Actions)
	}

	a.log.DebugContext(ctx, "collaborator reply processed",
		logger.Component("assistant"),
		logger.Count("actions", len(batch.Actions)),
		logger.Duration(time.Since(start)),
	)
	return batch, nil
}

// complete calls the model, treating an empty completion as an empty reply.
func (a *Assistant) complete(ctx context.Context, p Prompt) (string, error) {
	raw, err := a.model.Complete(ctx, p)
	switch {
	case errors.Is(err, ErrEmptyCompletion):
		a.log.DebugContext(ctx, "empty completion", logger.Component("assistant"))
		return "", nil
	case err != nil:
		return "", errors.Join(ErrModelUnavailable, err)
	}
	return raw, nil
}
