package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailcraft/core/action"
	"github.com/dmitrymomot/mailcraft/core/htmlcodec"
	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
	"github.com/dmitrymomot/mailcraft/pkg/assistant"
)

var (
	errEmptyBody      = errors.New("request body is empty")
	errRootNotSection = errors.New("root must be a section")
	errNoInstruction  = errors.New("instruction is required")
)

// ApplyRequest carries a tree and raw collaborator text to sanitize and apply.
type ApplyRequest struct {
	Tree  *layout.Node `json:"tree"`
	Reply string       `json:"reply"`
}

// AssistRequest carries a tree and a free-form instruction.
type AssistRequest struct {
	Tree        *layout.Node `json:"tree"`
	Instruction string       `json:"instruction"`
}

// EditResponse is the tree after applying a batch, with the batch itself.
type EditResponse struct {
	Tree  *layout.Node `json:"tree"`
	Batch action.Batch `json:"batch"`
	Focus *string      `json:"focus,omitempty"`
}

func (a *API) defaultTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.factory.Default())
}

func (a *API) block(w http.ResponseWriter, r *http.Request) {
	t := layout.BlockType(chi.URLParam(r, "type"))
	n, ok := a.factory.Block(t)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown block type %q", t))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// render encodes the posted tree. ?format=text selects the plain-text part,
// ?title= sets the document title.
func (a *API) render(w http.ResponseWriter, r *http.Request) {
	var root layout.Node
	if err := decodeJSON(r, &root); err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}
	if root.Type != layout.Section {
		writeError(w, http.StatusUnprocessableEntity, errRootNotSection)
		return
	}

	enc := htmlcodec.NewEncoder(htmlcodec.WithTitle(r.URL.Query().Get("title")))
	if r.URL.Query().Get("format") == "text" {
		text, err := enc.PlainText(&root)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeBody(w, "text/plain; charset=utf-8", text)
		return
	}
	writeBody(w, "text/html; charset=utf-8", enc.Encode(&root))
}

func (a *API) parse(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a.decoder.Decode(string(src)))
}

func (a *API) apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}
	root, err := requireSection(req.Tree)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	batch := a.sanitizer.Parse(req.Reply)
	if batch.Summary == "" {
		batch.Summary = action.Summarize(batch.Actions)
	}
	writeJSON(w, http.StatusOK, edit(root, batch))
}

func (a *API) assist(w http.ResponseWriter, r *http.Request) {
	if a.collaborator == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("assistant is not configured"))
		return
	}
	if !a.allow(w, r) {
		return
	}

	var req AssistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}
	root, err := requireSection(req.Tree)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if req.Instruction == "" {
		writeError(w, http.StatusUnprocessableEntity, errNoInstruction)
		return
	}

	batch, err := a.collaborator.Send(r.Context(), root, req.Instruction)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err)
		return
	case err != nil:
		a.log.ErrorContext(r.Context(), "collaborator failed", logger.Component("api"), logger.Error(err))
		writeError(w, http.StatusBadGateway, assistant.ErrModelUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, edit(root, batch))
}

// allow applies the rate limit and writes the 429 response when denied.
func (a *API) allow(w http.ResponseWriter, r *http.Request) bool {
	if a.limiter == nil {
		return true
	}
	res, err := a.limiter.Allow(r.Context(), clientKey(r))
	if err != nil {
		a.log.ErrorContext(r.Context(), "rate limiter failed", logger.Component("api"), logger.Error(err))
		return true
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
	if !res.Allowed() {
		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())+1))
		writeError(w, http.StatusTooManyRequests, assistant.ErrRateLimitExceeded)
		return false
	}
	return true
}

func edit(root *layout.Node, batch action.Batch) EditResponse {
	out := action.Apply(root, batch.Actions)
	resp := EditResponse{Tree: out.Root, Batch: batch}
	if out.Focused {
		resp.Focus = &out.Focus
	}
	return resp
}

func requireSection(root *layout.Node) (*layout.Node, error) {
	if root == nil {
		return nil, errors.New("tree is required")
	}
	if root.Type != layout.Section {
		return nil, errRootNotSection
	}
	return root, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// bodyStatus maps a request body read error to a response status.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	_, _ = io.WriteString(w, body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
