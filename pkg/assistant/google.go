package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGoogleModel is used unless WithGoogleModel says otherwise.
const DefaultGoogleModel = "gemini-2.0-flash"

// Google implements Model with Google's generative AI API.
type Google struct {
	client   *genai.Client
	model    string
	backend  genai.Backend
	project  string
	location string
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the model.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGoogleBackend selects the Gemini API or Vertex AI backend.
func WithGoogleBackend(backend genai.Backend) GoogleOption {
	return func(g *Google) {
		g.backend = backend
	}
}

// WithGoogleProject sets the GCP project for Vertex AI.
func WithGoogleProject(project string) GoogleOption {
	return func(g *Google) {
		g.project = project
	}
}

// WithGoogleLocation sets the GCP region for Vertex AI.
func WithGoogleLocation(location string) GoogleOption {
	return func(g *Google) {
		g.location = location
	}
}

// NewGoogle creates a Google model. The API key is required for the Gemini API
// backend; Vertex AI authenticates with application default credentials.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	g := &Google{
		model:   DefaultGoogleModel,
		backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(g)
	}

	cfg := &genai.ClientConfig{Backend: g.backend}
	switch g.backend {
	case genai.BackendVertexAI:
		if g.project == "" || g.location == "" {
			return nil, fmt.Errorf("%w: project and location are required for Vertex AI", ErrClientCreationFailed)
		}
		cfg.Project = g.project
		cfg.Location = g.location
	default:
		if apiKey == "" {
			return nil, ErrInvalidAPIKey
		}
		cfg.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientCreationFailed, err)
	}
	g.client = client
	return g, nil
}

// Complete sends p.User as the content and p.System as the system instruction.
func (g *Google) Complete(ctx context.Context, p Prompt) (string, error) {
	temperature := float32(p.Temperature)
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
