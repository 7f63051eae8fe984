package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used unless WithOpenAIModel says otherwise.
const DefaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAI implements Model with the OpenAI chat completions API.
type OpenAI struct {
	client  openai.Client
	model   string
	reqOpts []option.RequestOption
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the chat model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at a compatible endpoint.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *OpenAI) {
		if url != "" {
			o.reqOpts = append(o.reqOpts, option.WithBaseURL(url))
		}
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.reqOpts = append(o.reqOpts, option.WithHTTPClient(client))
		}
	}
}

// WithOpenAIMaxRetries sets how often the client retries failed requests.
func WithOpenAIMaxRetries(n int) OpenAIOption {
	return func(o *OpenAI) {
		if n >= 0 {
			o.reqOpts = append(o.reqOpts, option.WithMaxRetries(n))
		}
	}
}

// NewOpenAI creates an OpenAI model.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		model:   DefaultOpenAIModel,
		reqOpts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.client = openai.NewClient(o.reqOpts...)
	return o, nil
}

// Complete sends p as a system and a user message.
func (o *OpenAI) Complete(ctx context.Context, p Prompt) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		messages = append(messages, openai.SystemMessage(p.System))
	}
	messages = append(messages, openai.UserMessage(p.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(p.Temperature),
	}
	if p.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized:
				return "", fmt.Errorf("%w: %w", ErrInvalidAPIKey, err)
			case http.StatusTooManyRequests:
				return "", fmt.Errorf("%w: %w", ErrRateLimitExceeded, err)
			case http.StatusNotFound:
				return "", fmt.Errorf("%w: %s: %w", ErrModelNotSupported, o.model, err)
			}
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
