package assistant

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrModelNotSupported indicates an unknown provider or model.
	ErrModelNotSupported = errors.New("model not supported")

	// ErrModelUnavailable wraps every transport failure returned by Send.
	ErrModelUnavailable = errors.New("text generation service unavailable")

	// ErrRateLimitExceeded indicates the API rate limit was exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrEmptyCompletion indicates the service answered without any text.
	// Send treats it as an empty reply rather than a failure.
	ErrEmptyCompletion = errors.New("empty completion returned")

	// ErrClientCreationFailed indicates a failure in creating the API client.
	ErrClientCreationFailed = errors.New("failed to create API client")
)
