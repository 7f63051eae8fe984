package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mailcraft/core/action"
	"github.com/dmitrymomot/mailcraft/core/health"
	"github.com/dmitrymomot/mailcraft/core/htmlcodec"
	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/pkg/assistant"
	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// API serves the layout operations over HTTP.
type API struct {
	collaborator assistant.Collaborator
	limiter      *ratelimiter.Bucket
	sanitizer    *action.Sanitizer
	decoder      *htmlcodec.Decoder
	factory      *layout.Factory
	checks       []health.Check
	maxBody      int64
	log          *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithCollaborator enables the assist endpoint.
func WithCollaborator(c assistant.Collaborator) Option {
	return func(a *API) {
		a.collaborator = c
	}
}

// WithLimiter throttles the assist endpoint per client address.
func WithLimiter(b *ratelimiter.Bucket) Option {
	return func(a *API) {
		a.limiter = b
	}
}

// WithSanitizer sets the sanitizer used by the apply endpoint.
func WithSanitizer(s *action.Sanitizer) Option {
	return func(a *API) {
		if s != nil {
			a.sanitizer = s
		}
	}
}

// WithDecoder sets the decoder used by the parse endpoint.
func WithDecoder(d *htmlcodec.Decoder) Option {
	return func(a *API) {
		if d != nil {
			a.decoder = d
		}
	}
}

// WithFactory sets the factory building starter trees and palette blocks.
func WithFactory(f *layout.Factory) Option {
	return func(a *API) {
		if f != nil {
			a.factory = f
		}
	}
}

// WithReadinessChecks adds dependency checks to the readiness probe.
func WithReadinessChecks(checks ...health.Check) Option {
	return func(a *API) {
		a.checks = append(a.checks, checks...)
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an API.
func New(opts ...Option) *API {
	a := &API{
		factory: layout.NewFactory(),
		maxBody: DefaultMaxBodyBytes,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sanitizer == nil {
		a.sanitizer = action.NewSanitizer(action.WithLogger(a.log))
	}
	if a.decoder == nil {
		a.decoder = htmlcodec.NewDecoder(htmlcodec.WithLogger(a.log))
	}
	return a
}

// Handler returns the routed handler. Client addresses are resolved from
// forwarding headers and request bodies under /v1 are capped at the configured size.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", health.Liveness)
	r.Method(http.MethodGet, "/health/ready", health.Readiness(a.log, a.checks...))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(a.maxBody))

		r.Get("/templates/default", a.defaultTree)
		r.Get("/blocks/{type}", a.block)
		r.Post("/render", a.render)
		r.Post("/parse", a.parse)
		r.Post("/apply", a.apply)
		r.Post("/assist", a.assist)
	})
	return r
}
