// Package health provides liveness and readiness probe handlers.
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log, limiter.Healthcheck))
package health
