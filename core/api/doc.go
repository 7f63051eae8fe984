// Package api exposes layout operations as a JSON HTTP service.
//
// Routes:
//
//	GET  /health/live             liveness probe
//	GET  /health/ready            readiness probe
//	GET  /v1/templates/default    starter tree
//	GET  /v1/blocks/{type}        default block of a type
//	POST /v1/render               tree -> HTML (?format=text for the text part)
//	POST /v1/parse                HTML -> tree
//	POST /v1/apply                {tree, reply} -> sanitized batch applied to tree
//	POST /v1/assist               {tree, instruction} -> collaborator batch applied to tree
//
// The assist route answers 503 without a collaborator, 429 when the optional
// limiter denies the caller and 502 when the collaborator is unreachable.
package api
