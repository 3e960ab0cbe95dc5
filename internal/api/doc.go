// Package api contains the HTTP handlers for the analysis service: the
// per-family submission endpoints and the ownership-checked polling endpoint.
// Handlers translate between HTTP and the orchestrator; all analysis policy
// lives in the nova package.
package api
