// Package nova implements the asynchronous background-analysis orchestrator
// behind the Nova assistant: admission control over concurrently running
// analyses, a bounded in-memory result store with capacity eviction and
// time-based reaping, result-size truncation, and ownership-scoped result
// lookup.
//
// A submission synchronously registers a "processing" placeholder and returns
// an analysis id; the analysis itself runs on a background goroutine bounded
// per task family, and clients poll the id until the record reaches one of
// the terminal states (completed or error).
package nova
