// Package agent defines the boundary between the analysis orchestrator and
// the external AI assistant. It follows the same hexagonal-port shape as the
// rest of the application: the core depends on this interface, and the
// platform layer supplies the Gemini-backed implementation.
package agent

import "context"

// ChatContext carries the caller-scoped context an analysis runs under. The
// agent uses it to scope tool access and tailor answers to the page the
// request came from.
type ChatContext struct {
	// UserID is the identity of the caller who triggered the analysis.
	// Empty means the analysis runs unowned.
	UserID string

	// CompanyID selects which company's data the analysis may read.
	// Zero means no company scoping.
	CompanyID int

	// PageContext names the area of the CRM the request originated from
	// (e.g. "sales", "invoices").
	PageContext string
}

// Result is the outcome of a successful chat turn.
type Result struct {
	// Answer is the assistant's narrative response, typically Markdown.
	Answer string

	// ToolsUsed lists the tools the assistant invoked while answering,
	// in invocation order.
	ToolsUsed []string
}

// Agent is the opaque external analysis operation. Implementations may take
// arbitrarily long; callers are expected to bound calls with the context.
type Agent interface {
	// IsConfigured reports whether the agent has the credentials it needs.
	// Callers must check this before Chat and treat false as an immediate
	// failure rather than attempting the call.
	IsConfigured() bool

	// Chat sends a prompt and returns the assistant's answer, or an error
	// if the underlying model call fails.
	Chat(ctx context.Context, prompt string, cc ChatContext) (*Result, error)
}
