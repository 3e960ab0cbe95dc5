package agent

import "errors"

// Common errors returned by agent implementations
var (
	// ErrNotConfigured is returned when the agent is missing credentials
	ErrNotConfigured = errors.New("analysis agent is not configured")

	// ErrChatFailed is returned when the model call fails for any general reason
	ErrChatFailed = errors.New("analysis agent chat failed")

	// ErrEmptyResponse is returned when the model produced no usable answer
	ErrEmptyResponse = errors.New("empty response from analysis agent")

	// ErrContentBlocked is returned when the model blocks the content via safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)
