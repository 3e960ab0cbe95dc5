package nova

import "time"

// Status represents the externally visible state of an analysis task.
type Status string

// Possible analysis status values. Processing transitions exactly once to
// Completed or Error; both are terminal.
const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// maxToolsUsed caps how many tool names a completed result may carry.
const maxToolsUsed = 50

// Result is the payload clients poll for. It serializes directly as the
// retrieval endpoint's response body.
type Result struct {
	Status     Status   `json:"status"`
	AnalysisID string   `json:"analysisId"`
	Answer     string   `json:"answer,omitempty"`
	ToolsUsed  []string `json:"toolsUsed,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Record is a stored analysis entry. Records are replaced wholesale on every
// status transition, never mutated field by field, so readers always observe
// a consistent snapshot.
type Record struct {
	Result Result

	// Timestamp is the instant of the last status transition. Capacity
	// eviction removes the record with the smallest timestamp; the reaper
	// removes records whose timestamp has aged past the retention window.
	Timestamp time.Time

	// Owner is the identity of the caller who triggered the analysis.
	// Empty means unowned: readable by any caller. Owner is set at
	// creation and never changes.
	Owner string
}

// normalizeToolsUsed drops empty entries and clamps the list to maxToolsUsed,
// preserving invocation order.
func normalizeToolsUsed(tools []string) []string {
	if len(tools) == 0 {
		return nil
	}
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == maxToolsUsed {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
