package nova

import (
	"encoding/json"
	"unicode/utf8"
)

// truncationNotice is appended to a truncated answer. It is distinct from any
// model output, so consumers can detect that truncation occurred.
const truncationNotice = "\n\n[Respuesta truncada por limite de tamaño]"

const (
	// truncationSlack leaves headroom for the notice and JSON escaping.
	truncationSlack = 50

	// minAnswerBytes is the floor below which an answer is never cut, even
	// when the budget arithmetic suggests less.
	minAnswerBytes = 100
)

// TruncateResult caps the serialized size of a completed result at maxBytes
// by rewriting the answer field. Results that already fit, and results with
// no answer to cut, are returned unchanged; truncating an already-truncated
// result is a no-op because its size is back under the ceiling.
func TruncateResult(res Result, maxBytes int) Result {
	data, err := json.Marshal(res)
	if err != nil || len(data) <= maxBytes {
		return res
	}
	if res.Answer == "" {
		return res
	}

	overhead := len(data) - len(res.Answer)
	budget := maxBytes - overhead - truncationSlack
	if budget < minAnswerBytes {
		budget = minAnswerBytes
	}

	res.Answer = clipBytes(res.Answer, budget) + truncationNotice
	return res
}

// clipBytes cuts s to at most max bytes without splitting a UTF-8 sequence.
func clipBytes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
