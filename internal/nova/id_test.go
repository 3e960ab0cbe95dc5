package nova

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisIDFormat(t *testing.T) {
	id := NewAnalysisID()

	assert.True(t, strings.HasPrefix(id, "nova-"))
	assert.Len(t, id, len("nova-")+36, "suffix should be a canonical UUID")
}

func TestNewAnalysisIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewAnalysisID()
		assert.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}
