package nova

import (
	"fmt"

	"github.com/google/uuid"
)

// analysisIDPrefix tags every analysis id so they are recognizable in logs.
const analysisIDPrefix = "nova"

// NewAnalysisID returns a fresh analysis id of the form "nova-<uuid>". The
// UUID comes from crypto/rand, so ids are unguessable and collision-resistant
// for the lifetime of the process.
func NewAnalysisID() string {
	return fmt.Sprintf("%s-%s", analysisIDPrefix, uuid.NewString())
}
