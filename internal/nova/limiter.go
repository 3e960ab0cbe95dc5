package nova

import "sync"

// Task family identifiers. Each family has its own concurrency ceiling but
// all families share the same limiter and result store.
const (
	FamilySalesUpload = "sales-upload"
	FamilyDocument    = "document"
	FamilyVoucher     = "voucher"
)

// Limiter is a non-blocking admission gate bounding how many background
// analyses may run at once, per task family. It is admission control, not a
// queue: when a family is at its ceiling, TryAcquire fails immediately and
// the caller surfaces the rejection to the user.
type Limiter struct {
	mu      sync.Mutex
	ceiling map[string]int
	active  map[string]int
}

// NewLimiter creates a Limiter with the given per-family ceilings. Families
// absent from the map are never admitted.
func NewLimiter(ceilings map[string]int) *Limiter {
	c := make(map[string]int, len(ceilings))
	for family, n := range ceilings {
		c[family] = n
	}
	return &Limiter{
		ceiling: c,
		active:  make(map[string]int, len(c)),
	}
}

// TryAcquire claims a slot in the family, returning false without blocking
// if the family is at its ceiling. Every successful acquire must be paired
// with exactly one Release.
func (l *Limiter) TryAcquire(family string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active[family] >= l.ceiling[family] {
		return false
	}
	l.active[family]++
	return true
}

// Release returns a slot to the family. Callers release via defer so that no
// failure path in the guarded work can leak a slot.
func (l *Limiter) Release(family string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active[family] > 0 {
		l.active[family]--
	}
}

// Active reports how many analyses the family currently has in flight.
func (l *Limiter) Active(family string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active[family]
}
