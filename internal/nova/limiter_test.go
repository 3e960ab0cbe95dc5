package nova

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterTryAcquireUpToCeiling(t *testing.T) {
	l := NewLimiter(map[string]int{FamilySalesUpload: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, l.TryAcquire(FamilySalesUpload), "acquire %d should succeed", i+1)
	}
	assert.False(t, l.TryAcquire(FamilySalesUpload), "acquire past ceiling should fail")
	assert.Equal(t, 3, l.Active(FamilySalesUpload))
}

func TestLimiterReleaseFreesSlot(t *testing.T) {
	l := NewLimiter(map[string]int{FamilyVoucher: 1})

	assert.True(t, l.TryAcquire(FamilyVoucher))
	assert.False(t, l.TryAcquire(FamilyVoucher))

	l.Release(FamilyVoucher)
	assert.True(t, l.TryAcquire(FamilyVoucher), "released slot should be reusable")
}

func TestLimiterFamiliesAreIndependent(t *testing.T) {
	l := NewLimiter(map[string]int{
		FamilySalesUpload: 1,
		FamilyDocument:    2,
	})

	assert.True(t, l.TryAcquire(FamilySalesUpload))
	assert.False(t, l.TryAcquire(FamilySalesUpload))

	// Exhausting sales-upload must not affect document.
	assert.True(t, l.TryAcquire(FamilyDocument))
	assert.True(t, l.TryAcquire(FamilyDocument))
	assert.False(t, l.TryAcquire(FamilyDocument))
}

func TestLimiterUnknownFamilyNeverAdmitted(t *testing.T) {
	l := NewLimiter(map[string]int{FamilySalesUpload: 10})

	assert.False(t, l.TryAcquire("unknown-family"))
}

func TestLimiterReleaseBelowZeroIsClamped(t *testing.T) {
	l := NewLimiter(map[string]int{FamilyDocument: 1})

	l.Release(FamilyDocument)
	l.Release(FamilyDocument)

	assert.Equal(t, 0, l.Active(FamilyDocument))
	assert.True(t, l.TryAcquire(FamilyDocument))
	assert.False(t, l.TryAcquire(FamilyDocument), "spurious releases must not widen the ceiling")
}

func TestLimiterConcurrentAcquireNeverExceedsCeiling(t *testing.T) {
	const ceiling = 10
	l := NewLimiter(map[string]int{FamilySalesUpload: ceiling})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire(FamilySalesUpload) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, ceiling, admitted)
	assert.Equal(t, ceiling, l.Active(FamilySalesUpload))
}
