package httpstub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Record / Count Tests
// =============================================================================

func TestAccountingRecord(t *testing.T) {
	t.Run("increments per key", func(t *testing.T) {
		a := newAccounting(nil)
		a.record("route-a")
		a.record("route-a")
		a.record("route-b")

		assert.Equal(t, 2, a.count("route-a"))
		assert.Equal(t, 1, a.count("route-b"))
		assert.Equal(t, 0, a.count("route-c"))
	})

	t.Run("concurrent increments are exact", func(t *testing.T) {
		const goroutines = 64
		const perGoroutine = 100

		a := newAccounting(nil)
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < perGoroutine; j++ {
					a.record("shared")
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, goroutines*perGoroutine, a.count("shared"))
	})
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestAccountingValidate(t *testing.T) {
	t.Run("no expectations", func(t *testing.T) {
		a := newAccounting(nil)
		a.record("untracked")
		assert.NoError(t, a.validate())
	})

	t.Run("expectation met", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-a": 2})
		a.record("route-a")
		a.record("route-a")
		assert.NoError(t, a.validate())
	})

	t.Run("zero expectation met by silence", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-a": 0})
		assert.NoError(t, a.validate())
	})

	t.Run("zero expectation violated", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-a": 0})
		a.record("route-a")

		err := a.validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCountMismatch)
		assert.Contains(t, err.Error(), `"route-a"`)
		assert.Contains(t, err.Error(), "expected 0")
		assert.Contains(t, err.Error(), "got 1")
	})

	t.Run("missing calls count as zero", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-a": 2})
		a.record("route-a")

		err := a.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2")
		assert.Contains(t, err.Error(), "got 1")
	})

	t.Run("untracked keys never validated", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-a": 1})
		a.record("route-a")
		a.record("route-b")
		a.record("route-b")
		assert.NoError(t, a.validate())
	})

	t.Run("all mismatches reported in key order", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-b": 1, "route-a": 1, "route-c": 2})
		a.record("route-c")
		a.record("route-c")

		err := a.validate()
		require.Error(t, err)

		var mismatchErr *CountMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		require.Len(t, mismatchErr.Mismatches, 2)
		assert.Equal(t, "route-a", mismatchErr.Mismatches[0].RouteKey)
		assert.Equal(t, "route-b", mismatchErr.Mismatches[1].RouteKey)
	})

	t.Run("validate does not mutate", func(t *testing.T) {
		a := newAccounting(map[string]int{"route-a": 1})
		_ = a.validate()
		_ = a.validate()
		a.record("route-a")
		assert.NoError(t, a.validate())
	})
}
