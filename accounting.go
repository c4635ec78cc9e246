package httpstub

import (
	"sort"
	"sync"
)

// accounting tracks actual and expected call counts for one scope. The
// expected table is fixed at compile time; the actual counters are mutated
// on every matched dispatch, possibly from multiple goroutines sharing a
// global scope.
type accounting struct {
	mu       sync.Mutex
	actual   map[string]int
	expected map[string]int
}

func newAccounting(expected map[string]int) *accounting {
	return &accounting{
		actual:   make(map[string]int),
		expected: expected,
	}
}

// record notes one dispatch of the given route key.
func (a *accounting) record(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actual[key]++
}

// count returns the recorded dispatch count for one route key.
func (a *accounting) count(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actual[key]
}

// validate compares every expectation against the recorded calls. Keys
// with no recorded calls count as zero; recorded keys with no expectation
// are never validated. All mismatches are collected and reported together,
// ordered by route key.
func (a *accounting) validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	keys := make([]string, 0, len(a.expected))
	for key := range a.expected {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var mismatches []CountMismatch
	for _, key := range keys {
		want := a.expected[key]
		got := a.actual[key]
		if got != want {
			mismatches = append(mismatches, CountMismatch{
				RouteKey: key,
				Expected: want,
				Actual:   got,
			})
		}
	}

	if len(mismatches) == 0 {
		return nil
	}
	return &CountMismatchError{Mismatches: mismatches}
}
