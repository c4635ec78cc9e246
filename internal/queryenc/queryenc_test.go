package queryenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Split Tests
// =============================================================================

func TestSplit(t *testing.T) {
	t.Run("ampersand delimiter", func(t *testing.T) {
		assert.Equal(t, []string{"a=1", "b=2"}, Split("a=1&b=2"))
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		assert.Equal(t, []string{"a=1", "b=2"}, Split("a=1;b=2"))
	})

	t.Run("mixed delimiters", func(t *testing.T) {
		assert.Equal(t, []string{"a=1", "b=2", "c=3"}, Split("a=1&b=2;c=3"))
	})

	t.Run("empty tokens dropped", func(t *testing.T) {
		assert.Equal(t, []string{"a=1"}, Split("&a=1&&"))
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Empty(t, Split(""))
	})
}

// =============================================================================
// Decode Tests
// =============================================================================

func TestDecode(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		out := Decode("")
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("blank string", func(t *testing.T) {
		assert.Empty(t, Decode("   "))
	})

	t.Run("single pair", func(t *testing.T) {
		assert.Equal(t, map[string]string{"a": "1"}, Decode("a=1"))
	})

	t.Run("multiple pairs", func(t *testing.T) {
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, Decode("a=1&b=2"))
	})

	t.Run("valueless key", func(t *testing.T) {
		assert.Equal(t, map[string]string{"flag": ""}, Decode("flag"))
	})

	t.Run("form decoding", func(t *testing.T) {
		assert.Equal(t, map[string]string{"q": "hello world"}, Decode("q=hello+world"))
		assert.Equal(t, map[string]string{"q": "a&b"}, Decode("q=a%26b"))
	})

	t.Run("repeated key keeps first value", func(t *testing.T) {
		assert.Equal(t, map[string]string{"a": "1"}, Decode("a=1&a=2"))
	})

	t.Run("undecodable token kept verbatim", func(t *testing.T) {
		assert.Equal(t, map[string]string{"a": "%zz"}, Decode("a=%zz"))
	})
}

// =============================================================================
// Equal Tests
// =============================================================================

func TestEqual(t *testing.T) {
	t.Run("equal maps", func(t *testing.T) {
		assert.True(t, Equal(
			map[string]string{"a": "1", "b": "2"},
			map[string]string{"b": "2", "a": "1"},
		))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.True(t, Equal(map[string]string{}, map[string]string{}))
	})

	t.Run("value mismatch", func(t *testing.T) {
		assert.False(t, Equal(
			map[string]string{"a": "1"},
			map[string]string{"a": "2"},
		))
	})

	t.Run("no subset semantics", func(t *testing.T) {
		assert.False(t, Equal(
			map[string]string{"a": "1"},
			map[string]string{"a": "1", "b": "2"},
		))
		assert.False(t, Equal(
			map[string]string{"a": "1", "b": "2"},
			map[string]string{"a": "1"},
		))
	})
}

// =============================================================================
// Permutations Tests
// =============================================================================

func TestPermutations(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		assert.Nil(t, Permutations(nil))
	})

	t.Run("single token", func(t *testing.T) {
		assert.Equal(t, [][]string{{"a=1"}}, Permutations([]string{"a=1"}))
	})

	t.Run("two tokens", func(t *testing.T) {
		perms := Permutations([]string{"a", "b"})
		assert.Len(t, perms, 2)
		assert.Contains(t, perms, []string{"a", "b"})
		assert.Contains(t, perms, []string{"b", "a"})
	})

	t.Run("factorial count", func(t *testing.T) {
		perms := Permutations([]string{"a", "b", "c", "d"})
		assert.Len(t, perms, 24)

		seen := make(map[string]struct{})
		for _, p := range perms {
			seen[p[0]+p[1]+p[2]+p[3]] = struct{}{}
		}
		assert.Len(t, seen, 24, "permutations must be distinct")
	})

	t.Run("input not mutated", func(t *testing.T) {
		in := []string{"a", "b", "c"}
		Permutations(in)
		assert.Equal(t, []string{"a", "b", "c"}, in)
	})
}
