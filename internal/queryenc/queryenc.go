// Package queryenc provides order-independent encoding and comparison of
// HTTP query parameters.
package queryenc

import (
	"net/url"
	"strings"
)

// Split breaks a query string into its pair tokens. Both `&` and `;` are
// accepted as pair delimiters; empty tokens are dropped.
func Split(qs string) []string {
	return strings.FieldsFunc(qs, func(r rune) bool {
		return r == '&' || r == ';'
	})
}

// Decode parses a query string into a flat key/value map. A blank string
// decodes to an empty map. Repeated keys keep the first value. Keys and
// values are form-decoded; tokens that fail to decode are kept verbatim.
func Decode(qs string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(qs) == "" {
		return out
	}
	for _, token := range Split(qs) {
		rawKey, rawValue, _ := strings.Cut(token, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		if _, ok := out[key]; !ok {
			out[key] = value
		}
	}
	return out
}

// Equal reports whether two parameter maps hold exactly the same keys and
// values. There are no subset semantics: a key present on one side only is
// a mismatch.
func Equal(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		other, ok := b[key]
		if !ok || other != value {
			return false
		}
	}
	return true
}

// Permutations returns every ordering of the given tokens using Heap's
// algorithm. Nil input yields nil.
func Permutations(tokens []string) [][]string {
	if len(tokens) == 0 {
		return nil
	}

	working := append([]string(nil), tokens...)
	var out [][]string

	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			out = append(out, append([]string(nil), working...))
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				working[i], working[k-1] = working[k-1], working[i]
			} else {
				working[0], working[k-1] = working[k-1], working[0]
			}
		}
	}
	generate(len(working))

	return out
}
