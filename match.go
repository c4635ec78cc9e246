package httpstub

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vyrodovalexey/httpstub/internal/queryenc"
)

// addressMatcher is the compiled form of an Address, built once per scope.
type addressMatcher interface {
	matches(req *Request) bool
}

// compileAddress resolves the address union into a matcher. Literal
// addresses become escaped anchored patterns so they share the regex
// matching path; composite addresses compile their inner address
// recursively.
func compileAddress(addr Address) (addressMatcher, error) {
	switch a := addr.(type) {
	case LiteralAddress:
		re := regexp.MustCompile("^" + regexp.QuoteMeta(string(a)) + "$")
		return &regexAddressMatcher{re: re}, nil
	case RegexAddress:
		if a.Pattern == nil {
			return nil, fmt.Errorf("regex address has no pattern")
		}
		re, err := regexp.Compile("^(?:" + a.Pattern.String() + ")$")
		if err != nil {
			return nil, fmt.Errorf("anchor address pattern: %w", err)
		}
		return &regexAddressMatcher{re: re}, nil
	case CompositeAddress:
		if a.Address == nil {
			return nil, fmt.Errorf("composite address has no inner address")
		}
		inner, err := compileAddress(a.Address)
		if err != nil {
			return nil, err
		}
		return &queryAddressMatcher{query: a.Query, inner: inner}, nil
	default:
		return nil, fmt.Errorf("unsupported address type %T", addr)
	}
}

// regexAddressMatcher matches when the anchored pattern fully matches any
// candidate spelling of the request address.
type regexAddressMatcher struct {
	re *regexp.Regexp
}

func (m *regexAddressMatcher) matches(req *Request) bool {
	for _, candidate := range req.candidates() {
		if m.re.MatchString(candidate) {
			return true
		}
	}
	return false
}

// queryAddressMatcher requires exact query parameter equality, then
// matches the inner address against the request with its query removed.
type queryAddressMatcher struct {
	query map[string]string
	inner addressMatcher
}

func (m *queryAddressMatcher) matches(req *Request) bool {
	if m.query != nil && !queryenc.Equal(m.query, req.effectiveParams()) {
		return false
	}
	return m.inner.matches(req.withoutQuery())
}

// matches reports whether the entry's method and address both accept the
// request. The wildcard method is satisfied by any request method.
func (e *compiledEntry) matches(req *Request) bool {
	if e.method != MethodAny && !strings.EqualFold(e.method, req.Method) {
		return false
	}
	return e.matcher.matches(req)
}
