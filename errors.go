package httpstub

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers check these with errors.Is(); the structured
// types below carry the diagnostic detail.
var (
	ErrNoMatch        = errors.New("no matching stub route")
	ErrCountMismatch  = errors.New("stub call count mismatch")
	ErrBadDeclaration = errors.New("malformed route declaration")
)

// NoMatchError is raised in isolation mode when no declared route matches
// an intercepted request. It carries the request elements for diagnosis.
type NoMatchError struct {
	Method string
	Scheme string
	Host   string
	Port   string
	Path   string
	Query  string
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching stub route for %s %s", e.Method, e.address())
}

// Is checks if the error matches the target.
func (e *NoMatchError) Is(target error) bool {
	if target == ErrNoMatch {
		return true
	}
	_, ok := target.(*NoMatchError)
	return ok
}

// address reconstructs the request address for the message.
func (e *NoMatchError) address() string {
	var b strings.Builder
	if e.Scheme != "" {
		b.WriteString(e.Scheme)
		b.WriteString("://")
	}
	b.WriteString(e.Host)
	if e.Port != "" {
		b.WriteString(":")
		b.WriteString(e.Port)
	}
	b.WriteString(e.Path)
	if e.Query != "" {
		b.WriteString("?")
		b.WriteString(e.Query)
	}
	return b.String()
}

// newNoMatchError builds a NoMatchError from the unmatched request.
func newNoMatchError(req *Request) *NoMatchError {
	return &NoMatchError{
		Method: req.Method,
		Scheme: req.Scheme,
		Host:   req.Host,
		Port:   req.Port,
		Path:   req.Path,
		Query:  req.QueryString,
	}
}

// CountMismatch describes one route whose actual call count differs from
// its declared expectation.
type CountMismatch struct {
	RouteKey string
	Expected int
	Actual   int
}

// String returns the single-route mismatch message.
func (m CountMismatch) String() string {
	return fmt.Sprintf("route %q: expected %d call(s), got %d", m.RouteKey, m.Expected, m.Actual)
}

// CountMismatchError reports every expected-count violation found when a
// scope is verified. Mismatches are ordered by route key, so the message
// is deterministic.
type CountMismatchError struct {
	Mismatches []CountMismatch
}

// Error implements the error interface.
func (e *CountMismatchError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, m.String())
	}
	return "stub call count mismatch: " + strings.Join(parts, "; ")
}

// Is checks if the error matches the target.
func (e *CountMismatchError) Is(target error) bool {
	if target == ErrCountMismatch {
		return true
	}
	_, ok := target.(*CountMismatchError)
	return ok
}

// DeclarationError reports a malformed route declaration. It is raised at
// scope entry, before any request is processed.
type DeclarationError struct {
	Index  int
	Reason string
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	return fmt.Sprintf("malformed route declaration at index %d: %s", e.Index, e.Reason)
}

// Is checks if the error matches the target.
func (e *DeclarationError) Is(target error) bool {
	if target == ErrBadDeclaration {
		return true
	}
	_, ok := target.(*DeclarationError)
	return ok
}
