package httpstub

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MethodAny is the wildcard pseudo-method. A route declared with MethodAny
// answers requests of every HTTP method.
const MethodAny = "ANY"

// Address identifies which URLs a route applies to. The three
// implementations are LiteralAddress, RegexAddress, and CompositeAddress.
type Address interface {
	// String returns the stable textual form of the address, used in
	// accounting keys and failure messages.
	String() string
}

// LiteralAddress matches every semantically-equivalent spelling of one
// URL: default scheme, default port, trailing slash, and query parameter
// order are all tolerated.
type LiteralAddress string

// String returns the address as declared.
func (a LiteralAddress) String() string { return string(a) }

// RegexAddress matches any URL whose address string is fully matched by
// the pattern. The pattern is tried against every equivalent spelling of
// the request address; the first success wins.
type RegexAddress struct {
	Pattern *regexp.Regexp
}

// String returns the pattern source text.
func (a RegexAddress) String() string {
	if a.Pattern == nil {
		return ""
	}
	return a.Pattern.String()
}

// CompositeAddress pairs an inner address with an exact query parameter
// constraint. The request's parameters must equal Query exactly (no subset
// semantics); once satisfied, the request's query is discarded and the
// inner address is matched on its own.
type CompositeAddress struct {
	Address Address
	Query   map[string]string
}

// String returns the inner address followed by the constraint parameters
// in sorted order.
func (a CompositeAddress) String() string {
	inner := ""
	if a.Address != nil {
		inner = a.Address.String()
	}
	if len(a.Query) == 0 {
		return inner
	}

	keys := make([]string, 0, len(a.Query))
	for key := range a.Query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, a.Query[key]))
	}
	return inner + "?" + strings.Join(pairs, "&")
}

// URL declares a literal address.
func URL(raw string) Address { return LiteralAddress(raw) }

// Pattern declares a regular-expression address.
func Pattern(re *regexp.Regexp) Address { return RegexAddress{Pattern: re} }

// PatternString compiles expr and declares a regular-expression address.
// It panics if the expression does not compile, mirroring regexp.MustCompile;
// route declarations are test fixtures, not runtime input.
func PatternString(expr string) Address {
	return RegexAddress{Pattern: regexp.MustCompile(expr)}
}

// WithQuery constrains an address to an exact query parameter set.
func WithQuery(addr Address, query map[string]string) Address {
	return CompositeAddress{Address: addr, Query: query}
}

// Handler produces the stub response for an intercepted request.
type Handler interface {
	Respond(req *Request) (*Response, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(req *Request) (*Response, error)

// Respond implements Handler.
func (f HandlerFunc) Respond(req *Request) (*Response, error) { return f(req) }

// Expect attaches an expected call count directly to a handler, as an
// alternative to declaring Route.Times. The count participates in scope
// verification exactly as a Times declaration would.
func Expect(h Handler, times int) Handler {
	return &expectedHandler{handler: h, times: times}
}

// expectedHandler carries a call-count annotation through compilation.
type expectedHandler struct {
	handler Handler
	times   int
}

// Respond implements Handler by delegating to the annotated handler.
// A nil inner handler is rejected at compile time.
func (h *expectedHandler) Respond(req *Request) (*Response, error) {
	return h.handler.Respond(req)
}

// Route declares one virtual endpoint.
//
// Exactly one of Handler and Methods must be set. Handler answers every
// HTTP method; Methods maps individual methods (or MethodAny) to their
// handlers. Times, when set, is the expected call count shared by every
// method of the route; MethodTimes overrides it per method.
type Route struct {
	Address     Address
	Handler     Handler
	Methods     map[string]Handler
	Times       *int
	MethodTimes map[string]int
}

// Routes is an ordered route table. Declaration order is precedence order:
// the first matching route answers the request, regardless of specificity.
type Routes []Route

// Count returns a pointer suitable for Route.Times.
func Count(n int) *int { return &n }

// canonicalMethod normalizes a declared method name. The empty string, "*",
// and "any" (in any case) all denote the wildcard.
func canonicalMethod(method string) string {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" || m == "*" || m == MethodAny {
		return MethodAny
	}
	return m
}
