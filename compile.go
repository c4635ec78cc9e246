package httpstub

import (
	"fmt"
	"sort"
)

// compiledEntry is one flattened (method, address, handler) rule. The
// route key is the address text plus the declared method, and is the
// accounting identity of the rule.
type compiledEntry struct {
	method   string
	address  Address
	matcher  addressMatcher
	handler  Handler
	routeKey string
}

// routeKeyFor builds the accounting key for an address/method pair.
func routeKeyFor(addr Address, method string) string {
	return addr.String() + " " + method
}

// compileRoutes flattens the declared route table into a uniform entry
// list and the expected-count table. Expected counts are resolved here, at
// compile time, so a route declared with an expectation of zero calls
// participates in verification even if it is never invoked.
//
// Per-entry expected count resolution order: per-method override, then the
// route-level Times value, then a count annotation attached to the handler
// via Expect.
func compileRoutes(routes Routes) ([]*compiledEntry, map[string]int, error) {
	entries := make([]*compiledEntry, 0, len(routes))
	expected := make(map[string]int)

	for i, route := range routes {
		if route.Address == nil {
			return nil, nil, &DeclarationError{Index: i, Reason: "missing address"}
		}
		if route.Handler != nil && len(route.Methods) > 0 {
			return nil, nil, &DeclarationError{Index: i, Reason: "both Handler and Methods are set"}
		}
		if route.Handler == nil && len(route.Methods) == 0 {
			return nil, nil, &DeclarationError{Index: i, Reason: "missing handler"}
		}

		matcher, err := compileAddress(route.Address)
		if err != nil {
			return nil, nil, &DeclarationError{Index: i, Reason: err.Error()}
		}

		handlers := route.Methods
		if route.Handler != nil {
			handlers = map[string]Handler{MethodAny: route.Handler}
		}

		// Canonicalize method names once; duplicate canonical methods in
		// one declaration are a conflict, not a precedence question.
		canonical := make(map[string]Handler, len(handlers))
		for method, handler := range handlers {
			if handler == nil {
				return nil, nil, &DeclarationError{
					Index:  i,
					Reason: fmt.Sprintf("nil handler for method %q", method),
				}
			}
			if annotated, ok := handler.(*expectedHandler); ok && annotated.handler == nil {
				return nil, nil, &DeclarationError{
					Index:  i,
					Reason: fmt.Sprintf("nil handler for method %q", method),
				}
			}
			m := canonicalMethod(method)
			if _, ok := canonical[m]; ok {
				return nil, nil, &DeclarationError{
					Index:  i,
					Reason: fmt.Sprintf("duplicate handler for method %s", m),
				}
			}
			canonical[m] = handler
		}

		methodTimes := make(map[string]int, len(route.MethodTimes))
		for method, n := range route.MethodTimes {
			m := canonicalMethod(method)
			if _, ok := canonical[m]; !ok {
				return nil, nil, &DeclarationError{
					Index:  i,
					Reason: fmt.Sprintf("expected count for undeclared method %s", m),
				}
			}
			methodTimes[m] = n
		}

		// Sorted for deterministic entry order within one declaration.
		methods := make([]string, 0, len(canonical))
		for method := range canonical {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			handler := canonical[method]
			entry := &compiledEntry{
				method:   method,
				address:  route.Address,
				matcher:  matcher,
				handler:  handler,
				routeKey: routeKeyFor(route.Address, method),
			}
			entries = append(entries, entry)

			if n, ok := resolveExpected(method, methodTimes, route.Times, handler); ok {
				expected[entry.routeKey] = n
			}
		}
	}

	return entries, expected, nil
}

// resolveExpected picks the expected call count for one compiled entry, if
// any was declared.
func resolveExpected(method string, methodTimes map[string]int, times *int, handler Handler) (int, bool) {
	if n, ok := methodTimes[method]; ok {
		return n, true
	}
	if times != nil {
		return *times, true
	}
	if annotated, ok := handler.(*expectedHandler); ok {
		return annotated.times, true
	}
	return 0, false
}
