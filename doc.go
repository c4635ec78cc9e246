// Package httpstub lets test code declare virtual HTTP routes and have
// outbound HTTP calls made by the code under test resolved against those
// routes instead of reaching the network.
//
// Routes are declared as an ordered table of address patterns with
// per-method handlers and optional expected call counts. Each intercepted
// request is matched against the table in declaration order; the first
// matching route answers it and its call counter is incremented. When a
// scope ends successfully, the counters are verified against the declared
// expectations.
//
// # Features
//
//   - Literal, regular-expression, and query-constrained address patterns
//   - Equivalent URL spellings match the same route: default scheme,
//     default port, trailing slash, and query parameter order
//   - Per-method handlers with a wildcard pseudo-method
//   - Expected call counts, shared or per method, verified at scope exit
//   - Local scopes (explicitly injected client) and a global scope shared
//     across goroutines, with exact accounting under concurrency
//   - Isolation mode that fails unmatched requests instead of letting
//     them reach the network
//   - YAML fixture files for route tables
//
// # Usage
//
// Run a test body inside a local scope:
//
//	routes := httpstub.Routes{
//	    {
//	        Address: httpstub.URL("http://example.com/api"),
//	        Methods: map[string]httpstub.Handler{
//	            "GET": httpstub.Text(200, `{"ok":true}`),
//	        },
//	        Times: httpstub.Count(2),
//	    },
//	}
//
//	err := httpstub.With(routes, func(s *httpstub.Scope) error {
//	    client := s.Client()
//	    // hand client to the code under test; two GET calls expected
//	    return nil
//	})
//
// Use a global scope when the code under test spawns worker goroutines
// that construct their own clients via httpstub.Client():
//
//	err := httpstub.WithGlobal(routes, func(*httpstub.Scope) error {
//	    // goroutines started here observe the same stubs
//	    return nil
//	})
//
// # Interception seam
//
// The package performs no network I/O of its own. Transport implements
// http.RoundTripper and consults the active scope's Resolve before
// delegating to a real transport; Resolve itself is a pure, synchronous
// match-and-account step usable from any custom dispatch layer.
package httpstub
