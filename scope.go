package httpstub

import (
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope binds one compiled route table to its accounting state. A scope is
// created on entry, consulted on every intercepted request, and verified
// (on success only) at exit. Resolve and the accounting counters are safe
// for concurrent use, so a single global scope may serve requests from
// many goroutines.
type Scope struct {
	id       string
	entries  []*compiledEntry
	acct     *accounting
	isolate  bool
	fallback http.RoundTripper
	logger   *zap.Logger
	prev     *Scope
}

// Option configures a Scope.
type Option func(*Scope)

// WithIsolation makes unmatched requests fail with a NoMatchError instead
// of reaching the fallback transport.
func WithIsolation() Option {
	return func(s *Scope) { s.isolate = true }
}

// WithFallback sets the transport that serves unmatched requests outside
// isolation mode. The default is http.DefaultTransport.
func WithFallback(rt http.RoundTripper) Option {
	return func(s *Scope) { s.fallback = rt }
}

// WithLogger attaches a logger; match decisions and verification results
// are logged at debug level. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scope) { s.logger = logger }
}

// New compiles the declared routes into a scope. Malformed declarations
// fail here, before any request is processed.
func New(routes Routes, opts ...Option) (*Scope, error) {
	entries, expected, err := compileRoutes(routes)
	if err != nil {
		return nil, err
	}

	s := &Scope{
		id:       uuid.NewString(),
		entries:  entries,
		acct:     newAccounting(expected),
		fallback: http.DefaultTransport,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("scope_id", s.id))
	s.logger.Debug("stub scope compiled",
		zap.Int("routes", len(routes)),
		zap.Int("entries", len(entries)),
		zap.Int("expectations", len(expected)),
	)
	return s, nil
}

// ID returns the scope's identifier, carried in its log fields.
func (s *Scope) ID() string { return s.id }

// Resolve matches the request against the compiled entries in declaration
// order. On a match the entry's counter is incremented, its handler is
// invoked, and the synthesized response is returned with matched true. An
// unmatched request returns matched false with no error; interpreting that
// as delegate-or-fail is the transport's concern. Resolve is synchronous
// and safe for concurrent use.
func (s *Scope) Resolve(req *Request) (resp *Response, matched bool, err error) {
	for _, entry := range s.entries {
		if !entry.matches(req) {
			continue
		}

		s.acct.record(entry.routeKey)
		s.logger.Debug("stub route matched",
			zap.String("route_key", entry.routeKey),
			zap.String("method", req.Method),
			zap.String("url", req.RawURL),
		)

		out, err := entry.handler.Respond(req)
		if err != nil {
			return nil, true, err
		}
		if out == nil {
			out = &Response{}
		}
		return out.normalized(), true, nil
	}

	s.logger.Debug("no stub route matched",
		zap.String("method", req.Method),
		zap.String("url", req.RawURL),
	)
	return nil, false, nil
}

// Calls returns how many times the route declared at the given address and
// method has been dispatched within this scope.
func (s *Scope) Calls(addr Address, method string) int {
	return s.acct.count(routeKeyFor(addr, canonicalMethod(method)))
}

// Verify validates the accounting state against the declared expectations.
// It reports every mismatched route, ordered by route key.
func (s *Scope) Verify() error {
	err := s.acct.validate()
	if err != nil {
		s.logger.Debug("stub scope verification failed", zap.Error(err))
		return err
	}
	s.logger.Debug("stub scope verified")
	return nil
}

// Transport returns a RoundTripper bound to this scope.
func (s *Scope) Transport() http.RoundTripper {
	return &Transport{Scope: s}
}

// Client returns an http.Client whose transport resolves against this
// scope. This is the injection point for a local scope: hand the client
// (or the transport) to the code under test.
func (s *Scope) Client() *http.Client {
	return &http.Client{Transport: s.Transport()}
}

// current is the process-wide scope published by the global-scope forms.
var current atomic.Pointer[Scope]

// CurrentScope returns the active global scope, or nil when none is
// published.
func CurrentScope() *Scope {
	return current.Load()
}

// ActivateGlobal compiles the routes and publishes the scope process-wide,
// so that transports created without an explicit scope (including ones on
// worker goroutines started inside the scope) resolve against it. The
// previously active scope, if any, is restored by Deactivate.
func ActivateGlobal(routes Routes, opts ...Option) (*Scope, error) {
	s, err := New(routes, opts...)
	if err != nil {
		return nil, err
	}
	s.prev = current.Swap(s)
	s.logger.Debug("stub scope activated globally")
	return s, nil
}

// Deactivate withdraws a globally activated scope and restores its
// predecessor. It does not verify; pair it with Verify when the scope body
// succeeded.
func (s *Scope) Deactivate() {
	if current.CompareAndSwap(s, s.prev) {
		s.logger.Debug("stub scope deactivated")
	}
}

// With runs fn inside a local stub scope. The scope is visible only
// through the *Scope handed to fn (via its Client or Transport). The
// accounting state is discarded on every exit path; verification runs only
// when fn returns nil, so a call-count mismatch surfaces as the error of
// the scope itself.
func With(routes Routes, fn func(*Scope) error, opts ...Option) error {
	s, err := New(routes, opts...)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return s.Verify()
}

// WithGlobal runs fn with the scope published process-wide. The scope is
// withdrawn on every exit path, including panics; verification runs only
// when fn returns nil.
func WithGlobal(routes Routes, fn func(*Scope) error, opts ...Option) error {
	s, err := ActivateGlobal(routes, opts...)
	if err != nil {
		return err
	}
	defer s.Deactivate()

	if err := fn(s); err != nil {
		return err
	}
	return s.Verify()
}
