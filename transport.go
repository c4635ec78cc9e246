package httpstub

import "net/http"

// Transport is the interception seam: an http.RoundTripper that resolves
// outbound requests against a stub scope before any network I/O happens.
//
// A Transport with a nil Scope resolves against the process-wide scope
// published by ActivateGlobal/WithGlobal; when no scope is active at all,
// every request passes straight through to the fallback.
type Transport struct {
	// Scope is the bound scope. Nil means use the current global scope.
	Scope *Scope
	// Fallback overrides the scope's fallback transport for unmatched
	// requests. Nil means use the scope's own (http.DefaultTransport by
	// default).
	Fallback http.RoundTripper
}

// RoundTrip implements http.RoundTripper. Matched requests never reach the
// network; unmatched requests are delegated to the fallback transport, or
// rejected with a NoMatchError when the scope runs in isolation mode.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	scope := t.Scope
	if scope == nil {
		scope = current.Load()
	}
	if scope == nil {
		return t.delegate(r, http.DefaultTransport)
	}

	req, err := fromHTTPRequest(r)
	if err != nil {
		return nil, err
	}

	resp, matched, err := scope.Resolve(req)
	if err != nil {
		return nil, err
	}
	if matched {
		return resp.httpResponse(r), nil
	}
	if scope.isolate {
		return nil, newNoMatchError(req)
	}
	return t.delegate(r, scope.fallback)
}

// delegate forwards the request to the first configured real transport.
func (t *Transport) delegate(r *http.Request, fallback http.RoundTripper) (*http.Response, error) {
	rt := t.Fallback
	if rt == nil {
		rt = fallback
	}
	if rt == nil {
		rt = http.DefaultTransport
	}
	return rt.RoundTrip(r)
}

// Client returns an http.Client that resolves against the process-wide
// scope. Use it from worker goroutines inside a WithGlobal body.
func Client() *http.Client {
	return &http.Client{Transport: &Transport{}}
}
