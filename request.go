package httpstub

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/httpstub/internal/queryenc"
	"github.com/vyrodovalexey/httpstub/internal/urlnorm"
)

// Request is the normalized form of an intercepted outbound request.
// Absent URL elements are empty strings. QueryParams is non-nil only when
// the caller supplied structured parameters instead of a raw query string.
type Request struct {
	Method      string
	Scheme      string
	Host        string
	Port        string
	Path        string
	QueryString string
	QueryParams map[string]string
	Body        []byte
	RawURL      string
}

// NewRequest builds a Request from a bare URL string. An empty method
// defaults to GET and an absent path to "/".
func NewRequest(method, rawURL string) *Request {
	parts := urlnorm.Parse(rawURL)
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method:      strings.ToUpper(method),
		Scheme:      parts.Scheme,
		Host:        parts.Host,
		Port:        parts.Port,
		Path:        parts.Path,
		QueryString: parts.Query,
		RawURL:      rawURL,
	}
}

// fromHTTPRequest converts an outbound net/http request. The body, if any,
// is drained into the Request and replaced on r so a fallback transport
// can still send it.
func fromHTTPRequest(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		_ = r.Body.Close()
		body = data
		r.Body = io.NopCloser(bytes.NewReader(data))
	}

	u := r.URL
	path := u.Path
	if path == "" {
		path = "/"
	}
	return &Request{
		Method:      r.Method,
		Scheme:      u.Scheme,
		Host:        u.Hostname(),
		Port:        u.Port(),
		Path:        path,
		QueryString: u.RawQuery,
		Body:        body,
		RawURL:      u.String(),
	}, nil
}

// parts returns the request address decomposed for the URL normalizer.
func (r *Request) parts() urlnorm.Parts {
	return urlnorm.Parts{
		Scheme: r.Scheme,
		Host:   r.Host,
		Port:   r.Port,
		Path:   r.Path,
		Query:  r.QueryString,
	}
}

// effectiveParams returns the structured query parameters when supplied,
// otherwise the decoded query string.
func (r *Request) effectiveParams() map[string]string {
	if r.QueryParams != nil {
		return r.QueryParams
	}
	return queryenc.Decode(r.QueryString)
}

// withoutQuery returns a copy of the request with every query
// representation removed, including the query portion of the raw URL.
func (r *Request) withoutQuery() *Request {
	out := *r
	out.QueryString = ""
	out.QueryParams = nil
	if i := strings.Index(out.RawURL, "?"); i >= 0 {
		out.RawURL = out.RawURL[:i]
	}
	return &out
}

// candidates enumerates every address string the request may be matched
// under: the raw URL as written, the reconstructed canonical form, and all
// equivalent variant spellings. Query-order permutations are generated only
// when no structured parameters were supplied.
func (r *Request) candidates() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	add := func(candidate string) {
		if candidate == "" {
			return
		}
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	parts := r.parts()
	add(r.RawURL)
	add(urlnorm.Canonical(parts))
	for _, variant := range urlnorm.Variants(parts, r.QueryParams == nil) {
		add(variant)
	}
	return out
}
