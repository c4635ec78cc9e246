package httpstub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is an in-memory stub response: a status, headers, and body
// triple. The zero value denotes the default 200 response with no headers
// and an empty body.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Respond implements Handler, so a literal *Response can be declared as a
// route handler directly.
func (r *Response) Respond(*Request) (*Response, error) { return r, nil }

// NewResponse returns a response with the given status and no body.
func NewResponse(status int) *Response {
	return &Response{Status: status}
}

// Text returns a response with a UTF-8 text body.
func Text(status int, body string) *Response {
	return &Response{Status: status, Body: []byte(body)}
}

// JSON returns a handler that serializes v as the response body on every
// call, with the Content-Type header set. Serialization failures surface
// through the handler error path.
func JSON(status int, v any) Handler {
	return HandlerFunc(func(*Request) (*Response, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode stub response body: %w", err)
		}
		header := http.Header{}
		header.Set("Content-Type", "application/json")
		return &Response{Status: status, Header: header, Body: data}, nil
	})
}

// normalized returns a copy with defaults applied: status 200, empty
// headers, empty body.
func (r *Response) normalized() *Response {
	out := &Response{Status: r.Status, Header: r.Header, Body: r.Body}
	if out.Status == 0 {
		out.Status = http.StatusOK
	}
	if out.Header == nil {
		out.Header = http.Header{}
	}
	if out.Body == nil {
		out.Body = []byte{}
	}
	return out
}

// httpResponse builds the net/http form of the response as delivered
// through the RoundTripper seam.
func (r *Response) httpResponse(req *http.Request) *http.Response {
	n := r.normalized()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", n.Status, http.StatusText(n.Status)),
		StatusCode:    n.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        n.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(n.Body)),
		ContentLength: int64(len(n.Body)),
		Request:       req,
	}
}
