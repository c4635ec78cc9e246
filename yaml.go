package httpstub

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// compilePattern compiles a fixture pattern into a regex address. Unlike
// PatternString, fixture input is external data, so failures are errors
// rather than panics.
func compilePattern(expr string) (Address, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return RegexAddress{Pattern: re}, nil
}

// fixtureFile is the top-level YAML fixture document.
type fixtureFile struct {
	Routes []fixtureRoute `yaml:"routes"`
}

// fixtureRoute is one declared route in a YAML fixture. Exactly one of
// url and pattern must be set. A bare response applies to every method;
// the methods mapping declares per-method responses.
type fixtureRoute struct {
	URL      string                     `yaml:"url"`
	Pattern  string                     `yaml:"pattern"`
	Query    map[string]string          `yaml:"query"`
	Response *fixtureResponse           `yaml:"response"`
	Methods  map[string]fixtureResponse `yaml:"methods"`
	Times    *fixtureTimes              `yaml:"times"`
}

// fixtureResponse is a literal response in a YAML fixture.
type fixtureResponse struct {
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
}

// fixtureTimes accepts either a bare integer (shared across the route's
// methods) or a method-to-integer mapping.
type fixtureTimes struct {
	Total     *int
	PerMethod map[string]int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *fixtureTimes) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("times must be an integer: %w", err)
		}
		t.Total = &n
		return nil
	case yaml.MappingNode:
		var m map[string]int
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("times mapping: %w", err)
		}
		t.PerMethod = m
		return nil
	default:
		return fmt.Errorf("times must be an integer or a method mapping")
	}
}

// response converts the fixture form into a stub Response.
func (f fixtureResponse) response() *Response {
	header := http.Header{}
	for name, value := range f.Headers {
		header.Set(name, value)
	}
	return &Response{
		Status: f.Status,
		Header: header,
		Body:   []byte(f.Body),
	}
}

// RoutesFromYAML parses a YAML fixture document into a route table.
// Unknown fields are rejected so a typo in a fixture fails loudly instead
// of silently declaring an unconstrained route.
func RoutesFromYAML(data []byte) (Routes, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file fixtureFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse routes fixture: %w", err)
	}

	routes := make(Routes, 0, len(file.Routes))
	for i, fr := range file.Routes {
		route, err := fr.route()
		if err != nil {
			return nil, fmt.Errorf("routes fixture entry %d: %w", i, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// LoadRoutesFile reads and parses a YAML fixture file.
func LoadRoutesFile(path string) (Routes, error) {
	if path == "" {
		return nil, fmt.Errorf("routes fixture path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("routes fixture does not exist: %s", path)
		}
		return nil, fmt.Errorf("stat routes fixture: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("routes fixture path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read routes fixture: %w", err)
	}
	return RoutesFromYAML(data)
}

// route converts one fixture entry into a Route declaration.
func (f fixtureRoute) route() (Route, error) {
	if f.URL == "" && f.Pattern == "" {
		return Route{}, fmt.Errorf("one of url or pattern is required")
	}
	if f.URL != "" && f.Pattern != "" {
		return Route{}, fmt.Errorf("url and pattern are mutually exclusive")
	}
	if f.Response == nil && len(f.Methods) == 0 {
		return Route{}, fmt.Errorf("one of response or methods is required")
	}
	if f.Response != nil && len(f.Methods) > 0 {
		return Route{}, fmt.Errorf("response and methods are mutually exclusive")
	}

	var addr Address
	if f.URL != "" {
		addr = URL(f.URL)
	} else {
		re, err := compilePattern(f.Pattern)
		if err != nil {
			return Route{}, err
		}
		addr = re
	}
	if len(f.Query) > 0 {
		addr = WithQuery(addr, f.Query)
	}

	route := Route{Address: addr}
	if f.Response != nil {
		route.Handler = f.Response.response()
	} else {
		route.Methods = make(map[string]Handler, len(f.Methods))
		for method, resp := range f.Methods {
			route.Methods[method] = resp.response()
		}
	}

	if f.Times != nil {
		route.Times = f.Times.Total
		if len(f.Times.PerMethod) > 0 {
			route.MethodTimes = f.Times.PerMethod
		}
	}
	return route, nil
}
