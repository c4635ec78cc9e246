// Package urlnorm decomposes URL address strings and enumerates the
// semantically-equivalent spellings of an address.
//
// An address such as "http://example.com/api" can legitimately be written
// with or without the default scheme, the default port, and a trailing
// slash, and its query parameters can appear in any order. Variants
// produces every such spelling so that callers can match a pattern against
// all of them instead of canonicalizing both sides.
package urlnorm

import (
	"strings"

	"github.com/vyrodovalexey/httpstub/internal/queryenc"
)

// Parts holds the decomposed elements of a URL address. Absent elements
// are empty strings.
type Parts struct {
	Scheme string
	Host   string
	Port   string
	Path   string
	Query  string
}

// Query permutation fan-out is factorial; beyond this many pair tokens
// only the declared ordering is tried.
const maxPermutedTokens = 8

// Parse splits a raw address into its parts. The query is separated first,
// then the optional scheme, then the path (default "/"), then the optional
// port. Parse never fails; malformed input degrades to a host-only address.
func Parse(raw string) Parts {
	var p Parts
	rest := raw

	if i := strings.Index(rest, "?"); i >= 0 {
		p.Query = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "://"); i >= 0 {
		p.Scheme = rest[:i]
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		p.Path = rest[i:]
		rest = rest[:i]
	} else {
		p.Path = "/"
	}
	if i := strings.LastIndex(rest, ":"); i >= 0 && i > strings.LastIndex(rest, "]") {
		p.Port = rest[i+1:]
		p.Host = rest[:i]
	} else {
		p.Host = rest
	}

	return p
}

// NormalizePath forces a trailing slash on a path. Blank paths normalize
// to "/". The function is idempotent.
func NormalizePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "/"
	}
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

// String reduces parts back to a single address string. Absent elements
// are omitted entirely, including the "://" and "?" separators.
func String(p Parts) string {
	var b strings.Builder
	if p.Scheme != "" {
		b.WriteString(p.Scheme)
		b.WriteString("://")
	}
	b.WriteString(p.Host)
	if p.Port != "" {
		b.WriteString(":")
		b.WriteString(p.Port)
	}
	b.WriteString(p.Path)
	if p.Query != "" {
		b.WriteString("?")
		b.WriteString(p.Query)
	}
	return b.String()
}

// Canonical returns the address string with the path in normalized form.
func Canonical(p Parts) string {
	p.Path = NormalizePath(p.Path)
	return String(p)
}

// Variants enumerates the canonical address string of every equivalent
// spelling of the given parts: the Cartesian product of the scheme, port,
// path, and query variants. When permuteQuery is false the query string is
// used only as declared. The result is de-duplicated.
func Variants(p Parts, permuteQuery bool) []string {
	schemes := schemeVariants(p.Scheme)
	ports := portVariants(p.Port)
	paths := pathVariants(p.Path)
	queries := queryVariants(p.Query, permuteQuery)

	seen := make(map[string]struct{})
	out := make([]string, 0, len(schemes)*len(ports)*len(paths)*len(queries))
	for _, scheme := range schemes {
		for _, port := range ports {
			for _, path := range paths {
				for _, query := range queries {
					candidate := String(Parts{
						Scheme: scheme,
						Host:   p.Host,
						Port:   port,
						Path:   path,
						Query:  query,
					})
					if _, ok := seen[candidate]; ok {
						continue
					}
					seen[candidate] = struct{}{}
					out = append(out, candidate)
				}
			}
		}
	}
	return out
}

// schemeVariants returns the equivalent spellings of a scheme. Only the
// default scheme aliases with the absent form; anything else (https, ftp)
// stands for itself.
func schemeVariants(scheme string) []string {
	if scheme == "" || scheme == "http" {
		return []string{"http", ""}
	}
	return []string{scheme}
}

// portVariants returns the equivalent spellings of a port. Only the
// default port 80 aliases with the absent form; an explicit non-default
// port stands for itself.
func portVariants(port string) []string {
	if port == "" || port == "80" {
		return []string{"80", ""}
	}
	return []string{port}
}

// pathVariants returns the equivalent spellings of a path: the declared
// form plus its with/without-trailing-slash twins, and for the root path
// the blank form as well.
func pathVariants(path string) []string {
	if path == "" || path == "/" {
		return []string{"/", ""}
	}

	trimmed := strings.TrimSuffix(path, "/")
	variants := []string{path, trimmed, trimmed + "/"}

	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// queryVariants returns the declared query string plus, when requested,
// every ordering of its pair tokens.
func queryVariants(query string, permute bool) []string {
	if query == "" {
		return []string{""}
	}
	tokens := queryenc.Split(query)
	if !permute || len(tokens) < 2 || len(tokens) > maxPermutedTokens {
		return []string{query}
	}

	perms := queryenc.Permutations(tokens)
	seen := make(map[string]struct{}, len(perms)+1)
	out := make([]string, 0, len(perms)+1)
	seen[query] = struct{}{}
	out = append(out, query)
	for _, perm := range perms {
		joined := strings.Join(perm, "&")
		if _, ok := seen[joined]; ok {
			continue
		}
		seen[joined] = struct{}{}
		out = append(out, joined)
	}
	return out
}
