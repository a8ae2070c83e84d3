// Package origins decides which cross-origin callers may reach the API.
//
// The allow list is assembled once at startup from the configured first-party
// origins plus a comma-separated set of extras, then consulted per request.
// No live environment state is read after construction.
package origins

import "strings"

// Wildcard is the allow-list entry that admits every origin.
const Wildcard = "*"

// Decision is the outcome of checking a request's Origin header.
type Decision int

const (
	// DecisionNoOrigin means the request carried no Origin header.
	// Same-origin and non-browser traffic; no CORS headers are emitted.
	DecisionNoOrigin Decision = iota

	// DecisionAllow means the origin is on the allow list. The literal
	// request origin is echoed back, never the wildcard.
	DecisionAllow

	// DecisionDeny means the origin is known to be cross-origin and not
	// allowed. The request is rejected before reaching any handler.
	DecisionDeny
)

// String returns the decision name for log output.
func (d Decision) String() string {
	switch d {
	case DecisionNoOrigin:
		return "no-origin"
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// Registry holds the normalized origin allow list.
type Registry struct {
	origins  []string
	index    map[string]struct{}
	wildcard bool
}

// NewRegistry builds the allow list from the fixed first-party origins and a
// comma-separated string of extra origins. Entries are normalized (trimmed,
// one trailing slash stripped, lowercased), empties are dropped, and
// duplicates collapse to their first occurrence. Malformed entries are kept
// verbatim after normalization; they simply never match a real Origin header.
func NewRegistry(fixed []string, extra string) *Registry {
	r := &Registry{
		index: make(map[string]struct{}),
	}

	add := func(entry string) {
		norm := Normalize(entry)
		if norm == "" {
			return
		}
		if norm == Wildcard {
			r.wildcard = true
			return
		}
		if _, dup := r.index[norm]; dup {
			return
		}
		r.index[norm] = struct{}{}
		r.origins = append(r.origins, norm)
	}

	for _, entry := range fixed {
		add(entry)
	}
	for _, entry := range strings.Split(extra, ",") {
		add(entry)
	}

	return r
}

// Normalize canonicalizes an origin for comparison: surrounding whitespace is
// trimmed, a single trailing slash is stripped, and the result is lowercased.
// Scheme and host are case-insensitive per RFC 3986; paths never appear in
// Origin headers.
func Normalize(origin string) string {
	origin = strings.TrimSpace(origin)
	origin = strings.TrimSuffix(origin, "/")
	return strings.ToLower(origin)
}

// Decide classifies the Origin header value of a request. The empty string
// (header absent) is never allowed nor denied; it means CORS does not apply.
func (r *Registry) Decide(origin string) Decision {
	if origin == "" {
		return DecisionNoOrigin
	}
	if r.wildcard {
		return DecisionAllow
	}
	if _, ok := r.index[Normalize(origin)]; ok {
		return DecisionAllow
	}
	return DecisionDeny
}

// Origins returns a copy of the normalized allow list in insertion order.
// The wildcard entry is not included; see AllowsAll.
func (r *Registry) Origins() []string {
	out := make([]string, len(r.origins))
	copy(out, r.origins)
	return out
}

// AllowsAll reports whether the list contained the wildcard entry.
func (r *Registry) AllowsAll() bool {
	return r.wildcard
}
