package azb

import (
	"net/http"
	"sort"
	"strings"
)

// Headers is an explicit case-insensitive, insertion-ordered header map.
// Setting a name that is already present (under any casing) overwrites the
// existing entry in place. Empty values are dropped rather than sent as empty
// strings. The signing code depends on these semantics, so we don't lean on
// http.Header's ambient behavior.
type Headers struct {
	names  []string // lowercased, insertion order
	values map[string]string
}

func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Set stores value under name, replacing any existing entry regardless of
// case. Setting an empty value removes the header.
func (h *Headers) Set(name, value string) {
	k := strings.ToLower(name)
	if value == "" {
		h.del(k)
		return
	}
	if _, ok := h.values[k]; !ok {
		h.names = append(h.names, k)
	}
	h.values[k] = value
}

func (h *Headers) del(k string) {
	if _, ok := h.values[k]; !ok {
		return
	}
	delete(h.values, k)
	for i, n := range h.names {
		if n == k {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// Get returns the value stored under name (case-insensitive), or "".
func (h *Headers) Get(name string) string {
	return h.values[strings.ToLower(name)]
}

// Len returns the number of stored headers.
func (h *Headers) Len() int {
	return len(h.names)
}

// Each calls fn for every header in insertion order.
func (h *Headers) Each(fn func(name, value string)) {
	for _, n := range h.names {
		fn(n, h.values[n])
	}
}

// Sorted returns the header names in lexicographic order, optionally
// restricted to names with the given prefix.
func (h *Headers) Sorted(prefix string) []string {
	out := make([]string, 0, len(h.names))
	for _, n := range h.names {
		if prefix == "" || strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Apply copies the stored headers into a net/http header map.
func (h *Headers) Apply(dst http.Header) {
	for _, n := range h.names {
		dst.Set(n, h.values[n])
	}
}

// MetadataPrefix is prepended to user metadata keys on the wire.
const MetadataPrefix = "x-ms-meta-"

// ValidMetadataKey reports whether key is acceptable as a metadata name:
// a letter or underscore followed by letters, digits or underscores. The
// service rejects anything else, so we fail locally before building a request.
func ValidMetadataKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// FoldMetadata validates metadata keys and folds each pair into h as an
// x-ms-meta-* header. Keys are sorted first so the resulting header order is
// deterministic.
func FoldMetadata(h *Headers, metadata map[string]string) error {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		if !ValidMetadataKey(k) {
			return InvalidParameterf("metadata key %q is not a valid identifier", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(MetadataPrefix+k, metadata[k])
	}
	return nil
}
