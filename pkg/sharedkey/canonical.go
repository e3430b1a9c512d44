// Canonicalization of HTTP requests into the exact byte strings the blob
// service signs. Everything here is pure and deterministic: the output depends
// only on the inputs, never on insertion order or ambient state.
package sharedkey

import (
	"net/url"
	"sort"
	"strings"

	"github.com/storagekit/azb/pkg/azb"
)

// The standard headers, in the fixed order the signing algorithm demands.
var standardHeaders = [...]string{
	"Content-Encoding",
	"Content-Language",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Date",
	"If-Modified-Since",
	"If-Match",
	"If-None-Match",
	"If-Unmodified-Since",
	"Range",
}

// VendorPrefix marks the service-specific headers that participate in the
// canonicalized header block.
const VendorPrefix = "x-ms-"

// foldLine collapses any embedded line breaks in a header value to single
// spaces. The canonical string is newline-delimited, so a raw value containing
// newlines would corrupt it.
func foldLine(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	v = strings.ReplaceAll(v, "\r", "\n")
	parts := strings.Split(v, "\n")
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// StringToSign builds the Shared Key canonical string for one request:
// the verb, the fixed-order standard header values, the sorted x-ms-* header
// block, and the canonicalized resource derived from the account, URL path and
// query. Two header maps with equal contents always canonicalize identically
// regardless of how they were populated.
func StringToSign(verb string, u *url.URL, h *azb.Headers, account string) string {
	var b strings.Builder

	b.WriteString(strings.ToUpper(verb))
	b.WriteByte('\n')

	for _, name := range standardHeaders {
		v := h.Get(name)
		// A zero Content-Length canonicalizes to the empty string.
		if v == "0" && name == "Content-Length" {
			v = ""
		}
		b.WriteString(foldLine(v))
		b.WriteByte('\n')
	}

	for _, name := range h.Sorted(VendorPrefix) {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(foldLine(h.Get(name)))
		b.WriteByte('\n')
	}

	b.WriteString(canonicalResource(u, account))
	return b.String()
}

// canonicalResource emits "/{account}{path}" followed by one "\nname:value"
// per query parameter, names lowercased and sorted, multiple values sorted and
// comma-joined. The signature parameter itself is excluded.
func canonicalResource(u *url.URL, account string) string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(account)
	if p := u.EscapedPath(); p != "" {
		b.WriteString(p)
	} else {
		b.WriteByte('/')
	}

	params := make(map[string][]string)
	for name, vals := range u.Query() {
		name = strings.ToLower(name)
		if name == "sig" {
			continue
		}
		params[name] = append(params[name], vals...)
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vals := params[name]
		sort.Strings(vals)
		b.WriteByte('\n')
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.Join(vals, ","))
	}
	return b.String()
}
