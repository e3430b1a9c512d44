// Delegated-access (SAS) token derivation: a signed, time-bounded,
// permission-scoped query string granting access to one resource without
// sharing the account key. The client only formats and signs the token;
// enforcement is entirely server-side.
package sharedkey

import (
	"net/url"
	"strings"
	"time"

	"github.com/storagekit/azb/pkg/azb"
)

// SASVersion is the service version whose string-to-sign layout we emit.
const SASVersion = "2015-04-05"

// SASTimeFormat is the timestamp layout for the st/se fields.
const SASTimeFormat = "2006-01-02T15:04:05Z"

// sasPermissions are the permission letters the blob service accepts.
const sasPermissions = "racwdl"

// DefaultExpirySkew is how far in the past an expiry may lie before we refuse
// to sign, covering clock drift between us and the verifier.
const DefaultExpirySkew = 5 * time.Minute

// SASOptions parameterize one delegated-access token. Permissions and Expiry
// are required; everything else defaults to absent.
type SASOptions struct {
	Permissions string
	Start       time.Time
	Expiry      time.Time
	Identifier  string // stored access policy id
	IP          string
	Protocol    string // "https" or "https,http"

	// Response header overrides carried in the token.
	ContentType        string
	ContentDisposition string

	// ExpirySkew overrides DefaultExpirySkew when > 0.
	ExpirySkew time.Duration
}

func (o SASOptions) validate(now time.Time) error {
	if o.Permissions == "" {
		return azb.InvalidParameterf("sas permissions are empty")
	}
	for _, r := range o.Permissions {
		if !strings.ContainsRune(sasPermissions, r) {
			return azb.InvalidParameterf("sas permission %q is not one of %q", r, sasPermissions)
		}
	}
	if o.Expiry.IsZero() {
		return azb.InvalidParameterf("sas expiry is not set")
	}
	skew := o.ExpirySkew
	if skew <= 0 {
		skew = DefaultExpirySkew
	}
	if o.Expiry.Before(now.Add(-skew)) {
		return azb.InvalidParameterf("sas expiry %s is already in the past", o.Expiry.UTC().Format(SASTimeFormat))
	}
	return nil
}

// SignedQuery derives the SAS query parameters for a blob (key non-empty) or
// a whole container (key empty). Deterministic: identical inputs yield an
// identical query, signature included.
func (s *Signer) SignedQuery(container, key string, opts SASOptions) (url.Values, error) {
	if container == "" {
		return nil, azb.InvalidParameterf("sas container is empty")
	}
	if err := opts.validate(s.now()); err != nil {
		return nil, err
	}

	resource := "/blob/" + s.creds.account + "/" + container
	signedResource := "c"
	if key != "" {
		resource += "/" + key
		signedResource = "b"
	}

	start := ""
	if !opts.Start.IsZero() {
		start = opts.Start.UTC().Format(SASTimeFormat)
	}
	expiry := opts.Expiry.UTC().Format(SASTimeFormat)

	// Fixed field order; absent optionals contribute empty lines. The layout
	// must match the verifier byte-for-byte.
	sts := strings.Join([]string{
		opts.Permissions,
		start,
		expiry,
		resource,
		opts.Identifier,
		opts.IP,
		opts.Protocol,
		SASVersion,
		"", // response cache-control
		opts.ContentDisposition,
		"", // response content-encoding
		"", // response content-language
		opts.ContentType,
	}, "\n")

	q := url.Values{}
	q.Set("sv", SASVersion)
	q.Set("sr", signedResource)
	q.Set("sp", opts.Permissions)
	if start != "" {
		q.Set("st", start)
	}
	q.Set("se", expiry)
	if opts.Identifier != "" {
		q.Set("si", opts.Identifier)
	}
	if opts.IP != "" {
		q.Set("sip", opts.IP)
	}
	if opts.Protocol != "" {
		q.Set("spr", opts.Protocol)
	}
	if opts.ContentDisposition != "" {
		q.Set("rscd", opts.ContentDisposition)
	}
	if opts.ContentType != "" {
		q.Set("rsct", opts.ContentType)
	}
	q.Set("sig", s.sign(sts))
	return q, nil
}
