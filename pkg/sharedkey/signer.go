package sharedkey

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/storagekit/azb/pkg/azb"
)

// Credentials hold a storage account identity and its decoded secret key.
// Immutable after construction; signing never touches the key bytes beyond
// reading them.
type Credentials struct {
	account string
	key     []byte
}

// NewCredentials decodes the base64-encoded account key. Keys are stored
// base64 at rest (config files, env vars) and decoded exactly once here.
func NewCredentials(account, base64Key string) (Credentials, error) {
	if account == "" {
		return Credentials{}, azb.InvalidParameterf("account name is empty")
	}
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return Credentials{}, errors.Wrap(err, "account key is not valid base64")
	}
	if len(key) == 0 {
		return Credentials{}, azb.InvalidParameterf("account key is empty")
	}
	return Credentials{account: account, key: key}, nil
}

// Account returns the account identifier these credentials belong to.
func (c Credentials) Account() string {
	return c.account
}

// Signer computes Shared Key authorization headers and delegated-access (SAS)
// query strings. It has no mutable state after construction and is safe for
// concurrent use.
type Signer struct {
	creds Credentials
	now   func() time.Time
}

func NewSigner(creds Credentials) *Signer {
	return &Signer{creds: creds, now: time.Now}
}

// Authorization returns the "SharedKey {account}:{signature}" header value
// for one request. Pure: no I/O, and the header map is only read.
func (s *Signer) Authorization(verb string, u *url.URL, h *azb.Headers) string {
	sts := StringToSign(verb, u, h, s.creds.account)
	return "SharedKey " + s.creds.account + ":" + s.sign(sts)
}

// sign computes base64(HMAC-SHA256(key, msg)).
func (s *Signer) sign(msg string) string {
	mac := hmac.New(sha256.New, s.creds.key)
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
