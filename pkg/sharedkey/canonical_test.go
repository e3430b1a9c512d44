package sharedkey

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storagekit/azb/pkg/azb"
)

func mustParse(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestStringToSignGolden(t *testing.T) {
	h := azb.NewHeaders()
	h.Set("x-ms-date", "Fri, 02 Aug 2019 15:04:05 GMT")
	h.Set("x-ms-version", "2019-12-12")

	sts := StringToSign("GET", mustParse(t, "https://testaccount.blob.core.windows.net/logs/app.log"), h, "testaccount")

	expected := "GET\n" +
		strings.Repeat("\n", 11) +
		"x-ms-date:Fri, 02 Aug 2019 15:04:05 GMT\n" +
		"x-ms-version:2019-12-12\n" +
		"/testaccount/logs/app.log"
	assert.Equal(t, expected, sts)
}

func TestStringToSignInsertionOrderIndependent(t *testing.T) {
	u := mustParse(t, "https://testaccount.blob.core.windows.net/logs/app.log")

	h1 := azb.NewHeaders()
	h1.Set("x-ms-date", "Fri, 02 Aug 2019 15:04:05 GMT")
	h1.Set("x-ms-version", "2019-12-12")
	h1.Set("X-MS-Meta-Owner", "ops")

	h2 := azb.NewHeaders()
	h2.Set("x-ms-meta-owner", "ops")
	h2.Set("X-Ms-Version", "2019-12-12")
	h2.Set("X-Ms-Date", "Fri, 02 Aug 2019 15:04:05 GMT")

	assert.Equal(t,
		StringToSign("GET", u, h1, "testaccount"),
		StringToSign("GET", u, h2, "testaccount"))
}

func TestStringToSignStandardHeaders(t *testing.T) {
	h := azb.NewHeaders()
	h.Set("Content-Type", "text/plain")
	h.Set("Content-Length", "42")
	h.Set("Range", "bytes=0-99")

	sts := StringToSign("PUT", mustParse(t, "https://testaccount.blob.core.windows.net/c/k"), h, "testaccount")
	lines := strings.Split(sts, "\n")

	// Fixed slots: verb, then Content-Encoding, Content-Language,
	// Content-Length, Content-MD5, Content-Type, ..., Range.
	assert.Equal(t, "PUT", lines[0])
	assert.Equal(t, "42", lines[3])
	assert.Equal(t, "text/plain", lines[5])
	assert.Equal(t, "bytes=0-99", lines[11])
}

func TestStringToSignZeroContentLength(t *testing.T) {
	h := azb.NewHeaders()
	h.Set("Content-Length", "0")

	sts := StringToSign("PUT", mustParse(t, "https://testaccount.blob.core.windows.net/c/k"), h, "testaccount")
	lines := strings.Split(sts, "\n")
	assert.Equal(t, "", lines[3])
}

func TestStringToSignFoldsEmbeddedNewlines(t *testing.T) {
	h := azb.NewHeaders()
	h.Set("x-ms-meta-note", "first line\r\n second line\nthird")

	sts := StringToSign("PUT", mustParse(t, "https://testaccount.blob.core.windows.net/c/k"), h, "testaccount")
	assert.Contains(t, sts, "x-ms-meta-note:first line second line third\n")
}

func TestCanonicalResourceQueryParams(t *testing.T) {
	u := mustParse(t, "https://testaccount.blob.core.windows.net/c/k?comp=block&blockid=MDAwMDAw&zebra=&sig=secret")

	sts := StringToSign("PUT", u, azb.NewHeaders(), "testaccount")

	// Sorted by name, sig excluded, empty values included.
	expectedTail := "/testaccount/c/k" +
		"\nblockid:MDAwMDAw" +
		"\ncomp:block" +
		"\nzebra:"
	assert.True(t, strings.HasSuffix(sts, expectedTail), "got tail of %q", sts)
	assert.NotContains(t, sts, "secret")
}

func TestCanonicalResourceMultiValueParams(t *testing.T) {
	u := mustParse(t, "https://testaccount.blob.core.windows.net/c?include=snapshots&include=metadata")

	sts := StringToSign("GET", u, azb.NewHeaders(), "testaccount")
	assert.True(t, strings.HasSuffix(sts, "/testaccount/c\ninclude:metadata,snapshots"))
}
