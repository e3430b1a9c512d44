package sharedkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storagekit/azb/pkg/azb"
)

// Key material for the golden vectors. Unit-test only.
const (
	testAccount = "testaccount"
	testKeyB64  = "YXpiLXVuaXQtdGVzdC1rZXktbWF0ZXJpYWwtMDAwMDAx"
)

func testSigner(t *testing.T) *Signer {
	creds, err := NewCredentials(testAccount, testKeyB64)
	require.NoError(t, err)
	return NewSigner(creds)
}

func TestAuthorizationGolden(t *testing.T) {
	h := azb.NewHeaders()
	h.Set("x-ms-date", "Fri, 02 Aug 2019 15:04:05 GMT")
	h.Set("x-ms-version", "2019-12-12")

	auth := testSigner(t).Authorization("GET",
		mustParse(t, "https://testaccount.blob.core.windows.net/logs/app.log"), h)

	assert.Equal(t, "SharedKey testaccount:II1Im5IH55rD+tiT/9tgtVt0/OXLxB0ijQOSROW6dgo=", auth)
}

func TestAuthorizationDoesNotMutateHeaders(t *testing.T) {
	h := azb.NewHeaders()
	h.Set("x-ms-date", "Fri, 02 Aug 2019 15:04:05 GMT")

	s := testSigner(t)
	u := mustParse(t, "https://testaccount.blob.core.windows.net/c/k")
	first := s.Authorization("GET", u, h)
	second := s.Authorization("GET", u, h)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.Len())
}

func TestNewCredentialsValidation(t *testing.T) {
	_, err := NewCredentials("", testKeyB64)
	assert.True(t, azb.IsInvalidParameter(err))

	_, err = NewCredentials(testAccount, "not base64!!!")
	assert.Error(t, err)

	_, err = NewCredentials(testAccount, "")
	assert.True(t, azb.IsInvalidParameter(err))
}
