package sharedkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storagekit/azb/pkg/azb"
)

// frozenSigner pins the validation clock so expiry instants in the golden
// vectors stay valid forever.
func frozenSigner(t *testing.T, now time.Time) *Signer {
	s := testSigner(t)
	s.now = func() time.Time { return now }
	return s
}

func TestSignedQueryGolden(t *testing.T) {
	now := time.Date(2019, 8, 3, 0, 0, 0, 0, time.UTC)
	s := frozenSigner(t, now)

	q, err := s.SignedQuery("logs", "app.log", SASOptions{
		Permissions: "r",
		Expiry:      time.Date(2019, 8, 3, 15, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "2015-04-05", q.Get("sv"))
	assert.Equal(t, "b", q.Get("sr"))
	assert.Equal(t, "r", q.Get("sp"))
	assert.Equal(t, "2019-08-03T15:04:05Z", q.Get("se"))
	assert.Equal(t, "r9tP9KWj0rRF0MMgbA0GuTFEslj3zQY7J3Adpp+iwA0=", q.Get("sig"))
	assert.Empty(t, q.Get("st"))
}

func TestSignedQueryDeterministic(t *testing.T) {
	now := time.Date(2019, 8, 3, 0, 0, 0, 0, time.UTC)
	opts := SASOptions{
		Permissions: "racw",
		Start:       time.Date(2019, 8, 3, 0, 0, 0, 0, time.UTC),
		Expiry:      time.Date(2019, 8, 4, 0, 0, 0, 0, time.UTC),
	}

	first, err := frozenSigner(t, now).SignedQuery("logs", "app.log", opts)
	require.NoError(t, err)
	second, err := frozenSigner(t, now).SignedQuery("logs", "app.log", opts)
	require.NoError(t, err)

	assert.Equal(t, first.Encode(), second.Encode())
}

func TestSignedQueryContainerResource(t *testing.T) {
	now := time.Date(2019, 8, 3, 0, 0, 0, 0, time.UTC)
	q, err := frozenSigner(t, now).SignedQuery("logs", "", SASOptions{
		Permissions: "l",
		Expiry:      now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "c", q.Get("sr"))
}

func TestSignedQueryValidation(t *testing.T) {
	now := time.Now()
	s := testSigner(t)

	_, err := s.SignedQuery("logs", "app.log", SASOptions{Expiry: now.Add(time.Hour)})
	assert.True(t, azb.IsInvalidParameter(err), "empty permissions must be rejected")

	_, err = s.SignedQuery("logs", "app.log", SASOptions{Permissions: "rx", Expiry: now.Add(time.Hour)})
	assert.True(t, azb.IsInvalidParameter(err), "unknown permission letter must be rejected")

	_, err = s.SignedQuery("logs", "app.log", SASOptions{Permissions: "r", Expiry: now.Add(-time.Hour)})
	assert.True(t, azb.IsInvalidParameter(err), "expired token must be rejected")

	_, err = s.SignedQuery("logs", "app.log", SASOptions{Permissions: "r"})
	assert.True(t, azb.IsInvalidParameter(err), "missing expiry must be rejected")

	// Inside the configured skew is still accepted.
	_, err = s.SignedQuery("logs", "app.log", SASOptions{
		Permissions: "r",
		Expiry:      now.Add(-time.Minute),
		ExpirySkew:  5 * time.Minute,
	})
	assert.NoError(t, err)
}
