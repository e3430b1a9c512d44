package azb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status int
		want   interface{}
	}{
		{200, nil},
		{201, nil},
		{401, &AuthenticationError{}},
		{403, &AuthenticationError{}},
		{404, &NotFoundError{}},
		{409, &ConflictError{}},
		{412, &ConflictError{}},
		{500, &ServerError{}},
		{503, &ServerError{}},
		{418, &UnknownError{}},
	}

	for _, c := range cases {
		err := Classify(c.status, []byte("details"))
		if c.want == nil {
			assert.NoError(t, err, "status %d", c.status)
			continue
		}
		assert.IsType(t, c.want, err, "status %d", c.status)
	}
}

func TestClassifyKeepsDiagnostics(t *testing.T) {
	err := Classify(418, []byte("I'm a teapot"))
	ue, ok := err.(*UnknownError)
	assert.True(t, ok)
	assert.Equal(t, 418, ue.Status)
	assert.Equal(t, "I'm a teapot", ue.Body)

	err = Classify(503, []byte("busy"))
	se, ok := err.(*ServerError)
	assert.True(t, ok)
	assert.Equal(t, "busy", se.Body)
}

func TestErrorMatchersSeeThroughWrapping(t *testing.T) {
	wrapped := errors.Wrap(Classify(404, nil), "stat failed")
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAuthentication(wrapped))

	wrapped = errors.Wrap(Classify(403, nil), "get failed")
	assert.True(t, IsAuthentication(wrapped))

	wrapped = errors.Wrap(InvalidParameterf("bad %s", "input"), "local validation")
	assert.True(t, IsInvalidParameter(wrapped))
}
