package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrapf(ErrNotFound, "feature %q", "conv_rate")

	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "conv_rate")
	assert.Contains(t, err.Error(), "not found")
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "context")))
	assert.False(t, IsNotFoundError(New("other error")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsServiceUnavailableError(t *testing.T) {
	err := Wrapf(ErrServiceUnavailable, "local inference at %s", "http://localhost:11434")
	assert.True(t, IsServiceUnavailableError(err))
	assert.False(t, IsServiceUnavailableError(New("different")))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("driver %d", 1001)

	require.Error(t, err)
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "driver 1001")
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("bad id %q", "abc")

	require.Error(t, err)
	assert.True(t, IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), `bad id "abc"`)
}

func TestWrapPreservesChain(t *testing.T) {
	base := New("base failure")
	wrapped := Wrap(Wrap(base, "middle"), "outer")

	assert.True(t, Is(wrapped, base))
	assert.Equal(t, "outer: middle: base failure", wrapped.Error())
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("no model provider configured"), "set DRIVERNOTE_ANTHROPIC_API_KEY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model provider configured")
}

func TestIsAny(t *testing.T) {
	err := Wrap(ErrTimeout, "fetch")
	assert.True(t, IsAny(err, ErrNotFound, ErrTimeout))
	assert.False(t, IsAny(err, ErrNotFound, ErrInvalidRequest))
}
