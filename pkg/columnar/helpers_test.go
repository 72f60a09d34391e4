package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// assertPanicType checks that fn panics with an *errors.Error of errType.
func assertPanicType(t *testing.T, errType errors.ErrorType, fn func()) {
	t.Helper()
	err := errors.Catch(fn)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errType), "unexpected panic: %v", err)
}

// assertSameValues checks that two readable containers agree position by position.
func assertSameValues[R any](t *testing.T, want, got interface {
	Len
	Index[R]
}) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		assert.Equal(t, want.Get(i), got.Get(i), "position %d", i)
	}
}
