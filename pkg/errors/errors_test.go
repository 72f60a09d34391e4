package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsInnerStack(t *testing.T) {
	inner := New(ErrorTypeLayout, "misaligned")
	outer := Wrap(inner, ErrorTypeDecode, "decode failed")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeDecode))
	assert.True(t, stderrors.Is(outer, inner))
	assert.Nil(t, Wrap(nil, ErrorTypeDecode, "nothing"))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection", New(ErrorTypeConnection, "refused"), true},
		{"timeout", New(ErrorTypeTimeout, "deadline"), true},
		{"bounds", New(ErrorTypeBounds, "oob"), false},
		{"plain", io.EOF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestCatch(t *testing.T) {
	assert.NoError(t, Catch(func() {}))

	err := Catch(func() { Panic(ErrorTypeOverflow, "too wide", "value", 300) })
	require.Error(t, err)
	assert.True(t, IsType(err, ErrorTypeOverflow))
	assert.Contains(t, err.Error(), "value=300")

	err = Catch(func() { panic("plain") })
	assert.True(t, IsType(err, ErrorTypeInternal))

	err = Catch(func() { panic(io.EOF) })
	assert.True(t, Is(err, io.EOF))
}
