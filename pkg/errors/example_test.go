// Package errors provides examples of structured error handling in columnar.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeDecode, "truncated segment").
		WithDetail("segment", 3).
		WithDetail("want", 16)

	fmt.Println(err.Error())

	// Output:
	// decode: truncated segment (segment=3, want=16)
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeFile, "failed to read encoded file")

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Caused by unexpected EOF")
	}

	// Output:
	// This is a file error
	// Caused by unexpected EOF
}

// ExampleCatch shows how a contract violation panic becomes an error.
func ExampleCatch() {
	err := errors.Catch(func() {
		errors.OutOfBounds(7, 3)
	})

	fmt.Println(err)
	fmt.Println(errors.IsType(err, errors.ErrorTypeBounds))

	// Output:
	// bounds: index out of bounds (index=7, len=3)
	// true
}
