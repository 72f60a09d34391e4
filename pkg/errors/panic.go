package errors

import "fmt"

// Panic raises a contract violation as an *Error. Details are given as
// alternating key/value pairs.
func Panic(errType ErrorType, message string, kv ...interface{}) {
	e := &Error{Type: errType, Message: message, Stack: captureStack(2)}
	for i := 0; i+1 < len(kv); i += 2 {
		e.WithDetail(fmt.Sprint(kv[i]), kv[i+1])
	}
	panic(e)
}

// OutOfBounds panics with an ErrorTypeBounds error for index against length.
func OutOfBounds(index, length int) {
	Panic(ErrorTypeBounds, "index out of bounds", "index", index, "len", length)
}

// FromPanic turns a value recovered from a panic into an error. Values that
// are already errors keep their identity.
func FromPanic(r interface{}) error {
	switch v := r.(type) {
	case nil:
		return nil
	case *Error:
		return v
	case error:
		return Wrap(v, ErrorTypeInternal, "panic")
	default:
		return &Error{Type: ErrorTypeInternal, Message: fmt.Sprint(v), Stack: captureStack(2)}
	}
}

// Catch runs fn and converts a panic into a returned error. It is meant for
// boundaries where untrusted input reaches code that panics on bad data.
func Catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = FromPanic(r)
		}
	}()
	fn()
	return nil
}
