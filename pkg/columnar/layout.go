package columnar

import (
	"unsafe"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// This file is the only place that reinterprets memory. Byte views use the
// host's native byte order; encoded data is portable only between hosts of
// the same endianness.

// BytesOf views s as its underlying bytes without copying.
func BytesOf[T Scalar](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	size := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*size)
}

// Cast views b as a slice of T without copying. It panics when len(b) is
// not a multiple of the element size or when b is not aligned for T.
func Cast[T Scalar](b []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(b)%size != 0 {
		errors.Panic(errors.ErrorTypeLayout, "byte length is not a multiple of the element size",
			"len", len(b), "size", size)
	}
	if len(b) == 0 {
		return []T{}
	}
	ptr := unsafe.Pointer(unsafe.SliceData(b))
	if align := unsafe.Alignof(zero); uintptr(ptr)%align != 0 {
		errors.Panic(errors.ErrorTypeLayout, "byte slice is misaligned for the element type",
			"align", align, "addr", uintptr(ptr))
	}
	return unsafe.Slice((*T)(ptr), len(b)/size)
}

// Aligned reports whether b can be cast to T.
func Aligned[T Scalar](b []byte) bool {
	var zero T
	if len(b)%int(unsafe.Sizeof(zero)) != 0 {
		return false
	}
	return len(b) == 0 || uintptr(unsafe.Pointer(unsafe.SliceData(b)))%unsafe.Alignof(zero) == 0
}

func alignOf[T Scalar]() uint64 {
	var zero T
	return uint64(unsafe.Alignof(zero))
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// wordBytes views a single word as 8 bytes.
func wordBytes(w *uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(w)), 8)
}

// readWord decodes a segment holding exactly one word.
func readWord(b []byte) uint64 {
	words := Cast[uint64](b)
	if len(words) != 1 {
		errors.Panic(errors.ErrorTypeLayout, "expected a single word segment", "len", len(b))
	}
	return words[0]
}
