//go:build !linux && !darwin

package mmap

import (
	"io"
	"os"
	"unsafe"
)

const (
	adviceSequential = 0
	adviceWillNeed   = 0
)

// mapFile reads the file into a word-aligned buffer on platforms without a
// mapping syscall.
func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	words := make([]uint64, (size+7)/8)
	data := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}

func advise([]byte, int) {}
