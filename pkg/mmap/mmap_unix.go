//go:build linux || darwin

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	adviceSequential = unix.MADV_SEQUENTIAL
	adviceWillNeed   = unix.MADV_WILLNEED
)

func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

// advise is best effort; the kernel is free to ignore it.
func advise(b []byte, advice int) {
	if len(b) > 0 {
		_ = unix.Madvise(b, advice)
	}
}
