// Package mmap maps encoded container files into memory so they can be
// decoded without copying.
//
// Encoded files are sequences of 8-byte words. A mapping starts on a page
// boundary, so the word view of a mapped file is always aligned and the
// containers decoded from it borrow the mapping directly.
package mmap

import (
	"os"
	"sync"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Reader provides read-only, zero-copy access to a file.
type Reader struct {
	file     *os.File
	data     []byte
	release  func() error
	fileSize int64
	pageSize int

	// Stats
	bytesRead int64
	pagesRead int64

	mu sync.RWMutex
}

// Open maps the named file for reading.
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").WithDetail("path", filename)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file").WithDetail("path", filename)
	}

	fileSize := stat.Size()
	if fileSize == 0 {
		file.Close()
		return nil, errors.New(errors.ErrorTypeFile, "file is empty").WithDetail("path", filename)
	}

	data, release, err := mapFile(file, int(fileSize))
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to map file").WithDetail("path", filename)
	}

	return &Reader{
		file:     file,
		data:     data,
		release:  release,
		fileSize: fileSize,
		pageSize: os.Getpagesize(),
	}, nil
}

// Size returns the file size in bytes.
func (r *Reader) Size() int64 { return r.fileSize }

// Bytes returns the whole mapping. The slice is valid until Close.
func (r *Reader) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	advise(r.data, adviceSequential)
	r.bytesRead = r.fileSize
	r.pagesRead = r.pages(r.fileSize)
	return r.data
}

// Words returns the mapping as words. It fails when the file size is not a
// multiple of 8, which means the file does not hold an encoded container.
func (r *Reader) Words() ([]uint64, error) {
	if r.fileSize%8 != 0 {
		return nil, errors.New(errors.ErrorTypeLayout, "file size is not a multiple of the word size").
			WithDetail("size", r.fileSize)
	}
	var words []uint64
	err := errors.Catch(func() { words = columnar.Cast[uint64](r.Bytes()) })
	return words, err
}

// ReadRange returns length bytes starting at offset, clipped to the end of
// the file.
func (r *Reader) ReadRange(offset, length int64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset < 0 || offset >= r.fileSize {
		return nil, errors.Newf(errors.ErrorTypeBounds, "offset %d out of range [0, %d)", offset, r.fileSize)
	}

	end := min(offset+length, r.fileSize)
	advise(r.data[r.pageFloor(offset):end], adviceWillNeed)

	r.bytesRead += end - offset
	r.pagesRead += r.pages(end - offset)
	return r.data[offset:end], nil
}

func (r *Reader) pages(n int64) int64 {
	return (n + int64(r.pageSize) - 1) / int64(r.pageSize)
}

func (r *Reader) pageFloor(offset int64) int64 {
	return (offset / int64(r.pageSize)) * int64(r.pageSize)
}

// Close unmaps the file and closes it. Slices handed out by the reader
// must not be used afterwards.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.data != nil {
		err = r.release()
		r.data = nil
	}
	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}
	return err
}

// Stats returns reading statistics.
func (r *Reader) Stats() (bytesRead, pagesRead int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bytesRead, r.pagesRead
}
