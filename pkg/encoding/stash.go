package encoding

import (
	"io"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/pool"
)

type stashKind uint8

const (
	stashTyped stashKind = iota
	stashBytes
	stashAlign
)

// Stash holds either a typed container or the Indexed encoding of one,
// and reads the same either way. Pushing is only possible in the typed
// state; Clear returns a stash to it.
type Stash[T, R any, C columnar.Column[T, R, C]] struct {
	kind  stashKind
	typed C
	bytes []byte
	align []uint64
	// view is the decoded read view of bytes or align.
	view C
}

// NewStash wraps typed. typed also supplies the shape used to read
// encoded contents.
func NewStash[T, R any, C columnar.Column[T, R, C]](typed C) *Stash[T, R, C] {
	return &Stash[T, R, C]{typed: typed}
}

// SetBytes replaces the contents with an Indexed encoding. b is kept
// without copying when it is word aligned and copied into owned words
// otherwise. The encoding is decoded once here, so Borrow cannot fail and
// reads do not decode again.
func (s *Stash[T, R, C]) SetBytes(b []byte) error {
	if len(b)%8 != 0 {
		return errors.New(errors.ErrorTypeLayout, "stash bytes are not a whole number of words").
			WithDetail("len", len(b))
	}

	var w []uint64
	aligned := columnar.Aligned[uint64](b)
	if aligned {
		w = columnar.Cast[uint64](b)
	} else {
		w = make([]uint64, len(b)/8)
		copy(columnar.BytesOf(w), b)
	}
	view, err := Read(Indexed{}, s.typed, w)
	if err != nil {
		return err
	}

	s.typed.Clear()
	s.bytes, s.align, s.view = nil, nil, view
	if aligned {
		s.kind, s.bytes = stashBytes, b
	} else {
		s.kind, s.align = stashAlign, w
	}
	return nil
}

// IsTyped reports whether the stash holds a typed container.
func (s *Stash[T, R, C]) IsTyped() bool { return s.kind == stashTyped }

// Borrow returns a read view of the contents.
func (s *Stash[T, R, C]) Borrow() C {
	if s.kind != stashTyped {
		return s.view
	}
	return s.typed.Borrow()
}

// Len returns the number of values held.
func (s *Stash[T, R, C]) Len() int { return s.Borrow().Len() }

// Get returns the value at index.
func (s *Stash[T, R, C]) Get(index int) R { return s.Borrow().Get(index) }

// Push appends item. It panics unless the stash is typed.
func (s *Stash[T, R, C]) Push(item T) {
	if s.kind != stashTyped {
		errors.Panic(errors.ErrorTypeUnsupported, "cannot push into an encoded stash")
	}
	s.typed.Push(item)
}

// Clear empties the stash and makes it typed again.
func (s *Stash[T, R, C]) Clear() {
	var zero C
	s.kind = stashTyped
	s.bytes, s.align, s.view = nil, nil, zero
	s.typed.Clear()
}

// LengthInBytes is the size of the Indexed encoding of the contents.
func (s *Stash[T, R, C]) LengthInBytes() int {
	switch s.kind {
	case stashBytes:
		return len(s.bytes)
	case stashAlign:
		return 8 * len(s.align)
	default:
		return Indexed{}.LengthInBytes(s.typed)
	}
}

// WriteTo writes the Indexed encoding of the contents to w.
func (s *Stash[T, R, C]) WriteTo(w io.Writer) (int64, error) {
	switch s.kind {
	case stashBytes:
		n, err := w.Write(s.bytes)
		return int64(n), err
	case stashAlign:
		n, err := w.Write(columnar.BytesOf(s.align))
		return int64(n), err
	default:
		buf := pool.GetBuffer()
		defer pool.PutBuffer(buf)
		buf.Grow(s.LengthInBytes())
		if err := (Indexed{}).Write(buf, s.typed); err != nil {
			return 0, err
		}
		return buf.WriteTo(w)
	}
}
