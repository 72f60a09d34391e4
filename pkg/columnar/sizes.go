package columnar

type (
	narrowUnsigned = Results[uint8, uint8, *Primitives[uint8], uint16, uint16, *Primitives[uint16]]
	wideUnsigned   = Results[uint32, uint32, *Primitives[uint32], uint64, uint64, *Primitives[uint64]]
	narrowSigned   = Results[int8, int8, *Primitives[int8], int16, int16, *Primitives[int16]]
	wideSigned     = Results[int32, int32, *Primitives[int32], int64, int64, *Primitives[int64]]
)

// Sizes stores uint64 values in the narrowest of 1, 2, 4 or 8 bytes, at the
// cost of two bitmap bits per value.
type Sizes struct {
	Inner *Results[Result[uint8, uint16], Result[uint8, uint16], *narrowUnsigned,
		Result[uint32, uint64], Result[uint32, uint64], *wideUnsigned] `json:"inner"`
}

// NewSizes returns an empty container.
func NewSizes() *Sizes {
	narrow := NewResults[uint8, uint8, uint16, uint16](NewPrimitives[uint8](), NewPrimitives[uint16]())
	wide := NewResults[uint32, uint32, uint64, uint64](NewPrimitives[uint32](), NewPrimitives[uint64]())
	return &Sizes{Inner: NewResults[Result[uint8, uint16], Result[uint8, uint16], Result[uint32, uint64], Result[uint32, uint64]](narrow, wide)}
}

func (s *Sizes) Len() int             { return s.Inner.Len() }
func (s *Sizes) Clear()               { s.Inner.Clear() }
func (s *Sizes) HeapSize() (int, int) { return s.Inner.HeapSize() }

func (s *Sizes) Push(item uint64) {
	switch {
	case item <= 0xff:
		s.Inner.PushOk(Ok[uint8, uint16](uint8(item)))
	case item <= 0xffff:
		s.Inner.PushOk(Err[uint8](uint16(item)))
	case item <= 0xffff_ffff:
		s.Inner.PushErr(Ok[uint32, uint64](uint32(item)))
	default:
		s.Inner.PushErr(Err[uint32](item))
	}
}

func (s *Sizes) Get(index int) uint64 {
	r := s.Inner.Get(index)
	if r.IsOk {
		if r.Ok.IsOk {
			return uint64(r.Ok.Ok)
		}
		return uint64(r.Ok.Err)
	}
	if r.Err.IsOk {
		return uint64(r.Err.Ok)
	}
	return r.Err.Err
}

func (s *Sizes) Borrow() *Sizes { return &Sizes{Inner: s.Inner.Borrow()} }

func (s *Sizes) ExtendFromSelf(other *Sizes, start, end int) {
	s.Inner.ExtendFromSelf(other.Inner, start, end)
}

func (s *Sizes) AsBytes(dst []Segment) []Segment { return s.Inner.AsBytes(dst) }

func (s *Sizes) FromBytes(r *Reader) *Sizes { return &Sizes{Inner: s.Inner.FromBytes(r)} }

// SignedSizes is Sizes for int64 values.
type SignedSizes struct {
	Inner *Results[Result[int8, int16], Result[int8, int16], *narrowSigned,
		Result[int32, int64], Result[int32, int64], *wideSigned] `json:"inner"`
}

// NewSignedSizes returns an empty container.
func NewSignedSizes() *SignedSizes {
	narrow := NewResults[int8, int8, int16, int16](NewPrimitives[int8](), NewPrimitives[int16]())
	wide := NewResults[int32, int32, int64, int64](NewPrimitives[int32](), NewPrimitives[int64]())
	return &SignedSizes{Inner: NewResults[Result[int8, int16], Result[int8, int16], Result[int32, int64], Result[int32, int64]](narrow, wide)}
}

func (s *SignedSizes) Len() int             { return s.Inner.Len() }
func (s *SignedSizes) Clear()               { s.Inner.Clear() }
func (s *SignedSizes) HeapSize() (int, int) { return s.Inner.HeapSize() }

func (s *SignedSizes) Push(item int64) {
	switch {
	case item >= -1<<7 && item < 1<<7:
		s.Inner.PushOk(Ok[int8, int16](int8(item)))
	case item >= -1<<15 && item < 1<<15:
		s.Inner.PushOk(Err[int8](int16(item)))
	case item >= -1<<31 && item < 1<<31:
		s.Inner.PushErr(Ok[int32, int64](int32(item)))
	default:
		s.Inner.PushErr(Err[int32](item))
	}
}

func (s *SignedSizes) Get(index int) int64 {
	r := s.Inner.Get(index)
	if r.IsOk {
		if r.Ok.IsOk {
			return int64(r.Ok.Ok)
		}
		return int64(r.Ok.Err)
	}
	if r.Err.IsOk {
		return int64(r.Err.Ok)
	}
	return r.Err.Err
}

func (s *SignedSizes) Borrow() *SignedSizes { return &SignedSizes{Inner: s.Inner.Borrow()} }

func (s *SignedSizes) ExtendFromSelf(other *SignedSizes, start, end int) {
	s.Inner.ExtendFromSelf(other.Inner, start, end)
}

func (s *SignedSizes) AsBytes(dst []Segment) []Segment { return s.Inner.AsBytes(dst) }

func (s *SignedSizes) FromBytes(r *Reader) *SignedSizes {
	return &SignedSizes{Inner: s.Inner.FromBytes(r)}
}
