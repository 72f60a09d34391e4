package columnar

import "time"

const nanosPerSecond = int64(time.Second)

// Durations stores time.Duration as whole seconds plus nanoseconds. Seconds
// are floored so that nanoseconds are always in [0, 1e9), which keeps
// negative durations exact.
type Durations struct {
	Seconds     *Primitives[int64]  `json:"seconds"`
	Nanoseconds *Primitives[uint32] `json:"nanoseconds"`
}

// NewDurations returns an empty container.
func NewDurations() *Durations {
	return &Durations{Seconds: NewPrimitives[int64](), Nanoseconds: NewPrimitives[uint32]()}
}

func (d *Durations) Len() int { return d.Seconds.Len() }

func (d *Durations) Clear() {
	d.Seconds.Clear()
	d.Nanoseconds.Clear()
}

func (d *Durations) Push(item time.Duration) {
	ns := int64(item)
	secs := ns / nanosPerSecond
	rem := ns % nanosPerSecond
	if rem < 0 {
		secs--
		rem += nanosPerSecond
	}
	d.Seconds.Push(secs)
	d.Nanoseconds.Push(uint32(rem))
}

func (d *Durations) Get(index int) time.Duration {
	checkIndex(index, d.Len())
	return time.Duration(d.Seconds.Values[index]*nanosPerSecond + int64(d.Nanoseconds.Values[index]))
}

func (d *Durations) HeapSize() (int, int) {
	l0, c0 := d.Seconds.HeapSize()
	l1, c1 := d.Nanoseconds.HeapSize()
	return l0 + l1, c0 + c1
}

func (d *Durations) Borrow() *Durations {
	return &Durations{Seconds: d.Seconds.Borrow(), Nanoseconds: d.Nanoseconds.Borrow()}
}

func (d *Durations) ExtendFromSelf(other *Durations, start, end int) {
	d.Seconds.ExtendFromSelf(other.Seconds, start, end)
	d.Nanoseconds.ExtendFromSelf(other.Nanoseconds, start, end)
}

func (d *Durations) AsBytes(dst []Segment) []Segment {
	return d.Nanoseconds.AsBytes(d.Seconds.AsBytes(dst))
}

func (d *Durations) FromBytes(r *Reader) *Durations {
	secs := d.Seconds.FromBytes(r)
	return &Durations{Seconds: secs, Nanoseconds: d.Nanoseconds.FromBytes(r)}
}
