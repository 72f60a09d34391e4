// Package columnar lays out collections of structured values as a small
// number of contiguous buffers, one or a few per leaf field, instead of one
// allocation per value.
//
// # Overview
//
// A logical value such as a string, a []int32, an Option or a Result is
// pushed into a container. The container splits it into leaf buffers:
//   - Primitives keeps fixed width scalars in one slice
//   - Strings keeps cumulative end offsets plus one byte blob
//   - Vecs keeps cumulative end offsets plus one inner container
//   - Options and Results keep a RankSelect bitmap plus one column per variant
//   - Bools packs 64 values per word
//
// Reading goes the other way. Get(i) projects the buffers back into a
// per-value reference: a scalar, a string, a Slice view over a nested
// container, an Option or a Result.
//
// # Composition
//
// Every container is a pointer type satisfying Column[T, R, C], where T is
// the pushed value, R the reference returned by Get and C the container
// itself. Composite containers take their inner columns as type parameters,
// so a column of []string is
//
//	names := columnar.NewVecs[string, string](columnar.NewStrings())
//	names.Push([]string{"a", "b"})
//	names.Get(0).Get(1) // "b"
//
// and a column of results whose errors are strings is
//
//	rs := columnar.NewResults[uint64, uint64, string, string](
//		columnar.NewPrimitives[uint64](), columnar.NewStrings())
//	rs.Push(columnar.Ok[uint64, string](3))
//
// # Bytes
//
// AsBytes walks a container tree and appends one Segment per leaf buffer in
// declaration order. FromBytes, called on a prototype of the same shape,
// consumes the same segments in the same order and returns a view over them
// without copying slice-backed leaves. The two must stay in lock-step: a
// mismatch is not detected and produces garbage. Package encoding turns a
// segment list into a flat []uint64 and back.
//
// # Contract violations
//
// Out of range indexes, misaligned or mis-sized byte input, exhausted
// segment readers and narrowing overflow panic with an *errors.Error from
// pkg/errors. Containers are not safe for concurrent mutation; concurrent
// readers of a container that is not being mutated are fine.
package columnar
