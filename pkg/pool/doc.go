// Package pool provides typed object pooling for the encoding and
// compression paths.
//
// The package offers:
//   - Generic type-safe object pooling with Pool[T]
//   - Bucketed pools of word buffers, the unit of the encoded form
//   - A shared pool of bytes.Buffer for compressors and sinks
//   - Hit/miss statistics for every global pool
//
// Basic Usage
//
//	buf := pool.GetBuffer()
//	defer pool.PutBuffer(buf)
//
//	words := pool.GlobalWordPool.Get(n)
//	defer pool.GlobalWordPool.Put(words)
//
// Custom pools take a factory and an optional reset function:
//
//	p := pool.New(
//		func() *columnar.Strings { return columnar.NewStrings() },
//		func(s *columnar.Strings) { s.Clear() },
//	)
//	s := p.Get()
//	defer p.Put(s)
//
// Pooled values must not be used after Put. Containers obtained from a
// pool keep their capacity across uses, which is the point: Clear keeps
// allocations, so a pooled container rebuilt to a similar size does not
// allocate at all.
package pool
