// Package encoding turns the segments produced by columnar.AsBytes into a
// flat []uint64 and back.
//
// Two formats are provided. Sequence writes each segment as a length word
// followed by its bytes padded to a multiple of eight, and can only be read
// front to back. Indexed writes a table of end offsets first, so any
// segment can be located without touching the ones before it.
//
// Both formats are schema-free: the reader must already know the shape of
// the container that was written. Words are in host byte order.
//
//	words := encoding.Sequence{}.Encode(nil, events)
//	decoded, err := encoding.Read(encoding.Sequence{}, events.New(), words)
//
// Stash holds either a typed container or its Indexed bytes behind one
// read surface, and Envelope wraps an encoded buffer in a compressed,
// checksummed frame for storage.
package encoding
