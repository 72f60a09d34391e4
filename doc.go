// Package columnar stores collections of structured records column by
// column: one or a few flat buffers per leaf field instead of one
// allocation per record.
//
// A container for a struct of a string, a list of integers and an optional
// float holds three byte-wise flat buffers plus bounds and a bitmap, no
// matter how many records it holds. The buffers project to aligned byte
// segments and back without copying, so a container can be written to a
// file, mapped back in and read in place.
//
// # Architecture
//
// Containers compose. Every container satisfies the same capability
// contracts (Len, Push, Clear, Get, HeapSize, AsBytes, FromBytes), and the
// composite containers are generic over their inner columns:
//
//  1. Leaves: Primitives for fixed width scalars, Bools packed 64 per word,
//     Empties, Durations, Strings.
//  2. Sums: Results and Options dispatch over a RankSelect bitmap, so each
//     variant lives in its own dense column.
//  3. Sequences: Vecs store cumulative bounds over a flattened inner column
//     and return Slice views.
//  4. Products: Tuple2, Tuple3 and fixed width Arrays.
//
// # Quick Start
//
//	import "github.com/ajitpratap0/columnar/pkg/columnar"
//
//	names := columnar.NewStrings()
//	names.Extend([]string{"alpha", "beta"})
//
//	scores := columnar.NewOptions[float64, float64](columnar.NewPrimitives[float64]())
//	scores.PushSome(1.5)
//	scores.PushNone()
//
//	words := encoding.Sequence{}.Encode(nil, names)
//	decoded, err := encoding.Read(encoding.Sequence{}, columnar.NewStrings(), words)
//
// # Key Packages
//
//	pkg/columnar     - Containers, capability contracts and the byte protocol
//	pkg/encoding     - Sequence and Indexed wire formats, Stash, envelopes
//	pkg/compression  - Block compressors for sealed envelopes
//	pkg/formats      - Arrow arrays, Arrow IPC, Parquet and Avro export
//	pkg/sink         - File, S3, GCS and Kafka delivery with retries
//	pkg/mmap         - Memory mapped, word aligned file reads
//	pkg/config       - YAML configuration with environment substitution
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics
//	pkg/tracing      - OpenTelemetry tracing
//
// # Command Line
//
// cmd/columnar generates synthetic events, writes them encoded and sealed,
// and inspects, exports or publishes the result:
//
//	columnar generate --rows 1000000 --chunk-rows 250000 --out data/
//	columnar inspect data/events-00000.clmn --head 3
//	columnar export data/events-00000.clmn --format parquet
//	columnar publish data/*.clmn --sink s3
//
// # Configuration
//
// Settings come from a YAML file, COLUMNAR_ environment variables and
// flags, in increasing priority. Environment variables are supported in the
// file with ${VAR_NAME} and ${VAR_NAME:-default} syntax.
package columnar
