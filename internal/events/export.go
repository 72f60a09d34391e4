package events

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/formats"
)

// Schema is the Arrow schema of Record. Outcome is flattened into a kind
// column plus one nullable column per payload, since neither Parquet nor
// Avro exports carry Arrow unions.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "name", Type: arrow.BinaryTypes.LargeString},
	{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.LargeString)},
	{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "outcome_kind", Type: arrow.BinaryTypes.String},
	{Name: "outcome_code", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
	{Name: "outcome_reason", Type: arrow.BinaryTypes.LargeString, Nullable: true},
	{Name: "status", Type: arrow.BinaryTypes.String},
	{Name: "took_ns", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// Record converts the container into an Arrow record batch. Fixed-width
// and string columns share memory with e, so the record must be released
// before e is cleared or pushed to.
func (e *Events) Record() (arrow.Record, error) {
	tags, err := formats.StringListsArray(e.Tags)
	if err != nil {
		return nil, err
	}

	mem := memory.NewGoAllocator()
	kinds := array.NewStringBuilder(mem)
	defer kinds.Release()
	reasons := array.NewLargeStringBuilder(mem)
	defer reasons.Release()
	statuses := array.NewStringBuilder(mem)
	defer statuses.Release()
	codes := columnar.NewOptions[uint32, uint32](columnar.NewPrimitives[uint32]())

	n := e.Len()
	kinds.Reserve(n)
	reasons.Reserve(n)
	statuses.Reserve(n)
	for i := 0; i < n; i++ {
		o := e.Outcomes.Get(i)
		kinds.Append(o.Kind.String())
		if o.Kind == OutcomeAccepted {
			codes.PushSome(o.Code)
		} else {
			codes.PushNone()
		}
		if o.Kind == OutcomeRejected {
			reasons.Append(o.Reason)
		} else {
			reasons.AppendNull()
		}
		statuses.Append(e.Statuses.Get(i).String())
	}

	columns := []arrow.Array{
		formats.PrimitivesArray(e.IDs),
		formats.StringsArray(e.Names),
		tags,
		formats.OptionsArray(e.Scores),
		kinds.NewArray(),
		formats.OptionsArray(codes),
		reasons.NewArray(),
		statuses.NewArray(),
		formats.DurationsArray(e.Took),
	}
	defer func() {
		for _, c := range columns {
			c.Release()
		}
	}()

	return formats.NewRecord(Schema.Fields(), columns)
}
