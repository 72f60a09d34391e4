package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

func getAvroCompression(compression string) string {
	switch compression {
	case "snappy":
		return goavro.CompressionSnappyLabel
	case "deflate", "gzip":
		return goavro.CompressionDeflateLabel
	default:
		return goavro.CompressionNullLabel
	}
}

// avroType maps an Arrow type to the Avro type name used for it.
func avroType(dt arrow.DataType) (interface{}, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return "boolean", nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.UINT8, arrow.UINT16:
		return "int", nil
	case arrow.INT64, arrow.UINT32, arrow.UINT64:
		return "long", nil
	case arrow.FLOAT32:
		return "float", nil
	case arrow.FLOAT64:
		return "double", nil
	case arrow.STRING, arrow.LARGE_STRING:
		return "string", nil
	case arrow.LIST, arrow.LARGE_LIST:
		items, err := avroType(dt.(arrow.ListLikeType).Elem())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"type": "array", "items": items}, nil
	default:
		return nil, errors.New(errors.ErrorTypeUnsupported, "no avro mapping for arrow type").
			WithDetail("type", dt.String())
	}
}

// AvroSchema derives an Avro record schema from an Arrow schema. Nullable
// fields become unions with null.
func AvroSchema(name string, schema *arrow.Schema) (string, error) {
	fields := make([]map[string]interface{}, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		t, err := avroType(field.Type)
		if err != nil {
			return "", err
		}
		if field.Nullable {
			t = []interface{}{"null", t}
		}
		fields = append(fields, map[string]interface{}{"name": field.Name, "type": t})
	}

	schemaBytes, err := json.Marshal(map[string]interface{}{
		"type":   "record",
		"name":   name,
		"fields": fields,
	})
	if err != nil {
		return "", err
	}
	return string(schemaBytes), nil
}

// arrowValue reads one value in the native form goavro expects.
func arrowValue(col arrow.Array, row int) interface{} {
	if col.IsNull(row) {
		return nil
	}

	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(row)
	case *array.Int8:
		return int32(c.Value(row))
	case *array.Int16:
		return int32(c.Value(row))
	case *array.Int32:
		return c.Value(row)
	case *array.Uint8:
		return int32(c.Value(row))
	case *array.Uint16:
		return int32(c.Value(row))
	case *array.Int64:
		return c.Value(row)
	case *array.Uint32:
		return int64(c.Value(row))
	case *array.Uint64:
		return int64(c.Value(row))
	case *array.Float32:
		return c.Value(row)
	case *array.Float64:
		return c.Value(row)
	case *array.String:
		return c.Value(row)
	case *array.LargeString:
		return c.Value(row)
	case array.ListLike:
		start, end := c.ValueOffsets(row)
		items := make([]interface{}, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, arrowValue(c.ListValues(), int(i)))
		}
		return items
	default:
		return nil
	}
}

func writeAvro(w io.Writer, rec arrow.Record, config WriterConfig) error {
	schema, err := AvroSchema("record", rec.Schema())
	if err != nil {
		return err
	}
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return err
	}
	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: getAvroCompression(config.Compression),
	})
	if err != nil {
		return err
	}

	fields := rec.Schema().Fields()
	batch := make([]interface{}, 0, config.BatchSize)
	for row := 0; row < int(rec.NumRows()); row++ {
		datum := make(map[string]interface{}, len(fields))
		for i, field := range fields {
			v := arrowValue(rec.Column(i), row)
			if field.Nullable && v != nil {
				t, _ := avroType(field.Type)
				if name, ok := t.(string); ok {
					v = goavro.Union(name, v)
				} else {
					v = goavro.Union("array", v)
				}
			}
			datum[field.Name] = v
		}
		batch = append(batch, datum)

		if len(batch) == config.BatchSize {
			if err := ocfWriter.Append(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return ocfWriter.Append(batch)
	}
	return nil
}
