// Package formats exports record batches built from columnar containers to
// interchange formats: Apache Arrow IPC files, Apache Parquet and Avro
// object container files.
//
// Containers are first turned into Arrow arrays with the converters in
// arrow.go, mostly without copying. Arrow IPC writes those buffers as they
// are; Parquet and Avro re-encode them.
//
//	rec, err := events.Record()
//	defer rec.Release()
//	err = formats.Write(f, formats.Parquet, rec, formats.DefaultWriterConfig())
package formats

import (
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

// Format represents an export format
type Format string

const (
	// Arrow is the Apache Arrow IPC file format
	Arrow Format = "arrow"
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Avro is Apache Avro object container format
	Avro Format = "avro"
)

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if GetFormatInfo(f) == nil {
		return "", errors.New(errors.ErrorTypeUnsupported, "unsupported export format").WithDetail("format", s)
	}
	return f, nil
}

// WriterConfig configures export writers
type WriterConfig struct {
	// Compression names the codec: none, snappy, zstd, gzip, lz4 or
	// deflate. Formats fall back to the closest codec they support.
	Compression string `yaml:"compression" json:"compression"`
	// BatchSize bounds rows per Parquet row group and Avro block.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Compression: "snappy",
		BatchSize:   10000,
	}
}

// Write writes rec to w in format.
func Write(w io.Writer, format Format, rec arrow.Record, config WriterConfig) error {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultWriterConfig().BatchSize
	}

	var err error
	switch format {
	case Arrow:
		err = writeArrow(w, rec, config)
	case Parquet:
		err = writeParquet(w, rec, config)
	case Avro:
		err = writeAvro(w, rec, config)
	default:
		return errors.New(errors.ErrorTypeUnsupported, "unsupported export format").WithDetail("format", format)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "export failed").WithDetail("format", format)
	}

	metrics.ExportedRows.WithLabelValues(string(format)).Add(float64(rec.NumRows()))
	logger.Debug("exported record batch",
		zap.String("format", string(format)),
		zap.Int64("rows", rec.NumRows()),
		zap.Int64("columns", rec.NumCols()),
		zap.String("compression", config.Compression))
	return nil
}

// FormatInfo provides information about export formats
type FormatInfo struct {
	Format        Format
	Name          string
	Description   string
	FileExtension string
	MIMEType      string
}

// GetFormatInfo returns information about a format, or nil when it is not
// supported.
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Arrow:
		return &FormatInfo{
			Format:        Arrow,
			Name:          "Apache Arrow",
			Description:   "In-memory columnar format, IPC file encoding",
			FileExtension: ".arrow",
			MIMEType:      "application/vnd.apache.arrow.file",
		}
	case Parquet:
		return &FormatInfo{
			Format:        Parquet,
			Name:          "Apache Parquet",
			Description:   "Columnar storage format optimized for analytics",
			FileExtension: ".parquet",
			MIMEType:      "application/x-parquet",
		}
	case Avro:
		return &FormatInfo{
			Format:        Avro,
			Name:          "Apache Avro",
			Description:   "Row-oriented data serialization format",
			FileExtension: ".avro",
			MIMEType:      "application/x-avro",
		}
	default:
		return nil
	}
}
