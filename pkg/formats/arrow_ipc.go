package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func writeArrow(w io.Writer, rec arrow.Record, config WriterConfig) error {
	opts := []ipc.Option{
		ipc.WithSchema(rec.Schema()),
		ipc.WithAllocator(memory.NewGoAllocator()),
	}
	switch config.Compression {
	case "zstd":
		opts = append(opts, ipc.WithZstd())
	case "lz4", "snappy":
		opts = append(opts, ipc.WithLZ4())
	}

	fw, err := ipc.NewFileWriter(w, opts...)
	if err != nil {
		return err
	}
	for start := int64(0); start < rec.NumRows(); start += int64(config.BatchSize) {
		end := min(start+int64(config.BatchSize), rec.NumRows())
		slice := rec.NewSlice(start, end)
		err := fw.Write(slice)
		slice.Release()
		if err != nil {
			return err
		}
	}
	return fw.Close()
}
