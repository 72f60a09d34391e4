package main

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/internal/events"
	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/mmap"
)

// fileExtension is the extension of encoded event files.
const fileExtension = ".clmn"

// chunkPath names the i-th encoded chunk under dir.
func chunkPath(dir, prefix string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%05d%s", prefix, i, fileExtension))
}

// loaded is an encoded events file opened for reading. Events may alias
// the file mapping, so it is only valid until close.
type loaded struct {
	Events *events.Events
	Header *encoding.Header
	Size   int64
	reader *mmap.Reader
}

func (l *loaded) close() error { return l.reader.Close() }

// loadEvents maps path and decodes it with format. Sealed files are
// decompressed into fresh memory, plain files decode in place.
func loadEvents(path string, format encoding.Format) (*loaded, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	l := &loaded{Size: r.Size(), reader: r}

	var words []uint64
	if data := r.Bytes(); encoding.IsEnvelope(data) {
		h, err := encoding.ParseHeader(data)
		if err != nil {
			r.Close()
			return nil, err
		}
		l.Header = &h
		if words, err = encoding.Open(data); err != nil {
			r.Close()
			return nil, err
		}
	} else if words, err = r.Words(); err != nil {
		r.Close()
		return nil, err
	}

	if l.Events, err = encoding.Read(format, events.New(), words); err != nil {
		r.Close()
		return nil, err
	}
	logger.Debug("loaded events",
		zap.String("path", path),
		zap.Int("rows", l.Events.Len()),
		zap.Bool("sealed", l.Header != nil))
	return l, nil
}
