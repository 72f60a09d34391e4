package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// FileConfig configures the directory sink.
type FileConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// File writes each object to Dir/Key. Writes go through a temporary file
// and a rename, so readers never see a partial object.
type File struct {
	dir string
}

// NewFile creates cfg.Dir if needed.
func NewFile(cfg FileConfig) (*File, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create sink directory").WithDetail("dir", cfg.Dir)
	}
	return &File{dir: cfg.Dir}, nil
}

func (f *File) Name() string { return string(KindFile) }

// Put writes obj. Keys may contain slashes but must stay inside the
// directory.
func (f *File) Put(ctx context.Context, obj Object) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeTimeout, "put cancelled")
	}
	path := filepath.Join(f.dir, filepath.FromSlash(obj.Key))
	if rel, err := filepath.Rel(f.dir, path); err != nil || rel == "." || !filepath.IsLocal(rel) {
		return errors.New(errors.ErrorTypeValidation, "object key escapes sink directory").WithDetail("key", obj.Key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create object directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(obj.Body); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write object").WithDetail("key", obj.Key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close object").WithDetail("key", obj.Key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to rename object").WithDetail("key", obj.Key)
	}
	return nil
}

func (f *File) Close() error { return nil }
