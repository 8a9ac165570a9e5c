package source

import (
	"context"
	"fmt"
	"os"

	"github.com/mfriedel/vsimap/pkg/vsi"
)

// FileSource loads the record collection from a JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the given file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source for logs.
func (s *FileSource) Name() string { return s.path }

// Fetch reads and decodes the record file.
func (s *FileSource) Fetch(ctx context.Context) ([]vsi.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	return DecodeRecords(f)
}

// Ensure FileSource implements Source.
var _ Source = (*FileSource)(nil)
