package storage

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads an export from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads the whole file
func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}
	return data, nil
}

// Describe returns the file path
func (s *FileSource) Describe() string {
	return s.path
}
