package main

import (
	"context"
	"os"
)

// fsReader is the default ports.FileReader backing the read-file
// tool: direct os.ReadFile. The core itself never touches the
// filesystem; this is
// the embedding host's concrete choice.
type fsReader struct{}

func (fsReader) Read(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
