package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// FileCutoff stores the cutoff as a single timestamp in a text file.
type FileCutoff struct {
	path string
}

func NewFileCutoff(path string) *FileCutoff {
	return &FileCutoff{path: path}
}

func (c *FileCutoff) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cutoff: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write replaces the previous value.
func (c *FileCutoff) Write(_ context.Context, value string) error {
	if err := os.WriteFile(c.path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write cutoff: %w", err)
	}
	return nil
}
