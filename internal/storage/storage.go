// Package storage checks the archive directory that uploader containers
// deliver finished files into.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalDir is a StorageChecker over a mounted archive directory.
type LocalDir struct {
	root string
}

func NewLocalDir(root string) *LocalDir {
	return &LocalDir{root: root}
}

// FileExists reports whether the named file is present in the archive
// directory. A zero-byte file counts as absent: the uploader writes the
// target atomically, so an empty entry is a leftover from a failed run.
func (l *LocalDir) FileExists(ctx context.Context, filename string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if filename == "" {
		return false, errors.New("empty filename")
	}

	clean := filepath.Join(l.root, filepath.Base(strings.TrimSpace(filename)))

	info, err := os.Stat(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %q: %w", clean, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%q is a directory, expected a file", clean)
	}
	return info.Size() > 0, nil
}
