package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	ld := NewLocalDir(dir)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vid1.mp4"), []byte("data"), 0o644))

	ok, err := ld.FileExists(ctx, "vid1.mp4")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ld.FileExists(ctx, "absent.mp4")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileExists_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	ld := NewLocalDir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vid2.mp4"), []byte("data"), 0o644))

	// Job filenames may arrive with the container mount path attached.
	ok, err := ld.FileExists(context.Background(), "/download/vid2.mp4")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFileExists_ZeroByteCountsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	ld := NewLocalDir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.mp4"), nil, 0o644))

	ok, err := ld.FileExists(context.Background(), "empty.mp4")
	require.NoError(t, err)
	require.False(t, ok)
}
