package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_Roundtrip verifies a report survives save and load.
func TestFileRepository_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	repo := NewFileRepository(path)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	rep := &Report{
		Version:    "1.2.3",
		Mode:       "all",
		StartedAt:  now,
		FinishedAt: now.Add(time.Minute),
		Artifacts: []Artifact{
			{Path: "chirp-1.2.3-win32.zip", Checksum: "abc=", Size: 42},
		},
	}

	require.NoError(t, repo.Save(ctx, rep))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, rep, loaded)
}

// TestFileRepository_LoadMissing verifies ErrNotFound before the first save.
func TestFileRepository_LoadMissing(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), DefaultFilename))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileChecksum verifies checksums are stable and content-sensitive.
func TestFileChecksum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.zip")
	require.NoError(t, os.WriteFile(path, []byte("release contents"), 0o600))

	first, err := FileChecksum(path)
	require.NoError(t, err)

	second, err := FileChecksum(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	other := filepath.Join(dir, "other.zip")
	require.NoError(t, os.WriteFile(other, []byte("different contents"), 0o600))

	third, err := FileChecksum(other)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}

// TestDescribeArtifact verifies path, size and encoded checksum are filled.
func TestDescribeArtifact(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "setup.exe")
	contents := []byte("installer bytes")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	artifact, err := DescribeArtifact(path)
	require.NoError(t, err)
	require.Equal(t, path, artifact.Path)
	require.Equal(t, int64(len(contents)), artifact.Size)
	require.NotEmpty(t, artifact.Checksum)
}
