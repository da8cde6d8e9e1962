package builder

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

// archiveName is the versioned name of the release ZIP.
func (b *builder) archiveName() string {
	return fmt.Sprintf("chirp-%s-win32.zip", b.version)
}

// archive compresses the fully staged tree into the release ZIP.
func (b *builder) archive(ctx context.Context) error {
	output := filepath.Join(b.outDir, b.archiveName())

	logger.InfoKV(ctx, "Creating release archive", "path", output)

	if err := zipTree(output, b.staging); err != nil {
		return stepFailed(stepArchive, err)
	}

	b.artifacts = append(b.artifacts, output)

	return nil
}

// zipTree compresses the directory into a ZIP with maximum deflate
// compression. Entry names are relative to root, so extraction reproduces
// the staged layout without a wrapper folder.
func zipTree(output, root string) error {
	archive, err := os.Create(filepath.Clean(output))
	if err != nil {
		return err
	}

	zipWriter := zip.NewWriter(archive)
	zipWriter.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}

		header.Name = filepath.ToSlash(relative)
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}

		defer func() {
			_ = in.Close()
		}()

		_, err = io.Copy(writer, in)

		return err
	})
	if err != nil {
		_ = zipWriter.Close()
		_ = archive.Close()
		// A truncated file must not survive under the release name.
		_ = os.Remove(output)

		return err
	}

	if err = zipWriter.Close(); err != nil {
		_ = archive.Close()
		_ = os.Remove(output)

		return err
	}

	if err = archive.Close(); err != nil {
		_ = os.Remove(output)

		return err
	}

	return nil
}
