package builder

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

// stageData creates the staging directory and copies the configured data
// files into it: the license text, schema files, the configuration template
// directory and the compiled locale tree. Creation is idempotent so a
// rebuild into the same output directory works.
func (b *builder) stageData(ctx context.Context) error {
	logger.InfoKV(ctx, "Creating staging directory", "path", b.staging)

	if err := os.MkdirAll(b.staging, 0o755); err != nil {
		return stepFailed(stepStage, err)
	}

	for _, pattern := range b.cfg.StagedPaths {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return stepFailed(stepStage, err)
		}

		if len(matches) == 0 {
			return stepFailed(stepStage, fmt.Errorf("%q: %w", pattern, errNothingToStage))
		}

		for _, source := range matches {
			destination := filepath.Join(b.staging, filepath.Base(source))
			logger.InfoKV(ctx, "Staging", "source", source, "destination", destination)

			if err = copyTree(source, destination); err != nil {
				return stepFailed(stepStage, err)
			}
		}
	}

	return nil
}

// copyTree copies a file or a directory tree, preserving file modes.
func copyTree(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(source, destination, info.Mode())
	}

	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		target := filepath.Join(destination, relative)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		fileInfo, err := entry.Info()
		if err != nil {
			return err
		}

		return copyFile(path, target, fileInfo.Mode())
	})
}

// copyFile copies a single regular file.
func copyFile(source, destination string, mode fs.FileMode) error {
	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(destination), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy %s: %w", source, err)
	}

	return out.Close()
}
