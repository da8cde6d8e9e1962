package builder

import (
	"context"
	"path/filepath"

	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

// copyRuntime copies the GTK runtime subdirectories into the staging tree
// so the frozen executable finds the toolkit's shared libraries and
// resources without a separate GTK installation on the target machine.
func (b *builder) copyRuntime(ctx context.Context) error {
	for _, dir := range b.cfg.GTKRuntimeDirs {
		source := filepath.Join(b.cfg.GTKRoot, dir)
		destination := filepath.Join(b.staging, dir)

		logger.InfoKV(ctx, "Copying GTK runtime", "source", source, "destination", destination)

		if err := copyTree(source, destination); err != nil {
			return stepFailed(stepRuntime, err)
		}
	}

	return nil
}
