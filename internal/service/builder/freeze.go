package builder

import (
	"context"

	"github.com/kk7ds/chirp-winbuild/internal/execx"
	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

// freeze invokes the external freeze tool that bundles the application and
// its dependencies into a standalone executable tree inside the staging
// directory. A non-zero exit aborts the whole pipeline: neither packaging
// action may run against a half-frozen tree.
func (b *builder) freeze(ctx context.Context) error {
	argv := b.cfg.FreezeCommand

	// The staging directory is the tool's output location.
	args := append(append([]string{}, argv[1:]...), b.staging)

	logger.InfoKV(ctx, "Running freeze tool", "command", argv[0], "args", args)

	cmd := execx.Command{
		Name:    argv[0],
		Args:    args,
		Env:     b.cfg.Environ(),
		Timeout: b.cfg.Timeout,
	}

	if err := b.run.Run(ctx, cmd); err != nil {
		return stepFailed(stepFreeze, err)
	}

	return nil
}
