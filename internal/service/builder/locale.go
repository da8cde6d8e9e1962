package builder

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk7ds/chirp-winbuild/internal/execx"
	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

// buildLocales compiles every localization catalog source found under the
// locale directory, producing <locale>/<lang>/LC_MESSAGES/<domain>.mo for
// each. Compiled catalogs are staged later with the rest of the locale tree.
func (b *builder) buildLocales(ctx context.Context) error {
	pattern := filepath.Join(b.cfg.LocaleDir, "*.po")

	catalogs, err := filepath.Glob(pattern)
	if err != nil {
		return stepFailed(stepLocales, err)
	}

	if len(catalogs) == 0 {
		logger.InfoKV(ctx, "No localization catalogs found", "pattern", pattern)
		return nil
	}

	for _, source := range catalogs {
		lang := strings.TrimSuffix(filepath.Base(source), ".po")
		messagesDir := filepath.Join(b.cfg.LocaleDir, lang, "LC_MESSAGES")

		if err = os.MkdirAll(messagesDir, 0o755); err != nil {
			return stepFailed(stepLocales, err)
		}

		compiled := filepath.Join(messagesDir, b.cfg.LocaleDomain+".mo")
		logger.InfoKV(ctx, "Compiling localization catalog", "source", source, "catalog", compiled)

		cmd := execx.Command{
			Name:    b.cfg.LocaleCompiler,
			Args:    []string{"-o", compiled, source},
			Env:     b.cfg.Environ(),
			Timeout: b.cfg.Timeout,
		}

		if err = b.run.Run(ctx, cmd); err != nil {
			return stepFailed(stepLocales, err)
		}
	}

	return nil
}
