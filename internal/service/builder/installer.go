package builder

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/kk7ds/chirp-winbuild/internal/execx"
	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

//go:embed installer.nsi.tmpl
var defaultInstallerTemplate string

// uninstallKeyPrefix is the standard Windows uninstall registry location.
const uninstallKeyPrefix = `Software\Microsoft\Windows\CurrentVersion\Uninstall\`

// installerParams feeds the installer script template. Values are rendered
// verbatim; the template owns quoting.
type installerParams struct {
	// Version is the application version string.
	Version string
	// OutputFile is the setup executable the compiler must produce.
	OutputFile string
	// StagingDir is the fully populated staging tree to include.
	StagingDir string
	// UninstallKey is the registry key for the uninstall entry.
	UninstallKey string
}

// appGUID is derived from the project domain, so it is stable across
// releases and every installer updates the same uninstall entry.
func appGUID() string {
	id := uuid.NewSHA1(uuid.NameSpaceDNS, []byte("chirp.danplanet.com"))

	return "{" + strings.ToUpper(id.String()) + "}"
}

// installerName is the versioned name of the setup executable.
func (b *builder) installerName() string {
	return fmt.Sprintf("chirp-%s-installer.exe", b.version)
}

// buildInstaller renders the installer script from the template, normalizes
// it to DOS line endings and feeds it to the external installer compiler.
func (b *builder) buildInstaller(ctx context.Context) error {
	script := filepath.Join(b.outDir, fmt.Sprintf("chirp-%s-installer.nsi", b.version))
	output := filepath.Join(b.outDir, b.installerName())

	text, err := b.renderInstallerScript(output)
	if err != nil {
		return stepFailed(stepInstaller, err)
	}

	logger.InfoKV(ctx, "Writing installer script", "path", script)

	if err = os.WriteFile(script, []byte(text), 0o644); err != nil {
		return stepFailed(stepInstaller, err)
	}

	logger.InfoKV(ctx, "Running installer compiler", "compiler", b.cfg.InstallerCompiler)

	cmd := execx.Command{
		Name:    b.cfg.InstallerCompiler,
		Args:    []string{script},
		Env:     b.cfg.Environ(),
		Timeout: b.cfg.Timeout,
	}

	if err = b.run.Run(ctx, cmd); err != nil {
		return stepFailed(stepInstaller, err)
	}

	if _, err = os.Stat(output); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%s: %w", output, errInstallerMissing)
		}

		return stepFailed(stepInstaller, err)
	}

	b.artifacts = append(b.artifacts, output)

	return nil
}

// renderInstallerScript fills the installer template with the version and
// output paths. The installer compiler expects DOS line endings, so the
// rendered script is normalized to CRLF.
func (b *builder) renderInstallerScript(outputFile string) (string, error) {
	text := defaultInstallerTemplate

	if b.cfg.InstallerTemplate != "" {
		contents, err := os.ReadFile(filepath.Clean(b.cfg.InstallerTemplate))
		if err != nil {
			return "", fmt.Errorf("read installer template: %w", err)
		}

		text = string(contents)
	}

	tmpl, err := template.New("installer").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse installer template: %w", err)
	}

	params := installerParams{
		Version:      b.version,
		OutputFile:   outputFile,
		StagingDir:   b.staging,
		UninstallKey: uninstallKeyPrefix + appGUID(),
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render installer template: %w", err)
	}

	return toCRLF(buf.String()), nil
}

// toCRLF normalizes any mix of line endings to CRLF.
func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	return strings.ReplaceAll(s, "\n", "\r\n")
}
