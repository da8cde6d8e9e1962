package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kk7ds/chirp-winbuild/internal/logger"
	"github.com/kk7ds/chirp-winbuild/internal/repository/report"
)

// Manifest lists the produced release files with their checksums, so an
// upload of the artifacts can be verified downstream.
type Manifest struct {
	// VersionNumber is the application version of this release.
	VersionNumber string `yaml:"version"`
	// Files maps artifact names to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
}

// writeManifest persists the release manifest next to the artifacts.
func (b *builder) writeManifest(ctx context.Context, artifacts []report.Artifact) error {
	manifest := Manifest{
		VersionNumber: b.version,
		Files:         make(map[string]string, len(artifacts)),
	}

	for _, artifact := range artifacts {
		manifest.Files[filepath.Base(artifact.Path)] = artifact.Checksum
	}

	contents, err := yaml.Marshal(manifest)
	if err != nil {
		return stepFailed(stepManifest, err)
	}

	path := filepath.Join(b.outDir, fmt.Sprintf("chirp-%s-manifest.yaml", b.version))
	logger.InfoKV(ctx, "Writing release manifest", "path", path)

	if err = os.WriteFile(path, contents, 0o644); err != nil {
		return stepFailed(stepManifest, err)
	}

	return nil
}
