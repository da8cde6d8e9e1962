package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kk7ds/chirp-winbuild/internal/config"
	"github.com/kk7ds/chirp-winbuild/internal/execx"
	"github.com/kk7ds/chirp-winbuild/internal/logger"
	"github.com/kk7ds/chirp-winbuild/internal/repository/report"
	"github.com/kk7ds/chirp-winbuild/internal/version"
)

// Mode selects which packaging artifacts are produced after staging.
type Mode string

const (
	// ModeAll produces the release archive and then the installer.
	ModeAll Mode = "all"
	// ModeZip produces only the release archive.
	ModeZip Mode = "zip"
	// ModeInstaller produces only the installer.
	ModeInstaller Mode = "installer"
)

// stagingDirName is the staging tree created under the output directory.
const stagingDirName = "dist"

// Options contains inputs for the packaging entry point.
type Options struct {
	// ConfigPath is an optional path to the pipeline settings YAML.
	ConfigPath string
	// OutputDir is the destination fragment from the command line.
	OutputDir string
	// Mode selects which packaging actions run after staging.
	Mode Mode
}

// builder holds the state for a single packaging run.
// It is unexported, callers should use Run, which encapsulates setup.
type builder struct {
	// cfg holds project layout and external tool settings.
	cfg *config.Config
	// run executes external tools.
	run execx.Runner
	// version is the application version read from the version file.
	version string
	// outDir is the resolved output directory.
	outDir string
	// staging is the dist tree assembled by the stages.
	staging string
	// mode selects the packaging actions.
	mode Mode
	// artifacts collects paths of produced release files.
	artifacts []string
	// startedAt is recorded for the build report.
	startedAt time.Time
}

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	outDir, err := cfg.ResolveOutputDir(opts.OutputDir)
	if err != nil {
		return err
	}

	projectVersion, err := version.ReadProjectVersion(cfg.VersionFile)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Clean(cfg.LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open build log: %w", err)
	}

	defer func() {
		_ = logFile.Close()
	}()

	// Duplicate all log entries into the build log file.
	previous := logger.Logger()
	logger.SetLogger(logger.NewTee(logger.Level(), logFile))

	defer logger.SetLogger(previous)

	// The context logger must be derived after the tee is installed,
	// otherwise stage entries bypass the build log file.
	ctx = logger.WithName(ctx, "chirp-winbuild")

	if err = acquireMarker(ctx); err != nil {
		return err
	}

	defer releaseMarker(ctx)

	runner := &execx.ExecRunner{Output: io.MultiWriter(os.Stdout, logFile)}

	b := newBuilder(cfg, runner, projectVersion, outDir, opts.Mode)
	if err = b.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Packaging failed", "error", err)
		return err
	}

	logger.Info(ctx, "Packaging completed successfully")

	return nil
}

// newBuilder wires a packaging run from its collaborators.
func newBuilder(cfg *config.Config, run execx.Runner, projectVersion, outDir string, mode Mode) *builder {
	return &builder{
		cfg:     cfg,
		run:     run,
		version: projectVersion,
		outDir:  outDir,
		staging: filepath.Join(outDir, stagingDirName),
		mode:    mode,
	}
}

// Run drives the pipeline in its fixed stage order. The staging directory
// must be fully populated before any packaging action consumes it.
func (b *builder) Run(ctx context.Context) error {
	b.startedAt = time.Now().UTC()

	logger.InfoKV(ctx, "Starting packaging pipeline",
		"version", b.version, "output_dir", b.outDir, "mode", b.mode)

	if err := b.buildLocales(ctx); err != nil {
		return err
	}

	if err := b.stageData(ctx); err != nil {
		return err
	}

	if err := b.freeze(ctx); err != nil {
		// Nothing after the native build may run once it fails.
		logger.Error(ctx, "Native build failed, stopping the pipeline")
		return err
	}

	if err := b.copyRuntime(ctx); err != nil {
		return err
	}

	if err := b.dispatch(ctx); err != nil {
		return err
	}

	return b.finish(ctx)
}

// dispatch runs the packaging actions selected by the mode.
func (b *builder) dispatch(ctx context.Context) error {
	switch b.mode {
	case ModeZip:
		return b.archive(ctx)
	case ModeInstaller:
		return b.buildInstaller(ctx)
	case ModeAll, "":
		if err := b.archive(ctx); err != nil {
			return err
		}

		return b.buildInstaller(ctx)
	default:
		return fmt.Errorf("%w: %q", errUnknownMode, b.mode)
	}
}

// finish hashes the produced artifacts, writes the release manifest and
// persists the build report next to the artifacts.
func (b *builder) finish(ctx context.Context) error {
	described := make([]report.Artifact, 0, len(b.artifacts))

	for _, path := range b.artifacts {
		artifact, err := report.DescribeArtifact(path)
		if err != nil {
			return stepFailed(stepManifest, err)
		}

		described = append(described, artifact)
	}

	if err := b.writeManifest(ctx, described); err != nil {
		return err
	}

	repo := report.NewFileRepository(filepath.Join(b.outDir, report.DefaultFilename))

	buildReport := &report.Report{
		Version:    b.version,
		Mode:       string(b.mode),
		StartedAt:  b.startedAt,
		FinishedAt: time.Now().UTC(),
		Artifacts:  described,
	}

	if err := repo.Save(ctx, buildReport); err != nil {
		return stepFailed(stepManifest, err)
	}

	return nil
}
