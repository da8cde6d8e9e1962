package integration

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kk7ds/chirp-winbuild/internal/config"
	"github.com/kk7ds/chirp-winbuild/internal/service/builder"
)

// writeTool creates an executable shell script standing in for an external tool.
func writeTool(t *testing.T, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))

	return path
}

// TestPipeline_EndToEnd runs the whole pipeline against a fake toolchain and
// verifies every artifact lands where the version and output dir dictate.
func TestPipeline_EndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell tools")
	}

	// Setup a minimal project checkout and chdir into it.
	project := t.TempDir()
	chdir(t, project)

	require.NoError(t, os.WriteFile("VERSION", []byte("2.0.0\n"), 0o644))
	require.NoError(t, os.WriteFile("COPYING", []byte("GPLv3\n"), 0o644))
	require.NoError(t, os.WriteFile("chirp.xsd", []byte("<schema/>\n"), 0o644))
	require.NoError(t, os.MkdirAll("stock_configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("stock_configs", "us.csv"), []byte("freq\n"), 0o644))
	require.NoError(t, os.MkdirAll("locale", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("locale", "de.po"), []byte("msgid\n"), 0o644))

	gtk := filepath.Join(project, "gtk-runtime")
	for _, dir := range []string{"etc", "lib", "share"} {
		require.NoError(t, os.MkdirAll(filepath.Join(gtk, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(gtk, dir, dir+".dat"), []byte(dir), 0o644))
	}

	// Fake toolchain: catalog compiler, freeze tool, installer compiler.
	tools := filepath.Join(project, "tools")
	require.NoError(t, os.MkdirAll(tools, 0o755))

	msgfmt := writeTool(t, tools, "msgfmt", `[ "$1" = "-o" ] && : > "$2"`)
	freeze := writeTool(t, tools, "freeze", `mkdir -p "$1" && : > "$1/chirpw.exe"`)
	makensis := writeTool(t, tools, "makensis",
		`out="$(tr -d '\r' < "$1" | sed -n 's/^OutFile "\(.*\)"$/\1/p')"; : > "$out"`)

	cfg := config.Default()
	cfg.OutputRoot = ""
	cfg.GTKRoot = gtk
	cfg.LocaleCompiler = msgfmt
	cfg.FreezeCommand = []string{freeze}
	cfg.InstallerCompiler = makensis
	cfg.Timeout = time.Minute

	cfgPath := filepath.Join(project, "settings.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	outDir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := builder.Run(ctx, &builder.Options{
		ConfigPath: cfgPath,
		OutputDir:  outDir,
		Mode:       builder.ModeAll,
	})
	require.NoError(t, err)

	// Versioned artifacts, manifest, report and build log all exist.
	require.FileExists(t, filepath.Join(outDir, "chirp-2.0.0-win32.zip"))
	require.FileExists(t, filepath.Join(outDir, "chirp-2.0.0-installer.exe"))
	require.FileExists(t, filepath.Join(outDir, "chirp-2.0.0-manifest.yaml"))
	require.FileExists(t, filepath.Join(outDir, "chirp-build-report.json"))

	// The build log file carries the pipeline entries, not only tool output.
	logContents, err := os.ReadFile(filepath.Join(project, config.DefaultLogFilename))
	require.NoError(t, err)
	require.Contains(t, string(logContents), "Starting packaging pipeline")
	require.Contains(t, string(logContents), "Creating release archive")

	// The archive carries the staged layout, the frozen executable and the
	// GTK runtime without a wrapper folder.
	reader, err := zip.OpenReader(filepath.Join(outDir, "chirp-2.0.0-win32.zip"))
	require.NoError(t, err)

	defer func() {
		_ = reader.Close()
	}()

	names := make(map[string]bool, len(reader.File))
	for _, f := range reader.File {
		names[f.Name] = true
	}

	require.True(t, names["COPYING"])
	require.True(t, names["chirpw.exe"])
	require.True(t, names["etc/etc.dat"])
	require.True(t, names["locale/de/LC_MESSAGES/CHIRP.mo"])
}

// TestPipeline_ZipOnly verifies the installer compiler is never touched in
// archive-only mode.
func TestPipeline_ZipOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell tools")
	}

	project := t.TempDir()
	chdir(t, project)

	require.NoError(t, os.WriteFile("VERSION", []byte("2.0.0\n"), 0o644))
	require.NoError(t, os.WriteFile("COPYING", []byte("GPLv3\n"), 0o644))

	gtk := filepath.Join(project, "gtk-runtime")
	for _, dir := range []string{"etc", "lib", "share"} {
		require.NoError(t, os.MkdirAll(filepath.Join(gtk, dir), 0o755))
	}

	tools := filepath.Join(project, "tools")
	require.NoError(t, os.MkdirAll(tools, 0o755))

	freeze := writeTool(t, tools, "freeze", `mkdir -p "$1"`)
	// An installer compiler invocation would leave a trace file.
	makensis := writeTool(t, tools, "makensis", `: > invoked-makensis`)

	cfg := config.Default()
	cfg.OutputRoot = ""
	cfg.GTKRoot = gtk
	cfg.StagedPaths = []string{"COPYING"}
	cfg.FreezeCommand = []string{freeze}
	cfg.InstallerCompiler = makensis
	cfg.Timeout = time.Minute

	cfgPath := filepath.Join(project, "settings.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	outDir := t.TempDir()

	err := builder.Run(context.Background(), &builder.Options{
		ConfigPath: cfgPath,
		OutputDir:  outDir,
		Mode:       builder.ModeZip,
	})
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(outDir, "chirp-2.0.0-win32.zip"))
	require.NoFileExists(t, filepath.Join(outDir, "chirp-2.0.0-installer.exe"))
	require.NoFileExists(t, filepath.Join(project, "invoked-makensis"))
}
