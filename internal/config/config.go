package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the packaging pipeline needs to know about the
// project layout and the external tools it drives.
type Config struct {
	// OutputRoot is the fixed filesystem prefix joined to relative
	// destination fragments given on the command line.
	OutputRoot string `yaml:"output_root"`
	// VersionFile is the plain-text file holding the application version.
	VersionFile string `yaml:"version_file"`
	// LocaleDir is the directory containing localization catalog sources.
	LocaleDir string `yaml:"locale_dir"`
	// LocaleCompiler is the external catalog compiler (msgfmt-style).
	LocaleCompiler string `yaml:"locale_compiler"`
	// LocaleDomain is the base name of compiled catalogs.
	LocaleDomain string `yaml:"locale_domain"`
	// StagedPaths are globs copied into the staging directory.
	StagedPaths []string `yaml:"staged_paths"`
	// FreezeCommand is the external freeze tool invocation; the staging
	// directory is appended as its final argument.
	FreezeCommand []string `yaml:"freeze_command"`
	// GTKRoot is the GTK runtime installation root.
	GTKRoot string `yaml:"gtk_root"`
	// GTKRuntimeDirs are subdirectories of GTKRoot copied into staging.
	GTKRuntimeDirs []string `yaml:"gtk_runtime_dirs"`
	// InstallerCompiler is the path to the external installer compiler.
	InstallerCompiler string `yaml:"installer_compiler"`
	// InstallerTemplate optionally overrides the built-in installer script
	// template.
	InstallerTemplate string `yaml:"installer_template"`
	// LogFile is the build log written in the working directory.
	LogFile string `yaml:"log_file"`
	// Timeout bounds each external tool invocation.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "chirp-winbuild.yaml"

	// DefaultOutputRoot is the drive where release artifacts are collected.
	DefaultOutputRoot = `Z:\`

	// DefaultVersionFile is the project-relative version file.
	DefaultVersionFile = "VERSION"

	// DefaultLogFilename is the build log written in the working directory.
	DefaultLogFilename = "chirp-winbuild.log"

	// DefaultTimeout is the per-tool execution limit. Freezing a full
	// application tree is slow, so this is generous.
	DefaultTimeout = 15 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// libraryPathVar is the search path the GTK runtime libraries are
	// injected into for subprocesses.
	libraryPathVar = "LD_LIBRARY_PATH"
)

var (
	// ErrOutputDirRequired is returned when no destination fragment is given.
	ErrOutputDirRequired = errors.New("output directory must be provided")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errFreezeCommandRequired is returned when the freeze tool is unset.
	errFreezeCommandRequired = errors.New("freeze command must be provided")
	// errGTKRootRequired is returned when the GTK runtime root is unset.
	errGTKRootRequired = errors.New("GTK runtime root must be provided")
)

// Default returns the configuration used when no settings file exists.
func Default() *Config {
	return &Config{
		OutputRoot:     DefaultOutputRoot,
		VersionFile:    DefaultVersionFile,
		LocaleDir:      "locale",
		LocaleCompiler: "msgfmt",
		LocaleDomain:   "CHIRP",
		StagedPaths: []string{
			"COPYING",
			"*.xsd",
			"stock_configs",
			"locale",
		},
		FreezeCommand:     []string{"python", "setup.py", "py2exe"},
		GTKRoot:           `C:\GTK`,
		GTKRuntimeDirs:    []string{"etc", "lib", "share"},
		InstallerCompiler: `C:\Program Files (x86)\NSIS\makensis.exe`,
		LogFile:           DefaultLogFilename,
		Timeout:           DefaultTimeout,
	}
}

// Load reads configuration from the provided path and validates essential
// fields. A missing file at the default path yields the default
// configuration; an explicitly requested file must exist. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No settings file, defaults apply.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for required fields and fills
// in defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if len(cfg.FreezeCommand) == 0 {
		return errFreezeCommandRequired
	}

	if cfg.GTKRoot == "" {
		return errGTKRootRequired
	}

	if cfg.VersionFile == "" {
		cfg.VersionFile = DefaultVersionFile
	}

	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFilename
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

// ResolveOutputDir combines the destination fragment from the command line
// with the configured output root. Absolute fragments are used as-is.
func (c *Config) ResolveOutputDir(fragment string) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", ErrOutputDirRequired
	}

	if filepath.IsAbs(fragment) || c.OutputRoot == "" {
		return filepath.Clean(fragment), nil
	}

	return filepath.Join(c.OutputRoot, fragment), nil
}

// Environ returns the process environment with the GTK runtime prepended to
// the binary and library search paths, so the frozen application and the
// external tools resolve the toolkit's shared libraries.
func (c *Config) Environ() []string {
	return environWith(os.Environ(), c.GTKRoot)
}

// environWith is the testable core of Environ.
func environWith(env []string, gtkRoot string) []string {
	prepends := map[string]string{
		"PATH":         filepath.Join(gtkRoot, "bin"),
		libraryPathVar: filepath.Join(gtkRoot, "lib"),
	}

	out := make([]string, 0, len(env)+len(prepends))

	for _, entry := range env {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			out = append(out, entry)
			continue
		}

		if prefix, ok := prepends[key]; ok {
			out = append(out, key+"="+prefix+string(os.PathListSeparator)+value)
			delete(prepends, key)

			continue
		}

		out = append(out, entry)
	}

	// Variables absent from the parent environment.
	for key, prefix := range prepends {
		out = append(out, key+"="+prefix)
	}

	return out
}

// applyEnvOverrides lets the environment (optionally seeded from a .env
// file) override machine-specific paths without editing the settings file.
func applyEnvOverrides(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	overrides := map[string]*string{
		"CHIRP_WINBUILD_OUTPUT_ROOT":        &cfg.OutputRoot,
		"CHIRP_WINBUILD_VERSION_FILE":       &cfg.VersionFile,
		"CHIRP_WINBUILD_GTK_ROOT":           &cfg.GTKRoot,
		"CHIRP_WINBUILD_INSTALLER_COMPILER": &cfg.InstallerCompiler,
	}

	for name, target := range overrides {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			*target = value
		}
	}

	return nil
}
