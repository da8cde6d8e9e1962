package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kk7ds/chirp-winbuild/internal/logger"
	"github.com/kk7ds/chirp-winbuild/internal/service/builder"
	"github.com/kk7ds/chirp-winbuild/internal/version"
)

var (
	// configPath to the pipeline settings YAML file.
	configPath string

	// logLevel for console and build log output.
	logLevel string

	// zipOnly restricts packaging to the release archive.
	zipOnly bool

	// installerOnly restricts packaging to the Windows installer.
	installerOnly bool

	// rootCmd represents the base command for the packaging pipeline.
	rootCmd = &cobra.Command{
		Use:   "chirp-winbuild [output-dir]",
		Short: "Package CHIRP for Windows",
		Long: "Compile localization catalogs, stage data files, freeze the application " +
			"into a standalone executable tree, bundle the GTK runtime, and produce a " +
			"release ZIP and/or a Windows installer into the given output directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			mode := builder.ModeAll

			switch {
			case zipOnly:
				mode = builder.ModeZip
			case installerOnly:
				mode = builder.ModeInstaller
			}

			options := &builder.Options{
				ConfigPath: configPath,
				OutputDir:  args[0],
				Mode:       mode,
			}

			return builder.Run(ctx, options)
		},
	}
)

// Execute runs the chirp-winbuild CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&zipOnly, "zip-only", "z", false, "produce only the release ZIP archive")
	rootCmd.Flags().BoolVarP(&installerOnly, "installer-only", "i", false, "produce only the Windows installer")
	rootCmd.MarkFlagsMutuallyExclusive("zip-only", "installer-only")
}
