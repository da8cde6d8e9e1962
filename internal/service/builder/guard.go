package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/kk7ds/chirp-winbuild/internal/logger"
)

const (
	// markerFilename marks a packaging run in progress, so two runs cannot
	// clobber the same staging tree.
	markerFilename = "chirp-winbuild-marker.bin"

	// markerLifetime is the age after which a marker is considered stale
	// and revalidated against the process list.
	markerLifetime = 2 * time.Hour
)

// acquireMarker claims the working directory for this run.
func acquireMarker(ctx context.Context) error {
	if isBuildRunningNow(ctx) {
		return errBuildInProgress
	}

	marker, err := os.Create(markerFilename)
	if err != nil {
		return fmt.Errorf("create marker: %w", err)
	}

	return marker.Close()
}

// releaseMarker frees the working directory after the run.
func releaseMarker(ctx context.Context) {
	if err := os.Remove(markerFilename); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf(ctx, "Unable to remove marker: %v", err)
	}
}

// isBuildRunningNow checks presence of the marker and attempts recovery if
// it looks stale.
func isBuildRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(markerFilename)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	if err != nil {
		logger.Warnf(ctx, "Unable to read marker: %v", err)
		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "Marker is too old, checking for a live packaging run")

	if otherRunExists(ctx) {
		return true
	}

	if err = os.Remove(markerFilename); err != nil {
		return true
	}

	return false
}

// otherRunExists reports whether another process with our executable name
// is alive.
func otherRunExists(ctx context.Context) bool {
	processList, err := ps.Processes()
	if err != nil {
		logger.Warnf(ctx, "Unable to list processes: %v", err)
		// Assume a run exists rather than risking a concurrent build.
		return true
	}

	thisProcessID := os.Getpid()
	executable := filepath.Base(os.Args[0])

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return true
		}
	}

	return false
}
