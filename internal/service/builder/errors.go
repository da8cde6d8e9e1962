package builder

import (
	"errors"
	"fmt"
)

// Stage names used in errors and logs.
const (
	stepLocales   = "locales"
	stepStage     = "stage"
	stepFreeze    = "freeze"
	stepRuntime   = "runtime"
	stepArchive   = "archive"
	stepInstaller = "installer"
	stepManifest  = "manifest"
)

var (
	// errUnknownMode is returned for an unrecognized packaging mode.
	errUnknownMode = errors.New("unknown packaging mode")
	// errBuildInProgress indicates another packaging run owns the marker.
	errBuildInProgress = errors.New("another packaging run is in progress")
	// errNothingToStage is returned when a staged glob matches no files.
	errNothingToStage = errors.New("no files matched staged path")
	// errInstallerMissing is returned when the installer compiler exits
	// cleanly but the expected setup executable is absent.
	errInstallerMissing = errors.New("installer compiler produced no output")
)

// StepError reports a pipeline stage failing. Step names the stage so the
// operator knows where the pipeline stopped.
type StepError struct {
	// Step is one of the stage name constants.
	Step string
	// Err is the underlying tool or filesystem failure.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Step, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is/As.
func (e *StepError) Unwrap() error {
	return e.Err
}

// stepFailed wraps an error with the failing stage's name.
func stepFailed(step string, err error) error {
	if err == nil {
		return nil
	}

	return &StepError{Step: step, Err: err}
}
