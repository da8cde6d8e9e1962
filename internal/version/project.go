package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// errEmptyVersionFile is returned when the version file has no content.
var errEmptyVersionFile = errors.New("version file is empty")

// ReadProjectVersion reads the packaged application's version from a
// plain-text file. Only the first line matters and the value is treated as
// an opaque string; it names artifacts and fills the installer template.
func ReadProjectVersion(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read version file: %w", err)
	}

	line, _, _ := strings.Cut(string(contents), "\n")

	v := strings.TrimSpace(line)
	if v == "" {
		return "", fmt.Errorf("%s: %w", path, errEmptyVersionFile)
	}

	return v, nil
}
