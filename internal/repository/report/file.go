package report

import (
	"context"
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultFilename is where the report lands in the output directory.
	DefaultFilename = "chirp-build-report.json"

	// DefaultChecksumFunction is used to hash produced artifacts.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// reportFilePermissions is used when writing the report file.
	reportFilePermissions = 0o644
)

var (
	// ErrNotFound is returned when no report has been written yet.
	ErrNotFound = errors.New("report not found")
	// errHashUnavailable is returned when the checksum function is not linked in.
	errHashUnavailable = errors.New("hash function unavailable")
)

// Artifact describes one produced release file.
type Artifact struct {
	// Path is where the artifact was written.
	Path string `json:"path"`
	// Checksum is the base64-encoded digest of the artifact.
	Checksum string `json:"checksum"`
	// Size is the artifact size in bytes.
	Size int64 `json:"size"`
}

// Report captures the outcome of a packaging run.
type Report struct {
	// Version is the application version that was packaged.
	Version string `json:"version"`
	// Mode is the packaging mode the run was started with.
	Mode string `json:"mode"`
	// StartedAt is when the pipeline began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the pipeline completed.
	FinishedAt time.Time `json:"finished_at"`
	// Artifacts lists the produced release files.
	Artifacts []Artifact `json:"artifacts"`
}

// Repository defines persistence operations for build reports.
type Repository interface {
	Load(ctx context.Context) (*Report, error)
	Save(ctx context.Context, r *Report) error
}

// FileRepository persists the build report to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the report file.
	path string
	// mu protects concurrent access to the report file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the report from disk.
func (r *FileRepository) Load(_ context.Context) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read report file: %w", err)
	}

	var rep Report
	if err = json.Unmarshal(contents, &rep); err != nil {
		return nil, fmt.Errorf("decode report file: %w", err)
	}

	return &rep, nil
}

// Save writes the report to disk.
func (r *FileRepository) Save(_ context.Context, rep *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err = os.WriteFile(r.path, data, reportFilePermissions); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	return nil
}

// FileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
// The file is streamed, as release archives can be large.
func FileChecksum(path string) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := DefaultChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// DescribeArtifact stats and hashes a produced release file.
func DescribeArtifact(path string) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, err
	}

	checksum, err := FileChecksum(path)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Path:     path,
		Checksum: base64.StdEncoding.EncodeToString(checksum),
		Size:     info.Size(),
	}, nil
}
