package report

import (
	"fmt"

	"github.com/danieljhkim/thirdparty/internal/fsops"
	"github.com/danieljhkim/thirdparty/internal/hash"
)

// WriteResult describes what Write did.
type WriteResult struct {
	// Path is the report location
	Path string `json:"path"`

	// Written is false when the report on disk was already up to date
	Written bool `json:"written"`

	// Fingerprint is the hash of the rendered report
	Fingerprint string `json:"fingerprint"`
}

// Writer persists rendered reports.
type Writer struct {
	fs     fsops.FS
	hasher hash.Hasher
}

// NewWriter creates a Writer.
func NewWriter(fs fsops.FS, hasher hash.Hasher) *Writer {
	return &Writer{fs: fs, hasher: hasher}
}

// Write stores data at path unless the existing file has the same fingerprint.
// force always rewrites.
func (w *Writer) Write(path string, data []byte, force bool) (*WriteResult, error) {
	result := &WriteResult{Path: path, Fingerprint: w.hasher.Sum(data)}

	if !force {
		upToDate, err := w.upToDate(path, result.Fingerprint)
		if err != nil {
			return nil, err
		}
		if upToDate {
			return result, nil
		}
	}

	if err := w.fs.AtomicWrite(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report %s: %w", path, err)
	}
	result.Written = true
	return result, nil
}

func (w *Writer) upToDate(path, fingerprint string) (bool, error) {
	exists, err := w.fs.Exists(path)
	if err != nil {
		return false, fmt.Errorf("failed to check report %s: %w", path, err)
	}
	if !exists {
		return false, nil
	}

	current, err := w.fs.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	return w.hasher.Sum(current) == fingerprint, nil
}
