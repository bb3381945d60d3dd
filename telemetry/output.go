package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager handles CSV export of performance windows.
type OutputManager struct {
	path     string
	perfFile *os.File

	perfHeaderWritten bool
}

// NewOutputManager opens the perf CSV at the given path.
// Returns nil if path is empty (output disabled).
func NewOutputManager(path string) (*OutputManager, error) {
	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating perf csv: %w", err)
	}

	return &OutputManager{path: path, perfFile: f}, nil
}

// WritePerf writes a performance stats record.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}

	if !om.perfHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// Path returns the output file path.
func (om *OutputManager) Path() string {
	if om == nil {
		return ""
	}
	return om.path
}

// Close flushes and closes the output file.
func (om *OutputManager) Close() error {
	if om == nil || om.perfFile == nil {
		return nil
	}
	return om.perfFile.Close()
}
