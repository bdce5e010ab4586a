// Package recorder writes decision records — one JSON file per checkout
// evaluation, capturing which variant the shopper was assigned and which
// delivery options were hidden. Records are the audit trail that makes
// experiment results defensible after the fact.
package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is the decision file format — one per evaluation.
type Record struct {
	Version          string    `json:"version"`
	RunID            string    `json:"run_id"`
	TraceID          string    `json:"trace_id"`
	Timestamp        time.Time `json:"timestamp"`
	Variant          string    `json:"variant"`           // assigned token, "" for control
	Exempted         bool      `json:"exempted"`          // exemption suppressed filtering
	OptionCount      int       `json:"option_count"`      // delivery options seen
	HiddenHandles    []string  `json:"hidden_handles"`    // in traversal order
	SnapshotRef      string    `json:"snapshot_ref"`      // archived cart input
	DecisionRef      string    `json:"decision_ref"`      // archived operations output
	SnapshotChecksum string    `json:"snapshot_checksum"`
	DecisionChecksum string    `json:"decision_checksum"`
	DurationMS       int64     `json:"duration_ms"`
	Status           string    `json:"status"`
	Error            string    `json:"error,omitempty"`
}

// Writer writes decision records to a directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer that saves decision files to dir.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("recorder: create dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write persists a record as <run_id>.decision.json.
func (w *Writer) Write(r Record) error {
	r.Version = "1.0.0"

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("recorder: marshal: %w", err)
	}

	path := filepath.Join(w.dir, r.RunID+".decision.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("recorder: write %s: %w", path, err)
	}
	return nil
}

// Load reads a decision record from a file path.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("recorder: read %s: %w", path, err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("recorder: parse %s: %w", path, err)
	}
	return r, nil
}
