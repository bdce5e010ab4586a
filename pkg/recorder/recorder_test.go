package recorder

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	rec := Record{
		RunID:            "test-run-001",
		TraceID:          "abc123",
		Timestamp:        time.Now().UTC(),
		Variant:          "B",
		OptionCount:      3,
		HiddenHandles:    []string{"h1"},
		SnapshotRef:      "archive://checkout-decisions/test-run-001/snapshot.json",
		DecisionRef:      "archive://checkout-decisions/test-run-001/decision.json",
		SnapshotChecksum: "sha256:aaa",
		DecisionChecksum: "sha256:bbb",
		DurationMS:       2,
		Status:           "success",
	}

	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	path := filepath.Join(dir, "test-run-001.decision.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", loaded.Version)
	}
	if loaded.RunID != "test-run-001" {
		t.Errorf("run_id = %q, want test-run-001", loaded.RunID)
	}
	if loaded.Variant != "B" {
		t.Errorf("variant = %q, want B", loaded.Variant)
	}
	if len(loaded.HiddenHandles) != 1 || loaded.HiddenHandles[0] != "h1" {
		t.Errorf("hidden_handles = %v, want [h1]", loaded.HiddenHandles)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/file.decision.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter with nested dir: %v", err)
	}

	rec := Record{RunID: "nested-test", Status: "success"}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "nested-test.decision.json")); err != nil {
		t.Fatalf("nested file not created: %v", err)
	}
}
