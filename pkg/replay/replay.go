// Package replay re-runs a recorded checkout decision against the
// current policy and reports drift — differences between what was hidden
// at the time and what would be hidden now. Drift means the policy or
// its configuration changed since the decision was recorded.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cgkcommerce/delivery-customizer/pkg/archive"
	"github.com/cgkcommerce/delivery-customizer/pkg/cart"
	"github.com/cgkcommerce/delivery-customizer/pkg/recorder"
	"github.com/cgkcommerce/delivery-customizer/pkg/variant"
)

// Result holds the outcome of a replay.
type Result struct {
	RunID          string   `json:"run_id"`
	Variant        string   `json:"variant"`
	OriginalHidden []string `json:"original_hidden"`
	ReplayHidden   []string `json:"replay_hidden"`
	Drift          bool     `json:"drift"`
	DriftSummary   string   `json:"drift_summary,omitempty"`
}

// Options configures a replay.
type Options struct {
	Archive *archive.Client // to fetch the original cart snapshot
	Policy  variant.Policy  // the policy to re-evaluate with
}

// Run fetches the archived cart snapshot for a decision record, verifies
// its checksum, re-runs the policy, and compares the hidden-handle lists.
// Directives are exact values, so any difference — content or order — is
// drift.
func Run(ctx context.Context, rec recorder.Record, opts Options) (Result, error) {
	result := Result{
		RunID:          rec.RunID,
		Variant:        rec.Variant,
		OriginalHidden: rec.HiddenHandles,
	}

	key := extractKey(rec.SnapshotRef)
	if key == "" {
		return result, fmt.Errorf("replay: no snapshot ref in decision record")
	}

	snapshot, err := opts.Archive.Fetch(ctx, key)
	if err != nil {
		return result, fmt.Errorf("replay: fetch snapshot: %w", err)
	}

	if rec.SnapshotChecksum != "" && !archive.VerifyChecksum(snapshot, rec.SnapshotChecksum) {
		return result, fmt.Errorf("replay: snapshot checksum mismatch (tampered?)")
	}

	var input cart.FunctionInput
	if err := json.Unmarshal(snapshot, &input); err != nil {
		return result, fmt.Errorf("replay: parse snapshot: %w", err)
	}

	for _, d := range opts.Policy.Decide(input.Cart) {
		result.ReplayHidden = append(result.ReplayHidden, d.Handle)
	}

	result.Drift = !sameHandles(result.OriginalHidden, result.ReplayHidden)
	if result.Drift {
		result.DriftSummary = driftSummary(result.OriginalHidden, result.ReplayHidden)
	}

	return result, nil
}

// extractKey converts "archive://bucket/key" → "key"
func extractKey(uri string) string {
	if uri == "" {
		return ""
	}
	// archive://bucket/run_id/file.json → run_id/file.json
	parts := strings.SplitN(uri, "//", 2)
	if len(parts) != 2 {
		return ""
	}
	bucketAndKey := parts[1]
	idx := strings.Index(bucketAndKey, "/")
	if idx < 0 {
		return ""
	}
	return bucketAndKey[idx+1:]
}

func sameHandles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// driftSummary describes the first divergence between two handle lists.
func driftSummary(original, replayed []string) string {
	for i := 0; i < len(original) && i < len(replayed); i++ {
		if original[i] != replayed[i] {
			return fmt.Sprintf("hid %d option(s) then, %d now; first difference at index %d (%q vs %q)",
				len(original), len(replayed), i, original[i], replayed[i])
		}
	}
	return fmt.Sprintf("hid %d option(s) then, %d now", len(original), len(replayed))
}
