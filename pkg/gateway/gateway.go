// Package gateway hosts the variant filter over HTTP: it receives cart
// snapshots from the checkout platform, runs the visibility policy,
// archives the snapshot and decision, emits OTel spans, and writes
// decision records.
package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/cgkcommerce/delivery-customizer/pkg/archive"
	"github.com/cgkcommerce/delivery-customizer/pkg/audit"
	"github.com/cgkcommerce/delivery-customizer/pkg/cart"
	"github.com/cgkcommerce/delivery-customizer/pkg/recorder"
	"github.com/cgkcommerce/delivery-customizer/pkg/variant"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("delivery-customizer")

// Config holds gateway configuration. Archive, Recorder, and Ledger are
// optional; the gateway still serves decisions without them.
type Config struct {
	Policy   variant.Policy
	Archive  *archive.Client  // snapshot/decision blob store
	Recorder *recorder.Writer // decision file writer
	Ledger   *audit.Ledger    // tamper-evident decision ledger
}

// Handler returns an http.Handler serving the customization endpoints.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/function/run", func(w http.ResponseWriter, r *http.Request) {
		handleRun(w, r, cfg)
	})

	mux.HandleFunc("/audit/verify", func(w http.ResponseWriter, r *http.Request) {
		handleAuditVerify(w, cfg)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

func handleRun(w http.ResponseWriter, r *http.Request, cfg Config) {
	start := time.Now()

	runID := uuid.New().String()

	ctx, span := tracer.Start(r.Context(), "delivery.customize",
		trace.WithAttributes(
			attribute.String("checkout.run.id", runID),
		),
	)
	defer span.End()

	var input cart.FunctionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		http.Error(w, `{"error":"invalid function input"}`, http.StatusBadRequest)
		return
	}
	r.Body.Close()

	snapshot, err := json.Marshal(input)
	if err != nil {
		http.Error(w, `{"error":"failed to encode snapshot"}`, http.StatusInternalServerError)
		return
	}

	// Archive the snapshot before deciding, so the record can always be
	// replayed even if the response is never delivered.
	snapRef, err := archiveStore(ctx, cfg.Archive, runID, "snapshot.json", snapshot)
	if err != nil {
		log.Printf("[%s] archive snapshot: %v", runID, err)
	}

	decision := cfg.Policy.Evaluate(input.Cart)

	hidden := make([]string, 0, len(decision.Hidden))
	for _, d := range decision.Hidden {
		hidden = append(hidden, d.Handle)
	}
	result := cart.HideResult(hidden)

	resultBody, err := json.Marshal(result)
	if err != nil {
		http.Error(w, `{"error":"failed to encode result"}`, http.StatusInternalServerError)
		return
	}

	decRef, err := archiveStore(ctx, cfg.Archive, runID, "decision.json", resultBody)
	if err != nil {
		log.Printf("[%s] archive decision: %v", runID, err)
	}

	optionCount := 0
	for _, g := range input.Cart.DeliveryGroups {
		optionCount += len(g.DeliveryOptions)
	}

	span.SetAttributes(
		attribute.String("checkout.variant", decision.Variant),
		attribute.Bool("checkout.exempted", decision.Exempt),
		attribute.Int("checkout.options.seen", optionCount),
		attribute.Int("checkout.options.hidden", len(hidden)),
	)

	duration := time.Since(start)

	writeDecisionRecord(cfg, runID, span, decision, optionCount, hidden,
		snapRef, decRef, start, duration)

	w.Header().Set("x-run-id", runID)
	w.Header().Set("Content-Type", "application/json")
	w.Write(resultBody)

	log.Printf("[%s] /function/run variant=%q exempted=%t options=%d hidden=%d duration=%dms",
		runID, decision.Variant, decision.Exempt, optionCount, len(hidden),
		duration.Milliseconds())
}

func handleAuditVerify(w http.ResponseWriter, cfg Config) {
	w.Header().Set("Content-Type", "application/json")

	if cfg.Ledger == nil {
		w.Write([]byte(`{"ledger":"disabled"}`))
		return
	}

	valid, brokenAt, err := cfg.Ledger.Verify()
	out := map[string]interface{}{
		"ledger":  "enabled",
		"entries": cfg.Ledger.Len(),
		"valid":   valid,
	}
	if !valid {
		out["broken_at"] = brokenAt
		out["error"] = err.Error()
	}
	json.NewEncoder(w).Encode(out)
}

func archiveStore(ctx context.Context, ac *archive.Client, runID, name string, data []byte) (archive.Ref, error) {
	if ac == nil {
		return archive.Ref{}, nil
	}
	return ac.StoreRun(ctx, runID, name, data)
}

func writeDecisionRecord(cfg Config, runID string, span trace.Span,
	decision variant.Decision, optionCount int, hidden []string,
	snapRef, decRef archive.Ref, start time.Time, duration time.Duration) {

	if cfg.Recorder == nil {
		return
	}

	traceID := ""
	if sc := span.SpanContext(); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	rec := recorder.Record{
		RunID:            runID,
		TraceID:          traceID,
		Timestamp:        start.UTC(),
		Variant:          decision.Variant,
		Exempted:         decision.Exempt,
		OptionCount:      optionCount,
		HiddenHandles:    hidden,
		SnapshotRef:      snapRef.URI,
		DecisionRef:      decRef.URI,
		SnapshotChecksum: snapRef.Checksum,
		DecisionChecksum: decRef.Checksum,
		DurationMS:       duration.Milliseconds(),
		Status:           "success",
	}

	if err := cfg.Recorder.Write(rec); err != nil {
		log.Printf("[%s] write decision record: %v", runID, err)
		return
	}

	if cfg.Ledger != nil {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			log.Printf("[%s] marshal record for ledger: %v", runID, err)
			return
		}
		cfg.Ledger.Append(runID, recJSON)
	}
}
