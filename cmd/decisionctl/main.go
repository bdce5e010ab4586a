// Command decisionctl executes or replays delivery customization
// decisions outside the HTTP host.
//
//	decisionctl run [input.json]        run one cart snapshot (stdin if no file)
//	decisionctl replay <run.decision.json>  re-evaluate a recorded decision
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cgkcommerce/delivery-customizer/pkg/archive"
	"github.com/cgkcommerce/delivery-customizer/pkg/cart"
	"github.com/cgkcommerce/delivery-customizer/pkg/recorder"
	"github.com/cgkcommerce/delivery-customizer/pkg/replay"
	"github.com/cgkcommerce/delivery-customizer/pkg/variant"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "run":
		runOnce(os.Args[2:])
	case "replay":
		if len(os.Args) < 3 {
			usage()
		}
		replayDecision(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  decisionctl run [input.json]\n  decisionctl replay <path/to/run.decision.json>\n")
	os.Exit(1)
}

// runOnce executes the function once: cart snapshot in, operations out.
// This is the same contract the platform invokes the function with.
func runOnce(args []string) {
	var data []byte
	var err error

	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("read input: %v", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
	}

	var input cart.FunctionInput
	if err := json.Unmarshal(data, &input); err != nil {
		log.Fatalf("parse input: %v", err)
	}

	policy, err := loadPolicy()
	if err != nil {
		log.Fatalf("load policy: %v", err)
	}

	var handles []string
	for _, d := range policy.Decide(input.Cart) {
		handles = append(handles, d.Handle)
	}

	out, err := json.MarshalIndent(cart.HideResult(handles), "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

func replayDecision(path string) {
	rec, err := recorder.Load(path)
	if err != nil {
		log.Fatalf("load decision record: %v", err)
	}

	fmt.Printf("Run ID:    %s\n", rec.RunID)
	fmt.Printf("Variant:   %s\n", rec.Variant)
	fmt.Printf("Exempted:  %t\n", rec.Exempted)
	fmt.Printf("Options:   %d seen, %d hidden\n", rec.OptionCount, len(rec.HiddenHandles))
	fmt.Printf("Status:    %s\n", rec.Status)
	fmt.Println()

	// Without a snapshot ref there is nothing to fetch — skip the
	// archive connection entirely.
	if err := replayable(rec); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	ac, err := archive.New(ctx, archive.Config{
		Endpoint:  envOr("ARCHIVE_ENDPOINT", "localhost:9000"),
		AccessKey: envOr("ARCHIVE_ACCESS_KEY", "minioadmin"),
		SecretKey: envOr("ARCHIVE_SECRET_KEY", "minioadmin"),
		Bucket:    envOr("ARCHIVE_BUCKET", "checkout-decisions"),
		UseSSL:    envOr("ARCHIVE_USE_SSL", "false") == "true",
	})
	if err != nil {
		log.Fatalf("archive connect: %v", err)
	}

	policy, err := loadPolicy()
	if err != nil {
		log.Fatalf("load policy: %v", err)
	}

	fmt.Println("Replaying...")
	result, err := replay.Run(ctx, rec, replay.Options{
		Archive: ac,
		Policy:  policy,
	})
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}

	fmt.Println()
	if result.Drift {
		fmt.Printf("DRIFT DETECTED: %s\n", result.DriftSummary)
		// Output full result as JSON for CI.
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		os.Exit(1)
	}

	fmt.Println("NO DRIFT — current policy hides the same options.")
}

// replayable checks that a decision record carries enough to re-run.
func replayable(rec recorder.Record) error {
	if rec.SnapshotRef == "" {
		return fmt.Errorf("decision record %s has no snapshot ref (archival was disabled when it was recorded)", rec.RunID)
	}
	return nil
}

func loadPolicy() (variant.Policy, error) {
	cfg, err := variant.LoadConfig(envOr("POLICY_CONFIG", ""))
	if err != nil {
		return variant.Policy{}, err
	}
	return variant.NewPolicy(cfg), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
