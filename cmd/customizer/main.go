// Command customizer starts the delivery customizer — an HTTP host for
// the shipping A/B test function that decides, per checkout, which
// delivery options to hide for the shopper's assigned variant.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cgkcommerce/delivery-customizer/pkg/archive"
	"github.com/cgkcommerce/delivery-customizer/pkg/audit"
	"github.com/cgkcommerce/delivery-customizer/pkg/gateway"
	"github.com/cgkcommerce/delivery-customizer/pkg/recorder"
	"github.com/cgkcommerce/delivery-customizer/pkg/variant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	addr := flag.String("addr", envOr("LISTEN_ADDR", ":8080"), "listen address")
	policyPath := flag.String("policy", envOr("POLICY_CONFIG", ""), "policy YAML file (empty = defaults)")
	runsDir := flag.String("runs", envOr("RUNS_DIR", "./runs"), "decision record output directory")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- OTel tracing setup ---
	tp, err := initTracer(ctx)
	if err != nil {
		log.Printf("WARN: OTel tracing disabled: %v", err)
	} else if tp != nil {
		defer tp.Shutdown(ctx)
	}

	// --- Policy ---
	cfg, err := variant.LoadConfig(*policyPath)
	if err != nil {
		log.Fatalf("load policy config: %v", err)
	}
	policy := variant.NewPolicy(cfg)
	if *policyPath != "" {
		log.Printf("Policy: %s (attribute=%s, allowed=%v)", *policyPath, policy.AttributeKey, policy.AllowedTokens)
	} else {
		log.Printf("Policy: defaults (attribute=%s, any single alphanumeric token)", policy.AttributeKey)
	}

	// --- Archive setup (best-effort; customizer works without it) ---
	var ac *archive.Client
	archiveEndpoint := envOr("ARCHIVE_ENDPOINT", "")
	if archiveEndpoint != "" {
		ac, err = archive.New(ctx, archive.Config{
			Endpoint:  archiveEndpoint,
			AccessKey: envOr("ARCHIVE_ACCESS_KEY", "minioadmin"),
			SecretKey: envOr("ARCHIVE_SECRET_KEY", "minioadmin"),
			Bucket:    envOr("ARCHIVE_BUCKET", "checkout-decisions"),
			UseSSL:    envOr("ARCHIVE_USE_SSL", "false") == "true",
		})
		if err != nil {
			log.Printf("WARN: archive disabled: %v (decisions will not be replayable)", err)
		} else {
			log.Printf("Archive connected: %s", archiveEndpoint)
		}
	} else {
		log.Println("WARN: ARCHIVE_ENDPOINT not set — snapshot archival disabled")
	}

	// --- Recorder setup ---
	rec, err := recorder.NewWriter(*runsDir)
	if err != nil {
		log.Printf("WARN: decision recording disabled: %v", err)
	} else {
		log.Printf("Decision records: %s", *runsDir)
	}

	// --- Audit ledger ---
	var ledger *audit.Ledger
	auditSecret := envOr("AUDIT_SECRET", "")
	if auditSecret != "" {
		ledger = audit.NewLedger(auditSecret)
		log.Println("Audit ledger: enabled")
	} else {
		log.Println("Audit ledger: disabled (set AUDIT_SECRET to enable)")
	}

	handler := gateway.Handler(gateway.Config{
		Policy:   policy,
		Archive:  ac,
		Recorder: rec,
		Ledger:   ledger,
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second, // decisions are local and fast
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Delivery customizer listening on %s", *addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	srv.Shutdown(shutCtx)
}

func initTracer(ctx context.Context) (*sdktrace.TracerProvider, error) {
	endpoint := envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	if endpoint == "" {
		return nil, nil
	}

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("delivery-customizer"),
		semconv.ServiceVersion("0.1.0"),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
