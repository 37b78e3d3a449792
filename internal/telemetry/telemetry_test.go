package telemetry_test

import (
	"context"
	"testing"

	"tablepos/internal/config"
	"tablepos/internal/telemetry"
)

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	shutdown := telemetry.Setup(config.Config{ServiceName: "tablepos"})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned %v", err)
	}
}

func TestSetup_WithEndpoint(t *testing.T) {
	// the grpc exporter dials lazily, so no collector is needed
	shutdown := telemetry.Setup(config.Config{OTLPEndpoint: "127.0.0.1:4317", OTLPInsecure: true, ServiceName: "tablepos"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
