// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/carterperez-dev/beanscore/internal/config"
)

func resourceValue(t *testing.T, otelCfg config.OtelConfig, key attribute.Key) string {
	t.Helper()

	res, err := newResource(context.Background(), otelCfg, config.AppConfig{
		Name:        "BeanScore API",
		Version:     "2.3.1",
		Environment: "staging",
	})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}

	v, ok := res.Set().Value(key)
	if !ok {
		t.Fatalf("resource has no %s", key)
	}
	return v.AsString()
}

func TestNewResource_UsesProjectConfig(t *testing.T) {
	cfg := config.OtelConfig{ServiceName: "beanscore-api"}

	tests := []struct {
		key  attribute.Key
		want string
	}{
		{semconv.ServiceNameKey, "beanscore-api"},
		{semconv.ServiceNamespaceKey, "beanscore"},
		{semconv.ServiceVersionKey, "2.3.1"},
		{semconv.DeploymentEnvironmentKey, "staging"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if got := resourceValue(t, cfg, tt.key); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewResource_ServiceNameFallsBackToAppName(t *testing.T) {
	got := resourceValue(t, config.OtelConfig{}, semconv.ServiceNameKey)
	if got != "beanscore-api" {
		t.Errorf("service.name = %q, want beanscore-api", got)
	}
}

func TestNewTelemetry_DisabledIsNoop(t *testing.T) {
	tel, err := NewTelemetry(
		context.Background(),
		config.OtelConfig{Enabled: false, Endpoint: "collector:4317"},
		config.AppConfig{Name: "BeanScore API"},
	)
	if err != nil {
		t.Fatalf("NewTelemetry: %v", err)
	}
	if tel.Tracer == nil {
		t.Fatal("tracer is nil")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestSetSpanError_MarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := tp.Tracer(tracerName).Start(context.Background(), "upload")
	SetSpanError(ctx, errors.New("disk full"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", ended[0].Status().Code)
	}
	if len(ended[0].Events()) == 0 {
		t.Error("error event not recorded")
	}
}
