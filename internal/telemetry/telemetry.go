// Package telemetry sets up OpenTelemetry tracing for gridmap.
// Tracing is off unless enabled in config or with --trace; spans created
// through Tracer are no-ops until Setup installs a provider.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultServiceName = "gridmap"
	serviceVersion     = "0.1.0"
	tracerPrefix       = "gridmap/"
)

// Options configures Setup.
type Options struct {
	ServiceName string
	// EnvFile is loaded with godotenv before the exporter reads OTEL_* variables.
	// A missing file is not an error.
	EnvFile string
}

// Setup installs a global tracer provider backed by the OTLP HTTP exporter.
// Endpoint and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
// The returned function flushes and stops the provider.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	LoadEnv(opts.EnvFile)

	name := opts.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", name),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// LoadEnv loads KEY=VALUE pairs from path (default ".env") without
// overriding variables that are already set. It reports whether a file was read.
func LoadEnv(path string) bool {
	if path == "" {
		path = ".env"
	}
	return godotenv.Load(path) == nil
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerPrefix + name)
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
