// internal/telemetry/telemetry.go
package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

const defaultServiceName = "martyrs-api"

type Options struct {
	Enabled     bool
	ServiceName string
	// Endpoint is host:port of an OTLP/HTTP collector. Empty keeps spans
	// in-process only.
	Endpoint string
	Insecure bool
}

func serviceName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultServiceName
	}
	return name
}

// Init installs the global tracer provider and propagator and returns its
// shutdown func. When disabled it installs nothing and returns a no-op.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if !opts.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(serviceName(opts.ServiceName))),
	)
	if err != nil {
		return nil, err
	}

	tpOpts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
	}
	if opts.Endpoint != "" {
		expOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(opts.Endpoint),
			otlptracehttp.WithTimeout(5 * time.Second),
		}
		if opts.Insecure {
			expOpts = append(expOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, expOpts...)
		if err != nil {
			slog.WarnContext(ctx, "otel exporter disabled", "err", err)
		} else {
			tpOpts = append(tpOpts, trace.WithBatcher(exporter))
		}
	}

	tp := trace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// HTTPMiddleware instruments inbound requests.
func HTTPMiddleware(name string) func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(serviceName(name))
}

// InstrumentClient wraps client's transport so outbound calls carry the
// trace context. A nil client gets a 5s default.
func InstrumentClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = otelhttp.NewTransport(base)
	return client
}
