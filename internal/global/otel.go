package global

import (
	"context"

	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// InitTraceProvider installs a global tracer provider exporting spans over
// OTLP/gRPC to cfg.CollectorEndpoint. The returned function flushes and
// stops the provider.
func InitTraceProvider(ctx context.Context, cfg OtelConfig) (func(context.Context) error, error) {
	if cfg.CollectorEndpoint == "" {
		return nil, ec.ErrConfig.Clone().
			WithMessage("otel collector endpoint is required")
	}

	Logger.Info().
		Str("endpoint", cfg.CollectorEndpoint).
		Str("service", cfg.ServiceName).
		Msg("Initializing OpenTelemetry trace provider")

	creds := credentials.NewClientTLSFromCert(nil, "")
	if cfg.Insecure {
		creds = insecure.NewCredentials()
		Logger.Warn().
			Msg("gRPC connection is using insecure credentials (no TLS).")
	}

	conn, err := grpc.NewClient(cfg.CollectorEndpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, ec.ErrNetwork.Clone().
			WithMessage("failed to create otel collector client").
			Warp(err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, ec.ErrNetwork.Clone().
			WithMessage("failed to create otlp exporter").
			Warp(err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(Mode()),
		),
	)
	if err != nil {
		return nil, ec.ErrConfig.Clone().
			WithMessage("failed to build otel resource").
			Warp(err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{}))

	return func(ctx context.Context) error {
		defer conn.Close()
		return tp.Shutdown(ctx)
	}, nil
}
