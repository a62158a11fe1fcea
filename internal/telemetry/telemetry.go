// Package telemetry exports traces over OTLP. The module is optional:
// deployments that do not configure it run without a tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stakeboard/stakeboard/internal/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Tracing{})
}

// Config holds tracing configuration.
type Config struct {
	// Endpoint is the OTLP/HTTP collector endpoint (host:port). When empty
	// the exporter falls back to the OTEL_EXPORTER_OTLP_* environment
	// variables.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the exporter connection.
	Insecure bool `yaml:"insecure"`

	// ServiceName overrides the reported service.name attribute.
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the head-sampling ratio in [0, 1].
	SampleRatio float64 `yaml:"sample_ratio"`
}

func (c *Config) defaults() {
	if c.ServiceName == "" {
		c.ServiceName = "stakeboard"
	}
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		c.SampleRatio = 1
	}
}

// Tracing is the OTLP trace export module.
type Tracing struct {
	config   Config
	logger   *slog.Logger
	provider *sdktrace.TracerProvider
}

// ModuleInfo implements core.Module.
func (t *Tracing) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "telemetry.tracing",
		New: func() core.Module { return &Tracing{} },
	}
}

// Configure implements core.Configurable.
func (t *Tracing) Configure(node *yaml.Node) error {
	if err := node.Decode(&t.config); err != nil {
		return err
	}
	t.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (t *Tracing) Provision(ctx *core.AppContext) error {
	t.logger = ctx.Logger
	t.config.defaults()

	ctx.RegisterService("telemetry.tracer", t.Tracer())
	return nil
}

// Tracer returns a tracer for the service. Before Start() it resolves to
// the global (no-op) provider.
func (t *Tracing) Tracer() trace.Tracer {
	return otel.Tracer(t.config.ServiceName)
}

// Start implements core.Starter. It builds the OTLP exporter and installs
// the tracer provider globally.
func (t *Tracing) Start() error {
	ctx := context.Background()

	var opts []otlptracehttp.Option
	if t.config.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(t.config.Endpoint))
	}
	if t.config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("telemetry: creating trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(t.config.ServiceName)),
		resource.WithFromEnv(),
		resource.WithHost(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: creating resource: %w", err)
	}

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.config.SampleRatio))),
	)

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.logger.Info("tracing started",
		"service", t.config.ServiceName,
		"sample_ratio", t.config.SampleRatio)
	return nil
}

// Stop implements core.Stopper. It flushes pending spans.
func (t *Tracing) Stop(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
