// internal/common/observability/observability.go
package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"customer-query-service/internal/common/logger"
)

// Options selects exporters. An empty JaegerEndpoint keeps spans in-process.
type Options struct {
	ServiceName    string
	Environment    string
	JaegerEndpoint string
	SampleRatio    float64
}

// Observability owns the meter and tracer providers for the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	stageDuration  otelmetric.Float64Histogram
	jobCounter     otelmetric.Int64Counter
	logger         logger.Logger
}

// New installs global meter and tracer providers. Exporter failures are
// logged and leave that signal disabled; they never stop the service.
func New(opts Options, log logger.Logger) *Observability {
	o := &Observability{logger: log.With(map[string]interface{}{"component": "observability"})}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.DeploymentEnvironment(opts.Environment),
	)

	if exporter, err := prometheus.New(); err != nil {
		o.logger.WithError(err).Warn("prometheus exporter unavailable, otel metrics disabled", nil)
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
		otel.SetMeterProvider(o.meterProvider)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio(opts.SampleRatio)))),
	}
	if opts.JaegerEndpoint != "" {
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			o.logger.WithError(err).Warn("jaeger exporter unavailable, spans stay local", map[string]interface{}{
				"endpoint": opts.JaegerEndpoint,
			})
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
		}
	}
	o.tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(o.tracerProvider)

	o.meter = otel.Meter(opts.ServiceName)
	o.tracer = otel.Tracer(opts.ServiceName)

	o.stageDuration, _ = o.meter.Float64Histogram(
		"query.stage.duration",
		otelmetric.WithDescription("Duration of each query pipeline stage"),
		otelmetric.WithUnit("ms"),
	)
	o.jobCounter, _ = o.meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	return o
}

func sampleRatio(r float64) float64 {
	if r <= 0 || r > 1 {
		return 1
	}
	return r
}

// Tracer returns the service tracer.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer("customer-query-service")
	}
	return o.tracer
}

// RecordStage records how long one pipeline stage took.
func (o *Observability) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if o == nil || o.stageDuration == nil {
		return
	}
	o.stageDuration.Record(ctx, float64(d.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// RecordJobProcessed counts a finished job by status.
func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
