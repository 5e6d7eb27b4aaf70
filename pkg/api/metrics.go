package api

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"
)

const instrumentationName = "storefront/api"

type meters struct {
	requests metric.Int64Counter
	duration metric.Int64Histogram
}

var loadMeters = sync.OnceValue(func() meters {
	meter := otel.Meter(instrumentationName, metric.WithInstrumentationVersion(otel.Version()))

	var m meters
	var err error

	m.requests, err = meter.Int64Counter(
		"storefront.api.request_count",
		metric.WithDescription("Outgoing storefront API request count"),
		metric.WithUnit("request"),
	)
	if err != nil {
		slogctx.Error(context.Background(), "creating request_count meter", "error", err)
	}

	m.duration, err = meter.Int64Histogram(
		"storefront.api.duration",
		metric.WithDescription("Outgoing storefront API end to end duration"),
		metric.WithUnit("milliseconds"),
	)
	if err != nil {
		slogctx.Error(context.Background(), "creating duration meter", "error", err)
	}

	return m
})

func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
