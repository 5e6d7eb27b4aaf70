package collection

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	slogctx "github.com/veqryn/slog-context"
)

const instrumentationName = "storefront/collection"

type meters struct {
	persistFailures metric.Int64Counter
	loadFailures    metric.Int64Counter
}

var loadMeters = sync.OnceValue(func() meters {
	meter := otel.Meter(instrumentationName, metric.WithInstrumentationVersion(otel.Version()))

	var m meters
	var err error

	m.persistFailures, err = meter.Int64Counter(
		"storefront.collection.persist_failures",
		metric.WithDescription("Collection writes to the durable slot that failed"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		slogctx.Error(context.Background(), "creating persist_failures counter", "error", err)
	}

	m.loadFailures, err = meter.Int64Counter(
		"storefront.collection.load_failures",
		metric.WithDescription("Collection loads from the durable slot that failed"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		slogctx.Error(context.Background(), "creating load_failures counter", "error", err)
	}

	return m
})

func countFailure(ctx context.Context, counter metric.Int64Counter, slotName string) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("slot", slotName)))
}
