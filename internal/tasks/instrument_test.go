package tasks_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"taskboard-backend/internal/tasks"
)

func TestInstrument_CountsOpsByOutcome(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	ops, err := mp.Meter("test").Int64Counter("tasks.store.ops")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}

	s := tasks.Instrument(tasks.NewMemoryStore(), nooptrace.NewTracerProvider().Tracer("test"), ops)
	if _, err := s.Create(ctx, "x", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, 404); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(rm.ScopeMetrics) != 1 || len(rm.ScopeMetrics[0].Metrics) != 1 {
		t.Fatalf("unexpected metrics: %+v", rm.ScopeMetrics)
	}
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("data type %T", rm.ScopeMetrics[0].Metrics[0].Data)
	}

	got := map[string]int64{}
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("tasks.store.op"))
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		got[op.AsString()+"/"+outcome.AsString()] += dp.Value
	}
	if got["create/ok"] != 1 || got["delete/error"] != 1 || len(got) != 2 {
		t.Fatalf("data points: %v", got)
	}
}
