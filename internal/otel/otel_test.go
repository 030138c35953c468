package otel

import (
	"context"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init disabled: %v", err)
	}
	defer p.Shutdown(context.Background())

	if p.Tracer == nil || p.Meter == nil {
		t.Fatal("expected noop tracer and meter")
	}
	if p.TracerProvider != nil {
		t.Fatal("expected no sdk tracer provider when disabled")
	}
}

func TestInit_NoneExporter(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: true, Exporter: "none"})
	if err != nil {
		t.Fatalf("Init with none exporter: %v", err)
	}
	defer p.Shutdown(context.Background())

	if p.TracerProvider == nil {
		t.Fatal("expected sdk tracer provider")
	}
	_, span := p.Tracer.Start(context.Background(), "probe")
	span.End()
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, Exporter: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}

func TestNewMetrics(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: true, Exporter: "none"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown(context.Background())

	m, err := NewMetrics(p.Meter)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.StoreOps.Add(context.Background(), 1)
	m.RequestDuration.Record(context.Background(), 0.25)
}
