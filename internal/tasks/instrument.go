package tasks

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var attrOp = attribute.Key("tasks.store.op")

// instrumented wraps a Store with a span and an op counter per call.
type instrumented struct {
	next   Store
	tracer trace.Tracer
	ops    metric.Int64Counter
}

// Instrument returns s traced with tracer and counted on ops.
func Instrument(s Store, tracer trace.Tracer, ops metric.Int64Counter) Store {
	return &instrumented{next: s, tracer: tracer, ops: ops}
}

func (s *instrumented) start(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "tasks.store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrOp.String(op)),
	)
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.ops.Add(ctx, 1, metric.WithAttributes(attrOp.String(op), attribute.String("outcome", outcome)))
		span.End()
	}
}

func (s *instrumented) List(ctx context.Context) (out []Task, err error) {
	ctx, done := s.start(ctx, "list")
	defer func() { done(err) }()
	return s.next.List(ctx)
}

func (s *instrumented) Get(ctx context.Context, id int64) (t Task, err error) {
	ctx, done := s.start(ctx, "get")
	defer func() { done(err) }()
	return s.next.Get(ctx, id)
}

func (s *instrumented) Create(ctx context.Context, title string, description *string) (t Task, err error) {
	ctx, done := s.start(ctx, "create")
	defer func() { done(err) }()
	return s.next.Create(ctx, title, description)
}

func (s *instrumented) Update(ctx context.Context, id int64, patch Patch) (t Task, err error) {
	ctx, done := s.start(ctx, "update")
	defer func() { done(err) }()
	return s.next.Update(ctx, id, patch)
}

func (s *instrumented) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := s.start(ctx, "delete")
	defer func() { done(err) }()
	return s.next.Delete(ctx, id)
}

func (s *instrumented) Ping(ctx context.Context) (err error) {
	ctx, done := s.start(ctx, "ping")
	defer func() { done(err) }()
	return s.next.Ping(ctx)
}
