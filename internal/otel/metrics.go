package otel

import "go.opentelemetry.io/otel/metric"

type Metrics struct {
	RequestDuration metric.Float64Histogram
	StoreOps        metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.RequestDuration, err = meter.Float64Histogram("tasks.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.StoreOps, err = meter.Int64Counter("tasks.store.ops",
		metric.WithDescription("Task store operations by op and outcome"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
