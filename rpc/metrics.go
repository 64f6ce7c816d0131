package rpc

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meter is this package's otel meter. Absent an application wiring a
// real MeterProvider with otel.SetMeterProvider, the global default is
// a no-op, so every counter below is safe to record through
// unconditionally: the gRPC bridge's transitive otel dependency finally
// gets a real call site instead of just riding along in go.mod.
var meter = otel.Meter("github.com/goto-10/plankton/rpc")

// instrumentCounter wraps an otel Int64Counter behind a value that's
// always safe to call Add on, even if the counter itself failed to
// construct (which otel's API allows but practically never happens).
type instrumentCounter struct {
	counter metric.Int64Counter
}

func newCounter(name, description string) instrumentCounter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return instrumentCounter{}
	}
	return instrumentCounter{counter: counter}
}

func (c instrumentCounter) Add(delta int64) {
	if c.counter == nil {
		return
	}
	c.counter.Add(context.Background(), delta)
}

// instrumentLatency is instrumentCounter's histogram counterpart, used
// to record request/dispatch durations in milliseconds.
type instrumentLatency struct {
	histogram metric.Float64Histogram
}

func newLatency(name, description string) instrumentLatency {
	histogram, err := meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit("ms"))
	if err != nil {
		return instrumentLatency{}
	}
	return instrumentLatency{histogram: histogram}
}

func (l instrumentLatency) Record(elapsed time.Duration) {
	if l.histogram == nil {
		return
	}
	l.histogram.Record(context.Background(), float64(elapsed.Microseconds())/1000.0)
}
