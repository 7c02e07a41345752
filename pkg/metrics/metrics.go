// Package metrics provides the otel instruments of the simulation engine.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/mpapenbr/racestrategy/log"
)

const meterName = "rss"

type Instruments struct {
	Simulations metric.Int64Counter
	Candidates  metric.Int64Counter
	Scenarios   metric.Int64Counter
	SearchTime  metric.Float64Histogram
}

var (
	once sync.Once
	inst *Instruments
)

// Get returns the instruments registered at the global meter provider.
// Instruments created before Setup are forwarded by the otel global delegate.
func Get() *Instruments {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		inst = &Instruments{}
		register := func(err error, name string) {
			if err != nil {
				log.Error("failed to register metric",
					log.String("metric", name),
					log.ErrorField(err))
			}
		}
		var err error
		inst.Simulations, err = meter.Int64Counter("rss.simulations",
			metric.WithDescription("Number of race simulations"),
			metric.WithUnit("{count}"))
		register(err, "rss.simulations")
		inst.Candidates, err = meter.Int64Counter("rss.optimizer.candidates",
			metric.WithDescription("Number of evaluated strategy candidates"),
			metric.WithUnit("{count}"))
		register(err, "rss.optimizer.candidates")
		inst.Scenarios, err = meter.Int64Counter("rss.scenarios",
			metric.WithDescription("Number of generated race scenarios"),
			metric.WithUnit("{count}"))
		register(err, "rss.scenarios")
		inst.SearchTime, err = meter.Float64Histogram("rss.optimizer.duration",
			metric.WithDescription("Duration of a strategy search"),
			metric.WithUnit("s"))
		register(err, "rss.optimizer.duration")
	})
	return inst
}

// Setup installs a meter provider exporting to stdout every interval.
// The returned function flushes and shuts the provider down.
func Setup(interval time.Duration) (func(ctx context.Context) error, error) {
	exp, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp,
			sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
