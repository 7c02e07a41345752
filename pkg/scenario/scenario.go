// Package scenario creates reproducible race scenarios (weather and safety cars)
// and evaluates pit plans across many of them.
package scenario

import (
	"context"
	"math/rand/v2"

	"github.com/mpapenbr/racestrategy/pkg/metrics"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/safetycar"
	"github.com/mpapenbr/racestrategy/pkg/weather"
)

// stream ids for the PCG sources, weather and safety car draws are independent
const (
	weatherStream   = 1
	safetyCarStream = 2
)

type (
	Scenario struct {
		Seed       uint64                    `json:"seed"`
		Weather    []model.WeatherSample     `json:"weather"`
		SafetyCars []model.SafetyCarInterval `json:"safetyCars"`
	}
	Config struct {
		Laps      int
		Initial   model.WeatherConditions
		TimeOfDay weather.TimeOfDay
		Draws     int // safety car draws per race, default 1
	}
)

// Generate creates the scenario for seed. The same seed and config always yield
// the same scenario. Each call uses its own random sources.
func Generate(cfg *Config, seed uint64) (*Scenario, error) {
	tod := cfg.TimeOfDay
	if tod == "" {
		tod = weather.Afternoon
	}
	env := weather.NewEnvironment(
		weather.WithRand(rand.New(rand.NewPCG(seed, weatherStream))),
		weather.WithTimeOfDay(tod),
	)
	forecast, err := env.Forecast(cfg.Laps, cfg.Initial)
	if err != nil {
		return nil, err
	}
	draws := cfg.Draws
	if draws < 1 {
		draws = 1
	}
	gen := safetycar.NewGenerator(
		safetycar.WithRand(rand.New(rand.NewPCG(seed, safetyCarStream))),
		safetycar.WithDraws(draws),
	)
	metrics.Get().Scenarios.Add(context.Background(), 1)
	return &Scenario{
		Seed:       seed,
		Weather:    forecast,
		SafetyCars: gen.Generate(cfg.Laps, forecast),
	}, nil
}
