// Package weather generates lap indexed weather forecasts by a bounded random walk.
package weather

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/model"
)

const (
	// per lap probability of a weather change
	ChangeProbability = 0.10

	sigmaAirTemp       = 1.0
	sigmaHumidity      = 3.0
	sigmaPrecipitation = 0.1
	sigmaCloudCover    = 5.0

	minAirTemp    = 15.0
	maxAirTemp    = 40.0
	minHumidity   = 20.0
	maxHumidity   = 90.0
	minCloudCover = 0.0
	maxCloudCover = 100.0
)

type (
	Option      func(*Environment)
	Environment struct {
		rnd       *rand.Rand
		timeOfDay TimeOfDay
		pChange   float64
		l         *log.Logger
	}
)

// WithSeed uses a PCG source seeded with seed
func WithSeed(seed uint64) Option {
	return func(e *Environment) {
		e.rnd = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithRand uses rnd as random source. rnd must not be shared with other goroutines.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Environment) {
		e.rnd = rnd
	}
}

func WithTimeOfDay(arg TimeOfDay) Option {
	return func(e *Environment) {
		e.timeOfDay = arg
	}
}

func WithChangeProbability(p float64) Option {
	return func(e *Environment) {
		e.pChange = p
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Environment) {
		e.l = l
	}
}

// NewEnvironment creates a weather environment.
// Without WithSeed or WithRand the source is seeded with 0.
// An Environment is not safe for concurrent use.
func NewEnvironment(opts ...Option) *Environment {
	ret := &Environment{
		timeOfDay: Afternoon,
		pChange:   ChangeProbability,
		l:         log.Default().Named("weather"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		ret.rnd = rand.New(rand.NewPCG(0, 0))
	}
	return ret
}

// DefaultConditions returns typical conditions for a dry race
//
//nolint:mnd // default values
func DefaultConditions() model.WeatherConditions {
	return model.WeatherConditions{
		AirTemp:       25.0,
		Humidity:      60.0,
		Precipitation: 0.0,
		CloudCover:    30.0,
	}
}

// Forecast produces exactly raceLaps samples starting with initial conditions.
// For each lap a change event happens with the configured probability. On change
// every state variable gets an independent normal distributed delta and is clamped
// to its bounds. Otherwise the previous state is carried forward.
func (e *Environment) Forecast(
	raceLaps int,
	initial model.WeatherConditions,
) ([]model.WeatherSample, error) {
	if raceLaps < 1 {
		return nil, fmt.Errorf("%w: race laps must be positive, got %d",
			model.ErrInvalidConfig, raceLaps)
	}
	ret := make([]model.WeatherSample, 0, raceLaps)
	cur := initial
	changes := 0
	for lap := 1; lap <= raceLaps; lap++ {
		if e.rnd.Float64() < e.pChange {
			cur = e.change(cur)
			changes++
		}
		ret = append(ret, e.sample(lap, cur))
	}
	e.l.Debug("forecast created",
		log.Int("laps", raceLaps),
		log.Int("changes", changes))
	return ret, nil
}

func (e *Environment) sample(lap int, c model.WeatherConditions) model.WeatherSample {
	return model.WeatherSample{
		Lap:           lap,
		AirTemp:       c.AirTemp,
		TrackTemp:     TrackTemperature(c.AirTemp, c.Humidity, c.CloudCover, e.timeOfDay),
		Humidity:      c.Humidity,
		Precipitation: c.Precipitation,
		RainIntensity: ClassifyRain(c.Precipitation),
		CloudCover:    c.CloudCover,
	}
}

// draw order is fixed (air, humidity, precipitation, cloud) to keep forecasts reproducible
func (e *Environment) change(c model.WeatherConditions) model.WeatherConditions {
	delta := func(sigma float64) float64 {
		return distuv.Normal{Mu: 0, Sigma: sigma, Src: e.rnd}.Rand()
	}
	return model.WeatherConditions{
		AirTemp:       clamp(c.AirTemp+delta(sigmaAirTemp), minAirTemp, maxAirTemp),
		Humidity:      clamp(c.Humidity+delta(sigmaHumidity), minHumidity, maxHumidity),
		Precipitation: max(c.Precipitation+delta(sigmaPrecipitation), 0),
		CloudCover:    clamp(c.CloudCover+delta(sigmaCloudCover), minCloudCover, maxCloudCover),
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
