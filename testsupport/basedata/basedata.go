// Package basedata provides race fixtures shared by tests
package basedata

import (
	"github.com/mpapenbr/racestrategy/pkg/model"
)

const (
	FlatBase    = 80.0
	SampleLaps  = 78
	SampleStart = model.Soft
)

// FlatCompounds returns dry compounds without degradation and temperature
// effect. Every lap on any of them takes FlatBase seconds (no fuel).
func FlatCompounds() map[string]model.Compound {
	flat := model.Compound{Base: FlatBase, CliffAt: 999, MaxLife: 99, OptimalTemp: 30}
	return map[string]model.Compound{
		model.Soft:   flat,
		model.Medium: flat,
		model.Hard:   flat,
	}
}

// ReferencePlans are common one and two stop plans used as baseline
func ReferencePlans() []model.PitPlan {
	return []model.PitPlan{
		{{Lap: 24, Compound: model.Hard}},
		{{Lap: 20, Compound: model.Medium}, {Lap: 36, Compound: model.Hard}},
	}
}

// ConstantWeather returns dry samples with a fixed track temperature
func ConstantWeather(laps int, trackTemp float64) []model.WeatherSample {
	ret := make([]model.WeatherSample, laps)
	for i := range ret {
		ret[i] = model.WeatherSample{
			Lap:           i + 1,
			AirTemp:       25,
			TrackTemp:     trackTemp,
			Humidity:      60,
			RainIntensity: model.Dry,
			CloudCover:    30,
		}
	}
	return ret
}
