package weather

import "github.com/mpapenbr/racestrategy/pkg/model"

// advisory lookups for strategy tools. The race simulation does not use them.

// RecommendedCompound returns the compound best suited for the conditions
//
//nolint:mnd // temperature thresholds
func RecommendedCompound(rain model.RainIntensity, trackTemp float64) string {
	switch rain {
	case model.Dry:
		switch {
		case trackTemp > 35:
			return model.Soft
		case trackTemp > 25:
			return model.Medium
		default:
			return model.Hard
		}
	case model.LightRain, model.ModerateRain:
		return model.Intermediate
	default:
		return model.Wet
	}
}

var (
	slickMultiplier = map[model.RainIntensity]float64{
		model.Dry:          1.0,
		model.LightRain:    1.1,
		model.ModerateRain: 1.25,
		model.HeavyRain:    1.5,
	}
	rainTyreMultiplier = map[string]map[model.RainIntensity]float64{
		model.Intermediate: {
			model.Dry:          0.95,
			model.LightRain:    1.0,
			model.ModerateRain: 1.05,
			model.HeavyRain:    1.15,
		},
		model.Wet: {
			model.Dry:          0.85,
			model.LightRain:    0.95,
			model.ModerateRain: 1.0,
			model.HeavyRain:    1.05,
		},
	}
)

// PerformanceMultiplier returns a lap time factor (1.0 = nominal, >1.0 slower).
// Unknown combinations yield 1.0.
func PerformanceMultiplier(compound string, rain model.RainIntensity) float64 {
	if model.IsDry(compound) {
		if v, ok := slickMultiplier[rain]; ok {
			return v
		}
		return 1.0
	}
	if v, ok := rainTyreMultiplier[compound][rain]; ok {
		return v
	}
	return 1.0
}
