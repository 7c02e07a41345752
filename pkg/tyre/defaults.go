package tyre

import "github.com/mpapenbr/racestrategy/pkg/model"

//nolint:mnd // parameter table
func DefaultCompounds() map[string]model.Compound {
	return map[string]model.Compound{
		model.Soft: {
			Name: model.Soft, Base: 75.0, K: 0.10, CliffAt: 18, CliffPenalty: 0.30,
			MaxLife: 25, OptimalTemp: 32.0, TempSensitivity: 0.03,
		},
		model.Medium: {
			Name: model.Medium, Base: 75.6, K: 0.07, CliffAt: 28, CliffPenalty: 0.20,
			MaxLife: 35, OptimalTemp: 35.0, TempSensitivity: 0.02,
		},
		model.Hard: {
			Name: model.Hard, Base: 76.3, K: 0.05, CliffAt: 999, CliffPenalty: 0.0,
			MaxLife: 50, OptimalTemp: 38.0, TempSensitivity: 0.015,
		},
		model.Intermediate: {
			Name: model.Intermediate, Base: 80.0, K: 0.06, CliffAt: 30, CliffPenalty: 0.25,
			MaxLife: 35, OptimalTemp: 22.0, TempSensitivity: 0.01,
		},
		model.Wet: {
			Name: model.Wet, Base: 84.0, K: 0.05, CliffAt: 35, CliffPenalty: 0.20,
			MaxLife: 40, OptimalTemp: 18.0, TempSensitivity: 0.01,
		},
	}
}
