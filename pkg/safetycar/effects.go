package safetycar

import "github.com/mpapenbr/racestrategy/pkg/model"

const (
	// pit loss reduction while the field runs behind the safety car
	PitDiscount = 8.0
	// a pit stop never costs less than this
	MinPitLoss = 5.0
	// default lap time factor used by FieldCompression
	DefaultCompression = 0.8
)

// PitTimeUnder returns the pit loss for a stop at lap.
// Under a safety car the loss is reduced by PitDiscount but never below MinPitLoss
// and never above basePitLoss.
func PitTimeUnder(basePitLoss float64, lap int, intervals []model.SafetyCarInterval) float64 {
	if !model.UnderSafetyCar(lap, intervals) {
		return basePitLoss
	}
	return min(basePitLoss, max(basePitLoss-PitDiscount, MinPitLoss))
}

// FieldCompression scales the lap times of laps under a safety car by factor.
// lapTimes[0] is lap 1. The input is not modified.
// The output is meant for display only and must not be used for time accounting.
func FieldCompression(
	lapTimes []float64,
	intervals []model.SafetyCarInterval,
	factor float64,
) []float64 {
	ret := make([]float64, len(lapTimes))
	for i, t := range lapTimes {
		if model.UnderSafetyCar(i+1, intervals) {
			ret[i] = t * factor
		} else {
			ret[i] = t
		}
	}
	return ret
}
