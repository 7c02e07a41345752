package model

type SafetyCarCause string

const (
	CauseIncident SafetyCarCause = "incident"
	CauseWeather  SafetyCarCause = "weather"
)

// SafetyCarInterval covers the laps StartLap..EndLap (both inclusive)
type SafetyCarInterval struct {
	StartLap int            `json:"startLap"`
	EndLap   int            `json:"endLap"`
	Duration int            `json:"duration"` // EndLap - StartLap
	Cause    SafetyCarCause `json:"cause"`
}

func (s SafetyCarInterval) Contains(lap int) bool {
	return lap >= s.StartLap && lap <= s.EndLap
}

// UnderSafetyCar reports whether lap is covered by any of the intervals
func UnderSafetyCar(lap int, intervals []SafetyCarInterval) bool {
	for i := range intervals {
		if intervals[i].Contains(lap) {
			return true
		}
	}
	return false
}
