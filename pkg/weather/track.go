package weather

import "github.com/mpapenbr/racestrategy/pkg/model"

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

const (
	trackTempOffset  = 12.0
	humidityEffect   = 0.05
	cloudCoverEffect = 0.08
	minTrackTemp     = 15.0
)

// Offset returns the track temperature reduction for the time of day.
// Unknown values are treated as afternoon.
func (t TimeOfDay) Offset() float64 {
	switch t {
	case Morning:
		return 5.0
	case Evening:
		return 3.0
	default:
		return 0.0
	}
}

// TrackTemperature derives the track temperature, floored at 15°C
func TrackTemperature(airTemp, humidity, cloudCover float64, tod TimeOfDay) float64 {
	t := airTemp + trackTempOffset - humidityEffect*humidity -
		cloudCoverEffect*cloudCover - tod.Offset()
	return max(t, minTrackTemp)
}

// ClassifyRain maps precipitation (mm/h) to a rain intensity.
// Thresholds are exclusive upper bounds: 0.1 is already LIGHT_RAIN.
func ClassifyRain(precipitation float64) model.RainIntensity {
	switch {
	case precipitation < 0.1:
		return model.Dry
	case precipitation < 0.5:
		return model.LightRain
	case precipitation < 1.0:
		return model.ModerateRain
	default:
		return model.HeavyRain
	}
}
