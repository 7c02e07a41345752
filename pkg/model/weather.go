package model

type RainIntensity string

const (
	Dry          RainIntensity = "DRY"
	LightRain    RainIntensity = "LIGHT_RAIN"
	ModerateRain RainIntensity = "MODERATE_RAIN"
	HeavyRain    RainIntensity = "HEAVY_RAIN"
)

func (r RainIntensity) IsWet() bool {
	return r != Dry
}

// WeatherConditions are the state variables of the weather walk
type WeatherConditions struct {
	AirTemp       float64 `json:"airTemp" mapstructure:"air_temp"`           // Celsius
	Humidity      float64 `json:"humidity" mapstructure:"humidity"`          // percent
	Precipitation float64 `json:"precipitation" mapstructure:"precipitation"` // mm/h
	CloudCover    float64 `json:"cloudCover" mapstructure:"cloud_cover"`     // percent
}

// WeatherSample describes the weather for a single lap
type WeatherSample struct {
	Lap           int           `json:"lap"`
	AirTemp       float64       `json:"airTemp"`
	TrackTemp     float64       `json:"trackTemp"`
	Humidity      float64       `json:"humidity"`
	Precipitation float64       `json:"precipitation"`
	RainIntensity RainIntensity `json:"rainIntensity"`
	CloudCover    float64       `json:"cloudCover"`
}
