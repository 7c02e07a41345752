package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/tyre"
)

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogFilter         string  // zapfilter rules, e.g. "debug:optimizer* info:*"
	EnableTelemetry   bool    // enable telemetry (stdout metrics exporter)
	TelemetryInterval string  // export interval for metrics
	CompoundsFile     string  // path to yaml file with compound parameters
	RaceLaps          int     // number of race laps
	StartCompound     string  // compound at race start
	PitLoss           float64 // base pit loss in seconds
	StartFuel         float64 // fuel fraction at race start
	Seed              uint64  // seed for weather and safety car generation
	TimeOfDay         string  // morning, afternoon, evening
	AirTemp           float64 // initial air temperature
	Humidity          float64 // initial humidity
	Precipitation     float64 // initial precipitation
	CloudCover        float64 // initial cloud cover
)

// compoundsKey is the section holding compound parameters in the compounds file
const compoundsKey = "compounds"

// LoadCompounds reads compound parameters from the given yaml file.
// Compounds not mentioned in the file keep their default parameters, compounds
// in the file must carry all parameters.
// An empty path yields the defaults.
func LoadCompounds(path string) (map[string]model.Compound, error) {
	ret := tyre.DefaultCompounds()
	if path == "" {
		return ret, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", model.ErrConfiguration, path, err)
	}
	return decodeCompounds(v, ret)
}

// requiredCompoundKeys must be present for every compound in the compounds file
var requiredCompoundKeys = []string{
	"base", "k", "cliff_at", "cliff_penalty", "max_life", "optimal_temp", "temp_sensitivity",
}

func decodeCompounds(v *viper.Viper, base map[string]model.Compound) (map[string]model.Compound, error) {
	loaded := map[string]model.Compound{}
	if err := v.UnmarshalKey(compoundsKey, &loaded); err != nil {
		return nil, fmt.Errorf("%w: decoding compounds: %w", model.ErrConfiguration, err)
	}
	names := lo.Keys(loaded)
	slices.Sort(names)
	for _, key := range names {
		c := loaded[key]
		// viper lowercases keys
		name := strings.ToUpper(key)
		for _, param := range requiredCompoundKeys {
			if !v.IsSet(compoundsKey + "." + key + "." + param) {
				return nil, fmt.Errorf("%w: compound %s: missing %s",
					model.ErrConfiguration, name, param)
			}
		}
		if c.Base <= 0 {
			return nil, fmt.Errorf("%w: compound %s: base must be positive",
				model.ErrConfiguration, name)
		}
		c.Name = name
		base[name] = c
	}
	return base, nil
}
