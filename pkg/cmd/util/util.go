// Package util holds helpers shared by the CLI commands.
package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/config"
	"github.com/mpapenbr/racestrategy/pkg/metrics"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
	"github.com/mpapenbr/racestrategy/pkg/scenario"
	"github.com/mpapenbr/racestrategy/pkg/tyre"
	"github.com/mpapenbr/racestrategy/pkg/weather"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger according to the log flags and installs it as default
func SetupLogger() (*log.Logger, error) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		f, err := log.WithFilter(config.LogFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid log filter: %w", err)
		}
		opts = append(opts, f)
	}
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, parseLogLevel(config.LogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr, parseLogLevel(config.LogLevel, log.DebugLevel), opts...)
	}
	log.ResetDefault(logger)
	return logger, nil
}

// SetupTelemetry installs the stdout metrics exporter if enabled.
// The returned function must be called on shutdown.
func SetupTelemetry() func() {
	if !config.EnableTelemetry {
		return func() {}
	}
	interval, err := time.ParseDuration(config.TelemetryInterval)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 10s", log.ErrorField(err))
		interval = 10 * time.Second
	}
	shutdown, err := metrics.Setup(interval)
	if err != nil {
		log.Error("could not setup telemetry", log.ErrorField(err))
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Error("telemetry shutdown", log.ErrorField(err))
		}
	}
}

func TyreModel() (*tyre.Model, error) {
	compounds, err := config.LoadCompounds(config.CompoundsFile)
	if err != nil {
		return nil, err
	}
	return tyre.NewModel(compounds)
}

func Simulator(tm racesim.TyreModel) *racesim.Simulator {
	return racesim.NewSimulator(tm,
		racesim.WithPitLoss(config.PitLoss),
		racesim.WithStartFuel(config.StartFuel))
}

func ScenarioConfig() *scenario.Config {
	return &scenario.Config{
		Laps: config.RaceLaps,
		Initial: model.WeatherConditions{
			AirTemp:       config.AirTemp,
			Humidity:      config.Humidity,
			Precipitation: config.Precipitation,
			CloudCover:    config.CloudCover,
		},
		TimeOfDay: weather.TimeOfDay(config.TimeOfDay),
	}
}

func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
