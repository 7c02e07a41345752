//nolint:funlen // ok for tests
package weather

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/model"
)

func TestEnvironment_ForecastLength(t *testing.T) {
	for _, laps := range []int{1, 2, 53, 78} {
		env := NewEnvironment(WithSeed(42), WithLogger(log.Nop()))
		got, err := env.Forecast(laps, DefaultConditions())
		require.NoError(t, err)
		assert.Len(t, got, laps)
		for i, s := range got {
			assert.Equal(t, i+1, s.Lap)
		}
	}
}

func TestEnvironment_ForecastInvalidLaps(t *testing.T) {
	env := NewEnvironment(WithLogger(log.Nop()))
	_, err := env.Forecast(0, DefaultConditions())
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestEnvironment_Reproducible(t *testing.T) {
	create := func(seed uint64) []model.WeatherSample {
		env := NewEnvironment(WithSeed(seed), WithChangeProbability(0.5), WithLogger(log.Nop()))
		ret, err := env.Forecast(60, DefaultConditions())
		require.NoError(t, err)
		return ret
	}
	a := create(7)
	b := create(7)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different forecasts (-a +b):\n%s", diff)
	}
	c := create(8)
	assert.NotEqual(t, a, c, "different seeds should produce different forecasts")
}

func TestEnvironment_NoChange(t *testing.T) {
	env := NewEnvironment(WithSeed(1), WithChangeProbability(0), WithLogger(log.Nop()))
	initial := DefaultConditions()
	got, err := env.Forecast(30, initial)
	require.NoError(t, err)
	for _, s := range got {
		assert.Equal(t, initial.AirTemp, s.AirTemp)
		assert.Equal(t, initial.Humidity, s.Humidity)
		assert.Equal(t, initial.Precipitation, s.Precipitation)
		assert.Equal(t, initial.CloudCover, s.CloudCover)
		assert.Equal(t, model.Dry, s.RainIntensity)
	}
}

func TestEnvironment_Bounds(t *testing.T) {
	initial := model.WeatherConditions{
		AirTemp: 39.5, Humidity: 89, Precipitation: 0.05, CloudCover: 1,
	}
	for seed := range uint64(20) {
		env := NewEnvironment(WithSeed(seed), WithChangeProbability(1), WithLogger(log.Nop()))
		got, err := env.Forecast(200, initial)
		require.NoError(t, err)
		for _, s := range got {
			assert.GreaterOrEqual(t, s.AirTemp, 15.0)
			assert.LessOrEqual(t, s.AirTemp, 40.0)
			assert.GreaterOrEqual(t, s.Humidity, 20.0)
			assert.LessOrEqual(t, s.Humidity, 90.0)
			assert.GreaterOrEqual(t, s.Precipitation, 0.0)
			assert.GreaterOrEqual(t, s.CloudCover, 0.0)
			assert.LessOrEqual(t, s.CloudCover, 100.0)
			assert.GreaterOrEqual(t, s.TrackTemp, 15.0)
			assert.Equal(t, ClassifyRain(s.Precipitation), s.RainIntensity)
		}
	}
}

func TestEnvironment_TimeOfDay(t *testing.T) {
	initial := DefaultConditions()
	afternoon, err := NewEnvironment(WithChangeProbability(0), WithLogger(log.Nop())).
		Forecast(1, initial)
	require.NoError(t, err)
	morning, err := NewEnvironment(WithChangeProbability(0), WithTimeOfDay(Morning),
		WithLogger(log.Nop())).Forecast(1, initial)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, afternoon[0].TrackTemp-morning[0].TrackTemp, 1e-9)
}
