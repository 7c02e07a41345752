package scenario

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
	"github.com/mpapenbr/racestrategy/pkg/tyre"
	"github.com/mpapenbr/racestrategy/pkg/weather"
)

func testConfig(laps int) *Config {
	return &Config{Laps: laps, Initial: weather.DefaultConditions()}
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(60)
	a, err := Generate(cfg, 42)
	require.NoError(t, err)
	b, err := Generate(cfg, 42)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed differs (-a +b):\n%s", diff)
	}
	assert.Equal(t, uint64(42), a.Seed)
	assert.Len(t, a.Weather, 60)
	for _, sc := range a.SafetyCars {
		assert.GreaterOrEqual(t, sc.StartLap, 5)
		assert.LessOrEqual(t, sc.EndLap, 58)
	}

	differs := false
	for seed := uint64(43); seed < 53 && !differs; seed++ {
		c, err := Generate(cfg, seed)
		require.NoError(t, err)
		differs = !cmp.Equal(a.Weather, c.Weather)
	}
	assert.True(t, differs, "expected different weather for other seeds")
}

func TestGenerate_InvalidLaps(t *testing.T) {
	_, err := Generate(testConfig(0), 1)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestEvaluate(t *testing.T) {
	sim := racesim.NewSimulator(tyre.NewDefaultModel(), racesim.WithLogger(log.Nop()))
	req := &EvalRequest{
		Config:   *testConfig(50),
		Start:    model.Medium,
		Plan:     model.PitPlan{{Lap: 25, Compound: model.Hard}},
		BaseSeed: 7,
		Runs:     30,
		Workers:  1,
	}
	ref, err := Evaluate(context.Background(), sim, req)
	require.NoError(t, err)
	assert.Equal(t, 30, ref.Runs)
	assert.Len(t, ref.Times, 30)
	assert.LessOrEqual(t, ref.Min, ref.Mean)
	assert.GreaterOrEqual(t, ref.Max, ref.Mean)
	assert.GreaterOrEqual(t, ref.StdDev, 0.0)
	assert.LessOrEqual(t, ref.SafetyCarRuns, 30)

	// single runs reproduce the entries of the batch
	single := *req
	single.BaseSeed = req.BaseSeed + 3
	single.Runs = 1
	one, err := Evaluate(context.Background(), sim, &single)
	require.NoError(t, err)
	assert.Equal(t, ref.Times[3], one.Times[0])
	assert.Equal(t, one.Min, one.Max)
	assert.Equal(t, 0.0, one.StdDev)

	for _, workers := range []int{2, 5, 30} {
		multi := *req
		multi.Workers = workers
		got, err := Evaluate(context.Background(), sim, &multi)
		require.NoError(t, err)
		if diff := cmp.Diff(ref, got); diff != "" {
			t.Errorf("workers %d: mismatch (-ref +got):\n%s", workers, diff)
		}
	}
}

func TestEvaluate_Errors(t *testing.T) {
	sim := racesim.NewSimulator(tyre.NewDefaultModel(), racesim.WithLogger(log.Nop()))
	tests := []struct {
		name string
		req  EvalRequest
		want error
	}{
		{"no runs", EvalRequest{Config: *testConfig(50), Start: model.Soft, Runs: 0}, model.ErrInvalidConfig},
		{"bad plan", EvalRequest{
			Config: *testConfig(50), Start: model.Soft, Runs: 3,
			Plan: model.PitPlan{{Lap: 60, Compound: model.Hard}},
		}, model.ErrInvalidPlan},
		{"bad start", EvalRequest{Config: *testConfig(50), Start: "HYPER", Runs: 3}, model.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(context.Background(), sim, &tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}
