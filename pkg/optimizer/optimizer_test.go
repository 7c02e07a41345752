//nolint:funlen // ok for tests
package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
	"github.com/mpapenbr/racestrategy/pkg/tyre"
	"github.com/mpapenbr/racestrategy/testsupport/basedata"
)

func newOptimizer(tm TyreModel, opts ...Option) *Optimizer {
	return NewOptimizer(tm, append([]Option{
		WithLogger(log.Nop()),
		WithSimulator(racesim.NewSimulator(tm, racesim.WithLogger(log.Nop()))),
	}, opts...)...)
}

func TestOptimizer_PivotWindow(t *testing.T) {
	o := newOptimizer(tyre.NewDefaultModel())
	assert.Equal(t, []int{12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60, 64, 68},
		o.PivotWindow(78))
	assert.Equal(t, []int{12}, o.PivotWindow(24))
	assert.Empty(t, o.PivotWindow(20))
}

func TestOptimizer_Candidates(t *testing.T) {
	o := newOptimizer(tyre.NewDefaultModel())
	cands, err := o.Candidates(&Request{Laps: 78, Start: model.Soft})
	require.NoError(t, err)
	// 15 pivots, compounds HARD and MEDIUM: 15*2 + C(15,2)*2*2
	assert.Len(t, cands, 30+105*4)
	for i, c := range cands {
		assert.Equal(t, i, c.Seq)
		assert.NoError(t, c.Plan.Validate(78))
	}
	assert.Equal(t, model.PitPlan{{Lap: 12, Compound: model.Hard}}, cands[0].Plan)
	assert.Equal(t, model.PitPlan{{Lap: 12, Compound: model.Medium}}, cands[1].Plan)
	assert.Equal(t, model.PitPlan{{Lap: 16, Compound: model.Hard}}, cands[2].Plan)
	assert.Equal(t, model.PitPlan{
		{Lap: 12, Compound: model.Hard},
		{Lap: 16, Compound: model.Hard},
	}, cands[30].Plan)
	assert.Equal(t, model.PitPlan{
		{Lap: 12, Compound: model.Hard},
		{Lap: 16, Compound: model.Medium},
	}, cands[31].Plan)
	assert.Equal(t, model.PitPlan{
		{Lap: 64, Compound: model.Medium},
		{Lap: 68, Compound: model.Medium},
	}, cands[len(cands)-1].Plan)
}

func TestOptimizer_CandidatesSmallWindow(t *testing.T) {
	o := newOptimizer(tyre.NewDefaultModel())
	cands, err := o.Candidates(&Request{Laps: 24, Start: model.Soft, MaxStops: 2})
	require.NoError(t, err)
	assert.Len(t, cands, 2, "only single stop plans fit")
}

func TestOptimizer_Errors(t *testing.T) {
	o := newOptimizer(tyre.NewDefaultModel())
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"short race", Request{Laps: 20, Start: model.Soft}, model.ErrNoFeasiblePlan},
		{"very short race", Request{Laps: 3, Start: model.Soft, MaxStops: 1}, model.ErrNoFeasiblePlan},
		{"no laps", Request{Laps: 0, Start: model.Soft}, model.ErrInvalidConfig},
		{"unknown start", Request{Laps: 60, Start: "HYPER"}, model.ErrConfiguration},
		{"unknown stop compound", Request{Laps: 60, Start: model.Soft, Compounds: []string{"HYPER"}}, model.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, err := o.Optimize(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, best)
		})
	}
}

func TestOptimizer_BeatsReferencePlans(t *testing.T) {
	tm := tyre.NewDefaultModel()
	sim := racesim.NewSimulator(tm, racesim.WithLogger(log.Nop()))
	for _, laps := range []int{52, 66, 78} {
		best, err := newOptimizer(tm).Optimize(context.Background(),
			&Request{Laps: laps, Start: model.Soft})
		require.NoError(t, err)
		assert.True(t, best.Complete)
		assert.Equal(t, best.Candidates, best.Evaluated)

		for _, ref := range basedata.ReferencePlans() {
			res, err := sim.Simulate(&racesim.Race{Laps: laps, Start: model.Soft, Plan: ref})
			require.NoError(t, err)
			assert.LessOrEqual(t, best.TotalTime, res.TotalTime, "laps %d ref %s", laps, ref)
		}
		// the reported result belongs to the reported plan
		res, err := sim.Simulate(&racesim.Race{Laps: laps, Start: model.Soft, Plan: best.Plan})
		require.NoError(t, err)
		assert.Equal(t, res.TotalTime, best.TotalTime)
	}
}

func TestOptimizer_TieBreak(t *testing.T) {
	// identical compounds without degradation and fuel effect: all single stop
	// plans take exactly the same time
	tm, err := tyre.NewModel(basedata.FlatCompounds())
	require.NoError(t, err)
	for _, workers := range []int{1, 3, 8} {
		o := NewOptimizer(tm,
			WithLogger(log.Nop()),
			WithWorkers(workers),
			WithSimulator(racesim.NewSimulator(tm,
				racesim.WithStartFuel(0), racesim.WithLogger(log.Nop()))))
		best, err := o.Optimize(context.Background(), &Request{
			Laps: 50, Start: model.Soft, Compounds: []string{model.Medium, model.Hard},
		})
		require.NoError(t, err)
		assert.Equal(t, model.PitPlan{{Lap: 12, Compound: model.Medium}}, best.Plan,
			"workers %d", workers)
		assert.Equal(t, 50*basedata.FlatBase+racesim.DefaultPitLoss, best.TotalTime)
	}
}

func TestOptimizer_IndependentOfWorkers(t *testing.T) {
	tm := tyre.NewDefaultModel()
	req := &Request{
		Laps:       70,
		Start:      model.Medium,
		SafetyCars: []model.SafetyCarInterval{{StartLap: 30, EndLap: 34, Duration: 4}},
	}
	ref, err := newOptimizer(tm, WithWorkers(1)).Optimize(context.Background(), req)
	require.NoError(t, err)
	for _, workers := range []int{2, 4, 16} {
		got, err := newOptimizer(tm, WithWorkers(workers)).Optimize(context.Background(), req)
		require.NoError(t, err)
		if diff := cmp.Diff(ref, got); diff != "" {
			t.Errorf("workers %d: mismatch (-ref +got):\n%s", workers, diff)
		}
	}
}

func TestOptimizer_Threshold(t *testing.T) {
	tm := tyre.NewDefaultModel()
	o := newOptimizer(tm, WithWorkers(1), WithThreshold(1e9))
	best, err := o.Optimize(context.Background(), &Request{Laps: 78, Start: model.Soft})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.False(t, best.Complete)
	assert.Less(t, best.Evaluated, best.Candidates)
	assert.NotNil(t, best.Result)
}

func TestOptimizer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	best, err := newOptimizer(tyre.NewDefaultModel()).Optimize(ctx,
		&Request{Laps: basedata.SampleLaps, Start: basedata.SampleStart})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, best)
}

// slowModel delays every lap time computation
type slowModel struct {
	*tyre.Model
	delay time.Duration
}

func (m *slowModel) LapTime(compound string, age int, trackTemp, fuel float64) (float64, error) {
	time.Sleep(m.delay)
	return m.Model.LapTime(compound, age, trackTemp, fuel)
}

func TestOptimizer_TimeBudget(t *testing.T) {
	tm := &slowModel{Model: tyre.NewDefaultModel(), delay: 100 * time.Microsecond}
	req := &Request{Laps: basedata.SampleLaps, Start: basedata.SampleStart}

	t.Run("partial search", func(t *testing.T) {
		o := newOptimizer(tm, WithWorkers(2), WithTimeBudget(300*time.Millisecond))
		best, err := o.Optimize(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.False(t, best.Complete)
		assert.Greater(t, best.Evaluated, 0)
		assert.Less(t, best.Evaluated, best.Candidates)
		assert.Equal(t, best.Result.TotalTime, best.TotalTime)
		assert.NoError(t, best.Plan.Validate(req.Laps))
	})

	t.Run("expires before first evaluation", func(t *testing.T) {
		o := newOptimizer(tm, WithWorkers(2), WithTimeBudget(time.Nanosecond))
		best, err := o.Optimize(context.Background(), req)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, best)
	})
}
