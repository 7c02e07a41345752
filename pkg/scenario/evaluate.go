package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
)

type (
	// Summary aggregates the total times of a plan over several scenarios.
	// Times[i] belongs to the scenario with seed BaseSeed+i.
	Summary struct {
		Runs          int       `json:"runs"`
		BaseSeed      uint64    `json:"baseSeed"`
		Mean          float64   `json:"mean"`
		StdDev        float64   `json:"stdDev"`
		Min           float64   `json:"min"`
		Max           float64   `json:"max"`
		SafetyCarRuns int       `json:"safetyCarRuns"`
		Times         []float64 `json:"times"`
	}
	EvalRequest struct {
		Config   Config
		Start    string
		Plan     model.PitPlan
		BaseSeed uint64
		Runs     int
		Workers  int
	}
)

// Evaluate simulates the plan for Runs scenarios seeded BaseSeed, BaseSeed+1, ...
// Every scenario has its own random sources, so the summary does not depend on
// the number of workers.
func Evaluate(
	ctx context.Context,
	sim *racesim.Simulator,
	req *EvalRequest,
) (*Summary, error) {
	if req.Runs < 1 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", model.ErrInvalidConfig, req.Runs)
	}
	times := make([]float64, req.Runs)
	withSC := make([]bool, req.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(req.Workers, 1))
	for i := range req.Runs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sc, err := Generate(&req.Config, req.BaseSeed+uint64(i))
			if err != nil {
				return err
			}
			res, err := sim.Simulate(&racesim.Race{
				Laps:       req.Config.Laps,
				Start:      req.Start,
				Plan:       req.Plan,
				Weather:    sc.Weather,
				SafetyCars: sc.SafetyCars,
			})
			if err != nil {
				return err
			}
			times[i] = res.TotalTime
			withSC[i] = len(sc.SafetyCars) > 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	mean, std := stat.MeanStdDev(times, nil)
	if req.Runs == 1 {
		std = 0
	}
	return &Summary{
		Runs:          req.Runs,
		BaseSeed:      req.BaseSeed,
		Mean:          mean,
		StdDev:        std,
		Min:           slices.Min(times),
		Max:           slices.Max(times),
		SafetyCarRuns: lo.Count(withSC, true),
		Times:         times,
	}, nil
}
