package optimizer

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/mpapenbr/racestrategy/pkg/model"
)

// Candidates enumerates the search space in its documented order.
// Seq of the returned candidates is their position in this order.
func (o *Optimizer) Candidates(req *Request) ([]Candidate, error) {
	if req.Laps < 1 {
		return nil, fmt.Errorf("%w: race laps must be positive, got %d",
			model.ErrInvalidConfig, req.Laps)
	}
	if _, err := o.tm.Compound(req.Start); err != nil {
		return nil, err
	}
	compounds, err := o.Compounds(req)
	if err != nil {
		return nil, err
	}
	maxStops := req.MaxStops
	if maxStops < 1 {
		maxStops = DefaultMaxStops
	}
	window := o.PivotWindow(req.Laps)

	ret := []Candidate{}
	for stops := 1; stops <= maxStops; stops++ {
		if len(window) < stops {
			break
		}
		lens := make([]int, stops)
		for i := range lens {
			lens[i] = len(compounds)
		}
		products := lexSorted(combin.Cartesian(lens))
		for _, pivots := range lexSorted(combin.Combinations(len(window), stops)) {
			for _, assign := range products {
				plan := make(model.PitPlan, stops)
				for i := range stops {
					plan[i] = model.PitStop{
						Lap:      window[pivots[i]],
						Compound: compounds[assign[i]],
					}
				}
				ret = append(ret, Candidate{Seq: len(ret), Plan: plan})
			}
		}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: empty pivot window for %d laps and %d stops",
			model.ErrNoFeasiblePlan, req.Laps, maxStops)
	}
	return ret, nil
}

func lexSorted(arg [][]int) [][]int {
	slices.SortFunc(arg, func(a, b []int) int { return slices.Compare(a, b) })
	return arg
}
