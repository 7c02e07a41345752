// Package optimizer searches the pit stop plan with the minimal total race time.
//
// The search is exhaustive over a discretized space: stop counts 1..MaxStops,
// pivot laps taken from an evenly spaced window and every assignment of the
// allowed compounds to the stops. Candidates are enumerated in a fixed order
// (stop count ascending, pivot combinations and compound products in
// lexicographic order). Among plans with equal total time the one enumerated
// first wins, so the result does not depend on worker scheduling.
//
// The number of simulations is C(window, stops) * compounds^stops per stop count,
// each simulation is O(race laps).
package optimizer

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/metrics"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
)

const (
	DefaultMaxStops    = 2
	DefaultWindowFirst = 12
	DefaultWindowStep  = 4
	// the window ends (exclusive) this many laps before the finish
	DefaultWindowGap = 8
)

type (
	TyreModel interface {
		racesim.TyreModel
		Names() []string
	}
	// Request describes a single search.
	// Compounds are the candidates fitted at each stop. If empty, all dry compounds
	// except the starting one are used.
	Request struct {
		Laps       int
		Start      string
		Compounds  []string
		MaxStops   int
		Weather    []model.WeatherSample
		SafetyCars []model.SafetyCarInterval
	}
	Candidate struct {
		Seq  int
		Plan model.PitPlan
	}
	Option    func(*Optimizer)
	Optimizer struct {
		tm          TyreModel
		sim         *racesim.Simulator
		workers     int
		budget      time.Duration
		threshold   float64
		useThresh   bool
		windowFirst int
		windowStep  int
		windowGap   int
		l           *log.Logger
	}
)

// WithWorkers bounds the number of concurrent simulations (default GOMAXPROCS)
func WithWorkers(n int) Option {
	return func(o *Optimizer) {
		o.workers = n
	}
}

// WithTimeBudget stops the search after d. Candidates not evaluated by then are skipped.
func WithTimeBudget(d time.Duration) Option {
	return func(o *Optimizer) {
		o.budget = d
	}
}

// WithThreshold stops the search as soon as a plan with a total time <= arg is found
func WithThreshold(arg float64) Option {
	return func(o *Optimizer) {
		o.threshold = arg
		o.useThresh = true
	}
}

func WithPivotWindow(first, step, gap int) Option {
	return func(o *Optimizer) {
		o.windowFirst = first
		o.windowStep = step
		o.windowGap = gap
	}
}

func WithSimulator(sim *racesim.Simulator) Option {
	return func(o *Optimizer) {
		o.sim = sim
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) {
		o.l = l
	}
}

func NewOptimizer(tm TyreModel, opts ...Option) *Optimizer {
	ret := &Optimizer{
		tm:          tm,
		workers:     runtime.GOMAXPROCS(0),
		windowFirst: DefaultWindowFirst,
		windowStep:  DefaultWindowStep,
		windowGap:   DefaultWindowGap,
		l:           log.Default().Named("optimizer"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.sim == nil {
		ret.sim = racesim.NewSimulator(tm)
	}
	if ret.workers < 1 {
		ret.workers = 1
	}
	if ret.windowStep < 1 {
		ret.windowStep = DefaultWindowStep
	}
	return ret
}

// PivotWindow returns the candidate pit laps first, first+step, ... below raceLaps-gap
func (o *Optimizer) PivotWindow(raceLaps int) []int {
	ret := []int{}
	for lap := o.windowFirst; lap < raceLaps-o.windowGap; lap += o.windowStep {
		ret = append(ret, lap)
	}
	return ret
}

// Optimize evaluates all candidates and returns the one with minimal total time.
// If the search is cut short by ctx, the time budget or the threshold, the best
// plan found so far is returned with Complete set to false. An error is returned
// if not a single candidate could be evaluated.
//
//nolint:funlen // by design
func (o *Optimizer) Optimize(ctx context.Context, req *Request) (*model.BestPlan, error) {
	cands, err := o.Candidates(req)
	if err != nil {
		return nil, err
	}
	startTS := time.Now()
	if o.budget > 0 {
		var cancelBudget context.CancelFunc
		ctx, cancelBudget = context.WithTimeout(ctx, o.budget)
		defer cancelBudget()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		best      *evaluation
		evaluated int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	inst := metrics.Get()
	for i := range cands {
		if gctx.Err() != nil {
			break
		}
		cand := &cands[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := o.sim.Simulate(&racesim.Race{
				Laps:       req.Laps,
				Start:      req.Start,
				Plan:       cand.Plan,
				Weather:    req.Weather,
				SafetyCars: req.SafetyCars,
			})
			if err != nil {
				return err
			}
			// results arriving after the search was cut short are abandoned
			if gctx.Err() != nil {
				return nil
			}
			inst.Candidates.Add(gctx, 1)
			e := &evaluation{seq: cand.Seq, plan: cand.Plan, res: res}
			mu.Lock()
			defer mu.Unlock()
			evaluated++
			if best == nil || e.better(best) {
				best = e
			}
			if o.useThresh && res.TotalTime <= o.threshold {
				cancel()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	inst.SearchTime.Record(context.Background(), time.Since(startTS).Seconds())

	if best == nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("search aborted before first evaluation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: nothing evaluated", model.ErrNoFeasiblePlan)
	}
	ret := &model.BestPlan{
		TotalTime:  best.res.TotalTime,
		Start:      req.Start,
		Plan:       best.plan,
		Result:     best.res,
		Evaluated:  evaluated,
		Candidates: len(cands),
		Complete:   evaluated == len(cands),
	}
	o.l.Info("search finished",
		log.Int("candidates", len(cands)),
		log.Int("evaluated", evaluated),
		log.String("plan", ret.Plan.String()),
		log.Float64("total", ret.TotalTime),
		log.Duration("duration", time.Since(startTS)))
	return ret, nil
}

type evaluation struct {
	seq  int
	plan model.PitPlan
	res  *model.SimulationResult
}

// better orders by total time, then enumeration sequence
func (e *evaluation) better(other *evaluation) bool {
	if e.res.TotalTime != other.res.TotalTime {
		return e.res.TotalTime < other.res.TotalTime
	}
	return e.seq < other.seq
}

// Compounds returns the compounds used for stops in req
func (o *Optimizer) Compounds(req *Request) ([]string, error) {
	if len(req.Compounds) > 0 {
		for _, c := range req.Compounds {
			if _, err := o.tm.Compound(c); err != nil {
				return nil, err
			}
		}
		return slices.Clone(req.Compounds), nil
	}
	ret := lo.Filter(o.tm.Names(), func(name string, _ int) bool {
		return model.IsDry(name) && name != req.Start
	})
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: no compounds available for stops", model.ErrConfiguration)
	}
	return ret, nil
}
