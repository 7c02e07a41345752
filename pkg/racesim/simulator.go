// Package racesim steps through a race lap by lap and accounts lap times and pit losses.
package racesim

import (
	"context"
	"fmt"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/metrics"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/safetycar"
)

const (
	DefaultPitLoss   = 21.0
	DefaultStartFuel = 1.0
)

type (
	// TyreModel is the lap time model used by the simulator
	TyreModel interface {
		LapTime(compound string, age int, trackTemp, fuel float64) (float64, error)
		Compound(name string) (model.Compound, error)
	}
	// Race describes the inputs of a single simulation.
	// Weather is optional; if present it must contain one sample per lap.
	Race struct {
		Laps       int
		Start      string
		Plan       model.PitPlan
		Weather    []model.WeatherSample
		SafetyCars []model.SafetyCarInterval
	}
	Option    func(*Simulator)
	Simulator struct {
		tm        TyreModel
		pitLoss   float64
		startFuel float64
		l         *log.Logger
	}
)

func WithPitLoss(arg float64) Option {
	return func(s *Simulator) {
		s.pitLoss = arg
	}
}

func WithStartFuel(arg float64) Option {
	return func(s *Simulator) {
		s.startFuel = arg
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		s.l = l
	}
}

// NewSimulator creates a simulator. The simulator holds no mutable state,
// concurrent calls to Simulate don't interfere.
func NewSimulator(tm TyreModel, opts ...Option) *Simulator {
	ret := &Simulator{
		tm:        tm,
		pitLoss:   DefaultPitLoss,
		startFuel: DefaultStartFuel,
		l:         log.Default().Named("racesim"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *Simulator) PitLoss() float64 {
	return s.pitLoss
}

// Simulate runs the race and returns the total time with a stint breakdown.
// On a pit lap the pit loss is added before the lap itself is driven on the new set.
// Stints without laps (a stop on lap 1) are not reported.
//
//nolint:funlen // by design
func (s *Simulator) Simulate(r *Race) (*model.SimulationResult, error) {
	if err := s.validate(r); err != nil {
		return nil, err
	}
	metrics.Get().Simulations.Add(context.Background(), 1)

	res := &model.SimulationResult{
		Stints:   make([]model.StintResult, 0, len(r.Plan)+1),
		Pits:     make([]model.PitResult, 0, len(r.Plan)),
		LapTimes: make([]float64, 0, r.Laps),
	}
	tyreState := model.TyreState{}
	tyreState.Fit(r.Start)
	stint := model.StintResult{Compound: r.Start, StartLap: 1}
	closeStint := func(endLap int) {
		stint.EndLap = endLap
		stint.Laps = endLap - stint.StartLap + 1
		if stint.Laps > 0 {
			stint.AvgLapTime = stint.TotalTime / float64(stint.Laps)
			res.Stints = append(res.Stints, stint)
		}
	}
	fuel := s.startFuel
	fuelPerLap := 1.0 / float64(r.Laps)
	next := 0

	for lap := 1; lap <= r.Laps; lap++ {
		if next < len(r.Plan) && r.Plan[next].Lap == lap {
			stop := r.Plan[next]
			loss := safetycar.PitTimeUnder(s.pitLoss, lap, r.SafetyCars)
			res.TotalTime += loss
			res.TotalPitLoss += loss
			res.Pits = append(res.Pits, model.PitResult{
				Lap:            lap,
				Compound:       stop.Compound,
				Loss:           loss,
				UnderSafetyCar: model.UnderSafetyCar(lap, r.SafetyCars),
			})
			closeStint(lap - 1)
			stint = model.StintResult{Compound: stop.Compound, StartLap: lap}
			tyreState.Fit(stop.Compound)
			next++
		}
		trackTemp, err := s.trackTemp(r, lap, tyreState.Compound)
		if err != nil {
			return nil, err
		}
		t, err := s.tm.LapTime(tyreState.Compound, tyreState.Age, trackTemp, fuel)
		if err != nil {
			return nil, err
		}
		res.TotalTime += t
		res.LapTimes = append(res.LapTimes, t)
		stint.TotalTime += t
		tyreState.CompleteLap()
		fuel = max(fuel-fuelPerLap, 0)
	}
	closeStint(r.Laps)

	s.l.Debug("race simulated",
		log.String("start", r.Start),
		log.String("plan", r.Plan.String()),
		log.Float64("total", res.TotalTime))
	return res, nil
}

// without weather the track is assumed to run at the compound's optimal temperature
func (s *Simulator) trackTemp(r *Race, lap int, compound string) (float64, error) {
	if len(r.Weather) > 0 {
		return r.Weather[lap-1].TrackTemp, nil
	}
	c, err := s.tm.Compound(compound)
	if err != nil {
		return 0, err
	}
	return c.OptimalTemp, nil
}

func (s *Simulator) validate(r *Race) error {
	if r.Laps < 1 {
		return fmt.Errorf("%w: race laps must be positive, got %d",
			model.ErrInvalidConfig, r.Laps)
	}
	if len(r.Weather) > 0 && len(r.Weather) != r.Laps {
		return fmt.Errorf("%w: got %d weather samples for %d laps",
			model.ErrInvalidConfig, len(r.Weather), r.Laps)
	}
	if err := r.Plan.Validate(r.Laps); err != nil {
		return err
	}
	if _, err := s.tm.Compound(r.Start); err != nil {
		return err
	}
	for _, stop := range r.Plan {
		if _, err := s.tm.Compound(stop.Compound); err != nil {
			return err
		}
	}
	return nil
}
