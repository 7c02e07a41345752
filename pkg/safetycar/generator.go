// Package safetycar draws safety car periods and provides helpers to account for them.
package safetycar

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/model"
)

const (
	BaseProbability   = 0.15
	PerLapProbability = 0.002

	// first lap a safety car may be deployed
	EarliestStart = 5
	// the window for the start lap ends this many laps before the finish
	latestStartGap = 10
	// a safety car ends at the latest this many laps before the finish
	latestEndGap = 2

	durationMean  = 4.0
	durationSigma = 1.5
	minDuration   = 2
	maxDuration   = 8
)

type (
	Option    func(*Generator)
	Generator struct {
		rnd   *rand.Rand
		draws int
		l     *log.Logger
	}
)

func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rnd = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithRand uses rnd as random source. rnd must not be shared with other goroutines.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

// WithDraws sets the number of independent draws per race (default 1).
// Draws overlapping an already generated interval are discarded.
func WithDraws(n int) Option {
	return func(g *Generator) {
		g.draws = n
	}
}

func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		g.l = l
	}
}

// NewGenerator creates a safety car generator.
// A Generator is not safe for concurrent use.
func NewGenerator(opts ...Option) *Generator {
	ret := &Generator{
		draws: 1,
		l:     log.Default().Named("safetycar"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		ret.rnd = rand.New(rand.NewPCG(0, 0))
	}
	return ret
}

// WeatherFactor scales the occurrence probability by the share of wet laps
//
//nolint:mnd // factor table
func WeatherFactor(weather []model.WeatherSample) float64 {
	if len(weather) == 0 {
		return 1.0
	}
	wet := lo.CountBy(weather, func(s model.WeatherSample) bool {
		return s.RainIntensity.IsWet()
	})
	frac := float64(wet) / float64(len(weather))
	switch {
	case wet == 0:
		return 1.0
	case frac < 0.3:
		return 1.2
	case frac < 0.7:
		return 1.5
	default:
		return 2.0
	}
}

// Probability is the chance of a safety car for a race of raceLaps laps.
// The result is capped at 1.
func Probability(raceLaps int, weather []model.WeatherSample) float64 {
	p := (BaseProbability + float64(raceLaps)*PerLapProbability) * WeatherFactor(weather)
	return math.Min(p, 1.0)
}

// Generate draws the safety car intervals for a race. The result is sorted by start lap.
// Races shorter than the start window never get a safety car.
// Each draw consumes random numbers in a fixed order (occurrence, start lap, duration).
func (g *Generator) Generate(raceLaps int, weather []model.WeatherSample) []model.SafetyCarInterval {
	ret := make([]model.SafetyCarInterval, 0, g.draws)
	latestStart := raceLaps - latestStartGap
	if latestStart < EarliestStart {
		return ret
	}
	p := Probability(raceLaps, weather)
	for range g.draws {
		if g.rnd.Float64() >= p {
			continue
		}
		start := EarliestStart + g.rnd.IntN(latestStart-EarliestStart+1)
		dur := g.duration()
		end := min(start+dur, raceLaps-latestEndGap)
		sc := model.SafetyCarInterval{
			StartLap: start,
			EndLap:   end,
			Duration: end - start,
			Cause:    cause(start, weather),
		}
		if lo.ContainsBy(ret, func(o model.SafetyCarInterval) bool {
			return sc.StartLap <= o.EndLap && o.StartLap <= sc.EndLap
		}) {
			g.l.Debug("discard overlapping safety car", log.Int("start", start))
			continue
		}
		ret = append(ret, sc)
	}
	g.l.Debug("safety cars generated",
		log.Float64("probability", p),
		log.Int("count", len(ret)))
	return sortIntervals(ret)
}

func (g *Generator) duration() int {
	d := distuv.Normal{Mu: durationMean, Sigma: durationSigma, Src: g.rnd}.Rand()
	return min(max(int(math.Round(d)), minDuration), maxDuration)
}

func cause(start int, weather []model.WeatherSample) model.SafetyCarCause {
	if start-1 < len(weather) && weather[start-1].RainIntensity.IsWet() {
		return model.CauseWeather
	}
	return model.CauseIncident
}

func sortIntervals(arg []model.SafetyCarInterval) []model.SafetyCarInterval {
	slices.SortFunc(arg, func(a, b model.SafetyCarInterval) int {
		return cmp.Compare(a.StartLap, b.StartLap)
	})
	return arg
}
