// Package convert turns engine results into plain records for output.
package convert

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/safetycar"
)

// number of decimal places for times in reports
const timePlaces = 3

type (
	StintRecord struct {
		Compound   string          `json:"compound"`
		StartLap   int             `json:"startLap"`
		EndLap     int             `json:"endLap"`
		Laps       int             `json:"laps"`
		TotalTime  decimal.Decimal `json:"totalTime"`
		AvgLapTime decimal.Decimal `json:"avgLapTime"`
	}
	PitRecord struct {
		Lap            int             `json:"lap"`
		Compound       string          `json:"compound"`
		Loss           decimal.Decimal `json:"loss"`
		UnderSafetyCar bool            `json:"underSafetyCar"`
	}
	ResultRecord struct {
		TotalTime    decimal.Decimal   `json:"totalTime"`
		TotalPitLoss decimal.Decimal   `json:"totalPitLoss"`
		Stints       []StintRecord     `json:"stints"`
		Pits         []PitRecord       `json:"pits"`
		LapTimes     []decimal.Decimal `json:"lapTimes,omitempty"`
	}
	BestPlanRecord struct {
		TotalTime  decimal.Decimal `json:"totalTime"`
		Start      string          `json:"start"`
		Plan       string          `json:"plan"`
		Evaluated  int             `json:"evaluated"`
		Candidates int             `json:"candidates"`
		Complete   bool            `json:"complete"`
		Result     *ResultRecord   `json:"result"`
	}
)

func Seconds(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(timePlaces)
}

// ConvertResult creates the report record. If withLaps is set, the lap times are
// included, compressed under safety car periods for display.
func ConvertResult(
	res *model.SimulationResult,
	intervals []model.SafetyCarInterval,
	withLaps bool,
) *ResultRecord {
	ret := &ResultRecord{
		TotalTime:    Seconds(res.TotalTime),
		TotalPitLoss: Seconds(res.TotalPitLoss),
		Stints: lo.Map(res.Stints, func(s model.StintResult, _ int) StintRecord {
			return StintRecord{
				Compound:   s.Compound,
				StartLap:   s.StartLap,
				EndLap:     s.EndLap,
				Laps:       s.Laps,
				TotalTime:  Seconds(s.TotalTime),
				AvgLapTime: Seconds(s.AvgLapTime),
			}
		}),
		Pits: lo.Map(res.Pits, func(p model.PitResult, _ int) PitRecord {
			return PitRecord{
				Lap:            p.Lap,
				Compound:       p.Compound,
				Loss:           Seconds(p.Loss),
				UnderSafetyCar: p.UnderSafetyCar,
			}
		}),
	}
	if withLaps {
		display := safetycar.FieldCompression(res.LapTimes, intervals,
			safetycar.DefaultCompression)
		ret.LapTimes = lo.Map(display, func(t float64, _ int) decimal.Decimal {
			return Seconds(t)
		})
	}
	return ret
}

func ConvertBestPlan(best *model.BestPlan) *BestPlanRecord {
	return &BestPlanRecord{
		TotalTime:  Seconds(best.TotalTime),
		Start:      best.Start,
		Plan:       best.Plan.String(),
		Evaluated:  best.Evaluated,
		Candidates: best.Candidates,
		Complete:   best.Complete,
		Result:     ConvertResult(best.Result, nil, false),
	}
}
