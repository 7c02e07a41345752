package racesim

import (
	"fmt"
	"time"

	"github.com/mpapenbr/racestrategy/pkg/model"
)

type (
	PartType int
	Part     interface {
		Type() PartType
		Output() string
	}
	StintPart interface {
		Part
		Compound() string
		Laps() int
		LapStart() int
		LapEnd() int
		StintTime() time.Duration
	}
	PitPart interface {
		Part
		Lap() int
		PitTime() time.Duration
	}
)

const (
	PartTypeStint PartType = iota
	PartTypePit
)

type (
	stintPart struct {
		compound  string
		laps      int
		lapStart  int
		lapEnd    int
		stintTime time.Duration
	}
	pitPart struct {
		lap      int
		compound string
		pitTime  time.Duration
		underSC  bool
	}
)

func toDur(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// Parts returns the race as an ordered sequence of stint and pit parts
func Parts(res *model.SimulationResult) []Part {
	ret := make([]Part, 0, len(res.Stints)+len(res.Pits))
	pi := 0
	addPitsBefore := func(lap int) {
		for pi < len(res.Pits) && res.Pits[pi].Lap <= lap {
			p := res.Pits[pi]
			ret = append(ret, &pitPart{
				lap: p.Lap, compound: p.Compound,
				pitTime: toDur(p.Loss), underSC: p.UnderSafetyCar,
			})
			pi++
		}
	}
	for _, s := range res.Stints {
		addPitsBefore(s.StartLap)
		ret = append(ret, &stintPart{
			compound:  s.Compound,
			laps:      s.Laps,
			lapStart:  s.StartLap,
			lapEnd:    s.EndLap,
			stintTime: toDur(s.TotalTime),
		})
	}
	return ret
}

func (s stintPart) Type() PartType {
	return PartTypeStint
}

func (s stintPart) Compound() string {
	return s.compound
}

func (s stintPart) Laps() int {
	return s.laps
}

func (s stintPart) LapStart() int {
	return s.lapStart
}

func (s stintPart) LapEnd() int {
	return s.lapEnd
}

func (s stintPart) StintTime() time.Duration {
	return s.stintTime
}

func (s stintPart) Output() string {
	return fmt.Sprintf("%s %d-%d (%d): %s",
		s.compound, s.lapStart, s.lapEnd, s.laps, s.stintTime.Round(time.Millisecond))
}

func (p pitPart) Type() PartType {
	return PartTypePit
}

func (p pitPart) Lap() int {
	return p.lap
}

func (p pitPart) PitTime() time.Duration {
	return p.pitTime
}

func (p pitPart) Output() string {
	sc := ""
	if p.underSC {
		sc = " (SC)"
	}
	return fmt.Sprintf("Pit lap %d -> %s %s%s",
		p.lap, p.compound, p.pitTime.Round(time.Millisecond), sc)
}
