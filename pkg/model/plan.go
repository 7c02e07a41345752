package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PitStop switches to Compound at the start of Lap
type PitStop struct {
	Lap      int    `json:"lap"`
	Compound string `json:"compound"`
}

type PitPlan []PitStop

// Validate checks that laps are strictly increasing and within [1, raceLaps]
func (p PitPlan) Validate(raceLaps int) error {
	prev := 0
	for i, stop := range p {
		if stop.Lap < 1 || stop.Lap > raceLaps {
			return fmt.Errorf("%w: stop %d at lap %d outside [1, %d]",
				ErrInvalidPlan, i, stop.Lap, raceLaps)
		}
		if stop.Lap <= prev {
			return fmt.Errorf("%w: stop %d at lap %d not after lap %d",
				ErrInvalidPlan, i, stop.Lap, prev)
		}
		if stop.Compound == "" {
			return fmt.Errorf("%w: stop %d has no compound", ErrInvalidPlan, i)
		}
		prev = stop.Lap
	}
	return nil
}

func (p PitPlan) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = fmt.Sprintf("%d:%s", s.Lap, s.Compound)
	}
	return strings.Join(parts, ",")
}

// ParsePitPlan parses the format lap:COMPOUND[,lap:COMPOUND...]
// An empty string yields an empty plan (no stops).
func ParsePitPlan(arg string) (PitPlan, error) {
	ret := PitPlan{}
	if strings.TrimSpace(arg) == "" {
		return ret, nil
	}
	for _, item := range strings.Split(arg, ",") {
		lapStr, compound, found := strings.Cut(strings.TrimSpace(item), ":")
		if !found {
			return nil, fmt.Errorf("%w: entry %q is not lap:COMPOUND", ErrInvalidPlan, item)
		}
		lap, err := strconv.Atoi(lapStr)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %w", ErrInvalidPlan, item, err)
		}
		ret = append(ret, PitStop{Lap: lap, Compound: strings.ToUpper(compound)})
	}
	return ret, nil
}
