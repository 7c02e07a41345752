// Package tyre implements the lap time model based on tyre compound, tyre age,
// track temperature and remaining fuel.
package tyre

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/racestrategy/pkg/model"
)

const (
	// fixed weight penalty for a full tank (scaled by remaining fuel fraction)
	FuelPenalty = 0.1
	// number of laps past the cliff onset until the full penalty applies
	cliffRampLaps = 5.0
	// the cliff term is capped at this multiple of the configured penalty
	cliffCap = 2.0
)

// Model maps compound, tyre age, track temperature and fuel fraction to a lap time.
// A Model is immutable after creation and safe for concurrent use.
type Model struct {
	compounds map[string]model.Compound
}

// NewModel creates a model from the given compound parameters.
// The map key is used as compound name.
func NewModel(compounds map[string]model.Compound) (*Model, error) {
	if len(compounds) == 0 {
		return nil, fmt.Errorf("%w: no compounds configured", model.ErrConfiguration)
	}
	cp := make(map[string]model.Compound, len(compounds))
	for name, c := range compounds {
		if c.Base <= 0 {
			return nil, fmt.Errorf("%w: compound %s has no base lap time",
				model.ErrConfiguration, name)
		}
		c.Name = name
		cp[name] = c
	}
	return &Model{compounds: cp}, nil
}

// NewDefaultModel creates a model with DefaultCompounds
func NewDefaultModel() *Model {
	m, err := NewModel(DefaultCompounds())
	if err != nil {
		panic(fmt.Sprintf("invalid default compounds: %v", err))
	}
	return m
}

func (m *Model) Compound(name string) (model.Compound, error) {
	c, ok := m.compounds[name]
	if !ok {
		return model.Compound{}, fmt.Errorf("%w: unknown compound %q",
			model.ErrConfiguration, name)
	}
	return c, nil
}

// Names returns the configured compound names in sorted order
func (m *Model) Names() []string {
	ret := lo.Keys(m.compounds)
	slices.Sort(ret)
	return ret
}

// LapTime computes the lap time in seconds as
//
//	base + k*age + cliff + sensitivity*(trackTemp-optimal) + fuel*FuelPenalty
//
// where the cliff term ramps up linearly once age exceeds the cliff onset and is
// capped at twice the cliff penalty.
func (m *Model) LapTime(compound string, age int, trackTemp, fuel float64) (float64, error) {
	c, err := m.Compound(compound)
	if err != nil {
		return 0, err
	}
	return lapTime(&c, age, trackTemp, fuel), nil
}

func lapTime(c *model.Compound, age int, trackTemp, fuel float64) float64 {
	return c.Base + c.K*float64(age) + cliffTerm(c, age) +
		c.TempSensitivity*(trackTemp-c.OptimalTemp) + fuel*FuelPenalty
}

func cliffTerm(c *model.Compound, age int) float64 {
	if age <= c.CliffAt {
		return 0
	}
	return c.CliffPenalty * math.Min(float64(age-c.CliffAt)/cliffRampLaps, cliffCap)
}

// IsExpired reports whether age is beyond the compound's max useful life.
// Running an expired tyre is legal, it is just slow.
func (m *Model) IsExpired(compound string, age int) (bool, error) {
	c, err := m.Compound(compound)
	if err != nil {
		return false, err
	}
	return age > c.MaxLife, nil
}

// WithCompound returns a copy of the model with c replacing (or adding) the
// compound named c.Name.
func (m *Model) WithCompound(c model.Compound) *Model {
	cp := make(map[string]model.Compound, len(m.compounds)+1)
	for k, v := range m.compounds {
		cp[k] = v
	}
	cp[c.Name] = c
	return &Model{compounds: cp}
}
