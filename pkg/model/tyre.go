package model

// Compound holds the static degradation profile of a tyre compound.
type Compound struct {
	Name            string  `json:"name" mapstructure:"name"`
	Base            float64 `json:"base" mapstructure:"base"`                       // base lap time in seconds
	K               float64 `json:"k" mapstructure:"k"`                             // linear degradation (s per lap of age)
	CliffAt         int     `json:"cliffAt" mapstructure:"cliff_at"`                // tyre age after which the cliff ramp starts
	CliffPenalty    float64 `json:"cliffPenalty" mapstructure:"cliff_penalty"`      // seconds, ramped up to 2x
	MaxLife         int     `json:"maxLife" mapstructure:"max_life"`                // informational max useful life
	OptimalTemp     float64 `json:"optimalTemp" mapstructure:"optimal_temp"`        // track temp in Celsius
	TempSensitivity float64 `json:"tempSensitivity" mapstructure:"temp_sensitivity"` // s per degree off optimal
}

// well known compound names
const (
	Soft         = "SOFT"
	Medium       = "MEDIUM"
	Hard         = "HARD"
	Intermediate = "INTERMEDIATE"
	Wet          = "WET"
)

// IsDry reports whether name is a slick compound
func IsDry(name string) bool {
	switch name {
	case Soft, Medium, Hard:
		return true
	}
	return false
}

// TyreState is the per-simulation tyre state.
// Age counts completed laps on this set plus the current one (1 on the first lap).
type TyreState struct {
	Compound string
	Age      int
}

// Fit resets the state to a fresh set of the given compound
func (t *TyreState) Fit(compound string) {
	t.Compound = compound
	t.Age = 1
}

// CompleteLap ages the tyre by one lap
func (t *TyreState) CompleteLap() {
	t.Age++
}
