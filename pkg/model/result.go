package model

// StintResult summarizes the laps StartLap..EndLap (inclusive) run on one tyre set
type StintResult struct {
	Compound   string  `json:"compound"`
	StartLap   int     `json:"startLap"`
	EndLap     int     `json:"endLap"`
	Laps       int     `json:"laps"`
	TotalTime  float64 `json:"totalTime"`
	AvgLapTime float64 `json:"avgLapTime"`
}

// PitResult records a single pit stop
type PitResult struct {
	Lap            int     `json:"lap"`
	Compound       string  `json:"compound"` // compound fitted at this stop
	Loss           float64 `json:"loss"`
	UnderSafetyCar bool    `json:"underSafetyCar"`
}

// SimulationResult is the output of a single race simulation.
// LapTimes holds the raw lap times, index 0 is lap 1.
type SimulationResult struct {
	TotalTime    float64       `json:"totalTime"`
	Stints       []StintResult `json:"stints"`
	TotalPitLoss float64       `json:"totalPitLoss"`
	Pits         []PitResult   `json:"pits"`
	LapTimes     []float64     `json:"lapTimes"`
}

// BestPlan is the outcome of a strategy search
type BestPlan struct {
	TotalTime  float64           `json:"totalTime"`
	Start      string            `json:"start"`
	Plan       PitPlan           `json:"plan"`
	Result     *SimulationResult `json:"result"`
	Evaluated  int               `json:"evaluated"`  // number of simulated candidates
	Candidates int               `json:"candidates"` // size of the search space
	Complete   bool              `json:"complete"`   // false if the search was cut short
}
