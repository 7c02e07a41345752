package model

import "errors"

// error kinds reported by the simulation core.
// All of them are caused by invalid caller input and are not retryable.
var (
	// unknown tyre compound or missing parameter
	ErrConfiguration = errors.New("configuration error")
	// pit plan with non-increasing, duplicate or out-of-range laps
	ErrInvalidPlan = errors.New("invalid pit plan")
	// non-positive race length or mismatching inputs
	ErrInvalidConfig = errors.New("invalid config")
	// empty search space for the requested stop count and race length
	ErrNoFeasiblePlan = errors.New("no feasible plan")
)
