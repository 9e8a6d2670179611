package domain

import (
	"time"

	"github.com/Domenick1991/flightpath/internal/geo"
)

type PositionEvent struct {
	FlightID   string         `json:"flight_id"`
	PathID     string         `json:"path_id"`
	Step       int            `json:"step"`
	TotalSteps int            `json:"total_steps"`
	Fraction   float64        `json:"fraction"`
	Position   geo.Coordinate `json:"position"`
	EmittedAt  time.Time      `json:"emitted_at"`
}

// Arrived reports whether the event is the last step of its flight.
func (e PositionEvent) Arrived() bool {
	return e.TotalSteps > 0 && e.Step == e.TotalSteps-1
}

type SimulationRequest struct {
	FlightID        string `json:"flight_id"`
	PathID          string `json:"path_id"`
	DurationSeconds int    `json:"duration_seconds"`
}
