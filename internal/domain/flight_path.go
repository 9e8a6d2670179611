package domain

import (
	"errors"
	"time"

	"github.com/Domenick1991/flightpath/internal/geo"
)

var ErrPathNotFound = errors.New("flight path not found")

// FlightPath is a planned curve between two known endpoints. Points[0] is the
// source and Points[len-1] the destination.
type FlightPath struct {
	ID          string           `json:"id"`
	FromCode    string           `json:"from_code,omitempty"`
	ToCode      string           `json:"to_code,omitempty"`
	Source      geo.Coordinate   `json:"source"`
	Destination geo.Coordinate   `json:"destination"`
	Control     geo.Coordinate   `json:"control"`
	Segments    int              `json:"segments"`
	DistanceKm  float64          `json:"distance_km"`
	Points      []geo.Coordinate `json:"points"`
	CreatedAt   time.Time        `json:"created_at"`
}

// LengthKm is the length of the drawn curve, always at least DistanceKm.
func (p *FlightPath) LengthKm() float64 {
	return geo.PathLength(p.Points)
}
