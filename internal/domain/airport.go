package domain

import (
	"errors"
	"time"

	"github.com/Domenick1991/flightpath/internal/geo"
)

var ErrAirportNotFound = errors.New("airport not found")

type Airport struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	City      string         `json:"city"`
	Location  geo.Coordinate `json:"location"`
	CreatedAt time.Time      `json:"created_at"`
}
