package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyPath      = errors.New("path has no points")
	ErrStepOutOfRange = errors.New("step out of range")
)

// StepAt returns the coordinate at index step of path.
func StepAt(path []Coordinate, step int) (Coordinate, error) {
	if len(path) == 0 {
		return Coordinate{}, ErrEmptyPath
	}
	if step < 0 || step >= len(path) {
		return Coordinate{}, fmt.Errorf("%w: %d not in [0,%d)", ErrStepOutOfRange, step, len(path))
	}
	return path[step], nil
}

// ClampFraction limits fraction to [0,1]. NaN becomes 0.
func ClampFraction(fraction float64) float64 {
	switch {
	case math.IsNaN(fraction), fraction <= 0:
		return 0
	case fraction >= 1:
		return 1
	}
	return fraction
}

// IndexAt maps a progress fraction onto an index of a path with n points.
// The fraction is clamped to [0,1].
func IndexAt(n int, fraction float64) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(ClampFraction(fraction) * float64(n-1)))
}

// PositionAt returns the point of path reached after elapsedFraction of the
// whole flight.
func PositionAt(path []Coordinate, elapsedFraction float64) (Coordinate, error) {
	if len(path) == 0 {
		return Coordinate{}, ErrEmptyPath
	}
	return path[IndexAt(len(path), elapsedFraction)], nil
}
