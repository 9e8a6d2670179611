package geo

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

const DefaultSegments = 100

var (
	ErrInvalidSegments    = errors.New("segments must be at least 1")
	ErrInvalidCurveParams = errors.New("invalid curve params")
)

// CurveParams controls how far the control point is lifted north of the
// great-circle midpoint. The lift is distanceKm / Divisor * Scale degrees.
// Both values are visual tuning constants.
type CurveParams struct {
	Divisor float64 `yaml:"curve_divisor" json:"divisor"`
	Scale   float64 `yaml:"curve_scale" json:"scale"`
}

var DefaultCurveParams = CurveParams{Divisor: 5.0, Scale: 0.02}

func (p CurveParams) Validate() error {
	if !(p.Divisor > 0) || math.IsInf(p.Divisor, 0) {
		return fmt.Errorf("%w: divisor must be positive and finite, got %v", ErrInvalidCurveParams, p.Divisor)
	}
	if math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
		return fmt.Errorf("%w: scale must be finite, got %v", ErrInvalidCurveParams, p.Scale)
	}
	return nil
}

// Lift returns the latitude offset in degrees for an arc of distanceKm.
func (p CurveParams) Lift(distanceKm float64) float64 {
	return distanceKm / p.Divisor * p.Scale
}

// ControlPoint returns the control point for a curve between source and
// destination using DefaultCurveParams.
func ControlPoint(source, destination Coordinate) Coordinate {
	return DefaultCurveParams.ControlPoint(source, destination)
}

// ControlPoint computes the spherical midpoint of source and destination and
// lifts its latitude so the curve bulges. When source equals destination the
// result equals source.
func (p CurveParams) ControlPoint(source, destination Coordinate) Coordinate {
	lat1 := toRadians(source.Latitude)
	lon1 := toRadians(source.Longitude)
	lat2 := toRadians(destination.Latitude)
	lon2 := toRadians(destination.Longitude)

	bx := math.Cos(lat2) * math.Cos(lon2-lon1)
	by := math.Cos(lat2) * math.Sin(lon2-lon1)

	midLat := math.Atan2(math.Sin(lat1)+math.Sin(lat2), math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	midLon := lon1 + math.Atan2(by, math.Cos(lat1)+bx)

	return Coordinate{
		Latitude:  toDegrees(midLat) + p.Lift(HaversineDistance(source, destination)),
		Longitude: toDegrees(midLon),
	}
}

// BezierCurve returns the quadratic Bezier curve from start to end as a lazy
// sequence of segments+1 (index, point) pairs. The sequence can be ranged
// over any number of times.
func BezierCurve(start, control, end Coordinate, segments int) (iter.Seq2[int, Coordinate], error) {
	if segments < 1 {
		return nil, fmt.Errorf("bezier curve: %w, got %d", ErrInvalidSegments, segments)
	}

	return func(yield func(int, Coordinate) bool) {
		for i := 0; i <= segments; i++ {
			if !yield(i, bezierPoint(start, control, end, i, segments)) {
				return
			}
		}
	}, nil
}

// GenerateBezierCurve collects BezierCurve into a slice.
func GenerateBezierCurve(start, control, end Coordinate, segments int) ([]Coordinate, error) {
	seq, err := BezierCurve(start, control, end, segments)
	if err != nil {
		return nil, err
	}

	points := make([]Coordinate, 0, segments+1)
	for _, p := range seq {
		points = append(points, p)
	}
	return points, nil
}

func bezierPoint(start, control, end Coordinate, i, segments int) Coordinate {
	// Endpoints are returned as given so they compare exactly.
	switch i {
	case 0:
		return start
	case segments:
		return end
	}

	t := float64(i) / float64(segments)
	a := (1 - t) * (1 - t)
	b := 2 * (1 - t) * t
	c := t * t
	return Coordinate{
		Latitude:  a*start.Latitude + b*control.Latitude + c*end.Latitude,
		Longitude: a*start.Longitude + b*control.Longitude + c*end.Longitude,
	}
}

// Curve bundles the generated path with the values it was derived from.
type Curve struct {
	Control    Coordinate
	Points     []Coordinate
	DistanceKm float64
}

// Generate computes control point, distance and curve for one source and
// destination pair. Invalid params fail with ErrInvalidCurveParams.
func (p CurveParams) Generate(source, destination Coordinate, segments int) (Curve, error) {
	if err := p.Validate(); err != nil {
		return Curve{}, err
	}
	control := p.ControlPoint(source, destination)
	points, err := GenerateBezierCurve(source, control, destination, segments)
	if err != nil {
		return Curve{}, err
	}
	return Curve{
		Control:    control,
		Points:     points,
		DistanceKm: HaversineDistance(source, destination),
	}, nil
}
