package geo

import "math"

const EarthRadiusKm = 6371.0

// HaversineDistance returns the great-circle distance between a and b in kilometers.
func HaversineDistance(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// PathLength sums the haversine distance between consecutive points.
func PathLength(path []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += HaversineDistance(path[i-1], path[i])
	}
	return total
}

// MaxGap returns the largest haversine distance between consecutive points.
func MaxGap(path []Coordinate) float64 {
	gap := 0.0
	for i := 1; i < len(path); i++ {
		if d := HaversineDistance(path[i-1], path[i]); d > gap {
			gap = d
		}
	}
	return gap
}
