package geocode

import (
	"math"

	"estatewatch/model"
)

// Earth's mean radius in miles. Haversine on a sphere is within 0.5% at the
// sub-20-mile scales this tool cares about.
const earthRadiusMiles = 3958.8

// Distance returns the great-circle distance between two points in miles.
func Distance(a, b model.Coordinates) float64 {
	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
