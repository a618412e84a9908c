package geospatial

import "math"

// EarthRadiusMeters is the mean radius of the Earth.
const EarthRadiusMeters = 6371008.8

// Coord is a latitude/longitude pair in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// RingPerimeter returns the length in meters of the closed ring through coords.
// The closing edge from the last coordinate back to the first is included.
func RingPerimeter(coords []Coord) float64 {
	n := len(coords)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		a, b := coords[i], coords[(i+1)%n]
		total += Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	if n == 2 {
		// A two-point ring walks the same segment twice.
		return total / 2
	}
	return total
}

// Extent returns the smallest lat/lon box containing coords. ok is false
// for an empty slice.
func Extent(coords []Coord) (minLat, minLon, maxLat, maxLon float64, ok bool) {
	if len(coords) == 0 {
		return 0, 0, 0, 0, false
	}
	minLat, maxLat = coords[0].Lat, coords[0].Lat
	minLon, maxLon = coords[0].Lon, coords[0].Lon
	for _, c := range coords[1:] {
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
		minLon = math.Min(minLon, c.Lon)
		maxLon = math.Max(maxLon, c.Lon)
	}
	return minLat, minLon, maxLat, maxLon, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
