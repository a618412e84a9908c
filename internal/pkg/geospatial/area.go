package geospatial

import "math"

// PlanarArea applies the shoelace formula to raw degrees, treating longitude as x
// and latitude as y. The result is in square degrees and only meaningful as a
// relative measure. Rings with fewer than three coordinates have zero area.
func PlanarArea(coords []Coord) float64 {
	n := len(coords)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		p1 := coords[i]
		p2 := coords[(i+1)%n]
		sum += p1.Lon*p2.Lat - p2.Lon*p1.Lat
	}
	return math.Abs(sum) / 2
}

// SphericalArea returns the unsigned area in square meters enclosed by the ring
// on a sphere of EarthRadiusMeters. Rings with fewer than three coordinates have
// zero area.
//
// Uses the line-integral form from Chamberlain & Duquette, "Some Algorithms for
// Polygons on a Sphere" (JPL, 2007): A = R²/2 · |Σ (λ[i+1] − λ[i−1]) · sin φ[i]|.
func SphericalArea(coords []Coord) float64 {
	n := len(coords)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		prev := coords[(i+n-1)%n]
		cur := coords[i]
		next := coords[(i+1)%n]
		sum += lonDelta(prev.Lon, next.Lon) * math.Sin(toRad(cur.Lat))
	}
	return math.Abs(sum) * EarthRadiusMeters * EarthRadiusMeters / 2
}

// lonDelta returns next-prev in radians, wrapped into (-π, π] so rings that
// cross the antimeridian are measured the short way round.
func lonDelta(prev, next float64) float64 {
	d := toRad(next - prev)
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
