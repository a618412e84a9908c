package domain

import "github.com/samirrijal/fieldmap/internal/pkg/geospatial"

// SquareMetersPerHectare converts square meters to hectares.
const SquareMetersPerHectare = 10000.0

// Area is the measured surface of a boundary.
type Area struct {
	SquareMeters float64 `json:"square_meters"`
	Hectares     float64 `json:"hectares"`
	// Planar is the legacy shoelace value in square degrees.
	Planar float64 `json:"planar"`
}

// BoundaryPolygon is an ordered walk of points. The ring is closed implicitly
// by the edge from the last point back to the first; no closing point is stored.
//
// BoundaryPolygon is not safe for concurrent use. AnnotationSession owns it and
// serializes access.
type BoundaryPolygon struct {
	points []GeoPoint
}

// NewBoundaryPolygon returns a polygon holding a copy of points.
func NewBoundaryPolygon(points ...GeoPoint) *BoundaryPolygon {
	bp := &BoundaryPolygon{}
	bp.points = append(bp.points, points...)
	return bp
}

// Append adds a point to the end of the walk. Duplicates are kept.
func (bp *BoundaryPolygon) Append(p GeoPoint) {
	bp.points = append(bp.points, p)
}

// Clear empties the polygon.
func (bp *BoundaryPolygon) Clear() {
	bp.points = nil
}

// Replace swaps the whole point sequence in one step.
func (bp *BoundaryPolygon) Replace(points []GeoPoint) {
	bp.Clear()
	bp.points = append(bp.points, points...)
}

// Len returns the number of points.
func (bp *BoundaryPolygon) Len() int {
	return len(bp.points)
}

// Points returns a copy of the point sequence in insertion order.
func (bp *BoundaryPolygon) Points() []GeoPoint {
	out := make([]GeoPoint, len(bp.points))
	copy(out, bp.points)
	return out
}

// PlanarArea returns the shoelace area of the raw coordinates in square degrees.
func (bp *BoundaryPolygon) PlanarArea() float64 {
	return geospatial.PlanarArea(bp.coords())
}

// SphericalArea returns the enclosed surface in square meters.
func (bp *BoundaryPolygon) SphericalArea() float64 {
	return geospatial.SphericalArea(bp.coords())
}

// Perimeter returns the length of the closed ring in meters.
func (bp *BoundaryPolygon) Perimeter() float64 {
	return geospatial.RingPerimeter(bp.coords())
}

// Area returns both area measures.
func (bp *BoundaryPolygon) Area() Area {
	sq := bp.SphericalArea()
	return Area{
		SquareMeters: sq,
		Hectares:     sq / SquareMetersPerHectare,
		Planar:       bp.PlanarArea(),
	}
}

// Bounds returns the extent of the points, or nil when there are none.
func (bp *BoundaryPolygon) Bounds() *Bounds {
	minLat, minLon, maxLat, maxLon, ok := geospatial.Extent(bp.coords())
	if !ok {
		return nil
	}
	return &Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
}

func (bp *BoundaryPolygon) coords() []geospatial.Coord {
	return Coords(bp.points)
}

// Coords converts points to geospatial coordinates.
func Coords(points []GeoPoint) []geospatial.Coord {
	out := make([]geospatial.Coord, len(points))
	for i, p := range points {
		out[i] = geospatial.Coord{Lat: p.Lat, Lon: p.Lon}
	}
	return out
}
