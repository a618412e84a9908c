package geospatial

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// RingGeometry builds a WGS 84 geometry for an open ring of coordinates.
// Three or more coordinates become a closed Polygon; fewer are returned as a
// MultiPoint of the vertices so partially drawn boundaries can still be shown.
func RingGeometry(coords []Coord) (geom.T, error) {
	if len(coords) < 3 {
		flat := make([]float64, 0, 2*len(coords))
		for _, c := range coords {
			flat = append(flat, c.Lon, c.Lat)
		}
		return geom.NewMultiPointFlat(geom.XY, flat).SetSRID(4326), nil
	}

	flat := make([]float64, 0, 2*(len(coords)+1))
	for _, c := range coords {
		flat = append(flat, c.Lon, c.Lat)
	}
	flat = append(flat, coords[0].Lon, coords[0].Lat)

	p := geom.NewPolygon(geom.XY)
	ring := geom.NewLinearRingFlat(geom.XY, flat)
	if err := p.Push(ring); err != nil {
		return nil, fmt.Errorf("push ring: %w", err)
	}
	return p.SetSRID(4326), nil
}

// Feature encodes the ring as a GeoJSON Feature carrying props.
func Feature(id string, coords []Coord, props map[string]interface{}) ([]byte, error) {
	g, err := RingGeometry(coords)
	if err != nil {
		return nil, err
	}
	f := &geojson.Feature{
		ID:         id,
		Geometry:   g,
		Properties: props,
	}
	data, err := f.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return data, nil
}
