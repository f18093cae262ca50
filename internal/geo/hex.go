package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// HexLayer is a loaded hex polygon layer keyed by H3 cell ID.
type HexLayer struct {
	cells []hexCell
}

type hexCell struct {
	id    string
	bound orb.Bound // cheap pre-filter before the polygon test
	geom  orb.Geometry
}

// Load reads a GeoJSON feature collection whose features carry an "h3_id"
// property and polygon (or multipolygon) geometry.
func Load(path string) (*HexLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hex layer: %w", err)
	}
	return Parse(data)
}

// Parse builds a HexLayer from raw GeoJSON.
func Parse(data []byte) (*HexLayer, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse hex layer geojson: %w", err)
	}

	layer := &HexLayer{cells: make([]hexCell, 0, len(fc.Features))}
	for i, f := range fc.Features {
		id, ok := f.Properties["h3_id"].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("hex feature %d: missing h3_id property", i)
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, fmt.Errorf("hex feature %q: unsupported geometry %T", id, f.Geometry)
		}
		layer.cells = append(layer.cells, hexCell{
			id:    id,
			bound: f.Geometry.Bound(),
			geom:  f.Geometry,
		})
	}

	return layer, nil
}

// Len returns the number of hex cells in the layer.
func (l *HexLayer) Len() int {
	return len(l.cells)
}

// Locate returns the ID of the hex cell containing the point, or "" when the
// point falls outside the layer.
func (l *HexLayer) Locate(lon, lat float64) string {
	pt := orb.Point{lon, lat}

	for _, c := range l.cells {
		if !c.bound.Contains(pt) {
			continue
		}
		switch g := c.geom.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, pt) {
				return c.id
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, pt) {
				return c.id
			}
		}
	}

	return ""
}
