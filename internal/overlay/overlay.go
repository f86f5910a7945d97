// Package overlay renders DIGIPIN cells as GeoJSON for map display.
package overlay

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohammed-shakir/digipin/internal/core/model"
	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

// Build returns a FeatureCollection with one Polygon feature per cell. The
// collection bbox is set to bb.
func Build(bb model.BBox, cells model.Cells) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(bb.Bound())
	for _, code := range cells {
		f, err := Feature(code)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	return fc, nil
}

// Feature returns the polygon of a single cell with its label properties.
func Feature(code string) (*geojson.Feature, error) {
	norm, err := digipin.Normalize(code)
	if err != nil {
		return nil, fmt.Errorf("overlay cell %q: %w", code, err)
	}
	c, err := digipin.Bounds(norm)
	if err != nil {
		return nil, fmt.Errorf("overlay cell %q: %w", code, err)
	}
	bound := orb.Bound{
		Min: orb.Point{c.MinLon, c.MinLat},
		Max: orb.Point{c.MaxLon, c.MaxLat},
	}
	center := bound.Center()

	f := geojson.NewFeature(bound.ToPolygon())
	f.ID = norm
	f.Properties["code"] = digipin.Format(norm)
	f.Properties["level"] = len(norm)
	f.Properties["center"] = []float64{center.Lon(), center.Lat()}
	return f, nil
}

// Marshal builds the collection and encodes it.
func Marshal(bb model.BBox, cells model.Cells) ([]byte, error) {
	fc, err := Build(bb, cells)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshal overlay: %w", err)
	}
	return b, nil
}
