// Package model defines core domain types shared across the service.
package model

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

// BBox is a lon/lat rectangle in EPSG:4326; X is longitude, Y latitude.
type BBox struct {
	X1, Y1 float64
	X2, Y2 float64
}

// String representation matching the bbox query parameter
func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.X1, b.Y1, b.X2, b.Y2)
}

func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.X1, b.Y1}, Max: orb.Point{b.X2, b.Y2}}
}

func (b BBox) Cell() digipin.Cell {
	return digipin.Cell{MinLat: b.Y1, MaxLat: b.Y2, MinLon: b.X1, MaxLon: b.X2}
}

// Cells is a list of code prefixes without separators.
type Cells []string

type GridRequest struct {
	BBox  BBox
	Level int
}
