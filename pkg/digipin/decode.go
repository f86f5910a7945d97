package digipin

import "math"

// LatLng is a decoded cell center in degrees.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Decode returns the center of the cell addressed by code, rounded to six
// decimals. Separators may appear anywhere and are ignored.
func Decode(code string) (LatLng, error) {
	symbols := strip(code)
	if len(symbols) != Levels {
		return LatLng{}, &LengthError{Got: len(symbols), Want: Levels}
	}
	c, err := narrow(region, symbols)
	if err != nil {
		return LatLng{}, err
	}
	center := c.Center()
	return LatLng{
		Latitude:  round6(center.Latitude),
		Longitude: round6(center.Longitude),
	}, nil
}

// narrow descends from c once per symbol.
func narrow(c Cell, symbols []rune) (Cell, error) {
	for i, s := range symbols {
		row, col, ok := positionOfRune(s)
		if !ok {
			return Cell{}, &SymbolError{Symbol: s, Index: i}
		}
		c = c.child(row, col)
	}
	return c, nil
}

// child returns the sub-cell at (row, col). Encode narrows with the same
// subtraction-then-multiplication order.
func (c Cell) child(row, col int) Cell {
	latStep := (c.MaxLat - c.MinLat) / gridSize
	lonStep := (c.MaxLon - c.MinLon) / gridSize
	minLon := c.MinLon + lonStep*float64(col)
	return Cell{
		MinLat: c.MaxLat - latStep*float64(row+1),
		MaxLat: c.MaxLat - latStep*float64(row),
		MinLon: minLon,
		MaxLon: minLon + lonStep,
	}
}

func positionOfRune(r rune) (row, col int, ok bool) {
	if r < 0 || r > 0xff {
		return 0, 0, false
	}
	return PositionOf(byte(r))
}

// strip drops separators. Runes are kept so a SymbolError can quote
// non-ASCII input and report its position among symbols, not bytes.
func strip(code string) []rune {
	out := make([]rune, 0, len(code))
	for _, r := range code {
		if r == Separator {
			continue
		}
		out = append(out, r)
	}
	return out
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
