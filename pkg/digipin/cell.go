package digipin

import "strings"

// Cell is a rectangle in degrees addressed by a code prefix.
type Cell struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Center returns the unrounded midpoint of c.
func (c Cell) Center() LatLng {
	return LatLng{
		Latitude:  (c.MinLat + c.MaxLat) / 2,
		Longitude: (c.MinLon + c.MaxLon) / 2,
	}
}

// Contains reports whether (lat, lon) lies in c, edges included.
func (c Cell) Contains(lat, lon float64) bool {
	return lat >= c.MinLat && lat <= c.MaxLat && lon >= c.MinLon && lon <= c.MaxLon
}

// Overlaps reports whether c and o share a region of positive area.
// Cells that only touch along an edge do not overlap.
func (c Cell) Overlaps(o Cell) bool {
	return c.MinLat < o.MaxLat && o.MinLat < c.MaxLat &&
		c.MinLon < o.MaxLon && o.MinLon < c.MaxLon
}

// Bounds returns the cell addressed by a prefix of 0..10 symbols.
// The empty prefix addresses the whole Region.
func Bounds(prefix string) (Cell, error) {
	symbols := strip(prefix)
	if len(symbols) > Levels {
		return Cell{}, &LengthError{Got: len(symbols), Want: Levels}
	}
	return narrow(region, symbols)
}

// Children returns the sixteen prefixes one level below prefix, in
// row-major alphabet order, without separators.
func Children(prefix string) ([]string, error) {
	p, err := Normalize(prefix)
	if err != nil {
		return nil, err
	}
	if len(p) == Levels {
		// a full code has no children
		return nil, &LengthError{Got: len(p), Want: Levels - 1}
	}
	out := make([]string, 0, gridSize*gridSize)
	for r := range gridSize {
		for c := range gridSize {
			out = append(out, p+string(alphabet[r][c]))
		}
	}
	return out, nil
}

// Parent truncates code to its first level symbols. level must not exceed
// the length of code.
func Parent(code string, level int) (string, error) {
	p, err := Normalize(code)
	if err != nil {
		return "", err
	}
	if level < 0 || level > len(p) {
		return "", &LengthError{Got: len(p), Want: level}
	}
	return p[:level], nil
}

// Normalize strips separators and checks every symbol. Any length from 0
// to 10 is accepted.
func Normalize(code string) (string, error) {
	symbols := strip(code)
	if len(symbols) > Levels {
		return "", &LengthError{Got: len(symbols), Want: Levels}
	}
	for i, s := range symbols {
		if _, _, ok := positionOfRune(s); !ok {
			return "", &SymbolError{Symbol: s, Index: i}
		}
	}
	return string(symbols), nil
}

// Level returns the number of symbols in code, ignoring separators.
func Level(code string) int {
	return len(strip(code))
}

// Format groups symbols for display as XXX-XXX-XXXX. Shorter prefixes are
// grouped as far as they reach; symbols is expected to hold no separators.
func Format(symbols string) string {
	if len(symbols) <= 3 {
		return symbols
	}
	var b strings.Builder
	b.Grow(len(symbols) + 2)
	b.WriteString(symbols[:3])
	b.WriteByte(Separator)
	if len(symbols) <= 6 {
		b.WriteString(symbols[3:])
		return b.String()
	}
	b.WriteString(symbols[3:6])
	b.WriteByte(Separator)
	b.WriteString(symbols[6:])
	return b.String()
}
