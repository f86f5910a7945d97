// Package digipin encodes latitude/longitude pairs inside the DIGIPIN region
// into ten-symbol codes and decodes codes back to cell centers.
//
// The region is split into a 4x4 grid ten times over. Each level picks one of
// sixteen symbols, so a full code addresses one of 16^10 cells, roughly
// 3.8m x 3.8m at the equator end of the region.
package digipin

// Levels is the number of symbols in a full code.
const Levels = 10

// Separator groups a displayed code as XXX-XXX-XXXX.
const Separator = '-'

const gridSize = 4

// region is the rectangle covered by DIGIPIN, in degrees.
var region = Cell{
	MinLat: 2.5,
	MaxLat: 38.5,
	MinLon: 63.5,
	MaxLon: 99.5,
}

// alphabet holds the symbol layout. Row 0 is the northernmost band and
// column 0 the westernmost.
var alphabet = [gridSize][gridSize]byte{
	{'F', 'C', '9', '8'},
	{'J', '3', '2', '7'},
	{'K', '4', '5', '6'},
	{'L', 'M', 'P', 'T'},
}

type position struct {
	row, col int8
}

// positions is the inverse of alphabet, indexed by byte; col < 0 marks an unknown symbol.
var positions = buildPositions()

func buildPositions() [256]position {
	var p [256]position
	for i := range p {
		p[i] = position{row: -1, col: -1}
	}
	for r := range gridSize {
		for c := range gridSize {
			p[alphabet[r][c]] = position{row: int8(r), col: int8(c)}
		}
	}
	return p
}

// SymbolAt returns the symbol at (row, col). ok is false when either index is outside 0..3.
func SymbolAt(row, col int) (symbol byte, ok bool) {
	if row < 0 || row >= gridSize || col < 0 || col >= gridSize {
		return 0, false
	}
	return alphabet[row][col], true
}

// Region returns the rectangle covered by DIGIPIN, in degrees.
func Region() Cell { return region }

// Alphabet returns a copy of the symbol layout, row 0 north and column 0 west.
func Alphabet() [gridSize][gridSize]byte { return alphabet }

// PositionOf returns the grid position of symbol. ok is false when the symbol is not in alphabet.
func PositionOf(symbol byte) (row, col int, ok bool) {
	p := positions[symbol]
	if p.col < 0 {
		return 0, 0, false
	}
	return int(p.row), int(p.col), true
}
