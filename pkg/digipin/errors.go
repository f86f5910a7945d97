package digipin

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrOutOfRange    = errors.New("digipin: coordinate out of range")
	ErrInvalidLength = errors.New("digipin: invalid code length")
	ErrInvalidSymbol = errors.New("digipin: invalid symbol")
)

// Axis names the coordinate a RangeError refers to.
type Axis string

const (
	Latitude  Axis = "latitude"
	Longitude Axis = "longitude"
)

// RangeError reports a coordinate outside the DIGIPIN bounding box.
type RangeError struct {
	Axis  Axis
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("digipin: %s %s out of range [%s, %s]",
		e.Axis, formatFloat(e.Value), formatFloat(e.Min), formatFloat(e.Max))
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// LengthError reports a code whose symbol count (separators excluded) is wrong.
type LengthError struct {
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("digipin: code has %d symbols, want %d", e.Got, e.Want)
}

func (e *LengthError) Is(target error) bool { return target == ErrInvalidLength }

// SymbolError reports a character that is not part of the Alphabet.
// Index is zero-based within the code with separators removed.
type SymbolError struct {
	Symbol rune
	Index  int
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("digipin: invalid symbol %q at index %d", e.Symbol, e.Index)
}

func (e *SymbolError) Is(target error) bool { return target == ErrInvalidSymbol }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
