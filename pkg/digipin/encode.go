package digipin

import "math"

// Encode returns the display-grouped code (XXX-XXX-XXXX) of the level-10 cell
// containing (lat, lon). Both bounds of the region are inclusive.
func Encode(lat, lon float64) (string, error) {
	if err := checkRange(Latitude, lat, region.MinLat, region.MaxLat); err != nil {
		return "", err
	}
	if err := checkRange(Longitude, lon, region.MinLon, region.MaxLon); err != nil {
		return "", err
	}

	var sym [Levels]byte
	c := region
	for i := range Levels {
		latStep := (c.MaxLat - c.MinLat) / gridSize
		lonStep := (c.MaxLon - c.MinLon) / gridSize

		// row 0 is the north band, so the latitude band index is inverted
		row := gridSize - 1 - clampIndex(math.Floor((lat-c.MinLat)/latStep))
		col := clampIndex(math.Floor((lon - c.MinLon) / lonStep))
		sym[i] = alphabet[row][col]

		band := float64(gridSize - 1 - row)
		c.MinLat += latStep * band
		c.MaxLat = c.MinLat + latStep
		c.MinLon += lonStep * float64(col)
		c.MaxLon = c.MinLon + lonStep
	}
	return Format(string(sym[:])), nil
}

func checkRange(axis Axis, v, lo, hi float64) error {
	// written as a negation so NaN is rejected too
	if !(v >= lo && v <= hi) {
		return &RangeError{Axis: axis, Value: v, Min: lo, Max: hi}
	}
	return nil
}

// clampIndex keeps a floored band index inside 0..3; a value on the upper
// edge of the cell would otherwise land in band 4.
func clampIndex(f float64) int {
	switch {
	case f < 0:
		return 0
	case f > gridSize-1:
		return gridSize - 1
	default:
		return int(f)
	}
}
