package digipin

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds_EmptyPrefixIsRegion(t *testing.T) {
	c, err := Bounds("")
	require.NoError(t, err)
	assert.Equal(t, Region(), c)
}

func TestBounds_FirstLevel(t *testing.T) {
	// F is the north-west band, T the south-east one
	c, err := Bounds("F")
	require.NoError(t, err)
	assert.Equal(t, Cell{MinLat: 29.5, MaxLat: 38.5, MinLon: 63.5, MaxLon: 72.5}, c)

	c, err = Bounds("T")
	require.NoError(t, err)
	assert.Equal(t, Cell{MinLat: 2.5, MaxLat: 11.5, MinLon: 90.5, MaxLon: 99.5}, c)
}

func TestBounds_Nesting(t *testing.T) {
	code := "4FK5MK9PPK"
	prev := region
	for lvl := 1; lvl <= Levels; lvl++ {
		c, err := Bounds(code[:lvl])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.MinLat, prev.MinLat)
		assert.LessOrEqual(t, c.MaxLat, prev.MaxLat)
		assert.GreaterOrEqual(t, c.MinLon, prev.MinLon)
		assert.LessOrEqual(t, c.MaxLon, prev.MaxLon)
		assert.InDelta(t, (prev.MaxLat-prev.MinLat)/4, c.MaxLat-c.MinLat, 1e-12)
		prev = c
	}
	assert.True(t, prev.Contains(18.968557, 72.822191))
}

func TestBounds_MatchesDecode(t *testing.T) {
	c, err := Bounds("4FK-5MK-9PPK")
	require.NoError(t, err)
	ll, err := Decode("4FK-5MK-9PPK")
	require.NoError(t, err)
	center := c.Center()
	assert.InDelta(t, ll.Latitude, center.Latitude, 5e-7)
	assert.InDelta(t, ll.Longitude, center.Longitude, 5e-7)
}

func TestBounds_Errors(t *testing.T) {
	_, err := Bounds("4FK5MK9PPKF")
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = Bounds("4Z")
	var se *SymbolError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Index)
}

func TestChildren(t *testing.T) {
	kids, err := Children("4F-")
	require.NoError(t, err)
	require.Len(t, kids, 16)
	assert.Equal(t, "4FF", kids[0])
	assert.Equal(t, "4FT", kids[15])

	parent, err := Bounds("4F")
	require.NoError(t, err)
	for _, k := range kids {
		c, err := Bounds(k)
		require.NoError(t, err)
		assert.True(t, parent.Overlaps(c), "child %s outside parent", k)
		for _, o := range kids {
			if o == k {
				continue
			}
			oc, err := Bounds(o)
			require.NoError(t, err)
			assert.False(t, c.Overlaps(oc), "siblings %s and %s overlap", k, o)
		}
	}

	root, err := Children("")
	require.NoError(t, err)
	assert.Len(t, root, 16)

	_, err = Children("4FK5MK9PPK")
	assert.ErrorIs(t, err, ErrInvalidLength)
	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LengthError{Got: 10, Want: 9}, *le)
}

func TestParent(t *testing.T) {
	p, err := Parent("4FK-5MK-9PPK", 3)
	require.NoError(t, err)
	assert.Equal(t, "4FK", p)

	p, err = Parent("4FK-5MK-9PPK", 0)
	require.NoError(t, err)
	assert.Equal(t, "", p)

	_, err = Parent("4FK", 4)
	assert.ErrorIs(t, err, ErrInvalidLength)
	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LengthError{Got: 3, Want: 4}, *le)

	_, err = Parent("4FK", -1)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestNormalize(t *testing.T) {
	n, err := Normalize("4FK-5MK-9PPK")
	require.NoError(t, err)
	assert.Equal(t, "4FK5MK9PPK", n)

	n, err = Normalize("")
	require.NoError(t, err)
	assert.Equal(t, "", n)

	_, err = Normalize("4fk")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"4F":         "4F",
		"4FK":        "4FK",
		"4FK5":       "4FK-5",
		"4FK5MK":     "4FK-5MK",
		"4FK5MK9":    "4FK-5MK-9",
		"4FK5MK9PPK": "4FK-5MK-9PPK",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(in), "Format(%q)", in)
	}
}

func TestCell_Overlaps_EdgeTouchIsNotOverlap(t *testing.T) {
	a := Cell{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	b := Cell{MinLat: 1, MaxLat: 2, MinLon: 0, MaxLon: 1}
	c := Cell{MinLat: 0.5, MaxLat: 1.5, MinLon: 0.5, MaxLon: 1.5}
	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}

func ExampleEncode() {
	code, err := Encode(18.968557, 72.822191)
	if err != nil {
		panic(err)
	}
	fmt.Println(code)
	// Output: 4FK-5MK-9PPK
}

func ExampleDecode() {
	ll, err := Decode("4FK-5MK-9PPK")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.6f %.6f\n", ll.Latitude, ll.Longitude)
	// Output: 18.968557 72.822191
}

func TestRegionAndAlphabet_ReturnCopies(t *testing.T) {
	r := Region()
	r.MinLat = 0
	a := Alphabet()
	a[2][0] = 'Z'

	assert.Equal(t, 2.5, Region().MinLat)
	sym, ok := SymbolAt(2, 0)
	require.True(t, ok)
	assert.Equal(t, byte('K'), sym)

	code, err := Encode(18.968557, 72.822191)
	require.NoError(t, err)
	assert.Equal(t, "4FK-5MK-9PPK", code)
	_, err = Decode(code)
	assert.NoError(t, err)
	_, err = Encode(1, 80)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
