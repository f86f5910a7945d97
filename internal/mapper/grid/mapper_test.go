package gridmapper

import (
	"errors"
	"reflect"
	"slices"
	"sort"
	"testing"

	"github.com/mohammed-shakir/digipin/internal/core/model"
	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

func TestBBox_HappyPath_SortedUnique(t *testing.T) {
	m := New(0)
	// around Mumbai
	bb := model.BBox{X1: 72.80, Y1: 18.90, X2: 72.90, Y2: 19.00}

	cells, err := m.CellsForBBox(bb, 5)
	if err != nil {
		t.Fatalf("CellsForBBox err: %v", err)
	}
	if len(cells) == 0 {
		t.Fatalf("expected non-empty cells for bbox")
	}
	if !sort.StringsAreSorted([]string(cells)) {
		t.Fatalf("cells must be sorted")
	}
	if hasDups(cells) {
		t.Fatalf("cells must be de-duplicated")
	}
	for _, c := range cells {
		if len(c) != 5 {
			t.Fatalf("cell %q has level %d, want 5", c, len(c))
		}
	}

	code, err := digipin.Encode(18.968557, 72.822191)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	prefix, _ := m.ToParent(code, 5)
	if !contains(cells, prefix) {
		t.Fatalf("expected %s among cells %v", prefix, cells)
	}
}

func TestBBox_EveryCellOverlaps_AndCoverageIsComplete(t *testing.T) {
	m := New(0)
	bb := model.BBox{X1: 77.0, Y1: 28.4, X2: 77.4, Y2: 28.8}
	level := 4

	cells, err := m.CellsForBBox(bb, level)
	if err != nil {
		t.Fatalf("CellsForBBox: %v", err)
	}
	got := map[string]bool{}
	for _, c := range cells {
		b, err := digipin.Bounds(c)
		if err != nil {
			t.Fatalf("Bounds(%s): %v", c, err)
		}
		if !b.Overlaps(bb.Cell()) {
			t.Fatalf("cell %s does not overlap bbox", c)
		}
		got[c] = true
	}

	// every sample point strictly inside the bbox must fall in a returned cell
	for i := 1; i < 10; i++ {
		for j := 1; j < 10; j++ {
			lat := bb.Y1 + (bb.Y2-bb.Y1)*float64(i)/10
			lon := bb.X1 + (bb.X2-bb.X1)*float64(j)/10
			code, err := digipin.Encode(lat, lon)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			p, _ := digipin.Parent(code, level)
			if !got[p] {
				t.Fatalf("point (%v,%v) in %s not covered", lat, lon, p)
			}
		}
	}
}

func TestBBox_WholeRegionLevelOne(t *testing.T) {
	m := New(0)
	bb := model.BBox{X1: 60, Y1: 0, X2: 100, Y2: 40}
	cells, err := m.CellsForBBox(bb, 1)
	if err != nil {
		t.Fatalf("CellsForBBox: %v", err)
	}
	if len(cells) != 16 {
		t.Fatalf("got %d cells, want 16", len(cells))
	}
}

func TestBBox_Deterministic(t *testing.T) {
	m := New(0)
	bb := model.BBox{X1: 80.1, Y1: 13.0, X2: 80.3, Y2: 13.1}
	a, err := m.CellsForBBox(bb, 6)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := m.CellsForBBox(bb, 6)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestBounds_InvalidLevelOutsideRegionAndLimit(t *testing.T) {
	m := New(0)
	bb := model.BBox{X1: 77, Y1: 28, X2: 78, Y2: 29}

	if _, err := m.CellsForBBox(bb, 0); err == nil {
		t.Fatalf("expected error for level=0")
	}
	if _, err := m.CellsForBBox(bb, 11); err == nil {
		t.Fatalf("expected error for level=11")
	}
	if _, err := m.CellsForBBox(model.BBox{X1: 10, Y1: 50, X2: 11, Y2: 51}, 3); err == nil {
		t.Fatalf("expected error for bbox outside the region")
	}
	if _, err := m.CellsForBBox(model.BBox{X1: 78, Y1: 28, X2: 77, Y2: 29}, 3); err == nil {
		t.Fatalf("expected error for inverted bbox")
	}

	small := New(10)
	_, err := small.CellsForBBox(bb, 8)
	if !errors.Is(err, ErrTooManyCells) {
		t.Fatalf("expected ErrTooManyCells, got %v", err)
	}
}

func TestHierarchy_RoundTrip_ParentChildren(t *testing.T) {
	m := New(0)
	code := "4FK-5MK-9PPK"

	parent, err := m.ToParent(code, 7)
	if err != nil {
		t.Fatalf("ToParent: %v", err)
	}
	if parent != "4FK5MK9" {
		t.Fatalf("parent=%q want 4FK5MK9", parent)
	}

	kids, err := m.ToChildren(parent, 8)
	if err != nil {
		t.Fatalf("ToChildren: %v", err)
	}
	if len(kids) != 16 {
		t.Fatalf("got %d children, want 16", len(kids))
	}
	if !contains(kids, "4FK5MK9P") {
		t.Fatalf("children did not include the original cell")
	}
	if !sort.StringsAreSorted([]string(kids)) {
		t.Fatalf("children must be sorted")
	}

	grand, err := m.ToChildren(parent, 9)
	if err != nil {
		t.Fatalf("ToChildren two levels: %v", err)
	}
	if len(grand) != 256 || hasDups(grand) {
		t.Fatalf("got %d grandchildren (dups=%v), want 256 unique", len(grand), hasDups(grand))
	}
}

func TestHierarchy_BadTransitions(t *testing.T) {
	m := New(0)
	if _, err := m.ToParent("4FK", 4); err == nil {
		t.Fatalf("expected error for parent level > code level")
	}
	if _, err := m.ToChildren("4FK", 2); err == nil {
		t.Fatalf("expected error for child level < code level")
	}
	if _, err := m.ToChildren("4FK", 11); err == nil {
		t.Fatalf("expected error for child level > 10")
	}
	if _, err := m.ToParent("XFK", 1); !errors.Is(err, digipin.ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
	if _, err := New(100).ToChildren("4", 4); !errors.Is(err, ErrTooManyCells) {
		t.Fatalf("expected ErrTooManyCells, got %v", err)
	}
}

func hasDups(s []string) bool {
	seen := map[string]struct{}{}
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

func contains(xs []string, v string) bool {
	return slices.Contains(xs, v)
}
