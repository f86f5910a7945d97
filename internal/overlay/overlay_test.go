package overlay

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohammed-shakir/digipin/internal/core/model"
)

func TestFeature_PolygonAndProperties(t *testing.T) {
	f, err := Feature("F")
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("geometry=%T want orb.Polygon", f.Geometry)
	}
	b := poly.Bound()
	if b.Min != (orb.Point{63.5, 29.5}) || b.Max != (orb.Point{72.5, 38.5}) {
		t.Fatalf("unexpected bound %+v", b)
	}
	if f.Properties["code"] != "F" || f.Properties["level"] != 1 {
		t.Fatalf("unexpected properties %+v", f.Properties)
	}
	center, ok := f.Properties["center"].([]float64)
	if !ok || center[0] != 68 || center[1] != 34 {
		t.Fatalf("center=%v want [68 34]", f.Properties["center"])
	}
}

func TestFeature_GroupsLabel(t *testing.T) {
	f, err := Feature("4FK5MK9")
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if f.Properties["code"] != "4FK-5MK-9" {
		t.Fatalf("code=%v want 4FK-5MK-9", f.Properties["code"])
	}
	if f.ID != "4FK5MK9" {
		t.Fatalf("id=%v want 4FK5MK9", f.ID)
	}
}

func TestMarshal_RoundTripsAsFeatureCollection(t *testing.T) {
	bb := model.BBox{X1: 63.5, Y1: 2.5, X2: 99.5, Y2: 38.5}
	raw, err := Marshal(bb, model.Cells{"F", "C", "9"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("features=%d want 3", len(fc.Features))
	}
	if got := fc.BBox.Bound(); got != bb.Bound() {
		t.Fatalf("bbox=%+v want %+v", got, bb.Bound())
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("json: %v", err)
	}
	if generic["type"] != "FeatureCollection" {
		t.Fatalf("type=%v", generic["type"])
	}
}

func TestBuild_RejectsBadCode(t *testing.T) {
	if _, err := Build(model.BBox{}, model.Cells{"X"}); err == nil {
		t.Fatalf("expected error for invalid symbol")
	}
}
