// Package router parses and validates HTTP requests and renders responses
// for the DIGIPIN endpoints.
package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/digipin/internal/core/model"
	gridmapper "github.com/mohammed-shakir/digipin/internal/mapper/grid"
	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

type errorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorKind maps an error to a stable, client-facing kind and its details.
func errorKind(err error) (string, map[string]any) {
	var (
		re *digipin.RangeError
		le *digipin.LengthError
		se *digipin.SymbolError
	)
	switch {
	case errors.As(err, &re):
		return "out_of_range", map[string]any{"axis": re.Axis, "value": re.Value, "min": re.Min, "max": re.Max}
	case errors.As(err, &le):
		return "invalid_length", map[string]any{"got": le.Got, "want": le.Want}
	case errors.As(err, &se):
		return "invalid_symbol", map[string]any{"symbol": string(se.Symbol), "index": se.Index}
	case errors.Is(err, gridmapper.ErrTooManyCells):
		return "too_many_cells", nil
	default:
		return "bad_request", nil
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	kind, details := errorKind(err)
	writeJSON(w, status, errorBody{Error: kind, Message: err.Error(), Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requireParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	return v, nil
}

// ParseCoords reads the lat and lon query parameters.
func ParseCoords(r *http.Request) (lat, lon float64, err error) {
	rawLat, err := requireParam(r, "lat")
	if err != nil {
		return 0, 0, err
	}
	rawLon, err := requireParam(r, "lon")
	if err != nil {
		return 0, 0, err
	}
	if lat, err = parseFloat(rawLat); err != nil {
		return 0, 0, fmt.Errorf("lat: %w", err)
	}
	if lon, err = parseFloat(rawLon); err != nil {
		return 0, 0, fmt.Errorf("lon: %w", err)
	}
	return lat, lon, nil
}

// ParseGridRequest reads bbox and the optional level (defaultLevel when absent).
func ParseGridRequest(r *http.Request, defaultLevel int) (model.GridRequest, error) {
	raw, err := requireParam(r, "bbox")
	if err != nil {
		return model.GridRequest{}, err
	}
	bb, err := parseBBOX(raw)
	if err != nil {
		return model.GridRequest{}, fmt.Errorf("invalid bbox: %w", err)
	}
	level := defaultLevel
	if v := strings.TrimSpace(r.URL.Query().Get("level")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > digipin.Levels {
			return model.GridRequest{}, fmt.Errorf("invalid level %q (must be 1..%d)", v, digipin.Levels)
		}
		level = n
	}
	return model.GridRequest{BBox: bb, Level: level}, nil
}

// parseBBOX accepts minLon,minLat,maxLon,maxLat with an optional EPSG:4326 suffix.
// Coordinates are rounded to six decimals, the precision of the overlay cache key,
// so a rendered overlay and its cache entry always describe the same rectangle.
func parseBBOX(bboxParam string) (model.BBox, error) {
	parts := strings.Split(bboxParam, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return model.BBox{}, errors.New("expected 4 comma-separated values: x1,y1,x2,y2 (optionally ,EPSG:4326)")
	}
	if len(parts) == 5 {
		srid := strings.ToUpper(strings.TrimSpace(parts[4]))
		if srid != "EPSG:4326" {
			return model.BBox{}, fmt.Errorf("only EPSG:4326 is supported (got %q)", srid)
		}
	}
	var v [4]float64
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		f, err := parseFloat(parts[i])
		if err != nil {
			return model.BBox{}, fmt.Errorf("%s: %w", name, err)
		}
		v[i] = round6(f)
	}
	xMin, yMin, xMax, yMax := v[0], v[1], v[2], v[3]

	if !(xMin >= -180 && xMin <= 180 && xMax >= -180 && xMax <= 180) {
		return model.BBox{}, errors.New("longitude must be in [-180,180]")
	}
	if !(yMin >= -90 && yMin <= 90 && yMax >= -90 && yMax <= 90) {
		return model.BBox{}, errors.New("latitude must be in [-90,90]")
	}
	if xMax <= xMin || yMax <= yMin {
		return model.BBox{}, errors.New("coordinates must satisfy x2>x1 and y2>y1")
	}
	return model.BBox{X1: xMin, Y1: yMin, X2: xMax, Y2: yMax}, nil
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	return f, nil
}
