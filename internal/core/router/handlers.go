package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mohammed-shakir/digipin/internal/cache/keys"
	"github.com/mohammed-shakir/digipin/internal/cache/tiered"
	"github.com/mohammed-shakir/digipin/internal/core/config"
	"github.com/mohammed-shakir/digipin/internal/core/observability"
	"github.com/mohammed-shakir/digipin/internal/mapper"
	"github.com/mohammed-shakir/digipin/internal/overlay"
	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

// GridCache serves rendered overlays; a nil GridCache renders every request.
type GridCache interface {
	GetOrFill(ctx context.Context, key string, fill tiered.FillFunc) ([]byte, string, error)
}

// H3Bridge converts between DIGIPIN codes and H3 cell indexes.
type H3Bridge interface {
	FromCode(code string, res int) (string, error)
	ToCode(cell string) (string, error)
}

type codeResponse struct {
	Code string `json:"code"`
}

type cellResponse struct {
	Code     string         `json:"code"`
	Level    int            `json:"level"`
	Bounds   digipin.Cell   `json:"bounds"`
	Center   digipin.LatLng `json:"center"`
	Parent   *string        `json:"parent,omitempty"`
	Children []string       `json:"children,omitempty"`
}

type h3Response struct {
	Code string `json:"code"`
	Cell string `json:"cell"`
	Res  int    `json:"res,omitempty"`
}

// observe records the request metrics once the handler has written its response.
func observe(r *http.Request, route string, sw *statusWriter, start time.Time) {
	observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func HandleEncode(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer observe(r, "/encode", sw, start)

		lat, lon, err := ParseCoords(r)
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		code, err := digipin.Encode(lat, lon)
		observability.ObserveOp("encode", outcome(err))
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		writeJSON(sw, http.StatusOK, codeResponse{Code: code})
	}
}

func HandleDecode(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer observe(r, "/decode", sw, start)

		code, err := requireParam(r, "code")
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		ll, err := digipin.Decode(code)
		observability.ObserveOp("decode", outcome(err))
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		writeJSON(sw, http.StatusOK, ll)
	}
}

// HandleCell describes the cell of a code prefix. The optional parent and
// children parameters name a level to walk up or down to through m.
func HandleCell(_ *slog.Logger, m mapper.Interface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer observe(r, "/cell", sw, start)

		code, err := requireParam(r, "code")
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		b, err := digipin.Bounds(code)
		observability.ObserveOp("bounds", outcome(err))
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		norm, _ := digipin.Normalize(code)
		out := cellResponse{
			Code:   digipin.Format(norm),
			Level:  len(norm),
			Bounds: b,
			Center: b.Center(),
		}

		if v, ok, err := optionalLevel(r, "parent"); err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		} else if ok {
			p, err := m.ToParent(norm, v)
			observability.ObserveOp("parent", outcome(err))
			if err != nil {
				writeError(sw, http.StatusBadRequest, err)
				return
			}
			p = digipin.Format(p)
			out.Parent = &p
		}

		if v, ok, err := optionalLevel(r, "children"); err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		} else if ok {
			kids, err := m.ToChildren(norm, v)
			observability.ObserveOp("children", outcome(err))
			if err != nil {
				writeError(sw, http.StatusBadRequest, err)
				return
			}
			out.Children = make([]string, len(kids))
			for i, k := range kids {
				out.Children[i] = digipin.Format(k)
			}
		}
		writeJSON(sw, http.StatusOK, out)
	}
}

func optionalLevel(r *http.Request, name string) (int, bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s level %q", name, v)
	}
	return n, true, nil
}

// HandleGrid renders the GeoJSON overlay of every cell at the requested level
// overlapping bbox, reading through cache when one is configured.
func HandleGrid(logger *slog.Logger, cfg config.Config, m mapper.Interface, cache GridCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer observe(r, "/grid", sw, start)

		req, err := ParseGridRequest(r, cfg.GridDefaultLevel)
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}

		render := func(context.Context) ([]byte, error) {
			cells, err := m.CellsForBBox(req.BBox, req.Level)
			observability.ObserveOp("grid", outcome(err))
			if err != nil {
				return nil, err
			}
			observability.ObserveGridCells(len(cells))
			return overlay.Marshal(req.BBox, cells)
		}

		var (
			body []byte
			hit  string
		)
		if cache != nil {
			body, hit, err = cache.GetOrFill(r.Context(), keys.GridKey(req.Level, req.BBox), render)
		} else {
			body, err = render(r.Context())
		}
		if err != nil {
			writeError(sw, http.StatusBadRequest, err)
			return
		}
		if hit == "" {
			hit = "miss"
		}
		logger.DebugContext(r.Context(), "grid served",
			slog.Int("level", req.Level),
			slog.String("bbox", req.BBox.String()),
			slog.String("cache", hit),
		)

		sw.Header().Set("Content-Type", "application/geo+json")
		sw.Header().Set("X-Cache", hit)
		sw.WriteHeader(http.StatusOK)
		_, _ = sw.Write(body)
	}
}

// HandleH3 maps ?code=&res= to an H3 cell, or ?cell= back to a DIGIPIN code.
func HandleH3(_ *slog.Logger, cfg config.Config, b H3Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer observe(r, "/h3", sw, start)

		q := r.URL.Query()
		code := strings.TrimSpace(q.Get("code"))
		cell := strings.TrimSpace(q.Get("cell"))

		switch {
		case code != "" && cell != "":
			writeError(sw, http.StatusBadRequest, errors.New("supply either code or cell, not both"))
		case code != "":
			res := cfg.H3Res
			if v := strings.TrimSpace(q.Get("res")); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					writeError(sw, http.StatusBadRequest, fmt.Errorf("invalid res %q", v))
					return
				}
				res = n
			}
			out, err := b.FromCode(code, res)
			observability.ObserveOp("h3_from_code", outcome(err))
			if err != nil {
				writeError(sw, http.StatusBadRequest, err)
				return
			}
			norm, _ := digipin.Normalize(code)
			writeJSON(sw, http.StatusOK, h3Response{Code: digipin.Format(norm), Cell: out, Res: res})
		case cell != "":
			out, err := b.ToCode(cell)
			observability.ObserveOp("h3_to_code", outcome(err))
			if err != nil {
				writeError(sw, http.StatusBadRequest, err)
				return
			}
			writeJSON(sw, http.StatusOK, h3Response{Code: out, Cell: cell})
		default:
			writeError(sw, http.StatusBadRequest, errors.New("missing required parameter: code or cell"))
		}
	}
}
