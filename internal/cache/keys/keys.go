// Package keys builds cache keys for overlay responses.
package keys

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/digipin/internal/core/model"
)

const version = "v1"

// GridKey identifies the overlay for bb at level. Coordinates are written with
// six decimals, so bb must already be rounded to that precision before the
// overlay is rendered or two different rectangles would share a key.
func GridKey(level int, bb model.BBox) string {
	norm := normalizeBBox(bb)
	sum := xxhash.Sum64String(fmt.Sprintf("%d|%s", level, norm))
	return fmt.Sprintf("grid:%s:L%d:%s:h=%016x", version, level, sanitizeForKey(norm), sum)
}

func normalizeBBox(bb model.BBox) string {
	parts := [4]float64{bb.X1, bb.Y1, bb.X2, bb.Y2}
	out := make([]string, len(parts))
	for i, f := range parts {
		s := strconv.FormatFloat(f, 'f', 6, 64)
		// "-0.000000" and "0.000000" must match
		if s == "-0.000000" {
			s = "0.000000"
		}
		out[i] = s
	}
	return strings.Join(out, ",")
}

func sanitizeForKey(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ',':
			out = '_'
		case isAlphaNum(r) || r == '.' || r == '-':
			out = r
		default:
			out = '~'
		}
		if out == '~' && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
