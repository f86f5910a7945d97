// Package gridmapper enumerates DIGIPIN cells covering a bounding box.
package gridmapper

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mohammed-shakir/digipin/internal/core/model"
	"github.com/mohammed-shakir/digipin/internal/mapper"
	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

const DefaultMaxCells = 4096

var ErrTooManyCells = errors.New("too many cells")

type Mapper struct {
	maxCells int
}

var _ mapper.Interface = (*Mapper)(nil)

// New returns a mapper that refuses to return more than maxCells cells.
// maxCells <= 0 selects DefaultMaxCells.
func New(maxCells int) *Mapper {
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	return &Mapper{maxCells: maxCells}
}

func (m *Mapper) CellsForBBox(bb model.BBox, level int) (model.Cells, error) {
	if err := validateLevel(level, 1); err != nil {
		return nil, err
	}
	if bb.X2 <= bb.X1 || bb.Y2 <= bb.Y1 {
		return nil, errors.New("bbox must satisfy x2>x1 and y2>y1")
	}
	target := bb.Cell()
	if !digipin.Region().Overlaps(target) {
		return nil, fmt.Errorf("bbox %s does not overlap the DIGIPIN region", bb)
	}

	out := make([]string, 0, 64)
	if err := m.collect("", level, target, &out); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// collect walks prefix depth-first, pruning children that miss target.
func (m *Mapper) collect(prefix string, level int, target digipin.Cell, out *[]string) error {
	if len(prefix) == level {
		if len(*out) >= m.maxCells {
			return fmt.Errorf("%w: more than %d cells at level %d", ErrTooManyCells, m.maxCells, level)
		}
		*out = append(*out, prefix)
		return nil
	}
	kids, err := digipin.Children(prefix)
	if err != nil {
		return fmt.Errorf("children of %q: %w", prefix, err)
	}
	for _, k := range kids {
		c, err := digipin.Bounds(k)
		if err != nil {
			return fmt.Errorf("bounds of %q: %w", k, err)
		}
		if !c.Overlaps(target) {
			continue
		}
		if err := m.collect(k, level, target, out); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mapper) ToParent(code string, level int) (string, error) {
	if err := validateLevel(level, 0); err != nil {
		return "", err
	}
	norm, err := digipin.Normalize(code)
	if err != nil {
		return "", fmt.Errorf("parse code: %w", err)
	}
	if level > len(norm) {
		return "", fmt.Errorf("parent level %d must be <= code level %d", level, len(norm))
	}
	return norm[:level], nil
}

func (m *Mapper) ToChildren(code string, level int) (model.Cells, error) {
	if err := validateLevel(level, 0); err != nil {
		return nil, err
	}
	norm, err := digipin.Normalize(code)
	if err != nil {
		return nil, fmt.Errorf("parse code: %w", err)
	}
	if level < len(norm) {
		return nil, fmt.Errorf("child level %d must be >= code level %d", level, len(norm))
	}
	// 16^(level-len) grows fast; check before expanding
	if n := childCount(level - len(norm)); n > m.maxCells {
		return nil, fmt.Errorf("%w: %d children at level %d (limit %d)", ErrTooManyCells, n, level, m.maxCells)
	}

	out := []string{norm}
	for len(out[0]) < level {
		next := make([]string, 0, len(out)*16)
		for _, p := range out {
			kids, err := digipin.Children(p)
			if err != nil {
				return nil, fmt.Errorf("children of %q: %w", p, err)
			}
			next = append(next, kids...)
		}
		out = next
	}
	sort.Strings(out)
	return out, nil
}

func validateLevel(level, lowest int) error {
	if level < lowest || level > digipin.Levels {
		return fmt.Errorf("invalid DIGIPIN level %d (must be %d..%d)", level, lowest, digipin.Levels)
	}
	return nil
}

func childCount(depth int) int {
	n := 1
	for range depth {
		n *= 16
		if n > 1<<30 {
			break
		}
	}
	return n
}
