// Package mapper converts between geometric coordinates and DIGIPIN cells.
package mapper

import (
	"github.com/mohammed-shakir/digipin/internal/core/model"
)

type Interface interface {
	CellsForBBox(bb model.BBox, level int) (model.Cells, error)
	ToParent(code string, level int) (string, error)
	ToChildren(code string, level int) (model.Cells, error)
}
