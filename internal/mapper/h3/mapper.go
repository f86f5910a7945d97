// Package h3mapper bridges DIGIPIN codes and H3 cell indexes.
package h3mapper

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

type Mapper struct{}

func New() *Mapper { return &Mapper{} }

// FromCode returns the H3 cell at res containing the center of code.
func (m *Mapper) FromCode(code string, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	ll, err := digipin.Decode(code)
	if err != nil {
		return "", fmt.Errorf("decode digipin: %w", err)
	}
	c, err := h3.LatLngToCell(h3.NewLatLng(ll.Latitude, ll.Longitude), res)
	if err != nil {
		return "", fmt.Errorf("h3 cell: %w", err)
	}
	return c.String(), nil
}

// ToCode returns the DIGIPIN code of the center of an H3 cell.
func (m *Mapper) ToCode(cell string) (string, error) {
	c, err := parseCell(cell)
	if err != nil {
		return "", err
	}
	ll, err := c.LatLng()
	if err != nil {
		return "", fmt.Errorf("h3 center: %w", err)
	}
	code, err := digipin.Encode(ll.Lat, ll.Lng)
	if err != nil {
		return "", fmt.Errorf("encode h3 center: %w", err)
	}
	return code, nil
}

// --- helpers ---

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

func parseCell(cell string) (h3.Cell, error) {
	var c h3.Cell
	if err := c.UnmarshalText([]byte(cell)); err != nil {
		return 0, fmt.Errorf("parse cell: %w", err)
	}
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid h3 cell %q", cell)
	}
	return c, nil
}
