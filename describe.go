package gridcalc

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable listing of the sheet: its size, then
// one line per non-empty cell with its kind, raw text and, for formulas,
// the display value. Useful for debugging formulas.
func (s *Sheet) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet %s\n", Size{Width: s.grid.Cols(), Height: s.grid.Rows()})

	for row := 0; row < s.grid.Rows(); row++ {
		for col := 0; col < s.grid.Cols(); col++ {
			c := s.grid.Cell(row, col)
			if c.Kind == CellEmpty {
				continue
			}
			a := NewAddress(row, col)
			if c.Kind == CellFormula {
				fmt.Fprintf(&b, "  %s [%s] %s -> %s\n", a, c.Kind, c.Raw, s.formulaDisplay(row, col))
				continue
			}
			fmt.Fprintf(&b, "  %s [%s] %q\n", a, c.Kind, c.Raw)
		}
	}
	return b.String()
}
