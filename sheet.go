package gridcalc

import (
	"fmt"
	"log/slog"
	"strings"
)

// Sheet is the editing session: a grid, its undo history and the formula
// resolver reading from it. Every mutation goes through Sheet so it can be
// recorded for undo.
type Sheet struct {
	opts         *Options
	grid         *Grid
	history      *History
	resolver     *Resolver
	logger       *slog.Logger
	clipboard    string
	showFormulas bool
	conditions   conditionCache
}

// NewSheet creates a Sheet with the given options.
func NewSheet(opts ...Option) *Sheet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	g := NewGrid(o.rows, o.cols)
	return &Sheet{
		opts:     o,
		grid:     g,
		history:  NewHistory(o.historyLimit),
		resolver: NewResolver(g),
		logger:   o.logger,
	}
}

// Rows returns the number of rows.
func (s *Sheet) Rows() int { return s.grid.Rows() }

// Cols returns the number of columns.
func (s *Sheet) Cols() int { return s.grid.Cols() }

// Snapshot returns a copy of the current grid state.
func (s *Sheet) Snapshot() Snapshot { return s.grid.Snapshot() }

// History returns the undo history of the sheet.
func (s *Sheet) History() *History { return s.history }

// RawCell returns the raw text of a cell, "" when out of bounds.
func (s *Sheet) RawCell(row, col int) string {
	return s.grid.Get(row, col)
}

// Cell returns the classified content of a cell.
func (s *Sheet) Cell(row, col int) Content {
	return s.grid.Cell(row, col)
}

// SetRawCell records the current state for undo and stores text in a cell.
// Out-of-bounds writes are ignored and return false.
func (s *Sheet) SetRawCell(row, col int, text string) bool {
	if !s.grid.InBounds(row, col) {
		return false
	}
	s.history.Record(s.grid)
	return s.grid.Set(row, col, text)
}

// Evaluate returns the numeric value of a cell. Formula failures are
// returned as errors; see DisplayValue for the display form.
func (s *Sheet) Evaluate(row, col int) (float64, error) {
	return s.resolver.EvaluateCell(NewAddress(row, col))
}

// DisplayValue returns what a cell shows: literal text as is, formula
// results formatted by FormatNumber, or ErrorText when evaluation fails.
// In show-formulas mode the raw text is returned instead.
func (s *Sheet) DisplayValue(row, col int) string {
	c := s.grid.Cell(row, col)
	if s.showFormulas || c.Kind != CellFormula {
		return c.Raw
	}
	return s.formulaDisplay(row, col)
}

// DisplayValues returns the display value of every cell, row by row.
func (s *Sheet) DisplayValues() [][]string {
	out := make([][]string, s.grid.Rows())
	for row := range out {
		out[row] = make([]string, s.grid.Cols())
		for col := range out[row] {
			out[row][col] = s.DisplayValue(row, col)
		}
	}
	return out
}

// formulaDisplay evaluates a formula cell regardless of show-formulas mode.
func (s *Sheet) formulaDisplay(row, col int) string {
	v, err := s.Evaluate(row, col)
	if err != nil {
		s.logger.Debug("formula evaluation failed",
			"cell", NewAddress(row, col).String(), "formula", s.grid.Get(row, col), "error", err)
		return ErrorText
	}
	return FormatNumber(v)
}

// Undo restores the state before the last mutation. It returns false when
// there is nothing to undo.
func (s *Sheet) Undo() bool {
	return s.history.Undo(s.grid)
}

// Redo re-applies the last undone mutation. It returns false when there is
// nothing to redo.
func (s *Sheet) Redo() bool {
	return s.history.Redo(s.grid)
}

// InsertRow appends an empty row.
func (s *Sheet) InsertRow() bool {
	s.history.Record(s.grid)
	s.grid.InsertRow()
	return true
}

// InsertColumn appends an empty column.
func (s *Sheet) InsertColumn() bool {
	s.history.Record(s.grid)
	s.grid.InsertColumn()
	return true
}

// DeleteRow removes the last row. It returns false, recording nothing, when
// only one row is left.
func (s *Sheet) DeleteRow() bool {
	if s.grid.Rows() <= 1 {
		return false
	}
	s.history.Record(s.grid)
	return s.grid.DeleteRow()
}

// DeleteColumn removes the last column. It returns false, recording nothing,
// when only one column is left.
func (s *Sheet) DeleteColumn() bool {
	if s.grid.Cols() <= 1 {
		return false
	}
	s.history.Record(s.grid)
	return s.grid.DeleteColumn()
}

// Load replaces the whole grid, padding ragged rows. An empty input clears
// every cell and keeps the current size. The load is recorded for undo.
func (s *Sheet) Load(cells [][]string) {
	s.history.Record(s.grid)
	s.grid.Replace(cells)
}

// SetShowFormulas toggles show-formulas mode, in which DisplayValue returns
// raw cell text.
func (s *Sheet) SetShowFormulas(show bool) {
	s.showFormulas = show
}

// ShowFormulas reports whether show-formulas mode is on.
func (s *Sheet) ShowFormulas() bool {
	return s.showFormulas
}

// Copy puts the raw text of a cell on the sheet clipboard.
func (s *Sheet) Copy(row, col int) bool {
	if !s.grid.InBounds(row, col) {
		return false
	}
	s.clipboard = s.grid.Get(row, col)
	return true
}

// Cut copies a cell to the clipboard and clears it.
func (s *Sheet) Cut(row, col int) bool {
	if !s.Copy(row, col) {
		return false
	}
	return s.SetRawCell(row, col, "")
}

// Paste writes the clipboard into a cell.
func (s *Sheet) Paste(row, col int) bool {
	return s.SetRawCell(row, col, s.clipboard)
}

// Clipboard returns the current clipboard text.
func (s *Sheet) Clipboard() string {
	return s.clipboard
}

// InsertFunction writes "=NAME(args)" into a cell, e.g.
// InsertFunction(2, 0, "sum", "A1:A2") stores "=SUM(A1:A2)".
func (s *Sheet) InsertFunction(row, col int, name, args string) error {
	if _, err := LookupFunction(name); err != nil {
		return fmt.Errorf("insert function: %w", err)
	}
	formula := "=" + strings.ToUpper(name) + "(" + strings.TrimSpace(args) + ")"
	if !s.SetRawCell(row, col, formula) {
		return fmt.Errorf("insert function at %s: cell out of bounds", NewAddress(row, col))
	}
	return nil
}
