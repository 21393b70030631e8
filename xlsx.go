package gridcalc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// MaxXLSXCells bounds the grid a workbook's declared sheet dimension may
// ask ReadXLSX to allocate.
const MaxXLSXCells = 1 << 22

// ErrSheetTooLarge is returned when a workbook declares a sheet larger than
// MaxXLSXCells.
var ErrSheetTooLarge = errors.New("sheet too large")

// WriteXLSX writes the grid to w as a single-sheet workbook. Formula cells
// are written as formulas, numeric literals as numbers and everything else
// as text, so the raw contents survive a ReadXLSX round trip.
func (s *Sheet) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for row := 0; row < s.grid.Rows(); row++ {
		for col := 0; col < s.grid.Cols(); col++ {
			c := s.grid.Cell(row, col)
			if c.Kind == CellEmpty {
				continue
			}
			cellName := NewAddress(row, col).String()
			var err error
			switch {
			case c.Kind == CellFormula:
				err = f.SetCellFormula(sheet, cellName, c.Expression)
			case isCanonicalNumber(c.Raw):
				v, _ := c.Number()
				err = f.SetCellValue(sheet, cellName, v)
			default:
				err = f.SetCellStr(sheet, cellName, c.Raw)
			}
			if err != nil {
				return fmt.Errorf("write cell %s: %w", cellName, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// isCanonicalNumber reports whether raw is a number that an xlsx numeric
// cell reproduces verbatim ("12.5" yes, "007" or "1e3" no).
func isCanonicalNumber(raw string) bool {
	v, ok := parseNumber(raw)
	return ok && strconv.FormatFloat(v, 'f', -1, 64) == raw
}

// ReadXLSX replaces the grid with the first sheet of the workbook read from
// r. Formulas are loaded as "=" + formula text, other cells as their raw
// values. The grid is left untouched on failure; a successful read can be
// undone.
func (s *Sheet) ReadXLSX(r io.Reader) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("open xlsx: workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	height, width := len(rows), 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	// Formula cells without a cached value are trimmed by GetRows, so the
	// declared dimension may extend the grid, but only up to MaxXLSXCells.
	if dim, err := f.GetSheetDimension(sheet); err == nil && dim != "" {
		if rng, err := ParseRange(dim); err == nil {
			end := rng.Normalize().End
			h, w := max(height, end.Row+1), max(width, end.Col+1)
			if h*w > MaxXLSXCells {
				return fmt.Errorf("sheet %q declares dimension %s (%d cells, limit %d): %w",
					sheet, dim, h*w, MaxXLSXCells, ErrSheetTooLarge)
			}
			height, width = h, w
		}
	}

	cells := make([][]string, height)
	for row := range cells {
		cells[row] = make([]string, width)
		for col := range cells[row] {
			cellName := NewAddress(row, col).String()
			formula, err := f.GetCellFormula(sheet, cellName)
			if err != nil {
				return fmt.Errorf("read formula %s: %w", cellName, err)
			}
			if formula != "" {
				cells[row][col] = "=" + formula
				continue
			}
			if row < len(rows) && col < len(rows[row]) {
				cells[row][col] = rows[row][col]
			}
		}
	}
	s.Load(cells)
	return nil
}

// SaveXLSX writes the grid to an xlsx file.
func (s *Sheet) SaveXLSX(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	if err := s.WriteXLSX(out); err != nil {
		out.Close()
		return fmt.Errorf("save %q: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	s.logger.Info("saved xlsx", "path", path, "rows", s.Rows(), "cols", s.Cols())
	return nil
}

// LoadXLSX replaces the grid with the first sheet of an xlsx file. A missing
// file reports ErrNotFound.
func (s *Sheet) LoadXLSX(path string) error {
	in, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	defer in.Close()

	if err := s.ReadXLSX(in); err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	s.logger.Info("loaded xlsx", "path", path, "rows", s.Rows(), "cols", s.Cols())
	return nil
}
