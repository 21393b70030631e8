package gridcalc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/transform"
)

// ErrNotFound is returned by LoadCSV and LoadXLSX when the file does not exist.
var ErrNotFound = errors.New("file not found")

// WriteCSV writes cells as comma-separated records, one per line. A field is
// quoted only when it contains a comma, a double quote or a line break;
// embedded quotes are doubled.
func WriteCSV(w io.Writer, cells [][]string) error {
	bw := bufio.NewWriter(w)
	for _, row := range cells {
		for j, cell := range row {
			if j > 0 {
				bw.WriteByte(',')
			}
			if strings.ContainsAny(cell, ",\"\n\r") {
				bw.WriteByte('"')
				bw.WriteString(strings.ReplaceAll(cell, `"`, `""`))
				bw.WriteByte('"')
			} else {
				bw.WriteString(cell)
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ReadCSV parses records written by WriteCSV. Quoted fields may span lines.
// A blank line is a record with one empty field. Field bytes are kept as
// read, so text that is not valid UTF-8 survives a round trip. Records are returned as
// read; callers pad them into a rectangle.
func ReadCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
		started  bool // current record has at least one byte
	)
	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		rows = append(rows, row)
		row, started = nil, false
	}

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		started = true

		if inQuotes {
			if c != '"' {
				field.WriteByte(c)
				continue
			}
			next, err := br.ReadByte()
			switch {
			case err == nil && next == '"':
				field.WriteByte('"')
				continue
			case err == nil:
				_ = br.UnreadByte()
			case err != io.EOF:
				return nil, fmt.Errorf("read csv: %w", err)
			}
			inQuotes = false
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			endField()
		case '\n':
			endRecord()
		case '\r':
			next, err := br.ReadByte()
			if err == nil && next == '\n' {
				endRecord()
				continue
			}
			if err == nil {
				_ = br.UnreadByte()
			}
			field.WriteByte(c)
		default:
			field.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("read csv: unterminated quoted field in record %d", len(rows)+1)
	}
	if started {
		endRecord()
	}
	return rows, nil
}

// SaveCSV writes the grid to path using the configured encoding.
func (s *Sheet) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	var w io.WriteCloser = f
	if s.opts.csvEncoding != nil {
		w = transform.NewWriter(f, s.opts.csvEncoding.NewEncoder())
	}
	if err := WriteCSV(w, s.grid.Snapshot().Cells()); err != nil {
		f.Close()
		return fmt.Errorf("save %q: %w", path, err)
	}
	if tw, ok := w.(*transform.Writer); ok {
		if err := tw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("save %q: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	s.logger.Info("saved csv", "path", path, "rows", s.Rows(), "cols", s.Cols())
	return nil
}

// LoadCSV replaces the grid with the contents of a CSV file. The grid is
// left untouched on any failure; a missing file reports ErrNotFound.
// A successful load can be undone.
func (s *Sheet) LoadCSV(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.opts.csvEncoding != nil {
		r = transform.NewReader(f, s.opts.csvEncoding.NewDecoder())
	}
	cells, err := ReadCSV(r)
	if err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	s.Load(cells)
	s.logger.Info("loaded csv", "path", path, "rows", s.Rows(), "cols", s.Cols())
	return nil
}
