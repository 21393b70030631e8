package gridcalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotAddress is returned when text is not a plain A1-style cell address.
	ErrNotAddress = errors.New("not a cell address")
	// ErrInvalidRange is returned when text is neither a cell nor a two-corner range.
	ErrInvalidRange = errors.New("invalid range")
)

// Address identifies a single cell. Row and Col are 0-based.
type Address struct {
	Row int
	Col int
}

// NewAddress creates an Address from 0-based row and column indexes.
func NewAddress(row, col int) Address {
	return Address{Row: row, Col: col}
}

// ParseAddress parses a cell address like "A1" or "ab12".
// Anything that is not exactly letters followed by a positive row number is
// rejected with ErrNotAddress.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("parse %q: %w", s, ErrNotAddress)
	}

	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return Address{}, fmt.Errorf("parse %q: %w", s, ErrNotAddress)
	}

	rowStr := s[i:]
	for j := 0; j < len(rowStr); j++ {
		if rowStr[j] < '0' || rowStr[j] > '9' {
			return Address{}, fmt.Errorf("parse %q: %w", s, ErrNotAddress)
		}
	}
	rowNum, err := strconv.Atoi(rowStr)
	if err != nil || rowNum < 1 {
		return Address{}, fmt.Errorf("parse %q: %w", s, ErrNotAddress)
	}

	col, err := NameToCol(s[:i])
	if err != nil {
		return Address{}, fmt.Errorf("parse %q: %w", s, ErrNotAddress)
	}

	return Address{Row: rowNum - 1, Col: col}, nil // convert 1-based row to 0-based
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the Address as "A1".
func (a Address) String() string {
	return ColToName(a.Col) + strconv.Itoa(a.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 701→"ZZ", 702→"AAA"
func ColToName(col int) string {
	if col < 0 {
		return ""
	}
	var buf []byte
	col++ // convert to 1-based for algorithm
	for col > 0 {
		col-- // adjust for 0-indexed letter
		buf = append(buf, byte('A'+col%26))
		col /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26. Lowercase letters are accepted.
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
		if col < 0 {
			return 0, fmt.Errorf("column name too long: %q", name)
		}
	}
	return col - 1, nil
}

// Range is a rectangle of cells given by two corner addresses in any order.
type Range struct {
	Start Address
	End   Address
}

// NewRange creates a Range from two corners.
func NewRange(start, end Address) Range {
	return Range{Start: start, End: end}
}

// ParseRange parses "A1:C5" or a single cell "B2" (a one-cell range).
// More than one ':' is rejected.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		a, err := ParseAddress(parts[0])
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", s, ErrInvalidRange)
		}
		return Range{Start: a, End: a}, nil
	case 2:
		first, err := ParseAddress(parts[0])
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", s, ErrInvalidRange)
		}
		last, err := ParseAddress(parts[1])
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", s, ErrInvalidRange)
		}
		return Range{Start: first, End: last}, nil
	default:
		return Range{}, fmt.Errorf("parse range %q (too many ':'): %w", s, ErrInvalidRange)
	}
}

// Normalize returns the range with Start as the top-left corner and End as
// the bottom-right corner.
func (r Range) Normalize() Range {
	return Range{
		Start: Address{Row: min(r.Start.Row, r.End.Row), Col: min(r.Start.Col, r.End.Col)},
		End:   Address{Row: max(r.Start.Row, r.End.Row), Col: max(r.Start.Col, r.End.Col)},
	}
}

// IsSingle reports whether both corners are the same cell.
func (r Range) IsSingle() bool {
	return r.Start == r.End
}

// Cells returns every address of the range in row-major order.
func (r Range) Cells() []Address {
	n := r.Normalize()
	size := n.Size()
	out := make([]Address, 0, size.Width*size.Height)
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			out = append(out, Address{Row: row, Col: col})
		}
	}
	return out
}

// Size returns the dimensions of the range.
func (r Range) Size() Size {
	n := r.Normalize()
	return Size{
		Width:  n.End.Col - n.Start.Col + 1,
		Height: n.End.Row - n.Start.Row + 1,
	}
}

// Contains returns true if the given address is within this range.
func (r Range) Contains(a Address) bool {
	n := r.Normalize()
	return a.Row >= n.Start.Row && a.Row <= n.End.Row &&
		a.Col >= n.Start.Col && a.Col <= n.End.Col
}

// String formats the Range as "A1:C5", or "A1" for a single cell.
func (r Range) String() string {
	if r.IsSingle() {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}
