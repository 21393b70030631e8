package gridcalc

import (
	"math"
	"strconv"
	"strings"
)

// CellKind is the kind of content a cell holds. The set is closed.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellLiteral
	CellFormula
)

// String returns a human-readable name for the CellKind.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "Empty"
	case CellLiteral:
		return "Literal"
	case CellFormula:
		return "Formula"
	default:
		return "Unknown"
	}
}

// Content is the classified form of a raw cell string.
type Content struct {
	Kind       CellKind
	Raw        string // text exactly as stored
	Expression string // formula text without the leading '=' (formulas only)
}

// Classify decides the kind of a raw cell string. A formula is any text
// starting with '='; the empty string is Empty; everything else is Literal.
func Classify(raw string) Content {
	switch {
	case raw == "":
		return Content{Kind: CellEmpty}
	case strings.HasPrefix(raw, "="):
		return Content{Kind: CellFormula, Raw: raw, Expression: raw[1:]}
	default:
		return Content{Kind: CellLiteral, Raw: raw}
	}
}

// IsFormula returns true if the content is a formula.
func (c Content) IsFormula() bool {
	return c.Kind == CellFormula
}

// Number parses a literal as a finite number. Empty cells, formulas and
// non-numeric text report false.
func (c Content) Number() (float64, bool) {
	if c.Kind != CellLiteral {
		return 0, false
	}
	return parseNumber(c.Raw)
}

// parseNumber accepts decimal numbers with optional sign and exponent.
// Hex floats, underscores, NaN and infinities are not numbers here.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
