package gridcalc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// ErrCircularReference is returned when a formula depends on itself.
var ErrCircularReference = errors.New("circular reference")

// ErrorText is the display value of any formula that fails to evaluate.
const ErrorText = "ERROR"

// CellSource is the read side of a grid as seen by the resolver.
type CellSource interface {
	Rows() int
	Cols() int
	Get(row, col int) string
}

// Resolver evaluates formulas against a grid. Every call re-reads raw cell
// text; nothing is cached between calls.
type Resolver struct {
	cells CellSource
}

// NewResolver creates a Resolver reading from cells.
func NewResolver(cells CellSource) *Resolver {
	return &Resolver{cells: cells}
}

// evalPath is the set of formula cells on the active evaluation path.
type evalPath map[Address]struct{}

// Evaluate evaluates formula text such as "=SUM(A1:A3)*2". The leading '='
// is optional.
func (r *Resolver) Evaluate(formula string) (float64, error) {
	return r.eval(formula, evalPath{})
}

// EvaluateCell returns the numeric value of a cell: formulas are evaluated,
// numeric literals parsed, and anything else is 0. Unlike a reference from
// another formula, a failing formula here returns its error.
func (r *Resolver) EvaluateCell(a Address) (float64, error) {
	c := Classify(r.cells.Get(a.Row, a.Col))
	if c.Kind != CellFormula {
		v, _ := c.Number()
		return v, nil
	}
	return r.eval(c.Expression, evalPath{a: {}})
}

func (r *Resolver) eval(formula string, path evalPath) (float64, error) {
	expression := strings.TrimSpace(formula)
	expression = strings.TrimSpace(strings.TrimPrefix(expression, "="))

	tokens, err := tokenizeFormula(expression)
	if err != nil {
		return 0, err
	}
	flat, err := r.flatten(tokens, path)
	if err != nil {
		return 0, err
	}
	return EvaluateExpression(flat)
}

// tokenizeFormula runs the efp tokenizer and drops whitespace tokens.
func tokenizeFormula(expression string) (tokens []efp.Token, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			tokens, err = nil, fmt.Errorf("tokenize %q: %v: %w", expression, rec, ErrParse)
		}
	}()
	if expression == "" {
		return nil, nil
	}
	ps := efp.ExcelParser()
	for _, t := range ps.Parse(expression) {
		if t.TType == efp.TokenTypeWhitespace {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// flatten rewrites a token stream into a purely numeric arithmetic string:
// function calls are evaluated and replaced by their result, cell
// references by the referenced value.
//
// Two values may not touch: "SUM(1)A1" or "(1)(2)" is a parse error rather
// than the digits of both run together.
func (r *Resolver) flatten(tokens []efp.Token, path evalPath) (string, error) {
	var b strings.Builder
	afterValue := false // last write was a number or ')'
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if afterValue && startsValue(t) {
			return "", fmt.Errorf("missing operator before %q: %w", t.TValue, ErrParse)
		}
		switch {
		case t.TType == efp.TokenTypeOperand:
			v, err := r.operand(t, path)
			if err != nil {
				return "", err
			}
			b.WriteString(formatOperand(v))
			afterValue = true

		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart:
			end := matchingStop(tokens, i)
			if end < 0 {
				return "", fmt.Errorf("function %s: unbalanced parentheses: %w", t.TValue, ErrParse)
			}
			v, err := r.call(t.TValue, tokens[i+1:end], path)
			if err != nil {
				return "", err
			}
			b.WriteString(formatOperand(v))
			afterValue = true
			i = end

		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStart:
			b.WriteByte('(')
			afterValue = false
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStop:
			b.WriteByte(')')
			afterValue = true

		case t.TType == efp.TokenTypeOperatorPrefix:
			if t.TValue == "-" {
				b.WriteByte('-')
			} else if t.TValue != "+" {
				return "", fmt.Errorf("unsupported prefix operator %q: %w", t.TValue, ErrParse)
			}
			afterValue = false

		case t.TType == efp.TokenTypeOperatorInfix && len(t.TValue) == 1 && isOperator(t.TValue[0]):
			b.WriteString(t.TValue)
			afterValue = false

		default:
			return "", fmt.Errorf("unsupported token %q (%s): %w", t.TValue, t.TType, ErrParse)
		}
	}
	return b.String(), nil
}

// startsValue reports whether t begins a new operand: a number, reference,
// function call or parenthesized group.
func startsValue(t efp.Token) bool {
	switch t.TType {
	case efp.TokenTypeOperand:
		return true
	case efp.TokenTypeFunction, efp.TokenTypeSubexpression:
		return t.TSubType == efp.TokenSubTypeStart
	}
	return false
}

// matchingStop returns the index of the stop token closing the start token
// at tokens[start], or -1.
func matchingStop(tokens []efp.Token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].TSubType {
		case efp.TokenSubTypeStart:
			depth++
		case efp.TokenSubTypeStop:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// operand resolves a number literal or a single cell reference.
func (r *Resolver) operand(t efp.Token, path evalPath) (float64, error) {
	switch t.TSubType {
	case efp.TokenSubTypeNumber:
		v, ok := parseNumber(t.TValue)
		if !ok {
			return 0, fmt.Errorf("invalid number %q: %w", t.TValue, ErrParse)
		}
		return v, nil
	case efp.TokenSubTypeRange:
		if strings.Contains(t.TValue, ":") {
			return 0, fmt.Errorf("range %s outside a function: %w", t.TValue, ErrParse)
		}
		a, err := ParseAddress(t.TValue)
		if err != nil {
			return 0, fmt.Errorf("unknown name %q: %w", t.TValue, ErrParse)
		}
		return r.cellValue(a, path)
	default:
		return 0, fmt.Errorf("unsupported operand %q (%s): %w", t.TValue, t.TSubType, ErrParse)
	}
}

// call evaluates a function call whose argument tokens are inner.
func (r *Resolver) call(name string, inner []efp.Token, path evalPath) (float64, error) {
	if _, err := LookupFunction(name); err != nil {
		return 0, err
	}
	var xs []float64
	for _, arg := range splitArguments(inner) {
		vals, err := r.argument(arg, path)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", strings.ToUpper(name), err)
		}
		xs = append(xs, vals...)
	}
	return ApplyFunction(name, xs)
}

// splitArguments splits argument tokens at top-level separators.
func splitArguments(inner []efp.Token) [][]efp.Token {
	var args [][]efp.Token
	var cur []efp.Token
	depth := 0
	for _, t := range inner {
		switch {
		case t.TSubType == efp.TokenSubTypeStart:
			depth++
		case t.TSubType == efp.TokenSubTypeStop:
			depth--
		case depth == 0 && t.TType == efp.TokenTypeArgument:
			args = append(args, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	return append(args, cur)
}

// argument resolves one function argument to zero or more numbers.
func (r *Resolver) argument(arg []efp.Token, path evalPath) ([]float64, error) {
	if len(arg) == 0 {
		return nil, nil
	}
	if len(arg) == 1 && arg[0].TType == efp.TokenTypeOperand {
		t := arg[0]
		switch {
		case t.TSubType == efp.TokenSubTypeRange && strings.Contains(t.TValue, ":"):
			rng, err := ParseRange(t.TValue)
			if err != nil {
				return nil, err
			}
			return r.rangeValues(rng, path)
		case t.TSubType == efp.TokenSubTypeRange:
			if a, err := ParseAddress(t.TValue); err == nil {
				v, err := r.cellValue(a, path)
				if err != nil {
					return nil, err
				}
				return []float64{v}, nil
			}
		case t.TSubType == efp.TokenSubTypeNumber:
			if v, ok := parseNumber(t.TValue); ok {
				return []float64{v}, nil
			}
		}
	}

	// Anything else is a sub-expression; failures other than cycles count as 0.
	flat, err := r.flatten(arg, path)
	if err == nil {
		var v float64
		if v, err = EvaluateExpression(flat); err == nil {
			return []float64{v}, nil
		}
	}
	if errors.Is(err, ErrCircularReference) {
		return nil, err
	}
	return []float64{0}, nil
}

// rangeValues returns the values of the in-grid cells of rng in row-major order.
func (r *Resolver) rangeValues(rng Range, path evalPath) ([]float64, error) {
	n := rng.Normalize()
	firstRow, lastRow := max(n.Start.Row, 0), min(n.End.Row, r.cells.Rows()-1)
	firstCol, lastCol := max(n.Start.Col, 0), min(n.End.Col, r.cells.Cols()-1)

	var out []float64
	for row := firstRow; row <= lastRow; row++ {
		for col := firstCol; col <= lastCol; col++ {
			v, err := r.cellValue(Address{Row: row, Col: col}, path)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// cellValue reads a referenced cell. Out-of-grid, empty and non-numeric
// cells are 0. A nested formula that fails also reads as 0, unless the
// failure is a circular reference.
func (r *Resolver) cellValue(a Address, path evalPath) (float64, error) {
	if a.Row < 0 || a.Row >= r.cells.Rows() || a.Col < 0 || a.Col >= r.cells.Cols() {
		return 0, nil
	}
	c := Classify(r.cells.Get(a.Row, a.Col))
	switch c.Kind {
	case CellLiteral:
		v, _ := c.Number()
		return v, nil
	case CellFormula:
		if _, active := path[a]; active {
			return 0, fmt.Errorf("%s: %w", a, ErrCircularReference)
		}
		path[a] = struct{}{}
		v, err := r.eval(c.Expression, path)
		delete(path, a)
		if err != nil {
			if errors.Is(err, ErrCircularReference) {
				return 0, err
			}
			return 0, nil
		}
		return v, nil
	}
	return 0, nil
}

// formatOperand renders a value for splicing into an arithmetic string.
// Negative values are parenthesized so they survive any neighbouring operator.
func formatOperand(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.Signbit(v) {
		return "(" + s + ")"
	}
	return s
}

// FormatNumber renders a formula result for display: integral values
// without a decimal point, everything else with exactly two decimals.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// References returns every cell or range referenced by a formula, in the
// order they appear. Names that are not addresses are skipped.
func References(formula string) ([]Range, error) {
	expression := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(formula), "="))
	tokens, err := tokenizeFormula(expression)
	if err != nil {
		return nil, err
	}
	var refs []Range
	for _, t := range tokens {
		if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeRange {
			continue
		}
		rng, err := ParseRange(t.TValue)
		if err != nil {
			continue
		}
		refs = append(refs, rng)
	}
	return refs, nil
}
