package gridcalc

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// cellEnv is the environment a Find condition is evaluated against.
type cellEnv struct {
	Row     int     `expr:"row"`     // 1-based row number
	Col     int     `expr:"col"`     // 1-based column number
	Column  string  `expr:"column"`  // column name, e.g. "B"
	Ref     string  `expr:"ref"`     // cell address, e.g. "B3"
	Raw     string  `expr:"raw"`     // raw cell text
	Kind    string  `expr:"kind"`    // "Empty", "Literal" or "Formula"
	Value   string  `expr:"value"`   // display value
	Number  float64 `expr:"number"`  // numeric value, 0 when not numeric
	Numeric bool    `expr:"numeric"` // true when Number holds a real value
	Failed  bool    `expr:"failed"`  // true when a formula fails to evaluate
}

// conditionCache holds compiled Find conditions.
type conditionCache map[string]*vm.Program

func (c conditionCache) compile(condition string) (*vm.Program, error) {
	if program, ok := c[condition]; ok {
		return program, nil
	}
	program, err := expr.Compile(condition, expr.Env(cellEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	c[condition] = program
	return program, nil
}

// Find returns the addresses, in row-major order, of every cell for which
// condition holds. The condition is an expr-lang boolean expression over
// row, col, column, ref, raw, kind, value, number, numeric and failed, e.g.
//
//	kind == "Formula" && number > 100
//	failed
//	column == "A" && raw startsWith "x"
func (s *Sheet) Find(condition string) ([]Address, error) {
	if s.conditions == nil {
		s.conditions = conditionCache{}
	}
	program, err := s.conditions.compile(condition)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", condition, err)
	}

	var out []Address
	for row := 0; row < s.grid.Rows(); row++ {
		for col := 0; col < s.grid.Cols(); col++ {
			env := s.cellEnv(row, col)
			result, err := expr.Run(program, env)
			if err != nil {
				return nil, fmt.Errorf("evaluate condition %q at %s: %w", condition, env.Ref, err)
			}
			if match, _ := result.(bool); match {
				out = append(out, NewAddress(row, col))
			}
		}
	}
	return out, nil
}

func (s *Sheet) cellEnv(row, col int) cellEnv {
	a := NewAddress(row, col)
	c := s.grid.Cell(row, col)
	env := cellEnv{
		Row:    row + 1,
		Col:    col + 1,
		Column: ColToName(col),
		Ref:    a.String(),
		Raw:    c.Raw,
		Kind:   c.Kind.String(),
		Value:  s.DisplayValue(row, col),
	}
	switch c.Kind {
	case CellLiteral:
		env.Number, env.Numeric = c.Number()
	case CellFormula:
		v, err := s.resolver.EvaluateCell(a)
		env.Number, env.Numeric, env.Failed = v, err == nil, err != nil
	}
	return env
}
