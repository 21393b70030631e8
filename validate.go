package gridcalc

import (
	"errors"
	"fmt"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Formula displays ERROR
	SeverityWarning                 // Formula evaluates but may not mean what it says
)

// ValidationIssue represents a single problem found in a formula cell.
type ValidationIssue struct {
	Severity Severity
	Cell     Address
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Cell, v.Message)
}

// Validate checks every formula cell and returns the issues found, in
// row-major order. Formulas that fail to evaluate are errors; references
// outside the grid, which silently read as 0, are warnings.
func (s *Sheet) Validate() []ValidationIssue {
	var issues []ValidationIssue
	for row := 0; row < s.grid.Rows(); row++ {
		for col := 0; col < s.grid.Cols(); col++ {
			c := s.grid.Cell(row, col)
			if c.Kind != CellFormula {
				continue
			}
			a := NewAddress(row, col)
			if _, err := s.resolver.EvaluateCell(a); err != nil {
				issues = append(issues, ValidationIssue{
					Severity: SeverityError,
					Cell:     a,
					Message:  fmt.Sprintf("%s: %v", failureKind(err), err),
				})
			}
			issues = append(issues, s.validateReferences(a, c.Expression)...)
		}
	}
	return issues
}

// validateReferences reports references of a formula that fall outside the grid.
func (s *Sheet) validateReferences(a Address, expression string) []ValidationIssue {
	refs, err := References(expression)
	if err != nil {
		return nil
	}
	var issues []ValidationIssue
	for _, ref := range refs {
		n := ref.Normalize()
		if s.grid.InBounds(n.Start.Row, n.Start.Col) && s.grid.InBounds(n.End.Row, n.End.Col) {
			continue
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Cell:     a,
			Message: fmt.Sprintf("reference %s extends beyond the grid (%d rows x %d cols); missing cells read as 0",
				ref, s.grid.Rows(), s.grid.Cols()),
		})
	}
	return issues
}

// failureKind names the class of an evaluation error.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrCircularReference):
		return "circular reference"
	case errors.Is(err, ErrDivisionByZero):
		return "division by zero"
	case errors.Is(err, ErrUnknownFunction):
		return "unknown function"
	case errors.Is(err, ErrNotFinite):
		return "non-finite result"
	case errors.Is(err, ErrInvalidRange):
		return "invalid range"
	default:
		return "syntax error"
	}
}
