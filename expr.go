package gridcalc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrParse is returned for malformed arithmetic or formula syntax.
	ErrParse = errors.New("parse error")
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite is returned when a result is NaN or infinite.
	ErrNotFinite = errors.New("result is not a finite number")
)

type exprTokenKind int

const (
	tokNumber exprTokenKind = iota
	tokOperator
	tokLParen
	tokRParen
)

// opNegate is the subtraction produced by rewriting a unary minus into
// "0 - operand". It binds tighter than any binary operator.
const opNegate = '~'

type exprToken struct {
	kind exprTokenKind
	op   byte
	num  float64
}

func (t exprToken) String() string {
	switch t.kind {
	case tokNumber:
		return strconv.FormatFloat(t.num, 'g', -1, 64)
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	}
	if t.op == opNegate {
		return "-"
	}
	return string(t.op)
}

// EvaluateExpression evaluates a pure arithmetic expression made of numbers,
// + - * / ^ and parentheses. Whitespace is ignored and any other character is
// dropped.
func EvaluateExpression(s string) (float64, error) {
	tokens, err := tokenizeExpression(s)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("evaluate %q: empty expression: %w", s, ErrParse)
	}
	rpn, err := toRPN(tokens)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", s, err)
	}
	v, err := evalRPN(rpn)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", s, err)
	}
	return v, nil
}

func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/' || c == '^'
}

// tokenizeExpression splits s into tokens. A '-' at the start, after '(' or
// after another operator becomes the pair 0, opNegate.
func tokenizeExpression(s string) ([]exprToken, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	var tokens []exprToken
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case (c >= '0' && c <= '9') || c == '.':
			j := i + 1
			for j < len(s) && ((s[j] >= '0' && s[j] <= '9') || s[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q: %w", s[i:j], ErrParse)
			}
			tokens = append(tokens, exprToken{kind: tokNumber, num: v})
			i = j
		case isOperator(c):
			if c == '-' && expectsOperand(tokens) {
				tokens = append(tokens,
					exprToken{kind: tokNumber, num: 0},
					exprToken{kind: tokOperator, op: opNegate})
			} else {
				tokens = append(tokens, exprToken{kind: tokOperator, op: c})
			}
			i++
		case c == '(':
			tokens = append(tokens, exprToken{kind: tokLParen})
			i++
		case c == ')':
			tokens = append(tokens, exprToken{kind: tokRParen})
			i++
		default:
			i++ // unknown characters are dropped
		}
	}
	return tokens, nil
}

func expectsOperand(tokens []exprToken) bool {
	if len(tokens) == 0 {
		return true
	}
	last := tokens[len(tokens)-1]
	return last.kind == tokLParen || last.kind == tokOperator
}

func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	case '^':
		return 3
	case opNegate:
		return 4
	}
	return 0
}

func isRightAssociative(op byte) bool {
	return op == '^' || op == opNegate
}

// toRPN converts infix tokens to postfix with the shunting-yard algorithm.
func toRPN(tokens []exprToken) ([]exprToken, error) {
	output := make([]exprToken, 0, len(tokens))
	var ops []exprToken

	for _, tok := range tokens {
		switch tok.kind {
		case tokNumber:
			output = append(output, tok)
		case tokOperator:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind != tokOperator {
					break
				}
				p1, p2 := precedence(tok.op), precedence(top.op)
				if (isRightAssociative(tok.op) && p1 < p2) || (!isRightAssociative(tok.op) && p1 <= p2) {
					output = append(output, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, tok)
		case tokLParen:
			ops = append(ops, tok)
		case tokRParen:
			matched := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.kind == tokLParen {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, fmt.Errorf("mismatched ')': %w", ErrParse)
			}
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.kind == tokLParen {
			return nil, fmt.Errorf("mismatched '(': %w", ErrParse)
		}
		output = append(output, top)
	}
	return output, nil
}

// evalRPN evaluates postfix tokens on a number stack.
func evalRPN(rpn []exprToken) (float64, error) {
	stack := make([]float64, 0, len(rpn))
	for _, tok := range rpn {
		if tok.kind == tokNumber {
			stack = append(stack, tok.num)
			continue
		}
		if len(stack) < 2 {
			return 0, fmt.Errorf("operator %s is missing an operand: %w", tok, ErrParse)
		}
		a, b := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]

		var v float64
		switch tok.op {
		case '+':
			v = a + b
		case '-', opNegate:
			v = a - b
		case '*':
			v = a * b
		case '/':
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			v = a / b
		case '^':
			v = math.Pow(a, b)
		default:
			return 0, fmt.Errorf("unknown operator %q: %w", tok.op, ErrParse)
		}
		stack = append(stack, v)
	}
	if len(stack) != 1 {
		return 0, fmt.Errorf("expression leaves %d values: %w", len(stack), ErrParse)
	}
	if math.IsNaN(stack[0]) || math.IsInf(stack[0], 0) {
		return 0, ErrNotFinite
	}
	return stack[0], nil
}
