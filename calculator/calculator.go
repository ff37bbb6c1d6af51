// Package calculator evaluates aperture macro arithmetic expressions.
package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tdconv "github.com/tdewolff/parse/v2/strconv"
)

// Variables holds macro variable values by index, $1 is Variables[1].
type Variables map[int]float64

type Calculator interface {
	Calc(vars Variables) float64
}

// Operand is a leaf (constant or variable) or a node holding an operation.
type Operand struct {
	variableName string
	variable     int
	value        float64
	operation    *Operation
}

func (op *Operand) Calc(vars Variables) float64 {
	if op.operation != nil {
		return op.operation.Calc(vars)
	}
	if op.variable > 0 {
		// undefined variables read as zero
		return vars[op.variable]
	}
	return op.value
}

func (op *Operand) String() string {
	if op.operation != nil {
		return op.operation.String()
	}
	if op.variable > 0 {
		return op.variableName
	}
	return strconv.FormatFloat(op.value, 'f', -1, 64)
}

type Operation struct {
	firstOperand  *Operand
	secondOperand *Operand
	operation     OpCode
}

type OpCode int

const (
	Nop OpCode = iota
	Add
	Sub
	Mul
	Div
	Neg
	Plus
)

func (oc OpCode) String() string {
	switch oc {
	case Add, Plus:
		return "+"
	case Sub, Neg:
		return "-"
	case Mul:
		return "x"
	case Div:
		return "/"
	case Nop:
		return "<nop>"
	default:
	}
	return "bad OpCode"
}

func (op *Operation) Calc(vars Variables) float64 {
	switch op.operation {
	case Neg:
		return -op.firstOperand.Calc(vars)
	case Plus:
		return op.firstOperand.Calc(vars)
	case Add:
		return op.firstOperand.Calc(vars) + op.secondOperand.Calc(vars)
	case Sub:
		return op.firstOperand.Calc(vars) - op.secondOperand.Calc(vars)
	case Mul:
		return op.firstOperand.Calc(vars) * op.secondOperand.Calc(vars)
	case Div:
		return op.firstOperand.Calc(vars) / op.secondOperand.Calc(vars)
	default:
	}
	return 0
}

func (op *Operation) String() string {
	if op.operation == Neg || op.operation == Plus {
		return "(" + op.operation.String() + op.firstOperand.String() + ")"
	}
	return "(" + op.firstOperand.String() + op.operation.String() + op.secondOperand.String() + ")"
}

/*
############################### compiler ###############################
*/

type compiler struct {
	src []byte
	pos int
}

// Compile builds the evaluation tree of a macro expression.
// Operators are + - x X / with the usual precedence, parentheses and unary signs.
func Compile(str string) (*Operand, error) {
	c := &compiler{src: []byte(strings.Join(strings.Fields(str), ""))}
	if len(c.src) == 0 {
		return nil, errors.New("calculator: empty expression")
	}
	retVal, err := c.expression()
	if err != nil {
		return nil, err
	}
	if c.pos != len(c.src) {
		return nil, fmt.Errorf("calculator: unexpected %q at %d in %q", c.src[c.pos], c.pos, str)
	}
	return retVal, nil
}

func (c *compiler) peek() byte {
	if c.pos < len(c.src) {
		return c.src[c.pos]
	}
	return 0
}

func (c *compiler) expression() (*Operand, error) {
	left, err := c.term()
	if err != nil {
		return nil, err
	}
	for {
		var opCode OpCode
		switch c.peek() {
		case '+':
			opCode = Add
		case '-':
			opCode = Sub
		default:
			return left, nil
		}
		c.pos++
		right, err := c.term()
		if err != nil {
			return nil, err
		}
		left = &Operand{operation: &Operation{left, right, opCode}}
	}
}

func (c *compiler) term() (*Operand, error) {
	left, err := c.factor()
	if err != nil {
		return nil, err
	}
	for {
		var opCode OpCode
		switch c.peek() {
		case 'x', 'X':
			opCode = Mul
		case '/':
			opCode = Div
		default:
			return left, nil
		}
		c.pos++
		right, err := c.factor()
		if err != nil {
			return nil, err
		}
		left = &Operand{operation: &Operation{left, right, opCode}}
	}
}

func (c *compiler) factor() (*Operand, error) {
	switch ch := c.peek(); {
	case ch == '-' || ch == '+':
		c.pos++
		operand, err := c.factor()
		if err != nil {
			return nil, err
		}
		opCode := Plus
		if ch == '-' {
			opCode = Neg
		}
		return &Operand{operation: &Operation{operand, nil, opCode}}, nil
	case ch == '(':
		c.pos++
		retVal, err := c.expression()
		if err != nil {
			return nil, err
		}
		if c.peek() != ')' {
			return nil, fmt.Errorf("calculator: missing ')' at %d", c.pos)
		}
		c.pos++
		return retVal, nil
	case ch == '$':
		start := c.pos
		c.pos++
		for c.pos < len(c.src) && c.src[c.pos] >= '0' && c.src[c.pos] <= '9' {
			c.pos++
		}
		name := string(c.src[start:c.pos])
		idx, err := strconv.Atoi(name[1:])
		if err != nil || idx < 1 {
			return nil, fmt.Errorf("calculator: bad variable %q", name)
		}
		return &Operand{variableName: name, variable: idx}, nil
	case ch == '.' || (ch >= '0' && ch <= '9'):
		val, n := tdconv.ParseFloat(c.src[c.pos:])
		if n == 0 {
			return nil, fmt.Errorf("calculator: bad number at %d", c.pos)
		}
		c.pos += n
		return &Operand{value: val}, nil
	case ch == 0:
		return nil, errors.New("calculator: unexpected end of expression")
	default:
		return nil, fmt.Errorf("calculator: unexpected %q at %d", ch, c.pos)
	}
}

// CalcExpression compiles and evaluates str in one step.
func CalcExpression(str string, vars Variables) (float64, error) {
	op, err := Compile(str)
	if err != nil {
		return 0, err
	}
	return op.Calc(vars), nil
}
