package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_Calc(t *testing.T) {
	val1 := 222.222
	val2 := 333.333
	op1 := Operand{value: val1}
	op2 := Operand{value: val2}
	oper1 := Operation{&op1, &op2, Add}
	op3 := Operand{operation: &oper1}

	oper2 := Operation{&op3, nil, Neg}

	assert.Equal(t, val1+val2, op3.Calc(nil))
	assert.Equal(t, -(val1 + val2), oper2.Calc(nil))
}

type testCase struct {
	src string
	ans float64
}

var src = []testCase{
	{"-2x3", -6},
	{"-2X-3", 6},
	{"2x3", 6},
	{"(((-2)))", -2},
	{"2--3", 5},
	{"2/-3.0", 2 / -3.0},
	{"-2--3", 1},
	{"-2+1-1", -2},
	{"2+1-1", 2},
	{"-2+1--3", 2},
	{"-6x9/8", -6.75},
	{"1+2x3", 7},
	{"(1+2)x3", 9},
	{"10-4-3", 3},
	{"8/4/2", 1},
	{".5x4", 2},
	{" 1 + 1 ", 2},
	{"-1", -1},
	{"(-2x(333+444x4343)/555)-(666-(-777x(888x(-999--1000))))+(11-12)", -697593},
}

func TestCalcExpression(t *testing.T) {
	for _, s := range src {
		result, err := CalcExpression(s.src, nil)
		require.NoError(t, err, s.src)
		assert.InDelta(t, s.ans, result, 1e-9, s.src)
		t.Log(s.src, "=", result)
	}
}

func TestVariables(t *testing.T) {
	op, err := Compile("$1x2+$3")
	require.NoError(t, err)
	assert.Equal(t, 7.0, op.Calc(Variables{1: 2, 3: 3}))
	// $3 is undefined
	assert.Equal(t, 4.0, op.Calc(Variables{1: 2}))
	assert.Equal(t, "(($1x2)+$3)", op.String())
}

func TestCompileErrors(t *testing.T) {
	for _, s := range []string{"", "1+", "(1+2", "1+2)", "$", "$0", "2#3", "1 x"} {
		_, err := Compile(s)
		assert.Error(t, err, s)
	}
}
