package tools

import (
	"context"
	"errors"
	"strconv"
)

// ErrDivisionByZero is returned by the div tool when the divisor is zero
var ErrDivisionByZero = errors.New("Division by zero is not allowed")

type binaryOp func(a, b float64) (float64, error)

func newArithmeticTool(name, description, aDesc, bDesc string, op binaryOp) *FuncTool {
	return NewFuncTool(
		name,
		description,
		[]Param{
			Number("a", aDesc),
			Number("b", bDesc),
		},
		func(ctx context.Context, args Args) (string, error) {
			v, err := op(args.Float("a"), args.Float("b"))
			if err != nil {
				return "", err
			}
			return FormatNumber(v), nil
		},
	)
}

// NewAddTool creates the addition tool
func NewAddTool() *FuncTool {
	return newArithmeticTool("add", "Add two numbers together",
		"The first number", "The second number",
		func(a, b float64) (float64, error) { return a + b, nil })
}

// NewSubTool creates the subtraction tool
func NewSubTool() *FuncTool {
	return newArithmeticTool("sub", "Subtract the second number from the first number",
		"The first number", "The second number",
		func(a, b float64) (float64, error) { return a - b, nil })
}

// NewMulTool creates the multiplication tool
func NewMulTool() *FuncTool {
	return newArithmeticTool("mul", "Multiply two numbers together",
		"The first number", "The second number",
		func(a, b float64) (float64, error) { return a * b, nil })
}

// NewDivTool creates the division tool. A zero divisor is a tool failure.
func NewDivTool() *FuncTool {
	return newArithmeticTool("div", "Divide the first number by the second number",
		"The first number (dividend)", "The second number (divisor)",
		func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		})
}

// FormatNumber renders a float without a trailing ".0" for integral values
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
