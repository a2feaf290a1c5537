package interp

import (
	"fmt"

	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/types"
)

func wrongType(pos types.Span, format string, args ...interface{}) errors.RuntimeType {
	return errors.RuntimeType{
		Message:  fmt.Sprintf(format, args...),
		Location: pos,
	}
}

func applyBinary(op types.Operator, left, right Value, pos types.Span) Value {
	switch lhs := left.(type) {
	case Int:
		if rhs, ok := right.(Int); ok {
			return applyBinaryInt(op, int64(lhs), int64(rhs), pos)
		}
	case Float:
		if rhs, ok := right.(Float); ok {
			return applyBinaryFloat(op, float64(lhs), float64(rhs), pos)
		}
	case Bool:
		if rhs, ok := right.(Bool); ok {
			return applyBinaryBool(op, bool(lhs), bool(rhs), pos)
		}
	}

	panic(wrongType(pos, "%s %s %s", TypeOf(left), op, TypeOf(right)))
}

func applyBinaryInt(op types.Operator, lhs, rhs int64, pos types.Span) Value {
	switch op {
	case types.Add:
		return Int(lhs + rhs)
	case types.Minus:
		return Int(lhs - rhs)
	case types.Product:
		return Int(lhs * rhs)
	case types.Divide:
		if rhs == 0 {
			panic(errors.DivisionByZero{Location: pos})
		}
		return Int(lhs / rhs)
	case types.LowerOrEq:
		return Bool(lhs <= rhs)
	case types.GreaterOrEq:
		return Bool(lhs >= rhs)
	case types.Equal:
		return Bool(lhs == rhs)
	case types.NotEqual:
		return Bool(lhs != rhs)
	case types.Lower:
		return Bool(lhs < rhs)
	case types.Greater:
		return Bool(lhs > rhs)
	}

	panic(wrongType(pos, "operator %s cannot be applied to int", op))
}

func applyBinaryFloat(op types.Operator, lhs, rhs float64, pos types.Span) Value {
	switch op {
	case types.Add:
		return Float(lhs + rhs)
	case types.Minus:
		return Float(lhs - rhs)
	case types.Product:
		return Float(lhs * rhs)
	case types.Divide:
		if rhs == 0 {
			panic(errors.DivisionByZero{Location: pos})
		}
		return Float(lhs / rhs)
	case types.LowerOrEq:
		return Bool(lhs <= rhs)
	case types.GreaterOrEq:
		return Bool(lhs >= rhs)
	case types.Equal:
		return Bool(lhs == rhs)
	case types.NotEqual:
		return Bool(lhs != rhs)
	case types.Lower:
		return Bool(lhs < rhs)
	case types.Greater:
		return Bool(lhs > rhs)
	}

	panic(wrongType(pos, "operator %s cannot be applied to float", op))
}

func applyBinaryBool(op types.Operator, lhs, rhs bool, pos types.Span) Value {
	switch op {
	case types.LogicalAnd:
		return Bool(lhs && rhs)
	case types.LogicalOr:
		return Bool(lhs || rhs)
	case types.Equal:
		return Bool(lhs == rhs)
	case types.NotEqual:
		return Bool(lhs != rhs)
	}

	panic(wrongType(pos, "operator %s cannot be applied to bool", op))
}

func applyUnary(op types.Operator, operand Value, pos types.Span) Value {
	switch v := operand.(type) {
	case Bool:
		if op == types.Not {
			return !v
		}
	case Int:
		if op == types.Minus {
			return -v
		}
	case Float:
		if op == types.Minus {
			return -v
		}
	}

	panic(wrongType(pos, "operator %s cannot be applied to %s", op, TypeOf(operand)))
}
