package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/types"
)

var intPredicates = map[types.Operator]enum.IPred{
	types.Equal:       enum.IPredEQ,
	types.NotEqual:    enum.IPredNE,
	types.Lower:       enum.IPredSLT,
	types.LowerOrEq:   enum.IPredSLE,
	types.Greater:     enum.IPredSGT,
	types.GreaterOrEq: enum.IPredSGE,
}

// != on floats holds for NaN operands, the rest of the comparisons do not.
var floatPredicates = map[types.Operator]enum.FPred{
	types.Equal:       enum.FPredOEQ,
	types.NotEqual:    enum.FPredUNE,
	types.Lower:       enum.FPredOLT,
	types.LowerOrEq:   enum.FPredOLE,
	types.Greater:     enum.FPredOGT,
	types.GreaterOrEq: enum.FPredOGE,
}

func (c *ctx) binary(node ast.BinaryOp) value.Value {
	left := c.value(node.Left)
	right := c.value(node.Right)

	if !left.Type().Equal(right.Type()) {
		panic(errors.OperandMismatch{
			Op:       node.Op,
			Left:     raise(left.Type()),
			Right:    raise(right.Type()),
			Location: node.Pos,
		})
	}

	switch t := left.Type(); {
	case t.Equal(Int):
		if pred, ok := intPredicates[node.Op]; ok {
			return c.block.NewICmp(pred, left, right)
		}
		switch node.Op {
		case types.Add:
			return c.block.NewAdd(left, right)
		case types.Minus:
			return c.block.NewSub(left, right)
		case types.Product:
			return c.block.NewMul(left, right)
		case types.Divide:
			c.guardDivision(c.block.NewICmp(enum.IPredEQ, right, zero(Int)))
			return c.block.NewSDiv(left, right)
		}
	case t.Equal(Float):
		if pred, ok := floatPredicates[node.Op]; ok {
			return c.block.NewFCmp(pred, left, right)
		}
		switch node.Op {
		case types.Add:
			return c.block.NewFAdd(left, right)
		case types.Minus:
			return c.block.NewFSub(left, right)
		case types.Product:
			return c.block.NewFMul(left, right)
		case types.Divide:
			c.guardDivision(c.block.NewFCmp(enum.FPredOEQ, right, zero(Float)))
			return c.block.NewFDiv(left, right)
		}
	case t.Equal(Bool):
		switch node.Op {
		case types.LogicalAnd:
			return c.block.NewAnd(left, right)
		case types.LogicalOr:
			return c.block.NewOr(left, right)
		case types.Equal:
			return c.block.NewICmp(enum.IPredEQ, left, right)
		case types.NotEqual:
			return c.block.NewICmp(enum.IPredNE, left, right)
		}
	}

	panic(errors.InvalidOperand{Op: node.Op, Operand: raise(left.Type()), Location: node.Pos})
}

// guardDivision traps when isZero holds and continues in a fresh block otherwise.
func (c *ctx) guardDivision(isZero value.Value) {
	if c.trap == nil {
		c.trap = c.module.NewFunc("llvm.trap", lltypes.Void)
	}

	trap := c.newBlock("divzero")
	cont := c.newBlock("divcont")
	c.block.NewCondBr(isZero, trap, cont)

	trap.NewCall(c.trap)
	trap.NewUnreachable()

	c.block = cont
}

func (c *ctx) unary(node ast.UnaryOp) value.Value {
	operand := c.value(node.Operand)

	switch t := operand.Type(); {
	case node.Op == types.Not && t.Equal(Bool):
		return c.block.NewXor(operand, constant.True)
	case node.Op == types.Minus && t.Equal(Int):
		return c.block.NewSub(zero(Int), operand)
	case node.Op == types.Minus && t.Equal(Float):
		return c.block.NewFNeg(operand)
	}

	panic(errors.InvalidOperand{Op: node.Op, Operand: raise(operand.Type()), Location: node.Pos})
}
