// Package checker rejects ill-typed programs before they run.
//
// Every node is given one static type. Operands of a binary operator must have the
// same type, there is no promotion between int and float. A function body is checked
// against a stack holding only its parameters, the same isolation a call gets at run
// time, and its type is the type of the last statement the body reaches.
package checker

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/scope"
	"github.com/pontaoski/rill/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "checker")

type Signature struct {
	ParamNames []string
	ParamTypes []types.Type
	Return     types.Type
}

func (s Signature) String() string {
	return fmt.Sprintf("fn%v -> %s", s.ParamTypes, s.Return)
}

type Checker struct {
	scopes *scope.Stack[types.Type, Signature]
}

func New() *Checker {
	return &Checker{
		scopes: scope.New[types.Type, Signature](),
	}
}

// Check walks the whole program and returns the type of the last statement reached.
// Declarations stay in the global scope, so a Checker can be fed a program in pieces.
func (c *Checker) Check(root ast.Node) (t types.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				t = types.Void
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	if root == nil {
		return types.Void, nil
	}

	return c.check(root), nil
}

func (c *Checker) Scopes() []*scope.Frame[types.Type, Signature] {
	return c.scopes.Frames()
}

// Checkpoint returns the func that forgets every declaration made after it.
func (c *Checker) Checkpoint() (rollback func()) {
	return c.scopes.Checkpoint()
}

func (c *Checker) check(n ast.Node) types.Type {
	switch node := n.(type) {
	case ast.IntLiteral:
		return types.Int
	case ast.FloatLiteral:
		return types.Float
	case ast.BoolLiteral:
		return types.Bool
	case ast.Identifier:
		t, ok := c.scopes.Resolve(node.Name)
		if !ok {
			panic(errors.Undeclared{Name: node.Name, Location: node.Pos})
		}
		return t
	case ast.BinaryOp:
		return c.checkBinary(node)
	case ast.UnaryOp:
		operand := c.value(node.Operand)

		switch {
		case node.Op == types.Not && operand != types.Bool:
			panic(errors.InvalidOperand{Op: node.Op, Operand: operand, Location: node.Pos})
		case node.Op != types.Not && operand == types.Bool:
			panic(errors.InvalidOperand{Op: node.Op, Operand: operand, Location: node.Pos})
		}

		return operand
	case ast.VarDeclaration:
		t := c.value(node.Value)

		if node.Declared != nil && *node.Declared != t {
			panic(errors.TypeMismatch{
				Context:  "declaration of " + node.Name,
				Expected: *node.Declared,
				Got:      t,
				Location: node.Pos,
			})
		}

		c.scopes.Declare(node.Name, t)
		plog.Debugf("declared %s: %s", node.Name, t)

		return t
	case ast.VarAssignment:
		t := c.value(node.Value)

		existing, ok := c.scopes.Resolve(node.Name)
		if !ok {
			panic(errors.Undeclared{Name: node.Name, Location: node.Pos})
		}
		if existing != t {
			panic(errors.TypeMismatch{
				Context:  "assignment to " + node.Name,
				Expected: existing,
				Got:      t,
				Location: node.Pos,
			})
		}

		return t
	case ast.ReturnStatement:
		if node.Value == nil {
			return types.Void
		}
		return c.check(node.Value)
	case ast.IfStatement:
		cond := c.check(node.Condition)
		if cond != types.Bool {
			panic(errors.TypeMismatch{
				Context:  "if condition",
				Expected: types.Bool,
				Got:      cond,
				Location: ast.PosOf(node.Condition),
			})
		}

		return c.checkBlock(node.Body)
	case ast.InstructionList:
		t := c.check(node.Current)
		if node.Next != nil {
			return c.check(node.Next)
		}
		return t
	case ast.FunctionDeclaration:
		c.checkFunction(node)
		return types.Void
	case ast.FunctionCall:
		return c.checkCall(node)
	}

	panic("unhandled")
}

// value checks an expression whose result is used, so it must not be void.
func (c *Checker) value(n ast.Node) types.Type {
	t := c.check(n)
	if t == types.Void {
		name := "expression"
		if call, ok := n.(ast.FunctionCall); ok {
			name = call.Name
		}
		panic(errors.NoValue{Function: name, Location: ast.PosOf(n)})
	}
	return t
}

func (c *Checker) checkBinary(node ast.BinaryOp) types.Type {
	left := c.value(node.Left)
	right := c.value(node.Right)

	if left != right {
		panic(errors.OperandMismatch{
			Op:       node.Op,
			Left:     left,
			Right:    right,
			Location: node.Pos,
		})
	}

	switch {
	case node.Op.IsLogical():
		if left != types.Bool {
			panic(errors.InvalidOperand{Op: node.Op, Operand: left, Location: node.Pos})
		}
		return types.Bool
	case node.Op == types.Equal || node.Op == types.NotEqual:
		return types.Bool
	case node.Op.IsComparison():
		if left == types.Bool {
			panic(errors.InvalidOperand{Op: node.Op, Operand: left, Location: node.Pos})
		}
		return types.Bool
	}

	if left == types.Bool {
		panic(errors.InvalidOperand{Op: node.Op, Operand: left, Location: node.Pos})
	}
	return left
}

func (c *Checker) checkBlock(body ast.Node) types.Type {
	if body == nil {
		return types.Void
	}

	c.scopes.Push()
	defer c.scopes.Pop()

	return c.check(body)
}

func (c *Checker) checkFunction(node ast.FunctionDeclaration) {
	frame := scope.NewFrame[types.Type, Signature]()
	for i, param := range node.ParamNames {
		frame.Variables[param] = node.ParamTypes[i]
	}

	got := func() types.Type {
		restore := c.scopes.Isolate(frame)
		defer restore()

		if node.Body == nil {
			return types.Void
		}
		return c.check(node.Body)
	}()

	if got != node.ReturnType {
		panic(errors.TypeMismatch{
			Context:  "return type of " + node.Name,
			Expected: node.ReturnType,
			Got:      got,
			Location: node.Pos,
		})
	}

	c.scopes.DeclareFunction(node.Name, Signature{
		ParamNames: node.ParamNames,
		ParamTypes: node.ParamTypes,
		Return:     node.ReturnType,
	})
	plog.Debugf("declared fn %s(%v) -> %s", node.Name, node.ParamTypes, node.ReturnType)
}

func (c *Checker) checkCall(node ast.FunctionCall) types.Type {
	sig, ok := c.scopes.ResolveFunction(node.Name)
	if !ok {
		panic(errors.Undeclared{Name: node.Name, Function: true, Location: node.Pos})
	}

	if len(node.Args) != len(sig.ParamTypes) {
		panic(errors.ArityMismatch{
			Function: node.Name,
			Expected: len(sig.ParamTypes),
			Got:      len(node.Args),
			Location: node.Pos,
		})
	}

	for i, arg := range node.Args {
		t := c.value(arg)
		if t != sig.ParamTypes[i] {
			panic(errors.TypeMismatch{
				Context:  fmt.Sprintf("argument %d of %s", i+1, node.Name),
				Expected: sig.ParamTypes[i],
				Got:      t,
				Location: ast.PosOf(arg),
			})
		}
	}

	return sig.Return
}
