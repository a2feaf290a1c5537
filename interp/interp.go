// Package interp executes rill programs by walking their syntax tree.
//
// A return statement does not unwind: every statement leaves a completion behind
// and a returning completion stops the enclosing statement lists one after the
// other, up to the function call that consumes it.
package interp

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/scope"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "interp")

// Function is a declared function. Body is nil for a function declared with an
// empty block.
type Function struct {
	Params []string
	Body   ast.Node
}

type signal int

const (
	proceed signal = iota
	returning
)

// completion is what running a statement leaves behind. value is nil when the
// statement produced no value.
type completion struct {
	signal signal
	value  Value
}

type Interpreter struct {
	scopes *scope.Stack[Value, Function]
}

func New() *Interpreter {
	return &Interpreter{
		scopes: scope.New[Value, Function](),
	}
}

// Interpret runs root in the global scope. It returns the value of a top-level
// return, or else the value of the last statement run; nil when there is none.
// Globals survive between calls.
func (i *Interpreter) Interpret(root ast.Node) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				v = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	if root == nil {
		return nil, nil
	}

	return i.exec(root).value, nil
}

func (i *Interpreter) Scopes() []*scope.Frame[Value, Function] {
	return i.scopes.Frames()
}

// Checkpoint returns the func that undoes every declaration and assignment made
// after it.
func (i *Interpreter) Checkpoint() (rollback func()) {
	return i.scopes.Checkpoint()
}

func (i *Interpreter) exec(n ast.Node) completion {
	switch node := n.(type) {
	case ast.VarDeclaration:
		v := i.eval(node.Value)
		i.scopes.Declare(node.Name, v)
		plog.Debugf("let %s = %s", node.Name, v)

		return completion{proceed, v}
	case ast.VarAssignment:
		v := i.eval(node.Value)
		if !i.scopes.Assign(node.Name, v) {
			panic(errors.Undeclared{Name: node.Name, Location: node.Pos})
		}

		return completion{proceed, v}
	case ast.ReturnStatement:
		return completion{returning, i.optional(node.Value)}
	case ast.IfStatement:
		cond, ok := i.eval(node.Condition).(Bool)
		if !ok {
			panic(errors.RuntimeType{
				Message:  "if condition must be bool",
				Location: ast.PosOf(node.Condition),
			})
		}
		if !cond || node.Body == nil {
			return completion{proceed, nil}
		}

		i.scopes.Push()
		defer i.scopes.Pop()

		return i.exec(node.Body)
	case ast.InstructionList:
		c := i.exec(node.Current)
		if c.signal == returning || node.Next == nil {
			return c
		}

		return i.exec(node.Next)
	case ast.FunctionDeclaration:
		i.scopes.DeclareFunction(node.Name, Function{
			Params: node.ParamNames,
			Body:   node.Body,
		})
		plog.Debugf("declared fn %s", node.Name)

		return completion{proceed, nil}
	case ast.FunctionCall:
		return completion{proceed, i.call(node)}
	}

	return completion{proceed, i.eval(n)}
}

// optional evaluates n, allowing it to be absent or a call that produced no value.
func (i *Interpreter) optional(n ast.Node) Value {
	switch node := n.(type) {
	case nil:
		return nil
	case ast.FunctionCall:
		return i.call(node)
	}
	return i.eval(n)
}

func (i *Interpreter) eval(n ast.Node) Value {
	switch node := n.(type) {
	case ast.IntLiteral:
		return Int(node.Value)
	case ast.FloatLiteral:
		return Float(node.Value)
	case ast.BoolLiteral:
		return Bool(node.Value)
	case ast.Identifier:
		v, ok := i.scopes.Resolve(node.Name)
		if !ok {
			panic(errors.Undeclared{Name: node.Name, Location: node.Pos})
		}
		return v
	case ast.BinaryOp:
		left := i.eval(node.Left)
		right := i.eval(node.Right)

		return applyBinary(node.Op, left, right, node.Pos)
	case ast.UnaryOp:
		return applyUnary(node.Op, i.eval(node.Operand), node.Pos)
	case ast.FunctionCall:
		v := i.call(node)
		if v == nil {
			panic(errors.NoValue{Function: node.Name, Location: node.Pos})
		}
		return v
	}

	panic("unhandled")
}

// call binds the arguments, evaluated in the caller's scope, into a fresh frame and
// runs the body against that frame alone. A return inside the body stops at this
// boundary.
func (i *Interpreter) call(node ast.FunctionCall) Value {
	fn, ok := i.scopes.ResolveFunction(node.Name)
	if !ok {
		panic(errors.Undeclared{Name: node.Name, Function: true, Location: node.Pos})
	}

	if len(fn.Params) != len(node.Args) {
		panic(errors.ArityMismatch{
			Function: node.Name,
			Expected: len(fn.Params),
			Got:      len(node.Args),
			Location: node.Pos,
		})
	}

	frame := scope.NewFrame[Value, Function]()
	for idx, arg := range node.Args {
		frame.Variables[fn.Params[idx]] = i.eval(arg)
	}

	if fn.Body == nil {
		return nil
	}

	plog.Debugf("calling %s", node.Name)

	restore := i.scopes.Isolate(frame)
	defer restore()

	return i.exec(fn.Body).value
}
