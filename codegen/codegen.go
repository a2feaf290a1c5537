// Package codegen lowers a checked rill program to LLVM IR.
//
// Top-level statements make up main, which returns the low 32 bits of a top-level
// int return and 0 otherwise. Every fn declaration, wherever it appears, becomes
// a module function; a redeclared name gets a numbered symbol. Function bodies see
// only their parameters, the same as in the interpreter.
package codegen

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/scope"
	"github.com/pontaoski/rill/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "codegen")

type Options struct {
	// Freestanding adds a _rill_start entry point for linking without a C runtime.
	Freestanding bool
}

type ctx struct {
	module *ir.Module
	scopes *scope.Stack[*ir.InstAlloca, *ir.Func]

	entry  *ir.Func
	fn     *ir.Func
	fnName string
	block  *ir.Block

	symbols    map[string]int
	blocks     int
	trap       *ir.Func
	signatures Signatures
}

// Generate emits the module for root. root should have been accepted by the
// checker; the type errors Generate still reports are those that would make the
// IR itself invalid.
func Generate(root ast.Node, opts Options) (m *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				m = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	c := &ctx{
		module:     ir.NewModule(),
		scopes:     scope.New[*ir.InstAlloca, *ir.Func](),
		symbols:    map[string]int{},
		signatures: Signatures{Functions: map[string]Signature{}},
	}

	c.entry = c.module.NewFunc(c.symbol("main"), ExitCode)
	c.fn = c.entry
	c.fnName = "main"
	c.block = c.entry.NewBlock("entry")

	if root != nil {
		c.statement(root)
	}
	if c.block.Term == nil {
		c.block.NewRet(constant.NewInt(ExitCode, 0))
	}

	registerSignatures(c.signatures, c.module)
	if opts.Freestanding {
		addStart(c.module, c.entry)
	}

	return c.module, nil
}

func (c *ctx) symbol(name string) string {
	n := c.symbols[name]
	c.symbols[name] = n + 1

	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s.%d", name, n)
}

func (c *ctx) newBlock(name string) *ir.Block {
	c.blocks++
	return c.fn.NewBlock(fmt.Sprintf("%s.%d", name, c.blocks))
}

// statement emits n into the current block and returns the value it leaves
// behind, nil when there is none.
func (c *ctx) statement(n ast.Node) value.Value {
	switch node := n.(type) {
	case ast.InstructionList:
		v := c.statement(node.Current)
		if node.Next == nil || c.block.Term != nil {
			return v
		}
		return c.statement(node.Next)
	case ast.VarDeclaration:
		v := c.value(node.Value)

		slot := c.block.NewAlloca(v.Type())
		c.block.NewStore(v, slot)
		c.scopes.Declare(node.Name, slot)

		return v
	case ast.VarAssignment:
		v := c.value(node.Value)

		slot, ok := c.scopes.Resolve(node.Name)
		if !ok {
			panic(errors.Undeclared{Name: node.Name, Location: node.Pos})
		}
		if !slot.ElemType.Equal(v.Type()) {
			panic(errors.TypeMismatch{
				Context:  "assignment to " + node.Name,
				Expected: raise(slot.ElemType),
				Got:      raise(v.Type()),
				Location: node.Pos,
			})
		}
		c.block.NewStore(v, slot)

		return v
	case ast.ReturnStatement:
		c.ret(node)
		return nil
	case ast.IfStatement:
		c.branch(node)
		return nil
	case ast.FunctionDeclaration:
		c.function(node)
		return nil
	case ast.FunctionCall:
		return c.call(node)
	}

	return c.value(n)
}

func (c *ctx) ret(node ast.ReturnStatement) {
	var v value.Value
	if node.Value != nil {
		v = c.optional(node.Value)
	}

	want := c.fn.Sig.RetType
	switch {
	case c.fn == c.entry:
		c.block.NewRet(c.exitCode(v))
	case lltypes.IsVoid(want):
		c.block.NewRet(nil)
	case v == nil || !v.Type().Equal(want):
		got := types.Void
		if v != nil {
			got = raise(v.Type())
		}
		panic(errors.TypeMismatch{
			Context:  "return from " + c.fnName,
			Expected: raise(want),
			Got:      got,
			Location: node.Pos,
		})
	default:
		c.block.NewRet(v)
	}
}

func (c *ctx) exitCode(v value.Value) value.Value {
	if v == nil || !v.Type().Equal(Int) {
		return constant.NewInt(ExitCode, 0)
	}
	return c.block.NewTrunc(v, ExitCode)
}

func (c *ctx) branch(node ast.IfStatement) {
	cond := c.value(node.Condition)
	if !cond.Type().Equal(Bool) {
		panic(errors.TypeMismatch{
			Context:  "if condition",
			Expected: types.Bool,
			Got:      raise(cond.Type()),
			Location: ast.PosOf(node.Condition),
		})
	}

	then := c.newBlock("then")
	merge := c.newBlock("ifcont")
	c.block.NewCondBr(cond, then, merge)

	c.block = then
	if node.Body != nil {
		c.scoped(node.Body)
	}
	if c.block.Term == nil {
		c.block.NewBr(merge)
	}

	c.block = merge
}

func (c *ctx) scoped(body ast.Node) {
	c.scopes.Push()
	defer c.scopes.Pop()

	c.statement(body)
}

func (c *ctx) function(node ast.FunctionDeclaration) {
	symbol := c.symbol(node.Name)

	sig := Signature{
		Name:    node.Name,
		Params:  node.ParamNames,
		Returns: node.ReturnType.String(),
	}

	var params []*ir.Param
	for i, name := range node.ParamNames {
		params = append(params, ir.NewParam(name, lower(node.ParamTypes[i])))
		sig.Types = append(sig.Types, node.ParamTypes[i].String())
	}

	fn := c.module.NewFunc(symbol, lower(node.ReturnType), params...)
	c.signatures.Functions[symbol] = sig
	plog.Debugf("emitting fn %s as %s", node.Name, symbol)

	c.body(fn, node)
	c.scopes.DeclareFunction(node.Name, fn)
}

// body fills fn in, leaving the caller's function and block as they were.
func (c *ctx) body(fn *ir.Func, node ast.FunctionDeclaration) {
	outerFn, outerName, outerBlock := c.fn, c.fnName, c.block
	defer func() {
		c.fn, c.fnName, c.block = outerFn, outerName, outerBlock
	}()

	c.fn, c.fnName = fn, node.Name
	c.block = fn.NewBlock("entry")

	frame := scope.NewFrame[*ir.InstAlloca, *ir.Func]()
	for _, param := range fn.Params {
		slot := c.block.NewAlloca(param.Type())
		c.block.NewStore(param, slot)
		frame.Variables[param.Name()] = slot
	}

	restore := c.scopes.Isolate(frame)
	defer restore()

	var last value.Value
	if node.Body != nil {
		last = c.statement(node.Body)
	}
	if c.block.Term != nil {
		return
	}

	ret := fn.Sig.RetType
	switch {
	case lltypes.IsVoid(ret):
		c.block.NewRet(nil)
	case last != nil && last.Type().Equal(ret):
		c.block.NewRet(last)
	default:
		c.block.NewRet(zero(ret))
	}
}

func (c *ctx) call(node ast.FunctionCall) value.Value {
	fn, ok := c.scopes.ResolveFunction(node.Name)
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

	var args []value.Value
	for i, arg := range node.Args {
		v := c.value(arg)

		if want := fn.Params[i].Type(); !want.Equal(v.Type()) {
			panic(errors.TypeMismatch{
				Context:  fmt.Sprintf("argument %d of %s", i+1, node.Name),
				Expected: raise(want),
				Got:      raise(v.Type()),
				Location: ast.PosOf(arg),
			})
		}

		args = append(args, v)
	}

	call := c.block.NewCall(fn, args...)
	if lltypes.IsVoid(fn.Sig.RetType) {
		return nil
	}
	return call
}

func (c *ctx) optional(n ast.Node) value.Value {
	if call, ok := n.(ast.FunctionCall); ok {
		return c.call(call)
	}
	return c.value(n)
}

func (c *ctx) value(n ast.Node) value.Value {
	switch node := n.(type) {
	case ast.IntLiteral:
		return constant.NewInt(Int, node.Value)
	case ast.FloatLiteral:
		return constant.NewFloat(Float, node.Value)
	case ast.BoolLiteral:
		return constant.NewBool(node.Value)
	case ast.Identifier:
		slot, ok := c.scopes.Resolve(node.Name)
		if !ok {
			panic(errors.Undeclared{Name: node.Name, Location: node.Pos})
		}
		return c.block.NewLoad(slot.ElemType, slot)
	case ast.BinaryOp:
		return c.binary(node)
	case ast.UnaryOp:
		return c.unary(node)
	case ast.FunctionCall:
		v := c.call(node)
		if v == nil {
			panic(errors.NoValue{Function: node.Name, Location: node.Pos})
		}
		return v
	}

	panic("unhandled")
}
