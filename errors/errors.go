package errors

import (
	"fmt"

	"github.com/pontaoski/rill/types"
)

// UnknownSymbol is raised by the lexer on a character outside every token class.
type UnknownSymbol struct {
	Symbol   rune
	Location types.Span
}

func (e UnknownSymbol) Error() string {
	return fmt.Sprintf("unknown symbol %q. %s", e.Symbol, e.Location)
}

type MalformedNumber struct {
	Literal  string
	Location types.Span
}

func (e MalformedNumber) Error() string {
	return fmt.Sprintf("malformed number %q. %s", e.Literal, e.Location)
}

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected one of %s. %s", e.Got, e.Expected, e.Location)
}

// UnexpectedToken is raised when no grammar rule starts with Got.
type UnexpectedToken struct {
	Got      types.Token
	Rule     string
	Location types.Span
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected %s %q at start of %s. %s", e.Got.Kind, e.Got.Literal, e.Rule, e.Location)
}

type UnknownType struct {
	Name     string
	Location types.Span
}

func (e UnknownType) Error() string {
	return fmt.Sprintf("unknown type %q, expected one of int, float, bool. %s", e.Name, e.Location)
}

type DuplicateParameter struct {
	Function string
	Name     string
	Location types.Span
}

func (e DuplicateParameter) Error() string {
	return fmt.Sprintf("parameter %s of %s declared twice. %s", e.Name, e.Function, e.Location)
}

// Undeclared is raised on a variable or function that no scope frame holds.
type Undeclared struct {
	Name     string
	Function bool
	Location types.Span
}

func (e Undeclared) Error() string {
	if e.Function {
		return fmt.Sprintf("function %s not declared. %s", e.Name, e.Location)
	}
	return fmt.Sprintf("identifier %s not declared. %s", e.Name, e.Location)
}

type ArityMismatch struct {
	Function string
	Expected int
	Got      int
	Location types.Span
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("wrong number of arguments to %s: expected %d, got %d. %s", e.Function, e.Expected, e.Got, e.Location)
}

type OperandMismatch struct {
	Op       types.Operator
	Left     types.Type
	Right    types.Type
	Location types.Span
}

func (e OperandMismatch) Error() string {
	return fmt.Sprintf("wrong type operand: %s %s %s. %s", e.Left, e.Op, e.Right, e.Location)
}

type InvalidOperand struct {
	Op       types.Operator
	Operand  types.Type
	Location types.Span
}

func (e InvalidOperand) Error() string {
	return fmt.Sprintf("operator %s cannot be applied to %s. %s", e.Op, e.Operand, e.Location)
}

// TypeMismatch covers declarations, assignments, arguments, conditions and returns
// whose type differs from the one required by Context.
type TypeMismatch struct {
	Context  string
	Expected types.Type
	Got      types.Type
	Location types.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s. %s", e.Context, e.Expected, e.Got, e.Location)
}

// RuntimeType is the interpreter's backstop for programs that skipped the checker.
type RuntimeType struct {
	Message  string
	Location types.Span
}

func (e RuntimeType) Error() string {
	return fmt.Sprintf("wrong type: %s. %s", e.Message, e.Location)
}

type DivisionByZero struct {
	Location types.Span
}

func (e DivisionByZero) Error() string {
	return fmt.Sprintf("division by zero. %s", e.Location)
}

// NoValue is raised when a call that produced no value is used as an expression.
type NoValue struct {
	Function string
	Location types.Span
}

func (e NoValue) Error() string {
	return fmt.Sprintf("%s produced no value. %s", e.Function, e.Location)
}
