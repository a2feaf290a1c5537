package types

import (
	"fmt"
)

// Position is a zero-based line and column.
type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota

	COLON
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	EQUALS
	ARROW

	EOS

	OPERATOR

	INT
	FLOAT
	BOOL
	IDENT

	LET
	IF
	FUNC
	RETURN
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:      "EOF",
		COLON:    "COLON",
		LPAREN:   "LPAREN",
		RPAREN:   "RPAREN",
		LBRACKET: "LBRACKET",
		RBRACKET: "RBRACKET",
		COMMA:    "COMMA",
		EQUALS:   "EQUALS",
		ARROW:    "ARROW",
		EOS:      "EOS",
		OPERATOR: "OPERATOR",
		INT:      "INT",
		FLOAT:    "FLOAT",
		BOOL:     "BOOL",
		IDENT:    "IDENT",
		LET:      "LET",
		IF:       "IF",
		FUNC:     "FUNC",
		RETURN:   "RETURN",
	}
	return data[t]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line+1, p.Column+1)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line+1, s.To.Column+1)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is one lexeme. Op is only meaningful when Kind is OPERATOR.
type Token struct {
	Kind     TokenKind
	Op       Operator
	Literal  string
	Location Span
}

func (t Token) String() string {
	if t.Kind == OPERATOR {
		return fmt.Sprintf("%s(%s) %q %s", t.Kind, t.Op, t.Literal, t.Location)
	}
	return fmt.Sprintf("%s %q %s", t.Kind, t.Literal, t.Location)
}

type Operator int

const (
	Add Operator = iota
	Minus
	Product
	Divide
	LogicalAnd
	LogicalOr
	Equal
	NotEqual
	Lower
	LowerOrEq
	Greater
	GreaterOrEq
	Not
)

var operatorSymbols = map[Operator]string{
	Add:         "+",
	Minus:       "-",
	Product:     "*",
	Divide:      "/",
	LogicalAnd:  "&&",
	LogicalOr:   "||",
	Equal:       "==",
	NotEqual:    "!=",
	Lower:       "<",
	LowerOrEq:   "<=",
	Greater:     ">",
	GreaterOrEq: ">=",
	Not:         "!",
}

func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Precedence is the binding strength of o. Higher binds tighter.
func (o Operator) Precedence() int {
	switch o {
	case LogicalAnd, LogicalOr:
		return 0
	case Equal, NotEqual, Lower, LowerOrEq, Greater, GreaterOrEq:
		return 1
	case Add, Minus:
		return 2
	case Product, Divide:
		return 3
	case Not:
		return 4
	}
	panic("unhandled")
}

// IsComparison reports whether o yields a Bool from two operands of any one type.
func (o Operator) IsComparison() bool {
	switch o {
	case Equal, NotEqual, Lower, LowerOrEq, Greater, GreaterOrEq:
		return true
	}
	return false
}

func (o Operator) IsLogical() bool {
	return o == LogicalAnd || o == LogicalOr
}

// Binary reports whether o may appear between two operands.
func (o Operator) Binary() bool {
	return o != Not
}

// Type is a static type as seen by the checker.
type Type int

const (
	Void Type = iota
	Int
	Float
	Bool
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// TypeNamed maps a source-level type name to its Type.
func TypeNamed(name string) (Type, bool) {
	switch name {
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "bool":
		return Bool, true
	}
	return Void, false
}
