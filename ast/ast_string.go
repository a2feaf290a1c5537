package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders n in a parenthesised prefix form, or "nil" for an absent node.
func String(n Node) string {
	if n == nil {
		return "nil"
	}
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}

	panic("unhandled")
}

func (v IntLiteral) String() string {
	return strconv.FormatInt(v.Value, 10)
}

func (v FloatLiteral) String() string {
	s := strconv.FormatFloat(v.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (v BoolLiteral) String() string {
	return strconv.FormatBool(v.Value)
}

func (v Identifier) String() string {
	return v.Name
}

func (v BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", v.Op, String(v.Left), String(v.Right))
}

func (v UnaryOp) String() string {
	return fmt.Sprintf("(%s %s)", v.Op, String(v.Operand))
}

func (v VarDeclaration) String() string {
	if v.Declared != nil {
		return fmt.Sprintf("(let %s:%s %s)", v.Name, *v.Declared, String(v.Value))
	}
	return fmt.Sprintf("(let %s %s)", v.Name, String(v.Value))
}

func (v VarAssignment) String() string {
	return fmt.Sprintf("(= %s %s)", v.Name, String(v.Value))
}

func (v ReturnStatement) String() string {
	if v.Value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %s)", String(v.Value))
}

func (v IfStatement) String() string {
	return fmt.Sprintf("(if %s %s)", String(v.Condition), String(v.Body))
}

func (v InstructionList) String() string {
	var parts []string
	for _, stmt := range Statements(v) {
		parts = append(parts, String(stmt))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (v FunctionDeclaration) String() string {
	var params []string
	for i, name := range v.ParamNames {
		params = append(params, fmt.Sprintf("%s:%s", name, v.ParamTypes[i]))
	}
	return fmt.Sprintf("(fn %s (%s) %s %s)", v.Name, strings.Join(params, " "), v.ReturnType, String(v.Body))
}

func (v FunctionCall) String() string {
	parts := []string{"call", v.Name}
	for _, arg := range v.Args {
		parts = append(parts, String(arg))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
