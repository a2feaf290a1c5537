package ast

import (
	"reflect"

	"github.com/pontaoski/rill/types"
)

// List chains statements into a right-leaning InstructionList, nil when empty.
func List(statements ...Node) Node {
	var list Node
	for i := len(statements) - 1; i >= 0; i-- {
		list = InstructionList{Current: statements[i], Next: list}
	}
	return list
}

// Statements flattens an InstructionList. Any other node is returned alone.
func Statements(n Node) (ret []Node) {
	for n != nil {
		list, ok := n.(InstructionList)
		if !ok {
			return append(ret, n)
		}
		ret = append(ret, list.Current)
		n = list.Next
	}
	return
}

// PosOf returns the span of n, or the zero span for nodes without one.
func PosOf(n Node) types.Span {
	defer func() {
		recover()
	}()

	v := reflect.ValueOf(n)

	pos := v.FieldByName("Pos")
	if !pos.IsValid() || pos.IsZero() {
		return types.Span{}
	}

	return pos.Interface().(types.Span)
}
