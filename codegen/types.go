package codegen

import (
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/pontaoski/rill/types"
)

var (
	Int   = &lltypes.IntType{BitSize: 64}
	Float = &lltypes.FloatType{Kind: lltypes.FloatKindDouble}
	Bool  = &lltypes.IntType{BitSize: 1}
	Void  = &lltypes.VoidType{}

	// ExitCode is what main hands back to the C runtime.
	ExitCode = &lltypes.IntType{BitSize: 32}
)

func lower(t types.Type) lltypes.Type {
	switch t {
	case types.Int:
		return Int
	case types.Float:
		return Float
	case types.Bool:
		return Bool
	case types.Void:
		return Void
	}

	panic("unhandled")
}

// raise maps an emitted type back to the rill type it was lowered from.
func raise(t lltypes.Type) types.Type {
	switch {
	case t.Equal(Int):
		return types.Int
	case t.Equal(Float):
		return types.Float
	case t.Equal(Bool):
		return types.Bool
	}

	return types.Void
}
