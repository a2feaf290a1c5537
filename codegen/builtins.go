package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func zero(t lltypes.Type) value.Value {
	switch {
	case t.Equal(Float):
		return constant.NewFloat(Float, 0)
	case t.Equal(Bool):
		return constant.False
	}

	return constant.NewInt(t.(*lltypes.IntType), 0)
}

// addStart emits _rill_start, an entry point for binaries linked without a C
// runtime. It runs main and exits with its result through the exit syscall.
func addStart(m *ir.Module, entry *ir.Func) *ir.Func {
	fn := m.NewFunc("_rill_start", lltypes.Void)
	bloc := fn.NewBlock("entry")

	code := bloc.NewCall(entry)

	exit := ir.NewInlineAsm(
		lltypes.NewPointer(lltypes.NewFunc(lltypes.Void, ExitCode)),
		`movl $0, %edi; movq $$0x3C, %rax; syscall`,
		`r`,
	)
	exit.SideEffect = true

	bloc.NewCall(exit, code)
	bloc.NewUnreachable()

	return fn
}
