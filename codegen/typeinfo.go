package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// SignaturesGlobal names the global holding the signature table of an emitted module.
const SignaturesGlobal = "__rill_signatures"

type Signature struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Types   []string `json:"types"`
	Returns string   `json:"returns"`
}

// Signatures maps emitted symbol names to the rill function they were generated from.
type Signatures struct {
	Functions map[string]Signature `json:"functions"`
}

func registerSignatures(s Signatures, m *ir.Module) {
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(SignaturesGlobal, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// ReadSignatures decodes the signature table carried by m.
func ReadSignatures(m *ir.Module) (s Signatures, err error) {
	for _, g := range m.Globals {
		if g.Name() != SignaturesGlobal {
			continue
		}

		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return Signatures{}, fmt.Errorf("%s is not a character array", SignaturesGlobal)
		}

		err = json.Unmarshal(bytes.TrimRight(arr.X, "\x00"), &s)
		return
	}

	return Signatures{}, fmt.Errorf("module has no %s global", SignaturesGlobal)
}

// ReadSignaturesFile parses the textual IR in path and decodes its signature table.
func ReadSignaturesFile(path string) (Signatures, error) {
	m, err := asm.ParseFile(path)
	if err != nil {
		return Signatures{}, err
	}

	return ReadSignatures(m)
}
