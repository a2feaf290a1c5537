package interp

import (
	"strconv"
	"strings"

	"github.com/pontaoski/rill/types"
)

func (v Int) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (v Float) String() string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (v Bool) String() string {
	return strconv.FormatBool(bool(v))
}

// TypeOf is the static type matching v's runtime tag.
func TypeOf(v Value) types.Type {
	switch v.(type) {
	case Int:
		return types.Int
	case Float:
		return types.Float
	case Bool:
		return types.Bool
	}
	return types.Void
}
