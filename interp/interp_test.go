package interp

import (
	"math"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/lexer"
	"github.com/pontaoski/rill/parser"
)

func parse(t *testing.T, src string) ast.Node {
	t.Helper()

	p := parser.NewParser(lexer.NewLexer(strings.NewReader(src), "test"))
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("%s: %s", src, err)
	}
	return root
}

func run(t *testing.T, src string) (*Interpreter, Value, error) {
	t.Helper()

	i := New()
	v, err := i.Interpret(parse(t, src))
	return i, v, tracerr.Unwrap(err)
}

func global(t *testing.T, i *Interpreter, name string) Value {
	t.Helper()

	v, ok := i.Scopes()[0].Variables[name]
	if !ok {
		t.Fatalf("%s is not a global: %s", name, repr.String(i.Scopes()[0].Variables))
	}
	return v
}

func TestValues(t *testing.T) {
	cases := []struct {
		src  string
		want Value
	}{
		{"let a = 1 + 2 * 3;", Int(7)},
		{"let a = -1 * 3 + 4 * 2;", Int(5)},
		{"let a = 7 / 2;", Int(3)},
		{"let a = 10 - 2 - 3;", Int(5)},
		{"let a = 2.5 * 2.0;", Float(5)},
		{"let a = 1.0 / 4.0;", Float(0.25)},
		{"let a = -2.5;", Float(-2.5)},
		{"let a = 2 == 2 || 3.5 != 3.6;", Bool(true)},
		{"let a = 1 < 2 && 2 <= 2 && 3 > 2 && 3 >= 4;", Bool(false)},
		{"let a = !true == false;", Bool(true)},
		{"let a = true != false;", Bool(true)},
		{"let a = 1; a = a + 41;", Int(42)},
	}

	for _, c := range cases {
		_, got, err := run(t, c.src)
		if err != nil {
			t.Errorf("%s: %s", c.src, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, repr.String(got), repr.String(c.want))
		}
	}
}

func TestFunctionCall(t *testing.T) {
	i, _, err := run(t, "fn add(a: int, b: int) -> int { return a + b; } let r = add(2, 1);")
	if err != nil {
		t.Fatal(err)
	}
	if got := global(t, i, "r"); got != Int(3) {
		t.Fatalf("got %s, want 3", got)
	}
	if len(i.Scopes()) != 1 {
		t.Fatalf("call left %d frames behind", len(i.Scopes()))
	}
}

func TestArgumentsEvaluatedInCallerScope(t *testing.T) {
	i, _, err := run(t, `
fn double(x: int) -> int { return x * 2; }
let base = 5;
if true {
	let local = base + 1;
	base = double(local);
}
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := global(t, i, "base"); got != Int(12) {
		t.Fatalf("got %s, want 12", got)
	}
}

func TestFunctionIsolation(t *testing.T) {
	_, _, err := run(t, "let secret = 1; fn peek() -> int { return secret; } let x = peek();")
	e, ok := err.(errors.Undeclared)
	if !ok || e.Name != "secret" {
		t.Fatalf("got %T: %v", err, err)
	}
}

func TestCallDoesNotLeakParameters(t *testing.T) {
	_, _, err := run(t, "fn id(p: int) -> int { return p; } let a = id(1); let b = p;")
	if e, ok := err.(errors.Undeclared); !ok || e.Name != "p" {
		t.Fatalf("got %T: %v", err, err)
	}
}

func TestReturnShortCircuit(t *testing.T) {
	i, _, err := run(t, `
fn f(n: int) -> int {
	let r = 0;
	if n > 0 {
		if true {
			return 1;
		}
		r = 100;
	}
	r = 2;
	return r;
}
let a = f(1);
let b = f(0);
let after = 3;
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := global(t, i, "a"); got != Int(1) {
		t.Errorf("a: got %s, want 1", got)
	}
	if got := global(t, i, "b"); got != Int(2) {
		t.Errorf("b: got %s, want 2", got)
	}
	if got := global(t, i, "after"); got != Int(3) {
		t.Errorf("after: got %s, want 3", got)
	}
}

func TestCallStatementDoesNotStopCaller(t *testing.T) {
	i, _, err := run(t, "fn f() { return; } let a = 1; f(); a = 2;")
	if err != nil {
		t.Fatal(err)
	}
	if got := global(t, i, "a"); got != Int(2) {
		t.Fatalf("got %s, want 2", got)
	}
}

func TestTopLevelReturn(t *testing.T) {
	i, v, err := run(t, "let a = 1; if a == 1 { return a + 1; } a = 5;")
	if err != nil {
		t.Fatal(err)
	}
	if v != Int(2) {
		t.Fatalf("got %s, want 2", repr.String(v))
	}
	if got := global(t, i, "a"); got != Int(1) {
		t.Fatalf("a: got %s, want 1", got)
	}
}

func TestScopeShadowing(t *testing.T) {
	i, _, err := run(t, `
let x = 1;
if true {
	let x = 10;
	let inner = x;
	x = 20;
}
let inner = 7;
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := global(t, i, "x"); got != Int(1) {
		t.Errorf("x: got %s, want 1", got)
	}
	if got := global(t, i, "inner"); got != Int(7) {
		t.Errorf("inner: got %s, want 7", got)
	}

	_, _, err = run(t, "if true { let hidden = 1; } let y = hidden;")
	if e, ok := err.(errors.Undeclared); !ok || e.Name != "hidden" {
		t.Fatalf("got %T: %v", err, err)
	}
}

func TestBodyWithoutReturn(t *testing.T) {
	i, _, err := run(t, "fn last() -> int { let x = 4; } let v = last();")
	if err != nil {
		t.Fatal(err)
	}
	if got := global(t, i, "v"); got != Int(4) {
		t.Fatalf("got %s, want 4", got)
	}

	_, _, err = run(t, "fn empty() {} let v = empty();")
	if e, ok := err.(errors.NoValue); !ok || e.Function != "empty" {
		t.Fatalf("got %T: %v", err, err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		src   string
		check func(error) bool
	}{
		{"let a = 1 + true;", func(err error) bool {
			_, ok := err.(errors.RuntimeType)
			return ok
		}},
		{"let a = 1 + 1.0;", func(err error) bool {
			_, ok := err.(errors.RuntimeType)
			return ok
		}},
		{"let a = !1;", func(err error) bool {
			_, ok := err.(errors.RuntimeType)
			return ok
		}},
		{"let a = -false;", func(err error) bool {
			_, ok := err.(errors.RuntimeType)
			return ok
		}},
		{"let a = true + true;", func(err error) bool {
			_, ok := err.(errors.RuntimeType)
			return ok
		}},
		{"if 1 { let a = 1; }", func(err error) bool {
			_, ok := err.(errors.RuntimeType)
			return ok
		}},
		{"let a = 1 / 0;", func(err error) bool {
			_, ok := err.(errors.DivisionByZero)
			return ok
		}},
		{"let a = 1.0 / 0.0;", func(err error) bool {
			_, ok := err.(errors.DivisionByZero)
			return ok
		}},
		{"b = 1;", func(err error) bool {
			e, ok := err.(errors.Undeclared)
			return ok && e.Name == "b"
		}},
		{"nope();", func(err error) bool {
			e, ok := err.(errors.Undeclared)
			return ok && e.Function
		}},
		{"fn f(a: int, b: int) -> int { return a; } f(1);", func(err error) bool {
			e, ok := err.(errors.ArityMismatch)
			return ok && e.Expected == 2 && e.Got == 1
		}},
		{"fn f(a: int, b: int) -> int { return a; } f(1, 2, 3);", func(err error) bool {
			e, ok := err.(errors.ArityMismatch)
			return ok && e.Got == 3
		}},
	}

	for _, c := range cases {
		_, _, err := run(t, c.src)
		if err == nil {
			t.Errorf("%s: expected an error", c.src)
			continue
		}
		if !c.check(err) {
			t.Errorf("%s: unexpected error %T: %s", c.src, err, err)
		}
	}
}

func TestOverflowWraps(t *testing.T) {
	i := New()
	i.scopes.Declare("min", Int(math.MinInt64))

	v, err := i.Interpret(parse(t, "let q = min / -1;"))
	if err != nil {
		t.Fatal(err)
	}
	if v != Int(math.MinInt64) {
		t.Fatalf("got %s", v)
	}
}

func TestGlobalsPersist(t *testing.T) {
	i := New()
	if _, err := i.Interpret(parse(t, "fn sq(x: float) -> float { return x * x; } let a = 3.0;")); err != nil {
		t.Fatal(err)
	}
	v, err := i.Interpret(parse(t, "a = sq(a);"))
	if err != nil {
		t.Fatal(err)
	}
	if v != Float(9) {
		t.Fatalf("got %s, want 9.0", v)
	}
}

func TestValueString(t *testing.T) {
	cases := map[Value]string{
		Int(-3):      "-3",
		Float(2):     "2.0",
		Float(0.25):  "0.25",
		Bool(true):   "true",
		Bool(false):  "false",
		Float(1e100): "1e+100",
	}
	for v, want := range cases {
		if got := v.(interface{ String() string }).String(); got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
}
