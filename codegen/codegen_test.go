package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
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

func generate(t *testing.T, src string, opts Options) *ir.Module {
	t.Helper()

	m, err := Generate(parse(t, src), opts)
	if err != nil {
		t.Fatalf("%s: %s", src, err)
	}
	return m
}

func TestEmits(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"", []string{"define i32 @main()", "ret i32 0"}},
		{"let a = 1 + 2;", []string{"alloca i64", "add i64 1, 2"}},
		{"let a = 1.5 * 2.0; let b = a < 3.0;", []string{"fmul double", "fcmp olt double", "alloca i1"}},
		{"let a = 4; let b = a >= 2 && true;", []string{"icmp sge i64", "and i1"}},
		{"let a = !false;", []string{"xor i1 false, true"}},
		{"let a = -3;", []string{"sub i64 0, 3"}},
		{"let a = 6 / 3;", []string{"sdiv i64 6, 3", "call void @llvm.trap()", "unreachable"}},
		{"let a = 1; a = 2;", []string{"store i64 2"}},
		{"let a = 1; if a == 1 { let b = 2; }", []string{"icmp eq i64", "br i1", "then.1:", "ifcont.2:"}},
		{"return 3;", []string{"trunc i64 3 to i32", "ret i32"}},
		{"return true;", []string{"ret i32 0"}},
		{
			"fn add(a: int, b: int) -> int { return a + b; } let r = add(2, 1);",
			[]string{"define i64 @add(i64 %a, i64 %b)", "call i64 @add(i64 2, i64 1)"},
		},
		{"fn f() {} f();", []string{"define void @f()", "ret void", "call void @f()"}},
		{"fn last() -> float { let x = 2.5; }", []string{"define double @last()", "ret double"}},
		{"fn never(c: bool) -> int { if c { return 1; } }", []string{"ret i64 1", "ret i64 0"}},
	}

	for _, c := range cases {
		out := generate(t, c.src, Options{}).String()
		for _, want := range c.want {
			if !strings.Contains(out, want) {
				t.Errorf("%s: output lacks %q\n%s", c.src, want, out)
			}
		}
	}
}

func TestRedeclaredFunctionsGetNumberedSymbols(t *testing.T) {
	out := generate(t, `
fn main() -> int { return 1; }
fn f() -> int { return 1; }
fn f() -> int { return 2; }
let a = f();
`, Options{}).String()

	for _, want := range []string{"define i64 @main.1()", "define i64 @f()", "define i64 @f.1()", "call i64 @f.1()"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q\n%s", want, out)
		}
	}
}

func TestFreestanding(t *testing.T) {
	out := generate(t, "let a = 1;", Options{Freestanding: true}).String()
	if !strings.Contains(out, "define void @_rill_start()") {
		t.Fatalf("no start function\n%s", out)
	}
	if !strings.Contains(out, "call i32 @main()") {
		t.Fatalf("start does not call main\n%s", out)
	}

	out = generate(t, "let a = 1;", Options{}).String()
	if strings.Contains(out, "_rill_start") {
		t.Fatalf("start emitted without being asked for\n%s", out)
	}
}

func TestRejects(t *testing.T) {
	cases := []struct {
		src   string
		check func(error) bool
	}{
		{"fn g() -> int { if true { return false; } return 1; }", func(err error) bool {
			_, ok := err.(errors.TypeMismatch)
			return ok
		}},
		{"let secret = 1; fn f() -> int { return secret; }", func(err error) bool {
			e, ok := err.(errors.Undeclared)
			return ok && e.Name == "secret"
		}},
		{"fn f() {} let a = f();", func(err error) bool {
			e, ok := err.(errors.NoValue)
			return ok && e.Function == "f"
		}},
		{"let a = 1 + 1.0;", func(err error) bool {
			_, ok := err.(errors.OperandMismatch)
			return ok
		}},
		{"let a = true < false;", func(err error) bool {
			_, ok := err.(errors.InvalidOperand)
			return ok
		}},
		{"fn f(a: int) -> int { return a; } let b = f(1, 2);", func(err error) bool {
			_, ok := err.(errors.ArityMismatch)
			return ok
		}},
		{"if 1 { }", func(err error) bool {
			_, ok := err.(errors.TypeMismatch)
			return ok
		}},
	}

	for _, c := range cases {
		m, err := Generate(parse(t, c.src), Options{})
		if err == nil {
			t.Errorf("%s: expected an error", c.src)
			continue
		}
		if m != nil {
			t.Errorf("%s: got a module alongside an error", c.src)
		}
		if err := tracerr.Unwrap(err); !c.check(err) {
			t.Errorf("%s: unexpected error %T: %s", c.src, err, err)
		}
	}
}

func TestSignatures(t *testing.T) {
	m := generate(t, `
fn add(a: int, b: int) -> int { return a + b; }
fn add(x: float, y: float) -> float { return x + y; }
fn nothing() {}
`, Options{})

	sigs, err := ReadSignatures(m)
	if err != nil {
		t.Fatal(err)
	}

	want := Signatures{Functions: map[string]Signature{
		"add":     {Name: "add", Params: []string{"a", "b"}, Types: []string{"int", "int"}, Returns: "int"},
		"add.1":   {Name: "add", Params: []string{"x", "y"}, Types: []string{"float", "float"}, Returns: "float"},
		"nothing": {Name: "nothing", Params: nil, Types: nil, Returns: "void"},
	}}
	if repr.String(sigs) != repr.String(want) {
		t.Fatalf("got %s, want %s", repr.String(sigs), repr.String(want))
	}

	path := filepath.Join(t.TempDir(), "out.ll")
	if err := os.WriteFile(path, []byte(m.String()), 0644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := ReadSignaturesFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if repr.String(fromFile) != repr.String(want) {
		t.Fatalf("got %s from file, want %s", repr.String(fromFile), repr.String(want))
	}
}
