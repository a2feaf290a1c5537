package parser

import (
	"strings"
	"testing"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/lexer"
	"github.com/pontaoski/rill/types"
)

func parse(t *testing.T, src string) ast.Node {
	t.Helper()

	p := NewParser(lexer.NewLexer(strings.NewReader(src), "test"))
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("%s: %s", src, err)
	}
	return root
}

func parseErr(t *testing.T, src string) error {
	t.Helper()

	p := NewParser(lexer.NewLexer(strings.NewReader(src), "test"))
	root, err := p.Parse()
	if err == nil {
		t.Fatalf("%s: expected an error, got %s", src, ast.String(root))
	}
	return tracerr.Unwrap(err)
}

func TestPrecedence(t *testing.T) {
	root := parse(t, "let math: int = -1 * 3 + 4 * 2;")

	stmts := ast.Statements(root)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements", len(stmts))
	}
	decl, ok := stmts[0].(ast.VarDeclaration)
	if !ok {
		t.Fatalf("got %T, want ast.VarDeclaration", stmts[0])
	}
	if decl.Declared == nil || *decl.Declared != types.Int {
		t.Fatalf("got declared type %v, want int", decl.Declared)
	}

	add, ok := decl.Value.(ast.BinaryOp)
	if !ok || add.Op != types.Add {
		t.Fatalf("got %s, want an addition at the root", ast.String(decl.Value))
	}
	left, ok := add.Left.(ast.BinaryOp)
	if !ok || left.Op != types.Product {
		t.Fatalf("got %s on the left", ast.String(add.Left))
	}
	if neg, ok := left.Left.(ast.UnaryOp); !ok || neg.Op != types.Minus {
		t.Fatalf("got %s, want unary minus", ast.String(left.Left))
	}

	if got, want := ast.String(decl.Value), "(+ (* (- 1) 3) (* 4 2))"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestExpressions(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"let condition = 2 == 2 || 3.5 != 3.6;", "(|| (== 2 2) (!= 3.5 3.6))"},
		{"let a = 1 - 2 - 3;", "(- (- 1 2) 3)"},
		{"let a = 8 / 4 / 2;", "(/ (/ 8 4) 2)"},
		{"let a = 1 + 2 * 3 - 4;", "(- (+ 1 (* 2 3)) 4)"},
		{"let a = (1 + 2) * 3;", "(* (+ 1 2) 3)"},
		{"let a = !true && 1 < 2;", "(&& (! true) (< 1 2))"},
		{"let a = --x;", "(- (- x))"},
		{"let a = -(x + 1);", "(- (+ x 1))"},
		{"let a = f(1, g(2) * 3) + 1;", "(+ (call f 1 (* (call g 2) 3)) 1)"},
		{"let a = f();", "(call f)"},
		{"let a = 1 <= 2 == true;", "(== (<= 1 2) true)"},
		{"let a = 1.5;", "1.5"},
		{"let a = false;", "false"},
	}

	for _, c := range cases {
		decl := ast.Statements(parse(t, c.src))[0].(ast.VarDeclaration)
		if got := ast.String(decl.Value); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestStatements(t *testing.T) {
	src := `
let a = 1;
a = a + 1;
print(a, 2);
if a > 1 {
	let b = a;
}
fn add(x: int, y: int) -> int {
	return x + y;
}
fn nothing() {}
return;
`
	want := []string{
		"(let a 1)",
		"(= a (+ a 1))",
		"(call print a 2)",
		"(if (> a 1) {(let b a)})",
		"(fn add (x:int y:int) int {(return (+ x y))})",
		"(fn nothing () void nil)",
		"(return)",
	}

	stmts := ast.Statements(parse(t, src))
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(want))
	}
	for i, w := range want {
		if got := ast.String(stmts[i]); got != w {
			t.Errorf("statement %d: got %s, want %s", i, got, w)
		}
	}
}

func TestEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "   \n\t "} {
		if root := parse(t, src); root != nil {
			t.Errorf("%q: got %s, want nil", src, ast.String(root))
		}
	}
}

func TestReturnTruncatesBlock(t *testing.T) {
	src := `
fn f(a: int) -> int {
	return a;
	let dropped = 1;
	if true { let nested = 2; }
	dropped = 3;
}
let after = 1;
`
	stmts := ast.Statements(parse(t, src))
	if len(stmts) != 2 {
		t.Fatalf("got %d top-level statements, want 2", len(stmts))
	}

	fn := stmts[0].(ast.FunctionDeclaration)
	body := ast.Statements(fn.Body)
	if len(body) != 1 {
		t.Fatalf("got %d body statements, want 1: %s", len(body), ast.String(fn.Body))
	}
	if _, ok := body[0].(ast.ReturnStatement); !ok {
		t.Fatalf("got %T, want ast.ReturnStatement", body[0])
	}
	if got := ast.String(stmts[1]); got != "(let after 1)" {
		t.Fatalf("got %s", got)
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		src   string
		check func(error) bool
	}{
		{"let = 1;", func(err error) bool {
			e, ok := err.(errors.ExpectedOneOfKindGotKind)
			return ok && e.Got == types.EQUALS
		}},
		{"let a = 1", func(err error) bool {
			e, ok := err.(errors.ExpectedOneOfKindGotKind)
			return ok && e.Got == types.EOF
		}},
		{"a + 1;", func(err error) bool {
			_, ok := err.(errors.ExpectedOneOfKindGotKind)
			return ok
		}},
		{"1 + 1;", func(err error) bool {
			e, ok := err.(errors.UnexpectedToken)
			return ok && e.Rule == "instruction"
		}},
		{"let a = * 2;", func(err error) bool {
			e, ok := err.(errors.UnexpectedToken)
			return ok && e.Rule == "expression"
		}},
		{"fn f(a) {}", func(err error) bool {
			e, ok := err.(errors.ExpectedOneOfKindGotKind)
			return ok && e.Got == types.RPAREN
		}},
		{"let a: string = 1;", func(err error) bool {
			e, ok := err.(errors.UnknownType)
			return ok && e.Name == "string"
		}},
		{"if true { let a = 1;", func(err error) bool {
			e, ok := err.(errors.ExpectedOneOfKindGotKind)
			return ok && e.Got == types.EOF
		}},
		{"let a = 1; }", func(err error) bool {
			e, ok := err.(errors.ExpectedOneOfKindGotKind)
			return ok && e.Got == types.RBRACKET
		}},
		{"let a = 1.2.3;", func(err error) bool {
			_, ok := err.(errors.MalformedNumber)
			return ok
		}},
		{"let a = 1 @ 2;", func(err error) bool {
			_, ok := err.(errors.UnknownSymbol)
			return ok
		}},
		{"fn f(a: int, b: int, a: float) {}", func(err error) bool {
			e, ok := err.(errors.DuplicateParameter)
			return ok && e.Function == "f" && e.Name == "a" && e.Location.From.Column == 21
		}},
	}

	for _, c := range cases {
		err := parseErr(t, c.src)
		if !c.check(err) {
			t.Errorf("%s: unexpected error %T: %s", c.src, err, err)
		}
	}
}

func TestIfSpan(t *testing.T) {
	root := parse(t, "if true {\n\tlet a = 1;\n}")

	stmt, ok := root.(ast.InstructionList).Current.(ast.IfStatement)
	if !ok {
		t.Fatalf("got %s", ast.String(root))
	}

	from, to := stmt.Pos.From, stmt.Pos.To
	if from.Line != 0 || from.Column != 0 {
		t.Errorf("span starts at %s", from)
	}
	if to.Line != 2 || to.Column != 0 {
		t.Errorf("span ends at %s, want the closing brace", to)
	}
}
