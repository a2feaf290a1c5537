// Package pipeline strings the passes together: source is lexed and parsed, then
// checked, then either interpreted or lowered to LLVM IR.
package pipeline

import (
	"io"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/checker"
	"github.com/pontaoski/rill/codegen"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/interp"
	"github.com/pontaoski/rill/lexer"
	"github.com/pontaoski/rill/parser"
	"github.com/pontaoski/rill/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "pipeline")

type Options struct {
	Filename string
	// SkipCheck hands programs to the interpreter without type checking them.
	SkipCheck    bool
	Freestanding bool
}

func Tokens(src io.Reader, filename string) ([]types.Token, error) {
	return lexer.NewLexer(src, filename).All()
}

// Parse returns nil for a program without statements.
func Parse(src io.Reader, filename string) (ast.Node, error) {
	p := parser.NewParser(lexer.NewLexer(src, filename))
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}

	plog.Infof("parsed %s", filename)
	return root, nil
}

func Check(src io.Reader, opts Options) (types.Type, error) {
	root, err := Parse(src, opts.Filename)
	if err != nil {
		return types.Void, err
	}

	return checker.New().Check(root)
}

// Run checks and interprets a whole program with fresh scopes.
func Run(src io.Reader, opts Options) (interp.Value, error) {
	return NewSession(opts).Eval(src)
}

// Emit lowers a program to an LLVM module. Programs the checker rejects are
// refused even when opts.SkipCheck is set.
func Emit(src io.Reader, opts Options) (*ir.Module, error) {
	root, err := Parse(src, opts.Filename)
	if err != nil {
		return nil, err
	}

	if _, err := checker.New().Check(root); err != nil {
		return nil, err
	}
	plog.Infof("checked %s", opts.Filename)

	return codegen.Generate(root, codegen.Options{Freestanding: opts.Freestanding})
}

// Session keeps the declarations of everything it evaluated, so a program can be
// fed to it one piece at a time.
type Session struct {
	opts    Options
	checker *checker.Checker
	interp  *interp.Interpreter
}

func NewSession(opts Options) *Session {
	return &Session{
		opts:    opts,
		checker: checker.New(),
		interp:  interp.New(),
	}
}

// Eval parses src, checks it against everything checked so far unless the session
// skips checking, and runs it. It returns the value the program completed with,
// nil when there is none. An input that fails leaves the session as it was.
func (s *Session) Eval(src io.Reader) (interp.Value, error) {
	root, err := Parse(src, s.opts.Filename)
	if err != nil {
		return nil, err
	}

	rollbackChecker := s.checker.Checkpoint()
	rollbackInterp := s.interp.Checkpoint()

	if !s.opts.SkipCheck {
		if _, err := s.checker.Check(root); err != nil {
			rollbackChecker()
			return nil, err
		}
		plog.Infof("checked %s", s.opts.Filename)
	}

	v, err := s.interp.Interpret(root)
	if err != nil {
		rollbackChecker()
		rollbackInterp()
		return nil, err
	}
	plog.Infof("ran %s", s.opts.Filename)

	return v, nil
}

// Dump prints the global frames of the checker and the interpreter.
func (s *Session) Dump(w io.Writer) {
	p := repr.New(w, repr.Indent("  "), repr.OmitEmpty(true))

	p.Println(s.checker.Scopes())
	p.Println(s.interp.Scopes())
}

// Incomplete reports whether err is a syntax error caused by input ending early,
// which more input could fix.
func Incomplete(err error) bool {
	switch e := tracerr.Unwrap(err).(type) {
	case errors.ExpectedOneOfKindGotKind:
		return e.Got == types.EOF
	case errors.UnexpectedToken:
		return e.Got.Kind == types.EOF
	}

	return false
}
