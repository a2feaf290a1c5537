package lexer

import (
	"bufio"
	"io"
	"unicode"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "lexer")

type Lexer struct {
	pos    types.Position
	last   types.Position
	reader *bufio.Reader
	peeked *types.Token
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 0, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

var twoCharSymbols = map[string]types.Token{
	"==": {Kind: types.OPERATOR, Op: types.Equal},
	"!=": {Kind: types.OPERATOR, Op: types.NotEqual},
	"<=": {Kind: types.OPERATOR, Op: types.LowerOrEq},
	">=": {Kind: types.OPERATOR, Op: types.GreaterOrEq},
	"&&": {Kind: types.OPERATOR, Op: types.LogicalAnd},
	"||": {Kind: types.OPERATOR, Op: types.LogicalOr},
	"->": {Kind: types.ARROW},
}

var oneCharSymbols = map[rune]types.Token{
	'+': {Kind: types.OPERATOR, Op: types.Add},
	'-': {Kind: types.OPERATOR, Op: types.Minus},
	'*': {Kind: types.OPERATOR, Op: types.Product},
	'/': {Kind: types.OPERATOR, Op: types.Divide},
	'<': {Kind: types.OPERATOR, Op: types.Lower},
	'>': {Kind: types.OPERATOR, Op: types.Greater},
	'!': {Kind: types.OPERATOR, Op: types.Not},
	':': {Kind: types.COLON},
	'(': {Kind: types.LPAREN},
	')': {Kind: types.RPAREN},
	'{': {Kind: types.LBRACKET},
	'}': {Kind: types.RBRACKET},
	',': {Kind: types.COMMA},
	';': {Kind: types.EOS},
	'=': {Kind: types.EQUALS},
}

var keywords = map[string]types.TokenKind{
	"let":    types.LET,
	"if":     types.IF,
	"fn":     types.FUNC,
	"return": types.RETURN,
	"true":   types.BOOL,
	"false":  types.BOOL,
}

// read returns the next rune together with the position it was found at.
func (l *Lexer) read() (rune, types.Position, error) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, l.pos, err
	}

	at := l.pos
	l.last = l.pos
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}

	return r, at, nil
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos = l.last
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func firstChar(r rune) bool {
	return unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func numberChar(r rune) bool {
	return r == '.' || unicode.IsDigit(r)
}

// accumulate collects first and every following rune accepted by accept.
func (l *Lexer) accumulate(first rune, from types.Position, accept func(rune) bool) (types.Span, string) {
	lit := []rune{first}
	to := from

	for {
		r, at, err := l.read()
		if err != nil {
			if err == io.EOF {
				return types.Span{From: from, To: to}, string(lit)
			}
			panic(err)
		}

		if !accept(r) {
			l.backup()
			return types.Span{From: from, To: to}, string(lit)
		}

		lit = append(lit, r)
		to = at
	}
}

func (l *Lexer) Peek() types.Token {
	if l.peeked != nil {
		return *l.peeked
	}

	tok := l.Lex()
	l.peeked = &tok

	return tok
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

// PeekIsOp reports whether the look-ahead is the operator op.
func (l *Lexer) PeekIsOp(op types.Operator) bool {
	token := l.Peek()
	return token.Kind == types.OPERATOR && token.Op == op
}

func (l *Lexer) LexExpecting(k ...types.TokenKind) types.Token {
	token := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token
		}
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token.Kind,
		Location: token.Location,
	})
}

// Lex returns the next token. Once the input is exhausted every call returns EOF.
func (l *Lexer) Lex() (tok types.Token) {
	if l.peeked != nil {
		defer func() { l.peeked = nil }()
		return *l.peeked
	}

	defer func() {
		if plog.LevelAt(capnslog.TRACE) {
			plog.Tracef("lexed %s", tok)
		}
	}()

	for {
		r, at, err := l.read()
		if err != nil {
			if err == io.EOF {
				return types.Token{Kind: types.EOF, Location: types.SingleCharSpan(l.pos)}
			}
			panic(err)
		}

		if isWhitespace(r) {
			continue
		}

		byt, err := l.reader.Peek(1)
		if err != nil && err != io.EOF {
			panic(err)
		}
		if len(byt) > 0 {
			two := string(r) + string(byt[0])
			if tok, ok := twoCharSymbols[two]; ok {
				_, end, _ := l.read()
				tok.Literal = two
				tok.Location = types.Span{From: at, To: end}
				return tok
			}
		}

		if tok, ok := oneCharSymbols[r]; ok {
			tok.Literal = string(r)
			tok.Location = types.SingleCharSpan(at)
			return tok
		}

		switch {
		case unicode.IsDigit(r):
			span, lit := l.accumulate(r, at, numberChar)
			for _, c := range lit {
				if c == '.' {
					return types.Token{Kind: types.FLOAT, Literal: lit, Location: span}
				}
			}
			return types.Token{Kind: types.INT, Literal: lit, Location: span}
		case firstChar(r):
			span, lit := l.accumulate(r, at, otherChar)

			if kind, ok := keywords[lit]; ok {
				return types.Token{Kind: kind, Literal: lit, Location: span}
			}

			return types.Token{Kind: types.IDENT, Literal: lit, Location: span}
		}

		panic(errors.UnknownSymbol{
			Symbol:   r,
			Location: types.SingleCharSpan(at),
		})
	}
}

// All lexes up to, and not including, EOF.
func (l *Lexer) All() (ret []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	t := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, t)
		t = l.Lex()
	}
	return
}
