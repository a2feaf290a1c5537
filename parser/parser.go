package parser

import (
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/errors"
	"github.com/pontaoski/rill/lexer"
	"github.com/pontaoski/rill/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "parser")

type Parser struct {
	l *lexer.Lexer
}

func NewParser(l *lexer.Lexer) Parser {
	return Parser{l}
}

// Parse builds the syntax tree of a whole program. An empty program yields a nil
// root and no error.
func (p *Parser) Parse() (root ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				root = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	root = p.parseList()
	p.l.LexExpecting(types.EOF)

	return root, nil
}

// parseList builds the cons-list of a block. A return statement ends the list and
// everything up to the block terminator is discarded.
func (p *Parser) parseList() ast.Node {
	if p.l.PeekIs(types.RBRACKET, types.EOF) {
		return nil
	}

	current := p.parseInstruction()
	if plog.LevelAt(capnslog.DEBUG) {
		plog.Debugf("parsed %s", ast.String(current))
	}

	if _, ok := current.(ast.ReturnStatement); ok {
		p.skipBlock()
		return ast.InstructionList{Current: current}
	}

	return ast.InstructionList{
		Current: current,
		Next:    p.parseList(),
	}
}

func (p *Parser) skipBlock() {
	depth := 0
	for {
		if p.l.PeekIs(types.EOF) {
			return
		}
		if p.l.PeekIs(types.RBRACKET) && depth == 0 {
			return
		}

		switch p.l.Lex().Kind {
		case types.LBRACKET:
			depth++
		case types.RBRACKET:
			depth--
		}
	}
}

// parseBlock should be called with the parser past the opening brace. It returns
// the closing brace along with the body.
func (p *Parser) parseBlock() (ast.Node, types.Token) {
	body := p.parseList()
	end := p.l.LexExpecting(types.RBRACKET)

	return body, end
}

func (p *Parser) parseInstruction() ast.Node {
	tok := p.l.Lex()

	switch tok.Kind {
	case types.LET:
		name := p.l.LexExpecting(types.IDENT)

		var declared *types.Type
		if p.l.PeekIs(types.COLON) {
			p.l.LexExpecting(types.COLON)
			t := p.parseType()
			declared = &t
		}

		p.l.LexExpecting(types.EQUALS)
		value := p.parseExpression(0)
		end := p.l.LexExpecting(types.EOS)

		return ast.VarDeclaration{
			Name:     name.Literal,
			Declared: declared,
			Value:    value,
			Pos:      types.Span{From: tok.Location.From, To: end.Location.To},
		}
	case types.IDENT:
		if p.l.PeekIs(types.LPAREN) {
			call := p.parseCall(tok)
			p.l.LexExpecting(types.EOS)
			return call
		}

		p.l.LexExpecting(types.EQUALS, types.LPAREN)
		value := p.parseExpression(0)
		end := p.l.LexExpecting(types.EOS)

		return ast.VarAssignment{
			Name:  tok.Literal,
			Value: value,
			Pos:   types.Span{From: tok.Location.From, To: end.Location.To},
		}
	case types.RETURN:
		var value ast.Node
		if !p.l.PeekIs(types.EOS) {
			value = p.parseExpression(0)
		}
		end := p.l.LexExpecting(types.EOS)

		return ast.ReturnStatement{
			Value: value,
			Pos:   types.Span{From: tok.Location.From, To: end.Location.To},
		}
	case types.IF:
		cond := p.parseExpression(0)
		p.l.LexExpecting(types.LBRACKET)
		body, end := p.parseBlock()

		return ast.IfStatement{
			Condition: cond,
			Body:      body,
			Pos:       types.Span{From: tok.Location.From, To: end.Location.To},
		}
	case types.FUNC:
		return p.parseFunction(tok)
	}

	panic(errors.UnexpectedToken{
		Got:      tok,
		Rule:     "instruction",
		Location: tok.Location,
	})
}

// expected to be called after reading the fn keyword.
func (p *Parser) parseFunction(fn types.Token) ast.Node {
	name := p.l.LexExpecting(types.IDENT)

	decl := ast.FunctionDeclaration{
		Name:       name.Literal,
		ReturnType: types.Void,
	}

	p.l.LexExpecting(types.LPAREN)
	if !p.l.PeekIs(types.RPAREN) {
		for {
			param := p.l.LexExpecting(types.IDENT)
			for _, seen := range decl.ParamNames {
				if seen == param.Literal {
					panic(errors.DuplicateParameter{
						Function: decl.Name,
						Name:     param.Literal,
						Location: param.Location,
					})
				}
			}
			p.l.LexExpecting(types.COLON)
			kind := p.parseType()

			decl.ParamNames = append(decl.ParamNames, param.Literal)
			decl.ParamTypes = append(decl.ParamTypes, kind)

			if p.l.PeekIs(types.COMMA) {
				p.l.LexExpecting(types.COMMA)
				continue
			}
			break
		}
	}
	end := p.l.LexExpecting(types.RPAREN)

	if p.l.PeekIs(types.ARROW) {
		p.l.LexExpecting(types.ARROW)
		decl.ReturnType = p.parseType()
	}

	decl.Pos = types.Span{From: fn.Location.From, To: end.Location.To}

	p.l.LexExpecting(types.LBRACKET)
	decl.Body, _ = p.parseBlock()

	return decl
}

func (p *Parser) parseType() types.Type {
	tok := p.l.LexExpecting(types.IDENT)

	t, ok := types.TypeNamed(tok.Literal)
	if !ok {
		panic(errors.UnknownType{
			Name:     tok.Literal,
			Location: tok.Location,
		})
	}

	return t
}

// expected to be called after reading the function name, with LPAREN next.
func (p *Parser) parseCall(name types.Token) ast.Node {
	p.l.LexExpecting(types.LPAREN)

	var args []ast.Node
	if !p.l.PeekIs(types.RPAREN) {
		for {
			args = append(args, p.parseExpression(0))

			if p.l.PeekIs(types.COMMA) {
				p.l.LexExpecting(types.COMMA)
				continue
			}
			break
		}
	}
	end := p.l.LexExpecting(types.RPAREN)

	return ast.FunctionCall{
		Name: name.Literal,
		Args: args,
		Pos:  types.Span{From: name.Location.From, To: end.Location.To},
	}
}

// peekBinary reports whether the look-ahead is a binary operator binding at least
// as tightly as min.
func (p *Parser) peekBinary(min int) bool {
	tok := p.l.Peek()
	return tok.Kind == types.OPERATOR && tok.Op.Binary() && tok.Op.Precedence() >= min
}

func (p *Parser) parseExpression(min int) ast.Node {
	return p.climb(p.parsePrimary(), min)
}

// climb folds binary operators into left as long as they bind at least as tightly
// as min. Tighter trailing operators are folded into the right operand first.
func (p *Parser) climb(left ast.Node, min int) ast.Node {
	for p.peekBinary(min) {
		op := p.l.Lex().Op
		right := p.parsePrimary()

		for p.peekBinary(op.Precedence() + 1) {
			right = p.climb(right, op.Precedence()+1)
		}

		left = ast.BinaryOp{
			Op:    op,
			Left:  left,
			Right: right,
			Pos:   types.Span{From: ast.PosOf(left).From, To: ast.PosOf(right).To},
		}
	}

	return left
}

func (p *Parser) parsePrimary() ast.Node {
	tok := p.l.Lex()

	switch tok.Kind {
	case types.INT:
		parsed, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			panic(errors.MalformedNumber{Literal: tok.Literal, Location: tok.Location})
		}
		return ast.IntLiteral{Value: parsed, Pos: tok.Location}
	case types.FLOAT:
		parsed, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			panic(errors.MalformedNumber{Literal: tok.Literal, Location: tok.Location})
		}
		return ast.FloatLiteral{Value: parsed, Pos: tok.Location}
	case types.BOOL:
		return ast.BoolLiteral{Value: tok.Literal == "true", Pos: tok.Location}
	case types.IDENT:
		if p.l.PeekIs(types.LPAREN) {
			return p.parseCall(tok)
		}
		return ast.Identifier{Name: tok.Literal, Pos: tok.Location}
	case types.LPAREN:
		expr := p.parseExpression(0)
		p.l.LexExpecting(types.RPAREN)
		return expr
	case types.OPERATOR:
		if tok.Op == types.Minus || tok.Op == types.Not {
			operand := p.parsePrimary()
			return ast.UnaryOp{
				Op:      tok.Op,
				Operand: operand,
				Pos:     types.Span{From: tok.Location.From, To: ast.PosOf(operand).To},
			}
		}
	}

	panic(errors.UnexpectedToken{
		Got:      tok,
		Rule:     "expression",
		Location: tok.Location,
	})
}
