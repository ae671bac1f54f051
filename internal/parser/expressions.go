package parser

import (
	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/lexer"
	"github.com/vrules/valet/internal/token"
)

// parsePhraseBody parses the C5/C6 regex-over-alphabet grammar, shared by
// `->`/`i->` phrase declarations and `^` parse declarations:
//
//	expr   ::= concat ('|' concat)*
//	concat ::= qual+
//	qual   ::= atom ('?' | '*' | '+')?
//	atom   ::= '(' expr ')' | ('&'|'@') name | literal
//
// When parseExpr is true (a `^` declaration), an atom may additionally be
// prefixed with '/' (upward, child->parent) or '\' (downward) with no
// intervening space, wrapping the underlying atom in ast.Directed.
func (p *Parser) parsePhraseBody(text string, line int, parseExpr bool) (ast.PhraseExpr, error) {
	s := newStream(text, line)
	ep := &exprParser{s: s, parseExpr: parseExpr}
	expr, err := ep.parseAlt()
	if err != nil {
		return nil, err
	}
	if tok := s.Peek(0); tok.Type != token.EOF {
		return nil, unexpected(tok)
	}
	return expr, nil
}

type exprParser struct {
	s         *lexer.Stream
	parseExpr bool
}

func (ep *exprParser) parseAlt() (ast.PhraseExpr, error) {
	first, err := ep.parseConcat()
	if err != nil {
		return nil, err
	}
	if ep.s.Peek(0).Type != token.PIPE {
		return first, nil
	}
	alts := []ast.PhraseExpr{first}
	for ep.s.Peek(0).Type == token.PIPE {
		ep.s.Next()
		next, err := ep.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	return ast.Alt{Alts: alts}, nil
}

func (ep *exprParser) parseConcat() (ast.PhraseExpr, error) {
	var seq []ast.PhraseExpr
	for ep.atConcatMember() {
		q, err := ep.parseQual()
		if err != nil {
			return nil, err
		}
		seq = append(seq, q)
	}
	if len(seq) == 0 {
		return nil, parseErrorTok(ep.s.Peek(0), "expected an expression")
	}
	if len(seq) == 1 {
		return seq[0], nil
	}
	return ast.Concat{Seq: seq}, nil
}

func (ep *exprParser) atConcatMember() bool {
	switch ep.s.Peek(0).Type {
	case token.EOF, token.RPAREN, token.PIPE:
		return false
	default:
		return true
	}
}

func (ep *exprParser) parseQual() (ast.PhraseExpr, error) {
	atom, err := ep.parseAtom()
	if err != nil {
		return nil, err
	}
	switch ep.s.Peek(0).Type {
	case token.QUESTION:
		ep.s.Next()
		return ast.Qual{X: atom, Op: '?'}, nil
	case token.STAR:
		ep.s.Next()
		return ast.Qual{X: atom, Op: '*'}, nil
	case token.PLUS:
		ep.s.Next()
		return ast.Qual{X: atom, Op: '+'}, nil
	}
	return atom, nil
}

func (ep *exprParser) parseAtom() (ast.PhraseExpr, error) {
	var dir byte
	if ep.parseExpr {
		switch ep.s.Peek(0).Type {
		case token.SLASH:
			ep.s.Next()
			dir = '/'
		case token.BACKSLASH:
			ep.s.Next()
			dir = '\\'
		}
	}

	tok := ep.s.Next()
	var inner ast.PhraseExpr
	switch tok.Type {
	case token.LPAREN:
		e, err := ep.parseAlt()
		if err != nil {
			return nil, err
		}
		if close := ep.s.Next(); close.Type != token.RPAREN {
			return nil, unexpected(close)
		}
		if dir != 0 {
			return nil, parseErrorTok(tok, "direction prefix cannot apply to a parenthesized group")
		}
		return e, nil

	case token.AMP, token.AT:
		name, err := ep.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		inner = ast.Ref{Name: name}

	case token.EOF, token.RPAREN, token.PIPE, token.QUESTION, token.STAR, token.PLUS, token.ILLEGAL:
		return nil, unexpected(tok)

	default:
		// Only '( ) | ? * + & @' are reserved (spec.md §4.4); every other
		// token string, including punctuation like ',' and '.', is an
		// ordinary matchable literal.
		inner = ast.Literal{Text: tok.Literal}
	}

	if dir != 0 {
		return ast.Directed{X: inner, Dir: dir}, nil
	}
	return inner, nil
}

func (ep *exprParser) parseQualifiedName() (string, error) {
	tok := ep.s.Next()
	if tok.Type != token.IDENT {
		return "", unexpected(tok)
	}
	name := tok.Literal
	for ep.s.Peek(0).Type == token.DOT {
		ep.s.Next()
		part := ep.s.Next()
		if part.Type != token.IDENT {
			return "", unexpected(part)
		}
		name += "." + part.Literal
	}
	return name, nil
}
