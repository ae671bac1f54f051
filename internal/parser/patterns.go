package parser

import (
	"strings"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/lexer"
	"github.com/vrules/valet/internal/token"
)

// parseTokenTestBody parses the C4 token-test boolean grammar:
//
//	expr  ::= and ('or' and)*
//	and   ::= not ('and' not)*
//	not   ::= ('not' | '!') not | atom
//	atom  ::= '(' expr ')' | '{' words '}' | '<' text '>' | '/' regex '/'
//	        | ('&'|'@') name | layer '[' tags ']' | 'f' '{' path '}'
func (p *Parser) parseTokenTestBody(text string, line int) (ast.TokenTestExpr, error) {
	s := newStream(text, line)
	tp := &ttParser{s: s}
	expr, err := tp.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := s.Peek(0); tok.Type != token.EOF {
		return nil, unexpected(tok)
	}
	return expr, nil
}

type ttParser struct{ s *lexer.Stream }

func (tp *ttParser) parseOr() (ast.TokenTestExpr, error) {
	left, err := tp.parseAnd()
	if err != nil {
		return nil, err
	}
	for tp.s.Peek(0).Type == token.ORKW {
		tp.s.Next()
		right, err := tp.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.OrTest{Left: left, Right: right}
	}
	return left, nil
}

func (tp *ttParser) parseAnd() (ast.TokenTestExpr, error) {
	left, err := tp.parseNot()
	if err != nil {
		return nil, err
	}
	for tp.s.Peek(0).Type == token.ANDKW {
		tp.s.Next()
		right, err := tp.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.AndTest{Left: left, Right: right}
	}
	return left, nil
}

func (tp *ttParser) parseNot() (ast.TokenTestExpr, error) {
	if t := tp.s.Peek(0); t.Type == token.NOTKW || t.Type == token.BANG {
		tp.s.Next()
		x, err := tp.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.NotTest{X: x}, nil
	}
	return tp.parseAtom()
}

func (tp *ttParser) parseAtom() (ast.TokenTestExpr, error) {
	tok := tp.s.Next()
	switch tok.Type {
	case token.LPAREN:
		expr, err := tp.parseOr()
		if err != nil {
			return nil, err
		}
		if close := tp.s.Next(); close.Type != token.RPAREN {
			return nil, unexpected(close)
		}
		return expr, nil

	case token.LBRACE:
		body, ci, ok := tp.s.Underlying().ReadDelimited('}')
		if !ok {
			return nil, parseErrorTok(tok, "unterminated membership set")
		}
		return ast.MembershipTest{Items: strings.Fields(body), CI: ci}, nil

	case token.LT:
		body, ci, ok := tp.s.Underlying().ReadDelimited('>')
		if !ok {
			return nil, parseErrorTok(tok, "unterminated substring test")
		}
		return ast.SubstringTest{S: body, CI: ci}, nil

	case token.SLASH:
		body, ci, ok := tp.s.Underlying().ReadDelimited('/')
		if !ok {
			return nil, parseErrorTok(tok, "unterminated regex")
		}
		return ast.RegexTest{Pattern: body, CI: ci}, nil

	case token.AMP, token.AT:
		name, err := tp.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		return ast.RefTest{Name: name}, nil

	case token.IDENT:
		if tok.Literal == "f" && tp.s.Peek(0).Type == token.LBRACE {
			tp.s.Next() // consume '{'
			body, ci, ok := tp.s.Underlying().ReadDelimited('}')
			if !ok {
				return nil, parseErrorTok(tok, "unterminated lexicon file reference")
			}
			return ast.LexiconFileTest{Path: body, CI: ci}, nil
		}
		if tp.s.Peek(0).Type == token.LBRACKET {
			tp.s.Next() // consume '['
			body, _, ok := tp.s.Underlying().ReadDelimited(']')
			if !ok {
				return nil, parseErrorTok(tok, "unterminated lookup tag list")
			}
			return ast.LookupTest{Layer: tok.Literal, Tags: strings.Fields(body)}, nil
		}
		return nil, parseErrorTok(tok, "bare word %q is not a valid token test (use {..}, <..>, /../, &ref, layer[...] or f{..})", tok.Literal)

	default:
		return nil, unexpected(tok)
	}
}

// parseQualifiedName reads IDENT ('.' IDENT)* as a single dotted string.
func (tp *ttParser) parseQualifiedName() (string, error) {
	tok := tp.s.Next()
	if tok.Type != token.IDENT {
		return "", unexpected(tok)
	}
	name := tok.Literal
	for tp.s.Peek(0).Type == token.DOT {
		tp.s.Next()
		part := tp.s.Next()
		if part.Type != token.IDENT {
			return "", unexpected(part)
		}
		name += "." + part.Literal
	}
	return name, nil
}
