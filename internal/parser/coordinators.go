package parser

import (
	"strconv"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/lexer"
	"github.com/vrules/valet/internal/token"
)

// parseCoordinatorBody parses the C7 coordinator grammar:
//
//	coord ::= IDENT ('(' arg (',' arg)* [',' ('inverted'|'invert')] ')')?
//	arg   ::= INT | coord
//
// A bare IDENT with no call parens is sugar for match(X, _) (spec.md §4.5),
// represented here as an ExtractorRef for the coordinator build step to
// expand.
func (p *Parser) parseCoordinatorBody(text string, line int) (ast.CoordExpr, error) {
	s := newStream(text, line)
	cp := &coordParser{s: s}
	expr, err := cp.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := s.Peek(0); tok.Type != token.EOF {
		return nil, unexpected(tok)
	}
	return expr, nil
}

type coordParser struct{ s *lexer.Stream }

func (cp *coordParser) parseExpr() (ast.CoordExpr, error) {
	tok := cp.s.Next()
	if tok.Type != token.IDENT {
		return nil, unexpected(tok)
	}
	name, err := cp.continueQualifiedName(tok.Literal)
	if err != nil {
		return nil, err
	}
	if cp.s.Peek(0).Type != token.LPAREN {
		return ast.ExtractorRef{Name: name}, nil
	}
	cp.s.Next() // consume '('

	call := ast.Call{Op: name}
	if cp.s.Peek(0).Type == token.RPAREN {
		cp.s.Next()
		return call, nil
	}
	for {
		if cp.s.Peek(0).Type == token.INVERTEDKW {
			cp.s.Next()
			call.Inverted = true
			break
		}
		arg, err := cp.parseArg()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if cp.s.Peek(0).Type == token.COMMA {
			cp.s.Next()
			continue
		}
		break
	}
	close := cp.s.Next()
	if close.Type != token.RPAREN {
		return nil, unexpected(close)
	}
	return call, nil
}

func (cp *coordParser) parseArg() (ast.CoordExpr, error) {
	if cp.s.Peek(0).Type == token.INT {
		tok := cp.s.Next()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, parseErrorTok(tok, "invalid integer %q", tok.Literal)
		}
		return ast.IntArg{Value: n}, nil
	}
	return cp.parseExpr()
}

func (cp *coordParser) continueQualifiedName(name string) (string, error) {
	for cp.s.Peek(0).Type == token.DOT {
		cp.s.Next()
		part := cp.s.Next()
		if part.Type != token.IDENT {
			return "", unexpected(part)
		}
		name += "." + part.Literal
	}
	return name, nil
}

// parseFrameBody parses the C8 frame grammar:
//
//	frame(anchor, field1 = p1 p2 ..., field2 = ...)
func (p *Parser) parseFrameBody(text string, line int) (*ast.FrameExpr, error) {
	s := newStream(text, line)
	cp := &coordParser{s: s}

	head := s.Next()
	if head.Type != token.IDENT || head.Literal != "frame" {
		return nil, parseErrorTok(head, `expected "frame(...)"`)
	}
	if open := s.Next(); open.Type != token.LPAREN {
		return nil, unexpected(open)
	}

	anchor, err := cp.parseExpr()
	if err != nil {
		return nil, err
	}
	fe := &ast.FrameExpr{Anchor: anchor}

	for s.Peek(0).Type == token.COMMA {
		s.Next()
		fieldTok := s.Next()
		if fieldTok.Type != token.IDENT {
			return nil, unexpected(fieldTok)
		}
		if eq := s.Next(); eq.Type != token.EQUALS {
			return nil, unexpected(eq)
		}
		var path []string
		for {
			t := s.Peek(0)
			if t.Type == token.COMMA || t.Type == token.RPAREN {
				break
			}
			if t.Type != token.IDENT && t.Type != token.INT {
				return nil, unexpected(t)
			}
			path = append(path, t.Literal)
			s.Next()
		}
		if len(path) == 0 {
			return nil, parseErrorTok(fieldTok, "field %q has an empty selection path", fieldTok.Literal)
		}
		fe.Fields = append(fe.Fields, ast.FrameField{Name: fieldTok.Literal, Path: path})
	}

	if close := s.Next(); close.Type != token.RPAREN {
		return nil, unexpected(close)
	}
	if tok := s.Peek(0); tok.Type != token.EOF {
		return nil, unexpected(tok)
	}
	return fe, nil
}
