package parser

import (
	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/lexer"
	"github.com/vrules/valet/internal/token"
)

// parseOne dispatches one RawStatement to the sub-grammar its delimiter
// selects, recording (rather than panicking on) any error so a single bad
// statement doesn't abort the whole file.
func (p *Parser) parseOne(r lexer.RawStatement) ast.Statement {
	h, err := parseHead(r.Text, r.Line)
	if err != nil {
		p.record(err)
		return nil
	}

	switch h.delim {
	case "<-":
		if len(r.Children) > 0 {
			children := p.parseRaws(r.Children)
			return ast.NewImportDecl(h.name, r.Line, "", true, children)
		}
		return ast.NewImportDecl(h.name, r.Line, h.rest, false, nil)

	case ":", "i:":
		body, err := p.parseTokenTestBody(h.rest, r.Line)
		if err != nil {
			p.record(err)
			return nil
		}
		return ast.NewTokenTestDecl(h.name, r.Line, h.delim == "i:", body)

	case "->", "i->":
		body, err := p.parsePhraseBody(h.rest, r.Line, false)
		if err != nil {
			p.record(err)
			return nil
		}
		return ast.NewPhraseDecl(h.name, r.Line, h.delim == "i->", h.qualifier, body)

	case "^":
		body, err := p.parsePhraseBody(h.rest, r.Line, true)
		if err != nil {
			p.record(err)
			return nil
		}
		return ast.NewParseDecl(h.name, r.Line, h.qualifier, body)

	case "L->", "Li->":
		return ast.NewLexiconDecl(h.name, r.Line, h.delim == "Li->", h.rest)

	case "~":
		body, err := p.parseCoordinatorBody(h.rest, r.Line)
		if err != nil {
			p.record(err)
			return nil
		}
		return ast.NewCoordinatorDecl(h.name, r.Line, h.qualifier, body)

	case "$":
		body, err := p.parseFrameBody(h.rest, r.Line)
		if err != nil {
			p.record(err)
			return nil
		}
		return ast.NewFrameDecl(h.name, r.Line, h.qualifier, body)
	}
	return nil
}

// newStream tokenizes text (already the statement body past name/delimiter/
// qualifier) for one of the grammars below.
func newStream(text string, line int) *lexer.Stream {
	return lexer.NewStream(lexer.New(text, line))
}

func unexpected(tok token.Token) error {
	return parseErrorTok(tok, "unexpected token %s %q", tok.Type, tok.Literal)
}
