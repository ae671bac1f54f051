// Package lexer tokenizes rule-statement bodies. Grounded on the teacher's
// internal/lexer/lexer.go: a hand-rolled char-at-a-time scanner tracking
// line/column, with a peekChar-driven switch over punctuation. Unlike the
// teacher's general-purpose language lexer, NextToken here only needs the
// small alphabet the phrase/parse/coordinator/frame grammars use — the
// token-test forms (`{..}`, `<..>`, `/../`, `f{..}`) are read as raw
// delimited spans via ReadDelimited rather than sub-tokenized, since their
// contents (regex syntax, membership words) are not part of this grammar.
package lexer

import (
	"github.com/vrules/valet/internal/token"
)

// Lexer tokenizes one statement body (already joined from its continuation
// lines by Preprocess, so no NEWLINE token is ever produced here).
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// New creates a Lexer over input, whose first character is reported at the
// given line (for diagnostics that need to point back into the source
// file rather than at an offset within the joined statement text).
func New(input string, line int) *Lexer {
	l := &Lexer{input: input, line: line, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

// Pos reports the current byte offset into the statement body, for callers
// that need to hand off to ReadDelimited right after consuming an opening
// delimiter token.
func (l *Lexer) Pos() int { return l.position }

// ReadDelimited consumes raw text up to (and including) the matching close
// byte, assuming the caller has already consumed the opening delimiter.
// Used for membership `{ .. }`, regex `/../`, substring `<..>` and lexicon
// `f{..}` bodies, whose contents are not tokenized by this lexer. Returns
// the text between the delimiters (not including them) and whether a
// trailing case-insensitive `i` flag immediately follows the close byte.
func (l *Lexer) ReadDelimited(closeCh byte) (body string, ci bool, ok bool) {
	start := l.position
	for l.ch != closeCh && l.ch != 0 {
		l.readChar()
	}
	if l.ch != closeCh {
		return l.input[start:l.position], false, false
	}
	body = l.input[start:l.position]
	l.readChar() // consume close
	if l.ch == 'i' {
		ci = true
		l.readChar()
	}
	return body, ci, true
}

func newToken(t token.Type, ch byte, line, col int) token.Token {
	lit := ""
	if ch != 0 {
		lit = string(ch)
	}
	return token.Token{Type: t, Literal: lit, Line: line, Column: col}
}

// NextToken returns the next token of the phrase/parse/coordinator/frame
// grammars. Token-test delimited spans ({}, <>, //. f{}) are NOT tokenized
// here; callers that expect one call ReadDelimited themselves right after
// seeing the opening LBRACE/LT/SLASH token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.column
	var tok token.Token

	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Line: line, Column: col}
	case '.':
		tok = newToken(token.DOT, l.ch, line, col)
	case '{':
		tok = newToken(token.LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(token.RBRACE, l.ch, line, col)
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case '=':
		tok = newToken(token.EQUALS, l.ch, line, col)
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '\\':
		tok = newToken(token.BACKSLASH, l.ch, line, col)
	case '&':
		tok = newToken(token.AMP, l.ch, line, col)
	case '@':
		tok = newToken(token.AT, l.ch, line, col)
	case '|':
		tok = newToken(token.PIPE, l.ch, line, col)
	case '?':
		tok = newToken(token.QUESTION, l.ch, line, col)
	case '*':
		tok = newToken(token.STAR, l.ch, line, col)
	case '+':
		tok = newToken(token.PLUS, l.ch, line, col)
	case '!':
		tok = newToken(token.BANG, l.ch, line, col)
	case '<':
		tok = newToken(token.LT, l.ch, line, col)
	case '>':
		tok = newToken(token.GT, l.ch, line, col)
	default:
		if isIdentStart(l.ch) {
			ident := l.readIdent()
			return token.Token{Type: token.LookupIdent(ident), Literal: ident, Line: line, Column: col}
		}
		if isDigit(l.ch) {
			num := l.readNumber()
			return token.Token{Type: token.INT, Literal: num, Line: line, Column: col}
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}
	l.readChar()
	return tok
}

func (l *Lexer) readIdent() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
