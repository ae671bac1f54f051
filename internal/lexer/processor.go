package lexer

import "github.com/vrules/valet/internal/token"

// Stream is a small lookahead-buffered wrapper over a Lexer, grounded on
// the teacher's bufferedLexer (internal/lexer/processor.go): a slice
// buffer plus a read cursor, growing the buffer only as far as a caller's
// Peek(n) demands.
type Stream struct {
	l      *Lexer
	buffer []token.Token
	pos    int
}

// NewStream wraps l in a peekable token stream.
func NewStream(l *Lexer) *Stream { return &Stream{l: l} }

// Next consumes and returns the next token.
func (s *Stream) Next() token.Token {
	if s.pos < len(s.buffer) {
		tok := s.buffer[s.pos]
		s.pos++
		return tok
	}
	return s.l.NextToken()
}

// Peek returns the token n positions ahead (0 = the next token to be
// consumed by Next) without consuming it.
func (s *Stream) Peek(n int) token.Token {
	for len(s.buffer)-s.pos <= n {
		tok := s.l.NextToken()
		s.buffer = append(s.buffer, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	idx := s.pos + n
	if idx >= len(s.buffer) {
		return s.buffer[len(s.buffer)-1]
	}
	return s.buffer[idx]
}

// Underlying exposes the wrapped Lexer so callers can hand off to
// ReadDelimited mid-stream (after consuming an opening delimiter token,
// any buffered lookahead would be stale, so callers must only do this
// immediately after a Next() that returned the opening token with no
// intervening Peek).
func (s *Stream) Underlying() *Lexer { return s.l }
