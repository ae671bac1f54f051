// Package diagnostics implements the error taxonomy of spec.md §7 as a
// single tagged error type, in the teacher's style: one struct, an
// error-code enum, a phase enum, and a template table keyed by code.
package diagnostics

import (
	"fmt"

	"github.com/vrules/valet/internal/token"
)

// Phase is the processing stage an error surfaced in.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseResolve  Phase = "resolve"
	PhaseRuntime  Phase = "runtime"
)

// Code identifies one of spec.md §7's six error kinds.
type Code string

const (
	CodeParseError            Code = "ParseError"
	CodeUnresolvedName        Code = "UnresolvedName"
	CodeTypeError             Code = "TypeError"
	CodeParseRequirementError Code = "ParseRequirementError"
	CodeRecursionError        Code = "RecursionError"
	CodeIOError               Code = "IOError"
)

// Error is the single error type for every diagnostic the engine raises.
// It satisfies the standard error interface and exposes Code() so callers
// can branch on kind (via errors.As) without string matching.
type Error struct {
	ErrCode Code
	Phase   Phase
	File    string
	Line    int
	Column  int
	Message string
	// TraceID correlates this error back to one Manager.Apply/Frames
	// invocation (see internal/runtime.Context). Only RecursionError carries
	// it; it is empty at load time and on every other error.
	TraceID string
}

func (e *Error) Error() string {
	loc := ""
	if e.Line > 0 {
		loc = fmt.Sprintf(" at %d:%d", e.Line, e.Column)
	}
	file := ""
	if e.File != "" {
		file = e.File + ": "
	}
	trace := ""
	if e.TraceID != "" {
		trace = fmt.Sprintf(" [trace=%s]", e.TraceID)
	}
	return fmt.Sprintf("%s%s%s [%s]: %s%s", file, e.Phase, loc, e.ErrCode, e.Message, trace)
}

// Code returns the taxonomy code, for errors.As-free branching.
func (e *Error) Code() Code { return e.ErrCode }

func newErr(code Code, phase Phase, line, col int, format string, args ...interface{}) *Error {
	return &Error{
		ErrCode: code,
		Phase:   phase,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

// ParseError reports a malformed statement at load time (spec.md §4.1/§7).
func ParseError(tok token.Token, format string, args ...interface{}) *Error {
	return newErr(CodeParseError, PhaseParser, tok.Line, tok.Column, format, args...)
}

// ParseErrorAt is ParseError without a token, for line-level statement
// grouping errors (continuation/indentation problems) that precede
// tokenization.
func ParseErrorAt(line int, format string, args ...interface{}) *Error {
	return newErr(CodeParseError, PhaseParser, line, 0, format, args...)
}

// UnresolvedName reports a reference that did not bind after climbing all
// scopes (spec.md §4.2 step 5).
func UnresolvedName(name string) *Error {
	return newErr(CodeUnresolvedName, PhaseResolve, 0, 0, "unresolved name: %q", name)
}

// TypeError reports an operand of the wrong kind, e.g. a coordinator
// expression where an <extractor> name is required.
func TypeError(format string, args ...interface{}) *Error {
	return newErr(CodeTypeError, PhaseResolve, 0, 0, format, args...)
}

// ParseRequirementError reports a parse extractor applied to a
// TokenSequence lacking dependency edges, or a lookup test referring to a
// missing annotation layer.
func ParseRequirementError(format string, args ...interface{}) *Error {
	return newErr(CodeParseRequirementError, PhaseRuntime, 0, 0, format, args...)
}

// RecursionError reports a rule transitively referencing itself at the
// same token position (spec.md §4.2 "Cycle detection").
func RecursionError(name string, pos int) *Error {
	return newErr(CodeRecursionError, PhaseRuntime, 0, 0, "recursive reference to %q at position %d", name, pos)
}

// IOError reports an import file not found along the resolution chain.
func IOError(format string, args ...interface{}) *Error {
	return newErr(CodeIOError, PhaseParser, 0, 0, format, args...)
}
