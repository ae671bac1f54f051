// Package parser implements the rule-source parser of spec.md §4.1 (C2):
// name/delimiter/qualifier extraction (internal/lexer.Preprocess handles
// line continuation/indentation), then per-delimiter grammars for token
// tests, phrase/parse expressions, coordinators and frames.
//
// Grounded on the teacher's internal/parser/parser.go (a Pratt parser with
// prefix/infix function tables over a buffered token stream) and
// internal/parser/statements.go (top-level statement dispatch); this
// grammar is simple enough that the phrase/coordinator sub-grammars are
// plain recursive-descent rather than needing a Pratt precedence table.
package parser

import (
	"strings"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/lexer"
)

// Parser accumulates diagnostics across one file's statements (and any
// nested namespace blocks), the way the teacher's PipelineContext.Errors
// does across a file's token stream.
type Parser struct {
	File   string
	Errors []*diagnostics.Error
}

// New creates a Parser that will attribute errors to file (used for
// diagnostics.Error.File; pass "" for in-memory sources).
func New(file string) *Parser {
	return &Parser{File: file}
}

// ParseString parses source into top-level statements. Errors encountered
// are both returned and appended to p.Errors (spec.md §6:
// "Manager.parse_file / parse_string ... raising ParseError{file,line,
// message} on failure").
func (p *Parser) ParseString(source string) ([]ast.Statement, error) {
	raws, err := lexer.Preprocess(source)
	if err != nil {
		p.record(err)
		return nil, err
	}
	return p.parseRaws(raws), p.firstError()
}

func (p *Parser) parseRaws(raws []lexer.RawStatement) []ast.Statement {
	stmts := make([]ast.Statement, 0, len(raws))
	for _, r := range raws {
		if s := p.parseOne(r); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) record(err error) {
	if de, ok := err.(*diagnostics.Error); ok {
		de.File = p.File
		p.Errors = append(p.Errors, de)
		return
	}
	p.Errors = append(p.Errors, &diagnostics.Error{ErrCode: diagnostics.CodeParseError, File: p.File, Message: err.Error()})
}

func (p *Parser) firstError() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return p.Errors[0]
}

// head is the parsed "name DELIM [qualifier]" prefix of a statement.
type head struct {
	name      string
	delim     string
	qualifier []ast.BindPair
	rest      string // remaining text after the qualifier, trimmed
}

var delimiters = []string{"Li->", "L->", "i->", "->", "i:", "<-", ":", "^", "~", "$"}

// parseHead extracts the name, delimiter, optional binding qualifier and
// remaining body text from one statement's joined text.
func parseHead(text string, line int) (head, error) {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	start := i
	for i < len(text) && isNameChar(text[i]) {
		i++
	}
	name := text[start:i]
	if name == "" {
		return head{}, diagnostics.ParseErrorAt(line, "malformed statement: missing name")
	}
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	delim := ""
	for _, d := range delimiters {
		if strings.HasPrefix(text[i:], d) {
			delim = d
			break
		}
	}
	if delim == "" {
		return head{}, diagnostics.ParseErrorAt(line, "malformed statement: no delimiter found after %q", name)
	}
	i += len(delim)

	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	var qualifier []ast.BindPair
	if i < len(text) && text[i] == '[' {
		j := strings.IndexByte(text[i:], ']')
		if j < 0 {
			return head{}, diagnostics.ParseErrorAt(line, "unbalanced '[' in binding qualifier")
		}
		qtext := text[i+1 : i+j]
		i += j + 1
		pairs, err := parseQualifier(qtext, line)
		if err != nil {
			return head{}, err
		}
		qualifier = pairs
	}
	rest := strings.TrimSpace(text[i:])
	return head{name: name, delim: delim, qualifier: qualifier, rest: rest}, nil
}

func parseQualifier(text string, line int) ([]ast.BindPair, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	var pairs []ast.BindPair
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, diagnostics.ParseErrorAt(line, "malformed binding qualifier entry %q", part)
		}
		pairs = append(pairs, ast.BindPair{From: strings.TrimSpace(kv[0]), To: strings.TrimSpace(kv[1])})
	}
	return pairs, nil
}

func isNameChar(b byte) bool {
	return b == '_' || b == '.' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
