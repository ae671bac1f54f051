package lexer

import (
	"strings"

	"github.com/vrules/valet/internal/diagnostics"
)

// RawStatement is one grouped statement before name/delimiter parsing:
// spec.md §4.1's "a statement starts at column 0; all immediately
// following lines that begin with whitespace are concatenated to it with a
// single space", plus the `<-` namespace-block exception where indented
// lines become nested statements instead of continuation text.
type RawStatement struct {
	// Text is the single-line, continuation-joined statement text
	// ("name delim [qualifier] body"), or just "name delim" when Children
	// is populated (a namespace import has no body text of its own).
	Text string
	Line int
	// Children holds nested RawStatements for a `<-` namespace block
	// (spec.md §4.1 "Import ... namespace block if empty and followed by
	// indented body").
	Children []RawStatement
}

type rawLine struct {
	indent  int
	content string
	line    int
}

// Preprocess splits source into lines, strips blank lines and full-line `#`
// comments, then groups the remainder into RawStatements.
func Preprocess(source string) ([]RawStatement, error) {
	var lines []rawLine
	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimLeft(raw, " \t")
		if trimmed == "" {
			continue
		}
		if trimmed[0] == '#' {
			continue
		}
		indent := len(raw) - len(trimmed)
		lines = append(lines, rawLine{indent: indent, content: strings.TrimRight(trimmed, " \t\r"), line: lineNo})
	}
	stmts, _, err := groupStatements(lines, 0, 0)
	return stmts, err
}

// groupStatements consumes every line at exactly baseIndent (and their
// continuations/nested blocks) starting at idx, stopping when a
// lower-indented line would close the current block or input ends.
func groupStatements(lines []rawLine, idx, baseIndent int) ([]RawStatement, int, error) {
	var out []RawStatement
	for idx < len(lines) {
		cur := lines[idx]
		if cur.indent < baseIndent {
			break
		}
		if cur.indent > baseIndent {
			return nil, idx, diagnostics.ParseErrorAt(cur.line, "unexpected indentation")
		}

		head := cur.content
		startLine := cur.line
		idx++

		isEmptyImport, delimEnd := emptyImportHead(head)
		if isEmptyImport && idx < len(lines) && lines[idx].indent > baseIndent {
			childIndent := lines[idx].indent
			children, next, err := groupStatements(lines, idx, childIndent)
			if err != nil {
				return nil, idx, err
			}
			idx = next
			out = append(out, RawStatement{Text: head[:delimEnd], Line: startLine, Children: children})
			continue
		}

		// Plain continuation: fold subsequent deeper-indented lines in.
		var b strings.Builder
		b.WriteString(head)
		for idx < len(lines) && lines[idx].indent > baseIndent {
			b.WriteByte(' ')
			b.WriteString(lines[idx].content)
			idx++
		}
		out = append(out, RawStatement{Text: b.String(), Line: startLine})
	}
	return out, idx, nil
}

// emptyImportHead reports whether head is "name <-" with nothing (or only
// whitespace) following the "<-" delimiter, and if so the index at which
// the delimiter ends (so the caller can keep "name <-" as Text).
func emptyImportHead(head string) (bool, int) {
	i := strings.Index(head, "<-")
	if i < 0 {
		return false, 0
	}
	rest := strings.TrimSpace(head[i+2:])
	if rest != "" {
		return false, 0
	}
	return true, i + 2
}
