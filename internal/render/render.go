// Package render turns a parsed rule statement back into rule-source text,
// the inverse of internal/parser (spec.md §8's round-trip property:
// parse(render(parse(src))) == parse(src)). Grounded on the teacher's
// internal/prettyprinter/code_printer.go: a buffer-backed printer that
// tracks the minimum operator precedence needed at each position and
// parenthesizes only when a child's own precedence falls below it.
package render

import (
	"strconv"
	"strings"

	"github.com/vrules/valet/internal/ast"
)

// Statement renders one top-level declaration.
func Statement(stmt ast.Statement) string {
	var b strings.Builder
	writeStatement(&b, stmt, 0)
	return b.String()
}

func writeStatement(b *strings.Builder, stmt ast.Statement, indent int) {
	writeIndent(b, indent)
	switch n := stmt.(type) {
	case *ast.TokenTestDecl:
		delim := ":"
		if n.CaseInsensitive {
			delim = "i:"
		}
		b.WriteString(n.Name)
		b.WriteByte(' ')
		b.WriteString(delim)
		b.WriteByte(' ')
		b.WriteString(TokenTestExpr(n.Body))

	case *ast.PhraseDecl:
		delim := "->"
		if n.CaseInsensitive {
			delim = "i->"
		}
		b.WriteString(n.Name)
		b.WriteByte(' ')
		b.WriteString(delim)
		b.WriteString(qualifierStr(n.Binding))
		b.WriteByte(' ')
		b.WriteString(PhraseExpr(n.Body))

	case *ast.ParseDecl:
		b.WriteString(n.Name)
		b.WriteString(" ^")
		b.WriteString(qualifierStr(n.Binding))
		b.WriteByte(' ')
		b.WriteString(PhraseExpr(n.Body))

	case *ast.LexiconDecl:
		delim := "L->"
		if n.CaseInsensitive {
			delim = "Li->"
		}
		b.WriteString(n.Name)
		b.WriteByte(' ')
		b.WriteString(delim)
		b.WriteByte(' ')
		b.WriteString(n.Path)

	case *ast.CoordinatorDecl:
		b.WriteString(n.Name)
		b.WriteString(" ~")
		b.WriteString(qualifierStr(n.Binding))
		b.WriteByte(' ')
		b.WriteString(CoordExpr(n.Body))

	case *ast.FrameDecl:
		b.WriteString(n.Name)
		b.WriteString(" $")
		b.WriteString(qualifierStr(n.Binding))
		b.WriteByte(' ')
		b.WriteString(FrameExpr(n.Body))

	case *ast.ImportDecl:
		b.WriteString(n.Name)
		b.WriteString(" <-")
		if !n.Namespace {
			b.WriteByte(' ')
			b.WriteString(n.Path)
			return
		}
		for _, child := range n.Children {
			b.WriteByte('\n')
			writeStatement(b, child, indent+1)
		}
	}
}

func writeIndent(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
}

func qualifierStr(pairs []ast.BindPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.From + "=" + p.To
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ---- Token test grammar (C4): or(1) < and(2) < not(3) < atom(4) ----

func TokenTestExpr(e ast.TokenTestExpr) string { return renderTT(e, 1) }

func ttPrec(e ast.TokenTestExpr) int {
	switch e.(type) {
	case ast.OrTest:
		return 1
	case ast.AndTest:
		return 2
	case ast.NotTest:
		return 3
	default:
		return 4
	}
}

func renderTT(e ast.TokenTestExpr, min int) string {
	s := ttBody(e)
	if ttPrec(e) < min {
		return "(" + s + ")"
	}
	return s
}

func ttBody(e ast.TokenTestExpr) string {
	switch n := e.(type) {
	case ast.OrTest:
		return renderTT(n.Left, 1) + " or " + renderTT(n.Right, 2)
	case ast.AndTest:
		return renderTT(n.Left, 2) + " and " + renderTT(n.Right, 3)
	case ast.NotTest:
		return "not " + renderTT(n.X, 3)
	case ast.MembershipTest:
		return "{" + strings.Join(n.Items, " ") + "}" + ciSuffix(n.CI)
	case ast.RegexTest:
		return "/" + n.Pattern + "/" + ciSuffix(n.CI)
	case ast.SubstringTest:
		return "<" + n.S + ">" + ciSuffix(n.CI)
	case ast.LookupTest:
		return n.Layer + "[" + strings.Join(n.Tags, " ") + "]"
	case ast.RefTest:
		return "&" + n.Name
	case ast.LexiconFileTest:
		return "f{" + n.Path + "}" + ciSuffix(n.CI)
	}
	return ""
}

func ciSuffix(ci bool) string {
	if ci {
		return "i"
	}
	return ""
}

// ---- Phrase/parse grammar (C5/C6): alt(1) < concat(2) < qual(3) < atom(4) ----

func PhraseExpr(e ast.PhraseExpr) string { return renderPhrase(e, 1) }

func phrasePrec(e ast.PhraseExpr) int {
	switch e.(type) {
	case ast.Alt:
		return 1
	case ast.Concat:
		return 2
	case ast.Qual:
		return 3
	default:
		return 4
	}
}

func renderPhrase(e ast.PhraseExpr, min int) string {
	s := phraseBody(e)
	if phrasePrec(e) < min {
		return "(" + s + ")"
	}
	return s
}

func phraseBody(e ast.PhraseExpr) string {
	switch n := e.(type) {
	case ast.Alt:
		parts := make([]string, len(n.Alts))
		for i, a := range n.Alts {
			parts[i] = renderPhrase(a, 2)
		}
		return strings.Join(parts, " | ")
	case ast.Concat:
		parts := make([]string, len(n.Seq))
		for i, s := range n.Seq {
			parts[i] = renderPhrase(s, 3)
		}
		return strings.Join(parts, " ")
	case ast.Qual:
		return renderPhrase(n.X, 4) + string(n.Op)
	case ast.Literal:
		return n.Text
	case ast.Ref:
		return "&" + n.Name
	case ast.Directed:
		dir := ""
		if n.Dir != 0 {
			dir = string(n.Dir)
		}
		return dir + renderPhrase(n.X, 4)
	}
	return ""
}

// ---- Coordinator algebra (C7) and frame grammar (C8): function-call
// style, always fully parenthesized, so no precedence tracking needed. ----

func CoordExpr(e ast.CoordExpr) string {
	switch n := e.(type) {
	case ast.ExtractorRef:
		return n.Name
	case ast.IntArg:
		return strconv.Itoa(n.Value)
	case ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = CoordExpr(a)
		}
		if n.Inverted {
			args = append(args, "inverted")
		}
		return n.Op + "(" + strings.Join(args, ", ") + ")"
	}
	return ""
}

func FrameExpr(fe *ast.FrameExpr) string {
	var b strings.Builder
	b.WriteString("frame(")
	b.WriteString(CoordExpr(fe.Anchor))
	for _, f := range fe.Fields {
		b.WriteString(", ")
		b.WriteString(f.Name)
		b.WriteString(" = ")
		b.WriteString(strings.Join(f.Path, " "))
	}
	b.WriteString(")")
	return b.String()
}
