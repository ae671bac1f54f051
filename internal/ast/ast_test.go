package ast_test

import (
	"testing"

	"github.com/vrules/valet/internal/ast"
)

func TestDeclConstructorsCarryNameAndLine(t *testing.T) {
	tt := ast.NewTokenTestDecl("digit", 3, true, ast.RegexTest{Pattern: `^[0-9]+$`})
	if tt.StatementName() != "digit" || tt.StatementLine() != 3 {
		t.Fatalf("TokenTestDecl name/line = %q/%d, want digit/3", tt.StatementName(), tt.StatementLine())
	}
	if !tt.CaseInsensitive {
		t.Fatalf("CaseInsensitive = false, want true")
	}

	ph := ast.NewPhraseDecl("np", 5, false, []ast.BindPair{{From: "a", To: "b"}}, ast.Literal{Text: "x"})
	if ph.StatementName() != "np" || ph.StatementLine() != 5 || len(ph.Binding) != 1 {
		t.Fatalf("PhraseDecl = %+v", ph)
	}

	pd := ast.NewParseDecl("rel", 7, nil, ast.Literal{Text: "nsubj"})
	if pd.StatementName() != "rel" || pd.StatementLine() != 7 {
		t.Fatalf("ParseDecl = %+v", pd)
	}

	lex := ast.NewLexiconDecl("cities", 9, true, "./cities.txt")
	if lex.Path != "./cities.txt" || !lex.CaseInsensitive {
		t.Fatalf("LexiconDecl = %+v", lex)
	}

	co := ast.NewCoordinatorDecl("c", 11, nil, ast.ExtractorRef{Name: "np"})
	if co.StatementName() != "c" || co.StatementLine() != 11 {
		t.Fatalf("CoordinatorDecl = %+v", co)
	}

	fr := ast.NewFrameDecl("f", 13, nil, &ast.FrameExpr{Anchor: ast.ExtractorRef{Name: "c"}})
	anchor, ok := fr.Body.Anchor.(ast.ExtractorRef)
	if !ok || anchor.Name != "c" {
		t.Fatalf("FrameDecl.Body.Anchor = %+v, want ExtractorRef{c}", fr.Body.Anchor)
	}

	imp := ast.NewImportDecl("pkg", 15, "", true, []ast.Statement{tt})
	if !imp.Namespace || len(imp.Children) != 1 || imp.Children[0].StatementName() != "digit" {
		t.Fatalf("ImportDecl = %+v", imp)
	}
}

func TestTokenTestExprMarkerTypesImplementInterface(t *testing.T) {
	var exprs = []ast.TokenTestExpr{
		ast.OrTest{},
		ast.AndTest{},
		ast.NotTest{},
		ast.MembershipTest{Items: []string{"a"}},
		ast.RegexTest{Pattern: "x"},
		ast.SubstringTest{S: "x"},
		ast.LookupTest{},
		ast.RefTest{Name: "x"},
		ast.LexiconFileTest{Path: "x"},
	}
	if len(exprs) != 9 {
		t.Fatalf("expected all 9 TokenTestExpr variants to satisfy the interface")
	}
}

func TestPhraseExprMarkerTypesImplementInterface(t *testing.T) {
	var exprs = []ast.PhraseExpr{
		ast.Alt{},
		ast.Concat{},
		ast.Qual{},
		ast.Literal{Text: "x"},
		ast.Ref{Name: "x"},
		ast.Directed{},
	}
	if len(exprs) != 6 {
		t.Fatalf("expected all 6 PhraseExpr variants to satisfy the interface")
	}
}

func TestCoordExprMarkerTypesImplementInterface(t *testing.T) {
	var exprs = []ast.CoordExpr{
		ast.ExtractorRef{Name: "x"},
		ast.IntArg{Value: 1},
		ast.Call{Op: "match"},
	}
	if len(exprs) != 3 {
		t.Fatalf("expected all 3 CoordExpr variants to satisfy the interface")
	}
}
