package runtime_test

import (
	"testing"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/runtime"
	"github.com/vrules/valet/internal/tokenseq"
)

func TestPhraseLiteralConcat(t *testing.T) {
	ns := namespace.NewRoot("root")
	body := ast.Concat{Seq: []ast.PhraseExpr{ast.Literal{Text: "quick"}, ast.Literal{Text: "brown"}}}
	ph := runtime.NewPhrase("quickbrown", ns, false, body)
	ns.Define("quickbrown", ph)

	seq := tokenseq.NewSimple([]string{"the", "quick", "brown", "fox"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(ph.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 1 || matches[0].Begin != 1 || matches[0].End != 3 {
		t.Fatalf("matches = %+v, want one [1,3)", matches)
	}
}

func TestPhraseRefToTokenTest(t *testing.T) {
	ns := namespace.NewRoot("root")
	digit, err := runtime.NewTokenTest("digit", ns, false, ast.RegexTest{Pattern: `^[0-9]+$`}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest: %v", err)
	}
	ns.Define("digit", digit)

	body := ast.Qual{X: ast.Ref{Name: "digit"}, Op: '+'}
	ph := runtime.NewPhrase("digits", ns, false, body)
	ns.Define("digits", ph)

	seq := tokenseq.NewSimple([]string{"1", "2", "x", "3"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(ph.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	// Greedy per start index, every start index tried: [0,2) from 0,
	// [1,2) from 1, [3,4) from 3; start 2 ("x") has no match.
	var extents [][2]int
	for _, m := range matches {
		extents = append(extents, [2]int{m.Begin, m.End})
	}
	want := map[[2]int]bool{{0, 2}: true, {1, 2}: true, {3, 4}: true}
	for _, e := range extents {
		if !want[e] {
			t.Fatalf("unexpected match extent %v in %v", e, extents)
		}
	}
	if len(extents) != 3 {
		t.Fatalf("got %d matches, want 3: %v", len(extents), extents)
	}
}

func TestPhraseBuiltinAny(t *testing.T) {
	ns := namespace.NewRoot("root")
	ns.Define(config.BuiltinAny, runtime.NewAnyTokenTest())
	body := ast.Concat{Seq: []ast.PhraseExpr{ast.Ref{Name: config.BuiltinAny}, ast.Ref{Name: config.BuiltinAny}}}
	ph := runtime.NewPhrase("any2", ns, false, body)
	ns.Define("any2", ph)

	seq := tokenseq.NewSimple([]string{"a", "b", "c"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(ph.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (starting at 0 and 1)", len(matches))
	}
}
