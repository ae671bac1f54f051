package runtime_test

import (
	"testing"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/runtime"
	"github.com/vrules/valet/internal/tokenseq"
)

func TestBoundRebindsDuringInvocation(t *testing.T) {
	ns := namespace.NewRoot("root")
	noun, err := runtime.NewTokenTest("noun", ns, false, ast.MembershipTest{Items: []string{"dog"}}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest(noun): %v", err)
	}
	ns.Define("noun", noun)
	propnoun, err := runtime.NewTokenTest("propnoun", ns, false, ast.MembershipTest{Items: []string{"Rex"}}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest(propnoun): %v", err)
	}
	ns.Define("propnoun", propnoun)

	inner := runtime.NewPhrase("phrase", ns, false, ast.Ref{Name: "noun"})
	ns.Define("phrase", inner)
	bound := runtime.NewBound(inner, map[string]string{"noun": "propnoun"})
	ns.Define("bound", bound)

	seq := tokenseq.NewSimple([]string{"Rex"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(bound.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 (the rebinding should route noun -> propnoun, matching Rex)", len(matches))
	}
	if ctx.Binding.Depth() != 0 {
		t.Fatalf("Binding.Depth() = %d after Matches returns, want 0 (frame popped)", ctx.Binding.Depth())
	}
}

func TestBoundPopsOnFailure(t *testing.T) {
	ns := namespace.NewRoot("root")
	pe := runtime.NewParseExtractor("subj", ns, ast.Literal{Text: "nsubj"})
	ns.Define("subj", pe)
	bound := runtime.NewBound(pe, map[string]string{"x": "y"})
	ns.Define("bound", bound)

	// A token sequence with no dependency edges makes ParseExtractor fail
	// with a requirement error; the binding frame must still be popped.
	seq := tokenseq.NewSimple([]string{"a", "b"})
	ctx := runtime.NewContext()
	_, err := runtime.Collect(bound.Matches(ctx, seq))
	if err == nil {
		t.Fatalf("expected an error from a parse extractor over a sequence without edges")
	}
	if ctx.Binding.Depth() != 0 {
		t.Fatalf("Binding.Depth() = %d after a failing Matches call, want 0 (frame popped on every exit path)", ctx.Binding.Depth())
	}
}

func TestBoundDelegatesIdentity(t *testing.T) {
	ns := namespace.NewRoot("root")
	tt, err := runtime.NewTokenTest("word", ns, false, ast.MembershipTest{Items: []string{"a"}}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest: %v", err)
	}
	bound := runtime.NewBound(tt, map[string]string{"x": "y"})
	if bound.ExtractorName() != "word" {
		t.Fatalf("ExtractorName() = %q, want %q", bound.ExtractorName(), "word")
	}
	if bound.RefNamespace() != ns {
		t.Fatalf("RefNamespace() did not delegate to the inner extractor")
	}
}
