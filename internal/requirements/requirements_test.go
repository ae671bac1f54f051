package requirements_test

import (
	"testing"
	"time"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/requirements"
	"github.com/vrules/valet/internal/runtime"
)

func TestForUnionsCapabilitiesAcrossReferences(t *testing.T) {
	ns := namespace.NewRoot("root")
	pos, err := runtime.NewTokenTest("posnoun", ns, false, ast.LookupTest{Layer: "pos", Tags: []string{"NN"}}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest: %v", err)
	}
	ns.Define("posnoun", pos)
	org, err := runtime.NewTokenTest("orgner", ns, false, ast.LookupTest{Layer: "ner", Tags: []string{"ORG"}}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest: %v", err)
	}
	ns.Define("orgner", org)

	phrase := runtime.NewPhrase("np", ns, false, ast.Concat{Seq: []ast.PhraseExpr{
		ast.Ref{Name: "posnoun"}, ast.Ref{Name: "orgner"},
	}})
	ns.Define("np", phrase)

	caps, err := requirements.For(ns, "np")
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if !caps[config.CapPOS] || !caps[config.CapNER] {
		t.Fatalf("caps = %v, want both CapPOS and CapNER", caps)
	}
	if len(caps) != 2 {
		t.Fatalf("caps = %v, want exactly 2 entries", caps)
	}
}

func TestForParseExtractorRequiresCapParse(t *testing.T) {
	ns := namespace.NewRoot("root")
	pe := runtime.NewParseExtractor("subj", ns, ast.Literal{Text: "nsubj"})
	ns.Define("subj", pe)

	caps, err := requirements.For(ns, "subj")
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if !caps[config.CapParse] {
		t.Fatalf("caps = %v, want CapParse", caps)
	}
}

func TestForStopsOnCycle(t *testing.T) {
	ns := namespace.NewRoot("root")
	a := runtime.NewPhrase("a", ns, false, ast.Ref{Name: "b"})
	ns.Define("a", a)
	b := runtime.NewPhrase("b", ns, false, ast.Ref{Name: "a"})
	ns.Define("b", b)

	done := make(chan struct{})
	var caps map[config.Capability]bool
	var err error
	go func() {
		caps, err = requirements.For(ns, "a")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("For did not return: mutual references formed an infinite loop")
	}
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if len(caps) != 0 {
		t.Fatalf("caps = %v, want empty (neither phrase declares a capability)", caps)
	}
}

func TestForScopedToDefiningNamespace(t *testing.T) {
	root := namespace.NewRoot("root")
	child := root.NewChild("pkg")

	inner, err := runtime.NewTokenTest("word", child, false, ast.LookupTest{Layer: "pos", Tags: []string{"NN"}}, nil)
	if err != nil {
		t.Fatalf("NewTokenTest: %v", err)
	}
	child.Define("word", inner)
	wrapper := runtime.NewPhrase("wrapped", child, false, ast.Ref{Name: "word"})
	child.Define("wrapped", wrapper)

	caps, err := requirements.For(root, "pkg.wrapped")
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if !caps[config.CapPOS] {
		t.Fatalf("caps = %v, want CapPOS resolved via wrapped's own defining namespace", caps)
	}
}
