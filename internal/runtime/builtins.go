package runtime

import (
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/tokenseq"
)

// anyTokenTest implements the built-in ANY token test (spec.md §4.3: "Built-
// in ANY matches any single token (more efficient than /./"). It is
// registered directly as an Extractor rather than expressed via
// ast.TokenTestExpr, since the latter's node set is closed over package ast
// (spec.md §9 Open Question iii: ANY/ROOT live in a built-in namespace).
type anyTokenTest struct{}

func (anyTokenTest) ExtractorName() string                { return config.BuiltinAny }
func (anyTokenTest) OwnCapability() config.Capability      { return "" }
func (anyTokenTest) References() []string                  { return nil }
func (anyTokenTest) RefNamespace() *namespace.Namespace     { return nil }
func (anyTokenTest) EvalAt(_ *Context, seq tokenseq.TokenSequence, i int) (bool, error) {
	return i >= 0 && i < seq.Len(), nil
}
func (a anyTokenTest) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	out := make([]*Match, seq.Len())
	for i := range out {
		out[i] = &Match{Seq: seq, Begin: i, End: i + 1}
	}
	return FromSlice(out)
}

// rootTokenTest implements the built-in ROOT name: matches the single token
// at the dependency tree's root, when a parse is present.
type rootTokenTest struct{}

func (rootTokenTest) ExtractorName() string               { return config.BuiltinRoot }
func (rootTokenTest) OwnCapability() config.Capability     { return config.CapParse }
func (rootTokenTest) References() []string                 { return nil }
func (rootTokenTest) RefNamespace() *namespace.Namespace    { return nil }
func (rootTokenTest) EvalAt(_ *Context, seq tokenseq.TokenSequence, i int) (bool, error) {
	root, ok := seq.Root()
	return ok && root == i, nil
}
func (r rootTokenTest) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	root, ok := seq.Root()
	if !ok {
		return FromSlice(nil)
	}
	return FromSlice([]*Match{{Seq: seq, Begin: root, End: root + 1}})
}

// NewAnyTokenTest and NewRootTokenTest expose the two built-in names for
// registration by internal/importresolve into the root namespace.
func NewAnyTokenTest() Extractor  { return anyTokenTest{} }
func NewRootTokenTest() Extractor { return rootTokenTest{} }

// baseStream is the coordinator literal `_`: one match per TokenSequence
// covering [0, |tokens|) (spec.md §4.5).
func baseStream(seq tokenseq.TokenSequence) Stream {
	return FromSlice([]*Match{{Seq: seq, Begin: 0, End: seq.Len()}})
}

// requireParse returns ParseRequirementError if seq carries no dependency
// edges (spec.md §4.4 cont, §7).
func requireParse(seq tokenseq.TokenSequence) error {
	if !seq.HasParse() {
		return diagnostics.ParseRequirementError("parse extractor applied to a sequence without dependency edges")
	}
	return nil
}
