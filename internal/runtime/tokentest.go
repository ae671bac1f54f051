package runtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/tokenseq"
)

// TokenTest implements C4 (spec.md §4.3): a per-token boolean predicate
// compiled from and/or/not over membership/regex/substring/lookup/
// reference/lexicon-file leaves.
type TokenTest struct {
	Name string
	NS   *namespace.Namespace
	CI   bool
	Body ast.TokenTestExpr

	// Files maps a LexiconFileTest.Path (as written in the rule) to its
	// already-resolved, already-loaded membership words — populated by the
	// builder (internal/importresolve) at construction time, since path
	// resolution needs the importing file's directory.
	Files map[string][]string

	regexes map[string]*regexp.Regexp
}

// NewTokenTest precompiles every regex leaf in body so Matches never pays
// compilation cost per token.
func NewTokenTest(name string, ns *namespace.Namespace, ci bool, body ast.TokenTestExpr, files map[string][]string) (*TokenTest, error) {
	t := &TokenTest{Name: name, NS: ns, CI: ci, Body: body, Files: files, regexes: make(map[string]*regexp.Regexp)}
	if err := t.prepare(body); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TokenTest) prepare(e ast.TokenTestExpr) error {
	switch n := e.(type) {
	case ast.OrTest:
		if err := t.prepare(n.Left); err != nil {
			return err
		}
		return t.prepare(n.Right)
	case ast.AndTest:
		if err := t.prepare(n.Left); err != nil {
			return err
		}
		return t.prepare(n.Right)
	case ast.NotTest:
		return t.prepare(n.X)
	case ast.RegexTest:
		key := regexKey(n.Pattern, n.CI)
		if _, ok := t.regexes[key]; ok {
			return nil
		}
		pattern := n.Pattern
		if n.CI {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return diagnostics.ParseErrorAt(0, "invalid regex %q: %v", n.Pattern, err)
		}
		t.regexes[key] = re
	}
	return nil
}

func regexKey(pattern string, ci bool) string {
	if ci {
		return "i:" + pattern
	}
	return "s:" + pattern
}

func (t *TokenTest) ExtractorName() string                { return t.Name }
func (t *TokenTest) RefNamespace() *namespace.Namespace    { return t.NS }

func (t *TokenTest) OwnCapability() config.Capability {
	return lookupCapability(t.Body)
}

func lookupCapability(e ast.TokenTestExpr) config.Capability {
	switch n := e.(type) {
	case ast.LookupTest:
		return layerCapability(n.Layer)
	case ast.OrTest:
		if c := lookupCapability(n.Left); c != "" {
			return c
		}
		return lookupCapability(n.Right)
	case ast.AndTest:
		if c := lookupCapability(n.Left); c != "" {
			return c
		}
		return lookupCapability(n.Right)
	case ast.NotTest:
		return lookupCapability(n.X)
	}
	return ""
}

func layerCapability(layer string) config.Capability {
	switch strings.ToLower(layer) {
	case "pos":
		return config.CapPOS
	case "ner":
		return config.CapNER
	default:
		return config.CapPOS
	}
}

func (t *TokenTest) References() []string {
	var refs []string
	var walk func(ast.TokenTestExpr)
	walk = func(e ast.TokenTestExpr) {
		switch n := e.(type) {
		case ast.OrTest:
			walk(n.Left)
			walk(n.Right)
		case ast.AndTest:
			walk(n.Left)
			walk(n.Right)
		case ast.NotTest:
			walk(n.X)
		case ast.RefTest:
			refs = append(refs, n.Name)
		}
	}
	walk(t.Body)
	return refs
}

// Matches emits one [i, i+1) match for every token index the predicate
// holds at (spec.md §4.3 "A token test extractor emits a match of extent
// [i, i+1) for every token index i at which the predicate holds").
func (t *TokenTest) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	var out []*Match
	for i := 0; i < seq.Len(); i++ {
		ok, err := t.EvalAt(ctx, seq, i)
		if err != nil {
			return NewStream(func() (*Match, bool, error) { return nil, false, err })
		}
		if ok {
			out = append(out, &Match{Seq: seq, Begin: i, End: i + 1})
		}
	}
	return FromSlice(out)
}

// EvalAt evaluates the predicate at token index i, resolving &/@ references
// through ns against other TokenTest extractors.
func (t *TokenTest) EvalAt(ctx *Context, seq tokenseq.TokenSequence, i int) (bool, error) {
	return t.evalExpr(ctx, seq, i, t.Body)
}

// EvalText evaluates the predicate against an arbitrary string rather than
// a token sequence position, used by parse expressions applying a
// token-test reference to a dependency-edge label (spec.md §4.4 cont:
// "Token-test references within a parse expression apply to the edge label
// (not a token)"). LookupTest cannot be satisfied this way since there is
// no annotation layer over a bare label.
func (t *TokenTest) EvalText(ctx *Context, text string) (bool, error) {
	return t.evalText(ctx, text, t.Body)
}

func (t *TokenTest) evalText(ctx *Context, text string, e ast.TokenTestExpr) (bool, error) {
	switch n := e.(type) {
	case ast.OrTest:
		l, err := t.evalText(ctx, text, n.Left)
		if err != nil || l {
			return l, err
		}
		return t.evalText(ctx, text, n.Right)

	case ast.AndTest:
		l, err := t.evalText(ctx, text, n.Left)
		if err != nil || !l {
			return false, err
		}
		return t.evalText(ctx, text, n.Right)

	case ast.NotTest:
		x, err := t.evalText(ctx, text, n.X)
		if err != nil {
			return false, err
		}
		return !x, nil

	case ast.MembershipTest:
		return matchesSet(text, n.Items, n.CI), nil

	case ast.RegexTest:
		re := t.regexes[regexKey(n.Pattern, n.CI)]
		return re.MatchString(text), nil

	case ast.SubstringTest:
		tok, s := text, n.S
		if n.CI {
			tok, s = strings.ToLower(tok), strings.ToLower(s)
		}
		return strings.Contains(tok, s), nil

	case ast.LexiconFileTest:
		return matchesSet(text, t.Files[n.Path], n.CI), nil

	case ast.LookupTest:
		return false, diagnostics.ParseRequirementError("lookup test %q cannot apply to a dependency-edge label", n.Layer)

	case ast.RefTest:
		ext, err := t.NS.Resolve(n.Name, ctx.Binding.Rebind)
		if err != nil {
			return false, err
		}
		other, ok := ext.(*TokenTest)
		if !ok {
			return false, diagnostics.TypeError("%q does not name a token test", n.Name)
		}
		return other.evalText(ctx, text, other.Body)

	default:
		return false, fmt.Errorf("runtime: unknown token test node %T", e)
	}
}

func (t *TokenTest) evalExpr(ctx *Context, seq tokenseq.TokenSequence, i int, e ast.TokenTestExpr) (bool, error) {
	switch n := e.(type) {
	case ast.OrTest:
		l, err := t.evalExpr(ctx, seq, i, n.Left)
		if err != nil || l {
			return l, err
		}
		return t.evalExpr(ctx, seq, i, n.Right)

	case ast.AndTest:
		l, err := t.evalExpr(ctx, seq, i, n.Left)
		if err != nil || !l {
			return false, err
		}
		return t.evalExpr(ctx, seq, i, n.Right)

	case ast.NotTest:
		x, err := t.evalExpr(ctx, seq, i, n.X)
		if err != nil {
			return false, err
		}
		return !x, nil

	case ast.MembershipTest:
		return matchesSet(seq.Token(i), n.Items, n.CI), nil

	case ast.RegexTest:
		re := t.regexes[regexKey(n.Pattern, n.CI)]
		return re.MatchString(seq.Token(i)), nil

	case ast.SubstringTest:
		tok := seq.Token(i)
		s := n.S
		if n.CI {
			tok, s = strings.ToLower(tok), strings.ToLower(s)
		}
		return strings.Contains(tok, s), nil

	case ast.LookupTest:
		if !seq.HasLayer(n.Layer) {
			return false, diagnostics.ParseRequirementError("lookup test refers to missing annotation layer %q", n.Layer)
		}
		tags := seq.Tags(n.Layer, i)
		for _, want := range n.Tags {
			for _, tag := range tags {
				if tag == want {
					return true, nil
				}
			}
		}
		return false, nil

	case ast.LexiconFileTest:
		words := t.Files[n.Path]
		return matchesSet(seq.Token(i), words, n.CI), nil

	case ast.RefTest:
		ext, err := t.NS.Resolve(n.Name, ctx.Binding.Rebind)
		if err != nil {
			return false, err
		}
		other, ok := ext.(*TokenTest)
		if !ok {
			return false, diagnostics.TypeError("%q does not name a token test", n.Name)
		}
		return other.EvalAt(ctx, seq, i)

	default:
		return false, fmt.Errorf("runtime: unknown token test node %T", e)
	}
}

func matchesSet(token string, items []string, ci bool) bool {
	if ci {
		token = strings.ToLower(token)
	}
	for _, it := range items {
		cand := it
		if ci {
			cand = strings.ToLower(cand)
		}
		if token == cand {
			return true
		}
	}
	return false
}
