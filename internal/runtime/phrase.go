package runtime

import (
	"sort"
	"strings"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/nfa"
	"github.com/vrules/valet/internal/tokenseq"
)

// Phrase implements C5 (spec.md §4.4): a phrase extractor compiled to an
// NFA over the token alphabet, left-anchored per start index, keeping the
// longest accepting run at each start index.
type Phrase struct {
	Name    string
	NS      *namespace.Namespace
	CI      bool
	Body    ast.PhraseExpr
	Program *nfa.Program
}

// NewPhrase compiles body once; Matches reuses the resulting Program for
// every start index.
func NewPhrase(name string, ns *namespace.Namespace, ci bool, body ast.PhraseExpr) *Phrase {
	return &Phrase{Name: name, NS: ns, CI: ci, Body: body, Program: nfa.Compile(body)}
}

func (p *Phrase) ExtractorName() string               { return p.Name }
func (p *Phrase) OwnCapability() config.Capability     { return "" }
func (p *Phrase) RefNamespace() *namespace.Namespace   { return p.NS }

func (p *Phrase) References() []string {
	var refs []string
	walkPhraseRefs(p.Body, &refs)
	return refs
}

func walkPhraseRefs(e ast.PhraseExpr, out *[]string) {
	switch n := e.(type) {
	case ast.Alt:
		for _, a := range n.Alts {
			walkPhraseRefs(a, out)
		}
	case ast.Concat:
		for _, s := range n.Seq {
			walkPhraseRefs(s, out)
		}
	case ast.Qual:
		walkPhraseRefs(n.X, out)
	case ast.Ref:
		*out = append(*out, n.Name)
	case ast.Directed:
		walkPhraseRefs(n.X, out)
	}
}

// Matches scans every start index s in [0, |tokens|], keeping the longest
// accepting run at each (spec.md §4.4: "the top-level driver advances the start index one
// token at a time and does not consume tokens, so overlapping matches
// across different start indices are all produced").
func (p *Phrase) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	var out []*Match
	for s := 0; s <= seq.Len(); s++ {
		results, err := nfa.RunAll(p.Program, &phraseAlphabet{ctx: ctx, seq: seq, ci: p.CI, ns: p.NS}, s)
		if err != nil {
			return NewStream(func() (*Match, bool, error) { return nil, false, err })
		}
		if len(results) == 0 {
			continue
		}
		// The longest run wins; RunAll lists runs in priority order, so of
		// several equally long runs the lexically first one is kept.
		best := results[0]
		for _, r := range results[1:] {
			if r.End > best.End {
				best = r
			}
		}
		m := &Match{Seq: seq, Begin: s, End: best.End}
		for _, c := range best.Captures {
			if sub, ok := c.(*Match); ok && sub != nil {
				m.Submatches = append(m.Submatches, sub)
			}
		}
		out = append(out, m)
	}
	return FromSlice(out)
}

// phraseAlphabet drives nfa.RunAll over a token sequence: OpChar consumes
// exactly one token by exact (optionally case-folded) string equality,
// OpRef defers to another extractor, restricted to matches starting exactly
// at pos and tried longest-first (spec.md §4.4's greedy-per-start-index
// rule applies transitively to references).
type phraseAlphabet struct {
	ctx *Context
	seq tokenseq.TokenSequence
	ci  bool
	ns  *namespace.Namespace
}

func (a *phraseAlphabet) MatchChar(pos int, text string, _ byte) []int {
	if pos < 0 || pos >= a.seq.Len() {
		return nil
	}
	tok := a.seq.Token(pos)
	want := text
	if a.ci {
		tok, want = strings.ToLower(tok), strings.ToLower(want)
	}
	if tok == want {
		return []int{pos + 1}
	}
	return nil
}

func (a *phraseAlphabet) MatchRef(pos int, ref string, _ byte) ([]nfa.RefResult, error) {
	switch ref {
	case config.BuiltinAny:
		if pos < a.seq.Len() {
			return []nfa.RefResult{{Pos: pos + 1, Capture: &Match{Seq: a.seq, Begin: pos, End: pos + 1, Name: ref}}}, nil
		}
		return nil, nil
	case config.BuiltinStart:
		if pos == 0 {
			return []nfa.RefResult{{Pos: pos, Capture: &Match{Seq: a.seq, Begin: pos, End: pos, Name: ref}}}, nil
		}
		return nil, nil
	case config.BuiltinEnd:
		if pos == a.seq.Len() {
			return []nfa.RefResult{{Pos: pos, Capture: &Match{Seq: a.seq, Begin: pos, End: pos, Name: ref}}}, nil
		}
		return nil, nil
	}

	ext, err := a.ns.Resolve(ref, a.ctx.Binding.Rebind)
	if err != nil {
		return nil, err
	}
	re, ok := ext.(Extractor)
	if !ok {
		return nil, nil
	}
	leave, err := a.ctx.Enter(ref, pos)
	if err != nil {
		return nil, err
	}
	defer leave()

	matches, err := Collect(re.Matches(a.ctx, a.seq))
	if err != nil {
		return nil, err
	}
	var results []nfa.RefResult
	for _, m := range matches {
		if m.Begin != pos {
			continue
		}
		capture := &Match{
			Seq: m.Seq, Begin: m.Begin, End: m.End, Name: ref,
			Submatches: m.Submatches, Supermatch: m.Supermatch, Submatch: m.Submatch,
			Left: m.Left, Right: m.Right, Op: m.Op, Fields: m.Fields,
		}
		results = append(results, nfa.RefResult{Pos: m.End, Capture: capture})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Pos > results[j].Pos })
	return results, nil
}
