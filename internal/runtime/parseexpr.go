package runtime

import (
	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/nfa"
	"github.com/vrules/valet/internal/tokenseq"
)

// ParseExtractor implements C6 (spec.md §4.4 cont): the same compiled
// expression grammar as Phrase, but driven over dependency-tree edges
// instead of the linear token stream, and enumerated exhaustively rather
// than greedily (every walk that reaches an accept state yields a match,
// so Matches drives nfa.RunAll rather than nfa.Run).
type ParseExtractor struct {
	Name    string
	NS      *namespace.Namespace
	Body    ast.PhraseExpr
	Program *nfa.Program
}

func NewParseExtractor(name string, ns *namespace.Namespace, body ast.PhraseExpr) *ParseExtractor {
	return &ParseExtractor{Name: name, NS: ns, Body: body, Program: nfa.Compile(body)}
}

func (p *ParseExtractor) ExtractorName() string             { return p.Name }
func (p *ParseExtractor) OwnCapability() config.Capability   { return config.CapParse }
func (p *ParseExtractor) RefNamespace() *namespace.Namespace { return p.NS }

func (p *ParseExtractor) References() []string {
	var refs []string
	walkPhraseRefs(p.Body, &refs)
	return refs
}

// Matches requires a dependency parse (requireParse) and, for every token
// index s, enumerates every accepting walk through the edges incident to s
// (spec.md §4.4 cont: "not greedy ... every walk that reaches an accept
// state from s yields a match", contrasting with Phrase's single
// longest-run-per-start-index rule).
func (p *ParseExtractor) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	if err := requireParse(seq); err != nil {
		return NewStream(func() (*Match, bool, error) { return nil, false, err })
	}
	var out []*Match
	for s := 0; s < seq.Len(); s++ {
		results, err := nfa.RunAll(p.Program, &parseAlphabet{ctx: ctx, seq: seq, ns: p.NS}, s)
		if err != nil {
			return NewStream(func() (*Match, bool, error) { return nil, false, err })
		}
		for _, r := range results {
			m := &Match{Seq: seq, Begin: s, End: r.End}
			for _, c := range r.Captures {
				if sub, ok := c.(*Match); ok && sub != nil {
					m.Submatches = append(m.Submatches, sub)
				}
			}
			out = append(out, m)
		}
	}
	return FromSlice(out)
}

// parseAlphabet drives nfa.Run/RunAll over dependency edges: OpChar follows
// every incident edge whose label matches text in the requested direction;
// OpRef either follows every incident edge whose label satisfies the
// referenced token test (when the reference names a token test) or
// continues the walk through another parse extractor's own compiled
// program (when it names one).
type parseAlphabet struct {
	ctx *Context
	seq tokenseq.TokenSequence
	ns  *namespace.Namespace
}

func (a *parseAlphabet) MatchChar(pos int, text string, dir byte) []int {
	var out []int
	for _, e := range a.seq.EdgesAt(pos) {
		if e.Label != text {
			continue
		}
		if other, ok := edgeOther(e, pos, dir); ok {
			out = append(out, other)
		}
	}
	return out
}

// edgeOther reports the node reached by crossing e from pos in direction
// dir ('/' = toward the parent, '\\' = toward the child, 0 = either),
// translating e's declared Dir (relative to e.From) into the traversal
// direction relative to pos.
func edgeOther(e tokenseq.Edge, pos int, dir byte) (int, bool) {
	switch {
	case e.From == pos && e.Dir == tokenseq.DirChildToParent:
		if dir == '/' || dir == 0 {
			return e.To, true
		}
	case e.From == pos && e.Dir == tokenseq.DirParentToChild:
		if dir == '\\' || dir == 0 {
			return e.To, true
		}
	case e.To == pos && e.Dir == tokenseq.DirChildToParent:
		if dir == '\\' || dir == 0 {
			return e.From, true
		}
	case e.To == pos && e.Dir == tokenseq.DirParentToChild:
		if dir == '/' || dir == 0 {
			return e.From, true
		}
	}
	return 0, false
}

func (a *parseAlphabet) MatchRef(pos int, ref string, dir byte) ([]nfa.RefResult, error) {
	ext, err := a.ns.Resolve(ref, a.ctx.Binding.Rebind)
	if err != nil {
		return nil, err
	}

	switch re := ext.(type) {
	case *TokenTest:
		// A token-test reference in a parse expression consumes one edge
		// whose label satisfies the predicate (spec.md §4.4 cont), exactly
		// like a Literal atom but testing the label through re instead of
		// exact string equality.
		var out []nfa.RefResult
		for _, e := range a.seq.EdgesAt(pos) {
			other, ok := edgeOther(e, pos, dir)
			if !ok {
				continue
			}
			matched, err := re.EvalText(a.ctx, e.Label)
			if err != nil {
				return nil, err
			}
			if matched {
				out = append(out, nfa.RefResult{Pos: other, Capture: &Match{Seq: a.seq, Begin: pos, End: other, Name: ref}})
			}
		}
		return out, nil

	case *ParseExtractor:
		leave, err := a.ctx.Enter(ref, pos)
		if err != nil {
			return nil, err
		}
		defer leave()
		results, err := nfa.RunAll(re.Program, &parseAlphabet{ctx: a.ctx, seq: a.seq, ns: re.NS}, pos)
		if err != nil {
			return nil, err
		}
		out := make([]nfa.RefResult, 0, len(results))
		for _, r := range results {
			m := &Match{Seq: a.seq, Begin: pos, End: r.End, Name: ref}
			for _, c := range r.Captures {
				if sub, ok := c.(*Match); ok && sub != nil {
					m.Submatches = append(m.Submatches, sub)
				}
			}
			out = append(out, nfa.RefResult{Pos: r.End, Capture: m})
		}
		return out, nil

	default:
		return nil, diagnostics.TypeError("%q does not name a token test or parse expression", ref)
	}
}
