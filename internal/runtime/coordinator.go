package runtime

import (
	"sort"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/tokenseq"
)

// Coordinator implements C7 (spec.md §4.5): the small stream algebra over
// match streams. A bare extractor name used anywhere a stream operand is
// expected is sugar for match(X, _); evalStream applies that expansion so
// every stream position (and the top-level coordinator body) sees the same
// submatch shape match(X, _) would produce.
type Coordinator struct {
	Name string
	NS   *namespace.Namespace
	Body ast.CoordExpr
}

func NewCoordinator(name string, ns *namespace.Namespace, body ast.CoordExpr) *Coordinator {
	return &Coordinator{Name: name, NS: ns, Body: body}
}

func (c *Coordinator) ExtractorName() string             { return c.Name }
func (c *Coordinator) OwnCapability() config.Capability   { return "" }
func (c *Coordinator) RefNamespace() *namespace.Namespace { return c.NS }

func (c *Coordinator) References() []string {
	var refs []string
	var walk func(ast.CoordExpr)
	walk = func(e ast.CoordExpr) {
		switch n := e.(type) {
		case ast.ExtractorRef:
			if n.Name != "_" {
				refs = append(refs, n.Name)
			}
		case ast.Call:
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(c.Body)
	return refs
}

// Matches evaluates the coordinator expression tree and returns its result
// in (begin,end)-ascending order, ties broken by declaration order (spec.md
// §4.5 "Output ordering").
func (c *Coordinator) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	ms, err := c.evalStream(ctx, seq, c.Body)
	if err != nil {
		return NewStream(func() (*Match, bool, error) { return nil, false, err })
	}
	return FromSlice(sortByExtent(ms))
}

func sortByExtent(ms []*Match) []*Match {
	sort.SliceStable(ms, func(i, j int) bool {
		ib, ie := ms[i].Extent()
		jb, je := ms[j].Extent()
		if ib != jb {
			return ib < jb
		}
		return ie < je
	})
	return ms
}

func (c *Coordinator) eval(ctx *Context, seq tokenseq.TokenSequence, e ast.CoordExpr) ([]*Match, error) {
	switch n := e.(type) {
	case ast.ExtractorRef:
		if n.Name == "_" {
			return Collect(baseStream(seq))
		}
		ext, err := c.NS.Resolve(n.Name, ctx.Binding.Rebind)
		if err != nil {
			return nil, err
		}
		re, ok := ext.(Extractor)
		if !ok {
			return nil, diagnostics.TypeError("%q does not name an extractor", n.Name)
		}
		leave, err := ctx.Enter(n.Name, -1)
		if err != nil {
			return nil, err
		}
		defer leave()
		return Collect(re.Matches(ctx, seq))

	case ast.IntArg:
		return nil, diagnostics.TypeError("integer argument used where a match stream was expected")

	case ast.Call:
		return c.evalCall(ctx, seq, n)

	default:
		return nil, diagnostics.TypeError("unknown coordinator expression")
	}
}

// evalStream evaluates e at a stream position (spec.md §4.5's "stream"
// operand kind): a bare extractor reference used this way is sugar for
// match(<extractor>, _) (§4.5 "An <extractor> appearing as a top-level
// coordinator expression is syntactic sugar for match(<extractor>, _)",
// and property §8.5 requires the two to produce identical match
// structure, submatches included). Call/IntArg/`_` pass through to eval
// unchanged; only a named ExtractorRef needs the wrap.
func (c *Coordinator) evalStream(ctx *Context, seq tokenseq.TokenSequence, e ast.CoordExpr) ([]*Match, error) {
	ref, ok := e.(ast.ExtractorRef)
	if !ok || ref.Name == "_" {
		return c.eval(ctx, seq, e)
	}
	xs, err := c.eval(ctx, seq, e)
	if err != nil {
		return nil, err
	}
	out := make([]*Match, 0, len(xs))
	for _, x := range xs {
		out = append(out, &Match{Seq: seq, Begin: x.Begin, End: x.End, Op: "match", Submatches: []*Match{cloneNamed(x, ref.Name)}})
	}
	return out, nil
}

func (c *Coordinator) extractorName(e ast.CoordExpr) (string, error) {
	ref, ok := e.(ast.ExtractorRef)
	if !ok || ref.Name == "_" {
		return "", diagnostics.TypeError("expected an extractor name")
	}
	return ref.Name, nil
}

func intArg(e ast.CoordExpr) (int, error) {
	v, ok := e.(ast.IntArg)
	if !ok {
		return 0, diagnostics.TypeError("expected an integer argument")
	}
	return v.Value, nil
}

func cloneNamed(m *Match, name string) *Match {
	c := *m
	c.Name = name
	return &c
}

func containsPos(m *Match, pos int) bool {
	lo, hi := m.Extent()
	return lo <= pos && pos < hi
}

func (c *Coordinator) evalCall(ctx *Context, seq tokenseq.TokenSequence, n ast.Call) ([]*Match, error) {
	switch n.Op {
	case "match":
		if len(n.Args) != 2 {
			return nil, diagnostics.TypeError("match takes 2 arguments")
		}
		name, err := c.extractorName(n.Args[0])
		if err != nil {
			return nil, err
		}
		xs, err := c.eval(ctx, seq, n.Args[0])
		if err != nil {
			return nil, err
		}
		ss, err := c.evalStream(ctx, seq, n.Args[1])
		if err != nil {
			return nil, err
		}
		var out []*Match
		for _, x := range xs {
			for _, s := range ss {
				if s.Contains(x) {
					out = append(out, &Match{Seq: seq, Begin: x.Begin, End: x.End, Op: "match", Submatches: []*Match{cloneNamed(x, name)}})
					break
				}
			}
		}
		return out, nil

	case "select":
		if len(n.Args) != 2 {
			return nil, diagnostics.TypeError("select takes 2 arguments")
		}
		name, err := c.extractorName(n.Args[0])
		if err != nil {
			return nil, err
		}
		ss, err := c.evalStream(ctx, seq, n.Args[1])
		if err != nil {
			return nil, err
		}
		var out []*Match
		for _, s := range ss {
			collectNamed(s, name, &out)
		}
		return out, nil

	case "filter":
		return c.evalProximal(ctx, seq, n, func(s, x *Match) bool { return s.Contains(x) })

	case "prefix":
		return c.evalProximal(ctx, seq, n, func(s, x *Match) bool {
			sb, _ := s.Extent()
			_, xe := x.Extent()
			return xe == sb
		})

	case "suffix":
		return c.evalProximal(ctx, seq, n, func(s, x *Match) bool {
			_, se := s.Extent()
			xb, _ := x.Extent()
			return xb == se
		})

	case "near":
		if len(n.Args) != 3 {
			return nil, diagnostics.TypeError("near takes 3 arguments")
		}
		k, err := intArg(n.Args[1])
		if err != nil {
			return nil, err
		}
		return c.evalProximalK(ctx, seq, n.Args[0], n.Args[2], n.Inverted, func(s, x *Match) bool {
			sb, se := s.Extent()
			xb, xe := x.Extent()
			return (sb-xe >= 0 && sb-xe <= k) || (xb-se >= 0 && xb-se <= k)
		})

	case "precedes":
		if len(n.Args) != 3 {
			return nil, diagnostics.TypeError("precedes takes 3 arguments")
		}
		k, err := intArg(n.Args[1])
		if err != nil {
			return nil, err
		}
		return c.evalProximalK(ctx, seq, n.Args[0], n.Args[2], n.Inverted, func(s, x *Match) bool {
			sb, _ := s.Extent()
			_, xe := x.Extent()
			return sb-xe >= 0 && sb-xe <= k
		})

	case "follows":
		if len(n.Args) != 3 {
			return nil, diagnostics.TypeError("follows takes 3 arguments")
		}
		k, err := intArg(n.Args[1])
		if err != nil {
			return nil, err
		}
		return c.evalProximalK(ctx, seq, n.Args[0], n.Args[2], n.Inverted, func(s, x *Match) bool {
			_, se := s.Extent()
			xb, _ := x.Extent()
			return xb-se >= 0 && xb-se <= k
		})

	case "union":
		return c.evalUnion(ctx, seq, n.Args)

	case "inter":
		return c.evalInter(ctx, seq, n.Args)

	case "diff":
		return c.evalDiff(ctx, seq, n.Args)

	case "contains":
		return c.evalSetRel(ctx, seq, n.Args, func(a, b *Match) bool { return a.Contains(b) })

	case "overlaps":
		return c.evalSetRel(ctx, seq, n.Args, func(a, b *Match) bool { return a.Overlaps(b) })

	case "connects":
		return c.evalConnects(ctx, seq, n.Args)

	default:
		return nil, diagnostics.TypeError("unknown coordinator operator %q", n.Op)
	}
}

// collectNamed walks every descendant and descendant-of-descendant of m —
// its owning Submatches tree, field sets, and the cross-reference operator
// fields (Submatch/Left/Right/Supermatch) that connects/filter/etc. attach —
// collecting every node captured under name (spec.md §4.6 "all descendants
// and descendants-of-descendants").
func collectNamed(m *Match, name string, out *[]*Match) {
	for _, sub := range m.Submatches {
		if sub.Name == name {
			*out = append(*out, sub)
		}
		collectNamed(sub, name, out)
	}
	if vs, ok := m.Fields[name]; ok {
		*out = append(*out, vs...)
	}
	for fieldName, vs := range m.Fields {
		if fieldName == name {
			continue
		}
		for _, v := range vs {
			collectNamed(v, name, out)
		}
	}
	for _, cross := range []*Match{m.Submatch, m.Left, m.Right, m.Supermatch} {
		if cross == nil {
			continue
		}
		if cross.Name == name {
			*out = append(*out, cross)
		}
		collectNamed(cross, name, out)
	}
}

// evalProximal implements the filter/prefix/suffix family: one output per
// S-match that has (or, inverted, lacks) a matching X-match, per spec.md
// §4.5's filter-family table row.
func (c *Coordinator) evalProximal(ctx *Context, seq tokenseq.TokenSequence, n ast.Call, rel func(s, x *Match) bool) ([]*Match, error) {
	if len(n.Args) != 2 {
		return nil, diagnostics.TypeError("%s takes 2 arguments", n.Op)
	}
	return c.evalProximalK(ctx, seq, n.Args[0], n.Args[1], n.Inverted, rel)
}

func (c *Coordinator) evalProximalK(ctx *Context, seq tokenseq.TokenSequence, xArg, sArg ast.CoordExpr, inverted bool, rel func(s, x *Match) bool) ([]*Match, error) {
	name, err := c.extractorName(xArg)
	if err != nil {
		return nil, err
	}
	xs, err := c.eval(ctx, seq, xArg)
	if err != nil {
		return nil, err
	}
	ss, err := c.evalStream(ctx, seq, sArg)
	if err != nil {
		return nil, err
	}
	var out []*Match
	for _, s := range ss {
		var found *Match
		for _, x := range xs {
			if rel(s, x) {
				found = x
				break
			}
		}
		if (found != nil) == inverted {
			continue
		}
		sb, se := s.Extent()
		m := &Match{Seq: seq, Begin: sb, End: se, Op: "filter"}
		if !inverted {
			m.Submatches = []*Match{cloneNamed(found, name)}
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Coordinator) evalUnion(ctx *Context, seq tokenseq.TokenSequence, args []ast.CoordExpr) ([]*Match, error) {
	type group struct {
		lo, hi int
		ms     []*Match
	}
	var groups []*group
	index := map[[2]int]*group{}
	for _, arg := range args {
		ms, err := c.evalStream(ctx, seq, arg)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			lo, hi := m.Extent()
			key := [2]int{lo, hi}
			g, ok := index[key]
			if !ok {
				g = &group{lo: lo, hi: hi}
				index[key] = g
				groups = append(groups, g)
			}
			g.ms = append(g.ms, m)
		}
	}
	out := make([]*Match, 0, len(groups))
	for _, g := range groups {
		out = append(out, &Match{Seq: seq, Begin: g.lo, End: g.hi, Op: "union", Submatches: g.ms})
	}
	return out, nil
}

func (c *Coordinator) evalInter(ctx *Context, seq tokenseq.TokenSequence, args []ast.CoordExpr) ([]*Match, error) {
	if len(args) < 1 {
		return nil, diagnostics.TypeError("inter takes at least 1 argument")
	}
	first, err := c.evalStream(ctx, seq, args[0])
	if err != nil {
		return nil, err
	}
	rest := make([][]*Match, 0, len(args)-1)
	for _, arg := range args[1:] {
		ms, err := c.evalStream(ctx, seq, arg)
		if err != nil {
			return nil, err
		}
		rest = append(rest, ms)
	}
	var out []*Match
	for _, m := range first {
		coincident := []*Match{m}
		ok := true
		for _, other := range rest {
			var hit *Match
			for _, o := range other {
				if m.SameExtent(o) {
					hit = o
					break
				}
			}
			if hit == nil {
				ok = false
				break
			}
			coincident = append(coincident, hit)
		}
		if !ok {
			continue
		}
		lo, hi := m.Extent()
		out = append(out, &Match{Seq: seq, Begin: lo, End: hi, Op: "inter", Submatches: coincident})
	}
	return out, nil
}

func (c *Coordinator) evalDiff(ctx *Context, seq tokenseq.TokenSequence, args []ast.CoordExpr) ([]*Match, error) {
	if len(args) < 1 {
		return nil, diagnostics.TypeError("diff takes at least 1 argument")
	}
	first, err := c.evalStream(ctx, seq, args[0])
	if err != nil {
		return nil, err
	}
	rest := make([][]*Match, 0, len(args)-1)
	for _, arg := range args[1:] {
		ms, err := c.evalStream(ctx, seq, arg)
		if err != nil {
			return nil, err
		}
		rest = append(rest, ms)
	}
	var out []*Match
	for _, m := range first {
		found := false
		for _, other := range rest {
			for _, o := range other {
				if m.SameExtent(o) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if found {
			continue
		}
		lo, hi := m.Extent()
		out = append(out, &Match{Seq: seq, Begin: lo, End: hi, Op: "diff", Submatches: []*Match{m}})
	}
	return out, nil
}

func (c *Coordinator) evalSetRel(ctx *Context, seq tokenseq.TokenSequence, args []ast.CoordExpr, rel func(a, b *Match) bool) ([]*Match, error) {
	if len(args) != 2 {
		return nil, diagnostics.TypeError("expected 2 arguments")
	}
	s1, err := c.evalStream(ctx, seq, args[0])
	if err != nil {
		return nil, err
	}
	s2, err := c.evalStream(ctx, seq, args[1])
	if err != nil {
		return nil, err
	}
	var out []*Match
	for _, a := range s1 {
		for _, b := range s2 {
			if rel(a, b) {
				lo, hi := a.Extent()
				out = append(out, &Match{Seq: seq, Begin: lo, End: hi, Op: "setrel", Submatches: []*Match{b}})
				break
			}
		}
	}
	return out, nil
}

func (c *Coordinator) evalConnects(ctx *Context, seq tokenseq.TokenSequence, args []ast.CoordExpr) ([]*Match, error) {
	if len(args) != 3 {
		return nil, diagnostics.TypeError("connects takes 3 arguments")
	}
	xs, err := c.eval(ctx, seq, args[0])
	if err != nil {
		return nil, err
	}
	s1, err := c.evalStream(ctx, seq, args[1])
	if err != nil {
		return nil, err
	}
	s2, err := c.evalStream(ctx, seq, args[2])
	if err != nil {
		return nil, err
	}
	var out []*Match
	for _, x := range xs {
		var left, right *Match
		for _, s := range s1 {
			if containsPos(s, x.Begin) {
				left = s
				break
			}
		}
		if left == nil {
			continue
		}
		for _, s := range s2 {
			if containsPos(s, x.End) {
				right = s
				break
			}
		}
		if right == nil {
			continue
		}
		out = append(out, &Match{Seq: seq, Begin: x.Begin, End: x.End, Op: "connects", Left: left, Right: right, Submatch: x})
	}
	return out, nil
}
