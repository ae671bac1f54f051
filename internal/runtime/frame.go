package runtime

import (
	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/tokenseq"
)

// FrameExtractor implements C8 (spec.md §4.6): for each anchor match,
// builds a field -> match-set map by walking each field's selection path
// through nested select()s.
type FrameExtractor struct {
	Name   string
	NS     *namespace.Namespace
	Anchor ast.CoordExpr
	Fields []ast.FrameField

	coord *Coordinator
}

func NewFrameExtractor(name string, ns *namespace.Namespace, anchor ast.CoordExpr, fields []ast.FrameField) *FrameExtractor {
	return &FrameExtractor{
		Name: name, NS: ns, Anchor: anchor, Fields: fields,
		coord: NewCoordinator(name, ns, anchor),
	}
}

func (f *FrameExtractor) ExtractorName() string             { return f.Name }
func (f *FrameExtractor) OwnCapability() config.Capability   { return "" }
func (f *FrameExtractor) RefNamespace() *namespace.Namespace { return f.NS }

func (f *FrameExtractor) References() []string {
	refs := f.coord.References()
	for _, fld := range f.Fields {
		refs = append(refs, fld.Path...)
	}
	return refs
}

// Matches runs the anchor coordinator expression, then for each field walks
// its selection path: start from {a}, and for each path component p_ki,
// replace the working set with the union of every descendant (transitively)
// captured under name p_ki (spec.md §4.6). Empty terminal sets omit the
// field from the frame's Fields map.
func (f *FrameExtractor) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	anchors, err := f.coord.evalStream(ctx, seq, f.Anchor)
	if err != nil {
		return NewStream(func() (*Match, bool, error) { return nil, false, err })
	}
	var out []*Match
	for _, a := range anchors {
		frame := &Match{Seq: seq, Begin: a.Begin, End: a.End, Op: "frame", Fields: map[string][]*Match{}}
		for _, fld := range f.Fields {
			cur := []*Match{a}
			for _, p := range fld.Path {
				var next []*Match
				for _, m := range cur {
					collectNamed(m, p, &next)
				}
				cur = next
				if len(cur) == 0 {
					break
				}
			}
			if len(cur) > 0 {
				frame.Fields[fld.Name] = cur
			}
		}
		out = append(out, frame)
	}
	return FromSlice(sortByExtent(out))
}

// ExtractFrames collects f's matches, every one of which is frame-shaped
// (Op == "frame"). Manager.Frames does not call it; it runs Matches
// directly. A plain *Match is still returned since
// spec.md §3 defines Frame as "full Matches", not a distinct type.
func (f *FrameExtractor) ExtractFrames(ctx *Context, seq tokenseq.TokenSequence) ([]*Match, error) {
	return Collect(f.Matches(ctx, seq))
}
