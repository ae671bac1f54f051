package runtime

import (
	"github.com/vrules/valet/internal/binding"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/tokenseq"
)

// Bound wraps an Extractor declared with a binding qualifier ([a=b, ...]),
// pushing its Frame on entry and popping it on every exit path (spec.md
// §4.7 C9: "active for the entire invocation of that extractor and all
// transitive calls").
type Bound struct {
	Inner Extractor
	Frame *binding.Frame
}

func NewBound(inner Extractor, pairs map[string]string) *Bound {
	return &Bound{Inner: inner, Frame: binding.NewFrame(pairs)}
}

func (b *Bound) ExtractorName() string               { return b.Inner.ExtractorName() }
func (b *Bound) OwnCapability() config.Capability     { return b.Inner.OwnCapability() }
func (b *Bound) References() []string                 { return b.Inner.References() }
func (b *Bound) RefNamespace() *namespace.Namespace   { return b.Inner.RefNamespace() }

func (b *Bound) Matches(ctx *Context, seq tokenseq.TokenSequence) Stream {
	ctx.Binding.Push(b.Frame)
	defer ctx.Binding.Pop()
	return b.Inner.Matches(ctx, seq)
}
