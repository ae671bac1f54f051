package runtime

import (
	"github.com/google/uuid"

	"github.com/vrules/valet/internal/binding"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/tokenseq"
)

// Extractor is the full runtime surface a compiled rule exposes: the
// namespace-storable identity (namespace.Extractor) plus the ability to
// produce a match stream, plus enough of its static shape for the
// requirements pass (spec.md §9 "Requirements inference") to walk without
// re-parsing the rule body.
type Extractor interface {
	namespace.Extractor
	// Matches runs this extractor against seq under ctx, per spec.md §2
	// "C5/C6/C7/C8 each implement matches(TokenSequence, Context) →
	// Stream<Match>".
	Matches(ctx *Context, seq tokenseq.TokenSequence) Stream
	// OwnCapability is the capability this extractor itself demands (not
	// including referenced extractors), e.g. a Lookup token test demands
	// the annotation layer it names; a ParseExtractor demands CapParse.
	OwnCapability() config.Capability
	// References lists the extractor names this extractor's body refers to
	// directly (pre-binding), for the requirements-inference pass.
	References() []string
	// RefNamespace is the namespace References' names resolve relative to
	// (the namespace this extractor was defined in). Built-ins have none.
	RefNamespace() *namespace.Namespace
}

// recKey identifies one (extractor, start-position) pair for the cycle
// guard of spec.md §4.2 "Cycle detection".
type recKey struct {
	name  string
	begin int
}

// Context carries the per-invocation state threaded through one
// Manager.Apply/Frames call: the binding-qualifier stack (C9) and the
// recursion guard (spec.md §4.2). It is not safe for concurrent use by
// multiple goroutines (spec.md §5: "the per-invocation Context is
// thread-local").
type Context struct {
	Binding   *binding.Stack
	active    map[recKey]bool
	TraceID   string
}

// NewContext starts a fresh invocation context with a new trace ID (used
// to correlate diagnostics.Error values back to one Apply/Frames call).
func NewContext() *Context {
	return &Context{
		Binding: binding.NewStack(),
		active:  make(map[recKey]bool),
		TraceID: uuid.NewString(),
	}
}

// Enter registers (name, begin) as in-progress, returning an error if it is
// already active on the current call stack (RecursionError) and otherwise
// a leave function the caller must defer.
func (c *Context) Enter(name string, begin int) (leave func(), err error) {
	k := recKey{name: name, begin: begin}
	if c.active[k] {
		e := diagnostics.RecursionError(name, begin)
		e.TraceID = c.TraceID
		return nil, e
	}
	c.active[k] = true
	return func() { delete(c.active, k) }, nil
}
