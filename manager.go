// Package valet is the public entry point described by spec.md §6
// ("Programmatic interface exposed by the core"): load rule sources,
// inspect an extractor's capability requirements, and run it against a
// TokenSequence.
package valet

import (
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/importresolve"
	"github.com/vrules/valet/internal/requirements"
	"github.com/vrules/valet/internal/runtime"
	"github.com/vrules/valet/internal/tokenseq"
)

// Capability re-exports internal/config.Capability so callers outside the
// module never need to import an internal package to read a requirements
// set.
type Capability = config.Capability

// Match re-exports internal/runtime.Match, the public result type of
// Apply/Frames.
type Match = runtime.Match

// Manager holds a compiled tree of rule extractors (spec.md §3
// "Namespace"), built once from one or more rule sources and then safe for
// concurrent use across extractions (spec.md §5: "a compiled Manager is
// immutable during extraction and therefore safely sharable across
// threads").
type Manager struct {
	b *importresolve.Builder
}

// New creates an empty Manager, pre-populated only with the built-in ANY
// and ROOT names.
func New() *Manager {
	return &Manager{b: importresolve.NewBuilder()}
}

// ParseFile loads path's declarations into the Manager, raising a
// diagnostics.Error of CodeParseError on malformed input or CodeIOError if
// path cannot be resolved (spec.md §6 "Manager.parse_file(path)").
func (m *Manager) ParseFile(path string) error {
	return m.b.LoadFile(path)
}

// ParseString loads source's declarations into the Manager (spec.md §6
// "Manager.parse_string(s)").
func (m *Manager) ParseString(source string) error {
	return m.b.LoadString(source)
}

// Requirements returns the set of capabilities name's extractor (and
// everything it transitively references) demands, for a TokenSequence
// provider to decide which NLP layers to populate before calling Apply
// (spec.md §6 "Manager.requirements(name)").
func (m *Manager) Requirements(name string) (map[Capability]bool, error) {
	return requirements.For(m.b.Root, name)
}

// Apply runs name against seq and returns every match, in the deterministic
// order defined by spec.md §5 "Ordering" (spec.md §6 "Manager.apply(name,
// tokseq)").
func (m *Manager) Apply(name string, seq tokenseq.TokenSequence) ([]*Match, error) {
	ext, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	ctx := runtime.NewContext()
	return runtime.Collect(ext.Matches(ctx, seq))
}

// Frames runs name against seq, requiring it to be a frame extractor
// (spec.md §6 "Manager.frames(name, tokseq): restricted variant for frame
// extractors"). A name that does not resolve to a frame extractor (bare or
// wrapped in a binding qualifier) is rejected with a TypeError before
// anything runs.
func (m *Manager) Frames(name string, seq tokenseq.TokenSequence) ([]*Match, error) {
	ext, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	if _, ok := ext.(*runtime.FrameExtractor); !ok {
		if b, ok := ext.(*runtime.Bound); ok {
			if _, ok := b.Inner.(*runtime.FrameExtractor); !ok {
				return nil, diagnostics.TypeError("%q is not a frame extractor", name)
			}
		} else {
			return nil, diagnostics.TypeError("%q is not a frame extractor", name)
		}
	}
	ctx := runtime.NewContext()
	return runtime.Collect(ext.Matches(ctx, seq))
}

func (m *Manager) lookup(name string) (runtime.Extractor, error) {
	e, err := m.b.Root.Resolve(name, nil)
	if err != nil {
		return nil, err
	}
	ext, ok := e.(runtime.Extractor)
	if !ok {
		return nil, diagnostics.TypeError("%q does not name an extractor", name)
	}
	return ext, nil
}
