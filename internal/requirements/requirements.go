// Package requirements implements spec.md §9's "Requirements inference"
// pass: Manager.requirements(name) traverses the extractor graph reachable
// from name and unions the NLP capabilities its members declare needing, so
// a TokenSequence provider can decide which annotation layers to populate
// before running an extraction.
//
// Grounded on internal/runtime's own Extractor.References()/OwnCapability()
// split (structural recursion over a reference graph, with a visited-set
// guard returning whatever was gathered so far on a cycle rather than
// erroring, spec.md §9 "does not attempt to detect all forms of recursive
// rule references statically").
package requirements

import (
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/runtime"
)

// For resolves the set of capabilities transitively required to run name,
// defined in ns.
func For(ns *namespace.Namespace, name string) (map[config.Capability]bool, error) {
	ext, err := ns.Resolve(name, nil)
	if err != nil {
		return nil, err
	}
	re, ok := ext.(runtime.Extractor)
	if !ok {
		return nil, diagnostics.TypeError("%q does not name an extractor", name)
	}
	caps := map[config.Capability]bool{}
	visited := map[string]bool{}
	collect(re, caps, visited)
	return caps, nil
}

func collect(re runtime.Extractor, caps map[config.Capability]bool, visited map[string]bool) {
	key := re.ExtractorName()
	if visited[key] {
		return
	}
	visited[key] = true

	if c := re.OwnCapability(); c != "" {
		caps[c] = true
	}

	scope := re.RefNamespace()
	if scope == nil {
		return
	}
	for _, refName := range re.References() {
		ext, err := scope.Resolve(refName, nil)
		if err != nil {
			continue
		}
		if other, ok := ext.(runtime.Extractor); ok {
			collect(other, caps, visited)
		}
	}
}
