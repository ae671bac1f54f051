package config

// Capability identifies one kind of linguistic annotation an extractor may
// require its TokenSequence to carry (spec.md §6 "Manager.requirements").
type Capability string

const (
	CapPOS   Capability = "pos"
	CapNER   Capability = "ner"
	CapParse Capability = "parse"
)

// AllCapabilities lists every capability the engine can require, in a
// stable order for deterministic Set rendering.
var AllCapabilities = []Capability{CapPOS, CapNER, CapParse}
