package config

// SourceFileExt is the canonical rule-file extension (spec.md §6).
const SourceFileExt = ".vrules"

// SourceFileExtensions are all recognized rule-file extensions. The import
// resolver does not consult this list.
var SourceFileExtensions = []string{".vrules", ".rules"}

// Well-known identifiers resolvable without any user declaration (spec.md
// §4.3 "Special names", §9 open question (iii)). ANY and ROOT live in a
// built-in namespace created at Manager construction; START/END are
// zero-width phrase-grammar atoms handled directly by the phrase compiler,
// not namespace entries.
const (
	BuiltinAny  = "ANY"
	BuiltinRoot = "ROOT"
	BuiltinStart = "START"
	BuiltinEnd   = "END"
)

// Names of the built-in data files shipped embedded with the engine,
// resolved last in the import path-lookup chain (spec.md §6).
const (
	BuiltinOrthoFile  = "ortho" + SourceFileExt
	BuiltinSyntaxFile = "syntax" + SourceFileExt
	BuiltinNERFile    = "ner" + SourceFileExt
)

// CLI exit codes (spec.md §6).
const (
	ExitMatches        = 0
	ExitNoMatches       = 1
	ExitParseError      = 2
	ExitResolutionError = 3
)
