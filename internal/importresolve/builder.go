// Package importresolve builds a namespace tree of compiled extractors
// (internal/runtime) from parsed rule sources (internal/ast), resolving
// `<-` imports and lexicon paths along spec.md §4.8's 3-tier chain:
// current working directory, the importing file's directory, and a
// built-in data directory shipped embedded with the engine.
//
// This is a layer above internal/runtime: runtime's constructors
// (NewTokenTest, NewLexicon, ...) take already-resolved content, and path
// resolution and the embedded built-in data live only in this package.
// Reading a resolved lexicon file (flat text or sqlite) is done by
// runtime.LoadLines, which this package calls.
package importresolve

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/parser"
	"github.com/vrules/valet/internal/runtime"
)

//go:embed data/*.vrules
var builtinData embed.FS

// location is a resolved import/lexicon path: either a real filesystem
// path or a name inside the embedded built-in data directory.
type location struct {
	embed bool
	path  string
}

func (l location) key() string {
	if l.embed {
		return "embed:" + l.path
	}
	return l.path
}

// Builder accumulates the namespace tree built from one or more loaded
// rule sources. The zero value is not usable; use NewBuilder.
type Builder struct {
	Root    *namespace.Namespace
	loading map[string]bool
}

// NewBuilder creates a root namespace pre-populated with the built-in ANY
// and ROOT names (spec.md §9 Open Question iii).
func NewBuilder() *Builder {
	root := namespace.NewRoot("root")
	root.Define(config.BuiltinAny, runtime.NewAnyTokenTest())
	root.Define(config.BuiltinRoot, runtime.NewRootTokenTest())
	return &Builder{Root: root, loading: make(map[string]bool)}
}

// LoadFile parses path and builds its statements directly into the
// builder's root namespace (spec.md §6 "Manager.parse_file(path)").
func (b *Builder) LoadFile(path string) error {
	loc, err := b.resolve(path, "")
	if err != nil {
		return err
	}
	return b.loadLocation(b.Root, loc)
}

// LoadString parses source with no originating file (so relative imports
// within it only resolve against cwd and the built-in data directory) and
// builds its statements into the root namespace.
func (b *Builder) LoadString(source string) error {
	stmts, err := parser.New("<string>").ParseString(source)
	if err != nil {
		return err
	}
	return b.build(b.Root, stmts, "")
}

func (b *Builder) loadLocation(ns *namespace.Namespace, loc location) error {
	key := loc.key()
	if b.loading[key] {
		return diagnostics.IOError("import cycle detected at %q", loc.path)
	}
	b.loading[key] = true
	defer delete(b.loading, key)

	data, err := b.read(loc)
	if err != nil {
		return err
	}
	stmts, err := parser.New(loc.path).ParseString(data)
	if err != nil {
		return err
	}
	dir := ""
	if !loc.embed {
		dir = filepath.Dir(loc.path)
	}
	return b.build(ns, stmts, dir)
}

// build compiles stmts (already parsed) into ns, whose relative imports
// and lexicon paths resolve against dir (the directory of the file stmts
// came from, or "" for a string/namespace-block source with no file).
func (b *Builder) build(ns *namespace.Namespace, stmts []ast.Statement, dir string) error {
	for _, stmt := range stmts {
		if err := b.buildOne(ns, stmt, dir); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildOne(ns *namespace.Namespace, stmt ast.Statement, dir string) error {
	switch n := stmt.(type) {
	case *ast.TokenTestDecl:
		files, err := b.collectLexiconFiles(n.Body, dir)
		if err != nil {
			return err
		}
		tt, err := runtime.NewTokenTest(n.Name, ns, n.CaseInsensitive, n.Body, files)
		if err != nil {
			return err
		}
		ns.Define(n.Name, tt)

	case *ast.PhraseDecl:
		ph := runtime.NewPhrase(n.Name, ns, n.CaseInsensitive, n.Body)
		ns.Define(n.Name, bind(ph, n.Binding))

	case *ast.ParseDecl:
		pe := runtime.NewParseExtractor(n.Name, ns, n.Body)
		ns.Define(n.Name, bind(pe, n.Binding))

	case *ast.LexiconDecl:
		lines, err := b.loadLexiconLines(n.Path, dir)
		if err != nil {
			return err
		}
		lx, err := runtime.NewLexicon(n.Name, ns, n.CaseInsensitive, lines)
		if err != nil {
			return err
		}
		ns.Define(n.Name, lx)

	case *ast.CoordinatorDecl:
		co := runtime.NewCoordinator(n.Name, ns, n.Body)
		ns.Define(n.Name, bind(co, n.Binding))

	case *ast.FrameDecl:
		fr := runtime.NewFrameExtractor(n.Name, ns, n.Body.Anchor, n.Body.Fields)
		ns.Define(n.Name, bind(fr, n.Binding))

	case *ast.ImportDecl:
		if n.Namespace {
			child := ns.NewChild(n.Name)
			return b.build(child, n.Children, dir)
		}
		loc, err := b.resolve(n.Path, dir)
		if err != nil {
			return err
		}
		child := ns.NewChild(n.Name)
		return b.loadLocation(child, loc)
	}
	return nil
}

// bind wraps e in runtime.Bound when pairs declares a binding qualifier,
// returning e unwrapped otherwise.
func bind(e runtime.Extractor, pairs []ast.BindPair) runtime.Extractor {
	if len(pairs) == 0 {
		return e
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.From] = p.To
	}
	return runtime.NewBound(e, m)
}

// collectLexiconFiles walks a token-test body collecting every distinct
// f{path} lexicon-file reference and loading its word list.
func (b *Builder) collectLexiconFiles(e ast.TokenTestExpr, dir string) (map[string][]string, error) {
	files := make(map[string][]string)
	var walk func(ast.TokenTestExpr) error
	walk = func(e ast.TokenTestExpr) error {
		switch n := e.(type) {
		case ast.OrTest:
			if err := walk(n.Left); err != nil {
				return err
			}
			return walk(n.Right)
		case ast.AndTest:
			if err := walk(n.Left); err != nil {
				return err
			}
			return walk(n.Right)
		case ast.NotTest:
			return walk(n.X)
		case ast.LexiconFileTest:
			if _, ok := files[n.Path]; ok {
				return nil
			}
			lines, err := b.loadLexiconLines(n.Path, dir)
			if err != nil {
				return err
			}
			files[n.Path] = lines
		}
		return nil
	}
	if err := walk(e); err != nil {
		return nil, err
	}
	return files, nil
}

// loadLexiconLines resolves path (unless it is a sqlite: DSN, which
// runtime.LoadLines handles directly with no filesystem resolution) and
// returns its lines.
func (b *Builder) loadLexiconLines(path, dir string) ([]string, error) {
	if strings.HasPrefix(path, "sqlite:") {
		return runtime.LoadLines(path)
	}
	loc, err := b.resolve(path, dir)
	if err != nil {
		return nil, err
	}
	if loc.embed {
		data, err := b.read(loc)
		if err != nil {
			return nil, err
		}
		return splitLines(data), nil
	}
	return runtime.LoadLines(loc.path)
}

func splitLines(data string) []string {
	var out []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// resolve implements spec.md §4.8's 3-tier lookup: current working
// directory, then the importing file's directory, then the embedded
// built-in data directory (matched by base name).
func (b *Builder) resolve(path, importingDir string) (location, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return location{path: path}, nil
		}
		return location{}, diagnostics.IOError("import not found: %s", path)
	}
	if _, err := os.Stat(path); err == nil {
		abs, _ := filepath.Abs(path)
		return location{path: abs}, nil
	}
	if importingDir != "" {
		cand := filepath.Join(importingDir, path)
		if _, err := os.Stat(cand); err == nil {
			abs, _ := filepath.Abs(cand)
			return location{path: abs}, nil
		}
	}
	base := filepath.Base(path)
	if _, err := builtinData.ReadFile("data/" + base); err == nil {
		return location{embed: true, path: "data/" + base}, nil
	}
	return location{}, diagnostics.IOError("import not found along resolution chain (cwd, importing file's directory, built-in data): %s", path)
}

func (b *Builder) read(loc location) (string, error) {
	if loc.embed {
		data, err := builtinData.ReadFile(loc.path)
		if err != nil {
			return "", diagnostics.IOError("%v", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(loc.path)
	if err != nil {
		return "", diagnostics.IOError("%v", err)
	}
	return string(data), nil
}
