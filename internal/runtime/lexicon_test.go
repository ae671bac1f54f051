package runtime_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vrules/valet/internal/namespace"
	"github.com/vrules/valet/internal/runtime"
	"github.com/vrules/valet/internal/tokenseq"
)

func TestNewLexiconMatchesAnyLine(t *testing.T) {
	ns := namespace.NewRoot("root")
	lex, err := runtime.NewLexicon("cities", ns, false, []string{"new york", "boston", "san francisco"})
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	ns.Define("cities", lex)

	seq := tokenseq.NewSimple([]string{"i", "love", "new", "york", "and", "boston"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(lex.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %+v, want 2 (new york, boston)", matches)
	}
}

func TestNewLexiconSkipsBlankLines(t *testing.T) {
	ns := namespace.NewRoot("root")
	lex, err := runtime.NewLexicon("words", ns, false, []string{"", "  ", "alpha"})
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	ns.Define("words", lex)

	seq := tokenseq.NewSimple([]string{"alpha", "beta"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(lex.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 1 || matches[0].Begin != 0 || matches[0].End != 1 {
		t.Fatalf("matches = %+v, want one [0,1)", matches)
	}
}

func TestNewLexiconEmptyNeverMatches(t *testing.T) {
	ns := namespace.NewRoot("root")
	lex, err := runtime.NewLexicon("empty", ns, false, nil)
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	ns.Define("empty", lex)

	seq := tokenseq.NewSimple([]string{"alpha"})
	ctx := runtime.NewContext()
	matches, err := runtime.Collect(lex.Matches(ctx, seq))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("matches = %+v, want none for an empty lexicon", matches)
	}
}

func TestLoadLinesFromFileTrimsAndSkipsBlank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	content := "  cat \n\n\tdog\t\n   \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lines, err := runtime.LoadLines(path)
	if err != nil {
		t.Fatalf("LoadLines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "cat" || lines[1] != "dog" {
		t.Fatalf("lines = %v, want [cat dog]", lines)
	}
}

func TestLoadLinesFromMissingFileErrors(t *testing.T) {
	if _, err := runtime.LoadLines(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected an error for a missing lexicon file")
	}
}

func TestLoadLinesFromSQLiteDefaultColumn(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "lex.db")

	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE cities (word TEXT)`); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}
	for _, w := range []string{"boston", "  chicago  ", ""} {
		if _, err := db.Exec(`INSERT INTO cities (word) VALUES (?)`, w); err != nil {
			t.Fatalf("INSERT: %v", err)
		}
	}
	db.Close()

	lines, err := runtime.LoadLines("sqlite:" + dbFile + "#cities")
	if err != nil {
		t.Fatalf("LoadLines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "boston" || lines[1] != "chicago" {
		t.Fatalf("lines = %v, want [boston chicago] (empty row skipped, whitespace trimmed)", lines)
	}
}

func TestLoadLinesFromSQLiteExplicitColumn(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "lex.db")

	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE terms (id INTEGER, name TEXT)`); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO terms (id, name) VALUES (1, 'widget')`); err != nil {
		t.Fatalf("INSERT: %v", err)
	}
	db.Close()

	lines, err := runtime.LoadLines("sqlite:" + dbFile + "#terms.name")
	if err != nil {
		t.Fatalf("LoadLines: %v", err)
	}
	if len(lines) != 1 || lines[0] != "widget" {
		t.Fatalf("lines = %v, want [widget]", lines)
	}
}

func TestLoadLinesMalformedSQLiteReference(t *testing.T) {
	if _, err := runtime.LoadLines("sqlite:nodbfile-no-hash"); err == nil {
		t.Fatalf("expected an error for a sqlite reference missing '#table'")
	}
}
