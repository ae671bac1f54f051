package runtime

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vrules/valet/internal/ast"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/namespace"
)

// NewLexicon builds a Phrase extractor for a `L->`/`Li->` statement: one
// alternation over literal token sequences, one per non-blank line. Each
// line is split on whitespace (strings.Fields) and by nothing else; the
// tokenizer that produced the input sequence is not applied. lines has
// already been resolved and loaded by the caller (internal/importresolve).
func NewLexicon(name string, ns *namespace.Namespace, ci bool, lines []string) (*Phrase, error) {
	alts := make([]ast.PhraseExpr, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		seq := make([]ast.PhraseExpr, len(words))
		for i, w := range words {
			seq[i] = ast.Literal{Text: w}
		}
		if len(seq) == 1 {
			alts = append(alts, seq[0])
		} else {
			alts = append(alts, ast.Concat{Seq: seq})
		}
	}
	var body ast.PhraseExpr
	switch len(alts) {
	case 0:
		// END followed by ANY can never match, so an empty lexicon
		// produces no matches.
		body = ast.Concat{Seq: []ast.PhraseExpr{ast.Ref{Name: config.BuiltinEnd}, ast.Ref{Name: config.BuiltinAny}}}
	case 1:
		body = alts[0]
	default:
		body = ast.Alt{Alts: alts}
	}
	return NewPhrase(name, ns, ci, body), nil
}

// LoadLines reads one lexicon item per line from a flat file, or, when path
// is of the form "sqlite:<dbfile>#<table>[.<column>]", queries a SQLite
// table for them (spec.md §4.4 enrichment: see DESIGN.md). Blank lines and
// lines consisting only of whitespace are skipped.
func LoadLines(path string) ([]string, error) {
	if rest, ok := strings.CutPrefix(path, "sqlite:"); ok {
		return loadSQLiteLines(rest)
	}
	return loadFileLines(path)
}

func loadFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func loadSQLiteLines(ref string) ([]string, error) {
	dbFile, selector, ok := strings.Cut(ref, "#")
	if !ok {
		return nil, fmt.Errorf("runtime: malformed sqlite lexicon reference %q, want sqlite:<dbfile>#<table>[.<column>]", ref)
	}
	table, column, hasColumn := strings.Cut(selector, ".")
	if !hasColumn {
		column = "word"
	}

	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s", column, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, v)
		}
	}
	return lines, rows.Err()
}
