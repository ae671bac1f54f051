// Package cliseq loads a tokenseq.TokenSequence from the JSON document
// format the cmd/valet CLI accepts on its input: tokenization and
// annotation are external collaborators (spec.md §1 "Out of scope"), so
// the CLI's only job is to read an already-annotated document and hand it
// to a Manager.
package cliseq

import (
	"encoding/json"
	"io"

	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/tokenseq"
)

// Document is the on-disk shape: a token list, zero or more named
// annotation layers (e.g. "pos", "ner"), and an optional dependency parse.
type Document struct {
	Tokens []string            `json:"tokens"`
	Layers map[string][]string `json:"layers"`
	Edges  []edgeDoc           `json:"edges"`
	Root   *int                `json:"root"`
}

type edgeDoc struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label"`
	// Dir is "child_to_parent" (From is the dependent) or
	// "parent_to_child" (From is the head). Defaults to child_to_parent.
	Dir string `json:"dir"`
}

// Load reads a Document from r and builds a tokenseq.Simple from it.
func Load(r io.Reader) (*tokenseq.Simple, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, diagnostics.IOError("decoding input document: %v", err)
	}
	return build(&doc)
}

func build(doc *Document) (*tokenseq.Simple, error) {
	seq := tokenseq.NewSimple(doc.Tokens)

	for name, tags := range doc.Layers {
		perToken := make([][]string, len(doc.Tokens))
		for i := range perToken {
			if i < len(tags) && tags[i] != "" {
				perToken[i] = []string{tags[i]}
			}
		}
		seq.SetLayer(name, perToken)
	}

	for _, e := range doc.Edges {
		if e.From < 0 || e.From >= len(doc.Tokens) || e.To < 0 || e.To >= len(doc.Tokens) {
			return nil, diagnostics.IOError("dependency edge references out-of-range token: %+v", e)
		}
		dir := tokenseq.DirChildToParent
		if e.Dir == "parent_to_child" {
			dir = tokenseq.DirParentToChild
		}
		seq.AddEdge(tokenseq.Edge{From: e.From, To: e.To, Label: e.Label, Dir: dir})
	}

	if doc.Root != nil {
		seq.SetRoot(*doc.Root)
	}

	return seq, nil
}
