package cliseq_test

import (
	"strings"
	"testing"

	"github.com/vrules/valet/internal/cliseq"
	"github.com/vrules/valet/internal/tokenseq"
)

func TestLoadTokensAndLayers(t *testing.T) {
	doc := `{
		"tokens": ["the", "cat", "sat"],
		"layers": {"pos": ["DT", "NN", "VBD"]}
	}`
	seq, err := cliseq.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", seq.Len())
	}
	if seq.Token(1) != "cat" {
		t.Fatalf("Token(1) = %q, want %q", seq.Token(1), "cat")
	}
	if !seq.HasLayer("pos") {
		t.Fatalf("HasLayer(pos) = false, want true")
	}
	tags := seq.Tags("pos", 1)
	if len(tags) != 1 || tags[0] != "NN" {
		t.Fatalf("Tags(pos, 1) = %v, want [NN]", tags)
	}
}

func TestLoadEdgesDefaultDirection(t *testing.T) {
	doc := `{
		"tokens": ["Apple", "bought", "Spotify"],
		"edges": [
			{"from": 0, "to": 1, "label": "nsubj"},
			{"from": 2, "to": 1, "label": "dobj", "dir": "parent_to_child"}
		],
		"root": 1
	}`
	seq, err := cliseq.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !seq.HasParse() {
		t.Fatalf("HasParse() = false, want true (root was set)")
	}
	root, ok := seq.Root()
	if !ok || root != 1 {
		t.Fatalf("Root() = (%d, %v), want (1, true)", root, ok)
	}
	edges := seq.EdgesAt(1)
	if len(edges) != 2 {
		t.Fatalf("EdgesAt(1) = %v, want 2 edges", edges)
	}
	if edges[0].Dir != tokenseq.DirChildToParent || edges[1].Dir != tokenseq.DirParentToChild {
		t.Fatalf("EdgesAt(1) dirs = %v, %v, want child-to-parent (the default) then parent-to-child", edges[0].Dir, edges[1].Dir)
	}
}

func TestLoadRejectsOutOfRangeEdge(t *testing.T) {
	doc := `{"tokens": ["a", "b"], "edges": [{"from": 0, "to": 5, "label": "x"}]}`
	_, err := cliseq.Load(strings.NewReader(doc))
	if err == nil {
		t.Fatalf("expected an error for an edge referencing an out-of-range token")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := cliseq.Load(strings.NewReader("not json"))
	if err == nil {
		t.Fatalf("expected a decode error for malformed JSON")
	}
}

func TestLoadEmptyLayerTagOmitted(t *testing.T) {
	doc := `{"tokens": ["a", "b"], "layers": {"pos": ["NN", ""]}}`
	seq, err := cliseq.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tags := seq.Tags("pos", 1); len(tags) != 0 {
		t.Fatalf("Tags(pos, 1) = %v, want empty for a blank tag", tags)
	}
}
