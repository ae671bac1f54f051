package tokenseq_test

import (
	"reflect"
	"testing"

	"github.com/vrules/valet/internal/tokenseq"
)

func TestNewSimpleJoinsWithSpacesAndTracksOffsets(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"the", "quick", "fox"})
	if seq.Text() != "the quick fox" {
		t.Fatalf("Text() = %q, want %q", seq.Text(), "the quick fox")
	}
	if seq.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", seq.Len())
	}
	start, length := seq.Offset(1)
	if start != 4 || length != 5 {
		t.Fatalf("Offset(1) = (%d,%d), want (4,5)", start, length)
	}
}

func TestSimpleTokenOutOfRangeReturnsEmpty(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"a"})
	if got := seq.Token(-1); got != "" {
		t.Fatalf("Token(-1) = %q, want empty", got)
	}
	if got := seq.Token(5); got != "" {
		t.Fatalf("Token(5) = %q, want empty", got)
	}
}

func TestSimpleOffsetOutOfRangeReturnsZero(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"a"})
	start, length := seq.Offset(5)
	if start != 0 || length != 0 {
		t.Fatalf("Offset(5) = (%d,%d), want (0,0)", start, length)
	}
}

func TestSimpleLayersAndTags(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"the", "cat", "sat"})
	if seq.HasLayer("pos") {
		t.Fatalf("HasLayer(pos) = true before SetLayer")
	}
	seq.SetLayer("pos", [][]string{{"DT"}, {"NN"}, {"VB"}})
	if !seq.HasLayer("pos") {
		t.Fatalf("HasLayer(pos) = false after SetLayer")
	}
	if got := seq.Tags("pos", 1); !reflect.DeepEqual(got, []string{"NN"}) {
		t.Fatalf("Tags(pos,1) = %v, want [NN]", got)
	}
	if got := seq.Tags("pos", 9); got != nil {
		t.Fatalf("Tags(pos,9) = %v, want nil for an out-of-range index", got)
	}
	if got := seq.Tags("ner", 0); got != nil {
		t.Fatalf("Tags(ner,0) = %v, want nil for an absent layer", got)
	}
}

func TestSimpleEdgesIndexedAtBothEndpoints(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"Apple", "bought", "Spotify"})
	e := tokenseq.Edge{From: 1, To: 0, Label: "nsubj", Dir: tokenseq.DirChildToParent}
	seq.AddEdge(e)

	atVerb := seq.EdgesAt(1)
	if len(atVerb) != 1 || atVerb[0] != e {
		t.Fatalf("EdgesAt(1) = %v, want [%v]", atVerb, e)
	}
	atSubj := seq.EdgesAt(0)
	if len(atSubj) != 1 || atSubj[0] != e {
		t.Fatalf("EdgesAt(0) = %v, want [%v]", atSubj, e)
	}
	if got := seq.EdgesAt(2); got != nil {
		t.Fatalf("EdgesAt(2) = %v, want nil (no edges touch Spotify)", got)
	}
}

func TestSimpleSelfEdgeIndexedOnce(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"root"})
	seq.AddEdge(tokenseq.Edge{From: 0, To: 0, Label: "root"})
	if got := seq.EdgesAt(0); len(got) != 1 {
		t.Fatalf("EdgesAt(0) = %v, want exactly one edge for a self-loop", got)
	}
}

func TestSimpleRootDefaultsToAbsent(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"a", "b"})
	if seq.HasParse() {
		t.Fatalf("HasParse() = true before SetRoot")
	}
	if _, ok := seq.Root(); ok {
		t.Fatalf("Root() ok = true before SetRoot")
	}

	seq.SetRoot(1)
	if !seq.HasParse() {
		t.Fatalf("HasParse() = false after SetRoot")
	}
	idx, ok := seq.Root()
	if !ok || idx != 1 {
		t.Fatalf("Root() = (%d,%v), want (1,true)", idx, ok)
	}
}

func TestSimpleEdgesAtOutOfRangeReturnsNil(t *testing.T) {
	seq := tokenseq.NewSimple([]string{"a"})
	if got := seq.EdgesAt(-1); got != nil {
		t.Fatalf("EdgesAt(-1) = %v, want nil", got)
	}
	if got := seq.EdgesAt(10); got != nil {
		t.Fatalf("EdgesAt(10) = %v, want nil", got)
	}
}
