package valet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vrules/valet"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/tokenseq"
)

const sampleSource = `
propnoun : pos[NN]
noun : { cat dog }
det : { the }
np -> &det &noun
c ~ match(np, _)
f $ frame(c, phrase = np)
`

func TestManagerParseStringAndApply(t *testing.T) {
	m := valet.New()
	if err := m.ParseString(sampleSource); err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	seq := tokenseq.NewSimple([]string{"the", "cat"})
	matches, err := m.Apply("np", seq)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(matches) != 1 || matches[0].Begin != 0 || matches[0].End != 2 {
		t.Fatalf("matches = %+v, want one [0,2)", matches)
	}
}

func TestManagerRequirements(t *testing.T) {
	m := valet.New()
	if err := m.ParseString(sampleSource); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	caps, err := m.Requirements("propnoun")
	if err != nil {
		t.Fatalf("Requirements: %v", err)
	}
	if !caps[config.CapPOS] {
		t.Fatalf("caps = %v, want pos capability", caps)
	}
}

func TestManagerFrames(t *testing.T) {
	m := valet.New()
	if err := m.ParseString(sampleSource); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	seq := tokenseq.NewSimple([]string{"the", "cat"})
	frames, err := m.Frames("f", seq)
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	field := frames[0].Fields["phrase"]
	if len(field) != 1 || field[0].Begin != 0 || field[0].End != 2 {
		t.Fatalf("field phrase = %+v, want one match [0,2)", field)
	}
}

func TestManagerFramesRejectsNonFrameExtractor(t *testing.T) {
	m := valet.New()
	if err := m.ParseString(sampleSource); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	seq := tokenseq.NewSimple([]string{"the", "cat"})
	if _, err := m.Frames("np", seq); err == nil {
		t.Fatalf("expected a TypeError for calling Frames on a phrase extractor")
	}
}

func TestManagerParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.vrules")
	if err := os.WriteFile(path, []byte(sampleSource), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := valet.New()
	if err := m.ParseFile(path); err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	seq := tokenseq.NewSimple([]string{"the", "dog"})
	matches, err := m.Apply("np", seq)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %+v, want 1", matches)
	}
}

func TestManagerApplyUnresolvedName(t *testing.T) {
	m := valet.New()
	if err := m.ParseString(sampleSource); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	seq := tokenseq.NewSimple([]string{"the", "cat"})
	if _, err := m.Apply("nope", seq); err == nil {
		t.Fatalf("expected an error resolving an undefined name")
	}
}
