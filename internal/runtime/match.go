// Package runtime implements the extractor variants of spec.md §4.3-§4.7
// (C4-C8): token tests, phrase/parse extractors, the coordinator algebra
// and frame builder, all producing the Match graph of spec.md §3 over a
// lazy Stream.
//
// Grounded on the teacher's internal/evaluator package, which is likewise
// "one interpreter, many expression kinds dispatched by type switch" —
// here the kinds are extractor variants instead of expression AST nodes,
// and the result is a Match rather than a runtime Value.
package runtime

import "github.com/vrules/valet/internal/tokenseq"

// Match is one extraction result (spec.md §3 "Match"). Parent-to-child
// (Submatches) is the owning edge; Supermatch/Submatch/Left/Right/Fields
// are non-owning cross-references within the same extraction's match
// arena, populated only by the coordinator/frame operators that define
// them.
type Match struct {
	Seq   tokenseq.TokenSequence
	Begin int
	End   int

	// Name is set when this match was captured via a `&name`/`@name`
	// reference inside a phrase/parse expression (spec.md §4.4's "Reference
	// transitions carry the referenced name").
	Name string

	Submatches []*Match

	Supermatch *Match
	Submatch   *Match
	Left       *Match
	Right      *Match
	Op         string
	Fields     map[string][]*Match
}

// Extent normalizes Begin/End for coordinator comparisons: arc matches
// (parse origin) may have Begin > End (direction encoded by ordering,
// spec.md §3); extent is always the ascending [lo, hi) pair.
func (m *Match) Extent() (int, int) {
	if m.Begin <= m.End {
		return m.Begin, m.End
	}
	return m.End, m.Begin
}

// SameExtent reports whether m and other normalize to the same range —
// the sole criterion coordinators use for "same match" (spec.md §3).
func (m *Match) SameExtent(other *Match) bool {
	a1, a2 := m.Extent()
	b1, b2 := other.Extent()
	return a1 == b1 && a2 == b2
}

// Contains reports whether m's extent fully contains other's.
func (m *Match) Contains(other *Match) bool {
	a1, a2 := m.Extent()
	b1, b2 := other.Extent()
	return a1 <= b1 && b2 <= a2
}

// Overlaps reports whether m's extent intersects other's.
func (m *Match) Overlaps(other *Match) bool {
	a1, a2 := m.Extent()
	b1, b2 := other.Extent()
	return a1 < b2 && b1 < a2
}

// Stream is a cooperative, pull-based lazy iterator of Matches (spec.md §5
// "Match streams are lazy iterators"). Next returns (nil, false, nil) at
// exhaustion and (nil, false, err) on failure; callers must stop pulling on
// either.
type Stream struct {
	pull func() (*Match, bool, error)
}

// NewStream wraps an arbitrary pull function as a Stream.
func NewStream(pull func() (*Match, bool, error)) Stream {
	return Stream{pull: pull}
}

// Next advances the stream by one match.
func (s Stream) Next() (*Match, bool, error) {
	if s.pull == nil {
		return nil, false, nil
	}
	return s.pull()
}

// FromSlice builds a Stream that yields ms in order, then exhausts.
func FromSlice(ms []*Match) Stream {
	i := 0
	return NewStream(func() (*Match, bool, error) {
		if i >= len(ms) {
			return nil, false, nil
		}
		m := ms[i]
		i++
		return m, true, nil
	})
}

// Collect drains s into a slice. Most coordinator operators need every
// match of at least one operand stream to decide membership (e.g. "is
// there an S2-match with this extent"), so laziness is preserved at the
// operator boundary (the operator itself still returns a Stream) while its
// implementation collects what it must.
func Collect(s Stream) ([]*Match, error) {
	var out []*Match
	for {
		m, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, m)
	}
}
