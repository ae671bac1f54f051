package nfa

// RefResult is one candidate way an OpRef instruction can consume input:
// ending at Pos, carrying an opaque Capture value the Alphabet's owner
// attaches as that path's submatch (spec.md §4.4: "Reference transitions
// carry the referenced name ... to be used as the submatch name").
type RefResult struct {
	Pos     int
	Capture interface{}
}

// Alphabet lets one Program drive two different substrates: a linear token
// stream (phrase extractors, spec.md §4.3) or a dependency-edge walk (parse
// extractors, spec.md §4.4 cont). Positions are opaque ints the Alphabet
// assigns meaning to (a token index, or a dependency-tree node index).
type Alphabet interface {
	// MatchChar reports every position reachable by consuming one alphabet
	// symbol equal to text (case-folding is the Alphabet's concern) in
	// direction dir (0 = either) starting from pos. Phrase alphabets return
	// at most one candidate (pos+1); parse alphabets may return several
	// (multiple edges with the same label reachable from one node).
	MatchChar(pos int, text string, dir byte) []int
	// MatchRef defers to another extractor named ref, returning every
	// position (and associated capture) it could leave execution at
	// (greedy/longest first) starting from pos, in direction dir. An error
	// aborts the whole match attempt (e.g. RecursionError, UnresolvedName).
	MatchRef(pos int, ref string, dir byte) ([]RefResult, error)
}

// Run attempts to match p starting at pos. It returns the first accepting
// path the executor discovers; Split always explores its greedy branch (X)
// before its alternative (Y), and OpRef/OpChar candidates are tried in the
// order the Alphabet returns them, so "first" means "highest priority" per
// spec.md §9 Open Question ii.
func Run(p *Program, a Alphabet, startPos int) (end int, captures []interface{}, ok bool, err error) {
	e := &executor{p: p, a: a}
	return e.step(0, startPos, map[int64]bool{})
}

type executor struct {
	p *Program
	a Alphabet
}

// step explores instruction pc at position pos. seen guards against
// infinite epsilon loops (Split/Jmp cycles that revisit the same pc without
// consuming input); it is reset to a fresh set whenever OpChar/OpRef
// advances pos, since a loop is only a problem if it repeats with no
// progress.
func (e *executor) step(pc, pos int, seen map[int64]bool) (int, []interface{}, bool, error) {
	key := int64(pc)<<32 | int64(uint32(pos))
	if seen[key] {
		return 0, nil, false, nil
	}
	seen[key] = true

	inst := e.p.Insts[pc]
	switch inst.Op {
	case OpMatch:
		return pos, nil, true, nil

	case OpJmp:
		return e.step(inst.X, pos, seen)

	case OpSplit:
		if end, caps, ok, err := e.step(inst.X, pos, seen); err != nil || ok {
			return end, caps, ok, err
		}
		return e.step(inst.Y, pos, seen)

	case OpChar:
		for _, next := range e.a.MatchChar(pos, inst.Text, inst.Dir) {
			if end, caps, ok, err := e.step(inst.X, next, map[int64]bool{}); err != nil || ok {
				return end, caps, ok, err
			}
		}
		return 0, nil, false, nil

	case OpRef:
		candidates, err := e.a.MatchRef(pos, inst.Ref, inst.Dir)
		if err != nil {
			return 0, nil, false, err
		}
		for _, cand := range candidates {
			end, caps, ok, err := e.step(inst.X, cand.Pos, map[int64]bool{})
			if err != nil {
				return 0, nil, false, err
			}
			if ok {
				return end, append([]interface{}{cand.Capture}, caps...), true, nil
			}
		}
		return 0, nil, false, nil
	}
	panic("nfa: unknown opcode")
}

// Result is one accepting walk found by RunAll.
type Result struct {
	End      int
	Captures []interface{}
}

// RunAll enumerates every accepting walk from startPos, rather than only
// the highest-priority one, in priority order. Parse extractors emit every
// walk it returns; phrase extractors keep only the longest (the first of
// several equally long ones), since the highest-priority run Run returns
// is not always the longest.
func RunAll(p *Program, a Alphabet, startPos int) ([]Result, error) {
	e := &executor{p: p, a: a}
	return e.allStep(0, startPos, map[int64]bool{})
}

// allStep mirrors step's structure but collects every accepting continuation
// instead of stopping at the first. The seen guard is still shared across
// Split's two branches: a given (pc, pos) pair's reachable set of
// (end, captures) results depends only on pc and pos, never on how
// execution arrived there, so revisiting it contributes nothing new and is
// safe to prune.
func (e *executor) allStep(pc, pos int, seen map[int64]bool) ([]Result, error) {
	key := int64(pc)<<32 | int64(uint32(pos))
	if seen[key] {
		return nil, nil
	}
	seen[key] = true

	inst := e.p.Insts[pc]
	switch inst.Op {
	case OpMatch:
		return []Result{{End: pos}}, nil

	case OpJmp:
		return e.allStep(inst.X, pos, seen)

	case OpSplit:
		xs, err := e.allStep(inst.X, pos, seen)
		if err != nil {
			return nil, err
		}
		ys, err := e.allStep(inst.Y, pos, seen)
		if err != nil {
			return nil, err
		}
		return append(xs, ys...), nil

	case OpChar:
		var out []Result
		for _, next := range e.a.MatchChar(pos, inst.Text, inst.Dir) {
			rs, err := e.allStep(inst.X, next, map[int64]bool{})
			if err != nil {
				return nil, err
			}
			out = append(out, rs...)
		}
		return out, nil

	case OpRef:
		candidates, err := e.a.MatchRef(pos, inst.Ref, inst.Dir)
		if err != nil {
			return nil, err
		}
		var out []Result
		for _, cand := range candidates {
			rs, err := e.allStep(inst.X, cand.Pos, map[int64]bool{})
			if err != nil {
				return nil, err
			}
			for _, r := range rs {
				out = append(out, Result{End: r.End, Captures: append([]interface{}{cand.Capture}, r.Captures...)})
			}
		}
		return out, nil
	}
	panic("nfa: unknown opcode")
}
