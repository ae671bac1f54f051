// Package nfa compiles the phrase/parse regex-over-alphabet grammar
// (ast.PhraseExpr, spec.md §4.3/§4.4) into a small PC-addressed instruction
// program and runs it by backtracking depth-first search.
//
// Grounded on the teacher's internal/vm split between compiler.go (AST ->
// flat instruction table) and vm_exec.go (a single interpreter loop over
// that table): the same "compile once, drive with an explicit PC" shape,
// with registers holding match spans instead of values. A Thompson NFA
// compiled to Split/Jmp/Char instructions (the classic regex-as-bytecode
// construction) is executed by backtracking rather than simultaneous
// state-set simulation because a Ref instruction's match length depends on
// a separately-compiled sub-extractor and is not knowable in advance — see
// DESIGN.md C5.
package nfa

import "github.com/vrules/valet/internal/ast"

// Op identifies one instruction's behavior.
type Op byte

const (
	// OpChar matches exactly one alphabet symbol (a token, for phrase
	// extractors; an edge label, for parse extractors) against Text.
	OpChar Op = iota
	// OpRef defers to another extractor by name; it may consume a
	// variable-length span (or none, for a phrase/coordinator reference
	// that itself reduces to zero tokens — disallowed in practice but not
	// assumed away here).
	OpRef
	// OpSplit forks execution: X is tried first (higher priority, i.e. the
	// greedy branch), then Y.
	OpSplit
	// OpJmp transfers control unconditionally to X.
	OpJmp
	// OpMatch accepts: the pattern has matched up to the current position.
	OpMatch
)

// Inst is one compiled instruction.
type Inst struct {
	Op   Op
	Text string // OpChar: literal text to match
	Ref  string // OpRef: referenced extractor name
	Dir  byte   // OpChar/OpRef: '/' , '\\', or 0 (parse-expr direction; phrase ignores it)
	X, Y int    // OpSplit: two targets; OpJmp/OpChar/OpRef: next pc in X
}

// Program is a compiled phrase/parse expression, ready to run from pc 0.
type Program struct {
	Insts []Inst
}

type compiler struct {
	insts []Inst
}

func (c *compiler) emit(i Inst) int {
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

func (c *compiler) here() int { return len(c.insts) }

// Compile builds a Program for expr.
func Compile(expr ast.PhraseExpr) *Program {
	c := &compiler{}
	c.compileExpr(expr)
	c.emit(Inst{Op: OpMatch})
	return &Program{Insts: c.insts}
}

func (c *compiler) compileExpr(e ast.PhraseExpr) {
	switch n := e.(type) {
	case ast.Alt:
		c.compileAlt(n.Alts)
	case ast.Concat:
		for _, sub := range n.Seq {
			c.compileExpr(sub)
		}
	case ast.Qual:
		c.compileQual(n)
	case ast.Literal:
		c.emit(Inst{Op: OpChar, Text: n.Text, X: c.here() + 1})
	case ast.Ref:
		c.emit(Inst{Op: OpRef, Ref: n.Name, X: c.here() + 1})
	case ast.Directed:
		c.compileDirected(n)
	default:
		panic("nfa: unknown expr node")
	}
}

func (c *compiler) compileDirected(n ast.Directed) {
	switch inner := n.X.(type) {
	case ast.Literal:
		c.emit(Inst{Op: OpChar, Text: inner.Text, Dir: n.Dir, X: c.here() + 1})
	case ast.Ref:
		c.emit(Inst{Op: OpRef, Ref: inner.Name, Dir: n.Dir, X: c.here() + 1})
	default:
		panic("nfa: Directed must wrap a Literal or Ref")
	}
}

// compileAlt chains binary splits for an N-ary alternation, each split
// preferring the earlier alternative (left-to-right priority, spec.md §9
// Open Question ii: lexical/declaration order breaks alternation ties).
func (c *compiler) compileAlt(alts []ast.PhraseExpr) {
	if len(alts) == 1 {
		c.compileExpr(alts[0])
		return
	}
	splitAt := c.emit(Inst{Op: OpSplit})
	l1 := c.here()
	c.compileExpr(alts[0])
	jmpAt := c.emit(Inst{Op: OpJmp})
	l2 := c.here()
	c.compileAlt(alts[1:])
	end := c.here()
	c.insts[splitAt].X, c.insts[splitAt].Y = l1, l2
	c.insts[jmpAt].X = end
}

func (c *compiler) compileQual(q ast.Qual) {
	switch q.Op {
	case '?':
		splitAt := c.emit(Inst{Op: OpSplit})
		l1 := c.here()
		c.compileExpr(q.X)
		l2 := c.here()
		c.insts[splitAt].X, c.insts[splitAt].Y = l1, l2

	case '*':
		splitAt := c.here()
		c.emit(Inst{Op: OpSplit})
		l1 := c.here()
		c.compileExpr(q.X)
		c.emit(Inst{Op: OpJmp, X: splitAt})
		l2 := c.here()
		c.insts[splitAt].X, c.insts[splitAt].Y = l1, l2

	case '+':
		l1 := c.here()
		c.compileExpr(q.X)
		splitAt := c.emit(Inst{Op: OpSplit, X: l1})
		l2 := c.here()
		c.insts[splitAt].Y = l2

	default:
		panic("nfa: unknown qualifier")
	}
}
