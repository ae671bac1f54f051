// Package ast defines the abstract syntax tree produced by the rule-source
// parser (spec.md §4.1). Every node keeps the line it was declared on so
// diagnostics downstream of parsing (resolution, requirements inference)
// can still report a useful location.
package ast

// BindPair is one "a=b" entry of a binding qualifier "[a=b, c=d, ...]".
type BindPair struct {
	From string
	To   string
}

// Statement is any top-level rule declaration.
type Statement interface {
	StatementName() string
	StatementLine() int
	stmtNode()
}

type base struct {
	Name string
	Line int
}

func (b base) StatementName() string { return b.Name }
func (b base) StatementLine() int    { return b.Line }
func (base) stmtNode()               {}

// TokenTestDecl is a `:` / `i:` statement.
type TokenTestDecl struct {
	base
	CaseInsensitive bool
	Body            TokenTestExpr
}

func NewTokenTestDecl(name string, line int, ci bool, body TokenTestExpr) *TokenTestDecl {
	return &TokenTestDecl{base: base{name, line}, CaseInsensitive: ci, Body: body}
}

// PhraseDecl is a `->` / `i->` statement.
type PhraseDecl struct {
	base
	CaseInsensitive bool
	Binding         []BindPair
	Body            PhraseExpr
}

func NewPhraseDecl(name string, line int, ci bool, binding []BindPair, body PhraseExpr) *PhraseDecl {
	return &PhraseDecl{base: base{name, line}, CaseInsensitive: ci, Binding: binding, Body: body}
}

// ParseDecl is a `^` statement: same expression grammar as PhraseDecl, run
// against dependency-edge labels rather than token strings (spec.md §4.4 cont).
type ParseDecl struct {
	base
	Binding []BindPair
	Body    PhraseExpr
}

func NewParseDecl(name string, line int, binding []BindPair, body PhraseExpr) *ParseDecl {
	return &ParseDecl{base: base{name, line}, Binding: binding, Body: body}
}

// LexiconDecl is a `L->` / `Li->` statement: a file of literal phrases.
type LexiconDecl struct {
	base
	CaseInsensitive bool
	Path            string
}

func NewLexiconDecl(name string, line int, ci bool, path string) *LexiconDecl {
	return &LexiconDecl{base: base{name, line}, CaseInsensitive: ci, Path: path}
}

// CoordinatorDecl is a `~` statement.
type CoordinatorDecl struct {
	base
	Binding []BindPair
	Body    CoordExpr
}

func NewCoordinatorDecl(name string, line int, binding []BindPair, body CoordExpr) *CoordinatorDecl {
	return &CoordinatorDecl{base: base{name, line}, Binding: binding, Body: body}
}

// FrameDecl is a `$` statement.
type FrameDecl struct {
	base
	Binding []BindPair
	Body    *FrameExpr
}

func NewFrameDecl(name string, line int, binding []BindPair, body *FrameExpr) *FrameDecl {
	return &FrameDecl{base: base{name, line}, Binding: binding, Body: body}
}

// ImportDecl is a `<-` statement: either an external file import (Path
// non-empty) or a namespace block (Namespace true, Children populated).
type ImportDecl struct {
	base
	Path      string
	Namespace bool
	Children  []Statement
}

func NewImportDecl(name string, line int, path string, namespace bool, children []Statement) *ImportDecl {
	return &ImportDecl{base: base{name, line}, Path: path, Namespace: namespace, Children: children}
}

// ---- Token test expression grammar (C4) ----

type TokenTestExpr interface {
	ttExprNode()
}

type OrTest struct{ Left, Right TokenTestExpr }
type AndTest struct{ Left, Right TokenTestExpr }
type NotTest struct{ X TokenTestExpr }

// MembershipTest is `{ t1 t2 ... }` optionally `i`-suffixed.
type MembershipTest struct {
	Items []string
	CI    bool
}

// RegexTest is `/re/` optionally `i`-suffixed.
type RegexTest struct {
	Pattern string
	CI      bool
}

// SubstringTest is `<s>` optionally `i`-suffixed.
type SubstringTest struct {
	S  string
	CI bool
}

// LookupTest is `layer[ tag1 tag2 ... ]`.
type LookupTest struct {
	Layer string
	Tags  []string
}

// RefTest is `&name` / `@name` deferring to another token test.
type RefTest struct{ Name string }

// LexiconFileTest is `f{path}` optionally `i`-suffixed.
type LexiconFileTest struct {
	Path string
	CI   bool
}

func (OrTest) ttExprNode()          {}
func (AndTest) ttExprNode()         {}
func (NotTest) ttExprNode()         {}
func (MembershipTest) ttExprNode()  {}
func (RegexTest) ttExprNode()       {}
func (SubstringTest) ttExprNode()   {}
func (LookupTest) ttExprNode()      {}
func (RefTest) ttExprNode()         {}
func (LexiconFileTest) ttExprNode() {}

// ---- Phrase / parse regex-over-alphabet grammar (C5 / C6) ----

type PhraseExpr interface {
	phraseExprNode()
}

// Alt is `a | b | ...`.
type Alt struct{ Alts []PhraseExpr }

// Concat is a sequence of qualified atoms.
type Concat struct{ Seq []PhraseExpr }

// Qual is an atom with a trailing '?', '*' or '+' (0 = no qualifier).
type Qual struct {
	X  PhraseExpr
	Op byte
}

// Literal matches a single token (phrase) or edge label (parse) by exact
// string equality, case-sensitivity controlled by the declaring statement.
type Literal struct{ Text string }

// Ref is `&name` / `@name`: a subextractor reference. In a phrase grammar it
// names a token test or another phrase/coordinator extractor; in a parse
// grammar it names a token test applied to the edge label.
type Ref struct{ Name string }

// Directed wraps a Literal or Ref appearing in a parse expression with a
// `/` (upward, child->parent only) or `\` (downward, parent->child only)
// prefix. Dir == 0 means either direction is accepted.
type Directed struct {
	X   PhraseExpr
	Dir byte // '/' , '\\', or 0
}

func (Alt) phraseExprNode()      {}
func (Concat) phraseExprNode()   {}
func (Qual) phraseExprNode()     {}
func (Literal) phraseExprNode()  {}
func (Ref) phraseExprNode()      {}
func (Directed) phraseExprNode() {}

// ---- Coordinator algebra grammar (C7) ----

// CoordExpr is one coordinator expression: either a bare extractor name
// (sugar for match(X, _)) or an operator call.
type CoordExpr interface {
	coordExprNode()
}

// ExtractorRef names an `<extractor>` operand, or the literal `_` base
// stream, or a bare top-level reference used as sugar for match(X, _).
type ExtractorRef struct{ Name string }

// IntArg is an integer operand (used by near/precedes/follows).
type IntArg struct{ Value int }

// Call is `op(arg1, arg2, ..., [inverted])`.
type Call struct {
	Op       string
	Args     []CoordExpr
	Inverted bool
}

func (ExtractorRef) coordExprNode() {}
func (IntArg) coordExprNode()       {}
func (Call) coordExprNode()         {}

// ---- Frame grammar (C8) ----

// FrameField is "field = p1 p2 ... pn", a named selection path.
type FrameField struct {
	Name string
	Path []string
}

// FrameExpr is `frame(anchor, field1 = ..., field2 = ...)`.
type FrameExpr struct {
	Anchor CoordExpr
	Fields []FrameField
}
