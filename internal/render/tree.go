// Debug match-tree printer, grounded on the teacher's
// internal/prettyprinter/tree_printer.go (buffer + indent, one write method
// per node shape). Not required by any invariant; a development aid for
// inspecting a Match's submatch graph (wired into cmd/valet's apply --tree
// flag).
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/vrules/valet/internal/runtime"
)

// TreePrinter renders a runtime.Match's submatch graph as an indented tree,
// one line per node.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *TreePrinter) writeIndent() {
	p.write(strings.Repeat("  ", p.indent))
}

// Tree renders m and everything reachable from it: owning submatches, the
// field sets frame() attaches, and the cross-reference operator pointers
// select()/connects() attach (spec.md §4.6 "descendants and
// descendants-of-descendants").
func Tree(m *runtime.Match) string {
	p := NewTreePrinter()
	p.visit(m, "")
	return p.String()
}

func (p *TreePrinter) visit(m *runtime.Match, label string) {
	if m == nil {
		p.writeIndent()
		p.write(label + "<nil>\n")
		return
	}
	begin, end := m.Extent()
	p.writeIndent()
	p.write(fmt.Sprintf("%s%s[%d,%d)", label, opName(m.Op), begin, end))
	if m.Name != "" {
		p.write(" @" + m.Name)
	}
	p.write("\n")
	p.indent++

	for _, sub := range m.Submatches {
		p.visit(sub, "")
	}
	for _, label := range []string{"submatch", "left", "right", "supermatch"} {
		if cross := crossOf(m, label); cross != nil {
			p.visit(cross, label+": ")
		}
	}
	for _, name := range sortedFieldKeys(m.Fields) {
		p.writeIndent()
		p.write("field " + name + ":\n")
		p.indent++
		for _, v := range m.Fields[name] {
			p.visit(v, "")
		}
		p.indent--
	}

	p.indent--
}

func crossOf(m *runtime.Match, label string) *runtime.Match {
	switch label {
	case "submatch":
		return m.Submatch
	case "left":
		return m.Left
	case "right":
		return m.Right
	case "supermatch":
		return m.Supermatch
	}
	return nil
}

func opName(op string) string {
	if op == "" {
		return "match"
	}
	return op
}

func sortedFieldKeys(m map[string][]*runtime.Match) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
