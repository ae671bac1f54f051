package config

// Coordinator operator table (spec.md §4.5).
//
// This table describes the 13 coordinator operators and their call shapes.
// Neither the parser nor internal/runtime's coordinator consults it: the
// coordinator dispatches on the same Name values written as string
// literals and checks argument counts itself.

// OperandKind describes what an operator's slot accepts.
type OperandKind int

const (
	KindExtractor OperandKind = iota // <extractor> name (or the base stream "_")
	KindStream                       // nested coordinator expression
	KindInt                          // integer literal
)

// OperatorInfo describes one coordinator operator's call shape.
type OperatorInfo struct {
	Name          string
	Operands      []OperandKind
	VariadicTail  OperandKind // used when the last operand repeats (union/inter/diff); zero value unused otherwise
	Variadic      bool
	InvertibleArg bool // accepts a trailing "inverted" keyword/flag
}

// AllOperators lists the 13 operators.
var AllOperators = []OperatorInfo{
	{Name: "match", Operands: []OperandKind{KindExtractor, KindStream}},
	{Name: "select", Operands: []OperandKind{KindExtractor, KindStream}},
	{Name: "filter", Operands: []OperandKind{KindExtractor, KindStream}, InvertibleArg: true},
	{Name: "prefix", Operands: []OperandKind{KindExtractor, KindStream}, InvertibleArg: true},
	{Name: "suffix", Operands: []OperandKind{KindExtractor, KindStream}, InvertibleArg: true},
	{Name: "near", Operands: []OperandKind{KindExtractor, KindInt, KindStream}, InvertibleArg: true},
	{Name: "precedes", Operands: []OperandKind{KindExtractor, KindInt, KindStream}, InvertibleArg: true},
	{Name: "follows", Operands: []OperandKind{KindExtractor, KindInt, KindStream}, InvertibleArg: true},
	{Name: "union", Operands: []OperandKind{KindStream}, Variadic: true, VariadicTail: KindStream},
	{Name: "inter", Operands: []OperandKind{KindStream}, Variadic: true, VariadicTail: KindStream, InvertibleArg: false},
	{Name: "diff", Operands: []OperandKind{KindStream}, Variadic: true, VariadicTail: KindStream},
	{Name: "contains", Operands: []OperandKind{KindStream, KindStream}},
	{Name: "overlaps", Operands: []OperandKind{KindStream, KindStream}},
	{Name: "connects", Operands: []OperandKind{KindExtractor, KindStream, KindStream}},
}

// GetOperator returns operator metadata by name, or nil if op is not a
// known coordinator operator name.
func GetOperator(op string) *OperatorInfo {
	for i := range AllOperators {
		if AllOperators[i].Name == op {
			return &AllOperators[i]
		}
	}
	return nil
}

// MinArity is the minimum number of positional arguments (excluding the
// trailing inverted keyword) the operator accepts.
func (o OperatorInfo) MinArity() int {
	if o.Variadic {
		return 1
	}
	return len(o.Operands)
}
