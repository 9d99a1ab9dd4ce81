package qual

// KeyColumn is the only column a predicate can be pushed down on
const KeyColumn = "key"

// Pushdown is the outcome of Analyze
type Pushdown struct {
	Column string
	Value  string
	OK     bool
}

// Analyze looks for the first predicate of the form key = 'text' in the
// conjunctive list quals. Only that one predicate is pushed down, every
// predicate is still rechecked by the host after rows are returned.
func Analyze(quals []Expr, desc TupleDesc) (p Pushdown) {
	for _, q := range quals {
		p = analyzeOne(q, desc)
		if p.OK {
			return
		}
	}
	p = Pushdown{}
	return
}

func analyzeOne(node Expr, desc TupleDesc) (p Pushdown) {
	op, ok := node.(*OpExpr)
	if !ok || len(op.Args) != 2 {
		return
	}

	left, ok := op.Args[0].(*Var)
	if !ok {
		return
	}
	right, ok := op.Args[1].(*Const)
	if !ok || right.IsNull || right.Type != TypeText {
		return
	}

	name, ok := desc.AttName(left.Attno)
	if !ok {
		return
	}

	p.Column = name
	p.Value = right.Value
	p.OK = op.FuncID == ProcTextEq && name == KeyColumn
	return
}
