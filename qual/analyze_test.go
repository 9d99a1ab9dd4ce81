package qual

import (
	"testing"

	"gotest.tools/assert"
)

func TestAnalyze(t *testing.T) {
	desc := KVTupleDesc

	{
		// nothing to push down
		p := Analyze(nil, desc)
		assert.Assert(t, !p.OK)
	}

	{
		p := Analyze([]Expr{TextEq(1, "k1")}, desc)
		assert.Equal(t, p, Pushdown{Column: "key", Value: "k1", OK: true})
	}

	{
		// only the first matching predicate is used
		p := Analyze([]Expr{TextEq(2, "v"), TextEq(1, "k1"), TextEq(1, "k2")}, desc)
		assert.Equal(t, p, Pushdown{Column: "key", Value: "k1", OK: true})
	}

	rejected := []Expr{
		// equality on the value column
		TextEq(2, "v"),
		// not text equality
		&OpExpr{Name: "<>", FuncID: 531, Args: []Expr{&Var{Attno: 1}, &Const{Type: TypeText, Value: "k"}}},
		// constant on the left
		&OpExpr{Name: "=", FuncID: ProcTextEq, Args: []Expr{&Const{Type: TypeText, Value: "k"}, &Var{Attno: 1}}},
		// non text constant
		&OpExpr{Name: "=", FuncID: ProcTextEq, Args: []Expr{&Var{Attno: 1}, &Const{Type: TypeInt, Value: "1"}}},
		// null constant
		&OpExpr{Name: "=", FuncID: ProcTextEq, Args: []Expr{&Var{Attno: 1}, &Const{Type: TypeText, IsNull: true}}},
		// column out of range
		TextEq(3, "k"),
		// three args
		&OpExpr{Name: "=", FuncID: ProcTextEq, Args: []Expr{&Var{Attno: 1}, &Const{Type: TypeText, Value: "k"}, &Const{Type: TypeText, Value: "k"}}},
		// boolean combination
		&BoolExpr{Op: "OR", Args: []Expr{TextEq(1, "a"), TextEq(1, "b")}},
	}
	for _, q := range rejected {
		p := Analyze([]Expr{q}, desc)
		assert.Assert(t, !p.OK, q.String())
	}

	{
		// the value column analyzed last does not leak into the result
		p := Analyze([]Expr{TextEq(2, "v")}, desc)
		assert.Equal(t, p, Pushdown{})
	}
}
