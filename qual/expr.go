// Package qual decides which scan predicate can be evaluated by the store.
package qual

import "fmt"

// FuncID identifies the function implementing an operator
type FuncID uint32

const (
	// ProcTextEq is the function id of text = text
	ProcTextEq FuncID = 67
)

// ConstType is the data type of a Const
type ConstType uint8

const (
	// TypeText for text constants
	TypeText ConstType = iota
	// TypeInt for integer constants
	TypeInt
	// TypeBool for boolean constants
	TypeBool
)

type (
	// Expr is a node of a predicate tree
	Expr interface {
		fmt.Stringer
		expr()
	}

	// OpExpr is an operator invocation
	OpExpr struct {
		Name   string
		FuncID FuncID
		Args   []Expr
	}

	// Var references a column of the scanned relation, Attno is 1-based
	Var struct {
		Attno int
	}

	// Const is a literal
	Const struct {
		Type   ConstType
		Value  string
		IsNull bool
	}

	// BoolExpr combines other predicates, it is never pushed down
	BoolExpr struct {
		Op   string
		Args []Expr
	}
)

func (*OpExpr) expr()   {}
func (*Var) expr()      {}
func (*Const) expr()    {}
func (*BoolExpr) expr() {}

func (e *OpExpr) String() string {
	if len(e.Args) == 2 {
		return fmt.Sprintf("(%s %s %s)", e.Args[0], e.Name, e.Args[1])
	}
	return fmt.Sprintf("%s%v", e.Name, e.Args)
}

func (v *Var) String() string {
	return fmt.Sprintf("$%d", v.Attno)
}

func (c *Const) String() string {
	if c.IsNull {
		return "NULL"
	}
	if c.Type == TypeText {
		return fmt.Sprintf("'%s'", c.Value)
	}
	return c.Value
}

func (e *BoolExpr) String() string {
	return fmt.Sprintf("%s%v", e.Op, e.Args)
}

// TextEq builds column = 'value' for the attribute at attno
func TextEq(attno int, value string) *OpExpr {
	return &OpExpr{
		Name:   "=",
		FuncID: ProcTextEq,
		Args:   []Expr{&Var{Attno: attno}, &Const{Type: TypeText, Value: value}},
	}
}

// Attribute describes one column of the relation
type Attribute struct {
	Name string
}

// TupleDesc describes the columns of the relation in attno order
type TupleDesc []Attribute

// AttName returns the name of the attribute at attno
func (d TupleDesc) AttName(attno int) (name string, ok bool) {
	if attno < 1 || attno > len(d) {
		return
	}
	name = d[attno-1].Name
	ok = true
	return
}

// KVTupleDesc is the fixed (key, value) schema
var KVTupleDesc = TupleDesc{{Name: KeyColumn}, {Name: "value"}}
