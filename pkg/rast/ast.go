// Package rast defines the raw, parser-facing AST: the shape a concrete-syntax
// parser is expected to hand to the middle end. Everything in this file is
// data only; normalization is the first stage that interprets it.
package rast

import "lustrec.dev/corec/pkg/utils"

// Type is one of the five closed, built-in stream types.
type Type uint8

const (
	Unit Type = iota
	Bool
	Int
	Float
	String
)

func (t Type) String() string {
	switch t {
	case Unit:
		return "unit"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "?"
	}
}

// Const is a literal of one of the five types.
type Const struct {
	Type   Type
	Bool   bool
	Int    int32
	Float  float32
	String string
}

func UnitConst() Const            { return Const{Type: Unit} }
func BoolConst(b bool) Const      { return Const{Type: Bool, Bool: b} }
func IntConst(i int32) Const      { return Const{Type: Int, Int: i} }
func FloatConst(f float32) Const  { return Const{Type: Float, Float: f} }
func StringConst(s string) Const  { return Const{Type: String, String: s} }

// Unop is a unary operator. Int and float negation are distinct operators,
// never overloaded on a common "neg".
type Unop uint8

const (
	NegInt Unop = iota
	NegFloat
	LogicalNot
)

// Binop is a binary operator. The dot-suffixed variants are the float forms
// of the corresponding int arithmetic operators.
type Binop uint8

const (
	Add Binop = iota
	Sub
	Mul
	Div
	AddFloat
	SubFloat
	MulFloat
	DivFloat
	Lt
	Gt
	Leq
	Geq
	Eq
	And
	Or
)

// IsFloat reports whether a binop operates on floats (affects target emission
// only; int and float arithmetic variants map to the same target operator).
func (b Binop) IsFloat() bool {
	switch b {
	case AddFloat, SubFloat, MulFloat, DivFloat:
		return true
	default:
		return false
	}
}

// Expr is a raw, unnormalized expression: calls and fby may appear nested
// anywhere a subexpression is expected.
type Expr interface{ isExpr() }

type ConstExpr struct{ Value Const }
type IdentExpr struct{ Name string }
type UnopExpr struct {
	Op      Unop
	Operand Expr
}
type BinopExpr struct {
	Op          Binop
	Left, Right Expr
}
type IfExpr struct {
	Cond, Then, Else Expr
}
type FbyExpr struct {
	Init, Next Expr
}
type CallExpr struct {
	Name string
	Args []Expr
}
type TupleExpr struct{ Elems []Expr }

func (ConstExpr) isExpr() {}
func (IdentExpr) isExpr() {}
func (UnopExpr) isExpr()  {}
func (BinopExpr) isExpr() {}
func (IfExpr) isExpr()    {}
func (FbyExpr) isExpr()   {}
func (CallExpr) isExpr()  {}
func (TupleExpr) isExpr() {}

// Equation binds an ordered list of names (more than one only for multi-return
// calls and fby-of-tuples) to a single expression.
type Equation struct {
	Names []string
	Body  Expr
}

// Node is a named stream transformer: typed inputs, typed outputs, typed
// locals, and an unordered list of equations over them.
//
// Inputs, Outputs and Locals are OrderedMaps rather than plain maps: emission
// order depends on declaration order (see the determinism requirement this
// repo's ordering-stable containers exist to satisfy), so the signature
// survives every stage without ever passing through a randomized Go map.
type Node struct {
	Name    string
	Inputs  utils.OrderedMap[string, Type]
	Outputs utils.OrderedMap[string, Type]
	Locals  utils.OrderedMap[string, Type]
	Body    []Equation
}

// Program is an ordered list of nodes; by convention the last node is the
// entry point the driver runs.
type Program struct {
	Nodes []Node
}

// EntryPoint returns the last node of the program, the convention used to
// pick the driver's main node. Returns the zero Node and false for an empty
// program.
func (p Program) EntryPoint() (Node, bool) {
	if len(p.Nodes) == 0 {
		return Node{}, false
	}
	return p.Nodes[len(p.Nodes)-1], true
}

// Lookup finds a node by name.
func (p Program) Lookup(name string) (Node, bool) {
	for _, n := range p.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}
