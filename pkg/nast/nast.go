// Package nast is the normalized AST: the Atom/Bexpr/Expr strata that the
// normalizer produces and every later stage (sequentializer, target) consumes.
// Calls and fby are only ever found at the top of an Expr, never nested inside
// a Bexpr — that invariant is the entire point of normalization.
package nast

import (
	"lustrec.dev/corec/pkg/rast"
	"lustrec.dev/corec/pkg/utils"
)

// Type, Const, Unop and Binop are shared verbatim with the raw AST: they do
// not change shape across normalization.
type (
	Type  = rast.Type
	Const = rast.Const
	Unop  = rast.Unop
	Binop = rast.Binop
)

// The five stream types and the constant constructors are re-exported so
// that every later stage can spell them as nast.Int, nast.IntConst(...), and
// so on without reaching back into rast for plain data.
const (
	Unit   = rast.Unit
	Bool   = rast.Bool
	Int    = rast.Int
	Float  = rast.Float
	String = rast.String
)

var (
	UnitConst   = rast.UnitConst
	BoolConst   = rast.BoolConst
	IntConst    = rast.IntConst
	FloatConst  = rast.FloatConst
	StringConst = rast.StringConst
)

// The unary and binary operators are likewise re-exported verbatim.
const (
	NegInt     = rast.NegInt
	NegFloat   = rast.NegFloat
	LogicalNot = rast.LogicalNot

	Add      = rast.Add
	Sub      = rast.Sub
	Mul      = rast.Mul
	Div      = rast.Div
	AddFloat = rast.AddFloat
	SubFloat = rast.SubFloat
	MulFloat = rast.MulFloat
	DivFloat = rast.DivFloat
	Lt       = rast.Lt
	Gt       = rast.Gt
	Leq      = rast.Leq
	Geq      = rast.Geq
	Eq       = rast.Eq
	And      = rast.And
	Or       = rast.Or
)

// Atom is an identifier or constant, the irreducible operand after
// normalization.
type Atom interface{ isAtom() }

type IdentAtom struct{ Name string }
type ConstAtom struct{ Value Const }

func (IdentAtom) isAtom() {}
func (ConstAtom) isAtom() {}

// Bexpr is a basic expression: any expression form except calls and fby.
type Bexpr interface{ isBexpr() }

type AtomBexpr struct{ Atom Atom }
type UnopBexpr struct {
	Op      Unop
	Operand Bexpr
}
type BinopBexpr struct {
	Op          Binop
	Left, Right Bexpr
}
type IfBexpr struct{ Cond, Then, Else Bexpr }
type TupleBexpr struct{ Elems []Bexpr }

func (AtomBexpr) isBexpr()  {}
func (UnopBexpr) isBexpr()  {}
func (BinopBexpr) isBexpr() {}
func (IfBexpr) isBexpr()    {}
func (TupleBexpr) isBexpr() {}

// Expr is the body of an equation: a Bexpr, a whole-equation call, or a
// whole-equation fby. Never nested inside another Expr or Bexpr.
type Expr interface{ isExpr() }

type BexprExpr struct{ Bexpr Bexpr }
type CallExpr struct {
	Name string
	Args []Bexpr
}

// FbyExpr carries parallel, equal-length lists: Inits[i]/Nexts[i] is the
// initial/next pair for the i-th name bound by the owning equation.
type FbyExpr struct {
	Inits []Atom
	Nexts []Bexpr
}

func (BexprExpr) isExpr() {}
func (CallExpr) isExpr()  {}
func (FbyExpr) isExpr()   {}

// Equation binds an ordered list of names to a single normalized Expr.
type Equation struct {
	Names []string
	Body  Expr
}

// Node mirrors rast.Node's signature shape (same ordered input/output/local
// maps) plus the set of normalizer-synthesized temporaries. Temporaries are
// tracked separately from Locals rather than folded into it with a
// placeholder type: nothing downstream ever needs a tmpK's declared type
// (Go's own type inference recovers it at emission time), so there is no
// type to get wrong.
type Node struct {
	Name        string
	Inputs      utils.OrderedMap[string, Type]
	Outputs     utils.OrderedMap[string, Type]
	Locals      utils.OrderedMap[string, Type]
	Temporaries []string
	Body        []Equation
}

// Program is an ordered list of normalized nodes.
type Program struct {
	Nodes []Node
}

func (p Program) Lookup(name string) (Node, bool) {
	for _, n := range p.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
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
