// Package normalizer implements the first middle-end stage: it takes a raw
// AST program and rewrites every node so that calls and fby appear only at
// equation top level, introducing fresh "tmpK" locals for any subterm that
// would otherwise violate that shape.
package normalizer

import (
	"fmt"

	"lustrec.dev/corec/pkg/diag"
	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/rast"
)

// Normalizer holds the per-node state needed while walking a single node's
// equations: the set of names already in use (so a fresh "tmpK" never
// collides) and the intermediates minted so far, recorded in the order they
// were minted so emission stays deterministic.
type Normalizer struct {
	known         map[string]bool
	intermediates []intermediate
}

type intermediate struct {
	name string
	expr nast.Expr
}

// New builds a fresh Normalizer; Normalize uses a new one for every node.
func New() *Normalizer { return &Normalizer{} }

// Normalize lowers an entire raw-AST program to its normalized counterpart,
// preserving node count, names, and input/output signatures.
func Normalize(p rast.Program) (nast.Program, error) {
	out := nast.Program{Nodes: make([]nast.Node, 0, len(p.Nodes))}
	for _, n := range p.Nodes {
		nn, err := New().normalizeNode(n)
		if err != nil {
			return nast.Program{}, err
		}
		out.Nodes = append(out.Nodes, nn)
	}
	return out, nil
}

func (nz *Normalizer) normalizeNode(n rast.Node) (nast.Node, error) {
	nz.known = make(map[string]bool)
	for _, name := range n.Inputs.Keys() {
		nz.known[name] = true
	}
	for _, name := range n.Outputs.Keys() {
		nz.known[name] = true
	}
	for _, name := range n.Locals.Keys() {
		nz.known[name] = true
	}

	body := make([]nast.Equation, 0, len(n.Body))
	for _, eq := range n.Body {
		neq, err := nz.normalizeEquation(n.Name, eq)
		if err != nil {
			return nast.Node{}, err
		}
		body = append(body, neq)
	}

	temporaries := make([]string, 0, len(nz.intermediates))
	for _, im := range nz.intermediates {
		temporaries = append(temporaries, im.name)
		body = append(body, nast.Equation{Names: []string{im.name}, Body: im.expr})
	}

	return nast.Node{
		Name:        n.Name,
		Inputs:      n.Inputs,
		Outputs:     n.Outputs,
		Locals:      n.Locals,
		Temporaries: temporaries,
		Body:        body,
	}, nil
}

func (nz *Normalizer) normalizeEquation(node string, eq rast.Equation) (nast.Equation, error) {
	body, err := nz.normalizeExpr(node, eq.Body)
	if err != nil {
		return nast.Equation{}, err
	}
	return nast.Equation{Names: eq.Names, Body: body}, nil
}

// fresh mints the smallest-numbered "tmpK" not already known within the node,
// deterministically, since normalization always walks equations in the same
// input order.
func (nz *Normalizer) fresh() string {
	for k := 1; ; k++ {
		name := fmt.Sprintf("tmp%d", k)
		if !nz.known[name] {
			nz.known[name] = true
			return name
		}
	}
}

// lift normalizes e as a full Expr, records it under a fresh name, and
// returns that name as an Atom — the mechanism that pulls a call or fby (or
// anything else that can't appear where only an Atom/Bexpr is allowed) out
// into its own equation.
func (nz *Normalizer) lift(node string, e rast.Expr) (nast.Atom, error) {
	name := nz.fresh()
	body, err := nz.normalizeExpr(node, e)
	if err != nil {
		return nil, err
	}
	nz.intermediates = append(nz.intermediates, intermediate{name: name, expr: body})
	return nast.IdentAtom{Name: name}, nil
}

// normalizeAtom reduces e to an Atom, lifting any non-trivial subterm.
func (nz *Normalizer) normalizeAtom(node string, e rast.Expr) (nast.Atom, error) {
	switch t := e.(type) {
	case rast.ConstExpr:
		return nast.ConstAtom{Value: t.Value}, nil
	case rast.IdentExpr:
		return nast.IdentAtom{Name: t.Name}, nil
	default:
		return nz.lift(node, e)
	}
}

// normalizeBexpr reduces e to a Bexpr, recursing structurally through unop,
// binop, if and tuple, turning a bare identifier/constant into an Atom, and
// lifting anything else (calls, fby) into its own equation.
func (nz *Normalizer) normalizeBexpr(node string, e rast.Expr) (nast.Bexpr, error) {
	switch t := e.(type) {
	case rast.UnopExpr:
		operand, err := nz.normalizeBexpr(node, t.Operand)
		if err != nil {
			return nil, err
		}
		return nast.UnopBexpr{Op: t.Op, Operand: operand}, nil

	case rast.BinopExpr:
		left, err := nz.normalizeBexpr(node, t.Left)
		if err != nil {
			return nil, err
		}
		right, err := nz.normalizeBexpr(node, t.Right)
		if err != nil {
			return nil, err
		}
		return nast.BinopBexpr{Op: t.Op, Left: left, Right: right}, nil

	case rast.IfExpr:
		cond, err := nz.normalizeBexpr(node, t.Cond)
		if err != nil {
			return nil, err
		}
		then, err := nz.normalizeBexpr(node, t.Then)
		if err != nil {
			return nil, err
		}
		els, err := nz.normalizeBexpr(node, t.Else)
		if err != nil {
			return nil, err
		}
		return nast.IfBexpr{Cond: cond, Then: then, Else: els}, nil

	case rast.TupleExpr:
		elems := make([]nast.Bexpr, 0, len(t.Elems))
		for _, sub := range t.Elems {
			nb, err := nz.normalizeBexpr(node, sub)
			if err != nil {
				return nil, err
			}
			elems = append(elems, nb)
		}
		return nast.TupleBexpr{Elems: elems}, nil

	case rast.ConstExpr, rast.IdentExpr:
		atom, err := nz.normalizeAtom(node, t)
		if err != nil {
			return nil, err
		}
		return nast.AtomBexpr{Atom: atom}, nil

	default: // Call, Fby: not allowed inside a Bexpr, must be lifted.
		atom, err := nz.lift(node, e)
		if err != nil {
			return nil, err
		}
		return nast.AtomBexpr{Atom: atom}, nil
	}
}

// normalizeExpr reduces e to an equation-top-level Expr: Call and Fby survive
// as themselves (with their immediate children normalized as Bexprs/Atoms),
// anything else becomes a plain Bexpr.
func (nz *Normalizer) normalizeExpr(node string, e rast.Expr) (nast.Expr, error) {
	switch t := e.(type) {
	case rast.CallExpr:
		args := make([]nast.Bexpr, 0, len(t.Args))
		for _, a := range t.Args {
			nb, err := nz.normalizeBexpr(node, a)
			if err != nil {
				return nil, err
			}
			args = append(args, nb)
		}
		return nast.CallExpr{Name: t.Name, Args: args}, nil

	case rast.FbyExpr:
		return nz.normalizeFby(node, t)

	default:
		b, err := nz.normalizeBexpr(node, e)
		if err != nil {
			return nil, err
		}
		return nast.BexprExpr{Bexpr: b}, nil
	}
}

// normalizeFby handles the three shapes an fby's operands can take: equal-arity
// tuples elementwise, a tuple paired with a non-tuple (a hard error), and the
// common scalar case, which collapses to single-element Inits/Nexts lists.
func (nz *Normalizer) normalizeFby(node string, t rast.FbyExpr) (nast.Expr, error) {
	initTuple, initIsTuple := t.Init.(rast.TupleExpr)
	nextTuple, nextIsTuple := t.Next.(rast.TupleExpr)

	switch {
	case initIsTuple && nextIsTuple:
		if len(initTuple.Elems) != len(nextTuple.Elems) {
			return nil, diag.New(diag.TupleArityMismatch, "normalize", node, "fby")
		}
		inits := make([]nast.Atom, len(initTuple.Elems))
		nexts := make([]nast.Bexpr, len(nextTuple.Elems))
		for i := range initTuple.Elems {
			a, err := nz.normalizeAtom(node, initTuple.Elems[i])
			if err != nil {
				return nil, err
			}
			if _, ok := a.(nast.ConstAtom); !ok {
				return nil, diag.New(diag.NonConstFbyInit, "normalize", node, "fby")
			}
			b, err := nz.normalizeBexpr(node, nextTuple.Elems[i])
			if err != nil {
				return nil, err
			}
			inits[i], nexts[i] = a, b
		}
		return nast.FbyExpr{Inits: inits, Nexts: nexts}, nil

	case initIsTuple != nextIsTuple:
		return nil, diag.New(diag.TupleArityMismatch, "normalize", node, "fby")

	default:
		a, err := nz.normalizeAtom(node, t.Init)
		if err != nil {
			return nil, err
		}
		if _, ok := a.(nast.ConstAtom); !ok {
			return nil, diag.New(diag.NonConstFbyInit, "normalize", node, "fby")
		}
		b, err := nz.normalizeBexpr(node, t.Next)
		if err != nil {
			return nil, err
		}
		return nast.FbyExpr{Inits: []nast.Atom{a}, Nexts: []nast.Bexpr{b}}, nil
	}
}
