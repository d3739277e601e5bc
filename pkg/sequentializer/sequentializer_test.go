package sequentializer_test

import (
	"testing"

	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/sequentializer"
	"lustrec.dev/corec/pkg/utils"
)

func ints(names ...string) utils.OrderedMap[string, nast.Type] {
	var m utils.OrderedMap[string, nast.Type]
	for _, n := range names {
		m.Set(n, nast.Int)
	}
	return m
}

func ident(name string) nast.Bexpr { return nast.AtomBexpr{Atom: nast.IdentAtom{Name: name}} }

func indexOf(body []nast.Equation, name string) int {
	for i, eq := range body {
		for _, n := range eq.Names {
			if n == name {
				return i
			}
		}
	}
	return -1
}

func TestSequentializeOrdersByDependency(t *testing.T) {
	// b = a + 1; a = x; -- must be reordered so a is placed before b.
	program := nast.Program{Nodes: []nast.Node{{
		Name:    "X",
		Inputs:  ints("x"),
		Outputs: ints("a", "b"),
		Body: []nast.Equation{
			{Names: []string{"b"}, Body: nast.BexprExpr{Bexpr: nast.BinopBexpr{Op: nast.Add, Left: ident("a"), Right: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(1)}}}}},
			{Names: []string{"a"}, Body: nast.BexprExpr{Bexpr: ident("x")}},
		},
	}}}

	out, err := sequentializer.Sequentialize(program)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	body := out.Nodes[0].Body
	if indexOf(body, "a") >= indexOf(body, "b") {
		t.Fatalf("expected 'a' before 'b', got order %v", body)
	}
}

func TestSequentializeFbyBreaksCycle(t *testing.T) {
	// a = 0 fby b; b = a + 1; -- an instantaneous cycle between a and b would
	// be rejected, but the fby only depends on its (constant) init, so this
	// is well-formed and must be accepted.
	program := nast.Program{Nodes: []nast.Node{{
		Name:    "Y",
		Outputs: ints("a"),
		Locals:  ints("b"),
		Body: []nast.Equation{
			{Names: []string{"a"}, Body: nast.FbyExpr{Inits: []nast.Atom{nast.ConstAtom{Value: nast.IntConst(0)}}, Nexts: []nast.Bexpr{ident("b")}}},
			{Names: []string{"b"}, Body: nast.BexprExpr{Bexpr: nast.BinopBexpr{Op: nast.Add, Left: ident("a"), Right: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(1)}}}}},
		},
	}}}

	if _, err := sequentializer.Sequentialize(program); err != nil {
		t.Fatalf("fby should break the cycle, got error: %s", err)
	}
}

func TestSequentializeRejectsInstantaneousCycle(t *testing.T) {
	// a = b + 1; b = a + 1; -- no fby anywhere, a genuine cycle.
	program := nast.Program{Nodes: []nast.Node{{
		Name:    "Z",
		Outputs: ints("a", "b"),
		Body: []nast.Equation{
			{Names: []string{"a"}, Body: nast.BexprExpr{Bexpr: nast.BinopBexpr{Op: nast.Add, Left: ident("b"), Right: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(1)}}}}},
			{Names: []string{"b"}, Body: nast.BexprExpr{Bexpr: nast.BinopBexpr{Op: nast.Add, Left: ident("a"), Right: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(1)}}}}},
		},
	}}}

	if _, err := sequentializer.Sequentialize(program); err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestSequentializeRejectsDuplicateDefinition(t *testing.T) {
	program := nast.Program{Nodes: []nast.Node{{
		Name:    "W",
		Outputs: ints("a"),
		Body: []nast.Equation{
			{Names: []string{"a"}, Body: nast.BexprExpr{Bexpr: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(1)}}}},
			{Names: []string{"a"}, Body: nast.BexprExpr{Bexpr: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(2)}}}},
		},
	}}}

	if _, err := sequentializer.Sequentialize(program); err == nil {
		t.Fatal("expected a duplicate definition error")
	}
}
