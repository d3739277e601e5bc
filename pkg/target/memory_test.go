package target

import (
	"testing"

	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/utils"
)

func ints(names ...string) utils.OrderedMap[string, nast.Type] {
	var m utils.OrderedMap[string, nast.Type]
	for _, n := range names {
		m.Set(n, nast.Int)
	}
	return m
}

func TestSynthesizeMemoriesStatelessNode(t *testing.T) {
	p := nast.Program{Nodes: []nast.Node{{
		Name:    "C",
		Outputs: ints("o"),
		Body: []nast.Equation{
			{Names: []string{"o"}, Body: nast.BexprExpr{Bexpr: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(42)}}}},
		},
	}}}

	mems, err := SynthesizeMemories(p)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if mems["C"] != nil {
		t.Fatalf("expected a stateless node to have no memory, got %#v", mems["C"])
	}
}

func TestSynthesizeMemoriesDelaySlot(t *testing.T) {
	p := nast.Program{Nodes: []nast.Node{{
		Name:    "D",
		Outputs: ints("o"),
		Body: []nast.Equation{{
			Names: []string{"o"},
			Body: nast.FbyExpr{
				Inits: []nast.Atom{nast.ConstAtom{Value: nast.IntConst(0)}},
				Nexts: []nast.Bexpr{nast.AtomBexpr{Atom: nast.IdentAtom{Name: "o"}}},
			},
		}},
	}}}

	mems, err := SynthesizeMemories(p)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	mem := mems["D"]
	if mem == nil {
		t.Fatal("expected node D to own a memory")
	}
	if len(mem.Slots) != 1 || mem.Slots[0].Kind != DelaySlot || mem.Slots[0].Name != "o" {
		t.Fatalf("expected a single 'o' delay slot, got %#v", mem.Slots)
	}
}

func TestSynthesizeMemoriesCallSlotOnlyWhenCalleeStateful(t *testing.T) {
	p := nast.Program{Nodes: []nast.Node{
		{
			Name:    "stateless",
			Outputs: ints("y"),
			Body:    []nast.Equation{{Names: []string{"y"}, Body: nast.BexprExpr{Bexpr: nast.AtomBexpr{Atom: nast.ConstAtom{Value: nast.IntConst(1)}}}}},
		},
		{
			Name:    "stateful",
			Outputs: ints("y"),
			Body: []nast.Equation{{
				Names: []string{"y"},
				Body: nast.FbyExpr{
					Inits: []nast.Atom{nast.ConstAtom{Value: nast.IntConst(0)}},
					Nexts: []nast.Bexpr{nast.AtomBexpr{Atom: nast.IdentAtom{Name: "y"}}},
				},
			}},
		},
		{
			Name:    "caller",
			Outputs: ints("a", "b"),
			Body: []nast.Equation{
				{Names: []string{"a"}, Body: nast.CallExpr{Name: "stateless"}},
				{Names: []string{"b"}, Body: nast.CallExpr{Name: "stateful"}},
			},
		},
	}}

	mems, err := SynthesizeMemories(p)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	caller := mems["caller"]
	if caller == nil {
		t.Fatal("expected caller to own a memory because it calls a stateful node")
	}
	if len(caller.Slots) != 1 || caller.Slots[0].Name != "b" || caller.Slots[0].Kind != CallSlot {
		t.Fatalf("expected exactly one call slot for 'b', got %#v", caller.Slots)
	}
}

func TestSynthesizeMemoriesRejectsNonConstFbyInit(t *testing.T) {
	p := nast.Program{Nodes: []nast.Node{{
		Name:    "D",
		Inputs:  ints("x"),
		Outputs: ints("o"),
		Body: []nast.Equation{{
			Names: []string{"o"},
			Body: nast.FbyExpr{
				Inits: []nast.Atom{nast.IdentAtom{Name: "x"}},
				Nexts: []nast.Bexpr{nast.AtomBexpr{Atom: nast.IdentAtom{Name: "o"}}},
			},
		}},
	}}}

	if _, err := SynthesizeMemories(p); err == nil {
		t.Fatal("expected an error for a non-constant fby initial value")
	}
}
