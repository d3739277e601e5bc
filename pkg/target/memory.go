// Package target synthesizes node memories and emits the normalized,
// sequentialized program as Go source text — the third and hardest middle-end
// stage.
package target

import (
	"strings"

	"lustrec.dev/corec/pkg/diag"
	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/typeinfo"
)

// SlotKind distinguishes a delay slot (one per fby) from a call slot (one per
// call to a stateful callee).
type SlotKind uint8

const (
	DelaySlot SlotKind = iota
	CallSlot
)

// Slot is one field of a NodeMemory.
type Slot struct {
	Kind SlotKind
	Name string // the field name: the equation's defined name (both kinds)

	// DelaySlot only:
	Type    nast.Type
	Init    nast.Const
	NextExp nast.Bexpr

	// CallSlot only:
	CalleeMemType string // the callee's mangled memory type name
}

// NodeMemory is the persistent state threaded into a stateful node's step
// function: one slot per fby, one slot per call to a node that itself has a
// memory.
type NodeMemory struct {
	TypeName string // e.g. "MemCounter"
	Slots    []Slot
}

// HasSlot reports whether a given defined name already owns a memory slot.
func (m *NodeMemory) HasSlot(name string) bool {
	for _, s := range m.Slots {
		if s.Name == name {
			return true
		}
	}
	return false
}

// memTypeName mangles a node name into its memory struct name: Mem + the
// capitalized node name.
func memTypeName(node string) string { return "Mem" + capitalize(node) }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SynthesizeMemories walks the program in order (callees before callers, the
// order a well-sequentialized program's node list is already required to
// respect since recursion between nodes is a non-goal) and returns a memory
// per stateful node, keyed by node name.
func SynthesizeMemories(p nast.Program) (map[string]*NodeMemory, error) {
	mems := make(map[string]*NodeMemory)

	for _, n := range p.Nodes {
		mem, err := synthesizeNodeMemory(n, mems)
		if err != nil {
			return nil, err
		}
		if mem != nil {
			mems[n.Name] = mem
		}
	}
	return mems, nil
}

func synthesizeNodeMemory(n nast.Node, mems map[string]*NodeMemory) (*NodeMemory, error) {
	mem := &NodeMemory{TypeName: memTypeName(n.Name)}

	for _, eq := range n.Body {
		switch body := eq.Body.(type) {
		case nast.CallExpr:
			if body.Name == "print" {
				continue // the print builtin is stateless and owns no memory slot
			}
			if calleeMem, stateful := mems[body.Name]; stateful {
				mem.Slots = append(mem.Slots, Slot{
					Kind:          CallSlot,
					Name:          eq.Names[0],
					CalleeMemType: calleeMem.TypeName,
				})
			}

		case nast.FbyExpr:
			for i, name := range eq.Names {
				init := body.Inits[i]
				c, ok := init.(nast.ConstAtom)
				if !ok {
					return nil, diag.New(diag.NonConstFbyInit, "codegen", n.Name, name)
				}
				mem.Slots = append(mem.Slots, Slot{
					Kind:    DelaySlot,
					Name:    name,
					Type:    typeinfo.OfConst(c.Value),
					Init:    c.Value,
					NextExp: body.Nexts[i],
				})
			}
		}
	}

	if len(mem.Slots) == 0 {
		return nil, nil
	}
	return mem, nil
}
