package target

import (
	"fmt"
	"strings"

	"lustrec.dev/corec/pkg/nast"
)

// EmitMemory renders a node's memory struct and its zero-state constructor.
// A stateless node (mem == nil) has neither and EmitMemory returns "".
func EmitMemory(mem *NodeMemory) string {
	if mem == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", mem.TypeName)
	for _, s := range mem.Slots {
		switch s.Kind {
		case DelaySlot:
			fmt.Fprintf(&b, "\t%s %s\n", ident(s.Name), goType(s.Type))
		case CallSlot:
			fmt.Fprintf(&b, "\t%s %s\n", ident(s.Name), s.CalleeMemType)
		}
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func New%s() %s {\n\treturn %s{\n", mem.TypeName, mem.TypeName, mem.TypeName)
	for _, s := range mem.Slots {
		switch s.Kind {
		case DelaySlot:
			fmt.Fprintf(&b, "\t\t%s: %s,\n", ident(s.Name), constLiteral(s.Init))
		case CallSlot:
			fmt.Fprintf(&b, "\t\t%s: New%s(),\n", ident(s.Name), s.CalleeMemType)
		}
	}
	b.WriteString("\t}\n}\n")

	return b.String()
}

// EmitStep renders a node's step function: one call per activation cycle,
// taking a pointer to its own memory first (when stateful) followed by its
// declared inputs in order, and returning its declared outputs in order.
func EmitStep(n nast.Node, mem *NodeMemory) (string, error) {
	var b strings.Builder

	params := make([]string, 0, n.Inputs.Size()+1)
	if mem != nil {
		params = append(params, fmt.Sprintf("mem *%s", mem.TypeName))
	}
	for _, in := range n.Inputs.Entries() {
		params = append(params, fmt.Sprintf("%s %s", ident(in.Key), goType(in.Value)))
	}

	results := make([]string, 0, n.Outputs.Size())
	for _, out := range n.Outputs.Entries() {
		results = append(results, fmt.Sprintf("%s %s", ident(out.Key), goType(out.Value)))
	}

	fmt.Fprintf(&b, "func Step%s(%s) (%s) {\n", capitalize(n.Name), strings.Join(params, ", "), strings.Join(results, ", "))

	for _, eq := range n.Body {
		line, err := emitEquation(n.Name, eq, mem)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\t%s\n", line)
	}

	if mem != nil {
		for _, s := range mem.Slots {
			if s.Kind != DelaySlot {
				continue
			}
			next, err := emitBexpr(s.NextExp)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\tmem.%s = %s\n", ident(s.Name), next)
		}
	}

	outs := make([]string, len(n.Outputs.Entries()))
	for i, out := range n.Outputs.Entries() {
		outs[i] = ident(out.Key)
	}
	fmt.Fprintf(&b, "\treturn %s\n}\n", strings.Join(outs, ", "))

	return b.String(), nil
}

// EmitNode renders a node's memory (if any) followed by its step function.
func EmitNode(n nast.Node, mems map[string]*NodeMemory) (string, error) {
	mem := mems[n.Name]

	step, err := EmitStep(n, mem)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if memText := EmitMemory(mem); memText != "" {
		b.WriteString(memText)
		b.WriteString("\n")
	}
	b.WriteString(step)
	return b.String(), nil
}
