// Package sequentializer implements the second middle-end stage: given a
// normalized program, it computes each node's instantaneous dependency graph
// and produces a total equation order compatible with it, rejecting programs
// with a cycle that no fby breaks.
package sequentializer

import (
	"lustrec.dev/corec/pkg/diag"
	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/utils"
)

// Sequentialize reorders every node's equation body into a total order
// compatible with instantaneous data dependencies. Outputs, locals and
// signatures are copied unchanged; only Body is reordered.
func Sequentialize(p nast.Program) (nast.Program, error) {
	out := nast.Program{Nodes: make([]nast.Node, 0, len(p.Nodes))}
	for _, n := range p.Nodes {
		sn, err := sequentializeNode(n)
		if err != nil {
			return nast.Program{}, err
		}
		out.Nodes = append(out.Nodes, sn)
	}
	return out, nil
}

func sequentializeNode(n nast.Node) (nast.Node, error) {
	deps := make(map[string][]string)
	for _, eq := range n.Body {
		d := dependenciesOf(eq)
		for _, name := range eq.Names {
			if _, dup := deps[name]; dup {
				return nast.Node{}, diag.New(diag.DuplicateDefinition, "sequentialize", n.Name, name)
			}
			deps[name] = d
		}
	}

	closed := transitiveClosure(deps)

	for name, ds := range closed {
		if contains(ds, name) {
			return nast.Node{}, diag.New(diag.Cycle, "sequentialize", n.Name, name)
		}
	}

	ordered := order(n, closed)

	return nast.Node{
		Name:        n.Name,
		Inputs:      n.Inputs,
		Outputs:     n.Outputs,
		Locals:      n.Locals,
		Temporaries: n.Temporaries,
		Body:        ordered,
	}, nil
}

// dependenciesOf returns the instantaneous dependency set of an equation: the
// identifiers its body reads this cycle. For Fby, only the init atoms count —
// the next-cycle Bexprs are deferred and contribute no instantaneous
// dependency, which is exactly what lets fby break feedback cycles.
func dependenciesOf(eq nast.Equation) []string {
	switch body := eq.Body.(type) {
	case nast.BexprExpr:
		return depsOfBexpr(body.Bexpr)
	case nast.CallExpr:
		var deps []string
		for _, arg := range body.Args {
			deps = append(deps, depsOfBexpr(arg)...)
		}
		return deps
	case nast.FbyExpr:
		var deps []string
		for _, init := range body.Inits {
			deps = append(deps, depsOfAtom(init)...)
		}
		return deps
	default:
		return nil
	}
}

func depsOfAtom(a nast.Atom) []string {
	if id, ok := a.(nast.IdentAtom); ok {
		return []string{id.Name}
	}
	return nil
}

func depsOfBexpr(b nast.Bexpr) []string {
	switch t := b.(type) {
	case nast.AtomBexpr:
		return depsOfAtom(t.Atom)
	case nast.UnopBexpr:
		return depsOfBexpr(t.Operand)
	case nast.BinopBexpr:
		return append(depsOfBexpr(t.Left), depsOfBexpr(t.Right)...)
	case nast.IfBexpr:
		deps := depsOfBexpr(t.Cond)
		deps = append(deps, depsOfBexpr(t.Then)...)
		deps = append(deps, depsOfBexpr(t.Else)...)
		return deps
	case nast.TupleBexpr:
		var deps []string
		for _, e := range t.Elems {
			deps = append(deps, depsOfBexpr(e)...)
		}
		return deps
	default:
		return nil
	}
}

// transitiveClosure expands each key's direct dependency list into its full
// reachable set, using a Stack as the work list (names are visited last in,
// first out; the resulting set does not depend on the visiting order).
// A key that ends up depending (transitively) on itself is a cycle.
func transitiveClosure(deps map[string][]string) map[string][]string {
	closed := make(map[string][]string, len(deps))

	for key, direct := range deps {
		todo := utils.NewStack(direct...)
		var all []string

		for todo.Count() > 0 {
			d, err := todo.Pop()
			if err != nil {
				break
			}
			if next, ok := deps[d]; ok {
				for _, dnext := range next {
					if !contains(all, dnext) {
						todo.Push(dnext)
					}
				}
			}
			if !contains(all, d) {
				all = append(all, d)
			}
		}
		closed[key] = all
	}
	return closed
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// order repeatedly selects, among not-yet-placed equations, any whose every
// (transitive) dependency is either a node input or already placed, breaking
// ties in input order for determinism. Placing an equation marks every name
// it defines as placed simultaneously, which is what lets multi-name
// equations (fby-of-tuple, multi-return calls) stay atomic.
func order(n nast.Node, closed map[string][]string) []nast.Equation {
	placed := make(map[string]bool, len(closed))
	var result []nast.Equation

	remaining := append([]nast.Equation(nil), n.Body...)

	for len(remaining) > 0 {
		progressed := false
		next := remaining[:0]

		for _, eq := range remaining {
			if isPlaced(eq, placed) {
				continue // already emitted via a prior multi-name equation
			}
			if ready(eq, n, closed, placed) {
				result = append(result, eq)
				for _, name := range eq.Names {
					placed[name] = true
				}
				progressed = true
			} else {
				next = append(next, eq)
			}
		}
		remaining = next

		if !progressed {
			break // no well-formed program reaches this; satisfied by the caller's cycle check
		}
	}
	return result
}

func isPlaced(eq nast.Equation, placed map[string]bool) bool {
	for _, name := range eq.Names {
		if placed[name] {
			return true
		}
	}
	return false
}

func ready(eq nast.Equation, n nast.Node, closed map[string][]string, placed map[string]bool) bool {
	for _, name := range eq.Names {
		for _, dep := range closed[name] {
			if n.Inputs.Has(dep) || placed[dep] {
				continue
			}
			return false
		}
	}
	return true
}
