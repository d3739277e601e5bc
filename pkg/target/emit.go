package target

import (
	"fmt"
	"strconv"
	"strings"

	"lustrec.dev/corec/pkg/diag"
	"lustrec.dev/corec/pkg/nast"
)

// binopSymbol maps a Binop to its Go infix operator; the int/float variants of
// an arithmetic operator share one Go symbol, since Go's own operators are
// already overloaded across numeric types.
func binopSymbol(op nast.Binop) string {
	switch op {
	case nast.Add, nast.AddFloat:
		return "+"
	case nast.Sub, nast.SubFloat:
		return "-"
	case nast.Mul, nast.MulFloat:
		return "*"
	case nast.Div, nast.DivFloat:
		return "/"
	case nast.Lt:
		return "<"
	case nast.Gt:
		return ">"
	case nast.Leq:
		return "<="
	case nast.Geq:
		return ">="
	case nast.Eq:
		return "=="
	case nast.And:
		return "&&"
	case nast.Or:
		return "||"
	default:
		return "?"
	}
}

func unopSymbol(op nast.Unop) string {
	switch op {
	case nast.NegInt, nast.NegFloat:
		return "-"
	case nast.LogicalNot:
		return "!"
	default:
		return "?"
	}
}

// constLiteral renders a constant as Go source text.
func constLiteral(c nast.Const) string {
	switch c.Type {
	case nast.Unit:
		return "struct{}{}"
	case nast.Bool:
		return strconv.FormatBool(c.Bool)
	case nast.Int:
		return strconv.FormatInt(int64(c.Int), 10)
	case nast.Float:
		return strconv.FormatFloat(float64(c.Float), 'g', -1, 32)
	case nast.String:
		return strconv.Quote(c.String)
	default:
		return "struct{}{}"
	}
}

func emitAtom(a nast.Atom) string {
	switch t := a.(type) {
	case nast.IdentAtom:
		return ident(t.Name)
	case nast.ConstAtom:
		return constLiteral(t.Value)
	default:
		return "/* unknown atom */"
	}
}

// emitBexpr renders a Bexpr as a single Go expression. if-expressions lower to
// a call of the generic ifThenElse helper emitted once per program, since Go
// has no ternary operator.
func emitBexpr(b nast.Bexpr) (string, error) {
	switch t := b.(type) {
	case nast.AtomBexpr:
		return emitAtom(t.Atom), nil

	case nast.UnopBexpr:
		operand, err := emitBexpr(t.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s%s)", unopSymbol(t.Op), operand), nil

	case nast.BinopBexpr:
		left, err := emitBexpr(t.Left)
		if err != nil {
			return "", err
		}
		right, err := emitBexpr(t.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, binopSymbol(t.Op), right), nil

	case nast.IfBexpr:
		cond, err := emitBexpr(t.Cond)
		if err != nil {
			return "", err
		}
		then, err := emitBexpr(t.Then)
		if err != nil {
			return "", err
		}
		els, err := emitBexpr(t.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ifThenElse(%s, %s, %s)", cond, then, els), nil

	case nast.TupleBexpr:
		return "", diag.New(diag.UnknownTargetType, "codegen", "", "tuple")

	default:
		return "", diag.New(diag.UnknownTargetType, "codegen", "", "bexpr")
	}
}

// emitEquation renders one equation as a Go short variable declaration (or, for
// a stateful call, as a call to the callee's step function threading its
// memory slot through).
func emitEquation(nodeName string, eq nast.Equation, mem *NodeMemory) (string, error) {
	names := make([]string, len(eq.Names))
	for i, n := range eq.Names {
		names[i] = ident(n)
	}
	lhs := strings.Join(names, ", ")

	switch body := eq.Body.(type) {
	case nast.FbyExpr:
		reads := make([]string, len(eq.Names))
		for i, n := range eq.Names {
			reads[i] = "mem." + ident(n)
		}
		return fmt.Sprintf("%s := %s", lhs, strings.Join(reads, ", ")), nil

	case nast.CallExpr:
		if body.Name == "print" {
			arg, err := emitBexpr(body.Args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("print(%s)\n\t%s := struct{}{}", arg, lhs), nil
		}

		args := make([]string, 0, len(body.Args)+1)
		if mem != nil && mem.HasSlot(eq.Names[0]) {
			args = append(args, "&mem."+ident(eq.Names[0]))
		}
		for _, a := range body.Args {
			text, err := emitBexpr(a)
			if err != nil {
				return "", err
			}
			args = append(args, text)
		}
		return fmt.Sprintf("%s := Step%s(%s)", lhs, capitalize(body.Name), strings.Join(args, ", ")), nil

	case nast.BexprExpr:
		if tuple, ok := body.Bexpr.(nast.TupleBexpr); ok {
			if len(tuple.Elems) != len(eq.Names) {
				return "", diag.New(diag.TupleArityMismatch, "codegen", nodeName, strings.Join(eq.Names, ","))
			}
			elems := make([]string, len(tuple.Elems))
			for i, e := range tuple.Elems {
				text, err := emitBexpr(e)
				if err != nil {
					return "", err
				}
				elems[i] = text
			}
			return fmt.Sprintf("%s := %s", lhs, strings.Join(elems, ", ")), nil
		}

		text, err := emitBexpr(body.Bexpr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s := %s", lhs, text), nil

	default:
		return "", diag.New(diag.UnknownTargetType, "codegen", nodeName, strings.Join(eq.Names, ","))
	}
}
