// Package typeinfo is a minimal type helper: just enough to type a delay slot
// from its fby initial constant. There is no general expression typing and no
// type checker here.
package typeinfo

import "lustrec.dev/corec/pkg/nast"

// OfConst maps a constant to its type.
func OfConst(c nast.Const) nast.Type { return c.Type }

// OfAtom returns the type of an Atom that is a constant, and false for an
// IdentAtom. pkg/target does not call it: memory synthesis checks for a
// ConstAtom itself (raising diag.NonConstFbyInit otherwise) and uses OfConst.
func OfAtom(a nast.Atom) (nast.Type, bool) {
	c, ok := a.(nast.ConstAtom)
	if !ok {
		return 0, false
	}
	return OfConst(c.Value), true
}
