// Package diag holds the typed, stage-tagged errors every pipeline stage
// raises. A diagnostic always fails the whole compilation unit: there is no
// retry and no recovery path, only a single fatal Error carrying enough
// context (stage, node, identifier) to report to the user.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the fatal error conditions the pipeline can raise.
type Kind int

const (
	ParseError Kind = iota
	TupleArityMismatch
	DuplicateDefinition
	Cycle
	NonConstFbyInit
	UnknownTargetType
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case TupleArityMismatch:
		return "TupleArityMismatch"
	case DuplicateDefinition:
		return "DuplicateDefinition"
	case Cycle:
		return "Cycle"
	case NonConstFbyInit:
		return "NonConstFbyInit"
	case UnknownTargetType:
		return "UnknownTargetType"
	default:
		return "UnknownError"
	}
}

// Error is the single error type every stage returns on failure.
type Error struct {
	Kind  Kind
	Stage string // "parse" | "normalize" | "sequentialize" | "codegen"
	Node  string
	Ident string
	Err   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: node %q", e.Stage, e.Kind, e.Node)
	if e.Ident != "" {
		msg += fmt.Sprintf(" (%s)", e.Ident)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a fresh diagnostic with a stack trace attached to the root
// cause, via github.com/pkg/errors, so the first hop of the pipeline failure
// keeps its call site even once wrapped by callers further up the stack.
func New(kind Kind, stage, node, ident string) *Error {
	return &Error{Kind: kind, Stage: stage, Node: node, Ident: ident, Err: errors.Errorf("%s", kind)}
}

// Wrap attaches stage/node/ident context to an existing error (typically one
// returned by a nested call, such as the reference parser failing inside
// rast.Parser.Parse).
func Wrap(kind Kind, stage, node, ident string, cause error) *Error {
	return &Error{Kind: kind, Stage: stage, Node: node, Ident: ident, Err: errors.WithStack(cause)}
}
