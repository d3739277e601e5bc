// Package codegen drives the whole-program pipeline: given a normalized,
// sequentialized program, it synthesizes every node's memory and emits one
// self-contained Go source file implementing it, with a main function that
// drives the program's entry node.
package codegen

import (
	"strings"

	"github.com/pkg/errors"

	"lustrec.dev/corec/pkg/diag"
	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/target"
)

// DefaultIterations is how many activation cycles the emitted entry point
// runs when the caller does not override it.
const DefaultIterations = 10

// Generate renders p as a complete, compilable Go source file. p must already
// be normalized and sequentialized; Generate does not re-run either stage.
// When nonInteractive is true, the emitted entry point feeds its inputs fixed
// type-directed defaults instead of reading them from stdin.
func Generate(p nast.Program, iterations int, nonInteractive bool) (string, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	entry, ok := p.EntryPoint()
	if !ok {
		return "", diag.Wrap(diag.UnknownTargetType, "codegen", "", "", errors.New("program has no nodes"))
	}

	mems, err := target.SynthesizeMemories(p)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(target.Preamble)
	b.WriteString("\n")

	for _, n := range p.Nodes {
		text, err := target.EmitNode(n, mems)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	main, err := target.EmitEntryPoint(entry, mems, iterations, nonInteractive)
	if err != nil {
		return "", err
	}
	b.WriteString(main)

	return b.String(), nil
}
