package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/teris-io/cli"

	"lustrec.dev/corec/pkg/codegen"
	"lustrec.dev/corec/pkg/normalizer"
	"lustrec.dev/corec/pkg/rast"
	"lustrec.dev/corec/pkg/sequentializer"
)

var Description = strings.ReplaceAll(`
corec compiles a small synchronous dataflow program into a self-contained Go
source file. The pipeline runs three passes over the input: normalization
(lowering every expression to an atom/basic-expression/top-level-expression
shape), sequentialization (ordering each node's equations so a value is
never read before it's written) and code generation (synthesizing per-node
memory and emitting one step function per node, plus a driver main).
`, "\n", " ")

var Compiler = cli.New(Description).
	WithArg(cli.NewArg("input", "The dataflow program (.lus) to compile")).
	WithArg(cli.NewArg("output", "Where to write the generated Go source")).
	WithOption(cli.NewOption("iterations", "Number of activation cycles the generated main runs").
		WithChar('i').WithType(cli.TypeInt)).
	WithOption(cli.NewOption("dump-ast", "Print the parsed, normalized and sequentialized IR to stderr").
		WithChar('d').WithType(cli.TypeBool)).
	WithOption(cli.NewOption("non-interactive", "Feed fixed type-directed defaults instead of reading stdin").
		WithChar('n').WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	input, err := os.ReadFile(args[0])
	if err != nil {
		pterm.Error.Printf("unable to open input file: %s\n", err)
		return -1
	}

	output, err := os.Create(args[1])
	if err != nil {
		pterm.Error.Printf("unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	dumpAST := options["dump-ast"] == "true"

	parser := rast.NewParser(bytes.NewReader(input))
	program, err := parser.Parse()
	if err != nil {
		pterm.Error.Printf("parse: %s\n", err)
		return -1
	}
	if dumpAST {
		pterm.Info.Println("parsed:")
		fmt.Fprintf(os.Stderr, "%+v\n", program)
	}

	normalized, err := normalizer.Normalize(program)
	if err != nil {
		pterm.Error.Printf("normalize: %s\n", err)
		return -1
	}
	if dumpAST {
		pterm.Info.Println("normalized:")
		fmt.Fprintf(os.Stderr, "%+v\n", normalized)
	}

	sequentialized, err := sequentializer.Sequentialize(normalized)
	if err != nil {
		pterm.Error.Printf("sequentialize: %s\n", err)
		return -1
	}
	if dumpAST {
		pterm.Info.Println("sequentialized:")
		fmt.Fprintf(os.Stderr, "%+v\n", sequentialized)
	}

	iterations := codegen.DefaultIterations
	if raw, ok := options["iterations"]; ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			pterm.Error.Printf("invalid --iterations value %q: %s\n", raw, err)
			return -1
		}
		iterations = n
	}

	nonInteractive := options["non-interactive"] == "true"
	source, err := codegen.Generate(sequentialized, iterations, nonInteractive)
	if err != nil {
		pterm.Error.Printf("codegen: %s\n", err)
		return -1
	}

	if _, err := output.WriteString(source); err != nil {
		pterm.Error.Printf("unable to write output file: %s\n", err)
		return -1
	}

	pterm.Success.Printf("wrote %s\n", args[1])
	return 0
}

func main() { os.Exit(Compiler.Run(os.Args, os.Stdout)) }
