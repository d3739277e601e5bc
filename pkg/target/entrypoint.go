package target

import (
	"fmt"
	"strings"

	"lustrec.dev/corec/pkg/diag"
	"lustrec.dev/corec/pkg/nast"
)

// readerFor returns the stdin-reading expression for one input of type t.
func readerFor(varName string, t nast.Type) (string, error) {
	switch t {
	case nast.Unit:
		return fmt.Sprintf("%s := struct{}{}", varName), nil
	case nast.Bool:
		return fmt.Sprintf("%s := readBool(stdin)", varName), nil
	case nast.Int:
		return fmt.Sprintf("%s := readInt(stdin)", varName), nil
	case nast.Float:
		return fmt.Sprintf("%s := readFloat(stdin)", varName), nil
	case nast.String:
		return fmt.Sprintf("%s := readString(stdin)", varName), nil
	default:
		return "", diag.New(diag.UnknownTargetType, "codegen", "", varName)
	}
}

// defaultFor returns a fixed, type-directed default value for one input of
// type t, used to drive the entry node when no stdin is attached. Int
// defaults to 42, matching the original toolchain's own fixed default.
func defaultFor(varName string, t nast.Type) (string, error) {
	switch t {
	case nast.Unit:
		return fmt.Sprintf("%s := struct{}{}", varName), nil
	case nast.Bool:
		return fmt.Sprintf("%s := false", varName), nil
	case nast.Int:
		return fmt.Sprintf("%s := int32(42)", varName), nil
	case nast.Float:
		return fmt.Sprintf("%s := float32(0)", varName), nil
	case nast.String:
		return fmt.Sprintf("%s := \"\"", varName), nil
	default:
		return "", diag.New(diag.UnknownTargetType, "codegen", "", varName)
	}
}

// needsStdin reports whether any of the entry node's inputs actually reads
// from stdin (a Unit-typed input never does).
func needsStdin(entry nast.Node) bool {
	for _, in := range entry.Inputs.Entries() {
		if in.Value != nast.Unit {
			return true
		}
	}
	return false
}

// EmitEntryPoint renders the program's main function: it constructs the entry
// node's memory (if stateful), then drives it for a fixed number of cycles.
// In interactive mode (the default) it reads one line of stdin per declared
// input, per its type; in non-interactive mode it instead feeds each input a
// fixed, type-directed default so the emitted program runs unattended.
func EmitEntryPoint(entry nast.Node, mems map[string]*NodeMemory, iterations int, nonInteractive bool) (string, error) {
	mem := mems[entry.Name]

	var b strings.Builder
	b.WriteString("func main() {\n")

	if !nonInteractive && needsStdin(entry) {
		b.WriteString("\tstdin := bufio.NewReader(os.Stdin)\n")
	}

	if mem != nil {
		fmt.Fprintf(&b, "\tmem := New%s()\n", mem.TypeName)
	}

	fmt.Fprintf(&b, "\tfor cycle := 0; cycle < %d; cycle++ {\n", iterations)

	args := make([]string, 0, entry.Inputs.Size()+1)
	if mem != nil {
		args = append(args, "&mem")
	}
	for _, in := range entry.Inputs.Entries() {
		source := readerFor
		if nonInteractive {
			source = defaultFor
		}
		line, err := source(ident(in.Key), in.Value)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\t\t%s\n", line)
		args = append(args, ident(in.Key))
	}

	outs := make([]string, len(entry.Outputs.Entries()))
	for i, out := range entry.Outputs.Entries() {
		outs[i] = ident(out.Key)
	}

	fmt.Fprintf(&b, "\t\t%s := Step%s(%s)\n", strings.Join(outs, ", "), capitalize(entry.Name), strings.Join(args, ", "))
	for _, out := range outs {
		fmt.Fprintf(&b, "\t\tprintValue(%s)\n", out)
	}

	b.WriteString("\t}\n}\n")
	return b.String(), nil
}
