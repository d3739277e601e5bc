package target

import (
	"strings"
	"testing"

	"lustrec.dev/corec/pkg/nast"
	"lustrec.dev/corec/pkg/utils"
)

func TestEmitEntryPointStatelessNoInputsSkipsStdin(t *testing.T) {
	entry := nast.Node{
		Name:    "C",
		Outputs: ints("o"),
	}

	text, err := EmitEntryPoint(entry, nil, 3, false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for _, want := range []string{
		"func main() {",
		"for cycle := 0; cycle < 3; cycle++ {",
		"o := StepC()",
		"printValue(o)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
	// A node with no inputs never needs stdin; declaring it unused would not
	// even compile.
	if strings.Contains(text, "stdin") {
		t.Fatalf("a node with no inputs should never declare stdin:\n%s", text)
	}
	if strings.Contains(text, "mem") {
		t.Fatalf("stateless entry point should never reference mem:\n%s", text)
	}
}

func TestEmitEntryPointStatefulThreadsMemory(t *testing.T) {
	entry := nast.Node{
		Name:    "D",
		Outputs: ints("o"),
	}
	mems := map[string]*NodeMemory{"D": {TypeName: "MemD"}}

	text, err := EmitEntryPoint(entry, mems, 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, want := range []string{
		"mem := NewMemD()",
		"o := StepD(&mem)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func echoNode() nast.Node {
	var inputs utils.OrderedMap[string, nast.Type]
	inputs.Set("b", nast.Bool)
	inputs.Set("i", nast.Int)
	inputs.Set("f", nast.Float)
	inputs.Set("s", nast.String)

	return nast.Node{Name: "Echo", Inputs: inputs, Outputs: ints("b")}
}

func TestEmitEntryPointReadsEveryInputType(t *testing.T) {
	text, err := EmitEntryPoint(echoNode(), nil, 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, want := range []string{
		"stdin := bufio.NewReader(os.Stdin)",
		"b := readBool(stdin)",
		"i := readInt(stdin)",
		"f := readFloat(stdin)",
		"s := readString(stdin)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func TestEmitEntryPointNonInteractiveUsesFixedDefaults(t *testing.T) {
	text, err := EmitEntryPoint(echoNode(), nil, 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, want := range []string{
		"b := false",
		"i := int32(42)",
		"f := float32(0)",
		`s := ""`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "stdin") {
		t.Fatalf("non-interactive mode should never reference stdin:\n%s", text)
	}
}
