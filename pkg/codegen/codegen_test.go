package codegen_test

import (
	"strings"
	"testing"

	"lustrec.dev/corec/pkg/codegen"
	"lustrec.dev/corec/pkg/normalizer"
	"lustrec.dev/corec/pkg/rast"
	"lustrec.dev/corec/pkg/sequentializer"
)

func compile(t *testing.T, source string, iterations int) string {
	t.Helper()

	parser := rast.NewParser(strings.NewReader(source))
	program, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse: %s", err)
	}

	normalized, err := normalizer.Normalize(program)
	if err != nil {
		t.Fatalf("normalize: %s", err)
	}

	sequentialized, err := sequentializer.Sequentialize(normalized)
	if err != nil {
		t.Fatalf("sequentialize: %s", err)
	}

	out, err := codegen.Generate(sequentialized, iterations, false)
	if err != nil {
		t.Fatalf("codegen: %s", err)
	}
	return out
}

func TestGenerateConstantNode(t *testing.T) {
	out := compile(t, `
		node C() returns (o: int);
		let
			o = 42;
		tel
	`, 1)

	for _, want := range []string{
		"package main",
		"func StepC() (o int32) {",
		"o := 42",
		"func main() {",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in generated source:\n%s", want, out)
		}
	}
}

func TestGenerateCounterCarriesMemoryAcrossCycles(t *testing.T) {
	out := compile(t, `
		node D() returns (o: int);
		let
			o = 0 fby (o + 1);
		tel
	`, 5)

	for _, want := range []string{
		"type MemD struct {",
		"func NewMemD() MemD {",
		"func StepD(mem *MemD) (o int32) {",
		"mem.o = (o + 1)",
		"for cycle := 0; cycle < 5; cycle++ {",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in generated source:\n%s", want, out)
		}
	}
}

func TestGenerateNodeCallThreadsArguments(t *testing.T) {
	out := compile(t, `
		node inc(x: int) returns (y: int);
		let
			y = x + 1;
		tel

		node N() returns (o: int);
		let
			o = inc(inc(1));
		tel
	`, 1)

	for _, want := range []string{
		"func StepInc(x int32) (y int32) {",
		"func StepN() (o int32) {",
		"tmp1 := StepInc(1)",
		"o := StepInc(tmp1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in generated source:\n%s", want, out)
		}
	}
}

func TestGenerateRejectsInstantaneousCycle(t *testing.T) {
	parser := rast.NewParser(strings.NewReader(`
		node Z() returns (a, b: int);
		let
			a = b + 1;
			b = a + 1;
		tel
	`))
	program, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	normalized, err := normalizer.Normalize(program)
	if err != nil {
		t.Fatalf("normalize: %s", err)
	}
	if _, err := sequentializer.Sequentialize(normalized); err == nil {
		t.Fatal("expected a cycle error for Z")
	}
}
