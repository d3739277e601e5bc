package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompilerHandlerCountsUpwards(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counter.lus")
	output := filepath.Join(dir, "counter.go")

	source := `
		node Counter() returns (o: int);
		let
			o = 0 fby (o + 1);
		tel
	`
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %s", err)
	}

	status := Handler([]string{input, output}, map[string]string{})
	if status != 0 {
		t.Fatalf("unexpected exit status code: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("error reading output file %s: %v", output, err)
	}

	for _, want := range []string{"package main", "func StepCounter(", "type MemCounter struct", "mem.o = (o + 1)"} {
		if !strings.Contains(string(compiled), want) {
			t.Fatalf("expected %q in compiled output:\n%s", want, compiled)
		}
	}
}

func TestCompilerHandlerRespectsIterationsOption(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "c.lus")
	output := filepath.Join(dir, "c.go")

	if err := os.WriteFile(input, []byte(`
		node C() returns (o: int);
		let
			o = 1;
		tel
	`), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %s", err)
	}

	status := Handler([]string{input, output}, map[string]string{"iterations": "7"})
	if status != 0 {
		t.Fatalf("unexpected exit status code: %d", status)
	}

	compiled, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("error reading output file: %s", err)
	}
	if !strings.Contains(string(compiled), "cycle < 7") {
		t.Fatalf("expected the --iterations option to control the loop bound, got:\n%s", compiled)
	}
}

func TestCompilerHandlerReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.lus")
	output := filepath.Join(dir, "broken.go")

	if err := os.WriteFile(input, []byte("node ??? nonsense"), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %s", err)
	}

	status := Handler([]string{input, output}, map[string]string{})
	if status == 0 {
		t.Fatal("expected a non-zero exit status for a malformed program")
	}
}
