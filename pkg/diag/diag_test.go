package diag_test

import (
	"errors"
	"strings"
	"testing"

	"lustrec.dev/corec/pkg/diag"
)

func TestErrorMessageIncludesContext(t *testing.T) {
	err := diag.New(diag.Cycle, "sequentialize", "Y", "a")

	msg := err.Error()
	for _, want := range []string{"sequentialize", "Cycle", "Y", "a"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error message to mention %q, got %q", want, msg)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := diag.Wrap(diag.ParseError, "parse", "", "", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected Wrap to preserve the original cause, got %v", err.Unwrap())
	}
}

func TestKindStringCoversEveryKind(t *testing.T) {
	kinds := []diag.Kind{
		diag.ParseError, diag.TupleArityMismatch, diag.DuplicateDefinition,
		diag.Cycle, diag.NonConstFbyInit, diag.UnknownTargetType,
	}
	for _, k := range kinds {
		if k.String() == "UnknownError" {
			t.Fatalf("kind %d has no String() case", k)
		}
	}
}
