package target

import "lustrec.dev/corec/pkg/nast"

// goType maps a stream Type to its Go target representation.
func goType(t nast.Type) string {
	switch t {
	case nast.Unit:
		return "struct{}"
	case nast.Bool:
		return "bool"
	case nast.Int:
		return "int32"
	case nast.Float:
		return "float32"
	case nast.String:
		return "string"
	default:
		return "struct{}"
	}
}

// goZeroValue is the Go zero-value literal for type t. Nothing in this package
// calls it: delay slots are initialized from their fby constant and call
// slots by the callee's own NewMem constructor.
func goZeroValue(t nast.Type) string {
	switch t {
	case nast.Unit:
		return "struct{}{}"
	case nast.Bool:
		return "false"
	case nast.Int:
		return "0"
	case nast.Float:
		return "0"
	case nast.String:
		return `""`
	default:
		return "struct{}{}"
	}
}

// goKeywords are reserved words that cannot appear as Go identifiers; a
// source identifier colliding with one is suffixed, never silently dropped.
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
}

// ident sanitizes a source identifier into a safe Go identifier.
func ident(name string) string {
	if goKeywords[name] {
		return name + "_"
	}
	return name
}
