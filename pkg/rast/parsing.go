package rast

import (
	"fmt"
	"io"
	"os"
	"strconv"

	pc "github.com/prataprc/goparsec"

	"lustrec.dev/corec/pkg/utils"
)

// ----------------------------------------------------------------------------
// Translation tables
//
// Maps from the lexical token a leaf of the grammar produced to the typed
// operator it denotes. Built once, consulted by the AST walk below.

var binopTokenTable = map[string]Binop{
	"PLUS": Add, "MINUS": Sub, "STAR": Mul, "SLASH": Div,
	"PLUSF": AddFloat, "MINUSF": SubFloat, "STARF": MulFloat, "SLASHF": DivFloat,
	"LT": Lt, "GT": Gt, "LEQ": Leq, "GEQ": Geq, "EQOP": Eq,
}

var unopTokenTable = map[string]Unop{
	"NEG": NegInt, "NEGF": NegFloat, "NOT": LogicalNot,
}

var typeTokenTable = map[string]Type{
	"TY_UNIT": Unit, "TY_BOOL": Bool, "TY_INT": Int, "TY_FLOAT": Float, "TY_STRING": String,
}

// ----------------------------------------------------------------------------
// Parser
//
// Text --> AST: done via the package-level grammar, returns a generic
// traversable pc.Queryable tree.
// AST --> IR: FromAST walks that tree and builds the typed rast.Program a
// caller actually wants, with no further dependency on goparsec.
type Parser struct{ reader io.Reader }

// NewParser builds a Parser reading source text from r.
func NewParser(r io.Reader) Parser { return Parser{reader: r} }

// Parse reads the full source from the underlying reader and returns the
// parsed Program, or an error naming where parsing failed.
func (p *Parser) Parse() (Program, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return Program{}, fmt.Errorf("cannot read source: %s", err)
	}

	root, success := p.FromSource(content)
	if !success {
		return Program{}, fmt.Errorf("failed to parse source into an AST")
	}

	return p.FromAST(root)
}

// FromSource scans source and returns the raw, traversable AST. Debug
// tracing and pretty-printing are gated behind the same environment
// variables the rest of the retrieval pack's goparsec-based parsers use.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, _ := ast.Parsewith(pProgram, pc.NewScanner(source))

	if os.Getenv("PRINT_AST") != "" && root != nil {
		ast.Prettyprint()
	}

	return root, root != nil
}

// FromAST walks the root "program" node and builds a typed Program.
func (p *Parser) FromAST(root pc.Queryable) (Program, error) {
	if root.GetName() != "program" {
		return Program{}, fmt.Errorf("expected node 'program', found %q", root.GetName())
	}

	var nodes []Node
	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "node":
			n, err := p.handleNode(child)
			if err != nil {
				return Program{}, err
			}
			nodes = append(nodes, n)
		case "comment":
			continue
		default:
			return Program{}, fmt.Errorf("unrecognized top-level node %q", child.GetName())
		}
	}

	return Program{Nodes: nodes}, nil
}

func (p *Parser) handleNode(n pc.Queryable) (Node, error) {
	children := n.GetChildren() // NODE, IDENT, inputs, RETURNS, outputs, SEMI, maybe_var, LET, eq_list, TEL
	name := children[1].GetValue()

	inputs, err := p.handleArgGroup(children[2])
	if err != nil {
		return Node{}, fmt.Errorf("node %q: inputs: %s", name, err)
	}
	outputs, err := p.handleArgGroup(children[4])
	if err != nil {
		return Node{}, fmt.Errorf("node %q: outputs: %s", name, err)
	}

	var locals utils.OrderedMap[string, Type]
	if maybeVar := children[6]; maybeVar.GetName() == "var_section" && len(maybeVar.GetChildren()) > 0 {
		locals, err = p.handleArgs(maybeVar.GetChildren()[1])
		if err != nil {
			return Node{}, fmt.Errorf("node %q: var section: %s", name, err)
		}
	}

	var body []Equation
	for _, item := range children[8].GetChildren() {
		switch item.GetName() {
		case "equation":
			eq, err := p.handleEquation(item)
			if err != nil {
				return Node{}, fmt.Errorf("node %q: %s", name, err)
			}
			body = append(body, eq)
		case "comment":
			continue
		default:
			return Node{}, fmt.Errorf("node %q: unrecognized equation-list item %q", name, item.GetName())
		}
	}

	return Node{Name: name, Inputs: inputs, Outputs: outputs, Locals: locals, Body: body}, nil
}

// handleArgGroup unwraps a parenthesized "(" arg-list ")" node.
func (p *Parser) handleArgGroup(n pc.Queryable) (utils.OrderedMap[string, Type], error) {
	return p.handleArgs(n.GetChildren()[1])
}

// handleArgs reads a flat list of "arg" children (one per semicolon-separated
// group) into an ordered name -> type map.
func (p *Parser) handleArgs(n pc.Queryable) (utils.OrderedMap[string, Type], error) {
	var m utils.OrderedMap[string, Type]
	for _, argNode := range n.GetChildren() {
		names, typ, err := p.handleArg(argNode)
		if err != nil {
			return utils.OrderedMap[string, Type]{}, err
		}
		for _, name := range names {
			m.Set(name, typ)
		}
	}
	return m, nil
}

func (p *Parser) handleArg(n pc.Queryable) ([]string, Type, error) {
	children := n.GetChildren() // arg_names, COLON, type
	var names []string
	for _, id := range children[0].GetChildren() {
		names = append(names, id.GetValue())
	}
	typ, ok := typeTokenTable[children[2].GetName()]
	if !ok {
		return nil, 0, fmt.Errorf("unrecognized type token %q", children[2].GetName())
	}
	return names, typ, nil
}

func (p *Parser) handleEquation(n pc.Queryable) (Equation, error) {
	children := n.GetChildren() // lhs, ASSIGN, expr, SEMI
	var names []string
	for _, id := range children[0].GetChildren() {
		names = append(names, id.GetValue())
	}
	body, err := p.handleExpr(children[2])
	if err != nil {
		return Equation{}, err
	}
	return Equation{Names: names, Body: body}, nil
}

// ----------------------------------------------------------------------------
// Expressions
//
// pExpr resolves to "fby_expr"; everything beneath it (or/and/comparisons/
// add/mul/unary/atom) is reached by the dedicated handler for that level.

func (p *Parser) handleExpr(n pc.Queryable) (Expr, error) {
	if n.GetName() != "fby_expr" {
		return nil, fmt.Errorf("expected expression, found %q", n.GetName())
	}
	return p.handleFby(n)
}

func (p *Parser) handleFby(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // or_expr, fby_rest
	init, err := p.handleOr(children[0])
	if err != nil {
		return nil, err
	}

	rest := children[1]
	if rest.GetName() != "fby_item" {
		return init, nil
	}

	next, err := p.handleExpr(rest.GetChildren()[1])
	if err != nil {
		return nil, err
	}
	return FbyExpr{Init: init, Next: next}, nil
}

func (p *Parser) handleOr(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // and_expr, or_rest
	left, err := p.handleAnd(children[0])
	if err != nil {
		return nil, err
	}
	for _, item := range children[1].GetChildren() { // or_item: OR, and_expr
		right, err := p.handleAnd(item.GetChildren()[1])
		if err != nil {
			return nil, err
		}
		left = BinopExpr{Op: Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) handleAnd(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // cmp_expr, and_rest
	left, err := p.handleCmp(children[0])
	if err != nil {
		return nil, err
	}
	for _, item := range children[1].GetChildren() { // and_item: AND, cmp_expr
		right, err := p.handleCmp(item.GetChildren()[1])
		if err != nil {
			return nil, err
		}
		left = BinopExpr{Op: And, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) handleCmp(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // add_expr, cmp_rest
	left, err := p.handleAdd(children[0])
	if err != nil {
		return nil, err
	}

	rest := children[1]
	if rest.GetName() != "cmp_item" {
		return left, nil
	}

	items := rest.GetChildren() // op, add_expr
	op, ok := binopTokenTable[items[0].GetName()]
	if !ok {
		return nil, fmt.Errorf("unrecognized comparison operator %q", items[0].GetName())
	}
	right, err := p.handleAdd(items[1])
	if err != nil {
		return nil, err
	}
	return BinopExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) handleAdd(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // mul_expr, add_rest
	left, err := p.handleMul(children[0])
	if err != nil {
		return nil, err
	}
	for _, item := range children[1].GetChildren() { // add_item: op, mul_expr
		items := item.GetChildren()
		op, ok := binopTokenTable[items[0].GetName()]
		if !ok {
			return nil, fmt.Errorf("unrecognized additive operator %q", items[0].GetName())
		}
		right, err := p.handleMul(items[1])
		if err != nil {
			return nil, err
		}
		left = BinopExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) handleMul(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // unary, mul_rest
	left, err := p.handleUnary(children[0])
	if err != nil {
		return nil, err
	}
	for _, item := range children[1].GetChildren() { // mul_item: op, unary
		items := item.GetChildren()
		op, ok := binopTokenTable[items[0].GetName()]
		if !ok {
			return nil, fmt.Errorf("unrecognized multiplicative operator %q", items[0].GetName())
		}
		right, err := p.handleUnary(items[1])
		if err != nil {
			return nil, err
		}
		left = BinopExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// handleUnary dispatches on the leaf the (transparent) unary/atom rules
// actually produced: a unary-prefix node, or one of the atom alternatives.
func (p *Parser) handleUnary(n pc.Queryable) (Expr, error) {
	switch n.GetName() {
	case "unop_expr":
		children := n.GetChildren() // unop token, atom
		op, ok := unopTokenTable[children[0].GetName()]
		if !ok {
			return nil, fmt.Errorf("unrecognized unary operator %q", children[0].GetName())
		}
		operand, err := p.handleUnary(children[1])
		if err != nil {
			return nil, err
		}
		return UnopExpr{Op: op, Operand: operand}, nil

	case "UNIT":
		return ConstExpr{Value: UnitConst()}, nil
	case "TRUE":
		return ConstExpr{Value: BoolConst(true)}, nil
	case "FALSE":
		return ConstExpr{Value: BoolConst(false)}, nil
	case "FLOAT":
		v, err := strconv.ParseFloat(n.GetValue(), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q: %s", n.GetValue(), err)
		}
		return ConstExpr{Value: FloatConst(float32(v))}, nil
	case "INT":
		v, err := strconv.ParseInt(n.GetValue(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid int literal %q: %s", n.GetValue(), err)
		}
		return ConstExpr{Value: IntConst(int32(v))}, nil
	case "STRING":
		v, err := strconv.Unquote(n.GetValue())
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %q: %s", n.GetValue(), err)
		}
		return ConstExpr{Value: StringConst(v)}, nil
	case "IDENT":
		return IdentExpr{Name: n.GetValue()}, nil
	case "if_expr":
		return p.handleIf(n)
	case "call":
		return p.handleCall(n)
	case "paren_group":
		return p.handleParenGroup(n)
	default:
		return nil, fmt.Errorf("unrecognized expression term %q", n.GetName())
	}
}

func (p *Parser) handleIf(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // IF, expr, THEN, expr, ELSE, expr
	cond, err := p.handleExpr(children[1])
	if err != nil {
		return nil, err
	}
	then, err := p.handleExpr(children[3])
	if err != nil {
		return nil, err
	}
	els, err := p.handleExpr(children[5])
	if err != nil {
		return nil, err
	}
	return IfExpr{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) handleCall(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // IDENT, LPAREN, call_args, RPAREN
	name := children[0].GetValue()

	var args []Expr
	for _, a := range children[2].GetChildren() {
		e, err := p.handleExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return CallExpr{Name: name, Args: args}, nil
}

func (p *Parser) handleParenGroup(n pc.Queryable) (Expr, error) {
	children := n.GetChildren() // LPAREN, paren_items, RPAREN
	var elems []Expr
	for _, e := range children[1].GetChildren() {
		expr, err := p.handleExpr(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, expr)
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return TupleExpr{Elems: elems}, nil
}
