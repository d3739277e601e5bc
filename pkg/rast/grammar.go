package rast

import pc "github.com/prataprc/goparsec"

// ----------------------------------------------------------------------------
// Parser Combinator(s)
//
// This section builds the traversable AST for the surface language: node
// declarations, equations, and expressions with ordinary C-like precedence
// (or < and < comparisons < + - < * / < unary), fby binding loosest of all.
// Comments ("//" to end of line) are threaded in wherever a top-level item or
// an equation is expected.

var ast = pc.NewAST("corec_program", 0)

// pExprLazy breaks the initialization cycle between pExpr and every rule that
// needs to parse a nested expression (call arguments, if-branches, the inside
// of parens, the right side of fby): it reads the package-level pExpr var at
// call time, once the whole grammar has finished being built, rather than at
// var-initialization time.
func pExprLazy(s *pc.Scanner) (pc.ParsecNode, *pc.Scanner) { return pExpr(s) }

// ----------------------------------------------------------------------------
// Lexical tokens

var (
	pIdent     = pc.Token(`[A-Za-z_][A-Za-z0-9_]*`, "IDENT")
	pIntLit    = pc.Int()
	pFloatLit  = pc.Float()
	pStringLit = pc.Token(`"(?:\\.|[^"\\])*"`, "STRING")

	pKwNode    = pc.Token(`node\b`, "NODE")
	pKwReturns = pc.Token(`returns\b`, "RETURNS")
	pKwVar     = pc.Token(`var\b`, "VAR")
	pKwLet     = pc.Token(`let\b`, "LET")
	pKwTel     = pc.Token(`tel\b`, "TEL")
	pKwIf      = pc.Token(`if\b`, "IF")
	pKwThen    = pc.Token(`then\b`, "THEN")
	pKwElse    = pc.Token(`else\b`, "ELSE")
	pKwFby     = pc.Token(`fby\b`, "FBY")
	pKwAnd     = pc.Token(`and\b`, "AND")
	pKwOr      = pc.Token(`or\b`, "OR")
	pKwNot     = pc.Token(`not\b`, "NOT")
	pKwTrue    = pc.Token(`true\b`, "TRUE")
	pKwFalse   = pc.Token(`false\b`, "FALSE")

	pLParen = pc.Atom("(", "LPAREN")
	pRParen = pc.Atom(")", "RPAREN")
	pComma  = pc.Atom(",", "COMMA")
	pColon  = pc.Atom(":", "COLON")
	pSemi   = pc.Atom(";", "SEMI")
	pAssign = pc.Atom("=", "ASSIGN")

	pUnit = pc.Atom("()", "UNIT")

	// Dotted float variants must be tried before their bare int counterparts,
	// since Atom matches whichever literal it's given regardless of what
	// follows — "+." would otherwise match the "+" atom and strand the dot.
	pOpAddF = pc.Atom("+.", "PLUSF")
	pOpSubF = pc.Atom("-.", "MINUSF")
	pOpMulF = pc.Atom("*.", "STARF")
	pOpDivF = pc.Atom("/.", "SLASHF")
	pOpAdd  = pc.Atom("+", "PLUS")
	pOpSub  = pc.Atom("-", "MINUS")
	pOpMul  = pc.Atom("*", "STAR")
	pOpDiv  = pc.Atom("/", "SLASH")

	pOpLeq = pc.Atom("<=", "LEQ")
	pOpGeq = pc.Atom(">=", "GEQ")
	pOpLt  = pc.Atom("<", "LT")
	pOpGt  = pc.Atom(">", "GT")
	pOpEq  = pc.Atom("=", "EQOP")

	pUnaryNegF = pc.Atom("-.", "NEGF")
	pUnaryNeg  = pc.Atom("-", "NEG")

	pType = ast.OrdChoice("type", nil,
		pc.Atom("unit", "TY_UNIT"), pc.Atom("bool", "TY_BOOL"), pc.Atom("int", "TY_INT"),
		pc.Atom("float", "TY_FLOAT"), pc.Atom("string", "TY_STRING"),
	)

	pComment = ast.And("comment", nil, pc.Atom("//", "SLASHSLASH"), pc.Token(`(?m).*$`, "COMMENT"))
)

// ----------------------------------------------------------------------------
// Expressions

var (
	pConst = ast.OrdChoice("const", nil, pUnit, pKwTrue, pKwFalse, pFloatLit, pIntLit, pStringLit)

	pCallArgs = ast.Kleene("call_args", nil, pExprLazy, pComma)
	pCall     = ast.And("call", nil, pIdent, pLParen, pCallArgs, pRParen)

	pIfExpr = ast.And("if_expr", nil, pKwIf, pExprLazy, pKwThen, pExprLazy, pKwElse, pExprLazy)

	pParenItems = ast.Many("paren_items", nil, pExprLazy, pComma)
	pParenGroup = ast.And("paren_group", nil, pLParen, pParenItems, pRParen)

	// pCall must be tried before the bare identifier case: both start with
	// IDENT, and OrdChoice backtracks cleanly when the '(' that would make it
	// a call is absent.
	pAtom = ast.OrdChoice("atom", nil, pConst, pIfExpr, pCall, pIdent, pParenGroup)

	pUnopTok = ast.OrdChoice("unop_tok", nil, pUnaryNegF, pUnaryNeg, pKwNot)
	pUnary   = ast.OrdChoice("unary", nil, ast.And("unop_expr", nil, pUnopTok, pAtom), pAtom)

	pMulOp   = ast.OrdChoice("mul_op", nil, pOpMulF, pOpMul, pOpDivF, pOpDiv)
	pMulExpr = ast.And("mul_expr", nil, pUnary, ast.Kleene("mul_rest", nil, ast.And("mul_item", nil, pMulOp, pUnary)))

	pAddOp   = ast.OrdChoice("add_op", nil, pOpAddF, pOpAdd, pOpSubF, pOpSub)
	pAddExpr = ast.And("add_expr", nil, pMulExpr, ast.Kleene("add_rest", nil, ast.And("add_item", nil, pAddOp, pMulExpr)))

	pCmpOp   = ast.OrdChoice("cmp_op", nil, pOpLeq, pOpGeq, pOpLt, pOpGt, pOpEq)
	pCmpExpr = ast.And("cmp_expr", nil, pAddExpr, ast.Maybe("cmp_rest", nil, ast.And("cmp_item", nil, pCmpOp, pAddExpr)))

	pAndExpr = ast.And("and_expr", nil, pCmpExpr, ast.Kleene("and_rest", nil, ast.And("and_item", nil, pKwAnd, pCmpExpr)))
	pOrExpr  = ast.And("or_expr", nil, pAndExpr, ast.Kleene("or_rest", nil, ast.And("or_item", nil, pKwOr, pAndExpr)))

	pFbyExpr = ast.And("fby_expr", nil, pOrExpr, ast.Maybe("fby_rest", nil, ast.And("fby_item", nil, pKwFby, pExprLazy)))
)

// pExpr is the grammar's true entry point; every other rule reaches it only
// through pExprLazy. It is assigned in init rather than by an initializer:
// pExprLazy's body refers to pExpr, so an initializer would close a package
// initialization cycle through the rules that call pExprLazy.
var pExpr pc.Parser

func init() { pExpr = pFbyExpr }

// ----------------------------------------------------------------------------
// Node declarations

var (
	pArgNames = ast.Many("arg_names", nil, pIdent, pComma)
	pArg      = ast.And("arg", nil, pArgNames, pColon, pType)

	pInputsBody  = ast.Kleene("inputs_body", nil, pArg, pSemi)
	pOutputsBody = ast.Many("outputs_body", nil, pArg, pSemi)

	pInputs  = ast.And("inputs", nil, pLParen, pInputsBody, pRParen)
	pOutputs = ast.And("outputs", nil, pLParen, pOutputsBody, pRParen)

	pVarSection = ast.And("var_section", nil, pKwVar, ast.Many("var_args", nil, pArg, pSemi), pSemi)

	pLhs      = ast.Many("lhs", nil, pIdent, pComma)
	pEquation = ast.And("equation", nil, pLhs, pAssign, pExprLazy, pSemi)

	pEqItem = ast.OrdChoice("eq_item", nil, pEquation, pComment)
	pEqList = ast.Kleene("eq_list", nil, pEqItem)

	pNode = ast.And("node", nil,
		pKwNode, pIdent, pInputs, pKwReturns, pOutputs, pSemi,
		ast.Maybe("maybe_var", nil, pVarSection),
		pKwLet, pEqList, pKwTel,
	)

	pProgramItem = ast.OrdChoice("program_item", nil, pNode, pComment)
	pProgram     = ast.ManyUntil("program", nil, pProgramItem, pc.End())
)
