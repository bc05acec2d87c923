package parser

import (
	"errors"
	"fmt"

	"github.com/leonardinius/treewalk/internal/loxerrors"
	"github.com/leonardinius/treewalk/internal/token"
)

const maxArguments = 255

var (
	nilExpr       Expr   = nil
	nilStmt       Stmt   = nil
	nilStatements []Stmt = nil
)

type Parser interface {
	// Parse parses the whole token stream.
	// Statements that failed to parse are dropped from the result, the rest is returned.
	// The error joins every static error found; each one has already been sent to the reporter.
	Parse() ([]Stmt, error)
}

type parser struct {
	tokens   []token.Token
	current  int
	err      error
	errs     []error
	inLoop   bool
	reporter loxerrors.ErrReporter
}

func NewParser(tokens []token.Token, reporter loxerrors.ErrReporter) Parser {
	if len(tokens) == 0 {
		panic("tokens cannot be empty")
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		panic("tokens must end with EOF")
	}

	return &parser{
		tokens:   tokens,
		current:  0,
		reporter: reporter,
	}
}

// GoString implements fmt.GoStringer.
func (p *parser) GoString() string {
	return fmt.Sprintf("parser{tokens: %#v, current: %d, errs: %#v}", p.tokens, p.current, p.errs)
}

// String implements fmt.Stringer.
func (p *parser) String() string {
	return fmt.Sprintf("parser{tokens: %d, errs: %d}", len(p.tokens), len(p.errs))
}

// Parse implements Parser.
func (p *parser) Parse() ([]Stmt, error) {
	var statements []Stmt
	for !p.isAtEnd() {
		if stmt, ok := p.recoverableDeclaration(); ok {
			statements = append(statements, stmt)
		}
	}

	return statements, errors.Join(p.errs...)
}

// recoverableDeclaration parses one declaration.
// On a syntax error the declaration is dropped and the parser resumes at the next statement boundary.
func (p *parser) recoverableDeclaration() (Stmt, bool) {
	stmt := p.declaration()
	if p.err != nil {
		p.synchronize()
		p.err = nil
		return nilStmt, false
	}
	return stmt, true
}

func (p *parser) declaration() Stmt {
	if p.check(token.FUN) && p.checkNext(token.IDENTIFIER) {
		p.advance()
		return p.function("function")
	}

	if p.match(token.VAR) {
		return p.varDeclaration()
	}

	return p.statement()
}

func (p *parser) function(kind string) Stmt {
	if !p.match(token.IDENTIFIER) {
		return p.reportStmtError(loxerrors.ErrParseExpectedIdentifierKindError(kind))
	}
	name := p.previous()

	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenError(kind))
	}

	fn := p.functionBody(kind)
	if fn == nil {
		return nilStmt
	}

	return &StmtFunction{Name: name, Fn: fn}
}

// functionBody parses the parameter list and body; the opening paren is already consumed.
func (p *parser) functionBody(kind string) *ExprFunction {
	var parameters []*token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(parameters) >= maxArguments {
				p.reportNonFatal(p.peek(), loxerrors.ErrParseTooManyParameters)
			}
			if !p.match(token.IDENTIFIER) {
				p.reportStmtError(loxerrors.ErrParseUnexpectedParameterName)
				return nil
			}
			parameters = append(parameters, p.previous())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.match(token.RIGHT_PAREN) {
		p.reportStmtError(loxerrors.ErrParseExpectedRightParenFunToken)
		return nil
	}

	if !p.match(token.LEFT_BRACE) {
		p.reportStmtError(loxerrors.ErrParseExpectedLeftBraceFunToken(kind))
		return nil
	}

	// a loop around the function does not make 'break' legal inside it
	enclosingLoop := p.inLoop
	p.inLoop = false
	body := p.blockStatement()
	p.inLoop = enclosingLoop

	return &ExprFunction{exprBase: p.base(), Parameters: parameters, Body: body}
}

func (p *parser) varDeclaration() Stmt {
	if !p.match(token.IDENTIFIER) {
		return p.reportStmtError(loxerrors.ErrParseUnexpectedVariableName)
	}
	name := p.previous()

	var initializer Expr = nilExpr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterVar)
	}

	return &StmtVar{Name: name, Initializer: initializer}
}

func (p *parser) statement() Stmt {
	if p.match(token.IF) {
		return p.ifStatement()
	}

	if p.match(token.FOR) {
		return p.forStatement()
	}

	if p.match(token.PRINT) {
		return p.printStatement()
	}

	if p.match(token.WHILE) {
		return p.whileStatement()
	}

	if p.match(token.BREAK) {
		return p.breakStatement()
	}

	if p.match(token.RETURN) {
		return p.returnStatement()
	}

	if p.match(token.LEFT_BRACE) {
		block := p.blockStatement()
		return &StmtBlock{Statements: block}
	}

	return p.expressionStatement()
}

func (p *parser) ifStatement() Stmt {
	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenIfToken)
	}

	condition := p.expression()

	if !p.match(token.RIGHT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightParenIfToken)
	}

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &StmtIf{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *parser) forStatement() Stmt {
	enclosingLoop := p.inLoop
	p.inLoop = true
	defer func() { p.inLoop = enclosingLoop }()

	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenForToken)
	}

	var initializer Stmt
	if p.match(token.SEMICOLON) {
		initializer = nilStmt
	} else if p.match(token.VAR) {
		initializer = p.varDeclaration()
	} else {
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterLoopCond)
	}

	var increment Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	if !p.match(token.RIGHT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightParenForToken)
	}

	body := p.statement()
	if increment != nilExpr {
		body = &StmtBlock{
			Statements: []Stmt{body, &StmtExpression{Expression: increment}},
		}
	}
	if condition == nilExpr {
		condition = &ExprLiteral{exprBase: p.base(), Value: true}
	}
	body = &StmtWhile{Condition: condition, Body: body}
	if initializer != nilStmt {
		body = &StmtBlock{Statements: []Stmt{initializer, body}}
	}
	return body
}

func (p *parser) printStatement() Stmt {
	expr := p.expression()

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterValue)
	}

	return &StmtPrint{Expression: expr}
}

func (p *parser) whileStatement() Stmt {
	enclosingLoop := p.inLoop
	p.inLoop = true
	defer func() { p.inLoop = enclosingLoop }()

	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenWhileToken)
	}
	condition := p.expression()
	if !p.match(token.RIGHT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightParenWhileToken)
	}

	body := p.statement()

	return &StmtWhile{Condition: condition, Body: body}
}

func (p *parser) breakStatement() Stmt {
	keyword := p.previous()
	if !p.inLoop {
		p.reportNonFatal(keyword, loxerrors.ErrParseBreakOutsideLoop)
	}

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterBreak)
	}

	return &StmtBreak{Keyword: keyword}
}

func (p *parser) returnStatement() Stmt {
	keyword := p.previous()

	var value Expr = nilExpr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterReturn)
	}

	return &StmtReturn{Keyword: keyword, Value: value}
}

func (p *parser) blockStatement() []Stmt {
	var stmts []Stmt

	for !p.check(token.RIGHT_BRACE) && !p.isDone() {
		if stmt, ok := p.recoverableDeclaration(); ok {
			stmts = append(stmts, stmt)
		}
	}

	if !p.match(token.RIGHT_BRACE) {
		return p.reportStmtsError(loxerrors.ErrParseExpectedRightCurlyBlockToken)
	}

	return stmts
}

func (p *parser) expressionStatement() Stmt {
	expr := p.expression()
	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterExpr)
	}
	return &StmtExpression{Expression: expr}
}

func (p *parser) expression() Expr {
	return p.comma()
}

func (p *parser) comma() Expr {
	expr := p.assignment()

	for p.match(token.COMMA) {
		operator := p.previous()
		right := p.assignment()
		expr = &ExprBinary{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) assignment() Expr {
	expr := p.ternary()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		if v, ok := expr.(*ExprVariable); ok {
			return &ExprAssign{exprBase: p.base(), Name: v.Name, Value: value}
		}

		p.reportNonFatal(equals, loxerrors.ErrParseInvalidAssignmentTarget)
	}

	return expr
}

func (p *parser) ternary() Expr {
	expr := p.logicOr()

	if p.match(token.QUESTION) {
		question := p.previous()
		thenBranch := p.expression()
		if !p.match(token.COLON) {
			return p.reportExprError(loxerrors.ErrParseExpectedColonAfterTernaryThen)
		}
		elseBranch := p.ternary()
		return &ExprTernary{exprBase: p.base(), Condition: expr, Question: question, Then: thenBranch, Else: elseBranch}
	}

	return expr
}

func (p *parser) logicOr() Expr {
	expr := p.logicAnd()

	for p.match(token.OR) {
		operator := p.previous()
		right := p.logicAnd()
		expr = &ExprLogical{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) logicAnd() Expr {
	expr := p.equality()

	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ExprLogical{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) equality() Expr {
	expr := p.comparison()

	for p.anyMatch(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &ExprBinary{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) comparison() Expr {
	expr := p.term()

	for p.anyMatch(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		expr = &ExprBinary{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) term() Expr {
	expr := p.factor()

	for p.anyMatch(token.MINUS, token.PLUS) {
		operator := p.previous()
		right := p.factor()
		expr = &ExprBinary{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) factor() Expr {
	expr := p.unary()

	for p.anyMatch(token.SLASH, token.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &ExprBinary{exprBase: p.base(), Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) unary() Expr {
	if p.anyMatch(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ExprUnary{
			exprBase: p.base(),
			Operator: operator,
			Right:    right,
		}
	}

	return p.call()
}

func (p *parser) call() Expr {
	expr := p.primary()

	for p.match(token.LEFT_PAREN) {
		expr = p.finishCall(expr)
	}

	return expr
}

func (p *parser) finishCall(callee Expr) Expr {
	var arguments []Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(arguments) >= maxArguments {
				p.reportNonFatal(p.peek(), loxerrors.ErrParseTooManyArguments)
			}
			// comma separates arguments here, so each one is parsed below the comma operator
			arguments = append(arguments, p.assignment())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.match(token.RIGHT_PAREN) {
		return p.reportExprError(loxerrors.ErrParseExpectedRightParenAfterArgs)
	}

	return &ExprCall{exprBase: p.base(), Callee: callee, Paren: p.previous(), Arguments: arguments}
}

func (p *parser) primary() Expr {
	if p.match(token.FALSE) {
		return &ExprLiteral{exprBase: p.base(), Value: false}
	}
	if p.match(token.TRUE) {
		return &ExprLiteral{exprBase: p.base(), Value: true}
	}
	if p.match(token.NIL) {
		return &ExprLiteral{exprBase: p.base(), Value: nil}
	}

	if p.anyMatch(token.NUMBER, token.STRING) {
		tok := p.previous()
		return &ExprLiteral{exprBase: p.base(), Value: tok.Literal}
	}

	if p.match(token.IDENTIFIER) {
		tok := p.previous()
		return &ExprVariable{exprBase: p.base(), Name: tok}
	}

	if p.match(token.FUN) {
		if !p.match(token.LEFT_PAREN) {
			return p.reportExprError(loxerrors.ErrParseExpectedLeftParenError("fun"))
		}
		if fn := p.functionBody("function"); fn != nil {
			return fn
		}
		return nilExpr
	}

	return p.grouping()
}

func (p *parser) grouping() Expr {
	if p.match(token.LEFT_PAREN) {
		expr := p.expression()
		if !p.match(token.RIGHT_PAREN) {
			return p.reportExprError(loxerrors.ErrParseExpectedRightParenToken)
		}
		return &ExprGrouping{exprBase: p.base(), Expression: expr}
	}

	return p.reportExprError(loxerrors.ErrParseUnexpectedToken)
}

func (p *parser) base() exprBase {
	return exprBase{id: nextExprID()}
}

func (p *parser) anyMatch(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) match(tokType token.TokenType) bool {
	if p.check(tokType) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) check(tokenType token.TokenType) bool {
	return !p.isDone() && p.peek().Type == tokenType
}

func (p *parser) checkNext(tokenType token.TokenType) bool {
	if p.isDone() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == tokenType
}

func (p *parser) peek() *token.Token {
	return &p.tokens[p.current]
}

func (p *parser) previous() *token.Token {
	return &p.tokens[p.current-1]
}

func (p *parser) advance() *token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// Be carefull with isAtEnd, it does not check for parse errors.
// Use isDone instead.
// isAtEnd is used from top level Parse, synchronize and advance only.
func (p *parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *parser) isDone() bool {
	// at the end, OR, in panic mode
	return p.isAtEnd() || p.err != nil
}

func (p *parser) reportStmtError(err error) Stmt {
	p.reportFatal(p.peek(), err)
	return nilStmt
}

func (p *parser) reportStmtsError(err error) []Stmt {
	p.reportFatal(p.peek(), err)
	return nilStatements
}

func (p *parser) reportExprError(err error) Expr {
	p.reportFatal(p.peek(), err)
	return nilExpr
}

// reportFatal records the first error of the current declaration and enters panic mode.
func (p *parser) reportFatal(tok *token.Token, err error) {
	if p.err != nil {
		return
	}
	p.err = loxerrors.NewStaticError(tok, err)
	p.record(p.err)
}

// reportNonFatal records an error the grammar can continue past.
func (p *parser) reportNonFatal(tok *token.Token, err error) {
	if p.err != nil {
		return
	}
	p.record(loxerrors.NewStaticError(tok, err))
}

func (p *parser) record(err error) {
	p.errs = append(p.errs, err)
	if p.reporter != nil {
		p.reporter.ReportStaticError(err)
	}
}

func (p *parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case token.CLASS,
			token.FUN,
			token.VAR,
			token.FOR,
			token.IF,
			token.WHILE,
			token.PRINT,
			token.RETURN,
			token.BREAK:
			return
		}

		p.advance()
	}
}

var (
	_ Parser         = (*parser)(nil)
	_ fmt.Stringer   = (*parser)(nil)
	_ fmt.GoStringer = (*parser)(nil)
)
