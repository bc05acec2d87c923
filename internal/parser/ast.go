package parser

import (
	"sync/atomic"

	"github.com/leonardinius/treewalk/internal/token"
)

// ExprID identifies an expression node.
// IDs are assigned by the parser and are unique within the process,
// so nodes from successive REPL lines never collide in the resolver's side-table.
type ExprID uint64

var lastExprID atomic.Uint64

func nextExprID() ExprID {
	return ExprID(lastExprID.Add(1))
}

// Expr is the closed set of expression nodes.
//
// Consumers switch on the concrete type; the unexported marker keeps the set closed.
type Expr interface {
	ID() ExprID
	exprNode()
}

// Stmt is the closed set of statement nodes.
type Stmt interface {
	stmtNode()
}

type exprBase struct {
	id ExprID
}

// ID implements Expr.
func (e exprBase) ID() ExprID { return e.id }

func (exprBase) exprNode() {}

type ExprLiteral struct {
	exprBase
	Value any
}

type ExprGrouping struct {
	exprBase
	Expression Expr
}

type ExprUnary struct {
	exprBase
	Operator *token.Token
	Right    Expr
}

// ExprBinary covers arithmetic, comparison, equality and the comma operator.
type ExprBinary struct {
	exprBase
	Left     Expr
	Operator *token.Token
	Right    Expr
}

type ExprLogical struct {
	exprBase
	Left     Expr
	Operator *token.Token
	Right    Expr
}

type ExprTernary struct {
	exprBase
	Condition Expr
	Question  *token.Token
	Then      Expr
	Else      Expr
}

type ExprAssign struct {
	exprBase
	Name  *token.Token
	Value Expr
}

type ExprVariable struct {
	exprBase
	Name *token.Token
}

type ExprCall struct {
	exprBase
	Callee    Expr
	Paren     *token.Token
	Arguments []Expr
}

// ExprFunction is a function literal. Named declarations wrap it in StmtFunction.
type ExprFunction struct {
	exprBase
	Parameters []*token.Token
	Body       []Stmt
}

type stmtBase struct{}

func (stmtBase) stmtNode() {}

type StmtExpression struct {
	stmtBase
	Expression Expr
}

type StmtPrint struct {
	stmtBase
	Expression Expr
}

type StmtVar struct {
	stmtBase
	Name        *token.Token
	Initializer Expr
}

type StmtBlock struct {
	stmtBase
	Statements []Stmt
}

type StmtIf struct {
	stmtBase
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

type StmtWhile struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

type StmtBreak struct {
	stmtBase
	Keyword *token.Token
}

type StmtFunction struct {
	stmtBase
	Name *token.Token
	Fn   *ExprFunction
}

type StmtReturn struct {
	stmtBase
	Keyword *token.Token
	Value   Expr
}

var (
	_ Expr = (*ExprLiteral)(nil)
	_ Expr = (*ExprGrouping)(nil)
	_ Expr = (*ExprUnary)(nil)
	_ Expr = (*ExprBinary)(nil)
	_ Expr = (*ExprLogical)(nil)
	_ Expr = (*ExprTernary)(nil)
	_ Expr = (*ExprAssign)(nil)
	_ Expr = (*ExprVariable)(nil)
	_ Expr = (*ExprCall)(nil)
	_ Expr = (*ExprFunction)(nil)

	_ Stmt = (*StmtExpression)(nil)
	_ Stmt = (*StmtPrint)(nil)
	_ Stmt = (*StmtVar)(nil)
	_ Stmt = (*StmtBlock)(nil)
	_ Stmt = (*StmtIf)(nil)
	_ Stmt = (*StmtWhile)(nil)
	_ Stmt = (*StmtBreak)(nil)
	_ Stmt = (*StmtFunction)(nil)
	_ Stmt = (*StmtReturn)(nil)
)
