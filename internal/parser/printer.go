package parser

import (
	"fmt"
	"strings"
)

// AstPrinter renders the tree as parenthesized prefix notation, for debugging.
type AstPrinter struct{}

func NewAstPrinter() *AstPrinter {
	return &AstPrinter{}
}

// Print renders a single expression.
func (p *AstPrinter) Print(expr Expr) string {
	out := new(strings.Builder)
	p.expr(out, expr)
	return out.String()
}

// PrintProgram renders statements, one per line.
func (p *AstPrinter) PrintProgram(statements []Stmt) string {
	out := new(strings.Builder)
	for _, stmt := range statements {
		p.stmt(out, stmt)
		_, _ = out.WriteString("\n")
	}
	return out.String()
}

func (p *AstPrinter) expr(out *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case nil:
		_, _ = out.WriteString("<nil>")
	case *ExprLiteral:
		p.literal(out, e.Value)
	case *ExprGrouping:
		p.parenthesize(out, "group", e.Expression)
	case *ExprUnary:
		p.parenthesize(out, e.Operator.Lexeme, e.Right)
	case *ExprBinary:
		p.parenthesize(out, e.Operator.Lexeme, e.Left, e.Right)
	case *ExprLogical:
		p.parenthesize(out, e.Operator.Lexeme, e.Left, e.Right)
	case *ExprTernary:
		p.parenthesize(out, "?:", e.Condition, e.Then, e.Else)
	case *ExprAssign:
		p.parenthesize(out, "= "+e.Name.Lexeme, e.Value)
	case *ExprVariable:
		_, _ = out.WriteString(e.Name.Lexeme)
	case *ExprCall:
		p.parenthesize(out, "call", append([]Expr{e.Callee}, e.Arguments...)...)
	case *ExprFunction:
		p.function(out, "fun", e)
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func (p *AstPrinter) stmt(out *strings.Builder, stmt Stmt) {
	switch s := stmt.(type) {
	case *StmtExpression:
		p.parenthesize(out, ";", s.Expression)
	case *StmtPrint:
		p.parenthesize(out, "print", s.Expression)
	case *StmtVar:
		if s.Initializer == nil {
			_, _ = fmt.Fprintf(out, "(var %s)", s.Name.Lexeme)
			return
		}
		p.parenthesize(out, "var "+s.Name.Lexeme, s.Initializer)
	case *StmtBlock:
		_, _ = out.WriteString("(block")
		for _, inner := range s.Statements {
			_, _ = out.WriteString(" ")
			p.stmt(out, inner)
		}
		_, _ = out.WriteString(")")
	case *StmtIf:
		_, _ = out.WriteString("(if ")
		p.expr(out, s.Condition)
		_, _ = out.WriteString(" ")
		p.stmt(out, s.ThenBranch)
		if s.ElseBranch != nil {
			_, _ = out.WriteString(" ")
			p.stmt(out, s.ElseBranch)
		}
		_, _ = out.WriteString(")")
	case *StmtWhile:
		_, _ = out.WriteString("(while ")
		p.expr(out, s.Condition)
		_, _ = out.WriteString(" ")
		p.stmt(out, s.Body)
		_, _ = out.WriteString(")")
	case *StmtBreak:
		_, _ = out.WriteString("(break)")
	case *StmtFunction:
		p.function(out, "fun "+s.Name.Lexeme, s.Fn)
	case *StmtReturn:
		if s.Value == nil {
			_, _ = out.WriteString("(return)")
			return
		}
		p.parenthesize(out, "return", s.Value)
	default:
		panic(fmt.Sprintf("unexpected statement %T", stmt))
	}
}

func (p *AstPrinter) function(out *strings.Builder, name string, fn *ExprFunction) {
	_, _ = fmt.Fprintf(out, "(%s (", name)
	for i, param := range fn.Parameters {
		if i > 0 {
			_, _ = out.WriteString(" ")
		}
		_, _ = out.WriteString(param.Lexeme)
	}
	_, _ = out.WriteString(")")
	for _, stmt := range fn.Body {
		_, _ = out.WriteString(" ")
		p.stmt(out, stmt)
	}
	_, _ = out.WriteString(")")
}

func (p *AstPrinter) literal(out *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		_, _ = out.WriteString("nil")
	case string:
		_, _ = fmt.Fprintf(out, "%q", v)
	default:
		_, _ = fmt.Fprintf(out, "%v", v)
	}
}

func (p *AstPrinter) parenthesize(out *strings.Builder, name string, exprs ...Expr) {
	_, _ = out.WriteString("(")
	_, _ = out.WriteString(name)
	for _, expr := range exprs {
		_, _ = out.WriteString(" ")
		p.expr(out, expr)
	}
	_, _ = out.WriteString(")")
}
