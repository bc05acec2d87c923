package interpreter

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leonardinius/treewalk/internal/loxerrors"
	"github.com/leonardinius/treewalk/internal/parser"
	"github.com/leonardinius/treewalk/internal/token"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Resolver interface {
	// Resolve binds every local reference in stmts to its scope distance.
	// Resolving the same statements again yields the same bindings.
	Resolve(ctx context.Context, stmts []parser.Stmt) error
}

type VarState int

const (
	VarStateDeclared VarState = iota
	VarStateDefined
	VarStateUsed
)

type FunctionType int

const (
	FnTypeNone FunctionType = iota
	FnTypeFunction
	FnTypeExpr
)

type ResolverVariable struct {
	Name  *token.Token
	State VarState
}

func (v *ResolverVariable) String() string {
	return fmt.Sprintf("%s:%d", v.Name.Lexeme, v.State)
}

type scope map[string]*ResolverVariable

type resolver struct {
	interpreter     *interpreter
	scopes          []scope
	errs            []error
	currentFunction FunctionType
	profile         Profile
	reporter        loxerrors.ErrReporter
}

// profiles lists the diagnostics each profile keeps quiet.
var profiles = map[Profile][]error{
	ProfileDefault: {},
	ProfileStrict:  {},
	ProfileNonStrict: {
		loxerrors.ErrResolveLocalVariableNotUsed,
	},
}

func NewResolver(interpreterInstance Interpreter, options ...ResolverOption) Resolver {
	interpreterPtr, ok := interpreterInstance.(*interpreter)
	if !ok {
		panic("failed to cast interpreter to struct *interpreter")
	}

	opts := newResolverOpts(options...)
	reporter := opts.reporter
	if reporter == nil {
		reporter = interpreterPtr.reporter
	}

	return &resolver{
		interpreter:     interpreterPtr,
		currentFunction: FnTypeNone,
		profile:         opts.profile,
		reporter:        reporter,
	}
}

// Resolve implements Resolver.
func (r *resolver) Resolve(ctx context.Context, stmts []parser.Stmt) error {
	r.errs = nil
	r.scopes = r.scopes[:0]
	r.currentFunction = FnTypeNone

	r.resolveStmts(stmts)
	return errors.Join(r.errs...)
}

func (r *resolver) resolveStmts(stmts []parser.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.StmtExpression:
		r.resolveExpr(s.Expression)

	case *parser.StmtPrint:
		r.resolveExpr(s.Expression)

	case *parser.StmtVar:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *parser.StmtBlock:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *parser.StmtIf:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *parser.StmtWhile:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *parser.StmtBreak:

	case *parser.StmtFunction:
		// defined before the body so the function can call itself
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Fn, FnTypeFunction)

	case *parser.StmtReturn:
		if r.currentFunction == FnTypeNone {
			r.reportError(s.Keyword, loxerrors.ErrResolveReturnOutsideFunction)
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}

	default:
		panic(fmt.Sprintf("unexpected statement %T", stmt))
	}
}

func (r *resolver) resolveExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.ExprLiteral:

	case *parser.ExprGrouping:
		r.resolveExpr(e.Expression)

	case *parser.ExprUnary:
		r.resolveExpr(e.Right)

	case *parser.ExprBinary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *parser.ExprLogical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *parser.ExprTernary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)

	case *parser.ExprAssign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *parser.ExprVariable:
		if v, ok := r.peekScopeVar(e.Name.Lexeme); ok && v.State == VarStateDeclared {
			r.reportError(e.Name, loxerrors.ErrResolveVarSelfReference)
		}
		r.resolveLocal(e, e.Name)

	case *parser.ExprCall:
		r.resolveExpr(e.Callee)
		for _, argument := range e.Arguments {
			r.resolveExpr(argument)
		}

	case *parser.ExprFunction:
		r.resolveFunction(e, FnTypeExpr)

	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func (r *resolver) resolveFunction(function *parser.ExprFunction, declaration FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = declaration
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range function.Parameters {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(function.Body)
}

// resolveLocal records the distance to the innermost scope holding name and marks it used.
// Names found in no scope are globals and stay out of the side-table.
func (r *resolver) resolveLocal(expr parser.Expr, name *token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if v, ok := r.scopes[i][name.Lexeme]; ok {
			r.interpreter.resolve(expr.ID(), len(r.scopes)-1-i)
			v.State = VarStateUsed
			return
		}
	}
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	current := r.scopes[len(r.scopes)-1]
	r.scopes = r.scopes[:len(r.scopes)-1]

	unused := maps.Values(current)
	slices.SortFunc(unused, func(a, b *ResolverVariable) int {
		if c := cmp.Compare(a.Name.Line, b.Name.Line); c != 0 {
			return c
		}
		return strings.Compare(a.Name.Lexeme, b.Name.Lexeme)
	})

	for _, v := range unused {
		if v.State != VarStateUsed {
			r.reportError(v.Name, loxerrors.ErrResolveLocalVariableNotUsedError(v.Name.Lexeme))
		}
	}
}

func (r *resolver) declare(name *token.Token) {
	current, ok := r.peekScope()
	if !ok {
		return
	}
	if _, ok := current[name.Lexeme]; ok {
		r.reportError(name, loxerrors.ErrResolveDuplicateVariable)
	}
	current[name.Lexeme] = &ResolverVariable{Name: name, State: VarStateDeclared}
}

func (r *resolver) define(name *token.Token) {
	if current, ok := r.peekScope(); ok {
		// an initializer may already have used the name, see ErrResolveVarSelfReference
		if v := current[name.Lexeme]; v.State == VarStateDeclared {
			v.State = VarStateDefined
		}
	}
}

func (r *resolver) peekScope() (scope, bool) {
	if len(r.scopes) == 0 {
		return nil, false
	}
	return r.scopes[len(r.scopes)-1], true
}

func (r *resolver) peekScopeVar(name string) (*ResolverVariable, bool) {
	if current, ok := r.peekScope(); ok {
		v, ok := current[name]
		return v, ok
	}
	return nil, false
}

func (r *resolver) reportError(tok *token.Token, err error) {
	for _, ignored := range profiles[r.profile] {
		if errors.Is(err, ignored) {
			return
		}
	}

	staticErr := loxerrors.NewStaticError(tok, err)
	r.errs = append(r.errs, staticErr)
	if r.reporter != nil {
		r.reporter.ReportStaticError(staticErr)
	}
}

func (r *resolver) String() string {
	w := new(strings.Builder)

	delimiter := ""
	for index, s := range r.scopes {
		_, _ = fmt.Fprintf(w, "%s%d%v", delimiter, index, maps.Values(s))
		delimiter = " -> "
	}

	return fmt.Sprintf("resolver{errs: %v, scopes: %s}", r.errs, w)
}

var (
	_ Resolver     = (*resolver)(nil)
	_ fmt.Stringer = (*resolver)(nil)
)
