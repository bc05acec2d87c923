package interpreter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/leonardinius/treewalk/internal/loxerrors"
	"github.com/leonardinius/treewalk/internal/parser"
	"github.com/leonardinius/treewalk/internal/token"
)

type Interpreter interface {
	// Interpret runs statements against the persistent global state.
	// The returned string is the echo of the final statement: its value if it is an expression statement, "nil" otherwise.
	Interpret(ctx context.Context, stmts []parser.Stmt) (string, error)
}

type completionKind int

const (
	completionNormal completionKind = iota
	completionBreak
	completionReturn
)

// completion is how a statement finished. Only completionReturn carries a value.
type completion struct {
	kind  completionKind
	value Value
}

var normalCompletion = completion{kind: completionNormal}

type interpreter struct {
	globals   *environment
	env       *environment
	locals    map[parser.ExprID]int
	startedAt time.Time
	stdout    io.Writer
	reporter  loxerrors.ErrReporter
}

func NewInterpreter(options ...InterpreterOption) Interpreter {
	opts := newInterpreterOpts(options...)
	defineStdlib(opts.globals)

	return &interpreter{
		globals:   opts.globals,
		env:       opts.globals,
		locals:    make(map[parser.ExprID]int),
		startedAt: time.Now(),
		stdout:    opts.stdout,
		reporter:  opts.reporter,
	}
}

// Interpret implements Interpreter.
func (i *interpreter) Interpret(ctx context.Context, stmts []parser.Stmt) (string, error) {
	var last Value = NilValue

	for _, stmt := range stmts {
		var err error
		if expr, ok := stmt.(*parser.StmtExpression); ok {
			last, err = i.evaluate(ctx, expr.Expression)
		} else {
			last = NilValue
			_, err = i.execute(ctx, stmt)
		}

		if err != nil {
			i.reporter.ReportRuntimeError(err)
			return "", err
		}
	}

	return repr(last), nil
}

func (i *interpreter) resolve(id parser.ExprID, depth int) {
	i.locals[id] = depth
}

func (i *interpreter) execute(ctx context.Context, stmt parser.Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *parser.StmtExpression:
		_, err := i.evaluate(ctx, s.Expression)
		return normalCompletion, err

	case *parser.StmtPrint:
		value, err := i.evaluate(ctx, s.Expression)
		if err != nil {
			return normalCompletion, err
		}
		_, _ = fmt.Fprintln(i.stdout, value.String())
		return normalCompletion, nil

	case *parser.StmtVar:
		var value Value = NilValue
		if s.Initializer != nil {
			var err error
			if value, err = i.evaluate(ctx, s.Initializer); err != nil {
				return normalCompletion, err
			}
		}
		i.env.Define(s.Name.Lexeme, value)
		return normalCompletion, nil

	case *parser.StmtBlock:
		return i.executeBlock(ctx, s.Statements, i.env.Nest())

	case *parser.StmtIf:
		condition, err := i.evaluate(ctx, s.Condition)
		if err != nil {
			return normalCompletion, err
		}
		if isTruthy(condition) {
			return i.execute(ctx, s.ThenBranch)
		}
		if s.ElseBranch != nil {
			return i.execute(ctx, s.ElseBranch)
		}
		return normalCompletion, nil

	case *parser.StmtWhile:
		return i.executeWhile(ctx, s)

	case *parser.StmtBreak:
		return completion{kind: completionBreak}, nil

	case *parser.StmtFunction:
		fn := NewLoxFunction(s.Name, s.Fn, i.env)
		i.env.Define(s.Name.Lexeme, ValueCallable{fn})
		return normalCompletion, nil

	case *parser.StmtReturn:
		var value Value = NilValue
		if s.Value != nil {
			var err error
			if value, err = i.evaluate(ctx, s.Value); err != nil {
				return normalCompletion, err
			}
		}
		return completion{kind: completionReturn, value: value}, nil
	}

	panic(fmt.Sprintf("unexpected statement %T", stmt))
}

func (i *interpreter) executeWhile(ctx context.Context, s *parser.StmtWhile) (completion, error) {
	for {
		condition, err := i.evaluate(ctx, s.Condition)
		if err != nil {
			return normalCompletion, err
		}
		if !isTruthy(condition) {
			return normalCompletion, nil
		}

		result, err := i.execute(ctx, s.Body)
		if err != nil {
			return normalCompletion, err
		}

		switch result.kind {
		case completionBreak:
			return normalCompletion, nil
		case completionReturn:
			return result, nil
		}
	}
}

// executeBlock runs stmts in env and restores the previous environment on any exit.
func (i *interpreter) executeBlock(ctx context.Context, stmts []parser.Stmt, env *environment) (completion, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		result, err := i.execute(ctx, stmt)
		if err != nil || result.kind != completionNormal {
			return result, err
		}
	}

	return normalCompletion, nil
}

func (i *interpreter) evaluate(ctx context.Context, expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.ExprLiteral:
		return valueFromLiteral(e.Value), nil

	case *parser.ExprGrouping:
		return i.evaluate(ctx, e.Expression)

	case *parser.ExprUnary:
		return i.evaluateUnary(ctx, e)

	case *parser.ExprBinary:
		return i.evaluateBinary(ctx, e)

	case *parser.ExprLogical:
		left, err := i.evaluate(ctx, e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == token.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return i.evaluate(ctx, e.Right)

	case *parser.ExprTernary:
		condition, err := i.evaluate(ctx, e.Condition)
		if err != nil {
			return nil, err
		}
		if isTruthy(condition) {
			return i.evaluate(ctx, e.Then)
		}
		return i.evaluate(ctx, e.Else)

	case *parser.ExprAssign:
		value, err := i.evaluate(ctx, e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[e.ID()]; ok {
			err = i.env.AssignAt(distance, e.Name, value)
		} else {
			err = i.globals.Assign(e.Name, value)
		}
		return value, err

	case *parser.ExprVariable:
		return i.lookUpVariable(e.Name, e)

	case *parser.ExprCall:
		return i.evaluateCall(ctx, e)

	case *parser.ExprFunction:
		return ValueCallable{NewLoxFunction(nil, e, i.env)}, nil
	}

	panic(fmt.Sprintf("unexpected expression %T", expr))
}

func (i *interpreter) evaluateUnary(ctx context.Context, e *parser.ExprUnary) (Value, error) {
	right, err := i.evaluate(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.MINUS:
		if r, ok := right.(ValueFloat); ok {
			return -r, nil
		}
		return nil, loxerrors.NewRuntimeError(e.Operator, loxerrors.ErrRuntimeOperandMustBeNumber)
	case token.BANG:
		return ValueBool(!isTruthy(right)), nil
	}

	panic(fmt.Sprintf("unexpected unary operator %s", e.Operator.Type))
}

func (i *interpreter) evaluateBinary(ctx context.Context, e *parser.ExprBinary) (Value, error) {
	left, err := i.evaluate(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.COMMA:
		return right, nil
	case token.EQUAL_EQUAL:
		return ValueBool(isEqual(left, right)), nil
	case token.BANG_EQUAL:
		return ValueBool(!isEqual(left, right)), nil
	case token.PLUS:
		return i.add(e.Operator, left, right)
	}

	l, lok := left.(ValueFloat)
	r, rok := right.(ValueFloat)
	if !lok || !rok {
		return nil, loxerrors.NewRuntimeError(e.Operator, loxerrors.ErrRuntimeOperandsMustBeNumbers)
	}

	switch e.Operator.Type {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, loxerrors.NewRuntimeError(e.Operator, loxerrors.ErrRuntimeDivisionByZero)
		}
		return l / r, nil
	case token.GREATER:
		return ValueBool(l > r), nil
	case token.GREATER_EQUAL:
		return ValueBool(l >= r), nil
	case token.LESS:
		return ValueBool(l < r), nil
	case token.LESS_EQUAL:
		return ValueBool(l <= r), nil
	}

	panic(fmt.Sprintf("unexpected binary operator %s", e.Operator.Type))
}

// add concatenates as soon as either side is a string.
func (i *interpreter) add(operator *token.Token, left, right Value) (Value, error) {
	switch l := left.(type) {
	case ValueFloat:
		switch r := right.(type) {
		case ValueFloat:
			return l + r, nil
		case ValueString:
			return ValueString(l.String()) + r, nil
		}
	case ValueString:
		return l + ValueString(right.String()), nil
	default:
		if r, ok := right.(ValueString); ok {
			return ValueString(left.String()) + r, nil
		}
	}

	return nil, loxerrors.NewRuntimeError(operator, loxerrors.ErrRuntimeOperandsMustNumbersOrStrings)
}

func (i *interpreter) evaluateCall(ctx context.Context, e *parser.ExprCall) (Value, error) {
	callee, err := i.evaluate(ctx, e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]Value, 0, len(e.Arguments))
	for _, argument := range e.Arguments {
		value, err := i.evaluate(ctx, argument)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, value)
	}

	fn, ok := callee.(ValueCallable)
	if !ok {
		return nil, loxerrors.NewRuntimeError(e.Paren, loxerrors.ErrRuntimeCalleeMustBeCallable)
	}

	if arity := int(fn.Arity()); arity != len(arguments) {
		return nil, loxerrors.NewRuntimeError(e.Paren, loxerrors.ErrRuntimeCalleeArityError(arity, len(arguments)))
	}

	return fn.Call(ctx, i, arguments)
}

func (i *interpreter) lookUpVariable(name *token.Token, expr parser.Expr) (Value, error) {
	if distance, ok := i.locals[expr.ID()]; ok {
		return i.env.GetAt(distance, name)
	}
	return i.globals.Get(name)
}

// repr is the REPL echo form: strings are quoted, everything else prints as 'print' shows it.
func repr(value Value) string {
	if s, ok := value.(ValueString); ok {
		return strconv.Quote(string(s))
	}
	return value.String()
}

var _ Interpreter = (*interpreter)(nil)
