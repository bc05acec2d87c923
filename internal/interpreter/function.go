package interpreter

import (
	"context"
	"fmt"

	"github.com/leonardinius/treewalk/internal/parser"
	"github.com/leonardinius/treewalk/internal/token"
)

// LoxFunction is a function declared in a script, closed over the environment it was declared in.
type LoxFunction struct {
	Name *token.Token
	Fn   *parser.ExprFunction
	Env  *environment
}

func NewLoxFunction(name *token.Token, fn *parser.ExprFunction, env *environment) *LoxFunction {
	return &LoxFunction{Name: name, Fn: fn, Env: env}
}

// Arity implements Callable.
func (l *LoxFunction) Arity() Arity {
	return Arity(len(l.Fn.Parameters))
}

// Call implements Callable.
// The call scope is parented to the captured environment, never to the caller's.
func (l *LoxFunction) Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error) {
	env := l.Env.Nest()

	for idx, param := range l.Fn.Parameters {
		env.Define(param.Lexeme, arguments[idx])
	}

	result, err := interpreter.executeBlock(ctx, l.Fn.Body, env)
	if err != nil {
		return nil, err
	}
	if result.kind == completionReturn {
		return result.value, nil
	}
	return NilValue, nil
}

// String implements fmt.Stringer.
func (l *LoxFunction) String() string {
	if l.Name == nil {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", l.Name.Lexeme)
}

// GoString implements fmt.GoStringer.
func (l *LoxFunction) GoString() string {
	if l.Name == nil {
		return fmt.Sprintf("<fn:#anon/%s>", l.Arity())
	}
	return fmt.Sprintf("<fn:%s/%s>", l.Name.Lexeme, l.Arity())
}

var (
	_ Callable       = (*LoxFunction)(nil)
	_ fmt.Stringer   = (*LoxFunction)(nil)
	_ fmt.GoStringer = (*LoxFunction)(nil)
)
