package interpreter

import (
	"context"
	"fmt"
	"strconv"
)

type Arity int

func (a Arity) String() string {
	return strconv.Itoa(int(a))
}

// Callable is a function value: either native or declared in a script.
//
// Implementations must be pointer types, equality of function values is identity.
type Callable interface {
	Arity() Arity
	Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error)
	fmt.Stringer
}

// ========  ========  ========  ========  ========  ========  ========

type NativeFunction struct {
	name  string
	arity Arity
	fn    func(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error)
}

// NewNativeFunction0 wraps a host function taking no arguments.
func NewNativeFunction0(name string, fn func(ctx context.Context, interpreter *interpreter) (Value, error)) *NativeFunction {
	return &NativeFunction{
		name:  name,
		arity: 0,
		fn: func(ctx context.Context, interpreter *interpreter, _ []Value) (Value, error) {
			return fn(ctx, interpreter)
		},
	}
}

// Name is the global the function is bound to.
func (n *NativeFunction) Name() string {
	return n.name
}

// Arity implements Callable.
func (n *NativeFunction) Arity() Arity {
	return n.arity
}

// Call implements Callable.
func (n *NativeFunction) Call(ctx context.Context, interpreter *interpreter, arguments []Value) (Value, error) {
	return n.fn(ctx, interpreter, arguments)
}

// String implements fmt.Stringer.
func (n *NativeFunction) String() string {
	return "<native fn>"
}

// GoString implements fmt.GoStringer.
func (n *NativeFunction) GoString() string {
	return fmt.Sprintf("<native fn %s/%s>", n.name, n.arity)
}

var (
	_ Callable       = (*NativeFunction)(nil)
	_ fmt.GoStringer = (*NativeFunction)(nil)
)
