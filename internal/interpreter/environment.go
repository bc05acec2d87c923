package interpreter

import (
	"fmt"
	"strings"

	"github.com/leonardinius/treewalk/internal/loxerrors"
	"github.com/leonardinius/treewalk/internal/token"
)

// environment is one scope of the runtime chain.
// Closures keep their defining environment reachable after the block that created it has exited.
type environment struct {
	enclosing *environment
	values    map[string]Value
}

func NewEnvironment() *environment {
	return &environment{}
}

func (e *environment) Define(name string, value Value) {
	if e.values == nil {
		e.values = make(map[string]Value)
	}
	e.values[name] = value
}

func (e *environment) Get(name *token.Token) (Value, error) {
	if value, ok := e.values[name.Lexeme]; ok {
		return value, nil
	}

	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}

	return nil, e.undefinedVariable(name)
}

func (e *environment) Assign(name *token.Token, value Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}

	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}

	return e.undefinedVariable(name)
}

// GetAt reads a binding the resolver placed distance scopes up the chain.
func (e *environment) GetAt(distance int, name *token.Token) (Value, error) {
	if value, ok := e.ancestor(distance).values[name.Lexeme]; ok {
		return value, nil
	}

	return nil, e.undefinedVariable(name)
}

// AssignAt writes a binding the resolver placed distance scopes up the chain.
func (e *environment) AssignAt(distance int, name *token.Token, value Value) error {
	depth := e.ancestor(distance)
	if _, ok := depth.values[name.Lexeme]; !ok {
		return e.undefinedVariable(name)
	}
	depth.values[name.Lexeme] = value

	return nil
}

func (e *environment) Nest() *environment {
	env := NewEnvironment()
	env.enclosing = e
	return env
}

func (e *environment) Enclosing() *environment {
	return e.enclosing
}

func (e *environment) ancestor(distance int) *environment {
	self := e
	for distance > 0 && self.enclosing != nil {
		self = self.enclosing
		distance--
	}

	return self
}

func (e *environment) undefinedVariable(name *token.Token) error {
	return loxerrors.NewRuntimeError(name, loxerrors.ErrRuntimeUndefinedVariableError(name.Lexeme))
}

func (e *environment) String() string {
	w := new(strings.Builder)

	for self := e; self != nil; self = self.enclosing {
		_, _ = w.WriteString("{")
		for k, v := range self.values {
			_, _ = fmt.Fprintf(w, "%s=%v,", k, v)
		}
		_, _ = w.WriteString("}")
		if self.enclosing != nil {
			_, _ = w.WriteString(" -> ")
		}
	}

	return w.String()
}

var _ fmt.Stringer = (*environment)(nil)
