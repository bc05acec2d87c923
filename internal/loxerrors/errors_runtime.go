package loxerrors

import (
	"errors"
	"fmt"

	"github.com/leonardinius/treewalk/internal/token"
)

var (
	ErrRuntimeOperandMustBeNumber          = errors.New("Operand must be a number.")
	ErrRuntimeOperandsMustBeNumbers        = errors.New("Operands must be numbers.")
	ErrRuntimeOperandsMustNumbersOrStrings = errors.New("Operands must be two numbers or two strings.")
	ErrRuntimeDivisionByZero               = errors.New("Division by zero.")
	ErrRuntimeUndefinedVariable            = errors.New("Undefined variable")
	ErrRuntimeCalleeMustBeCallable         = errors.New("Can only call functions.")
)

func ErrRuntimeCalleeArityError(expectedArity int, actualArity int) error {
	return fmt.Errorf("Expected %d arguments but got %d.", expectedArity, actualArity)
}

func ErrRuntimeUndefinedVariableError(name string) error {
	return fmt.Errorf("%w '%s'.", ErrRuntimeUndefinedVariable, name)
}

func NewRuntimeError(tok *token.Token, cause error) error {
	return &RuntimeError{tok, cause}
}

type RuntimeError struct {
	tok   *token.Token
	cause error
}

// Token returns the token the failing operation was evaluated at.
func (r *RuntimeError) Token() *token.Token {
	return r.tok
}

// Error implements error.
func (r *RuntimeError) Error() string {
	return fmt.Sprintf("%v\n[line %d]", r.cause, r.tok.Line)
}

func (r *RuntimeError) Unwrap() error {
	return r.cause
}

var (
	_ error           = (*RuntimeError)(nil)
	_ unwrapInterface = (*RuntimeError)(nil)
)
