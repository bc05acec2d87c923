package loxerrors

import (
	"errors"
	"fmt"

	"github.com/leonardinius/treewalk/internal/token"
)

var (
	ErrParseUnexpectedToken                = errors.New("Expect expression.")
	ErrParseUnexpectedVariableName         = errors.New("Expect variable name.")
	ErrParseInvalidAssignmentTarget        = errors.New("Invalid assignment target.")
	ErrParseExpectedRightParenToken        = errors.New("Expect ')' after expression.")
	ErrParseExpectedColonAfterTernaryThen  = errors.New("Expect ':' after then branch of conditional expression.")
	ErrParseExpectedLeftParenIfToken       = errors.New("Expect '(' after 'if'.")
	ErrParseExpectedRightParenIfToken      = errors.New("Expect ')' after if condition.")
	ErrParseExpectedLeftParenWhileToken    = errors.New("Expect '(' after 'while'.")
	ErrParseExpectedRightParenWhileToken   = errors.New("Expect ')' after condition.")
	ErrParseExpectedLeftParenForToken      = errors.New("Expect '(' after 'for'.")
	ErrParseExpectedRightParenForToken     = errors.New("Expect ')' after for clauses.")
	ErrParseExpectedRightCurlyBlockToken   = errors.New("Expect '}' after block.")
	ErrParseExpectedSemicolonAfterValue    = errors.New("Expect ';' after value.")
	ErrParseExpectedSemicolonAfterExpr     = errors.New("Expect ';' after expression.")
	ErrParseExpectedSemicolonAfterVar      = errors.New("Expect ';' after variable declaration.")
	ErrParseExpectedSemicolonAfterLoopCond = errors.New("Expect ';' after loop condition.")
	ErrParseExpectedSemicolonAfterBreak    = errors.New("Expect ';' after 'break'.")
	ErrParseExpectedSemicolonAfterReturn   = errors.New("Expect ';' after return value.")
	ErrParseExpectedRightParenAfterArgs    = errors.New("Expect ')' after arguments.")
	ErrParseUnexpectedParameterName        = errors.New("Expect parameter name.")
	ErrParseExpectedRightParenFunToken     = errors.New("Expect ')' after parameters.")
	ErrParseBreakOutsideLoop               = errors.New("Must be inside a loop to use 'break'.")
	ErrParseTooManyArguments               = errors.New("Can't have more than 255 arguments.")
	ErrParseTooManyParameters              = errors.New("Can't have more than 255 parameters.")

	ErrResolveDuplicateVariable     = errors.New("Already a variable with this name in this scope.")
	ErrResolveVarSelfReference      = errors.New("Can't read local variable in its own initializer.")
	ErrResolveReturnOutsideFunction = errors.New("Can't return from top-level code.")
	ErrResolveLocalVariableNotUsed  = errors.New("is never used.")
)

func ErrParseExpectedIdentifierKindError(kind string) error {
	return fmt.Errorf("Expect %s name.", kind)
}

func ErrParseExpectedLeftParenError(kind string) error {
	return fmt.Errorf("Expect '(' after %s name.", kind)
}

func ErrParseExpectedLeftBraceFunToken(kind string) error {
	return fmt.Errorf("Expect '{' before %s body.", kind)
}

func ErrResolveLocalVariableNotUsedError(name string) error {
	return fmt.Errorf("Local variable '%s' %w", name, ErrResolveLocalVariableNotUsed)
}

// NewStaticError reports a problem found before execution, by the parser or the resolver.
func NewStaticError(tok *token.Token, cause error) error {
	return &StaticError{tok: tok, cause: cause}
}

type StaticError struct {
	tok   *token.Token
	cause error
}

// Token returns the offending token.
func (s *StaticError) Token() *token.Token {
	return s.tok
}

// Error implements error.
func (s *StaticError) Error() string {
	return fmt.Sprintf("[line %d] Error %s: %v", s.tok.Line, s.tok.Where(), s.cause)
}

func (s *StaticError) Unwrap() error {
	return s.cause
}

var (
	_ error           = (*StaticError)(nil)
	_ unwrapInterface = (*StaticError)(nil)
)
