package loxerrors

import (
	"errors"
	"fmt"
)

var (
	ErrScanUnexpectedCharacter = errors.New("Unexpected character.")
	ErrScanUnterminatedString  = errors.New("Unterminated string.")
	ErrScanUnterminatedComment = errors.New("Unterminated comment.")
)

type ScanError struct {
	line    int
	cause   error
	details string
}

func NewScanError(line int, cause error, details string) error {
	return &ScanError{line, cause, details}
}

// Error implements error.
func (s *ScanError) Error() string {
	details := s.details
	if details != "" {
		details = " " + details
	}
	return fmt.Sprintf("[line %d] Error: %v%s", s.line, s.cause, details)
}

func (s *ScanError) Unwrap() error {
	return s.cause
}

var (
	_ error           = (*ScanError)(nil)
	_ unwrapInterface = (*ScanError)(nil)
)
