package loxerrors

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrReporter is the diagnostic sink.
//
// ReportStaticError is called by the scanner, the parser and the resolver, possibly many times per pass.
// ReportRuntimeError is called by the interpreter, at most once per Interpret.
type ErrReporter interface {
	ReportStaticError(err error)
	ReportRuntimeError(err error)
}

type errReporter struct {
	w io.Writer
}

func NewErrReporter(w io.Writer) ErrReporter {
	return &errReporter{w: w}
}

// ReportStaticError implements ErrReporter.
func (e *errReporter) ReportStaticError(err error) {
	DefaultReportStaticError(e.w, err)
}

// ReportRuntimeError implements ErrReporter.
func (e *errReporter) ReportRuntimeError(err error) {
	DefaultReportRuntimeError(e.w, err)
}

// DefaultReportStaticError is the default implementation of ErrReporter.ReportStaticError.
func DefaultReportStaticError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
}

// DefaultReportRuntimeError is the default implementation of ErrReporter.ReportRuntimeError.
func DefaultReportRuntimeError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
}

var (
	staticErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	runtimeErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	lineRefStyle      = lipgloss.NewStyle().Faint(true)
)

type styledErrReporter struct {
	w io.Writer
}

// NewStyledErrReporter returns a reporter that colours diagnostics for an interactive terminal.
func NewStyledErrReporter(w io.Writer) ErrReporter {
	return &styledErrReporter{w: w}
}

// ReportStaticError implements ErrReporter.
func (s *styledErrReporter) ReportStaticError(err error) {
	fmt.Fprintln(s.w, staticErrorStyle.Render(err.Error()))
}

// ReportRuntimeError implements ErrReporter.
func (s *styledErrReporter) ReportRuntimeError(err error) {
	msg, lineRef, found := strings.Cut(err.Error(), "\n")
	if !found {
		fmt.Fprintln(s.w, runtimeErrorStyle.Render(msg))
		return
	}
	fmt.Fprintln(s.w, runtimeErrorStyle.Render(msg))
	fmt.Fprintln(s.w, lineRefStyle.Render(lineRef))
}

var (
	_ ErrReporter = (*errReporter)(nil)
	_ ErrReporter = (*styledErrReporter)(nil)
)
