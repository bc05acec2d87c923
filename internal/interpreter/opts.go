package interpreter

import (
	"io"
	"os"

	"github.com/leonardinius/treewalk/internal/loxerrors"
)

type interpreterOpts struct {
	globals  *environment
	stdout   io.Writer
	reporter loxerrors.ErrReporter
}

var defaultInterpreterOpts = interpreterOpts{
	stdout: os.Stdout,
}

type InterpreterOption func(*interpreterOpts)

// WithGlobals seeds the interpreter with a prepared global scope.
// Native functions are defined into it on construction.
func WithGlobals(globals *environment) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.globals = globals
	}
}

func WithStdout(stdout io.Writer) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.stdout = stdout
	}
}

func WithErrorReporter(r loxerrors.ErrReporter) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.reporter = r
	}
}

func newInterpreterOpts(options ...InterpreterOption) *interpreterOpts {
	opts := defaultInterpreterOpts
	for _, opt := range options {
		opt(&opts)
	}

	if opts.globals == nil {
		opts.globals = NewEnvironment()
	}
	if opts.reporter == nil {
		opts.reporter = loxerrors.NewErrReporter(os.Stderr)
	}

	return &opts
}

// ========  ========  ========  ========  ========  ========  ========

type Profile string

const (
	ProfileDefault   Profile = "default"
	ProfileStrict    Profile = "strict"
	ProfileNonStrict Profile = "non-strict"
)

type resolverOpts struct {
	profile  Profile
	reporter loxerrors.ErrReporter
}

type ResolverOption func(*resolverOpts)

// WithProfile selects which static diagnostics the resolver reports.
func WithProfile(profile Profile) ResolverOption {
	return func(opts *resolverOpts) {
		opts.profile = profile
	}
}

// WithResolverErrorReporter overrides the sink; by default the interpreter's reporter is used.
func WithResolverErrorReporter(r loxerrors.ErrReporter) ResolverOption {
	return func(opts *resolverOpts) {
		opts.reporter = r
	}
}

func newResolverOpts(options ...ResolverOption) *resolverOpts {
	opts := &resolverOpts{profile: ProfileDefault}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}
