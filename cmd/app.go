package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/leonardinius/treewalk/internal/interpreter"
	"github.com/leonardinius/treewalk/internal/loxerrors"
	"github.com/leonardinius/treewalk/internal/parser"
	"github.com/leonardinius/treewalk/internal/scanner"
)

// Exit codes follow sysexits.h.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitStaticError  = 65
	ExitNoInput      = 66
	ExitRuntimeError = 70
	ExitIOError      = 74
)

type LoxApp struct {
	stdin  io.ReadCloser
	stdout io.Writer
	stderr io.Writer

	config      Config
	printAst    bool
	reporter    loxerrors.ErrReporter
	interpreter interpreter.Interpreter
	resolver    interpreter.Resolver
}

type AppOption func(*LoxApp)

func WithStdin(stdin io.ReadCloser) AppOption {
	return func(app *LoxApp) {
		app.stdin = stdin
	}
}

func WithStdout(stdout io.Writer) AppOption {
	return func(app *LoxApp) {
		app.stdout = stdout
	}
}

func WithStderr(stderr io.Writer) AppOption {
	return func(app *LoxApp) {
		app.stderr = stderr
	}
}

func NewLoxApp(options ...AppOption) *LoxApp {
	app := &LoxApp{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		config: DefaultConfig(),
	}
	for _, opt := range options {
		opt(app)
	}
	return app
}

// Main runs the command line and returns the process exit code.
func (app *LoxApp) Main(args []string) int {
	fs := flag.NewFlagSet("treewalk", flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	fs.Usage = func() {
		fmt.Fprintln(app.stderr, "Usage: treewalk [flags] [script]")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to a YAML config file")
	profile := fs.String("profile", "", "resolver profile: default, strict or non-strict")
	printAst := fs.Bool("ast", false, "print the parsed program instead of running it")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(app.stderr, err)
		return ExitUsage
	}
	if *profile != "" {
		config.Profile = *profile
		if err := config.validate(); err != nil {
			fmt.Fprintln(app.stderr, err)
			return ExitUsage
		}
	}
	app.config = config
	app.printAst = *printAst

	switch fs.NArg() {
	case 0:
		app.setup(loxerrors.NewStyledErrReporter(app.stderr))
		if err := app.runPrompt(); err != nil {
			fmt.Fprintln(app.stderr, err)
			return ExitIOError
		}
		return ExitOK
	case 1:
		app.setup(loxerrors.NewErrReporter(app.stderr))
		return app.runFile(fs.Arg(0))
	default:
		fs.Usage()
		return ExitUsage
	}
}

func (app *LoxApp) setup(reporter loxerrors.ErrReporter) {
	app.reporter = reporter
	app.interpreter = interpreter.NewInterpreter(
		interpreter.WithStdout(app.stdout),
		interpreter.WithErrorReporter(reporter),
	)
	app.resolver = interpreter.NewResolver(app.interpreter, interpreter.WithProfile(interpreter.Profile(app.config.Profile)))
}

func (app *LoxApp) runFile(scriptPath string) int {
	bytes, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintln(app.stderr, err)
		return ExitNoInput
	}

	return exitCode(app.run(context.Background(), string(bytes), false))
}

// lineReader is the part of *readline.Instance the prompt loop needs.
type lineReader interface {
	Readline() (string, error)
}

func (app *LoxApp) runPrompt() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      app.config.Prompt,
		HistoryFile: app.config.HistoryFile,
		Stdin:       app.stdin,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	return app.prompt(rl)
}

// prompt runs every line on the same interpreter; errors are reported and the session goes on.
func (app *LoxApp) prompt(lines lineReader) error {
	ctx := context.Background()
	for {
		line, err := lines.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}

		_ = app.run(ctx, line, true)
	}
}

// run scans, parses and resolves input, and interprets it only if no static error was found.
func (app *LoxApp) run(ctx context.Context, input string, echo bool) error {
	tokens, scanErr := scanner.NewScanner(input, app.reporter).Scan()
	statements, parseErr := parser.NewParser(tokens, app.reporter).Parse()
	if err := errors.Join(scanErr, parseErr); err != nil {
		return err
	}

	if app.printAst {
		fmt.Fprint(app.stdout, parser.NewAstPrinter().PrintProgram(statements))
		return nil
	}

	if err := app.resolver.Resolve(ctx, statements); err != nil {
		return err
	}

	out, err := app.interpreter.Interpret(ctx, statements)
	if err != nil {
		return err
	}

	if echo && endsWithExpression(statements) {
		fmt.Fprintln(app.stdout, out)
	}

	return nil
}

func endsWithExpression(statements []parser.Stmt) bool {
	if len(statements) == 0 {
		return false
	}
	_, ok := statements[len(statements)-1].(*parser.StmtExpression)
	return ok
}

func exitCode(err error) int {
	var runtimeErr *loxerrors.RuntimeError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &runtimeErr):
		return ExitRuntimeError
	default:
		return ExitStaticError
	}
}
