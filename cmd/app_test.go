package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardinius/treewalk/internal/loxerrors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runMain(args ...string) (int, string, string) {
	stdout := new(strings.Builder)
	stderr := new(strings.Builder)
	code := NewLoxApp(WithStdout(stdout), WithStderr(stderr)).Main(args)
	return code, stdout.String(), stderr.String()
}

func TestMainExitCodes(t *testing.T) {
	testcases := []struct {
		name   string
		script string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{name: `ok`, script: `print 1 + 2;`, code: ExitOK, stdout: "3\n"},
		{name: `scan error`, script: `print 1; @`, code: ExitStaticError, stderr: "[line 1] Error: Unexpected character. '@'\n"},
		{name: `parse error`, script: `print 1 +;`, code: ExitStaticError, stderr: "[line 1] Error at ';': Expect expression.\n"},
		{name: `resolve error`, script: `print 1; { var a; }`, code: ExitStaticError, stderr: "[line 1] Error at 'a': Local variable 'a' is never used.\n"},
		{name: `runtime error`, script: "print 1;\nprint -nil;", code: ExitRuntimeError, stdout: "1\n", stderr: "Operand must be a number.\n[line 2]\n"},
		{name: `non-strict profile`, script: `{ var a; } print "ok";`, args: []string{"-profile", "non-strict"}, code: ExitOK, stdout: "ok\n"},
		{name: `print ast`, script: `var a = 1 + 2; print a;`, args: []string{"-ast"}, code: ExitOK, stdout: "(var a (+ 1 2))\n(print a)\n"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "script.lox", tc.script)
			code, stdout, stderr := runMain(append(tc.args, path)...)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.stdout, stdout)
			assert.Equal(t, tc.stderr, stderr)
		})
	}
}

func TestMainUsage(t *testing.T) {
	code, _, stderr := runMain("a.lox", "b.lox")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "Usage: treewalk [flags] [script]")

	code, _, _ = runMain("-no-such-flag")
	assert.Equal(t, ExitUsage, code)

	code, _, stderr = runMain("-profile", "lenient", "a.lox")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, `config: unknown profile "lenient"`)

	code, _, _ = runMain(filepath.Join(t.TempDir(), "missing.lox"))
	assert.Equal(t, ExitNoInput, code)
}

func TestMainConfigFile(t *testing.T) {
	config := writeFile(t, "treewalk.yaml", "profile: non-strict\n")
	script := writeFile(t, "script.lox", `{ var a; } print "ok";`)

	code, stdout, stderr := runMain("-config", config, script)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "ok\n", stdout)
	assert.Empty(t, stderr)

	// the flag wins over the file
	code, _, _ = runMain("-config", config, "-profile", "strict", script)
	assert.Equal(t, ExitStaticError, code)
}

type fakeLines struct {
	lines []string
}

func (f *fakeLines) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func TestPrompt(t *testing.T) {
	stdout := new(strings.Builder)
	stderr := new(strings.Builder)
	app := NewLoxApp(WithStdout(stdout), WithStderr(stderr))
	app.setup(loxerrors.NewErrReporter(stderr))

	err := app.prompt(&fakeLines{lines: []string{
		`var a = 1;`,
		`a + 1;`,
		`"str";`,
		`print a;`,
		`a / 0;`,
		`a +;`,
		`fun inc(x) { return x + 1; }`,
		`inc(a);`,
	}})
	require.NoError(t, err)

	assert.Equal(t, "2\n\"str\"\n1\n2\n", stdout.String())
	assert.Equal(t, "Division by zero.\n[line 1]\n[line 1] Error at ';': Expect expression.\n", stderr.String())
}
