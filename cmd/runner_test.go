package cmd_test

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/leonardinius/treewalk/cmd"
)

// Scripts under testdata carry their expectations as comments:
//
//	print 1; // expect: 1
//	var = 1; // Error at '=': Expect variable name.
//	var a = 1 // [line 4] Error at 'print': Expect ';' after variable declaration.
//	print a / 0; // expect runtime error: Division by zero.
var (
	expectedOutputPattern       = regexp.MustCompile(`// expect: ?(.*)`)
	expectedErrorPattern        = regexp.MustCompile(`// (Error.*)`)
	errorLinePattern            = regexp.MustCompile(`// \[line (\d+)\] (Error.*)`)
	expectedRuntimeErrorPattern = regexp.MustCompile(`// expect runtime error: (.+)`)
	syntaxErrorPattern          = regexp.MustCompile(`\[line (\d+)\] (Error.+)`)
	stackTracePattern           = regexp.MustCompile(`\[line (\d+)\]`)
)

type Suite struct {
	name  string
	args  []string
	globs []string
}

var allSuites = map[string]*Suite{
	"default": {
		name:  "default",
		globs: []string{"testdata/*.lox", "testdata/errors/*.lox"},
	},
	"non-strict": {
		name:  "non-strict",
		args:  []string{"-profile", "non-strict"},
		globs: []string{"testdata/nonstrict/*.lox"},
	},
}

func TestAll(t *testing.T) {
	names := maps.Keys(allSuites)
	slices.Sort(names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			runSuite(t, allSuites[name])
		})
	}
}

func runSuite(t *testing.T, suite *Suite) {
	t.Helper()

	var files []string
	for _, glob := range suite.globs {
		matches, err := filepath.Glob(glob)
		require.NoError(t, err)
		files = append(files, matches...)
	}
	require.NotEmpty(t, files)

	for _, file := range files {
		runTest(t, suite, file)
	}
}

func runTest(t *testing.T, suite *Suite, path string) {
	test := &Test{path: path, suite: suite, expectedErrors: make(map[string]string)}

	t.Run(filepath.ToSlash(path), func(t *testing.T) {
		test.t = t
		test.parse()
		test.run()
	})
}

type ExpectedOutput struct {
	line   int
	output string
}

type Test struct {
	t                    *testing.T
	path                 string
	suite                *Suite
	expectedOutput       []ExpectedOutput
	expectedErrors       map[string]string
	expectedRuntimeError string
	runtimeErrorLine     int
	expectedExitCode     int
}

func (t *Test) parse() {
	lines, err := os.ReadFile(t.path)
	require.NoError(t.t, err)

	for lineNum, line := range strings.Split(string(lines), "\n") {
		lineNum++

		if match := expectedOutputPattern.FindStringSubmatch(line); match != nil {
			t.expectedOutput = append(t.expectedOutput, ExpectedOutput{line: lineNum, output: match[1]})
			continue
		}

		if match := expectedErrorPattern.FindStringSubmatch(line); match != nil {
			msg := fmt.Sprintf("[%d] %s", lineNum, match[1])
			t.expectedErrors[msg] = msg
			t.expectedExitCode = cmd.ExitStaticError
			continue
		}

		if match := errorLinePattern.FindStringSubmatch(line); match != nil {
			msg := fmt.Sprintf("[%s] %s", match[1], match[2])
			t.expectedErrors[msg] = msg
			t.expectedExitCode = cmd.ExitStaticError
			continue
		}

		if match := expectedRuntimeErrorPattern.FindStringSubmatch(line); match != nil {
			t.runtimeErrorLine = lineNum
			t.expectedRuntimeError = match[1]
			t.expectedExitCode = cmd.ExitRuntimeError
		}
	}

	require.False(t.t, len(t.expectedErrors) > 0 && t.expectedRuntimeError != "",
		"%s: cannot expect both compile and runtime errors", t.path)
}

func (t *Test) run() {
	stdout := new(strings.Builder)
	stderr := new(strings.Builder)
	app := cmd.NewLoxApp(cmd.WithStdout(stdout), cmd.WithStderr(stderr))

	args := append(slices.Clone(t.suite.args), t.path)
	exitCode := app.Main(args)

	outputLines := strings.Split(stdout.String(), "\n")
	errorLines := strings.Split(stderr.String(), "\n")

	if t.expectedRuntimeError != "" {
		t.validateRuntimeError(errorLines)
	} else {
		t.validateCompileErrors(errorLines)
	}
	t.validateExitCode(exitCode, errorLines)
	t.validateOutput(outputLines)
}

func (t *Test) validateRuntimeError(errorLines []string) {
	if len(errorLines) < 2 {
		t.t.Errorf("Expected runtime error '%s' and got none.", t.expectedRuntimeError)
		return
	}

	if errorLines[0] != t.expectedRuntimeError {
		t.t.Errorf("Expected runtime error '%s' and got: %s", t.expectedRuntimeError, errorLines[0])
		return
	}

	var stackLine int
	for _, line := range errorLines[1:] {
		if match := stackTracePattern.FindStringSubmatch(line); match != nil {
			stackLine, _ = strconv.Atoi(match[1])
			break
		}
	}

	if stackLine == 0 {
		t.t.Errorf("Expected stack trace and got: %s", errorLines[1:])
	} else if stackLine != t.runtimeErrorLine {
		t.t.Errorf("Expected runtime error on line %d but was on line %d.", t.runtimeErrorLine, stackLine)
	}
}

func (t *Test) validateCompileErrors(errorLines []string) {
	foundErrors := map[string]bool{}

	for _, line := range errorLines {
		match := syntaxErrorPattern.FindStringSubmatch(line)
		switch {
		case match != nil:
			errorMsg := fmt.Sprintf("[%s] %s", match[1], match[2])
			if _, ok := t.expectedErrors[errorMsg]; ok {
				foundErrors[errorMsg] = true
			} else {
				t.t.Errorf("Unexpected error: %s", line)
			}
		case line != "":
			t.t.Errorf("Unexpected output on stderr: %s", line)
		}
	}

	for errorMsg := range t.expectedErrors {
		if !foundErrors[errorMsg] {
			t.t.Errorf("Missing expected error: %s", errorMsg)
		}
	}
}

func (t *Test) validateExitCode(exitCode int, errorLines []string) {
	if exitCode != t.expectedExitCode {
		t.t.Errorf("Expected return code %d and got %d. Stderr: %v", t.expectedExitCode, exitCode, errorLines)
	}
}

func (t *Test) validateOutput(outputLines []string) {
	if len(outputLines) > 0 && outputLines[len(outputLines)-1] == "" {
		outputLines = outputLines[:len(outputLines)-1]
	}

	if len(outputLines) > len(t.expectedOutput) {
		t.t.Errorf("Got output '%s' when none was expected.", outputLines[len(t.expectedOutput)])
		return
	}

	for i, line := range outputLines {
		expected := t.expectedOutput[i]
		if expected.output != line {
			t.t.Errorf("Expected output '%s' on line %d and got '%s'.", expected.output, expected.line, line)
		}
	}

	for i := len(outputLines); i < len(t.expectedOutput); i++ {
		expected := t.expectedOutput[i]
		t.t.Errorf("Missing expected output '%s' on line %d.", expected.output, expected.line)
	}
}
