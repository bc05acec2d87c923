package cmd_test

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/leonardinius/treewalk/cmd"
)

func BenchmarkAll(b *testing.B) {
	benchmarks, err := filepath.Glob("testdata/benchmark/*.lox")
	if err != nil {
		b.Fatalf("Failed to list benchmarks: %v", err)
	}

	for _, bench := range benchmarks {
		b.Run(filepath.Base(bench), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				runBench(b, bench)
			}
		})
	}
}

// runBench expects the script to print "true" then its own elapsed seconds.
func runBench(b *testing.B, bench string) {
	b.Helper()

	stdout := new(strings.Builder)
	stderr := new(strings.Builder)
	exitCode := cmd.NewLoxApp(cmd.WithStdout(stdout), cmd.WithStderr(stderr)).Main([]string{bench})

	outputLines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if exitCode != cmd.ExitOK || stderr.Len() > 0 {
		b.Fatalf("%s exited with code %v and error %v", bench, exitCode, stderr.String())
	}
	if len(outputLines) != 2 || outputLines[0] != "true" {
		b.Fatalf("%s produced unexpected output %v", bench, outputLines)
	}

	elapsedTimeSeconds, err := strconv.ParseFloat(outputLines[1], 64)
	if err != nil {
		b.Fatalf("Failed to parse elapsed time %v", outputLines[1])
	}
	b.ReportMetric(elapsedTimeSeconds, "elapsed/op")
}
