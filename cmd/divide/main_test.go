package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// assertOutput fails the test with a unified diff when got differs from want.
func assertOutput(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("unexpected output:\n%s", diff)
}

func TestRunPrintsQuotient(t *testing.T) {
	cases := []struct {
		dividend, divisor int
		want              string
	}{
		{10, 2, "Result: 5\n"},
		{-7, 2, "Result: -3\n"},
		{0, 9, "Result: 0\n"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		run(&buf, tc.dividend, tc.divisor)
		assertOutput(t, tc.want, buf.String())
	}
}

func TestRunPanicsBeforeWriting(t *testing.T) {
	var buf bytes.Buffer
	defer func() {
		if recover() == nil {
			t.Fatal("run(10, 0) should panic")
		}
		if buf.Len() != 0 {
			t.Errorf("output written before panic: %q", buf.String())
		}
	}()
	run(&buf, 10, 0)
}

// TestMainAborts runs main in a subprocess and checks that the forced unwrap
// kills the process without printing a result.
func TestMainAborts(t *testing.T) {
	if os.Getenv("DIVIDER_RUN_MAIN") == "1" {
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestMainAborts$")
	cmd.Env = append(os.Environ(), "DIVIDER_RUN_MAIN=1")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected the process to exit abnormally, got: %v", err)
	}
	if exitErr.ExitCode() == 0 {
		t.Errorf("exit code = 0; want non-zero")
	}
	if strings.Contains(stdout.String(), "Result:") {
		t.Errorf("stdout should not contain a result line:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "panic: Division by zero") {
		t.Errorf("stderr missing panic message:\n%s", stderr.String())
	}
}
