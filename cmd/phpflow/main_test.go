package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const fixture = "../../internal/driver/testdata/check.json"

func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", "testdata/phpflow.toml", "--color", "off", "--quiet"}, args...))
	err := rootCmd.Execute()
	runTraceCleanup()
	return out.String(), exitCode(err)
}

func TestCheckExitsOneOnErrors(t *testing.T) {
	out, code := execute(t, "check", "--ui", "off", "--format", "Short", fixture)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1\n%s", code, out)
	}
	for _, want := range []string{"error DFA1001", "warning DFA1002", "warning DFA1003"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestDeadcodeOnlyReportsDeadCode(t *testing.T) {
	out, code := execute(t, "deadcode", "--ui", "off", "--format", "short", fixture)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if strings.Contains(out, "DFA1001") || !strings.Contains(out, "DFA1003") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCfgDumpsUnit(t *testing.T) {
	out, code := execute(t, "cfg", "--unit", "g", "--annotate", "line", fixture)
	if code != 0 {
		t.Fatalf("exit code = %d\n%s", code, out)
	}
	if !strings.HasPrefix(out, "fn g:\n") || !strings.Contains(out, "return ") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}

func TestUsageErrorsExitTwo(t *testing.T) {
	if _, code := execute(t, "check"); code != 2 {
		t.Fatalf("missing paths: exit code = %d, want 2", code)
	}
	if _, code := execute(t, "cfg", "--unit", "nope", fixture); code != 2 {
		t.Fatalf("unknown unit: exit code = %d, want 2", code)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Fatalf("nil error: %d", got)
	}
	if got := exitCode(errFindings); got != 1 {
		t.Fatalf("findings: %d", got)
	}
	if got := exitCode(usageError(errors.New("bad flag"))); got != 2 {
		t.Fatalf("usage: %d", got)
	}
}

func TestReadUIMode(t *testing.T) {
	if m, err := readUIMode(" ON "); err != nil || m != uiModeOn {
		t.Fatalf("readUIMode = %v, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
}
