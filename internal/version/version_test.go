package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit string) {
	t.Helper()
	origVersion, origCommit, origNoColor := Version, GitCommit, color.NoColor
	Version, GitCommit = v, commit
	color.NoColor = true
	t.Cleanup(func() {
		Version, GitCommit, color.NoColor = origVersion, origCommit, origNoColor
	})
}

func TestColoredKeepsSuffix(t *testing.T) {
	withVersion(t, "1.2.3-rc.1", "")
	if got := Colored(); got != "1.2.3-rc.1" {
		t.Fatalf("Colored() = %q, want %q", got, "1.2.3-rc.1")
	}
}

func TestColoredLeavesOddVersions(t *testing.T) {
	withVersion(t, "dev", "")
	if got := Colored(); got != "dev" {
		t.Fatalf("Colored() = %q, want %q", got, "dev")
	}
}

func TestWriteIncludesCommit(t *testing.T) {
	withVersion(t, "0.4.0", "abc123")
	var buf bytes.Buffer
	if err := Write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "phpflow 0.4.0\ncommit: abc123\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "built:") {
		t.Fatalf("empty build date must be omitted:\n%s", out)
	}
}
