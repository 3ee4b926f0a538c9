package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"b.json", "a.php", "a.php.json", "lib/c.php", "lib/d.json",
		"vendor/x.json", ".git/y.json", "notes.txt",
	} {
		touch(t, filepath.Join(root, p))
	}
	rel := func(ps []string) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			r, err := filepath.Rel(root, p)
			if err != nil {
				t.Fatal(err)
			}
			out[i] = filepath.ToSlash(r)
		}
		return out
	}

	got, err := Collect([]string{root}, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.php.json", "b.json", "lib/d.json"}, rel(got)); diff != "" {
		t.Fatalf("json only (-want +got):\n%s", diff)
	}

	got, err = Collect([]string{root, filepath.Join(root, "notes.txt")}, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.php.json", "b.json", "lib/c.php", "lib/d.json", "notes.txt"}
	if diff := cmp.Diff(want, rel(got)); diff != "" {
		t.Fatalf("with php (-want +got):\n%s", diff)
	}
}

func TestCollectMissingPath(t *testing.T) {
	if _, err := Collect([]string{filepath.Join(t.TempDir(), "nope")}, false); err == nil {
		t.Fatal("expected error")
	}
}

func TestSourceFor(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.php"))
	for dump, want := range map[string]bool{"a.php.json": true, "a.json": true, "b.json": false} {
		_, ok := sourceFor(filepath.Join(root, dump))
		if ok != want {
			t.Errorf("sourceFor(%s) = %v, want %v", dump, ok, want)
		}
	}
}
