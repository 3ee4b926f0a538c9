package source

import "testing"

func TestFileSetLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.php", []byte("<?php\n$x = 1;\r\necho $x;"))
	f := fs.Get(id)
	if f == nil {
		t.Fatal("missing file")
	}
	cases := []struct {
		n    uint32
		want string
	}{
		{0, ""},
		{1, "<?php"},
		{2, "$x = 1;"},
		{3, "echo $x;"},
		{4, ""},
	}
	for _, c := range cases {
		if got := f.Line(c.n); got != c.want {
			t.Errorf("line %d: expected %q, got %q", c.n, c.want, got)
		}
	}
	if f.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", f.LineCount())
	}
}

func TestFileSetLatestVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("dir/../t.json", []byte("[]"), 0)
	second := fs.Add("t.json", []byte("[ ]"), 0)
	if first == second {
		t.Fatal("Add must allocate a new id")
	}
	f, ok := fs.Lookup("./t.json")
	if !ok || f.ID != second {
		t.Fatalf("expected latest id %d, got %+v ok=%v", second, f, ok)
	}
	if f.Flags&FileSyntaxDump == 0 {
		t.Error("json input must be flagged as a syntax dump")
	}
	if fs.Get(99) != nil {
		t.Error("unknown id must return nil")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Line: 3, EndLine: 4}
	b := Span{File: 1, Line: 2, EndLine: 7}
	got := a.Cover(b)
	if got.Line != 2 || got.EndLine != 7 {
		t.Errorf("expected 2-7, got %s", got)
	}
	if c := a.Cover(Span{File: 2, Line: 1}); c != a {
		t.Errorf("cross-file cover must not change span, got %s", c)
	}
}
