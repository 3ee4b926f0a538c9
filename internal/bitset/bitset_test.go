package bitset

import (
	"slices"
	"testing"
)

func TestSetUnsetTest(t *testing.T) {
	var s BitSet
	s.Set(3)
	s.Set(130)
	if !s.Test(3) || !s.Test(130) || s.Test(4) || s.Test(1000) {
		t.Fatalf("unexpected membership in %s", s)
	}
	s.Unset(130)
	s.Unset(5000)
	if s.Test(130) {
		t.Error("130 still set after Unset")
	}
	if got := s.Indices(); !slices.Equal(got, []int{3}) {
		t.Errorf("expected [3], got %v", got)
	}
}

func TestPaddingDoesNotMatter(t *testing.T) {
	a := FromIndices(1, 2)
	b := FromIndices(1, 2, 200)
	b.Unset(200) // b now carries zero trailing words

	if !Equals(a, b) || !Equals(b, a) {
		t.Fatalf("expected %s == %s", a, b)
	}
	if !Equals(Union(a, Empty()), a) {
		t.Error("union with empty changed the set")
	}
	if !Intersect(a, Empty()).IsEmpty() {
		t.Error("intersection with empty is not empty")
	}
}

func TestAlgebra(t *testing.T) {
	sets := []BitSet{
		Empty(),
		Unit(0),
		FromIndices(1, 64, 65),
		FromIndices(0, 1, 2, 3, 127),
		FromIndices(300),
	}
	for _, a := range sets {
		if !Equals(a, a) {
			t.Errorf("%s != itself", a)
		}
		for _, b := range sets {
			u := Union(a, b)
			if !Equals(Intersect(u, a), a) {
				t.Errorf("union(%s,%s)=%s does not contain %s", a, b, u, a)
			}
			in := Intersect(a, b)
			if !Equals(Intersect(in, a), in) {
				t.Errorf("intersect(%s,%s)=%s not a subset of %s", a, b, in, a)
			}
			if d := Diff(a, b); Overlaps(d, b) {
				t.Errorf("diff(%s,%s)=%s overlaps %s", a, b, d, b)
			}
			if !Equals(u, Union(b, a)) || !Equals(in, Intersect(b, a)) {
				t.Errorf("union/intersect of %s,%s not commutative", a, b)
			}
			if Overlaps(a, b) != !in.IsEmpty() {
				t.Errorf("Overlaps(%s,%s) disagrees with intersection %s", a, b, in)
			}
		}
	}
}

func TestIndicesAndCount(t *testing.T) {
	s := FromIndices(70, 3, 3, 64, 0)
	if got := s.Indices(); !slices.Equal(got, []int{0, 3, 64, 70}) {
		t.Errorf("expected ascending unique indices, got %v", got)
	}
	if s.Count() != 4 {
		t.Errorf("expected count 4, got %d", s.Count())
	}
	if s.String() != "{0, 3, 64, 70}" {
		t.Errorf("unexpected String %q", s.String())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := FromIndices(1)
	b := a.Clone()
	b.Set(2)
	if a.Test(2) {
		t.Error("Clone shares storage")
	}
}
