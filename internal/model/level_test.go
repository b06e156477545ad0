package model

import "testing"

func TestChainNavigation(t *testing.T) {
	for i, l := range Chain {
		if got := l.Depth(); got != i {
			t.Fatalf("%s.Depth() = %d, want %d", l, got, i)
		}
		child, ok := l.Child()
		if i == len(Chain)-1 {
			if ok {
				t.Fatalf("%s should have no child, got %s", l, child)
			}
		} else if !ok || child != Chain[i+1] {
			t.Fatalf("%s.Child() = %s/%v, want %s", l, child, ok, Chain[i+1])
		}
		parent, ok := l.Parent()
		if i == 0 {
			if ok {
				t.Fatalf("%s should have no parent, got %s", l, parent)
			}
		} else if !ok || parent != Chain[i-1] {
			t.Fatalf("%s.Parent() = %s/%v, want %s", l, parent, ok, Chain[i-1])
		}
		if got := len(l.Descendants()); got != len(Chain)-1-i {
			t.Fatalf("%s has %d descendants, want %d", l, got, len(Chain)-1-i)
		}
	}
}

func TestUnknownLevelIsInert(t *testing.T) {
	bogus := Level("epic")
	if got := bogus.Depth(); got != -1 {
		t.Fatalf("Depth() = %d, want -1", got)
	}
	if child, ok := bogus.Child(); ok {
		t.Fatalf("unexpected child %s", child)
	}
	if parent, ok := bogus.Parent(); ok {
		t.Fatalf("unexpected parent %s", parent)
	}
	if ds := bogus.Descendants(); ds != nil {
		t.Fatalf("unexpected descendants %v", ds)
	}
	if _, err := ParseLevel("epic"); err == nil {
		t.Fatalf("ParseLevel should reject an unknown level")
	}
}
