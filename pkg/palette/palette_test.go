package palette

import "testing"

func TestAtCycles(t *testing.T) {
	a := NewAssigner(nil)
	n := len(Default)

	for i := 0; i < 3*n; i++ {
		got := a.At(i)
		want := Default[i%n]
		if got != want {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestAtNegative(t *testing.T) {
	a := NewAssigner([]Color{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	if got := a.At(-1); got.Name != "c" {
		t.Errorf("At(-1) = %q, want %q", got.Name, "c")
	}
}

func TestCustomPalette(t *testing.T) {
	custom := []Color{{Name: "black", Hex: "#000000"}, {Name: "white", Hex: "#FFFFFF"}}
	a := NewAssigner(custom)

	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	if got := a.At(3).Name; got != "white" {
		t.Errorf("At(3) = %q, want %q", got, "white")
	}

	custom[0].Name = "mutated"
	if got := a.At(0).Name; got != "black" {
		t.Errorf("assigner should copy its palette, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	a := NewAssigner(nil)

	c, ok := a.Lookup("amber")
	if !ok || c.Hex != "#F59E0B" {
		t.Errorf("Lookup(amber) = %v, %v", c, ok)
	}
	if _, ok := a.Lookup("beige"); ok {
		t.Error("Lookup(beige) should miss")
	}
	if got := a.Hex("beige", "#777777"); got != "#777777" {
		t.Errorf("Hex fallback = %q", got)
	}
}
