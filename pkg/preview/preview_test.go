package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
)

func TestPNG(t *testing.T) {
	items := []layout.Item{
		{ID: "a", X: 0, Y: 0.5, Width: 0.5, Height: 0.5, Color: "emerald", Type: layout.ChartGauge},
		{ID: "b", X: 0.5, Y: 0, Width: 0.5, Height: 0.5, Color: "red", Type: layout.ChartBar},
	}

	var buf bytes.Buffer
	if err := PNG(&buf, items, geom.Size{W: 400, H: 200}, WithSelected("b")); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("image size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
}

func TestDrawItemPlacement(t *testing.T) {
	// Item a covers the top-left quadrant in pixel space (domain y 0.5..1).
	items := []layout.Item{{ID: "a", X: 0, Y: 0.5, Width: 0.5, Height: 0.5, Color: "red"}}
	img, err := Draw(items, geom.Size{W: 200, H: 200}, WithoutGrid(), WithoutLabels())
	if err != nil {
		t.Fatal(err)
	}

	inside := color.NRGBAModel.Convert(img.At(50, 50)).(color.NRGBA)
	outside := color.NRGBAModel.Convert(img.At(150, 150)).(color.NRGBA)
	if inside == outside {
		t.Errorf("item pixel %v equals background pixel %v", inside, outside)
	}
	if inside.R <= inside.B {
		t.Errorf("red item drawn as %v", inside)
	}
}

func TestDrawSelectionIsStronger(t *testing.T) {
	items := []layout.Item{{ID: "a", X: 0, Y: 0, Width: 1, Height: 1, Color: "blue"}}
	container := geom.Size{W: 100, H: 100}

	plain, err := Draw(items, container, WithoutGrid(), WithoutLabels())
	if err != nil {
		t.Fatal(err)
	}
	selected, err := Draw(items, container, WithoutGrid(), WithoutLabels(), WithSelected("a"))
	if err != nil {
		t.Fatal(err)
	}

	p := color.NRGBAModel.Convert(plain.At(50, 50)).(color.NRGBA)
	s := color.NRGBAModel.Convert(selected.At(50, 50)).(color.NRGBA)
	if s.B <= p.B {
		t.Errorf("selected fill %v not stronger than plain %v", s, p)
	}
}

func TestDrawRejectsEmptyContainer(t *testing.T) {
	for _, c := range []geom.Size{{}, {W: 100}, {W: -20, H: 20}, {W: MaxSide + 20, H: 20}} {
		_, err := Draw(nil, c)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Draw(%v) error = %v, want INVALID_INPUT", c, err)
		}
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#EF4444", color.NRGBA{0xef, 0x44, 0x44, 0xff}},
		{"34d399", color.NRGBA{0x34, 0xd3, 0x99, 0xff}},
		{"#xyz", color.NRGBA{0x9c, 0xa3, 0xaf, 0xff}},
		{"#GGGGGG", color.NRGBA{0x9c, 0xa3, 0xaf, 0xff}},
	}
	for _, tt := range tests {
		if got := hexColor(tt.in); got != tt.want {
			t.Errorf("hexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
