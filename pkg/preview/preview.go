// Package preview draws a layout as a PNG image.
//
// The image is the container at its pixel size with grid lines every grid
// unit and each item as a translucent rectangle in its palette color. The
// selected item is drawn with a stronger fill and a thicker outline. Items
// are labeled with a short id and their chart type.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/palette"
)

// MaxSide bounds either image dimension.
const MaxSide = 8192

var (
	background = color.NRGBA{0x11, 0x18, 0x27, 0xff}
	gridLine   = color.NRGBA{0x37, 0x41, 0x51, 0xff}
	labelColor = color.NRGBA{0xf9, 0xfa, 0xfb, 0xff}
	fallback   = "#9CA3AF"
)

type options struct {
	selected string
	unit     float64
	grid     bool
	labels   bool
	colors   *palette.Assigner
}

// Option configures [PNG] and [Draw].
type Option func(*options)

// WithSelected highlights the item with the given id.
func WithSelected(id string) Option { return func(o *options) { o.selected = id } }

// WithGridUnit sets the grid line spacing in pixels.
func WithGridUnit(unit float64) Option { return func(o *options) { o.unit = unit } }

// WithoutGrid disables grid lines.
func WithoutGrid() Option { return func(o *options) { o.grid = false } }

// WithoutLabels disables item labels.
func WithoutLabels() Option { return func(o *options) { o.labels = false } }

// WithPalette sets the palette item colors are resolved against.
func WithPalette(p *palette.Assigner) Option { return func(o *options) { o.colors = p } }

// PNG draws the layout and encodes it to w.
func PNG(w io.Writer, items []layout.Item, container geom.Size, opts ...Option) error {
	img, err := Draw(items, container, opts...)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw renders the layout to an image of the container's size.
func Draw(items []layout.Item, container geom.Size, opts ...Option) (image.Image, error) {
	o := options{unit: geom.GridUnit, grid: true, labels: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.colors == nil {
		o.colors = palette.NewAssigner(nil)
	}

	width, height := int(container.W), int(container.H)
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "container has no area: %gx%g", container.W, container.H)
	}
	if width > MaxSide || height > MaxSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "container too large: %dx%d (max %d)", width, height, MaxSide)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	if o.grid && o.unit > 0 {
		drawGrid(dc, container, o.unit)
	}

	if o.labels {
		face, err := labelFace()
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
	}

	for _, it := range items {
		drawItem(dc, it, container, o)
	}
	return dc.Image(), nil
}

func drawGrid(dc *gg.Context, container geom.Size, unit float64) {
	dc.SetColor(gridLine)
	dc.SetLineWidth(1)
	for x := unit; x < container.W; x += unit {
		dc.DrawLine(x+0.5, 0, x+0.5, container.H)
	}
	for y := unit; y < container.H; y += unit {
		dc.DrawLine(0, y+0.5, container.W, y+0.5)
	}
	dc.Stroke()
}

func drawItem(dc *gg.Context, it layout.Item, container geom.Size, o options) {
	pos, size := geom.ToPixel(it.Rect(), container)
	base := hexColor(o.colors.Hex(it.Color, fallback))

	fill, lineWidth := uint8(0x55), 1.5
	if it.ID == o.selected && o.selected != "" {
		fill, lineWidth = 0x99, 3
	}

	dc.DrawRectangle(pos.X, pos.Y, size.W, size.H)
	dc.SetColor(color.NRGBA{base.R, base.G, base.B, fill})
	dc.FillPreserve()
	dc.SetColor(base)
	dc.SetLineWidth(lineWidth)
	dc.Stroke()

	if o.labels && size.W > 0 && size.H > 0 {
		dc.SetColor(labelColor)
		label := it.ShortID(8) + " " + string(it.Type)
		dc.DrawStringAnchored(label, pos.X+size.W/2, pos.Y+size.H/2, 0.5, 0.5)
	}
}

// hexColor parses "#RRGGBB". Malformed values yield opaque gray.
func hexColor(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{0x9c, 0xa3, 0xaf, 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{0x9c, 0xa3, 0xaf, 0xff}
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

// Parsed once on first use.
var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func labelFace() (font.Face, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(gomono.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse label font: %w", fontErr)
	}
	return truetype.NewFace(fontTTF, &truetype.Options{
		Size:    11,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
