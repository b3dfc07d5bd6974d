package layout

import (
	"strings"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
)

// ChartType selects the chart constructor an item is exported as.
type ChartType string

// Supported chart types.
const (
	ChartGauge   ChartType = "gauge"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
	ChartBar     ChartType = "bar"
)

// ChartTypes lists the supported chart types in display order.
var ChartTypes = []ChartType{ChartGauge, ChartPie, ChartScatter, ChartBar}

// DefaultChartType is assigned to new items and to loaded items without a type.
const DefaultChartType = ChartGauge

// ParseChartType validates s against [ChartTypes]. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseChartType(s string) (ChartType, error) {
	t := ChartType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ChartTypes {
		if t == known {
			return t, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidChartType,
		"invalid chart type: %q (must be gauge, pie, scatter or bar)", s)
}

// Next returns the chart type after t in [ChartTypes], wrapping around.
// Unknown types move to the first entry.
func (t ChartType) Next() ChartType {
	for i, known := range ChartTypes {
		if known == t {
			return ChartTypes[(i+1)%len(ChartTypes)]
		}
	}
	return ChartTypes[0]
}

// Item is a rectangle on the layout grid. Geometry is in domain space.
type Item struct {
	ID            string    `json:"id"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Color         string    `json:"color"`
	Type          ChartType `json:"type"`
	ChannelNumber string    `json:"channelNumber"`
}

// Rect returns the item's geometry.
func (it Item) Rect() geom.Rect {
	return geom.Rect{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

// WithRect returns a copy of it with the geometry replaced.
func (it Item) WithRect(r geom.Rect) Item {
	it.X, it.Y, it.Width, it.Height = r.X, r.Y, r.Width, r.Height
	return it
}

// ShortID returns the first n characters of the id, for display.
func (it Item) ShortID(n int) string {
	if len(it.ID) <= n {
		return it.ID
	}
	return it.ID[:n]
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	X             *float64
	Y             *float64
	Width         *float64
	Height        *float64
	Color         *string
	Type          *ChartType
	ChannelNumber *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Color == nil && p.Type == nil && p.ChannelNumber == nil
}

// Apply merges p into it field by field.
func (p Patch) Apply(it Item) Item {
	if p.X != nil {
		it.X = *p.X
	}
	if p.Y != nil {
		it.Y = *p.Y
	}
	if p.Width != nil {
		it.Width = *p.Width
	}
	if p.Height != nil {
		it.Height = *p.Height
	}
	if p.Color != nil {
		it.Color = *p.Color
	}
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.ChannelNumber != nil {
		it.ChannelNumber = *p.ChannelNumber
	}
	return it
}

// RectPatch builds a patch that sets all four geometry fields.
func RectPatch(r geom.Rect) Patch {
	return Patch{X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height}
}

// PositionPatch builds a patch that sets only X and Y.
func PositionPatch(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}
