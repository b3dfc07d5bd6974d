package editor

import (
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
)

// Placement is an item as the drag widget draws it.
type Placement struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Color    string           `json:"color"`
	Type     layout.ChartType `json:"type"`
	Selected bool             `json:"selected"`
	Pos      geom.Point       `json:"pos"`
	Size     geom.Size        `json:"size"`
}

// Layout returns the pixel geometry of every item inside the container.
// It is empty until the container has been measured.
func (e *Editor) Layout() []Placement {
	if e.container.Empty() {
		return []Placement{}
	}
	sel := e.store.SelectedID()
	items := e.store.Items()
	out := make([]Placement, len(items))
	for i, it := range items {
		pos, size := geom.ToPixel(it.Rect(), e.container)
		out[i] = Placement{
			ID:       it.ID,
			Label:    it.ShortID(4),
			Color:    it.Color,
			Type:     it.Type,
			Selected: sel != "" && it.ID == sel,
			Pos:      pos,
			Size:     size,
		}
	}
	return out
}
