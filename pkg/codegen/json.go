package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/plotgrid/pkg/layout"
)

type jsonEntry struct {
	ID     string `json:"id"`
	Color  string `json:"color"`
	Bounds string `json:"bounds"`
}

// RenderJSON returns the coordinate listing: one object per item with its
// id, color and "(x0f, x1f, y0f, y1f)" bounds, indented by two spaces.
func RenderJSON(items []layout.Item) ([]byte, error) {
	entries := make([]jsonEntry, len(items))
	for i, it := range items {
		entries[i] = jsonEntry{
			ID:     it.ID,
			Color:  it.Color,
			Bounds: "(" + DomainArgs(it) + ")",
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
