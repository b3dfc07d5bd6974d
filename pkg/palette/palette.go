// Package palette assigns item colors by creation order.
package palette

// Color is a named palette entry.
type Color struct {
	Name string `json:"name" toml:"name"`
	Hex  string `json:"hex" toml:"hex"`
}

// Default is the built-in palette, in assignment order.
var Default = []Color{
	{Name: "emerald", Hex: "#34D399"},
	{Name: "amber", Hex: "#F59E0B"},
	{Name: "red", Hex: "#EF4444"},
	{Name: "violet", Hex: "#8B5CF6"},
	{Name: "pink", Hex: "#EC4899"},
	{Name: "blue", Hex: "#3B82F6"},
	{Name: "teal", Hex: "#14B8A6"},
	{Name: "purple", Hex: "#A855F7"},
	{Name: "fuchsia", Hex: "#E879F9"},
	{Name: "lime", Hex: "#84CC16"},
	{Name: "cyan", Hex: "#06B6D4"},
	{Name: "orange", Hex: "#F97316"},
	{Name: "indigo", Hex: "#6366F1"},
}

// Assigner maps item ordinals to palette colors, cycling through the
// palette. The zero value is not usable; use [NewAssigner].
type Assigner struct {
	colors []Color
	byName map[string]Color
}

// NewAssigner creates an assigner over colors. An empty list falls back to
// [Default]. The slice is copied.
func NewAssigner(colors []Color) *Assigner {
	if len(colors) == 0 {
		colors = Default
	}
	a := &Assigner{
		colors: append([]Color(nil), colors...),
		byName: make(map[string]Color, len(colors)),
	}
	for _, c := range a.colors {
		if _, dup := a.byName[c.Name]; !dup {
			a.byName[c.Name] = c
		}
	}
	return a
}

// At returns the color for the nth item (0-indexed): colors[n mod len].
// Negative ordinals wrap the same way.
func (a *Assigner) At(n int) Color {
	l := len(a.colors)
	i := n % l
	if i < 0 {
		i += l
	}
	return a.colors[i]
}

// Lookup finds a color by name.
func (a *Assigner) Lookup(name string) (Color, bool) {
	c, ok := a.byName[name]
	return c, ok
}

// Hex returns the hex value for name, or fallback when the name is not in
// the palette.
func (a *Assigner) Hex(name, fallback string) string {
	if c, ok := a.byName[name]; ok {
		return c.Hex
	}
	return fallback
}

// Len returns the palette length.
func (a *Assigner) Len() int { return len(a.colors) }

// Colors returns a copy of the palette.
func (a *Assigner) Colors() []Color {
	return append([]Color(nil), a.colors...)
}
