package layout

import (
	"github.com/google/uuid"

	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/palette"
)

// DefaultRect is the geometry of a newly added item.
var DefaultRect = geom.Rect{X: 0.25, Y: 0.25, Width: 0.2, Height: 0.2}

// Option configures a [Store].
type Option func(*Store)

// WithPalette sets the color assigner used by Add.
func WithPalette(a *palette.Assigner) Option { return func(s *Store) { s.colors = a } }

// WithIDFunc replaces the id generator (UUID v4 by default).
func WithIDFunc(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// WithStep sets the quantization step applied to geometry on Add and Update.
func WithStep(step float64) Option { return func(s *Store) { s.step = step } }

// WithDefaults sets the geometry of new items. It is quantized on use.
func WithDefaults(r geom.Rect) Option { return func(s *Store) { s.defaults = r } }

// Store is the ordered, in-memory item collection plus the current
// selection. It is not safe for concurrent use; callers serialize events.
type Store struct {
	items    []Item
	selected string
	colors   *palette.Assigner
	newID    func() string
	step     float64
	defaults geom.Rect
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		step:     geom.Step,
		defaults: DefaultRect,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.colors == nil {
		s.colors = palette.NewAssigner(nil)
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Add appends a new item with default geometry, the next palette color and
// the default chart type, and selects it.
func (s *Store) Add() Item {
	it := Item{
		ID:    s.uniqueID(),
		Color: s.colors.At(len(s.items)).Name,
		Type:  DefaultChartType,
	}.WithRect(s.defaults.Quantize(s.step))

	s.items = append(s.items, it)
	s.selected = it.ID
	return it
}

// Update merges p into the item with the given id. Geometry fields are
// quantized before they are stored. Unknown ids are ignored and report false.
func (s *Store) Update(id string, p Patch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	it := p.Apply(s.items[i])
	s.items[i] = it.WithRect(it.Rect().Quantize(s.step))
	return true
}

// Remove deletes the item with the given id, clearing the selection if it
// pointed at that item. Unknown ids are ignored and report false.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Select sets the selection. The id is not validated; a stale id simply
// finds no item in [Store.Selected].
func (s *Store) Select(id string) { s.selected = id }

// Deselect clears the selection.
func (s *Store) Deselect() { s.selected = "" }

// SelectedID returns the selected id, or "" when nothing is selected.
func (s *Store) SelectedID() string { return s.selected }

// Selected returns the selected item.
func (s *Store) Selected() (Item, bool) {
	if s.selected == "" {
		return Item{}, false
	}
	return s.Get(s.selected)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Replace swaps in a loaded collection and clears the selection. Items are
// stored as given; the loader is responsible for normalizing them.
func (s *Store) Replace(items []Item) {
	s.items = append([]Item(nil), items...)
	s.selected = ""
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids from the generator until one is free, falling back to
// a UUID when an injected generator keeps colliding.
func (s *Store) uniqueID() string {
	for attempt := 0; attempt < 8; attempt++ {
		if id := s.newID(); id != "" && s.index(id) < 0 {
			return id
		}
	}
	return uuid.NewString()
}
