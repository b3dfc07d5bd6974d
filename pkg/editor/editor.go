// Package editor is the layout editor's composition root.
//
// An [Editor] owns the item collection, the selection and the view name. It
// turns widget events (container measurements, drag-stop and resize-stop
// pixel geometry, form edits, key presses) into normalized item updates,
// mirrors every mutation to the persistence adapter and renders the layout
// as generated code on demand.
//
// The editor is synchronous and not safe for concurrent use. Hosts that
// receive events on several goroutines serialize them before calling in.
package editor

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotgrid/pkg/codegen"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/palette"
	"github.com/matzehuels/plotgrid/pkg/persist"
	"github.com/matzehuels/plotgrid/pkg/preview"
)

// Status messages shown after a copy.
const (
	StatusCopied     = "Copied!"
	StatusCopyFailed = "Failed to copy"
)

// DefaultStatusDuration is how long a copy status stays visible.
const DefaultStatusDuration = 2 * time.Second

// Editor holds the editing session.
type Editor struct {
	store     *layout.Store
	adapter   *persist.Adapter
	view      string
	container geom.Size

	clipboard  Clipboard
	now        func() time.Time
	logger     *log.Logger
	colors     *palette.Assigner
	step       float64
	unit       float64
	statusDur  time.Duration
	renderOpts []codegen.Option

	status      string
	statusUntil time.Time
}

// Option configures an [Editor].
type Option func(*Editor)

// WithClipboard sets the clipboard Copy writes to.
func WithClipboard(c Clipboard) Option { return func(e *Editor) { e.clipboard = c } }

// WithClock replaces time.Now for status expiry.
func WithClock(now func() time.Time) Option { return func(e *Editor) { e.now = now } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(e *Editor) { e.logger = l } }

// WithStep sets the quantization step for interactive edits.
func WithStep(step float64) Option { return func(e *Editor) { e.step = step } }

// WithGridUnit sets the pixel grid unit used for container and event snapping.
func WithGridUnit(unit float64) Option { return func(e *Editor) { e.unit = unit } }

// WithStatusDuration sets how long copy status messages stay visible.
func WithStatusDuration(d time.Duration) Option { return func(e *Editor) { e.statusDur = d } }

// WithRenderOptions passes options through to [codegen.Render].
func WithRenderOptions(opts ...codegen.Option) Option {
	return func(e *Editor) { e.renderOpts = append(e.renderOpts, opts...) }
}

// WithStore injects the item store. Without it the editor creates one with
// its step and palette.
func WithStore(s *layout.Store) Option { return func(e *Editor) { e.store = s } }

// WithPalette sets the palette used for new items and previews.
func WithPalette(p *palette.Assigner) Option { return func(e *Editor) { e.colors = p } }

// New creates an editor persisting through adapter. Call [Editor.Open] to
// load saved state.
func New(adapter *persist.Adapter, opts ...Option) *Editor {
	e := &Editor{
		adapter:   adapter,
		now:       time.Now,
		step:      geom.Step,
		unit:      geom.GridUnit,
		statusDur: DefaultStatusDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.colors == nil {
		e.colors = palette.NewAssigner(nil)
	}
	if e.clipboard == nil {
		e.clipboard = SystemClipboard{}
	}
	if e.store == nil {
		e.store = layout.NewStore(layout.WithStep(e.step), layout.WithPalette(e.colors))
	}
	return e
}

// Open replaces the session with the persisted state. It never fails.
func (e *Editor) Open(ctx context.Context) {
	st := e.adapter.Load(ctx)
	e.store.Replace(st.Items)
	e.view = st.View
	e.logger.Debug("opened layout", "items", len(st.Items), "view", st.View)
}

// Measure records the container's measured pixel size, floored to the grid
// unit, and returns the snapped size.
func (e *Editor) Measure(w, h float64) geom.Size {
	e.container = geom.SnapContainer(geom.Size{W: w, H: h}, e.unit)
	return e.container
}

// Container returns the snapped container size. Items are confined to it.
func (e *Editor) Container() geom.Size { return e.container }

// AddItem creates and selects a new item.
func (e *Editor) AddItem(ctx context.Context) layout.Item {
	it := e.store.Add()
	e.logger.Debug("added item", "id", it.ID, "color", it.Color)
	e.save(ctx)
	return it
}

// DragStop moves an item to the pixel position reported at the end of a
// drag. The item keeps its size. Unknown ids and unmeasured containers are
// ignored and report false.
func (e *Editor) DragStop(ctx context.Context, id string, pos geom.Point) bool {
	it, ok := e.store.Get(id)
	if !ok || e.container.Empty() {
		return false
	}
	pos = geom.SnapPoint(pos, e.unit)
	x := geom.ClampPosition(geom.Quantize(pos.X/e.container.W, e.step))
	y := geom.ClampPosition(geom.Quantize(1-pos.Y/e.container.H-it.Height, e.step))

	e.store.Update(id, layout.PositionPatch(x, y))
	e.logger.Debug("moved item", "id", id, "x", x, "y", y)
	e.save(ctx)
	return true
}

// ResizeStop applies the pixel position and size reported at the end of a
// resize. Unknown ids and unmeasured containers are ignored and report false.
func (e *Editor) ResizeStop(ctx context.Context, id string, pos geom.Point, size geom.Size) bool {
	if _, ok := e.store.Get(id); !ok || e.container.Empty() {
		return false
	}
	pos = geom.SnapPoint(pos, e.unit)
	size = geom.SnapSize(size, e.unit)
	r := geom.ToDomain(pos, size, e.container, e.step).Clamp()

	e.store.Update(id, layout.RectPatch(r))
	e.logger.Debug("resized item", "id", id, "rect", r)
	e.save(ctx)
	return true
}

// EditField sets one item field from form text. Numeric fields take the
// leading number of text (0 when there is none), then clamp and quantize.
// The channel is stored verbatim and the type as given.
func (e *Editor) EditField(ctx context.Context, id string, field Field, text string) bool {
	if _, ok := e.store.Get(id); !ok {
		return false
	}

	var p layout.Patch
	switch field {
	case FieldX, FieldY:
		v := geom.Quantize(geom.ClampPosition(parseLeadingFloat(text)), e.step)
		if field == FieldX {
			p.X = &v
		} else {
			p.Y = &v
		}
	case FieldWidth, FieldHeight:
		v := geom.Quantize(geom.ClampSize(parseLeadingFloat(text)), e.step)
		if field == FieldWidth {
			p.Width = &v
		} else {
			p.Height = &v
		}
	case FieldChannel:
		p.ChannelNumber = &text
	case FieldType:
		t := layout.ChartType(text)
		p.Type = &t
	default:
		return false
	}

	e.store.Update(id, p)
	e.logger.Debug("edited item", "id", id, "field", field, "value", text)
	e.save(ctx)
	return true
}

// Update applies a patch directly. Geometry is clamped and quantized.
func (e *Editor) Update(ctx context.Context, id string, p layout.Patch) bool {
	it, ok := e.store.Get(id)
	if !ok {
		return false
	}
	r := p.Apply(it).Rect().Clamp()
	p.X, p.Y, p.Width, p.Height = &r.X, &r.Y, &r.Width, &r.Height

	e.store.Update(id, p)
	e.save(ctx)
	return true
}

// SetView sets the view name used as the receiver in generated code.
func (e *Editor) SetView(ctx context.Context, name string) {
	e.view = name
	e.save(ctx)
}

// View returns the view name.
func (e *Editor) View() string { return e.view }

// Delete removes an item. Unknown ids report false.
func (e *Editor) Delete(ctx context.Context, id string) bool {
	if !e.store.Remove(id) {
		return false
	}
	e.logger.Debug("deleted item", "id", id)
	e.save(ctx)
	return true
}

// DeleteSelected removes the selected item, if any.
func (e *Editor) DeleteSelected(ctx context.Context) bool {
	return e.Delete(ctx, e.store.SelectedID())
}

// Select sets the selection. Selection is not persisted.
func (e *Editor) Select(id string) { e.store.Select(id) }

// Deselect clears the selection.
func (e *Editor) Deselect() { e.store.Deselect() }

// Selected returns the selected item.
func (e *Editor) Selected() (layout.Item, bool) { return e.store.Selected() }

// Get returns an item by id.
func (e *Editor) Get(id string) (layout.Item, bool) { return e.store.Get(id) }

// Items returns the items in insertion order.
func (e *Editor) Items() []layout.Item { return e.store.Items() }

// Resolve finds the single item whose id equals or starts with prefix.
func (e *Editor) Resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "item id is required")
	}
	var matches []string
	for _, it := range e.store.Items() {
		if it.ID == prefix {
			return it.ID, nil
		}
		if strings.HasPrefix(it.ID, prefix) {
			matches = append(matches, it.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.New(errors.ErrCodeNotFound, "no item matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", errors.New(errors.ErrCodeAmbiguousID, "%q matches %d items", prefix, len(matches))
	}
}

// Output renders the layout as generated code.
func (e *Editor) Output() string {
	return codegen.Render(e.store.Items(), e.view, e.renderOpts...)
}

// OutputJSON renders the coordinate listing.
func (e *Editor) OutputJSON() ([]byte, error) {
	return codegen.RenderJSON(e.store.Items())
}

// Preview writes a PNG of the layout at the container's size.
func (e *Editor) Preview(w io.Writer) error {
	return preview.PNG(w, e.store.Items(), e.container,
		preview.WithSelected(e.store.SelectedID()),
		preview.WithGridUnit(e.unit),
		preview.WithPalette(e.colors),
	)
}

// Copy puts the generated code on the clipboard and sets the status
// message for the status duration.
func (e *Editor) Copy() error {
	err := e.clipboard.WriteAll(e.Output())
	if err != nil {
		e.logger.Warn("clipboard write failed", "err", err)
		e.setStatus(StatusCopyFailed)
		return err
	}
	e.setStatus(StatusCopied)
	return nil
}

// Status returns the current status message, or "" once it has expired.
func (e *Editor) Status() string {
	if e.status == "" || !e.now().Before(e.statusUntil) {
		return ""
	}
	return e.status
}

func (e *Editor) setStatus(s string) {
	e.status = s
	e.statusUntil = e.now().Add(e.statusDur)
}

func (e *Editor) save(ctx context.Context) {
	e.adapter.Save(ctx, e.store.Items(), e.view)
}
