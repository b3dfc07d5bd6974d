package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/kv"
	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/persist"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	ed    *Editor
	store kv.Store
	clip  *fakeClipboard
	clock *fakeClock
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store: kv.NewMemoryStore(),
		clip:  &fakeClipboard{},
		clock: &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	quiet := log.New(io.Discard)
	adapter := persist.NewAdapter(f.store, persist.WithLogger(quiet))
	base := []Option{WithClipboard(f.clip), WithClock(f.clock.Now), WithLogger(quiet)}
	f.ed = New(adapter, append(base, opts...)...)
	return f
}

// persisted reloads the stored record through a fresh adapter.
func (f *fixture) persisted(t *testing.T) persist.State {
	t.Helper()
	return persist.NewAdapter(f.store, persist.WithLogger(log.New(io.Discard))).Load(context.Background())
}

func sequentialIDs(ids ...string) layout.Option {
	i := 0
	return layout.WithIDFunc(func() string {
		id := ids[i%len(ids)]
		i++
		return id
	})
}

func TestAddItemPersistsAndSelects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	it := f.ed.AddItem(ctx)
	if it.X != 0.25 || it.Y != 0.25 || it.Width != 0.2 || it.Height != 0.2 {
		t.Errorf("default geometry = %+v", it.Rect())
	}
	if it.Type != layout.ChartGauge || it.ChannelNumber != "" {
		t.Errorf("defaults type=%q channel=%q", it.Type, it.ChannelNumber)
	}
	if sel, ok := f.ed.Selected(); !ok || sel.ID != it.ID {
		t.Error("new item is not selected")
	}

	st := f.persisted(t)
	if len(st.Items) != 1 || st.Items[0].ID != it.ID {
		t.Errorf("persisted items = %+v", st.Items)
	}
}

func TestAddThenExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.SetView(ctx, "MyPlot")
	f.ed.AddItem(ctx)

	want := `MyPlot.plot.data.Add(new RadialGauge().AutoGen(MyPlot.plot.layout, new Domain(0.25f, 0.45f, 0.25f, 0.45f), _dataPacket, ""));`
	if got := f.ed.Output(); got != want {
		t.Errorf("Output =\n%s\nwant\n%s", got, want)
	}
	if got := f.persisted(t).View; got != "MyPlot" {
		t.Errorf("persisted view = %q", got)
	}
}

func TestMeasure(t *testing.T) {
	f := newFixture(t)
	got := f.ed.Measure(810.5, 615)
	if got != (geom.Size{W: 800, H: 600}) {
		t.Errorf("Measure = %+v, want 800x600", got)
	}
	if f.ed.Container() != got {
		t.Error("Container does not report the measured size")
	}
}

func TestDragStop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.Measure(800, 600)
	it := f.ed.AddItem(ctx)

	if !f.ed.DragStop(ctx, it.ID, geom.Point{X: 163, Y: 118}) {
		t.Fatal("DragStop reported false")
	}
	got, _ := f.ed.Get(it.ID)
	if got.X != 0.2 || got.Y != 0.6 {
		t.Errorf("position = (%v, %v), want (0.2, 0.6)", got.X, got.Y)
	}
	if got.Width != 0.2 || got.Height != 0.2 {
		t.Errorf("drag changed size to %vx%v", got.Width, got.Height)
	}

	if p := f.persisted(t).Items[0]; p.X != 0.2 || p.Y != 0.6 {
		t.Errorf("persisted position = (%v, %v)", p.X, p.Y)
	}
}

func TestDragStopClampsAboveTop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.Measure(800, 600)
	it := f.ed.AddItem(ctx)

	// Dragged far above the container and past its right edge.
	f.ed.DragStop(ctx, it.ID, geom.Point{X: 2000, Y: -400})
	got, _ := f.ed.Get(it.ID)
	if got.X != 1 || got.Y != 1 {
		t.Errorf("position = (%v, %v), want clamped to (1, 1)", got.X, got.Y)
	}

	// No lower bound.
	f.ed.DragStop(ctx, it.ID, geom.Point{X: -80, Y: 600})
	got, _ = f.ed.Get(it.ID)
	if got.X != -0.1 || got.Y != -0.2 {
		t.Errorf("position = (%v, %v), want (-0.1, -0.2)", got.X, got.Y)
	}
}

func TestDragStopIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.ed.AddItem(ctx)

	if f.ed.DragStop(ctx, it.ID, geom.Point{X: 100, Y: 100}) {
		t.Error("DragStop before Measure should be ignored")
	}
	f.ed.Measure(800, 600)
	if f.ed.DragStop(ctx, "stale", geom.Point{X: 100, Y: 100}) {
		t.Error("DragStop on unknown id should be ignored")
	}
	if got, _ := f.ed.Get(it.ID); got.X != 0.25 {
		t.Errorf("item moved: %+v", got)
	}
}

func TestResizeStop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.Measure(800, 600)
	it := f.ed.AddItem(ctx)

	ok := f.ed.ResizeStop(ctx, it.ID, geom.Point{X: 161, Y: 121}, geom.Size{W: 198, H: 123})
	if !ok {
		t.Fatal("ResizeStop reported false")
	}
	got, _ := f.ed.Get(it.ID)
	want := geom.Rect{X: 0.2, Y: 0.6, Width: 0.25, Height: 0.2}
	if got.Rect() != want {
		t.Errorf("rect = %+v, want %+v", got.Rect(), want)
	}
}

func TestResizeStopClampsSize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.Measure(400, 400)
	it := f.ed.AddItem(ctx)

	f.ed.ResizeStop(ctx, it.ID, geom.Point{X: 0, Y: 0}, geom.Size{W: 800, H: 400})
	got, _ := f.ed.Get(it.ID)
	if got.Width != 1 || got.Height != 1 {
		t.Errorf("size = %vx%v, want 1x1", got.Width, got.Height)
	}
}

func TestEditField(t *testing.T) {
	tests := []struct {
		field Field
		text  string
		check func(layout.Item) bool
	}{
		{FieldX, "0.3abc", func(it layout.Item) bool { return it.X == 0.3 }},
		{FieldX, "abc", func(it layout.Item) bool { return it.X == 0 }},
		{FieldX, "", func(it layout.Item) bool { return it.X == 0 }},
		{FieldX, "1.7", func(it layout.Item) bool { return it.X == 1 }},
		{FieldX, "-0.33", func(it layout.Item) bool { return it.X == -0.35 }},
		{FieldY, " .42 ", func(it layout.Item) bool { return it.Y == 0.4 }},
		{FieldWidth, "-0.2", func(it layout.Item) bool { return it.Width == 0 }},
		{FieldWidth, "0.234", func(it layout.Item) bool { return it.Width == 0.25 }},
		{FieldHeight, "3", func(it layout.Item) bool { return it.Height == 1 }},
		{FieldHeight, "1e999", func(it layout.Item) bool { return it.Height == 0 }},
		{FieldChannel, " 7 ", func(it layout.Item) bool { return it.ChannelNumber == " 7 " }},
		{FieldType, "bar", func(it layout.Item) bool { return it.Type == layout.ChartBar }},
		{FieldType, "donut", func(it layout.Item) bool { return it.Type == "donut" }},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%q", tt.field, tt.text), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			it := f.ed.AddItem(ctx)

			if !f.ed.EditField(ctx, it.ID, tt.field, tt.text) {
				t.Fatal("EditField reported false")
			}
			got, _ := f.ed.Get(it.ID)
			if !tt.check(got) {
				t.Errorf("item after edit = %+v", got)
			}
			if p := f.persisted(t).Items[0]; p != got {
				t.Errorf("persisted %+v, want %+v", p, got)
			}
		})
	}
}

func TestEditFieldIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.ed.AddItem(ctx)

	if f.ed.EditField(ctx, "stale", FieldX, "0.5") {
		t.Error("edit of unknown id reported true")
	}
	if f.ed.EditField(ctx, it.ID, Field("color"), "red") {
		t.Error("edit of unsupported field reported true")
	}
}

func TestUpdateClamps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.ed.AddItem(ctx)

	w, x := 1.5, 2.0
	if !f.ed.Update(ctx, it.ID, layout.Patch{Width: &w, X: &x}) {
		t.Fatal("Update reported false")
	}
	got, _ := f.ed.Get(it.ID)
	if got.Width != 1 || got.X != 1 || got.Height != 0.2 {
		t.Errorf("item = %+v", got)
	}
}

func TestDeleteAndSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.ed.AddItem(ctx)
	b := f.ed.AddItem(ctx)

	f.ed.Select(a.ID)
	if !f.ed.Delete(ctx, a.ID) {
		t.Fatal("Delete reported false")
	}
	if _, ok := f.ed.Selected(); ok {
		t.Error("selection not cleared after deleting the selected item")
	}
	if f.ed.Delete(ctx, a.ID) {
		t.Error("second Delete reported true")
	}

	f.ed.Select(b.ID)
	f.ed.Deselect()
	if f.ed.DeleteSelected(ctx) {
		t.Error("DeleteSelected without selection reported true")
	}
	if len(f.persisted(t).Items) != 1 {
		t.Error("persisted state does not reflect the delete")
	}
}

func TestHandleKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, k := range []string{"ctrl+n", "Cmd+N", "meta+n", "super+n"} {
		if !f.ed.HandleKey(ctx, k) {
			t.Errorf("HandleKey(%q) = false, want true", k)
		}
	}
	if n := len(f.ed.Items()); n != 4 {
		t.Fatalf("items after shortcuts = %d, want 4", n)
	}

	if !f.ed.HandleKey(ctx, "Delete") {
		t.Error("Delete with a selection should be consumed")
	}
	if n := len(f.ed.Items()); n != 3 {
		t.Errorf("items after Delete = %d, want 3", n)
	}
	if f.ed.HandleKey(ctx, "delete") {
		t.Error("Delete without a selection should not be consumed")
	}
	if f.ed.HandleKey(ctx, "n") {
		t.Error("unbound key consumed")
	}
}

func TestCopyStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.SetView(ctx, "V")
	f.ed.AddItem(ctx)

	if f.ed.Status() != "" {
		t.Errorf("initial status = %q", f.ed.Status())
	}
	if err := f.ed.Copy(); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if f.clip.text != f.ed.Output() {
		t.Errorf("clipboard = %q, want output", f.clip.text)
	}
	if f.ed.Status() != StatusCopied {
		t.Errorf("status = %q, want %q", f.ed.Status(), StatusCopied)
	}

	f.clock.Advance(1999 * time.Millisecond)
	if f.ed.Status() != StatusCopied {
		t.Error("status cleared early")
	}
	f.clock.Advance(time.Millisecond)
	if f.ed.Status() != "" {
		t.Errorf("status after 2s = %q, want empty", f.ed.Status())
	}
}

func TestCopyFailure(t *testing.T) {
	f := newFixture(t, WithStatusDuration(time.Second))
	f.clip.err = errors.New("no clipboard")

	if err := f.ed.Copy(); err == nil {
		t.Fatal("Copy should report the clipboard error")
	}
	if f.ed.Status() != StatusCopyFailed {
		t.Errorf("status = %q, want %q", f.ed.Status(), StatusCopyFailed)
	}
	f.clock.Advance(time.Second)
	if f.ed.Status() != "" {
		t.Errorf("status after duration = %q", f.ed.Status())
	}
}

func TestOpenRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.SetView(ctx, "Saved")
	it := f.ed.AddItem(ctx)

	quiet := log.New(io.Discard)
	reopened := New(persist.NewAdapter(f.store, persist.WithLogger(quiet)), WithLogger(quiet))
	reopened.Open(ctx)

	if reopened.View() != "Saved" {
		t.Errorf("view = %q", reopened.View())
	}
	if items := reopened.Items(); len(items) != 1 || items[0] != it {
		t.Errorf("items = %+v", items)
	}
	if _, ok := reopened.Selected(); ok {
		t.Error("selection should not survive a reload")
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithStore(layout.NewStore(sequentialIDs("abc1", "abc2", "xyz"))))
	for i := 0; i < 3; i++ {
		f.ed.AddItem(ctx)
	}

	tests := []struct {
		prefix string
		want   string
		code   perrors.Code
	}{
		{"xy", "xyz", ""},
		{"abc1", "abc1", ""},
		{"abc", "", perrors.ErrCodeAmbiguousID},
		{"q", "", perrors.ErrCodeNotFound},
		{" ", "", perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		got, err := f.ed.Resolve(tt.prefix)
		if tt.code != "" {
			if !perrors.Is(err, tt.code) {
				t.Errorf("Resolve(%q) error = %v, want %s", tt.prefix, err, tt.code)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", tt.prefix, got, err, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithStore(layout.NewStore(sequentialIDs("abcdef"))))

	it := f.ed.AddItem(ctx)
	if got := f.ed.Layout(); len(got) != 0 {
		t.Errorf("Layout before Measure = %+v, want empty", got)
	}

	f.ed.Measure(800, 600)
	ps := f.ed.Layout()
	if len(ps) != 1 {
		t.Fatalf("Layout returned %d placements", len(ps))
	}
	p := ps[0]
	if p.ID != it.ID || p.Label != "abcd" || !p.Selected {
		t.Errorf("placement = %+v", p)
	}
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !near(p.Pos.X, 200) || !near(p.Pos.Y, 330) || !near(p.Size.W, 160) || !near(p.Size.H, 120) {
		t.Errorf("pixel geometry = %+v %+v", p.Pos, p.Size)
	}
}

func TestOutputJSONAndPreview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ed.AddItem(ctx)

	data, err := f.ed.OutputJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"bounds": "(0.25f, 0.45f, 0.25f, 0.45f)"`) {
		t.Errorf("OutputJSON = %s", data)
	}

	var buf bytes.Buffer
	if err := f.ed.Preview(&buf); err == nil {
		t.Error("Preview before Measure should fail")
	}
	f.ed.Measure(200, 100)
	buf.Reset()
	if err := f.ed.Preview(&buf); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("Preview is not a PNG: %v", err)
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{
		"x": FieldX, "W": FieldWidth, "height": FieldHeight,
		"channelNumber": FieldChannel, " type ": FieldType,
	} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseField("color"); !perrors.Is(err, perrors.ErrCodeInvalidField) {
		t.Errorf("ParseField(color) error = %v", err)
	}
}
