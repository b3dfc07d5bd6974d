// Package persist mirrors the editor's items and view name to a [kv.Store].
//
// Persistence is fail-open: [Adapter.Save] logs and swallows every failure,
// and [Adapter.Load] returns an empty [State] for a missing key, a storage
// error or a record that does not parse. Loaded geometry is re-quantized to
// the adapter's step so layouts saved under an older step heal on load.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/kv"
	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/observability"
	"github.com/matzehuels/plotgrid/pkg/palette"
)

// DefaultKey is the key the layout record is stored under.
const DefaultKey = "gridLayoutState"

// State is the persisted record.
type State struct {
	Items []layout.Item `json:"items"`
	View  string        `json:"view"`
}

// Adapter saves and loads [State] records.
type Adapter struct {
	store  kv.Store
	key    string
	step   float64
	logger *log.Logger
	colors *palette.Assigner
	newID  func() string
}

// Option configures an [Adapter].
type Option func(*Adapter)

// WithKey sets the storage key.
func WithKey(key string) Option { return func(a *Adapter) { a.key = key } }

// WithStep sets the step loaded geometry is quantized to.
func WithStep(step float64) Option { return func(a *Adapter) { a.step = step } }

// WithLogger sets the logger failures are reported to.
func WithLogger(l *log.Logger) Option { return func(a *Adapter) { a.logger = l } }

// WithPalette sets the palette used to fill in missing colors on load.
func WithPalette(p *palette.Assigner) Option { return func(a *Adapter) { a.colors = p } }

// WithIDFunc sets the generator used for loaded items without a usable id.
func WithIDFunc(fn func() string) Option { return func(a *Adapter) { a.newID = fn } }

// NewAdapter creates an adapter over store.
func NewAdapter(store kv.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store: store,
		key:   DefaultKey,
		step:  geom.Step,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	if a.colors == nil {
		a.colors = palette.NewAssigner(nil)
	}
	if a.newID == nil {
		a.newID = uuid.NewString
	}
	return a
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Save writes items and view. Failures are logged at warn level and
// otherwise ignored; the in-memory state stays authoritative.
func (a *Adapter) Save(ctx context.Context, items []layout.Item, view string) {
	if items == nil {
		items = []layout.Item{}
	}
	data, err := json.Marshal(State{Items: items, View: view})
	if err != nil {
		a.logger.Warn("could not encode layout", "key", a.key, "err", err)
		return
	}
	start := time.Now()
	err = a.store.Set(ctx, a.key, data)
	observability.Store().OnSave(ctx, a.key, len(data), time.Since(start), err)
	if err != nil {
		if errors.Is(err, kv.ErrQuotaExceeded) {
			a.logger.Warn("storage quota exceeded, layout not saved", "key", a.key, "bytes", len(data))
			return
		}
		a.logger.Warn("could not save layout", "key", a.key, "err", err)
		return
	}
	a.logger.Debug("saved layout", "key", a.key, "items", len(items))
}

// Load reads the record. It never fails: anything unreadable yields an
// empty State.
func (a *Adapter) Load(ctx context.Context) State {
	start := time.Now()
	st, err := a.load(ctx)
	observability.Store().OnLoad(ctx, a.key, len(st.Items), time.Since(start), err)
	return st
}

func (a *Adapter) load(ctx context.Context) (State, error) {
	empty := State{Items: []layout.Item{}}

	data, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		a.logger.Warn("could not read layout", "key", a.key, "err", err)
		return empty, err
	}
	if !ok {
		a.logger.Debug("no saved layout", "key", a.key)
		return empty, nil
	}

	st, err := a.decode(data)
	if err != nil {
		a.logger.Warn("discarding unreadable layout", "key", a.key, "err", err)
		return empty, err
	}
	a.logger.Debug("loaded layout", "key", a.key, "items", len(st.Items))
	return st, nil
}

// Clear removes the record.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.store.Delete(ctx, a.key)
}

// storedItem mirrors layout.Item with every field optional.
type storedItem struct {
	ID            *string         `json:"id"`
	X             *float64        `json:"x"`
	Y             *float64        `json:"y"`
	Width         *float64        `json:"width"`
	Height        *float64        `json:"height"`
	Color         *string         `json:"color"`
	Type          *string         `json:"type"`
	ChannelNumber json.RawMessage `json:"channelNumber"`
}

type storedState struct {
	Items []*storedItem `json:"items"`
	View  *string       `json:"view"`
}

func (a *Adapter) decode(data []byte) (State, error) {
	var raw storedState
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, err
	}

	st := State{Items: make([]layout.Item, 0, len(raw.Items))}
	if raw.View != nil {
		st.View = *raw.View
	}

	seen := make(map[string]bool, len(raw.Items))
	for i, si := range raw.Items {
		if si == nil {
			si = &storedItem{}
		}
		it := layout.Item{
			X:             deref(si.X),
			Y:             deref(si.Y),
			Width:         deref(si.Width),
			Height:        deref(si.Height),
			Type:          layout.DefaultChartType,
			ChannelNumber: channelText(si.ChannelNumber),
		}
		if si.ID != nil {
			it.ID = *si.ID
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = a.freshID(seen)
		}
		seen[it.ID] = true

		if si.Color != nil && *si.Color != "" {
			it.Color = *si.Color
		} else {
			it.Color = a.colors.At(i).Name
		}
		if si.Type != nil && *si.Type != "" {
			it.Type = layout.ChartType(*si.Type)
		}

		st.Items = append(st.Items, it.WithRect(it.Rect().Quantize(a.step)))
	}
	return st, nil
}

func (a *Adapter) freshID(seen map[string]bool) string {
	for attempt := 0; attempt < 8; attempt++ {
		if id := a.newID(); id != "" && !seen[id] {
			return id
		}
	}
	return uuid.NewString()
}

// channelText accepts the channel as a JSON string or, for records written
// by hand, a bare number.
func channelText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return strings.TrimSpace(n.String())
	}
	return ""
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
