// Package codegen renders a layout as chart API calls.
//
// Each item becomes one statement that adds a trace to the view's plot,
// positioned by the item's domain bounds:
//
//	MyPlot.plot.data.Add(new RadialGauge().AutoGen(MyPlot.plot.layout, new Domain(0.25f, 0.45f, 0.25f, 0.45f), _dataPacket, ""));
//
// The constructor and the channel argument depend on the item's chart type.
// Scatter items take their channel as raw code wrapped in brackets; every
// other type passes the channel as a numeric literal when it parses as a
// finite number and as a quoted string otherwise.
//
// Rendering is pure: the same items and view always produce the same text.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/layout"
)

// DefaultDataRef is the data argument passed to every generated call.
const DefaultDataRef = "_dataPacket"

// Options control rendering.
type Options struct {
	DataRef string
}

// Option configures [Render].
type Option func(*Options)

// WithDataRef sets the data argument. Empty values keep the default.
func WithDataRef(ref string) Option {
	return func(o *Options) {
		if ref != "" {
			o.DataRef = ref
		}
	}
}

func buildOptions(opts []Option) Options {
	o := Options{DataRef: DefaultDataRef}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// call describes the constructor and method an item type maps to.
type call struct {
	ctor   string
	method string
}

var calls = map[layout.ChartType]call{
	layout.ChartScatter: {"ScatterTrace", "MultiTimeAutoGen"},
	layout.ChartGauge:   {"RadialGauge", "AutoGen"},
	layout.ChartPie:     {"PieTrace", "AutoGen"},
	layout.ChartBar:     {"BarTrace", "AutoGen"},
}

var unknownCall = call{"UnknownTrace", "AutoGen"}

// Render returns one line per item, joined by newlines, in item order.
// An empty layout renders as the empty string.
func Render(items []layout.Item, view string, opts ...Option) string {
	o := buildOptions(opts)
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = Line(it, view, o)
	}
	return strings.Join(lines, "\n")
}

// Line renders a single item.
func Line(it layout.Item, view string, o Options) string {
	c, ok := calls[it.Type]
	if !ok {
		c = unknownCall
	}

	var channel string
	if it.Type == layout.ChartScatter {
		channel = "[" + it.ChannelNumber + "]"
	} else {
		channel = ChannelLiteral(it.ChannelNumber)
	}

	return fmt.Sprintf("%s.plot.data.Add(new %s().%s(%s.plot.layout, new Domain(%s), %s, %s));",
		view, c.ctor, c.method, view, DomainArgs(it), o.DataRef, channel)
}

// DomainArgs formats the item's (x0, x1, y0, y1) bounds as float literals.
func DomainArgs(it layout.Item) string {
	x0, x1, y0, y1 := it.Rect().Bounds()
	return fmt.Sprintf("%s, %s, %s, %s", floatLit(x0), floatLit(x1), floatLit(y0), floatLit(y1))
}

func floatLit(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		s = "0.00"
	}
	return s + "f"
}

// IsNumeric reports whether the trimmed channel text parses as a finite
// number. The empty string is not numeric.
func IsNumeric(channel string) bool {
	_, ok := parseNumber(channel)
	return ok
}

// ChannelLiteral renders a channel as a numeric literal when [IsNumeric]
// holds and as a double-quoted string literal otherwise.
func ChannelLiteral(channel string) string {
	if v, ok := parseNumber(channel); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.Quote(channel)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	if digits := strings.ToLower(strings.TrimLeft(s, "+-")); strings.HasPrefix(digits, "0x") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return v, true
}
