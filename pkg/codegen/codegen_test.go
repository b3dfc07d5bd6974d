package codegen

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/plotgrid/pkg/layout"
)

func defaultItem(typ layout.ChartType, channel string) layout.Item {
	return layout.Item{
		ID: "a", X: 0.25, Y: 0.25, Width: 0.2, Height: 0.2,
		Color: "emerald", Type: typ, ChannelNumber: channel,
	}
}

func TestRenderAddThenExport(t *testing.T) {
	s := layout.NewStore()
	s.Add()

	got := Render(s.Items(), "MyPlot")
	want := `MyPlot.plot.data.Add(new RadialGauge().AutoGen(MyPlot.plot.layout, new Domain(0.25f, 0.45f, 0.25f, 0.45f), _dataPacket, ""));`
	if got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderPerType(t *testing.T) {
	const domain = "new Domain(0.25f, 0.45f, 0.25f, 0.45f)"

	tests := []struct {
		name string
		item layout.Item
		want string
	}{
		{
			name: "gauge empty channel",
			item: defaultItem(layout.ChartGauge, ""),
			want: `V.plot.data.Add(new RadialGauge().AutoGen(V.plot.layout, ` + domain + `, _dataPacket, ""));`,
		},
		{
			name: "bar numeric channel",
			item: defaultItem(layout.ChartBar, "7"),
			want: `V.plot.data.Add(new BarTrace().AutoGen(V.plot.layout, ` + domain + `, _dataPacket, 7));`,
		},
		{
			name: "pie padded numeric channel",
			item: defaultItem(layout.ChartPie, " 2.50 "),
			want: `V.plot.data.Add(new PieTrace().AutoGen(V.plot.layout, ` + domain + `, _dataPacket, 2.5));`,
		},
		{
			name: "gauge string channel",
			item: defaultItem(layout.ChartGauge, `temp "a"`),
			want: `V.plot.data.Add(new RadialGauge().AutoGen(V.plot.layout, ` + domain + `, _dataPacket, "temp \"a\""));`,
		},
		{
			name: "scatter raw channel",
			item: defaultItem(layout.ChartScatter, "1, 2, 3"),
			want: `V.plot.data.Add(new ScatterTrace().MultiTimeAutoGen(V.plot.layout, ` + domain + `, _dataPacket, [1, 2, 3]));`,
		},
		{
			name: "scatter empty channel",
			item: defaultItem(layout.ChartScatter, ""),
			want: `V.plot.data.Add(new ScatterTrace().MultiTimeAutoGen(V.plot.layout, ` + domain + `, _dataPacket, []));`,
		},
		{
			name: "unknown type",
			item: defaultItem("heatmap", "3"),
			want: `V.plot.data.Add(new UnknownTrace().AutoGen(V.plot.layout, ` + domain + `, _dataPacket, 3));`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render([]layout.Item{tt.item}, "V"); got != tt.want {
				t.Errorf("Render =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"7", true},
		{" 7 ", true},
		{"-3.5", true},
		{"1e3", true},
		{"abc", false},
		{"7a", false},
		{"Inf", false},
		{"-Infinity", false},
		{"NaN", false},
		{"1e999", false},
		{"1_0", false},
		{"0x1p4", false},
		{"-0X10", false},
		{"0.5", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsNumeric(tt.in); got != tt.want {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChannelLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"7", "7"},
		{"007", "7"},
		{"1e3", "1000"},
		{"-0", "0"},
		{"", `""`},
		{"ch1", `"ch1"`},
		{"a\\b", `"a\\b"`},
		{"1_0", `"1_0"`},
		{"0x1p4", `"0x1p4"`},
	}
	for _, tt := range tests {
		if got := ChannelLiteral(tt.in); got != tt.want {
			t.Errorf("ChannelLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRenderMultipleLines(t *testing.T) {
	items := []layout.Item{
		defaultItem(layout.ChartGauge, ""),
		{ID: "b", X: -0.1, Y: 0.9, Width: 0.3, Height: 0.1, Type: layout.ChartBar, ChannelNumber: "2"},
	}
	out := Render(items, "P")
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "new Domain(-0.10f, 0.20f, 0.90f, 1.00f)") {
		t.Errorf("second line = %s", lines[1])
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil, "V"); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	items := []layout.Item{
		defaultItem(layout.ChartScatter, "x"),
		defaultItem(layout.ChartPie, "4"),
	}
	if Render(items, "V") != Render(items, "V") {
		t.Error("Render is not deterministic")
	}
}

func TestWithDataRef(t *testing.T) {
	got := Render([]layout.Item{defaultItem(layout.ChartGauge, "1")}, "V", WithDataRef("packet"))
	if !strings.Contains(got, ", packet, 1));") {
		t.Errorf("data ref not applied: %s", got)
	}
	got = Render([]layout.Item{defaultItem(layout.ChartGauge, "1")}, "V", WithDataRef(""))
	if !strings.Contains(got, ", _dataPacket, 1));") {
		t.Errorf("empty data ref should keep default: %s", got)
	}
}

func TestRenderJSON(t *testing.T) {
	items := []layout.Item{
		defaultItem(layout.ChartGauge, ""),
		{ID: "b<&>", X: 0, Y: 0.8, Width: 1, Height: 0.2, Color: "amber"},
	}
	data, err := RenderJSON(items)
	if err != nil {
		t.Fatal(err)
	}

	want := `[
  {
    "id": "a",
    "color": "emerald",
    "bounds": "(0.25f, 0.45f, 0.25f, 0.45f)"
  },
  {
    "id": "b<&>",
    "color": "amber",
    "bounds": "(0.00f, 1.00f, 0.80f, 1.00f)"
  }
]`
	if string(data) != want {
		t.Errorf("RenderJSON =\n%s\nwant\n%s", data, want)
	}

	var decoded []map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("RenderJSON(nil) = %s, want []", data)
	}
}
