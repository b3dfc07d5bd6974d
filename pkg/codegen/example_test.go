package codegen_test

import (
	"fmt"

	"github.com/matzehuels/plotgrid/pkg/codegen"
	"github.com/matzehuels/plotgrid/pkg/layout"
)

func ExampleRender() {
	items := []layout.Item{
		{ID: "a", X: 0.25, Y: 0.25, Width: 0.2, Height: 0.2, Type: layout.ChartGauge},
		{ID: "b", X: 0, Y: 0.5, Width: 0.5, Height: 0.5, Type: layout.ChartBar, ChannelNumber: "7"},
		{ID: "c", X: 0.5, Y: 0, Width: 0.5, Height: 0.5, Type: layout.ChartScatter, ChannelNumber: "1, 2"},
	}
	fmt.Println(codegen.Render(items, "MyPlot"))
	// Output:
	// MyPlot.plot.data.Add(new RadialGauge().AutoGen(MyPlot.plot.layout, new Domain(0.25f, 0.45f, 0.25f, 0.45f), _dataPacket, ""));
	// MyPlot.plot.data.Add(new BarTrace().AutoGen(MyPlot.plot.layout, new Domain(0.00f, 0.50f, 0.50f, 1.00f), _dataPacket, 7));
	// MyPlot.plot.data.Add(new ScatterTrace().MultiTimeAutoGen(MyPlot.plot.layout, new Domain(0.50f, 1.00f, 0.00f, 0.50f), _dataPacket, [1, 2]));
}
