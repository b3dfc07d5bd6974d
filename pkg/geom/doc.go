// Package geom converts between widget pixel geometry and the normalized
// domain space that plotgrid layouts are stored in.
//
// # Coordinate Spaces
//
// Pixel space is what a drag/resize widget reports: origin at the top-left
// corner of the container, Y growing downwards, units in pixels.
//
// Domain space is what gets persisted and exported: origin at the bottom-left
// corner, Y growing upwards, the container spanning 0..1 on both axes.
//
//	pixel (0,0) ─────────────┐        domain (0,1) ────────────┐
//	│                        │        │                        │
//	│                        │   →    │                        │
//	│                        │        │                        │
//	└────────────────────────┘        (0,0) ───────────────────┘
//
// # Quantization
//
// Every stored value is a multiple of [Step]. [Quantize] is idempotent, so
// values can be pushed through the drag, resize, form-edit and load paths
// any number of times without drifting.
//
// # Safe Area
//
// Container dimensions are floored to a multiple of [GridUnit] by
// [SnapContainer]. With both the container and pixel positions on the grid,
// pixel/container divisions land on exact step multiples:
//
//	c := geom.SnapContainer(geom.Size{W: 815, H: 613}, geom.GridUnit) // 800x600
//	r := geom.ToDomain(geom.Point{X: 160, Y: 120}, geom.Size{W: 160, H: 120}, c, geom.Step)
//	// r = {X: 0.2, Y: 0.6, Width: 0.2, Height: 0.2}
package geom
