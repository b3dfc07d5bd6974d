package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/codegen"
	"github.com/matzehuels/plotgrid/pkg/editor"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/palette"
)

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	var chartType, channel string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item at the default position",
		Long: `Add an item at the default position (x=0.25 y=0.25, 0.2 by 0.2).

The item gets the next palette color and the gauge type unless --type is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var t layout.ChartType
			if chartType != "" {
				var err error
				if t, err = layout.ParseChartType(chartType); err != nil {
					return err
				}
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			it := s.ed.AddItem(ctx)
			if t != "" {
				s.ed.EditField(ctx, it.ID, editor.FieldType, string(t))
			}
			if channel != "" {
				s.ed.EditField(ctx, it.ID, editor.FieldChannel, channel)
			}
			it, _ = s.ed.Get(it.ID)

			printSuccess("Added %s", StyleHighlight.Render(it.ShortID(8)))
			printItem(c.colors(), it)
			printNextStep("Move it", fmt.Sprintf("%s set %s x 0.5", appName, it.ShortID(8)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&chartType, "type", "t", "", "chart type: gauge, pie, scatter, bar")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel identifier")

	return cmd
}

// listCommand creates the "ls" command.
func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items in creation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			items := s.ed.Items()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				printInfo("No items")
				printNextStep("Create one", appName+" add")
				return nil
			}
			fmt.Fprintln(out, itemTable(c.colors(), items, ""))
			if v := s.ed.View(); v != "" {
				printKeyValue("View", v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")

	return cmd
}

// setCommand creates the "set" command.
func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set an item field",
		Long: `Set one field of an item, as the editor form does.

Fields: x, y, width (w), height (h), type, channel.

Numeric fields use the leading number of the value (0 when there is none)
and snap to the grid step. Width and height are clamped to 0..1; x and y are
capped at 1 and may go negative. Items accept any unique id
prefix.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			field, err := editor.ParseField(args[1])
			if err != nil {
				return err
			}
			value := args[2]
			if field == editor.FieldType {
				t, err := layout.ParseChartType(value)
				if err != nil {
					return err
				}
				value = string(t)
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ed.Resolve(args[0])
			if err != nil {
				return err
			}
			s.ed.EditField(ctx, id, field, value)

			it, _ := s.ed.Get(id)
			printSuccess("Updated %s", StyleHighlight.Render(it.ShortID(8)))
			printItem(c.colors(), it)
			return nil
		},
	}
}

// moveCommand creates the "move" command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <left> <top>",
		Short: "Move an item to a pixel position",
		Long: `Move an item as if it had been dragged so that its top-left corner ends at
(left, top) pixels inside the --size container. The position snaps to the
pixel grid and the item keeps its size.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			left, err := parsePixels("left", args[1])
			if err != nil {
				return err
			}
			top, err := parsePixels("top", args[2])
			if err != nil {
				return err
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := c.measure(s.ed); err != nil {
				return err
			}
			id, err := s.ed.Resolve(args[0])
			if err != nil {
				return err
			}
			s.ed.DragStop(ctx, id, geom.Point{X: left, Y: top})

			it, _ := s.ed.Get(id)
			printSuccess("Moved %s to x=%s y=%s", StyleHighlight.Render(it.ShortID(8)),
				StyleNumber.Render(formatCoord(it.X)), StyleNumber.Render(formatCoord(it.Y)))
			return nil
		},
	}
}

// resizeCommand creates the "resize" command.
func (c *CLI) resizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <left> <top> <width> <height>",
		Short: "Resize an item to a pixel rectangle",
		Long: `Resize an item as if its resize handle had been released with the given
pixel rectangle inside the --size container. All values snap to the pixel
grid.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var px [4]float64
			for i, name := range []string{"left", "top", "width", "height"} {
				v, err := parsePixels(name, args[i+1])
				if err != nil {
					return err
				}
				px[i] = v
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := c.measure(s.ed); err != nil {
				return err
			}
			id, err := s.ed.Resolve(args[0])
			if err != nil {
				return err
			}
			s.ed.ResizeStop(ctx, id, geom.Point{X: px[0], Y: px[1]}, geom.Size{W: px[2], H: px[3]})

			it, _ := s.ed.Get(id)
			printSuccess("Resized %s", StyleHighlight.Render(it.ShortID(8)))
			printKeyValue("Position", fmt.Sprintf("x=%s y=%s", formatCoord(it.X), formatCoord(it.Y)))
			printKeyValue("Size", fmt.Sprintf("w=%s h=%s", formatCoord(it.Width), formatCoord(it.Height)))
			return nil
		},
	}
}

// removeCommand creates the "rm" command.
func (c *CLI) removeCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !all && len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "give at least one item id, or --all")
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			var ids []string
			if all {
				for _, it := range s.ed.Items() {
					ids = append(ids, it.ID)
				}
			} else {
				for _, arg := range args {
					id, err := s.ed.Resolve(arg)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
			}

			removed := 0
			for _, id := range ids {
				if s.ed.Delete(ctx, id) {
					removed++
				}
			}
			printSuccess("Removed %d item(s)", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove every item")

	return cmd
}

// selectCommand creates the "select" command.
func (c *CLI) selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "select <id>",
		Aliases: []string{"show"},
		Short:   "Show an item as the editor shows a selection",
		Long: `Show an item's fields, its pixel placement in the --size container and the
line of generated code it exports as. Selection lasts for one editor session
and is not saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ed.Resolve(args[0])
			if err != nil {
				return err
			}
			s.ed.Select(id)
			it, _ := s.ed.Selected()

			printItem(c.colors(), it)
			if _, err := c.measure(s.ed); err == nil {
				for _, p := range s.ed.Layout() {
					if p.Selected {
						printKeyValue("Pixels", fmt.Sprintf("left=%.0f top=%.0f %.0fx%.0f", p.Pos.X, p.Pos.Y, p.Size.W, p.Size.H))
					}
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), codegen.Line(it, s.ed.View(), codegen.Options{DataRef: c.cfg.Editor.DataRef}))
			return nil
		},
	}
}

// viewCommand creates the "view" command.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [name]",
		Short: "Print or set the view name",
		Long: `Print or set the view name. Generated code addresses the chart API through
it, as <view>.plot.data.Add(...).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), s.ed.View())
				return nil
			}
			s.ed.SetView(ctx, args[0])
			if args[0] == "" {
				printWarning("View name cleared")
				return nil
			}
			printSuccess("View set to %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

// keyCommand creates the "key" command.
func (c *CLI) keyCommand() *cobra.Command {
	var selectID string

	cmd := &cobra.Command{
		Use:   "key <name>",
		Short: "Send a keyboard shortcut to the editor",
		Long: `Send a keyboard shortcut to the editor.

  delete            remove the selected item (use --select)
  ctrl+n, cmd+n     add an item`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if selectID != "" {
				id, err := s.ed.Resolve(selectID)
				if err != nil {
					return err
				}
				s.ed.Select(id)
			}

			before := len(s.ed.Items())
			if !s.ed.HandleKey(ctx, args[0]) {
				printInfo("Key %q not handled", args[0])
				return nil
			}
			printSuccess("Handled %s (%d → %d items)", args[0], before, len(s.ed.Items()))
			return nil
		},
	}

	cmd.Flags().StringVar(&selectID, "select", "", "item to select before the key press")

	return cmd
}

// colors returns the configured palette.
func (c *CLI) colors() *palette.Assigner {
	return palette.NewAssigner(c.cfg.Editor.Palette)
}
