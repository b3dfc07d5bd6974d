package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editCommand creates the "edit" command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the layout in the terminal",
		Long: `Open the interactive layout editor. The grid has one cell per snapping step;
every change is saved as it is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			ec := c.cfg.Editor
			model := NewEditorModel(ctx, s.ed, c.colors(), ec.Step, ec.GridUnit, ec.StatusDuration.Duration)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("editor: %w", err)
			}

			printSuccess("Saved %d item(s)", len(s.ed.Items()))
			return nil
		},
	}
}
