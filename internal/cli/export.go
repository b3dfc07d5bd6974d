package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/errors"
)

// Export formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatPNG  = "png"
)

// exportOpts holds the "export" command flags.
type exportOpts struct {
	format   string
	output   string
	copy     bool
	selectID string
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the layout as code, JSON bounds or a PNG preview",
		Long: `Export the layout.

Formats:
  text   one chart API call per item (default)
  json   item bounds as a JSON array
  png    a preview image of the --size container

With --copy the generated code is also put on the system clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the generated code to the clipboard")
	cmd.Flags().StringVar(&opts.selectID, "select", "", "item to highlight in the png preview")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, opts exportOpts) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	switch format {
	case formatText, formatJSON, formatPNG:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want text, json or png)", opts.format)
	}

	s, err := c.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	logger := s.logger

	if opts.selectID != "" {
		id, err := s.ed.Resolve(opts.selectID)
		if err != nil {
			return err
		}
		s.ed.Select(id)
	}

	var buf bytes.Buffer
	switch format {
	case formatText:
		if code := s.ed.Output(); code != "" {
			buf.WriteString(code)
			buf.WriteByte('\n')
		}
	case formatJSON:
		data, err := s.ed.OutputJSON()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case formatPNG:
		size, err := c.measure(s.ed)
		if err != nil {
			return err
		}
		prog := newProgress(logger)
		if err := s.ed.Preview(&buf); err != nil {
			return err
		}
		logger.Debugf("rendered %.0fx%.0f preview (%s)", size.W, size.H, prog.elapsed())
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printSuccess("Exported %d item(s)", len(s.ed.Items()))
		printFile(opts.output)
	} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return err
	}

	if opts.copy {
		if err := s.ed.Copy(); err != nil {
			printError("%s", s.ed.Status())
			printDetail("%v", err)
			return nil
		}
		printSuccess("%s", s.ed.Status())
	}
	return nil
}
