package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, logFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor over HTTP for a browser drag widget",
		Long: `Serve the editor over HTTP. A browser drag widget posts container
measurements, drag-stop and resize-stop pixel geometry and key presses to
/api/v1 and renders the returned placements.

Logs go to stderr and, with --log-file or log.file, to a rotated file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			lc := c.cfg.Log
			if logFile != "" {
				lc.File = logFile
			}
			logger := c.Logger
			if f := rotatingFile(lc); f != nil {
				defer f.Close()
				logger = newLogger(io.MultiWriter(os.Stderr, f), c.Logger.GetLevel())
				ctx = withLogger(ctx, logger)
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			printSuccess("Serving %d item(s) from the %s store", len(s.ed.Items()), c.cfg.Store.Backend)
			printKeyValue("API", "http://"+addr+"/api/v1")
			if lc.File != "" {
				printKeyValue("Log file", lc.File)
			}

			err = server.New(s.ed, server.WithLogger(logger)).ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated by size")

	return cmd
}
