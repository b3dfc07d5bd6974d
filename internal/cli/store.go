package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/kv"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and reset the saved layout",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the layout is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.cfg.Store
			out := cmd.OutOrStdout()
			switch strings.ToLower(st.Backend) {
			case kv.BackendFile, "":
				fs, err := kv.NewFileStore(st.Dir)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStorage, err, "open file store")
				}
				fmt.Fprintln(out, fs.Path(st.Key))
			case kv.BackendSQLite:
				fmt.Fprintf(out, "%s (key %s)\n", st.SQLitePath, st.Key)
			case kv.BackendRedis:
				fmt.Fprintf(out, "%s (key %s%s)\n", redactURL(st.RedisURL), st.RedisPrefix, st.Key)
			case kv.BackendMongo:
				fmt.Fprintf(out, "%s %s.%s (_id %s)\n", redactURL(st.MongoURI), st.MongoDatabase, st.MongoCollection, st.Key)
			default:
				fmt.Fprintf(out, "%s (not persisted)\n", st.Backend)
			}
			return nil
		},
	}
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the raw saved record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			data, ok, err := store.Get(ctx, c.cfg.Store.Key)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "read %s", c.cfg.Store.Key)
			}
			if !ok {
				printInfo("Nothing saved under %s", c.cfg.Store.Key)
				return nil
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, data, "", "  "); err != nil {
				// Not JSON; the loader will ignore it, but show it as stored.
				printWarning("Saved record is not valid JSON")
				pretty.Reset()
				pretty.Write(data)
			}
			pretty.WriteByte('\n')
			_, err = cmd.OutOrStdout().Write(pretty.Bytes())
			return err
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			n := len(s.ed.Items())
			if err := s.adapter.Clear(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "clear %s", s.adapter.Key())
			}
			printSuccess("Cleared saved layout (%d items)", n)
			printDetail("Backend: %s, key: %s", c.cfg.Store.Backend, s.adapter.Key())
			return nil
		},
	}
}

// redactURL hides the password of a connection URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
