package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/buildinfo"
	"github.com/matzehuels/plotgrid/pkg/codegen"
	"github.com/matzehuels/plotgrid/pkg/config"
	"github.com/matzehuels/plotgrid/pkg/editor"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/kv"
	"github.com/matzehuels/plotgrid/pkg/palette"
	"github.com/matzehuels/plotgrid/pkg/persist"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = config.AppName

	// defaultSize is the container assumed by pixel-based commands.
	defaultSize = "800x600"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg   config.Config
	flags globalFlags

	// clipboard overrides the system clipboard; tests set it.
	clipboard editor.Clipboard
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	backend    string
	storeDir   string
	key        string
	ephemeral  bool
	size       string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "plotgrid lays out chart panels on a snapped grid",
		Long: `plotgrid places, moves and resizes chart panels on a grid over a normalized
0..1 coordinate space and exports the layout as chart API calls.

Every command loads the saved layout, applies one change and saves it again.`,
		Version:           buildinfo.Current(),
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/plotgrid/config.toml)")
	pf.StringVar(&c.flags.backend, "store", "", "store backend: "+strings.Join(kv.Backends, ", "))
	pf.StringVar(&c.flags.storeDir, "store-dir", "", "directory of the file store")
	pf.StringVar(&c.flags.key, "key", "", "key the layout is stored under")
	pf.BoolVar(&c.flags.ephemeral, "ephemeral", false, "keep the layout in memory only")
	pf.StringVar(&c.flags.size, "size", defaultSize, "container size in pixels (WxH) for pixel coordinates")

	// Register all subcommands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.keyCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies flag overrides and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}

	if c.flags.backend != "" {
		cfg.Store.Backend = c.flags.backend
	}
	if c.flags.storeDir != "" {
		cfg.Store.Dir = c.flags.storeDir
	}
	if c.flags.key != "" {
		cfg.Store.Key = c.flags.key
	}
	if c.flags.ephemeral {
		cfg.Store.Backend = kv.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	// The config may lower the level; --verbose has already been applied.
	if lvl, err := cfg.Log.ParseLevel(); err == nil && lvl < c.Logger.GetLevel() {
		c.Logger.SetLevel(lvl)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Editor Factory
// =============================================================================

// session is an opened editor with its backing store.
type session struct {
	ed      *editor.Editor
	adapter *persist.Adapter
	store   kv.Store
	logger  *log.Logger
}

// Close releases the store.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close store", "err", err)
	}
}

// openSession opens the configured store and loads the saved layout.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	logger := loggerFromContext(ctx)

	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	ec := c.cfg.Editor
	colors := palette.NewAssigner(ec.Palette)
	adapter := persist.NewAdapter(store,
		persist.WithKey(c.cfg.Store.Key),
		persist.WithStep(ec.Step),
		persist.WithLogger(logger),
		persist.WithPalette(colors),
	)

	opts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithStep(ec.Step),
		editor.WithGridUnit(ec.GridUnit),
		editor.WithStatusDuration(ec.StatusDuration.Duration),
		editor.WithRenderOptions(codegen.WithDataRef(ec.DataRef)),
		editor.WithPalette(colors),
	}
	if c.clipboard != nil {
		opts = append(opts, editor.WithClipboard(c.clipboard))
	}
	ed := editor.New(adapter, opts...)

	prog := newProgress(logger)
	ed.Open(ctx)
	logger.Debugf("loaded %d items from %s store (%s)", len(ed.Items()), c.cfg.Store.Backend,
		prog.elapsed())

	return &session{ed: ed, adapter: adapter, store: store, logger: logger}, nil
}

// openStore opens the configured backend. Network backends show a spinner
// while connecting.
func (c *CLI) openStore(ctx context.Context) (kv.Store, error) {
	kc := c.cfg.Store.KV()

	if kc.Backend != kv.BackendRedis && kc.Backend != kv.BackendMongo {
		store, err := kv.Open(ctx, kc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", kc.Backend)
		}
		return store, nil
	}

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Connecting to %s...", kc.Backend))
	spinner.Start()
	store, err := kv.Open(ctx, kc)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", kc.Backend)
	}
	spinner.Stop()
	return store, nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// containerSize parses the --size flag.
func (c *CLI) containerSize() (geom.Size, error) {
	return parseSize(c.flags.size)
}

// parseSize parses "WxH" into a pixel size.
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidFormat, "invalid size %q (want WxH, e.g. %s)", s, defaultSize)
	}
	width, err := parsePixels("width", w)
	if err != nil {
		return geom.Size{}, err
	}
	height, err := parsePixels("height", h)
	if err != nil {
		return geom.Size{}, err
	}
	return geom.Size{W: width, H: height}, nil
}

// parsePixels parses a non-negative pixel value.
func parsePixels(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "invalid %s %q (want a non-negative number of pixels)", name, s)
	}
	return v, nil
}

// measure applies the --size container to ed. A container smaller than one
// grid unit is rejected since pixel events are ignored against it.
func (c *CLI) measure(ed *editor.Editor) (geom.Size, error) {
	size, err := c.containerSize()
	if err != nil {
		return geom.Size{}, err
	}
	snapped := ed.Measure(size.W, size.H)
	if snapped.Empty() {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidInput,
			"container %s is smaller than one grid unit (%gpx)", c.flags.size, c.cfg.Editor.GridUnit)
	}
	return snapped, nil
}
