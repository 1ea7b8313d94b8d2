package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folioview/internal/config"
	"github.com/matzehuels/folioview/pkg/bookmark"
	"github.com/matzehuels/folioview/pkg/buildinfo"
	"github.com/matzehuels/folioview/pkg/cache"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "folioview"

	// suggestDistance is how many edits a filename may be away from an
	// unresolved "i" value and still be offered as a hint.
	suggestDistance = 4
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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)
	root := &cobra.Command{
		Use:   appName,
		Short: "Folioview resolves deep links into paged document viewers",
		Long: `Folioview computes the view state of a paged document viewer: it reads
the URL fragment (#z=2&p=14&v=g), lays out the pages of a manifest, and
reports where the viewport scrolls to. It can also browse a manifest in the
terminal, serve the same resolution over HTTP, and keep bookmarks.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogFormat(c.Logger, logFormat); err != nil {
				return err
			}
			if verbose {
				c.SetLogLevel(LogDebug)
				installDebugHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json or logfmt")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.bookmarkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Viewer Flags
// =============================================================================

// viewerFlags are the per-invocation overrides shared by resolve, layout and view.
type viewerFlags struct {
	suffix    string
	filenames bool
	panel     string
	noCache   bool
	refresh   bool
}

func (f *viewerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "hash parameter suffix (default from config)")
	cmd.Flags().BoolVar(&f.filenames, "filenames", false, "link pages by filename (i) instead of number (p)")
	cmd.Flags().StringVar(&f.panel, "panel", "", "viewport size in pixels, WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the manifest cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch remote manifests even when cached")
}

// viewerConfig merges config file values with flags that were set.
func (c *CLI) viewerConfig(cmd *cobra.Command, f viewerFlags) (viewer.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return viewer.Config{}, err
	}
	vc := cfg.Viewer
	if cmd.Flags().Changed("suffix") {
		vc.HashParamSuffix = f.suffix
	}
	if cmd.Flags().Changed("filenames") {
		vc.EnableFilenameParam = f.filenames
	}
	if f.panel != "" {
		w, h, err := parseSize(f.panel)
		if err != nil {
			return viewer.Config{}, err
		}
		vc.PanelWidth, vc.PanelHeight = w, h
		vc.DisplayWidth, vc.DisplayHeight = 0, 0
	}
	return vc.Build(c.Logger)
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT, e.g. 1024x768)", s)
	}
	return w, h, nil
}

// =============================================================================
// Backend Factories
// =============================================================================

// newCache builds the configured manifest cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newFetcher returns a manifest fetcher backed by the configured cache. The
// caller closes the fetcher's cache.
func (c *CLI) newFetcher(ctx context.Context, f viewerFlags) (*manifest.Fetcher, error) {
	ch, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	fetcher := manifest.NewFetcher(ch, loggerFromContext(ctx))
	fetcher.Refresh = f.refresh
	if cfg, err := c.config(); err == nil && cfg.Cache.KeyPrefix != "" {
		fetcher.Keyer = cache.NewScopedKeyer(fetcher.Keyer, cfg.Cache.KeyPrefix)
	}
	return fetcher, nil
}

// loadManifest fetches source and logs how long it took.
func (c *CLI) loadManifest(ctx context.Context, source string, f viewerFlags) (*manifest.Document, error) {
	fetcher, err := c.newFetcher(ctx, f)
	if err != nil {
		return nil, err
	}
	defer fetcher.Cache.Close()

	prog := newProgress(loggerFromContext(ctx))
	doc, err := fetcher.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", source, err)
	}
	prog.done("Loaded manifest", "pages", doc.PageCount(), "source", source)
	return doc, nil
}

// newBookmarkStore opens the configured bookmark backend.
func (c *CLI) newBookmarkStore(ctx context.Context) (bookmark.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Bookmarks.Backend == config.BackendMongo {
		return bookmark.NewMongoStore(ctx, bookmark.MongoConfig{
			URI:        cfg.Bookmarks.MongoURI,
			Database:   cfg.Bookmarks.MongoDatabase,
			Collection: cfg.Bookmarks.MongoCollection,
		})
	}
	dir := cfg.Bookmarks.Dir
	if dir == "" {
		data, err := dataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(data, "bookmarks")
	}
	return bookmark.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir is $XDG_CACHE_HOME/folioview, defaulting to ~/.cache/folioview.
func cacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

// dataDir is $XDG_DATA_HOME/folioview, defaulting to
// ~/.local/share/folioview.
func dataDir() (string, error) { return xdgDir("XDG_DATA_HOME", ".local", "share") }

// xdgDir resolves the app directory under the base named by env, or under
// fallback inside the home directory when env is unset.
func xdgDir(env string, fallback ...string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}
