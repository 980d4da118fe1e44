package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/config"
	"github.com/nikbrunner/favdash/internal/logging"
	"github.com/nikbrunner/favdash/internal/projection"
	"github.com/nikbrunner/favdash/internal/source"
	"github.com/nikbrunner/favdash/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "favdash",
	Short: "A bookmark dashboard for your terminal.",
	Long: `favdash shows your bookmarks as a folder tree next to the links of the
selected folder, with instant search across everything.

Bookmarks come from favdash's own library (JSON or SQLite) or straight from
a Chromium-based browser profile, which is then read-only.`,
	Version:      version,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/favdash/config.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("source", "s", "", "Bookmark source. Available: library, chromium")
}

// loadConfig reads the config file and environment, with the global flags
// taking precedence, and applies the log level.
func loadConfig() (*config.Config, error) {
	v := config.New()
	if err := v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("loglevel")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag(config.KeySource, rootCmd.PersistentFlags().Lookup("source")); err != nil {
		return nil, err
	}
	if err := config.Read(v, cfgFile); err != nil {
		return nil, err
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// env is everything a command needs to reach the bookmarks.
type env struct {
	cfg     *config.Config
	storage storage.Storage // nil for read-only sources
	library *source.Library // nil for read-only sources
	src     source.Source
	cache   *cache.Client
}

// openEnv loads the config and opens the configured source behind a cache.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	switch cfg.Source {
	case config.SourceChromium:
		e.src = source.NewChromium(cfg.ChromiumPath, logging.Log)
	default:
		st, err := storage.Open(cfg.LibraryPath)
		if err != nil {
			return nil, fmt.Errorf("opening library: %w", err)
		}
		e.storage = st
		e.library = source.NewLibrary(st, logging.Log)
		e.src = e.library
	}

	e.cache = cache.New(e.src, cache.Options{
		Freshness: cfg.Freshness,
		Tree: projection.TreeOptions{
			AllTitle:    cfg.AllLabel,
			ExpandDepth: cfg.ExpandDepth,
			CollapseAll: cfg.ExpandDepth == 0,
		},
		Logger: logging.Log,
	})

	logging.Log.WithField("source", cfg.Source).Debug("environment ready")
	return e, nil
}

// requireLibrary fails for commands that edit favdash's own library.
func (e *env) requireLibrary() error {
	if e.library == nil {
		return fmt.Errorf("%s source: %w", e.cfg.Source, source.ErrReadOnly)
	}
	return nil
}

// Close stops background work and closes the storage.
func (e *env) Close() {
	e.cache.Stop()
	if e.storage != nil {
		if err := e.storage.Close(); err != nil {
			logging.Log.WithError(err).Warn("closing storage")
		}
	}
}

// withEnv runs fn with an opened env that is closed afterwards.
func withEnv(fn func(ctx context.Context, e *env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signalContext()
	defer stop()

	return fn(ctx, e)
}

// describe turns known failures into short messages for the terminal.
func describe(err error) error {
	switch {
	case errors.Is(err, source.ErrReadOnly):
		return fmt.Errorf("%w (switch to the library source to edit bookmarks)", err)
	case errors.Is(err, source.ErrNotFound):
		return fmt.Errorf("%w (run `favdash tree --ids` to list ids)", err)
	default:
		return err
	}
}
