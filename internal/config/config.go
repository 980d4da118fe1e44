// Package config reads favdash settings from the config file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Source kinds.
const (
	SourceLibrary  = "library"
	SourceChromium = "chromium"
)

// Keys, shared with flag bindings.
const (
	KeySource         = "source"
	KeyLibraryPath    = "library_path"
	KeyChromiumPath   = "chromium_path"
	KeyFreshness      = "freshness"
	KeySearchDebounce = "search_debounce"
	KeyExpandDepth    = "expand_depth"
	KeyAllLabel       = "all_label"
	KeyLogLevel       = "log_level"
	KeyServeAddr      = "serve.addr"
	KeyServeOrigins   = "serve.origins"
	KeyCheckWorkers   = "check.concurrency"
	KeyCheckTimeout   = "check.timeout"
	KeyCheckExclude   = "check.exclude_domains"
)

// EnvPrefix prefixes environment overrides, e.g. FAVDASH_SERVE_ADDR.
const EnvPrefix = "FAVDASH"

// Config holds application configuration.
type Config struct {
	Source         string
	LibraryPath    string
	ChromiumPath   string
	Freshness      time.Duration
	SearchDebounce time.Duration
	ExpandDepth    int // 0 starts every folder collapsed
	AllLabel       string
	LogLevel       string
	Serve          ServeConfig
	Check          CheckConfig
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr    string
	Origins []string
}

// CheckConfig configures the dead link check.
type CheckConfig struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string
}

// Dir returns the config directory: ~/.config/favdash
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "favdash"), nil
}

// DefaultChromiumPath returns the Bookmarks file of the default Chrome profile.
func DefaultChromiumPath() string {
	switch runtime.GOOS {
	case "darwin":
		return "~/Library/Application Support/Google/Chrome/Default/Bookmarks"
	case "windows":
		return "~/AppData/Local/Google/Chrome/User Data/Default/Bookmarks"
	default:
		return "~/.config/google-chrome/Default/Bookmarks"
	}
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeySource, SourceLibrary)
	v.SetDefault(KeyLibraryPath, "~/.config/favdash/bookmarks.json")
	v.SetDefault(KeyChromiumPath, DefaultChromiumPath())
	v.SetDefault(KeyFreshness, "5m")
	v.SetDefault(KeySearchDebounce, "180ms")
	v.SetDefault(KeyExpandDepth, 2)
	v.SetDefault(KeyAllLabel, "All")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyServeAddr, "127.0.0.1:7878")
	v.SetDefault(KeyServeOrigins, []string{"chrome-extension://*", "http://localhost:*"})
	v.SetDefault(KeyCheckWorkers, 10)
	v.SetDefault(KeyCheckTimeout, "10s")
	v.SetDefault(KeyCheckExclude, []string{"github.com", "gitlab.com"})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Read loads configFile into v. With an empty configFile the default
// ~/.config/favdash/config.yaml is used if it exists; a missing default file
// is not an error, a missing explicit one is.
func Read(v *viper.Viper, configFile string) error {
	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Source:         strings.ToLower(strings.TrimSpace(v.GetString(KeySource))),
		LibraryPath:    v.GetString(KeyLibraryPath),
		ChromiumPath:   v.GetString(KeyChromiumPath),
		Freshness:      v.GetDuration(KeyFreshness),
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		ExpandDepth:    v.GetInt(KeyExpandDepth),
		AllLabel:       v.GetString(KeyAllLabel),
		LogLevel:       v.GetString(KeyLogLevel),
		Serve: ServeConfig{
			Addr:    v.GetString(KeyServeAddr),
			Origins: v.GetStringSlice(KeyServeOrigins),
		},
		Check: CheckConfig{
			Concurrency:    v.GetInt(KeyCheckWorkers),
			Timeout:        v.GetDuration(KeyCheckTimeout),
			ExcludeDomains: v.GetStringSlice(KeyCheckExclude),
		},
	}

	var err error
	if cfg.LibraryPath, err = homedir.Expand(cfg.LibraryPath); err != nil {
		return nil, err
	}
	if cfg.ChromiumPath, err = homedir.Expand(cfg.ChromiumPath); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configFile (see Read) and returns the resulting Config.
func Load(configFile string) (*Config, error) {
	v := New()
	if err := Read(v, configFile); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceLibrary:
		if c.LibraryPath == "" {
			return fmt.Errorf("%s must not be empty", KeyLibraryPath)
		}
	case SourceChromium:
		if c.ChromiumPath == "" {
			return fmt.Errorf("%s must not be empty", KeyChromiumPath)
		}
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", c.Source, SourceLibrary, SourceChromium)
	}

	if c.Freshness <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyFreshness, c.Freshness)
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeySearchDebounce, c.SearchDebounce)
	}
	if c.ExpandDepth < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyExpandDepth, c.ExpandDepth)
	}
	if c.Check.Concurrency <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyCheckWorkers, c.Check.Concurrency)
	}
	if c.Check.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyCheckTimeout, c.Check.Timeout)
	}
	return nil
}
