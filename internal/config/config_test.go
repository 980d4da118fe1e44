package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(New())
	if err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	if cfg.Source != SourceLibrary {
		t.Errorf("expected library source, got %q", cfg.Source)
	}
	if cfg.Freshness != 5*time.Minute {
		t.Errorf("expected 5m freshness, got %s", cfg.Freshness)
	}
	if cfg.SearchDebounce != 180*time.Millisecond {
		t.Errorf("expected 180ms debounce, got %s", cfg.SearchDebounce)
	}
	if cfg.ExpandDepth != 2 || cfg.AllLabel != "All" {
		t.Errorf("unexpected tree defaults: depth=%d label=%q", cfg.ExpandDepth, cfg.AllLabel)
	}
	if cfg.Serve.Addr != "127.0.0.1:7878" {
		t.Errorf("unexpected serve addr %q", cfg.Serve.Addr)
	}
	if cfg.Check.Concurrency != 10 || cfg.Check.Timeout != 10*time.Second {
		t.Errorf("unexpected check defaults: %+v", cfg.Check)
	}
	if len(cfg.Check.ExcludeDomains) != 2 {
		t.Errorf("expected 2 excluded domains, got %v", cfg.Check.ExcludeDomains)
	}
	if filepath.Base(cfg.LibraryPath) != "bookmarks.json" || cfg.LibraryPath[0] == '~' {
		t.Errorf("expected expanded library path, got %q", cfg.LibraryPath)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
source: chromium
chromium_path: /tmp/Bookmarks
freshness: 30s
serve:
  addr: 0.0.0.0:9000
check:
  exclude_domains:
    - example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Source != SourceChromium || cfg.ChromiumPath != "/tmp/Bookmarks" {
		t.Errorf("unexpected source settings: %q %q", cfg.Source, cfg.ChromiumPath)
	}
	if cfg.Freshness != 30*time.Second {
		t.Errorf("expected 30s freshness, got %s", cfg.Freshness)
	}
	if cfg.Serve.Addr != "0.0.0.0:9000" {
		t.Errorf("expected nested key to be read, got %q", cfg.Serve.Addr)
	}
	if len(cfg.Check.ExcludeDomains) != 1 || cfg.Check.ExcludeDomains[0] != "example.com" {
		t.Errorf("unexpected excluded domains: %v", cfg.Check.ExcludeDomains)
	}
	if cfg.SearchDebounce != 180*time.Millisecond {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FAVDASH_SERVE_ADDR", "127.0.0.1:1")
	t.Setenv("FAVDASH_EXPAND_DEPTH", "4")

	cfg, err := FromViper(New())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Serve.Addr != "127.0.0.1:1" {
		t.Errorf("expected env override for serve.addr, got %q", cfg.Serve.Addr)
	}
	if cfg.ExpandDepth != 4 {
		t.Errorf("expected env override for expand_depth, got %d", cfg.ExpandDepth)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "source: firefox\n"},
		{"zero freshness", "freshness: 0s\n"},
		{"negative debounce", "search_debounce: -1s\n"},
		{"negative depth", "expand_depth: -1\n"},
		{"no workers", "check:\n  concurrency: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("expected validation error for %q", tt.body)
			}
		})
	}
}
