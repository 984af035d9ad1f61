package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"turtlebot/pkg/transposition"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.BaseDepth != 3 || cfg.EndgameDepth != 5 || cfg.EndgamePieces != 12 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Cache.Policy != transposition.Unbounded {
		t.Fatalf("default cache policy %q", cfg.Cache.Policy)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero base depth", func(c *Config) { c.BaseDepth = 0 }, false},
		{"negative endgame depth", func(c *Config) { c.EndgameDepth = -1 }, false},
		{"threshold above board", func(c *Config) { c.EndgamePieces = 65 }, false},
		{"no endgame", func(c *Config) { c.EndgamePieces = 0 }, true},
		{"empty policy", func(c *Config) { c.Cache.Policy = "" }, true},
		{"lru without capacity", func(c *Config) { c.Cache.Policy = transposition.LRU }, false},
		{"reset with capacity", func(c *Config) {
			c.Cache = transposition.Options{Policy: transposition.Reset, Capacity: 1 << 16}
		}, true},
		{"unknown policy", func(c *Config) { c.Cache.Policy = "fifo" }, false},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(&cfg)
		err := cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: %v", c.name, err)
		}
		if !c.ok && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error %v, want ErrInvalidConfig", c.name, err)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "turtlebot.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{"base_depth": 4, "cache": {"policy": "lru", "capacity": 100000}}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.BaseDepth = 4
	want.Cache = transposition.Options{Policy: transposition.LRU, Capacity: 100000}
	if cfg != want {
		t.Fatalf("loaded %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := LoadConfig(writeConfig(t, `{"base_depth": `)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("truncated JSON: %v", err)
	}
	if _, err := LoadConfig(writeConfig(t, `{"endgame_depth": 0}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero endgame depth: %v", err)
	}
}
