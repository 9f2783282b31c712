package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/brensch/othello/game"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("got %+v, want %+v", *cfg, Default())
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "othello.yaml")
	body := "search_depth: 5\nsequence_depth: 2\nlog_format: console\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OTHELLO_SEQUENCE_DEPTH", "6")
	t.Setenv("OTHELLO_WORKERS", "3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--workers=2", "--pruning=false"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SearchDepth != 5 {
		t.Errorf("search depth = %d, want 5 from file", cfg.SearchDepth)
	}
	if cfg.SequenceDepth != 6 {
		t.Errorf("sequence depth = %d, want 6 from env", cfg.SequenceDepth)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d, want 2 from flag", cfg.Workers)
	}
	if cfg.Pruning {
		t.Errorf("pruning should be disabled by flag")
	}
	if cfg.LogFormat != "console" {
		t.Errorf("log format = %q, want console", cfg.LogFormat)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want default", cfg.LogLevel)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative search depth", func(c *Config) { c.SearchDepth = -1 }, "search depth"},
		{"negative sequence depth", func(c *Config) { c.SequenceDepth = -2 }, "sequence depth"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"negative games", func(c *Config) { c.Games = -1 }, "games"},
		{"bad side", func(c *Config) { c.Side = "red" }, "side"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestSideColor(t *testing.T) {
	for side, want := range map[string]game.Color{"": game.Black, "Black": game.Black, "w": game.White, "WHITE": game.White} {
		c := Default()
		c.Side = side
		got, err := c.SideColor()
		if err != nil || got != want {
			t.Errorf("SideColor(%q) = %v, %v; want %v", side, got, err, want)
		}
	}
}

func TestSearch(t *testing.T) {
	c := Default()
	c.SearchDepth, c.Workers, c.Pruning = 4, 2, false
	s := c.Search()
	if s.Depth != 4 || s.Workers != 2 || s.Pruning {
		t.Fatalf("Search() = %+v", s)
	}
}
