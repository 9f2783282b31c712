// Package config loads command settings from defaults, an optional config
// file, OTHELLO_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/executor/sequences"
	"github.com/brensch/othello/game"
)

const EnvPrefix = "OTHELLO"

type Config struct {
	SearchDepth   int    `mapstructure:"SEARCH_DEPTH"`
	SequenceDepth int    `mapstructure:"SEQUENCE_DEPTH"`
	Pruning       bool   `mapstructure:"PRUNING"`
	Workers       int    `mapstructure:"WORKERS"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFormat     string `mapstructure:"LOG_FORMAT"`
	LogFile       string `mapstructure:"LOG_FILE"`
	OutDir        string `mapstructure:"OUT_DIR"`
	Games         int    `mapstructure:"GAMES"`
	Position      string `mapstructure:"POSITION"`
	Side          string `mapstructure:"SIDE"`
}

// flagKeys maps flag names onto config keys.
var flagKeys = map[string]string{
	"search-depth":   "search_depth",
	"sequence-depth": "sequence_depth",
	"pruning":        "pruning",
	"workers":        "workers",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-file":       "log_file",
	"out-dir":        "out_dir",
	"games":          "games",
	"position":       "position",
	"side":           "side",
}

func Default() Config {
	return Config{
		SearchDepth:   search.DefaultDepth,
		SequenceDepth: sequences.DefaultDepth,
		Pruning:       true,
		Workers:       1,
		LogLevel:      "info",
		LogFormat:     "json",
		OutDir:        "data/reports",
		Side:          "black",
	}
}

// RegisterFlags adds every setting to fs. Only flags that are set on the
// command line override the other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Int("search-depth", d.SearchDepth, "Plies searched by the AI")
	fs.Int("sequence-depth", d.SequenceDepth, "Plies enumerated by the sequence report")
	fs.Bool("pruning", d.Pruning, "Use alpha-beta pruning for AI moves")
	fs.Int("workers", d.Workers, "Parallel workers for root fan-out and self-play")
	fs.String("log-level", d.LogLevel, "debug, info, warn or error")
	fs.String("log-format", d.LogFormat, "json or console")
	fs.String("log-file", d.LogFile, "Write logs to this file instead of stderr")
	fs.String("out-dir", d.OutDir, "Directory for parquet reports (empty disables export)")
	fs.Int("games", d.Games, "Self-play games to run (0 runs until interrupted)")
	fs.String("position", d.Position, "Board diagram: a file path, or rows separated by '/'")
	fs.String("side", d.Side, "Side to move in --position: black or white")
}

// Load resolves the configuration. path may be empty, in which case no file
// is read. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("search_depth", d.SearchDepth)
	v.SetDefault("sequence_depth", d.SequenceDepth)
	v.SetDefault("pruning", d.Pruning)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("games", d.Games)
	v.SetDefault("position", d.Position)
	v.SetDefault("side", d.Side)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.SearchDepth < 0 {
		errs = append(errs, fmt.Errorf("search depth must be >= 0, got %d", c.SearchDepth))
	}
	if c.SequenceDepth < 0 {
		errs = append(errs, fmt.Errorf("sequence depth must be >= 0, got %d", c.SequenceDepth))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Games < 0 {
		errs = append(errs, fmt.Errorf("games must be >= 0, got %d", c.Games))
	}
	if _, err := c.SideColor(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) SideColor() (game.Color, error) {
	switch strings.ToLower(c.Side) {
	case "", "b", "black":
		return game.Black, nil
	case "w", "white":
		return game.White, nil
	}
	return game.Empty, fmt.Errorf("unknown side %q", c.Side)
}

// Search returns the engine settings for AI moves.
func (c Config) Search() search.Config {
	return search.Config{Depth: c.SearchDepth, Pruning: c.Pruning, Workers: c.Workers}
}
