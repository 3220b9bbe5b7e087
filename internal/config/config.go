package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Paths are the files or directories to analyze (and watch).
	Paths []string `toml:"paths"`

	Globals       Globals       `toml:"globals"`
	Derived       Derived       `toml:"derived"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

// Globals is the whitelist of ambient names the analyzed scripts may use
// without defining them. Patterns cover whole API families ("Game.*").
type Globals struct {
	Names    []string `toml:"names"`
	Patterns []string `toml:"patterns"`
}

// Derived configures the builder-pattern expansion: each table entry maps a
// constructor name to the member suffixes available on its return value.
type Derived struct {
	Separator    string              `toml:"separator"`
	Clone        string              `toml:"clone"`
	Constructors map[string][]string `toml:"constructors"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RatePerSecond bounds how many re-analyses watch mode may trigger.
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

type Output struct {
	Text  string `toml:"text"`
	TSV   string `toml:"tsv"`
	SARIF string `toml:"sarif"`
}

type History struct {
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Paths: []string{"."},
		Watch: Watch{
			Debounce:      500 * time.Millisecond,
			RatePerSecond: 10,
			Burst:         20,
		},
		Derived: Derived{
			Separator: ":",
			Clone:     "Clone",
		},
	}
}

// Load reads a TOML config file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RatePerSecond == 0 {
		cfg.Watch.RatePerSecond = 10
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 20
	}
	if cfg.Derived.Separator == "" {
		cfg.Derived.Separator = ":"
	}
	if cfg.Derived.Clone == "" {
		cfg.Derived.Clone = "Clone"
	}

	return &cfg, nil
}
