// Package config loads printer options from YAML, the format
// vippsas/sqlcode and maxrichie5/go-sqlfmt both use for their own
// tool configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/machparse/format"
	"github.com/freeeve/machparse/parser"
)

// PrinterConfig is the YAML-facing mirror of format.Options. Parentheses
// is a word ("current" or "compat") rather than format.ParenMode's int
// so config files stay readable.
type PrinterConfig struct {
	Indent      string `yaml:"indent"`
	Linebreak   string `yaml:"linebreak"`
	Wrap        int    `yaml:"wrap"`
	Parentheses string `yaml:"parentheses"`
}

// ParserConfig controls which precedence table the parser uses.
type ParserConfig struct {
	Mode string `yaml:"mode"` // "current" or "pre95"
}

// Config is the top-level shape of a machparse config file.
type Config struct {
	Printer PrinterConfig `yaml:"printer"`
	Parser  ParserConfig  `yaml:"parser"`
}

// Load reads and parses a YAML config file from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse unmarshals YAML config data.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// FormatOptions converts the loaded printer config into format.Options,
// falling back to format.DefaultOptions for zero-valued fields.
func (c Config) FormatOptions() (format.Options, error) {
	opts := format.DefaultOptions
	if c.Printer.Indent != "" {
		opts.Indent = c.Printer.Indent
	}
	opts.Linebreak = c.Printer.Linebreak
	opts.Wrap = c.Printer.Wrap

	switch c.Printer.Parentheses {
	case "", "current":
		opts.Parentheses = format.Current
	case "compat":
		opts.Parentheses = format.Compat
	default:
		return format.Options{}, fmt.Errorf("config: unknown parentheses mode %q", c.Printer.Parentheses)
	}
	return opts, nil
}

// ParserMode converts the loaded parser config into a parser.Mode.
func (c Config) ParserMode() (parser.Mode, error) {
	switch c.Parser.Mode {
	case "", "current":
		return parser.Current, nil
	case "pre95":
		return parser.Pre95, nil
	default:
		return 0, fmt.Errorf("config: unknown parser mode %q", c.Parser.Mode)
	}
}
