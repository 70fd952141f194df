// Package config loads the settings of the rbigfit command.
package config

import (
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/jejjohnson/2019-rbig-rs/density"
)

type Config struct {
	// Input is the path of the CSV file holding one sample per row.
	Input string `json:"input" yaml:"input"`
	// Header skips the first CSV record.
	Header bool `json:"header" yaml:"header"`
	// Comma is the CSV field delimiter.
	Comma string `json:"comma" yaml:"comma"`

	Subsample   int    `json:"subsample" yaml:"subsample"`
	RandomState uint64 `json:"randomState" yaml:"randomState"`

	// Plot is the path of the residual information plot. Empty disables it.
	Plot string `json:"plot,omitempty" yaml:"plot,omitempty"`
	// JSON prints the fit summary as JSON instead of a table.
	JSON bool `json:"json" yaml:"json"`
	// Progress shows a progress bar while fitting.
	Progress bool `json:"progress" yaml:"progress"`
}

func Default() *Config {
	return &Config{
		Comma:       ",",
		Subsample:   density.DefaultSubsample,
		RandomState: density.DefaultRandomState,
		Progress:    true,
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(body, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Delimiter returns Comma as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Comma)
	return r
}

// Validate reports every problem with the config.
func (c *Config) Validate() (err error) {
	if c.Input == "" {
		err = multierr.Append(err, errors.New("input file is required"))
	}
	if utf8.RuneCountInString(c.Comma) != 1 {
		err = multierr.Append(err, errors.Errorf("comma must be a single character, got %q", c.Comma))
	} else if r := c.Delimiter(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		err = multierr.Append(err, errors.Errorf("invalid comma %q", c.Comma))
	}
	if c.Subsample < density.NoSubsample {
		err = multierr.Append(err, errors.Errorf("subsample must be at least %d, got %d", density.NoSubsample, c.Subsample))
	}
	return err
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
