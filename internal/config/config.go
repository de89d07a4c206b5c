// Package config provides configuration management for skillcast.
// One YAML file holds the registered sources and user preferences;
// environment variables override the preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/util"
)

// Output formats and color modes.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete skillcast configuration.
type Config struct {
	// Lang is the message language (en, ko).
	Lang string

	// Output configures display preferences
	Output OutputConfig

	// Sources are the registered sources in registration order.
	Sources []model.Source

	// stored and overrides are set when environment variables replaced
	// file values; only the file values are written back.
	stored    settings
	overrides *settings
}

// settings are the preferences environment variables can override.
type settings struct {
	Lang   string
	Output OutputConfig
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json, yaml)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
}

// file is the on-disk layout. Sources stay a node so their order survives.
type file struct {
	Lang    string       `yaml:"lang,omitempty"`
	Output  OutputConfig `yaml:"output"`
	Sources *yaml.Node   `yaml:"sources"`
}

// fileIn is file for decoding; yaml.v3 only fills a Node held by value.
type fileIn struct {
	Lang    string       `yaml:"lang,omitempty"`
	Output  OutputConfig `yaml:"output"`
	Sources yaml.Node    `yaml:"sources"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Lang: "en",
		Output: OutputConfig{
			Format: FormatTable,
			Color:  ColorAuto,
		},
	}
}

// FilePath returns the path to the config file.
func FilePath() string {
	return util.ConfigFilePath()
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if os.IsNotExist(err) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path. A file that cannot
// be parsed is reported as an internal error.
func LoadFromPath(path string) (*Config, error) {
	// #nosec G304 - path is the skillcast config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.Decode(data); err != nil {
		return nil, model.Wrap(model.KindInternal, path, fmt.Errorf("corrupt config: %w", err))
	}
	cfg.normalize()
	cfg.applyEnvironment()
	return cfg, nil
}

// Decode decodes data over the current values. Unknown keys, such as
// the legacy "active" list, are ignored and dropped on the next save.
func (c *Config) Decode(data []byte) error {
	f := fileIn{Lang: c.Lang, Output: c.Output}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	sources, err := model.UnmarshalSources(&f.Sources)
	if err != nil {
		return err
	}
	for _, src := range sources {
		if !src.Kind.IsValid() || src.Origin == "" {
			return fmt.Errorf("source %q: missing origin", src.Name)
		}
	}
	c.Lang = f.Lang
	c.Output = f.Output
	c.Sources = sources
	return nil
}

// Encode encodes the configuration in its file layout.
func (c *Config) Encode() ([]byte, error) {
	sources, err := model.MarshalSources(c.Sources)
	if err != nil {
		return nil, err
	}
	saved := c.persisted()
	return yaml.Marshal(file{Lang: saved.Lang, Output: saved.Output, Sources: sources})
}

// persisted returns the preferences to write, undoing environment
// overrides that are still in effect.
func (c *Config) persisted() settings {
	out := settings{Lang: c.Lang, Output: c.Output}
	if c.overrides == nil {
		return out
	}
	if out.Lang == c.overrides.Lang {
		out.Lang = c.stored.Lang
	}
	if out.Output.Format == c.overrides.Output.Format {
		out.Output.Format = c.stored.Output.Format
	}
	if out.Output.Color == c.overrides.Output.Color {
		out.Output.Color = c.stored.Output.Color
	}
	return out
}

// SetLang changes the language in effect and the one saved to the file.
func (c *Config) SetLang(lang string) {
	c.Lang = lang
	c.stored.Lang = lang
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path. The file is
// written to a temporary sibling and renamed into place.
func (c *Config) SaveToPath(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// #nosec G302 - config file should be readable by user
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	logging.Debug("saved config", logging.Path(path), logging.Count(len(c.Sources)))
	return nil
}

// State returns the registry state held by the configuration.
func (c *Config) State() model.State {
	return model.State{Lang: c.Lang, Sources: slices.Clone(c.Sources)}
}

// SetState replaces the registry state.
func (c *Config) SetState(st model.State) {
	if st.Lang != "" {
		c.Lang = st.Lang
	}
	c.Sources = slices.Clone(st.Sources)
}

// ValidFormat reports whether format is a known output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// ValidColor reports whether mode is a known color mode.
func ValidColor(mode string) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

// normalize replaces unknown display settings with defaults.
func (c *Config) normalize() {
	def := Default()
	if !ValidFormat(c.Output.Format) {
		if c.Output.Format != "" {
			logging.Warn("unknown output format, using default", "format", c.Output.Format)
		}
		c.Output.Format = def.Output.Format
	}
	if !ValidColor(c.Output.Color) {
		if c.Output.Color != "" {
			logging.Warn("unknown color mode, using default", "color", c.Output.Color)
		}
		c.Output.Color = def.Output.Color
	}
	if c.Lang == "" {
		c.Lang = def.Lang
	}
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern SKILLCAST_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	before := settings{Lang: c.Lang, Output: c.Output}
	defer func() {
		after := settings{Lang: c.Lang, Output: c.Output}
		if after != before {
			c.stored = before
			c.overrides = &after
		}
	}()

	if v := os.Getenv("SKILLCAST_LANG"); v != "" {
		c.Lang = strings.ToLower(strings.TrimSpace(v))
	}

	// Output settings
	if v := os.Getenv("SKILLCAST_OUTPUT_FORMAT"); ValidFormat(v) {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLCAST_OUTPUT_COLOR"); ValidColor(v) {
		c.Output.Color = v
	}
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
