package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Source SourceConfig      `yaml:"source"`
	Output OutputConfig      `yaml:"output"`
	Build  BuildConfig       `yaml:"build"`
	Index  IndexConfig       `yaml:"index"`
	Watch  WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Build.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds preview server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourceConfig describes where example markdown files are read from.
type SourceConfig struct {
	Dir     string   `yaml:"dir"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// OutputConfig describes where build artifacts are written.
//
// Artifacts land in Dir/ExamplesDir/<slug>.json and the manifest in
// Dir/Manifest; manifest entry paths are relative to Dir.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	ExamplesDir string `yaml:"examples_dir"`
	Manifest    string `yaml:"manifest"`
	Version     string `yaml:"version"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.ExamplesDir, validation.Required),
		validation.Field(&c.Manifest, validation.Required),
		validation.Field(&c.Version, validation.Required),
	)
}

// BuildConfig controls the build orchestrator.
type BuildConfig struct {
	Workers int `yaml:"workers"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(256)),
	)
}

// IndexConfig controls the optional SQLite search index.
type IndexConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path of the database file. Empty means next to the output directory.
	Path string `yaml:"path"`
}

// IndexPath returns the index database location. Without an explicit
// index.path the database sits beside the output directory as "<out>.db",
// so it follows --out and stays outside the served tree.
func (c *Config) IndexPath() string {
	if c.Index.Path != "" {
		return c.Index.Path
	}
	out := filepath.Clean(c.Output.Dir)
	return filepath.Join(filepath.Dir(out), filepath.Base(out)+".db")
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Source: SourceConfig{
			Dir:     "./examples",
			Include: []string{"*.md"},
		},
		Output: OutputConfig{
			Dir:         "./dist",
			ExamplesDir: "examples",
			Manifest:    "manifest.json",
			Version:     "1.0.0",
		},
		Build: BuildConfig{
			Workers: 4,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
