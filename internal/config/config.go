package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

const envPrefix = "SFGEO"

// Config represents the application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Codec    CodecConfig    `mapstructure:"codec"`
	Render   RenderConfig   `mapstructure:"render"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	path string
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CodecConfig controls vector conversion
type CodecConfig struct {
	OnError string `mapstructure:"on_error"`
	Workers int    `mapstructure:"workers"`
}

// RenderConfig sizes PNG previews
type RenderConfig struct {
	Width   int `mapstructure:"width"`
	Height  int `mapstructure:"height"`
	Padding int `mapstructure:"padding"`
}

type PostgresConfig struct {
	Service string `mapstructure:"service"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kartoza-sfgeo"), nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// PreviewDir returns the directory where rendered previews are cached
func PreviewDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "previews"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("codec.on_error", "absent")
	v.SetDefault("codec.workers", 4)
	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 600)
	v.SetDefault("render.padding", 10)
	v.SetDefault("postgres.service", "")
	v.SetDefault("metrics.textfile", "")
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from path, or from ConfigPath when path is
// empty, then applies SFGEO_* environment overrides. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// SFGEO_CODEC_WORKERS → codec.workers
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Validate checks that every setting is usable, reporting all problems at once
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if _, err := sf.ParsePolicy(c.Codec.OnError); err != nil {
		errs = append(errs, "codec.on_error: "+err.Error())
	}
	if c.Codec.Workers < 1 {
		errs = append(errs, fmt.Sprintf("codec.workers must be at least 1, got %d", c.Codec.Workers))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Sprintf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Padding < 0 || 2*c.Render.Padding >= min(c.Render.Width, c.Render.Height) {
		errs = append(errs, fmt.Sprintf("render.padding %d does not fit a %dx%d image", c.Render.Padding, c.Render.Width, c.Render.Height))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// BuildOptions converts the codec settings for sf.BuildVector
func (c *Config) BuildOptions() (sf.BuildOptions, error) {
	policy, err := sf.ParsePolicy(c.Codec.OnError)
	if err != nil {
		return sf.BuildOptions{}, err
	}
	return sf.BuildOptions{Policy: policy, Workers: c.Codec.Workers}, nil
}

// Save writes the configuration back to the file it was loaded from, or
// to ConfigPath for a config that was never loaded
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}
	return c.SaveAs(path)
}

// SaveAs writes the configuration to path and remembers it for Save
func (c *Config) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := c.viper()
	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Keys lists every setting name accepted by Set
func Keys() []string {
	v := viper.New()
	setDefaults(v)
	keys := v.AllKeys()
	slices.Sort(keys)
	return keys
}

// Set changes one setting by its dotted name, e.g. codec.workers. The
// config is left untouched when the key is unknown or the result is invalid.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(Keys(), ", "))
	}

	v := c.viper()
	v.Set(key, value)

	var next Config
	if err := v.Unmarshal(&next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.path = c.path
	*c = next
	return nil
}

func (c *Config) viper() *viper.Viper {
	v := viper.New()
	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("codec.on_error", c.Codec.OnError)
	v.Set("codec.workers", c.Codec.Workers)
	v.Set("render.width", c.Render.Width)
	v.Set("render.height", c.Render.Height)
	v.Set("render.padding", c.Render.Padding)
	v.Set("postgres.service", c.Postgres.Service)
	v.Set("metrics.textfile", c.Metrics.Textfile)
	return v
}
