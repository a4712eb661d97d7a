// Package config provides configuration types and defaults for soundscape.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/sound"
)

// Config holds all configuration options for soundscape.
type Config struct {
	// AssetsDir is the directory that /sounds/<file>.mp3 paths resolve under.
	AssetsDir     string        `mapstructure:"assets_dir" yaml:"assets_dir"`
	MasterVolume  int           `mapstructure:"master_volume" yaml:"master_volume"`
	DefaultVolume int           `mapstructure:"default_volume" yaml:"default_volume"`
	Audio         AudioConfig   `mapstructure:"audio" yaml:"audio"`
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
	Tracing       TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	Theme         ThemeConfig   `mapstructure:"theme" yaml:"theme"`
}

// AudioConfig holds output device and decoding options.
type AudioConfig struct {
	SampleRate int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer" yaml:"buffer"`
	// CacheTTL is how long decoded sounds stay cached after last use.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// MarshalYAML writes durations in their string form so viper can read them back.
func (a AudioConfig) MarshalYAML() (any, error) {
	return struct {
		SampleRate int    `yaml:"sample_rate"`
		Buffer     string `yaml:"buffer"`
		CacheTTL   string `yaml:"cache_ttl"`
	}{a.SampleRate, a.Buffer.String(), a.CacheTTL.String()}, nil
}

// LogConfig holds logging options.
type LogConfig struct {
	// File is where logs are written. Empty disables logging.
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// TracingConfig selects an OpenTelemetry exporter.
type TracingConfig struct {
	// Exporter is "", "stdout" or "otlp". Empty disables tracing.
	Exporter string `mapstructure:"exporter" yaml:"exporter"`
	// Endpoint is the OTLP/gRPC collector address.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// File receives stdout exporter output.
	File string `mapstructure:"file" yaml:"file"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	Preset string `mapstructure:"preset" yaml:"preset"`
	// Mode forces light or dark mode. If empty, uses terminal detection.
	Mode string `mapstructure:"mode" yaml:"mode"`
	// Colors overrides individual color tokens such as "text.primary".
	Colors map[string]string `mapstructure:"colors" yaml:"colors,omitempty"`
}

// Exporter names.
const (
	ExporterNone   = ""
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AssetsDir:     ".",
		MasterVolume:  70,
		DefaultVolume: 50,
		Audio: AudioConfig{
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
			CacheTTL:   10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Endpoint: "localhost:4317",
		},
	}
}

// SetDefaults registers Defaults with v so unset keys fall back to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("assets_dir", d.AssetsDir)
	v.SetDefault("master_volume", d.MasterVolume)
	v.SetDefault("default_volume", d.DefaultVolume)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer", d.Audio.Buffer)
	v.SetDefault("audio.cache_ttl", d.Audio.CacheTTL)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.file", d.Tracing.File)
	v.SetDefault("theme.preset", d.Theme.Preset)
	v.SetDefault("theme.mode", d.Theme.Mode)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	if _, err := sound.NewVolume(c.MasterVolume); err != nil {
		errs = append(errs, fmt.Errorf("master_volume: %w", err))
	}
	if _, err := sound.NewVolume(c.DefaultVolume); err != nil {
		errs = append(errs, fmt.Errorf("default_volume: %w", err))
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate: %d outside [8000, 192000]", c.Audio.SampleRate))
	}
	if c.Audio.Buffer <= 0 || c.Audio.Buffer > time.Second {
		errs = append(errs, fmt.Errorf("audio.buffer: %s outside (0, 1s]", c.Audio.Buffer))
	}
	if c.Audio.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("audio.cache_ttl: must not be negative"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Tracing.Exporter {
	case ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.Tracing.Endpoint == "" {
			errs = append(errs, errors.New("tracing.endpoint: required for the otlp exporter"))
		}
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter: unknown exporter %q (want stdout or otlp)", c.Tracing.Exporter))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "soundscape", "config.yaml"), nil
}

const configHeader = `# Soundscape configuration
#
# assets_dir holds the sounds/ directory with the mp3 loops.
# Volumes are 0-100. Theme presets: catppuccin-mocha, dracula, nord, high-contrast.
# tracing.exporter: "" (off), "stdout" (to tracing.file) or "otlp" (to tracing.endpoint).

`

// DefaultConfigTemplate returns the default config as YAML with a comment header.
func DefaultConfigTemplate() (string, error) {
	out, err := yaml.Marshal(Defaults())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	return configHeader + string(out), nil
}

// ErrConfigExists is returned by WriteDefaultConfig when the file is present
// and overwrite is false.
var ErrConfigExists = errors.New("config file already exists")

// WriteDefaultConfig creates a config file at configPath with default
// settings. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s: %w", configPath, ErrConfigExists)
		}
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmpl, err := DefaultConfigTemplate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(tmpl), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
