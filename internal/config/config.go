package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "OPENDENOISE"

// Config holds the application configuration
type Config struct {
	Log        LogConfig
	Processing ProcessingConfig
	Output     OutputConfig
	UI         UIConfig
}

type LogConfig struct {
	Level string
	JSON  bool
}

// ProcessingConfig controls the denoising collaborator and its worker pool
type ProcessingConfig struct {
	Workers  int
	Method   string
	Mode     string
	Strength float64
}

type OutputConfig struct {
	Format      string
	Suffix      string
	JPEGQuality int
}

type UIConfig struct {
	ThumbnailWorkers int
	Notify           bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("processing.workers", runtime.NumCPU())
	v.SetDefault("processing.method", "nlmeans")
	v.SetDefault("processing.mode", "cpu")
	v.SetDefault("processing.strength", 10.0)
	v.SetDefault("output.format", "source")
	v.SetDefault("output.suffix", "_denoised")
	v.SetDefault("output.jpeg_quality", 95)
	v.SetDefault("ui.thumbnail_workers", 4)
	v.SetDefault("ui.notify", true)
}

// Default returns the configuration without reading files or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

// Load reads defaults, then the config file (explicit path or the default
// location when it exists), then OPENDENOISE_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if candidate := DefaultPath(); fileExists(candidate) {
			path = candidate
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Log: LogConfig{
			Level: v.GetString("log.level"),
			JSON:  v.GetBool("log.json"),
		},
		Processing: ProcessingConfig{
			Workers:  v.GetInt("processing.workers"),
			Method:   strings.ToLower(v.GetString("processing.method")),
			Mode:     strings.ToLower(v.GetString("processing.mode")),
			Strength: v.GetFloat64("processing.strength"),
		},
		Output: OutputConfig{
			Format:      strings.ToLower(v.GetString("output.format")),
			Suffix:      v.GetString("output.suffix"),
			JPEGQuality: v.GetInt("output.jpeg_quality"),
		},
		UI: UIConfig{
			ThumbnailWorkers: v.GetInt("ui.thumbnail_workers"),
			Notify:           v.GetBool("ui.notify"),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Processing.Workers < 1 {
		errs = append(errs, errors.New("processing.workers must be positive"))
	}
	switch c.Processing.Method {
	case "nlmeans", "blend":
	default:
		errs = append(errs, fmt.Errorf("processing.method %q must be nlmeans or blend", c.Processing.Method))
	}
	switch c.Processing.Mode {
	case "cpu", "gpu":
	default:
		errs = append(errs, fmt.Errorf("processing.mode %q must be cpu or gpu", c.Processing.Mode))
	}
	if c.Processing.Strength <= 0 || c.Processing.Strength > 100 {
		errs = append(errs, errors.New("processing.strength must be in (0, 100]"))
	}
	switch c.Output.Format {
	case "source", "png", "jpg", "webp":
	default:
		errs = append(errs, fmt.Errorf("output.format %q must be source, png, jpg or webp", c.Output.Format))
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		errs = append(errs, errors.New("output.jpeg_quality must be between 1 and 100"))
	}
	if strings.ContainsAny(c.Output.Suffix, `/\`) {
		errs = append(errs, errors.New("output.suffix must not contain path separators"))
	}
	if c.UI.ThumbnailWorkers < 1 {
		errs = append(errs, errors.New("ui.thumbnail_workers must be positive"))
	}

	return errors.Join(errs...)
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "open-denoise", "config.yaml")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
