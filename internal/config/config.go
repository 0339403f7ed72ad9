// Package config loads command line tool settings from defaults, an optional
// YAML file, INTERP_* environment variables and flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tphakala/go-audio-interp/internal/coeffs"
	"github.com/tphakala/go-audio-interp/internal/engine"
	"github.com/tphakala/go-audio-interp/internal/logger"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "INTERP"

// Supported sample precisions.
const (
	PrecisionFloat32 = "float32"
	PrecisionFloat64 = "float64"
)

// ErrInvalid indicates a setting that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings shared by the command line tools.
type Config struct {
	Kernel       string        `mapstructure:"kernel"`
	BlockSize    int           `mapstructure:"block_size"`
	Precision    string        `mapstructure:"precision"`
	Quality      string        `mapstructure:"quality"`
	Coefficients string        `mapstructure:"coefficients"`
	Gain         float64       `mapstructure:"gain"`
	Log          logger.Config `mapstructure:"log"`
}

// Kind returns the parsed kernel.
func (c *Config) Kind() (engine.Kind, error) {
	return engine.ParseKind(c.Kernel)
}

// CoefficientQuality returns the parsed table quality.
func (c *Config) CoefficientQuality() (coeffs.Quality, error) {
	return coeffs.ParseQuality(c.Quality)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := c.Kind(); err != nil {
		return fmt.Errorf("%w: kernel: %w", ErrInvalid, err)
	}
	if _, err := c.CoefficientQuality(); err != nil {
		return fmt.Errorf("%w: quality: %w", ErrInvalid, err)
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("%w: block_size must be positive, got %d", ErrInvalid, c.BlockSize)
	}
	switch c.Precision {
	case PrecisionFloat32, PrecisionFloat64:
	default:
		return fmt.Errorf("%w: precision must be %s or %s, got %q", ErrInvalid, PrecisionFloat32, PrecisionFloat64, c.Precision)
	}
	if c.Gain <= 0 {
		return fmt.Errorf("%w: gain must be positive, got %v", ErrInvalid, c.Gain)
	}
	return nil
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("kernel", engine.CubicHermite.String())
	v.SetDefault("block_size", 4096)
	v.SetDefault("precision", PrecisionFloat64)
	v.SetDefault("quality", coeffs.QualityMedium.String())
	v.SetDefault("coefficients", "")
	v.SetDefault("gain", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.name", "interp.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)
}

// RegisterFlags adds the shared flags to fs. Flag names match the
// configuration keys, with dots and underscores written as dashes.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML configuration file")
	fs.String("kernel", engine.CubicHermite.String(), "interpolation kernel: "+kindNames())
	fs.Int("block-size", 4096, "processing block size in samples")
	fs.String("precision", PrecisionFloat64, "sample precision: float32 or float64")
	fs.String("quality", coeffs.QualityMedium.String(), "sinc coefficient quality: fastest, medium or best")
	fs.String("coefficients", "", "YAML sinc coefficient table, overrides -quality")
	fs.Float64("gain", 1.0, "linear output gain")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-file", "", "also write logs to this rotating file")
}

// Load resolves the configuration. Flags in fs that were set explicitly win
// over environment variables, which win over the file named by the
// "config" flag, which wins over defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, err
		}
		if path, _ := fs.GetString("config"); path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if fs != nil {
		if f := fs.Lookup("log-file"); f != nil && f.Changed {
			cfg.Log.File.Enabled = true
			cfg.Log.File.Path, cfg.Log.File.Name = splitPath(f.Value.String())
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var flagKeys = map[string]string{
	"kernel":       "kernel",
	"block-size":   "block_size",
	"precision":    "precision",
	"quality":      "quality",
	"coefficients": "coefficients",
	"gain":         "gain",
	"log-level":    "log.level",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func splitPath(path string) (dir, name string) {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return ".", path
	}
	return path[:i], path[i+1:]
}

func kindNames() string {
	kinds := engine.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
