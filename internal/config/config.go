package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"gopkg.in/yaml.v3"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	pkgerrors "github.com/Stefan-Allen/fileconverter/pkg/errors"
)

const (
	PresetSetBasic     = "basic"
	PresetSetMarketing = "marketing"

	envPrefix = "FILECONVERTER_"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Images   ImagesConfig   `yaml:"images"`
	Sessions SessionsConfig `yaml:"sessions"`
}

type ServerConfig struct {
	Address      string        `yaml:"address"`
	MaxUploadMB  int           `yaml:"max_upload_mb"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type ImagesConfig struct {
	PresetSet            string          `yaml:"preset_set"`
	Presets              []entity.Preset `yaml:"presets"`
	Supersample          bool            `yaml:"supersample"`
	Quality              map[string]int  `yaml:"quality"`
	MaxSupersamplePixels int             `yaml:"max_supersample_pixels"`
	MaxSourcePixels      int             `yaml:"max_source_pixels"`
	DecodeTimeout        time.Duration   `yaml:"decode_timeout"`
}

type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:      ":8080",
			MaxUploadMB:  50,
			ReadTimeout:  time.Minute,
			WriteTimeout: 2 * time.Minute,
		},
		Images: ImagesConfig{
			PresetSet:            PresetSetMarketing,
			Supersample:          true,
			Quality:              map[string]int{},
			MaxSupersamplePixels: 64_000_000,
			MaxSourcePixels:      50_000_000,
			DecodeTimeout:        10 * time.Second,
		},
		Sessions: SessionsConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
		},
	}
}

// GetEnv returns env var or default when empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Address = GetEnv("ADDRESS", c.Server.Address)
	c.Images.PresetSet = GetEnv("PRESET_SET", c.Images.PresetSet)

	if v := GetEnv("MAX_UPLOAD_MB", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		c.Server.MaxUploadMB = n
	}
	if v := GetEnv("MAX_SOURCE_PIXELS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_SOURCE_PIXELS: %w", err)
		}
		c.Images.MaxSourcePixels = n
	}
	if v := GetEnv("SUPERSAMPLE", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SUPERSAMPLE: %w", err)
		}
		c.Images.Supersample = b
	}
	if v := GetEnv("DECODE_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DECODE_TIMEOUT: %w", err)
		}
		c.Images.DecodeTimeout = d
	}
	if v := GetEnv("SESSION_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.Sessions.TTL = d
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	err := validation.Errors{
		"server.address":           validation.Validate(c.Server.Address, validation.Required),
		"server.max_upload_mb":     validation.Validate(c.Server.MaxUploadMB, validation.Required, validation.Min(1)),
		"server.read_timeout":      validation.Validate(c.Server.ReadTimeout, validation.Min(time.Duration(0))),
		"server.write_timeout":     validation.Validate(c.Server.WriteTimeout, validation.Min(time.Duration(0))),
		"images.preset_set":        validation.Validate(c.Images.PresetSet, validation.In(PresetSetBasic, PresetSetMarketing)),
		"images.max_source_pixels": validation.Validate(c.Images.MaxSourcePixels, validation.Required, validation.Min(1)),
		"images.decode_timeout":    validation.Validate(c.Images.DecodeTimeout, validation.Required, validation.Min(time.Millisecond)),
		"sessions.ttl":             validation.Validate(c.Sessions.TTL, validation.Required, validation.Min(time.Second)),
		"sessions.sweep_interval":  validation.Validate(c.Sessions.SweepInterval, validation.Required, validation.Min(time.Second)),
		"images.presets":           validatePresets(c.Images.Presets),
		"images.quality":           validateQuality(c.Images.Quality),
	}.Filter()
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if errors.As(err, &errs) {
		return pkgerrors.NewValidationErrorFromOzzo(errs)
	}
	return err
}

func validatePresets(presets []entity.Preset) error {
	for i, p := range presets {
		if p.Width < 1 || p.Width > entity.MaxDimension || p.Height < 1 || p.Height > entity.MaxDimension {
			return fmt.Errorf("preset %d (%s) must be within 1..%d on both axes", i, p.Token(), entity.MaxDimension)
		}
	}
	return nil
}

func validateQuality(quality map[string]int) error {
	for format, q := range quality {
		if q < 1 || q > 100 {
			return fmt.Errorf("%s quality %d out of range 1..100", format, q)
		}
	}
	return nil
}

// PresetList returns the explicit preset list if one is configured, otherwise
// the named built-in set.
func (c *Config) PresetList() []entity.Preset {
	if len(c.Images.Presets) > 0 {
		return append([]entity.Preset(nil), c.Images.Presets...)
	}
	if c.Images.PresetSet == PresetSetBasic {
		return append([]entity.Preset(nil), entity.BasicPresets...)
	}
	return append([]entity.Preset(nil), entity.MarketingPresets...)
}

// Settings converts the configuration into what the conversion use case reads.
func (c *Config) Settings() entity.ConversionSettings {
	quality := make(map[entity.OutputFormat]int, len(c.Images.Quality))
	for format, q := range c.Images.Quality {
		quality[entity.OutputFormat(strings.ToLower(format))] = q
	}

	return entity.ConversionSettings{
		Presets:              c.PresetList(),
		Supersample:          c.Images.Supersample,
		Quality:              quality,
		MaxSupersamplePixels: c.Images.MaxSupersamplePixels,
		MaxSourcePixels:      c.Images.MaxSourcePixels,
		DecodeTimeout:        c.Images.DecodeTimeout,
		SessionTTL:           c.Sessions.TTL,
	}
}
