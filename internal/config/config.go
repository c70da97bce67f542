// Package config loads CLI defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

type Config struct {
	BitsPerPixel int       `yaml:"bits_per_pixel"` // 24 or 32
	LogLevel     string    `yaml:"log_level"`      // debug, info, warn or error
	Resample     string    `yaml:"resample"`       // resize method
	Fill         []float32 `yaml:"fill"`           // r, g, b[, a] used by --new
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		BitsPerPixel: 24,
		LogLevel:     "warn",
		Resample:     "catmullrom",
		Fill:         []float32{1, 1, 1, 1},
	}
}

// Load reads path and overlays it on Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	return cfg, nil
}

// Parse overlays the YAML document in data on cfg and validates the result.
// Scalars are weakly typed, so bits_per_pixel: "32" is accepted.
func Parse(data []byte, cfg *Config) error {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	if c.BitsPerPixel != 24 && c.BitsPerPixel != 32 {
		return fmt.Errorf("bits_per_pixel must be 24 or 32, got %d", c.BitsPerPixel)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.FillPixel(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel into a slog level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// FillPixel converts Fill (3 or 4 channels) into a pixel
func (c Config) FillPixel() (graphics.Pixel, error) {
	switch len(c.Fill) {
	case 3:
		return graphics.NewPixel(c.Fill[0], c.Fill[1], c.Fill[2]), nil
	case 4:
		return graphics.NewPixelAlpha(c.Fill[0], c.Fill[1], c.Fill[2], c.Fill[3]), nil
	}
	return graphics.Pixel{}, fmt.Errorf("fill needs 3 or 4 channels, got %d", len(c.Fill))
}
