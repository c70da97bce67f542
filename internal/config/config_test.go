package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load(missing) = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(missing) = %+v, want %+v", cfg, Default())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmploader.yml")
	data := []byte("bits_per_pixel: \"32\"\nlog_level: debug\nfill: [0, 0.5, 1]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.BitsPerPixel != 32 {
		t.Errorf("BitsPerPixel = %d, want 32", cfg.BitsPerPixel)
	}
	if cfg.Resample != "catmullrom" {
		t.Errorf("Resample = %q, want default catmullrom", cfg.Resample)
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("Level() = %v, want DEBUG", level)
	}
	if fill, _ := cfg.FillPixel(); fill != graphics.NewPixel(0, 0.5, 1) {
		t.Errorf("FillPixel() = %v, want {0 0.5 1 1}", fill)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad bpp", "bits_per_pixel: 16"},
		{"bad level", "log_level: loud"},
		{"short fill", "fill: [1, 1]"},
		{"unknown key", "overwrite: true"},
		{"not yaml", "bits_per_pixel: [24"},
		{"not a number", "bits_per_pixel: many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Parse([]byte(tt.yaml), &cfg); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.yaml)
			}
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("bits_per_pixel: 8"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load(bad) succeeded, want error")
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(bad) = %+v, want defaults", cfg)
	}
}

func TestFillPixel(t *testing.T) {
	cfg := Default()
	cfg.Fill = []float32{0.1, 0.2, 0.3, 0.4}
	if p, err := cfg.FillPixel(); err != nil || p != graphics.NewPixelAlpha(0.1, 0.2, 0.3, 0.4) {
		t.Errorf("FillPixel() = (%v, %v)", p, err)
	}
	cfg.Fill = nil
	if _, err := cfg.FillPixel(); err == nil {
		t.Error("FillPixel() with no channels succeeded")
	}
}
