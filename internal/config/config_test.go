package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tools.zach/dev/pickchar/internal/render"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig is invalid: %v", err)
	}
	if err := ExampleConfig().Validate(); err != nil {
		t.Errorf("ExampleConfig is invalid: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Font.SizePx != DefaultConfig().Font.SizePx {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "version = 1\n\n[pick]\ncount = 3\nseed = 7\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pick.Count != 3 || cfg.Pick.Seed != 7 {
		t.Errorf("pick = %+v, want count 3 seed 7", cfg.Pick)
	}
	if cfg.Style.Fill != "#000000" {
		t.Errorf("unset style.fill = %q, want default", cfg.Style.Fill)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Pool.Preset = "hex"
	cfg.Style.RotationDegrees = 15.5
	cfg.Output.Format = "tiff"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Pool.Preset != "hex" || loaded.Style.RotationDegrees != 15.5 || loaded.Output.Format != "tiff" {
		t.Errorf("roundtrip lost values: %+v", loaded)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "version = 1\n\n[font]\nsize_px = -5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "size_px") {
		t.Errorf("Load err = %v, want size_px validation failure", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad_font_size", func(c *Config) { c.Font.SizePx = 0 }, "size_px"},
		{"bad_fallback", func(c *Config) { c.Font.Fallback = "Inter:800" }, "fallback"},
		{"negative_min_point", func(c *Config) { c.Pool.MinPoint = -1 }, "min_point"},
		{"max_below_min", func(c *Config) { c.Pool.MinPoint = 100; c.Pool.MaxPoint = 50 }, "max_point"},
		{"negative_count", func(c *Config) { c.Pick.Count = -1 }, "count"},
		{"bad_fill", func(c *Config) { c.Style.Fill = "red" }, "fill"},
		{"bad_background", func(c *Config) { c.Style.Background = "#12" }, "background"},
		{"rotation_out_of_range", func(c *Config) { c.Style.RotationDegrees = 270 }, "rotation"},
		{"negative_padding", func(c *Config) { c.Style.PaddingPx = -2 }, "padding"},
		{"bad_layout_mode", func(c *Config) { c.Layout.Mode = "diagonal" }, "layout.mode"},
		{"grid_without_columns", func(c *Config) { c.Layout.Mode = "grid"; c.Layout.Columns = 0 }, "columns"},
		{"bad_mark_radix", func(c *Config) { c.Layout.MarkRadix = "base64" }, "mark_radix"},
		{"bad_mark_color", func(c *Config) { c.Layout.MarkRadix = "hex"; c.Layout.MarkColor = "red" }, "mark_color"},
		{"bad_format", func(c *Config) { c.Output.Format = "jpeg" }, "format"},
		{"bad_missing_policy", func(c *Config) { c.Output.OnMissingGlyph = "ignore" }, "on_missing_glyph"},
		{"bad_poll_interval", func(c *Config) { c.Watch.PollIntervalSeconds = 0 }, "poll_interval"},
		{"bad_log_level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestPeekVersion(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"present", "version = 3\n", 3},
		{"missing", "[font]\nsize_px = 32\n", 1},
		{"zero", "version = 0\n", 1},
		{"garbage", "not toml at all {{{", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeekVersion([]byte(tt.data)); got != tt.want {
				t.Errorf("PeekVersion = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderLayout_Marks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.Mode = "grid"
	cfg.Layout.Columns = 8
	cfg.Layout.MarkRadix = "hex"

	layout, err := cfg.RenderLayout()
	if err != nil {
		t.Fatalf("RenderLayout: %v", err)
	}
	if layout.Mode != render.LayoutGrid || layout.Columns != 8 {
		t.Errorf("layout = %+v", layout)
	}
	if !layout.Marks.Enabled || layout.Marks.Radix != 16 {
		t.Errorf("marks = %+v, want enabled hex", layout.Marks)
	}
}

func TestRenderStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.Fill = "#FF0000"
	cfg.Style.PaddingPx = 7

	style, err := cfg.RenderStyle()
	if err != nil {
		t.Fatalf("RenderStyle: %v", err)
	}
	if style.Fill.R != 255 || style.Fill.G != 0 || style.PaddingPx != 7 {
		t.Errorf("style = %+v", style)
	}
}
