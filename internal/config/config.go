// Package config provides configuration loading and defaults for pickchar.
//
// Configuration is loaded from a TOML file in the user's data directory.
// The package covers the font source, character pool, pick parameters,
// render style, layout, output, and logging, with sensible defaults.
// Command-line flags override individual fields after loading.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"tools.zach/dev/pickchar/internal/atomicfile"
	"tools.zach/dev/pickchar/internal/fonts"
	"tools.zach/dev/pickchar/internal/migrate"
	"tools.zach/dev/pickchar/internal/output"
	"tools.zach/dev/pickchar/internal/paths"
	"tools.zach/dev/pickchar/internal/pool"
	"tools.zach/dev/pickchar/internal/render"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Version is the config schema version used for migrations.
	Version int `toml:"version"`
	// Font holds the font source settings.
	Font FontConfig `toml:"font"`
	// Pool holds the character pool settings.
	Pool PoolConfig `toml:"pool"`
	// Pick holds the character selection settings.
	Pick PickConfig `toml:"pick"`
	// Style holds the glyph render style.
	Style StyleConfig `toml:"style"`
	// Layout holds the image composition settings.
	Layout LayoutConfig `toml:"layout"`
	// Output holds the output file settings.
	Output OutputConfig `toml:"output"`
	// Watch holds watch-mode settings.
	Watch WatchConfig `toml:"watch"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// FontConfig holds the font source settings.
type FontConfig struct {
	// Path is the font file path. Doublestar globs are allowed; the
	// first match in lexical order is used.
	Path string `toml:"path"`
	// Fallback is a "google:Family:Weight" spec fetched from the Google
	// Fonts API when Path is empty or fails to load.
	Fallback string `toml:"fallback,omitempty"`
	// SizePx is the font size in pixels.
	SizePx int `toml:"size_px"`
}

// PoolConfig holds the character pool settings. Preset, Chars, and
// Ranges union in that order with duplicates removed.
type PoolConfig struct {
	// Preset names a built-in pool: digits, lowercase, uppercase,
	// letters, alnum, hex, ascii, or latin1.
	Preset string `toml:"preset,omitempty"`
	// Chars lists explicit pool characters.
	Chars string `toml:"chars,omitempty"`
	// Ranges lists inclusive ranges like "A-Z" or "0x30-0x39".
	Ranges []string `toml:"ranges,omitempty"`
	// MinPoint drops pool characters below this code point.
	MinPoint int `toml:"min_point"`
	// MaxPoint drops pool characters above this code point. Negative
	// means no upper limit.
	MaxPoint int `toml:"max_point"`
}

// PickConfig holds the character selection settings.
type PickConfig struct {
	// Count is how many characters to pick. Zero picks the whole pool
	// in pool order.
	Count int `toml:"count"`
	// Seed makes picks reproducible when non-negative. Negative uses
	// fresh entropy per run.
	Seed int64 `toml:"seed"`
	// WithReplacement allows the same character to be picked twice, and
	// is required when count exceeds the pool size.
	WithReplacement bool `toml:"with_replacement"`
}

// StyleConfig holds the glyph render style.
type StyleConfig struct {
	// Fill is the glyph ink color as "#RRGGBB" or "#RRGGBBAA".
	Fill string `toml:"fill"`
	// Background is the canvas color as "#RRGGBB" or "#RRGGBBAA".
	Background string `toml:"background"`
	// RotationDegrees rotates each glyph canvas clockwise, in [-180, 180].
	RotationDegrees float64 `toml:"rotation_degrees"`
	// OffsetX shifts the glyph right (negative: left) in pixels.
	OffsetX int `toml:"offset_x"`
	// OffsetY shifts the glyph down (negative: up) in pixels.
	OffsetY int `toml:"offset_y"`
	// PaddingPx pads the glyph bounding box on all sides and spaces
	// cells in strip/grid layouts.
	PaddingPx int `toml:"padding_px"`
}

// LayoutConfig holds the image composition settings.
type LayoutConfig struct {
	// Mode is single (one image per character), strip (one row), or
	// grid.
	Mode string `toml:"mode"`
	// Columns is the grid width; only read in grid mode.
	Columns int `toml:"columns"`
	// MarkRadix enables per-cell code-point labels in strip/grid modes:
	// hex, dec, oct, or bin. Empty disables marks.
	MarkRadix string `toml:"mark_radix,omitempty"`
	// MarkZeroFill pads mark labels with leading zeros. Negative picks
	// the radix default (hex 2, dec 0, oct 3, bin 8).
	MarkZeroFill int `toml:"mark_zero_fill"`
	// MarkColor is the mark label ink as "#RRGGBB" or "#RRGGBBAA".
	MarkColor string `toml:"mark_color"`
	// MarkSizePx is the mark label font size.
	MarkSizePx int `toml:"mark_size_px"`
}

// OutputConfig holds the output file settings.
type OutputConfig struct {
	// Dir is the output directory, created if absent.
	Dir string `toml:"dir"`
	// Template names output files without extension. Placeholders:
	// {char}, {point}, {index}, {font}.
	Template string `toml:"template"`
	// Format is png, bmp, or tiff.
	Format string `toml:"format"`
	// Overwrite replaces existing output files instead of failing.
	Overwrite bool `toml:"overwrite"`
	// OnMissingGlyph is skip, box, or abort.
	OnMissingGlyph string `toml:"on_missing_glyph"`
	// AbortOnError stops the run at the first failed output file
	// instead of continuing and summarizing.
	AbortOnError bool `toml:"abort_on_error"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// PollIntervalSeconds is the fallback polling interval when
	// filesystem notifications are unavailable.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// DebounceMS coalesces bursts of file events into one re-render.
	DebounceMS int `toml:"debounce_ms"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File enables an additional rotating log file at this path.
	// Empty logs to stderr only.
	File string `toml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: migrate.Config.CurrentVersion,
		Font: FontConfig{
			SizePx: 32,
		},
		Pool: PoolConfig{
			MinPoint: 0,
			MaxPoint: -1,
		},
		Pick: PickConfig{
			Count:           0,
			Seed:            -1,
			WithReplacement: false,
		},
		Style: StyleConfig{
			Fill:       "#000000",
			Background: "#FFFFFF",
			PaddingPx:  4,
		},
		Layout: LayoutConfig{
			Mode:         "single",
			Columns:      16,
			MarkZeroFill: -1,
			MarkColor:    "#FF0000",
			MarkSizePx:   10,
		},
		Output: OutputConfig{
			Dir:            paths.DefaultOutDir,
			Template:       "{char}_{index}",
			Format:         "png",
			Overwrite:      false,
			OnMissingGlyph: "skip",
		},
		Watch: WatchConfig{
			PollIntervalSeconds: 2,
			DebounceMS:          250,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ///////////////////////////////////////////////
// Example Configuration
// ///////////////////////////////////////////////

// ExampleConfig returns a Config suitable for generating
// config.default.toml. The pool is populated so a copied file renders
// something out of the box.
func ExampleConfig() *Config {
	cfg := DefaultConfig()
	cfg.Font.Path = "fonts/**/*.ttf"
	cfg.Pool.Preset = "alnum"
	cfg.Pick.Count = 8
	cfg.Pick.Seed = 42
	return cfg
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion reads just the version field from raw TOML bytes.
// Returns 1 if the version field is missing or zero.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file at path. If the file
// doesn't exist, returns DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	version := PeekVersion(data)

	shouldMigrate := version != migrate.Config.CurrentVersion
	if shouldMigrate {
		// Write backup before migration
		if backupErr := os.WriteFile(path+".bak", data, 0o644); backupErr != nil {
			slog.Warn("failed to write config backup", "error", backupErr)
		}
		var migrateErr error
		data, _, migrateErr = migrate.Config.Run(data, version)
		if migrateErr != nil {
			return nil, fmt.Errorf("migrate config: %w", migrateErr)
		}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Version = migrate.Config.CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// Re-save after migration
	if shouldMigrate {
		if err := cfg.Save(path); err != nil {
			slog.Warn("failed to save migrated config", "error", err)
		}
	}

	return cfg, nil
}

// LoadDataDir reads the configuration from dataDir/config.toml.
func LoadDataDir(dataDir string) (*Config, error) {
	return Load(filepath.Join(dataDir, paths.ConfigFile))
}

// Save writes the config to disk as TOML using atomic file write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// markRadixes maps the config spelling of a mark radix to its base.
var markRadixes = map[string]int{
	"hex": 16, "dec": 10, "oct": 8, "bin": 2,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Font.SizePx <= 0 {
		return fmt.Errorf("font.size_px must be > 0, got %d", c.Font.SizePx)
	}
	if c.Font.Fallback != "" {
		if _, _, ok := fonts.ParseGoogleFontSpec(c.Font.Fallback); !ok {
			return fmt.Errorf("invalid font.fallback %q: must be \"google:Family:Weight\"", c.Font.Fallback)
		}
	}

	if c.Pool.MinPoint < 0 {
		return fmt.Errorf("pool.min_point must be >= 0, got %d", c.Pool.MinPoint)
	}
	if c.Pool.MaxPoint >= 0 && c.Pool.MaxPoint < c.Pool.MinPoint {
		return fmt.Errorf("pool.max_point %d is below pool.min_point %d", c.Pool.MaxPoint, c.Pool.MinPoint)
	}

	if c.Pick.Count < 0 {
		return fmt.Errorf("pick.count must be >= 0, got %d", c.Pick.Count)
	}

	if _, err := render.ParseHexColor(c.Style.Fill); err != nil {
		return fmt.Errorf("style.fill: %w", err)
	}
	if _, err := render.ParseHexColor(c.Style.Background); err != nil {
		return fmt.Errorf("style.background: %w", err)
	}
	if c.Style.RotationDegrees < -180 || c.Style.RotationDegrees > 180 {
		return fmt.Errorf("style.rotation_degrees must be in [-180, 180], got %g", c.Style.RotationDegrees)
	}
	if c.Style.PaddingPx < 0 {
		return fmt.Errorf("style.padding_px must be >= 0, got %d", c.Style.PaddingPx)
	}

	mode, err := render.ParseLayoutMode(c.Layout.Mode)
	if err != nil {
		return fmt.Errorf("layout.mode: %w", err)
	}
	if mode == render.LayoutGrid && c.Layout.Columns < 1 {
		return fmt.Errorf("layout.columns must be >= 1 in grid mode, got %d", c.Layout.Columns)
	}
	if c.Layout.MarkRadix != "" {
		if _, ok := markRadixes[c.Layout.MarkRadix]; !ok {
			return fmt.Errorf("invalid layout.mark_radix %q: must be hex, dec, oct, or bin", c.Layout.MarkRadix)
		}
		if c.Layout.MarkSizePx <= 0 {
			return fmt.Errorf("layout.mark_size_px must be > 0, got %d", c.Layout.MarkSizePx)
		}
		if _, err := render.ParseHexColor(c.Layout.MarkColor); err != nil {
			return fmt.Errorf("layout.mark_color: %w", err)
		}
	}

	if !output.ValidFormat(c.Output.Format) {
		return fmt.Errorf("invalid output.format %q: must be png, bmp, or tiff", c.Output.Format)
	}
	if _, err := render.ParseMissingPolicy(c.Output.OnMissingGlyph); err != nil {
		return fmt.Errorf("output.on_missing_glyph: %w", err)
	}

	if c.Watch.PollIntervalSeconds <= 0 {
		return fmt.Errorf("watch.poll_interval_seconds must be > 0, got %d", c.Watch.PollIntervalSeconds)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}

	return nil
}

// ///////////////////////////////////////////////
// Pipeline Helpers
// ///////////////////////////////////////////////

// PoolSpec converts the pool section into a [pool.Spec].
func (c *Config) PoolSpec() pool.Spec {
	return pool.Spec{
		Preset:   c.Pool.Preset,
		Chars:    c.Pool.Chars,
		Ranges:   c.Pool.Ranges,
		MinPoint: c.Pool.MinPoint,
		MaxPoint: c.Pool.MaxPoint,
	}
}

// PickRequest converts the pick section into a [pool.PickRequest].
func (c *Config) PickRequest() pool.PickRequest {
	return pool.PickRequest{
		Count:           c.Pick.Count,
		Seed:            c.Pick.Seed,
		WithReplacement: c.Pick.WithReplacement,
	}
}

// FontSpec converts the font section into a [fonts.Spec], caching any
// Google Fonts download under the data directory.
func (c *Config) FontSpec(dataDir string) fonts.Spec {
	return fonts.Spec{
		Path:     c.Font.Path,
		Fallback: c.Font.Fallback,
		SizePx:   c.Font.SizePx,
		CacheDir: paths.DataDir{Root: dataDir}.FontCache(),
	}
}

// RenderStyle converts the style section into a [render.Style].
// Validate must have accepted the config first.
func (c *Config) RenderStyle() (render.Style, error) {
	fill, err := render.ParseHexColor(c.Style.Fill)
	if err != nil {
		return render.Style{}, fmt.Errorf("style.fill: %w", err)
	}
	bg, err := render.ParseHexColor(c.Style.Background)
	if err != nil {
		return render.Style{}, fmt.Errorf("style.background: %w", err)
	}
	return render.Style{
		Fill:            fill,
		Background:      bg,
		RotationDegrees: c.Style.RotationDegrees,
		OffsetX:         c.Style.OffsetX,
		OffsetY:         c.Style.OffsetY,
		PaddingPx:       c.Style.PaddingPx,
	}, nil
}

// RenderLayout converts the layout section into a [render.Layout].
func (c *Config) RenderLayout() (render.Layout, error) {
	mode, err := render.ParseLayoutMode(c.Layout.Mode)
	if err != nil {
		return render.Layout{}, fmt.Errorf("layout.mode: %w", err)
	}
	layout := render.Layout{Mode: mode, Columns: c.Layout.Columns}
	if c.Layout.MarkRadix != "" {
		markColor, err := render.ParseHexColor(c.Layout.MarkColor)
		if err != nil {
			return render.Layout{}, fmt.Errorf("layout.mark_color: %w", err)
		}
		layout.Marks = render.MarkStyle{
			Enabled:  true,
			Radix:    markRadixes[c.Layout.MarkRadix],
			ZeroFill: c.Layout.MarkZeroFill,
			Color:    markColor,
			SizePx:   c.Layout.MarkSizePx,
		}
	}
	return layout, nil
}

// MissingPolicy parses the output section's missing-glyph policy.
func (c *Config) MissingPolicy() (render.MissingPolicy, error) {
	return render.ParseMissingPolicy(c.Output.OnMissingGlyph)
}
