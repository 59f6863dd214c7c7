// Package main implements the pickchar command, which picks characters
// from a pool, renders them with a chosen font, and writes them out as
// image files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	rootpkg "tools.zach/dev/pickchar"
	"tools.zach/dev/pickchar/internal/config"
	"tools.zach/dev/pickchar/internal/fonts"
	"tools.zach/dev/pickchar/internal/logger"
	"tools.zach/dev/pickchar/internal/paths"
	"tools.zach/dev/pickchar/internal/watch"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via ldflags:
//   - goreleaser: -X main.version={{.Version}}  -> "0.1.0"
//   - make build: -X main.version=$(VERSION)    -> "0.0.0-dev+05ffee5"
//
// When ldflags are not set (bare go build), resolveVersion reads the VCS info
// that Go embeds automatically, so dev builds get a useful version string
// without needing git at runtime.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags at build time it is returned as-is; otherwise VCS revision and dirty
// state embedded by the Go toolchain are used to construct a "dev+<hash>" tag.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Default Data Directory
// ///////////////////////////////////////////////

// defaultDataDir returns the platform default directory for pickchar data,
// typically ~/.pickchar. Falls back to ./.pickchar if the home directory
// cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", paths.DataDirRel)
	}
	return filepath.Join(home, paths.DataDirRel)
}

// ///////////////////////////////////////////////
// Flags
// ///////////////////////////////////////////////

// cliFlags holds the parsed command-line flag values. Flags override the
// corresponding config file settings, but only when explicitly set on the
// command line; applyFlags uses [flag.FlagSet.Visit] to tell the two apart.
type cliFlags struct {
	fs *flag.FlagSet

	font      string
	fontSize  int
	chars     string
	preset    string
	ranges    string
	minPoint  string
	maxPoint  string
	count     int
	seed      int64
	layout    string
	columns   int
	out       string
	template  string
	format    string
	fill      string
	bg        string
	rotate    float64
	padding   int
	overwrite bool

	watchMode   bool
	configPath  string
	dataDir     string
	logLevel    string
	showVersion bool
}

// parseFlags defines and parses the command-line flags on a fresh FlagSet
// so tests can drive it without touching the global flag state.
func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{fs: flag.NewFlagSet(paths.BinaryName, flag.ContinueOnError)}

	f.fs.StringVar(&f.font, "font", "", "Font file path, glob pattern, or google:Family:Weight spec")
	f.fs.IntVar(&f.fontSize, "font-size", 0, "Glyph size in pixels")
	f.fs.StringVar(&f.chars, "chars", "", "Explicit characters to add to the pool")
	f.fs.StringVar(&f.preset, "preset", "", "Named character pool preset")
	f.fs.StringVar(&f.ranges, "range", "", "Comma-separated code point ranges, e.g. A-Z,0x3040-0x309F")
	f.fs.StringVar(&f.minPoint, "min", "", "Minimum code point kept in the pool (decimal or 0x hex)")
	f.fs.StringVar(&f.maxPoint, "max", "", "Maximum code point kept in the pool (decimal or 0x hex)")
	f.fs.IntVar(&f.count, "count", 0, "Number of characters to pick (0 = whole pool)")
	f.fs.Int64Var(&f.seed, "seed", -1, "Random seed for reproducible picks (-1 = time-based)")
	f.fs.StringVar(&f.layout, "layout", "", "Output layout: single, strip, or grid")
	f.fs.IntVar(&f.columns, "columns", 0, "Grid columns")
	f.fs.StringVar(&f.out, "out", "", "Output directory")
	f.fs.StringVar(&f.template, "template", "", "Output filename template ({char}, {point}, {index}, {font})")
	f.fs.StringVar(&f.format, "format", "", "Output image format: png, bmp, or tiff")
	f.fs.StringVar(&f.fill, "fill", "", "Glyph fill color, e.g. #RRGGBB or #RRGGBBAA")
	f.fs.StringVar(&f.bg, "bg", "", "Background color, e.g. #RRGGBB or #RRGGBBAA")
	f.fs.Float64Var(&f.rotate, "rotate", 0, "Rotation in degrees, clockwise, -180 to 180")
	f.fs.IntVar(&f.padding, "padding", -1, "Padding around the glyph in pixels")
	f.fs.BoolVar(&f.overwrite, "overwrite", false, "Overwrite existing output files")

	f.fs.BoolVar(&f.watchMode, "watch", false, "Re-run when the font or config file changes")
	f.fs.StringVar(&f.configPath, "config", "", "Config file path (default: <data-dir>/"+paths.ConfigFile+")")
	f.fs.StringVar(&f.dataDir, "data-dir", defaultDataDir(), "Data directory for config, font cache, and logs")
	f.fs.StringVar(&f.logLevel, "log-level", "", "Log level: trace, debug, info, warn, or error")
	f.fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parsePoint parses a code point given as decimal or 0x-prefixed hex.
func parsePoint(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point %q: %w", s, err)
	}
	return int(v), nil
}

// applyFlags overlays explicitly-set command-line flags onto the loaded
// config. Unset flags leave the config values untouched.
func applyFlags(cfg *config.Config, f *cliFlags) error {
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "font":
			if _, _, ok := fonts.ParseGoogleFontSpec(f.font); ok {
				cfg.Font.Path = ""
				cfg.Font.Fallback = f.font
			} else {
				cfg.Font.Path = f.font
			}
		case "font-size":
			cfg.Font.SizePx = f.fontSize
		case "chars":
			cfg.Pool.Chars = f.chars
		case "preset":
			cfg.Pool.Preset = f.preset
		case "range":
			cfg.Pool.Ranges = splitNonEmpty(f.ranges)
		case "min":
			cfg.Pool.MinPoint, err = parsePoint(f.minPoint)
		case "max":
			cfg.Pool.MaxPoint, err = parsePoint(f.maxPoint)
		case "count":
			cfg.Pick.Count = f.count
		case "seed":
			cfg.Pick.Seed = f.seed
		case "layout":
			cfg.Layout.Mode = f.layout
		case "columns":
			cfg.Layout.Columns = f.columns
		case "out":
			cfg.Output.Dir = f.out
		case "template":
			cfg.Output.Template = f.template
		case "format":
			cfg.Output.Format = f.format
		case "fill":
			cfg.Style.Fill = f.fill
		case "bg":
			cfg.Style.Background = f.bg
		case "rotate":
			cfg.Style.RotationDegrees = f.rotate
		case "padding":
			cfg.Style.PaddingPx = f.padding
		case "overwrite":
			cfg.Output.Overwrite = f.overwrite
		case "log-level":
			cfg.Log.Level = f.logLevel
		}
	})
	return err
}

// splitNonEmpty splits a comma-separated list, dropping empty elements.
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ///////////////////////////////////////////////
// Watch Paths
// ///////////////////////////////////////////////

// watchPaths collects the files worth watching in watch mode: the config
// file and, when the font comes from a concrete local path, the font file.
// Glob patterns and Google Fonts specs have no single file to watch.
func watchPaths(cfg *config.Config, configPath string) []string {
	ps := []string{configPath}
	if p := cfg.Font.Path; p != "" && !strings.ContainsAny(p, "*?[{") {
		ps = append(ps, p)
	}
	return ps
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain runs the program and returns its exit code: 0 on success or
// user interrupt, 1 on a fatal error, 2 when the run completed but one
// or more output files could not be written.
func realMain(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		return 1
	}

	if flags.showVersion {
		fmt.Println(paths.BinaryName + " " + resolveVersion())
		return 0
	}

	dataPaths := DataPaths{Root: flags.dataDir}
	if err := os.MkdirAll(dataPaths.Root, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: create data dir: %v\n", err)
		return 1
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = dataPaths.Config()
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			if writeErr := os.WriteFile(configPath, rootpkg.DefaultConfigTOML, 0o644); writeErr != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to write default config: %v\n", writeErr)
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: load config: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: invalid config: %v\n", err)
		return 1
	}

	// Empty log.file means stderr only.
	logPath := cfg.Log.File
	if logPath != "" && !filepath.IsAbs(logPath) {
		logPath = filepath.Join(dataPaths.Root, logPath)
	}
	log, logCloser := logger.New(os.Stderr, logPath, logger.ParseLevel(cfg.Log.Level), cfg.Log.MaxSizeMB)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("pickchar starting", "version", resolveVersion(), "data_dir", dataPaths.Root)

	sigCh := signalChannel()

	if !flags.watchMode {
		result, runErr := runPipeline(cfg, dataPaths.Root, sigCh)
		switch {
		case errors.Is(runErr, errInterrupted):
			return 0
		case runErr != nil:
			slog.Error("run failed", "error", runErr)
			return 1
		}
		return summarize(result)
	}

	return runWatch(cfg, configPath, dataPaths.Root, sigCh)
}

// ///////////////////////////////////////////////
// Watch Mode
// ///////////////////////////////////////////////

// runWatch runs the pipeline once, then re-runs it whenever the config or
// font file changes, until an interrupt arrives. The config is reloaded on
// each event so edits take effect without restarting; flag overrides are
// intentionally not reapplied, the file on disk wins in watch mode.
func runWatch(cfg *config.Config, configPath, dataDir string, sigCh <-chan os.Signal) int {
	pollInterval := time.Duration(cfg.Watch.PollIntervalSeconds) * time.Second
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond

	watcher, err := watch.New(watchPaths(cfg, configPath), pollInterval, debounce)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		return 1
	}
	defer watcher.Close()

	if watcher.Polling() {
		slog.Info("using polling mode for file watching")
	}

	code, interrupted := runOnce(cfg, dataDir, sigCh)
	if interrupted {
		return 0
	}
	if code != 0 && code != 2 {
		return code
	}

	slog.Info("watching for changes", "paths", watchPaths(cfg, configPath))

	for {
		select {
		case <-sigCh:
			slog.Info("received shutdown signal")
			return 0

		case <-watcher.Events():
			reloaded, loadErr := config.Load(configPath)
			if loadErr != nil {
				slog.Error("config reload failed, keeping previous config", "error", loadErr)
			} else if validErr := reloaded.Validate(); validErr != nil {
				slog.Error("reloaded config invalid, keeping previous config", "error", validErr)
			} else {
				cfg = reloaded
			}
			slog.Info("change detected, re-running")
			code, interrupted := runOnce(cfg, dataDir, sigCh)
			if interrupted {
				return 0
			}
			if code == 1 {
				// A fatal pipeline error in watch mode is not terminal: the
				// next file change may fix it.
				slog.Warn("run failed, waiting for next change")
			}
		}
	}
}

// runOnce executes a single pipeline run and maps its outcome to an exit
// code without terminating the process. interrupted reports that the run
// consumed a shutdown signal, which callers must treat as terminal.
func runOnce(cfg *config.Config, dataDir string, sigCh <-chan os.Signal) (code int, interrupted bool) {
	result, err := runPipeline(cfg, dataDir, sigCh)
	switch {
	case errors.Is(err, errInterrupted):
		return 0, true
	case err != nil:
		slog.Error("run failed", "error", err)
		return 1, false
	}
	return summarize(result), false
}
