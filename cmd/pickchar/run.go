package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"tools.zach/dev/pickchar/internal/config"
	"tools.zach/dev/pickchar/internal/fonts"
	"tools.zach/dev/pickchar/internal/logger"
	"tools.zach/dev/pickchar/internal/output"
	"tools.zach/dev/pickchar/internal/pool"
	"tools.zach/dev/pickchar/internal/render"
)

// errInterrupted reports a run cut short by a shutdown signal. Outputs
// written before the interrupt stay on disk; the one in flight is never
// partially visible thanks to the atomic writer.
var errInterrupted = errors.New("interrupted")

// runPipeline executes one full render: resolve the pool, pick
// characters, load the font, render glyphs in parallel, compose, and
// write the output files. Picking happens up front on a single goroutine
// so seeded runs stay reproducible regardless of render scheduling.
// interrupt is polled between output files for graceful early
// termination; it may be nil.
func runPipeline(cfg *config.Config, dataDir string, interrupt <-chan os.Signal) (output.Result, error) {
	var result output.Result

	p, err := pool.Resolve(cfg.PoolSpec())
	if err != nil {
		return result, err
	}
	slog.Debug("pool resolved", "size", len(p))
	logger.Trace(slog.Default(), "pool contents", "chars", p.String())

	picked, err := p.Pick(cfg.PickRequest())
	if err != nil {
		return result, err
	}
	slog.Info("characters picked", "count", len(picked), "seed", cfg.Pick.Seed)

	font, err := fonts.Load(cfg.FontSpec(dataDir))
	if err != nil {
		return result, err
	}
	slog.Info("font loaded", "name", font.Name(), "size_px", font.SizePx())

	style, err := cfg.RenderStyle()
	if err != nil {
		return result, err
	}
	layout, err := cfg.RenderLayout()
	if err != nil {
		return result, err
	}
	policy, err := cfg.MissingPolicy()
	if err != nil {
		return result, err
	}

	renderer := render.New(font, style)
	glyphs, charErrs, err := renderer.Batch(picked, policy)
	if err != nil {
		return result, err
	}
	for _, ce := range charErrs {
		slog.Warn("glyph unavailable", "char", string(ce.Char),
			"point", fmt.Sprintf("U+%04X", ce.Char), "policy", policy.String())
	}
	if len(glyphs) == 0 {
		return result, fmt.Errorf("%w: every picked character was skipped", render.ErrEmptyBatch)
	}

	writer := &output.Writer{
		Dir:       cfg.Output.Dir,
		Template:  cfg.Output.Template,
		Format:    cfg.Output.Format,
		Overwrite: cfg.Output.Overwrite,
		FontName:  font.Name(),
	}

	if layout.Mode == render.LayoutSingle {
		return writeSingles(renderer, writer, glyphs, layout, cfg.Output.AbortOnError, interrupt)
	}

	composed, err := renderer.Compose(glyphs, layout)
	if err != nil {
		return result, err
	}
	desc, err := writer.Write(composed, 0)
	if err != nil {
		result.Failed = append(result.Failed, output.WriteFailure{Path: desc.Path, Err: err})
		return result, nil
	}
	result.Written = append(result.Written, desc)
	slog.Info("output written", "path", desc.Path, "chars", string(composed.Chars))
	return result, nil
}

// writeSingles composes and writes one image per glyph, checking for an
// interrupt between files.
func writeSingles(
	renderer *render.Renderer,
	writer *output.Writer,
	glyphs []*render.Glyph,
	layout render.Layout,
	abortOnError bool,
	interrupt <-chan os.Signal,
) (output.Result, error) {
	var result output.Result

	for i, g := range glyphs {
		select {
		case <-interrupt:
			slog.Info("interrupted, stopping after completed files",
				"written", len(result.Written))
			return result, errInterrupted
		default:
		}

		composed, err := renderer.Compose([]*render.Glyph{g}, layout)
		if err != nil {
			return result, err
		}
		desc, err := writer.Write(composed, i)
		if err != nil {
			slog.Error("output failed", "path", desc.Path, "error", err)
			result.Failed = append(result.Failed, output.WriteFailure{Path: desc.Path, Err: err})
			if abortOnError {
				return result, nil
			}
			continue
		}
		result.Written = append(result.Written, desc)
		slog.Debug("output written", "path", desc.Path, "char", string(g.Char))
	}
	return result, nil
}

// summarize logs the batch outcome and returns the process exit code:
// 0 when every file was written, 2 when some files failed.
func summarize(result output.Result) int {
	slog.Info("run complete",
		"written", len(result.Written),
		"failed", len(result.Failed),
	)
	if len(result.Failed) == 0 {
		return 0
	}
	for _, f := range result.Failed {
		slog.Error("failed output", "path", f.Path, "error", f.Err)
	}
	return 2
}
