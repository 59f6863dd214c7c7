package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc holds documentation and alternative examples for a single config field.
// The genconfig tool uses [FieldDoc] values to annotate the generated config.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example config.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ConfigDocs maps TOML field paths (dot-separated, e.g. "style.fill") to
// their [FieldDoc] entries. The genconfig tool uses this map to annotate
// the generated config.default.toml with inline comments and alternative
// examples.
var ConfigDocs = map[string]FieldDoc{
	// ── Root ──────────────────────────────────────────────────────
	"version": {
		Comment: "Config schema version — do not edit.",
	},

	// ── Font ──────────────────────────────────────────────────────
	"font.path": {
		Comment: "Font file to render with. Glob patterns are supported (first match\nin lexical order wins).",
		Alternatives: []string{
			`path = "/usr/share/fonts/**/DejaVuSans.ttf"`,
		},
	},
	"font.fallback": {
		Comment: "Google Fonts fallback, fetched and cached when path is empty or\nfails to load. Format: \"google:Family:Weight\".",
		Alternatives: []string{
			`fallback = "google:Inter:800"`,
		},
	},
	"font.size_px": {
		Comment: "Font size in pixels.",
	},

	// ── Pool ──────────────────────────────────────────────────────
	"pool.preset": {
		Comment: "Named character pool. Options: \"digits\", \"lowercase\", \"uppercase\",\n\"letters\", \"alnum\", \"hex\", \"ascii\", \"latin1\".\nPreset, chars, and ranges are merged in that order, duplicates removed.",
		Alternatives: []string{
			`preset = "digits"`,
			`preset = "ascii"`,
		},
	},
	"pool.chars": {
		Comment: "Explicit characters added to the pool.",
		Alternatives: []string{
			`chars = "@#$%"`,
		},
	},
	"pool.ranges": {
		Comment: "Inclusive character ranges. Single characters are taken literally,\nanything longer is a code point (hex with 0x prefix, or decimal).",
		Alternatives: []string{
			`ranges = ["A-Z", "0x3040-0x309F"]`,
		},
	},
	"pool.min_point": {
		Comment: "Drop pool characters below this code point. 0 = no lower limit.",
	},
	"pool.max_point": {
		Comment: "Drop pool characters above this code point. -1 = no upper limit.",
	},

	// ── Pick ──────────────────────────────────────────────────────
	"pick.count": {
		Comment: "How many characters to pick. 0 = render the whole pool in order.",
	},
	"pick.seed": {
		Comment: "Random seed for reproducible picks. Same pool, count, and seed\nalways produce the same characters. -1 = fresh entropy every run.",
	},
	"pick.with_replacement": {
		Comment: "Allow the same character to be picked more than once.\nRequired when count exceeds the pool size.",
	},

	// ── Style ─────────────────────────────────────────────────────
	"style.fill": {
		Comment: "Glyph ink color, \"#RRGGBB\" or \"#RRGGBBAA\".",
	},
	"style.background": {
		Comment: "Canvas background color, \"#RRGGBB\" or \"#RRGGBBAA\".",
		Alternatives: []string{
			`background = "#00000000"`,
		},
	},
	"style.rotation_degrees": {
		Comment: "Rotate each glyph canvas about its center, clockwise-positive,\nin [-180, 180]. 0 disables rotation.",
	},
	"style.offset_x": {
		Comment: "Shift the glyph from center, in pixels. Positive x = right,\npositive y = down.",
	},
	"style.offset_y": {},
	"style.padding_px": {
		Comment: "Padding around the glyph bounding box, also used as cell spacing\nin strip and grid layouts.",
	},

	// ── Layout ────────────────────────────────────────────────────
	"layout.mode": {
		Comment: "How picked characters map to output images. Options: \"single\",\n\"strip\", \"grid\"\n  single: one image per character\n  strip:  all characters in one horizontal row\n  grid:   rows of `columns` cells",
		Alternatives: []string{
			`mode = "strip"`,
			`mode = "grid"`,
		},
	},
	"layout.columns": {
		Comment: "Grid width in cells. Only used in grid mode.",
	},
	"layout.mark_radix": {
		Comment: "Label each cell with its code point in strip/grid layouts.\nOptions: \"hex\", \"dec\", \"oct\", \"bin\". Empty = no marks.",
		Alternatives: []string{
			`mark_radix = "hex"`,
		},
	},
	"layout.mark_zero_fill": {
		Comment: "Zero-fill length for mark labels. -1 = radix default\n(hex 2, dec 0, oct 3, bin 8).",
	},
	"layout.mark_color": {
		Comment: "Mark label color.",
	},
	"layout.mark_size_px": {
		Comment: "Mark label font size in pixels.",
	},

	// ── Output ────────────────────────────────────────────────────
	"output.dir": {
		Comment: "Output directory, created if absent.",
	},
	"output.template": {
		Comment: "Output file name template, without extension.\nPlaceholders: {char}, {point}, {index}, {font}\n  {char}:  the depicted characters (unsafe ones become U+XXXX)\n  {point}: code points as zero-filled uppercase hex\n  {index}: running output index\n  {font}:  the font name",
		Alternatives: []string{
			`template = "{font}_{point}"`,
		},
	},
	"output.format": {
		Comment: "Output image format. Options: \"png\", \"bmp\", \"tiff\" (all lossless).",
		Alternatives: []string{
			`format = "bmp"`,
			`format = "tiff"`,
		},
	},
	"output.overwrite": {
		Comment: "Replace existing output files. When false, an existing target\nfails that file and the run reports it.",
	},
	"output.on_missing_glyph": {
		Comment: "What to do when the font has no glyph for a picked character.\nOptions: \"skip\", \"box\" (hollow placeholder), \"abort\"",
		Alternatives: []string{
			`on_missing_glyph = "box"`,
			`on_missing_glyph = "abort"`,
		},
	},
	"output.abort_on_error": {
		Comment: "Stop at the first failed output file instead of continuing and\nsummarizing all failures at the end.",
	},

	// ── Watch ─────────────────────────────────────────────────────
	"watch.poll_interval_seconds": {
		Comment: "Watch mode re-renders when the font or config file changes.\nfsnotify is primary, this is the fallback polling interval.",
	},
	"watch.debounce_ms": {
		Comment: "Coalesce bursts of file events into one re-render.",
	},

	// ── Log ──────────────────────────────────────────────────────
	"log": {
		Comment: "Logging configuration",
	},
	"log.level": {
		Comment: "Minimum log level. Options: \"trace\", \"debug\", \"info\", \"warn\", \"error\"",
		Alternatives: []string{
			`level = "debug"`,
			`level = "warn"`,
		},
	},
	"log.file": {
		Comment: "Also write logs to this rotating file. Empty = stderr only.",
		Alternatives: []string{
			`file = "pickchar.log"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Maximum log file size in megabytes before rotation.",
	},
}
