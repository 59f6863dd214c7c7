// Package output encodes composed images and writes them to disk with
// deterministic, template-derived file names.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"tools.zach/dev/pickchar/internal/atomicfile"
	"tools.zach/dev/pickchar/internal/render"
)

// ErrFileExists indicates the target file already exists and the writer
// was configured not to overwrite.
var ErrFileExists = errors.New("output file already exists")

// Formats lists the supported output image formats, which double as the
// file extensions. All three are lossless, so identical compositions
// produce byte-identical files.
var Formats = []string{"png", "bmp", "tiff"}

// Descriptor is the externally observable record of one written file.
type Descriptor struct {
	Path   string
	Format string
	Chars  []rune
}

// WriteFailure records one output file that could not be written.
type WriteFailure struct {
	Path string
	Err  error
}

// Result summarizes a batch of writes.
type Result struct {
	Written []Descriptor
	Failed  []WriteFailure
}

// Writer encodes [render.Composed] images into files under Dir, named by
// expanding Template.
type Writer struct {
	// Dir is the target directory, created on first write if absent.
	Dir string
	// Template names output files, without extension. Placeholders:
	// {char} the depicted characters (sanitized), {point} their code
	// points as zero-filled uppercase hex, {index} the running output
	// index, {font} the font name.
	Template string
	// Format is one of [Formats].
	Format string
	// Overwrite replaces existing files when true; when false an
	// existing target fails with [ErrFileExists].
	Overwrite bool
	// FontName fills the {font} placeholder.
	FontName string
}

// ValidFormat reports whether format names a supported encoder.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Write encodes img and writes exactly one file, returning its
// descriptor. The target directory is created if absent; the write goes
// through a temp file and rename, so no partial file is ever visible.
func (w *Writer) Write(img *render.Composed, index int) (Descriptor, error) {
	if !ValidFormat(w.Format) {
		return Descriptor{}, fmt.Errorf("unknown output format %q (want one of %s)",
			w.Format, strings.Join(Formats, ", "))
	}

	name := w.expandTemplate(img.Chars, index) + "." + w.Format
	path := filepath.Join(w.Dir, name)
	desc := Descriptor{Path: path, Format: w.Format, Chars: img.Chars}

	var buf bytes.Buffer
	var err error
	switch w.Format {
	case "png":
		err = png.Encode(&buf, img.Img)
	case "bmp":
		err = bmp.Encode(&buf, img.Img)
	case "tiff":
		err = tiff.Encode(&buf, img.Img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	if err != nil {
		return desc, fmt.Errorf("encode %s: %w", w.Format, err)
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return desc, fmt.Errorf("create output dir: %w", err)
	}

	if w.Overwrite {
		err = atomicfile.Write(path, buf.Bytes(), 0o644)
	} else {
		err = atomicfile.WriteExclusive(path, buf.Bytes(), 0o644)
		if err != nil && os.IsExist(err) {
			return desc, fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}
	if err != nil {
		return desc, fmt.Errorf("write %s: %w", path, err)
	}
	return desc, nil
}

// expandTemplate fills the writer's template for one output image. The
// default template is "{char}_{index}".
func (w *Writer) expandTemplate(chars []rune, index int) string {
	tmpl := w.Template
	if tmpl == "" {
		tmpl = "{char}_{index}"
	}

	var charPart, pointPart strings.Builder
	for i, c := range chars {
		charPart.WriteString(sanitizeRune(c))
		if i > 0 {
			pointPart.WriteByte('-')
		}
		fmt.Fprintf(&pointPart, "%04X", c)
	}

	r := strings.NewReplacer(
		"{char}", charPart.String(),
		"{point}", pointPart.String(),
		"{index}", strconv.Itoa(index),
		"{font}", sanitizeName(w.FontName),
	)
	return r.Replace(tmpl)
}

// sanitizeRune renders c for use in a file name. Characters that are not
// filesystem-safe become their "U+XXXX" code point form.
func sanitizeRune(c rune) string {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return string(c)
	case c == '-' || c == '_':
		return string(c)
	default:
		return fmt.Sprintf("U+%04X", c)
	}
}

// sanitizeName renders a font name for use in a file name: spaces become
// hyphens and anything unsafe is dropped.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '-' || c == '_' || c == '.':
			b.WriteRune(c)
		case c == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
