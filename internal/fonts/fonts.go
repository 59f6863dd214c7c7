// Package fonts loads font resources for glyph rendering.
//
// A font can come from a local file (plain path or doublestar glob, first
// lexical match wins) or from Google Fonts via a "google:Family:Weight"
// fallback spec. WOFF2 containers are converted to SFNT before parsing.
// The parsed font is read-only after [Load]; callers needing to draw
// concurrently create one face per goroutine via [Font.NewFace], since
// opentype faces are not safe for concurrent use.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	xfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrFontLoad indicates the font file is missing, unreadable, or not a
// valid font container. Fatal: no glyph can be produced without a font.
var ErrFontLoad = errors.New("font load failed")

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Spec describes where to find a font and at what size to build faces.
type Spec struct {
	// Path is a font file path. Glob patterns (including **) are allowed;
	// the first match in lexical order is used.
	Path string
	// Fallback is a Google Fonts spec ("google:Inter:800") tried when Path
	// is empty or matches nothing.
	Fallback string
	// SizePx is the face size in pixels (points at 72 DPI).
	SizePx int
	// CacheDir is where downloaded fonts are cached. Empty disables caching.
	CacheDir string
}

// Font is a loaded, parsed font ready to produce faces at the spec size.
// The parsed font is never mutated after Load.
type Font struct {
	parsed *opentype.Font
	name   string
	sizePx int
}

// ///////////////////////////////////////////////
// Loading
// ///////////////////////////////////////////////

// Load resolves, reads, and parses the font described by spec.
// All failure modes wrap [ErrFontLoad].
func Load(spec Spec) (*Font, error) {
	if spec.SizePx <= 0 {
		return nil, fmt.Errorf("%w: font size must be positive, got %d", ErrFontLoad, spec.SizePx)
	}

	data, origin, err := readFontData(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}

	if isWOFF2(origin, data) {
		converted, convErr := xfont.ToSFNT(data)
		if convErr != nil {
			return nil, fmt.Errorf("%w: convert woff2 to sfnt: %v", ErrFontLoad, convErr)
		}
		data = converted
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFontLoad, origin, err)
	}

	return &Font{
		parsed: parsed,
		name:   fontName(parsed, origin),
		sizePx: spec.SizePx,
	}, nil
}

// readFontData returns the raw font bytes and a human-readable origin
// (file path or fonts spec) for error messages and output naming.
func readFontData(spec Spec) ([]byte, string, error) {
	var pathErr error
	if spec.Path != "" {
		path, err := resolvePath(spec.Path)
		if err == nil {
			data, readErr := os.ReadFile(path)
			if readErr == nil {
				return data, path, nil
			}
			err = readErr
		}
		pathErr = err
		if spec.Fallback == "" {
			return nil, "", pathErr
		}
	}

	if spec.Fallback != "" {
		data, err := FetchGoogleFont(spec.Fallback, spec.CacheDir)
		if err != nil {
			if pathErr != nil {
				return nil, "", fmt.Errorf("%v; fallback also failed: %w", pathErr, err)
			}
			return nil, "", err
		}
		return data, spec.Fallback, nil
	}

	return nil, "", errors.New("no font path or fallback configured")
}

// resolvePath expands glob patterns in path, returning the first match in
// lexical order. A path without glob metacharacters is returned as-is so
// missing-file errors surface from the read, with the real path in them.
func resolvePath(path string) (string, error) {
	if !strings.ContainsAny(path, "*?[{") {
		return path, nil
	}
	matches, err := doublestar.FilepathGlob(path)
	if err != nil {
		return "", fmt.Errorf("bad font glob %q: %w", path, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("font glob %q matched no files", path)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// isWOFF2 checks whether a font is WOFF2 by name extension or magic bytes
// ("wOF2").
func isWOFF2(origin string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(origin), ".woff2") {
		return true
	}
	return len(data) >= 4 && data[0] == 'w' && data[1] == 'O' && data[2] == 'F' && data[3] == '2'
}

// fontName returns the font's family name, falling back to the origin's
// base name without extension.
func fontName(parsed *opentype.Font, origin string) string {
	var buf sfnt.Buffer
	if family, err := parsed.Name(&buf, sfnt.NameIDFamily); err == nil && family != "" {
		return family
	}
	base := filepath.Base(origin)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ///////////////////////////////////////////////
// Accessors
// ///////////////////////////////////////////////

// Name returns the font's family name (or file base name), used in output
// file name templates.
func (f *Font) Name() string { return f.name }

// SizePx returns the configured face size in pixels.
func (f *Font) SizePx() int { return f.sizePx }

// NewFace builds a new face at the configured size, 72 DPI, full hinting.
// Faces are not safe for concurrent use; create one per goroutine.
func (f *Font) NewFace() (font.Face, error) {
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    float64(f.sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// NewFaceAt is like [Font.NewFace] but at an explicit pixel size. Used for
// the smaller code-point mark labels in composed layouts.
func (f *Font) NewFaceAt(sizePx int) (font.Face, error) {
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// HasGlyph reports whether the font maps r to a real glyph. Glyph index 0
// is the .notdef placeholder, which counts as absent.
func (f *Font) HasGlyph(r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.parsed.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}
