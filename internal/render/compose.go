package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyBatch indicates a composition was asked to lay out zero glyphs.
var ErrEmptyBatch = errors.New("no glyphs to compose")

// LayoutMode selects how a batch of glyphs maps onto output images.
type LayoutMode int

const (
	// LayoutSingle produces one image per glyph.
	LayoutSingle LayoutMode = iota
	// LayoutStrip places all glyphs in one horizontal row.
	LayoutStrip
	// LayoutGrid wraps glyphs into rows of Columns cells.
	LayoutGrid
)

// ParseLayoutMode parses the config/flag spelling of a layout mode.
// "horizontal-strip" is accepted as an alias for "strip".
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch s {
	case "single":
		return LayoutSingle, nil
	case "strip", "horizontal-strip":
		return LayoutStrip, nil
	case "grid":
		return LayoutGrid, nil
	default:
		return 0, fmt.Errorf("unknown layout mode %q (want single, strip, or grid)", s)
	}
}

func (m LayoutMode) String() string {
	switch m {
	case LayoutSingle:
		return "single"
	case LayoutStrip:
		return "strip"
	case LayoutGrid:
		return "grid"
	default:
		return fmt.Sprintf("LayoutMode(%d)", int(m))
	}
}

// MarkStyle configures the optional per-cell code-point label in strip
// and grid layouts.
type MarkStyle struct {
	Enabled bool
	// Radix is one of 16, 10, 8, 2.
	Radix int
	// ZeroFill pads the label with leading zeros to this length. A
	// negative value selects the radix default (hex 2, dec 0, oct 3,
	// bin 8).
	ZeroFill int
	// Color is the label ink. Zero value means opaque red.
	Color color.NRGBA
	// SizePx is the label face size. Zero or negative means 10.
	SizePx int
}

// Layout describes the arrangement [Renderer.Compose] produces.
type Layout struct {
	Mode LayoutMode
	// Columns is the grid width; only read in [LayoutGrid] mode.
	Columns int
	Marks   MarkStyle
}

// Composed is the final output image plus the characters it depicts in
// placement order.
type Composed struct {
	Img   *image.NRGBA
	Chars []rune
}

// Compose lays glyphs out per layout into one image. Cells are uniform,
// sized to the largest glyph canvas in the batch, each glyph centered in
// its cell, placed left-to-right top-to-bottom, with the style's padding
// as inter-cell spacing. The result is deterministic: identical glyphs
// and layout give a byte-identical image.
//
// LayoutSingle requires exactly one glyph; callers emitting one image per
// character compose each glyph on its own.
func (r *Renderer) Compose(glyphs []*Glyph, layout Layout) (*Composed, error) {
	if len(glyphs) == 0 {
		return nil, ErrEmptyBatch
	}

	cols, rows, err := gridShape(layout, len(glyphs))
	if err != nil {
		return nil, err
	}

	var cellW, cellH int
	for _, g := range glyphs {
		if w := g.Img.Bounds().Dx(); w > cellW {
			cellW = w
		}
		if h := g.Img.Bounds().Dy(); h > cellH {
			cellH = h
		}
	}

	pad := r.style.PaddingPx
	width := cols*cellW + (cols-1)*pad
	height := rows*cellH + (rows-1)*pad

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.style.Background), image.Point{}, draw.Src)

	var markFace font.Face
	if layout.Marks.Enabled && layout.Mode != LayoutSingle {
		size := layout.Marks.SizePx
		if size <= 0 {
			size = 10
		}
		markFace, err = r.font.NewFaceAt(size)
		if err != nil {
			return nil, fmt.Errorf("create mark face: %w", err)
		}
		defer markFace.Close()
	}

	chars := make([]rune, 0, len(glyphs))
	for i, g := range glyphs {
		cellX := (i % cols) * (cellW + pad)
		cellY := (i / cols) * (cellH + pad)

		gb := g.Img.Bounds()
		// Center the glyph canvas in its cell.
		dx := cellX + (cellW-gb.Dx())/2
		dy := cellY + (cellH-gb.Dy())/2
		dst := image.Rect(dx, dy, dx+gb.Dx(), dy+gb.Dy())
		draw.Draw(img, dst, g.Img, gb.Min, draw.Src)

		if markFace != nil {
			drawMark(img, markFace, g.Char, cellX, cellY, layout.Marks)
		}

		chars = append(chars, g.Char)
	}

	return &Composed{Img: img, Chars: chars}, nil
}

// gridShape maps a layout onto a (columns, rows) cell arrangement for n
// glyphs.
func gridShape(layout Layout, n int) (cols, rows int, err error) {
	switch layout.Mode {
	case LayoutSingle:
		if n != 1 {
			return 0, 0, fmt.Errorf("single layout composes one glyph, got %d", n)
		}
		return 1, 1, nil
	case LayoutStrip:
		return n, 1, nil
	case LayoutGrid:
		cols = layout.Columns
		if cols < 1 {
			return 0, 0, fmt.Errorf("grid layout needs at least 1 column, got %d", cols)
		}
		if cols > n {
			cols = n
		}
		return cols, (n + cols - 1) / cols, nil
	default:
		return 0, 0, fmt.Errorf("unknown layout mode %v", layout.Mode)
	}
}

// drawMark draws the code-point label at the cell's top-left corner.
func drawMark(dst *image.NRGBA, face font.Face, c rune, cellX, cellY int, marks MarkStyle) {
	ink := marks.Color
	if ink == (color.NRGBA{}) {
		ink = color.NRGBA{R: 255, A: 255}
	}
	metrics := face.Metrics()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(cellX, cellY+metrics.Ascent.Ceil()),
	}
	d.DrawString(FormatPoint(c, marks.Radix, marks.ZeroFill))
}

// FormatPoint renders a code point as a mark label in the given radix.
// Hex is uppercase. A negative zeroFill selects the radix default: 2 for
// hex, 0 for dec, 3 for oct, 8 for bin.
func FormatPoint(c rune, radix, zeroFill int) string {
	if zeroFill < 0 {
		switch radix {
		case 16:
			zeroFill = 2
		case 8:
			zeroFill = 3
		case 2:
			zeroFill = 8
		default:
			zeroFill = 0
		}
	}
	s := strconv.FormatInt(int64(c), radix)
	if radix == 16 {
		s = strings.ToUpper(s)
	}
	if pad := zeroFill - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}
