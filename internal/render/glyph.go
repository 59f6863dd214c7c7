package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"tools.zach/dev/pickchar/internal/fonts"
)

// ErrGlyphMissing indicates the font has no glyph for a requested
// character. It is recoverable: [Renderer.Batch] applies a
// [MissingPolicy], single-glyph callers decide for themselves.
var ErrGlyphMissing = errors.New("glyph missing from font")

// Glyph is one rendered character canvas.
type Glyph struct {
	Img  *image.NRGBA
	Char rune
}

// Renderer rasterizes characters from a single font with a fixed style.
// The font handle is read-only after load; each draw builds its own face,
// so a Renderer is safe for concurrent use.
type Renderer struct {
	font  *fonts.Font
	style Style
}

// New returns a Renderer drawing from f with the given style.
func New(f *fonts.Font, style Style) *Renderer {
	return &Renderer{font: f, style: style}
}

// Style returns the style the renderer draws with.
func (r *Renderer) Style() Style { return r.style }

// Font returns the font the renderer draws from.
func (r *Renderer) Font() *fonts.Font { return r.font }

// Glyph renders a single character. The canvas is the glyph's natural
// bounding box plus padding on all sides, background-filled, with the
// glyph centered, offset, and finally rotated when the style asks for it.
// A character the font has no glyph for returns [ErrGlyphMissing].
func (r *Renderer) Glyph(c rune) (*Glyph, error) {
	face, err := r.font.NewFace()
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()
	return r.drawGlyph(face, c)
}

// drawGlyph renders c using an already-built face. Faces are not safe
// for concurrent use, each worker in a batch owns its own.
func (r *Renderer) drawGlyph(face font.Face, c rune) (*Glyph, error) {
	if !r.font.HasGlyph(c) {
		return nil, fmt.Errorf("%w: %q (U+%04X) in %s", ErrGlyphMissing, c, c, r.font.Name())
	}

	s := string(c)
	bounds, _ := font.BoundString(face, s)
	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	pad := r.style.PaddingPx
	w := glyphW + 2*pad
	h := glyphH + 2*pad
	// A zero-area glyph (space) with zero padding would make a canvas
	// the encoders reject, so clamp to one pixel.
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.style.Background), image.Point{}, draw.Src)

	if glyphW > 0 && glyphH > 0 {
		// Center on the canvas, then apply the configured offset.
		originX := (w-glyphW)/2 - bounds.Min.X.Floor() + r.style.OffsetX
		originY := (h-glyphH)/2 - bounds.Min.Y.Floor() + r.style.OffsetY
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(r.style.Fill),
			Face: face,
			Dot:  fixed.P(originX, originY),
		}
		d.DrawString(s)
	}

	if r.style.RotationDegrees != 0 {
		img = rotate(img, r.style.RotationDegrees, r.style.Background)
	}
	return &Glyph{Img: img, Char: c}, nil
}

// placeholder renders the hollow box substituted for a missing glyph
// under [MissingBox]. The box is sized to the font size so it lines up
// with real glyphs in a composition.
func (r *Renderer) placeholder(c rune) *Glyph {
	size := r.font.SizePx()
	pad := r.style.PaddingPx
	w := size + 2*pad
	h := size + 2*pad

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.style.Background), image.Point{}, draw.Src)

	ink := image.NewUniform(r.style.Fill)
	box := image.Rect(pad, pad, pad+size, pad+size)
	const stroke = 1
	draw.Draw(img, image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+stroke), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(box.Min.X, box.Max.Y-stroke, box.Max.X, box.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(box.Min.X, box.Min.Y, box.Min.X+stroke, box.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(box.Max.X-stroke, box.Min.Y, box.Max.X, box.Max.Y), ink, image.Point{}, draw.Src)

	return &Glyph{Img: img, Char: c}
}
