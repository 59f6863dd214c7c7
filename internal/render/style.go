// Package render rasterizes single characters from a loaded font onto
// padded canvases and composes them into single, strip, or grid images.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style holds the visual parameters applied to every rendered glyph.
type Style struct {
	// Fill is the ink color the glyph is drawn with.
	Fill color.NRGBA
	// Background fills the canvas before the glyph is drawn and any
	// border exposed by rotation afterwards.
	Background color.NRGBA
	// RotationDegrees rotates the finished canvas about its center,
	// clockwise-positive. Zero skips the rotation pass entirely.
	RotationDegrees float64
	// OffsetX and OffsetY translate the glyph from its centered
	// position, in pixels. Positive x moves right, positive y down.
	OffsetX int
	OffsetY int
	// PaddingPx is added on all four sides of the glyph's natural
	// bounding box, and reused as inter-cell spacing when composing.
	PaddingPx int
}

// ParseHexColor parses a "#RRGGBB" or "#RRGGBBAA" hex color string into a
// color.NRGBA. A 6-digit color is fully opaque.
func ParseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be 6 or 8 hex digits", hex)
	}
	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	a := uint64(255)
	if len(hex) == 8 {
		a, err = strconv.ParseUint(hex[6:8], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}
