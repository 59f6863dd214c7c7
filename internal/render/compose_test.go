package render

import (
	"bytes"
	"errors"
	"testing"
)

func renderBatch(t *testing.T, r *Renderer, chars string) []*Glyph {
	t.Helper()
	glyphs, charErrs, err := r.Batch([]rune(chars), MissingAbort)
	if err != nil || len(charErrs) != 0 {
		t.Fatalf("Batch(%q): %v %v", chars, err, charErrs)
	}
	return glyphs
}

func TestCompose_Empty(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white})

	_, err := r.Compose(nil, Layout{Mode: LayoutStrip})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("err = %v, want ErrEmptyBatch", err)
	}
}

func TestCompose_StripDimensions(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white, PaddingPx: 3})
	glyphs := renderBatch(t, r, "0123456789")

	var cellW, cellH int
	for _, g := range glyphs {
		if w := g.Img.Bounds().Dx(); w > cellW {
			cellW = w
		}
		if h := g.Img.Bounds().Dy(); h > cellH {
			cellH = h
		}
	}

	c, err := r.Compose(glyphs, Layout{Mode: LayoutStrip})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got, want := c.Img.Bounds().Dx(), 10*cellW+9*3; got != want {
		t.Errorf("strip width = %d, want %d", got, want)
	}
	if got, want := c.Img.Bounds().Dy(), cellH; got != want {
		t.Errorf("strip height = %d, want %d", got, want)
	}
	if string(c.Chars) != "0123456789" {
		t.Errorf("Chars = %q, want pick order preserved", string(c.Chars))
	}
}

func TestCompose_GridRows(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white, PaddingPx: 2})

	tests := []struct {
		name     string
		chars    string
		columns  int
		wantRows int
		wantCols int
	}{
		{"exact", "ABCDEF", 3, 2, 3},
		{"ragged_last_row", "ABCDEFG", 3, 3, 3},
		{"single_row", "AB", 5, 1, 2},
		{"one_column", "ABC", 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glyphs := renderBatch(t, r, tt.chars)

			var cellW, cellH int
			for _, g := range glyphs {
				if w := g.Img.Bounds().Dx(); w > cellW {
					cellW = w
				}
				if h := g.Img.Bounds().Dy(); h > cellH {
					cellH = h
				}
			}

			c, err := r.Compose(glyphs, Layout{Mode: LayoutGrid, Columns: tt.columns})
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			wantW := tt.wantCols*cellW + (tt.wantCols-1)*2
			wantH := tt.wantRows*cellH + (tt.wantRows-1)*2
			if c.Img.Bounds().Dx() != wantW || c.Img.Bounds().Dy() != wantH {
				t.Errorf("grid = %dx%d, want %dx%d",
					c.Img.Bounds().Dx(), c.Img.Bounds().Dy(), wantW, wantH)
			}
		})
	}
}

func TestCompose_GridNeedsColumns(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white})
	glyphs := renderBatch(t, r, "AB")

	if _, err := r.Compose(glyphs, Layout{Mode: LayoutGrid}); err == nil {
		t.Error("expected error for grid with zero columns")
	}
}

func TestCompose_SingleRequiresOneGlyph(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white})

	one := renderBatch(t, r, "A")
	if _, err := r.Compose(one, Layout{Mode: LayoutSingle}); err != nil {
		t.Errorf("Compose single: %v", err)
	}

	two := renderBatch(t, r, "AB")
	if _, err := r.Compose(two, Layout{Mode: LayoutSingle}); err == nil {
		t.Error("expected error composing two glyphs as single")
	}
}

func TestCompose_Deterministic(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white, PaddingPx: 2})
	glyphs := renderBatch(t, r, "XYZ")

	a, err := r.Compose(glyphs, Layout{Mode: LayoutStrip})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b, err := r.Compose(glyphs, Layout{Mode: LayoutStrip})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !bytes.Equal(a.Img.Pix, b.Img.Pix) {
		t.Error("two compositions of the same batch differ")
	}
}

func TestCompose_MarksChangeOutput(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white, PaddingPx: 4})
	glyphs := renderBatch(t, r, "AB")

	plain, err := r.Compose(glyphs, Layout{Mode: LayoutStrip})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	marked, err := r.Compose(glyphs, Layout{
		Mode:  LayoutStrip,
		Marks: MarkStyle{Enabled: true, Radix: 16, ZeroFill: -1},
	})
	if err != nil {
		t.Fatalf("Compose with marks: %v", err)
	}
	if bytes.Equal(plain.Img.Pix, marked.Img.Pix) {
		t.Error("marks did not change the composition")
	}
}

func TestFormatPoint(t *testing.T) {
	tests := []struct {
		name     string
		char     rune
		radix    int
		zeroFill int
		want     string
	}{
		{"hex_default_fill", 'A', 16, -1, "41"},
		{"hex_upper", 'ÿ', 16, -1, "FF"},
		{"hex_wide_fill", 'A', 16, 4, "0041"},
		{"dec_default_no_fill", 'A', 10, -1, "65"},
		{"oct_default_fill", '\a', 8, -1, "007"},
		{"bin_default_fill", 'A', 2, -1, "01000001"},
		{"explicit_zero_fill", 'A', 16, 0, "41"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPoint(tt.char, tt.radix, tt.zeroFill); got != tt.want {
				t.Errorf("FormatPoint(%q, %d, %d) = %q, want %q",
					tt.char, tt.radix, tt.zeroFill, got, tt.want)
			}
		})
	}
}

func TestParseLayoutMode(t *testing.T) {
	tests := []struct {
		input string
		want  LayoutMode
		ok    bool
	}{
		{"single", LayoutSingle, true},
		{"strip", LayoutStrip, true},
		{"horizontal-strip", LayoutStrip, true},
		{"grid", LayoutGrid, true},
		{"vertical", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseLayoutMode(tt.input)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseLayoutMode(%q) = (%v, %v), want %v", tt.input, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseLayoutMode(%q): expected error", tt.input)
		}
	}
}
