package render

import (
	"errors"
	"testing"
)

func TestBatch_OrderStable(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white, PaddingPx: 2})

	chars := []rune("pickchar0123456789")
	glyphs, charErrs, err := r.Batch(chars, MissingAbort)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(charErrs) != 0 {
		t.Fatalf("unexpected char errors: %v", charErrs)
	}
	if len(glyphs) != len(chars) {
		t.Fatalf("got %d glyphs, want %d", len(glyphs), len(chars))
	}
	for i, g := range glyphs {
		if g.Char != chars[i] {
			t.Errorf("glyph %d = %q, want %q", i, g.Char, chars[i])
		}
	}
}

func TestBatch_MissingPolicies(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white, PaddingPx: 2})
	chars := []rune{'A', '中', 'B'}

	t.Run("skip", func(t *testing.T) {
		glyphs, charErrs, err := r.Batch(chars, MissingSkip)
		if err != nil {
			t.Fatalf("Batch: %v", err)
		}
		if len(glyphs) != 2 || glyphs[0].Char != 'A' || glyphs[1].Char != 'B' {
			t.Errorf("skip kept wrong glyphs: %v", glyphs)
		}
		if len(charErrs) != 1 || charErrs[0].Char != '中' {
			t.Errorf("charErrs = %v, want one entry for U+4E2D", charErrs)
		}
		if !errors.Is(charErrs[0], ErrGlyphMissing) {
			t.Errorf("charErrs[0] = %v, want ErrGlyphMissing", charErrs[0])
		}
	})

	t.Run("box", func(t *testing.T) {
		glyphs, charErrs, err := r.Batch(chars, MissingBox)
		if err != nil {
			t.Fatalf("Batch: %v", err)
		}
		if len(glyphs) != 3 {
			t.Fatalf("got %d glyphs, want 3", len(glyphs))
		}
		if glyphs[1].Char != '中' {
			t.Errorf("placeholder char = %q, want U+4E2D", glyphs[1].Char)
		}
		if len(charErrs) != 1 {
			t.Errorf("charErrs = %v, want one entry", charErrs)
		}
	})

	t.Run("abort", func(t *testing.T) {
		_, _, err := r.Batch(chars, MissingAbort)
		if !errors.Is(err, ErrGlyphMissing) {
			t.Errorf("err = %v, want ErrGlyphMissing", err)
		}
	})
}

func TestBatch_Empty(t *testing.T) {
	f := loadTestFont(t, 24)
	r := New(f, Style{Fill: black, Background: white})

	glyphs, charErrs, err := r.Batch(nil, MissingSkip)
	if err != nil || len(glyphs) != 0 || len(charErrs) != 0 {
		t.Errorf("Batch(nil) = (%v, %v, %v), want all empty", glyphs, charErrs, err)
	}
}

func TestParseMissingPolicy(t *testing.T) {
	tests := []struct {
		input string
		want  MissingPolicy
		ok    bool
	}{
		{"skip", MissingSkip, true},
		{"box", MissingBox, true},
		{"abort", MissingAbort, true},
		{"ignore", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseMissingPolicy(tt.input)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseMissingPolicy(%q) = (%v, %v), want %v", tt.input, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseMissingPolicy(%q): expected error", tt.input)
		}
	}
}
