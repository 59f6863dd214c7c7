package output

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tools.zach/dev/pickchar/internal/render"
)

func testImage(chars string) *render.Composed {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	return &render.Composed{Img: img, Chars: []rune(chars)}
}

func TestWrite_PNG(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, Format: "png", Overwrite: true}

	desc, err := w.Write(testImage("A"), 0)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "A_0.png"); desc.Path != want {
		t.Errorf("Path = %q, want %q", desc.Path, want)
	}

	data, err := os.ReadFile(desc.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("written file is not a valid PNG: %v", err)
	}
}

func TestWrite_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := &Writer{Dir: dir, Format: "png", Overwrite: true}

	if _, err := w.Write(testImage("B"), 0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "B_0.png")); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestWrite_OverwritePolicy(t *testing.T) {
	dir := t.TempDir()

	refuse := &Writer{Dir: dir, Format: "png", Overwrite: false}
	if _, err := refuse.Write(testImage("C"), 0); err != nil {
		t.Fatalf("first write: %v", err)
	}

	before, err := os.ReadFile(filepath.Join(dir, "C_0.png"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	_, err = refuse.Write(testImage("C"), 0)
	if !errors.Is(err, ErrFileExists) {
		t.Errorf("second write err = %v, want ErrFileExists", err)
	}
	after, err := os.ReadFile(filepath.Join(dir, "C_0.png"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("refused write modified the existing file")
	}

	allow := &Writer{Dir: dir, Format: "png", Overwrite: true}
	if _, err := allow.Write(testImage("C"), 0); err != nil {
		t.Errorf("overwrite: %v", err)
	}
}

func TestWrite_Deterministic(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, Format: "png", Overwrite: true, Template: "{index}"}

	if _, err := w.Write(testImage("D"), 0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write(testImage("D"), 1); err != nil {
		t.Fatalf("Write: %v", err)
	}

	a, _ := os.ReadFile(filepath.Join(dir, "0.png"))
	b, _ := os.ReadFile(filepath.Join(dir, "1.png"))
	if !bytes.Equal(a, b) {
		t.Error("identical images encoded to different bytes")
	}
}

func TestWrite_Formats(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			w := &Writer{Dir: t.TempDir(), Format: format, Overwrite: true}
			desc, err := w.Write(testImage("E"), 0)
			if err != nil {
				t.Fatalf("Write: %v", err)
			}
			info, err := os.Stat(desc.Path)
			if err != nil {
				t.Fatalf("Stat: %v", err)
			}
			if info.Size() == 0 {
				t.Error("wrote empty file")
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	w := &Writer{Dir: t.TempDir(), Format: "jpeg"}
	if _, err := w.Write(testImage("F"), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		chars    string
		index    int
		fontName string
		want     string
	}{
		{"default", "", "A", 0, "", "A_0"},
		{"char_and_index", "{char}-{index}", "AB", 3, "", "AB-3"},
		{"point_hex", "{point}", "A", 0, "", "0041"},
		{"point_multi", "{point}", "AB", 0, "", "0041-0042"},
		{"font_name", "{font}_{char}", "A", 0, "Go Regular", "Go-Regular_A"},
		{"unsafe_char", "{char}_{index}", "/", 2, "", "U+002F_2"},
		{"non_ascii_char", "{char}", "é", 0, "", "U+00E9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Writer{Template: tt.template, FontName: tt.fontName}
			if got := w.expandTemplate([]rune(tt.chars), tt.index); got != tt.want {
				t.Errorf("expandTemplate = %q, want %q", got, tt.want)
			}
		})
	}
}
