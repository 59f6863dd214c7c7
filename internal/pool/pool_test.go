package pool

import (
	"errors"
	"testing"
)

// ///////////////////////////////////////////////
// Resolve
// ///////////////////////////////////////////////

func TestResolve_Presets(t *testing.T) {
	tests := []struct {
		name    string
		preset  string
		wantLen int
		first   rune
		last    rune
	}{
		{"digits", "digits", 10, '0', '9'},
		{"lowercase", "lowercase", 26, 'a', 'z'},
		{"uppercase", "uppercase", 26, 'A', 'Z'},
		{"letters", "letters", 52, 'A', 'z'},
		{"alnum", "alnum", 62, '0', 'z'},
		{"hex", "hex", 16, '0', 'F'},
		{"ascii", "ascii", 95, ' ', '~'},
		{"latin1", "latin1", 95 + 96, ' ', 0xFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(Spec{Preset: tt.preset, MaxPoint: -1})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(p) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(p), tt.wantLen)
			}
			if p[0] != tt.first {
				t.Errorf("first = %q, want %q", p[0], tt.first)
			}
			if p[len(p)-1] != tt.last {
				t.Errorf("last = %q, want %q", p[len(p)-1], tt.last)
			}
		})
	}
}

func TestResolve_UnknownPreset(t *testing.T) {
	_, err := Resolve(Spec{Preset: "klingon", MaxPoint: -1})
	if !errors.Is(err, ErrInvalidPool) {
		t.Errorf("err = %v, want ErrInvalidPool", err)
	}
}

func TestResolve_ExplicitChars(t *testing.T) {
	p, err := Resolve(Spec{Chars: "ABC", MaxPoint: -1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.String() != "ABC" {
		t.Errorf("pool = %q, want %q", p.String(), "ABC")
	}
}

func TestResolve_Deduplicates(t *testing.T) {
	p, err := Resolve(Spec{Chars: "AABBA", MaxPoint: -1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.String() != "AB" {
		t.Errorf("pool = %q, want %q (first occurrence order)", p.String(), "AB")
	}
}

func TestResolve_MergeOrder(t *testing.T) {
	// Preset first, then chars, then ranges; duplicates keep first position.
	p, err := Resolve(Spec{Preset: "digits", Chars: "A5", Ranges: []string{"B-C"}, MaxPoint: -1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.String() != "0123456789ABC" {
		t.Errorf("pool = %q, want %q", p.String(), "0123456789ABC")
	}
}

func TestResolve_Ranges(t *testing.T) {
	tests := []struct {
		name  string
		rng   string
		want  string
		isErr bool
	}{
		{"literal_chars", "A-E", "ABCDE", false},
		{"literal_digits", "0-9", "0123456789", false},
		{"hex_points", "0x41-0x45", "ABCDE", false},
		{"decimal_points", "65-69", "ABCDE", false},
		{"single_char_is_error", "A", "", true},
		{"reversed", "Z-A", "", true},
		{"garbage", "foo-bar", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(Spec{Ranges: []string{tt.rng}, MaxPoint: -1})
			if tt.isErr {
				if !errors.Is(err, ErrInvalidPool) {
					t.Errorf("err = %v, want ErrInvalidPool", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if p.String() != tt.want {
				t.Errorf("pool = %q, want %q", p.String(), tt.want)
			}
		})
	}
}

func TestResolve_PointLimits(t *testing.T) {
	p, err := Resolve(Spec{Preset: "uppercase", MinPoint: 'C', MaxPoint: 'E'})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.String() != "CDE" {
		t.Errorf("pool = %q, want %q", p.String(), "CDE")
	}
}

func TestResolve_LimitsEmptyPool(t *testing.T) {
	_, err := Resolve(Spec{Preset: "digits", MinPoint: 'a', MaxPoint: 'z'})
	if !errors.Is(err, ErrInvalidPool) {
		t.Errorf("err = %v, want ErrInvalidPool", err)
	}
}

func TestResolve_Empty(t *testing.T) {
	_, err := Resolve(Spec{MaxPoint: -1})
	if !errors.Is(err, ErrInvalidPool) {
		t.Errorf("err = %v, want ErrInvalidPool", err)
	}
}

// ///////////////////////////////////////////////
// Contains
// ///////////////////////////////////////////////

func TestContains(t *testing.T) {
	p := Pool("abc")
	if !p.Contains('b') {
		t.Error("expected pool to contain 'b'")
	}
	if p.Contains('z') {
		t.Error("expected pool not to contain 'z'")
	}
}
