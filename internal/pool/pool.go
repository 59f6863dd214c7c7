// Package pool resolves character pools and picks characters from them.
//
// A pool is built from up to three sources — a named preset, explicit
// characters, and inclusive ranges — merged in that order with duplicates
// removed. Resolution is a pure function of the [Spec]: it never looks at
// the font, so a pool can be resolved and validated before any file I/O.
package pool

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPool indicates that a [Spec] resolves to an empty or malformed
// character pool. It is a configuration error: non-retryable, reported
// before any rendering starts.
var ErrInvalidPool = errors.New("invalid character pool")

// ///////////////////////////////////////////////
// Presets
// ///////////////////////////////////////////////

// presets maps preset names to generator functions. Generators rather than
// literal strings so the larger ranges stay readable.
var presets = map[string]func() []rune{
	"digits":    func() []rune { return runeRange('0', '9') },
	"lowercase": func() []rune { return runeRange('a', 'z') },
	"uppercase": func() []rune { return runeRange('A', 'Z') },
	"letters":   func() []rune { return append(runeRange('A', 'Z'), runeRange('a', 'z')...) },
	"alnum":     func() []rune { return append(runeRange('0', '9'), append(runeRange('A', 'Z'), runeRange('a', 'z')...)...) },
	"hex":       func() []rune { return append(runeRange('0', '9'), runeRange('A', 'F')...) },
	"ascii":     func() []rune { return runeRange(0x20, 0x7E) },
	"latin1":    func() []rune { return append(runeRange(0x20, 0x7E), runeRange(0xA0, 0xFF)...) },
}

// PresetNames returns the sorted list of valid preset identifiers, for
// error messages and CLI help text.
func PresetNames() []string {
	return []string{"alnum", "ascii", "digits", "hex", "latin1", "letters", "lowercase", "uppercase"}
}

func runeRange(lo, hi rune) []rune {
	rs := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		rs = append(rs, r)
	}
	return rs
}

// ///////////////////////////////////////////////
// Spec and Resolve
// ///////////////////////////////////////////////

// Spec describes how to build a character pool.
type Spec struct {
	// Preset is a named character set ("digits", "lowercase", "uppercase",
	// "letters", "alnum", "hex", "ascii", "latin1"). Empty means no preset.
	Preset string
	// Chars is an explicit list of characters to include.
	Chars string
	// Ranges holds inclusive ranges like "A-Z" or "0x4E00-0x4EFF". When both
	// endpoints are single characters they are read literally; otherwise
	// they are parsed as code points (0x-prefixed hex or decimal).
	Ranges []string
	// MinPoint drops code points below this value. Zero is a no-op.
	MinPoint int
	// MaxPoint drops code points above this value. Negative means no limit.
	MaxPoint int
}

// Pool is an ordered sequence of unique characters available for picking.
type Pool []rune

// Resolve builds a [Pool] from the spec. The preset contributes first, then
// explicit chars, then ranges, preserving first-occurrence order and
// dropping duplicates. Returns [ErrInvalidPool] when the preset name is
// unknown, a range is malformed, or the final pool is empty.
func Resolve(spec Spec) (Pool, error) {
	var out Pool
	seen := make(map[rune]bool)
	add := func(rs []rune) {
		for _, r := range rs {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}

	if spec.Preset != "" {
		gen, ok := presets[spec.Preset]
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q (valid: %s)",
				ErrInvalidPool, spec.Preset, strings.Join(PresetNames(), ", "))
		}
		add(gen())
	}

	add([]rune(spec.Chars))

	for _, rng := range spec.Ranges {
		rs, err := parseRange(rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPool, err)
		}
		add(rs)
	}

	out = limitPoints(out, spec.MinPoint, spec.MaxPoint)

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no characters selected", ErrInvalidPool)
	}
	return out, nil
}

// Contains reports whether r is in the pool.
func (p Pool) Contains(r rune) bool {
	for _, c := range p {
		if c == r {
			return true
		}
	}
	return false
}

// String returns the pool as a plain string, for log output.
func (p Pool) String() string { return string([]rune(p)) }

// limitPoints filters the pool to code points within [min, max]. A negative
// max disables the upper bound.
func limitPoints(p Pool, min, max int) Pool {
	if min <= 0 && max < 0 {
		return p
	}
	out := p[:0]
	for _, r := range p {
		if int(r) < min {
			continue
		}
		if max >= 0 && int(r) > max {
			continue
		}
		out = append(out, r)
	}
	return out
}

// parseRange parses an inclusive range expression like "A-Z", "48-57" or
// "0x30-0x39" into its runes. Endpoints that are single characters are read
// literally, so "0-9" means the digit characters, not code points 0 through 9.
func parseRange(s string) ([]rune, error) {
	lo, rest, ok := cutEndpoint(s)
	if !ok {
		return nil, fmt.Errorf("malformed range %q: want LO-HI", s)
	}
	hi, rest, ok := cutEndpoint(rest)
	if !ok || rest != "" {
		return nil, fmt.Errorf("malformed range %q: want LO-HI", s)
	}
	if hi < lo {
		return nil, fmt.Errorf("malformed range %q: upper bound below lower bound", s)
	}
	return runeRange(lo, hi), nil
}

// cutEndpoint consumes one range endpoint from the front of s, returning the
// rune, the remainder after the separating "-", and whether parsing succeeded.
// The remainder is empty for the final endpoint.
func cutEndpoint(s string) (rune, string, bool) {
	if s == "" {
		return 0, "", false
	}

	// A single leading character followed by "-" (or end of string) is literal.
	rs := []rune(s)
	if len(rs) == 1 {
		return rs[0], "", true
	}
	if rs[1] == '-' && len(rs) > 2 {
		return rs[0], string(rs[2:]), true
	}

	// Otherwise the endpoint is a numeric code point up to the next "-".
	numStr, rest, found := strings.Cut(s, "-")
	if !found {
		numStr, rest = s, ""
	}
	var n int64
	var err error
	if strings.HasPrefix(numStr, "0x") || strings.HasPrefix(numStr, "0X") {
		n, err = strconv.ParseInt(numStr[2:], 16, 32)
	} else {
		n, err = strconv.ParseInt(numStr, 10, 32)
	}
	if err != nil || n < 0 {
		return 0, "", false
	}
	return rune(n), rest, true
}
