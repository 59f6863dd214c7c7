package render

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// MissingPolicy decides what a batch does with characters the font has no
// glyph for.
type MissingPolicy int

const (
	// MissingSkip drops the character and records a [CharError].
	MissingSkip MissingPolicy = iota
	// MissingBox substitutes a hollow placeholder box and records a
	// [CharError].
	MissingBox
	// MissingAbort fails the whole batch on the first missing glyph.
	MissingAbort
)

// ParseMissingPolicy parses the config/flag spelling of a policy.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "skip":
		return MissingSkip, nil
	case "box":
		return MissingBox, nil
	case "abort":
		return MissingAbort, nil
	default:
		return 0, fmt.Errorf("unknown missing-glyph policy %q (want skip, box, or abort)", s)
	}
}

func (p MissingPolicy) String() string {
	switch p {
	case MissingSkip:
		return "skip"
	case MissingBox:
		return "box"
	case MissingAbort:
		return "abort"
	default:
		return fmt.Sprintf("MissingPolicy(%d)", int(p))
	}
}

// CharError records a per-character rendering failure.
type CharError struct {
	Char rune
	Err  error
}

func (e CharError) Error() string {
	return fmt.Sprintf("char %q (U+%04X): %v", e.Char, e.Char, e.Err)
}

func (e CharError) Unwrap() error { return e.Err }

// Batch renders chars concurrently, bounded by GOMAXPROCS workers, each
// worker drawing through its own face. Results come back in input order.
// Missing glyphs are handled per policy; the returned CharError slice
// lists every character that was skipped or substituted. Any failure
// other than a missing glyph aborts the batch.
func (r *Renderer) Batch(chars []rune, policy MissingPolicy) ([]*Glyph, []CharError, error) {
	if len(chars) == 0 {
		return nil, nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(chars) {
		workers = len(chars)
	}

	results := make([]*Glyph, len(chars))
	errs := make([]error, len(chars))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			face, err := r.font.NewFace()
			if err != nil {
				for i := range jobs {
					errs[i] = fmt.Errorf("create face: %w", err)
				}
				return
			}
			defer face.Close()
			for i := range jobs {
				results[i], errs[i] = r.drawGlyph(face, chars[i])
			}
		}()
	}
	for i := range chars {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	glyphs := make([]*Glyph, 0, len(chars))
	var charErrs []CharError
	for i, err := range errs {
		if err == nil {
			glyphs = append(glyphs, results[i])
			continue
		}
		if !errors.Is(err, ErrGlyphMissing) {
			return nil, charErrs, err
		}
		switch policy {
		case MissingAbort:
			return nil, charErrs, err
		case MissingBox:
			charErrs = append(charErrs, CharError{Char: chars[i], Err: err})
			glyphs = append(glyphs, r.placeholder(chars[i]))
		default: // MissingSkip
			charErrs = append(charErrs, CharError{Char: chars[i], Err: err})
		}
	}
	return glyphs, charErrs, nil
}
