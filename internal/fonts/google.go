// Google Fonts download support.
//
// Font specs use the format "google:FAMILY:WEIGHT" (e.g. "google:Inter:800").
// The CSS API is queried with a modern User-Agent so it serves WOFF2, which
// [Load] converts to SFNT. Downloaded fonts are cached on disk so repeat
// runs stay offline.

package fonts

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	xfont "github.com/tdewolff/font"
	"tools.zach/dev/pickchar/internal/atomicfile"
)

// httpClient is a lazily-initialized retryablehttp client shared across all
// font fetches. Initialized once via httpClientOnce.
var (
	httpClient     *retryablehttp.Client
	httpClientOnce sync.Once
)

// getHTTPClient returns the shared retryable HTTP client, initializing it on
// first call.
func getHTTPClient() *retryablehttp.Client {
	httpClientOnce.Do(func() {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 2
		httpClient.HTTPClient.Timeout = 15 * time.Second
		httpClient.Logger = nil // suppress retryablehttp's default logging
	})
	return httpClient
}

// fontURLRe extracts the font file URL from the CSS response.
// Matches: url(https://fonts.gstatic.com/s/inter/v18/xxx.woff2)
var fontURLRe = regexp.MustCompile(`url\((https://fonts\.gstatic\.com/[^)]+)\)`)

// ParseGoogleFontSpec parses a "google:Family:Weight" spec into its parts.
// Returns family, weight, and whether the spec is valid.
func ParseGoogleFontSpec(spec string) (family, weight string, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] != "google" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// FetchGoogleFont downloads a font from Google Fonts, caching the result
// under cacheDir when it is non-empty. Returns the raw font bytes in SFNT
// (TTF/OTF) format, converting from WOFF2 if necessary.
func FetchGoogleFont(spec, cacheDir string) ([]byte, error) {
	family, weight, ok := ParseGoogleFontSpec(spec)
	if !ok {
		return nil, fmt.Errorf("invalid google font spec %q: expected google:FAMILY:WEIGHT", spec)
	}

	var cacheFile string
	if cacheDir != "" {
		cacheFile = filepath.Join(cacheDir, fmt.Sprintf("%s-%s.ttf", family, weight))
		if data, err := os.ReadFile(cacheFile); err == nil {
			return data, nil
		}
	}

	cssURL := fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s:wght@%s",
		url.QueryEscape(family), weight)

	fontURL, err := extractFontURL(cssURL, family, weight)
	if err != nil {
		return nil, err
	}

	fontData, err := download(fontURL, 10<<20)
	if err != nil {
		return nil, fmt.Errorf("downloading font file: %w", err)
	}

	if isWOFF2(fontURL, fontData) {
		sfnt, convErr := xfont.ToSFNT(fontData)
		if convErr != nil {
			return nil, fmt.Errorf("converting WOFF2 to SFNT: %w", convErr)
		}
		fontData = sfnt
	}

	if cacheFile != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err == nil {
			// Cache failures are non-fatal; the font data is already in hand.
			_ = atomicfile.Write(cacheFile, fontData, 0o644)
		}
	}

	return fontData, nil
}

// extractFontURL fetches the Google Fonts CSS and pulls the first font file
// URL out of it.
func extractFontURL(cssURL, family, weight string) (string, error) {
	req, err := retryablehttp.NewRequest("GET", cssURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	// Modern UA so the CSS API serves WOFF2 (we have a converter).
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := getHTTPClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching CSS from Google Fonts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("Google Fonts CSS API returned status %d for %s wght@%s", resp.StatusCode, family, weight)
	}

	cssBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading CSS response: %w", err)
	}

	matches := fontURLRe.FindSubmatch(cssBody)
	if matches == nil {
		return "", fmt.Errorf("no font URL found in Google Fonts CSS response for %s wght@%s", family, weight)
	}
	return string(matches[1]), nil
}

// download fetches a URL body up to limit bytes.
func download(fileURL string, limit int64) ([]byte, error) {
	resp, err := getHTTPClient().Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
