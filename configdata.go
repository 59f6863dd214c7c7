// Package pickchar provides embedded assets for the pickchar tool.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML]. The CLI copies this file to the data directory on
// first run so users start from a documented config.
package pickchar

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, embedded
// at build time.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
