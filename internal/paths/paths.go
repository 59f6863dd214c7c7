// Package paths centralizes file and directory names used across the project.
// All data directory file names are defined here as the single source of truth.
package paths

import "path/filepath"

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// Data directory file names.
const (
	ConfigFile   = "config.toml"
	LogFile      = "pickchar.log"
	FontCacheDir = "fonts"
	BinaryName   = "pickchar"
	DataDirRel   = ".pickchar" // relative to $HOME
)

// DefaultOutDir is the output directory used when none is configured.
const DefaultOutDir = "out"

// ///////////////////////////////////////////////
// DataDir
// ///////////////////////////////////////////////

// DataDir provides path construction methods rooted at a data directory.
type DataDir struct {
	Root string
}

// Config returns the full path to the config file.
func (d DataDir) Config() string { return filepath.Join(d.Root, ConfigFile) }

// Log returns the full path to the log file.
func (d DataDir) Log() string { return filepath.Join(d.Root, LogFile) }

// FontCache returns the full path to the downloaded-font cache directory.
func (d DataDir) FontCache() string { return filepath.Join(d.Root, FontCacheDir) }
