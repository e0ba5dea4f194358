package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPresetFile is the default preset file name.
const DefaultPresetFile = ".webscout"

// ErrPresetFileNotFound is returned when the preset file does not exist.
var ErrPresetFileNotFound = errors.New("preset file not found")

// PresetFile is the YAML shape of a user preset file.
//
// Example:
//
//	presets:
//	  golang:
//	    - go.dev
//	    - pkg.go.dev
//	  docs:
//	    - readthedocs.io
type PresetFile struct {
	// Presets maps preset names to domain suffix lists.
	Presets map[string][]string `yaml:"presets"`
}

// BuiltinPresets returns the built-in domain presets.
// Each preset maps to domain suffixes; a search result matches a preset when
// its host ends with any listed suffix. Returned as a fresh map so callers
// can merge user presets without mutating shared state.
func BuiltinPresets() map[string][]string {
	return map[string][]string{
		"github":        {"github.com", "gist.github.com"},
		"docs":          {"readthedocs.io", "docs.python.org", "developer.mozilla.org", "pkg.go.dev"},
		"tutorials":     {"realpython.com", "w3schools.com", "geeksforgeeks.org", "tutorialspoint.com"},
		"stackoverflow": {"stackoverflow.com", "stackexchange.com", "superuser.com", "serverfault.com"},
		"academic":      {".edu", "arxiv.org", "scholar.google.com", "semanticscholar.org"},
		"official":      {".gov", ".org"},
		"quality":       {"github.com", "stackoverflow.com", "readthedocs.io", "docs.python.org", "developer.mozilla.org", "wikipedia.org"},
	}
}

// LoadPresetFile loads domain presets from a YAML file.
// If the file does not exist, it returns ErrPresetFileNotFound.
// Callers should handle this error based on whether the path was
// explicitly specified by the user.
func LoadPresetFile(path string) (*PresetFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided preset path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPresetFileNotFound
		}
		return nil, err
	}

	var pf PresetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}

	if pf.Presets == nil {
		pf.Presets = make(map[string][]string)
	}

	return &pf, nil
}

// FindPresetFile searches for the preset file in the following order:
//  1. If presetPath is specified, use it directly
//  2. Look for .webscout in the current directory
//  3. Look for .webscout in the user's home directory
//  4. Look for presets.yaml in the XDG config directory
//
// Returns the path to the preset file if found, or empty string if not found.
func FindPresetFile(presetPath string) string {
	// If explicit path is provided, use it
	if presetPath != "" {
		if _, err := os.Stat(presetPath); err == nil {
			return presetPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdPreset := filepath.Join(cwd, DefaultPresetFile)
		if _, err := os.Stat(cwdPreset); err == nil {
			return cwdPreset
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homePreset := filepath.Join(home, DefaultPresetFile)
		if _, err := os.Stat(homePreset); err == nil {
			return homePreset
		}
	}

	// Check XDG config directory
	xdgPreset := filepath.Join(XDGConfigDir(), "presets.yaml")
	if _, err := os.Stat(xdgPreset); err == nil {
		return xdgPreset
	}

	return ""
}

// MergePresets overlays user presets onto the built-in table.
// A user preset with the same name as a built-in replaces it entirely;
// partial merging of suffix lists would make the effective filter hard
// to predict from the file alone.
func MergePresets(builtin, user map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(builtin)+len(user))
	for name, domains := range builtin {
		merged[name] = domains
	}
	for name, domains := range user {
		merged[name] = domains
	}
	return merged
}
