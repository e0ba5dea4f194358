// Package config manages webscout configuration.
//
// # Overview
//
// Configuration flows from three places, in increasing precedence:
//  1. Built-in defaults (NewConfig)
//  2. The environment (provider API keys, optionally via a .env file)
//  3. CLI flags
//
// The resulting Config is validated once with Validate() before any network
// or cache work begins, then passed through the application by dependency
// injection. There is no global configuration state.
//
// # Domain presets
//
// Presets name curated lists of domain suffixes used to filter search
// results ("github", "docs", "academic", ...). The built-in table can be
// extended or overridden with a YAML preset file, found via FindPresetFile.
//
// # XDG directories
//
// The cache database defaults to the XDG cache directory and the preset
// file search includes the XDG config directory, following the XDG Base
// Directory Specification.
package config
