// SPDX-License-Identifier: MPL-2.0

// Package config handles recipekit configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from ~/.config/recipekit/config.cue (the XDG
// equivalent on Linux, ~/Library/Application Support/recipekit/config.cue on
// macOS, %APPDATA%\recipekit\config.cue on Windows), or from config.cue in the
// current directory. Files are validated against an embedded CUE schema
// (config_schema.cue) before they are merged over the defaults, and
// RECIPEKIT_* environment variables override both.
package config
