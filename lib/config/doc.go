// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for mktorrent.
//
// Configuration is loaded from a single file specified by either the
// MKTORRENT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Running without a config file is
// normal: the command line alone is enough to build a torrent, and
// [Default] supplies the rest.
//
// Variable expansion is performed on the announce URL and the report
// path after loading: ${HOME} and ${VAR:-default} patterns are
// expanded. No environment variable overrides a config value directly.
//
// Key exports:
//
//   - [Config] -- announce URL, piece length, worker tuning, output
//   - [Default] -- returns a Config with defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other packages in this module.
package config
