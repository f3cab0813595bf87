// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the settings that shape how a command line is
// read: strictness, the namespace separator, the option syntax,
// suggestion distance, exit codes, logging and help output.
//
// Settings come from a single file named by the ARGOT_CONFIG
// environment variable (via [Load]) or a --config option (via
// [LoadFile]). There is no discovery and no merging of several files.
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas; anything else is YAML. Unknown keys are errors.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. Environment
// variables never override individual settings.
//
// Key exports:
//
//   - [Settings] -- the loaded settings, starting from [Default]
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Settings.PipelineOptions] -- settings applied to a pipeline
//   - [NewLogger] -- the structured logger described by [LogSettings]
package config
