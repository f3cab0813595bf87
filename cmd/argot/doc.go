// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Argot is a small demonstration CLI built on the argot libraries. It
// exercises every routing mode and most converters:
//
//	argot greet NAME [--loud] [--greeting TEXT]
//	argot db create --name NAME [--owner USER]
//	argot db:migrate [--steps 1..99] [--dry-run]
//	argot net:serve [--port N] [--bind ADDR,...] [--mode http|https] [--timeout DURATION]
//	argot schema [PATH...] [--format text|json|cbor]
//	argot convert TYPE VALUE [--check]
//	argot version [--short]
//
// Global options (--config, --verbose/-v, --strict/--no-strict) come
// before the command. Settings are read from the file given by
// --config, or the file named by ARGOT_CONFIG, or defaults.
package main
