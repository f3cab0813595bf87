// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package help presents command schemas to people and to programs.
//
// [Renderer] writes terminal help for a [command.Schema]: a usage
// line, the summary, the description (Markdown, reflowed to the
// terminal width), subcommands, positional arguments, an options
// table and examples. It satisfies the pipeline's usage renderer
// interface, so the same output appears for --help and for a
// namespace invoked without a subcommand. Styling goes through
// lipgloss with an explicit termenv profile; [termenv.Ascii] yields
// plain text.
//
// [JSONSchema] maps a command's parameters onto a JSON Schema object,
// and [EncodeSchema] writes a schema tree as indented JSON or as
// deterministic CBOR for tooling such as shell completion generators.
package help
