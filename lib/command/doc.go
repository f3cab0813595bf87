// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package command defines the command tree and routes argument tokens
// through it.
//
// A tree is built from [Command] literals (or [New] and [Command.Add])
// at program start and validated once with [Command.Validate], which
// also links every command to its parent. After validation the tree is
// read-only and safe to route concurrently.
//
// [Resolve] walks the tokens of one command line and returns a [Route]:
// the chain of commands named, and for each level the tokens addressed
// to it. Options may appear before each name and belong to the
// namespace they follow. The [Mode] records the outcome:
//
//   - [ModeSingle]: the root itself is the command.
//   - [ModeGlobal]: routing stopped at a namespace without an Action.
//   - [ModeSubcommand]: a command below the root was resolved.
//
// A joined name such as "db:create" is split on the configured
// separator and routed as "db create". An unknown name yields a
// [NotFoundError] carrying the closest names the namespace offers.
//
// [Command.Schema] describes a command for help and schema export.
package command
