// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/parse"
)

// Environment carries one invocation through the pipeline. Each stage
// reads what earlier stages produced and fills in its own fields. A
// fresh Environment is created per run and discarded afterwards.
type Environment struct {
	// Input is the raw input: nil for the process arguments, a
	// []string, or a single shell-style string.
	Input any
	// Tokens is Input normalized to a token list.
	Tokens []string

	Root   *command.Command
	Route  *command.Route
	Target *command.Command
	Mode   command.Mode
	// Global holds the tokens addressed to the root, Args those
	// addressed to the target.
	Global []string
	Args   []string

	Result *parse.Result
	// Extra holds tokens no parameter accepted.
	Extra []string

	Options Options
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer

	values map[string]any
}

// Set stores an extension value for later stages.
func (e *Environment) Set(key string, value any) {
	if e.values == nil {
		e.values = make(map[string]any)
	}
	e.values[key] = value
}

// Get returns an extension value stored with [Environment.Set].
func (e *Environment) Get(key string) (any, bool) {
	value, ok := e.values[key]
	return value, ok
}

// Handler processes an environment.
type Handler func(ctx context.Context, env *Environment) error

// Middleware wraps the rest of the chain. It may work before or after
// calling next, or return without calling it to stop the run.
type Middleware func(next Handler) Handler

func chain(middleware ...Middleware) Middleware {
	return func(next Handler) Handler {
		if len(middleware) > 0 {
			return chain(middleware[1:]...)(middleware[0](next))
		}
		return next
	}
}

// Chain composes middleware so that the first one listed runs first.
func Chain(middleware ...Middleware) Middleware {
	reversed := make([]Middleware, len(middleware))
	for i := range middleware {
		reversed[len(middleware)-1-i] = middleware[i]
	}
	return chain(reversed...)
}
