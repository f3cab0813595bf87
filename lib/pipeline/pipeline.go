// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline turns raw input into one command invocation.
//
// A run threads an [Environment] through an onion of [Middleware]:
//
//	NormalizeInput -> FindCommand -> ShowHelp -> ParseArguments -> CheckResult -> Invoke
//
// Each stage either fills in its part of the environment and calls
// the next, or stops the run by returning an error. Errors propagate
// unchanged to [Pipeline.Run]; [Pipeline.Main] prints them and maps
// them to a process exit code. An explicit [clierr.Exit] passes
// through every stage untouched and supplies its own code.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/suggest"
)

// UsageRenderer writes the usage of a command. The help package
// provides the styled implementation.
type UsageRenderer interface {
	Render(w io.Writer, schema command.Schema) error
}

// Options configures a [Pipeline].
type Options struct {
	// Strict rejects tokens that no parameter accepts. When false they
	// are handed to the command as Invocation.Extra.
	Strict bool
	// Route configures the separator and option syntax.
	Route command.RouteOptions
	// HelpFlags short-circuit the run with usage output. Empty
	// disables help handling.
	HelpFlags []string
	// MaxDistance bounds suggestions for unrecognized tokens.
	MaxDistance int
	// ExitCode is the process exit code for errors other than
	// [clierr.ExitError].
	ExitCode int

	// Usage renders help and the usage shown when a command is
	// required. Nil selects a plain-text renderer.
	Usage UsageRenderer
	// Logger receives debug traces of each stage. Nil discards them.
	Logger *slog.Logger
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Middleware runs after CheckResult, just before the command.
	Middleware []Middleware
}

// DefaultOptions returns strict mode, ":" as the separator, -h and
// --help as help flags and exit code 1.
func DefaultOptions() Options {
	return Options{
		Strict:      true,
		Route:       command.DefaultRouteOptions(),
		HelpFlags:   []string{"-h", "--help"},
		MaxDistance: suggest.DefaultMaxDistance,
		ExitCode:    1,
	}
}

// Pipeline runs invocations against one command tree. It is immutable
// after [New] and safe for concurrent runs.
type Pipeline struct {
	root    *command.Command
	options Options
	handler Handler
}

// New validates the tree rooted at root and assembles the stages.
func New(root *command.Command, options Options) (*Pipeline, error) {
	if root == nil {
		return nil, fmt.Errorf("pipeline: nil root command")
	}
	if err := root.Validate(options.Route.Separator); err != nil {
		return nil, err
	}
	if options.Usage == nil {
		options.Usage = plainUsage{}
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Stderr == nil {
		options.Stderr = os.Stderr
	}
	if options.ExitCode == 0 {
		options.ExitCode = 1
	}

	return &Pipeline{
		root:    root,
		options: options,
		handler: Chain(Stages(options.Middleware...)...)(Invoke),
	}, nil
}

// Root returns the command tree.
func (p *Pipeline) Root() *command.Command { return p.root }

// Options returns the effective options.
func (p *Pipeline) Options() Options { return p.options }

// Run processes one input: nil for the process arguments, a []string,
// or a shell-style string.
func (p *Pipeline) Run(ctx context.Context, input any) error {
	env := &Environment{
		Input:   input,
		Root:    p.root,
		Options: p.options,
		Logger:  p.options.Logger,
		Stdout:  p.options.Stdout,
		Stderr:  p.options.Stderr,
	}
	return p.handler(ctx, env)
}

// Main runs input and returns the process exit code: 0 on success,
// the code of an explicit exit, or Options.ExitCode for any other
// error after printing it to Stderr.
func (p *Pipeline) Main(ctx context.Context, input any) int {
	err := p.Run(ctx, input)
	if err == nil {
		return 0
	}
	if clierr.IsExit(err) {
		return clierr.ExitCode(err, p.options.ExitCode)
	}
	p.options.Logger.Debug("command failed", "category", string(clierr.CategoryOf(err)), "error", err)
	fmt.Fprintf(p.options.Stderr, "error: %v\n", err)
	return clierr.ExitCode(err, p.options.ExitCode)
}

// plainUsage is the renderer used when none is configured.
type plainUsage struct{}

func (plainUsage) Render(w io.Writer, schema command.Schema) error {
	name := strings.Join(schema.Path, " ")
	switch {
	case schema.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", schema.Usage)
	case schema.Namespace():
		fmt.Fprintf(w, "Usage:\n  %s <command> [options]\n", name)
	default:
		fmt.Fprintf(w, "Usage:\n  %s [options]\n", name)
	}

	if len(schema.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range schema.Subcommands {
			fmt.Fprintf(writer, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	if len(schema.Parameters) > 0 {
		fmt.Fprintf(w, "\nParameters:\n")
		writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, parameter := range schema.Parameters {
			fmt.Fprintf(writer, "  %s\t%s\t%s\n", parameter.Name, parameter.Type, parameter.Description)
		}
		return writer.Flush()
	}
	return nil
}
