// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/parse"
	"github.com/bureau-foundation/argot/lib/suggest"
)

// Stages returns the canonical stage order with extra inserted after
// the result check, just before the command runs.
func Stages(extra ...Middleware) []Middleware {
	return append([]Middleware{
		NormalizeInput(),
		FindCommand(),
		ShowHelp(),
		ParseArguments(),
		CheckResult(),
	}, extra...)
}

// NormalizeInput fills env.Tokens from env.Input. Nil input means the
// process arguments after the program name, a []string is copied, and
// a string is split with shell quoting rules. Variable references in a
// string are expanded from the process environment.
func NormalizeInput() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env *Environment) error {
			switch input := env.Input.(type) {
			case nil:
				env.Tokens = slices.Clone(os.Args[1:])
			case []string:
				env.Tokens = slices.Clone(input)
			case string:
				fields, err := shell.Fields(input, nil)
				if err != nil {
					return &InputError{Input: input, Err: err}
				}
				env.Tokens = fields
			default:
				return &InputError{Input: fmt.Sprint(input), Err: fmt.Errorf("unsupported input type %T", input)}
			}
			if env.Tokens == nil {
				env.Tokens = []string{}
			}
			env.Logger.Debug("normalized input", "tokens", env.Tokens)
			return next(ctx, env)
		}
	}
}

// FindCommand routes env.Tokens through the command tree.
func FindCommand() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env *Environment) error {
			route, err := command.Resolve(env.Root, env.Tokens, env.Options.Route)
			if err != nil {
				return err
			}
			env.Route = route
			env.Target = route.Target
			env.Mode = route.Mode
			env.Global = route.Global()
			env.Args = route.Args()
			env.Logger.Debug("routed command",
				"target", route.Target.FullName(),
				"mode", route.Mode.String(),
				"global", env.Global,
				"args", env.Args,
			)
			return next(ctx, env)
		}
	}
}

// ShowHelp stops the run and writes the target's usage to Stdout when
// any routed token before the end-of-options marker is a help flag.
func ShowHelp() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env *Environment) error {
			if helpRequested(env) {
				env.Logger.Debug("help requested", "target", env.Target.FullName())
				return env.Options.Usage.Render(env.Stdout, env.Target.Schema())
			}
			return next(ctx, env)
		}
	}
}

func helpRequested(env *Environment) bool {
	if len(env.Options.HelpFlags) == 0 {
		return false
	}
	syntax := env.Options.Route.Syntax
	for _, level := range env.Route.Levels {
		args := level.Args
		for i := 0; i < len(args); i++ {
			if syntax.IsEndOfOptions(args[i]) {
				break
			}
			if slices.Contains(env.Options.HelpFlags, args[i]) {
				return true
			}
			// Skip the value a keyword consumes.
			if span, _ := syntax.OptionSpan(level.Command.Parameters, args, i); span > 1 {
				i += span - 1
			}
		}
	}
	return false
}

// ParseArguments binds every routed level's tokens to that level's
// parameters and merges the results into env.Result, deepest level
// winning. In global mode only the root is parsed; the stage then
// writes the usage of the namespace routing stopped at to Stderr and
// fails with [CommandRequiredError].
func ParseArguments() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env *Environment) error {
			syntax := env.Options.Route.Syntax
			levels := env.Route.Levels
			if env.Mode == command.ModeGlobal {
				levels = levels[:1]
			}

			var results []*parse.Result
			var errs []error
			for _, level := range levels {
				result, err := parse.Parse(level.Command.Parameters, level.Args, syntax)
				if err != nil {
					errs = append(errs, parse.WithCommand(err, level.Command.FullName()))
				}
				results = append(results, result)
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}

			env.Result = parse.Merge(results...)
			env.Extra = env.Result.Extra

			if env.Mode == command.ModeGlobal {
				if err := env.Options.Usage.Render(env.Stderr, env.Target.Schema()); err != nil {
					env.Logger.Debug("rendering usage failed", "error", err)
				}
				return &CommandRequiredError{Command: env.Target.FullName()}
			}
			return next(ctx, env)
		}
	}
}

// CheckResult rejects leftover tokens in strict mode with an
// [UnrecognizedArgError] carrying suggestions. Otherwise the tokens
// are logged and passed on to the command as Invocation.Extra.
func CheckResult() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env *Environment) error {
			if len(env.Extra) == 0 {
				return next(ctx, env)
			}
			if !env.Options.Strict {
				env.Logger.Debug("ignoring unrecognized arguments",
					"command", env.Target.FullName(),
					"tokens", env.Extra,
				)
				return next(ctx, env)
			}
			return unrecognized(env)
		}
	}
}

func unrecognized(env *Environment) error {
	syntax := env.Options.Route.Syntax

	var optionNames []string
	for _, level := range env.Route.Levels {
		optionNames = append(optionNames, syntax.Names(level.Command.Parameters)...)
	}
	var commandNames []string
	for _, sub := range env.Target.Subcommands {
		if !sub.Hidden {
			commandNames = append(commandNames, sub.Name)
		}
	}

	suggestions := make(map[string][]string)
	for _, token := range env.Extra {
		var found []string
		if syntax.IsOption(token) {
			name := token
			if syntax.AssignToken != "" {
				name, _, _ = strings.Cut(token, syntax.AssignToken)
			}
			found = suggest.Suggest(optionNames, name, env.Options.MaxDistance)
		} else {
			found = suggest.Suggest(slices.Concat(commandNames, optionNames), token, env.Options.MaxDistance)
		}
		if len(found) > 0 {
			suggestions[token] = found
		}
	}

	return &UnrecognizedArgError{
		Command:     env.Target.FullName(),
		Tokens:      slices.Clone(env.Extra),
		Suggestions: suggestions,
	}
}

// Invoke is the terminal handler: it runs the target's action with the
// bound values.
func Invoke(ctx context.Context, env *Environment) error {
	if env.Target.Action == nil {
		return &CommandRequiredError{Command: env.Target.FullName()}
	}
	invocation := &command.Invocation{
		Command:  env.Target,
		Path:     env.Route.Path(),
		Values:   env.Result.Values,
		Provided: env.Result.Provided,
		Stdout:   env.Stdout,
		Stderr:   env.Stderr,
		Logger:   env.Logger.With("command", env.Target.FullName()),
	}
	if !env.Options.Strict {
		invocation.Extra = env.Extra
	}
	env.Logger.Debug("invoking command", "command", env.Target.FullName(), "values", len(invocation.Values))
	return env.Target.Action(ctx, invocation)
}
