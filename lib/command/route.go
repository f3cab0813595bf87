// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/parse"
	"github.com/bureau-foundation/argot/lib/suggest"
)

// Mode is the execution mode derived from routing.
type Mode uint8

const (
	// ModeSingle: the root has no subcommands and is the command.
	ModeSingle Mode = iota
	// ModeGlobal: the root has subcommands but none was named. Only the
	// global parameters are parsed; the caller prints usage and exits
	// non-zero.
	ModeGlobal
	// ModeSubcommand: a command below the root was resolved.
	ModeSubcommand
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeGlobal:
		return "global"
	case ModeSubcommand:
		return "subcommand"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// RouteOptions configures routing.
type RouteOptions struct {
	// Separator joins namespace and command names in one token
	// ("db:create"). Empty disables joined names.
	Separator string
	// Syntax tells routing which tokens are options and how many tokens
	// each option consumes.
	Syntax parse.Options
	// MaxDistance bounds suggestions for unknown commands.
	MaxDistance int
}

// DefaultRouteOptions returns ":" as the separator with the default
// option syntax.
func DefaultRouteOptions() RouteOptions {
	return RouteOptions{
		Separator:   ":",
		Syntax:      parse.DefaultOptions(),
		MaxDistance: suggest.DefaultMaxDistance,
	}
}

// Level is one command on the routed path with the tokens addressed
// to it.
type Level struct {
	Command *Command
	Args    []string
}

// Route is the outcome of routing a token list.
type Route struct {
	// Levels runs from the root to Target.
	Levels []Level
	Target *Command
	Mode   Mode
}

// Global returns the tokens addressed to the root.
func (r *Route) Global() []string { return r.Levels[0].Args }

// Args returns the tokens addressed to the target. In ModeGlobal and
// ModeSingle the target is the root, so Args equals Global.
func (r *Route) Args() []string { return r.Levels[len(r.Levels)-1].Args }

// Path returns the commands from the root to the target.
func (r *Route) Path() []*Command {
	path := make([]*Command, len(r.Levels))
	for i, level := range r.Levels {
		path[i] = level.Command
	}
	return path
}

// ErrCommandNotFound is wrapped by [NotFoundError].
var ErrCommandNotFound = errors.New("command not found")

// NotFoundError reports a token that names no subcommand.
type NotFoundError struct {
	// Path is the namespace path where the lookup failed.
	Path        []string
	Token       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	message := fmt.Sprintf("unknown command %q in %q", e.Token, strings.Join(e.Path, " "))
	switch len(e.Suggestions) {
	case 0:
	case 1:
		message += fmt.Sprintf(" (did you mean %q?)", e.Suggestions[0])
	default:
		message += " (did you mean one of " + quoted(e.Suggestions) + "?)"
	}
	return message
}

// Unwrap returns [ErrCommandNotFound].
func (e *NotFoundError) Unwrap() error { return ErrCommandNotFound }

// Category reports clierr.CategoryNotFound.
func (e *NotFoundError) Category() clierr.Category { return clierr.CategoryNotFound }

func quoted(names []string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(parts, ", ")
}

// Resolve routes tokens through the tree rooted at root.
//
// While the current command is a namespace, option tokens it declares
// are assigned to it together with their values, unknown option tokens
// are assigned to it as well (they surface later as extras), and the
// first other token must name a subcommand. A token containing the
// separator names several levels at once. Once a command without
// subcommands is reached, or "--" is seen, every remaining token is
// assigned to the current command.
//
// Routing that ends on a namespace targets that namespace when it has
// an Action. Otherwise the mode is [ModeGlobal], with the namespace as
// the target, so the caller can print its usage.
func Resolve(root *Command, tokens []string, options RouteOptions) (*Route, error) {
	route := &Route{Levels: []Level{{Command: root, Args: []string{}}}}
	if !root.IsNamespace() {
		route.Levels[0].Args = append(route.Levels[0].Args, tokens...)
		route.Target, route.Mode = root, ModeSingle
		return route, nil
	}

	current := root
	i := 0
	for i < len(tokens) && current.IsNamespace() {
		level := &route.Levels[len(route.Levels)-1]
		token := tokens[i]

		if options.Syntax.IsEndOfOptions(token) {
			break
		}
		if span, _ := options.Syntax.OptionSpan(current.Parameters, tokens, i); span > 0 {
			level.Args = append(level.Args, tokens[i:i+span]...)
			i += span
			continue
		}

		names := []string{token}
		if options.Separator != "" {
			names = strings.Split(token, options.Separator)
		}
		for _, name := range names {
			if !current.IsNamespace() {
				return nil, notFound(current, name, options)
			}
			sub, ok := current.Lookup(name)
			if !ok {
				return nil, notFound(current, name, options)
			}
			route.Levels = append(route.Levels, Level{Command: sub, Args: []string{}})
			current = sub
		}
		i++
	}

	last := &route.Levels[len(route.Levels)-1]
	last.Args = append(last.Args, tokens[i:]...)
	route.Target = current

	switch {
	case current == root && root.Action == nil:
		route.Mode = ModeGlobal
	case current.IsNamespace() && current.Action == nil:
		route.Mode = ModeGlobal
	case current == root:
		route.Mode = ModeSingle
	default:
		route.Mode = ModeSubcommand
	}
	return route, nil
}

func notFound(namespace *Command, token string, options RouteOptions) *NotFoundError {
	return &NotFoundError{
		Path:        namespace.Path(),
		Token:       token,
		Suggestions: suggest.Suggest(namespace.visibleNames(), token, options.MaxDistance),
	}
}
