// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/param"
)

// Action runs a resolved command.
type Action func(ctx context.Context, invocation *Invocation) error

// Command is a node of the command tree.
type Command struct {
	// Name is the command name as typed by the user (e.g., "db", "create").
	Name string

	// Summary is a one-line description shown in the parent's help listing.
	Summary string

	// Description is a detailed description shown in the command's own
	// help output. It may contain Markdown.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	// Examples are shown in the help output after the description.
	Examples []Example

	// Aliases are alternative names accepted in place of Name.
	Aliases []string

	// Parameters are the compiled parameters, in declaration order.
	// A namespace may declare options and flags but no positionals.
	Parameters []*param.Parameter

	// Subcommands make this command a namespace. Order is kept for help.
	Subcommands []*Command

	// Action runs the command. A namespace with an Action runs it when
	// no subcommand is named.
	Action Action

	// Hidden commands route normally but are left out of help and
	// suggestions.
	Hidden bool

	parent *Command
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string `json:"description,omitempty"`
	// Command is the literal command line.
	Command string `json:"command"`
}

// Invocation is what an [Action] receives: the resolved command and its
// bound values.
type Invocation struct {
	Command *Command
	// Path runs from the root to Command.
	Path []*Command
	// Values holds the merged values of every level of Path.
	Values map[string]any
	// Provided records which values came from the command line or the
	// environment rather than defaults.
	Provided map[string]bool
	// Extra holds unbound tokens when strict checking is off.
	Extra []string

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Value returns the bound value for name.
func (i *Invocation) Value(name string) (any, bool) {
	value, ok := i.Values[name]
	return value, ok
}

// Has reports whether name was given explicitly.
func (i *Invocation) Has(name string) bool { return i.Provided[name] }

// String returns the value for name as a string, or "".
func (i *Invocation) String(name string) string {
	value, _ := i.Values[name].(string)
	return value
}

// Bool returns the value for name as a bool, or false.
func (i *Invocation) Bool(name string) bool {
	value, _ := i.Values[name].(bool)
	return value
}

// Int returns the value for name as an int, or 0.
func (i *Invocation) Int(name string) int {
	value, _ := i.Values[name].(int)
	return value
}

// Bind writes the bound values into the tagged fields of params. See
// [param.Bind].
func (i *Invocation) Bind(params any) error {
	return param.Bind(i.Values, params)
}

// New returns a command with the given name and parameters.
func New(name string, parameters ...*param.Parameter) *Command {
	return &Command{Name: name, Parameters: parameters}
}

// Add appends subcommands and returns c.
func (c *Command) Add(subcommands ...*Command) *Command {
	c.Subcommands = append(c.Subcommands, subcommands...)
	for _, sub := range subcommands {
		sub.parent = c
	}
	return c
}

// IsNamespace reports whether c has subcommands.
func (c *Command) IsNamespace() bool { return len(c.Subcommands) > 0 }

// Parent returns the enclosing command, or nil for the root or a
// command not yet linked by [Command.Validate] or [Command.Add].
func (c *Command) Parent() *Command { return c.parent }

// Lookup finds a direct subcommand by name or alias.
func (c *Command) Lookup(name string) (*Command, bool) {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub, true
		}
	}
	for _, sub := range c.Subcommands {
		for _, alias := range sub.Aliases {
			if alias == name {
				return sub, true
			}
		}
	}
	return nil, false
}

// Path returns the names from the root to c.
func (c *Command) Path() []string {
	if c.parent == nil {
		return []string{c.Name}
	}
	return append(c.parent.Path(), c.Name)
}

// FullName returns the space-separated command path (e.g., "argot db create").
func (c *Command) FullName() string {
	return strings.Join(c.Path(), " ")
}

// visibleNames lists the names and aliases of non-hidden subcommands.
func (c *Command) visibleNames() []string {
	var names []string
	for _, sub := range c.Subcommands {
		if sub.Hidden {
			continue
		}
		names = append(names, sub.Name)
		names = append(names, sub.Aliases...)
	}
	return names
}

// ErrInvalidTree is wrapped by every error [Command.Validate] returns.
var ErrInvalidTree = errors.New("invalid command tree")

// TreeError reports a structural problem at one command.
type TreeError struct {
	Command string
	Err     error
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Command, e.Err)
}

// Unwrap returns the cause and [ErrInvalidTree].
func (e *TreeError) Unwrap() []error { return []error{e.Err, ErrInvalidTree} }

// Category reports clierr.CategoryConfiguration.
func (e *TreeError) Category() clierr.Category { return clierr.CategoryConfiguration }

// Validate checks the tree rooted at c and links every command to its
// parent. separator is the namespace separator, which command names
// must not contain.
//
// Rules: names are non-empty, contain no whitespace or separator, and
// do not start with '-'; names and aliases are unique among siblings;
// namespaces declare no positional parameters; every command without
// subcommands has an Action.
func (c *Command) Validate(separator string) error {
	fail := func(format string, args ...any) error {
		return &TreeError{Command: c.FullName(), Err: fmt.Errorf(format, args...)}
	}

	for _, name := range append([]string{c.Name}, c.Aliases...) {
		switch {
		case name == "":
			return fail("empty name or alias")
		case strings.HasPrefix(name, "-"):
			return fail("name %q starts with '-'", name)
		case strings.ContainsAny(name, " \t\n"):
			return fail("name %q contains whitespace", name)
		case separator != "" && strings.Contains(name, separator):
			return fail("name %q contains the separator %q", name, separator)
		}
	}

	if c.IsNamespace() {
		for _, parameter := range c.Parameters {
			if parameter.Role() == param.RolePositional {
				return fail("namespace declares positional parameter %q", parameter.Name())
			}
		}
	} else if c.Action == nil {
		return fail("no action and no subcommands")
	}

	seen := make(map[string]string)
	for _, sub := range c.Subcommands {
		if sub == nil {
			return fail("nil subcommand")
		}
		for _, name := range append([]string{sub.Name}, sub.Aliases...) {
			if owner, exists := seen[name]; exists {
				return fail("subcommand name %q used by both %q and %q", name, owner, sub.Name)
			}
			seen[name] = sub.Name
		}
		sub.parent = c
		if err := sub.Validate(separator); err != nil {
			return err
		}
	}
	return nil
}
