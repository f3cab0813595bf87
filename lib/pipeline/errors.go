// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/argot/lib/clierr"
)

var (
	// ErrUnrecognizedArgs is wrapped by [UnrecognizedArgError].
	ErrUnrecognizedArgs = errors.New("unrecognized arguments")
	// ErrCommandRequired is wrapped by [CommandRequiredError].
	ErrCommandRequired = errors.New("a command is required")
	// ErrInvalidInput is wrapped by [InputError].
	ErrInvalidInput = errors.New("invalid input")
)

// UnrecognizedArgError reports tokens that no parameter accepted, in
// strict mode.
type UnrecognizedArgError struct {
	// Command is the space-separated path of the target command.
	Command string
	Tokens  []string
	// Suggestions maps a token to the names it may have meant.
	Suggestions map[string][]string
}

func (e *UnrecognizedArgError) Error() string {
	var builder strings.Builder
	if e.Command != "" {
		builder.WriteString(e.Command + ": ")
	}
	builder.WriteString("unrecognized arguments: " + strings.Join(e.Tokens, " "))
	for _, token := range e.Tokens {
		if suggestions := e.Suggestions[token]; len(suggestions) > 0 {
			fmt.Fprintf(&builder, "\n  %s: did you mean %s?", token, strings.Join(suggestions, " or "))
		}
	}
	return builder.String()
}

// Unwrap returns [ErrUnrecognizedArgs].
func (e *UnrecognizedArgError) Unwrap() error { return ErrUnrecognizedArgs }

// Category reports clierr.CategoryUnrecognized.
func (e *UnrecognizedArgError) Category() clierr.Category { return clierr.CategoryUnrecognized }

// CommandRequiredError reports that routing stopped at a namespace with
// no action of its own.
type CommandRequiredError struct {
	Command string
}

func (e *CommandRequiredError) Error() string {
	return fmt.Sprintf("%s: a command is required (run '%s --help' for usage)", e.Command, e.Command)
}

// Unwrap returns [ErrCommandRequired].
func (e *CommandRequiredError) Unwrap() error { return ErrCommandRequired }

// Category reports clierr.CategoryUsage.
func (e *CommandRequiredError) Category() clierr.Category { return clierr.CategoryUsage }

// InputError reports a string input that could not be tokenized.
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cannot split %q into arguments: %v", e.Input, e.Err)
}

// Unwrap returns the cause and [ErrInvalidInput].
func (e *InputError) Unwrap() []error { return []error{e.Err, ErrInvalidInput} }

// Category reports clierr.CategoryUsage.
func (e *InputError) Category() clierr.Category { return clierr.CategoryUsage }
