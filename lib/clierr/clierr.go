// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clierr classifies the errors produced while resolving and
// running a command, and maps them to process exit codes.
//
// Each error type in the framework reports its [Category] through a
// Category() method. [ExitError] is the one condition that carries its
// own exit code; everything else maps to the caller's fallback code.
package clierr

import (
	"errors"
	"fmt"
)

// Category classifies framework errors so that the process boundary
// can decide what to print and which exit code to use without parsing
// message text.
type Category string

const (
	// CategoryConversion: a raw value could not be converted to its
	// declared type.
	CategoryConversion Category = "conversion"

	// CategoryConfiguration: the command tree or a parameter was
	// declared incorrectly (no converter for a type, duplicate names).
	// These surface while commands are registered, not while parsing.
	CategoryConfiguration Category = "configuration"

	// CategoryNotFound: a namespace or command token did not resolve.
	CategoryNotFound Category = "not_found"

	// CategoryUsage: a required parameter is missing or a bound value
	// is unusable.
	CategoryUsage Category = "usage"

	// CategoryUnrecognized: tokens were left over after binding and
	// strict mode is on.
	CategoryUnrecognized Category = "unrecognized"

	// CategoryExit: an intentional termination with an explicit code.
	CategoryExit Category = "exit"

	// CategoryInternal: anything the framework did not produce itself,
	// including errors returned by command actions.
	CategoryInternal Category = "internal"
)

// Categorized is implemented by every error type the framework
// defines.
type Categorized interface {
	error
	Category() Category
}

// CategoryOf returns the category of the first error in err's chain
// that reports one, or CategoryInternal.
func CategoryOf(err error) Category {
	var categorized Categorized
	if errors.As(err, &categorized) {
		return categorized.Category()
	}
	return CategoryInternal
}

// ExitError requests termination with a specific exit code. It passes
// through every pipeline stage untouched. When a command returns an
// ExitError the boundary exits with Code without printing anything;
// the command is expected to have written its own output.
type ExitError struct {
	Code int
}

// Exit returns an [ExitError] for code.
func Exit(code int) error {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the requested exit code.
func (e *ExitError) ExitCode() int { return e.Code }

// Category reports CategoryExit.
func (e *ExitError) Category() Category { return CategoryExit }

// ExitCode maps err to a process exit code: 0 for nil, the requested
// code for anything implementing ExitCode() int, and fallback for all
// other errors.
func ExitCode(err error, fallback int) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return fallback
}

// IsExit reports whether err carries an explicit exit code.
func IsExit(err error) bool {
	var coder interface{ ExitCode() int }
	return errors.As(err, &coder)
}
