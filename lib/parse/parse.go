// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package parse binds argument tokens to declared parameters.
//
// Tokens bind by position (positional parameters), by --name value or
// --name=value (keywords), or by presence (flags). Every bound string
// goes through the parameter's converter. Tokens that name no
// parameter, keywords missing their value, and surplus positionals
// are collected in [Result.Extra] rather than failing, so the caller
// decides how strict to be. Missing required parameters and values
// that fail conversion are [UsageError]s.
package parse

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/param"
)

// ErrUsage is wrapped by every [UsageError].
var ErrUsage = errors.New("usage error")

// ErrMissing is the cause of a [UsageError] for a required parameter
// that received no value.
var ErrMissing = errors.New("missing required value")

// UsageError reports a parameter that could not be bound.
type UsageError struct {
	// Command is the space-separated command path, when known.
	Command   string
	Parameter string
	Err       error
	// Unbound lists the tokens no parameter took, for a missing value.
	Unbound []string
}

func (e *UsageError) Error() string {
	message := fmt.Sprintf("%s: %v", e.Parameter, e.Err)
	if e.Command != "" {
		message = e.Command + ": " + message
	}
	if len(e.Unbound) > 0 {
		message += " (unbound: " + strings.Join(e.Unbound, " ") + ")"
	}
	return message
}

// Unwrap returns the cause and [ErrUsage].
func (e *UsageError) Unwrap() []error { return []error{e.Err, ErrUsage} }

// Category reports clierr.CategoryUsage.
func (e *UsageError) Category() clierr.Category { return clierr.CategoryUsage }

// WithCommand stamps command onto every [UsageError] in err, including
// those joined with errors.Join, and returns err.
func WithCommand(err error, command string) error {
	var visit func(error)
	visit = func(err error) {
		switch typed := err.(type) {
		case *UsageError:
			if typed.Command == "" {
				typed.Command = command
			}
		case interface{ Unwrap() []error }:
			for _, inner := range typed.Unwrap() {
				visit(inner)
			}
		}
	}
	visit(err)
	return err
}

// Result is the outcome of binding one token list.
type Result struct {
	// Values holds a value for every parameter that was given, had an
	// environment fallback, or has a default.
	Values map[string]any
	// Provided records which parameters were given on the command line
	// or through the environment, as opposed to defaulted.
	Provided map[string]bool
	// Extra holds the tokens that could not be bound, in input order.
	Extra []string
}

func newResult() *Result {
	return &Result{Values: make(map[string]any), Provided: make(map[string]bool)}
}

// Parse binds tokens to params. On error the partial result is still
// returned, so callers can report extras alongside usage errors.
func Parse(params []*param.Parameter, tokens []string, options Options) (*Result, error) {
	result := newResult()
	var positionals []*param.Parameter
	for _, parameter := range params {
		if parameter.Role() == param.RolePositional {
			positionals = append(positionals, parameter)
		}
	}

	var errs []error
	failed := make(map[string]bool)
	bind := func(parameter *param.Parameter, raw string) {
		value, err := parameter.Convert(raw)
		if err != nil {
			errs = append(errs, &UsageError{Parameter: parameter.Name(), Err: err})
			failed[parameter.Name()] = true
			return
		}
		result.set(parameter, value)
	}

	position := 0
	optionsEnded := false
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if !optionsEnded && options.IsEndOfOptions(token) {
			optionsEnded = true
			continue
		}

		if !optionsEnded && options.IsOption(token) {
			found, ok := options.lookup(params, token)
			if !ok {
				result.Extra = append(result.Extra, token)
				continue
			}
			parameter := found.parameter
			switch {
			case parameter.Role() == param.RoleFlag && found.hasInline:
				bind(parameter, found.inline)
			case parameter.Role() == param.RoleFlag:
				result.set(parameter, !found.negated)
			case found.hasInline:
				bind(parameter, found.inline)
			case i+1 < len(tokens):
				i++
				bind(parameter, tokens[i])
			default:
				result.Extra = append(result.Extra, token)
			}
			continue
		}

		if position >= len(positionals) {
			result.Extra = append(result.Extra, token)
			continue
		}
		parameter := positionals[position]
		bind(parameter, token)
		if parameter.Arity() != param.ArityRemaining {
			position++
		}
	}

	for _, parameter := range params {
		name := parameter.Name()
		if result.Provided[name] || failed[name] {
			continue
		}
		if variable := parameter.Env(); variable != "" {
			if raw, ok := options.lookupEnv(variable); ok {
				value, err := convertEnv(parameter, raw)
				if err != nil {
					errs = append(errs, &UsageError{Parameter: name,
						Err: fmt.Errorf("environment variable %s: %w", variable, err)})
				} else {
					result.Values[name], result.Provided[name] = value, true
				}
				continue
			}
		}
		if value, ok := parameter.Default(); ok {
			result.Values[name] = value
			continue
		}
		errs = append(errs, &UsageError{Parameter: name, Err: ErrMissing, Unbound: slices.Clone(result.Extra)})
	}

	return result, errors.Join(errs...)
}

// set records a bound value. Parameters collecting remaining values
// append to a list; others keep the last value.
func (r *Result) set(parameter *param.Parameter, value any) {
	name := parameter.Name()
	if parameter.Arity() == param.ArityRemaining {
		list, _ := r.Values[name].([]any)
		if !r.Provided[name] {
			list = nil
		}
		r.Values[name] = append(list, value)
	} else {
		r.Values[name] = value
	}
	r.Provided[name] = true
}

// convertEnv converts an environment value. Parameters collecting
// several values read a comma-separated list.
func convertEnv(parameter *param.Parameter, raw string) (any, error) {
	if parameter.Arity() != param.ArityRemaining {
		return parameter.Convert(raw)
	}
	values := []any{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		value, err := parameter.Convert(part)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// Merge combines results from successive command levels. A later
// result's value wins when it was provided, or when no earlier result
// has one. Extras are concatenated in order.
func Merge(results ...*Result) *Result {
	merged := newResult()
	for _, result := range results {
		if result == nil {
			continue
		}
		for name, value := range result.Values {
			if _, exists := merged.Values[name]; !exists || result.Provided[name] {
				merged.Values[name] = value
			}
		}
		for name, provided := range result.Provided {
			if provided {
				merged.Provided[name] = true
			}
		}
		merged.Extra = append(merged.Extra, result.Extra...)
	}
	return merged
}
