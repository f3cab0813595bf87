// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package param describes the parameters a command accepts.
//
// A parameter is declared as a [Spec] with one of the constructors
// [Positional], [Keyword] or [Flag], refined with [Option] values, and
// compiled against a converter registry with [Compile]. Compilation
// resolves every parameter's converter up front, so a type without a
// converter is reported while commands are being declared rather than
// when a user first passes the parameter. Compiled parameters are
// immutable.
//
// Parameters can also be declared from struct tags with [FromStruct],
// and parse results written back into the same struct with [Bind].
package param

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

// Role says how a parameter receives its value.
type Role uint8

const (
	// RolePositional parameters bind by position.
	RolePositional Role = iota
	// RoleKeyword parameters bind from --name value or --name=value.
	RoleKeyword
	// RoleFlag parameters are booleans set by presence alone.
	RoleFlag
)

func (r Role) String() string {
	switch r {
	case RolePositional:
		return "positional"
	case RoleKeyword:
		return "keyword"
	case RoleFlag:
		return "flag"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Arity says how many values a parameter collects.
type Arity uint8

const (
	// ArityOne binds a single value. A repeated keyword keeps the last.
	ArityOne Arity = iota
	// ArityRemaining collects values into a list: every remaining
	// positional token, or every occurrence of a keyword.
	ArityRemaining
)

// ErrDeclaration is wrapped by every error [Compile] returns.
var ErrDeclaration = errors.New("invalid parameter declaration")

// DeclarationError reports a parameter that cannot be compiled.
type DeclarationError struct {
	Parameter string
	Err       error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("parameter %q: %v", e.Parameter, e.Err)
}

// Unwrap returns the cause and [ErrDeclaration].
func (e *DeclarationError) Unwrap() []error { return []error{e.Err, ErrDeclaration} }

// Category reports clierr.CategoryConfiguration.
func (e *DeclarationError) Category() clierr.Category { return clierr.CategoryConfiguration }

// Spec is the declared shape of a parameter before compilation.
type Spec struct {
	Name        string
	Descriptor  typedesc.Descriptor
	Role        Role
	Arity       Arity
	Aliases     []string
	Description string

	// Default is a typed default value. DefaultRaw is a default in
	// command-line syntax, converted during compilation. Setting either
	// makes the parameter optional.
	Default    any
	HasDefault bool
	DefaultRaw string
	HasRaw     bool

	// Env names an environment variable consulted when the parameter
	// is not given on the command line. It takes precedence over the
	// default.
	Env string

	// Hidden parameters bind normally but are left out of help output.
	Hidden bool
}

// Option refines a [Spec].
type Option func(*Spec)

// Positional declares a parameter bound by position.
func Positional(name string, descriptor typedesc.Descriptor, options ...Option) Spec {
	return newSpec(name, descriptor, RolePositional, options)
}

// Keyword declares a parameter bound by --name value or --name=value.
func Keyword(name string, descriptor typedesc.Descriptor, options ...Option) Spec {
	return newSpec(name, descriptor, RoleKeyword, options)
}

// Flag declares a boolean parameter set to true by its presence. Flags
// default to false and accept the --no-name form to set false
// explicitly.
func Flag(name string, options ...Option) Spec {
	spec := newSpec(name, typedesc.Simple(typedesc.Bool), RoleFlag, options)
	if !spec.HasDefault && !spec.HasRaw {
		spec.Default, spec.HasDefault = false, true
	}
	return spec
}

func newSpec(name string, descriptor typedesc.Descriptor, role Role, options []Option) Spec {
	spec := Spec{Name: name, Descriptor: descriptor, Role: role}
	for _, option := range options {
		option(&spec)
	}
	return spec
}

// Default sets a typed default value.
func Default(value any) Option {
	return func(spec *Spec) { spec.Default, spec.HasDefault = value, true }
}

// DefaultRaw sets a default written in command-line syntax.
func DefaultRaw(raw string) Option {
	return func(spec *Spec) { spec.DefaultRaw, spec.HasRaw = raw, true }
}

// Aliases adds alternative names. Single-character aliases are used
// with the short prefix (-n), longer ones with the long prefix.
// Leading dashes are ignored.
func Aliases(names ...string) Option {
	return func(spec *Spec) {
		for _, name := range names {
			spec.Aliases = append(spec.Aliases, strings.TrimLeft(name, "-"))
		}
	}
}

// Describe sets the help text.
func Describe(text string) Option {
	return func(spec *Spec) { spec.Description = text }
}

// Remaining makes the parameter collect every remaining value.
func Remaining() Option {
	return func(spec *Spec) { spec.Arity = ArityRemaining }
}

// Env names an environment variable fallback.
func Env(name string) Option {
	return func(spec *Spec) { spec.Env = name }
}

// Hidden leaves the parameter out of help output.
func Hidden() Option {
	return func(spec *Spec) { spec.Hidden = true }
}

// Parameter is a compiled, immutable parameter.
type Parameter struct {
	spec         Spec
	converter    convert.Converter
	defaultValue any
	hasDefault   bool
}

// Name returns the canonical name, used as --name for keywords and
// flags and as the key in parse results.
func (p *Parameter) Name() string { return p.spec.Name }

// Descriptor returns the declared type.
func (p *Parameter) Descriptor() typedesc.Descriptor { return p.spec.Descriptor }

// Role returns how the parameter binds.
func (p *Parameter) Role() Role { return p.spec.Role }

// Arity returns how many values the parameter collects.
func (p *Parameter) Arity() Arity { return p.spec.Arity }

// Aliases returns the alternative names without prefixes.
func (p *Parameter) Aliases() []string { return append([]string(nil), p.spec.Aliases...) }

// Description returns the help text.
func (p *Parameter) Description() string { return p.spec.Description }

// Env returns the environment variable fallback, or "".
func (p *Parameter) Env() string { return p.spec.Env }

// Hidden reports whether help output should skip the parameter.
func (p *Parameter) Hidden() bool { return p.spec.Hidden }

// Converter returns the converter resolved during compilation.
func (p *Parameter) Converter() convert.Converter { return p.converter }

// Default returns the default value and whether one exists. For
// ArityRemaining parameters without a declared default the default is
// an empty list.
func (p *Parameter) Default() (any, bool) { return p.defaultValue, p.hasDefault }

// HasDefault reports whether the parameter has a default.
func (p *Parameter) HasDefault() bool { return p.hasDefault }

// Required reports whether the parameter must be supplied: it has no
// default and no environment fallback could provide one.
func (p *Parameter) Required() bool { return !p.hasDefault }

// Convert converts a raw value with the parameter's converter.
func (p *Parameter) Convert(raw string) (any, error) { return p.converter.Convert(raw) }

// Names returns the canonical name followed by the aliases.
func (p *Parameter) Names() []string {
	return append([]string{p.spec.Name}, p.spec.Aliases...)
}

// Compile resolves converters and defaults for specs and checks them
// as a group: names and aliases must be unique, at most one positional
// may collect remaining values and it must be the last positional.
func Compile(registry *convert.Registry, specs ...Spec) ([]*Parameter, error) {
	parameters := make([]*Parameter, 0, len(specs))
	seen := make(map[string]string)
	remainingPositional := ""

	for _, spec := range specs {
		parameter, err := compileOne(registry, spec)
		if err != nil {
			return nil, err
		}

		for _, name := range parameter.Names() {
			if owner, exists := seen[name]; exists {
				return nil, &DeclarationError{Parameter: spec.Name,
					Err: fmt.Errorf("name %q already used by parameter %q", name, owner)}
			}
			seen[name] = spec.Name
		}

		if spec.Role == RolePositional {
			if remainingPositional != "" {
				return nil, &DeclarationError{Parameter: spec.Name,
					Err: fmt.Errorf("positional follows %q, which collects all remaining values", remainingPositional)}
			}
			if spec.Arity == ArityRemaining {
				remainingPositional = spec.Name
			}
		}

		parameters = append(parameters, parameter)
	}
	return parameters, nil
}

// MustCompile is like [Compile] but panics on error. Declarations are
// program text, so a failure here is a programming error.
func MustCompile(registry *convert.Registry, specs ...Spec) []*Parameter {
	parameters, err := Compile(registry, specs...)
	if err != nil {
		panic(fmt.Sprintf("param.MustCompile: %v", err))
	}
	return parameters
}

func compileOne(registry *convert.Registry, spec Spec) (*Parameter, error) {
	if spec.Name == "" {
		return nil, &DeclarationError{Parameter: spec.Name, Err: errors.New("empty name")}
	}
	if strings.HasPrefix(spec.Name, "-") || strings.ContainsAny(spec.Name, " =") {
		return nil, &DeclarationError{Parameter: spec.Name,
			Err: errors.New("names must not start with '-' or contain spaces or '='")}
	}
	for _, alias := range spec.Aliases {
		if alias == "" {
			return nil, &DeclarationError{Parameter: spec.Name, Err: errors.New("empty alias")}
		}
	}
	if spec.Role == RoleFlag && (spec.Descriptor.Kind != typedesc.KindSimple || !spec.Descriptor.Type.IsA(typedesc.Bool)) {
		return nil, &DeclarationError{Parameter: spec.Name,
			Err: fmt.Errorf("flags must be bool, got %s", spec.Descriptor)}
	}
	if spec.Role == RoleFlag && spec.Arity == ArityRemaining {
		return nil, &DeclarationError{Parameter: spec.Name, Err: errors.New("flags cannot collect values")}
	}

	converter, err := registry.Resolve(spec.Descriptor)
	if err != nil {
		return nil, &DeclarationError{Parameter: spec.Name, Err: err}
	}

	parameter := &Parameter{spec: spec, converter: converter}
	switch {
	case spec.HasRaw:
		value, err := parameter.convertDefault(spec.DefaultRaw)
		if err != nil {
			return nil, &DeclarationError{Parameter: spec.Name, Err: fmt.Errorf("default: %w", err)}
		}
		parameter.defaultValue, parameter.hasDefault = value, true
	case spec.HasDefault:
		parameter.defaultValue, parameter.hasDefault = spec.Default, true
	case spec.Arity == ArityRemaining:
		parameter.defaultValue, parameter.hasDefault = []any{}, true
	}
	return parameter, nil
}

// convertDefault converts a raw default. For parameters collecting
// several values the raw default is a comma-separated list of single
// values.
func (p *Parameter) convertDefault(raw string) (any, error) {
	if p.spec.Arity != ArityRemaining {
		return p.converter.Convert(raw)
	}
	var values []any
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		value, err := p.converter.Convert(part)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if values == nil {
		values = []any{}
	}
	return values, nil
}
