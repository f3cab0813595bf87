// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/param"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

// Schema is a presentation-neutral view of a command, sufficient to
// render usage and help. Hidden commands and parameters are omitted.
type Schema struct {
	Name        string            `json:"name"`
	Path        []string          `json:"path"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Usage       string            `json:"usage,omitempty"`
	Aliases     []string          `json:"aliases,omitempty"`
	Runnable    bool              `json:"runnable"`
	Examples    []Example         `json:"examples,omitempty"`
	Parameters  []ParameterSchema `json:"parameters,omitempty"`
	Subcommands []Schema          `json:"subcommands,omitempty"`
}

// Namespace reports whether the command groups subcommands.
func (s Schema) Namespace() bool { return len(s.Subcommands) > 0 }

// ParameterSchema describes one parameter.
type ParameterSchema struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Remaining   bool     `json:"remaining,omitempty"`
	Default     string   `json:"default,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Env         string   `json:"env,omitempty"`

	// Descriptor is the structured type, for renderers that map types
	// onto other schema languages.
	Descriptor typedesc.Descriptor `json:"-"`
	// Converter and DefaultValue let renderers format values in
	// command-line syntax.
	Converter    convert.Converter `json:"-"`
	DefaultValue any               `json:"-"`
}

// Schema returns the schema of c and its visible subcommands.
func (c *Command) Schema() Schema {
	schema := Schema{
		Name:        c.Name,
		Path:        c.Path(),
		Summary:     c.Summary,
		Description: c.Description,
		Usage:       c.Usage,
		Aliases:     c.Aliases,
		Runnable:    c.Action != nil,
		Examples:    c.Examples,
	}
	for _, parameter := range c.Parameters {
		if parameter.Hidden() {
			continue
		}
		schema.Parameters = append(schema.Parameters, parameterSchema(parameter))
	}
	for _, sub := range c.Subcommands {
		if sub.Hidden {
			continue
		}
		schema.Subcommands = append(schema.Subcommands, sub.Schema())
	}
	return schema
}

func parameterSchema(parameter *param.Parameter) ParameterSchema {
	schema := ParameterSchema{
		Name:        parameter.Name(),
		Role:        parameter.Role().String(),
		Type:        parameter.Descriptor().String(),
		Required:    parameter.Required(),
		Remaining:   parameter.Arity() == param.ArityRemaining,
		Aliases:     parameter.Aliases(),
		Description: parameter.Description(),
		Env:         parameter.Env(),
		Descriptor:  parameter.Descriptor(),
		Converter:   parameter.Converter(),
	}
	if value, ok := parameter.Default(); ok {
		schema.DefaultValue = value
		if parameter.Role() != param.RoleFlag {
			schema.Default = formatDefault(parameter, value)
		}
	}
	return schema
}

// formatDefault renders a default in command-line syntax. Lists
// collected from repeated values are comma-joined.
func formatDefault(parameter *param.Parameter, value any) string {
	if list, ok := value.([]any); ok && parameter.Arity() == param.ArityRemaining {
		text := ""
		for i, element := range list {
			formatted, err := convert.Format(parameter.Converter(), element)
			if err != nil {
				return ""
			}
			if i > 0 {
				text += ","
			}
			text += formatted
		}
		return text
	}
	text, err := convert.Format(parameter.Converter(), value)
	if err != nil {
		return ""
	}
	return text
}
