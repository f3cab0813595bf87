// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/parse"
	"github.com/bureau-foundation/argot/lib/pipeline"
)

// EnvVar names the environment variable [Load] reads.
const EnvVar = "ARGOT_CONFIG"

// Settings is the complete configuration.
type Settings struct {
	// Strict rejects arguments that no parameter accepts.
	// Default: true
	Strict bool `yaml:"strict" json:"strict"`

	// Separator joins namespace and command names ("db:create").
	// Empty disables joined names.
	// Default: ":"
	Separator string `yaml:"separator" json:"separator"`

	// Syntax configures option tokens.
	Syntax SyntaxSettings `yaml:"syntax" json:"syntax"`

	// HelpFlags short-circuit a run with usage output.
	// Default: [-h, --help]
	HelpFlags []string `yaml:"help_flags" json:"help_flags"`

	// MaxDistance bounds "did you mean" suggestions.
	// Default: 2
	MaxDistance int `yaml:"max_distance" json:"max_distance"`

	// ExitCode is returned for errors that carry no code of their own.
	// Default: 1
	ExitCode int `yaml:"exit_code" json:"exit_code"`

	// Log configures diagnostic logging.
	Log LogSettings `yaml:"log" json:"log"`

	// Output configures help rendering.
	Output OutputSettings `yaml:"output" json:"output"`
}

// SyntaxSettings configures how option tokens are written.
type SyntaxSettings struct {
	// Default: "--"
	FlagPrefix string `yaml:"flag_prefix" json:"flag_prefix"`
	// Default: "-"
	ShortPrefix string `yaml:"short_prefix" json:"short_prefix"`
	// Default: "="
	Assign string `yaml:"assign" json:"assign"`
	// Default: "no-"
	NegatePrefix string `yaml:"negate_prefix" json:"negate_prefix"`
	// Default: "--"
	EndOfOptions string `yaml:"end_of_options" json:"end_of_options"`
}

// LogSettings configures diagnostic logging.
type LogSettings struct {
	// Level is debug, info, warn or error.
	// Default: warn
	Level string `yaml:"level" json:"level"`

	// Format is auto, text or json. Auto picks text when the output is
	// a terminal and JSON otherwise.
	// Default: auto
	Format string `yaml:"format" json:"format"`

	// File receives log output instead of stderr. ${VAR} patterns are
	// expanded.
	File string `yaml:"file" json:"file"`
}

// OutputSettings configures help rendering.
type OutputSettings struct {
	// Color is auto, always or never.
	// Default: auto
	Color string `yaml:"color" json:"color"`

	// Width wraps help text. Zero means the terminal width, or 80 when
	// the output is not a terminal.
	Width int `yaml:"width" json:"width"`
}

// Default returns the default settings. Files are loaded on top of
// these, so keys a file leaves out keep their defaults.
func Default() *Settings {
	return &Settings{
		Strict:    true,
		Separator: ":",
		Syntax: SyntaxSettings{
			FlagPrefix:   "--",
			ShortPrefix:  "-",
			Assign:       "=",
			NegatePrefix: "no-",
			EndOfOptions: "--",
		},
		HelpFlags:   []string{"-h", "--help"},
		MaxDistance: 2,
		ExitCode:    1,
		Log: LogSettings{
			Level:  "warn",
			Format: "auto",
		},
		Output: OutputSettings{
			Color: "auto",
		},
	}
}

// Load loads settings from the file named by ARGOT_CONFIG. It fails
// when the variable is unset; callers that want defaults in that case
// check the variable themselves.
func Load() (*Settings, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your settings file, or use --config", EnvVar)
	}
	return LoadFile(path)
}

// LoadFile loads settings from path on top of [Default], expands
// variables and validates the result.
func LoadFile(path string) (*Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = settings.decodeJSON(data)
	default:
		err = settings.decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	settings.expandVariables()

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

func (s *Settings) decodeYAML(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty document decodes to io.EOF and leaves the defaults.
	if err := decoder.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

func (s *Settings) decodeJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (s *Settings) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	s.Log.File = expandVars(s.Log.File, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	var errs []error

	if s.Syntax.FlagPrefix == "" {
		errs = append(errs, fmt.Errorf("syntax.flag_prefix is required"))
	}
	if s.Syntax.Assign == "" {
		errs = append(errs, fmt.Errorf("syntax.assign is required"))
	}
	if s.Syntax.ShortPrefix != "" && s.Syntax.ShortPrefix == s.Syntax.FlagPrefix {
		errs = append(errs, fmt.Errorf("syntax.short_prefix must differ from syntax.flag_prefix"))
	}
	if s.Separator != "" && (strings.HasPrefix(s.Syntax.FlagPrefix, s.Separator) || s.Separator == s.Syntax.Assign) {
		errs = append(errs, fmt.Errorf("separator %q collides with the option syntax", s.Separator))
	}
	if strings.ContainsAny(s.Separator, " \t") {
		errs = append(errs, fmt.Errorf("separator must not contain whitespace"))
	}
	if s.MaxDistance < 0 {
		errs = append(errs, fmt.Errorf("max_distance must not be negative"))
	}
	if s.ExitCode < 1 || s.ExitCode > 125 {
		errs = append(errs, fmt.Errorf("exit_code must be between 1 and 125, got %d", s.ExitCode))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, s.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}
	formats := []string{"auto", "text", "json"}
	if !slices.Contains(formats, s.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}
	colors := []string{"auto", "always", "never"}
	if !slices.Contains(colors, s.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colors))
	}
	if s.Output.Width < 0 {
		errs = append(errs, fmt.Errorf("output.width must not be negative"))
	}

	return errors.Join(errs...)
}

// ParseOptions returns the option syntax.
func (s *Settings) ParseOptions() parse.Options {
	return parse.Options{
		FlagPrefix:   s.Syntax.FlagPrefix,
		ShortPrefix:  s.Syntax.ShortPrefix,
		AssignToken:  s.Syntax.Assign,
		NegatePrefix: s.Syntax.NegatePrefix,
		EndOfOptions: s.Syntax.EndOfOptions,
	}
}

// PipelineOptions applies the settings to [pipeline.DefaultOptions].
// Output streams, logger and usage renderer are left for the caller.
func (s *Settings) PipelineOptions() pipeline.Options {
	options := pipeline.DefaultOptions()
	options.Strict = s.Strict
	options.Route = command.RouteOptions{
		Separator:   s.Separator,
		Syntax:      s.ParseOptions(),
		MaxDistance: s.MaxDistance,
	}
	options.HelpFlags = slices.Clone(s.HelpFlags)
	options.MaxDistance = s.MaxDistance
	options.ExitCode = s.ExitCode
	return options
}

// ColorProfile maps Output.Color to a terminal color profile. Auto
// defers to the environment (NO_COLOR, CLICOLOR_FORCE, TERM).
func (s *Settings) ColorProfile() termenv.Profile {
	switch s.Output.Color {
	case "always":
		return termenv.ANSI256
	case "never":
		return termenv.Ascii
	default:
		return termenv.EnvColorProfile()
	}
}
