// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/bureau-foundation/argot/lib/param"
)

// Options configures the token syntax. The zero value is not usable;
// start from [DefaultOptions].
type Options struct {
	// FlagPrefix introduces long names: --name.
	FlagPrefix string
	// ShortPrefix introduces single-character aliases: -n.
	ShortPrefix string
	// AssignToken joins a name to an inline value: --name=value.
	AssignToken string
	// NegatePrefix follows FlagPrefix to set a flag false: --no-name.
	// Empty disables negation.
	NegatePrefix string
	// EndOfOptions makes every following token positional.
	EndOfOptions string

	// LookupEnv reads environment fallbacks. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// DefaultOptions returns the conventional syntax: --name, -n,
// --name=value, --no-flag and --.
func DefaultOptions() Options {
	return Options{
		FlagPrefix:   "--",
		ShortPrefix:  "-",
		AssignToken:  "=",
		NegatePrefix: "no-",
		EndOfOptions: "--",
	}
}

func (o Options) lookupEnv(name string) (string, bool) {
	if o.LookupEnv != nil {
		return o.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// IsEndOfOptions reports whether token is the end-of-options marker.
func (o Options) IsEndOfOptions(token string) bool {
	return o.EndOfOptions != "" && token == o.EndOfOptions
}

// IsOption reports whether token is written as an option. A lone
// prefix, the end-of-options marker and negative numbers such as -5
// are not options.
func (o Options) IsOption(token string) bool {
	if o.IsEndOfOptions(token) {
		return false
	}
	if o.FlagPrefix != "" && strings.HasPrefix(token, o.FlagPrefix) && len(token) > len(o.FlagPrefix) {
		return true
	}
	if o.ShortPrefix != "" && strings.HasPrefix(token, o.ShortPrefix) && len(token) > len(o.ShortPrefix) {
		return !isNumber(token[len(o.ShortPrefix):])
	}
	return false
}

// isNumber reports whether text, following a short prefix, reads as a
// numeric literal: -5, -1.5, -1e5, -0x10.
func isNumber(text string) bool {
	if text == "" {
		return false
	}
	if c := text[0]; (c < '0' || c > '9') && c != '.' {
		return false
	}
	if _, err := strconv.ParseInt(text, 0, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(text, 64)
	var numError *strconv.NumError
	return err == nil || (errors.As(err, &numError) && numError.Err == strconv.ErrRange)
}

// match is an option token resolved to a parameter.
type match struct {
	parameter *param.Parameter
	negated   bool
	inline    string
	hasInline bool
}

// lookup resolves an option token against params. The token must
// satisfy IsOption.
func (o Options) lookup(params []*param.Parameter, token string) (match, bool) {
	var body string
	long := o.FlagPrefix != "" && strings.HasPrefix(token, o.FlagPrefix)
	if long {
		body = token[len(o.FlagPrefix):]
	} else {
		body = token[len(o.ShortPrefix):]
	}

	var result match
	if o.AssignToken != "" {
		if name, value, found := strings.Cut(body, o.AssignToken); found {
			body, result.inline, result.hasInline = name, value, true
		}
	}

	if parameter := findByName(params, body, long); parameter != nil {
		result.parameter = parameter
		return result, true
	}

	if long && o.NegatePrefix != "" && strings.HasPrefix(body, o.NegatePrefix) && !result.hasInline {
		parameter := findByName(params, strings.TrimPrefix(body, o.NegatePrefix), true)
		if parameter != nil && parameter.Role() == param.RoleFlag {
			result.parameter, result.negated = parameter, true
			return result, true
		}
	}
	return match{}, false
}

// findByName matches a name written with the long prefix against the
// canonical name and multi-character aliases, and a name written with
// the short prefix against single-character aliases.
func findByName(params []*param.Parameter, name string, long bool) *param.Parameter {
	for _, parameter := range params {
		if parameter.Role() == param.RolePositional {
			continue
		}
		for _, candidate := range parameter.Names() {
			if candidate != name {
				continue
			}
			short := len(candidate) == 1
			if long && (!short || candidate == parameter.Name()) || !long && short {
				return parameter
			}
		}
	}
	return nil
}

// OptionSpan reports how many tokens, starting at tokens[i], form one
// option occurrence against params: 2 for a keyword followed by its
// value, 1 for a flag or an inline value, and 0 when tokens[i] is not
// an option. known is false for option-shaped tokens that name no
// parameter; their span is 1.
func (o Options) OptionSpan(params []*param.Parameter, tokens []string, i int) (span int, known bool) {
	if !o.IsOption(tokens[i]) {
		return 0, false
	}
	m, ok := o.lookup(params, tokens[i])
	if !ok {
		return 1, false
	}
	if m.parameter.Role() == param.RoleKeyword && !m.hasInline && i+1 < len(tokens) {
		return 2, true
	}
	return 1, true
}

// Names lists every way params can be written as options, for
// suggestions: --name and -n forms, plus --no-name for flags.
func (o Options) Names(params []*param.Parameter) []string {
	var names []string
	for _, parameter := range params {
		if parameter.Role() == param.RolePositional || parameter.Hidden() {
			continue
		}
		for _, name := range parameter.Names() {
			if len(name) == 1 {
				names = append(names, o.ShortPrefix+name)
			}
			if len(name) > 1 || name == parameter.Name() {
				names = append(names, o.FlagPrefix+name)
			}
		}
		if parameter.Role() == param.RoleFlag && o.NegatePrefix != "" {
			names = append(names, o.FlagPrefix+o.NegatePrefix+parameter.Name())
		}
	}
	return names
}
