// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/param"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// minimumWidth keeps wrapping sane on very narrow terminals.
const minimumWidth = 40

// Theme holds the colors used for help output.
type Theme struct {
	Heading lipgloss.Color
	Name    lipgloss.Color
	Faint   lipgloss.Color
}

// DefaultTheme reads well on both dark and light backgrounds.
var DefaultTheme = Theme{
	Heading: lipgloss.Color("12"),
	Name:    lipgloss.Color("14"),
	Faint:   lipgloss.Color("8"),
}

// Renderer writes help text. The zero value is not usable; construct
// with [NewRenderer].
type Renderer struct {
	// Width is the column at which text wraps.
	Width int
	// Profile selects the color capability of the output.
	Profile termenv.Profile
	// Theme colors the output.
	Theme Theme
}

// NewRenderer returns a renderer for output written to w. A width of
// zero is replaced by the terminal width of w, or [DefaultWidth] when
// w is not a terminal.
func NewRenderer(w io.Writer, profile termenv.Profile, width int) *Renderer {
	if width <= 0 {
		width = TerminalWidth(w)
	}
	return &Renderer{Width: max(width, minimumWidth), Profile: profile, Theme: DefaultTheme}
}

// TerminalWidth returns the column count of w when it is a terminal
// and [DefaultWidth] otherwise.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// styles binds the theme to one output.
type styles struct {
	renderer *lipgloss.Renderer
	heading  lipgloss.Style
	name     lipgloss.Style
	faint    lipgloss.Style
}

func (r *Renderer) styles(w io.Writer) styles {
	lipRenderer := lipgloss.NewRenderer(w, termenv.WithProfile(r.Profile))
	lipRenderer.SetColorProfile(r.Profile)
	return styles{
		renderer: lipRenderer,
		heading:  lipRenderer.NewStyle().Bold(true).Foreground(r.Theme.Heading),
		name:     lipRenderer.NewStyle().Foreground(r.Theme.Name),
		faint:    lipRenderer.NewStyle().Foreground(r.Theme.Faint),
	}
}

// Render writes the help for schema to w.
func (r *Renderer) Render(w io.Writer, schema command.Schema) error {
	style := r.styles(w)
	var out strings.Builder

	out.WriteString(style.heading.Render("Usage:") + "\n")
	out.WriteString("  " + UsageLine(schema) + "\n")

	if schema.Summary != "" {
		out.WriteString("\n" + ansi.Wrap(schema.Summary, r.Width, "") + "\n")
	}
	if schema.Description != "" {
		description := renderMarkdown(schema.Description, style, r.Width)
		if description != "" {
			out.WriteString("\n" + description + "\n")
		}
	}

	if len(schema.Subcommands) > 0 {
		rows := make([]row, 0, len(schema.Subcommands))
		for _, sub := range schema.Subcommands {
			name := sub.Name
			if len(sub.Aliases) > 0 {
				name += " (" + strings.Join(sub.Aliases, ", ") + ")"
			}
			rows = append(rows, row{name: name, text: sub.Summary})
		}
		r.writeSection(&out, style, "Commands:", rows)
	}

	var arguments []row
	for _, parameter := range schema.Parameters {
		if parameter.Role != param.RolePositional.String() {
			continue
		}
		arguments = append(arguments, row{
			name: placeholder(parameter),
			text: joinNonEmpty(parameter.Description, annotations(parameter)),
		})
	}
	if len(arguments) > 0 {
		r.writeSection(&out, style, "Arguments:", arguments)
	}

	if options := r.optionUsages(schema); options != "" {
		out.WriteString("\n" + style.heading.Render("Options:") + "\n")
		out.WriteString(options)
	}

	if len(schema.Examples) > 0 {
		out.WriteString("\n" + style.heading.Render("Examples:") + "\n")
		for i, example := range schema.Examples {
			if i > 0 {
				out.WriteString("\n")
			}
			if example.Description != "" {
				out.WriteString(indent(ansi.Wrap(example.Description, r.Width-2, ""), "  ") + "\n")
			}
			out.WriteString("    " + style.faint.Render("$ "+example.Command) + "\n")
		}
	}

	_, err := io.WriteString(w, out.String())
	return err
}

// UsageLine renders the synopsis of a command, for example
// "app db create [options] <name> [files...]". An explicit Usage on
// the command wins.
func UsageLine(schema command.Schema) string {
	if schema.Usage != "" {
		return schema.Usage
	}
	parts := []string{strings.Join(schema.Path, " ")}
	if schema.Namespace() {
		if schema.Runnable {
			parts = append(parts, "[command]")
		} else {
			parts = append(parts, "<command>")
		}
	}
	hasOptions := false
	var positionals []string
	for _, parameter := range schema.Parameters {
		if parameter.Role == param.RolePositional.String() {
			positionals = append(positionals, placeholder(parameter))
		} else {
			hasOptions = true
		}
	}
	if hasOptions {
		parts = append(parts, "[options]")
	}
	return strings.Join(append(parts, positionals...), " ")
}

func placeholder(parameter command.ParameterSchema) string {
	switch {
	case parameter.Remaining:
		return "[" + parameter.Name + "...]"
	case parameter.Required:
		return "<" + parameter.Name + ">"
	default:
		return "[" + parameter.Name + "]"
	}
}

// annotations lists the type, default and environment variable of a
// parameter as one parenthesized note.
func annotations(parameter command.ParameterSchema) string {
	notes := []string{parameter.Type}
	if parameter.Default != "" {
		notes = append(notes, "default "+parameter.Default)
	}
	if parameter.Env != "" {
		notes = append(notes, "env $"+parameter.Env)
	}
	return "(" + strings.Join(notes, ", ") + ")"
}

// optionUsages renders the keyword and flag parameters as a pflag
// options table. Each option is registered with a [convert.FlagValue]
// so the placeholder is the descriptor expression and the default is
// formatted in command-line syntax.
func (r *Renderer) optionUsages(schema command.Schema) string {
	flags := pflag.NewFlagSet(strings.Join(schema.Path, " "), pflag.ContinueOnError)
	flags.SortFlags = false
	for _, parameter := range schema.Parameters {
		if parameter.Role == param.RolePositional.String() {
			continue
		}

		shorthand := ""
		var longAliases []string
		for _, alias := range parameter.Aliases {
			if len(alias) == 1 && shorthand == "" {
				shorthand = alias
			} else {
				longAliases = append(longAliases, "--"+alias)
			}
		}

		var notes []string
		if parameter.Required {
			notes = append(notes, "required")
		}
		if parameter.Remaining {
			notes = append(notes, "repeatable")
			if parameter.Default != "" {
				notes = append(notes, "default "+parameter.Default)
			}
		}
		if len(longAliases) > 0 {
			notes = append(notes, "alias "+strings.Join(longAliases, ", "))
		}
		if parameter.Env != "" {
			notes = append(notes, "env $"+parameter.Env)
		}
		usage := parameter.Description
		if len(notes) > 0 {
			usage = joinNonEmpty(usage, "("+strings.Join(notes, ", ")+")")
		}

		initial := parameter.DefaultValue
		if parameter.Remaining {
			initial = nil
		}
		value := convert.NewFlagValue(parameter.Converter, parameter.Descriptor, initial)
		flags.VarP(value, parameter.Name, shorthand, usage)
		if parameter.Role == param.RoleFlag.String() {
			flags.Lookup(parameter.Name).NoOptDefVal = "true"
		}
	}
	if !flags.HasFlags() {
		return ""
	}
	return flags.FlagUsagesWrapped(r.Width)
}

// row is one entry of a two-column section.
type row struct {
	name string
	text string
}

// writeSection writes rows with names aligned in the first column and
// text wrapped under a hanging indent.
func (r *Renderer) writeSection(out *strings.Builder, style styles, title string, rows []row) {
	out.WriteString("\n" + style.heading.Render(title) + "\n")

	nameWidth := 0
	for _, entry := range rows {
		nameWidth = max(nameWidth, ansi.StringWidth(entry.name))
	}
	column := 2 + nameWidth + 3
	textWidth := max(r.Width-column, minimumWidth/2)
	hanging := strings.Repeat(" ", column)

	for _, entry := range rows {
		padding := strings.Repeat(" ", nameWidth-ansi.StringWidth(entry.name)+3)
		line := "  " + style.name.Render(entry.name)
		if entry.text == "" {
			out.WriteString(line + "\n")
			continue
		}
		wrapped := strings.Split(ansi.Wrap(entry.text, textWidth, ""), "\n")
		out.WriteString(line + padding + wrapped[0] + "\n")
		for _, continuation := range wrapped[1:] {
			out.WriteString(hanging + continuation + "\n")
		}
	}
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Fprint renders schema with a renderer configured for w and the
// given color profile. It is the one-call form used by commands that
// print help on request.
func Fprint(w io.Writer, profile termenv.Profile, schema command.Schema) error {
	if err := NewRenderer(w, profile, 0).Render(w, schema); err != nil {
		return fmt.Errorf("rendering help for %s: %w", strings.Join(schema.Path, " "), err)
	}
	return nil
}
