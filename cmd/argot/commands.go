// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/config"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/help"
	"github.com/bureau-foundation/argot/lib/param"
	"github.com/bureau-foundation/argot/lib/typedesc"
	"github.com/bureau-foundation/argot/lib/version"
)

// app holds what the commands share. settings, renderer and root are
// filled in by run before any action executes.
type app struct {
	registry *convert.Registry
	settings *config.Settings
	renderer *help.Renderer
	root     *command.Command
}

func newApp() *app {
	return &app{registry: convert.NewDefaultRegistry(), settings: config.Default()}
}

// commandTree builds the complete command tree and seals the
// registry.
func (a *app) commandTree() *command.Command {
	root := &command.Command{
		Name:    "argot",
		Summary: "Demonstrate type-directed command-line parsing",
		Description: `Every value on this command line is converted by the type its
parameter declares. Use **schema** to see the declared types and
**convert** to try a type expression directly.

Settings are read from the file given by ` + "`--config`" + `, or the file named
by ` + "`ARGOT_CONFIG`" + `.`,
		Parameters: param.MustCompile(a.registry,
			param.Keyword("config", typedesc.Simple(typedesc.Path), param.Default(""),
				param.Describe("Settings file (YAML, or JSON with comments)")),
			param.Flag("verbose", param.Aliases("v"), param.Describe("Log at debug level")),
			param.Flag("strict", param.Describe("Reject arguments no parameter accepts")),
		),
	}
	root.Add(
		a.greetCommand(),
		a.dbCommand(),
		a.netCommand(),
		a.schemaCommand(),
		a.convertCommand(),
		a.versionCommand(),
	)
	a.registry.Seal()
	return root
}

func (a *app) greetCommand() *command.Command {
	return &command.Command{
		Name:    "greet",
		Summary: "Greet someone",
		Aliases: []string{"hello"},
		Parameters: param.MustCompile(a.registry,
			param.Positional("name", typedesc.Simple(typedesc.String), param.Describe("Who to greet")),
			param.Keyword("greeting", typedesc.Simple(typedesc.String), param.DefaultRaw("Hello"), param.Aliases("g")),
			param.Flag("loud", param.Describe("Shout the greeting")),
		),
		Examples: []command.Example{
			{Command: "argot greet Ada --loud"},
		},
		Action: func(_ context.Context, invocation *command.Invocation) error {
			message := fmt.Sprintf("%s, %s!", invocation.String("greeting"), invocation.String("name"))
			if invocation.Bool("loud") {
				message = strings.ToUpper(message)
			}
			fmt.Fprintln(invocation.Stdout, message)
			return nil
		},
	}
}

func (a *app) dbCommand() *command.Command {
	create := &command.Command{
		Name:    "create",
		Summary: "Create a database",
		Parameters: param.MustCompile(a.registry,
			param.Keyword("name", typedesc.Simple(typedesc.String), param.Aliases("n"), param.Describe("Database name")),
			param.Keyword("owner", typedesc.Simple(typedesc.String), param.Default(""), param.Env("ARGOT_DB_OWNER"),
				param.Describe("Owning role")),
		),
		Action: func(_ context.Context, invocation *command.Invocation) error {
			fmt.Fprintf(invocation.Stdout, "created database %s", invocation.String("name"))
			if owner := invocation.String("owner"); owner != "" {
				fmt.Fprintf(invocation.Stdout, " owned by %s", owner)
			}
			fmt.Fprintln(invocation.Stdout)
			return nil
		},
	}
	migrate := &command.Command{
		Name:    "migrate",
		Summary: "Apply schema migrations",
		Parameters: param.MustCompile(a.registry,
			param.Keyword("steps", typedesc.Range(1, 100), param.Default(1), param.Describe("Migrations to apply")),
			param.Flag("dry-run", param.Describe("Print the plan without applying it")),
		),
		Action: func(_ context.Context, invocation *command.Invocation) error {
			steps := invocation.Int("steps")
			if invocation.Bool("dry-run") {
				fmt.Fprintf(invocation.Stdout, "would apply %d migration(s)\n", steps)
				return nil
			}
			invocation.Logger.Info("applying migrations", "steps", steps)
			fmt.Fprintf(invocation.Stdout, "applied %d migration(s)\n", steps)
			return nil
		},
	}
	return (&command.Command{
		Name:    "db",
		Summary: "Database commands",
	}).Add(create, migrate)
}

// serveParams declares the net:serve parameters through struct tags.
type serveParams struct {
	Port    int           `flag:"port,p" type:"range[1,65536)" default:"8080" desc:"Port to listen on"`
	Bind    []string      `flag:"bind" default:"127.0.0.1" desc:"Addresses to listen on"`
	Mode    string        `flag:"mode" type:"literal[http|https]" default:"http" desc:"Protocol"`
	Timeout time.Duration `flag:"timeout" default:"30s" desc:"Shutdown timeout"`
}

func (a *app) netCommand() *command.Command {
	parameters, err := param.FromStruct(a.registry, &serveParams{})
	if err != nil {
		panic(err)
	}
	serve := &command.Command{
		Name:       "serve",
		Summary:    "Describe the listener a server would open",
		Parameters: parameters,
		Action: func(_ context.Context, invocation *command.Invocation) error {
			var params serveParams
			if err := invocation.Bind(&params); err != nil {
				return err
			}
			for _, address := range params.Bind {
				fmt.Fprintf(invocation.Stdout, "%s://%s:%d (timeout %s)\n", params.Mode, address, params.Port, params.Timeout)
			}
			return nil
		},
	}
	return (&command.Command{Name: "net", Summary: "Network commands"}).Add(serve)
}

func (a *app) schemaCommand() *command.Command {
	return &command.Command{
		Name:    "schema",
		Summary: "Show the schema of a command",
		Description: "Prints the help, JSON or CBOR schema of the command at PATH " +
			"(the whole tree when PATH is empty).",
		Parameters: param.MustCompile(a.registry,
			param.Positional("path", typedesc.Simple(typedesc.String), param.Remaining(), param.Describe("Command path")),
			param.Keyword("format", typedesc.Literal("text", "json", "cbor"), param.DefaultRaw("text"), param.Aliases("f")),
		),
		Action: func(_ context.Context, invocation *command.Invocation) error {
			var path []string
			if values, ok := invocation.Value("path"); ok {
				for _, value := range values.([]any) {
					path = append(path, value.(string))
				}
			}
			target := a.root
			if len(path) > 0 {
				options := a.settings.PipelineOptions().Route
				route, err := command.Resolve(a.root, path, options)
				if err != nil {
					return err
				}
				target = route.Target
			}

			schema := target.Schema()
			switch format := invocation.String("format"); format {
			case "text":
				return a.renderer.Render(invocation.Stdout, schema)
			default:
				return help.EncodeSchema(invocation.Stdout, schema, help.Format(format))
			}
		},
	}
}

func (a *app) convertCommand() *command.Command {
	return &command.Command{
		Name:    "convert",
		Summary: "Convert a value with a type expression",
		Description: "TYPE is a type expression such as `int`, `list[int]`, `range[1,10)`, " +
			"`literal[a|b]` or `mapping[string,int]`.",
		Parameters: param.MustCompile(a.registry,
			param.Positional("type", typedesc.Simple(typedesc.String), param.Describe("Type expression")),
			param.Positional("value", typedesc.Simple(typedesc.String), param.Describe("Raw value")),
			param.Flag("check", param.Describe("Exit 2 instead of printing when the value does not convert")),
		),
		Action: func(_ context.Context, invocation *command.Invocation) error {
			descriptor, err := typedesc.ParseExpr(invocation.String("type"))
			if err != nil {
				return err
			}
			converter, err := a.registry.Resolve(descriptor)
			if err != nil {
				return err
			}
			value, err := converter.Convert(invocation.String("value"))
			if err != nil {
				if invocation.Bool("check") {
					invocation.Logger.Debug("value does not convert", "error", err)
					return clierr.Exit(2)
				}
				return err
			}
			if invocation.Bool("check") {
				return nil
			}
			formatted, err := convert.Format(converter, value)
			if err != nil {
				return err
			}
			fmt.Fprintf(invocation.Stdout, "type:  %s\nvalue: %s\ngo:    %T\n", descriptor, formatted, value)
			return nil
		},
	}
}

func (a *app) versionCommand() *command.Command {
	return &command.Command{
		Name:    "version",
		Summary: "Print version information",
		Parameters: param.MustCompile(a.registry,
			param.Flag("short", param.Describe("Print only the version number")),
		),
		Action: func(_ context.Context, invocation *command.Invocation) error {
			build := version.Current()
			if invocation.Bool("short") {
				fmt.Fprintln(invocation.Stdout, build.Version)
				return nil
			}
			fmt.Fprintf(invocation.Stdout, "argot %s\n", build.Full())
			return nil
		},
	}
}
