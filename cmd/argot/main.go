// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/clock"
	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/config"
	"github.com/bureau-foundation/argot/lib/help"
	"github.com/bureau-foundation/argot/lib/parse"
	"github.com/bureau-foundation/argot/lib/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp()
	root := app.commandTree()

	settings, err := loadSettings(root, args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return clierr.ExitCode(err, 1)
	}
	app.settings = settings

	logOutput, closeLog, err := config.OpenLog(settings.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return settings.ExitCode
	}
	defer closeLog()
	logger := config.NewLogger(settings.Log, logOutput)

	app.renderer = help.NewRenderer(stdout, settings.ColorProfile(), settings.Output.Width)

	options := settings.PipelineOptions()
	options.Usage = app.renderer
	options.Logger = logger
	options.Stdout = stdout
	options.Stderr = stderr
	options.Middleware = []pipeline.Middleware{traceDuration(clock.Real())}

	commands, err := pipeline.New(root, options)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return settings.ExitCode
	}
	app.root = root
	return commands.Main(ctx, args)
}

// loadSettings reads the global options that shape the pipeline
// itself from the options leading the command line. They are parsed
// with the default syntax, before any file can change it: --config
// selects the settings file (falling back to ARGOT_CONFIG), and
// --strict and --verbose override what it says.
func loadSettings(root *command.Command, args []string) (*config.Settings, error) {
	syntax := parse.DefaultOptions()
	leading := 0
	for leading < len(args) && syntax.IsOption(args[leading]) && !syntax.IsEndOfOptions(args[leading]) {
		span, _ := syntax.OptionSpan(root.Parameters, args, leading)
		leading += span
	}
	result, _ := parse.Parse(root.Parameters, args[:min(leading, len(args))], syntax)

	settings := config.Default()
	var err error
	path := ""
	if result != nil {
		path, _ = result.Values["config"].(string)
	}
	switch {
	case path != "":
		settings, err = config.LoadFile(path)
	case os.Getenv(config.EnvVar) != "":
		settings, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if result != nil {
		if result.Provided["strict"] {
			settings.Strict, _ = result.Values["strict"].(bool)
		}
		if verbose, _ := result.Values["verbose"].(bool); verbose {
			settings.Log.Level = "debug"
		}
	}
	return settings, nil
}

// traceDuration logs how long each command took at debug level.
func traceDuration(c clock.Clock) pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(ctx context.Context, env *pipeline.Environment) error {
			start := c.Now()
			err := next(ctx, env)
			env.Logger.Debug("command finished",
				"command", env.Target.FullName(),
				"duration", clock.Since(c, start),
				"failed", err != nil)
			return err
		}
	}
}
