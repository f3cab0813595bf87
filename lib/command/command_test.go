// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/param"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

func noop(context.Context, *Invocation) error { return nil }

// testTree builds:
//
//	app [--verbose] [--config path]
//	  db (alias: database) [--dsn str]
//	    create --name str
//	    migrate [--steps int]
//	  status
//	  secret (hidden)
func testTree(t *testing.T) *Command {
	t.Helper()
	registry := convert.NewDefaultRegistry()

	root := &Command{
		Name: "app",
		Parameters: param.MustCompile(registry,
			param.Flag("verbose", param.Aliases("v")),
			param.Keyword("config", typedesc.Simple(typedesc.Path), param.DefaultRaw("app.yaml")),
		),
	}
	db := &Command{
		Name:       "db",
		Summary:    "Database commands",
		Aliases:    []string{"database"},
		Parameters: param.MustCompile(registry, param.Keyword("dsn", typedesc.Simple(typedesc.String), param.Default(""))),
	}
	db.Add(
		&Command{
			Name:       "create",
			Summary:    "Create a database",
			Parameters: param.MustCompile(registry, param.Keyword("name", typedesc.Simple(typedesc.String))),
			Action:     noop,
		},
		&Command{
			Name:       "migrate",
			Parameters: param.MustCompile(registry, param.Keyword("steps", typedesc.Simple(typedesc.Int), param.Default(1))),
			Action:     noop,
		},
	)
	root.Add(db,
		&Command{Name: "status", Action: noop},
		&Command{Name: "secret", Hidden: true, Action: noop},
	)

	if err := root.Validate(":"); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	return root
}

func TestResolve(t *testing.T) {
	root := testTree(t)

	tests := []struct {
		name   string
		tokens []string
		target string
		mode   Mode
		global []string
		args   []string
	}{
		{
			name:   "nested command",
			tokens: []string{"db", "create", "--name", "x"},
			target: "create",
			mode:   ModeSubcommand,
			args:   []string{"--name", "x"},
		},
		{
			name:   "separator joins levels",
			tokens: []string{"db:create", "--name", "x"},
			target: "create",
			mode:   ModeSubcommand,
			args:   []string{"--name", "x"},
		},
		{
			name:   "alias resolves to canonical",
			tokens: []string{"database", "migrate"},
			target: "migrate",
			mode:   ModeSubcommand,
		},
		{
			name:   "global options consume their values",
			tokens: []string{"--config", "db", "-v", "status", "--extra"},
			target: "status",
			mode:   ModeSubcommand,
			global: []string{"--config", "db", "-v"},
			args:   []string{"--extra"},
		},
		{
			name:   "unknown global option stays global",
			tokens: []string{"--bogus", "status"},
			target: "status",
			mode:   ModeSubcommand,
			global: []string{"--bogus"},
		},
		{
			name:   "no command given",
			tokens: []string{"--verbose"},
			target: "app",
			mode:   ModeGlobal,
			global: []string{"--verbose"},
			args:   []string{"--verbose"},
		},
		{
			name:   "namespace without action",
			tokens: []string{"db", "--dsn", "x"},
			target: "db",
			mode:   ModeGlobal,
			args:   []string{"--dsn", "x"},
		},
		{
			name:   "hidden command routes",
			tokens: []string{"secret"},
			target: "secret",
			mode:   ModeSubcommand,
		},
		{
			name:   "leaf keeps subcommand-like tokens",
			tokens: []string{"status", "db"},
			target: "status",
			mode:   ModeSubcommand,
			args:   []string{"db"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			route, err := Resolve(root, test.tokens, DefaultRouteOptions())
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", test.tokens, err)
			}
			if route.Target.Name != test.target {
				t.Errorf("Target = %q, want %q", route.Target.Name, test.target)
			}
			if route.Mode != test.mode {
				t.Errorf("Mode = %s, want %s", route.Mode, test.mode)
			}
			if diff := cmp.Diff(test.global, route.Global(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Global() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.args, route.Args(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_Path(t *testing.T) {
	root := testTree(t)
	route, err := Resolve(root, []string{"db", "--dsn", "pg://", "create"}, DefaultRouteOptions())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	var names []string
	for _, command := range route.Path() {
		names = append(names, command.Name)
	}
	if !slices.Equal(names, []string{"app", "db", "create"}) {
		t.Errorf("Path() = %v", names)
	}
	if diff := cmp.Diff([]string{"--dsn", "pg://"}, route.Levels[1].Args); diff != "" {
		t.Errorf("namespace args mismatch (-want +got):\n%s", diff)
	}
	if got := route.Target.FullName(); got != "app db create" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestResolve_SingleMode(t *testing.T) {
	registry := convert.NewDefaultRegistry()
	root := &Command{
		Name:       "greet",
		Parameters: param.MustCompile(registry, param.Positional("name", typedesc.Simple(typedesc.String))),
		Action:     noop,
	}
	if err := root.Validate(":"); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	route, err := Resolve(root, []string{"db", "--loud"}, DefaultRouteOptions())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if route.Mode != ModeSingle || route.Target != root {
		t.Errorf("Resolve() = mode %s target %q, want single greet", route.Mode, route.Target.Name)
	}
	if diff := cmp.Diff([]string{"db", "--loud"}, route.Args()); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NotFound(t *testing.T) {
	root := testTree(t)

	tests := []struct {
		tokens      []string
		path        []string
		token       string
		suggestions []string
	}{
		{[]string{"stauts"}, []string{"app"}, "stauts", []string{"status"}},
		{[]string{"db", "craete"}, []string{"app", "db"}, "craete", []string{"create"}},
		{[]string{"db:creat"}, []string{"app", "db"}, "creat", []string{"create"}},
		{[]string{"status:x"}, []string{"app", "status"}, "x", nil},
		{[]string{"secrt"}, []string{"app"}, "secrt", nil},
	}

	for _, test := range tests {
		t.Run(strings.Join(test.tokens, " "), func(t *testing.T) {
			_, err := Resolve(root, test.tokens, DefaultRouteOptions())
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("Resolve() error = %v, want *NotFoundError", err)
			}
			if !errors.Is(err, ErrCommandNotFound) {
				t.Error("error does not wrap ErrCommandNotFound")
			}
			if clierr.CategoryOf(err) != clierr.CategoryNotFound {
				t.Errorf("CategoryOf() = %q", clierr.CategoryOf(err))
			}
			if diff := cmp.Diff(test.path, notFound.Path); diff != "" {
				t.Errorf("Path mismatch (-want +got):\n%s", diff)
			}
			if notFound.Token != test.token {
				t.Errorf("Token = %q, want %q", notFound.Token, test.token)
			}
			if diff := cmp.Diff(test.suggestions, notFound.Suggestions); diff != "" {
				t.Errorf("Suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNotFoundError_Message(t *testing.T) {
	err := &NotFoundError{Path: []string{"app", "db"}, Token: "craete", Suggestions: []string{"create"}}
	want := `unknown command "craete" in "app db" (did you mean "create"?)`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidate_Errors(t *testing.T) {
	registry := convert.NewDefaultRegistry()

	tests := []struct {
		name string
		root *Command
	}{
		{"leaf without action", &Command{Name: "app"}},
		{"empty name", &Command{Name: "", Action: noop}},
		{"dashed name", &Command{Name: "-x", Action: noop}},
		{"separator in name", (&Command{Name: "app"}).Add(&Command{Name: "db:create", Action: noop})},
		{"duplicate sibling", (&Command{Name: "app"}).Add(&Command{Name: "a", Action: noop}, &Command{Name: "a", Action: noop})},
		{"alias collides", (&Command{Name: "app"}).Add(
			&Command{Name: "a", Aliases: []string{"b"}, Action: noop},
			&Command{Name: "b", Action: noop},
		)},
		{"namespace positional", (&Command{
			Name:       "app",
			Parameters: param.MustCompile(registry, param.Positional("file", typedesc.Simple(typedesc.Path))),
		}).Add(&Command{Name: "a", Action: noop})},
		{"nested leaf without action", (&Command{Name: "app"}).Add(&Command{Name: "a"})},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.root.Validate(":")
			if !errors.Is(err, ErrInvalidTree) {
				t.Errorf("Validate() = %v, want ErrInvalidTree", err)
			}
		})
	}
}

func TestLookupAndParent(t *testing.T) {
	root := testTree(t)
	db, ok := root.Lookup("database")
	if !ok || db.Name != "db" {
		t.Fatalf("Lookup(database) = %v, %v", db, ok)
	}
	create, _ := db.Lookup("create")
	if create.Parent() != db || db.Parent() != root || root.Parent() != nil {
		t.Error("parent links not set by Validate")
	}
	if _, ok := root.Lookup("create"); ok {
		t.Error("Lookup found a grandchild")
	}
}

func TestInvocation(t *testing.T) {
	invocation := &Invocation{
		Values:   map[string]any{"name": "Sean", "loud": true, "times": 3, "ports": []any{80, 443}},
		Provided: map[string]bool{"name": true},
	}
	if invocation.String("name") != "Sean" || !invocation.Bool("loud") || invocation.Int("times") != 3 {
		t.Errorf("typed accessors returned wrong values")
	}
	if invocation.String("missing") != "" || invocation.Int("name") != 0 {
		t.Error("accessors should return zero values for absent or mistyped names")
	}
	if !invocation.Has("name") || invocation.Has("loud") {
		t.Error("Has() does not follow Provided")
	}

	var params struct {
		Name  string `arg:"name"`
		Ports []int  `flag:"ports"`
	}
	if err := invocation.Bind(&params); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if params.Name != "Sean" || !slices.Equal(params.Ports, []int{80, 443}) {
		t.Errorf("Bind() = %+v", params)
	}
}

func TestSchema(t *testing.T) {
	root := testTree(t)
	schema := root.Schema()

	var names []string
	for _, sub := range schema.Subcommands {
		names = append(names, sub.Name)
	}
	if !slices.Equal(names, []string{"db", "status"}) {
		t.Errorf("subcommands = %v, want hidden secret omitted", names)
	}
	if !schema.Namespace() || schema.Runnable {
		t.Errorf("root: namespace %v runnable %v", schema.Namespace(), schema.Runnable)
	}

	create := schema.Subcommands[0].Subcommands[0]
	if diff := cmp.Diff([]string{"app", "db", "create"}, create.Path); diff != "" {
		t.Errorf("create path mismatch (-want +got):\n%s", diff)
	}
	want := []ParameterSchema{{Name: "name", Role: "keyword", Type: "string", Required: true}}
	if diff := cmp.Diff(want, create.Parameters, cmpopts.IgnoreFields(ParameterSchema{}, "Descriptor", "Converter", "DefaultValue")); diff != "" {
		t.Errorf("create parameters mismatch (-want +got):\n%s", diff)
	}

	config := schema.Parameters[1]
	if config.Default != "app.yaml" || config.Required {
		t.Errorf("config schema = %+v", config)
	}
}
