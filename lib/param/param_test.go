// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package param

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

func TestCompile_ResolvesConvertersAndDefaults(t *testing.T) {
	registry := convert.NewDefaultRegistry()
	parameters, err := Compile(registry,
		Positional("name", typedesc.Simple(typedesc.String)),
		Keyword("count", typedesc.Simple(typedesc.Int), DefaultRaw("3"), Aliases("-c")),
		Flag("loud", Describe("shout")),
		Positional("rest", typedesc.Simple(typedesc.Int), Remaining()),
	)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(parameters) != 4 {
		t.Fatalf("Compile() returned %d parameters, want 4", len(parameters))
	}

	name, count, loud, rest := parameters[0], parameters[1], parameters[2], parameters[3]

	if !name.Required() {
		t.Error("name.Required() = false, want true")
	}
	if value, ok := count.Default(); !ok || value != 3 {
		t.Errorf("count.Default() = %v, %v; want 3, true", value, ok)
	}
	if diff := cmp.Diff([]string{"count", "c"}, count.Names()); diff != "" {
		t.Errorf("count.Names() mismatch (-want +got):\n%s", diff)
	}
	if loud.Role() != RoleFlag || loud.Required() {
		t.Errorf("loud: role %s required %v; want flag, optional", loud.Role(), loud.Required())
	}
	if value, _ := loud.Default(); value != false {
		t.Errorf("loud.Default() = %v, want false", value)
	}
	if value, ok := rest.Default(); !ok || len(value.([]any)) != 0 {
		t.Errorf("rest.Default() = %v, %v; want empty list", value, ok)
	}
	if got, err := rest.Convert("42"); err != nil || got != 42 {
		t.Errorf("rest.Convert(42) = %v, %v", got, err)
	}
}

func TestCompile_Errors(t *testing.T) {
	registry := convert.NewDefaultRegistry()
	orphan := typedesc.NewType("orphan", nil)

	tests := []struct {
		name  string
		specs []Spec
		want  error
	}{
		{
			name:  "duplicate name",
			specs: []Spec{Keyword("x", typedesc.Simple(typedesc.Int)), Flag("x")},
			want:  ErrDeclaration,
		},
		{
			name:  "alias collides with name",
			specs: []Spec{Keyword("name", typedesc.Simple(typedesc.String)), Flag("verbose", Aliases("name"))},
			want:  ErrDeclaration,
		},
		{
			name: "positional after remaining",
			specs: []Spec{
				Positional("files", typedesc.Simple(typedesc.Path), Remaining()),
				Positional("target", typedesc.Simple(typedesc.Path)),
			},
			want: ErrDeclaration,
		},
		{
			name:  "no converter",
			specs: []Spec{Positional("thing", typedesc.Simple(orphan))},
			want:  convert.ErrNoConverter,
		},
		{
			name:  "bad raw default",
			specs: []Spec{Keyword("port", typedesc.Simple(typedesc.Int), DefaultRaw("http"))},
			want:  convert.ErrConversion,
		},
		{
			name:  "empty name",
			specs: []Spec{Positional("", typedesc.Simple(typedesc.String))},
			want:  ErrDeclaration,
		},
		{
			name:  "dashed name",
			specs: []Spec{Keyword("--name", typedesc.Simple(typedesc.String))},
			want:  ErrDeclaration,
		},
		{
			name:  "non-bool flag",
			specs: []Spec{{Name: "level", Descriptor: typedesc.Simple(typedesc.Int), Role: RoleFlag}},
			want:  ErrDeclaration,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Compile(registry, test.specs...)
			if !errors.Is(err, test.want) {
				t.Fatalf("Compile() error = %v, want %v", err, test.want)
			}
			if got := clierr.CategoryOf(err); got != clierr.CategoryConfiguration {
				t.Errorf("CategoryOf() = %q, want %q", got, clierr.CategoryConfiguration)
			}
		})
	}
}

func TestMustCompile_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on duplicate names")
		}
	}()
	MustCompile(convert.NewDefaultRegistry(), Flag("x"), Flag("x"))
}

type connectionParams struct {
	Host    string        `arg:"host" desc:"server host"`
	Port    int           `flag:"port,p" desc:"server port" default:"5432"`
	Timeout time.Duration `flag:"timeout" default:"5s"`
	Verbose bool          `flag:"verbose,v"`
	Tags    []string      `flag:"tags" type:"list[str]"`
	Level   string        `flag:"level" type:"literal[debug|info]" default:"info"`
	Token   string        `flag:"token" env:"ARGOT_TOKEN" hidden:"true" default:""`
	Ignored string
}

type namedParams struct {
	connectionParams
	Files []string `arg:"files,remaining"`
}

func TestFromStruct(t *testing.T) {
	var params namedParams
	parameters, err := FromStruct(convert.NewDefaultRegistry(), &params)
	if err != nil {
		t.Fatalf("FromStruct() error: %v", err)
	}

	type summary struct {
		Name       string
		Role       Role
		Arity      Arity
		Descriptor string
		Required   bool
		Aliases    []string
	}
	var got []summary
	for _, parameter := range parameters {
		got = append(got, summary{
			Name:       parameter.Name(),
			Role:       parameter.Role(),
			Arity:      parameter.Arity(),
			Descriptor: parameter.Descriptor().String(),
			Required:   parameter.Required(),
			Aliases:    parameter.Aliases(),
		})
	}
	want := []summary{
		{Name: "host", Role: RolePositional, Descriptor: "string", Required: true},
		{Name: "port", Role: RoleKeyword, Descriptor: "int", Aliases: []string{"p"}},
		{Name: "timeout", Role: RoleKeyword, Descriptor: "duration"},
		{Name: "verbose", Role: RoleFlag, Descriptor: "bool", Aliases: []string{"v"}},
		{Name: "tags", Role: RoleKeyword, Descriptor: "list[string]", Required: true},
		{Name: "level", Role: RoleKeyword, Descriptor: "literal[debug|info]"},
		{Name: "token", Role: RoleKeyword, Descriptor: "string"},
		{Name: "files", Role: RolePositional, Arity: ArityRemaining, Descriptor: "string"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromStruct() mismatch (-want +got):\n%s", diff)
	}

	if parameters[6].Env() != "ARGOT_TOKEN" || !parameters[6].Hidden() {
		t.Errorf("token: env %q hidden %v", parameters[6].Env(), parameters[6].Hidden())
	}
	if value, _ := parameters[2].Default(); value != 5*time.Second {
		t.Errorf("timeout default = %v, want 5s", value)
	}
}

func TestFromStruct_RejectsUnsupported(t *testing.T) {
	var params struct {
		Callback func() `flag:"callback"`
	}
	if _, err := FromStruct(convert.NewDefaultRegistry(), &params); err == nil {
		t.Error("FromStruct() accepted a func field")
	}
	if _, err := FromStruct(convert.NewDefaultRegistry(), params); err == nil {
		t.Error("FromStruct() accepted a non-pointer")
	}
}

func TestBind(t *testing.T) {
	color := typedesc.NewEnum("color", "red", "green")
	green, _ := color.ByName("green")

	var params struct {
		Name    string            `arg:"name"`
		Count   int64             `flag:"count"`
		Size    uint64            `flag:"size"`
		Ratio   float32           `flag:"ratio"`
		Tags    []string          `flag:"tags"`
		Ports   []uint16          `flag:"ports"`
		Labels  map[string]string `flag:"labels"`
		Color   string            `flag:"color"`
		Ordinal int               `flag:"ordinal"`
		Unset   string            `flag:"unset"`
	}
	params.Unset = "kept"

	values := map[string]any{
		"name":    "db",
		"count":   7,
		"size":    uint64(1 << 20),
		"ratio":   0.5,
		"tags":    convert.NewSet("a", "b"),
		"ports":   []any{80, 443},
		"labels":  map[string]any{"env": "prod"},
		"color":   green,
		"ordinal": green,
	}
	if err := Bind(values, &params); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}

	if params.Name != "db" || params.Count != 7 || params.Size != 1<<20 || params.Ratio != 0.5 {
		t.Errorf("scalars = %+v", params)
	}
	if diff := cmp.Diff([]string{"a", "b"}, params.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint16{80, 443}, params.Ports); diff != "" {
		t.Errorf("Ports mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"env": "prod"}, params.Labels); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
	if params.Color != "green" || params.Ordinal != 1 {
		t.Errorf("enum binding: Color %q Ordinal %d", params.Color, params.Ordinal)
	}
	if params.Unset != "kept" {
		t.Errorf("Unset = %q, want untouched", params.Unset)
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"string into int", map[string]any{"count": "seven"}},
		{"overflow", map[string]any{"small": 300}},
		{"negative into unsigned", map[string]any{"size": -1}},
		{"fraction into int", map[string]any{"count": 1.5}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var params struct {
				Count int    `flag:"count"`
				Small int8   `flag:"small"`
				Size  uint32 `flag:"size"`
			}
			if err := Bind(test.values, &params); err == nil {
				t.Errorf("Bind(%v) = nil error", test.values)
			}
		})
	}
}
