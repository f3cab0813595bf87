// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/param"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

func greetParams(t *testing.T) []*param.Parameter {
	t.Helper()
	parameters, err := param.Compile(convert.NewDefaultRegistry(),
		param.Positional("name", typedesc.Simple(typedesc.String)),
		param.Flag("loud", param.Aliases("l")),
		param.Keyword("times", typedesc.Simple(typedesc.Int), param.Default(1), param.Aliases("n")),
	)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	return parameters
}

func TestParse_Binding(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		values map[string]any
		extra  []string
	}{
		{
			name:   "flag before positional",
			tokens: []string{"--loud", "Sean"},
			values: map[string]any{"name": "Sean", "loud": true, "times": 1},
		},
		{
			name:   "keyword with separate value",
			tokens: []string{"Sean", "--times", "3"},
			values: map[string]any{"name": "Sean", "loud": false, "times": 3},
		},
		{
			name:   "keyword with inline value",
			tokens: []string{"--times=4", "Sean"},
			values: map[string]any{"name": "Sean", "loud": false, "times": 4},
		},
		{
			name:   "short aliases",
			tokens: []string{"-l", "-n", "2", "Sean"},
			values: map[string]any{"name": "Sean", "loud": true, "times": 2},
		},
		{
			name:   "negated flag",
			tokens: []string{"--loud", "--no-loud", "Sean"},
			values: map[string]any{"name": "Sean", "loud": false, "times": 1},
		},
		{
			name:   "flag with inline value",
			tokens: []string{"--loud=yes", "Sean"},
			values: map[string]any{"name": "Sean", "loud": true, "times": 1},
		},
		{
			name:   "repeated keyword keeps last",
			tokens: []string{"Sean", "--times", "2", "--times", "5"},
			values: map[string]any{"name": "Sean", "loud": false, "times": 5},
		},
		{
			name:   "surplus positional is extra",
			tokens: []string{"Sean", "extra"},
			values: map[string]any{"name": "Sean", "loud": false, "times": 1},
			extra:  []string{"extra"},
		},
		{
			name:   "unknown option is extra",
			tokens: []string{"--lod", "Sean"},
			values: map[string]any{"name": "Sean", "loud": false, "times": 1},
			extra:  []string{"--lod"},
		},
		{
			name:   "end of options",
			tokens: []string{"--", "--loud"},
			values: map[string]any{"name": "--loud", "loud": false, "times": 1},
		},
		{
			name:   "negative number is positional",
			tokens: []string{"-5"},
			values: map[string]any{"name": "-5", "loud": false, "times": 1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := Parse(greetParams(t), test.tokens, DefaultOptions())
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", test.tokens, err)
			}
			if diff := cmp.Diff(test.values, result.Values); diff != "" {
				t.Errorf("Values mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.extra, result.Extra); diff != "" {
				t.Errorf("Extra mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_KeywordMissingValueIsExtra(t *testing.T) {
	result, err := Parse(greetParams(t), []string{"Sean", "--times"}, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff([]string{"--times"}, result.Extra); diff != "" {
		t.Errorf("Extra mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UsageErrors(t *testing.T) {
	result, err := Parse(greetParams(t), []string{"--times", "many"}, DefaultOptions())
	if err == nil {
		t.Fatal("Parse() = nil error, want missing name and bad times")
	}
	if result == nil {
		t.Fatal("Parse() returned nil result alongside error")
	}
	if !errors.Is(err, ErrUsage) || !errors.Is(err, ErrMissing) || !errors.Is(err, convert.ErrConversion) {
		t.Errorf("error %v does not wrap ErrUsage, ErrMissing and ErrConversion", err)
	}

	err = WithCommand(err, "argot greet")
	message := err.Error()
	for _, want := range []string{`argot greet: name: missing required value`, `invalid value "many": expected int`} {
		if !strings.Contains(message, want) {
			t.Errorf("error %q does not contain %q", message, want)
		}
	}
	if strings.Count(message, "times") != 1 {
		t.Errorf("error %q reports times more than once", message)
	}
	if got := clierr.CategoryOf(err); got != clierr.CategoryUsage {
		t.Errorf("CategoryOf() = %q, want usage", got)
	}
}

func TestParse_MissingReportsUnbound(t *testing.T) {
	_, err := Parse(greetParams(t), []string{"--nmae", "-q"}, DefaultOptions())
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("Parse() error = %v, want ErrMissing", err)
	}
	want := "name: missing required value (unbound: --nmae -q)"
	if err.Error() != want {
		t.Errorf("Parse() error = %q, want %q", err.Error(), want)
	}
}

func TestParse_NegativeNumbersArePositional(t *testing.T) {
	parameters, err := param.Compile(convert.NewDefaultRegistry(),
		param.Positional("x", typedesc.Simple(typedesc.Float)),
	)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	tests := []struct {
		token string
		want  float64
	}{
		{"-5", -5},
		{"-1.5", -1.5},
		{"-1e5", -1e5},
		{"-2E-3", -2e-3},
		{"-.5", -0.5},
	}
	for _, test := range tests {
		t.Run(test.token, func(t *testing.T) {
			result, err := Parse(parameters, []string{test.token}, DefaultOptions())
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", test.token, err)
			}
			if got := result.Values["x"]; got != test.want {
				t.Errorf("x = %v, want %v", got, test.want)
			}
		})
	}
}

func TestIsOption(t *testing.T) {
	options := DefaultOptions()
	tests := []struct {
		token string
		want  bool
	}{
		{"--name", true},
		{"-n", true},
		{"-e5", true},
		{"-inf", true},
		{"-5", false},
		{"-1e5", false},
		{"-0x10", false},
		{"-1_000", false},
		{"value", false},
		{"-", false},
		{"--", false},
	}
	for _, test := range tests {
		if got := options.IsOption(test.token); got != test.want {
			t.Errorf("IsOption(%q) = %v, want %v", test.token, got, test.want)
		}
	}
}

func TestParse_Remaining(t *testing.T) {
	parameters := param.MustCompile(convert.NewDefaultRegistry(),
		param.Positional("first", typedesc.Simple(typedesc.Int)),
		param.Positional("rest", typedesc.Simple(typedesc.Int), param.Remaining()),
		param.Keyword("tag", typedesc.Simple(typedesc.String), param.Remaining()),
	)

	result, err := Parse(parameters, []string{"1", "2", "--tag", "a", "3", "--tag=b"}, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := map[string]any{"first": 1, "rest": []any{2, 3}, "tag": []any{"a", "b"}}
	if diff := cmp.Diff(want, result.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}

	result, err = Parse(parameters, []string{"1"}, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"first": 1, "rest": []any{}, "tag": []any{}}, result.Values); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EnvironmentBeforeDefault(t *testing.T) {
	parameters := param.MustCompile(convert.NewDefaultRegistry(),
		param.Keyword("port", typedesc.Range(1, 65536), param.Default(8080), param.Env("ARGOT_PORT")),
		param.Keyword("hosts", typedesc.Simple(typedesc.String), param.Remaining(), param.Env("ARGOT_HOSTS")),
	)
	environment := map[string]string{"ARGOT_PORT": "9090", "ARGOT_HOSTS": "a, b"}
	options := DefaultOptions()
	options.LookupEnv = func(name string) (string, bool) {
		value, ok := environment[name]
		return value, ok
	}

	result, err := Parse(parameters, nil, options)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"port": 9090, "hosts": []any{"a", "b"}}, result.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
	if !result.Provided["port"] {
		t.Error("Provided[port] = false for environment value")
	}

	result, err = Parse(parameters, []string{"--port", "7070"}, options)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if result.Values["port"] != 7070 {
		t.Errorf("command line port = %v, want 7070 over environment", result.Values["port"])
	}

	environment["ARGOT_PORT"] = "0"
	if _, err := Parse(parameters, nil, options); !errors.Is(err, convert.ErrConversion) {
		t.Errorf("Parse() with out-of-range environment = %v, want conversion error", err)
	}
}

func TestParse_CustomSyntax(t *testing.T) {
	parameters := param.MustCompile(convert.NewDefaultRegistry(),
		param.Keyword("level", typedesc.Literal("low", "high")),
		param.Flag("force"),
	)
	options := Options{FlagPrefix: "/", AssignToken: ":"}

	result, err := Parse(parameters, []string{"/level:high", "/force"}, options)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"level": "high", "force": true}, result.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	global := &Result{
		Values:   map[string]any{"verbose": true, "config": "default.yaml"},
		Provided: map[string]bool{"verbose": true},
		Extra:    []string{"--x"},
	}
	command := &Result{
		Values:   map[string]any{"verbose": false, "config": "cli.yaml", "name": "db"},
		Provided: map[string]bool{"config": true, "name": true},
		Extra:    []string{"--y"},
	}

	merged := Merge(global, nil, command)
	want := map[string]any{"verbose": true, "config": "cli.yaml", "name": "db"}
	if diff := cmp.Diff(want, merged.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--x", "--y"}, merged.Extra); diff != "" {
		t.Errorf("Extra mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionSpanAndNames(t *testing.T) {
	parameters := greetParams(t)
	options := DefaultOptions()
	tokens := []string{"--times", "3", "--loud", "--times=2", "--bogus", "Sean"}

	tests := []struct {
		index int
		span  int
		known bool
	}{
		{0, 2, true},
		{2, 1, true},
		{3, 1, true},
		{4, 1, false},
		{5, 0, false},
	}
	for _, test := range tests {
		span, known := options.OptionSpan(parameters, tokens, test.index)
		if span != test.span || known != test.known {
			t.Errorf("OptionSpan(%q) = %d, %v; want %d, %v", tokens[test.index], span, known, test.span, test.known)
		}
	}

	want := []string{"--loud", "-l", "--no-loud", "--times", "-n"}
	if diff := cmp.Diff(want, options.Names(parameters)); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
