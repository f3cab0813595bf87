// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Strict {
		t.Error("expected strict=true by default")
	}
	if cfg.Separator != ":" {
		t.Errorf("expected separator=:, got %q", cfg.Separator)
	}
	if cfg.Syntax.FlagPrefix != "--" || cfg.Syntax.Assign != "=" {
		t.Errorf("unexpected syntax defaults: %+v", cfg.Syntax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_RequiresArgotConfig(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when ARGOT_CONFIG not set, got nil")
	}
	expectedMsg := "ARGOT_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithArgotConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "argot.yaml")
	if err := os.WriteFile(configPath, []byte("strict: false\nseparator: \"/\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(EnvVar, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Strict {
		t.Error("expected strict=false from file")
	}
	if cfg.Separator != "/" {
		t.Errorf("expected separator=/, got %q", cfg.Separator)
	}
	if cfg.Syntax.FlagPrefix != "--" {
		t.Errorf("expected untouched defaults to survive, got flag_prefix=%q", cfg.Syntax.FlagPrefix)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "argot.yaml")
	content := `
strict: false
separator: "."
help_flags: ["-?"]
max_distance: 1
exit_code: 2
syntax:
  flag_prefix: "/"
  short_prefix: ""
  assign: ":"
log:
  level: debug
  format: json
  file: ${ARGOT_TEST_LOGDIR:-/tmp}/argot.log
output:
  color: never
  width: 100
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Syntax.FlagPrefix != "/" || cfg.Syntax.Assign != ":" || cfg.Syntax.ShortPrefix != "" {
		t.Errorf("syntax = %+v", cfg.Syntax)
	}
	if cfg.Log.File != "/tmp/argot.log" {
		t.Errorf("expected expanded log file, got %q", cfg.Log.File)
	}
	if cfg.ColorProfile() != termenv.Ascii {
		t.Error("expected color=never to select the ASCII profile")
	}

	options := cfg.PipelineOptions()
	if options.Strict || options.ExitCode != 2 || options.MaxDistance != 1 {
		t.Errorf("pipeline options = strict %v exit %d distance %d", options.Strict, options.ExitCode, options.MaxDistance)
	}
	if options.Route.Separator != "." || options.Route.Syntax.FlagPrefix != "/" {
		t.Errorf("route options = %+v", options.Route)
	}
	if len(options.HelpFlags) != 1 || options.HelpFlags[0] != "-?" {
		t.Errorf("help flags = %v", options.HelpFlags)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "argot.jsonc")
	content := `{
  // Lenient mode for scripts.
  "strict": false,
  "log": {"level": "info",},
}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Strict || cfg.Log.Level != "info" || cfg.Log.Format != "auto" {
		t.Errorf("unexpected settings: strict=%v log=%+v", cfg.Strict, cfg.Log)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown YAML key", "a.yaml", "strikt: true\n", "strikt"},
		{"unknown JSON key", "a.json", `{"strikt": true}`, "strikt"},
		{"malformed YAML", "a.yaml", "strict: [\n", "parsing YAML"},
		{"invalid value", "a.yaml", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			_, err := LoadFile(configPath)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadFile() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadFile_EmptyKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if !cfg.Strict || cfg.Separator != ":" {
		t.Errorf("empty file changed defaults: %+v", cfg)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/argot",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/argot",
		},
		{
			input:    "${ARGOT_TEST_MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   string
	}{
		{"empty flag prefix", func(s *Settings) { s.Syntax.FlagPrefix = "" }, "syntax.flag_prefix"},
		{"empty assign", func(s *Settings) { s.Syntax.Assign = "" }, "syntax.assign"},
		{"same prefixes", func(s *Settings) { s.Syntax.ShortPrefix = "--" }, "short_prefix"},
		{"separator is assign", func(s *Settings) { s.Separator = "=" }, "collides"},
		{"separator with space", func(s *Settings) { s.Separator = " " }, "whitespace"},
		{"negative distance", func(s *Settings) { s.MaxDistance = -1 }, "max_distance"},
		{"exit code zero", func(s *Settings) { s.ExitCode = 0 }, "exit_code"},
		{"bad format", func(s *Settings) { s.Log.Format = "xml" }, "log.format"},
		{"bad color", func(s *Settings) { s.Output.Color = "sometimes" }, "output.color"},
		{"negative width", func(s *Settings) { s.Output.Width = -4 }, "output.width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(LogSettings{Level: "info", Format: "auto"}, &buffer)
	logger.Debug("hidden")
	logger.Info("routed", "target", "db create")

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("non-terminal output is not a single JSON record: %v\n%s", err, buffer.String())
	}
	if record["msg"] != "routed" || record["target"] != "db create" {
		t.Errorf("record = %v", record)
	}

	buffer.Reset()
	NewLogger(LogSettings{Level: "debug", Format: "text"}, &buffer).Debug("traced", "stage", "parse")
	if !strings.Contains(buffer.String(), "traced") || !strings.Contains(buffer.String(), "stage=parse") {
		t.Errorf("text output = %q", buffer.String())
	}
}

func TestOpenLog(t *testing.T) {
	var fallback bytes.Buffer
	w, closeLog, err := OpenLog(LogSettings{}, &fallback)
	if err != nil || w != &fallback {
		t.Fatalf("OpenLog() without file = %v, %v", w, err)
	}
	if err := closeLog(); err != nil {
		t.Errorf("close() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "argot.log")
	w, closeLog, err = OpenLog(LogSettings{File: path}, &fallback)
	if err != nil {
		t.Fatalf("OpenLog() error: %v", err)
	}
	NewLogger(LogSettings{Level: "info", Format: "json"}, w).Info("written")
	if err := closeLog(); err != nil {
		t.Errorf("close() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "written") {
		t.Errorf("log file = %q, %v", data, err)
	}

	_, closeLog, err = OpenLog(LogSettings{File: filepath.Join(t.TempDir(), "missing", "argot.log")}, &fallback)
	if err == nil {
		t.Fatal("OpenLog() in a missing directory = nil error")
	}
	if closeLog == nil {
		t.Fatal("OpenLog() returned a nil close function on error")
	}
	if err := closeLog(); err != nil {
		t.Errorf("close() after failed open error: %v", err)
	}
}
