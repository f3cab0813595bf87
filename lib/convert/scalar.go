// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/argot/lib/typedesc"
)

func registerScalars(registry *Registry) {
	registry.Register(typedesc.String, Static(passthrough{}))
	registry.Register(typedesc.Bool, Static(boolConverter{}))
	registry.Register(typedesc.Number, Static(floatConverter{expected: "number"}))
	registry.Register(typedesc.Int, Static(intConverter{}))
	registry.Register(typedesc.Float, Static(floatConverter{expected: "float"}))
	registry.Register(typedesc.Bytes, Static(bytesConverter{}))
	registry.Register(typedesc.Size, Static(sizeConverter{}))
	registry.Register(typedesc.Duration, Static(durationConverter{}))
	registry.Register(typedesc.Path, Static(pathConverter{}))
}

// boolConverter accepts the usual spellings of a boolean,
// case-insensitively.
type boolConverter struct{}

func (boolConverter) Convert(raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "on", "1":
		return true, nil
	case "false", "f", "no", "n", "off", "0":
		return false, nil
	}
	return nil, conversionError(raw, "bool", nil)
}

func (boolConverter) Format(value any) (string, error) {
	b, ok := value.(bool)
	if !ok {
		return "", fmt.Errorf("bool formatter: unexpected %T", value)
	}
	return strconv.FormatBool(b), nil
}

// intConverter parses decimal integers. Hexadecimal, octal and binary
// need an explicit 0x, 0o or 0b prefix; a leading zero alone does not
// switch to octal.
type intConverter struct{}

func (intConverter) Convert(raw string) (any, error) {
	value, err := parseInt(raw)
	if err != nil {
		return nil, conversionError(raw, "int", nil)
	}
	return value, nil
}

func (intConverter) Format(value any) (string, error) {
	i, ok := value.(int)
	if !ok {
		return "", fmt.Errorf("int formatter: unexpected %T", value)
	}
	return strconv.Itoa(i), nil
}

func parseInt(raw string) (int, error) {
	text := strings.TrimSpace(raw)
	unsigned := strings.TrimLeft(text, "+-")
	base := 10
	if len(unsigned) > 2 && unsigned[0] == '0' {
		switch unsigned[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			base = 0
		}
	}
	value, err := strconv.ParseInt(text, base, strconv.IntSize)
	return int(value), err
}

type floatConverter struct {
	expected string
}

func (c floatConverter) Convert(raw string) (any, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, conversionError(raw, c.expected, nil)
	}
	return value, nil
}

func (c floatConverter) Format(value any) (string, error) {
	f, ok := value.(float64)
	if !ok {
		return "", fmt.Errorf("%s formatter: unexpected %T", c.expected, value)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// bytesConverter yields the raw bytes of its input, or decodes it
// when prefixed with "hex:" or "base64:".
type bytesConverter struct{}

func (bytesConverter) Convert(raw string) (any, error) {
	switch {
	case strings.HasPrefix(raw, "hex:"):
		decoded, err := hex.DecodeString(strings.TrimPrefix(raw, "hex:"))
		if err != nil {
			return nil, conversionError(raw, "hex-encoded bytes", nil)
		}
		return decoded, nil
	case strings.HasPrefix(raw, "base64:"):
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, "base64:"))
		if err != nil {
			return nil, conversionError(raw, "base64-encoded bytes", nil)
		}
		return decoded, nil
	}
	return []byte(raw), nil
}

func (bytesConverter) Format(value any) (string, error) {
	b, ok := value.([]byte)
	if !ok {
		return "", fmt.Errorf("bytes formatter: unexpected %T", value)
	}
	return "base64:" + base64.StdEncoding.EncodeToString(b), nil
}

// sizeConverter parses byte sizes such as "512", "10MB" or "1.5 GiB".
type sizeConverter struct{}

func (sizeConverter) Convert(raw string) (any, error) {
	value, err := humanize.ParseBytes(strings.TrimSpace(raw))
	if err != nil {
		return nil, conversionError(raw, "a byte size like 512, 10MB or 2GiB", nil)
	}
	return value, nil
}

func (sizeConverter) Format(value any) (string, error) {
	size, ok := value.(uint64)
	if !ok {
		return "", fmt.Errorf("size formatter: unexpected %T", value)
	}
	return strconv.FormatUint(size, 10), nil
}

type durationConverter struct{}

func (durationConverter) Convert(raw string) (any, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return nil, conversionError(raw, "a duration like 30s or 1h15m", nil)
	}
	return value, nil
}

func (durationConverter) Format(value any) (string, error) {
	d, ok := value.(time.Duration)
	if !ok {
		return "", fmt.Errorf("duration formatter: unexpected %T", value)
	}
	return d.String(), nil
}

// pathConverter cleans the path and expands a leading "~/" against
// the user's home directory. It never touches the filesystem.
type pathConverter struct{}

func (pathConverter) Convert(raw string) (any, error) {
	if raw == "" {
		return nil, conversionError(raw, "a non-empty path", nil)
	}
	path := raw
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, conversionError(raw, "a path", fmt.Errorf("expanding ~: %w", err))
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

func (pathConverter) Format(value any) (string, error) {
	path, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("path formatter: unexpected %T", value)
	}
	return path, nil
}
