// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

// ErrConversion is wrapped by every [ConversionError] so callers can
// test with errors.Is without caring about the concrete fields.
var ErrConversion = errors.New("conversion failed")

// ErrNoConverter is wrapped by every [NoConverterFoundError].
var ErrNoConverter = errors.New("no converter found")

// ConversionError reports that Value could not be converted. Expected
// describes what would have been accepted ("int", "one of int, bool",
// "a number in [1, 10)"). Err, when set, is the nested cause: the
// failing element of a list, or an [ArityError] for tuples.
type ConversionError struct {
	Value    string
	Expected string
	Err      error
}

func (e *ConversionError) Error() string {
	message := fmt.Sprintf("invalid value %q: expected %s", e.Value, e.Expected)
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

// Unwrap returns both the nested cause and [ErrConversion].
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{e.Err, ErrConversion}
}

// Category reports clierr.CategoryConversion.
func (e *ConversionError) Category() clierr.Category { return clierr.CategoryConversion }

// ArityError reports a fixed tuple that received the wrong number of
// elements.
type ArityError struct {
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expected %d values, got %d", e.Expected, e.Actual)
}

// NoConverterFoundError reports a descriptor that neither the
// registry nor any ancestor of its type can convert. It is a
// declaration problem and surfaces while parameters are compiled.
type NoConverterFoundError struct {
	Descriptor typedesc.Descriptor
}

func (e *NoConverterFoundError) Error() string {
	return fmt.Sprintf("no converter registered for %s", e.Descriptor)
}

// Unwrap returns [ErrNoConverter].
func (e *NoConverterFoundError) Unwrap() error { return ErrNoConverter }

// Category reports clierr.CategoryConfiguration.
func (e *NoConverterFoundError) Category() clierr.Category {
	return clierr.CategoryConfiguration
}

func conversionError(value, expected string, cause error) *ConversionError {
	return &ConversionError{Value: value, Expected: expected, Err: cause}
}
