// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/argot/lib/typedesc"
)

// FlagValue exposes a converter as a [pflag.Value]. Each Set converts
// its argument; the last successful conversion is available from
// [FlagValue.Value].
type FlagValue struct {
	converter  Converter
	descriptor typedesc.Descriptor
	value      any
	changed    bool
}

var _ pflag.Value = (*FlagValue)(nil)

// NewFlagValue returns a FlagValue that converts with converter and
// starts out holding initial (which may be nil).
func NewFlagValue(converter Converter, descriptor typedesc.Descriptor, initial any) *FlagValue {
	return &FlagValue{converter: converter, descriptor: descriptor, value: initial}
}

// String renders the current value in the converter's raw syntax, or
// "" when there is no value.
func (v *FlagValue) String() string {
	if v == nil || v.value == nil {
		return ""
	}
	text, err := Format(v.converter, v.value)
	if err != nil {
		return ""
	}
	return text
}

// Set converts raw and stores the result.
func (v *FlagValue) Set(raw string) error {
	value, err := v.converter.Convert(raw)
	if err != nil {
		return err
	}
	v.value = value
	v.changed = true
	return nil
}

// Type returns the descriptor expression, which pflag shows as the
// value placeholder in usage output.
func (v *FlagValue) Type() string { return v.descriptor.String() }

// Value returns the current converted value.
func (v *FlagValue) Value() any { return v.value }

// Changed reports whether Set has succeeded at least once.
func (v *FlagValue) Changed() bool { return v.changed }
