// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package convert turns raw argument strings into typed values.
//
// A [Registry] maps type descriptors to [Converter] implementations.
// Simple descriptors resolve by walking the type's ancestry until a
// registered type is found; composite descriptors (union, list, set,
// tuple, literal, enum, range, mapping) dispatch on their kind and
// resolve their nested descriptors once, when the composite converter
// is built. Resolution either yields exactly one converter or fails
// with a [NoConverterFoundError]; the only fallback is the registry's
// own passthrough for [typedesc.Any].
//
// Registries follow a single-writer lifecycle: register everything
// during program initialization, call [Registry.Seal], and share the
// registry read-only from then on. Resolve and Convert never mutate
// the registry and are safe for concurrent use once sealed.
//
// Every conversion failure is a [ConversionError] carrying the
// offending value and a human-readable expectation. Composite
// conversions are all-or-nothing: a failing element fails the whole
// value.
//
// [FlagValue] adapts a resolved converter to [pflag.Value] so that
// declared parameters can also be exposed through a pflag.FlagSet.
package convert
