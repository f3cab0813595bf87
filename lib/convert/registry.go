// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"sync/atomic"

	"github.com/bureau-foundation/argot/lib/typedesc"
)

// Converter parses a raw string into a value of one descriptor's
// shape.
type Converter interface {
	Convert(raw string) (any, error)
}

// ConverterFunc adapts a plain function to [Converter].
type ConverterFunc func(raw string) (any, error)

// Convert calls f.
func (f ConverterFunc) Convert(raw string) (any, error) { return f(raw) }

// Formatter renders a converted value back to the raw form its
// converter accepts. Converting the output of Format yields a value
// equal to the input.
type Formatter interface {
	Format(value any) (string, error)
}

// Factory builds a converter for descriptor. Factories for composite
// kinds call back into registry to resolve nested descriptors.
type Factory func(registry *Registry, descriptor typedesc.Descriptor) (Converter, error)

// Registry maps simple types and composite kinds to converter
// factories.
type Registry struct {
	types  map[*typedesc.Type]Factory
	kinds  map[typedesc.Kind]Factory
	sealed atomic.Bool
}

// NewRegistry returns a registry whose only entry is the passthrough
// converter for [typedesc.Any]. Every builtin type descends from Any,
// so until more specific converters are registered they all convert
// to their raw string.
func NewRegistry() *Registry {
	registry := &Registry{
		types: make(map[*typedesc.Type]Factory),
		kinds: make(map[typedesc.Kind]Factory),
	}
	registry.Register(typedesc.Any, Static(passthrough{}))
	return registry
}

// NewDefaultRegistry returns a registry with converters for every
// builtin type and every composite kind. The registry is not sealed;
// callers may add their own types before sealing it.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registerScalars(registry)
	registerComposites(registry)
	return registry
}

// Static returns a factory that always yields converter. Use it for
// simple types whose converter does not depend on the descriptor.
func Static(converter Converter) Factory {
	return func(*Registry, typedesc.Descriptor) (Converter, error) {
		return converter, nil
	}
}

// Register installs factory for t. A later registration for the same
// type replaces the earlier one. Register panics after [Registry.Seal].
func (r *Registry) Register(t *typedesc.Type, factory Factory) {
	if r.sealed.Load() {
		panic(fmt.Sprintf("convert: Register(%s) on a sealed registry", t.Name()))
	}
	r.types[t] = factory
}

// RegisterKind installs factory for a composite kind. RegisterKind
// panics for [typedesc.KindSimple] and after [Registry.Seal].
func (r *Registry) RegisterKind(kind typedesc.Kind, factory Factory) {
	if kind == typedesc.KindSimple {
		panic("convert: RegisterKind(simple): register simple types with Register")
	}
	if r.sealed.Load() {
		panic(fmt.Sprintf("convert: RegisterKind(%s) on a sealed registry", kind))
	}
	r.kinds[kind] = factory
}

// Seal ends the registration phase. Subsequent Register and
// RegisterKind calls panic.
func (r *Registry) Seal() { r.sealed.Store(true) }

// Sealed reports whether [Registry.Seal] has been called.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Resolve returns the converter for descriptor. Composite descriptors
// dispatch on their kind; simple descriptors walk the type's ancestry
// from most-derived to least-derived and use the first registered
// type.
func (r *Registry) Resolve(descriptor typedesc.Descriptor) (Converter, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	if descriptor.IsComposite() {
		factory, ok := r.kinds[descriptor.Kind]
		if !ok {
			return nil, &NoConverterFoundError{Descriptor: descriptor}
		}
		return factory(r, descriptor)
	}

	for _, ancestor := range descriptor.Type.Ancestry() {
		if factory, ok := r.types[ancestor]; ok {
			return factory(r, descriptor)
		}
	}
	return nil, &NoConverterFoundError{Descriptor: descriptor}
}

// Convert resolves descriptor and converts raw with the result.
// Callers converting many values of one descriptor should Resolve
// once and reuse the converter.
func (r *Registry) Convert(raw string, descriptor typedesc.Descriptor) (any, error) {
	converter, err := r.Resolve(descriptor)
	if err != nil {
		return nil, err
	}
	return converter.Convert(raw)
}

// Format renders value with converter. Converters that do not
// implement [Formatter] fall back to fmt's %v.
func Format(converter Converter, value any) (string, error) {
	if formatter, ok := converter.(Formatter); ok {
		return formatter.Format(value)
	}
	return fmt.Sprint(value), nil
}

// passthrough returns the raw string unchanged.
type passthrough struct{}

func (passthrough) Convert(raw string) (any, error) { return raw, nil }

func (passthrough) Format(value any) (string, error) {
	if text, ok := value.(string); ok {
		return text, nil
	}
	return fmt.Sprint(value), nil
}
