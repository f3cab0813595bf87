// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/argot/lib/clierr"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

type upperConverter struct{}

func (*upperConverter) Convert(raw string) (any, error) { return strings.ToUpper(raw), nil }

func TestRegistry_ResolveDirect(t *testing.T) {
	registry := NewRegistry()
	converter := &upperConverter{}
	registry.Register(typedesc.String, Static(converter))

	resolved, err := registry.Resolve(typedesc.Simple(typedesc.String))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != converter {
		t.Errorf("Resolve(string) = %v, want the registered converter", resolved)
	}
}

func TestRegistry_ResolveWalksAncestry(t *testing.T) {
	registry := NewRegistry()
	converter := &upperConverter{}
	registry.Register(typedesc.String, Static(converter))

	hostname := typedesc.NewType("hostname", typedesc.String)
	fqdn := typedesc.NewType("fqdn", hostname)

	resolved, err := registry.Resolve(typedesc.Simple(fqdn))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != converter {
		t.Errorf("Resolve(fqdn) = %v, want string's converter", resolved)
	}

	// A registration on an intermediate ancestor takes precedence.
	closer := &upperConverter{}
	registry.Register(hostname, Static(closer))
	resolved, err = registry.Resolve(typedesc.Simple(fqdn))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != closer {
		t.Errorf("Resolve(fqdn) after hostname registration = %v, want hostname's converter", resolved)
	}
}

func TestRegistry_PassthroughForAny(t *testing.T) {
	registry := NewRegistry()

	value, err := registry.Convert("  raw text ", typedesc.Simple(typedesc.Int))
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if value != "  raw text " {
		t.Errorf("Convert() = %#v, want the raw string", value)
	}
}

func TestRegistry_NoConverterFound(t *testing.T) {
	registry := NewDefaultRegistry()
	orphan := typedesc.NewType("orphan", nil)

	_, err := registry.Resolve(typedesc.Simple(orphan))
	if err == nil {
		t.Fatal("Resolve(orphan) = nil error, want NoConverterFoundError")
	}
	var notFound *NoConverterFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Resolve(orphan) error = %T, want *NoConverterFoundError", err)
	}
	if !errors.Is(err, ErrNoConverter) {
		t.Error("error does not wrap ErrNoConverter")
	}
	if clierr.CategoryOf(err) != clierr.CategoryConfiguration {
		t.Errorf("CategoryOf = %q, want configuration", clierr.CategoryOf(err))
	}

	// Nested descriptors fail the same way, at resolution time.
	_, err = registry.Resolve(typedesc.ListOf(typedesc.Simple(orphan)))
	if !errors.As(err, &notFound) {
		t.Errorf("Resolve(list[orphan]) error = %v, want NoConverterFoundError", err)
	}
}

func TestRegistry_CompositeKindUnregistered(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Resolve(typedesc.ListOf(typedesc.Simple(typedesc.Int)))
	if !errors.Is(err, ErrNoConverter) {
		t.Errorf("Resolve(list) on empty registry error = %v, want ErrNoConverter", err)
	}
}

func TestRegistry_InvalidDescriptor(t *testing.T) {
	registry := NewDefaultRegistry()
	_, err := registry.Resolve(typedesc.Range(5, 1))
	if !errors.Is(err, typedesc.ErrInvalidDescriptor) {
		t.Errorf("Resolve(range[5,1)) error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestRegistry_SealPanics(t *testing.T) {
	registry := NewDefaultRegistry()
	registry.Seal()
	if !registry.Sealed() {
		t.Fatal("Sealed() = false after Seal()")
	}

	defer func() {
		if recover() == nil {
			t.Error("Register after Seal did not panic")
		}
	}()
	registry.Register(typedesc.String, Static(&upperConverter{}))
}

func TestRegistry_ResolveAfterSeal(t *testing.T) {
	registry := NewDefaultRegistry()
	registry.Seal()

	value, err := registry.Convert("42", typedesc.Simple(typedesc.Int))
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if value != 42 {
		t.Errorf("Convert(42) = %#v, want 42", value)
	}
}
