// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package param

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

// FromStruct declares parameters from the tagged fields of params,
// which must be a pointer to a struct, and compiles them against
// registry. Type expressions in type tags see only the builtin types;
// use [FromStructScope] to make custom types and enums visible.
//
// # Struct tags
//
//   - arg:"name" declares a positional parameter. arg:"name,remaining"
//     makes it collect every remaining positional value.
//   - flag:"name" or flag:"name,n,alias" declares a keyword parameter,
//     or a flag when the field is a bool. Names after the first are
//     aliases.
//   - desc:"help text" sets the description.
//   - default:"value" sets a default in command-line syntax.
//   - type:"expr" overrides the inferred type with a type expression.
//   - env:"NAME" names an environment variable fallback.
//   - hidden:"true" leaves the parameter out of help.
//
// Fields without an arg or flag tag are skipped. Embedded structs are
// walked recursively. Declaration order follows field order.
//
// # Inferred types
//
// string, bool, the integer kinds, the float kinds, [time.Duration],
// []byte, slices of those, and map[string]T. A positional collecting
// remaining values is typed by its slice element.
func FromStruct(registry *convert.Registry, params any) ([]*Parameter, error) {
	return FromStructScope(registry, typedesc.Scope{}, params)
}

// FromStructScope is [FromStruct] with type tags parsed in scope.
func FromStructScope(registry *convert.Registry, scope typedesc.Scope, params any) ([]*Parameter, error) {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	var specs []Spec
	if err := collectSpecs(value.Elem().Type(), scope, &specs); err != nil {
		return nil, err
	}
	return Compile(registry, specs...)
}

func collectSpecs(structType reflect.Type, scope typedesc.Scope, specs *[]Spec) error {
	for i := range structType.NumField() {
		field := structType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := collectSpecs(field.Type, scope, specs); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		tag, ok := parseFieldTag(field)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return fmt.Errorf("field %s: tagged field is not exported", field.Name)
		}

		spec, err := specForField(field, tag, scope)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		*specs = append(*specs, spec)
	}
	return nil
}

type fieldTag struct {
	name      string
	aliases   []string
	role      Role
	remaining bool
}

// parseFieldTag reads the arg or flag tag. "files,remaining" and
// "verbose,v" are split on commas.
func parseFieldTag(field reflect.StructField) (fieldTag, bool) {
	if argTag, ok := field.Tag.Lookup("arg"); ok {
		name, option, _ := strings.Cut(argTag, ",")
		return fieldTag{name: name, role: RolePositional, remaining: option == "remaining"}, true
	}
	if flagTag, ok := field.Tag.Lookup("flag"); ok {
		parts := strings.Split(flagTag, ",")
		tag := fieldTag{name: parts[0], aliases: parts[1:], role: RoleKeyword}
		if field.Type.Kind() == reflect.Bool {
			tag.role = RoleFlag
		}
		return tag, true
	}
	return fieldTag{}, false
}

func specForField(field reflect.StructField, tag fieldTag, scope typedesc.Scope) (Spec, error) {
	fieldType := field.Type
	if tag.remaining {
		if fieldType.Kind() != reflect.Slice {
			return Spec{}, fmt.Errorf("remaining positional %q must be a slice, got %s", tag.name, fieldType)
		}
		fieldType = fieldType.Elem()
	}

	var descriptor typedesc.Descriptor
	if expr := field.Tag.Get("type"); expr != "" {
		parsed, err := scope.Parse(expr)
		if err != nil {
			return Spec{}, err
		}
		descriptor = parsed
	} else {
		inferred, err := descriptorFor(fieldType)
		if err != nil {
			return Spec{}, err
		}
		descriptor = inferred
	}

	spec := Spec{
		Name:        tag.name,
		Descriptor:  descriptor,
		Role:        tag.role,
		Description: field.Tag.Get("desc"),
		Env:         field.Tag.Get("env"),
		Hidden:      field.Tag.Get("hidden") == "true",
	}
	if tag.remaining {
		spec.Arity = ArityRemaining
	}
	Aliases(tag.aliases...)(&spec)
	if raw, ok := field.Tag.Lookup("default"); ok {
		spec.DefaultRaw, spec.HasRaw = raw, true
	} else if tag.role == RoleFlag {
		spec.Default, spec.HasDefault = false, true
	}
	return spec, nil
}

var durationType = reflect.TypeFor[time.Duration]()

// descriptorFor infers a type descriptor from a Go type.
func descriptorFor(goType reflect.Type) (typedesc.Descriptor, error) {
	if goType == durationType {
		return typedesc.Simple(typedesc.Duration), nil
	}
	switch goType.Kind() {
	case reflect.String:
		return typedesc.Simple(typedesc.String), nil
	case reflect.Bool:
		return typedesc.Simple(typedesc.Bool), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typedesc.Simple(typedesc.Int), nil
	case reflect.Float32, reflect.Float64:
		return typedesc.Simple(typedesc.Float), nil
	case reflect.Slice:
		if goType.Elem().Kind() == reflect.Uint8 {
			return typedesc.Simple(typedesc.Bytes), nil
		}
		elem, err := descriptorFor(goType.Elem())
		if err != nil {
			return typedesc.Descriptor{}, err
		}
		return typedesc.ListOf(elem), nil
	case reflect.Map:
		if goType.Key().Kind() != reflect.String {
			return typedesc.Descriptor{}, fmt.Errorf("unsupported map key type %s", goType.Key())
		}
		value, err := descriptorFor(goType.Elem())
		if err != nil {
			return typedesc.Descriptor{}, err
		}
		return typedesc.Mapping(typedesc.Simple(typedesc.String), value), nil
	}
	return typedesc.Descriptor{}, fmt.Errorf("unsupported type %s (add a type tag)", goType)
}

// Bind writes values, keyed by parameter name, into the tagged fields
// of params, which must be a pointer to a struct. Values are converted
// to the field's Go type: integers widen or narrow to the field's
// integer kind, lists fill slices element by element, sets fill slices
// in insertion order, and enum members fill string fields with their
// name and integer fields with their value. Fields whose names are
// absent from values are left untouched.
func Bind(values map[string]any, params any) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindFields(value.Elem(), values)
}

func bindFields(structValue reflect.Value, values map[string]any) error {
	structType := structValue.Type()
	for i := range structType.NumField() {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindFields(fieldValue, values); err != nil {
				return err
			}
			continue
		}

		tag, ok := parseFieldTag(field)
		if !ok || !field.IsExported() {
			continue
		}
		value, present := values[tag.name]
		if !present {
			continue
		}
		if err := assign(fieldValue, value); err != nil {
			return fmt.Errorf("field %s (%s): %w", field.Name, tag.name, err)
		}
	}
	return nil
}

// assign stores value into target, converting between the shapes the
// converters produce and ordinary Go types.
func assign(target reflect.Value, value any) error {
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	switch typed := value.(type) {
	case *convert.Set:
		return assign(target, typed.Values())
	case typedesc.EnumMember:
		switch {
		case target.Kind() == reflect.String:
			target.SetString(typed.Name)
			return nil
		case target.CanInt():
			target.SetInt(int64(typed.Value))
			return nil
		}
	}

	source := reflect.ValueOf(value)
	if source.Type().AssignableTo(target.Type()) {
		target.Set(source)
		return nil
	}

	switch target.Kind() {
	case reflect.Slice:
		if source.Kind() != reflect.Slice {
			return fmt.Errorf("cannot assign %T to %s", value, target.Type())
		}
		slice := reflect.MakeSlice(target.Type(), source.Len(), source.Len())
		for i := range source.Len() {
			if err := assign(slice.Index(i), source.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		target.Set(slice)
		return nil

	case reflect.Map:
		if source.Kind() != reflect.Map {
			return fmt.Errorf("cannot assign %T to %s", value, target.Type())
		}
		result := reflect.MakeMapWithSize(target.Type(), source.Len())
		iterator := source.MapRange()
		for iterator.Next() {
			key := reflect.New(target.Type().Key()).Elem()
			if err := assign(key, iterator.Key().Interface()); err != nil {
				return fmt.Errorf("key: %w", err)
			}
			element := reflect.New(target.Type().Elem()).Elem()
			if err := assign(element, iterator.Value().Interface()); err != nil {
				return fmt.Errorf("key %v: %w", iterator.Key().Interface(), err)
			}
			result.SetMapIndex(key, element)
		}
		target.Set(result)
		return nil
	}

	if isNumeric(source.Kind()) && isNumeric(target.Kind()) {
		if target.CanInt() && source.CanFloat() && source.Float() != float64(int64(source.Float())) {
			return fmt.Errorf("cannot assign non-integral %v to %s", value, target.Type())
		}
		if target.CanInt() && source.CanInt() && target.OverflowInt(source.Int()) {
			return fmt.Errorf("%v overflows %s", value, target.Type())
		}
		if target.CanUint() && source.CanInt() && (source.Int() < 0 || target.OverflowUint(uint64(source.Int()))) {
			return fmt.Errorf("%v out of range for %s", value, target.Type())
		}
		target.Set(source.Convert(target.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, target.Type())
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
