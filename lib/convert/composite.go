// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/bureau-foundation/argot/lib/typedesc"
)

// elementSeparator separates the elements of list, set, tuple and
// mapping values on the command line.
const elementSeparator = ","

func registerComposites(registry *Registry) {
	registry.RegisterKind(typedesc.KindUnion, newUnion)
	registry.RegisterKind(typedesc.KindList, newSequence)
	registry.RegisterKind(typedesc.KindSet, newSequence)
	registry.RegisterKind(typedesc.KindTuple, newTuple)
	registry.RegisterKind(typedesc.KindVarTuple, newSequence)
	registry.RegisterKind(typedesc.KindLiteral, newLiteral)
	registry.RegisterKind(typedesc.KindEnum, newEnum)
	registry.RegisterKind(typedesc.KindRange, newRange)
	registry.RegisterKind(typedesc.KindMapping, newMapping)
}

// splitElements splits raw on commas and trims each element. An empty
// or all-blank input has no elements.
func splitElements(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, elementSeparator)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func resolveAll(registry *Registry, descriptors []typedesc.Descriptor) ([]Converter, error) {
	converters := make([]Converter, len(descriptors))
	for i, descriptor := range descriptors {
		converter, err := registry.Resolve(descriptor)
		if err != nil {
			return nil, err
		}
		converters[i] = converter
	}
	return converters, nil
}

// union tries each member in declaration order. Member failures are
// expected and only reported when every member fails.
type union struct {
	descriptor typedesc.Descriptor
	members    []Converter
}

func newUnion(registry *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	members, err := resolveAll(registry, descriptor.Args)
	if err != nil {
		return nil, fmt.Errorf("union member: %w", err)
	}
	return &union{descriptor: descriptor, members: members}, nil
}

func (u *union) Convert(raw string) (any, error) {
	for _, member := range u.members {
		if value, err := member.Convert(raw); err == nil {
			return value, nil
		}
	}
	names := make([]string, len(u.descriptor.Args))
	for i, arg := range u.descriptor.Args {
		names[i] = arg.String()
	}
	return nil, conversionError(raw, "one of "+strings.Join(names, ", "), nil)
}

// Format uses the first member whose formatter accepts value and whose
// output the union as a whole reads back to an equal value. A member
// earlier in the union may claim the text first, so the whole union
// is checked rather than the formatting member alone.
func (u *union) Format(value any) (string, error) {
	for _, member := range u.members {
		formatter, ok := member.(Formatter)
		if !ok {
			continue
		}
		text, err := formatter.Format(value)
		if err != nil {
			continue
		}
		if back, err := u.Convert(text); err == nil && reflect.DeepEqual(back, value) {
			return text, nil
		}
	}
	return "", fmt.Errorf("%s formatter: no member accepts %T", u.descriptor, value)
}

// sequence handles lists, sets and variadic tuples: every element
// converts with the same element converter (or stays a raw string).
type sequence struct {
	descriptor typedesc.Descriptor
	elem       Converter
}

func newSequence(registry *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	converter := &sequence{descriptor: descriptor}
	if elem, ok := descriptor.Elem(); ok {
		resolved, err := registry.Resolve(elem)
		if err != nil {
			return nil, fmt.Errorf("%s element: %w", descriptor.Kind, err)
		}
		converter.elem = resolved
	}
	return converter, nil
}

func (s *sequence) Convert(raw string) (any, error) {
	elements := splitElements(raw)
	values := make([]any, 0, len(elements))
	for i, element := range elements {
		if s.elem == nil {
			values = append(values, element)
			continue
		}
		value, err := s.elem.Convert(element)
		if err != nil {
			return nil, conversionError(raw, s.descriptor.String(), fmt.Errorf("element %d: %w", i+1, err))
		}
		values = append(values, value)
	}

	if s.descriptor.Kind == typedesc.KindSet {
		return NewSet(values...), nil
	}
	return values, nil
}

func (s *sequence) Format(value any) (string, error) {
	var values []any
	switch typed := value.(type) {
	case []any:
		values = typed
	case *Set:
		values = typed.Values()
	default:
		return "", fmt.Errorf("%s formatter: unexpected %T", s.descriptor, value)
	}
	return s.formatElements(values)
}

func (s *sequence) formatElements(values []any) (string, error) {
	parts := make([]string, len(values))
	for i, element := range values {
		if s.elem == nil {
			parts[i] = fmt.Sprint(element)
			continue
		}
		text, err := Format(s.elem, element)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return strings.Join(parts, elementSeparator), nil
}

// tuple converts element i with the converter for position i. The
// element count must match exactly.
type tuple struct {
	descriptor typedesc.Descriptor
	elems      []Converter
}

func newTuple(registry *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	elems, err := resolveAll(registry, descriptor.Args)
	if err != nil {
		return nil, fmt.Errorf("tuple element: %w", err)
	}
	return &tuple{descriptor: descriptor, elems: elems}, nil
}

func (t *tuple) Convert(raw string) (any, error) {
	elements := splitElements(raw)
	if len(elements) != len(t.elems) {
		return nil, conversionError(raw, t.descriptor.String(),
			&ArityError{Expected: len(t.elems), Actual: len(elements)})
	}
	values := make([]any, len(elements))
	for i, element := range elements {
		value, err := t.elems[i].Convert(element)
		if err != nil {
			return nil, conversionError(raw, t.descriptor.String(), fmt.Errorf("element %d: %w", i+1, err))
		}
		values[i] = value
	}
	return values, nil
}

func (t *tuple) Format(value any) (string, error) {
	values, ok := value.([]any)
	if !ok {
		return "", fmt.Errorf("%s formatter: unexpected %T", t.descriptor, value)
	}
	if len(values) != len(t.elems) {
		return "", &ArityError{Expected: len(t.elems), Actual: len(values)}
	}
	parts := make([]string, len(values))
	for i, element := range values {
		text, err := Format(t.elems[i], element)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return strings.Join(parts, elementSeparator), nil
}

type literal struct {
	values []string
}

func newLiteral(_ *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	return &literal{values: descriptor.Literals}, nil
}

func (l *literal) Convert(raw string) (any, error) {
	if slices.Contains(l.values, raw) {
		return raw, nil
	}
	return nil, conversionError(raw, "one of "+quoteAll(l.values), nil)
}

func (l *literal) Format(value any) (string, error) {
	text, ok := value.(string)
	if !ok || !slices.Contains(l.values, text) {
		return "", fmt.Errorf("literal formatter: %v is not one of %s", value, quoteAll(l.values))
	}
	return text, nil
}

// enum looks numeric input up by underlying value first and falls back
// to member names.
type enum struct {
	def *typedesc.EnumDef
}

func newEnum(_ *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	return &enum{def: descriptor.Enum}, nil
}

func (e *enum) Convert(raw string) (any, error) {
	text := strings.TrimSpace(raw)
	if ordinal, err := strconv.Atoi(text); err == nil {
		if member, ok := e.def.ByValue(ordinal); ok {
			return member, nil
		}
	}
	if member, ok := e.def.ByName(text); ok {
		return member, nil
	}
	return nil, conversionError(raw, e.def.Name+" member ("+strings.Join(e.def.Names(), ", ")+")", nil)
}

func (e *enum) Format(value any) (string, error) {
	member, ok := value.(typedesc.EnumMember)
	if !ok {
		return "", fmt.Errorf("enum %s formatter: unexpected %T", e.def.Name, value)
	}
	return member.Name, nil
}

// rangeConverter accepts numbers n with Low <= n < High. Integral
// input converts to int, anything else to float64.
type rangeConverter struct {
	low, high float64
}

func newRange(_ *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	return &rangeConverter{low: descriptor.Low, high: descriptor.High}, nil
}

func (r *rangeConverter) bounds() string {
	return "[" + strconv.FormatFloat(r.low, 'f', -1, 64) + ", " + strconv.FormatFloat(r.high, 'f', -1, 64) + ")"
}

func (r *rangeConverter) Convert(raw string) (any, error) {
	text := strings.TrimSpace(raw)
	var value any
	var number float64
	if integer, err := parseInt(text); err == nil {
		value, number = integer, float64(integer)
	} else if float, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(float) {
		value, number = float, float
	} else {
		return nil, conversionError(raw, "a number in "+r.bounds(), nil)
	}

	if number < r.low {
		return nil, conversionError(raw, "a number in "+r.bounds(),
			fmt.Errorf("below the inclusive lower bound %s", strconv.FormatFloat(r.low, 'f', -1, 64)))
	}
	if number >= r.high {
		return nil, conversionError(raw, "a number in "+r.bounds(),
			fmt.Errorf("not below the exclusive upper bound %s", strconv.FormatFloat(r.high, 'f', -1, 64)))
	}
	return value, nil
}

func (r *rangeConverter) Format(value any) (string, error) {
	switch number := value.(type) {
	case int:
		return strconv.Itoa(number), nil
	case float64:
		text := strconv.FormatFloat(number, 'g', -1, 64)
		if !strings.ContainsAny(text, ".eEIN") {
			// Keep integral floats from converting back to int.
			text += ".0"
		}
		return text, nil
	}
	return "", fmt.Errorf("range formatter: unexpected %T", value)
}

// mapping parses comma-separated key=value pairs. Keys are stored by
// their formatted form so that "01" and "1" for an int key collide.
type mapping struct {
	descriptor typedesc.Descriptor
	key, value Converter
}

func newMapping(registry *Registry, descriptor typedesc.Descriptor) (Converter, error) {
	converters, err := resolveAll(registry, descriptor.Args)
	if err != nil {
		return nil, fmt.Errorf("mapping: %w", err)
	}
	return &mapping{descriptor: descriptor, key: converters[0], value: converters[1]}, nil
}

func (m *mapping) Convert(raw string) (any, error) {
	result := make(map[string]any)
	for i, pair := range splitElements(raw) {
		keyText, valueText, found := strings.Cut(pair, "=")
		if !found {
			return nil, conversionError(raw, m.descriptor.String(),
				fmt.Errorf("pair %d: %q is not key=value", i+1, pair))
		}
		key, err := m.key.Convert(strings.TrimSpace(keyText))
		if err != nil {
			return nil, conversionError(raw, m.descriptor.String(), fmt.Errorf("pair %d key: %w", i+1, err))
		}
		value, err := m.value.Convert(strings.TrimSpace(valueText))
		if err != nil {
			return nil, conversionError(raw, m.descriptor.String(), fmt.Errorf("pair %d value: %w", i+1, err))
		}
		keyString, err := Format(m.key, key)
		if err != nil {
			return nil, conversionError(raw, m.descriptor.String(), err)
		}
		result[keyString] = value
	}
	return result, nil
}

func (m *mapping) Format(value any) (string, error) {
	pairs, ok := value.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%s formatter: unexpected %T", m.descriptor, value)
	}
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, key := range keys {
		text, err := Format(m.value, pairs[key])
		if err != nil {
			return "", err
		}
		parts[i] = key + "=" + text
	}
	return strings.Join(parts, elementSeparator), nil
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, value := range values {
		quoted[i] = strconv.Quote(value)
	}
	return strings.Join(quoted, ", ")
}
