// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typedesc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the shape tag of a [Descriptor].
type Kind uint8

const (
	// KindSimple names a single [Type].
	KindSimple Kind = iota
	// KindUnion accepts the first member (in declaration order) that
	// converts.
	KindUnion
	// KindList is an ordered, comma-separated sequence.
	KindList
	// KindSet is a comma-separated sequence with duplicates removed.
	KindSet
	// KindTuple is a fixed-length sequence with one descriptor per
	// position.
	KindTuple
	// KindVarTuple is a sequence of any length with a single element
	// descriptor, written tuple[T,...].
	KindVarTuple
	// KindLiteral accepts exactly one of a fixed set of strings.
	KindLiteral
	// KindEnum accepts a member of an [EnumDef] by name or ordinal.
	KindEnum
	// KindRange accepts a number n with Low <= n < High.
	KindRange
	// KindMapping is a comma-separated list of key=value pairs.
	KindMapping
)

var kindNames = [...]string{
	KindSimple:   "simple",
	KindUnion:    "union",
	KindList:     "list",
	KindSet:      "set",
	KindTuple:    "tuple",
	KindVarTuple: "vartuple",
	KindLiteral:  "literal",
	KindEnum:     "enum",
	KindRange:    "range",
	KindMapping:  "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrInvalidDescriptor is wrapped by every error returned from
// [Descriptor.Validate] and [ParseExpr].
var ErrInvalidDescriptor = errors.New("invalid type descriptor")

// Descriptor identifies the target type of a conversion. Build
// descriptors with the constructor functions rather than by hand; the
// zero Descriptor is a simple descriptor with no type and fails
// validation.
type Descriptor struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind Kind

	// Type is the named type of a KindSimple descriptor.
	Type *Type

	// Args holds nested descriptors: union members, the single element
	// of list/set/vartuple, the positions of a tuple, or the key and
	// value of a mapping. An empty Args on a list or set means the
	// elements stay raw strings.
	Args []Descriptor

	// Literals are the accepted values of a KindLiteral descriptor.
	Literals []string

	// Enum is the definition behind a KindEnum descriptor.
	Enum *EnumDef

	// Low and High bound a KindRange descriptor: Low <= n < High.
	Low, High float64
}

// Simple returns a descriptor for a single named type.
func Simple(t *Type) Descriptor {
	return Descriptor{Kind: KindSimple, Type: t}
}

// Union returns a descriptor that tries each member in order.
func Union(members ...Descriptor) Descriptor {
	return Descriptor{Kind: KindUnion, Args: members}
}

// List returns a list descriptor whose elements remain raw strings.
func List() Descriptor { return Descriptor{Kind: KindList} }

// ListOf returns a list descriptor whose elements convert as elem.
func ListOf(elem Descriptor) Descriptor {
	return Descriptor{Kind: KindList, Args: []Descriptor{elem}}
}

// Set returns a set descriptor whose elements remain raw strings.
func Set() Descriptor { return Descriptor{Kind: KindSet} }

// SetOf returns a set descriptor whose elements convert as elem.
func SetOf(elem Descriptor) Descriptor {
	return Descriptor{Kind: KindSet, Args: []Descriptor{elem}}
}

// Tuple returns a fixed-arity tuple descriptor.
func Tuple(elems ...Descriptor) Descriptor {
	return Descriptor{Kind: KindTuple, Args: elems}
}

// VarTuple returns a tuple descriptor of any length whose elements
// all convert as elem.
func VarTuple(elem Descriptor) Descriptor {
	return Descriptor{Kind: KindVarTuple, Args: []Descriptor{elem}}
}

// Literal returns a descriptor accepting exactly one of values.
func Literal(values ...string) Descriptor {
	return Descriptor{Kind: KindLiteral, Literals: values}
}

// Enum returns a descriptor for members of def.
func Enum(def *EnumDef) Descriptor {
	return Descriptor{Kind: KindEnum, Enum: def}
}

// Range returns a descriptor for numbers in [low, high).
func Range(low, high float64) Descriptor {
	return Descriptor{Kind: KindRange, Low: low, High: high}
}

// Mapping returns a descriptor for key=value pairs.
func Mapping(key, value Descriptor) Descriptor {
	return Descriptor{Kind: KindMapping, Args: []Descriptor{key, value}}
}

// IsComposite reports whether the descriptor dispatches on its shape
// rather than on a type's ancestry.
func (d Descriptor) IsComposite() bool { return d.Kind != KindSimple }

// Elem returns the element descriptor of a list, set or vartuple, and
// false when there is none.
func (d Descriptor) Elem() (Descriptor, bool) {
	switch d.Kind {
	case KindList, KindSet, KindVarTuple:
		if len(d.Args) > 0 {
			return d.Args[0], true
		}
	}
	return Descriptor{}, false
}

// String renders the descriptor in the expression syntax understood
// by [ParseExpr].
func (d Descriptor) String() string {
	switch d.Kind {
	case KindSimple:
		return d.Type.Name()
	case KindUnion:
		return d.Kind.String() + "[" + joinDescriptors(d.Args, "|") + "]"
	case KindList, KindSet:
		if len(d.Args) == 0 {
			return d.Kind.String()
		}
		return d.Kind.String() + "[" + joinDescriptors(d.Args, ",") + "]"
	case KindTuple:
		return "tuple[" + joinDescriptors(d.Args, ",") + "]"
	case KindVarTuple:
		return "tuple[" + joinDescriptors(d.Args, ",") + ",...]"
	case KindLiteral:
		return "literal[" + strings.Join(d.Literals, "|") + "]"
	case KindEnum:
		if d.Enum == nil {
			return "enum[]"
		}
		return "enum[" + d.Enum.Name + "]"
	case KindRange:
		return "range[" + formatBound(d.Low) + "," + formatBound(d.High) + ")"
	case KindMapping:
		return "mapping[" + joinDescriptors(d.Args, ",") + "]"
	default:
		return d.Kind.String()
	}
}

// Validate checks the descriptor and everything nested in it.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindSimple:
		if d.Type == nil {
			return fmt.Errorf("%w: simple descriptor has no type", ErrInvalidDescriptor)
		}
		return nil
	case KindUnion:
		if len(d.Args) == 0 {
			return fmt.Errorf("%w: union needs at least one member", ErrInvalidDescriptor)
		}
	case KindList, KindSet:
		if len(d.Args) > 1 {
			return fmt.Errorf("%w: %s takes at most one element type, got %d", ErrInvalidDescriptor, d.Kind, len(d.Args))
		}
	case KindTuple:
		if len(d.Args) == 0 {
			return fmt.Errorf("%w: tuple needs at least one element type", ErrInvalidDescriptor)
		}
	case KindVarTuple:
		if len(d.Args) != 1 {
			return fmt.Errorf("%w: variadic tuple takes exactly one element type", ErrInvalidDescriptor)
		}
	case KindLiteral:
		if len(d.Literals) == 0 {
			return fmt.Errorf("%w: literal needs at least one value", ErrInvalidDescriptor)
		}
		return nil
	case KindEnum:
		if d.Enum == nil || len(d.Enum.Members) == 0 {
			return fmt.Errorf("%w: enum has no members", ErrInvalidDescriptor)
		}
		return nil
	case KindRange:
		if math.IsNaN(d.Low) || math.IsNaN(d.High) {
			return fmt.Errorf("%w: range bounds must be numbers", ErrInvalidDescriptor)
		}
		if d.Low >= d.High {
			return fmt.Errorf("%w: range lower bound %s is not below upper bound %s",
				ErrInvalidDescriptor, formatBound(d.Low), formatBound(d.High))
		}
		return nil
	case KindMapping:
		if len(d.Args) != 2 {
			return fmt.Errorf("%w: mapping takes a key and a value type", ErrInvalidDescriptor)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidDescriptor, d.Kind)
	}

	for i, arg := range d.Args {
		if err := arg.Validate(); err != nil {
			return fmt.Errorf("%s argument %d: %w", d.Kind, i, err)
		}
	}
	return nil
}

func joinDescriptors(descriptors []Descriptor, separator string) string {
	parts := make([]string, len(descriptors))
	for i, descriptor := range descriptors {
		parts[i] = descriptor.String()
	}
	return strings.Join(parts, separator)
}

func formatBound(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
