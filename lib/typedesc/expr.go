// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typedesc

import (
	"fmt"
	"strconv"
	"strings"
)

// Scope resolves names in type expressions beyond the builtins. The
// zero Scope knows only the builtin types.
type Scope struct {
	Types map[string]*Type
	Enums map[string]*EnumDef
}

// ParseExpr parses a type expression using only the builtin types.
// See [Scope.Parse] for the grammar.
func ParseExpr(expr string) (Descriptor, error) {
	return Scope{}.Parse(expr)
}

// Parse parses a type expression:
//
//	int | string | size | <scope type>
//	list | list[T] | set | set[T]
//	union[T|U|...]
//	tuple[T,U,...] | tuple[T,...]
//	literal[a|b|...]
//	enum[Name]
//	range[low,high)
//	mapping[K,V]
//
// The parsed descriptor is validated before it is returned.
func (s Scope) Parse(expr string) (Descriptor, error) {
	parser := &exprParser{scope: s, input: expr}
	descriptor, err := parser.parse()
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, expr, err)
	}
	parser.skipSpace()
	if parser.position < len(parser.input) {
		return Descriptor{}, fmt.Errorf("%w: %q: unexpected %q at offset %d",
			ErrInvalidDescriptor, expr, parser.input[parser.position:], parser.position)
	}
	if err := descriptor.Validate(); err != nil {
		return Descriptor{}, err
	}
	return descriptor, nil
}

type exprParser struct {
	scope    Scope
	input    string
	position int
}

func (p *exprParser) parse() (Descriptor, error) {
	name := p.identifier()
	if name == "" {
		return Descriptor{}, fmt.Errorf("expected a type name at offset %d", p.position)
	}

	if !p.accept('[') {
		switch name {
		case "list":
			return List(), nil
		case "set":
			return Set(), nil
		}
		t, err := p.lookupType(name)
		if err != nil {
			return Descriptor{}, err
		}
		return Simple(t), nil
	}

	switch name {
	case "list", "set":
		elem, err := p.parse()
		if err != nil {
			return Descriptor{}, err
		}
		if err := p.expect(']'); err != nil {
			return Descriptor{}, err
		}
		if name == "set" {
			return SetOf(elem), nil
		}
		return ListOf(elem), nil

	case "union":
		members, err := p.sequence('|')
		if err != nil {
			return Descriptor{}, err
		}
		return Union(members...), nil

	case "tuple":
		var elems []Descriptor
		for {
			p.skipSpace()
			if strings.HasPrefix(p.input[p.position:], "...") {
				p.position += 3
				if len(elems) != 1 {
					return Descriptor{}, fmt.Errorf("variadic tuple takes exactly one element type")
				}
				if err := p.expect(']'); err != nil {
					return Descriptor{}, err
				}
				return VarTuple(elems[0]), nil
			}
			elem, err := p.parse()
			if err != nil {
				return Descriptor{}, err
			}
			elems = append(elems, elem)
			if !p.accept(',') {
				break
			}
		}
		if err := p.expect(']'); err != nil {
			return Descriptor{}, err
		}
		return Tuple(elems...), nil

	case "mapping":
		args, err := p.sequence(',')
		if err != nil {
			return Descriptor{}, err
		}
		if len(args) != 2 {
			return Descriptor{}, fmt.Errorf("mapping takes a key and a value type, got %d", len(args))
		}
		return Mapping(args[0], args[1]), nil

	case "literal":
		body, err := p.until(']')
		if err != nil {
			return Descriptor{}, err
		}
		var values []string
		for _, value := range strings.Split(body, "|") {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
		return Literal(values...), nil

	case "enum":
		body, err := p.until(']')
		if err != nil {
			return Descriptor{}, err
		}
		def, ok := p.scope.Enums[strings.TrimSpace(body)]
		if !ok {
			return Descriptor{}, fmt.Errorf("unknown enum %q", body)
		}
		return Enum(def), nil

	case "range":
		body, err := p.until(')')
		if err != nil {
			return Descriptor{}, err
		}
		lowText, highText, found := strings.Cut(body, ",")
		if !found {
			return Descriptor{}, fmt.Errorf("range needs two bounds, got %q", body)
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(lowText), 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("range lower bound: %w", err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(highText), 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("range upper bound: %w", err)
		}
		return Range(low, high), nil

	default:
		return Descriptor{}, fmt.Errorf("%q does not take type arguments", name)
	}
}

// sequence parses separator-delimited descriptors up to the closing
// bracket.
func (p *exprParser) sequence(separator byte) ([]Descriptor, error) {
	var descriptors []Descriptor
	for {
		descriptor, err := p.parse()
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, descriptor)
		if !p.accept(separator) {
			break
		}
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return descriptors, nil
}

func (p *exprParser) lookupType(name string) (*Type, error) {
	if t, ok := p.scope.Types[name]; ok {
		return t, nil
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

func (p *exprParser) identifier() string {
	p.skipSpace()
	start := p.position
	for p.position < len(p.input) {
		c := p.input[p.position]
		if c == '_' || c == '-' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.position++
			continue
		}
		break
	}
	return p.input[start:p.position]
}

// until consumes raw text up to and including the closing byte and
// returns the text before it.
func (p *exprParser) until(closing byte) (string, error) {
	index := strings.IndexByte(p.input[p.position:], closing)
	if index < 0 {
		return "", fmt.Errorf("missing %q", closing)
	}
	body := p.input[p.position : p.position+index]
	p.position += index + 1
	return body, nil
}

func (p *exprParser) accept(c byte) bool {
	p.skipSpace()
	if p.position < len(p.input) && p.input[p.position] == c {
		p.position++
		return true
	}
	return false
}

func (p *exprParser) expect(c byte) error {
	if !p.accept(c) {
		return fmt.Errorf("expected %q at offset %d", c, p.position)
	}
	return nil
}

func (p *exprParser) skipSpace() {
	for p.position < len(p.input) && p.input[p.position] == ' ' {
		p.position++
	}
}
