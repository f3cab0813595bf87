// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/argot/lib/command"
	"github.com/bureau-foundation/argot/lib/convert"
	"github.com/bureau-foundation/argot/lib/typedesc"
)

// JSONSchemaNode is the subset of JSON Schema needed to describe
// command parameters.
type JSONSchemaNode struct {
	// Type is "object", "string", "boolean", "integer", "number" or
	// "array". Empty for unions and the any type.
	Type string `json:"type,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Properties and Required describe the parameters of a command.
	Properties map[string]*JSONSchemaNode `json:"properties,omitempty"`
	Required   []string                   `json:"required,omitempty"`

	// Default is the default value in JSON form.
	Default any `json:"default,omitempty"`

	// Items describes list, set and vartuple elements; PrefixItems
	// the positions of a tuple.
	Items       *JSONSchemaNode   `json:"items,omitempty"`
	PrefixItems []*JSONSchemaNode `json:"prefixItems,omitempty"`
	MinItems    *int              `json:"minItems,omitempty"`
	MaxItems    *int              `json:"maxItems,omitempty"`
	UniqueItems bool              `json:"uniqueItems,omitempty"`

	// Enum lists the accepted values of literals and enums.
	Enum []string `json:"enum,omitempty"`

	// Minimum and ExclusiveMaximum bound ranges.
	Minimum          *float64 `json:"minimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	AnyOf []*JSONSchemaNode `json:"anyOf,omitempty"`

	// AdditionalProperties describes mapping values.
	AdditionalProperties *JSONSchemaNode `json:"additionalProperties,omitempty"`

	// Format is a hint for string types ("duration", "path", "byte").
	Format string `json:"format,omitempty"`
}

// JSONSchema describes the parameters of a command as a JSON Schema
// object, one property per visible parameter. Parameters that collect
// repeated values become arrays of their element type.
func JSONSchema(schema command.Schema) *JSONSchemaNode {
	node := &JSONSchemaNode{
		Type:        "object",
		Title:       joinNonEmpty(schema.Path...),
		Description: schema.Summary,
		Properties:  make(map[string]*JSONSchemaNode, len(schema.Parameters)),
	}
	for _, parameter := range schema.Parameters {
		property := DescriptorSchema(parameter.Descriptor)
		if parameter.Remaining {
			property = &JSONSchemaNode{Type: "array", Items: property}
		}
		property.Description = parameter.Description
		if parameter.DefaultValue != nil {
			property.Default = jsonValue(parameter.DefaultValue)
		}
		node.Properties[parameter.Name] = property
		if parameter.Required {
			node.Required = append(node.Required, parameter.Name)
		}
	}
	return node
}

// DescriptorSchema maps a type descriptor onto JSON Schema.
func DescriptorSchema(descriptor typedesc.Descriptor) *JSONSchemaNode {
	switch descriptor.Kind {
	case typedesc.KindSimple:
		return simpleSchema(descriptor.Type)

	case typedesc.KindUnion:
		node := &JSONSchemaNode{}
		for _, member := range descriptor.Args {
			node.AnyOf = append(node.AnyOf, DescriptorSchema(member))
		}
		return node

	case typedesc.KindList, typedesc.KindSet, typedesc.KindVarTuple:
		node := &JSONSchemaNode{Type: "array", UniqueItems: descriptor.Kind == typedesc.KindSet}
		if elem, ok := descriptor.Elem(); ok {
			node.Items = DescriptorSchema(elem)
		} else {
			node.Items = &JSONSchemaNode{Type: "string"}
		}
		return node

	case typedesc.KindTuple:
		count := len(descriptor.Args)
		node := &JSONSchemaNode{Type: "array", MinItems: &count, MaxItems: &count}
		for _, elem := range descriptor.Args {
			node.PrefixItems = append(node.PrefixItems, DescriptorSchema(elem))
		}
		return node

	case typedesc.KindLiteral:
		return &JSONSchemaNode{Type: "string", Enum: append([]string(nil), descriptor.Literals...)}

	case typedesc.KindEnum:
		return &JSONSchemaNode{Type: "string", Title: descriptor.Enum.Name, Enum: descriptor.Enum.Names()}

	case typedesc.KindRange:
		low, high := descriptor.Low, descriptor.High
		node := &JSONSchemaNode{Type: "number", Minimum: &low, ExclusiveMaximum: &high}
		if isIntegral(low) && isIntegral(high) {
			node.Type = "integer"
		}
		return node

	case typedesc.KindMapping:
		node := &JSONSchemaNode{Type: "object"}
		if len(descriptor.Args) == 2 {
			node.AdditionalProperties = DescriptorSchema(descriptor.Args[1])
		}
		return node
	}
	return &JSONSchemaNode{}
}

// simpleSchema picks the JSON type from the nearest builtin ancestor.
func simpleSchema(t *typedesc.Type) *JSONSchemaNode {
	if t == nil {
		return &JSONSchemaNode{}
	}
	for _, ancestor := range t.Ancestry() {
		switch ancestor {
		case typedesc.Bool:
			return &JSONSchemaNode{Type: "boolean"}
		case typedesc.Int:
			return &JSONSchemaNode{Type: "integer"}
		case typedesc.Number, typedesc.Float:
			return &JSONSchemaNode{Type: "number"}
		case typedesc.Duration:
			return &JSONSchemaNode{Type: "string", Format: "duration"}
		case typedesc.Path:
			return &JSONSchemaNode{Type: "string", Format: "path"}
		case typedesc.Bytes:
			return &JSONSchemaNode{Type: "string", Format: "byte"}
		case typedesc.String:
			return &JSONSchemaNode{Type: "string"}
		}
	}
	return &JSONSchemaNode{}
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

// jsonValue converts a converted parameter value to plain JSON data.
func jsonValue(value any) any {
	switch typed := value.(type) {
	case typedesc.EnumMember:
		return typed.Name
	case *convert.Set:
		return jsonValue(typed.Values())
	case time.Duration:
		return typed.String()
	case []byte:
		return string(typed)
	case []any:
		values := make([]any, len(typed))
		for i, element := range typed {
			values[i] = jsonValue(element)
		}
		return values
	case map[string]any:
		values := make(map[string]any, len(typed))
		for key, element := range typed {
			values[key] = jsonValue(element)
		}
		return values
	}
	return value
}

// Format selects the encoding used by [EncodeSchema].
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatCBOR is CBOR with Core Deterministic Encoding (RFC 8949
	// §4.2): the same schema always produces the same bytes.
	FormatCBOR Format = "cbor"
)

// cborEncoding sorts map keys and uses the smallest encoding of every
// integer.
var cborEncoding cbor.EncMode

func init() {
	var err error
	cborEncoding, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("help: CBOR encoder initialization failed: " + err.Error())
	}
}

// Document is the exported form of a command tree: its schema plus the
// JSON Schema of its parameters, recursively.
type Document struct {
	command.Schema
	Input       *JSONSchemaNode `json:"input,omitempty"`
	Subcommands []Document      `json:"subcommands,omitempty"`
}

// NewDocument builds the exported form of schema and its subcommands.
func NewDocument(schema command.Schema) Document {
	document := Document{Schema: schema}
	if len(schema.Parameters) > 0 {
		document.Input = JSONSchema(schema)
	}
	for _, sub := range schema.Subcommands {
		document.Subcommands = append(document.Subcommands, NewDocument(sub))
	}
	return document
}

// EncodeSchema writes the document of schema to w in format.
func EncodeSchema(w io.Writer, schema command.Schema, format Format) error {
	document := NewDocument(schema)
	switch format {
	case FormatJSON, "":
		var buffer bytes.Buffer
		encoder := json.NewEncoder(&buffer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(document); err != nil {
			return fmt.Errorf("encoding schema as JSON: %w", err)
		}
		_, err := w.Write(buffer.Bytes())
		return err
	case FormatCBOR:
		data, err := cborEncoding.Marshal(document)
		if err != nil {
			return fmt.Errorf("encoding schema as CBOR: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown schema format %q (expected json or cbor)", format)
}
