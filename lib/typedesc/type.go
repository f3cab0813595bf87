// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typedesc

// Type is a named simple type with an optional supertype. The chain of
// supertypes is fixed at construction, so it is always finite and
// acyclic.
type Type struct {
	name  string
	super *Type
}

// NewType declares a type named name whose supertype is super. A nil
// super makes the new type a root; most callers should pass one of the
// builtin types instead so that an inherited converter exists.
func NewType(name string, super *Type) *Type {
	return &Type{name: name, super: super}
}

// Name returns the type's name as it appears in descriptors and
// error messages.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// Super returns the supertype, or nil for a root type.
func (t *Type) Super() *Type { return t.super }

// Ancestry returns t followed by each of its supertypes, most-derived
// first.
func (t *Type) Ancestry() []*Type {
	var chain []*Type
	for current := t; current != nil; current = current.super {
		chain = append(chain, current)
	}
	return chain
}

// IsA reports whether other appears in t's ancestry.
func (t *Type) IsA(other *Type) bool {
	for current := t; current != nil; current = current.super {
		if current == other {
			return true
		}
	}
	return false
}

// Builtin types. Any is the root of every builtin chain and is the
// type of unannotated parameters.
var (
	Any      = NewType("any", nil)
	String   = NewType("string", Any)
	Bool     = NewType("bool", Any)
	Number   = NewType("number", Any)
	Int      = NewType("int", Number)
	Float    = NewType("float", Number)
	Bytes    = NewType("bytes", Any)
	Size     = NewType("size", Int)
	Duration = NewType("duration", Any)
	Path     = NewType("path", String)
)

// builtinTypes indexes the builtin types by name for [ParseExpr].
var builtinTypes = map[string]*Type{
	Any.name:      Any,
	"str":         String,
	String.name:   String,
	Bool.name:     Bool,
	Number.name:   Number,
	Int.name:      Int,
	Float.name:    Float,
	Bytes.name:    Bytes,
	Size.name:     Size,
	Duration.name: Duration,
	Path.name:     Path,
}

// Builtin looks up a builtin type by name ("int", "string", "str",
// "size", ...).
func Builtin(name string) (*Type, bool) {
	t, ok := builtinTypes[name]
	return t, ok
}
