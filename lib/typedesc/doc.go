// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package typedesc defines the type descriptors that drive argument
// conversion.
//
// A [Descriptor] is a tagged variant: its [Kind] says which shape it
// has, and composite kinds (union, list, set, tuple, mapping) carry
// their nested descriptors in Args. Simple descriptors name a [Type],
// which is a node in an explicit single-inheritance chain. The
// converter registry walks [Type.Ancestry] from most-derived to
// least-derived, so a user type declared as
//
//	port := typedesc.NewType("port", typedesc.Int)
//
// converts with the int converter unless something more specific is
// registered for port itself.
//
// Descriptors are values. They are built with the constructor
// functions ([Simple], [ListOf], [Union], [Range], ...) or parsed from
// the bracket expression syntax accepted by [ParseExpr]
// ("list[int]", "range[1,10)", "literal[http|https]").
package typedesc
