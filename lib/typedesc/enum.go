// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typedesc

import "strings"

// EnumMember is one named value of an enumeration.
type EnumMember struct {
	Name  string
	Value int
}

// String returns the member name.
func (m EnumMember) String() string { return m.Name }

// EnumDef is a named enumeration. Members are kept in declaration
// order, which is also the order used in error messages and help.
type EnumDef struct {
	Name    string
	Members []EnumMember
}

// NewEnum declares an enumeration whose members take the ordinals
// 0..n-1 as their values.
func NewEnum(name string, members ...string) *EnumDef {
	def := &EnumDef{Name: name, Members: make([]EnumMember, len(members))}
	for i, member := range members {
		def.Members[i] = EnumMember{Name: member, Value: i}
	}
	return def
}

// ByValue returns the member whose underlying value is value.
func (e *EnumDef) ByValue(value int) (EnumMember, bool) {
	for _, member := range e.Members {
		if member.Value == value {
			return member, true
		}
	}
	return EnumMember{}, false
}

// ByName returns the member named name. An exact match wins over a
// case-insensitive one.
func (e *EnumDef) ByName(name string) (EnumMember, bool) {
	for _, member := range e.Members {
		if member.Name == name {
			return member, true
		}
	}
	for _, member := range e.Members {
		if strings.EqualFold(member.Name, name) {
			return member, true
		}
	}
	return EnumMember{}, false
}

// Names returns the member names in declaration order.
func (e *EnumDef) Names() []string {
	names := make([]string, len(e.Members))
	for i, member := range e.Members {
		names[i] = member.Name
	}
	return names
}
