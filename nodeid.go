// nodeid.go: node identifiers — hashing and equality across the four
// identifier kinds (numeric, string, GUID, opaque bytes).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentifierKind distinguishes which field of a NodeId carries the value.
type IdentifierKind uint8

const (
	IdentifierNumeric IdentifierKind = iota
	IdentifierString
	IdentifierGuid
	IdentifierByteString
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierNumeric:
		return "numeric"
	case IdentifierString:
		return "string"
	case IdentifierGuid:
		return "guid"
	case IdentifierByteString:
		return "bytestring"
	default:
		return "unknown"
	}
}

// NodeId is a stable identifier naming a node within a namespace. It is a
// tagged union over four identifier kinds; hash and equality are total,
// ordering is not required (spec.md §3).
type NodeId struct {
	NamespaceIndex uint16
	Kind           IdentifierKind

	Numeric    uint32
	String     string
	Guid       uuid.UUID
	ByteString []byte
}

// NewNumericNodeId builds a numeric NodeId in the given namespace.
func NewNumericNodeId(ns uint16, id uint32) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: IdentifierNumeric, Numeric: id}
}

// NewStringNodeId builds a string NodeId in the given namespace.
func NewStringNodeId(ns uint16, id string) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: IdentifierString, String: id}
}

// NewGuidNodeId builds a GUID NodeId in the given namespace.
func NewGuidNodeId(ns uint16, id uuid.UUID) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: IdentifierGuid, Guid: id}
}

// NewByteStringNodeId builds an opaque-bytes NodeId in the given namespace.
func NewByteStringNodeId(ns uint16, id []byte) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: IdentifierByteString, ByteString: id}
}

// IsNumericZero reports whether this is the numeric-zero sentinel that
// InsertNode treats as "assign me a fresh id" (spec.md §4.D).
func (id NodeId) IsNumericZero() bool {
	return id.Kind == IdentifierNumeric && id.Numeric == 0
}

// String renders the NodeId in an "ns=<index>;<kind>=<value>" form.
func (id NodeId) String() string {
	switch id.Kind {
	case IdentifierNumeric:
		return fmt.Sprintf("ns=%d;i=%d", id.NamespaceIndex, id.Numeric)
	case IdentifierString:
		return fmt.Sprintf("ns=%d;s=%s", id.NamespaceIndex, id.String)
	case IdentifierGuid:
		return fmt.Sprintf("ns=%d;g=%s", id.NamespaceIndex, id.Guid.String())
	case IdentifierByteString:
		return fmt.Sprintf("ns=%d;b=%x", id.NamespaceIndex, id.ByteString)
	default:
		return fmt.Sprintf("ns=%d;?=%v", id.NamespaceIndex, id.Kind)
	}
}

// Equal is bytewise equality per identifier kind, required by I3 (at most
// one occupied slot per id).
func (id NodeId) Equal(other NodeId) bool {
	if id.NamespaceIndex != other.NamespaceIndex || id.Kind != other.Kind {
		return false
	}
	switch id.Kind {
	case IdentifierNumeric:
		return id.Numeric == other.Numeric
	case IdentifierString:
		return id.String == other.String
	case IdentifierGuid:
		return id.Guid == other.Guid
	case IdentifierByteString:
		return string(id.ByteString) == string(other.ByteString)
	default:
		return false
	}
}

// fnvOffset and fnvPrime are the 32-bit FNV-1a constants. A non-cryptographic
// hash is sufficient here (spec.md §4.A) — determinism within a process is
// all that the table's probe sequence requires.
const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

func fnv1a(h uint32, b byte) uint32 {
	h ^= uint32(b)
	h *= fnvPrime
	return h
}

func fnv1aBytes(h uint32, data []byte) uint32 {
	for _, b := range data {
		h = fnv1a(h, b)
	}
	return h
}

func fnv1aString(h uint32, s string) uint32 {
	for i := 0; i < len(s); i++ {
		h = fnv1a(h, s[i])
	}
	return h
}

func fnv1aUint32(h uint32, v uint32) uint32 {
	h = fnv1a(h, byte(v))
	h = fnv1a(h, byte(v>>8))
	h = fnv1a(h, byte(v>>16))
	h = fnv1a(h, byte(v>>24))
	return h
}

// Hash combines the namespace index with the bytes of the identifier
// variant. Deterministic within a process (spec.md §4.A); not required to
// be stable across processes or Go versions.
func (id NodeId) Hash() uint32 {
	h := fnv1aUint32(fnvOffset, uint32(id.NamespaceIndex))
	h = fnv1a(h, byte(id.Kind))
	switch id.Kind {
	case IdentifierNumeric:
		h = fnv1aUint32(h, id.Numeric)
	case IdentifierString:
		h = fnv1aString(h, id.String)
	case IdentifierGuid:
		h = fnv1aBytes(h, id.Guid[:])
	case IdentifierByteString:
		h = fnv1aBytes(h, id.ByteString)
	}
	return h
}
