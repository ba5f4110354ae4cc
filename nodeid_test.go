// nodeid_test.go: unit tests for NodeId equality and hashing.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	"testing"

	"github.com/google/uuid"
)

func TestNodeId_Equal(t *testing.T) {
	a := NewNumericNodeId(1, 42)
	b := NewNumericNodeId(1, 42)
	c := NewNumericNodeId(2, 42)
	d := NewNumericNodeId(1, 43)

	if !a.Equal(b) {
		t.Error("expected equal numeric ids")
	}
	if a.Equal(c) {
		t.Error("different namespace should not be equal")
	}
	if a.Equal(d) {
		t.Error("different identifier should not be equal")
	}

	s1 := NewStringNodeId(1, "foo")
	s2 := NewStringNodeId(1, "foo")
	if !s1.Equal(s2) {
		t.Error("expected equal string ids")
	}
	if a.Equal(s1) {
		t.Error("numeric and string ids of different kind should not be equal")
	}

	g := uuid.New()
	g1 := NewGuidNodeId(1, g)
	g2 := NewGuidNodeId(1, g)
	if !g1.Equal(g2) {
		t.Error("expected equal guid ids")
	}

	bs1 := NewByteStringNodeId(1, []byte{1, 2, 3})
	bs2 := NewByteStringNodeId(1, []byte{1, 2, 3})
	if !bs1.Equal(bs2) {
		t.Error("expected equal bytestring ids")
	}
}

func TestNodeId_IsNumericZero(t *testing.T) {
	if !(NewNumericNodeId(0, 0)).IsNumericZero() {
		t.Error("expected numeric zero id to be detected")
	}
	if (NewNumericNodeId(0, 1)).IsNumericZero() {
		t.Error("non-zero numeric id must not be detected as zero")
	}
	if (NewStringNodeId(0, "")).IsNumericZero() {
		t.Error("string id must never be numeric-zero")
	}
}

func TestNodeId_Hash_Deterministic(t *testing.T) {
	a := NewNumericNodeId(1, 42)
	b := NewNumericNodeId(1, 42)
	if a.Hash() != b.Hash() {
		t.Error("equal ids must hash identically")
	}
}

func TestNodeId_Hash_DistinguishesKinds(t *testing.T) {
	// ns=1, numeric 0 vs ns=1, string "" should not collide in practice.
	numeric := NewNumericNodeId(1, 0)
	str := NewStringNodeId(1, "")
	if numeric.Hash() == str.Hash() {
		t.Error("numeric-zero and empty-string ids unexpectedly hash equal (kind tag not mixed in?)")
	}
}

func TestNodeId_String(t *testing.T) {
	cases := []struct {
		id   NodeId
		want string
	}{
		{NewNumericNodeId(1, 42), "ns=1;i=42"},
		{NewStringNodeId(2, "foo"), "ns=2;s=foo"},
	}
	for _, tc := range cases {
		if got := tc.id.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
