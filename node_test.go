// node_test.go: Node clone() tests, using go-cmp for deep structural
// comparison the way the pack's other slot-store test suite does.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestVariableNode_Clone_DeepCopiesSlices(t *testing.T) {
	orig := &VariableNode{
		NodeHeader: NodeHeader{
			NodeId:     NewNumericNodeId(1, 1),
			BrowseName: "Temperature",
			References: []Reference{{ReferenceTypeId: NewNumericNodeId(0, 40)}},
		},
		ArrayDimensions: []uint32{3},
		Value:           Variant{Type: TypeDouble, Array: []interface{}{1.0, 2.0, 3.0}},
	}

	clone := orig.clone().(*VariableNode)

	if diff := cmp.Diff(orig, clone, cmpopts.IgnoreFields(NodeHeader{}, "entry")); diff != "" {
		t.Errorf("clone differs from original (-orig +clone):\n%s", diff)
	}

	// Mutating the clone's slices must not affect the original.
	clone.ArrayDimensions[0] = 99
	clone.Value.Array[0] = 99.0
	clone.References[0].ReferenceTypeId = NewNumericNodeId(0, 41)

	if orig.ArrayDimensions[0] == 99 {
		t.Error("ArrayDimensions not deep-copied")
	}
	if orig.Value.Array[0] == 99.0 {
		t.Error("Value.Array not deep-copied")
	}
	if orig.References[0].ReferenceTypeId.Equal(NewNumericNodeId(0, 41)) {
		t.Error("References not deep-copied")
	}
}

func TestVariableNode_Clone_ClearsEntryBackPointer(t *testing.T) {
	orig := &VariableNode{NodeHeader: NodeHeader{NodeId: NewNumericNodeId(1, 1)}}
	orig.entry = &Entry{}

	clone := orig.clone()
	if clone.Header().entry != nil {
		t.Error("clone must not inherit the original's entry back-pointer")
	}
}

func TestNewNodeForClass_AllClasses(t *testing.T) {
	classes := []NodeClass{
		NodeClassObject, NodeClassVariable, NodeClassMethod, NodeClassObjectType,
		NodeClassVariableType, NodeClassReferenceType, NodeClassDataType, NodeClassView,
	}
	for _, c := range classes {
		n := newNodeForClass(c)
		if n == nil {
			t.Errorf("newNodeForClass(%v) returned nil", c)
			continue
		}
		if n.Class() != c {
			t.Errorf("newNodeForClass(%v).Class() = %v", c, n.Class())
		}
	}

	if newNodeForClass(NodeClass(99)) != nil {
		t.Error("newNodeForClass with unknown class should return nil")
	}
}
