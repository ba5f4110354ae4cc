// store_test.go: Store-level tests, including the insert-get-remove,
// auto-id, and copy-then-replace scenarios of spec.md §8.
//
// Uses testify's require, mirroring the model-level test
// style of the pack's other in-memory slot store (slotcache/model).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(DefaultConfig())
}

func newTestVariableNode(t *testing.T, store *Store, id NodeId, value int32) Node {
	t.Helper()
	n, err := store.NewNode(NodeClassVariable)
	require.NoError(t, err)
	vn := n.(*VariableNode)
	vn.NodeId = id
	vn.Value = Variant{Type: TypeInt32, Value: value}
	return vn
}

// TestStore_InsertGetRemove is spec.md §8 scenario 1.
func TestStore_InsertGetRemove(t *testing.T) {
	store := newTestStore(t)
	id := NewNumericNodeId(1, 42)
	n := newTestVariableNode(t, store, id, 7)

	gotId, err := store.InsertNode(n)
	require.NoError(t, err)
	require.True(t, gotId.Equal(id))

	got, ok := store.GetNode(id)
	require.True(t, ok)
	require.True(t, entryOf(got).refCount == 1)

	store.ReleaseNode(got)

	err = store.RemoveNode(id)
	require.NoError(t, err)

	_, ok = store.GetNode(id)
	require.False(t, ok)
}

// TestStore_InsertDuplicate ensures a second insert under the same id
// fails with NodeIdExists.
func TestStore_InsertDuplicate(t *testing.T) {
	store := newTestStore(t)
	id := NewNumericNodeId(1, 1)

	n1 := newTestVariableNode(t, store, id, 1)
	_, err := store.InsertNode(n1)
	require.NoError(t, err)

	n2 := newTestVariableNode(t, store, id, 2)
	_, err = store.InsertNode(n2)
	require.Error(t, err)
	require.True(t, IsNodeIdExists(err))
}

// TestStore_AutoId is spec.md §8 scenario 4.
func TestStore_AutoId(t *testing.T) {
	store := newTestStore(t)
	n := newTestVariableNode(t, store, NewNumericNodeId(0, 0), 1)

	id, err := store.InsertNode(n)
	require.NoError(t, err)
	require.Equal(t, IdentifierNumeric, id.Kind)
	require.GreaterOrEqual(t, id.Numeric, uint32(50000))

	got, ok := store.GetNode(id)
	require.True(t, ok)
	store.ReleaseNode(got)
}

// TestStore_CopyThenReplace is spec.md §8 scenario 5.
func TestStore_CopyThenReplace(t *testing.T) {
	store := newTestStore(t)
	id := NewNumericNodeId(1, 42)
	n := newTestVariableNode(t, store, id, 7)
	_, err := store.InsertNode(n)
	require.NoError(t, err)

	copy1, err := store.GetNodeCopy(id)
	require.NoError(t, err)
	copy1.Header().DisplayName = "renamed"

	err = store.ReplaceNode(copy1)
	require.NoError(t, err)

	got, ok := store.GetNode(id)
	require.True(t, ok)
	require.Equal(t, "renamed", got.Header().DisplayName)
	store.ReleaseNode(got)

	// A second replaceNode with the same original copy must fail: its
	// orig no longer points at the currently stored Entry.
	err = store.ReplaceNode(copy1)
	require.Error(t, err)
	require.True(t, IsInternalError(err))
}

func TestStore_GetNodeCopy_Unknown(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetNodeCopy(NewNumericNodeId(1, 999))
	require.Error(t, err)
	require.True(t, IsNodeIdUnknown(err))
}

func TestStore_RemoveNode_Unknown(t *testing.T) {
	store := newTestStore(t)
	err := store.RemoveNode(NewNumericNodeId(1, 999))
	require.Error(t, err)
	require.True(t, IsNodeIdUnknown(err))
}

func TestStore_Iterate(t *testing.T) {
	store := newTestStore(t)
	want := map[uint32]bool{}
	for i := uint32(1); i <= 5; i++ {
		id := NewNumericNodeId(1, i)
		n := newTestVariableNode(t, store, id, int32(i))
		_, err := store.InsertNode(n)
		require.NoError(t, err)
		want[i] = true
	}

	seen := map[uint32]bool{}
	store.Iterate(func(n Node) bool {
		seen[n.Header().NodeId.Numeric] = true
		return true
	})
	require.Equal(t, want, seen)
}

func TestStore_Iterate_StopsEarly(t *testing.T) {
	store := newTestStore(t)
	for i := uint32(1); i <= 5; i++ {
		id := NewNumericNodeId(1, i)
		n := newTestVariableNode(t, store, id, int32(i))
		_, err := store.InsertNode(n)
		require.NoError(t, err)
	}

	count := 0
	store.Iterate(func(n Node) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	for i := uint32(1); i <= 3; i++ {
		n := newTestVariableNode(t, store, NewNumericNodeId(1, i), int32(i))
		_, err := store.InsertNode(n)
		require.NoError(t, err)
	}
	require.Equal(t, uint32(3), store.Len())

	store.Clear()
	require.Equal(t, uint32(0), store.Len())
}
