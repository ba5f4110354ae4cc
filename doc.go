// Package nodestore provides a lock-free-read address-space store for an
// OPC UA-shaped server's information model, plus the change-detection
// sampler that is its principal consumer.
//
// The store (Store) is an open-addressed hash table from NodeId to Node
// that supports safe concurrent reads, including from a signal-context
// reader that cannot take a lock: InsertNode, ReplaceNode and RemoveNode
// publish and retire entries through a single atomic pointer CAS per slot,
// so a reader always
// observes either the pre-publication value or the fully initialized
// Entry, never a torn write.
//
// Writers (insert/remove/replace/clear) are expected to be serialized by an
// external service lock; the store itself does not arbitrate between
// concurrent writers. See the package-level invariants documented on Table
// and Entry for the exact contract.
//
// Example usage:
//
//	store := nodestore.NewStore(nodestore.DefaultConfig())
//	n, err := store.NewNode(nodestore.NodeClassVariable)
//	if err != nil {
//		// handle err
//	}
//	n.Header().NodeId = nodestore.NewNumericNodeId(1, 42)
//	if _, err := store.InsertNode(n); err != nil {
//		// handle err
//	}
//	got, ok := store.GetNode(nodestore.NewNumericNodeId(1, 42))
//	if ok {
//		store.ReleaseNode(got)
//	}
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

const (
	// Version of the nodestore library.
	Version = "v0.1.0-dev"
)
