// errors_test.go: tests for the error taxonomy and Status predicates.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import "testing"

func TestStatusOf_NilIsGood(t *testing.T) {
	if StatusOf(nil) != StatusGood {
		t.Error("StatusOf(nil) should be StatusGood")
	}
}

func TestErrorPredicates(t *testing.T) {
	id := NewNumericNodeId(1, 1)

	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"NodeIdUnknown", NewErrNodeIdUnknown(id), IsNodeIdUnknown},
		{"NodeIdExists", NewErrNodeIdExists(id), IsNodeIdExists},
		{"OutOfMemory", NewErrOutOfMemory("insert"), IsOutOfMemory},
		{"Internal", NewErrInternal("replace", "stale"), IsInternalError},
		{"Encoding", NewErrEncoding("buffer too small"), IsEncodingError},
		{"ResizeFailed", errResize("ladder exhausted"), IsInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.is(tc.err) {
				t.Errorf("%s: predicate returned false for its own constructor", tc.name)
			}
		})
	}
}

func TestErrOutOfMemory_IsRetryable(t *testing.T) {
	err := NewErrOutOfMemory("insert")
	if !IsRetryable(err) {
		t.Error("NewErrOutOfMemory should be marked retryable")
	}
	if IsRetryable(nil) {
		t.Error("IsRetryable(nil) should be false")
	}
}

func TestStatus_String(t *testing.T) {
	if StatusGood.String() != "Good" {
		t.Errorf("StatusGood.String() = %q", StatusGood.String())
	}
	if StatusNodeIdUnknown.String() != "BadNodeIdUnknown" {
		t.Errorf("StatusNodeIdUnknown.String() = %q", StatusNodeIdUnknown.String())
	}
}
