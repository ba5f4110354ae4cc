// errors.go: the error taxonomy surfaced by the core (spec.md §7), built on
// agilira-balios's structured-error idiom.
//
// Grounded on agilira-balios/errors.go: typed error codes, NewWithContext/
// NewWithField constructors, AsRetryable/WithSeverity modifiers, and
// HasCode-based predicates — re-typed here for the ten Nodestore operations
// instead of cache operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Status is the result-code taxonomy of spec.md §7. A nil Go error is
// StatusGood; any non-nil error returned by this package carries one of
// the remaining statuses and can be inspected with StatusOf or the
// Is* predicates below. DataValue.Status reuses the same enum for the
// value-level status a sampled attribute read carries (e.g. a synthesized
// NodeIdUnknown when the node is absent), mirroring how open62541
// reuses UA_StatusCode for both purposes.
type Status uint32

const (
	StatusGood Status = iota
	StatusOutOfMemory
	StatusNodeIdUnknown
	StatusNodeIdExists
	StatusInternalError
	StatusEncodingError
	StatusBadInternalError // resize/rehash allocation failed
)

func (s Status) String() string {
	switch s {
	case StatusGood:
		return "Good"
	case StatusOutOfMemory:
		return "BadOutOfMemory"
	case StatusNodeIdUnknown:
		return "BadNodeIdUnknown"
	case StatusNodeIdExists:
		return "BadNodeIdExists"
	case StatusInternalError:
		return "BadInternalError"
	case StatusEncodingError:
		return "BadEncodingError"
	case StatusBadInternalError:
		return "BadInternalError_Resize"
	default:
		return "Unknown"
	}
}

// Error codes for nodestore operations.
const (
	ErrCodeOutOfMemory      errors.ErrorCode = "NODESTORE_OUT_OF_MEMORY"
	ErrCodeNodeIdUnknown    errors.ErrorCode = "NODESTORE_NODE_ID_UNKNOWN"
	ErrCodeNodeIdExists     errors.ErrorCode = "NODESTORE_NODE_ID_EXISTS"
	ErrCodeInternalError    errors.ErrorCode = "NODESTORE_INTERNAL_ERROR"
	ErrCodeEncodingError    errors.ErrorCode = "NODESTORE_ENCODING_ERROR"
	ErrCodeResizeFailed     errors.ErrorCode = "NODESTORE_RESIZE_FAILED"
	ErrCodeInvalidNodeClass errors.ErrorCode = "NODESTORE_INVALID_NODE_CLASS"
)

// storeError pairs a Status with the underlying structured error, so
// callers can branch on StatusOf(err) without re-parsing error codes.
type storeError struct {
	status Status
	err    error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func newStoreError(status Status, err error) error {
	return &storeError{status: status, err: err}
}

// NewErrOutOfMemory reports an allocation failure (insert, getCopy,
// replace, sampler).
func NewErrOutOfMemory(operation string) error {
	return newStoreError(StatusOutOfMemory, errors.NewWithField(
		ErrCodeOutOfMemory, "allocation failed", "operation", operation).AsRetryable())
}

// NewErrNodeIdUnknown reports that id is not present in the store.
func NewErrNodeIdUnknown(id NodeId) error {
	return newStoreError(StatusNodeIdUnknown, errors.NewWithField(
		ErrCodeNodeIdUnknown, "node identifier not found", "nodeId", id.String()))
}

// NewErrNodeIdExists reports a duplicate id on insert, or an exhausted
// random-id search.
func NewErrNodeIdExists(id NodeId) error {
	return newStoreError(StatusNodeIdExists, errors.NewWithField(
		ErrCodeNodeIdExists, "node identifier already exists", "nodeId", id.String()))
}

// NewErrInternal reports a CAS conflict or a stale getCopy on replace.
func NewErrInternal(operation string, reason string) error {
	return newStoreError(StatusInternalError, errors.NewWithContext(
		ErrCodeInternalError, "internal nodestore conflict", map[string]interface{}{
			"operation": operation,
			"reason":    reason,
		}))
}

// NewErrEncoding reports that the binary encoder's buffer was insufficient
// and calcSize could not determine a usable size.
func NewErrEncoding(reason string) error {
	return newStoreError(StatusEncodingError, errors.NewWithField(
		ErrCodeEncodingError, "binary encoding failed", "reason", reason))
}

// errResize reports a rehash allocation failure during insert (spec.md
// §7's BadInternalError-on-resize case).
func errResize(reason string) error {
	return newStoreError(StatusBadInternalError, errors.NewWithField(
		ErrCodeResizeFailed, "table resize failed", "reason", reason).WithSeverity("critical"))
}

// NewErrInvalidNodeClass reports an unrecognized NodeClass passed to
// NewNode.
func NewErrInvalidNodeClass(class NodeClass) error {
	return newStoreError(StatusInternalError, errors.NewWithField(
		ErrCodeInvalidNodeClass, "unknown node class", "class", fmt.Sprint(class)))
}

// StatusOf extracts the Status carried by err, or StatusGood if err is nil.
// Errors from outside this package that don't carry a Status are reported
// as StatusInternalError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusGood
	}
	var se *storeError
	if goerrors.As(err, &se) {
		return se.status
	}
	return StatusInternalError
}

// IsNodeIdUnknown reports whether err is a NodeIdUnknown failure.
func IsNodeIdUnknown(err error) bool { return StatusOf(err) == StatusNodeIdUnknown }

// IsNodeIdExists reports whether err is a NodeIdExists failure.
func IsNodeIdExists(err error) bool { return StatusOf(err) == StatusNodeIdExists }

// IsOutOfMemory reports whether err is an OutOfMemory failure.
func IsOutOfMemory(err error) bool { return StatusOf(err) == StatusOutOfMemory }

// IsInternalError reports whether err is an InternalError (CAS conflict,
// stale copy, or unknown node class) or a BadInternalError (resize) failure.
func IsInternalError(err error) bool {
	s := StatusOf(err)
	return s == StatusInternalError || s == StatusBadInternalError
}

// IsEncodingError reports whether err is an EncodingError failure.
func IsEncodingError(err error) bool { return StatusOf(err) == StatusEncodingError }

// IsRetryable reports whether the error is marked retryable by go-errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
