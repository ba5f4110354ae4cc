// interfaces.go: ambient ports (Logger/TimeProvider/MetricsCollector) and
// the external collaborator interfaces the sampler and change detector are
// wired against (spec.md §6).
//
// The Logger/TimeProvider/MetricsCollector shapes are grounded 1:1 on
// agilira-balios/interfaces.go; the collaborator interfaces
// (AttributeReader/Browser/NotificationQueue/ServiceLock) are new, standing
// in for the session/subscription/publish-engine layer spec.md places out
// of scope (§1, §6).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

// Logger defines a minimal structured logging interface. Implementations
// should be allocation-free on the hot path.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger discards everything. Used as the zero-value default.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides the current time with minimal overhead, so the
// sampler doesn't pay a time.Now() syscall per sample.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since the epoch.
	Now() int64
}

// MetricsCollector collects operation metrics. Callers invoke it without a
// nil check; Config.Validate replaces a nil collector with
// NoOpMetricsCollector.
type MetricsCollector interface {
	RecordGetNode(latencyNanos int64, hit bool)
	RecordInsertNode(latencyNanos int64)
	RecordRemoveNode(latencyNanos int64)
	RecordReplaceNode(latencyNanos int64)
	RecordResize(oldSize, newSize uint32)
	RecordSample(latencyNanos int64)
	RecordNotification()
	RecordDeadbandSuppressed()
}

// NoOpMetricsCollector records nothing. Used as the zero-value default.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordGetNode(int64, bool)    {}
func (NoOpMetricsCollector) RecordInsertNode(int64)       {}
func (NoOpMetricsCollector) RecordRemoveNode(int64)       {}
func (NoOpMetricsCollector) RecordReplaceNode(int64)      {}
func (NoOpMetricsCollector) RecordResize(uint32, uint32)  {}
func (NoOpMetricsCollector) RecordSample(int64)           {}
func (NoOpMetricsCollector) RecordNotification()          {}
func (NoOpMetricsCollector) RecordDeadbandSuppressed()    {}

// TimestampsToReturn mirrors the OPC UA read parameter of the same name.
type TimestampsToReturn uint8

const (
	TimestampsNeither TimestampsToReturn = iota
	TimestampsSource
	TimestampsServer
	TimestampsBoth
)

// AttributeId identifies which attribute of a node a read targets.
type AttributeId uint32

const (
	AttributeIdNodeId AttributeId = iota + 1
	AttributeIdNodeClass
	AttributeIdBrowseName
	AttributeIdDisplayName
	AttributeIdDescription
	AttributeIdWriteMask
	AttributeIdUserWriteMask
	AttributeIdIsAbstract
	AttributeIdSymmetric
	AttributeIdInverseName
	AttributeIdContainsNoLoops
	AttributeIdEventNotifier
	AttributeIdValue
	AttributeIdDataType
	AttributeIdValueRank
	AttributeIdArrayDimensions
	AttributeIdAccessLevel
	AttributeIdUserAccessLevel
	AttributeIdMinimumSamplingInterval
	AttributeIdHistorizing
	AttributeIdExecutable
	AttributeIdUserExecutable
)

// AttributeReader reads a single attribute off a node (spec.md §6,
// component E's collaborator). Side-effect free.
type AttributeReader interface {
	ReadAttribute(node Node, attributeId AttributeId, indexRange string,
		timestamps TimestampsToReturn) DataValue
}

// Browser resolves a simplified browse path, used by the percent-deadband
// pre-filter to locate a node's EURange child (spec.md §4.F, §6).
type Browser interface {
	SimplifiedBrowsePath(nodeId NodeId, qualifiedNames []string) (target NodeId, ok bool)
}

// ServiceLock is the external lock the change detector releases around a
// server-local monitored item's callback and reacquires afterwards
// (spec.md §4.F, §6).
type ServiceLock interface {
	Lock()
	Unlock()
}

// Notification is what the change detector enqueues on a confirmed change
// for a subscription-backed monitored item (spec.md §4.F).
type Notification struct {
	Item  *MonitoredItem
	Value DataValue
}

// NotificationQueue enqueues a confirmed-change notification for later
// delivery by the publish engine (out of scope here, spec.md §1/§6).
type NotificationQueue interface {
	Enqueue(sub *Subscription, item *MonitoredItem, n *Notification)
}
