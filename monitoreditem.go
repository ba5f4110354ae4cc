// monitoreditem.go: the MonitoredItem fields the change detector touches
// (spec.md §3).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

// DataChangeTrigger selects which fields of a sample carry signal for
// change detection (spec.md §4.F).
type DataChangeTrigger uint8

const (
	TriggerStatus DataChangeTrigger = iota
	TriggerStatusValue
	TriggerStatusValueTimestamp
)

// DeadbandType selects the deadband pre-filter applied to numeric samples.
type DeadbandType uint8

const (
	DeadbandNone DeadbandType = iota
	DeadbandAbsolute
	DeadbandPercent
)

// DataChangeFilter is a monitored item's change-detection configuration.
type DataChangeFilter struct {
	Trigger       DataChangeTrigger
	DeadbandType  DeadbandType
	DeadbandValue float64
}

// Subscription is the minimal identity the change detector needs: whether
// a monitored item belongs to one (subscription-backed) or not
// (server-local, spec.md §4.F). The full subscription lifecycle is out of
// scope (spec.md §1).
type Subscription struct {
	SubscriptionId uint32
}

// LocalDataChangeCallback is invoked for server-local monitored items
// (no Subscription) after the service lock has been released, and before
// it is reacquired (spec.md §4.F).
type LocalDataChangeCallback func(item *MonitoredItem, nodeId NodeId, value *DataValue)

// MonitoredItem is a subscription to a node attribute that produces
// notifications on change (spec.md §3).
type MonitoredItem struct {
	MonitoredItemId    uint32
	MonitoredNodeId    NodeId
	AttributeId        AttributeId
	IndexRange         string
	TimestampsToReturn TimestampsToReturn
	Filter             DataChangeFilter

	LastSampledValue []byte
	HasLastValue     bool
	LastValue        Variant
	LastStatus       Status

	// Subscription is nil for a server-local monitored item.
	Subscription *Subscription
	LocalCallback LocalDataChangeCallback
}
