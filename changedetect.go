// changedetect.go: the change detector (spec.md §4.F) — filter
// projection, deadband pre-filter, binary-encoding comparison, and
// notification enqueue/local-callback dispatch.
//
// Grounded on open62541's detectValueChangeWithFilter and
// sampleCallbackWithValue (ua_subscription_datachange.c): the trigger
// projection switch, the Absolute/Percent deadband tests including the
// EURange browse and scalar-only status short-circuit, and the
// release-lock/invoke-callback/reacquire-lock ordering around a
// server-local monitored item are all carried over near-verbatim in
// control flow, re-expressed against this package's DataValue/Variant and
// Store/AttributeReader/Browser/ServiceLock/NotificationQueue ports.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import "bytes"

// ChangeDetector applies spec.md §4.F to a freshly sampled DataValue.
type ChangeDetector struct {
	reader  AttributeReader
	browser Browser
	queue   NotificationQueue
	lock    ServiceLock
	logger  Logger
	metrics MetricsCollector
}

// NewChangeDetector builds a ChangeDetector wired to the given
// collaborators (spec.md §6).
func NewChangeDetector(reader AttributeReader, browser Browser, queue NotificationQueue, lock ServiceLock, cfg Config) *ChangeDetector {
	_ = cfg.Validate()
	return &ChangeDetector{
		reader:  reader,
		browser: browser,
		queue:   queue,
		lock:    lock,
		logger:  cfg.Logger,
		metrics: cfg.MetricsCollector,
	}
}

// ProcessSample runs sample through the four steps of spec.md §4.F against
// item, mutating item's lastSampledValue/lastValue/lastStatus in place and
// enqueuing or invoking a callback on confirmed change.
func (cd *ChangeDetector) ProcessSample(item *MonitoredItem, sample DataValue) error {
	proj := projectForTrigger(sample, item.Filter.Trigger)

	if item.HasLastValue && deadbandEligible(item, &proj) {
		suppressed, err := cd.deadbandSuppressed(item, &proj)
		if err != nil {
			return err
		}
		if suppressed {
			cd.metrics.RecordDeadbandSuppressed()
			return nil
		}
	}

	encoded, err := EncodeDataValue(&proj, make([]byte, stackBufferSize))
	if err != nil {
		cd.logger.Warn("change detector: encoding failed", "nodeId", item.MonitoredNodeId.String(), "error", err)
		return err
	}

	if item.HasLastValue && bytes.Equal(encoded, item.LastSampledValue) {
		return nil
	}

	cd.notify(item, &proj)

	item.LastSampledValue = encoded
	if item.Filter.DeadbandType != DeadbandNone {
		item.LastValue = proj.Value
		item.LastStatus = proj.Status
	}
	item.HasLastValue = true
	return nil
}

// projectForTrigger strips the fields a MonitoredItem's trigger excludes
// from change detection (spec.md §4.F step 1). Server timestamps are
// always stripped.
func projectForTrigger(sample DataValue, trigger DataChangeTrigger) DataValue {
	proj := sample
	proj.HasServerTimestamp = false
	proj.HasServerPicosecond = false

	switch trigger {
	case TriggerStatus:
		proj.HasValue = false
		proj.Value = Variant{}
		proj.HasSourceTimestamp = false
		proj.HasSourcePicosecond = false
	case TriggerStatusValue:
		proj.HasSourceTimestamp = false
		proj.HasSourcePicosecond = false
	case TriggerStatusValueTimestamp:
		// keep source timestamps
	}
	return proj
}

// deadbandEligible reports whether the deadband pre-filter applies at all:
// numeric scalar/array value, StatusValue(Timestamp) trigger, and a
// configured deadband type (spec.md §4.F step 2).
func deadbandEligible(item *MonitoredItem, proj *DataValue) bool {
	if item.Filter.DeadbandType == DeadbandNone {
		return false
	}
	if item.Filter.Trigger != TriggerStatusValue && item.Filter.Trigger != TriggerStatusValueTimestamp {
		return false
	}
	return proj.HasValue && proj.Value.Type.IsNumeric()
}

// deadbandSuppressed runs the Absolute or Percent test and reports whether
// the change should be suppressed (spec.md §4.F step 2).
func (cd *ChangeDetector) deadbandSuppressed(item *MonitoredItem, proj *DataValue) (bool, error) {
	if !proj.Value.IsArray() && item.LastStatus != proj.Status {
		// scalar-only status short-circuit: always a real change.
		return false, nil
	}

	switch item.Filter.DeadbandType {
	case DeadbandAbsolute:
		return absoluteDeadbandSuppressed(proj.Value, item.LastValue, item.Filter.DeadbandValue), nil
	case DeadbandPercent:
		maxDist, ok := cd.percentMaxDistance(item)
		if !ok {
			// Missing or malformed EURange: treat as no change.
			return true, nil
		}
		return absoluteDeadbandSuppressed(proj.Value, item.LastValue, maxDist), nil
	default:
		return false, nil
	}
}

// absoluteDeadbandSuppressed reports whether every element of cur is
// within d of the corresponding element of last. A type mismatch or
// array-length change is always a real change (not suppressed).
func absoluteDeadbandSuppressed(cur, last Variant, d float64) bool {
	if cur.Type != last.Type || cur.IsArray() != last.IsArray() || cur.Length() != last.Length() {
		return false
	}
	for i := 0; i < cur.Length(); i++ {
		cv, ok1 := cur.elementAt(i)
		lv, ok2 := last.elementAt(i)
		if !ok1 || !ok2 {
			return false
		}
		diff := cv - lv
		if diff < 0 {
			diff = -diff
		}
		if diff > d {
			return false
		}
	}
	return true
}

// percentMaxDistance browses item's node for an EURange child and returns
// (d/100)*(high-low), or ok=false if the child is missing or malformed
// (spec.md §4.F step 2).
func (cd *ChangeDetector) percentMaxDistance(item *MonitoredItem) (float64, bool) {
	if cd.browser == nil {
		return 0, false
	}
	euRangeId, ok := cd.browser.SimplifiedBrowsePath(item.MonitoredNodeId, []string{"EURange"})
	if !ok {
		return 0, false
	}

	rng, ok := euRangeOf(cd.reader, euRangeId)
	if !ok {
		return 0, false
	}
	return (item.Filter.DeadbandValue / 100) * (rng.High - rng.Low), true
}

// euRangeOf reads the Value attribute of euRangeId and interprets it as an
// EURange. Returns ok=false if absent or not an EURange-shaped value.
func euRangeOf(reader AttributeReader, euRangeId NodeId) (EURange, bool) {
	hdr := NodeHeader{NodeId: euRangeId}
	dummy := &VariableNode{NodeHeader: hdr}
	dv := reader.ReadAttribute(dummy, AttributeIdValue, "", TimestampsNeither)
	if !dv.HasValue {
		return EURange{}, false
	}
	rng, ok := dv.Value.Value.(EURange)
	return rng, ok
}

// notify enqueues a Notification for a subscription-backed item, or
// invokes the local callback (outside the service lock) for a server-local
// one (spec.md §4.F step 4).
func (cd *ChangeDetector) notify(item *MonitoredItem, proj *DataValue) {
	cd.metrics.RecordNotification()

	if item.Subscription != nil {
		cd.queue.Enqueue(item.Subscription, item, &Notification{Item: item, Value: *proj})
		return
	}

	if item.LocalCallback == nil {
		return
	}
	if cd.lock != nil {
		cd.lock.Unlock()
		defer cd.lock.Lock()
	}
	item.LocalCallback(item, item.MonitoredNodeId, proj)
}
