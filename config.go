// config.go: Store configuration (spec.md §4.H ambient stack).
//
// Grounded 1:1 on agilira-balios/config.go's Validate()/DefaultConfig()
// shape, re-typed for the nodestore's own knobs (initial table size,
// sampler defaults) instead of cache knobs (MaxSize/TTL/window ratio).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	timecache "github.com/agilira/go-timecache"
)

// Default configuration values.
const (
	// DefaultInitialTableSize mirrors open62541's UA_NODEMAP_MINSIZE.
	DefaultInitialTableSize = minTableSize

	// DefaultNotificationQueueCapacity is the value Validate gives a zero
	// or negative Config.NotificationQueueCapacity.
	DefaultNotificationQueueCapacity = 1024
)

// Config holds construction parameters for a Store and its Sampler.
type Config struct {
	// InitialTableSize is the minimum initial size of the node table.
	// Rounded up to the next entry in the prime ladder. Default:
	// DefaultInitialTableSize.
	InitialTableSize uint32

	// Logger receives structured diagnostics from the store and sampler.
	// Default: NoOpLogger.
	Logger Logger

	// TimeProvider supplies the current time for the Store's and Sampler's
	// latency metrics. Default: a go-timecache-backed provider.
	TimeProvider TimeProvider

	// MetricsCollector receives per-operation metrics. Default:
	// NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// DefaultFilter is a default DataChangeFilter for server-local
	// monitored items. Validate fills it in, but nothing in this package
	// applies it to a MonitoredItem.
	// Default: {Trigger: TriggerStatusValue, DeadbandType: DeadbandNone}.
	DefaultFilter DataChangeFilter

	// NotificationQueueCapacity is a capacity setting for a
	// NotificationQueue implementation. This package provides no queue
	// implementation and does not read it. Default:
	// DefaultNotificationQueueCapacity.
	NotificationQueueCapacity int
}

// Validate normalizes the configuration, filling in defaults for anything
// left zero-valued. Always returns nil — this method only normalizes, it
// does not reject configurations.
func (c *Config) Validate() error {
	if c.InitialTableSize == 0 {
		c.InitialTableSize = DefaultInitialTableSize
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	if c.DefaultFilter.Trigger == 0 && c.DefaultFilter.DeadbandType == 0 &&
		c.DefaultFilter.DeadbandValue == 0 {
		c.DefaultFilter = DataChangeFilter{Trigger: TriggerStatusValue, DeadbandType: DeadbandNone}
	}
	if c.NotificationQueueCapacity <= 0 {
		c.NotificationQueueCapacity = DefaultNotificationQueueCapacity
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults already applied.
func DefaultConfig() Config {
	c := Config{}
	_ = c.Validate()
	return c
}

// systemTimeProvider is the default TimeProvider, backed by
// go-timecache's cached clock for near-zero-overhead reads on the
// sampling hot path.
type systemTimeProvider struct{}

func (systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
