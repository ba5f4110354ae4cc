// Package otelmetrics provides an OpenTelemetry-backed implementation of
// nodestore.MetricsCollector, enabling percentile latency calculation and
// multi-backend export (Prometheus, Jaeger, DataDog, Grafana) for a
// Store/Sampler/ChangeDetector pipeline.
//
// Grounded on agilira-balios/otel/collector.go: the same Options/Option
// functional-options shape, the same "one histogram per latency-bearing
// operation, one counter per event" instrument layout, and the same
// construction-time error propagation — re-targeted to nodestore's eight
// MetricsCollector methods instead of balios's cache operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otelmetrics

import (
	"context"
	"errors"

	"github.com/agilira/nodestore"
	"go.opentelemetry.io/otel/metric"
)

// Collector implements nodestore.MetricsCollector using OpenTelemetry.
//
// Thread-safety: safe for concurrent use — the underlying OTEL instruments
// are thread-safe.
type Collector struct {
	getLatency     metric.Int64Histogram
	insertLatency  metric.Int64Histogram
	removeLatency  metric.Int64Histogram
	replaceLatency metric.Int64Histogram
	sampleLatency  metric.Int64Histogram

	hits              metric.Int64Counter
	misses            metric.Int64Counter
	resizes           metric.Int64Counter
	notifications     metric.Int64Counter
	deadbandSuppressed metric.Int64Counter
}

// Options configures Collector construction.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter. Default:
	// "github.com/agilira/nodestore".
	MeterName string
}

// Option is a functional option for New.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful to distinguish metrics
// from multiple Store instances.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// New creates a Collector backed by provider. Returns an error if provider
// is nil or any OTEL instrument fails to construct.
func New(provider metric.MeterProvider, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/nodestore"}
	for _, opt := range opts {
		opt(&options)
	}
	meter := provider.Meter(options.MeterName)

	c := &Collector{}
	var err error

	if c.getLatency, err = meter.Int64Histogram("nodestore_get_latency_ns",
		metric.WithDescription("Latency of GetNode operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.insertLatency, err = meter.Int64Histogram("nodestore_insert_latency_ns",
		metric.WithDescription("Latency of InsertNode operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.removeLatency, err = meter.Int64Histogram("nodestore_remove_latency_ns",
		metric.WithDescription("Latency of RemoveNode operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.replaceLatency, err = meter.Int64Histogram("nodestore_replace_latency_ns",
		metric.WithDescription("Latency of ReplaceNode operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.sampleLatency, err = meter.Int64Histogram("nodestore_sample_latency_ns",
		metric.WithDescription("Latency of Sampler.Sample operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter("nodestore_get_hits_total",
		metric.WithDescription("Total GetNode hits")); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter("nodestore_get_misses_total",
		metric.WithDescription("Total GetNode misses")); err != nil {
		return nil, err
	}
	if c.resizes, err = meter.Int64Counter("nodestore_resizes_total",
		metric.WithDescription("Total table resizes")); err != nil {
		return nil, err
	}
	if c.notifications, err = meter.Int64Counter("nodestore_notifications_total",
		metric.WithDescription("Total change-detector notifications enqueued or dispatched")); err != nil {
		return nil, err
	}
	if c.deadbandSuppressed, err = meter.Int64Counter("nodestore_deadband_suppressed_total",
		metric.WithDescription("Total samples suppressed by the deadband pre-filter")); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Collector) RecordGetNode(latencyNanos int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNanos)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

func (c *Collector) RecordInsertNode(latencyNanos int64) {
	c.insertLatency.Record(context.Background(), latencyNanos)
}

func (c *Collector) RecordRemoveNode(latencyNanos int64) {
	c.removeLatency.Record(context.Background(), latencyNanos)
}

func (c *Collector) RecordReplaceNode(latencyNanos int64) {
	c.replaceLatency.Record(context.Background(), latencyNanos)
}

func (c *Collector) RecordResize(oldSize, newSize uint32) {
	c.resizes.Add(context.Background(), 1)
}

func (c *Collector) RecordSample(latencyNanos int64) {
	c.sampleLatency.Record(context.Background(), latencyNanos)
}

func (c *Collector) RecordNotification() {
	c.notifications.Add(context.Background(), 1)
}

func (c *Collector) RecordDeadbandSuppressed() {
	c.deadbandSuppressed.Add(context.Background(), 1)
}

var _ nodestore.MetricsCollector = (*Collector)(nil)
