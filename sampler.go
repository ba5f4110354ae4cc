// sampler.go: the value sampler (spec.md §4.E) and its bulk fan-out
// extension (SPEC_FULL.md's supplemented SampleAll).
//
// Sample's get/read/release sequence is grounded on open62541's
// sampleCallbackWithValue's node lookup (ua_subscription_datachange.c); the
// errgroup/semaphore-bounded fan-out of SampleAll is new, grounded on the
// golang.org/x/sync usage pattern (bounded worker fan-out over a
// weighted.Semaphore) rather than any single pack file, since spec.md
// describes Sample only as a per-item operation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Sampler reads a MonitoredItem's current attribute value out of a Store
// (spec.md §4.E).
type Sampler struct {
	store   *Store
	reader  AttributeReader
	clock   TimeProvider
	metrics MetricsCollector
	logger  Logger
}

// NewSampler builds a Sampler over store, reading attributes through
// reader.
func NewSampler(store *Store, reader AttributeReader, cfg Config) *Sampler {
	_ = cfg.Validate()
	return &Sampler{
		store:   store,
		reader:  reader,
		clock:   cfg.TimeProvider,
		metrics: cfg.MetricsCollector,
		logger:  cfg.Logger,
	}
}

// Sample produces the current DataValue for item's node/attribute/index
// range. If the node is absent, it synthesizes a value carrying status
// NodeIdUnknown instead of failing (spec.md §4.E).
func (s *Sampler) Sample(item *MonitoredItem) DataValue {
	start := s.clock.Now()
	defer func() { s.metrics.RecordSample(s.clock.Now() - start) }()

	node, ok := s.store.GetNode(item.MonitoredNodeId)
	if !ok {
		s.logger.Debug("sample: node not found", "nodeId", item.MonitoredNodeId.String())
		return DataValue{HasStatus: true, Status: StatusNodeIdUnknown}
	}
	defer s.store.ReleaseNode(node)

	return s.reader.ReadAttribute(node, item.AttributeId, item.IndexRange, item.TimestampsToReturn)
}

// SampleAll samples every item in items concurrently, bounded by
// maxConcurrency (0 or negative means unbounded), and returns one
// DataValue per item in the same order. ctx is consulted only while an item
// waits for a semaphore slot: with a bound set, items that have not yet
// acquired a slot when ctx is done are not sampled (their result stays the
// zero DataValue), and SampleAll returns the context error after the
// samples already running finish. Without a bound, ctx is not consulted and
// the returned error is always nil.
func (s *Sampler) SampleAll(ctx context.Context, items []*MonitoredItem, maxConcurrency int64) ([]DataValue, error) {
	results := make([]DataValue, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var sem *semaphore.Weighted
	if maxConcurrency > 0 {
		sem = semaphore.NewWeighted(maxConcurrency)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if sem != nil {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)
			}
			results[i] = s.Sample(item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
