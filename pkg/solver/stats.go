package solver

import "sync/atomic"

// Stats accumulates the counters spec §4.12 requires a solver expose:
// node and failure counts, backtracks, restarts, propagation calls,
// learnt-clause count and peak trail/queue sizes. Grounded on the
// teacher's SolverMonitor (fd_monitor.go), which is similarly nil-
// receiver-safe so a caller can pass a nil *Stats and skip instrumentation
// for free.
type Stats struct {
	nodes            atomic.Int64
	failures         atomic.Int64
	backtracks       atomic.Int64
	restarts         atomic.Int64
	propagations     atomic.Int64
	learntClauses    atomic.Int64
	peakTrailSize    atomic.Int64
	peakQueueSize    atomic.Int64
}

// NewStats returns a zeroed counter set.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) incNodes() {
	if s == nil {
		return
	}
	s.nodes.Add(1)
}

func (s *Stats) incFailures() {
	if s == nil {
		return
	}
	s.failures.Add(1)
}

func (s *Stats) incBacktracks() {
	if s == nil {
		return
	}
	s.backtracks.Add(1)
}

func (s *Stats) incRestarts() {
	if s == nil {
		return
	}
	s.restarts.Add(1)
}

func (s *Stats) incPropagations() {
	if s == nil {
		return
	}
	s.propagations.Add(1)
}

func (s *Stats) incLearntClauses() {
	if s == nil {
		return
	}
	s.learntClauses.Add(1)
}

func (s *Stats) observeTrailSize(n int) {
	if s == nil {
		return
	}
	for {
		cur := s.peakTrailSize.Load()
		if int64(n) <= cur || s.peakTrailSize.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

func (s *Stats) observeQueueSize(n int) {
	if s == nil {
		return
	}
	for {
		cur := s.peakQueueSize.Load()
		if int64(n) <= cur || s.peakQueueSize.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

// Nodes is the number of search-tree nodes visited.
func (s *Stats) Nodes() int64 { return s.nodes.Load() }

// Failures is the number of domain wipeouts encountered.
func (s *Stats) Failures() int64 { return s.failures.Load() }

// Backtracks is the number of times search undid a decision.
func (s *Stats) Backtracks() int64 { return s.backtracks.Load() }

// Restarts is the number of times search returned to the root.
func (s *Stats) Restarts() int64 { return s.restarts.Load() }

// Propagations is the number of propagator Propagate/PropagateEvent calls.
func (s *Stats) Propagations() int64 { return s.propagations.Load() }

// LearntClauses is the number of nogoods learnt via conflict analysis.
func (s *Stats) LearntClauses() int64 { return s.learntClauses.Load() }

// PeakTrailSize is the largest trail depth observed.
func (s *Stats) PeakTrailSize() int64 { return s.peakTrailSize.Load() }

// PeakQueueSize is the largest size observed of either the variable-event
// queue or the constraint queue.
func (s *Stats) PeakQueueSize() int64 { return s.peakQueueSize.Load() }
