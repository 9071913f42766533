package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckSolutionPassesOnGroundSatisfyingAssignment(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 5), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 5), "y")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewInequality(x, y, CmpLT)))

	require.Equal(t, OutcomeSAT, s.Solve())
	ok, failing := s.CheckSolution()
	require.True(t, ok)
	require.Nil(t, failing)
}

func TestCheckSolutionFailsOnUngroundVariable(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 5), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 5), "y")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewInequality(x, y, CmpLT)))

	ok, failing := s.CheckSolution()
	require.False(t, ok)
	require.NotNil(t, failing)
}

func TestCheckBoundsPassesOnConsistentPartialAssignment(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 5), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 5), "y")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewInequality(x, y, CmpLT)))

	ok, failing := s.CheckBounds()
	require.True(t, ok)
	require.Nil(t, failing)
}

// neverSupportedPropagator is a minimal fixture whose post-time Propagate
// always succeeds but whose FindBoundSupport always refuses, isolating
// CheckBounds' failure path from whatever Post-time propagation itself
// would already catch.
type neverSupportedPropagator struct {
	BinaryBase
}

func (p *neverSupportedPropagator) Post(s *Solver) error { s.graph.Post(p); return nil }
func (p *neverSupportedPropagator) Propagate(s *Solver) (Event, error) {
	return Event{Kind: NoEvent}, nil
}
func (p *neverSupportedPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.Propagate(s)
}
func (p *neverSupportedPropagator) Check(tuple []int) bool                   { return true }
func (p *neverSupportedPropagator) FindSupport(s *Solver, pos, value int) bool { return true }
func (p *neverSupportedPropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	return false
}

func TestCheckBoundsFailsWhenNoCompletionExists(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 5), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 5), "y")
	require.NoError(t, err)
	p := &neverSupportedPropagator{}
	p.X, p.Y = x, y
	require.NoError(t, s.AddPropagator(p))

	ok, failing := s.CheckBounds()
	require.False(t, ok)
	require.NotNil(t, failing)
}
