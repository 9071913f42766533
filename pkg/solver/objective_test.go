package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimizeSimpleSum(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 10), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 10), "y")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewSum([]*Variable{x, y}, 7)))

	outcome := s.Minimize(x)
	require.Equal(t, OutcomeOPT, outcome)

	opt, ok := s.objective.(*OptimizeObjective)
	require.True(t, ok)
	best, have := opt.BestValue()
	require.True(t, have)
	require.Equal(t, 0, best)
}

func TestMaximizeSimpleSum(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 10), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 10), "y")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewSum([]*Variable{x, y}, 7)))

	outcome := s.Maximize(x)
	require.Equal(t, OutcomeOPT, outcome)

	opt, ok := s.objective.(*OptimizeObjective)
	require.True(t, ok)
	best, have := opt.BestValue()
	require.True(t, have)
	require.Equal(t, 7, best)
}
