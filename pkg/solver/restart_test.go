package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetNextSolutionEnumeratesOrderedPairs(t *testing.T) {
	s := New(DefaultParameters())
	x, err := s.Add(NewRangeDomain(0, 2), "x")
	require.NoError(t, err)
	y, err := s.Add(NewRangeDomain(0, 2), "y")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewInequality(x, y, CmpNE)))

	outcome := s.Solve()
	count := 0
	for outcome == OutcomeSAT {
		count++
		outcome = s.GetNextSolution()
	}
	require.Equal(t, OutcomeUNSAT, outcome)
	require.Equal(t, 6, count)
	require.Len(t, s.Solutions(), 6)
}

func TestFailLimitReturnsLimitout(t *testing.T) {
	params := DefaultParameters()
	params.FailLimit = 1
	s := New(params)
	doms := []Domain{NewRangeDomain(0, 2), NewRangeDomain(0, 2), NewRangeDomain(0, 2), NewRangeDomain(0, 2)}
	pigeons, err := s.AddVars(doms, "p")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewAllDifferent(pigeons)))

	outcome := s.Solve()
	require.Equal(t, OutcomeLIMITOUT, outcome)
	require.GreaterOrEqual(t, s.Stats().Failures(), int64(1))
}

func TestGeometricRestartBaseZeroDegradesToNoRestart(t *testing.T) {
	policy := NewGeometricRestart(0, 1.5)
	_, ok := policy.(NoRestart)
	require.True(t, ok)
	require.Equal(t, "none", policy.Name())
}

func TestLubyRestartSequence(t *testing.T) {
	policy := NewLubyRestart(1)
	got := make([]int64, 7)
	for i := range got {
		got[i] = policy.NextLimit()
	}
	require.Equal(t, []int64{1, 1, 2, 1, 1, 2, 4}, got)
}
