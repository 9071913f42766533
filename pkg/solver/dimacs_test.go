package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const unsatCNF = `p cnf 2 4
1 2 0
1 -2 0
-1 2 0
-1 -2 0
`

func TestLoadDIMACSUnsat(t *testing.T) {
	s := New(DefaultParameters())
	vars, err := s.LoadDIMACS(strings.NewReader(unsatCNF))
	require.NoError(t, err)
	require.Len(t, vars, 2)

	outcome := s.Solve()
	require.Equal(t, OutcomeUNSAT, outcome)
}

func TestLoadDIMACSMalformedHeader(t *testing.T) {
	s := New(DefaultParameters())
	_, err := s.LoadDIMACS(strings.NewReader("p wrong 2 4\n"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestLoadDIMACSClauseBeforeHeader(t *testing.T) {
	s := New(DefaultParameters())
	_, err := s.LoadDIMACS(strings.NewReader("1 2 0\n"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestLoadDIMACSMissingTerminatingZero(t *testing.T) {
	s := New(DefaultParameters())
	_, err := s.LoadDIMACS(strings.NewReader("p cnf 2 1\n1 2\n"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedInput)
}

const satCNF = `p cnf 3 2
1 2 0
-1 3 0
`

func TestLoadDIMACSSat(t *testing.T) {
	s := New(DefaultParameters())
	vars, err := s.LoadDIMACS(strings.NewReader(satCNF))
	require.NoError(t, err)

	outcome := s.Solve()
	require.Equal(t, OutcomeSAT, outcome)

	values := make([]int, len(vars))
	for i, v := range vars {
		val, ok := v.Value()
		require.True(t, ok)
		values[i] = val
	}
	require.True(t, values[0] == 1 || values[1] == 1)
	require.True(t, values[0] == 0 || values[2] == 1)
}
