package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPigeonholeThreeUnsat(t *testing.T) {
	s := New(DefaultParameters())
	pigeons, err := s.AddVars([]Domain{NewRangeDomain(0, 1), NewRangeDomain(0, 1), NewRangeDomain(0, 1)}, "h")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewAllDifferent(pigeons)))

	outcome := s.Solve()
	require.Equal(t, OutcomeUNSAT, outcome)
	require.GreaterOrEqual(t, s.Stats().Nodes(), int64(2))
	require.GreaterOrEqual(t, s.Stats().Failures(), int64(1))
}

// diagonalPropagator enforces that no two queens in its scope, placed one
// per row at the given row offsets, share a diagonal: a naive ground-pair
// elimination pass in the same style as AllDifferentPropagator, since
// queens-diagonal disjointness isn't one of builtins.go's grounding
// fixtures.
type diagonalPropagator struct {
	GlobalBase
	rows []int
}

func newDiagonal(vars []*Variable, rows []int) *diagonalPropagator {
	p := &diagonalPropagator{rows: rows}
	p.Vars = vars
	p.PriorityValue = PriorityGlobal
	p.PushedValue = true
	p.NameValue = "queens-diagonal"
	return p
}

func (p *diagonalPropagator) Post(s *Solver) error {
	s.graph.Post(p)
	return p.runPropagate(s)
}
func (p *diagonalPropagator) Propagate(s *Solver) (Event, error) { return p.runPropagate(s) }
func (p *diagonalPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.runPropagate(s)
}

func (p *diagonalPropagator) runPropagate(s *Solver) (Event, error) {
	var merged Event
	for i, vi := range p.Vars {
		if !vi.IsGround() {
			continue
		}
		vali, _ := vi.Value()
		for j, vj := range p.Vars {
			if i == j || !vj.IsGround() {
				continue
			}
			valj, _ := vj.Value()
			diff := vali - valj
			if diff < 0 {
				diff = -diff
			}
			rowDiff := p.rows[i] - p.rows[j]
			if rowDiff < 0 {
				rowDiff = -rowDiff
			}
			if diff == rowDiff {
				return merged, &WipeOut{VarID: vi.id}
			}
		}
	}
	return merged, nil
}

func (p *diagonalPropagator) Check(tuple []int) bool {
	for i := range tuple {
		for j := range tuple {
			if i == j {
				continue
			}
			diff := tuple[i] - tuple[j]
			if diff < 0 {
				diff = -diff
			}
			rowDiff := p.rows[i] - p.rows[j]
			if rowDiff < 0 {
				rowDiff = -rowDiff
			}
			if diff == rowDiff {
				return false
			}
		}
	}
	return true
}
func (p *diagonalPropagator) FindSupport(s *Solver, pos, value int) bool {
	for i, v := range p.Vars {
		if i == pos || !v.IsGround() {
			continue
		}
		val, _ := v.Value()
		diff := val - value
		if diff < 0 {
			diff = -diff
		}
		rowDiff := p.rows[i] - p.rows[pos]
		if rowDiff < 0 {
			rowDiff = -rowDiff
		}
		if diff == rowDiff {
			return false
		}
	}
	return true
}
func (p *diagonalPropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	return p.FindSupport(s, pos, value)
}

func TestNQueensEightSat(t *testing.T) {
	const n = 8
	s := New(DefaultParameters())
	doms := make([]Domain, n)
	rows := make([]int, n)
	for i := 0; i < n; i++ {
		doms[i] = NewRangeDomain(0, n-1)
		rows[i] = i
	}
	queens, err := s.AddVars(doms, "q")
	require.NoError(t, err)
	require.NoError(t, s.AddPropagator(NewAllDifferent(queens)))
	require.NoError(t, s.AddPropagator(newDiagonal(queens, rows)))

	outcome := s.Solve()
	require.Equal(t, OutcomeSAT, outcome)

	cols := make(map[int]bool, n)
	for i, q := range queens {
		require.True(t, q.IsGround())
		val, _ := q.Value()
		require.False(t, cols[val], "column %d used twice", val)
		cols[val] = true
		for j, other := range queens {
			if i == j {
				continue
			}
			ov, _ := other.Value()
			diff := val - ov
			if diff < 0 {
				diff = -diff
			}
			rowDiff := i - j
			if rowDiff < 0 {
				rowDiff = -rowDiff
			}
			require.NotEqual(t, rowDiff, diff, "queens at rows %d,%d share a diagonal", i, j)
		}
	}

	ok, _ := s.CheckSolution()
	require.True(t, ok)
}
