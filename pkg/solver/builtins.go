package solver

import "fmt"

// builtins.go holds the minimal concrete propagators used as grounding
// fixtures for the end-to-end scenarios in spec §8; spec §1 scopes
// concrete constraint implementations out as external collaborators, so
// these exist only to make the abstract Propagator contract exercisable,
// not as a constraint-library surface.

// CmpOp is the relational operator an InequalityPropagator enforces.
type CmpOp int

const (
	CmpLT CmpOp = iota
	CmpLE
	CmpEQ
	CmpNE
	CmpGE
	CmpGT
)

// InequalityPropagator enforces X `op` Y (grounded on the teacher's
// fd_ineq.go bound-consistency routines, generalized from a fixed set of
// relation structs to one parameterised CmpOp switch).
type InequalityPropagator struct {
	BinaryBase
	Op CmpOp
}

// NewInequality returns a propagator enforcing x `op` y.
func NewInequality(x, y *Variable, op CmpOp) *InequalityPropagator {
	p := &InequalityPropagator{Op: op}
	p.X, p.Y = x, y
	p.PriorityValue = PriorityDefault
	p.PushedValue = true
	p.NameValue = fmt.Sprintf("ineq(%s,%d,%s)", x.Name(), op, y.Name())
	return p
}

func (p *InequalityPropagator) Post(s *Solver) error {
	s.graph.Post(p)
	return p.runPropagate(s)
}

func (p *InequalityPropagator) Propagate(s *Solver) (Event, error) { return p.runPropagate(s) }
func (p *InequalityPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.runPropagate(s)
}

func (p *InequalityPropagator) runPropagate(s *Solver) (Event, error) {
	var merged Event
	apply := func(ev Event, err error) error {
		merged = merged.merge(ev)
		return err
	}
	switch p.Op {
	case CmpLT:
		if err := apply(s.SetMax(p.X, p.Y.Max()-1, p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMin(p.Y, p.X.Min()+1, p)); err != nil {
			return merged, err
		}
	case CmpLE:
		if err := apply(s.SetMax(p.X, p.Y.Max(), p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMin(p.Y, p.X.Min(), p)); err != nil {
			return merged, err
		}
	case CmpGT:
		if err := apply(s.SetMin(p.X, p.Y.Min()+1, p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMax(p.Y, p.X.Max()-1, p)); err != nil {
			return merged, err
		}
	case CmpGE:
		if err := apply(s.SetMin(p.X, p.Y.Min(), p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMax(p.Y, p.X.Max(), p)); err != nil {
			return merged, err
		}
	case CmpEQ:
		lo, hi := max(p.X.Min(), p.Y.Min()), min(p.X.Max(), p.Y.Max())
		if err := apply(s.SetMin(p.X, lo, p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMax(p.X, hi, p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMin(p.Y, lo, p)); err != nil {
			return merged, err
		}
		if err := apply(s.SetMax(p.Y, hi, p)); err != nil {
			return merged, err
		}
	case CmpNE:
		if p.X.IsGround() {
			if v, _ := p.X.Value(); p.Y.Contains(v) {
				if err := apply(s.Remove(p.Y, v, p)); err != nil {
					return merged, err
				}
			}
		}
		if p.Y.IsGround() {
			if v, _ := p.Y.Value(); p.X.Contains(v) {
				if err := apply(s.Remove(p.X, v, p)); err != nil {
					return merged, err
				}
			}
		}
	}
	return merged, nil
}

func (p *InequalityPropagator) Check(tuple []int) bool {
	x, y := tuple[0], tuple[1]
	switch p.Op {
	case CmpLT:
		return x < y
	case CmpLE:
		return x <= y
	case CmpEQ:
		return x == y
	case CmpNE:
		return x != y
	case CmpGE:
		return x >= y
	case CmpGT:
		return x > y
	}
	return false
}

func (p *InequalityPropagator) FindSupport(s *Solver, pos, value int) bool {
	return p.FindBoundSupport(s, pos, value)
}
func (p *InequalityPropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	other := p.Y
	if pos == 1 {
		other = p.X
	}
	lo, hi := other.Min(), other.Max()
	switch p.Op {
	case CmpLT:
		if pos == 0 {
			return value < hi
		}
		return lo < value
	case CmpLE:
		if pos == 0 {
			return value <= hi
		}
		return lo <= value
	case CmpGT:
		if pos == 0 {
			return value > lo
		}
		return hi > value
	case CmpGE:
		if pos == 0 {
			return value >= lo
		}
		return hi >= value
	case CmpEQ:
		return other.Contains(value)
	case CmpNE:
		return other.Size() > 1 || lo != value
	}
	return false
}

func (op CmpOp) String() string {
	switch op {
	case CmpLT:
		return "<"
	case CmpLE:
		return "<="
	case CmpEQ:
		return "="
	case CmpNE:
		return "!="
	case CmpGE:
		return ">="
	case CmpGT:
		return ">"
	}
	return "?"
}

// SumPropagator enforces sum(Vars) == Total via bound consistency
// (grounded on the teacher's fd_arith.go linear-sum routines).
type SumPropagator struct {
	GlobalBase
	Total int
}

// NewSum returns a propagator enforcing sum(vars) == total.
func NewSum(vars []*Variable, total int) *SumPropagator {
	p := &SumPropagator{Total: total}
	p.Vars = vars
	p.PriorityValue = PriorityDefault
	p.PushedValue = true
	p.NameValue = "sum"
	return p
}

func (p *SumPropagator) Post(s *Solver) error {
	s.graph.Post(p)
	return p.runPropagate(s)
}
func (p *SumPropagator) Propagate(s *Solver) (Event, error) { return p.runPropagate(s) }
func (p *SumPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.runPropagate(s)
}

func (p *SumPropagator) runPropagate(s *Solver) (Event, error) {
	minSum, maxSum := 0, 0
	for _, v := range p.Vars {
		minSum += v.Min()
		maxSum += v.Max()
	}
	var merged Event
	for _, v := range p.Vars {
		restMin := minSum - v.Min()
		restMax := maxSum - v.Max()
		lo := p.Total - restMax
		hi := p.Total - restMin
		ev, err := s.SetMin(v, lo, p)
		merged = merged.merge(ev)
		if err != nil {
			return merged, err
		}
		ev, err = s.SetMax(v, hi, p)
		merged = merged.merge(ev)
		if err != nil {
			return merged, err
		}
	}
	return merged, nil
}

func (p *SumPropagator) Check(tuple []int) bool {
	sum := 0
	for _, v := range tuple {
		sum += v
	}
	return sum == p.Total
}
func (p *SumPropagator) FindSupport(s *Solver, pos, value int) bool {
	return p.FindBoundSupport(s, pos, value)
}
func (p *SumPropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	restMin, restMax := 0, 0
	for i, v := range p.Vars {
		if i == pos {
			continue
		}
		restMin += v.Min()
		restMax += v.Max()
	}
	need := p.Total - value
	return need >= restMin && need <= restMax
}

// AllDifferentPropagator enforces pairwise disequality across its scope
// via a naive value-elimination pass (grounded on the teacher's
// fd_regin.go, simplified from Régin's matching algorithm to the bound/
// singleton-elimination fragment sufficient for the spec's grounding
// fixtures; a full matching-based filterer is out of scope per spec §1).
type AllDifferentPropagator struct {
	GlobalBase
}

// NewAllDifferent returns a propagator enforcing pairwise disequality.
func NewAllDifferent(vars []*Variable) *AllDifferentPropagator {
	p := &AllDifferentPropagator{}
	p.Vars = vars
	p.PriorityValue = PriorityGlobal
	p.PushedValue = true
	p.NameValue = "all-different"
	return p
}

func (p *AllDifferentPropagator) Post(s *Solver) error {
	s.graph.Post(p)
	return p.runPropagate(s)
}
func (p *AllDifferentPropagator) Propagate(s *Solver) (Event, error) { return p.runPropagate(s) }
func (p *AllDifferentPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.runPropagate(s)
}

func (p *AllDifferentPropagator) runPropagate(s *Solver) (Event, error) {
	var merged Event
	changed := true
	for changed {
		changed = false
		for i, vi := range p.Vars {
			if !vi.IsGround() {
				continue
			}
			val, _ := vi.Value()
			for j, vj := range p.Vars {
				if i == j || !vj.Contains(val) {
					continue
				}
				ev, err := s.Remove(vj, val, p)
				merged = merged.merge(ev)
				if err != nil {
					return merged, err
				}
				if ev.Kind != NoEvent {
					changed = true
				}
			}
		}
	}
	return merged, nil
}

func (p *AllDifferentPropagator) Check(tuple []int) bool {
	seen := make(map[int]bool, len(tuple))
	for _, v := range tuple {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
func (p *AllDifferentPropagator) FindSupport(s *Solver, pos, value int) bool {
	for i, v := range p.Vars {
		if i == pos {
			continue
		}
		if v.IsGround() {
			if val, _ := v.Value(); val == value {
				return false
			}
		}
	}
	return true
}
func (p *AllDifferentPropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	return p.FindSupport(s, pos, value)
}

// BoolClausePropagator enforces one CNF clause over boolean FD variables,
// unit-propagating and recording the conflict clause (for first-UIP
// analysis, nogood.go) on failure. Grounded on the teacher's handling of
// unit clauses in its constraint-store wrappers, generalized here to a
// single dedicated clause-watcher rather than threading clauses through
// the relational unification core.
type BoolClausePropagator struct {
	GlobalBase
	Clause *Clause
}

// NewBoolClause returns a propagator enforcing clause over vars, where
// vars[i] corresponds to c.Literals[i]'s variable (same order).
func NewBoolClause(vars []*Variable, c *Clause) *BoolClausePropagator {
	p := &BoolClausePropagator{Clause: c}
	p.Vars = vars
	p.PriorityValue = PriorityUnit
	p.PushedValue = true
	p.NameValue = "bool-clause"
	return p
}

func (p *BoolClausePropagator) Post(s *Solver) error {
	s.graph.Post(p)
	return p.runPropagate(s)
}
func (p *BoolClausePropagator) Propagate(s *Solver) (Event, error) { return p.runPropagate(s) }
func (p *BoolClausePropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.runPropagate(s)
}

func (p *BoolClausePropagator) runPropagate(s *Solver) (Event, error) {
	var merged Event
	unassigned := 0
	var lastLit Literal
	for i, v := range p.Vars {
		lit := p.Clause.Literals[i]
		if !v.IsGround() {
			unassigned++
			lastLit = lit
			continue
		}
		val, _ := v.Value()
		litTrue := (val == 1) != lit.Negative()
		if litTrue {
			return merged, nil // clause already satisfied
		}
	}
	if unassigned == 1 {
		want := 1
		if lastLit.Negative() {
			want = 0
		}
		v := p.scopeVarForLiteral(lastLit)
		ev, err := s.SetValue(v, want, p)
		merged = merged.merge(ev)
		if err == nil {
			s.recordBoolAssignment(lastLit, p.Clause)
		}
		if err != nil {
			s.conflictClause = p.Clause
			return merged, err
		}
		return merged, nil
	}
	if unassigned == 0 {
		s.conflictClause = p.Clause
		return merged, &WipeOut{VarID: p.Vars[0].id}
	}
	return merged, nil
}

func (p *BoolClausePropagator) scopeVarForLiteral(lit Literal) *Variable {
	for i, l := range p.Clause.Literals {
		if l.VarID() == lit.VarID() {
			return p.Vars[i]
		}
	}
	return nil
}

func (p *BoolClausePropagator) Check(tuple []int) bool {
	for i, val := range tuple {
		lit := p.Clause.Literals[i]
		litTrue := (val == 1) != lit.Negative()
		if litTrue {
			return true
		}
	}
	return false
}
func (p *BoolClausePropagator) FindSupport(s *Solver, pos, value int) bool {
	lit := p.Clause.Literals[pos]
	return (value == 1) != lit.Negative()
}
func (p *BoolClausePropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	return p.FindSupport(s, pos, value)
}
