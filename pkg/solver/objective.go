package solver

// Outcome is the result vocabulary a search run reports (spec §6).
type Outcome int

const (
	OutcomeSAT Outcome = iota
	OutcomeUNSAT
	OutcomeOPT
	OutcomeLIMITOUT
	OutcomeUNKNOWN
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSAT:
		return "SAT"
	case OutcomeUNSAT:
		return "UNSAT"
	case OutcomeOPT:
		return "OPT"
	case OutcomeLIMITOUT:
		return "LIMITOUT"
	case OutcomeUNKNOWN:
		return "UNKNOWN"
	default:
		return "?"
	}
}

// Objective is the common contract for satisfaction, optimisation and
// enumeration modes (spec §4.9).
type Objective interface {
	// NotifySolution is called once a full ground assignment is reached.
	NotifySolution(s *Solver) Outcome
	// NotifyExhausted is called when the search tree is fully explored
	// (spec §4.9: "returns OPT if at least one solution was found, else
	// UNSAT").
	NotifyExhausted(s *Solver) Outcome
	// Reset clears any accumulated state. The search controller does not
	// call it; an objective keeps its state across restarts.
	Reset()
}

// SatisfactionObjective ends the search at the first solution.
type SatisfactionObjective struct{}

func (SatisfactionObjective) NotifySolution(s *Solver) Outcome  { return OutcomeSAT }
func (SatisfactionObjective) NotifyExhausted(s *Solver) Outcome { return OutcomeUNSAT }
func (SatisfactionObjective) Reset()                            {}

// optimizeDirection selects minimisation (-1) or maximisation (+1).
type optimizeDirection int

const (
	dirMinimize optimizeDirection = -1
	dirMaximize optimizeDirection = 1
)

// OptimizeObjective implements minimise/maximise over a designated
// variable (spec §4.9): each new solution tightens best and returns
// UNKNOWN so the controller keeps searching rather than stopping. The
// strict-improvement bound (X<best or X>best) is applied by Propagate at
// the start of every call (applyObjectiveBound in engine.go), so the next
// propagation fails unless an improvement exists. The AddPropagator call
// in NotifySolution is rejected once search has started, so the
// improvement propagator is not linked into the constraint graph.
type OptimizeObjective struct {
	X         *Variable
	Dir       optimizeDirection
	best      *int
	haveBest  bool
	improve   *improvementPropagator
	anySolved bool
}

// NewMinimize returns an objective that minimises x.
func NewMinimize(x *Variable) *OptimizeObjective {
	return &OptimizeObjective{X: x, Dir: dirMinimize}
}

// NewMaximize returns an objective that maximises x.
func NewMaximize(x *Variable) *OptimizeObjective {
	return &OptimizeObjective{X: x, Dir: dirMaximize}
}

// BestValue returns the best value found so far and whether any solution
// has been found yet.
func (o *OptimizeObjective) BestValue() (int, bool) {
	if !o.haveBest {
		return 0, false
	}
	return *o.best, true
}

func (o *OptimizeObjective) NotifySolution(s *Solver) Outcome {
	v, _ := o.X.Value()
	o.best = &v
	o.haveBest = true
	o.anySolved = true
	if o.improve == nil {
		o.improve = &improvementPropagator{objective: o}
		_ = s.AddPropagator(o.improve)
	}
	return OutcomeUNKNOWN
}

func (o *OptimizeObjective) NotifyExhausted(s *Solver) Outcome {
	if o.anySolved {
		return OutcomeOPT
	}
	return OutcomeUNSAT
}

func (o *OptimizeObjective) Reset() {
	o.best = nil
	o.haveBest = false
	o.anySolved = false
}

// improvementPropagator enforces X<best (minimise) or X>best (maximise)
// once a first incumbent exists (spec §4.9).
type improvementPropagator struct {
	BasePropagator
	objective *OptimizeObjective
}

func (p *improvementPropagator) Post(s *Solver) error {
	p.PriorityValue = PriorityUnit
	p.PushedValue = true
	s.graph.Post(p)
	return nil
}
func (p *improvementPropagator) Scope() []*Variable { return []*Variable{p.objective.X} }
func (p *improvementPropagator) Propagate(s *Solver) (Event, error) {
	if !p.objective.haveBest {
		return Event{Kind: NoEvent}, nil
	}
	best := *p.objective.best
	if p.objective.Dir == dirMinimize {
		return s.SetMax(p.objective.X, best-1, p)
	}
	return s.SetMin(p.objective.X, best+1, p)
}
func (p *improvementPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
	return p.Propagate(s)
}
func (p *improvementPropagator) Check(tuple []int) bool {
	if !p.objective.haveBest {
		return true
	}
	if p.objective.Dir == dirMinimize {
		return tuple[0] < *p.objective.best
	}
	return tuple[0] > *p.objective.best
}
func (p *improvementPropagator) FindSupport(s *Solver, pos, value int) bool {
	return p.Check([]int{value})
}
func (p *improvementPropagator) FindBoundSupport(s *Solver, pos, value int) bool {
	return p.Check([]int{value})
}
func (p *improvementPropagator) Name() string { return "improvement" }

// EnumerationObjective counts (and optionally records) every solution,
// returning UNKNOWN until the tree is exhausted (spec §4.9).
type EnumerationObjective struct {
	Keep      bool
	Count     int
	Solutions [][]int
	scope     []*Variable
}

// NewEnumeration returns an objective that enumerates every solution over
// scope, recording each one if keep is true.
func NewEnumeration(scope []*Variable, keep bool) *EnumerationObjective {
	return &EnumerationObjective{Keep: keep, scope: scope}
}

func (o *EnumerationObjective) NotifySolution(s *Solver) Outcome {
	o.Count++
	if o.Keep {
		sol := make([]int, len(o.scope))
		for i, v := range o.scope {
			sol[i], _ = v.Value()
		}
		o.Solutions = append(o.Solutions, sol)
	}
	return OutcomeUNKNOWN
}
func (o *EnumerationObjective) NotifyExhausted(s *Solver) Outcome {
	if o.Count > 0 {
		return OutcomeOPT
	}
	return OutcomeUNSAT
}
func (o *EnumerationObjective) Reset() { o.Count = 0; o.Solutions = nil }
