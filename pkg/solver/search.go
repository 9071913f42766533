package solver

import "time"

// SearchPhase is one phase of a SequenceSearch: its own sub-sequence,
// heuristic, restart policy and objective (spec §4.7).
type SearchPhase struct {
	Sequence  []*Variable
	Heuristic *Heuristic
	Policy    RestartPolicy
	Objective Objective
}

// searchRun holds the mutable state of one in-progress
// depth_first_search/sequence_search run, so GetNextSolution can resume
// it after a solution was reported.
type searchRun struct {
	sequence  []*Variable
	heuristic *Heuristic
	policy    RestartPolicy
	objective Objective

	startedAt       time.Time
	failBudget      int64
	failsSinceReset int64

	atSolutionLeaf bool
}

// DepthFirstSearch starts (or restarts) search over sequence using
// heuristic and policy, ending at objective's verdict (spec §6
// "depth_first_search(sequence, heuristic, policy, goal)").
func (s *Solver) DepthFirstSearch(sequence []*Variable, heuristic *Heuristic, policy RestartPolicy, objective Objective) Outcome {
	s.rootLevel = s.trail.Level()
	s.searchStarted = true
	s.objective = objective
	run := &searchRun{
		sequence:   sequence,
		heuristic:  heuristic,
		policy:     policy,
		startedAt:  time.Now(),
		failBudget: policy.NextLimit(),
	}
	s.run = run
	return s.resumeLoop(false)
}

// SequenceSearch runs each phase in order, each as its own
// DepthFirstSearch starting from the state the previous phase left. It
// stops at the first phase whose verdict is neither SAT nor OPT and
// returns that verdict; a failing phase does not backtrack into the
// previous phase to try its other solutions. If every phase succeeds it
// returns the last phase's verdict.
func (s *Solver) SequenceSearch(phases []SearchPhase) Outcome {
	var last Outcome = OutcomeUNKNOWN
	for i := range phases {
		last = s.DepthFirstSearch(phases[i].Sequence, phases[i].Heuristic, phases[i].Policy, phases[i].Objective)
		if last != OutcomeSAT && last != OutcomeOPT {
			return last
		}
	}
	return last
}

// Solve is the satisfaction convenience wrapper: default heuristic
// (domain-over-activity / random), geometric restart, over every variable
// currently declared (spec §6 "solve()").
func (s *Solver) Solve() Outcome {
	return s.DepthFirstSearch(s.liveSequence(), DefaultHeuristic(s.params.Seed), NewGeometricRestart(100, 1.5), SatisfactionObjective{})
}

// Minimize is the minimisation convenience wrapper over x (spec §6
// "minimize(X)").
func (s *Solver) Minimize(x *Variable) Outcome {
	return s.DepthFirstSearch(s.liveSequence(), DefaultHeuristic(s.params.Seed), NewGeometricRestart(100, 1.5), NewMinimize(x))
}

// Maximize is the maximisation convenience wrapper over x (spec §6
// "maximize(X)").
func (s *Solver) Maximize(x *Variable) Outcome {
	return s.DepthFirstSearch(s.liveSequence(), DefaultHeuristic(s.params.Seed), NewGeometricRestart(100, 1.5), NewMaximize(x))
}

// GetNextSolution resumes an enumeration in progress, returning the next
// Outcome -- typically SAT/OPT repeatedly, then UNSAT once the tree is
// exhausted (spec §6 "get_next_solution()").
func (s *Solver) GetNextSolution() Outcome {
	if s.run == nil {
		return OutcomeUNKNOWN
	}
	return s.resumeLoop(true)
}

func (s *Solver) liveSequence() []*Variable {
	out := make([]*Variable, 0, len(s.sequence))
	out = append(out, s.sequence...)
	return out
}

// resumeLoop is chronological_dfs (spec §4.7), parameterised so
// GetNextSolution can re-enter it past a previously reported solution.
func (s *Solver) resumeLoop(resuming bool) Outcome {
	run := s.run

	if resuming && run.atSolutionLeaf {
		run.atSolutionLeaf = false
		if ok, exhausted := s.branchRight(); exhausted {
			return s.objective.NotifyExhausted(s)
		} else if !ok {
			return OutcomeLIMITOUT
		}
	}

	for {
		if s.cancel.Load() {
			return OutcomeLIMITOUT
		}
		if limit := s.checkLimits(run); limit {
			return OutcomeLIMITOUT
		}

		err := s.Propagate()
		if err == nil {
			s.stats.incNodes()
			if s.sequenceEmpty(run.sequence) {
				outcome := s.objective.NotifySolution(s)
				s.recordSolution(run.sequence)
				run.atSolutionLeaf = true
				if outcome != OutcomeUNKNOWN {
					return outcome
				}
				if ok, exhausted := s.branchRight(); exhausted {
					return s.objective.NotifyExhausted(s)
				} else if !ok {
					return OutcomeLIMITOUT
				}
				continue
			}
			if !s.branchLeft(run) {
				// sequence non-empty but heuristic found nothing to decide;
				// treat as a solution leaf.
				outcome := s.objective.NotifySolution(s)
				s.recordSolution(run.sequence)
				run.atSolutionLeaf = true
				if outcome != OutcomeUNKNOWN {
					return outcome
				}
				if ok, exhausted := s.branchRight(); exhausted {
					return s.objective.NotifyExhausted(s)
				} else if !ok {
					return OutcomeLIMITOUT
				}
			}
			continue
		}

		s.stats.incFailures()
		run.failsSinceReset++
		jumped := false
		if s.params.Backjump == 1 {
			jumped = s.learnNogood()
		}
		if !jumped && s.trail.Level() == s.rootLevel {
			return s.objective.NotifyExhausted(s)
		}
		if run.failsSinceReset >= run.failBudget {
			s.restartToRoot(run)
			continue
		}
		if jumped {
			// learnNogood already restored to its target level and asserted
			// the UIP literal; re-enter the loop at propagate() directly
			// instead of also inverting the top decision.
			continue
		}
		if ok, exhausted := s.branchRight(); exhausted {
			return s.objective.NotifyExhausted(s)
		} else if !ok {
			return OutcomeLIMITOUT
		}
	}
}

func (s *Solver) sequenceEmpty(sequence []*Variable) bool {
	for _, v := range sequence {
		if !v.IsGround() && !v.suppressed {
			return false
		}
	}
	return true
}

// branchLeft saves a choice point, asks the heuristic for a decision,
// pushes it on the decision stack and makes it (spec §4.7).
func (s *Solver) branchLeft(run *searchRun) bool {
	d, ok := run.heuristic.Decide(s, run.sequence)
	if !ok {
		return false
	}
	s.trail.Save()
	s.traceSave()
	s.decisions = append(s.decisions, d)
	if _, err := s.Make(d); err != nil {
		// an immediate failure here is discovered by the next Propagate()
		// call at the top of the loop, which reads the domain as already
		// empty; nothing further to do.
		_ = err
	}
	s.recordDecisionLiteral(d.Var, nil)
	s.listeners.fireDecision(DecisionEvent{Decision: d, Level: s.trail.Level()})
	return true
}

// recordDecisionLiteral appends an entry to the boolean-assignment trail
// when v is a registered clause-literal variable, so first-UIP conflict
// analysis (nogood.go) can see decision/branch_right-deduced literals,
// not only unit-propagated ones.
func (s *Solver) recordDecisionLiteral(v *Variable, reason *Clause) {
	litID, ok := s.boolLitForVar[v.id]
	if !ok || !v.IsGround() {
		return
	}
	val, _ := v.Value()
	s.recordBoolAssignment(NewLiteral(litID, val == 0), reason)
}

// branchRight pops the top decision, restores one level up (chronological
// backtracking; backjumps are done by learnNogood instead) and makes the
// inverted decision (spec §4.7). Returns exhausted=true (and ok=false)
// when there is nothing left to invert, otherwise ok=true.
func (s *Solver) branchRight() (ok bool, exhausted bool) {
	if len(s.decisions) == 0 {
		return false, true
	}
	last := s.decisions[len(s.decisions)-1]
	s.decisions = s.decisions[:len(s.decisions)-1]
	s.stats.incBacktracks()
	s.traceRestore(s.trail.Level() - 1)
	s.trail.RestoreTo(s.trail.Level() - 1)

	inv := last.Invert()
	if _, err := s.Make(inv); err != nil {
		// the inversion itself is already inconsistent; the next
		// Propagate() call discovers and reports it.
		_ = err
	}
	s.recordDecisionLiteral(inv.Var, nil)
	return true, false
}

func (s *Solver) restartToRoot(run *searchRun) {
	s.trail.RestoreTo(s.rootLevel)
	s.decisions = s.decisions[:0]
	s.clauseBase.Forget(s.params.Forgetfulness)
	s.stats.incRestarts()
	run.failsSinceReset = 0
	run.failBudget = run.policy.NextLimit()
	s.traceRestart(s.stats.Restarts(), run.failBudget)
	s.listeners.fireRestart(RestartEvent{Count: s.stats.Restarts()})
}

func (s *Solver) checkLimits(run *searchRun) bool {
	if s.params.NodeLimit > 0 && s.stats.Nodes() >= s.params.NodeLimit {
		return true
	}
	if s.params.BacktrackLimit > 0 && s.stats.Backtracks() >= s.params.BacktrackLimit {
		return true
	}
	if s.params.PropagationLimit > 0 && s.stats.Propagations() >= s.params.PropagationLimit {
		return true
	}
	if s.params.FailLimit > 0 && s.stats.Failures() >= s.params.FailLimit {
		return true
	}
	if s.params.TimeLimitMillis > 0 && time.Since(run.startedAt) >= time.Duration(s.params.TimeLimitMillis)*time.Millisecond {
		return true
	}
	return false
}

func (s *Solver) recordSolution(sequence []*Variable) {
	sol := make([]int, len(s.vars))
	for _, v := range s.vars {
		val, _ := v.Value()
		sol[v.id] = val
	}
	s.solutions = append(s.solutions, sol)
	values := make(map[int]int, len(s.vars))
	for _, v := range s.vars {
		if val, ok := v.Value(); ok {
			values[v.id] = val
		}
	}
	s.listeners.fireSolution(SolutionEvent{Values: values})
}

// Solutions returns every ground assignment recorded so far, indexed by
// variable id.
func (s *Solver) Solutions() [][]int { return s.solutions }

// learnNogood runs first-UIP conflict analysis when the failure came from
// the boolean clause subsystem (spec §4.8); for ordinary FD-propagator
// wipeouts there is no boolean implication graph to walk, so this is a
// no-op and branch_right falls back to plain chronological backtracking,
// which remains sound (just not backjumping).
// learnNogood returns true iff it performed a backjump, in which case the
// caller must re-enter propagate() directly rather than also running
// branch_right (spec §4.7: "when backjumping, derive a target level from
// the first-UIP analysis... restore(target), then make() the deduction"
// -- the backjump and the deduction are branch_right's job, already done
// here in one step).
func (s *Solver) learnNogood() bool {
	if s.conflictClause == nil {
		return false
	}
	conflict := s.conflictClause
	s.conflictClause = nil
	learnt, backjumpLevel := AnalyzeConflict(conflict, s.boolAssign, s.trail.Level())
	if len(learnt) == 0 {
		return false
	}
	c := s.clauseBase.Learn(learnt)
	s.stats.incLearntClauses()
	s.clauseBase.Bump(c)
	s.clauseBase.Decay()
	s.traceConflict(len(learnt), backjumpLevel)

	if backjumpLevel < s.rootLevel {
		backjumpLevel = s.rootLevel
	}
	if backjumpLevel >= s.trail.Level() {
		return false
	}
	s.trail.RestoreTo(backjumpLevel)
	for len(s.decisions) > backjumpLevel {
		s.decisions = s.decisions[:len(s.decisions)-1]
	}

	uip := learnt[0]
	v, ok := s.boolVarFor[uip.VarID()]
	if !ok {
		return false
	}
	value := 0
	if !uip.Negative() {
		value = 1
	}
	if _, err := s.SetValue(v, value, nil); err != nil {
		return false
	}
	s.recordBoolAssignment(uip, c)
	return true
}
