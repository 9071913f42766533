package solver

// logging.go wires github.com/hashicorp/go-hclog behind the
// Solver.SetLogger seam (solver.go). Trace-level logs fire at the points
// the teacher's SolverMonitor instrumented with atomic counters --
// save/restore, propagator wake, conflict analysis and restart -- just
// expressed as structured log events instead of counters, since Stats
// already covers the counting side (spec SPEC_FULL §6 [DOMAIN], §4.12).

func (s *Solver) traceSave() {
	s.logger.Trace("trail save", "level", s.trail.Level())
}

func (s *Solver) traceRestore(to int) {
	s.logger.Trace("trail restore", "from", s.trail.Level(), "to", to)
}

func (s *Solver) traceWake(p Propagator, ev Event) {
	s.logger.Trace("propagator woken", "name", p.Name(), "event", ev.Kind.String())
}

func (s *Solver) traceConflict(learntSize int, backjumpLevel int) {
	s.logger.Trace("conflict analysed", "learnt_size", learntSize, "backjump_level", backjumpLevel)
}

func (s *Solver) traceRestart(count int64, nextBudget int64) {
	s.logger.Trace("restart", "count", count, "next_budget", nextBudget)
}
