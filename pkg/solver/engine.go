package solver

// Propagate drains both queues to a consistent fixpoint, or reports the
// wiped-out variable through the returned error (spec §4.5). It always
// leaves both queues empty and the taboo field nil on return (spec §7),
// and never crosses an error out of its inner iterations other than
// through the return value.
func (s *Solver) Propagate() error {
	if err := s.applyObjectiveBound(); err != nil {
		s.drainQueues()
		return err
	}

	for !s.varQueue.empty() || !s.consQueue.empty() {
		for !s.varQueue.empty() {
			ve, _ := s.varQueue.popFront()

			for _, inc := range s.graph.incidencesFor(ve.v.id, ve.event.Kind) {
				p := inc.prop
				if p == ve.source {
					continue
				}
				if ve.event.Kind == EventValue {
					p.NotifyAssignment(s, inc.pos)
				}
				if !p.Pushed() {
					continue
				}
				s.consQueue.push(p)
				s.stats.observeQueueSize(s.consQueue.size())
				if p.Postponed() {
					continue
				}
				if err := s.runPropagator(p, func() (Event, error) { return p.PropagateEvent(s, *ve) }); err != nil {
					s.drainQueues()
					return err
				}
			}
		}

		if s.varQueue.empty() && !s.consQueue.empty() {
			p, ok := s.consQueue.pop()
			if !ok {
				continue
			}
			if err := s.runPropagator(p, func() (Event, error) { return p.Propagate(s) }); err != nil {
				s.drainQueues()
				return err
			}
			s.listeners.fireSuccess(p)
		}
		s.stats.observeTrailSize(s.trail.Size())
	}

	s.drainQueues()
	return nil
}

func (s *Solver) runPropagator(p Propagator, run func() (Event, error)) error {
	s.taboo = p
	ev, err := run()
	s.taboo = nil
	s.stats.incPropagations()
	if err != nil {
		if wo, ok := err.(*WipeOut); ok {
			s.wipedVar = wo.VarID
			s.listeners.fireFailure(ConstraintEvent{Prop: p, WipedOut: true})
		}
		return err
	}
	if ev.Kind != NoEvent {
		s.bumpActivity(p)
		s.traceWake(p, ev)
	}
	return nil
}

// applyObjectiveBound runs the posted strict-improvement propagator, if
// any, once at the start of propagate() (spec §4.5 step 1: "If the
// objective enforces an upper bound, apply it").
func (s *Solver) applyObjectiveBound() error {
	opt, ok := s.objective.(*OptimizeObjective)
	if !ok || opt.improve == nil {
		return nil
	}
	return s.runPropagator(opt.improve, func() (Event, error) { return opt.improve.Propagate(s) })
}

func (s *Solver) drainQueues() {
	s.varQueue.clear()
	s.consQueue.clear()
	s.taboo = nil
}
