package solver

// CheckSolution is the ground-check solution checker (spec §4.11): every
// posted propagator's Check is called with the ground tuple of its scope,
// in scope order. Returns false (with the failing propagator) at the
// first violation found.
func (s *Solver) CheckSolution() (bool, Propagator) {
	for _, p := range s.propagators {
		tuple := make([]int, len(p.Scope()))
		for i, v := range p.Scope() {
			val, ok := v.Value()
			if !ok {
				return false, p
			}
			tuple[i] = val
		}
		if !p.Check(tuple) {
			return false, p
		}
	}
	return true, nil
}

// CheckBounds is the bound-checker relaxation of CheckSolution (spec
// §4.11, §9 design note): instead of requiring every scope variable to be
// ground, it asks each propagator whether some ground extension of the
// current (possibly non-singleton) domains is consistent, via
// FindBoundSupport at each scope position's current bounds. This is
// strictly stronger than "is a solution" in the usual sense -- it can
// pass on a partial assignment that merely admits a consistent
// completion -- and that relaxed meaning is preserved deliberately rather
// than tightened, per the design note carried over from the source.
func (s *Solver) CheckBounds() (bool, Propagator) {
	for _, p := range s.propagators {
		for pos, v := range p.Scope() {
			if !p.FindBoundSupport(s, pos, v.Min()) && !p.FindBoundSupport(s, pos, v.Max()) {
				return false, p
			}
		}
	}
	return true, nil
}
