package solver

import "fmt"

// DomainFlags controls the upgrade logic for a variable's domain
// representation (spec §3 "domain-type flags").
type DomainFlags struct {
	// Removable allows a RangeDomain to be promoted to a BitsetDomain when
	// a non-convex removal is requested.
	Removable bool
	// RangeOnly forbids the promotion: a non-convex removal against such a
	// variable is a programming error, not an automatic upgrade.
	RangeOnly bool
}

// View makes a Variable forward to a canonical backing variable under an
// affine transform this = Scale*Target + Offset (spec §3 "virtual: a
// view/expression that forwards to an underlying variable"). Views are
// resolved to their backing variable at consolidation (spec §3
// lifecycle); Scale must be non-zero.
type View struct {
	Target *Variable
	Scale  int
	Offset int
}

func (vw *View) toTarget(v int) int {
	// v = Scale*t + Offset  =>  t = (v-Offset)/Scale
	return (v - vw.Offset) / vw.Scale
}
func (vw *View) fromTarget(t int) int {
	return vw.Scale*t + vw.Offset
}

// Variable owns a finite integer domain and carries a stable integer
// identity assigned at declaration (spec §3). Mutators are reversible:
// every mutation that changes the domain records exactly one undo entry
// per (variable, level) pair (spec §4.2 invariant) and returns the
// strongest Event kind that changed, or NoEvent if the domain was already
// tight.
type Variable struct {
	id     int
	domain Domain
	flags  DomainFlags
	view   *View // non-nil iff this variable is an unresolved view

	// lastTouchedLevel is the level at which this variable's domain sub-
	// stack entry was last written; used to collapse repeated mutations at
	// the same level into the single undo record the trail invariant
	// requires.
	lastTouchedLevel int
	groundAtLevel    int // level at which the variable became ground, -1 if not ground
	suppressed       bool
	name             string
}

// ID returns the variable's stable integer identity.
func (v *Variable) ID() int { return v.id }

// Name returns a human-readable label, defaulting to "v<id>".
func (v *Variable) Name() string {
	if v.name != "" {
		return v.name
	}
	return fmt.Sprintf("v%d", v.id)
}

// SetName assigns a human-readable label, for diagnostics and DIMACS
// round-tripping.
func (v *Variable) SetName(name string) { v.name = name }

// Domain returns the variable's current domain. If the variable is an
// unresolved view, the domain is read through the affine transform.
func (v *Variable) Domain() Domain {
	if v.view != nil {
		return &viewDomain{v: v.view}
	}
	return v.domain
}

func (v *Variable) Min() int            { return v.Domain().Min() }
func (v *Variable) Max() int            { return v.Domain().Max() }
func (v *Variable) Size() int           { return v.Domain().Size() }
func (v *Variable) Contains(x int) bool { return v.Domain().Contains(x) }

// IsGround reports whether the domain is a singleton (spec §3 invariant).
func (v *Variable) IsGround() bool { return v.Domain().IsGround() }

// Value returns the singleton value and true iff the variable is ground.
func (v *Variable) Value() (int, bool) {
	if !v.IsGround() {
		return 0, false
	}
	return v.Domain().Min(), true
}

// Suppressed reports whether Solver.Suppress withdrew this variable from
// the search sequence (spec §6); its id remains valid.
func (v *Variable) Suppressed() bool { return v.suppressed }

// viewDomain adapts a View to the read-only Domain contract by mapping
// every query through the affine transform.
type viewDomain struct{ v *View }

func (d *viewDomain) Kind() Kind { return d.v.Target.Domain().Kind() }
func (d *viewDomain) Size() int  { return d.v.Target.Domain().Size() }
func (d *viewDomain) Min() int {
	a, b := d.v.fromTarget(d.v.Target.Min()), d.v.fromTarget(d.v.Target.Max())
	if a > b {
		a, b = b, a
	}
	return a
}
func (d *viewDomain) Max() int {
	a, b := d.v.fromTarget(d.v.Target.Min()), d.v.fromTarget(d.v.Target.Max())
	if a > b {
		a, b = b, a
	}
	return b
}
func (d *viewDomain) IsGround() bool { return d.v.Target.IsGround() }
func (d *viewDomain) IsRange() bool  { return d.v.Target.Domain().IsRange() }
func (d *viewDomain) Contains(x int) bool {
	if (x-d.v.Offset)%d.v.Scale != 0 {
		return false
	}
	return d.v.Target.Contains(d.v.toTarget(x))
}
func (d *viewDomain) Next(x int) (int, bool) {
	t, ok := d.v.Target.Domain().Next(d.v.toTarget(x))
	if !ok {
		return 0, false
	}
	return d.v.fromTarget(t), true
}
func (d *viewDomain) String() string { return d.v.Target.Domain().String() }
func (d *viewDomain) remove(v int) (Domain, bool)             { panic("viewDomain is read-only") }
func (d *viewDomain) removeInterval(lo, hi int) (Domain, bool) { panic("viewDomain is read-only") }
func (d *viewDomain) setMin(lo int) (Domain, bool)             { panic("viewDomain is read-only") }
func (d *viewDomain) setMax(hi int) (Domain, bool)             { panic("viewDomain is read-only") }

// boundEvent derives the strongest EventKind plus bound flags produced by
// going from `before` to `after` (spec §4.1 step 1).
func boundEvent(before, after Domain) Event {
	if before.Size() == after.Size() {
		return Event{Kind: NoEvent}
	}
	if after.IsGround() {
		return Event{Kind: EventValue, Bounds: BoundMin | BoundMax}
	}
	var bf BoundFlags
	if before.Min() != after.Min() {
		bf |= BoundMin
	}
	if before.Max() != after.Max() {
		bf |= BoundMax
	}
	if bf != 0 {
		return Event{Kind: EventRange, Bounds: bf}
	}
	return Event{Kind: EventDomain}
}

// mutate is the shared reversible-mutation path used by every public
// mutator below. It applies op to the variable's current domain (or, for
// a view, to its target under the affine transform), records at most one
// trail entry per (variable, level), and enqueues the resulting event.
// source is the propagator performing the mutation, or nil for a
// decision (spec §4.1 step 3).
func (s *Solver) mutate(v *Variable, source Propagator, op func(Domain) (Domain, bool)) (Event, error) {
	if v.view != nil {
		// v is an unresolved view: op is expressed in terms of v's own
		// (view-space) domain, but there is no real Domain backing v to
		// apply it to -- the caller (Remove/RemoveInterval/SetMin/SetMax/
		// SetValue below) is responsible for translating through the
		// affine transform and recursing on v.view.Target directly, never
		// through here.
		panic("solver: mutate called directly on a view; use the translating public mutators")
	}
	before := v.domain
	after, ok := op(before)
	ev := boundEvent(before, after)
	if ev.Kind == NoEvent {
		return ev, nil
	}
	if v.lastTouchedLevel != s.trail.Level() {
		s.trail.pushDomain(v, before)
		v.lastTouchedLevel = s.trail.Level()
	}
	v.domain = after
	if !ok {
		return ev, &WipeOut{VarID: v.id}
	}
	if after.IsGround() {
		v.groundAtLevel = s.trail.Level()
	}
	s.enqueueVarEvent(v, ev, source)
	return ev, nil
}

// Remove deletes value from v's domain. If v's domain is a RangeDomain and
// the removal is non-convex, and v.flags.Removable is set, the domain is
// first upgraded to a BitsetDomain (spec §4.1 "upgrade rule").
func (s *Solver) Remove(v *Variable, value int, source Propagator) (Event, error) {
	if v.view != nil {
		t := v.view.toTarget(value)
		if v.view.fromTarget(t) != value {
			return Event{Kind: NoEvent}, nil // value isn't on the view's lattice; already absent
		}
		return s.Remove(v.view.Target, t, source)
	}
	return s.mutate(v, source, func(d Domain) (Domain, bool) {
		if rd, isRange := d.(*RangeDomain); isRange && rd.nonConvexRemoval(value) {
			if !v.flags.Removable {
				if v.flags.RangeOnly {
					return d, true // rejected: caller's responsibility to avoid this
				}
			}
			bs := rd.toBitset()
			s.notifyDomainUpgrade(v)
			return bs.remove(value)
		}
		return d.remove(value)
	})
}

// RemoveInterval deletes every value in [lo,hi] from v's domain.
func (s *Solver) RemoveInterval(v *Variable, lo, hi int, source Propagator) (Event, error) {
	if v.view != nil {
		loT, hiT := v.view.toTarget(lo), v.view.toTarget(hi)
		if loT > hiT {
			loT, hiT = hiT, loT
		}
		return s.RemoveInterval(v.view.Target, loT, hiT, source)
	}
	return s.mutate(v, source, func(d Domain) (Domain, bool) {
		if rd, isRange := d.(*RangeDomain); isRange {
			innerLo, innerHi := max(lo, rd.lo+1), min(hi, rd.hi-1)
			nonConvex := innerLo <= innerHi && !(lo <= rd.lo && hi >= rd.hi)
			if nonConvex && v.flags.Removable {
				bs := rd.toBitset()
				s.notifyDomainUpgrade(v)
				return bs.removeInterval(lo, hi)
			}
		}
		return d.removeInterval(lo, hi)
	})
}

// SetMin raises v's domain lower bound to value. For a view with a
// negative Scale, raising the view's minimum lowers the target's maximum,
// so the call is translated to the corresponding target-space bound.
func (s *Solver) SetMin(v *Variable, value int, source Propagator) (Event, error) {
	if v.view != nil {
		t := v.view.toTarget(value)
		if v.view.Scale < 0 {
			return s.SetMax(v.view.Target, t, source)
		}
		return s.SetMin(v.view.Target, t, source)
	}
	return s.mutate(v, source, func(d Domain) (Domain, bool) { return d.setMin(value) })
}

// SetMax lowers v's domain upper bound to value, translated through the
// view's affine transform as described on SetMin.
func (s *Solver) SetMax(v *Variable, value int, source Propagator) (Event, error) {
	if v.view != nil {
		t := v.view.toTarget(value)
		if v.view.Scale < 0 {
			return s.SetMin(v.view.Target, t, source)
		}
		return s.SetMax(v.view.Target, t, source)
	}
	return s.mutate(v, source, func(d Domain) (Domain, bool) { return d.setMax(value) })
}

// SetValue assigns v to the singleton {value}.
func (s *Solver) SetValue(v *Variable, value int, source Propagator) (Event, error) {
	if v.view != nil {
		t := v.view.toTarget(value)
		if v.view.fromTarget(t) != value {
			return Event{Kind: NoEvent}, &WipeOut{VarID: v.id}
		}
		return s.SetValue(v.view.Target, t, source)
	}
	return s.mutate(v, source, func(d Domain) (Domain, bool) {
		if !d.Contains(value) {
			return d, false
		}
		nd, ok := d.setMin(value)
		if !ok {
			return nd, false
		}
		return nd.setMax(value)
	})
}

// IntersectWith narrows v's domain to its intersection with other. Not
// meaningful on a view (other would need translating element-by-element
// through the affine transform); callers needing that should intersect
// against the view's target directly.
func (s *Solver) IntersectWith(v *Variable, other Domain, source Propagator) (Event, error) {
	return s.mutate(v, source, func(d Domain) (Domain, bool) { return intersectDomains(d, other) })
}
