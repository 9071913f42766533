package solver

import "fmt"

// WipeOut is returned through the propagation engine's failure channel
// when a mutation empties a variable's domain (spec §4.5: "the solver
// stores the id of the wiped-out variable").
type WipeOut struct{ VarID int }

func (w *WipeOut) Error() string { return fmt.Sprintf("solver: domain wipe-out on variable %d", w.VarID) }

// Priority is a propagator's position in the constraint queue: higher
// priority propagators run first (spec §GLOSSARY).
type Priority int

const (
	// PriorityUnit is for cheap, unit-propagation-like propagators.
	PriorityUnit Priority = 0
	// PriorityDefault is the common case.
	PriorityDefault Priority = 1
	// PriorityGlobal is for expensive global constraints; runs first.
	PriorityGlobal Priority = 2
)

// RewriteOutcome tags what Rewrite did.
type RewriteOutcome int

const (
	// RewriteNoChange means the propagator keeps itself as-is.
	RewriteNoChange RewriteOutcome = iota
	// RewriteSuppressed means the propagator is now trivially satisfied
	// and should be relaxed from the graph.
	RewriteSuppressed
	// RewriteReplaced means the propagator should be replaced by
	// Replacement.
	RewriteReplaced
)

// RewriteResult is the result of a propagator's root-level self-
// simplification hook (spec §4.6 rewrite()).
type RewriteResult struct {
	Outcome     RewriteOutcome
	Replacement Propagator
}

// Propagator is the abstract contract every constraint implementation
// satisfies (spec §4.6). Binary/ternary/global "shapes" exist purely for
// scope storage and are provided as embeddable bases below; the contract
// itself never varies by shape.
type Propagator interface {
	// Post registers this propagator's incidences with the constraint
	// graph and allocates any reversible state it needs. Called exactly
	// once, by Solver.AddPropagator.
	Post(s *Solver) error

	// Propagate runs a batched fixpoint pass over the propagator's full
	// scope, returning the strongest event it produced (or NoEvent), or a
	// *WipeOut if it proved the scope inconsistent.
	Propagate(s *Solver) (Event, error)

	// PropagateEvent runs an eager pass triggered by a single incoming
	// event, for propagators that are Pushed and not Postponed (spec
	// §4.5). The embeddable bases give no default for it (see the note at
	// the end of this file); concrete propagators usually delegate to
	// Propagate.
	PropagateEvent(s *Solver, ev varEvent) (Event, error)

	// NotifyAssignment is called when scope position pos becomes ground,
	// ahead of a Propagate/PropagateEvent call, so the propagator may
	// compact a reversible scope (spec §4.6).
	NotifyAssignment(s *Solver, pos int)

	// Check is the ground-check used by the solution checker (spec
	// §4.11): tuple holds one value per scope position, in scope order.
	Check(tuple []int) bool

	// FindSupport reports whether some ground extension of the current
	// domains, with position pos fixed to value, satisfies the
	// constraint; used by checker-propagate mode.
	FindSupport(s *Solver, pos, value int) bool

	// FindBoundSupport is the bounds-only relaxation of FindSupport, used
	// by bound-checker-propagate mode (spec §4.5, §9).
	FindBoundSupport(s *Solver, pos, value int) bool

	// Rewrite may replace this propagator with a simpler one at the root
	// (spec §4.6); called once before the first Save().
	Rewrite(s *Solver) RewriteResult

	// Scope returns the propagator's ordered variable scope.
	Scope() []*Variable

	// Priority reports this propagator's constraint-queue priority.
	Priority() Priority

	// Pushed reports whether this propagator should be enqueued in the
	// constraint queue when one of its scope variables changes.
	Pushed() bool

	// Postponed reports whether queued work should wait for the
	// constraint queue (batched) rather than also running eagerly inline.
	Postponed() bool

	// Triggers reports which event kind at scope position pos wakes this
	// propagator.
	Triggers(pos int) EventKind

	// Name returns a short, human-readable label for diagnostics.
	Name() string
}

// BasePropagator supplies sensible defaults for every Propagator method
// that concrete propagators rarely need to specialize (Priority, Pushed,
// Postponed, Name, NotifyAssignment, Rewrite, Triggers). A new propagator
// still implements Propagate, PropagateEvent, Check, FindSupport and
// FindBoundSupport itself, and gets Scope from one of the shape bases
// below (spec §4.6: "specialisations exist purely for storage-size
// optimisation; the contract is identical").
type BasePropagator struct {
	PriorityValue  Priority
	PushedValue    bool
	PostponedValue bool
	NameValue      string
}

func (b *BasePropagator) Priority() Priority { return b.PriorityValue }
func (b *BasePropagator) Pushed() bool       { return b.PushedValue }
func (b *BasePropagator) Postponed() bool    { return b.PostponedValue }
func (b *BasePropagator) Name() string {
	if b.NameValue == "" {
		return "propagator"
	}
	return b.NameValue
}
func (b *BasePropagator) NotifyAssignment(s *Solver, pos int) {}
func (b *BasePropagator) Rewrite(s *Solver) RewriteResult     { return RewriteResult{Outcome: RewriteNoChange} }
func (b *BasePropagator) Triggers(pos int) EventKind          { return EventDomain }

// BinaryBase stores a fixed 2-variable scope (spec §4.6 "binary shape").
type BinaryBase struct {
	BasePropagator
	X, Y *Variable
}

func (b *BinaryBase) Scope() []*Variable { return []*Variable{b.X, b.Y} }

// TernaryBase stores a fixed 3-variable scope (spec §4.6 "ternary shape").
type TernaryBase struct {
	BasePropagator
	X, Y, Z *Variable
}

func (b *TernaryBase) Scope() []*Variable { return []*Variable{b.X, b.Y, b.Z} }

// GlobalBase stores an arbitrary-arity scope (spec §4.6 "global shape").
type GlobalBase struct {
	BasePropagator
	Vars []*Variable
}

func (b *GlobalBase) Scope() []*Variable { return b.Vars }

// Note: PropagateEvent has no default on the embeddable bases above,
// because Go embedding cannot recover the outer concrete type's
// Propagate override from a pointer to the embedded base. Concrete
// propagators implement it directly, almost always as:
//
//	func (p *MyPropagator) PropagateEvent(s *Solver, ev varEvent) (Event, error) {
//		return p.Propagate(s)
//	}
