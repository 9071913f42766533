package solver

// Trail is the reversible state machine described in spec §3/§4.2: a
// single monotonically growing stack per sub-kind, plus a header stack of
// (level, per-substack sizes). It generalizes the teacher's flat
// `trail []FDChange` + `snapshot()`/`undo()` pair (fd.go) into the five
// distinct sub-stacks spec §3 names, each with its own undo semantics, so
// that undo is mandatory and O(1) per mutated datum regardless of which
// sub-system produced it.
type Trail struct {
	headers []trailHeader

	domainStack     []domainUndo
	boolStack       []boolUndo
	intStack        []intUndo
	listStack       []listUndo
	constraintStack []func()
}

type trailHeader struct {
	domainSize     int
	boolSize       int
	intSize        int
	listSize       int
	constraintSize int
}

type domainUndo struct {
	v    *Variable
	prev Domain
}

type boolUndo struct {
	ref  *RevBool
	prev boolState
}

type intUndo struct {
	ref  *RevInt
	prev int
}

type listUndo struct {
	ref  *RevList
	prev []int
}

// NewTrail returns an empty trail at level 0.
func NewTrail() *Trail { return &Trail{} }

// Level returns the current decision level. The root is level 0 (spec
// §GLOSSARY). This equals len(headers), satisfying the testable property
// "the trail's header-stack size equals the current level".
func (t *Trail) Level() int { return len(t.headers) }

// Save pushes a new header recording each sub-stack's current size and
// increments the level (spec §4.2).
func (t *Trail) Save() {
	t.headers = append(t.headers, trailHeader{
		domainSize:     len(t.domainStack),
		boolSize:       len(t.boolStack),
		intSize:        len(t.intStack),
		listSize:       len(t.listStack),
		constraintSize: len(t.constraintStack),
	})
}

// Restore pops the most recent header and truncates every sub-stack back
// to its recorded size, invoking each record's undo in LIFO order (spec
// §4.2).
func (t *Trail) Restore() {
	if len(t.headers) == 0 {
		return
	}
	h := t.headers[len(t.headers)-1]
	t.headers = t.headers[:len(t.headers)-1]

	for i := len(t.domainStack) - 1; i >= h.domainSize; i-- {
		u := t.domainStack[i]
		u.v.domain = u.prev
		u.v.lastTouchedLevel = -1
		if !u.prev.IsGround() {
			u.v.groundAtLevel = -1
		}
	}
	t.domainStack = t.domainStack[:h.domainSize]

	for i := len(t.boolStack) - 1; i >= h.boolSize; i-- {
		u := t.boolStack[i]
		u.ref.state = u.prev
	}
	t.boolStack = t.boolStack[:h.boolSize]

	for i := len(t.intStack) - 1; i >= h.intSize; i-- {
		u := t.intStack[i]
		u.ref.value = u.prev
	}
	t.intStack = t.intStack[:h.intSize]

	for i := len(t.listStack) - 1; i >= h.listSize; i-- {
		u := t.listStack[i]
		u.ref.items = u.prev
	}
	t.listStack = t.listStack[:h.listSize]

	for i := len(t.constraintStack) - 1; i >= h.constraintSize; i-- {
		t.constraintStack[i]()
	}
	t.constraintStack = t.constraintStack[:h.constraintSize]
}

// RestoreTo repeats Restore until the current level equals level (spec
// §4.2 "restore(level L) repeats restore() until the current level equals
// L").
func (t *Trail) RestoreTo(level int) {
	for t.Level() > level {
		t.Restore()
	}
}

// Size returns the total number of undo records currently held across
// every sub-stack, used by Stats to track peak trail size.
func (t *Trail) Size() int {
	return len(t.domainStack) + len(t.boolStack) + len(t.intStack) + len(t.listStack) + len(t.constraintStack)
}

func (t *Trail) pushDomain(v *Variable, prev Domain) {
	t.domainStack = append(t.domainStack, domainUndo{v: v, prev: prev})
}

func (t *Trail) pushBool(ref *RevBool, prev boolState) {
	t.boolStack = append(t.boolStack, boolUndo{ref: ref, prev: prev})
}

func (t *Trail) pushInt(ref *RevInt, prev int) {
	t.intStack = append(t.intStack, intUndo{ref: ref, prev: prev})
}

func (t *Trail) pushList(ref *RevList, prev []int) {
	t.listStack = append(t.listStack, listUndo{ref: ref, prev: prev})
}

// PushConstraintUndo records an arbitrary undo closure against the
// constraint-state sub-stack, used by propagators that keep reversible
// scope-compaction state (spec §4.6 notify_assignment) or by the
// constraint graph's relax/restore (spec §4.3).
func (t *Trail) PushConstraintUndo(undo func()) {
	t.constraintStack = append(t.constraintStack, undo)
}

// RevBool is a reversible boolean-triplet cell, the trail's dedicated
// fast path for clause-base literal assignment (spec §3 "boolean-triplet
// snapshots"), distinct from the general variable-domain sub-stack so
// unit propagation inside the nogood engine doesn't pay for whole-Domain
// snapshots.
type RevBool struct {
	state          boolState
	lastTouchedLvl int
}

// NewRevBool returns an unconstrained reversible boolean cell.
func NewRevBool() *RevBool { return &RevBool{state: boolBoth, lastTouchedLvl: -1} }

func (b *RevBool) IsGround() bool { return b.state == boolFalse || b.state == boolTrue }
func (b *RevBool) Value() (bool, bool) {
	switch b.state {
	case boolTrue:
		return true, true
	case boolFalse:
		return false, true
	default:
		return false, false
	}
}

// AssignBool narrows the cell to a single truth value, failing if that
// contradicts the current state.
func (t *Trail) AssignBool(b *RevBool, value bool) bool {
	want := boolFalse
	if value {
		want = boolTrue
	}
	if b.state&want == 0 {
		return false
	}
	if b.state == want {
		return true
	}
	if b.lastTouchedLvl != t.Level() {
		t.pushBool(b, b.state)
		b.lastTouchedLvl = t.Level()
	}
	b.state = want
	return true
}

// RevInt is a reversible integer cell (spec §3 "reversible integers").
// Every Set call is trailed, even monotonic shrinking ones (spec §4.2:
// "undo is mandatory even for reversible integers that only shrink").
type RevInt struct {
	value          int
	lastTouchedLvl int
}

// NewRevInt returns a reversible integer cell initialized to v.
func NewRevInt(v int) *RevInt { return &RevInt{value: v, lastTouchedLvl: -1} }

func (r *RevInt) Get() int { return r.value }

// SetInt updates the cell's value, recording one undo entry per level.
func (t *Trail) SetInt(r *RevInt, v int) {
	if r.value == v {
		return
	}
	if r.lastTouchedLvl != t.Level() {
		t.pushInt(r, r.value)
		r.lastTouchedLvl = t.Level()
	}
	r.value = v
}

// RevList is a reversible list of ints, used by propagators that keep a
// reversible active-scope-positions list (spec §3 "reversible lists").
type RevList struct {
	items          []int
	lastTouchedLvl int
}

// NewRevList returns a reversible list initialized to a copy of items.
func NewRevList(items []int) *RevList {
	cp := append([]int(nil), items...)
	return &RevList{items: cp, lastTouchedLvl: -1}
}

func (r *RevList) Items() []int { return r.items }
func (r *RevList) Len() int     { return len(r.items) }

// SetList replaces the list's contents, recording one undo entry per level.
func (t *Trail) SetList(r *RevList, items []int) {
	if r.lastTouchedLvl != t.Level() {
		prev := append([]int(nil), r.items...)
		t.pushList(r, prev)
		r.lastTouchedLvl = t.Level()
	}
	r.items = items
}

// SwapRemove removes the item at position i by swapping it with the last
// element and shrinking the list by one -- the classic reversible-scope-
// compaction trick (spec §4.1 "allows reversible scope compression").
func (t *Trail) SwapRemove(r *RevList, i int) {
	items := append([]int(nil), r.items...)
	items[i] = items[len(items)-1]
	items = items[:len(items)-1]
	t.SetList(r, items)
}
