package solver

// varEventQueue is the ordered, at-most-once-per-variable event queue
// (spec §4.4): "a variable appears at most once; repeated events OR their
// kind and keep the strongest event, preserving the triggering propagator
// only for the first event. Drained in insertion order."
type varEventQueue struct {
	order  []int // variable ids, insertion order
	member map[int]*varEvent
}

func newVarEventQueue() *varEventQueue {
	return &varEventQueue{member: make(map[int]*varEvent)}
}

func (q *varEventQueue) empty() bool { return len(q.order) == 0 }

// push enqueues (v, ev, source). If v is already queued, ev is merged
// into the existing entry and the original source is preserved (spec
// §4.4).
func (q *varEventQueue) push(v *Variable, ev Event, source Propagator) {
	if existing, ok := q.member[v.id]; ok {
		existing.event = existing.event.merge(ev)
		return
	}
	ve := &varEvent{v: v, event: ev, source: source}
	q.member[v.id] = ve
	q.order = append(q.order, v.id)
}

// popFront removes and returns the oldest queued variable event.
func (q *varEventQueue) popFront() (*varEvent, bool) {
	if len(q.order) == 0 {
		return nil, false
	}
	vid := q.order[0]
	q.order = q.order[1:]
	ve := q.member[vid]
	delete(q.member, vid)
	return ve, true
}

func (q *varEventQueue) clear() {
	q.order = q.order[:0]
	for k := range q.member {
		delete(q.member, k)
	}
}

func (q *varEventQueue) size() int { return len(q.order) }

// constraintQueue holds one FIFO per priority level (spec §4.4: "one FIFO
// per priority level, plus a bitset membership test to enforce at-most-
// once-per-fixpoint and a higher_priority cursor"). Priorities run from
// PriorityGlobal (2, highest) down to PriorityUnit (0).
type constraintQueue struct {
	fifos    [3][]Propagator
	member   map[Propagator]bool
	cursor   int // no bucket above it is non-empty; -1 once pop finds all empty
}

func newConstraintQueue() *constraintQueue {
	return &constraintQueue{member: make(map[Propagator]bool), cursor: -1}
}

func (q *constraintQueue) empty() bool { return q.cursor < 0 }

// push enqueues p at its own priority unless it is already queued this
// fixpoint (spec §4.4 "at-most-once-per-fixpoint").
func (q *constraintQueue) push(p Propagator) {
	if q.member[p] {
		return
	}
	q.member[p] = true
	pr := int(p.Priority())
	q.fifos[pr] = append(q.fifos[pr], p)
	if pr > q.cursor {
		q.cursor = pr
	}
}

// pop removes and returns the propagator at the front of the highest
// non-empty priority bucket, ties broken in insertion order (spec §4.4).
func (q *constraintQueue) pop() (Propagator, bool) {
	for q.cursor >= 0 {
		bucket := q.fifos[q.cursor]
		if len(bucket) == 0 {
			q.cursor--
			continue
		}
		p := bucket[0]
		q.fifos[q.cursor] = bucket[1:]
		delete(q.member, p)
		return p, true
	}
	return nil, false
}

func (q *constraintQueue) clear() {
	for i := range q.fifos {
		q.fifos[i] = q.fifos[i][:0]
	}
	for k := range q.member {
		delete(q.member, k)
	}
	q.cursor = -1
}

func (q *constraintQueue) size() int {
	n := 0
	for i := range q.fifos {
		n += len(q.fifos[i])
	}
	return n
}
