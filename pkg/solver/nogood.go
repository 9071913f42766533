package solver

// Literal is a DIMACS-style signed boolean literal: bit 0 carries the sign
// (1=positive, 0=negative) and the remaining bits carry the boolean
// variable's id (spec §4.10 / §7 dimacs encoding: positive literal `l` ->
// bit index (l-1)*2+1, negative `-l` -> (l-1)*2; reused here for the
// learnt clause base so nogoods and CNF clauses share one representation).
type Literal uint32

// NewLiteral builds a literal over boolean variable id, negated if neg.
func NewLiteral(id int, neg bool) Literal {
	l := Literal(id) << 1
	if !neg {
		l |= 1
	}
	return l
}

// Negative reports whether l is a negative literal.
func (l Literal) Negative() bool { return l&1 == 0 }

// VarID returns the boolean variable id the literal refers to.
func (l Literal) VarID() int { return int(l >> 1) }

// Negate returns the complementary literal.
func (l Literal) Negate() Literal { return l ^ 1 }

// Clause is a disjunction of literals kept alive by activity (spec §4.8).
type Clause struct {
	Literals []Literal
	Activity float64
	Learnt   bool
}

// ClauseBase stores the permanent CNF clauses plus the growing set of
// learnt nogoods, with VSIDS-style activity bumping, decay and periodic
// forgetting (spec §4.8 "clause database... activity bump/decay...
// forgetfulness parameter controls how aggressively learnt clauses are
// discarded").
type ClauseBase struct {
	Clauses    []*Clause
	Learnts    []*Clause
	bumpAmount float64
	decay      float64
}

// NewClauseBase returns an empty clause base with the given activity
// increment and decay factor (spec §6 activity_increment/activity_decay).
func NewClauseBase(increment, decay float64) *ClauseBase {
	if increment <= 0 {
		increment = 1.0
	}
	if decay <= 0 || decay >= 1 {
		decay = 0.95
	}
	return &ClauseBase{bumpAmount: increment, decay: decay}
}

// AddClause registers a permanent clause (e.g. one read from a DIMACS
// file).
func (cb *ClauseBase) AddClause(lits []Literal) *Clause {
	c := &Clause{Literals: lits}
	cb.Clauses = append(cb.Clauses, c)
	return c
}

// Learn registers a clause produced by first-UIP conflict analysis and
// bumps its activity (spec §4.8 "every learnt clause starts at the
// current activity increment").
func (cb *ClauseBase) Learn(lits []Literal) *Clause {
	c := &Clause{Literals: lits, Activity: cb.bumpAmount, Learnt: true}
	cb.Learnts = append(cb.Learnts, c)
	return c
}

// Bump increases c's activity and rescales the whole learnt set if any
// activity would overflow (spec §4.8 bump/decay, mirroring standard VSIDS
// clause-activity rescaling).
func (cb *ClauseBase) Bump(c *Clause) {
	c.Activity += cb.bumpAmount
	if c.Activity > 1e100 {
		for _, l := range cb.Learnts {
			l.Activity *= 1e-100
		}
		cb.bumpAmount *= 1e-100
	}
}

// Decay grows the activity increment by dividing it by the decay factor,
// making future bumps relatively larger (spec §6 activity_decay, applied
// once per conflict).
func (cb *ClauseBase) Decay() {
	cb.bumpAmount /= cb.decay
}

// Forget discards the lowest-activity fraction of learnt clauses, never
// touching permanent clauses (spec §6 "forgetfulness" parameter).
func (cb *ClauseBase) Forget(fraction float64) {
	if fraction <= 0 || len(cb.Learnts) == 0 {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	n := len(cb.Learnts)
	keep := n - int(float64(n)*fraction)
	if keep <= 0 {
		cb.Learnts = nil
		return
	}
	sorted := append([]*Clause(nil), cb.Learnts...)
	// simple selection of the `keep` highest-activity clauses
	for i := 0; i < keep; i++ {
		best := i
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Activity > sorted[best].Activity {
				best = j
			}
		}
		sorted[i], sorted[best] = sorted[best], sorted[i]
	}
	cb.Learnts = sorted[:keep]
}

// assignmentRecord records, for every boolean literal assigned during search,
// the decision level and the reason clause that forced it (nil reason
// means it was a decision literal). This is the data first-UIP conflict
// analysis walks backwards over (spec §4.8).
type assignmentRecord struct {
	lit    Literal
	level  int
	reason *Clause
}

// AnalyzeConflict performs first-UIP conflict analysis starting from the
// clause that is currently falsified (conflict), walking the trail of
// boolean assignments backwards until exactly one literal from the
// current decision level remains in the learnt clause (spec §4.8 "first
// unique implication point"). trail must be ordered oldest-first and
// contain every boolean assignment made since the root. It returns the
// learnt clause and the backjump level (the second-highest level among
// the clause's remaining literals, or 0 if only one literal remains).
func AnalyzeConflict(conflict *Clause, trail []assignmentRecord, currentLevel int) ([]Literal, int) {
	seen := make(map[int]bool)
	learnt := make([]Literal, 0, len(conflict.Literals))
	counter := 0
	idx := len(trail) - 1
	var pending Literal
	havePending := false

	processClause := func(lits []Literal, skip Literal, hasSkip bool) {
		for _, l := range lits {
			if hasSkip && l.VarID() == skip.VarID() {
				continue
			}
			if seen[l.VarID()] {
				continue
			}
			seen[l.VarID()] = true
			lvl := levelOf(trail, l.VarID())
			if lvl == currentLevel {
				counter++
			} else if lvl > 0 {
				learnt = append(learnt, l)
			}
		}
	}

	processClause(conflict.Literals, Literal(0), false)

	for counter > 0 && idx >= 0 {
		rec := trail[idx]
		idx--
		if !seen[rec.lit.VarID()] {
			continue
		}
		seen[rec.lit.VarID()] = false
		counter--
		if counter == 0 {
			pending = rec.lit.Negate()
			havePending = true
			break
		}
		if rec.reason != nil {
			processClause(rec.reason.Literals, rec.lit, true)
		}
	}

	if havePending {
		learnt = append([]Literal{pending}, learnt...)
	}

	backjump := 0
	for _, l := range learnt[1:] {
		if lvl := levelOf(trail, l.VarID()); lvl > backjump {
			backjump = lvl
		}
	}
	return learnt, backjump
}

func levelOf(trail []assignmentRecord, varID int) int {
	for _, rec := range trail {
		if rec.lit.VarID() == varID {
			return rec.level
		}
	}
	return 0
}
