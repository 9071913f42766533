package solver

import (
	"math/rand"
	"sort"
)

// VariableSelector picks the next unassigned variable to branch on from
// sequence, returning nil if every variable is already ground (spec §4.7,
// §6 "heuristic"). Grounded on the teacher's LabelingStrategy interface
// (labeling.go), generalized from *FDStore-specific signatures to a plain
// variable slice so it composes with any search controller.
type VariableSelector interface {
	Select(s *Solver, sequence []*Variable) *Variable
	Name() string
}

// ValueSelector orders the values of a chosen variable's domain into the
// sequence branch-left will try (spec §6 "value_selection").
type ValueSelector interface {
	Values(s *Solver, v *Variable) []int
	Name() string
}

// Heuristic composes a variable selector and a value selector (spec §9:
// "a composed object holding two trait objects... and a configurable
// tie-breaking/randomisation level", replacing the source's template
// factory).
type Heuristic struct {
	VarSel VariableSelector
	ValSel ValueSelector
}

// Decide asks the heuristic for the next branching decision. Returns
// ok=false when sequence is exhausted (spec §4.7 branch_left step 2).
func (h *Heuristic) Decide(s *Solver, sequence []*Variable) (Decision, bool) {
	v := h.VarSel.Select(s, sequence)
	if v == nil {
		return Decision{}, false
	}
	values := h.ValSel.Values(s, v)
	if len(values) == 0 {
		return Decision{}, false
	}
	return Decision{Var: v, Op: OpAssign, Value: values[0]}, true
}

func unboundDegree(s *Solver, v *Variable) int {
	n := 0
	for _, inc := range s.graph.incidencesFor(v.id, EventDomain) {
		_ = inc
		n++
	}
	return n
}

// firstFailSelector selects the variable with the smallest domain-size to
// degree+1 ratio, the classic dom/deg static counterpart of spec §6's
// default "domain-over-activity"; it is chosen by name ("first-fail")
// only.
type firstFailSelector struct{}

func (firstFailSelector) Name() string { return "first-fail" }
func (firstFailSelector) Select(s *Solver, sequence []*Variable) *Variable {
	var best *Variable
	bestScore := -1.0
	for _, v := range sequence {
		if v.IsGround() || v.suppressed {
			continue
		}
		deg := unboundDegree(s, v)
		score := float64(v.Size()) / float64(1+deg)
		if best == nil || score < bestScore {
			bestScore = score
			best = v
		}
	}
	return best
}

// domainSizeSelector selects the variable with the smallest domain.
type domainSizeSelector struct{}

func (domainSizeSelector) Name() string { return "domain-size" }
func (domainSizeSelector) Select(s *Solver, sequence []*Variable) *Variable {
	var best *Variable
	for _, v := range sequence {
		if v.IsGround() || v.suppressed {
			continue
		}
		if best == nil || v.Size() < best.Size() {
			best = v
		}
	}
	return best
}

// lexicographicSelector selects the first unbound variable in sequence
// order.
type lexicographicSelector struct{}

func (lexicographicSelector) Name() string { return "lexicographic" }
func (lexicographicSelector) Select(s *Solver, sequence []*Variable) *Variable {
	for _, v := range sequence {
		if !v.IsGround() && !v.suppressed {
			return v
		}
	}
	return nil
}

// weightedDegreeSelector selects the variable with the smallest
// domain-size / (1+weighted-degree) ratio, where weighted degree sums the
// activity of incident propagators, bumped each time a propagator narrows
// a domain (spec §6's "domain-over-
// activity" default, the dynamic variant of first-fail driven by
// Solver.bumpActivity during search).
type weightedDegreeSelector struct{}

func (weightedDegreeSelector) Name() string { return "domain-over-activity" }
func (weightedDegreeSelector) Select(s *Solver, sequence []*Variable) *Variable {
	var best *Variable
	bestScore := -1.0
	for _, v := range sequence {
		if v.IsGround() || v.suppressed {
			continue
		}
		w := 1.0
		for _, inc := range s.graph.incidencesFor(v.id, EventDomain) {
			w += s.propagatorActivity[inc.prop]
		}
		score := float64(v.Size()) / w
		if best == nil || score < bestScore {
			bestScore = score
			best = v
		}
	}
	return best
}

// randomVariableSelector picks uniformly among unbound variables.
type randomVariableSelector struct{ rng *rand.Rand }

func (randomVariableSelector) Name() string { return "random" }
func (s2 randomVariableSelector) Select(s *Solver, sequence []*Variable) *Variable {
	var candidates []*Variable
	for _, v := range sequence {
		if !v.IsGround() && !v.suppressed {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[s2.rng.Intn(len(candidates))]
}

// ascValueSelector orders a domain's values ascending (spec's default
// "min" value selection).
type ascValueSelector struct{}

func (ascValueSelector) Name() string { return "min" }
func (ascValueSelector) Values(s *Solver, v *Variable) []int {
	return sortedValues(v, false)
}

// descValueSelector orders a domain's values descending ("max" value
// selection).
type descValueSelector struct{}

func (descValueSelector) Name() string { return "max" }
func (descValueSelector) Values(s *Solver, v *Variable) []int {
	return sortedValues(v, true)
}

// randomValueSelector shuffles the domain's values (spec "random
// min-max value selection" is approximated by shuffling and trying the
// first value, matching the default heuristic in spec §6).
type randomValueSelector struct{ rng *rand.Rand }

func (randomValueSelector) Name() string { return "random" }
func (vs randomValueSelector) Values(s *Solver, v *Variable) []int {
	vals := sortedValues(v, false)
	vs.rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	return vals
}

func sortedValues(v *Variable, desc bool) []int {
	d := v.Domain()
	out := make([]int, 0, d.Size())
	val := d.Min() - 1
	for {
		next, ok := d.Next(val)
		if !ok {
			break
		}
		out = append(out, next)
		val = next
	}
	if desc {
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
	}
	return out
}

// variableSelectors and valueSelectors are the small string-keyed registry spec §9 calls for
// in place of the source's giant template factory.
var variableSelectors = map[string]func(seed int64) VariableSelector{
	"first-fail":          func(int64) VariableSelector { return firstFailSelector{} },
	"domain-size":         func(int64) VariableSelector { return domainSizeSelector{} },
	"lexicographic":       func(int64) VariableSelector { return lexicographicSelector{} },
	"domain-over-activity": func(int64) VariableSelector { return weightedDegreeSelector{} },
	"random": func(seed int64) VariableSelector {
		return randomVariableSelector{rng: rand.New(rand.NewSource(seed))}
	},
}

var valueSelectors = map[string]func(seed int64) ValueSelector{
	"min": func(int64) ValueSelector { return ascValueSelector{} },
	"max": func(int64) ValueSelector { return descValueSelector{} },
	"random": func(seed int64) ValueSelector {
		return randomValueSelector{rng: rand.New(rand.NewSource(seed))}
	},
}

// NewHeuristic looks up varName/valName in the registry (spec §9: "a
// small registry keyed by string pairs"), returning ErrUnknownHeuristic
// if either name is absent.
func NewHeuristic(varName, valName string, seed int64) (*Heuristic, error) {
	vf, ok := variableSelectors[varName]
	if !ok {
		return nil, ErrUnknownHeuristic
	}
	vlf, ok := valueSelectors[valName]
	if !ok {
		return nil, ErrUnknownHeuristic
	}
	return &Heuristic{VarSel: vf(seed), ValSel: vlf(seed)}, nil
}

// DefaultHeuristic returns the solve()/minimize()/maximize() convenience
// default spec §6 names: "domain-over-activity with random min-max value
// selection".
func DefaultHeuristic(seed int64) *Heuristic {
	h, _ := NewHeuristic("domain-over-activity", "random", seed)
	return h
}
