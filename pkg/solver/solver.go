package solver

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
)

// Parameters is the configuration-key surface spec §6 names. A zero field
// is used as it is, not replaced by a default (a zero Backjump turns
// nogood learning off, an empty RestartPolicy means no restarts);
// DefaultParameters returns a struct already populated with the
// documented defaults.
type Parameters struct {
	FindAll          bool  `mapstructure:"find_all"`
	NodeLimit        int64 `mapstructure:"node_limit"`
	BacktrackLimit   int64 `mapstructure:"backtrack_limit"`
	PropagationLimit int64 `mapstructure:"propagation_limit"`
	FailLimit        int64 `mapstructure:"fail_limit"`
	TimeLimitMillis  int64 `mapstructure:"time_limit"`
	Seed             int64 `mapstructure:"seed"`

	RestartPolicy string  `mapstructure:"restart_policy"` // "none" | "geometric" | "luby"
	RestartBase   int64   `mapstructure:"restart_base"`
	RestartFactor float64 `mapstructure:"restart_factor"`

	ActivityIncrement float64 `mapstructure:"activity_increment"`
	ActivityDecay     float64 `mapstructure:"activity_decay"`
	InitActivity      int     `mapstructure:"init_activity"` // 0 or 1

	Forgetfulness float64 `mapstructure:"forgetfulness"` // [0,1]
	Randomization int     `mapstructure:"randomization"`
	Shuffle       bool    `mapstructure:"shuffle"`
	Checked       int     `mapstructure:"checked"` // 0 or 1
	Backjump      int     `mapstructure:"backjump"` // 0 or 1

	VariableSelection string `mapstructure:"value_selection_variable"`
	ValueSelection    string `mapstructure:"value_selection"`
	DynamicValue      bool   `mapstructure:"dynamic_value"`
	Verbosity         int    `mapstructure:"verbosity"`
}

// DefaultParameters returns the documented defaults (spec §6). Its
// heuristic and restart fields name the same domain-over-activity/random
// heuristic and geometric restart that Solve, Minimize and Maximize use;
// those wrappers do not read these fields.
func DefaultParameters() Parameters {
	return Parameters{
		NodeLimit:         1 << 62,
		BacktrackLimit:    1 << 62,
		PropagationLimit:  1 << 62,
		FailLimit:         1 << 62,
		TimeLimitMillis:   0,
		Seed:              1,
		RestartPolicy:     "geometric",
		RestartBase:       100,
		RestartFactor:     1.5,
		ActivityIncrement: 1.0,
		ActivityDecay:     0.95,
		InitActivity:      0,
		Forgetfulness:     0.5,
		Checked:           1,
		Backjump:          1,
		VariableSelection: "domain-over-activity",
		ValueSelection:    "random",
	}
}

func (p Parameters) restartPolicy() RestartPolicy {
	switch p.RestartPolicy {
	case "luby":
		return NewLubyRestart(p.RestartBase)
	case "none", "":
		return NoRestart{}
	default:
		return NewGeometricRestart(p.RestartBase, p.RestartFactor)
	}
}

// Solver is the public entry point: it owns every variable, propagator,
// the trail, both event queues, the constraint graph, the heuristic, the
// restart policy, the clause base and the objective (spec §3
// "Ownership").
type Solver struct {
	vars        []*Variable
	propagators []Propagator

	graph    *Graph
	trail    *Trail
	varQueue *varEventQueue
	consQueue *constraintQueue
	taboo    Propagator

	sequence  []*Variable
	decisions []Decision
	rootLevel int

	objective      Objective
	clauseBase     *ClauseBase
	boolAssign     []assignmentRecord // boolean-literal assignment trail, for conflict analysis
	boolVarFor     map[int]*Variable  // clause-literal variable id -> backing FD variable
	boolLitForVar  map[int]int        // backing FD variable id -> clause-literal variable id
	conflictClause *Clause            // set by BoolClausePropagator on failure

	heuristic     *Heuristic
	restartPolicy RestartPolicy
	params        Parameters

	propagatorActivity map[Propagator]float64

	listeners *Listeners
	stats     *Stats
	logger    hclog.Logger
	rng       *rand.Rand

	searchStarted bool
	cancel        *atomic.Bool

	solutions [][]int
	wipedVar  int
	run       *searchRun
}

// New returns a Solver configured with params. A zero Parameters (use
// DefaultParameters() to get the documented convenience defaults) is
// legal and yields a solver with no resource limits. Solve, Minimize and
// Maximize always search with DefaultHeuristic(Seed) and a geometric
// restart policy (base 100, factor 1.5), whatever the RestartPolicy,
// VariableSelection and ValueSelection fields say.
func New(params Parameters) *Solver {
	s := &Solver{
		graph:              NewGraph(),
		trail:              NewTrail(),
		varQueue:           newVarEventQueue(),
		consQueue:          newConstraintQueue(),
		params:             params,
		propagatorActivity: make(map[Propagator]float64),
		listeners:          NewListeners(),
		stats:              NewStats(),
		logger:             hclog.NewNullLogger(),
		cancel:             &atomic.Bool{},
		wipedVar:           -1,
	}
	s.clauseBase = NewClauseBase(params.ActivityIncrement, params.ActivityDecay)
	s.boolVarFor = make(map[int]*Variable)
	s.boolLitForVar = make(map[int]int)
	s.restartPolicy = params.restartPolicy()
	h, err := NewHeuristic(orDefault(params.VariableSelection, "domain-over-activity"), orDefault(params.ValueSelection, "random"), params.Seed)
	if err != nil {
		h = DefaultHeuristic(params.Seed)
	}
	s.heuristic = h
	seed := params.Seed
	if seed == 0 {
		seed = 1
	}
	s.rng = rand.New(rand.NewSource(seed))
	s.objective = SatisfactionObjective{}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// SetLogger installs a structured logger; the zero-value solver logs
// nowhere (spec SPEC_FULL §6 [DOMAIN]).
func (s *Solver) SetLogger(l hclog.Logger) { s.logger = l }

// SetCancelFlag installs an externally-owned, write-once cancellation
// flag polled at the same points as the other resource limits (spec §5).
func (s *Solver) SetCancelFlag(flag *atomic.Bool) { s.cancel = flag }

// Stats exposes the read-only counter set (spec §4.12).
func (s *Solver) Stats() *Stats { return s.stats }

// Listeners exposes the listener registry so callers can subscribe (spec
// §6 "Listener plug-points").
func (s *Solver) Listeners() *Listeners { return s.listeners }

// Trail exposes the reversible trail, mainly for tests.
func (s *Solver) Trail() *Trail { return s.trail }

// Add declares a fresh variable with the given initial domain and returns
// it. Legal only before the first search starts: once any search has
// begun, including between its restarts and after it has ended, Add
// returns ErrSearchStarted.
func (s *Solver) Add(d Domain, name string) (*Variable, error) {
	if s.searchStarted {
		return nil, ErrSearchStarted
	}
	if d.Size() == 0 {
		return nil, ErrDomainEmpty
	}
	v := &Variable{id: len(s.vars), domain: d, lastTouchedLevel: -1, groundAtLevel: -1, name: name}
	if !d.IsGround() {
		v.groundAtLevel = -1
	} else {
		v.groundAtLevel = 0
	}
	s.vars = append(s.vars, v)
	s.sequence = append(s.sequence, v)
	s.listeners.fireVariable(VariableEvent{Var: v, Event: Event{Kind: NoEvent}})
	return v, nil
}

// AddView declares a virtual variable that forwards every read and
// mutation to target under the affine transform this = scale*target +
// offset (spec §3 "virtual: a view/expression that forwards to an
// underlying variable"). scale must be non-zero.
func (s *Solver) AddView(target *Variable, scale, offset int, name string) (*Variable, error) {
	if s.searchStarted {
		return nil, ErrSearchStarted
	}
	if scale == 0 {
		return nil, ErrInvalidArgument
	}
	v := &Variable{
		id:               len(s.vars),
		view:             &View{Target: target, Scale: scale, Offset: offset},
		lastTouchedLevel: -1,
		groundAtLevel:    -1,
		name:             name,
	}
	s.vars = append(s.vars, v)
	// views are resolved to their backing variable at consolidation (spec
	// §3): they are never themselves a branching point, so they are not
	// added to the search sequence -- the view becomes ground as soon as
	// its target does.
	return v, nil
}

// AddVars declares n fresh variables sharing the same initial domain
// shape (spec §6 "add(variable_array)"). Each Domain in doms is adopted
// as-is (callers typically build one per variable since domains are not
// shared).
func (s *Solver) AddVars(doms []Domain, namePrefix string) ([]*Variable, error) {
	out := make([]*Variable, len(doms))
	for i, d := range doms {
		v, err := s.Add(d, fmt.Sprintf("%s%d", namePrefix, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Suppress marks v as suppressed: withdrawn from the search sequence and
// from subsequent propagator posts, but its id remains valid (spec §6,
// §GLOSSARY "Suppressed variable"). Legal only before search has started,
// the same window as Add/AddPropagator, so the one-off shrink of the
// sequence slice is never visible across a restart or a later top-level
// search call.
func (s *Solver) Suppress(v *Variable) error {
	if s.searchStarted {
		return ErrSearchStarted
	}
	v.suppressed = true
	for i, sv := range s.sequence {
		if sv == v {
			s.sequence = append(s.sequence[:i], s.sequence[i+1:]...)
			break
		}
	}
	return nil
}

// AddPropagator adopts p, calling its Post hook to register incidences
// with the graph (spec §6 "add(propagator)").
func (s *Solver) AddPropagator(p Propagator) error {
	if s.searchStarted {
		return ErrSearchStarted
	}
	if result := p.Rewrite(s); result.Outcome == RewriteSuppressed {
		return nil
	} else if result.Outcome == RewriteReplaced {
		p = result.Replacement
	}
	if err := p.Post(s); err != nil {
		return err
	}
	s.propagators = append(s.propagators, p)
	if _, ok := s.propagatorActivity[p]; !ok {
		init := 0.0
		if s.params.InitActivity == 1 {
			init = s.params.ActivityIncrement
		}
		s.propagatorActivity[p] = init
	}
	s.listeners.fireConstraint(ConstraintEvent{Prop: p})
	return nil
}

// AddClause registers a permanent CNF clause over boolean variables and
// posts the BoolClausePropagator that actually enforces it (spec §6 DIMACS
// input path, also usable directly by model builders). Every literal's
// variable must already be registered via RegisterBoolVar.
func (s *Solver) AddClause(lits []Literal) {
	c := s.clauseBase.AddClause(lits)
	vars := make([]*Variable, len(lits))
	for i, lit := range lits {
		vars[i] = s.boolVarFor[lit.VarID()]
	}
	_ = s.AddPropagator(NewBoolClause(vars, c))
}

func (s *Solver) enqueueVarEvent(v *Variable, ev Event, source Propagator) {
	s.varQueue.push(v, ev, source)
	s.stats.observeQueueSize(s.varQueue.size())
	s.listeners.fireVariable(VariableEvent{Var: v, Event: ev})
}

func (s *Solver) notifyDomainUpgrade(v *Variable) {
	s.logger.Trace("domain upgraded to bitset", "var", v.Name())
}

func (s *Solver) bumpActivity(p Propagator) {
	s.propagatorActivity[p] += s.params.ActivityIncrement
}

func (s *Solver) decayActivity() {
	s.params.ActivityIncrement /= s.params.ActivityDecay
}

// VariableByID looks up a declared variable by its stable id (spec §3
// "stable integer identity"), e.g. for translating a DIMACS atom or a
// recorded solution slot back to its Variable. Returns ErrNoSuchVariable
// if id is out of range.
func (s *Solver) VariableByID(id int) (*Variable, error) {
	if id < 0 || id >= len(s.vars) {
		return nil, ErrNoSuchVariable
	}
	return s.vars[id], nil
}

// RegisterBoolVar associates a boolean clause-literal id (as produced by
// the DIMACS loader or a model builder) with its backing FD variable, so
// nogood learning can translate a learnt literal back into a Decision
// (spec §4.8).
func (s *Solver) RegisterBoolVar(litVarID int, v *Variable) {
	s.boolVarFor[litVarID] = v
	s.boolLitForVar[v.id] = litVarID
}

// recordBoolAssignment appends an entry to the boolean-literal assignment
// trail conflict analysis walks (spec §4.8). reason is nil for decision
// literals.
func (s *Solver) recordBoolAssignment(lit Literal, reason *Clause) {
	s.boolAssign = append(s.boolAssign, assignmentRecord{lit: lit, level: s.trail.Level(), reason: reason})
	s.trail.PushConstraintUndo(func() {
		if len(s.boolAssign) > 0 {
			s.boolAssign = s.boolAssign[:len(s.boolAssign)-1]
		}
	})
}
