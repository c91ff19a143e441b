// Package live plays a single match minute by minute for a side controlled from
// the bench. The engine never blocks: Tick advances the clock and stops whenever
// the bench has to decide something, and Resolve supplies that decision.
package live

import (
	"math"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/rng"
)

const (
	halfLength      = 45
	fullLength      = 90
	substitutions   = 5
	windows         = 3
	midfield        = 2
	lastZone        = 4
	homeLiveBoost   = 1.05
	momentumDecay   = 0.92
	goalMomentum    = 0.75
	rivalMomentum   = 0.75
	varReview       = 0.15
	varOverturn     = 0.32
	varMomentum     = 0.35
	maxChance       = 0.42
	minLiveStrength = 10.0
	redCardFloor    = 0.62
)

var (
	ourZoneWeight   = [5]float64{1.90, 1.40, 1.00, 0.64, 0.35}
	rivalZoneWeight = [5]float64{0.35, 0.64, 1.00, 1.40, 1.90}
	firstHalfStops  = map[int]bool{25: true, 30: true, 40: true}
	windowStops     = map[int]bool{55: true, 60: true, 70: true, 80: true}
	keyStops        = map[int]bool{75: true, 85: true}
)

// Config tunes an engine. The zero Config is usable.
type Config struct {
	// EventBoost scales chance and card rates; 1.0 plays at the batch tempo and
	// 1.5 gives a busier match to watch. Zero means 1.0.
	EventBoost float64 `yaml:"event_boost" json:"event_boost"`
	// GoalFactors overrides the per-competition goal scale.
	GoalFactors map[string]float64 `yaml:"goal_factors" json:"goal_factors,omitempty"`
}

// OutcomeKind tells the caller what Tick did.
type OutcomeKind int

const (
	OutcomeContinue OutcomeKind = iota
	OutcomeDecisionRequested
	OutcomeFinished
)

var outcomeNames = []string{"continue", "decision_requested", "finished"}

func (k OutcomeKind) String() string { return enumName(outcomeNames, int(k)) }

func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Verdict is the final result from the controlled side's point of view.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictWin
	VerdictDraw
	VerdictLoss
)

var verdictNames = []string{"none", "win", "draw", "loss"}

func (v Verdict) String() string { return enumName(verdictNames, int(v)) }

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Outcome is the result of one Tick.
type Outcome struct {
	Kind    OutcomeKind         `json:"kind"`
	Phase   Phase               `json:"phase"`
	Minute  int                 `json:"minute"`
	Added   int                 `json:"added,omitempty"`
	Request *Request            `json:"request,omitempty"`
	Result  *league.MatchResult `json:"result,omitempty"`
	Verdict Verdict             `json:"verdict,omitempty"`
}

type step int

const (
	stepChance step = iota
	stepCard
	stepInjury
	stepTimeWasting
	stepWindow
	stepEnd
)

// Engine owns one live match. It is not safe for concurrent use.
type Engine struct {
	rng        *rng.Rand
	seed       int64
	teams      [2]*league.Team
	side       league.Side
	tactic     league.Tactic
	base       [2]float64
	boost      float64
	goalFactor float64

	state   SessionState
	next    step
	pending *Request
	events  []Event
}

// New prepares a match between home and away in which side is controlled from
// the bench with the given tactic (nil means league.DefaultTactic). The rival
// always plays the default tactic.
func New(cfg Config, home, away *league.Team, seed int64, side league.Side, tactic *league.Tactic) *Engine {
	boost := cfg.EventBoost
	if boost <= 0 {
		boost = 1.0
	}
	t := league.DefaultTactic()
	if tactic != nil {
		t = *tactic
	}
	e := &Engine{
		rng:        rng.New(seed),
		seed:       seed,
		teams:      [2]*league.Team{home, away},
		side:       side,
		tactic:     t,
		boost:      boost,
		goalFactor: league.NewSimulator(cfg.GoalFactors).MatchGoalFactor(home, away),
		state: SessionState{
			Phase:       PhaseKickoff,
			Ball:        midfield,
			SubsLeft:    substitutions,
			WindowsLeft: windows,
			Concussion:  true,
			Lineups:     [2]Lineup{newLineup(home), newLineup(away)},
		},
	}
	e.refreshBase(league.Home)
	e.refreshBase(league.Away)
	return e
}

// State returns a copy of the session state.
func (e *Engine) State() SessionState { return e.state.clone() }

// Pending returns the decision the engine is waiting for, if any.
func (e *Engine) Pending() (Request, bool) {
	if e.pending == nil {
		return Request{}, false
	}
	return *e.pending, true
}

// Events returns the log from index from onwards.
func (e *Engine) Events(from int) []Event {
	if from < 0 {
		from = 0
	}
	if from >= len(e.events) {
		return nil
	}
	return append([]Event(nil), e.events[from:]...)
}

// Side returns the controlled side.
func (e *Engine) Side() league.Side { return e.side }

// Tick advances the match. Within a regular minute it runs the chance, card,
// injury, time-wasting and tactical-window steps in that order, stopping early
// when one of them needs a decision; the next Tick after Resolve carries on from
// the following step. Stoppage minutes are quiet.
func (e *Engine) Tick() (Outcome, error) {
	if e.pending != nil {
		return Outcome{}, ErrDecisionPending
	}
	st := &e.state
	switch st.Phase {
	case PhaseKickoff:
		e.emit(EventKickoff, e.side, -1, 0, 0)
		st.Phase = PhaseFirstHalf
		st.Minute = 1
		e.next = stepChance
		return e.outcome(OutcomeContinue), nil
	case PhaseFirstHalf, PhaseSecondHalf:
		return e.playMinute(), nil
	case PhaseFirstHalfStoppage, PhaseSecondHalfStoppage:
		return e.playStoppage(), nil
	case PhaseHalftime:
		e.startSecondHalf()
		return e.outcome(OutcomeContinue), nil
	default:
		return Outcome{}, ErrMatchFinished
	}
}

func (e *Engine) playMinute() Outcome {
	st := &e.state
	for e.next <= stepEnd {
		s := e.next
		e.next++
		if req := e.runStep(s); req != nil {
			e.pending = req
			out := e.outcome(OutcomeDecisionRequested)
			out.Request = req
			return out
		}
	}

	e.next = stepChance
	switch st.Minute {
	case halfLength:
		e.beginStoppage(PhaseFirstHalfStoppage, false)
	case fullLength:
		e.beginStoppage(PhaseSecondHalfStoppage, true)
	default:
		st.Minute++
	}
	return e.outcome(OutcomeContinue)
}

func (e *Engine) runStep(s step) *Request {
	switch s {
	case stepChance:
		return e.maybeChance()
	case stepCard:
		return e.maybeCard()
	case stepInjury:
		return e.maybeInjury()
	case stepTimeWasting:
		e.maybeTimeWasting()
	case stepWindow:
		return e.maybeWindow()
	case stepEnd:
		e.state.decayOrder()
		e.state.Momentum *= momentumDecay
	}
	return nil
}

func (e *Engine) beginStoppage(phase Phase, second bool) {
	st := &e.state
	h := st.Halves[0]
	if second {
		h = st.Halves[1]
	}
	jitter := e.rng.NextIntRange(0, MaxJitter(second)+1)
	st.Stoppage = StoppageMinutes(second, h, e.tactic.TimeWasting, jitter)
	st.Added = 0
	st.Phase = phase
	e.emit(EventStoppageTime, e.side, -1, 0, st.Stoppage)
}

func (e *Engine) playStoppage() Outcome {
	st := &e.state
	st.Added++
	if st.Added < st.Stoppage {
		return e.outcome(OutcomeContinue)
	}
	if st.Phase == PhaseFirstHalfStoppage {
		st.Phase = PhaseHalftime
		e.emit(EventHalfTime, e.side, -1, 0, 0)
		req := e.request(DecisionHalftime, e.side)
		e.pending = req
		out := e.outcome(OutcomeDecisionRequested)
		out.Request = req
		return out
	}

	st.Phase = PhaseFullTime
	e.emit(EventFullTime, e.side, -1, 0, 0)
	res := e.Result()
	out := e.outcome(OutcomeFinished)
	out.Result = &res
	out.Verdict = e.verdict()
	return out
}

func (e *Engine) startSecondHalf() {
	st := &e.state
	st.Phase = PhaseSecondHalf
	st.Minute = halfLength + 1
	st.Added = 0
	st.Stoppage = 0
	st.Ball = midfield
	e.next = stepChance
}

// Result is the match result so far; after full time it is final.
func (e *Engine) Result() league.MatchResult {
	st := &e.state
	return league.MatchResult{
		HomeTeamID:     e.teams[league.Home].ID,
		AwayTeamID:     e.teams[league.Away].ID,
		Seed:           e.seed,
		HomeGoals:      st.Score[league.Home],
		AwayGoals:      st.Score[league.Away],
		HomeStrength:   e.base[league.Home],
		AwayStrength:   e.base[league.Away],
		HomeRedCards:   st.RedCards[league.Home],
		AwayRedCards:   st.RedCards[league.Away],
		HomeDisallowed: st.Disallowed[league.Home],
		AwayDisallowed: st.Disallowed[league.Away],
	}
}

func (e *Engine) verdict() Verdict {
	ours, theirs := e.state.Score[e.side], e.state.Score[e.side.Other()]
	switch {
	case ours > theirs:
		return VerdictWin
	case ours < theirs:
		return VerdictLoss
	default:
		return VerdictDraw
	}
}

func (e *Engine) outcome(kind OutcomeKind) Outcome {
	return Outcome{Kind: kind, Phase: e.state.Phase, Minute: e.state.Minute, Added: e.state.Added}
}

func (e *Engine) emit(kind EventKind, side league.Side, slot, playerID, value int) {
	st := &e.state
	e.events = append(e.events, Event{
		Kind:      kind,
		Minute:    st.Minute,
		Added:     st.Added,
		Side:      side,
		Slot:      slot,
		PlayerID:  playerID,
		Value:     value,
		HomeGoals: st.Score[league.Home],
		AwayGoals: st.Score[league.Away],
	})
}

// refreshBase rates the eleven currently on the pitch for side.
func (e *Engine) refreshBase(side league.Side) {
	squad := league.NewMatchSquad(e.state.Lineups[side].Players)
	base := league.Strength(squad, nil, false)
	if side == league.Home {
		base *= homeLiveBoost
	}
	e.base[side] = base
}

func (e *Engine) leading() bool {
	return e.state.Score[e.side] > e.state.Score[e.side.Other()]
}

func (e *Engine) trailing() bool {
	return e.state.Score[e.side] < e.state.Score[e.side.Other()]
}

// liveStrengths returns this minute's strength of the controlled side and the
// rival, plus the tempo multiplier.
func (e *Engine) liveStrengths() (ours, theirs, tempo float64) {
	st := &e.state
	order := st.activeOrder()
	other := e.side.Other()

	tempo = 1.0
	switch order {
	case OrderCalm:
		tempo *= 0.82
	case OrderPress:
		tempo *= 1.18
	}
	if e.tactic.TimeWasting && e.leading() {
		tempo *= 0.78
	}

	ours = e.base[e.side] + e.tactic.Adjustment(false) + st.Momentum
	theirs = e.base[other] - rivalMomentum*st.Momentum
	switch order {
	case OrderAttack:
		ours += 1.7
		theirs += 0.9
	case OrderDefend:
		ours -= 0.6
		theirs -= 0.8
	case OrderPress:
		ours += 0.8
		theirs -= 0.4
	}
	ours *= math.Max(redCardFloor, 1.0-0.1*float64(st.RedCards[e.side]))
	theirs *= math.Max(redCardFloor, 1.0-0.1*float64(st.RedCards[other]))
	return math.Max(minLiveStrength, ours), math.Max(minLiveStrength, theirs), tempo
}

// driftBall moves the ball one zone at most. Zone 0 is the rival's goal, so the
// stronger the controlled side the more often the ball heads towards 0.
func (e *Engine) driftBall(ours, theirs float64) {
	total := math.Max(ours+theirs, 0.01)
	p := ours / total
	r := e.rng.NextDouble()
	switch {
	case r < p*0.55:
		if e.state.Ball > 0 {
			e.state.Ball--
		}
	case r < p*0.55+(1-p)*0.55:
		if e.state.Ball < lastZone {
			e.state.Ball++
		}
	}
}

func (e *Engine) maybeChance() *Request {
	st := &e.state
	ours, theirs, tempo := e.liveStrengths()
	e.driftBall(ours, theirs)

	ratio := ours / math.Max(ours+theirs, 0.01)
	scale := tempo * e.boost * e.goalFactor
	pOurs := league.ClampProbability(math.Min(maxChance, 0.02*ourZoneWeight[st.Ball]*(0.85+ratio*0.9)*scale))
	pTheirs := league.ClampProbability(math.Min(maxChance, 0.02*rivalZoneWeight[st.Ball]*(0.85+(1-ratio)*0.9)*scale))

	order := st.activeOrder()
	r := e.rng.NextDouble()
	switch {
	case r < pOurs:
		conv := 0.18 + (ours-theirs)/220.0
		switch order {
		case OrderAttack:
			conv += 0.05
		case OrderDefend:
			conv -= 0.03
		case OrderCalm:
			conv -= 0.02
		}
		conv = clamp(conv*e.goalFactor, 0.07, 0.62)
		return e.shoot(e.side, conv)
	case r < pOurs+pTheirs:
		conv := 0.18 + (theirs-ours)/220.0
		switch order {
		case OrderDefend:
			conv -= 0.04
		case OrderAttack:
			conv += 0.04
		}
		conv = clamp(conv*e.goalFactor, 0.07, 0.60)
		return e.shoot(e.side.Other(), conv)
	}
	return nil
}

func (e *Engine) shoot(side league.Side, conv float64) *Request {
	e.emit(EventChance, side, -1, 0, 0)
	if e.rng.NextDouble() >= league.ClampProbability(conv) {
		return nil
	}
	return e.registerGoal(side)
}

func (e *Engine) registerGoal(side league.Side) *Request {
	st := &e.state
	sign := 1.0
	if side != e.side {
		sign = -1.0
	}
	st.Score[side]++
	st.half().Goals++
	st.Momentum += sign * goalMomentum
	st.Ball = midfield
	e.emit(EventGoal, side, -1, 0, 0)

	if e.rng.NextDouble() < varReview {
		st.half().VARReviews++
		e.emit(EventVARReview, side, -1, 0, 0)
		if e.rng.NextDouble() < varOverturn {
			st.Score[side]--
			st.half().Goals--
			st.Disallowed[side]++
			st.Momentum -= sign * varMomentum
			e.emit(EventVAROverturned, side, -1, 0, 0)
			return nil
		}
		e.emit(EventVARConfirmed, side, -1, 0, 0)
	}
	return e.request(DecisionPostGoal, side)
}

func (e *Engine) request(kind DecisionKind, side league.Side) *Request {
	return &Request{
		Kind:             kind,
		Side:             side,
		Minute:           e.state.Minute,
		MaxSubstitutions: e.maxSubstitutions(kind),
	}
}

func (e *Engine) maybeCard() *Request {
	st := &e.state
	hard := e.tactic.Fouls == league.FoulsHard
	pressing := st.activeOrder() == OrderPress

	p := 0.008
	if hard {
		p += 0.004
	}
	if pressing {
		p += 0.004
	}
	if e.rng.NextDouble() >= league.ClampProbability(p*e.boost) {
		return nil
	}

	ourShare := 0.52
	if hard {
		ourShare += 0.10
	}
	side := e.side.Other()
	if e.rng.NextDouble() < ourShare {
		side = e.side
	}
	lineup := &st.Lineups[side]
	slot, ok := lineup.pickEligible(e.rng)
	if !ok {
		return nil
	}
	player := lineup.Players[slot].ID
	lineup.Yellows[slot]++
	st.half().Yellows++
	e.emit(EventYellowCard, side, slot, player, lineup.Yellows[slot])

	dismissed := lineup.Yellows[slot] >= 2
	if !dismissed {
		pRed := 0.07
		if side == e.side {
			pRed = 0.06
			if hard {
				pRed += 0.08
			}
			if pressing {
				pRed += 0.05
			}
		}
		dismissed = e.rng.NextDouble() < pRed
	}
	if !dismissed {
		return nil
	}

	lineup.Dismissed[slot] = true
	st.RedCards[side]++
	st.half().Reds++
	if side == e.side {
		st.Momentum -= 0.45
	} else {
		st.Momentum += 0.35
	}
	e.emit(EventRedCard, side, slot, player, 0)
	return e.request(DecisionRedCard, side)
}

func (e *Engine) maybeInjury() *Request {
	st := &e.state
	p := 0.0025
	if st.activeOrder() == OrderPress {
		p += 0.0015
	}
	if e.rng.NextDouble() >= p {
		return nil
	}

	side := e.side.Other()
	if e.rng.NextDouble() < 0.5 {
		side = e.side
	}
	e.emit(EventInjury, side, -1, 0, 0)
	switch {
	case side == e.side && st.Concussion:
		return e.request(DecisionInjury, side)
	case side == e.side:
		st.Momentum -= 0.08
	default:
		st.Momentum += 0.05
	}
	return nil
}

func (e *Engine) maybeTimeWasting() {
	st := &e.state
	if e.tactic.TimeWasting && e.leading() {
		p := 0.020
		if st.Minute < 60 {
			p *= 0.60
		}
		if e.rng.NextDouble() < p {
			st.half().TimeWasting++
			st.Momentum += 0.03
			e.emit(EventTimeWasting, e.side, -1, 0, 0)
			return
		}
	}
	if e.trailing() && st.Minute >= 70 {
		if e.rng.NextDouble() < 0.018 {
			st.half().TimeWasting++
			st.Momentum -= 0.04
			e.emit(EventTimeWasting, e.side.Other(), -1, 0, 0)
		}
	}
}

func (e *Engine) maybeWindow() *Request {
	st := &e.state
	m := st.Minute
	if st.Phase == PhaseFirstHalf {
		if firstHalfStops[m] {
			return e.request(DecisionTacticalWindow, e.side)
		}
		return nil
	}
	if windowStops[m] && st.WindowsLeft > 0 && st.SubsLeft > 0 {
		return e.request(DecisionTacticalWindow, e.side)
	}
	if keyStops[m] {
		return e.request(DecisionTacticalWindow, e.side)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
