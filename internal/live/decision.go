package live

import (
	"errors"
	"fmt"

	"github.com/utakatalp/league-engine/internal/league"
)

var (
	// ErrDecisionPending is returned by Tick until the pending decision is resolved.
	ErrDecisionPending = errors.New("live: decision pending")
	// ErrNoDecisionPending is returned by Resolve when nothing was asked.
	ErrNoDecisionPending = errors.New("live: no decision pending")
	// ErrMatchFinished is returned by Tick after full time.
	ErrMatchFinished = errors.New("live: match finished")
	// ErrRejected is wrapped by every *RejectionError.
	ErrRejected = errors.New("live: decision rejected")
)

// RejectionError explains why Resolve refused a decision. The engine state is
// untouched and the same decision stays pending.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return "live: decision rejected: " + e.Reason }

func (e *RejectionError) Unwrap() error { return ErrRejected }

func reject(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// Order is a short-lived instruction from the bench. Only one runs at a time.
type Order int

const (
	OrderNone Order = iota
	OrderAttack
	OrderDefend
	OrderPress
	OrderCalm
)

var orderNames = []string{"none", "attack", "defend", "press", "calm"}

func (o Order) String() string { return enumName(orderNames, int(o)) }

func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Order) UnmarshalText(b []byte) error {
	return parseEnum(orderNames, "order", b, (*int)(o))
}

// duration in minutes.
func (o Order) duration() int {
	switch o {
	case OrderAttack, OrderDefend:
		return 10
	case OrderPress, OrderCalm:
		return 8
	default:
		return 0
	}
}

// DecisionKind says why the engine stopped.
type DecisionKind int

const (
	DecisionNone DecisionKind = iota
	DecisionPostGoal
	DecisionRedCard
	DecisionTacticalWindow
	DecisionInjury
	DecisionHalftime
)

var decisionNames = []string{"none", "post_goal", "red_card", "tactical_window", "injury", "halftime"}

func (k DecisionKind) String() string { return enumName(decisionNames, int(k)) }

func (k DecisionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Request describes a pending decision and what the caller may do with it.
type Request struct {
	Kind             DecisionKind `json:"kind"`
	Side             league.Side  `json:"side"`
	Minute           int          `json:"minute"`
	MaxSubstitutions int          `json:"max_substitutions"`
}

// Substitution swaps the player in lineup slot Out for bench player In.
type Substitution struct {
	Out int `json:"out"`
	In  int `json:"in"`
}

// Decision answers a Request. The zero Decision means "carry on".
type Decision struct {
	Order         Order          `json:"order"`
	Tactic        *league.Tactic `json:"tactic,omitempty"`
	Substitutions []Substitution `json:"substitutions,omitempty"`
}

// maxSubstitutions is how many changes the pending decision allows. Halftime is
// a free window; an injury only offers the one concussion replacement; any other
// stop costs a window. Never more than the unused bench.
func (e *Engine) maxSubstitutions(kind DecisionKind) int {
	st := &e.state
	n := 0
	switch kind {
	case DecisionHalftime:
		n = st.SubsLeft
	case DecisionInjury:
		if st.Concussion {
			n = 1
		}
	default:
		if st.WindowsLeft > 0 {
			n = st.SubsLeft
		}
	}
	return min(n, st.Lineups[e.side].benchAvailable())
}

func (e *Engine) validate(d Decision) error {
	if d.Order < OrderNone || d.Order > OrderCalm {
		return reject("unknown order %d", int(d.Order))
	}
	if d.Tactic != nil {
		if err := ValidateTactic(*d.Tactic); err != nil {
			return err
		}
	}
	if allowed := e.maxSubstitutions(e.pending.Kind); len(d.Substitutions) > allowed {
		return reject("%d substitutions requested, %d allowed", len(d.Substitutions), allowed)
	}

	lineup := &e.state.Lineups[e.side]
	outs := make(map[int]bool, len(d.Substitutions))
	ins := make(map[int]bool, len(d.Substitutions))
	for _, sub := range d.Substitutions {
		switch {
		case sub.Out < 0 || sub.Out >= len(lineup.Players):
			return reject("slot %d is not in the lineup", sub.Out)
		case lineup.Dismissed[sub.Out]:
			return reject("slot %d was sent off", sub.Out)
		case outs[sub.Out]:
			return reject("slot %d is replaced twice", sub.Out)
		case sub.In < 0 || sub.In >= len(lineup.Bench):
			return reject("bench player %d does not exist", sub.In)
		case lineup.BenchUsed[sub.In] || ins[sub.In]:
			return reject("bench player %d already came on", sub.In)
		}
		outs[sub.Out], ins[sub.In] = true, true
	}
	return nil
}

// ValidateTactic rejects enum values outside their range and a counter-attack
// share outside 0..100.
func ValidateTactic(t league.Tactic) error {
	switch {
	case t.Style < league.StyleBalanced || t.Style > league.StyleAttacking:
		return reject("unknown game style %d", int(t.Style))
	case t.Pressing < league.PressingMedium || t.Pressing > league.PressingHigh:
		return reject("unknown pressing %d", int(t.Pressing))
	case t.Marking < league.MarkingMan || t.Marking > league.MarkingZone:
		return reject("unknown marking %d", int(t.Marking))
	case t.Fouls < league.FoulsNormal || t.Fouls > league.FoulsHard:
		return reject("unknown foul policy %d", int(t.Fouls))
	case t.Clearance < league.ClearanceLong || t.Clearance > league.ClearanceControlled:
		return reject("unknown clearance %d", int(t.Clearance))
	case t.CounterAttackPct < 0 || t.CounterAttackPct > 100:
		return reject("counter-attack share %d outside 0..100", t.CounterAttackPct)
	}
	return nil
}

// Resolve answers the pending decision. An invalid decision is rejected with a
// *RejectionError and nothing changes; a valid one is applied in full (tactic,
// then substitutions, then the order) and play may continue.
func (e *Engine) Resolve(d Decision) error {
	if e.pending == nil {
		return ErrNoDecisionPending
	}
	if err := e.validate(d); err != nil {
		return err
	}

	kind := e.pending.Kind
	if d.Tactic != nil {
		e.tactic = *d.Tactic
		e.emit(EventTacticChanged, e.side, -1, 0, 0)
	}
	if len(d.Substitutions) > 0 {
		e.substitute(kind, d.Substitutions)
	}
	if d.Order != OrderNone {
		e.issueOrder(d.Order)
	}

	e.pending = nil
	if kind == DecisionHalftime {
		e.startSecondHalf()
	}
	return nil
}

func (e *Engine) substitute(kind DecisionKind, subs []Substitution) {
	st := &e.state
	lineup := &st.Lineups[e.side]
	for _, sub := range subs {
		lineup.Players[sub.Out] = lineup.Bench[sub.In]
		lineup.BenchUsed[sub.In] = true
		lineup.Replaced[sub.Out] = true
		lineup.Yellows[sub.Out] = 0
		e.emit(EventSubstitution, e.side, sub.Out, lineup.Players[sub.Out].ID, sub.In)
	}

	n := len(subs)
	st.half().Substitutions += n
	switch kind {
	case DecisionInjury:
		st.Concussion = false
		st.Momentum -= 0.10
	case DecisionHalftime:
		st.SubsLeft -= n
	default:
		st.SubsLeft -= n
		st.WindowsLeft--
		st.Momentum += 0.06 * float64(n)
	}
	e.refreshBase(e.side)
}

func (e *Engine) issueOrder(o Order) {
	st := &e.state
	switch o {
	case OrderAttack:
		st.Momentum += 0.12
	case OrderDefend:
		st.Momentum -= 0.05
	case OrderPress:
		st.Momentum += 0.08
	case OrderCalm:
		if e.leading() {
			st.Momentum += 0.03
		} else {
			st.Momentum -= 0.03
		}
	}
	st.Order = o
	st.OrderMinutes = o.duration()
	e.emit(EventOrderIssued, e.side, -1, 0, int(o))
}
