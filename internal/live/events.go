package live

import (
	"fmt"

	"github.com/utakatalp/league-engine/internal/league"
)

// EventKind classifies an entry in the match log.
type EventKind int

const (
	EventKickoff EventKind = iota
	EventChance
	EventGoal
	EventVARReview
	EventVAROverturned
	EventVARConfirmed
	EventYellowCard
	EventRedCard
	EventInjury
	EventSubstitution
	EventOrderIssued
	EventTacticChanged
	EventTimeWasting
	EventStoppageTime
	EventHalfTime
	EventFullTime
)

var eventNames = []string{
	"kickoff", "chance", "goal", "var_review", "var_overturned", "var_confirmed",
	"yellow_card", "red_card", "injury", "substitution", "order_issued",
	"tactic_changed", "time_wasting", "stoppage_time", "half_time", "full_time",
}

func (k EventKind) String() string { return enumName(eventNames, int(k)) }

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event is one line of the match log. It carries enough context for a renderer
// to narrate the match without asking the engine anything else.
//
// Slot is the lineup slot involved, or -1. Value depends on Kind: stoppage
// minutes for StoppageTime, the order for OrderIssued, the bench index for
// Substitution.
type Event struct {
	Kind      EventKind   `json:"kind"`
	Minute    int         `json:"minute"`
	Added     int         `json:"added,omitempty"`
	Side      league.Side `json:"side"`
	Slot      int         `json:"slot"`
	PlayerID  int         `json:"player_id,omitempty"`
	Value     int         `json:"value"`
	HomeGoals int         `json:"home_goals"`
	AwayGoals int         `json:"away_goals"`
}

// Clock renders the match clock, e.g. 45+2.
func (e Event) Clock() string {
	if e.Added > 0 {
		return fmt.Sprintf("%d+%d", e.Minute, e.Added)
	}
	return fmt.Sprintf("%d", e.Minute)
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func parseEnum(names []string, kind string, b []byte, dst *int) error {
	s := string(b)
	for i, n := range names {
		if n == s {
			*dst = i
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q", kind, s)
}
