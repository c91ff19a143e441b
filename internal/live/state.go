package live

import (
	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/rng"
)

// Phase is a stage of the match clock.
type Phase int

const (
	PhaseKickoff Phase = iota
	PhaseFirstHalf
	PhaseFirstHalfStoppage
	PhaseHalftime
	PhaseSecondHalf
	PhaseSecondHalfStoppage
	PhaseFullTime
)

var phaseNames = []string{
	"kickoff", "first_half", "first_half_stoppage", "halftime",
	"second_half", "second_half_stoppage", "full_time",
}

func (p Phase) String() string { return enumName(phaseNames, int(p)) }

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// HalfStats counts the events of one half that feed stoppage time.
type HalfStats struct {
	Yellows       int `json:"yellows"`
	Reds          int `json:"reds"`
	VARReviews    int `json:"var_reviews"`
	Goals         int `json:"goals"`
	Substitutions int `json:"substitutions"`
	TimeWasting   int `json:"time_wasting"`
}

func (h HalfStats) eventful() bool {
	return h.Yellows+h.Reds+h.VARReviews+h.Goals+h.Substitutions > 0
}

// Lineup is one side's eleven on the pitch, indexed by slot, plus its bench.
// Replaced marks slots whose starter went off; the substitute now in that slot
// may still be replaced at a later window.
type Lineup struct {
	Players   []league.Player `json:"players"`
	Bench     []league.Player `json:"bench"`
	BenchUsed []bool          `json:"bench_used"`
	Yellows   []int           `json:"yellows"`
	Dismissed []bool          `json:"dismissed"`
	Replaced  []bool          `json:"replaced"`
}

func newLineup(team *league.Team) Lineup {
	squad := league.SelectSquad(team)
	bench := league.Bench(team)
	n := squad.Len()
	return Lineup{
		Players:   squad.Players,
		Bench:     bench,
		BenchUsed: make([]bool, len(bench)),
		Yellows:   make([]int, n),
		Dismissed: make([]bool, n),
		Replaced:  make([]bool, n),
	}
}

// eligible returns the slots of players still on the pitch.
func (l *Lineup) eligible() []int {
	slots := make([]int, 0, len(l.Players))
	for i := range l.Players {
		if !l.Dismissed[i] {
			slots = append(slots, i)
		}
	}
	return slots
}

func (l *Lineup) pickEligible(r *rng.Rand) (int, bool) {
	slots := l.eligible()
	if len(slots) == 0 {
		return 0, false
	}
	return slots[r.NextInt(len(slots))], true
}

func (l *Lineup) benchAvailable() int {
	n := 0
	for _, used := range l.BenchUsed {
		if !used {
			n++
		}
	}
	return n
}

func (l Lineup) clone() Lineup {
	return Lineup{
		Players:   append([]league.Player(nil), l.Players...),
		Bench:     append([]league.Player(nil), l.Bench...),
		BenchUsed: append([]bool(nil), l.BenchUsed...),
		Yellows:   append([]int(nil), l.Yellows...),
		Dismissed: append([]bool(nil), l.Dismissed...),
		Replaced:  append([]bool(nil), l.Replaced...),
	}
}

// SessionState is everything that changes during a live match. It belongs to one
// Engine and is never shared; Engine.State hands out deep copies.
type SessionState struct {
	Phase        Phase        `json:"phase"`
	Minute       int          `json:"minute"`
	Added        int          `json:"added"`
	Stoppage     int          `json:"stoppage"`
	Score        [2]int       `json:"score"`
	Momentum     float64      `json:"momentum"`
	Ball         int          `json:"ball"`
	Halves       [2]HalfStats `json:"halves"`
	Order        Order        `json:"order"`
	OrderMinutes int          `json:"order_minutes"`
	RedCards     [2]int       `json:"red_cards"`
	Disallowed   [2]int       `json:"disallowed"`
	SubsLeft     int          `json:"subs_left"`
	WindowsLeft  int          `json:"windows_left"`
	Concussion   bool         `json:"concussion_sub"`
	Lineups      [2]Lineup    `json:"lineups"`
}

func (s *SessionState) half() *HalfStats {
	if s.Phase >= PhaseHalftime {
		return &s.Halves[1]
	}
	return &s.Halves[0]
}

// activeOrder is the order still running this minute, or OrderNone.
func (s *SessionState) activeOrder() Order {
	if s.OrderMinutes > 0 {
		return s.Order
	}
	return OrderNone
}

func (s *SessionState) decayOrder() {
	if s.OrderMinutes > 0 {
		s.OrderMinutes--
	}
	if s.OrderMinutes == 0 {
		s.Order = OrderNone
	}
}

func (s SessionState) clone() SessionState {
	s.Lineups = [2]Lineup{s.Lineups[0].clone(), s.Lineups[1].clone()}
	return s
}
