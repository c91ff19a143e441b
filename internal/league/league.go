package league

import "fmt"

// NeutralRating is the form/morale value that contributes nothing to strength.
// A zero Form or Morale is read as "not provided" and treated as neutral.
const NeutralRating = 50

// Side identifies one of the two teams in a fixture.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Away {
		return "away"
	}
	return "home"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "home":
		*s = Home
	case "away":
		*s = Away
	default:
		return fmt.Errorf("invalid side %q", b)
	}
	return nil
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Player is an immutable attribute bag. Attributes range 0..99.
type Player struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Position    Position `json:"position" yaml:"position"`
	Speed       int      `json:"speed" yaml:"speed"`
	Stamina     int      `json:"stamina" yaml:"stamina"`
	Aggression  int      `json:"aggression" yaml:"aggression"`
	Quality     int      `json:"quality" yaml:"quality"`
	Goalkeeping int      `json:"goalkeeping" yaml:"goalkeeping"`
	Tackling    int      `json:"tackling" yaml:"tackling"`
	Dribbling   int      `json:"dribbling" yaml:"dribbling"`
	Finishing   int      `json:"finishing" yaml:"finishing"`
	Passing     int      `json:"passing" yaml:"passing"`
	Shooting    int      `json:"shooting" yaml:"shooting"`
	Overall     int      `json:"overall" yaml:"overall"`
	Form        int      `json:"form,omitempty" yaml:"form,omitempty"`
	Morale      int      `json:"morale,omitempty" yaml:"morale,omitempty"`
}

func (p Player) form() int {
	if p.Form == 0 {
		return NeutralRating
	}
	return p.Form
}

func (p Player) morale() int {
	if p.Morale == 0 {
		return NeutralRating
	}
	return p.Morale
}

// Team represents a club in the league.
type Team struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Competition string   `json:"competition" yaml:"competition"`
	Roster      []Player `json:"roster" yaml:"roster"`
}

// Fixture is one scheduled meeting between two teams.
type Fixture struct {
	ID       int   `json:"id"`
	Matchday int   `json:"matchday"`
	Home     *Team `json:"home"`
	Away     *Team `json:"away"`
}

// MatchResult is the immutable outcome of one simulated fixture, together with the
// inputs needed to reproduce it.
type MatchResult struct {
	HomeTeamID     int     `json:"home_team_id"`
	AwayTeamID     int     `json:"away_team_id"`
	Seed           int64   `json:"seed"`
	HomeGoals      int     `json:"home_goals"`
	AwayGoals      int     `json:"away_goals"`
	HomeStrength   float64 `json:"home_strength"`
	AwayStrength   float64 `json:"away_strength"`
	HomeRedCards   int     `json:"home_red_cards"`
	AwayRedCards   int     `json:"away_red_cards"`
	HomeDisallowed int     `json:"home_disallowed"`
	AwayDisallowed int     `json:"away_disallowed"`
}

// Goals returns the goals scored by side.
func (r MatchResult) Goals(side Side) int {
	if side == Away {
		return r.AwayGoals
	}
	return r.HomeGoals
}

// Winner reports the winning side; ok is false for a draw.
func (r MatchResult) Winner() (side Side, ok bool) {
	switch {
	case r.HomeGoals > r.AwayGoals:
		return Home, true
	case r.AwayGoals > r.HomeGoals:
		return Away, true
	default:
		return Home, false
	}
}

// Prediction is a team's estimated probability, in percent, of an outcome such as
// winning the title.
type Prediction struct {
	Team        *Team   `json:"team"`
	Probability float64 `json:"probability"`
}
