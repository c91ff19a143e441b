package league

import "fmt"

// Position is a player's nominal role. Squad bands are assigned by rating order,
// not by Position.
type Position int

const (
	PositionUnknown Position = iota
	Goalkeeper
	Defender
	Midfielder
	Forward
)

var positionNames = []string{"unknown", "goalkeeper", "defender", "midfielder", "forward"}

func (p Position) String() string { return enumName(positionNames, int(p)) }

func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Position) UnmarshalText(b []byte) error {
	return parseEnum(positionNames, "position", b, (*int)(p))
}

// GameStyle is the overall attacking intent. The zero value is balanced.
type GameStyle int

const (
	StyleBalanced GameStyle = iota
	StyleDefensive
	StyleAttacking
)

var styleNames = []string{"balanced", "defensive", "attacking"}

func (s GameStyle) String() string { return enumName(styleNames, int(s)) }

func (s GameStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *GameStyle) UnmarshalText(b []byte) error {
	return parseEnum(styleNames, "game style", b, (*int)(s))
}

// Pressing is the pressing intensity. The zero value is medium.
type Pressing int

const (
	PressingMedium Pressing = iota
	PressingLow
	PressingHigh
)

var pressingNames = []string{"medium", "low", "high"}

func (p Pressing) String() string { return enumName(pressingNames, int(p)) }

func (p Pressing) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Pressing) UnmarshalText(b []byte) error {
	return parseEnum(pressingNames, "pressing", b, (*int)(p))
}

// Marking is the defensive marking scheme. The zero value is man marking.
type Marking int

const (
	MarkingMan Marking = iota
	MarkingZone
)

var markingNames = []string{"man", "zone"}

func (m Marking) String() string { return enumName(markingNames, int(m)) }

func (m Marking) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Marking) UnmarshalText(b []byte) error {
	return parseEnum(markingNames, "marking", b, (*int)(m))
}

// FoulPolicy controls how hard a side tackles. The zero value is normal.
type FoulPolicy int

const (
	FoulsNormal FoulPolicy = iota
	FoulsClean
	FoulsHard
)

var foulNames = []string{"normal", "clean", "hard"}

func (f FoulPolicy) String() string { return enumName(foulNames, int(f)) }

func (f FoulPolicy) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FoulPolicy) UnmarshalText(b []byte) error {
	return parseEnum(foulNames, "foul policy", b, (*int)(f))
}

// Clearance is how the back line clears the ball. The zero value is long.
type Clearance int

const (
	ClearanceLong Clearance = iota
	ClearanceControlled
)

var clearanceNames = []string{"long", "controlled"}

func (c Clearance) String() string { return enumName(clearanceNames, int(c)) }

func (c Clearance) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clearance) UnmarshalText(b []byte) error {
	return parseEnum(clearanceNames, "clearance", b, (*int)(c))
}

// Tactic is the per-match configuration of one side. The zero value behaves like
// DefaultTactic; a nil *Tactic means DefaultTactic.
type Tactic struct {
	Style            GameStyle  `json:"style" yaml:"style"`
	Pressing         Pressing   `json:"pressing" yaml:"pressing"`
	Marking          Marking    `json:"marking" yaml:"marking"`
	Fouls            FoulPolicy `json:"fouls" yaml:"fouls"`
	CounterAttackPct int        `json:"counter_attack_pct" yaml:"counter_attack_pct"`
	Clearance        Clearance  `json:"clearance" yaml:"clearance"`
	TimeWasting      bool       `json:"time_wasting" yaml:"time_wasting"`
}

// DefaultTactic is a balanced, medium-press, man-marking setup with 30% counter play.
func DefaultTactic() Tactic {
	return Tactic{CounterAttackPct: 30}
}

func tacticOrDefault(t *Tactic) Tactic {
	if t == nil {
		return DefaultTactic()
	}
	return *t
}

// Adjustment is the additive strength modifier of a tactic; home adds the
// home-ground bonus. Terms are independent of each other.
func (t Tactic) Adjustment(home bool) float64 {
	adj := 0.0
	if home {
		adj = 3.0
	}
	switch t.Style {
	case StyleAttacking:
		adj += 1.5
	case StyleDefensive:
		adj -= 1.0
	}
	switch t.Pressing {
	case PressingHigh:
		adj += 1.0
	case PressingLow:
		adj -= 0.5
	}
	if t.Marking == MarkingMan {
		adj += 0.3
	}
	if t.Fouls == FoulsHard {
		adj += 0.2
	}
	if t.CounterAttackPct > 60 {
		adj += 0.3
	}
	if t.Clearance == ClearanceControlled {
		adj += 0.2
	}
	if t.TimeWasting {
		adj -= 0.4
	}
	return adj
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
